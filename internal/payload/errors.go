// Copyright (c) 2026 WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package payload

import (
	"errors"
	"fmt"
)

// ErrIncomplete reports that a form is missing the fields its category needs.
// Callers treat it as a silent condition: nothing is rendered.
var ErrIncomplete = errors.New("form is incomplete")

// EncodingError describes why a form produced an empty payload.
type EncodingError struct {
	Category Category
	Reason   string
	Err      error
}

func (e *EncodingError) Error() string {
	if e.Category == "" {
		return fmt.Sprintf("encode payload: %s", e.Reason)
	}
	return fmt.Sprintf("encode %s payload: %s", e.Category, e.Reason)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}
