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

package render

import "fmt"

// ErrorKind classifies a RenderError.
type ErrorKind string

const (
	KindSize  ErrorKind = "size"
	KindLogo  ErrorKind = "logo"
	KindCodec ErrorKind = "codec"
)

// RenderError reports a failure to turn a valid payload into an image.
type RenderError struct {
	Kind   ErrorKind
	Reason string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render %s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("render %s: %s", e.Kind, e.Reason)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

func sizeError(format string, args ...any) *RenderError {
	return &RenderError{Kind: KindSize, Reason: fmt.Sprintf(format, args...)}
}
