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

import (
	"github.com/skip2/go-qrcode"

	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/payload"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/style"
)

// quietZone is the number of light modules around the symbol.
const quietZone = 4

const finderSize = 7

// matrix is a QR symbol plus its quiet zone, addressed in module units.
type matrix struct {
	dark    [][]bool
	symbol  int
	modules int
}

func buildMatrix(content string, recovery style.Recovery) (*matrix, error) {
	if content == "" {
		return nil, &payload.EncodingError{Reason: "empty payload"}
	}

	q, err := qrcode.New(content, recoveryLevel(recovery))
	if err != nil {
		return nil, &payload.EncodingError{Reason: "payload does not fit in a QR symbol", Err: err}
	}
	q.DisableBorder = true

	bits := q.Bitmap()
	return &matrix{
		dark:    bits,
		symbol:  len(bits),
		modules: len(bits) + 2*quietZone,
	}, nil
}

func recoveryLevel(r style.Recovery) qrcode.RecoveryLevel {
	if r == style.RecoveryHigh {
		return qrcode.High
	}
	return qrcode.Medium
}

// isDark reports whether the module at (x, y), quiet zone included, is set.
func (m *matrix) isDark(x, y int) bool {
	x -= quietZone
	y -= quietZone
	if x < 0 || y < 0 || y >= len(m.dark) || x >= len(m.dark[y]) {
		return false
	}
	return m.dark[y][x]
}

// finderOrigins returns the top-left module of each finder pattern.
func (m *matrix) finderOrigins() [3][2]int {
	far := quietZone + m.symbol - finderSize
	return [3][2]int{
		{quietZone, quietZone},
		{far, quietZone},
		{quietZone, far},
	}
}

// inFinder reports whether (x, y) belongs to one of the finder patterns.
func (m *matrix) inFinder(x, y int) bool {
	for _, o := range m.finderOrigins() {
		if x >= o[0] && x < o[0]+finderSize && y >= o[1] && y < o[1]+finderSize {
			return true
		}
	}
	return false
}
