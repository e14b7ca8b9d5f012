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
	"fmt"
	"strings"
)

// Format is an artifact encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatSVG  Format = "svg"
	FormatJPEG Format = "jpeg"
)

// ParseFormat maps a user supplied format name to a Format. An empty name
// selects PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "svg":
		return FormatSVG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	default:
		return "", fmt.Errorf("unsupported format %q", s)
	}
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatJPEG:
		return "image/jpeg"
	default:
		return "image/png"
	}
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return string(f)
}

// Artifact is a rendered QR image.
type Artifact struct {
	Data   []byte `json:"-"`
	Format Format `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ContentType returns the MIME type of the artifact data.
func (a *Artifact) ContentType() string {
	return a.Format.ContentType()
}
