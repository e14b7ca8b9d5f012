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

package style

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrUnknownPreset is returned by Apply for names not in the set.
var ErrUnknownPreset = errors.New("unknown style preset")

// Presets are named styles shared by every session of a deployment.
type Presets map[string]Style

type presetFile struct {
	Presets map[string]presetEntry `yaml:"presets"`
}

type presetEntry struct {
	Style    `yaml:",inline"`
	LogoFile string `yaml:"logoFile,omitempty"`
}

// LoadPresets reads a YAML preset file. Logo paths are resolved relative to
// the file's directory.
func LoadPresets(path string) (Presets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets file: %w", err)
	}
	return ParsePresets(data, filepath.Dir(path))
}

// ParsePresets decodes preset YAML; baseDir anchors relative logoFile paths.
func ParsePresets(data []byte, baseDir string) (Presets, error) {
	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}

	out := make(Presets, len(file.Presets))
	for name, entry := range file.Presets {
		s := entry.Style
		if entry.LogoFile != "" {
			logoPath := entry.LogoFile
			if !filepath.IsAbs(logoPath) {
				logoPath = filepath.Join(baseDir, logoPath)
			}
			logo, err := os.ReadFile(logoPath)
			if err != nil {
				return nil, fmt.Errorf("preset %q: read logo: %w", name, err)
			}
			s.Logo = logo
		}
		out[name] = s
	}
	return out, nil
}

// Names returns the preset names in sorted order.
func (p Presets) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply layers s over the named preset: fields set in s win.
func (p Presets) Apply(name string, s Style) (Style, error) {
	if name == "" {
		return s, nil
	}
	base, ok := p[name]
	if !ok {
		return s, fmt.Errorf("%w %q", ErrUnknownPreset, name)
	}
	if s.Shape != "" {
		base.Shape = s.Shape
	}
	if s.BackgroundColor != "" {
		base.BackgroundColor = s.BackgroundColor
	}
	if s.ForegroundColor != "" {
		base.ForegroundColor = s.ForegroundColor
	}
	if len(s.Logo) > 0 {
		base.Logo = s.Logo
	}
	if s.LogoSizeFraction > 0 {
		base.LogoSizeFraction = s.LogoSizeFraction
	}
	return base, nil
}
