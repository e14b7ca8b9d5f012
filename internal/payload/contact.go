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

import "strings"

// encodeVCard renders a vCard 3.0 block. Blank properties are kept so the
// property order N, FN, ORG, TITLE, TEL, EMAIL, ADR never changes; URL is
// appended only when a website is given.
func encodeVCard(f ContactForm) string {
	if !hasContactIdentity(f) {
		return ""
	}
	first := escapeText(f.FirstName)
	last := escapeText(f.LastName)
	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"N:" + last + ";" + first + ";;;",
		"FN:" + strings.TrimSpace(first+" "+last),
		"ORG:" + escapeText(f.Organization),
		"TITLE:" + escapeText(f.Title),
		"TEL:" + stripSpaces(f.Phone),
		"EMAIL:" + strings.TrimSpace(f.Email),
		"ADR:;;" + escapeText(f.Address) + ";;;;",
	}
	if w := strings.TrimSpace(f.Website); w != "" {
		lines = append(lines, "URL:"+NormalizeURL(w))
	}
	lines = append(lines, "END:VCARD")
	return strings.Join(lines, "\n")
}

// encodeMECARD renders the single line MECARD form. Empty fields are omitted.
func encodeMECARD(f ContactForm) string {
	if !hasContactIdentity(f) {
		return ""
	}
	var b strings.Builder
	b.WriteString("MECARD:")
	name := strings.TrimSpace(f.LastName)
	if first := strings.TrimSpace(f.FirstName); first != "" {
		if name != "" {
			name += ","
		}
		name += first
	}
	writeMeCardField(&b, "N", name, false)
	writeMeCardField(&b, "ORG", f.Organization, true)
	writeMeCardField(&b, "TEL", stripSpaces(f.Phone), true)
	writeMeCardField(&b, "EMAIL", f.Email, true)
	writeMeCardField(&b, "ADR", f.Address, true)
	if w := strings.TrimSpace(f.Website); w != "" {
		writeMeCardField(&b, "URL", NormalizeURL(w), true)
	}
	b.WriteString(";")
	return b.String()
}

// writeMeCardField writes KEY:value; and skips blank values. The N field keeps
// its comma separator unescaped.
func writeMeCardField(b *strings.Builder, key, value string, escape bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if escape {
		value = escapeMeCard(value)
	} else {
		value = strings.NewReplacer(`\`, `\\`, `;`, `\;`, `:`, `\:`, `"`, `\"`).Replace(value)
	}
	b.WriteString(key + ":" + value + ";")
}

func hasContactIdentity(f ContactForm) bool {
	return strings.TrimSpace(f.FirstName) != "" ||
		strings.TrimSpace(f.LastName) != "" ||
		strings.TrimSpace(f.Organization) != ""
}
