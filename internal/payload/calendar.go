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
	"strings"
	"time"
)

const (
	icalDateTime = "20060102T150405"
	icalDate     = "20060102"
)

// localLayouts are the datetime-local shapes browsers and clients submit.
var localLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// encodeEvent builds a standalone VCALENDAR with one VEVENT. Every property
// line is present even when blank so scanners see a stable layout.
func encodeEvent(f EventForm) string {
	if strings.TrimSpace(f.Title) == "" || strings.TrimSpace(f.Start) == "" {
		return ""
	}
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"BEGIN:VEVENT",
		"DTSTART:" + icalTime(f.Start),
		"DTEND:" + icalTime(f.End),
		"SUMMARY:" + escapeText(f.Title),
		"LOCATION:" + escapeText(f.Location),
		"DESCRIPTION:" + escapeText(f.Description),
		"END:VEVENT",
		"END:VCALENDAR",
	}
	return strings.Join(lines, "\n")
}

// icalTime converts a datetime-local or RFC 3339 value to iCalendar basic
// format. Unrecognised input keeps its digits and separators minus '-' and ':'.
func icalTime(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range localLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(icalDateTime)
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Format(icalDateTime) + "Z"
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format(icalDate)
	}
	return strings.NewReplacer("-", "", ":", "").Replace(s)
}
