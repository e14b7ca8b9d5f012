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
	"net/url"
	"strings"
)

// IsComplete reports whether form carries enough data to be encoded and
// rendered. It is cheap and side-effect free; it does not produce field level
// messages.
func IsComplete(form Form) bool {
	switch f := form.(type) {
	case LinkForm:
		return isWebURL(f.URL)
	case CallForm:
		return digitsOnly(f.Phone) != ""
	case MailForm:
		return strings.Contains(strings.TrimSpace(f.Email), "@")
	case SMSForm:
		return digitsOnly(f.Phone) != ""
	case WhatsAppForm:
		return digitsOnly(f.Phone) != ""
	case WiFiForm:
		return strings.TrimSpace(f.SSID) != ""
	case EventForm:
		return strings.TrimSpace(f.Title) != "" && strings.TrimSpace(f.Start) != ""
	case ContactForm:
		return hasContactIdentity(f)
	case SocialForm:
		return isWellFormedURL(f.URL)
	case AppForm:
		return isWellFormedURL(f.URL)
	case VideoForm:
		return isWellFormedURL(f.URL)
	case ImageForm:
		return isWellFormedURL(f.URL)
	case PDFForm:
		return isWellFormedURL(f.URL)
	case BulkForm:
		return len(BulkLines(f.List)) > 0
	case BarcodeForm:
		return f.Value != ""
	default:
		return false
	}
}

// isWebURL is isWellFormedURL restricted to http and https.
func isWebURL(raw string) bool {
	u, err := url.Parse(NormalizeURL(raw))
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && isWellFormedURL(raw)
}

// isWellFormedURL checks the normalized form of raw. Web URLs need a dotted
// host (or localhost); other schemes such as market:// only need a host.
func isWellFormedURL(raw string) bool {
	normalized := NormalizeURL(raw)
	if normalized == "" {
		return false
	}
	u, err := url.Parse(normalized)
	if err != nil || u.Scheme == "" {
		return false
	}
	host := u.Hostname()
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if host == "localhost" {
			return true
		}
		return strings.Contains(host, ".") && !strings.HasPrefix(host, ".") && !strings.HasSuffix(host, ".")
	default:
		return host != ""
	}
}
