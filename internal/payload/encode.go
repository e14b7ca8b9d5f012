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
	"regexp"
	"strings"
)

// ContactFormat selects the wire format of contact payloads.
type ContactFormat string

const (
	// ContactVCard is the canonical vCard 3.0 block.
	ContactVCard ContactFormat = "vcard"
	// ContactMECARD is the single line MECARD export format.
	ContactMECARD ContactFormat = "mecard"
)

// ParseContactFormat returns the contact format named by s, defaulting to vCard.
func ParseContactFormat(s string) ContactFormat {
	if ContactFormat(strings.ToLower(strings.TrimSpace(s))) == ContactMECARD {
		return ContactMECARD
	}
	return ContactVCard
}

// Options tune deployment specific encoding choices.
type Options struct {
	ContactFormat ContactFormat
}

var schemePrefix = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// Encode returns the payload for form using the default options. It never
// fails: incomplete or unknown forms yield an empty string.
func Encode(form Form) string {
	return EncodeWith(form, Options{})
}

// EncodeWith returns the payload for form using opts.
func EncodeWith(form Form, opts Options) string {
	switch f := form.(type) {
	case LinkForm:
		return encodeLink(f.URL)
	case CallForm:
		return encodeCall(f)
	case MailForm:
		return encodeMail(f)
	case SMSForm:
		return encodeSMS(f)
	case WhatsAppForm:
		return encodeWhatsApp(f)
	case WiFiForm:
		return encodeWiFi(f)
	case EventForm:
		return encodeEvent(f)
	case ContactForm:
		if opts.ContactFormat == ContactMECARD {
			return encodeMECARD(f)
		}
		return encodeVCard(f)
	case SocialForm:
		return f.URL
	case AppForm:
		return f.URL
	case VideoForm:
		return f.URL
	case ImageForm:
		return f.URL
	case PDFForm:
		return f.URL
	case BulkForm:
		return strings.Join(BulkLines(f.List), "\n")
	case BarcodeForm:
		return f.Value
	default:
		return ""
	}
}

// Explain is Encode for callers that need a reason when the payload is empty.
func Explain(form Form, opts Options) (string, error) {
	if form == nil {
		return "", &EncodingError{Reason: "no form data"}
	}
	if !IsComplete(form) {
		return "", &EncodingError{Category: form.Category(), Reason: "required fields missing", Err: ErrIncomplete}
	}
	p := EncodeWith(form, opts)
	if p == "" {
		return "", &EncodingError{Category: form.Category(), Reason: "form produced an empty payload"}
	}
	return p, nil
}

// NormalizeURL trims raw, prefixes https:// when it has no scheme and
// percent-encodes any whitespace left inside it.
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	if !schemePrefix.MatchString(u) {
		u = "https://" + u
	}
	return escapeWhitespace(u)
}

func encodeLink(raw string) string {
	return NormalizeURL(raw)
}

func encodeCall(f CallForm) string {
	phone := stripSpaces(f.Phone)
	if phone == "" {
		return ""
	}
	return "tel:" + phone
}

func encodeMail(f MailForm) string {
	email := strings.TrimSpace(f.Email)
	if email == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("mailto:")
	b.WriteString(mailtoAddress(email))
	sep := "?"
	if f.Subject != "" {
		b.WriteString(sep + "subject=" + uriComponent(f.Subject))
		sep = "&"
	}
	if f.Message != "" {
		b.WriteString(sep + "body=" + uriComponent(f.Message))
	}
	return b.String()
}

func encodeSMS(f SMSForm) string {
	phone := stripSpaces(f.Phone)
	if phone == "" {
		return ""
	}
	out := "sms:" + phone
	if f.Message != "" {
		out += "?body=" + uriComponent(f.Message)
	}
	return out
}

func encodeWhatsApp(f WhatsAppForm) string {
	digits := digitsOnly(f.Phone)
	if digits == "" {
		return ""
	}
	out := "https://wa.me/" + digits
	if f.Message != "" {
		out += "?text=" + uriComponent(f.Message)
	}
	return out
}

// wifiEncryption maps user input to the T: value of a WIFI: payload.
func wifiEncryption(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wep":
		return "WEP"
	case "none", "nopass", "open":
		return "None"
	default:
		return "WPA"
	}
}

func encodeWiFi(f WiFiForm) string {
	if f.SSID == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("WIFI:T:")
	b.WriteString(wifiEncryption(f.Encryption))
	b.WriteString(";S:")
	b.WriteString(escapeMeCard(f.SSID))
	b.WriteString(";P:")
	b.WriteString(escapeMeCard(f.Password))
	b.WriteString(";")
	if f.Hidden {
		b.WriteString("H:true;")
	}
	b.WriteString(";")
	return b.String()
}

// BulkLines splits a bulk list into trimmed, non-blank lines.
func BulkLines(list string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(list, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
