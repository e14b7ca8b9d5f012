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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" WiFi ")
	require.NoError(t, err)
	assert.Equal(t, CategoryWiFi, c)

	_, err = ParseCategory("fax")
	assert.Error(t, err)
}

func TestNewForm_EveryCategory(t *testing.T) {
	for _, c := range AllCategories {
		form, err := NewForm(c)
		require.NoError(t, err, c)
		assert.Equal(t, c, form.Category())
	}
	_, err := NewForm("fax")
	assert.Error(t, err)
}

func TestDecodeForm(t *testing.T) {
	form, err := DecodeForm(CategoryWhatsApp, []byte(`{"waPhone":"233544112245","waBody":"Hi","ssid":"ignored"}`))
	require.NoError(t, err)
	assert.Equal(t, WhatsAppForm{Phone: "233544112245", Message: "Hi"}, form)

	form, err = DecodeForm(CategoryWiFi, []byte(`{"ssid":"Home"}`))
	require.NoError(t, err)
	assert.Equal(t, WiFiForm{SSID: "Home", Encryption: "WPA"}, form)

	form, err = DecodeForm(CategoryEvent, nil)
	require.NoError(t, err)
	assert.Equal(t, EventForm{}, form)

	_, err = DecodeForm(CategoryLink, []byte(`{"url":`))
	assert.Error(t, err)
}

func TestWithField(t *testing.T) {
	var form Form = EventForm{Title: "Launch"}

	next, err := WithField(form, "eventStart", "2025-05-01T10:00")
	require.NoError(t, err)
	assert.Equal(t, EventForm{Title: "Launch", Start: "2025-05-01T10:00"}, next)
	assert.Equal(t, EventForm{Title: "Launch"}, form, "original value must not change")

	same, err := WithField(next, "url", "x")
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Equal(t, next, same)

	wifi, err := WithField(WiFiForm{SSID: "Home"}, "hidden", "TRUE")
	require.NoError(t, err)
	assert.True(t, wifi.(WiFiForm).Hidden)

	_, err = WithField(nil, "url", "x")
	assert.Error(t, err)
}

func TestIsComplete(t *testing.T) {
	tests := []struct {
		name string
		form Form
		want bool
	}{
		{"link", LinkForm{URL: "example.com"}, true},
		{"link blank", LinkForm{URL: " "}, false},
		{"link without host", LinkForm{URL: "https://"}, false},
		{"link bare word", LinkForm{URL: "hello"}, false},
		{"link localhost", LinkForm{URL: "http://localhost:8080"}, true},
		{"link ftp", LinkForm{URL: "ftp://example.com"}, false},
		{"link upper case scheme", LinkForm{URL: "HTTPS://example.com"}, true},
		{"event title and start", EventForm{Title: "Launch", Start: "2025-05-01T10:00"}, true},
		{"event without title", EventForm{Start: "2025-05-01T10:00"}, false},
		{"event without start", EventForm{Title: "Launch"}, false},
		{"wifi", WiFiForm{SSID: "Home"}, true},
		{"wifi no ssid", WiFiForm{Password: "x"}, false},
		{"wifi blank ssid", WiFiForm{SSID: "   "}, false},
		{"call", CallForm{Phone: "+1 555"}, true},
		{"call letters", CallForm{Phone: "abc"}, false},
		{"mail", MailForm{Email: "a@b.com"}, true},
		{"mail no at", MailForm{Email: "ab.com"}, false},
		{"sms", SMSForm{Phone: "5551234"}, true},
		{"whatsapp", WhatsAppForm{Phone: "+233"}, true},
		{"whatsapp empty", WhatsAppForm{Message: "hi"}, false},
		{"contact org only", ContactForm{Organization: "WSO2"}, true},
		{"contact phone only", ContactForm{Phone: "1"}, false},
		{"social", SocialForm{URL: "x.com/me"}, true},
		{"app store scheme", AppForm{URL: "market://details?id=com.example"}, true},
		{"video", VideoForm{URL: ""}, false},
		{"image", ImageForm{URL: "cdn.example.com/a.png"}, true},
		{"pdf", PDFForm{URL: "example.com/a.pdf"}, true},
		{"bulk", BulkForm{List: "\n a \n"}, true},
		{"bulk blank", BulkForm{List: "\n \n"}, false},
		{"barcode", BarcodeForm{Value: "x"}, true},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsComplete(tt.form))
		})
	}
}

func TestIsComplete_AgreesWithEncode(t *testing.T) {
	forms := []Form{
		LinkForm{URL: "example.com"},
		CallForm{Phone: "123"},
		MailForm{Email: "a@b.com"},
		SMSForm{Phone: "123"},
		WhatsAppForm{Phone: "123"},
		WiFiForm{SSID: "x"},
		EventForm{Title: "t", Start: "2025-01-01T00:00"},
		ContactForm{FirstName: "a"},
		BulkForm{List: "a"},
		BarcodeForm{Value: "a"},
	}
	for _, f := range forms {
		require.True(t, IsComplete(f), f.Category())
		assert.NotEmpty(t, Encode(f), f.Category())
	}
}
