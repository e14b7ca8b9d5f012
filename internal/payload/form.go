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
	"strings"

	"github.com/goccy/go-json"
)

// ErrUnknownField is returned by WithField when the form has no such field.
var ErrUnknownField = errors.New("unknown form field")

// Form is the category tagged form data of a single QR code. The set of
// implementations is closed: one struct per Category.
type Form interface {
	Category() Category
	// set returns a copy of the form with one field replaced.
	set(field, value string) (Form, bool)
}

// LinkForm holds a website address.
type LinkForm struct {
	URL string `json:"url"`
}

// CallForm holds a phone number to dial.
type CallForm struct {
	Phone string `json:"phone"`
}

// MailForm holds a pre-filled email.
type MailForm struct {
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message,omitempty"`
}

// SMSForm holds a pre-filled text message.
type SMSForm struct {
	Phone   string `json:"phone"`
	Message string `json:"message,omitempty"`
}

// WhatsAppForm holds a WhatsApp click-to-chat target.
type WhatsAppForm struct {
	Phone   string `json:"waPhone"`
	Message string `json:"waBody,omitempty"`
}

// WiFiForm holds network credentials.
type WiFiForm struct {
	SSID       string `json:"ssid"`
	Password   string `json:"password,omitempty"`
	Encryption string `json:"encryption,omitempty"`
	Hidden     bool   `json:"hidden,omitempty"`
}

// EventForm holds a calendar entry. Times are datetime-local strings.
type EventForm struct {
	Title       string `json:"eventTitle"`
	Start       string `json:"eventStart"`
	End         string `json:"eventEnd,omitempty"`
	Location    string `json:"eventLocation,omitempty"`
	Description string `json:"eventDescription,omitempty"`
}

// ContactForm holds a business card.
type ContactForm struct {
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Organization string `json:"organization,omitempty"`
	Title        string `json:"title,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	Address      string `json:"address,omitempty"`
	Website      string `json:"website,omitempty"`
}

// SocialForm holds a social profile link.
type SocialForm struct {
	URL      string `json:"url"`
	Platform string `json:"platform,omitempty"`
}

// AppForm holds an app store link.
type AppForm struct {
	URL   string `json:"url"`
	Store string `json:"store,omitempty"`
}

// VideoForm holds a hosted video link.
type VideoForm struct {
	URL string `json:"url"`
}

// ImageForm holds a hosted image link.
type ImageForm struct {
	URL string `json:"url"`
}

// PDFForm holds a hosted document link.
type PDFForm struct {
	URL string `json:"url"`
}

// BulkForm holds a newline separated list, one QR code per line.
type BulkForm struct {
	List string `json:"list"`
}

// BarcodeForm holds free text for a plain 2D code.
type BarcodeForm struct {
	Value string `json:"value"`
}

func (LinkForm) Category() Category     { return CategoryLink }
func (CallForm) Category() Category     { return CategoryCall }
func (MailForm) Category() Category     { return CategoryMail }
func (SMSForm) Category() Category      { return CategorySMS }
func (WhatsAppForm) Category() Category { return CategoryWhatsApp }
func (WiFiForm) Category() Category     { return CategoryWiFi }
func (EventForm) Category() Category    { return CategoryEvent }
func (ContactForm) Category() Category  { return CategoryContact }
func (SocialForm) Category() Category   { return CategorySocial }
func (AppForm) Category() Category      { return CategoryApp }
func (VideoForm) Category() Category    { return CategoryVideo }
func (ImageForm) Category() Category    { return CategoryImage }
func (PDFForm) Category() Category      { return CategoryPDF }
func (BulkForm) Category() Category     { return CategoryBulk }
func (BarcodeForm) Category() Category  { return CategoryBarcode2D }

func (f LinkForm) set(field, value string) (Form, bool) {
	if field != "url" {
		return f, false
	}
	f.URL = value
	return f, true
}

func (f CallForm) set(field, value string) (Form, bool) {
	if field != "phone" {
		return f, false
	}
	f.Phone = value
	return f, true
}

func (f MailForm) set(field, value string) (Form, bool) {
	switch field {
	case "email":
		f.Email = value
	case "subject":
		f.Subject = value
	case "message":
		f.Message = value
	default:
		return f, false
	}
	return f, true
}

func (f SMSForm) set(field, value string) (Form, bool) {
	switch field {
	case "phone":
		f.Phone = value
	case "message":
		f.Message = value
	default:
		return f, false
	}
	return f, true
}

func (f WhatsAppForm) set(field, value string) (Form, bool) {
	switch field {
	case "waPhone":
		f.Phone = value
	case "waBody":
		f.Message = value
	default:
		return f, false
	}
	return f, true
}

func (f WiFiForm) set(field, value string) (Form, bool) {
	switch field {
	case "ssid":
		f.SSID = value
	case "password":
		f.Password = value
	case "encryption":
		f.Encryption = value
	case "hidden":
		v := strings.ToLower(strings.TrimSpace(value))
		f.Hidden = v == "true" || v == "1" || v == "yes"
	default:
		return f, false
	}
	return f, true
}

func (f EventForm) set(field, value string) (Form, bool) {
	switch field {
	case "eventTitle":
		f.Title = value
	case "eventStart":
		f.Start = value
	case "eventEnd":
		f.End = value
	case "eventLocation":
		f.Location = value
	case "eventDescription":
		f.Description = value
	default:
		return f, false
	}
	return f, true
}

func (f ContactForm) set(field, value string) (Form, bool) {
	switch field {
	case "firstName":
		f.FirstName = value
	case "lastName":
		f.LastName = value
	case "organization":
		f.Organization = value
	case "title":
		f.Title = value
	case "phone":
		f.Phone = value
	case "email":
		f.Email = value
	case "address":
		f.Address = value
	case "website":
		f.Website = value
	default:
		return f, false
	}
	return f, true
}

func (f SocialForm) set(field, value string) (Form, bool) {
	switch field {
	case "url":
		f.URL = value
	case "platform":
		f.Platform = value
	default:
		return f, false
	}
	return f, true
}

func (f AppForm) set(field, value string) (Form, bool) {
	switch field {
	case "url":
		f.URL = value
	case "store":
		f.Store = value
	default:
		return f, false
	}
	return f, true
}

func (f VideoForm) set(field, value string) (Form, bool) {
	if field != "url" {
		return f, false
	}
	f.URL = value
	return f, true
}

func (f ImageForm) set(field, value string) (Form, bool) {
	if field != "url" {
		return f, false
	}
	f.URL = value
	return f, true
}

func (f PDFForm) set(field, value string) (Form, bool) {
	if field != "url" {
		return f, false
	}
	f.URL = value
	return f, true
}

func (f BulkForm) set(field, value string) (Form, bool) {
	if field != "list" {
		return f, false
	}
	f.List = value
	return f, true
}

func (f BarcodeForm) set(field, value string) (Form, bool) {
	if field != "value" {
		return f, false
	}
	f.Value = value
	return f, true
}

// NewForm returns the empty form for a category.
func NewForm(c Category) (Form, error) {
	switch c {
	case CategoryLink:
		return LinkForm{}, nil
	case CategoryCall:
		return CallForm{}, nil
	case CategoryMail:
		return MailForm{}, nil
	case CategorySMS:
		return SMSForm{}, nil
	case CategoryWhatsApp:
		return WhatsAppForm{}, nil
	case CategoryWiFi:
		return WiFiForm{Encryption: "WPA"}, nil
	case CategoryEvent:
		return EventForm{}, nil
	case CategoryContact:
		return ContactForm{}, nil
	case CategorySocial:
		return SocialForm{}, nil
	case CategoryApp:
		return AppForm{}, nil
	case CategoryVideo:
		return VideoForm{}, nil
	case CategoryImage:
		return ImageForm{}, nil
	case CategoryPDF:
		return PDFForm{}, nil
	case CategoryBulk:
		return BulkForm{}, nil
	case CategoryBarcode2D:
		return BarcodeForm{}, nil
	default:
		return nil, fmt.Errorf("unknown category %q", c)
	}
}

// DecodeForm unmarshals the JSON object raw into the form struct of category c.
// Fields that do not belong to the category are ignored. An empty raw value
// yields the category's empty form.
func DecodeForm(c Category, raw []byte) (Form, error) {
	form, err := NewForm(c)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return form, nil
	}

	switch f := form.(type) {
	case LinkForm:
		return decodeInto(raw, f)
	case CallForm:
		return decodeInto(raw, f)
	case MailForm:
		return decodeInto(raw, f)
	case SMSForm:
		return decodeInto(raw, f)
	case WhatsAppForm:
		return decodeInto(raw, f)
	case WiFiForm:
		return decodeInto(raw, f)
	case EventForm:
		return decodeInto(raw, f)
	case ContactForm:
		return decodeInto(raw, f)
	case SocialForm:
		return decodeInto(raw, f)
	case AppForm:
		return decodeInto(raw, f)
	case VideoForm:
		return decodeInto(raw, f)
	case ImageForm:
		return decodeInto(raw, f)
	case PDFForm:
		return decodeInto(raw, f)
	case BulkForm:
		return decodeInto(raw, f)
	case BarcodeForm:
		return decodeInto(raw, f)
	default:
		return nil, fmt.Errorf("unknown category %q", c)
	}
}

func decodeInto[T Form](raw []byte, f T) (Form, error) {
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode %s form: %w", f.Category(), err)
	}
	return f, nil
}

// WithField returns a copy of form with a single field replaced. The field
// name is the JSON name of the field (e.g. "waPhone", "eventStart").
func WithField(form Form, field, value string) (Form, error) {
	if form == nil {
		return nil, fmt.Errorf("set %q: nil form", field)
	}
	next, ok := form.set(field, value)
	if !ok {
		return form, fmt.Errorf("%w %q for category %s", ErrUnknownField, field, form.Category())
	}
	return next, nil
}
