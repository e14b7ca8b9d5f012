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

// Package payload turns category specific form data into the exact content
// strings embedded in QR symbols (URLs, tel:, mailto:, WIFI:, vCard, VEVENT).
package payload

import (
	"fmt"
	"strings"
)

// Category identifies the kind of content a QR code carries.
type Category string

const (
	CategoryLink      Category = "link"
	CategoryCall      Category = "call"
	CategoryMail      Category = "mail"
	CategorySMS       Category = "sms"
	CategoryWhatsApp  Category = "whatsapp"
	CategoryWiFi      Category = "wifi"
	CategoryImage     Category = "image"
	CategoryVideo     Category = "video"
	CategoryBulk      Category = "bulkqr"
	CategoryApp       Category = "app"
	CategorySocial    Category = "social"
	CategoryEvent     Category = "event"
	CategoryBarcode2D Category = "barcode2d"
	CategoryContact   Category = "contact"
	CategoryPDF       Category = "pdf"
)

// AllCategories is the ordered list of supported categories.
var AllCategories = []Category{
	CategoryLink, CategoryCall, CategoryMail, CategorySMS, CategoryWhatsApp,
	CategoryWiFi, CategoryImage, CategoryVideo, CategoryBulk, CategoryApp,
	CategorySocial, CategoryEvent, CategoryBarcode2D, CategoryContact, CategoryPDF,
}

// ParseCategory converts user input into a Category. Matching is case-insensitive.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllCategories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

func (c Category) String() string {
	return string(c)
}
