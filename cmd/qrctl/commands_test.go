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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/payload"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestBuildForm(t *testing.T) {
	form, err := buildForm("wifi", []byte(`{"ssid":"Home"}`), []string{"password=s3=cret", "encryption=WEP"})
	require.NoError(t, err)
	assert.Equal(t, payload.WiFiForm{SSID: "Home", Password: "s3=cret", Encryption: "WEP"}, form)

	_, err = buildForm("wifi", nil, []string{"ssid"})
	assert.Error(t, err)

	_, err = buildForm("wifi", nil, []string{"color=red"})
	assert.ErrorIs(t, err, payload.ErrUnknownField)

	_, err = buildForm("telegram", nil, nil)
	assert.Error(t, err)
}

func TestEncodeCommand(t *testing.T) {
	out, _, err := execute(t, "", "encode", "link", "-F", "url=example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com\n", out)

	out, _, err = execute(t, `{"phone":"+1 555 0100"}`, "encode", "call", "--form", "-")
	require.NoError(t, err)
	assert.Equal(t, "tel:+15550100\n", out)

	_, _, err = execute(t, "", "encode", "mail")
	assert.ErrorIs(t, err, payload.ErrIncomplete)
}

func TestEncodeCommand_MECARD(t *testing.T) {
	out, _, err := execute(t, "", "--contact-format", "mecard", "encode", "contact",
		"-F", "firstName=Ada", "-F", "lastName=Lovelace")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "MECARD:N:Lovelace,Ada;"), out)
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "code.svg")
	_, stderr, err := execute(t, "", "render", "sms", "-F", "phone=5551234", "-F", "message=hi",
		"--format", "svg", "--size", "300", "--shape", "rounded", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stderr, "300x300")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	stdout, _, err := execute(t, "", "render", "link", "-F", "url=example.com", "--size", "128", "-o", "-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "\x89PNG"))

	_, _, err = execute(t, "", "render", "link", "-F", "url=example.com", "--format", "bmp")
	assert.Error(t, err)
}

func TestBulkCommand(t *testing.T) {
	dir := t.TempDir()
	_, stderr, err := execute(t, "https://a.com\n\ntel:123\n", "bulk", "--size", "128", "-o", dir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "rendered 2 of 2")

	for _, name := range []string{"001.png", "002.png"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestCategoriesCommand(t *testing.T) {
	out, _, err := execute(t, "", "categories")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, len(payload.AllCategories))
	assert.Equal(t, "link", lines[0])
}
