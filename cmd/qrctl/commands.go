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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/logger"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/payload"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/qr"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/render"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/style"
)

const (
	minSize = 64
	maxSize = 4096
)

type rootOptions struct {
	presetsFile   string
	contactFormat string
	verbose       bool
}

type formOptions struct {
	formFile string
	fields   []string
}

type styleOptions struct {
	size     int
	format   string
	shape    string
	fg       string
	bg       string
	logo     string
	logoSize float64
	preset   string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "qrctl",
		Short:        "Encode and render styled QR codes",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.presetsFile, "presets", "", "YAML file with named style presets")
	cmd.PersistentFlags().StringVar(&opts.contactFormat, "contact-format", string(payload.ContactVCard), "Contact payload format (vcard or mecard)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.AddCommand(
		newEncodeCmd(opts),
		newRenderCmd(opts),
		newBulkCmd(opts),
		newCategoriesCmd(),
	)
	return cmd
}

func (o *rootOptions) encoding() payload.Options {
	return payload.Options{ContactFormat: payload.ParseContactFormat(o.contactFormat)}
}

func (o *rootOptions) logger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	l, err := logger.New("dev", zapcore.DebugLevel)
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func (o *rootOptions) service(size int) (qr.Service, error) {
	var presets style.Presets
	if o.presetsFile != "" {
		p, err := style.LoadPresets(o.presetsFile)
		if err != nil {
			return nil, err
		}
		presets = p
	}
	log := o.logger()
	return qr.NewService(log, render.NewRenderer(log, minSize, maxSize), qr.Settings{
		DefaultSize:  size,
		BulkWorkers:  4,
		BulkMaxItems: 0,
		Encoding:     o.encoding(),
		Presets:      presets,
	}), nil
}

func addFormFlags(cmd *cobra.Command, fo *formOptions) {
	cmd.Flags().StringVar(&fo.formFile, "form", "", "JSON file with the form fields (- for stdin)")
	cmd.Flags().StringArrayVarP(&fo.fields, "field", "F", nil, "Form field as name=value (repeatable)")
}

func addStyleFlags(cmd *cobra.Command, so *styleOptions) {
	cmd.Flags().IntVarP(&so.size, "size", "s", 512, "Image width and height in pixels")
	cmd.Flags().StringVar(&so.format, "format", "png", "Output format (png, svg, jpeg)")
	cmd.Flags().StringVar(&so.shape, "shape", "", "Module shape (square, circle, rounded)")
	cmd.Flags().StringVar(&so.fg, "fg", "", "Foreground color (#rrggbb)")
	cmd.Flags().StringVar(&so.bg, "bg", "", "Background color (#rrggbb or #rrggbbaa)")
	cmd.Flags().StringVar(&so.logo, "logo", "", "Logo image file (png, jpeg, gif, svg)")
	cmd.Flags().Float64Var(&so.logoSize, "logo-size", 0, "Logo side as a fraction of the image")
	cmd.Flags().StringVar(&so.preset, "preset", "", "Named style preset")
}

// buildForm starts from the category's empty form, applies the JSON form
// and then each name=value field in order.
func buildForm(category string, formJSON []byte, fields []string) (payload.Form, error) {
	c, err := payload.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	form, err := payload.DecodeForm(c, formJSON)
	if err != nil {
		return nil, err
	}
	for _, kv := range fields {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("field %q is not name=value", kv)
		}
		form, err = payload.WithField(form, strings.TrimSpace(name), value)
		if err != nil {
			return nil, err
		}
	}
	return form, nil
}

func (fo *formOptions) load(cmd *cobra.Command, category string) (payload.Form, error) {
	var raw []byte
	switch fo.formFile {
	case "":
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read form from stdin: %w", err)
		}
		raw = data
	default:
		data, err := os.ReadFile(fo.formFile)
		if err != nil {
			return nil, fmt.Errorf("read form file: %w", err)
		}
		raw = data
	}
	return buildForm(category, raw, fo.fields)
}

func (so *styleOptions) options() (qr.Options, error) {
	format, err := render.ParseFormat(so.format)
	if err != nil {
		return qr.Options{}, err
	}
	st := style.Style{
		Shape:            style.Shape(so.shape),
		ForegroundColor:  so.fg,
		BackgroundColor:  so.bg,
		LogoSizeFraction: so.logoSize,
	}
	if so.logo != "" {
		data, err := os.ReadFile(so.logo)
		if err != nil {
			return qr.Options{}, fmt.Errorf("read logo: %w", err)
		}
		st.Logo = data
	}
	return qr.Options{Size: so.size, Format: format, Style: st, Preset: so.preset}, nil
}

func newEncodeCmd(root *rootOptions) *cobra.Command {
	fo := &formOptions{}
	cmd := &cobra.Command{
		Use:   "encode <category>",
		Short: "Print the payload a form encodes to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := fo.load(cmd, args[0])
			if err != nil {
				return err
			}
			p, err := payload.Explain(form, root.encoding())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), p)
			return err
		},
	}
	addFormFlags(cmd, fo)
	return cmd
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	fo := &formOptions{}
	so := &styleOptions{}
	var out string
	cmd := &cobra.Command{
		Use:   "render <category>",
		Short: "Render a form as a QR image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := fo.load(cmd, args[0])
			if err != nil {
				return err
			}
			opts, err := so.options()
			if err != nil {
				return err
			}
			svc, err := root.service(so.size)
			if err != nil {
				return err
			}
			res, err := svc.Build(cmd.Context(), form, opts)
			if err != nil {
				return err
			}
			if out == "" {
				out = "qr." + res.Artifact.Format.Extension()
			}
			if out == "-" {
				_, err = cmd.OutOrStdout().Write(res.Artifact.Data)
				return err
			}
			if err := os.WriteFile(out, res.Artifact.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%dx%d %s)\n", out, res.Artifact.Width, res.Artifact.Height, res.Artifact.Format)
			return nil
		},
	}
	addFormFlags(cmd, fo)
	addStyleFlags(cmd, so)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (- for stdout, default qr.<ext>)")
	return cmd
}

func newBulkCmd(root *rootOptions) *cobra.Command {
	so := &styleOptions{}
	var (
		listFile string
		outDir   string
	)
	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Render one QR image per line of a list",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				list []byte
				err  error
			)
			if listFile == "" || listFile == "-" {
				list, err = io.ReadAll(cmd.InOrStdin())
			} else {
				list, err = os.ReadFile(listFile)
			}
			if err != nil {
				return fmt.Errorf("read list: %w", err)
			}
			opts, err := so.options()
			if err != nil {
				return err
			}
			svc, err := root.service(so.size)
			if err != nil {
				return err
			}
			items, err := svc.Bulk(cmd.Context(), string(list), opts)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}

			failed := 0
			for _, item := range items {
				if item.Err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "line %d: %v\n", item.Index+1, item.Err)
					continue
				}
				name := filepath.Join(outDir, fmt.Sprintf("%03d.%s", item.Index+1, item.Artifact.Format.Extension()))
				if err := os.WriteFile(name, item.Artifact.Data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", name, err)
				}
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "rendered %d of %d lines into %s\n", len(items)-failed, len(items), outDir)
			if failed > 0 {
				return fmt.Errorf("%d lines failed", failed)
			}
			return nil
		},
	}
	addStyleFlags(cmd, so)
	cmd.Flags().StringVarP(&listFile, "list", "l", "", "File with one payload per line (- or empty for stdin)")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "qrcodes", "Directory for the rendered images")
	return cmd
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the supported payload categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, c := range payload.AllCategories {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), c); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
