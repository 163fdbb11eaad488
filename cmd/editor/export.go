package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"scene-editor/internal/editor"
	"scene-editor/internal/export"
)

func newExportCmd(a *app) *cobra.Command {
	var in, out, format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Build a scene without a window and write it as GLB or OBJ",
		Example: "  editor export --in scene.cyb --out scene.glb\n" +
			"  editor export --in scene.cyb --format obj --out -",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := outputFormat(format, out)
			if err != nil {
				return err
			}
			target := out
			if out == "-" {
				tmp, err := os.CreateTemp("", "scene-*"+f.Ext())
				if err != nil {
					return err
				}
				tmp.Close()
				defer os.Remove(tmp.Name())
				target = tmp.Name()
			}
			if err := editor.ExportFile(cmd.Context(), in, target, f, editor.Options{
				Prefs:      a.prefs,
				Log:        a.log,
				Primitives: a.primitives,
			}); err != nil {
				return err
			}
			if out == "-" {
				data, err := os.ReadFile(target)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&in, "in", "i", "", ".cyb scene to export")
	f.StringVarP(&out, "out", "o", "", "output file, or - for stdout")
	f.StringVarP(&format, "format", "f", "", "glb or obj (default from the output extension)")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// outputFormat picks the export format from the flag, falling back to the extension of out.
func outputFormat(flag, out string) (export.Format, error) {
	if flag == "" {
		flag = strings.TrimPrefix(filepath.Ext(out), ".")
	}
	if flag == "" {
		return "", fmt.Errorf("--format is required when the output has no extension")
	}
	return export.ParseFormat(flag)
}
