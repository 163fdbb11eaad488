package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scene-editor/internal/editor"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file.cyb>...",
		Short: "Decode scene files and summarize their objects",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err == nil {
					var s string
					if s, err = editor.Summary(data); err == nil {
						fmt.Fprintf(cmd.OutOrStdout(), "%s: %s", path, s)
						continue
					}
				}
				failed++
				a.log.Warn("scene check failed", "path", path, "err", err)
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be read", failed, len(args))
			}
			return nil
		},
	}
}
