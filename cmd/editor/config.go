package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"scene-editor/internal/engineconfig"
)

func newConfigCmd(a *app) *cobra.Command {
	var write, reset bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective preferences, or write them to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prefs := a.prefs
			if reset {
				prefs = engineconfig.Default()
			}
			if write {
				if err := engineconfig.Save(a.configPath, prefs); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", a.configPath)
				return nil
			}
			data, err := yaml.Marshal(prefs)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "save to the --config file instead of printing")
	cmd.Flags().BoolVar(&reset, "defaults", false, "use the built-in defaults instead of the loaded file")
	return cmd
}
