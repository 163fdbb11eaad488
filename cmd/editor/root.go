package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"scene-editor/internal/engineconfig"
	"scene-editor/internal/logger"
	"scene-editor/internal/primitives"
)

// app is the state shared by the subcommands, filled in before any of them runs.
type app struct {
	configPath string
	logFile    string
	logLevel   string

	prefs      engineconfig.EnginePrefs
	lines      *logger.Logger
	log        *slog.Logger
	primitives *primitives.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "editor",
		Short:        "Edit, export and inspect 3D scenes",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", engineconfig.EngineConfigPath, "editor preferences file")
	f.StringVar(&a.logFile, "log-file", logger.LogFilePath, "log file (empty keeps logs in memory)")
	f.StringVar(&a.logLevel, "log-level", "info", "debug, info, warn or error")

	root.AddCommand(newRunCmd(a), newExportCmd(a), newCheckCmd(a), newConfigCmd(a))
	return root
}

func (a *app) setup() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.logLevel)); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	a.lines = logger.New(a.logFile)
	a.log = a.lines.Slog(level)

	prefs, err := engineconfig.Load(a.configPath)
	if err != nil {
		a.log.Warn("using default preferences", "err", err)
	}
	a.prefs = prefs

	reg, err := primitives.LoadRegistry()
	if err != nil {
		a.log.Warn("using built-in primitive defaults", "err", err)
	}
	a.primitives = reg
	return nil
}
