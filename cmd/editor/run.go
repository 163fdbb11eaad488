package main

import (
	"github.com/spf13/cobra"

	"scene-editor/internal/editor"
	"scene-editor/internal/graphics"
	"scene-editor/internal/media"
	"scene-editor/internal/media/audio"
	"scene-editor/internal/media/video"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		scenePath string
		watch     bool
		cssPath   string
		uiFont    string
		seed      uint64
		noGrid    bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the editor window",
		Long: "Open the editor window on a scene file, or on the demo scene when no file is given.\n" +
			"ESC opens the console; type help for the command list.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prefs := a.prefs
			if cmd.Flags().Changed("seed") {
				prefs.Seed = seed
			}
			if noGrid {
				prefs.GridVisible = false
			}

			player := audio.NewPlayer()
			if err := player.Initialize(); err != nil {
				a.log.Warn("audio disabled", "err", err)
			}
			defer player.Cleanup()

			e := editor.New(editor.Options{
				Prefs:      prefs,
				Log:        a.log,
				Out:        a.lines,
				Primitives: a.primitives,
				OpenAudio: func(data []byte) (media.Audio, error) {
					t, err := player.Open(data)
					if err != nil {
						return nil, err
					}
					return t, nil
				},
				OpenVideo: func(data []byte) (media.Video, error) {
					c, err := video.Open(data)
					if err != nil {
						return nil, err
					}
					return c, nil
				},
			})
			defer e.Close()

			if scenePath == "" {
				e.LoadDemo()
			} else if err := e.Load(scenePath); err != nil {
				return err
			}
			if watch && scenePath != "" {
				if err := e.Watch(scenePath); err != nil {
					return err
				}
			}
			e.LoadFontAsync()

			return graphics.Run(e, graphics.Options{
				Log:       a.lines,
				ScenePath: scenePath,
				CSSPath:   cssPath,
				FontPath:  uiFont,
			})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&scenePath, "scene", "s", "", ".cyb scene to open; Ctrl+S saves back to it")
	f.BoolVarP(&watch, "watch", "w", false, "reload the scene when the file changes on disk")
	f.StringVar(&cssPath, "css", "", "stylesheet layered over the built-in panel styles")
	f.StringVar(&uiFont, "ui-font", "", "TTF file for panels and console")
	f.Uint64Var(&seed, "seed", 0, "random seed for particles and placement (overrides the config)")
	f.BoolVar(&noGrid, "no-grid", false, "start with the floor grid hidden")
	return cmd
}
