package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/LifeAtul/YouVid-Downloader/internal/config"
)

// ConfigShowFlags returns the flags of the config show command
func ConfigShowFlags() []cli.Flag {
	return commonFlags()
}

// ConfigSetFlags returns the flags of the config set command
func ConfigSetFlags() []cli.Flag {
	return append(commonFlags(),
		&cli.StringFlag{
			Name:  "dir",
			Usage: "default download folder",
		},
		&cli.StringFlag{
			Name:  "audio-format",
			Usage: "default audio container (m4a or mp3)",
		},
		&cli.StringFlag{
			Name:  "theme",
			Usage: "display theme (dark or light)",
		},
		&cli.BoolFlag{
			Name:  "auto-open",
			Usage: "open the download folder after successful runs",
		},
		&cli.BoolFlag{
			Name:  "auto-update",
			Usage: "check for yt-dlp releases before each run",
		},
	)
}

// ConfigShowAction prints the effective settings
func ConfigShowAction(ctx context.Context, cmd *cli.Command) error {
	app, err := NewAppContext(ctx, cmd)
	if err != nil {
		return err
	}
	cfg := app.Store.Snapshot()

	fmt.Printf("download_folder:   %s\n", cfg.DownloadFolder)
	fmt.Printf("theme:             %s\n", cfg.Theme)
	fmt.Printf("auto_open_folder:  %t\n", cfg.AutoOpenFolder)
	fmt.Printf("auto_update_ytdlp: %t\n", cfg.AutoUpdateYTDLP)
	fmt.Printf("audio_format:      %s\n", cfg.AudioFormat)
	fmt.Printf("last_checked:      %s\n", cfg.LastChecked)
	return nil
}

// ConfigSetAction updates and persists settings fields
func ConfigSetAction(ctx context.Context, cmd *cli.Command) error {
	app, err := NewAppContext(ctx, cmd)
	if err != nil {
		return err
	}

	if f := cmd.String("audio-format"); f != "" && f != config.AudioFormatM4A && f != config.AudioFormatMP3 {
		return fmt.Errorf("unsupported audio format %q (use %s or %s)", f, config.AudioFormatM4A, config.AudioFormatMP3)
	}
	if th := cmd.String("theme"); th != "" && th != config.ThemeDark && th != config.ThemeLight {
		return fmt.Errorf("unsupported theme %q (use %s or %s)", th, config.ThemeDark, config.ThemeLight)
	}

	changed := false
	err = app.Store.Update(func(set *config.Settings) {
		if dir := cmd.String("dir"); dir != "" {
			set.DownloadFolder = dir
			changed = true
		}
		if f := cmd.String("audio-format"); f != "" {
			set.AudioFormat = f
			changed = true
		}
		if th := cmd.String("theme"); th != "" {
			set.Theme = th
			changed = true
		}
		if cmd.IsSet("auto-open") {
			set.AutoOpenFolder = cmd.Bool("auto-open")
			changed = true
		}
		if cmd.IsSet("auto-update") {
			set.AutoUpdateYTDLP = cmd.Bool("auto-update")
			changed = true
		}
	})
	if err != nil {
		return err
	}
	if !changed {
		return fmt.Errorf("nothing to change; pass at least one setting flag")
	}
	return ConfigShowAction(ctx, cmd)
}
