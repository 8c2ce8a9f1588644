package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/LifeAtul/YouVid-Downloader/internal/config"
	"github.com/LifeAtul/YouVid-Downloader/internal/download"
	"github.com/LifeAtul/YouVid-Downloader/internal/model"
)

// DownloadFlags returns the flags of the download command
func DownloadFlags() []cli.Flag {
	return append(flowFlags(),
		&cli.BoolFlag{
			Name:    "audio",
			Aliases: []string{"a"},
			Usage:   "extract audio only instead of downloading video",
		},
		&cli.StringFlag{
			Name:  "audio-format",
			Usage: "audio container for --audio (m4a or mp3)",
		},
	)
}

// DownloadAction downloads a single video or audio track
func DownloadAction(ctx context.Context, cmd *cli.Command) error {
	url := cmd.Args().First()
	if url == "" {
		return download.ErrNoURL
	}

	app, err := NewAppContext(ctx, cmd)
	if err != nil {
		return err
	}
	app.MaybeAutoUpdate(ctx)
	if _, err := app.RequireTools(); err != nil {
		return err
	}

	cfg := app.FlowSettings(cmd)
	mode := model.ModeVideo
	if cmd.Bool("audio") {
		mode = model.ModeAudio
		if f := cmd.String("audio-format"); f != "" {
			if f != config.AudioFormatM4A && f != config.AudioFormatMP3 {
				return fmt.Errorf("unsupported audio format %q (use %s or %s)", f, config.AudioFormatM4A, config.AudioFormatMP3)
			}
			cfg.AudioFormat = f
		}
	}

	app.WireJobRendering()
	return app.RunFlow(ctx, func(ctx context.Context) error {
		job, err := app.Service.DownloadSingle(ctx, cfg, url, mode)
		if err != nil {
			return err
		}
		if job.Phase == model.PhaseFailed {
			return fmt.Errorf("download failed: %s", job.LastError)
		}
		return nil
	})
}
