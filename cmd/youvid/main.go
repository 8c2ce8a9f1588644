package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/LifeAtul/YouVid-Downloader/cmd/youvid/commands"
)

func main() {
	// SIGINT/SIGTERM cancel the context, which stops the active yt-dlp run
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "youvid",
		Usage: "download videos, audio tracks and playlists via yt-dlp",
		Commands: []*cli.Command{
			{
				Name:      "download",
				Aliases:   []string{"d"},
				Usage:     "download a single video or audio track",
				ArgsUsage: "URL",
				Flags:     commands.DownloadFlags(),
				Action:    commands.DownloadAction,
			},
			{
				Name:      "batch",
				Usage:     "download multiple URLs one after another",
				ArgsUsage: "URL [URL...]",
				Flags:     commands.BatchFlags(),
				Action:    commands.BatchAction,
			},
			{
				Name:      "playlist",
				Usage:     "download every entry of a playlist",
				ArgsUsage: "URL",
				Flags:     commands.PlaylistFlags(),
				Action:    commands.PlaylistAction,
			},
			{
				Name:   "update",
				Usage:  "install the latest yt-dlp release",
				Flags:  commands.UpdateFlags(),
				Action: commands.UpdateAction,
			},
			{
				Name:  "config",
				Usage: "show or change persisted settings",
				Commands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "print the effective settings",
						Flags:  commands.ConfigShowFlags(),
						Action: commands.ConfigShowAction,
					},
					{
						Name:   "set",
						Usage:  "change one or more settings",
						Flags:  commands.ConfigSetFlags(),
						Action: commands.ConfigSetAction,
					},
				},
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
