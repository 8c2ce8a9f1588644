package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/LifeAtul/YouVid-Downloader/internal/download"
	"github.com/LifeAtul/YouVid-Downloader/internal/model"
	"github.com/LifeAtul/YouVid-Downloader/internal/platform"
)

// PlaylistFlags returns the flags of the playlist command
func PlaylistFlags() []cli.Flag {
	return flowFlags()
}

// PlaylistAction downloads every entry of a playlist in one yt-dlp run
func PlaylistAction(ctx context.Context, cmd *cli.Command) error {
	url := cmd.Args().First()
	if url == "" {
		return download.ErrNoURL
	}
	if !platform.IsPlaylistURL(url) {
		return fmt.Errorf("%q does not look like a playlist URL (no list= parameter)", url)
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

	app.WireJobRendering()
	return app.RunFlow(ctx, func(ctx context.Context) error {
		job, err := app.Service.DownloadPlaylist(ctx, cfg, url)
		if err != nil {
			return err
		}
		if job.Phase == model.PhaseFailed {
			return fmt.Errorf("playlist download failed: %s", job.LastError)
		}
		return nil
	})
}
