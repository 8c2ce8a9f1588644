package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/LifeAtul/YouVid-Downloader/internal/platform"
	"github.com/LifeAtul/YouVid-Downloader/internal/update"
)

// UpdateFlags returns the flags of the update command
func UpdateFlags() []cli.Flag {
	return append(commonFlags(),
		&cli.BoolFlag{
			Name:  "force",
			Usage: "reinstall even when the latest release was already applied",
		},
	)
}

// UpdateAction downloads the latest yt-dlp release into the bundled tool
// directory next to the binary.
func UpdateAction(ctx context.Context, cmd *cli.Command) error {
	app, err := NewAppContext(ctx, cmd)
	if err != nil {
		return err
	}

	lastChecked := app.Store.Snapshot().LastChecked
	if cmd.Bool("force") {
		lastChecked = ""
	}

	dest := platform.BundledToolPath(platform.ExecutableDir(), platform.YTDLPDirName, platform.YTDLPBinary)

	updater := update.NewUpdater()
	updater.SetProgressCallback(func(fraction float64) {
		if fraction < 0 {
			return
		}
		app.Console.Progress(fraction, "Downloading yt-dlp")
	})

	app.Console.Log("Checking for yt-dlp updates...")
	tag, updated, err := updater.Check(ctx, dest, lastChecked)
	app.Console.Done()
	if err != nil {
		return err
	}

	if err := app.Store.SetLastChecked(tag); err != nil {
		return err
	}

	if updated {
		app.Console.Logf("yt-dlp %s installed at %s", tag, dest)
	} else {
		app.Console.Logf("yt-dlp %s is already current", tag)
	}
	return nil
}
