package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/LifeAtul/YouVid-Downloader/internal/download"
)

// BatchFlags returns the flags of the batch command
func BatchFlags() []cli.Flag {
	return append(flowFlags(),
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "read URLs from a file, one per line",
		},
	)
}

// BatchAction downloads a list of URLs strictly one after another
func BatchAction(ctx context.Context, cmd *cli.Command) error {
	urls := cmd.Args().Slice()
	if file := cmd.String("file"); file != "" {
		fromFile, err := readURLFile(file)
		if err != nil {
			return err
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
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

	app.WireItemRendering(len(urls))
	return app.RunFlow(ctx, func(ctx context.Context) error {
		batch, err := app.Service.DownloadBatch(ctx, cfg, urls)
		if err != nil {
			return err
		}
		if batch.Failed > 0 {
			return fmt.Errorf("%d of %d downloads failed", batch.Failed, batch.Total())
		}
		return nil
	})
}

// readURLFile loads one URL per line, skipping blanks and # comments
func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open URL file: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read URL file: %w", err)
	}
	return urls, nil
}
