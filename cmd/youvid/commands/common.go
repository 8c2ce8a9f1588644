package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/LifeAtul/YouVid-Downloader/internal/config"
	"github.com/LifeAtul/YouVid-Downloader/internal/download"
	"github.com/LifeAtul/YouVid-Downloader/internal/model"
	"github.com/LifeAtul/YouVid-Downloader/internal/platform"
	"github.com/LifeAtul/YouVid-Downloader/internal/ui"
	"github.com/LifeAtul/YouVid-Downloader/internal/update"
)

// AppContext holds the shared wiring every command needs: the settings store,
// the download service around a single runner, and the console renderer fed
// through the dispatch queue.
type AppContext struct {
	Store      *config.Store
	Runner     *platform.Runner
	Service    *download.Service
	Console    *ui.Console
	Dispatcher *ui.Dispatcher

	tools    platform.Tools
	toolsErr error
}

// NewAppContext loads environment overrides and settings and assembles the
// service graph. Missing external tools are not an error here; commands that
// invoke yt-dlp check via RequireTools.
func NewAppContext(ctx context.Context, cmd *cli.Command) (*AppContext, error) {
	level := slog.LevelWarn
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	if envFile := cmd.String("env"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	configPath := cmd.String("config")
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	store := config.Load(configPath)

	runner := platform.NewRunner()
	tools, toolsErr := platform.LocateTools(platform.ExecutableDir())

	app := &AppContext{
		Store:      store,
		Runner:     runner,
		Service:    download.NewService(tools, runner),
		Console:    ui.NewConsole(os.Stdout),
		Dispatcher: ui.NewDispatcher(),
		tools:      tools,
		toolsErr:   toolsErr,
	}
	return app, nil
}

// RequireTools returns the resolved tool paths or the lookup error. Commands
// that spawn yt-dlp call this before doing anything else.
func (app *AppContext) RequireTools() (platform.Tools, error) {
	if app.toolsErr != nil {
		return app.tools, fmt.Errorf("%w (place the binaries next to youvid or on PATH, or run 'youvid update')", app.toolsErr)
	}
	return app.tools, nil
}

// FlowSettings takes the settings snapshot for one flow and applies the
// per-invocation flag overrides on top of it.
func (app *AppContext) FlowSettings(cmd *cli.Command) config.Settings {
	cfg := app.Store.Snapshot()
	if dir := cmd.String("dir"); dir != "" {
		cfg.DownloadFolder = dir
	}
	if cmd.Bool("no-open") {
		cfg.AutoOpenFolder = false
	}
	return cfg
}

// WireJobRendering routes job and log callbacks into the dispatch queue for
// single and playlist flows.
func (app *AppContext) WireJobRendering() {
	app.Service.SetJobCallback(func(job model.Job) {
		app.Dispatcher.Enqueue(func() { renderJob(app.Console, job) })
	})
	app.Service.SetLogCallback(func(line string) {
		app.Dispatcher.Enqueue(func() { app.Console.Log(line) })
	})
}

// WireItemRendering routes batch item, combined-fraction and log callbacks
// into the dispatch queue; the per-run job callback stays silent so each item
// renders once.
func (app *AppContext) WireItemRendering(total int) {
	r := &batchRenderer{console: app.Console, total: total}
	app.Service.SetBatchCallback(func(overall float64) {
		app.Dispatcher.Enqueue(func() { r.SetOverall(overall) })
	})
	app.Service.SetItemCallback(func(item model.BatchItem) {
		app.Dispatcher.Enqueue(func() { r.Render(item) })
	})
	app.Service.SetLogCallback(func(line string) {
		app.Dispatcher.Enqueue(func() { app.Console.Log(line) })
	})
}

// RunFlow executes a blocking download flow on a worker goroutine while the
// calling goroutine drains the dispatch queue at the standard interval. It
// returns once the flow has finished and its final updates are rendered.
func (app *AppContext) RunFlow(ctx context.Context, flow func(context.Context) error) error {
	renderCtx, stopRender := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- flow(ctx)
		stopRender()
	}()

	app.Dispatcher.Run(renderCtx, ui.DefaultDrainInterval)
	app.Console.Done()
	return <-errCh
}

// MaybeAutoUpdate runs the yt-dlp self-update when the stored preference asks
// for it. Update failures are logged and swallowed; the flow proceeds with
// the binary already present.
func (app *AppContext) MaybeAutoUpdate(ctx context.Context) {
	cfg := app.Store.Snapshot()
	if !cfg.AutoUpdateYTDLP {
		return
	}

	dest := platform.BundledToolPath(platform.ExecutableDir(), platform.YTDLPDirName, platform.YTDLPBinary)
	updater := update.NewUpdater()

	tag, updated, err := updater.Check(ctx, dest, cfg.LastChecked)
	if err != nil {
		slog.Warn("yt-dlp auto-update failed", "err", err)
		return
	}
	if err := app.Store.SetLastChecked(tag); err != nil {
		slog.Warn("persist update tag failed", "err", err)
	}
	if updated {
		app.refreshTools()
	}
}

func (app *AppContext) refreshTools() {
	app.tools, app.toolsErr = platform.LocateTools(platform.ExecutableDir())
	app.Service = download.NewService(app.tools, app.Runner)
}

func renderJob(c *ui.Console, job model.Job) {
	switch job.Phase {
	case model.PhaseFinished:
		c.Done()
		c.Logf("Finished: %s", job.DisplayTitle())
	case model.PhaseFailed:
		c.Done()
		c.Logf("Failed: %s (%s)", job.DisplayTitle(), job.LastError)
	case model.PhaseCancelled:
		c.Done()
		c.Logf("Cancelled: %s", job.DisplayTitle())
	default:
		c.Progress(job.Progress, jobLabel(job))
	}
}

func jobLabel(job model.Job) string {
	parts := []string{job.Phase.Label()}
	if item := job.ItemLabel(); item != "" {
		parts = append(parts, item)
	}
	if title := job.DisplayTitle(); title != "" {
		parts = append(parts, title)
	}
	return strings.Join(parts, "  ")
}

// batchRenderer renders batch item updates. Item IDs key the transitions: a
// new ID starts the next numbered section, so the same item never prints two
// headers. The bar shows the combined batch fraction from the service, with
// the active item's own status and title as the label.
type batchRenderer struct {
	console *ui.Console
	total   int
	overall float64
	lastID  string
	index   int
}

// SetOverall records the latest combined batch fraction
func (r *batchRenderer) SetOverall(overall float64) {
	r.overall = overall
}

// Render applies one item update to the console
func (r *batchRenderer) Render(item model.BatchItem) {
	if item.ID != r.lastID {
		r.lastID = item.ID
		r.index++
		r.console.Done()
		r.console.Logf("[%d/%d] %s", r.index, r.total, item.URL)
	}

	title := item.Title
	if title == "" {
		title = item.URL
	}
	if item.Status.IsTerminal() || item.Status == model.BatchStatusIncomplete {
		r.console.Done()
		if item.LastError != "" {
			r.console.Logf("%s: %s (%s)", item.Status, title, item.LastError)
		} else {
			r.console.Logf("%s: %s", item.Status, title)
		}
		return
	}
	r.console.Progress(r.overall, fmt.Sprintf("%s  %s", item.Status, title))
}

// Flags shared by every command
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "env",
			Usage: "path to a .env overrides file",
			Value: ".env",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "path to config.json (default: next to the binary)",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "enable debug logging",
		},
	}
}

// Flags shared by the download flows
func flowFlags() []cli.Flag {
	return append(commonFlags(),
		&cli.StringFlag{
			Name:  "dir",
			Usage: "download folder for this run only",
		},
		&cli.BoolFlag{
			Name:  "no-open",
			Usage: "do not open the download folder when finished",
		},
	)
}
