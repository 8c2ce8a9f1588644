package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/LifeAtul/YouVid-Downloader/internal/config"
	"github.com/LifeAtul/YouVid-Downloader/internal/model"
	"github.com/LifeAtul/YouVid-Downloader/internal/platform"
)

var (
	// ErrNoURL means the caller submitted an empty URL or URL list
	ErrNoURL = errors.New("download: no URL provided")

	// ErrBusy means a flow is already active; only one runs at a time
	ErrBusy = errors.New("download: a download is already in progress")
)

// Service orchestrates yt-dlp invocations. All Download* methods block until
// the flow completes, so callers run them on a worker goroutine; progress
// reaches the UI through the registered callbacks, which are invoked in
// child-process output order.
type Service struct {
	tools  platform.Tools
	runner *platform.Runner

	onJob   func(model.Job)
	onItem  func(model.BatchItem)
	onBatch func(float64)
	onLog   func(string)

	busy  chan struct{}
	batch *model.Batch // set for the duration of a batch flow
}

// NewService creates a download service around resolved tool paths
func NewService(tools platform.Tools, runner *platform.Runner) *Service {
	busy := make(chan struct{}, 1)
	return &Service{
		tools:  tools,
		runner: runner,
		busy:   busy,
	}
}

// SetJobCallback registers the receiver for job state copies
func (s *Service) SetJobCallback(fn func(model.Job)) {
	s.onJob = fn
}

// SetItemCallback registers the receiver for batch item state copies
func (s *Service) SetItemCallback(fn func(model.BatchItem)) {
	s.onItem = fn
}

// SetBatchCallback registers the receiver for the combined batch fraction:
// finished items count whole, the active item contributes its own fraction.
// Delivered just before the item update that caused it.
func (s *Service) SetBatchCallback(fn func(float64)) {
	s.onBatch = fn
}

// SetLogCallback registers the sink for unrecognized raw output lines
func (s *Service) SetLogCallback(fn func(string)) {
	s.onLog = fn
}

// Cancel requests cooperative cancellation of the active flow and kills the
// child process. Safe from any goroutine.
func (s *Service) Cancel() {
	s.runner.Cancel()
}

// DownloadSingle runs one video or audio job to completion. The settings
// snapshot is taken by the caller at submission time and never re-read.
func (s *Service) DownloadSingle(ctx context.Context, cfg config.Settings, url string, mode model.JobMode) (model.Job, error) {
	if strings.TrimSpace(url) == "" {
		return model.Job{}, ErrNoURL
	}
	if err := s.acquire(); err != nil {
		return model.Job{}, err
	}
	defer s.release()

	job := s.newJob(cfg, url, mode)
	if err := platform.CreateDirectoryIfNotExists(job.OutputDir); err != nil {
		return job, fmt.Errorf("download: ensure output dir: %w", err)
	}

	s.runJob(ctx, &job, nil)
	s.maybeOpenFolder(cfg, &job)
	return job, nil
}

// DownloadBatch processes URLs strictly sequentially. A cancellation during
// item K finishes the flow immediately: item K is marked Cancelled and item
// K+1 is never started.
func (s *Service) DownloadBatch(ctx context.Context, cfg config.Settings, urls []string) (*model.Batch, error) {
	urls = cleanURLs(urls)
	if len(urls) == 0 {
		return nil, ErrNoURL
	}
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()

	batch := &model.Batch{}
	for _, url := range urls {
		batch.Items = append(batch.Items, model.NewBatchItem(uuid.NewString(), url))
	}

	if err := platform.CreateDirectoryIfNotExists(cfg.DownloadFolder); err != nil {
		return batch, fmt.Errorf("download: ensure output dir: %w", err)
	}

	s.batch = batch
	defer func() { s.batch = nil }()

	for _, item := range batch.Items {
		if !item.Included {
			continue
		}

		// A cancel that lands between items must stop the flow before the
		// next child process is spawned.
		if s.runner.Cancelled() || ctx.Err() != nil {
			item.SetStatus(model.BatchStatusCancelled)
			s.notifyItem(item)
			s.logf("Batch cancelled at %s", item.URL)
			return batch, nil
		}

		item.SetStatus(model.BatchStatusFetching)
		s.notifyItem(item)

		item.SetStatus(model.BatchStatusReady)
		s.notifyItem(item)

		job := s.newJob(cfg, item.URL, model.ModeVideo)
		s.runJob(ctx, &job, item)

		switch job.Phase {
		case model.PhaseCancelled:
			item.SetStatus(model.BatchStatusCancelled)
			s.notifyItem(item)
			s.logf("Batch cancelled at %s", item.URL)
			return batch, nil
		case model.PhaseFailed:
			batch.Failed++
			// A leftover partial file means the transfer began and was
			// interrupted, which reads better than a bare failure.
			if len(platform.PartialDownloads(cfg.DownloadFolder)) > 0 {
				item.SetStatus(model.BatchStatusIncomplete)
			} else {
				item.SetStatus(model.BatchStatusFailed)
			}
			item.LastError = job.LastError
			s.notifyItem(item)
		default:
			batch.Completed++
			if item.Status != model.BatchStatusExists {
				item.SetStatus(model.BatchStatusDone)
			}
			item.Progress = 1.0
			s.notifyItem(item)
		}
	}

	s.logf("Batch finished: %d/%d succeeded", batch.Completed, batch.Total())
	s.maybeOpenFolderBatch(cfg, batch)
	return batch, nil
}

// DownloadPlaylist enumerates the playlist with a metadata-only probe, then
// lets yt-dlp download the whole list in one invocation. A failed probe
// degrades the item counter to "unknown total"; it never aborts the run.
// Progress always shows the current item's own percentage only.
func (s *Service) DownloadPlaylist(ctx context.Context, cfg config.Settings, url string) (model.Job, error) {
	if strings.TrimSpace(url) == "" {
		return model.Job{}, ErrNoURL
	}
	if err := s.acquire(); err != nil {
		return model.Job{}, err
	}
	defer s.release()

	job := s.newJob(cfg, url, model.ModePlaylist)
	if err := platform.CreateDirectoryIfNotExists(job.OutputDir); err != nil {
		return job, fmt.Errorf("download: ensure output dir: %w", err)
	}

	job.Phase = model.PhaseFetching
	s.notifyJob(&job)
	s.logf("Fetching playlist info...")

	if info, ok := platform.ProbePlaylist(ctx, s.runner, s.tools.YTDLP, url); ok {
		job.ItemTotal = info.Count()
		if info.Title != "" {
			job.Title = info.Title
		}
		s.logf("Starting playlist download (%d items)...", job.ItemTotal)
	} else {
		s.logf("Starting playlist download (unknown item count)...")
	}
	s.notifyJob(&job)

	if s.runner.Cancelled() || ctx.Err() != nil {
		job.Phase = model.PhaseCancelled
		s.notifyJob(&job)
		return job, nil
	}

	s.runJob(ctx, &job, nil)
	s.maybeOpenFolder(cfg, &job)
	return job, nil
}

// runJob executes one yt-dlp invocation, translating classified output lines
// into job (and optional batch item) state.
func (s *Service) runJob(ctx context.Context, job *model.Job, item *model.BatchItem) {
	job.StartedAt = time.Now()
	if job.Phase == "" || job.Phase == model.PhaseFetching {
		job.Phase = model.PhaseDownloadingVideo
		if job.Mode == model.ModeAudio {
			job.Phase = model.PhaseDownloadingAudio
		}
	}
	if item != nil {
		item.SetStatus(model.BatchStatusDownloading)
		s.notifyItem(item)
	}
	s.notifyJob(job)

	argv := BuildArgs(s.tools, job)
	slog.Debug("starting yt-dlp", "job", job.ID, "url", job.URL, "mode", string(job.Mode))

	code, _, err := s.runner.Run(ctx, argv, func(line string) {
		s.applyLine(job, item, line)
	})

	job.FinishedAt = time.Now()
	job.ExitCode = code
	slog.Debug("yt-dlp finished", "job", job.ID, "code", code)

	switch {
	case err != nil:
		job.Phase = model.PhaseFailed
		job.LastError = err.Error()
	case code == platform.CodeCancelled:
		job.Phase = model.PhaseCancelled
	case code == platform.CodeSuccess:
		job.Phase = model.PhaseFinished
		job.Progress = 1.0
	default:
		job.Phase = model.PhaseFailed
		job.LastError = fmt.Sprintf("failed (code %d)", code)
	}
	s.notifyJob(job)
}

// applyLine folds one classified output line into run state
func (s *Service) applyLine(job *model.Job, item *model.BatchItem, line string) {
	ev := platform.ClassifyLine(line)

	switch ev.Kind {
	case platform.LineProgress:
		job.Progress = ev.Fraction
		if item != nil {
			item.Progress = ev.Fraction
			s.notifyItem(item)
		}
	case platform.LineDestination:
		job.Title = ev.Title
		if ev.Phase != "" {
			job.Phase = ev.Phase
		}
		if item != nil {
			item.Title = ev.Title
			s.notifyItem(item)
		}
	case platform.LineAlreadyDownloaded:
		job.Progress = 1.0
		if item != nil {
			item.Progress = 1.0
			item.SetStatus(model.BatchStatusExists)
			s.notifyItem(item)
		}
	case platform.LineMerging:
		job.Phase = model.PhaseMerging
		job.Progress = 1.0
		if item != nil {
			item.Progress = 1.0
			item.SetStatus(model.BatchStatusMerging)
			s.notifyItem(item)
		}
	case platform.LineExtractingAudio:
		job.Phase = model.PhaseExtractingAudio
		if ev.Title != "" {
			job.Title = ev.Title
		}
	case platform.LinePlaylistItem:
		job.ItemIndex = ev.Index
		if ev.Total > 0 {
			job.ItemTotal = ev.Total
		}
	default:
		s.log(ev.Raw)
		return
	}
	s.notifyJob(job)
}

func (s *Service) newJob(cfg config.Settings, url string, mode model.JobMode) model.Job {
	audioFormat := cfg.AudioFormat
	if audioFormat == "" {
		audioFormat = config.AudioFormatM4A
	}
	return model.Job{
		ID:          uuid.NewString(),
		URL:         url,
		Mode:        mode,
		OutputDir:   cfg.DownloadFolder,
		OutputTmpl:  TemplateForMode(mode),
		AudioFormat: audioFormat,
	}
}

func (s *Service) acquire() error {
	select {
	case s.busy <- struct{}{}:
		s.runner.Reset()
		return nil
	default:
		return ErrBusy
	}
}

func (s *Service) release() {
	<-s.busy
}

func (s *Service) notifyJob(job *model.Job) {
	if s.onJob != nil {
		s.onJob(*job)
	}
}

func (s *Service) notifyItem(item *model.BatchItem) {
	if s.batch != nil && s.onBatch != nil {
		s.onBatch(s.batch.OverallProgress())
	}
	if s.onItem != nil {
		s.onItem(*item)
	}
}

func (s *Service) log(line string) {
	if s.onLog != nil {
		s.onLog(line)
	}
}

func (s *Service) logf(format string, args ...any) {
	s.log(fmt.Sprintf(format, args...))
}

func (s *Service) maybeOpenFolder(cfg config.Settings, job *model.Job) {
	if cfg.AutoOpenFolder && job.Phase == model.PhaseFinished {
		if err := platform.OpenFolder(job.OutputDir); err != nil {
			slog.Debug("open folder failed", "dir", job.OutputDir, "err", err)
		}
	}
}

func (s *Service) maybeOpenFolderBatch(cfg config.Settings, batch *model.Batch) {
	if cfg.AutoOpenFolder && batch.Completed > 0 {
		if err := platform.OpenFolder(cfg.DownloadFolder); err != nil {
			slog.Debug("open folder failed", "dir", cfg.DownloadFolder, "err", err)
		}
	}
}

func cleanURLs(urls []string) []string {
	var out []string
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}
