package model

import (
	"time"
)

// BatchStatus represents the display status of one item in a batch run
type BatchStatus string

const (
	// BatchStatusPending means the item is queued but not reached yet
	BatchStatusPending BatchStatus = "Pending"

	// BatchStatusFetching means metadata for the item is being fetched
	BatchStatusFetching BatchStatus = "Fetching"

	// BatchStatusReady means the item is about to start downloading
	BatchStatusReady BatchStatus = "Ready"

	// BatchStatusExists means yt-dlp reported the file as already downloaded
	BatchStatusExists BatchStatus = "Exists"

	// BatchStatusIncomplete means a partial download was found for the item
	BatchStatusIncomplete BatchStatus = "Incomplete"

	// BatchStatusDownloading means the item download is in progress
	BatchStatusDownloading BatchStatus = "Downloading"

	// BatchStatusMerging means streams for the item are being merged
	BatchStatusMerging BatchStatus = "Merging"

	// BatchStatusDone means the item finished successfully
	BatchStatusDone BatchStatus = "Done"

	// BatchStatusFailed means yt-dlp exited nonzero for the item
	BatchStatusFailed BatchStatus = "Failed"

	// BatchStatusCancelled means the user cancelled during the item's run
	BatchStatusCancelled BatchStatus = "Cancelled"
)

// String returns the string representation of BatchStatus
func (bs BatchStatus) String() string {
	return string(bs)
}

// IsActive returns true if the item is currently being worked on
func (bs BatchStatus) IsActive() bool {
	return bs == BatchStatusFetching || bs == BatchStatusReady || bs == BatchStatusDownloading || bs == BatchStatusMerging
}

// IsTerminal returns true if the item will not be worked on again
func (bs BatchStatus) IsTerminal() bool {
	switch bs {
	case BatchStatusExists, BatchStatusDone, BatchStatusFailed, BatchStatusCancelled:
		return true
	}
	return false
}

// BatchItem is a URL plus its user-controllable inclusion flag and display
// state. Items exist only for the lifetime of one batch session.
type BatchItem struct {
	ID        string
	URL       string
	Included  bool
	Status    BatchStatus
	Progress  float64
	Title     string
	LastError string
	UpdatedAt time.Time
}

// NewBatchItem creates an included, pending item for a URL
func NewBatchItem(id, url string) *BatchItem {
	return &BatchItem{
		ID:        id,
		URL:       url,
		Included:  true,
		Status:    BatchStatusPending,
		UpdatedAt: time.Now(),
	}
}

// SetStatus updates the item status and touch time
func (b *BatchItem) SetStatus(status BatchStatus) {
	b.Status = status
	b.UpdatedAt = time.Now()
}

// Batch groups the items of one batch run
type Batch struct {
	Items     []*BatchItem
	Completed int
	Failed    int
}

// Total returns the number of included items
func (b *Batch) Total() int {
	n := 0
	for _, it := range b.Items {
		if it.Included {
			n++
		}
	}
	return n
}

// OverallProgress returns the combined batch fraction: finished items count
// as whole units, the active item contributes its own fraction.
func (b *Batch) OverallProgress() float64 {
	total := b.Total()
	if total == 0 {
		return 0
	}
	done := 0
	active := 0.0
	for _, it := range b.Items {
		if !it.Included {
			continue
		}
		if it.Status.IsTerminal() {
			done++
		} else if it.Status.IsActive() {
			active = it.Progress
		}
	}
	return (float64(done) + active) / float64(total)
}
