package history

import (
	"time"

	"github.com/google/uuid"
)

// Status is the terminal state of a run.
type Status string

const (
	// StatusWritten means matching rows were written to the output file.
	StatusWritten Status = "written"
	// StatusNoMatches means the run finished without any matching rows.
	StatusNoMatches Status = "no_matches"
	// StatusFailed means the run aborted with a fatal error.
	StatusFailed Status = "failed"
)

// FileStatus is the outcome for one export file.
type FileStatus string

const (
	FileProcessed FileStatus = "processed"
	FileSkipped   FileStatus = "skipped"
)

// Run is one ledger entry.
type Run struct {
	ID            string
	StartedAt     time.Time
	FinishedAt    time.Time
	InputDir      string
	OutputFile    string
	ReferenceFile string
	Threshold     float64
	Status        Status
	FilesSeen     int
	FilesSkipped  int
	RowsRead      int
	RowsKept      int
	Error         string
	Files         []File
}

// File is the per-file outcome within a run.
type File struct {
	Position int
	File     string
	Status   FileStatus
	Reason   string
	RowsRead int
	RowsKept int
}

// Duration returns the wall time of the run.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}
