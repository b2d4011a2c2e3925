package pipeline

import (
	"time"

	"github.com/evenlangas/paper-filtering/internal/extract"
	"github.com/evenlangas/paper-filtering/internal/history"
)

// Summary describes one run.
type Summary struct {
	RunID         string
	StartedAt     time.Time
	FinishedAt    time.Time
	InputDir      string
	OutputFile    string
	ReferenceFile string
	Threshold     float64
	// Journals is the number of accepted journal titles in the reference.
	Journals int
	Files    []extract.FileResult
	RowsRead int
	RowsKept int
	Written  bool
	Status   history.Status
	Error    string
}

// FilesSkipped counts files that could not be processed.
func (s Summary) FilesSkipped() int {
	n := 0
	for _, f := range s.Files {
		if f.Skipped {
			n++
		}
	}
	return n
}

// Duration returns the wall time of the run.
func (s Summary) Duration() time.Duration {
	if s.FinishedAt.Before(s.StartedAt) {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// HistoryRun converts the summary into a ledger entry.
func (s Summary) HistoryRun() history.Run {
	run := history.Run{
		ID:            s.RunID,
		StartedAt:     s.StartedAt,
		FinishedAt:    s.FinishedAt,
		InputDir:      s.InputDir,
		OutputFile:    s.OutputFile,
		ReferenceFile: s.ReferenceFile,
		Threshold:     s.Threshold,
		Status:        s.Status,
		FilesSeen:     len(s.Files),
		FilesSkipped:  s.FilesSkipped(),
		RowsRead:      s.RowsRead,
		RowsKept:      s.RowsKept,
		Error:         s.Error,
	}
	for i, f := range s.Files {
		file := history.File{
			Position: i,
			File:     f.Name(),
			Status:   history.FileProcessed,
			RowsRead: f.RowsRead,
			RowsKept: f.RowsKept,
		}
		if f.Skipped {
			file.Status = history.FileSkipped
			file.Reason = f.Reason
		}
		run.Files = append(run.Files, file)
	}
	return run
}
