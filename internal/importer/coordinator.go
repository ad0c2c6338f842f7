// Package importer coordinates loading a product spreadsheet into the store,
// reporting progress over a channel so callers can stream it to clients.
package importer

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/HusseinZein235/SalesAssociate/internal/excel"
	"github.com/HusseinZein235/SalesAssociate/internal/store"
)

// Coordinator runs product imports against a store.
type Coordinator struct {
	store *store.Store
}

// NewCoordinator creates an import coordinator.
func NewCoordinator(s *store.Store) *Coordinator {
	return &Coordinator{store: s}
}

// Options controls a single import run.
type Options struct {
	FilePath string
	// Merge keeps products that are absent from the workbook. The default
	// replaces the whole catalog with the workbook contents.
	Merge bool
}

// ProgressEvent is one step of an import run.
type ProgressEvent struct {
	Type      string    `json:"type"` // start/info/done/error
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Report summarizes a finished import.
type Report struct {
	Filename     string        `json:"filename"`
	TotalRows    int           `json:"total_rows"`
	ImportedRows int           `json:"imported_rows"`
	SkippedRows  int           `json:"skipped_rows"`
	Duration     time.Duration `json:"duration"`
}

// Import runs the import in the background and returns its progress channel.
// The channel closes after the done or error event.
func (c *Coordinator) Import(ctx context.Context, opts Options) <-chan ProgressEvent {
	progress := make(chan ProgressEvent, 100)

	go func() {
		defer close(progress)
		c.doImport(ctx, opts, progress)
	}()

	return progress
}

// ImportSync runs the import inline, draining progress events, and returns the
// final report.
func (c *Coordinator) ImportSync(ctx context.Context, opts Options) (*Report, error) {
	var report *Report
	var failure error
	for event := range c.Import(ctx, opts) {
		switch event.Type {
		case "done":
			if r, ok := event.Data.(*Report); ok {
				report = r
			}
		case "error":
			failure = fmt.Errorf("%s", event.Message)
		}
	}
	if failure != nil {
		return nil, failure
	}
	return report, nil
}

func (c *Coordinator) doImport(ctx context.Context, opts Options, progress chan ProgressEvent) {
	startTime := time.Now()
	filename := filepath.Base(opts.FilePath)

	c.send(progress, ProgressEvent{
		Type:      "start",
		Message:   "importing product workbook",
		Data:      map[string]string{"filename": filename},
		Timestamp: time.Now(),
	})

	f, err := excelize.OpenFile(opts.FilePath)
	if err != nil {
		c.send(progress, ProgressEvent{
			Type:      "error",
			Message:   fmt.Sprintf("failed to open workbook: %v", err),
			Timestamp: time.Now(),
		})
		return
	}
	defer f.Close()

	totalRows := 0
	if sheets := f.GetSheetList(); len(sheets) > 0 {
		if rows, err := f.GetRows(sheets[0]); err == nil && len(rows) > 1 {
			totalRows = len(rows) - 1
		}
	}

	products, err := excel.ReadProductsFromWorkbook(f)
	if err != nil {
		c.send(progress, ProgressEvent{
			Type:      "error",
			Message:   fmt.Sprintf("failed to parse workbook: %v", err),
			Timestamp: time.Now(),
		})
		return
	}

	c.send(progress, ProgressEvent{
		Type:    "info",
		Message: fmt.Sprintf("parsed %d products from %d rows", len(products), totalRows),
		Data: map[string]int{
			"total_rows":   totalRows,
			"parsed_rows":  len(products),
			"skipped_rows": totalRows - len(products),
		},
		Timestamp: time.Now(),
	})

	if opts.Merge {
		err = c.store.InsertProducts(ctx, products)
	} else {
		err = c.store.ReplaceProducts(ctx, products)
	}
	if err != nil {
		c.send(progress, ProgressEvent{
			Type:      "error",
			Message:   fmt.Sprintf("failed to save products: %v", err),
			Timestamp: time.Now(),
		})
		return
	}

	report := &Report{
		Filename:     filename,
		TotalRows:    totalRows,
		ImportedRows: len(products),
		SkippedRows:  totalRows - len(products),
		Duration:     time.Since(startTime),
	}

	c.send(progress, ProgressEvent{
		Type:      "done",
		Message:   fmt.Sprintf("imported %d products", report.ImportedRows),
		Data:      report,
		Timestamp: time.Now(),
	})
}

// send drops the event when the channel is full so a slow consumer cannot
// stall the import.
func (c *Coordinator) send(ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	default:
	}
}
