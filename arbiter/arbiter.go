// Package arbiter decides which data source is authoritative on each
// recomputation. Two monotonic trigger counters (one per source) are
// compared against their last-observed values behind a single lock; the
// winning source's raw table is normalized and published downstream.
package arbiter

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"trackboard/normalize"
	"trackboard/tabular"
)

// Source identifies a data source.
type Source int

const (
	// SourceNone means no source has fired.
	SourceNone Source = iota
	// SourceFile is the uploaded-file source.
	SourceFile
	// SourceSynthetic is the generated-data source.
	SourceSynthetic
)

// String returns the string representation of a Source.
func (s Source) String() string {
	switch s {
	case SourceNone:
		return "none"
	case SourceFile:
		return "file"
	case SourceSynthetic:
		return "synthetic"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// ErrNoTrigger is returned by Recompute when neither counter has advanced.
// It signals a no-op, not a failure.
var ErrNoTrigger = errors.New("no new trigger")

// Controller owns the trigger counters and the single published canonical
// table. All counter reads and updates happen behind one mutex so that a
// trigger arriving mid-recompute cannot interleave with the
// compare-decide-advance step.
type Controller struct {
	mu sync.Mutex

	loadCount uint64
	synCount  uint64
	lastLoad  uint64
	lastSyn   uint64

	// lastSource is the source that most recently won an arbitration.
	lastSource Source

	fileTable func() *tabular.Table
	synTable  func() (*tabular.Table, error)
	selection func() normalize.Selection

	published *tabular.CanonicalTable
	onPublish func(*tabular.CanonicalTable, Source)

	log *logrus.Entry
}

// New creates a controller. fileTable returns the currently loaded raw
// file table (nil when no file is selected), synTable invokes the
// synthetic generator, and selection supplies the live user column
// mapping. onPublish, if non-nil, is called with each published table;
// it runs with the controller locked and must not call back into it.
func New(
	fileTable func() *tabular.Table,
	synTable func() (*tabular.Table, error),
	selection func() normalize.Selection,
	onPublish func(*tabular.CanonicalTable, Source),
) *Controller {
	return &Controller{
		fileTable: fileTable,
		synTable:  synTable,
		selection: selection,
		onPublish: onPublish,
		log:       logrus.WithField("component", "arbiter"),
	}
}

// Bump records one trigger for the given source: a completed file choice
// or a press of the generate button. Counters only ever move forward.
func (c *Controller) Bump(src Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch src {
	case SourceFile:
		c.loadCount++
	case SourceSynthetic:
		c.synCount++
	}
	c.log.WithFields(logrus.Fields{
		"source": src.String(),
		"load":   c.loadCount,
		"syn":    c.synCount,
	}).Debug("trigger recorded")
}

// Recompute performs one arbitration: it reads both counters, picks the
// source whose counter advanced since the last observation, re-derives the
// canonical table from that source and publishes it. The file source is
// checked first, so when both counters advanced between evaluations the
// file wins; the synthetic trigger stays unconsumed and is served by the
// next call rather than dropped.
//
// A mapping or generation failure consumes the winning counter (the
// trigger is not replayed), publishes nothing, and returns the error for
// the UI to surface. When neither counter advanced it returns
// (SourceNone, ErrNoTrigger).
func (c *Controller) Recompute() (Source, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.loadCount != c.lastLoad:
		c.lastLoad = c.loadCount
		c.lastSource = SourceFile
		tbl := c.fileTable()
		if tbl == nil {
			// No file selected is a quiet no-publish, not a failure.
			c.log.Debug("file trigger with no table loaded")
			return SourceFile, nil
		}
		return SourceFile, c.publishLocked(tbl, c.selection(), SourceFile)

	case c.synCount != c.lastSyn:
		c.lastSyn = c.synCount
		c.lastSource = SourceSynthetic
		tbl, err := c.synTable()
		if err != nil {
			return SourceSynthetic, fmt.Errorf("synthetic generation: %w", err)
		}
		return SourceSynthetic, c.publishLocked(tbl, normalize.SyntheticSelection(), SourceSynthetic)

	default:
		return SourceNone, ErrNoTrigger
	}
}

// Remap re-derives the canonical table for the most recently published
// source using the live selection, without consuming a trigger. Selector
// changes route here: the recomputation scope is exactly "re-project the
// current winner", never "re-fire a source". Only the file source reacts;
// the synthetic mapping is fixed.
func (c *Controller) Remap() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lastSource != SourceFile {
		return nil
	}
	tbl := c.fileTable()
	if tbl == nil {
		return nil
	}
	return c.publishLocked(tbl, c.selection(), SourceFile)
}

// publishLocked maps and publishes one table. Callers hold c.mu.
func (c *Controller) publishLocked(tbl *tabular.Table, sel normalize.Selection, src Source) error {
	ct, err := normalize.Map(tbl, sel)
	if err != nil {
		c.log.WithError(err).WithField("source", src.String()).Debug("mapping failed, nothing published")
		return err
	}
	c.published = ct
	c.log.WithFields(logrus.Fields{
		"source": src.String(),
		"rows":   ct.NumRows(),
	}).Debug("canonical table published")
	if c.onPublish != nil {
		c.onPublish(ct, src)
	}
	return nil
}

// Published returns the last published canonical table, or nil when no
// source has produced one yet. Consumers only read; only Recompute and
// Remap write.
func (c *Controller) Published() *tabular.CanonicalTable {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.published
}
