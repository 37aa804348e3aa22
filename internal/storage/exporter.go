package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/maauso/jobsync-api/internal/clock"
	"github.com/maauso/jobsync-api/internal/job"
	"github.com/maauso/jobsync-api/internal/notify"
)

const (
	// LatestName is the file and object name of the most recent snapshot.
	LatestName = "jobs-latest.json"

	snapshotPattern = "jobs-2*.json"
	defaultKeep     = 24
)

// Snapshot is the exported document.
type Snapshot struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Count       int       `json:"count"`
	Jobs        []job.Job `json:"jobs"`
}

// Exporter writes the job list of every sync cycle as a JSON snapshot.
// It implements notify.Handler.
type Exporter struct {
	storage  Storage
	prefix   string
	keep     int
	clock    clock.Clock
	logger   *slog.Logger
	uploadS3 bool
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithPrefix sets the S3 key prefix, e.g. "jobsync/".
func WithPrefix(prefix string) ExporterOption {
	return func(e *Exporter) { e.prefix = prefix }
}

// WithKeep sets how many timestamped local snapshots are retained.
func WithKeep(n int) ExporterOption {
	return func(e *Exporter) {
		if n > 0 {
			e.keep = n
		}
	}
}

// WithExporterClock sets the clock used to timestamp snapshots.
func WithExporterClock(c clock.Clock) ExporterOption {
	return func(e *Exporter) { e.clock = c }
}

// WithExporterLogger sets the logger.
func WithExporterLogger(logger *slog.Logger) ExporterOption {
	return func(e *Exporter) { e.logger = logger }
}

// NewExporter creates an Exporter over s. Uploads happen only when s is an
// S3Storage.
func NewExporter(s Storage, opts ...ExporterOption) *Exporter {
	_, isS3 := s.(*S3Storage)
	e := &Exporter{
		storage:  s,
		keep:     defaultKeep,
		clock:    clock.Real{},
		logger:   slog.Default(),
		uploadS3: isS3,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compile-time check that Exporter implements notify.Handler.
var _ notify.Handler = (*Exporter)(nil)

// HandleJobs writes a timestamped snapshot and the latest snapshot, uploads
// the latter when S3 is configured, and prunes old local snapshots.
func (e *Exporter) HandleJobs(ctx context.Context, jobs []job.Job) error {
	now := e.clock.Now().UTC()
	if jobs == nil {
		jobs = []job.Job{}
	}
	body, err := json.MarshalIndent(Snapshot{GeneratedAt: now, Count: len(jobs), Jobs: jobs}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	stamped := "jobs-" + now.Format("20060102T150405.000Z") + ".json"
	for _, name := range []string{stamped, LatestName} {
		if _, err := e.storage.Save(ctx, name, bytes.NewReader(body)); err != nil {
			return fmt.Errorf("save snapshot %s: %w", name, err)
		}
	}
	if err := e.storage.Prune(ctx, snapshotPattern, e.keep); err != nil {
		e.logger.Warn("failed to prune snapshots", slog.String("error", err.Error()))
	}

	if !e.uploadS3 {
		e.logger.Debug("snapshot exported", slog.Int("jobs", len(jobs)), slog.String("name", stamped))
		return nil
	}
	url, err := e.storage.UploadToS3(ctx, path.Join(e.prefix, LatestName), bytes.NewReader(body))
	if err != nil && !errors.Is(err, ErrS3NotConfigured) {
		return fmt.Errorf("upload snapshot: %w", err)
	}
	e.logger.Info("snapshot exported",
		slog.Int("jobs", len(jobs)),
		slog.String("name", stamped),
		slog.String("url", url),
	)
	return nil
}
