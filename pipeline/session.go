// Package pipeline runs the GTEx tissue expression preparation from input
// paths to a persisted table.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"
	"github.com/carbocation/gtexmedian/aggregate"
	"github.com/carbocation/gtexmedian/store"
	"github.com/carbocation/gtexmedian/tissue"
)

// Config holds every knob of a run.
type Config struct {
	// Delimiter of both inputs; zero means detect each input separately.
	Delimiter rune

	Collisions         tissue.Policy
	Estimator          aggregate.Estimator
	RequireAnnotations bool
	Workers            int

	// BigQueryLocation is used when an output dataset must be created.
	BigQueryLocation string
}

// Session is the execution context shared by every stage. Cloud clients are
// created on first use and released by Close.
type Session struct {
	Context context.Context
	Config  Config

	mu        sync.Mutex
	gcs       *storage.Client
	bq        *bigquery.Client
	bqProject string
}

// NewSession starts a session. Callers must Close it.
func NewSession(ctx context.Context, cfg Config) *Session {
	if cfg.Estimator == nil {
		cfg.Estimator = aggregate.Exact{}
	}

	return &Session{Context: ctx, Config: cfg}
}

// StorageClient returns the session's Google Storage client.
func (s *Session) StorageClient() (*storage.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gcs != nil {
		return s.gcs, nil
	}

	client, err := storage.NewClient(s.Context)
	if err != nil {
		return nil, fmt.Errorf("connecting to Google Storage: %w", err)
	}
	s.gcs = client

	return client, nil
}

// BigQueryClient returns the session's BigQuery client for project.
func (s *Session) BigQueryClient(project string) (*bigquery.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bq != nil {
		if s.bqProject != project {
			return nil, fmt.Errorf("session already connected to BigQuery project %s, not %s", s.bqProject, project)
		}
		return s.bq, nil
	}

	client, err := bigquery.NewClient(s.Context, project)
	if err != nil {
		return nil, fmt.Errorf("connecting to BigQuery: %w", err)
	}
	s.bq = client
	s.bqProject = project

	return client, nil
}

// Writer returns the store for an output location.
func (s *Session) Writer(loc store.Location) (store.Writer, error) {
	switch loc.Kind {
	case store.SQLite:
		return store.SQLiteFile{Path: loc.Path}, nil
	case store.BigQuery:
		client, err := s.BigQueryClient(loc.Project)
		if err != nil {
			return nil, err
		}
		return store.BigQueryTable{
			Client:          client,
			Dataset:         loc.Dataset,
			Table:           loc.Table,
			DatasetLocation: s.Config.BigQueryLocation,
		}, nil
	}

	if loc.GoogleStorage() {
		client, err := s.StorageClient()
		if err != nil {
			return nil, err
		}
		return store.TSVObject{Client: client, URL: loc.Path, Gzip: loc.Gzip}, nil
	}

	return store.TSVFile{Path: loc.Path, Gzip: loc.Gzip}, nil
}

// Close releases any cloud clients.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var first error
	if s.gcs != nil {
		first = s.gcs.Close()
		s.gcs = nil
	}
	if s.bq != nil {
		if err := s.bq.Close(); err != nil && first == nil {
			first = err
		}
		s.bq = nil
	}

	return first
}
