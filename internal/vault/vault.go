// Package vault is the API surface over the memory store: ingestion,
// lookup, search, listing, edits and maintenance.
package vault

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/rcliao/memory-vault/internal/blob"
	"github.com/rcliao/memory-vault/internal/config"
	"github.com/rcliao/memory-vault/internal/extract"
	"github.com/rcliao/memory-vault/internal/ingest"
	"github.com/rcliao/memory-vault/internal/model"
	"github.com/rcliao/memory-vault/internal/search"
	"github.com/rcliao/memory-vault/internal/sentiment"
	"github.com/rcliao/memory-vault/internal/store"
	"github.com/rcliao/memory-vault/internal/worker"
)

// CreateRequest is a create-memory call.
type CreateRequest struct {
	Title       string
	Person      string
	ContentType string
	Filename    string
	Media       io.Reader
}

// Service wires the store, the blob store, extraction and search.
type Service struct {
	store  *store.SQLiteStore
	blobs  *blob.FSStore
	ingest *ingest.Orchestrator
	search *search.Engine
	collab extract.Collaborators
	log    *slog.Logger
}

// Open builds a service from cfg. Close releases the database.
func Open(cfg *config.Config, log *slog.Logger) (*Service, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	st, err := store.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	blobs, err := blob.NewFSStore(cfg.Storage.MediaDir, cfg.MaxUploadBytes(), log)
	if err != nil {
		st.Close()
		return nil, err
	}

	collab := extract.NewFromConfig(cfg.Extraction)
	scorer := sentiment.NewCached(sentiment.NewFromConfig(cfg.Sentiment), cfg.Sentiment.CacheSize)
	orch := ingest.New(st, blobs, collab.Router(log), scorer, worker.New(cfg.Extraction.Workers), log)
	engine := search.NewEngine(st, search.OptionsFromConfig(cfg.Search), log)

	return &Service{
		store:  st,
		blobs:  blobs,
		ingest: orch,
		search: engine,
		collab: collab,
		log:    log,
	}, nil
}

// Close closes the store.
func (s *Service) Close() error {
	return s.store.Close()
}

// CreateMemory ingests media and returns the committed record.
func (s *Service) CreateMemory(ctx context.Context, req CreateRequest) (*model.Memory, error) {
	res, err := s.ingest.Ingest(ctx, ingest.Request{
		Title:       req.Title,
		Person:      req.Person,
		ContentType: req.ContentType,
		Filename:    req.Filename,
		Body:        req.Media,
	})
	if err != nil {
		return nil, err
	}
	return res.Memory, nil
}

// GetMemory returns the memory with id.
func (s *Service) GetMemory(ctx context.Context, id int64) (*model.Memory, error) {
	return s.store.Get(ctx, id)
}

// SearchMemories runs a ranked full-text search. limit <= 0 uses the
// configured default.
func (s *Service) SearchMemories(ctx context.Context, query string, limit int) ([]search.Result, error) {
	return s.search.Search(ctx, query, limit)
}

// ListMemories returns memories newest first.
func (s *Service) ListMemories(ctx context.Context, limit, offset int) ([]model.Memory, error) {
	return s.store.List(ctx, store.ListParams{Limit: limit, Offset: offset})
}

// UpdateMemory applies the set fields of u.
func (s *Service) UpdateMemory(ctx context.Context, id int64, u model.UpdateRequest) (*model.Memory, error) {
	return s.store.Update(ctx, id, u)
}

// DeleteMemory removes the record and its index entry, then releases the
// blob. A blob that cannot be removed is logged, not returned.
func (s *Service) DeleteMemory(ctx context.Context, id int64) error {
	path, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if path != "" && !s.blobs.Delete(path) {
		s.log.Warn("blob_delete_failed", slog.Int64("id", id), slog.String("path", path))
	}
	s.log.Info("memory_deleted", slog.Int64("id", id))
	return nil
}

// Stats returns aggregate counts.
func (s *Service) Stats(ctx context.Context) (*store.Stats, error) {
	return s.store.Stats(ctx)
}

// Export returns every memory ordered by id.
func (s *Service) Export(ctx context.Context) ([]model.Memory, error) {
	return s.store.ExportAll(ctx)
}

// Import re-creates exported memories under new ids.
func (s *Service) Import(ctx context.Context, memories []model.Memory) (int, error) {
	n, err := s.store.Import(ctx, memories)
	s.log.Info("memories_imported", slog.Int("count", n))
	return n, err
}
