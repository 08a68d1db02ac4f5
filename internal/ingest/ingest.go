// Package ingest turns an upload into a committed memory: validate, persist
// the blob, extract, score, then create the record. Failures after the blob
// exists are compensated by deleting it.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rcliao/memory-vault/internal/blob"
	memerr "github.com/rcliao/memory-vault/internal/errors"
	"github.com/rcliao/memory-vault/internal/extract"
	"github.com/rcliao/memory-vault/internal/model"
	"github.com/rcliao/memory-vault/internal/sentiment"
	"github.com/rcliao/memory-vault/internal/worker"
)

// State is a step of the ingestion state machine.
type State string

const (
	StateReceived   State = "received"
	StateValidated  State = "validated"
	StateRouted     State = "routed"
	StateScored     State = "scored"
	StateCommitted  State = "committed"
	StateRolledBack State = "rolled_back"
	StateRejected   State = "rejected"
)

// Request is one upload.
type Request struct {
	Title       string
	Person      string
	ContentType string // declared media type, e.g. "image/jpeg"
	Filename    string // used only for the blob extension
	Body        io.Reader
}

// Result describes how an ingestion ended. Memory is set only when State is
// StateCommitted.
type Result struct {
	CorrelationID string
	State         State
	Memory        *model.Memory
	Degradations  []extract.Degradation
}

// Router routes stored media to extraction.
type Router interface {
	Route(ctx context.Context, kind model.MediaKind, path string) (extract.Result, error)
}

// Creator is the store operation that commits a new memory.
type Creator interface {
	Create(ctx context.Context, m model.NewMemory) (*model.Memory, error)
}

// Orchestrator runs ingestions. It is safe for concurrent use.
type Orchestrator struct {
	store  Creator
	blobs  blob.Store
	router Router
	scorer sentiment.Scorer
	pool   *worker.Pool
	log    *slog.Logger
}

// New creates an orchestrator. A nil pool runs extraction inline; a nil
// logger discards.
func New(store Creator, blobs blob.Store, router Router, scorer sentiment.Scorer, pool *worker.Pool, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Orchestrator{store: store, blobs: blobs, router: router, scorer: scorer, pool: pool, log: log}
}

// Ingest runs req through the state machine. On failure the returned Result
// still carries the terminal state; the error is a *memerr.Error.
func (o *Orchestrator) Ingest(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	run := &run{
		o:   o,
		res: &Result{CorrelationID: uuid.NewString(), State: StateReceived},
	}
	run.log = o.log.With(slog.String("correlation_id", run.res.CorrelationID))

	title := strings.TrimSpace(req.Title)
	kind, err := validate(title, req)
	if err != nil {
		return run.reject(err)
	}
	run.res.State = StateValidated
	if err := ctx.Err(); err != nil {
		return run.reject(canceled(err))
	}

	path, err := o.blobs.Store(ctx, req.Body, req.Filename)
	if err != nil {
		if ctx.Err() != nil {
			return run.reject(canceled(ctx.Err()))
		}
		if memerr.IsValidation(err) {
			return run.reject(err)
		}
		run.res.State = StateRolledBack
		run.log.Error("ingest_failed", slog.String("state", string(StateValidated)), slog.String("error", err.Error()))
		return run.res, err
	}
	run.path = path

	extracted, err := o.extract(ctx, kind, path)
	if err != nil {
		return run.rollback(ctx, err)
	}
	run.res.State = StateRouted
	run.res.Degradations = extracted.Degradations

	text := extracted.Content.Text
	score := 0.0
	if strings.TrimSpace(text) != "" {
		score, err = o.scorer.Score(ctx, text)
		if err != nil {
			return run.rollback(ctx, memerr.Processing("sentiment scoring failed", err))
		}
	}
	run.res.State = StateScored

	if err := ctx.Err(); err != nil {
		return run.rollback(ctx, err)
	}
	mem, err := o.store.Create(ctx, model.NewMemory{
		Title:          title,
		ExtractedText:  text,
		OccurredDate:   extracted.Content.OccurredDate,
		Location:       extracted.Content.Location,
		SentimentScore: model.ClampSentiment(score),
		MediaPath:      path,
		MediaKind:      kind,
		Person:         model.StringPtr(req.Person),
	})
	if err != nil {
		return run.rollback(ctx, err)
	}

	run.res.State = StateCommitted
	run.res.Memory = mem
	run.log.Info("ingest_committed",
		slog.Int64("id", mem.ID),
		slog.String("media_type", string(kind)),
		slog.Int("text_len", len(text)),
		slog.Float64("sentiment", mem.SentimentScore),
		slog.Int("degraded", len(extracted.Degradations)),
		slog.Duration("duration", time.Since(start)))
	return run.res, nil
}

// extract runs the router on a worker pool slot.
func (o *Orchestrator) extract(ctx context.Context, kind model.MediaKind, path string) (extract.Result, error) {
	if o.pool == nil {
		return o.router.Route(ctx, kind, path)
	}
	var res extract.Result
	err := o.pool.Do(ctx, func(ctx context.Context) error {
		var err error
		res, err = o.router.Route(ctx, kind, path)
		return err
	})
	return res, err
}

func validate(title string, req Request) (model.MediaKind, error) {
	if title == "" {
		return "", memerr.Validation("title is required")
	}
	if req.Body == nil {
		return "", memerr.Validation("media content is required")
	}
	kind, err := model.KindFromContentType(req.ContentType)
	if err != nil {
		return "", memerr.ValidationCode(memerr.CodeUnsupported, err)
	}
	return kind, nil
}

func canceled(err error) error {
	return memerr.New(memerr.KindValidation, memerr.CodeCanceled, "upload canceled", err)
}

// run carries the per-upload state.
type run struct {
	o    *Orchestrator
	res  *Result
	log  *slog.Logger
	path string
}

func (r *run) reject(err error) (*Result, error) {
	r.res.State = StateRejected
	r.log.Info("ingest_rejected", slog.String("error", err.Error()))
	return r.res, err
}

// rollback deletes the stored blob and ends in RolledBack, or in Rejected
// when the failure is the caller going away.
func (r *run) rollback(ctx context.Context, err error) (*Result, error) {
	failedAt := r.res.State
	if r.path != "" && !r.o.blobs.Delete(r.path) {
		r.log.Warn("blob_delete_failed", slog.String("path", r.path))
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		err = canceled(ctxErr)
		r.res.State = StateRejected
		r.log.Info("ingest_rejected", slog.String("state", string(failedAt)), slog.String("error", err.Error()))
		return r.res, err
	}

	r.res.State = StateRolledBack
	var me *memerr.Error
	if !errors.As(err, &me) {
		err = memerr.Processing(fmt.Sprintf("ingestion failed after %s", failedAt), err)
	}
	r.log.Error("ingest_rolled_back", slog.String("state", string(failedAt)), slog.String("error", err.Error()))
	return r.res, err
}
