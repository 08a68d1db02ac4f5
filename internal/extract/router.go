package extract

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	memerr "github.com/rcliao/memory-vault/internal/errors"
	"github.com/rcliao/memory-vault/internal/model"
)

// Result is the routed extraction output plus every absorbed failure.
type Result struct {
	Content      model.ExtractedContent
	Degradations []Degradation
}

// Router dispatches media to the collaborators for its kind. A nil
// collaborator is treated as unavailable.
type Router struct {
	ocr  OCR
	exif EXIF
	asr  ASR
	log  *slog.Logger
}

// NewRouter creates a router. A nil logger discards.
func NewRouter(ocr OCR, exif EXIF, asr ASR, log *slog.Logger) *Router {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Router{ocr: ocr, exif: exif, asr: asr, log: log}
}

// Route extracts content from the blob at path. Collaborator failures never
// fail the call; they come back as degradations with the affected fields
// left empty. The returned error is non-nil only when ctx is done or kind
// is not routable.
func (r *Router) Route(ctx context.Context, kind model.MediaKind, path string) (Result, error) {
	var res Result
	switch kind {
	case model.KindImage:
		var text Outcome[string]
		var meta Outcome[Metadata]
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			text = call(gctx, "ocr", func(ctx context.Context) (string, error) {
				if r.ocr == nil {
					return "", ErrUnavailable
				}
				return r.ocr.ExtractText(ctx, path)
			})
			return text.Fatal
		})
		g.Go(func() error {
			meta = call(gctx, "exif", func(ctx context.Context) (Metadata, error) {
				if r.exif == nil {
					return Metadata{}, ErrUnavailable
				}
				return r.exif.ExtractMetadata(ctx, path)
			})
			return meta.Fatal
		})
		if err := g.Wait(); err != nil {
			return Result{}, err
		}
		res.Content.Text = strings.TrimSpace(text.Value)
		res.Content.OccurredDate = meta.Value.Date
		res.Content.Location = meta.Value.Location
		res.addDegraded(text.Degraded, meta.Degraded)

	case model.KindAudio:
		text := call(ctx, "asr", func(ctx context.Context) (string, error) {
			if r.asr == nil {
				return "", ErrUnavailable
			}
			return r.asr.Transcribe(ctx, path)
		})
		if text.Fatal != nil {
			return Result{}, text.Fatal
		}
		res.Content.Text = strings.TrimSpace(text.Value)
		res.addDegraded(text.Degraded)

	default:
		return Result{}, memerr.Validation("unsupported media kind %q", kind)
	}

	for _, d := range res.Degradations {
		r.log.Warn("extraction_degraded",
			slog.String("source", d.Source),
			slog.String("path", path),
			slog.String("error", d.Err.Error()))
	}
	return res, nil
}

func (r *Result) addDegraded(ds ...*Degradation) {
	for _, d := range ds {
		if d != nil {
			r.Degradations = append(r.Degradations, *d)
		}
	}
}
