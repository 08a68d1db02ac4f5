package vault

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rcliao/memory-vault/internal/extract"
	"github.com/rcliao/memory-vault/internal/store"
)

// Check is one health probe.
type Check struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// Report is the outcome of Doctor.
type Report struct {
	Healthy         bool                  `json:"healthy"`
	Checks          []Check               `json:"checks"`
	Inconsistencies []store.Inconsistency `json:"inconsistencies,omitempty"`
}

// Doctor probes the store, the index pairing, the media directory and the
// recognition collaborators. Unavailable collaborators are reported but do
// not make the vault unhealthy, since ingestion degrades without them.
func (s *Service) Doctor(ctx context.Context) *Report {
	r := &Report{Healthy: true}
	fail := func(name string, err error) {
		r.Checks = append(r.Checks, Check{Name: name, OK: false, Detail: err.Error()})
		r.Healthy = false
	}

	if err := s.store.Ping(ctx); err != nil {
		fail("store", err)
	} else {
		r.Checks = append(r.Checks, Check{Name: "store", OK: true, Detail: s.store.Path()})
	}

	incs, err := s.store.CheckConsistency(ctx)
	switch {
	case err != nil:
		fail("index", err)
	case len(incs) > 0:
		r.Inconsistencies = incs
		r.Checks = append(r.Checks, Check{Name: "index", OK: false, Detail: "record and index out of sync"})
		r.Healthy = false
	default:
		r.Checks = append(r.Checks, Check{Name: "index", OK: true})
	}

	if err := writable(s.blobs.Dir()); err != nil {
		fail("media_dir", err)
	} else {
		r.Checks = append(r.Checks, Check{Name: "media_dir", OK: true, Detail: s.blobs.Dir()})
	}

	r.Checks = append(r.Checks,
		collaborator(ctx, "ocr", s.collab.OCR),
		collaborator(ctx, "exif", s.collab.EXIF),
		collaborator(ctx, "asr", s.collab.ASR),
	)
	return r
}

func collaborator[T any](ctx context.Context, name string, c *T) Check {
	if c == nil {
		return Check{Name: name, OK: false, Detail: "not configured"}
	}
	if ch, ok := any(c).(extract.Checker); ok {
		if err := ch.Available(ctx); err != nil {
			return Check{Name: name, OK: false, Detail: err.Error()}
		}
	}
	return Check{Name: name, OK: true}
}

func writable(dir string) error {
	f, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(filepath.Clean(name))
}
