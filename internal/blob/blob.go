// Package blob stores uploaded media on the local filesystem under
// collision-resistant names.
package blob

import (
	"context"
	crand "crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	memerr "github.com/rcliao/memory-vault/internal/errors"
)

// Store persists blobs. Delete is best-effort: failures are logged by the
// implementation and reported only as false.
type Store interface {
	Store(ctx context.Context, r io.Reader, suggestedName string) (string, error)
	Delete(path string) bool
}

// FSStore keeps blobs as files in a single directory.
type FSStore struct {
	dir      string
	maxBytes int64
	log      *slog.Logger

	mu      sync.Mutex
	entropy io.Reader
}

// NewFSStore creates the directory if needed. maxBytes <= 0 disables the
// size limit.
func NewFSStore(dir string, maxBytes int64, log *slog.Logger) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve media dir: %w", err)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &FSStore{
		dir:      abs,
		maxBytes: maxBytes,
		log:      log,
		entropy:  ulid.Monotonic(crand.Reader, 0),
	}, nil
}

// Dir returns the absolute blob directory.
func (s *FSStore) Dir() string { return s.dir }

func (s *FSStore) newName(suggested string) string {
	s.mu.Lock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy)
	s.mu.Unlock()
	return strings.ToLower(id.String()) + extension(suggested)
}

var extRe = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)

// extension returns the lowercased extension of name, or "" when it is
// missing or not a plain alphanumeric suffix.
func extension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if !extRe.MatchString(ext) {
		return ""
	}
	return ext
}

// Store streams r into a new file and returns its path. The blob only
// appears under its final name once fully written; on any failure,
// including cancellation or exceeding the size limit, nothing is left
// behind.
func (s *FSStore) Store(ctx context.Context, r io.Reader, suggestedName string) (string, error) {
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", memerr.Persistence("create blob", err)
	}
	tmpPath := tmp.Name()
	ok := false
	defer func() {
		if !ok {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	src := io.Reader(&ctxReader{ctx: ctx, r: r})
	if s.maxBytes > 0 {
		src = io.LimitReader(src, s.maxBytes+1)
	}
	n, err := io.Copy(tmp, src)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", memerr.Persistence("write blob", err)
	}
	if s.maxBytes > 0 && n > s.maxBytes {
		return "", memerr.ValidationCode(memerr.CodeTooLarge,
			fmt.Errorf("upload exceeds %d bytes", s.maxBytes))
	}
	if err := tmp.Sync(); err != nil {
		return "", memerr.Persistence("sync blob", err)
	}
	if err := tmp.Close(); err != nil {
		return "", memerr.Persistence("close blob", err)
	}

	final := filepath.Join(s.dir, s.newName(suggestedName))
	if err := os.Rename(tmpPath, final); err != nil {
		return "", memerr.Persistence("rename blob", err)
	}
	ok = true
	return final, nil
}

// Delete removes the blob at path. A missing file counts as deleted. Paths
// outside the blob directory are refused.
func (s *FSStore) Delete(path string) bool {
	if !s.owns(path) {
		s.log.Warn("blob_delete_refused", slog.String("path", path))
		return false
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.Warn("blob_delete_failed", slog.String("path", path), slog.String("error", err.Error()))
		return false
	}
	return true
}

func (s *FSStore) owns(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(s.dir, abs)
	if err != nil {
		return false
	}
	return rel != "." && !strings.HasPrefix(rel, "..") && !strings.ContainsRune(rel, filepath.Separator)
}

// ctxReader fails reads once ctx is done, so an abandoned upload stops
// streaming.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
