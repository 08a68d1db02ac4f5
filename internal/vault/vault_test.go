package vault

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/memory-vault/internal/config"
	memerr "github.com/rcliao/memory-vault/internal/errors"
	"github.com/rcliao/memory-vault/internal/model"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	cfg := config.NewConfig()
	cfg.Storage.DBPath = filepath.Join(dir, "vault.db")
	cfg.Storage.MediaDir = filepath.Join(dir, "uploads")
	cfg.Extraction.OCRCommand = "memvault-no-such-ocr-binary"
	cfg.Extraction.Workers = 2

	s, err := Open(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func createImage(t *testing.T, s *Service, title string) *model.Memory {
	t.Helper()
	m, err := s.CreateMemory(context.Background(), CreateRequest{
		Title:       title,
		ContentType: "image/jpeg",
		Filename:    "photo.JPG",
		Media:       strings.NewReader("not really pixels"),
	})
	require.NoError(t, err)
	return m
}

func TestService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	// Recognition fails on these bytes; the upload still succeeds.
	mem := createImage(t, s, "Summer Trip")
	assert.Equal(t, model.KindImage, mem.MediaKind)
	assert.Empty(t, mem.ExtractedText)
	assert.Equal(t, 0.0, mem.SentimentScore)
	assert.True(t, strings.HasSuffix(mem.MediaPath, ".jpg"))
	_, err := os.Stat(mem.MediaPath)
	require.NoError(t, err)

	got, err := s.GetMemory(ctx, mem.ID)
	require.NoError(t, err)
	assert.Equal(t, mem.Title, got.Title)

	results, err := s.SearchMemories(ctx, "summer", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Title: <mark>Summer</mark> Trip", results[0].Snippet)

	text := "We visited the lake and it was wonderful"
	_, err = s.UpdateMemory(ctx, mem.ID, model.UpdateRequest{ExtractedText: &text})
	require.NoError(t, err)
	results, err = s.SearchMemories(ctx, "lake", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Snippet, "<mark>lake</mark>")

	_, err = s.SearchMemories(ctx, "", 0)
	assert.True(t, memerr.IsValidation(err))

	require.NoError(t, s.DeleteMemory(ctx, mem.ID))
	_, err = s.GetMemory(ctx, mem.ID)
	assert.True(t, memerr.IsNotFound(err))
	_, err = os.Stat(mem.MediaPath)
	assert.True(t, os.IsNotExist(err), "blob removed with the record")

	results, err = s.SearchMemories(ctx, "lake", 0)
	require.NoError(t, err)
	assert.Empty(t, results)

	assert.True(t, memerr.IsNotFound(s.DeleteMemory(ctx, mem.ID)))
}

func TestService_RejectsBadUploads(t *testing.T) {
	s := newTestService(t)
	_, err := s.CreateMemory(context.Background(), CreateRequest{
		Title: "clip", ContentType: "text/plain", Media: strings.NewReader("x"),
	})
	assert.True(t, memerr.IsValidation(err))

	files, _ := os.ReadDir(s.blobs.Dir())
	assert.Empty(t, files)
}

func TestService_ListAndStats(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	a := createImage(t, s, "first")
	b := createImage(t, s, "second")
	_, err := s.CreateMemory(ctx, CreateRequest{
		Title: "voice note", ContentType: "audio/mpeg", Filename: "n.mp3", Media: strings.NewReader("ID3"),
	})
	require.NoError(t, err)

	list, err := s.ListMemories(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.NotEqual(t, a.ID, list[0].ID)
	assert.Equal(t, b.ID, list[1].ID)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, st.TotalCount)
	assert.Equal(t, 2, st.CountByKind["image"])
	assert.Equal(t, 1, st.CountByKind["audio"])
}

func TestService_ExportImport(t *testing.T) {
	ctx := context.Background()
	src := newTestService(t)
	createImage(t, src, "one")
	createImage(t, src, "two")

	dump, err := src.Export(ctx)
	require.NoError(t, err)
	require.Len(t, dump, 2)

	dst := newTestService(t)
	n, err := dst.Import(ctx, dump)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	results, err := dst.SearchMemories(ctx, "two", 0)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestService_Doctor(t *testing.T) {
	s := newTestService(t)
	createImage(t, s, "x")

	r := s.Doctor(context.Background())
	assert.True(t, r.Healthy)
	byName := map[string]Check{}
	for _, c := range r.Checks {
		byName[c.Name] = c
	}
	assert.True(t, byName["store"].OK)
	assert.True(t, byName["index"].OK)
	assert.True(t, byName["media_dir"].OK)
	assert.False(t, byName["ocr"].OK, "missing binary reported")
	assert.False(t, byName["asr"].OK)
	assert.Empty(t, r.Inconsistencies)
}
