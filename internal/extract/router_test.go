package extract

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memerr "github.com/rcliao/memory-vault/internal/errors"
	"github.com/rcliao/memory-vault/internal/model"
)

type fakeOCR struct {
	text  string
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (f *fakeOCR) ExtractText(ctx context.Context, _ string) (string, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

type fakeEXIF struct {
	md  Metadata
	err error
}

func (f *fakeEXIF) ExtractMetadata(context.Context, string) (Metadata, error) {
	return f.md, f.err
}

type fakeASR struct {
	text  string
	err   error
	calls atomic.Int32
}

func (f *fakeASR) Transcribe(context.Context, string) (string, error) {
	f.calls.Add(1)
	return f.text, f.err
}

func strp(s string) *string { return &s }

func TestRoute_Image(t *testing.T) {
	ocr := &fakeOCR{text: "  Happy Birthday  "}
	exif := &fakeEXIF{md: Metadata{Date: strp("2024-07-04"), Location: strp("GPS: 1.000000, 2.000000")}}
	asr := &fakeASR{}
	r := NewRouter(ocr, exif, asr, nil)

	res, err := r.Route(context.Background(), model.KindImage, "/tmp/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "Happy Birthday", res.Content.Text)
	assert.Equal(t, "2024-07-04", *res.Content.OccurredDate)
	assert.Equal(t, "GPS: 1.000000, 2.000000", *res.Content.Location)
	assert.Empty(t, res.Degradations)
	assert.Equal(t, int32(0), asr.calls.Load())
}

func TestRoute_Audio(t *testing.T) {
	ocr := &fakeOCR{}
	asr := &fakeASR{text: "hello from the lake "}
	r := NewRouter(ocr, &fakeEXIF{}, asr, nil)

	res, err := r.Route(context.Background(), model.KindAudio, "/tmp/a.mp3")
	require.NoError(t, err)
	assert.Equal(t, "hello from the lake", res.Content.Text)
	assert.Nil(t, res.Content.OccurredDate)
	assert.Nil(t, res.Content.Location)
	assert.Equal(t, int32(0), ocr.calls.Load())
}

func TestRoute_FailuresDegrade(t *testing.T) {
	r := NewRouter(
		&fakeOCR{err: errors.New("engine crashed")},
		&fakeEXIF{err: errors.New("no exif")},
		&fakeASR{err: errors.New("model missing")},
		nil,
	)

	res, err := r.Route(context.Background(), model.KindImage, "/tmp/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, model.ExtractedContent{}, res.Content)
	require.Len(t, res.Degradations, 2)
	assert.Equal(t, "ocr", res.Degradations[0].Source)
	assert.Equal(t, "exif", res.Degradations[1].Source)

	res, err = r.Route(context.Background(), model.KindAudio, "/tmp/a.mp3")
	require.NoError(t, err)
	assert.Empty(t, res.Content.Text)
	require.Len(t, res.Degradations, 1)
	assert.Equal(t, "asr", res.Degradations[0].Source)
}

func TestRoute_PartialDegradationKeepsOtherFields(t *testing.T) {
	r := NewRouter(
		&fakeOCR{err: errors.New("engine crashed")},
		&fakeEXIF{md: Metadata{Date: strp("2023-01-02")}},
		nil, nil,
	)
	res, err := r.Route(context.Background(), model.KindImage, "/tmp/a.jpg")
	require.NoError(t, err)
	assert.Empty(t, res.Content.Text)
	assert.Equal(t, "2023-01-02", *res.Content.OccurredDate)
	assert.Len(t, res.Degradations, 1)
}

func TestRoute_MissingCollaboratorsDegrade(t *testing.T) {
	r := NewRouter(nil, nil, nil, nil)
	res, err := r.Route(context.Background(), model.KindAudio, "/tmp/a.mp3")
	require.NoError(t, err)
	require.Len(t, res.Degradations, 1)
	assert.ErrorIs(t, res.Degradations[0].Err, ErrUnavailable)
}

func TestRoute_CancellationIsFatal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRouter(&fakeOCR{delay: time.Minute}, &fakeEXIF{}, nil, nil)

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := r.Route(ctx, model.KindImage, "/tmp/a.jpg")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRoute_UnknownKind(t *testing.T) {
	r := NewRouter(nil, nil, nil, nil)
	_, err := r.Route(context.Background(), model.MediaKind("video"), "/tmp/a.mp4")
	assert.True(t, memerr.IsValidation(err))
}
