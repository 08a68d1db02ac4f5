package store

import (
	"context"
	"math"
	"os"

	memerr "github.com/rcliao/memory-vault/internal/errors"
)

// Stats holds aggregate statistics.
type Stats struct {
	TotalCount       int            `json:"total_memories"`
	CountByKind      map[string]int `json:"by_type"`
	AverageSentiment float64        `json:"average_sentiment"`
	DBSizeBytes      int64          `json:"db_size_bytes"`
}

// Stats computes the aggregates in a single statement so the numbers come
// from one snapshot of the committed state.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{CountByKind: map[string]int{}}

	var images, audio int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(media_kind = 'image'), 0),
		       COALESCE(SUM(media_kind = 'audio'), 0),
		       COALESCE(AVG(sentiment), 0.0)
		FROM memories`).Scan(&st.TotalCount, &images, &audio, &st.AverageSentiment)
	if err != nil {
		return nil, memerr.Persistence("stats", err)
	}
	if images > 0 {
		st.CountByKind["image"] = images
	}
	if audio > 0 {
		st.CountByKind["audio"] = audio
	}
	st.AverageSentiment = math.Round(st.AverageSentiment*100) / 100

	if info, err := os.Stat(s.path); err == nil {
		st.DBSizeBytes = info.Size()
	}
	return st, nil
}
