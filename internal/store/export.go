package store

import (
	"context"

	memerr "github.com/rcliao/memory-vault/internal/errors"
	"github.com/rcliao/memory-vault/internal/model"
)

// ExportAll returns every memory ordered by id.
func (s *SQLiteStore) ExportAll(ctx context.Context) ([]model.Memory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+memoryColumns("")+` FROM memories ORDER BY id`)
	if err != nil {
		return nil, memerr.Persistence("export", err)
	}
	defer rows.Close()

	memories := []model.Memory{}
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, memerr.Persistence("export", err)
		}
		memories = append(memories, m)
	}
	return memories, rows.Err()
}

// Import re-creates memories from an export. Ids and timestamps are assigned
// fresh; everything else is kept.
func (s *SQLiteStore) Import(ctx context.Context, memories []model.Memory) (int, error) {
	imported := 0
	for _, m := range memories {
		_, err := s.Create(ctx, model.NewMemory{
			Title:          m.Title,
			ExtractedText:  m.ExtractedText,
			OccurredDate:   m.OccurredDate,
			Location:       m.Location,
			SentimentScore: m.SentimentScore,
			MediaPath:      m.MediaPath,
			MediaKind:      m.MediaKind,
			Person:         m.Person,
		})
		if err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
