package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	memerr "github.com/rcliao/memory-vault/internal/errors"
	"github.com/rcliao/memory-vault/internal/model"
)

// execer is satisfied by *sql.Tx. The index is only ever written through a
// transaction that also writes the owning record.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// putEntry writes (or rewrites) the index entry for e.
func putEntry(ctx context.Context, tx execer, e model.IndexEntry) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM memories_fts WHERE rowid = ?`, e.ID); err != nil {
		return fmt.Errorf("delete index entry: %w", err)
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO memories_fts(rowid, title, extracted_text, person) VALUES (?, ?, ?, ?)`,
		e.ID, e.Title, e.ExtractedText, e.Person)
	if err != nil {
		return fmt.Errorf("insert index entry: %w", err)
	}
	return nil
}

// dropEntry removes the index entry for id.
func dropEntry(ctx context.Context, tx execer, id int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM memories_fts WHERE rowid = ?`, id); err != nil {
		return fmt.Errorf("delete index entry: %w", err)
	}
	return nil
}

// matchExpr builds an FTS5 MATCH expression requiring every term. Terms are
// quoted so query text can never be read as FTS5 syntax.
func matchExpr(terms []string) string {
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		quoted = append(quoted, `"`+strings.ReplaceAll(t, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " ")
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

// SearchIndex ranks memories whose title, text or person contain all terms.
// Ties on relevance break by created_at then id, newest first.
func (s *SQLiteStore) SearchIndex(ctx context.Context, q IndexQuery) ([]Hit, error) {
	expr := matchExpr(q.Terms)
	if expr == "" {
		return []Hit{}, nil
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	w := q.Weights
	if w == (Weights{}) {
		w = DefaultWeights
	}

	// bm25() is negative, lower is better.
	query := fmt.Sprintf(`
		SELECT %s, bm25(memories_fts, %s, %s, %s) AS score
		FROM memories_fts
		JOIN memories m ON m.id = memories_fts.rowid
		WHERE memories_fts MATCH ?
		ORDER BY score, m.created_at DESC, m.id DESC
		LIMIT ?`,
		memoryColumns("m"), formatWeight(w.Title), formatWeight(w.Text), formatWeight(w.Person))

	rows, err := s.db.QueryContext(ctx, query, expr, limit)
	if err != nil {
		return nil, memerr.Persistence("search index", err)
	}
	defer rows.Close()

	hits := []Hit{}
	for rows.Next() {
		var h Hit
		var score float64
		m, err := scanMemory(rows, &score)
		if err != nil {
			return nil, memerr.Persistence("scan search hit", err)
		}
		h.Memory = m
		h.Score = -score
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, memerr.Persistence("search index", err)
	}
	return hits, nil
}

// Inconsistency is a record without an index entry or the reverse.
type Inconsistency struct {
	ID   int64  `json:"id"`
	Type string `json:"type"` // "missing_index" or "orphan_index"
}

// CheckConsistency compares record ids with index rowids.
func (s *SQLiteStore) CheckConsistency(ctx context.Context) ([]Inconsistency, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, 'missing_index' FROM memories m
		WHERE NOT EXISTS (SELECT 1 FROM memories_fts f WHERE f.rowid = m.id)
		UNION ALL
		SELECT f.rowid, 'orphan_index' FROM memories_fts f
		WHERE NOT EXISTS (SELECT 1 FROM memories m WHERE m.id = f.rowid)
		ORDER BY 1`)
	if err != nil {
		return nil, memerr.Persistence("check consistency", err)
	}
	defer rows.Close()

	out := []Inconsistency{}
	for rows.Next() {
		var inc Inconsistency
		if err := rows.Scan(&inc.ID, &inc.Type); err != nil {
			return nil, memerr.Persistence("check consistency", err)
		}
		out = append(out, inc)
	}
	return out, rows.Err()
}
