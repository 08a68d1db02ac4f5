package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	memerr "github.com/rcliao/memory-vault/internal/errors"
	"github.com/rcliao/memory-vault/internal/model"
)

// timeLayout is fixed-width so that text ordering equals time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore implements Store using SQLite with an FTS5 index table.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	rows   *rowLocks
	now    func() time.Time
	commit func(op string) error // runs inside the transaction just before COMMIT
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	// Write transactions begin IMMEDIATE so concurrent writers queue on the
	// busy timeout instead of failing on lock upgrade.
	dsn := dbPath + "?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=synchronous(normal)&_txlock=immediate"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		path:   dbPath,
		rows:   newRowLocks(),
		now:    func() time.Time { return time.Now().UTC() },
		commit: func(string) error { return nil },
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS memories (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		title          TEXT NOT NULL CHECK (title <> ''),
		extracted_text TEXT NOT NULL DEFAULT '',
		occurred_date  TEXT,
		location       TEXT,
		sentiment      REAL NOT NULL DEFAULT 0.0 CHECK (sentiment BETWEEN -1.0 AND 1.0),
		media_path     TEXT NOT NULL,
		media_kind     TEXT NOT NULL CHECK (media_kind IN ('image', 'audio')),
		person         TEXT,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_memories_created ON memories(created_at DESC, id DESC);
	CREATE INDEX IF NOT EXISTS idx_memories_kind ON memories(media_kind);

	CREATE VIRTUAL TABLE IF NOT EXISTS memories_fts USING fts5(
		title,
		extracted_text,
		person,
		tokenize='unicode61 remove_diacritics 2'
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Create stores a new memory and its index entry in one transaction.
// AUTOINCREMENT guarantees ids are never reused, even after deletes.
func (s *SQLiteStore) Create(ctx context.Context, p model.NewMemory) (*model.Memory, error) {
	if strings.TrimSpace(p.Title) == "" {
		return nil, memerr.Validation("title is required")
	}
	if !p.MediaKind.Valid() {
		return nil, memerr.Validation("invalid media kind %q", p.MediaKind)
	}
	now := s.now()
	mem := &model.Memory{
		Title:          p.Title,
		ExtractedText:  p.ExtractedText,
		OccurredDate:   p.OccurredDate,
		Location:       p.Location,
		SentimentScore: model.ClampSentiment(p.SentimentScore),
		MediaPath:      p.MediaPath,
		MediaKind:      p.MediaKind,
		Person:         p.Person,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, memerr.Persistence("begin create", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO memories (title, extracted_text, occurred_date, location, sentiment,
		                       media_path, media_kind, person, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		mem.Title, mem.ExtractedText, mem.OccurredDate, mem.Location, mem.SentimentScore,
		mem.MediaPath, string(mem.MediaKind), mem.Person,
		now.Format(timeLayout), now.Format(timeLayout))
	if err != nil {
		return nil, memerr.Persistence("insert memory", err)
	}
	if mem.ID, err = res.LastInsertId(); err != nil {
		return nil, memerr.Persistence("read memory id", err)
	}

	if err := putEntry(ctx, tx, mem.Entry()); err != nil {
		return nil, memerr.Persistence("create", err)
	}
	if err := s.commit("create"); err != nil {
		return nil, memerr.Persistence("create", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, memerr.Persistence("commit create", err)
	}
	return mem, nil
}

// Get retrieves a memory by id.
func (s *SQLiteStore) Get(ctx context.Context, id int64) (*model.Memory, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+memoryColumns("")+` FROM memories WHERE id = ?`, id)
	m, err := scanMemory(row)
	if err == sql.ErrNoRows {
		return nil, memerr.NotFound(id)
	}
	if err != nil {
		return nil, memerr.Persistence("get memory", err)
	}
	return &m, nil
}

// Update applies the non-nil fields of u. Empty strings clear the optional
// date, location and person fields. The index entry is rewritten in the same
// transaction when a searchable field changes.
func (s *SQLiteStore) Update(ctx context.Context, id int64, u model.UpdateRequest) (*model.Memory, error) {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return nil, memerr.Validation("title cannot be empty")
	}
	if u.SentimentScore != nil && (math.IsNaN(*u.SentimentScore) || *u.SentimentScore < -1 || *u.SentimentScore > 1) {
		return nil, memerr.Validation("sentiment %v outside [-1, 1]", *u.SentimentScore)
	}

	release := s.rows.lock(id)
	defer release()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, memerr.Persistence("begin update", err)
	}
	defer tx.Rollback()

	m, err := scanMemory(tx.QueryRowContext(ctx,
		`SELECT `+memoryColumns("")+` FROM memories WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, memerr.NotFound(id)
	}
	if err != nil {
		return nil, memerr.Persistence("load memory", err)
	}
	if u.Empty() {
		return &m, nil
	}

	var sets []string
	var args []any
	if u.Title != nil {
		m.Title = *u.Title
		sets, args = append(sets, "title = ?"), append(args, m.Title)
	}
	if u.ExtractedText != nil {
		m.ExtractedText = *u.ExtractedText
		sets, args = append(sets, "extracted_text = ?"), append(args, m.ExtractedText)
	}
	if u.OccurredDate != nil {
		m.OccurredDate = model.StringPtr(*u.OccurredDate)
		sets, args = append(sets, "occurred_date = ?"), append(args, m.OccurredDate)
	}
	if u.Location != nil {
		m.Location = model.StringPtr(*u.Location)
		sets, args = append(sets, "location = ?"), append(args, m.Location)
	}
	if u.SentimentScore != nil {
		m.SentimentScore = *u.SentimentScore
		sets, args = append(sets, "sentiment = ?"), append(args, m.SentimentScore)
	}
	if u.Person != nil {
		m.Person = model.StringPtr(*u.Person)
		sets, args = append(sets, "person = ?"), append(args, m.Person)
	}
	m.UpdatedAt = s.now()
	sets, args = append(sets, "updated_at = ?"), append(args, m.UpdatedAt.Format(timeLayout))
	args = append(args, id)

	if _, err := tx.ExecContext(ctx,
		`UPDATE memories SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return nil, memerr.Persistence("update memory", err)
	}
	if u.TouchesIndex() {
		if err := putEntry(ctx, tx, m.Entry()); err != nil {
			return nil, memerr.Persistence("update", err)
		}
	}
	if err := s.commit("update"); err != nil {
		return nil, memerr.Persistence("update", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, memerr.Persistence("commit update", err)
	}
	return &m, nil
}

// Delete removes a memory and its index entry atomically.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) (string, error) {
	release := s.rows.lock(id)
	defer release()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", memerr.Persistence("begin delete", err)
	}
	defer tx.Rollback()

	var mediaPath string
	err = tx.QueryRowContext(ctx, `SELECT media_path FROM memories WHERE id = ?`, id).Scan(&mediaPath)
	if err == sql.ErrNoRows {
		return "", memerr.NotFound(id)
	}
	if err != nil {
		return "", memerr.Persistence("load memory", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM memories WHERE id = ?`, id); err != nil {
		return "", memerr.Persistence("delete memory", err)
	}
	if err := dropEntry(ctx, tx, id); err != nil {
		return "", memerr.Persistence("delete", err)
	}
	if err := s.commit("delete"); err != nil {
		return "", memerr.Persistence("delete", err)
	}
	if err := tx.Commit(); err != nil {
		return "", memerr.Persistence("commit delete", err)
	}
	return mediaPath, nil
}

// List returns memories ordered by created_at then id, newest first.
func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]model.Memory, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+memoryColumns("")+` FROM memories
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, memerr.Persistence("list memories", err)
	}
	defer rows.Close()

	memories := []model.Memory{}
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, memerr.Persistence("scan memory", err)
		}
		memories = append(memories, m)
	}
	if err := rows.Err(); err != nil {
		return nil, memerr.Persistence("list memories", err)
	}
	return memories, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks that the database answers.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func memoryColumns(alias string) string {
	cols := []string{"id", "title", "extracted_text", "occurred_date", "location", "sentiment",
		"media_path", "media_kind", "person", "created_at", "updated_at"}
	if alias == "" {
		return strings.Join(cols, ", ")
	}
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

type scanner interface {
	Scan(dest ...any) error
}

// scanMemory reads the memoryColumns followed by any extra destinations.
func scanMemory(row scanner, extra ...any) (model.Memory, error) {
	var m model.Memory
	var date, location, person sql.NullString
	var kind, createdAt, updatedAt string

	dest := []any{
		&m.ID, &m.Title, &m.ExtractedText, &date, &location, &m.SentimentScore,
		&m.MediaPath, &kind, &person, &createdAt, &updatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return m, err
	}

	m.MediaKind = model.MediaKind(kind)
	m.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	m.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	if date.Valid {
		m.OccurredDate = &date.String
	}
	if location.Valid {
		m.Location = &location.String
	}
	if person.Valid {
		m.Person = &person.String
	}
	return m, nil
}
