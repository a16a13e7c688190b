// Package store keeps representations of resources in SQLite.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"sync"
	"time"

	"message-adapter/application/http/semantic/condition"

	"github.com/benbjohnson/clock"
	_ "github.com/glebarez/go-sqlite"
	"github.com/pkg/errors"
)

// Memory opens a private in-memory database.
const Memory = ":memory:"

// Representation is one variant of the resource at Path.
// Variants of a path differ by media type and language.
type Representation struct {
	Path      string
	MediaType string
	Language  string
	Body      []byte

	// Tag is the opaque part of a strong entity tag, derived from Body.
	Tag        string
	ModifiedAt time.Time
}

func (r Representation) EntityTag() condition.Tag { return condition.StrongTag(r.Tag) }

type Store struct {
	db         *sql.DB
	clock      clock.Clock
	writeMutex sync.Mutex
}

// Open opens (and creates if needed) the database at dsn.
func Open(ctx context.Context, dsn string, clk clock.Clock) (*Store, error) {
	if clk == nil {
		clk = clock.New()
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if dsn == Memory {
		// Every connection would get its own database otherwise.
		db.SetMaxOpenConns(1)
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS representations (
			path TEXT NOT NULL,
			media_type TEXT NOT NULL,
			language TEXT NOT NULL,
			body BLOB NOT NULL,
			tag TEXT NOT NULL,
			modified_at INTEGER NOT NULL,
			PRIMARY KEY (path, media_type, language)
		)`,
		"PRAGMA journal_mode=WAL",
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "preparing schema")
		}
	}

	return &Store{db: db, clock: clk}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Put stores rep under its path, media type and language.
// The entity tag and modification time only change when the body does.
func (s *Store) Put(ctx context.Context, rep Representation) (Representation, error) {
	if rep.Path == "" || rep.MediaType == "" {
		return Representation{}, errors.New("representation needs a path and a media type")
	}

	if rep.Body == nil {
		rep.Body = []byte{}
	}
	sum := sha256.Sum256(rep.Body)
	rep.Tag = hex.EncodeToString(sum[:16])
	rep.ModifiedAt = s.clock.Now().UTC().Truncate(time.Second)

	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()

	_, err := s.db.ExecContext(ctx, `INSERT INTO representations
		(path, media_type, language, body, tag, modified_at) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (path, media_type, language) DO UPDATE SET
			body = excluded.body, tag = excluded.tag, modified_at = excluded.modified_at
		WHERE tag != excluded.tag`,
		rep.Path, rep.MediaType, rep.Language, rep.Body, rep.Tag, rep.ModifiedAt.Unix(),
	)
	if err != nil {
		return Representation{}, errors.Wrap(err, "storing representation")
	}

	var modified int64
	err = s.db.QueryRowContext(ctx, `SELECT modified_at FROM representations
		WHERE path = ? AND media_type = ? AND language = ?`,
		rep.Path, rep.MediaType, rep.Language,
	).Scan(&modified)
	if err != nil {
		return Representation{}, errors.Wrap(err, "reading back representation")
	}
	rep.ModifiedAt = time.Unix(modified, 0).UTC()

	return rep, nil
}

// Variants returns every representation of path, oldest first.
func (s *Store) Variants(ctx context.Context, path string) ([]Representation, error) {
	reps := make([]Representation, 0)
	rows, err := s.db.QueryContext(ctx, `SELECT
		path, media_type, language, body, tag, modified_at
		FROM representations WHERE path = ? ORDER BY rowid`, path)
	if err != nil {
		return reps, errors.Wrap(err, "querying variants")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rep      Representation
			modified int64
		)
		if err := rows.Scan(&rep.Path, &rep.MediaType, &rep.Language, &rep.Body, &rep.Tag, &modified); err != nil {
			return reps, errors.Wrap(err, "scanning variant")
		}
		rep.ModifiedAt = time.Unix(modified, 0).UTC()
		reps = append(reps, rep)
	}
	return reps, errors.Wrap(rows.Err(), "iterating variants")
}

// Delete removes every representation of path and reports how many there were.
func (s *Store) Delete(ctx context.Context, path string) (int64, error) {
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM representations WHERE path = ?", path)
	if err != nil {
		return 0, errors.Wrap(err, "deleting representations")
	}
	return res.RowsAffected()
}
