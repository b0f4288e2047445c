// Package sqlstore implements repository.ResourceRepository over database/sql
// for SQLite and PostgreSQL.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/tidwall/btree"

	"github.com/sgchris/gresources/internal/database"
	"github.com/sgchris/gresources/internal/model"
	"github.com/sgchris/gresources/internal/repository"
	"github.com/sgchris/gresources/internal/resourcepath"
)

const resourceColumns = `id, user_id, path, content, size, created_at, updated_at`

// ResourceStore is a SQL implementation of repository.ResourceRepository.
// Every method holds mu for its whole duration, so reads and writes are
// atomic with respect to each other.
type ResourceStore struct {
	mu      sync.Mutex
	db      *sql.DB
	dialect database.Dialect
	now     func() time.Time
}

// NewResourceStore creates a new ResourceStore over db.
func NewResourceStore(db *sql.DB, dialect database.Dialect) *ResourceStore {
	return &ResourceStore{db: db, dialect: dialect, now: model.Now}
}

var _ repository.ResourceRepository = (*ResourceStore)(nil)

func (s *ResourceStore) q(query string) string {
	return s.dialect.Rebind(query)
}

// Exists reports whether a row exists at exactly path.
func (s *ResourceStore) Exists(ctx context.Context, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.exists(ctx, path)
}

func (s *ResourceStore) exists(ctx context.Context, path string) (bool, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, s.q(`SELECT COUNT(*) FROM resources WHERE path = ?`), path).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new row for res.Path. Size and both timestamps are set by
// the store; the stored row is returned with its id.
func (s *ResourceStore) Create(ctx context.Context, res *model.Resource) (*model.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.exists(ctx, res.Path)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, repository.ErrConflict
	}

	now := s.now()
	var size int64
	if res.Content != nil {
		size = int64(len(*res.Content))
	}

	query := `
		INSERT INTO resources (user_id, path, content, size, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING ` + resourceColumns
	row := s.db.QueryRowContext(ctx, s.q(query),
		res.OwnerID,
		res.Path,
		nullString(res.Content),
		size,
		formatTime(now),
		formatTime(now),
	)
	out, err := scanResource(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrConflict
		}
		return nil, err
	}
	return out, nil
}

// Get fetches the row at exactly path.
func (s *ResourceStore) Get(ctx context.Context, path string) (*model.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx, s.q(`SELECT `+resourceColumns+` FROM resources WHERE path = ?`), path)
	res, err := scanResource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return res, err
}

// Update overwrites the content of the row at path, recomputing size and
// updated_at. created_at is left untouched.
func (s *ResourceStore) Update(ctx context.Context, path, content string) (*model.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		UPDATE resources SET content = ?, size = ?, updated_at = ?
		WHERE path = ?
		RETURNING ` + resourceColumns
	row := s.db.QueryRowContext(ctx, s.q(query), content, int64(len(content)), formatTime(s.now()), path)
	res, err := scanResource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return res, err
}

// Delete removes the row at path.
func (s *ResourceStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM resources WHERE path = ?`), path)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListFolder derives the folder view of folder from a single prefix scan.
//
// The scan matches the row at exactly the folder path and every row below it
// at any depth. The exact row only supplies the folder's created_at. Each other
// row contributes the child of folder on its way down, so a row nested deeper
// than one level shows up as its first-level ancestor and still makes the
// folder exist.
func (s *ResourceStore) ListFolder(ctx context.Context, folder string) (*model.FolderView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	folder = resourcepath.Normalize(folder)
	exact, prefix := scanBounds(folder)

	query := `
		SELECT path, created_at FROM resources
		WHERE path = ? OR substr(path, 1, ?) = ?
		ORDER BY path`
	rows, err := s.db.QueryContext(ctx, s.q(query), exact, utf8.RuneCountInString(prefix), prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		createdAt   time.Time
		found       bool
		descendants int
	)
	children := btree.NewMap[string, struct{}](0)
	for rows.Next() {
		var path, created string
		if err := rows.Scan(&path, &created); err != nil {
			return nil, err
		}

		if path == exact {
			t, err := parseTime(created)
			if err != nil {
				return nil, fmt.Errorf("resource %s: created_at: %w", path, err)
			}
			createdAt = t
			found = true
			continue
		}

		descendants++
		if child, ok := resourcepath.ChildOf(folder, path); ok {
			children.Set(child, struct{}{})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !found && descendants == 0 && !resourcepath.IsRoot(folder) {
		return nil, repository.ErrNotFound
	}
	if !found {
		// No row of its own: the folder reports the time it was looked at.
		createdAt = s.now()
	}

	list := make([]string, 0, children.Len())
	children.Scan(func(child string, _ struct{}) bool {
		list = append(list, child)
		return true
	})

	return &model.FolderView{
		Path:      folder,
		CreatedAt: createdAt,
		Children:  list,
	}, nil
}

// FolderIsEmpty reports whether no row lies below folder at any depth.
func (s *ResourceStore) FolderIsEmpty(ctx context.Context, folder string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, prefix := scanBounds(resourcepath.Normalize(folder))

	var count int64
	query := `SELECT COUNT(*) FROM resources WHERE substr(path, 1, ?) = ?`
	if err := s.db.QueryRowContext(ctx, s.q(query), utf8.RuneCountInString(prefix), prefix).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

// scanBounds returns the exact path matched as the folder's own row and the
// prefix shared by everything below it. The root has no row of its own.
func scanBounds(folder string) (exact, prefix string) {
	if resourcepath.IsRoot(folder) {
		return "", resourcepath.Separator
	}
	return folder, folder + resourcepath.Separator
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResource(row rowScanner) (*model.Resource, error) {
	var r model.Resource
	var content sql.NullString
	var created, updated string
	if err := row.Scan(
		&r.ID,
		&r.OwnerID,
		&r.Path,
		&content,
		&r.Size,
		&created,
		&updated,
	); err != nil {
		return nil, err
	}

	if content.Valid {
		r.Content = &content.String
	}

	var err error
	if r.CreatedAt, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("resource %s: created_at: %w", r.Path, err)
	}
	if r.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, fmt.Errorf("resource %s: updated_at: %w", r.Path, err)
	}
	return &r, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
