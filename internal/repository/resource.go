package repository

import (
	"context"
	"errors"

	"github.com/sgchris/gresources/internal/model"
)

var (
	// ErrNotFound is returned when no row matches the requested path.
	ErrNotFound = errors.New("resource not found")
	// ErrConflict is returned when a row already exists at the path being created.
	ErrConflict = errors.New("resource already exists")
)

// ResourceRepository defines data access for resources keyed by path.
// Folders have no rows of their own; they are derived from path prefixes.
// Implementations must serialize every call so no caller observes a partially
// applied write.
type ResourceRepository interface {
	// Exists reports whether a row exists at exactly path.
	Exists(ctx context.Context, path string) (bool, error)

	// Create inserts res and returns the stored row including its id.
	// Returns ErrConflict if a row already exists at res.Path.
	Create(ctx context.Context, res *model.Resource) (*model.Resource, error)

	// Get returns the row at exactly path, or ErrNotFound.
	Get(ctx context.Context, path string) (*model.Resource, error)

	// Update overwrites content, size and updated_at of the row at path.
	Update(ctx context.Context, path, content string) (*model.Resource, error)

	// Delete removes the row at path, or returns ErrNotFound.
	Delete(ctx context.Context, path string) error

	// ListFolder returns the direct children of folder in ascending path order.
	// Returns ErrNotFound when nothing is stored at or below folder.
	ListFolder(ctx context.Context, folder string) (*model.FolderView, error)

	// FolderIsEmpty reports whether no row lies below folder at any depth.
	FolderIsEmpty(ctx context.Context, folder string) (bool, error)
}
