package model

import (
	"time"

	"github.com/sgchris/gresources/internal/resourcepath"
)

// DefaultOwnerID is the identity every resource is stored under.
const DefaultOwnerID int64 = 1

// Resource represents a stored text resource addressed by its path.
// This is a pure domain model with no database-specific dependencies or tags.
type Resource struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Path      string    `json:"path"`
	Content   *string   `json:"content,omitempty"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewResource builds an unsaved resource for path with its size derived from content.
func NewResource(path, content string) *Resource {
	now := Now()
	return &Resource{
		OwnerID:   DefaultOwnerID,
		Path:      path,
		Content:   &content,
		Size:      int64(len(content)),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Folder returns the path of the folder containing the resource.
func (r *Resource) Folder() string {
	return resourcepath.FolderOf(r.Path)
}

// Text returns the content, or an empty string when the row has none.
func (r *Resource) Text() string {
	if r.Content == nil {
		return ""
	}
	return *r.Content
}

// FolderView is the derived view of a folder: it is computed from the stored
// resource paths on every read and never persisted.
type FolderView struct {
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
	Children  []string  `json:"children"`
}

// Now returns the current UTC time truncated to the millisecond precision
// timestamps are stored with.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
