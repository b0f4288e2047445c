package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sgchris/gresources/internal/logging"
	"github.com/sgchris/gresources/internal/model"
	"github.com/sgchris/gresources/internal/repository"
	"github.com/sgchris/gresources/internal/resourcepath"
	"github.com/sgchris/gresources/internal/storage"
)

var (
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("resource already exists")
	ErrInvalidFolderDeletion = errors.New("folder is not empty")
)

// StoreError wraps a persistence failure. Its cause is logged, never shown to clients.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Entry is what a path resolves to on read: exactly one of Resource or Folder is set.
type Entry struct {
	Resource *model.Resource
	Folder   *model.FolderView
}

// IsFolder reports whether the entry is a derived folder.
func (e *Entry) IsFolder() bool {
	return e.Folder != nil
}

// ResourceService defines the use cases for resources addressed by path.
// Paths are normalized and validated before anything touches the store.
type ResourceService interface {
	// Create stores content at a path that has no resource yet.
	Create(ctx context.Context, path, content string) (*model.Resource, error)

	// Get resolves path to a resource, or failing that to a folder.
	Get(ctx context.Context, path string) (*Entry, error)

	// Update overwrites the content of an existing resource.
	Update(ctx context.Context, path, content string) (*model.Resource, error)

	// Delete removes a resource, or accepts an empty folder as a no-op.
	Delete(ctx context.Context, path string) error
}

// Options tune the limits and identity used by the service.
type Options struct {
	Validator      resourcepath.Validator
	MaxContentSize int64
	OwnerID        int64
}

// DefaultOptions returns the built-in limits and the default owner.
func DefaultOptions() Options {
	return Options{
		Validator:      resourcepath.DefaultValidator(),
		MaxContentSize: resourcepath.DefaultMaxContentSize,
		OwnerID:        model.DefaultOwnerID,
	}
}

type resourceService struct {
	repo   repository.ResourceRepository
	mirror storage.Storage
	log    *logging.Logger
	opts   Options
}

// NewResourceService constructs a ResourceService. mirror may be nil.
func NewResourceService(repo repository.ResourceRepository, mirror storage.Storage, log *logging.Logger, opts Options) ResourceService {
	return &resourceService{repo: repo, mirror: mirror, log: log.Named("service"), opts: opts}
}

func (s *resourceService) checkPath(raw string) (string, error) {
	path := resourcepath.Normalize(raw)
	if err := s.opts.Validator.Validate(path); err != nil {
		return "", err
	}
	return path, nil
}

func (s *resourceService) storeErr(op, path string, err error) error {
	s.log.Error("store_error",
		zap.String("operation", op),
		zap.String("path", path),
		zap.Error(err),
	)
	return &StoreError{Op: op, Err: err}
}

func (s *resourceService) Create(ctx context.Context, raw, content string) (res *model.Resource, err error) {
	defer func() { s.log.WriteOutcome("create", resourcepath.Normalize(raw), err == nil) }()

	path, err := s.checkPath(raw)
	if err != nil {
		return nil, err
	}
	if resourcepath.IsRoot(path) {
		return nil, &resourcepath.ValidationError{Field: resourcepath.FieldPath, Reason: "Root folder cannot hold content"}
	}
	if err := resourcepath.ValidateContentSize(content, s.opts.MaxContentSize); err != nil {
		return nil, err
	}

	// The write must not be abandoned halfway because the client went away.
	ctx = context.WithoutCancel(ctx)

	exists, err := s.repo.Exists(ctx, path)
	if err != nil {
		return nil, s.storeErr("exists", path, err)
	}
	if exists {
		return nil, ErrConflict
	}

	r := model.NewResource(path, content)
	r.OwnerID = s.opts.OwnerID
	res, err = s.repo.Create(ctx, r)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrConflict
		}
		return nil, s.storeErr("create", path, err)
	}

	s.log.Info("resource_created", zap.String("path", path), zap.Int64("size", res.Size))
	s.mirrorPut(ctx, path, content)
	return res, nil
}

func (s *resourceService) Get(ctx context.Context, raw string) (*Entry, error) {
	path, err := s.checkPath(raw)
	if err != nil {
		return nil, err
	}

	res, err := s.repo.Get(ctx, path)
	switch {
	case err == nil:
		return &Entry{Resource: res}, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, s.storeErr("get", path, err)
	}

	view, err := s.repo.ListFolder(ctx, path)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, s.storeErr("list", path, err)
	}
	s.log.Debug("folder_listed", zap.String("path", path), zap.Int("children", len(view.Children)))
	return &Entry{Folder: view}, nil
}

func (s *resourceService) Update(ctx context.Context, raw, content string) (res *model.Resource, err error) {
	defer func() { s.log.WriteOutcome("update", resourcepath.Normalize(raw), err == nil) }()

	path, err := s.checkPath(raw)
	if err != nil {
		return nil, err
	}
	if err := resourcepath.ValidateContentSize(content, s.opts.MaxContentSize); err != nil {
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)

	exists, err := s.repo.Exists(ctx, path)
	if err != nil {
		return nil, s.storeErr("exists", path, err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	res, err = s.repo.Update(ctx, path, content)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, s.storeErr("update", path, err)
	}

	s.log.Info("resource_updated", zap.String("path", path), zap.Int64("size", res.Size))
	s.mirrorPut(ctx, path, content)
	return res, nil
}

func (s *resourceService) Delete(ctx context.Context, raw string) (err error) {
	defer func() { s.log.WriteOutcome("delete", resourcepath.Normalize(raw), err == nil) }()

	path, err := s.checkPath(raw)
	if err != nil {
		return err
	}

	ctx = context.WithoutCancel(ctx)

	exists, err := s.repo.Exists(ctx, path)
	if err != nil {
		return s.storeErr("exists", path, err)
	}
	if exists {
		if err := s.repo.Delete(ctx, path); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return s.storeErr("delete", path, err)
		}
		s.log.Info("resource_deleted", zap.String("path", path))
		s.mirrorDelete(ctx, path)
		return nil
	}

	empty, err := s.repo.FolderIsEmpty(ctx, path)
	if err != nil {
		return s.storeErr("folder_is_empty", path, err)
	}
	if !empty {
		return ErrInvalidFolderDeletion
	}
	// Nothing at or below path: deleting an empty folder succeeds without a write.
	s.log.Debug("empty_folder_delete", zap.String("path", path))
	return nil
}

func (s *resourceService) mirrorPut(ctx context.Context, path, content string) {
	if s.mirror == nil {
		return
	}
	_, err := s.mirror.Put(ctx, storage.ObjectKey(path), strings.NewReader(content), storage.PutObjectOptions{
		Size:        int64(len(content)),
		ContentType: "text/plain; charset=utf-8",
		Metadata:    map[string]string{"resource-path": path},
	})
	if err != nil {
		s.log.Warn("mirror_put_failed", zap.String("path", path), zap.Error(err))
	}
}

func (s *resourceService) mirrorDelete(ctx context.Context, path string) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.Delete(ctx, storage.ObjectKey(path)); err != nil {
		s.log.Warn("mirror_delete_failed", zap.String("path", path), zap.Error(err))
	}
}
