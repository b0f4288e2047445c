package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sgchris/gresources/internal/model"
)

type MockResourceRepository struct {
	mock.Mock
}

func (m *MockResourceRepository) Exists(ctx context.Context, path string) (bool, error) {
	args := m.Called(ctx, path)
	return args.Bool(0), args.Error(1)
}

func (m *MockResourceRepository) Create(ctx context.Context, res *model.Resource) (*model.Resource, error) {
	args := m.Called(ctx, res)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Resource), args.Error(1)
}

func (m *MockResourceRepository) Get(ctx context.Context, path string) (*model.Resource, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Resource), args.Error(1)
}

func (m *MockResourceRepository) Update(ctx context.Context, path, content string) (*model.Resource, error) {
	args := m.Called(ctx, path, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Resource), args.Error(1)
}

func (m *MockResourceRepository) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockResourceRepository) ListFolder(ctx context.Context, folder string) (*model.FolderView, error) {
	args := m.Called(ctx, folder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FolderView), args.Error(1)
}

func (m *MockResourceRepository) FolderIsEmpty(ctx context.Context, folder string) (bool, error) {
	args := m.Called(ctx, folder)
	return args.Bool(0), args.Error(1)
}
