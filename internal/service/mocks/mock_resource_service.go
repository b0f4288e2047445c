package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sgchris/gresources/internal/model"
	"github.com/sgchris/gresources/internal/service"
)

type MockResourceService struct {
	mock.Mock
}

func (m *MockResourceService) Create(ctx context.Context, path, content string) (*model.Resource, error) {
	args := m.Called(ctx, path, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Resource), args.Error(1)
}

func (m *MockResourceService) Get(ctx context.Context, path string) (*service.Entry, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Entry), args.Error(1)
}

func (m *MockResourceService) Update(ctx context.Context, path, content string) (*model.Resource, error) {
	args := m.Called(ctx, path, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Resource), args.Error(1)
}

func (m *MockResourceService) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}
