package mocks

import (
	"context"

	"agents-manager/core/document"
	"agents-manager/core/gateway"
	"agents-manager/core/resource"

	"github.com/stretchr/testify/mock"
)

// Gateway is a mock implementation of gateway.Gateway
type Gateway struct {
	mock.Mock
}

func (m *Gateway) Create(ctx context.Context, kind resource.Kind, env string, config document.Document) (string, error) {
	args := m.Called(ctx, kind, env, config)
	return args.String(0), args.Error(1)
}

func (m *Gateway) Update(ctx context.Context, kind resource.Kind, env, remoteID string, config document.Document) error {
	args := m.Called(ctx, kind, env, remoteID, config)
	return args.Error(0)
}

func (m *Gateway) Get(ctx context.Context, kind resource.Kind, env, remoteID string) (document.Document, error) {
	args := m.Called(ctx, kind, env, remoteID)
	if doc, ok := args.Get(0).(document.Document); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Gateway) List(ctx context.Context, kind resource.Kind, env string, pageSize int, filter string) ([]gateway.Summary, error) {
	args := m.Called(ctx, kind, env, pageSize, filter)
	if list, ok := args.Get(0).([]gateway.Summary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Gateway) Delete(ctx context.Context, kind resource.Kind, env, remoteID string) error {
	args := m.Called(ctx, kind, env, remoteID)
	return args.Error(0)
}
