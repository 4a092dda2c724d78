// Package mocks - testify-моки репозиториев для тестов сервисов.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"pest-erp/internal/lists"
	"pest-erp/pkg/listing"
	"pest-erp/pkg/types"
)

type CacheRepository struct {
	mock.Mock
}

func (m *CacheRepository) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *CacheRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *CacheRepository) Del(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *CacheRepository) Keys(ctx context.Context, pattern string) ([]string, error) {
	args := m.Called(ctx, pattern)
	keys, _ := args.Get(0).([]string)
	return keys, args.Error(1)
}

type RowSource struct {
	mock.Mock
}

func (m *RowSource) FetchRows(ctx context.Context, def lists.Definition, filter types.Filter) ([]listing.Row, uint64, error) {
	args := m.Called(ctx, def, filter)
	rows, _ := args.Get(0).([]listing.Row)
	return rows, args.Get(1).(uint64), args.Error(2)
}

type OptionRepository struct {
	mock.Mock
}

func (m *OptionRepository) DistinctValues(ctx context.Context, def lists.Definition, field string) ([]string, error) {
	args := m.Called(ctx, def, field)
	values, _ := args.Get(0).([]string)
	return values, args.Error(1)
}

func (m *OptionRepository) Invalidate(ctx context.Context, def lists.Definition) error {
	return m.Called(ctx, def).Error(0)
}
