// Package mocks holds testify mocks for internal interfaces.
package mocks

import (
	"context"
	"time"

	mock "github.com/stretchr/testify/mock"
)

// NewMockCacheManager creates a new instance of MockCacheManager. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockCacheManager[K ~string, V any](t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCacheManager[K, V] {
	m := &MockCacheManager[K, V]{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockCacheManager is an autogenerated mock type for the CacheManager type
type MockCacheManager[K ~string, V any] struct {
	mock.Mock
}

type MockCacheManager_Expecter[K ~string, V any] struct {
	mock *mock.Mock
}

func (_m *MockCacheManager[K, V]) EXPECT() *MockCacheManager_Expecter[K, V] {
	return &MockCacheManager_Expecter[K, V]{mock: &_m.Mock}
}

// Delete provides a mock function for the type MockCacheManager
func (_mock *MockCacheManager[K, V]) Delete(ctx context.Context, keys ...K) error {
	args := []interface{}{ctx}
	for _, k := range keys {
		args = append(args, k)
	}
	ret := _mock.Called(args...)

	if len(ret) == 0 {
		panic("no return value specified for Delete")
	}
	if rf, ok := ret.Get(0).(func(context.Context, ...K) error); ok {
		return rf(ctx, keys...)
	}
	return ret.Error(0)
}

// MockCacheManager_Delete_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Delete'
type MockCacheManager_Delete_Call[K ~string, V any] struct {
	*mock.Call
}

// Delete is a helper method to define mock.On call
func (_e *MockCacheManager_Expecter[K, V]) Delete(ctx interface{}, keys ...interface{}) *MockCacheManager_Delete_Call[K, V] {
	return &MockCacheManager_Delete_Call[K, V]{Call: _e.mock.On("Delete", append([]interface{}{ctx}, keys...)...)}
}

func (_c *MockCacheManager_Delete_Call[K, V]) Return(err error) *MockCacheManager_Delete_Call[K, V] {
	_c.Call.Return(err)
	return _c
}

// Flush provides a mock function for the type MockCacheManager
func (_mock *MockCacheManager[K, V]) Flush(ctx context.Context) error {
	ret := _mock.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Flush")
	}
	if rf, ok := ret.Get(0).(func(context.Context) error); ok {
		return rf(ctx)
	}
	return ret.Error(0)
}

// MockCacheManager_Flush_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Flush'
type MockCacheManager_Flush_Call[K ~string, V any] struct {
	*mock.Call
}

// Flush is a helper method to define mock.On call
func (_e *MockCacheManager_Expecter[K, V]) Flush(ctx interface{}) *MockCacheManager_Flush_Call[K, V] {
	return &MockCacheManager_Flush_Call[K, V]{Call: _e.mock.On("Flush", ctx)}
}

func (_c *MockCacheManager_Flush_Call[K, V]) Return(err error) *MockCacheManager_Flush_Call[K, V] {
	_c.Call.Return(err)
	return _c
}

// Get provides a mock function for the type MockCacheManager
func (_mock *MockCacheManager[K, V]) Get(ctx context.Context, key K) (V, bool) {
	ret := _mock.Called(ctx, key)

	if len(ret) == 0 {
		panic("no return value specified for Get")
	}

	var r0 V
	var r1 bool
	if rf, ok := ret.Get(0).(func(context.Context, K) (V, bool)); ok {
		return rf(ctx, key)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(V)
	}
	r1 = ret.Bool(1)
	return r0, r1
}

// MockCacheManager_Get_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Get'
type MockCacheManager_Get_Call[K ~string, V any] struct {
	*mock.Call
}

// Get is a helper method to define mock.On call
func (_e *MockCacheManager_Expecter[K, V]) Get(ctx interface{}, key interface{}) *MockCacheManager_Get_Call[K, V] {
	return &MockCacheManager_Get_Call[K, V]{Call: _e.mock.On("Get", ctx, key)}
}

func (_c *MockCacheManager_Get_Call[K, V]) Return(value V, found bool) *MockCacheManager_Get_Call[K, V] {
	_c.Call.Return(value, found)
	return _c
}

// GetWithRefresh provides a mock function for the type MockCacheManager
func (_mock *MockCacheManager[K, V]) GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool) {
	ret := _mock.Called(ctx, key, ttl)

	if len(ret) == 0 {
		panic("no return value specified for GetWithRefresh")
	}

	var r0 V
	var r1 bool
	if rf, ok := ret.Get(0).(func(context.Context, K, time.Duration) (V, bool)); ok {
		return rf(ctx, key, ttl)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(V)
	}
	r1 = ret.Bool(1)
	return r0, r1
}

// MockCacheManager_GetWithRefresh_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'GetWithRefresh'
type MockCacheManager_GetWithRefresh_Call[K ~string, V any] struct {
	*mock.Call
}

// GetWithRefresh is a helper method to define mock.On call
func (_e *MockCacheManager_Expecter[K, V]) GetWithRefresh(ctx interface{}, key interface{}, ttl interface{}) *MockCacheManager_GetWithRefresh_Call[K, V] {
	return &MockCacheManager_GetWithRefresh_Call[K, V]{Call: _e.mock.On("GetWithRefresh", ctx, key, ttl)}
}

func (_c *MockCacheManager_GetWithRefresh_Call[K, V]) Return(value V, found bool) *MockCacheManager_GetWithRefresh_Call[K, V] {
	_c.Call.Return(value, found)
	return _c
}

// Set provides a mock function for the type MockCacheManager
func (_mock *MockCacheManager[K, V]) Set(ctx context.Context, key K, value V, ttl time.Duration) {
	_mock.Called(ctx, key, value, ttl)
}

// MockCacheManager_Set_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Set'
type MockCacheManager_Set_Call[K ~string, V any] struct {
	*mock.Call
}

// Set is a helper method to define mock.On call
func (_e *MockCacheManager_Expecter[K, V]) Set(ctx interface{}, key interface{}, value interface{}, ttl interface{}) *MockCacheManager_Set_Call[K, V] {
	return &MockCacheManager_Set_Call[K, V]{Call: _e.mock.On("Set", ctx, key, value, ttl)}
}

func (_c *MockCacheManager_Set_Call[K, V]) Return() *MockCacheManager_Set_Call[K, V] {
	_c.Call.Return()
	return _c
}
