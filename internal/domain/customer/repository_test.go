package customer

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (_m *MockCustomerRepository) Initialize(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

func (_m *MockCustomerRepository) FindByAadhar(ctx context.Context, aadhar string) (*Customer, error) {
	ret := _m.Called(ctx, aadhar)

	var r0 *Customer
	if rf, ok := ret.Get(0).(func(context.Context, string) *Customer); ok {
		r0 = rf(ctx, aadhar)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*Customer)
		}
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) Insert(ctx context.Context, cust *Customer) (int64, error) {
	ret := _m.Called(ctx, cust)

	var r0 int64
	if rf, ok := ret.Get(0).(func(context.Context, *Customer) int64); ok {
		r0 = rf(ctx, cust)
	} else {
		r0 = ret.Get(0).(int64)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) ListAll(ctx context.Context) ([]*Customer, error) {
	ret := _m.Called(ctx)

	var r0 []*Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) Close() error {
	ret := _m.Called()
	return ret.Error(0)
}

var _ Repository = (*MockCustomerRepository)(nil)
