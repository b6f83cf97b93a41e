// Package mocks holds testify mocks for the service store interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/car-rental-marketplace/internal/model"
)

// CarStore mocks service.CarStore.
type CarStore struct {
	mock.Mock
}

func (m *CarStore) ListAvailable(ctx context.Context, location string) ([]model.Car, error) {
	args := m.Called(ctx, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Car), args.Error(1)
}

// BookingStore mocks service.BookingStore.
type BookingStore struct {
	mock.Mock
}

func (m *BookingStore) CountOverlapping(ctx context.Context, carID uint64, pickup, ret time.Time) (int, error) {
	args := m.Called(ctx, carID, pickup, ret)
	return args.Int(0), args.Error(1)
}

func (m *BookingStore) Reserve(ctx context.Context, customerID, carID uint64, pickup, ret time.Time) (*model.Booking, error) {
	args := m.Called(ctx, customerID, carID, pickup, ret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *BookingStore) ListByCustomer(ctx context.Context, customerID uint64) ([]model.BookingDetail, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BookingDetail), args.Error(1)
}

func (m *BookingStore) ListByOwner(ctx context.Context, ownerID uint64) ([]model.BookingDetail, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BookingDetail), args.Error(1)
}

func (m *BookingStore) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *BookingStore) UpdateStatus(ctx context.Context, id uint64, status model.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
