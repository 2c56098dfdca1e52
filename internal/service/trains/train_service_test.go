package trains

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/geo"
	"github.com/Domenick1991/travelease/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTrainRepository struct {
	mock.Mock
}

func (m *MockTrainRepository) Search(ctx context.Context, from, to, date string) ([]domain.TrainResult, error) {
	args := m.Called(ctx, from, to, date)
	return args.Get(0).([]domain.TrainResult), args.Error(1)
}

func (m *MockTrainRepository) GetByID(ctx context.Context, id string) (*domain.TrainResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrainResult), args.Error(1)
}

func (m *MockTrainRepository) Stations(ctx context.Context, query string) ([]domain.Station, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]domain.Station), args.Error(1)
}

func (m *MockTrainRepository) AllStations(ctx context.Context) ([]domain.Station, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Station), args.Error(1)
}

func (m *MockTrainRepository) ResolveStation(ctx context.Context, ref string) (*domain.Station, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Station), args.Error(1)
}

type MockSearchCache struct {
	mock.Mock
}

func (m *MockSearchCache) GetSearch(ctx context.Context, from, to, date string) ([]domain.TrainResult, bool, error) {
	args := m.Called(ctx, from, to, date)
	return args.Get(0).([]domain.TrainResult), args.Bool(1), args.Error(2)
}

func (m *MockSearchCache) SetSearch(ctx context.Context, from, to, date string, results []domain.TrainResult) error {
	args := m.Called(ctx, from, to, date, results)
	return args.Error(0)
}

var (
	delhi  = &domain.Station{ID: "station-1", Code: "NDLS", Name: "New Delhi Railway Station", Lat: 28.6419, Lng: 77.2194}
	mumbai = &domain.Station{ID: "station-2", Code: "MMCT", Name: "Mumbai Central", Lat: 18.9691, Lng: 72.8193}
)

func TestTrainService_Search_ResolvesCodes(t *testing.T) {
	mockRepo := &MockTrainRepository{}
	mockCache := &MockSearchCache{}
	service := NewTrainService(mockRepo, 15, WithSearchCache(mockCache))
	ctx := context.Background()

	results := []domain.TrainResult{{TrainSchedule: domain.TrainSchedule{ID: "schedule-1"}}}

	mockRepo.On("ResolveStation", ctx, "NDLS").Return(delhi, nil).Once()
	mockRepo.On("ResolveStation", ctx, "MMCT").Return(mumbai, nil).Once()
	mockCache.On("GetSearch", ctx, "station-1", "station-2", "2025-03-15").Return(([]domain.TrainResult)(nil), false, nil).Once()
	mockRepo.On("Search", ctx, "station-1", "station-2", "2025-03-15").Return(results, nil).Once()
	mockCache.On("SetSearch", ctx, "station-1", "station-2", "2025-03-15", results).Return(nil).Once()

	got, err := service.Search(ctx, "NDLS", "MMCT", "2025-03-15")

	assert.NoError(t, err)
	assert.Equal(t, results, got)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestTrainService_Search_CacheHit(t *testing.T) {
	mockRepo := &MockTrainRepository{}
	mockCache := &MockSearchCache{}
	service := NewTrainService(mockRepo, 15, WithSearchCache(mockCache))
	ctx := context.Background()

	cached := []domain.TrainResult{{TrainSchedule: domain.TrainSchedule{ID: "schedule-2"}}}

	mockRepo.On("ResolveStation", ctx, "station-1").Return(delhi, nil).Once()
	mockRepo.On("ResolveStation", ctx, "station-2").Return(mumbai, nil).Once()
	mockCache.On("GetSearch", ctx, "station-1", "station-2", "2025-03-15").Return(cached, true, nil).Once()

	got, err := service.Search(ctx, "station-1", "station-2", "2025-03-15")

	assert.NoError(t, err)
	assert.Equal(t, cached, got)
	mockRepo.AssertNotCalled(t, "Search")
	mockCache.AssertNotCalled(t, "SetSearch")
}

func TestTrainService_Search_CacheErrorFallsThrough(t *testing.T) {
	mockRepo := &MockTrainRepository{}
	mockCache := &MockSearchCache{}
	service := NewTrainService(mockRepo, 15, WithSearchCache(mockCache))
	ctx := context.Background()

	results := []domain.TrainResult{}

	mockRepo.On("ResolveStation", ctx, "station-1").Return(delhi, nil).Once()
	mockRepo.On("ResolveStation", ctx, "station-2").Return(mumbai, nil).Once()
	mockCache.On("GetSearch", ctx, "station-1", "station-2", "2030-01-01").Return(([]domain.TrainResult)(nil), false, errors.New("redis down")).Once()
	mockRepo.On("Search", ctx, "station-1", "station-2", "2030-01-01").Return(results, nil).Once()
	mockCache.On("SetSearch", ctx, "station-1", "station-2", "2030-01-01", results).Return(errors.New("redis down")).Once()

	got, err := service.Search(ctx, "station-1", "station-2", "2030-01-01")

	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTrainService_Search_UnknownStation(t *testing.T) {
	mockRepo := &MockTrainRepository{}
	service := NewTrainService(mockRepo, 15)
	ctx := context.Background()

	mockRepo.On("ResolveStation", ctx, "XXX").Return(nil, repository.ErrNotFound).Once()

	got, err := service.Search(ctx, "XXX", "MMCT", "2025-03-15")

	assert.ErrorIs(t, err, ErrStationNotFound)
	assert.Nil(t, got)
}

func TestTrainService_Search_MissingParams(t *testing.T) {
	service := NewTrainService(&MockTrainRepository{}, 15)

	_, err := service.Search(context.Background(), "NDLS", " ", "2025-03-15")
	assert.ErrorIs(t, err, ErrMissingParams)
}

func TestTrainService_Get_NotFound(t *testing.T) {
	mockRepo := &MockTrainRepository{}
	service := NewTrainService(mockRepo, 15)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "schedule-99").Return(nil, repository.ErrNotFound).Once()

	got, err := service.Get(ctx, "schedule-99")
	assert.ErrorIs(t, err, ErrTrainNotFound)
	assert.Nil(t, got)
}

func TestTrainService_Distance(t *testing.T) {
	mockRepo := &MockTrainRepository{}
	service := NewTrainService(mockRepo, 15)
	ctx := context.Background()

	mockRepo.On("ResolveStation", ctx, "NDLS").Return(delhi, nil).Once()
	mockRepo.On("ResolveStation", ctx, "MMCT").Return(mumbai, nil).Once()

	got, err := service.Distance(ctx, "NDLS", "MMCT")

	require.NoError(t, err)
	assert.Equal(t, "station-1", got.From.ID)
	assert.InDelta(t, 1164.67, got.DistanceKm, 0.01)
}

func TestTrainService_Quote(t *testing.T) {
	mockRepo := &MockTrainRepository{}
	service := NewTrainService(mockRepo, 15)
	ctx := context.Background()

	train := &domain.TrainResult{TrainSchedule: domain.TrainSchedule{ID: "schedule-1", PricePaise: 225000}}
	mockRepo.On("GetByID", ctx, "schedule-1").Return(train, nil)

	student, err := service.Quote(ctx, "schedule-1", 3, true)
	require.NoError(t, err)
	assert.Equal(t, int64(675000), student.TotalPaise)
	assert.Equal(t, int64(573750), student.AmountDuePaise)

	regular, err := service.Quote(ctx, "schedule-1", 3, false)
	require.NoError(t, err)
	assert.Equal(t, int64(675000), regular.AmountDuePaise)

	_, err = service.Quote(ctx, "schedule-1", 7, false)
	assert.Error(t, err)
}

func TestTrainService_Nearest(t *testing.T) {
	mockRepo := &MockTrainRepository{}
	ctx := context.Background()

	locator := geo.NewLocator([]domain.Station{*delhi, *mumbai}, 16, 0)
	service := NewTrainService(mockRepo, 15, WithLocator(locator))

	got, err := service.Nearest(ctx, 19.0, 72.8)
	require.NoError(t, err)
	assert.Equal(t, "station-2", got.Station.ID)
	mockRepo.AssertNotCalled(t, "AllStations")
}

func TestTrainService_NearestWithoutLocator(t *testing.T) {
	mockRepo := &MockTrainRepository{}
	ctx := context.Background()
	service := NewTrainService(mockRepo, 15)

	mockRepo.On("AllStations", ctx).Return([]domain.Station{*delhi, *mumbai}, nil).Once()

	got, err := service.Nearest(ctx, 28.6, 77.2)
	require.NoError(t, err)
	assert.Equal(t, "station-1", got.Station.ID)
}
