package repository

import (
	"context"
	"testing"

	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTrainRepository_SeedIsConsistent(t *testing.T) {
	repo := NewMemoryTrainRepository()
	for _, s := range seedSchedules {
		_, ok := repo.join(s)
		assert.True(t, ok, "schedule %s has a dangling reference", s.ID)
	}
}

func TestMemoryTrainRepository_Search_DelhiToMumbai(t *testing.T) {
	repo := NewMemoryTrainRepository()

	results, err := repo.Search(context.Background(), "station-1", "station-2", "2025-03-15")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "schedule-1", results[0].ID)
	assert.Equal(t, int64(225000), results[0].PricePaise)
	assert.Equal(t, domain.TrainCategoryRajdhani, results[0].Train.Category)

	assert.Equal(t, "schedule-2", results[1].ID)
	assert.Equal(t, int64(185000), results[1].PricePaise)
	assert.Equal(t, domain.TrainCategoryDuronto, results[1].Train.Category)
}

func TestMemoryTrainRepository_Search_JoinsReferencedRows(t *testing.T) {
	repo := NewMemoryTrainRepository()
	ctx := context.Background()

	for _, s := range seedSchedules {
		results, err := repo.Search(ctx, s.DepartureStationID, s.ArrivalStationID, s.Date)
		require.NoError(t, err)
		for _, r := range results {
			train, _ := repo.train(r.TrainID)
			dep, _ := repo.station(r.DepartureStationID)
			arr, _ := repo.station(r.ArrivalStationID)
			assert.Equal(t, train, r.Train)
			assert.Equal(t, dep, r.DepartureStation)
			assert.Equal(t, arr, r.ArrivalStation)
		}
	}
}

func TestMemoryTrainRepository_Search_NoMatch(t *testing.T) {
	repo := NewMemoryTrainRepository()
	ctx := context.Background()

	testCases := []struct {
		name, from, to, date string
	}{
		{"wrong date", "station-1", "station-2", "2025-03-16"},
		{"reversed direction", "station-2", "station-1", "2025-03-15"},
		{"unknown stations", "station-99", "station-42", "2025-03-15"},
		{"empty", "", "", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			results, err := repo.Search(ctx, tc.from, tc.to, tc.date)
			require.NoError(t, err)
			assert.NotNil(t, results)
			assert.Empty(t, results)
		})
	}
}

func TestMemoryTrainRepository_Search_SkipsDanglingReference(t *testing.T) {
	repo := NewMemoryTrainRepositoryFrom(seedStations, seedTrainTypes, []domain.TrainSchedule{
		{ID: "broken", TrainID: "train-type-404", DepartureStationID: "station-1", ArrivalStationID: "station-2", Date: "2025-03-15"},
		seedSchedules[0],
	})

	results, err := repo.Search(context.Background(), "station-1", "station-2", "2025-03-15")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "schedule-1", results[0].ID)

	_, err = repo.GetByID(context.Background(), "broken")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryTrainRepository_GetByID(t *testing.T) {
	repo := NewMemoryTrainRepository()

	res, err := repo.GetByID(context.Background(), "schedule-5")
	require.NoError(t, err)
	assert.Equal(t, "Jan Shatabdi Express", res.Train.Name)
	assert.Equal(t, "SBC", res.DepartureStation.Code)
	assert.Equal(t, "HYB", res.ArrivalStation.Code)

	_, err = repo.GetByID(context.Background(), "schedule-404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryTrainRepository_Stations(t *testing.T) {
	repo := NewMemoryTrainRepository()
	ctx := context.Background()

	all, err := repo.Stations(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Equal(t, "station-1", all[0].ID)

	byCity, err := repo.Stations(ctx, "mumbai")
	require.NoError(t, err)
	require.Len(t, byCity, 1)
	assert.Equal(t, "MMCT", byCity[0].Code)

	byCode, err := repo.Stations(ctx, "hwh")
	require.NoError(t, err)
	require.Len(t, byCode, 1)
	assert.Equal(t, "Howrah Junction", byCode[0].Name)

	junctions, err := repo.Stations(ctx, "junction")
	require.NoError(t, err)
	assert.Len(t, junctions, 5)

	none, err := repo.Stations(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryTrainRepository_ResolveStation(t *testing.T) {
	repo := NewMemoryTrainRepository()
	ctx := context.Background()

	byID, err := repo.ResolveStation(ctx, "station-4")
	require.NoError(t, err)
	assert.Equal(t, "MAS", byID.Code)

	byCode, err := repo.ResolveStation(ctx, "PUNE")
	require.NoError(t, err)
	assert.Equal(t, "station-8", byCode.ID)

	_, err = repo.ResolveStation(ctx, "XYZ")
	assert.ErrorIs(t, err, ErrNotFound)
}
