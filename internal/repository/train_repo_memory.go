package repository

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/Domenick1991/travelease/internal/domain"
)

var ErrNotFound = errors.New("not found")

const stationSuggestionLimit = 5

type TrainRepository interface {
	Search(ctx context.Context, fromStationID, toStationID, date string) ([]domain.TrainResult, error)
	GetByID(ctx context.Context, scheduleID string) (*domain.TrainResult, error)
	Stations(ctx context.Context, query string) ([]domain.Station, error)
	AllStations(ctx context.Context) ([]domain.Station, error)
	ResolveStation(ctx context.Context, idOrCode string) (*domain.Station, error)
}

// MemoryTrainRepository serves the read-only reference tables from memory.
// Lookups scan the slices; the tables are small.
type MemoryTrainRepository struct {
	stations  []domain.Station
	trains    []domain.TrainType
	schedules []domain.TrainSchedule
}

// NewMemoryTrainRepository returns a repository over the built-in dataset.
func NewMemoryTrainRepository() *MemoryTrainRepository {
	return NewMemoryTrainRepositoryFrom(seedStations, seedTrainTypes, seedSchedules)
}

func NewMemoryTrainRepositoryFrom(stations []domain.Station, trains []domain.TrainType, schedules []domain.TrainSchedule) *MemoryTrainRepository {
	return &MemoryTrainRepository{stations: stations, trains: trains, schedules: schedules}
}

// Search returns schedules matching all three keys exactly, joined with
// their train and stations, in table order. No match yields an empty
// slice.
func (r *MemoryTrainRepository) Search(_ context.Context, fromStationID, toStationID, date string) ([]domain.TrainResult, error) {
	results := make([]domain.TrainResult, 0)
	for _, s := range r.schedules {
		if s.DepartureStationID != fromStationID || s.ArrivalStationID != toStationID || s.Date != date {
			continue
		}
		res, ok := r.join(s)
		if !ok {
			log.Printf("schedule %s references missing train or station, skipped", s.ID)
			continue
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *MemoryTrainRepository) GetByID(_ context.Context, scheduleID string) (*domain.TrainResult, error) {
	for _, s := range r.schedules {
		if s.ID != scheduleID {
			continue
		}
		res, ok := r.join(s)
		if !ok {
			return nil, ErrNotFound
		}
		return &res, nil
	}
	return nil, ErrNotFound
}

// Stations returns up to five stations whose name, city or code contains
// query, case-insensitively. An empty query returns the first five.
func (r *MemoryTrainRepository) Stations(_ context.Context, query string) ([]domain.Station, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.Station, 0, stationSuggestionLimit)
	for _, s := range r.stations {
		if len(out) == stationSuggestionLimit {
			break
		}
		if q == "" ||
			strings.Contains(strings.ToLower(s.Name), q) ||
			strings.Contains(strings.ToLower(s.City), q) ||
			strings.Contains(strings.ToLower(s.Code), q) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *MemoryTrainRepository) AllStations(_ context.Context) ([]domain.Station, error) {
	out := make([]domain.Station, len(r.stations))
	copy(out, r.stations)
	return out, nil
}

// ResolveStation finds a station by id or by code.
func (r *MemoryTrainRepository) ResolveStation(_ context.Context, idOrCode string) (*domain.Station, error) {
	for i := range r.stations {
		if r.stations[i].ID == idOrCode || r.stations[i].Code == idOrCode {
			s := r.stations[i]
			return &s, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryTrainRepository) join(s domain.TrainSchedule) (domain.TrainResult, bool) {
	train, ok := r.train(s.TrainID)
	if !ok {
		return domain.TrainResult{}, false
	}
	dep, ok := r.station(s.DepartureStationID)
	if !ok {
		return domain.TrainResult{}, false
	}
	arr, ok := r.station(s.ArrivalStationID)
	if !ok {
		return domain.TrainResult{}, false
	}
	return domain.TrainResult{TrainSchedule: s, Train: train, DepartureStation: dep, ArrivalStation: arr}, true
}

func (r *MemoryTrainRepository) train(id string) (domain.TrainType, bool) {
	for _, t := range r.trains {
		if t.ID == id {
			return t, true
		}
	}
	return domain.TrainType{}, false
}

func (r *MemoryTrainRepository) station(id string) (domain.Station, bool) {
	for _, s := range r.stations {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Station{}, false
}

var _ TrainRepository = (*MemoryTrainRepository)(nil)
