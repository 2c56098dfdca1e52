package trains

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/geo"
	"github.com/Domenick1991/travelease/internal/pricing"
	"github.com/Domenick1991/travelease/internal/repository"
)

var (
	ErrStationNotFound = errors.New("station not found")
	ErrTrainNotFound   = errors.New("train not found")
	ErrMissingParams   = errors.New("from, to and date are required")
)

type TrainUseCase interface {
	Search(ctx context.Context, fromRef, toRef, date string) ([]domain.TrainResult, error)
	Get(ctx context.Context, scheduleID string) (*domain.TrainResult, error)
	Stations(ctx context.Context, query string) ([]domain.Station, error)
	Nearest(ctx context.Context, lat, lng float64) (*geo.NearestResult, error)
	Distance(ctx context.Context, fromRef, toRef string) (*DistanceResult, error)
	Quote(ctx context.Context, scheduleID string, passengers int, student bool) (*pricing.Breakdown, error)
}

type SearchCache interface {
	GetSearch(ctx context.Context, from, to, date string) ([]domain.TrainResult, bool, error)
	SetSearch(ctx context.Context, from, to, date string, results []domain.TrainResult) error
}

type Locator interface {
	Nearest(lat, lng float64) (*geo.NearestResult, error)
}

type DistanceResult struct {
	From       domain.Station `json:"from"`
	To         domain.Station `json:"to"`
	DistanceKm float64        `json:"distance_km"`
}

type TrainService struct {
	repo            repository.TrainRepository
	cache           SearchCache
	locator         Locator
	discountPercent int
}

type TrainServiceOption func(*TrainService)

func WithSearchCache(cache SearchCache) TrainServiceOption {
	return func(s *TrainService) {
		s.cache = cache
	}
}

func WithLocator(locator Locator) TrainServiceOption {
	return func(s *TrainService) {
		s.locator = locator
	}
}

func NewTrainService(repo repository.TrainRepository, discountPercent int, opts ...TrainServiceOption) *TrainService {
	service := &TrainService{repo: repo, discountPercent: discountPercent}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Search accepts station ids or station codes for both ends.
func (s *TrainService) Search(ctx context.Context, fromRef, toRef, date string) ([]domain.TrainResult, error) {
	fromRef, toRef, date = strings.TrimSpace(fromRef), strings.TrimSpace(toRef), strings.TrimSpace(date)
	if fromRef == "" || toRef == "" || date == "" {
		return nil, ErrMissingParams
	}

	from, err := s.resolve(ctx, fromRef)
	if err != nil {
		return nil, err
	}
	to, err := s.resolve(ctx, toRef)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, ok, err := s.cache.GetSearch(ctx, from.ID, to.ID, date)
		if err != nil {
			log.Printf("search cache read failed: %v", err)
		} else if ok {
			return cached, nil
		}
	}

	results, err := s.repo.Search(ctx, from.ID, to.ID, date)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetSearch(ctx, from.ID, to.ID, date, results); err != nil {
			log.Printf("search cache write failed: %v", err)
		}
	}
	return results, nil
}

func (s *TrainService) Get(ctx context.Context, scheduleID string) (*domain.TrainResult, error) {
	result, err := s.repo.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainNotFound
		}
		return nil, err
	}
	return result, nil
}

func (s *TrainService) Stations(ctx context.Context, query string) ([]domain.Station, error) {
	return s.repo.Stations(ctx, strings.TrimSpace(query))
}

func (s *TrainService) Nearest(ctx context.Context, lat, lng float64) (*geo.NearestResult, error) {
	if s.locator != nil {
		return s.locator.Nearest(lat, lng)
	}
	all, err := s.repo.AllStations(ctx)
	if err != nil {
		return nil, err
	}
	return geo.NewLocator(all, 1, 0).Nearest(lat, lng)
}

func (s *TrainService) Distance(ctx context.Context, fromRef, toRef string) (*DistanceResult, error) {
	from, err := s.resolve(ctx, fromRef)
	if err != nil {
		return nil, err
	}
	to, err := s.resolve(ctx, toRef)
	if err != nil {
		return nil, err
	}
	return &DistanceResult{From: *from, To: *to, DistanceKm: geo.StationDistance(*from, *to)}, nil
}

func (s *TrainService) Quote(ctx context.Context, scheduleID string, passengers int, student bool) (*pricing.Breakdown, error) {
	result, err := s.Get(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	b, err := pricing.Quote(result.PricePaise, passengers, student, s.discountPercent)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *TrainService) resolve(ctx context.Context, ref string) (*domain.Station, error) {
	station, err := s.repo.ResolveStation(ctx, strings.TrimSpace(ref))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrStationNotFound, ref)
		}
		return nil, err
	}
	return station, nil
}

var _ TrainUseCase = (*TrainService)(nil)
