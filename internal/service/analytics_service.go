package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sportsmeet/manager/internal/dto"
	"github.com/sportsmeet/manager/internal/repository"
	"github.com/sportsmeet/manager/pkg/cache"
)

const analyticsCacheTTL = 5 * time.Minute

type AnalyticsService interface {
	Report(ctx context.Context, from, to time.Time) (*dto.AnalyticsReport, error)
}

type analyticsService struct {
	users        repository.UserRepository
	events       repository.EventRepository
	participants repository.ParticipationRepository
	cache        *cache.Cache
}

func NewAnalyticsService(
	users repository.UserRepository,
	events repository.EventRepository,
	participants repository.ParticipationRepository,
	c *cache.Cache,
) AnalyticsService {
	return &analyticsService{
		users:        users,
		events:       events,
		participants: participants,
		cache:        c,
	}
}

func (s *analyticsService) Report(ctx context.Context, from, to time.Time) (*dto.AnalyticsReport, error) {
	cacheKey := fmt.Sprintf("analytics:%s:%s", from.Format("2006-01-02"), to.Format("2006-01-02"))

	if s.cache != nil {
		if data, ok := s.cache.Get(ctx, cacheKey); ok {
			var report dto.AnalyticsReport
			if err := json.Unmarshal(data, &report); err == nil {
				return &report, nil
			}
		}
	}

	report := &dto.AnalyticsReport{From: from, To: to}
	var err error

	if report.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if report.ActiveUsers, err = s.users.CountActive(ctx); err != nil {
		return nil, err
	}
	if report.TotalEvents, err = s.events.Count(ctx); err != nil {
		return nil, err
	}
	if report.EventsByStatus, err = s.events.CountsByStatus(ctx); err != nil {
		return nil, err
	}
	if report.TotalParticipations, err = s.participants.Count(ctx); err != nil {
		return nil, err
	}
	if report.UserGrowth, err = s.users.CountsByDay(ctx, from, to); err != nil {
		return nil, err
	}
	if report.EventGrowth, err = s.events.CountsByDay(ctx, from, to); err != nil {
		return nil, err
	}
	if report.TopSports, err = s.events.TopSports(ctx, 5); err != nil {
		return nil, err
	}
	if report.TopEvents, err = s.events.TopByParticipants(ctx, 5); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(report); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, analyticsCacheTTL)
		}
	}

	return report, nil
}
