package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sportsmeet/manager/internal/model"
	"github.com/sportsmeet/manager/internal/repository"
)

// ActivityChannel is the redis pub/sub channel the admin live feed listens on.
const ActivityChannel = "sportsmeet:activity"

// RequestMeta carries per-request context into activity records.
type RequestMeta struct {
	IP        string
	UserAgent string
}

type ActivityEntry struct {
	ActorID   *uuid.UUID
	Action    string
	Table     string
	RecordID  string
	OldValues any
	NewValues any
	Meta      RequestMeta
}

// ActivityService appends audit records. Recording is best effort by design:
// the mutation it accompanies has already committed, so failures are logged
// and swallowed, never surfaced to the caller.
type ActivityService interface {
	Record(ctx context.Context, entry ActivityEntry)
}

type activityService struct {
	repo repository.ActivityRepository
	rdb  *redis.Client
}

func NewActivityService(repo repository.ActivityRepository, rdb *redis.Client) ActivityService {
	return &activityService{repo: repo, rdb: rdb}
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) {
	row := &model.ActivityLogEntry{
		ActorID:   entry.ActorID,
		Action:    entry.Action,
		Table:     entry.Table,
		RecordID:  entry.RecordID,
		IPAddress: entry.Meta.IP,
		UserAgent: entry.Meta.UserAgent,
	}

	if entry.OldValues != nil {
		if data, err := json.Marshal(entry.OldValues); err == nil {
			row.OldValues = data
		}
	}
	if entry.NewValues != nil {
		if data, err := json.Marshal(entry.NewValues); err == nil {
			row.NewValues = data
		}
	}

	if err := s.repo.Create(ctx, row); err != nil {
		log.Printf("[activity] failed to record %q: %v", entry.Action, err)
		return
	}

	s.publish(ctx, row)
}

func (s *activityService) publish(ctx context.Context, row *model.ActivityLogEntry) {
	if s.rdb == nil {
		return
	}

	payload, err := json.Marshal(row)
	if err != nil {
		return
	}
	if err := s.rdb.Publish(ctx, ActivityChannel, payload).Err(); err != nil {
		log.Printf("[activity] failed to publish live feed event: %v", err)
	}
}
