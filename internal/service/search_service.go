package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"

	"github.com/sportsmeet/manager/internal/model"
)

const eventIndex = "events"

// SearchService keeps an optional meilisearch index of events in sync.
// Indexing is best effort: list pages always have the SQL ILIKE fallback.
type SearchService interface {
	Enabled() bool
	IndexEvent(ctx context.Context, event *model.Event)
	DeleteEvent(ctx context.Context, id uuid.UUID)
	SearchEvents(ctx context.Context, query string, limit int64) ([]uuid.UUID, error)
}

type searchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

type eventDocument struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Sport       string `json:"sport"`
	Venue       string `json:"venue"`
	Status      string `json:"status"`
}

// NewSearchService returns nil when host is empty; callers treat a nil
// service as "search index disabled".
func NewSearchService(host, masterKey string) SearchService {
	if host == "" {
		return nil
	}

	client := meilisearch.New(host, meilisearch.WithAPIKey(masterKey))

	s := &searchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndex()
	return s
}

func (s *searchService) initIndex() {
	filterable := []any{"sport", "status"}
	if _, err := s.client.Index(eventIndex).UpdateFilterableAttributes(&filterable); err != nil {
		log.Printf("failed to update events filterable attributes: %v", err)
	}
}

func (s *searchService) Enabled() bool {
	return s != nil && s.client != nil
}

func (s *searchService) IndexEvent(ctx context.Context, event *model.Event) {
	doc := eventDocument{
		ID:          event.ID.String(),
		Title:       event.Title,
		Description: s.sanitizer.Sanitize(event.Description),
		Sport:       event.Sport,
		Venue:       event.Venue,
		Status:      event.Status,
	}

	if _, err := s.client.Index(eventIndex).AddDocumentsWithContext(ctx, []eventDocument{doc}, nil); err != nil {
		log.Printf("failed to index event %s: %v", event.ID, err)
	}
}

func (s *searchService) DeleteEvent(ctx context.Context, id uuid.UUID) {
	if _, err := s.client.Index(eventIndex).DeleteDocumentWithContext(ctx, id.String()); err != nil {
		log.Printf("failed to delete event %s from index: %v", id, err)
	}
}

func (s *searchService) SearchEvents(ctx context.Context, query string, limit int64) ([]uuid.UUID, error) {
	resp, err := s.client.Index(eventIndex).SearchWithContext(ctx, query, &meilisearch.SearchRequest{
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(resp.Hits)
	if err != nil {
		return nil, err
	}
	var docs []eventDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(docs))
	for _, doc := range docs {
		if id, err := uuid.Parse(doc.ID); err == nil {
			ids = append(ids, id)
		}
	}

	return ids, nil
}
