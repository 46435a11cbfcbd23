package base44

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/CrestNiraj12/tripshare/app"
	"github.com/CrestNiraj12/tripshare/domain"
)

// tripStore implements app.TripStore using the base44 entity API.
type tripStore struct {
	client *Client
}

// NewTripStore creates a TripStore backed by base44.
func NewTripStore(client *Client) *tripStore {
	return &tripStore{client: client}
}

// tripRecord is the subset of the Trip entity the feed shows.
type tripRecord struct {
	ID             string `json:"id"`
	CreatedDate    string `json:"created_date"`
	CreatedBy      string `json:"created_by"`
	AuthorID       string `json:"author_id"`
	AuthorName     string `json:"author_name"`
	AuthorUsername string `json:"author_username"`
	Title          string `json:"title"`
	Destination    string `json:"destination"`
	Description    string `json:"description"`
	LikesCount     int    `json:"likes_count"`
}

type likeRecord struct {
	ID      string `json:"id"`
	LikerID string `json:"liker_id"`
	TripID  string `json:"trip_id"`
}

func (s *tripStore) ListTrips(ctx context.Context, sortKey string) ([]domain.Trip, error) {
	path := s.client.entityPath("Trip")
	if sortKey != "" {
		path += "?" + url.Values{"sort": {sortKey}}.Encode()
	}

	data, err := s.client.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetching trips: %w", err)
	}

	var records []tripRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing trips: %w", err)
	}
	return mapTrips(records), nil
}

func mapTrips(records []tripRecord) []domain.Trip {
	trips := make([]domain.Trip, 0, len(records))
	for _, r := range records {
		author := r.AuthorID
		if author == "" {
			author = r.CreatedBy
		}
		trips = append(trips, domain.Trip{
			ID:             r.ID,
			CreatedAt:      parseTime(r.CreatedDate),
			AuthorID:       author,
			AuthorName:     sanitizeForTerminal(r.AuthorName),
			AuthorUsername: sanitizeForTerminal(r.AuthorUsername),
			Title:          sanitizeForTerminal(r.Title),
			Destination:    sanitizeForTerminal(r.Destination),
			Content:        sanitizeForTerminal(r.Description),
			LikesCount:     r.LikesCount,
		})
	}
	return trips
}

func (s *tripStore) ListLikes(ctx context.Context, filter app.LikeFilter) ([]domain.TripLike, error) {
	q := map[string]string{}
	if filter.LikerID != "" {
		q["liker_id"] = filter.LikerID
	}
	if filter.TripID != "" {
		q["trip_id"] = filter.TripID
	}
	path := s.client.entityPath("TripLike")
	if len(q) > 0 {
		enc, err := json.Marshal(q)
		if err != nil {
			return nil, fmt.Errorf("encoding like filter: %w", err)
		}
		path += "?" + url.Values{"q": {string(enc)}}.Encode()
	}

	data, err := s.client.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetching likes: %w", err)
	}

	var records []likeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing likes: %w", err)
	}
	likes := make([]domain.TripLike, 0, len(records))
	for _, r := range records {
		likes = append(likes, domain.TripLike(r))
	}
	return likes, nil
}

// likeService implements app.LikeService using the base44 entity API.
type likeService struct {
	client *Client
}

// NewLikeService creates a LikeService backed by base44.
func NewLikeService(client *Client) *likeService {
	return &likeService{client: client}
}

func (s *likeService) Like(ctx context.Context, likerID, tripID string) (domain.TripLike, error) {
	data, err := s.client.Post(ctx, s.client.entityPath("TripLike"), likeRecord{LikerID: likerID, TripID: tripID})
	if err != nil {
		return domain.TripLike{}, fmt.Errorf("liking trip: %w", err)
	}
	var rec likeRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.TripLike{}, fmt.Errorf("parsing like: %w", err)
	}
	return domain.TripLike(rec), nil
}

func (s *likeService) Unlike(ctx context.Context, likeID string) error {
	if likeID == "" {
		return fmt.Errorf("unliking trip: %w", domain.ErrNotFound)
	}
	if _, err := s.client.Delete(ctx, s.client.entityPath("TripLike")+"/"+url.PathEscape(likeID)); err != nil {
		return fmt.Errorf("unliking trip: %w", err)
	}
	return nil
}
