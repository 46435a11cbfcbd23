package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/CrestNiraj12/tripshare/app"
	"github.com/CrestNiraj12/tripshare/domain"
)

// orderClauses maps backend sort keys onto SQL. Only listed keys are accepted.
var orderClauses = map[string]string{
	"":                     "t.created_at DESC, t.id",
	domain.SortNewestFirst: "t.created_at DESC, t.id",
	"created_date":         "t.created_at ASC, t.id",
}

func orderClause(sortKey string) (string, error) {
	clause, ok := orderClauses[sortKey]
	if !ok {
		return "", fmt.Errorf("unsupported sort key %q", sortKey)
	}
	return clause, nil
}

func (s *Store) ListTrips(ctx context.Context, sortKey string) ([]domain.Trip, error) {
	order, err := orderClause(sortKey)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT t.id, t.created_at, t.author_id, u.full_name, u.username,
		       t.title, t.destination, t.description,
		       (SELECT count(*) FROM trip_likes l WHERE l.trip_id = t.id)
		FROM trips t
		JOIN users u ON u.id = t.author_id
		ORDER BY ` + order

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db: list trips: %w", err)
	}
	trips, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Trip, error) {
		var t domain.Trip
		err := row.Scan(&t.ID, &t.CreatedAt, &t.AuthorID, &t.AuthorName, &t.AuthorUsername,
			&t.Title, &t.Destination, &t.Content, &t.LikesCount)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("db: scan trips: %w", err)
	}
	return trips, nil
}

// likeQuery builds the like listing for filter; empty fields do not filter.
func likeQuery(filter app.LikeFilter) (string, []any) {
	var where []string
	var args []any
	if filter.LikerID != "" {
		args = append(args, filter.LikerID)
		where = append(where, fmt.Sprintf("liker_id = $%d", len(args)))
	}
	if filter.TripID != "" {
		args = append(args, filter.TripID)
		where = append(where, fmt.Sprintf("trip_id = $%d", len(args)))
	}
	query := "SELECT id, liker_id, trip_id FROM trip_likes"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	return query + " ORDER BY created_at", args
}

func (s *Store) ListLikes(ctx context.Context, filter app.LikeFilter) ([]domain.TripLike, error) {
	query, args := likeQuery(filter)
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db: list likes: %w", err)
	}
	likes, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.TripLike])
	if err != nil {
		return nil, fmt.Errorf("db: scan likes: %w", err)
	}
	return likes, nil
}

// Like records a like by likerID, who must be the signed-in user.
func (s *Store) Like(ctx context.Context, likerID, tripID string) (domain.TripLike, error) {
	current, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return domain.TripLike{}, err
	}
	if likerID != current {
		return domain.TripLike{}, fmt.Errorf("like on behalf of another user: %w", domain.ErrUnauthorized)
	}

	like := domain.TripLike{ID: uuid.NewString(), LikerID: likerID, TripID: tripID}
	_, err = s.db.Exec(ctx,
		`INSERT INTO trip_likes (id, liker_id, trip_id) VALUES ($1, $2, $3)`,
		like.ID, like.LikerID, like.TripID)
	if err != nil {
		switch pgCode(err) {
		case codeUniqueViolation:
			return domain.TripLike{}, domain.ErrAlreadyLiked
		case codeForeignKeyViolation:
			return domain.TripLike{}, domain.ErrNotFound
		}
		return domain.TripLike{}, fmt.Errorf("db: insert like: %w", err)
	}
	return like, nil
}

// Unlike removes one of the signed-in user's likes. Likes of other users are
// reported as not found.
func (s *Store) Unlike(ctx context.Context, likeID string) error {
	current, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM trip_likes WHERE id = $1 AND liker_id = $2`, likeID, current)
	if err != nil {
		return fmt.Errorf("db: delete like: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
