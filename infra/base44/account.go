package base44

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/CrestNiraj12/tripshare/app"
	"github.com/CrestNiraj12/tripshare/domain"
)

// accountService implements app.AccountService using the base44 entity API.
type accountService struct {
	client *Client
}

// NewAccountService creates an AccountService backed by base44.
func NewAccountService(client *Client) *accountService {
	return &accountService{client: client}
}

type userRecord struct {
	ID                  string `json:"id"`
	Email               string `json:"email"`
	FullName            string `json:"full_name"`
	Username            string `json:"username"`
	Picture             string `json:"picture"`
	PhotoURL            string `json:"photo_url"`
	PhotoUpdatedAt      string `json:"photo_updated_at"`
	OnboardingCompleted bool   `json:"onboarding_completed"`
}

// userPatch only carries the fields being changed.
type userPatch struct {
	PhotoURL            *string `json:"photo_url,omitempty"`
	PhotoUpdatedAt      *string `json:"photo_updated_at,omitempty"`
	OnboardingCompleted *bool   `json:"onboarding_completed,omitempty"`
}

func (s *accountService) mePath() string {
	return s.client.entityPath("User") + "/me"
}

func (s *accountService) Me(ctx context.Context) (domain.User, error) {
	data, err := s.client.Get(ctx, s.mePath())
	if err != nil {
		return domain.User{}, fmt.Errorf("fetching account: %w", err)
	}
	return parseUser(data)
}

func (s *accountService) UpdateMe(ctx context.Context, patch app.ProfilePatch) (domain.User, error) {
	body := userPatch{
		PhotoURL:            patch.PhotoURL,
		OnboardingCompleted: patch.OnboardingCompleted,
	}
	if patch.PhotoUpdatedAt != nil {
		at := patch.PhotoUpdatedAt.UTC().Format(time.RFC3339Nano)
		body.PhotoUpdatedAt = &at
	}

	data, err := s.client.Put(ctx, s.mePath(), body)
	if err != nil {
		return domain.User{}, fmt.Errorf("updating account: %w", err)
	}
	return parseUser(data)
}

func parseUser(data []byte) (domain.User, error) {
	var rec userRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.User{}, fmt.Errorf("parsing account: %w", err)
	}
	if rec.ID == "" {
		return domain.User{}, fmt.Errorf("parsing account: missing id")
	}
	return domain.User{
		ID:                  rec.ID,
		Email:               rec.Email,
		FullName:            sanitizeForTerminal(rec.FullName),
		Username:            sanitizeForTerminal(rec.Username),
		Picture:             rec.Picture,
		PhotoURL:            rec.PhotoURL,
		PhotoUpdatedAt:      parseTime(rec.PhotoUpdatedAt),
		OnboardingCompleted: rec.OnboardingCompleted,
	}, nil
}
