package domain

import "time"

// AppTitle is the display name used in the UI and the login callback page.
const AppTitle = "TripShare"

// SortNewestFirst is the backend sort key for listing trips by creation time, descending.
const SortNewestFirst = "-created_date"

// Trip is a single shared trip from the feed.
type Trip struct {
	ID             string
	CreatedAt      time.Time
	AuthorID       string
	AuthorName     string
	AuthorUsername string
	Title          string
	Destination    string
	Content        string // Plain text description
	LikesCount     int
}

// TripLike records that one user liked one trip.
type TripLike struct {
	ID      string
	LikerID string
	TripID  string
}

// User is the authenticated account as returned by the backend.
type User struct {
	ID                  string
	Email               string
	FullName            string
	Username            string
	Picture             string // Photo supplied by the identity provider
	PhotoURL            string // Photo synced onto the profile
	PhotoUpdatedAt      time.Time
	OnboardingCompleted bool
}

// DisplayName prefers the full name and falls back to the username, then the email.
func (u User) DisplayName() string {
	switch {
	case u.FullName != "":
		return u.FullName
	case u.Username != "":
		return u.Username
	default:
		return u.Email
	}
}
