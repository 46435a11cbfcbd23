package domain

import "strings"

// PageURL returns the web path of a named page, e.g. "Trip Details" -> "/trip-details".
func PageURL(pageName string) string {
	return "/" + strings.ReplaceAll(strings.ToLower(pageName), " ", "-")
}

// ProfileURL returns the web path of a user's public profile.
func ProfileURL(username string) string {
	return "/" + username
}
