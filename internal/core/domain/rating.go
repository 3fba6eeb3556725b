package domain

import "time"

const (
	MinRatingValue = 1
	MaxRatingValue = 5
)

// Rating is one user's score for one media content item. At most one rating
// may exist per (UserID, ContentID) pair.
type Rating struct {
	ID        string
	UserID    string
	UserEmail string // denormalized from the author at creation
	ContentID string
	Value     int
	CreatedAt time.Time
}

// OwnedBy reports whether userID is the author of the rating.
func (r *Rating) OwnedBy(userID string) bool {
	return r != nil && userID != "" && r.UserID == userID
}

// ValidRatingValue reports whether v is inside the accepted score range.
func ValidRatingValue(v int) bool {
	return v >= MinRatingValue && v <= MaxRatingValue
}
