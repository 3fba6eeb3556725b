package domain

import "time"

// Category is the kind of media a content record describes.
type Category string

const (
	CategoryGame    Category = "game"
	CategoryVideo   Category = "video"
	CategoryArtwork Category = "artwork"
	CategoryMusic   Category = "music"
)

// Categories lists every accepted category in display order.
var Categories = []Category{CategoryGame, CategoryVideo, CategoryArtwork, CategoryMusic}

// MediaContent is a published piece of media that users can rate.
// It has no owner: any authenticated user may edit or remove it.
type MediaContent struct {
	ID           string
	Title        string
	Description  string
	Category     Category
	ThumbnailURL *string
	ContentURL   string
	CreatedAt    time.Time
}
