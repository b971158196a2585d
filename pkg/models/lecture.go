package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Lecture is a catalog entry: one unit of content within a chapter, shared
// across all users. Location is either an absolute URL for externally hosted
// content or a filename under the content root.
type Lecture struct {
	bun.BaseModel `bun:"table:lectures,alias:l"`

	ID              int       `bun:",pk,nullzero" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	ChapterID       int       `bun:",notnull" json:"chapter_id"`
	Name            string    `bun:",nullzero" json:"name"`
	Location        string    `json:"location"`
	DurationSeconds int64     `json:"duration_seconds"`

	// Relations
	Chapter *Chapter `bun:"rel:belongs-to,join:chapter_id=id" json:"chapter,omitempty"`
}
