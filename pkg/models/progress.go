package models

import (
	"time"

	"github.com/uptrace/bun"
)

// LectureProgress is the per-user watch state for one catalog lecture.
// The (user_id, lecture_id) pair is unique at the schema level; the sync
// engine relies on that constraint, not on its existence check, to stay
// correct under concurrent syncs. DurationSeconds is a snapshot of the
// catalog lecture's duration taken when the row was created.
type LectureProgress struct {
	bun.BaseModel `bun:"table:lecture_progress,alias:lp"`

	ID              int       `bun:",pk,nullzero" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	UserID          int       `bun:",notnull" json:"user_id"`
	LectureID       int       `bun:",notnull" json:"lecture_id"`
	Watched         bool      `json:"watched"`
	DurationSeconds int64     `json:"duration_seconds"`

	// Relations
	User    *User    `bun:"rel:belongs-to,join:user_id=id" json:"-"`
	Lecture *Lecture `bun:"rel:belongs-to,join:lecture_id=id" json:"lecture,omitempty"`
}
