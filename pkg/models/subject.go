package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Subject is a top-level catalog grouping. Subjects are shared reference
// data: the catalog loader appends them and nothing else mutates them.
type Subject struct {
	bun.BaseModel `bun:"table:subjects,alias:s"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `bun:",nullzero" json:"name"`

	// Relations
	Chapters []*Chapter `bun:"rel:has-many,join:id=subject_id" json:"chapters,omitempty"`
}
