package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Chapter struct {
	bun.BaseModel `bun:"table:chapters,alias:ch"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	SubjectID int       `bun:",notnull" json:"subject_id"`
	Name      string    `bun:",nullzero" json:"name"`

	// Relations
	Subject  *Subject   `bun:"rel:belongs-to,join:subject_id=id" json:"subject,omitempty"`
	Lectures []*Lecture `bun:"rel:has-many,join:id=chapter_id" json:"lectures,omitempty"`
}
