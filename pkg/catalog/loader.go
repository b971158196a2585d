package catalog

import (
	"context"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/lecturelog/lecturelog/pkg/errcodes"
	"github.com/lecturelog/lecturelog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Manifest describes catalog content to load. It is applied append-only:
// entries that already exist are left exactly as they are, so repeated
// imports never mutate or duplicate catalog rows.
type Manifest struct {
	Subjects []ManifestSubject `koanf:"subjects"`
}

type ManifestSubject struct {
	Name     string            `koanf:"name"`
	Chapters []ManifestChapter `koanf:"chapters"`
}

type ManifestChapter struct {
	Name     string            `koanf:"name"`
	Lectures []ManifestLecture `koanf:"lectures"`
}

type ManifestLecture struct {
	Name            string `koanf:"name"`
	Location        string `koanf:"location"`
	DurationSeconds int64  `koanf:"duration_seconds"`
}

// ImportStats reports how many rows an import actually created.
type ImportStats struct {
	Subjects int `json:"subjects"`
	Chapters int `json:"chapters"`
	Lectures int `json:"lectures"`
}

// Loader grows the catalog from YAML manifests.
type Loader struct {
	db *bun.DB
}

func NewLoader(db *bun.DB) *Loader {
	return &Loader{db: db}
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest %s", path)
	}

	manifest := &Manifest{}
	if err := k.Unmarshal("", manifest); err != nil {
		return nil, errors.Wrapf(err, "failed to parse manifest %s", path)
	}

	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// Validate checks manifest entries for empty names and negative durations.
func (m *Manifest) Validate() error {
	for _, subject := range m.Subjects {
		if subject.Name == "" {
			return errcodes.ValidationError("Subject name can't be empty")
		}
		for _, chapter := range subject.Chapters {
			if chapter.Name == "" {
				return errcodes.ValidationError(fmt.Sprintf("Chapter name can't be empty in subject %q", subject.Name))
			}
			for _, lecture := range chapter.Lectures {
				if lecture.Name == "" {
					return errcodes.ValidationError(fmt.Sprintf("Lecture name can't be empty in chapter %q", chapter.Name))
				}
				if lecture.DurationSeconds < 0 {
					return errcodes.ValidationError(fmt.Sprintf("Lecture %q duration can't be negative", lecture.Name))
				}
			}
		}
	}
	return nil
}

// Apply inserts the manifest's subjects, chapters, and lectures. Inserts use
// ON CONFLICT DO NOTHING against the catalog's unique indexes, so existing
// rows are never touched and concurrent imports of the same manifest are
// safe.
func (l *Loader) Apply(ctx context.Context, manifest *Manifest) (*ImportStats, error) {
	stats := &ImportStats{}

	for _, ms := range manifest.Subjects {
		subject := &models.Subject{Name: ms.Name}
		res, err := l.db.NewInsert().
			Model(subject).
			On("CONFLICT (name) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			stats.Subjects++
		} else {
			// Already present; fetch the existing ID.
			err = l.db.NewSelect().
				Model(subject).
				Where("name = ?", ms.Name).
				Scan(ctx)
			if err != nil {
				return nil, errors.WithStack(err)
			}
		}

		for _, mc := range ms.Chapters {
			chapter := &models.Chapter{SubjectID: subject.ID, Name: mc.Name}
			res, err := l.db.NewInsert().
				Model(chapter).
				On("CONFLICT (subject_id, name) DO NOTHING").
				Exec(ctx)
			if err != nil {
				return nil, errors.WithStack(err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				stats.Chapters++
			} else {
				err = l.db.NewSelect().
					Model(chapter).
					Where("subject_id = ?", subject.ID).
					Where("name = ?", mc.Name).
					Scan(ctx)
				if err != nil {
					return nil, errors.WithStack(err)
				}
			}

			for _, ml := range mc.Lectures {
				lecture := &models.Lecture{
					ChapterID:       chapter.ID,
					Name:            ml.Name,
					Location:        ml.Location,
					DurationSeconds: ml.DurationSeconds,
				}
				res, err := l.db.NewInsert().
					Model(lecture).
					On("CONFLICT (chapter_id, name) DO NOTHING").
					Exec(ctx)
				if err != nil {
					return nil, errors.WithStack(err)
				}
				if n, _ := res.RowsAffected(); n > 0 {
					stats.Lectures++
				}
			}
		}
	}

	return stats, nil
}

// ImportFile loads a manifest from disk and applies it.
func (l *Loader) ImportFile(ctx context.Context, path string) (*ImportStats, error) {
	manifest, err := LoadManifest(path)
	if err != nil {
		return nil, err
	}
	return l.Apply(ctx, manifest)
}
