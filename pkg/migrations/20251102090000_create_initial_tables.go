package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE roles (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL UNIQUE,
				is_system BOOLEAN NOT NULL DEFAULT FALSE
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE permissions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				role_id INTEGER REFERENCES roles (id) ON DELETE CASCADE NOT NULL,
				resource TEXT NOT NULL,
				operation TEXT NOT NULL,
				UNIQUE (role_id, resource, operation)
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE users (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				username TEXT NOT NULL UNIQUE COLLATE NOCASE,
				password_hash TEXT NOT NULL,
				role_id INTEGER REFERENCES roles (id) NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE subjects (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL UNIQUE
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE chapters (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				subject_id INTEGER REFERENCES subjects (id) NOT NULL,
				name TEXT NOT NULL,
				UNIQUE (subject_id, name)
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_chapters_subject_id ON chapters (subject_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE lectures (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				chapter_id INTEGER REFERENCES chapters (id) NOT NULL,
				name TEXT NOT NULL,
				location TEXT NOT NULL DEFAULT '',
				duration_seconds INTEGER NOT NULL DEFAULT 0 CHECK (duration_seconds >= 0),
				UNIQUE (chapter_id, name)
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_lectures_chapter_id ON lectures (chapter_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		// The unique index is the source of truth for one progress row per
		// (user, lecture); sync relies on it under concurrent inserts.
		_, err = db.Exec(`
			CREATE TABLE lecture_progress (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				user_id INTEGER REFERENCES users (id) ON DELETE CASCADE NOT NULL,
				lecture_id INTEGER REFERENCES lectures (id) NOT NULL,
				watched BOOLEAN NOT NULL DEFAULT FALSE,
				duration_seconds INTEGER NOT NULL DEFAULT 0 CHECK (duration_seconds >= 0),
				UNIQUE (user_id, lecture_id)
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_lecture_progress_lecture_id ON lecture_progress (lecture_id)`)
		if err != nil {
			return errors.WithStack(err)
		}

		// Seed the system roles.
		_, err = db.Exec(`INSERT INTO roles (name, is_system) VALUES ('admin', TRUE), ('member', TRUE)`)
		if err != nil {
			return errors.WithStack(err)
		}

		var adminRoleID, memberRoleID int
		err = db.QueryRow(`SELECT id FROM roles WHERE name = 'admin'`).Scan(&adminRoleID)
		if err != nil {
			return errors.WithStack(err)
		}
		err = db.QueryRow(`SELECT id FROM roles WHERE name = 'member'`).Scan(&memberRoleID)
		if err != nil {
			return errors.WithStack(err)
		}

		adminPermissions := [][2]string{
			{"catalog", "read"},
			{"catalog", "sync"},
			{"progress", "read"},
			{"progress", "write"},
		}
		for _, p := range adminPermissions {
			_, err = db.Exec(`INSERT INTO permissions (role_id, resource, operation) VALUES (?, ?, ?)`,
				adminRoleID, p[0], p[1])
			if err != nil {
				return errors.WithStack(err)
			}
		}

		memberPermissions := [][2]string{
			{"catalog", "read"},
			{"progress", "read"},
			{"progress", "write"},
		}
		for _, p := range memberPermissions {
			_, err = db.Exec(`INSERT INTO permissions (role_id, resource, operation) VALUES (?, ?, ?)`,
				memberRoleID, p[0], p[1])
			if err != nil {
				return errors.WithStack(err)
			}
		}

		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec("DROP TABLE IF EXISTS lecture_progress")
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec("DROP TABLE IF EXISTS lectures")
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec("DROP TABLE IF EXISTS chapters")
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec("DROP TABLE IF EXISTS subjects")
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec("DROP TABLE IF EXISTS users")
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec("DROP TABLE IF EXISTS permissions")
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec("DROP TABLE IF EXISTS roles")
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
