package blog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dstu-guide/guide-api/internal/apperr"
	"github.com/dstu-guide/guide-api/internal/db"
)

func (s *Store) CreateTag(ctx context.Context, name, description string) (int64, error) {
	ctx, cancel := s.h.Op(ctx)
	defer cancel()

	id, err := s.h.InsertID(ctx, s.h, `INSERT INTO tags (tag_name, tag_description) VALUES ($1,$2)`,
		"tag_id", strings.TrimSpace(name), optional(description))
	if db.IsUniqueViolation(err) {
		return 0, fmt.Errorf("%w: tag %q already exists", apperr.ErrConflict, name)
	}
	return id, err
}

// ListTags returns all tags ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]Tag, error) {
	ctx, cancel := s.h.Op(ctx)
	defer cancel()

	rows, err := s.h.QueryContext(ctx, `SELECT tag_id, tag_name, tag_description FROM tags ORDER BY tag_name`)
	if err != nil {
		return nil, db.Classify(err)
	}
	return collectTags(rows)
}

// AttachTag links a tag to a post. A missing post or tag is ErrNotFound and
// an existing link is ErrConflict.
func (s *Store) AttachTag(ctx context.Context, postID, tagID int64) error {
	ctx, cancel := s.h.Op(ctx)
	defer cancel()

	return s.h.WithTx(ctx, func(tx *sql.Tx) error {
		ok, err := s.h.Exists(ctx, tx, `SELECT 1 FROM posts WHERE post_id=$1`, postID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: post %d", apperr.ErrNotFound, postID)
		}
		ok, err = s.h.Exists(ctx, tx, `SELECT 1 FROM tags WHERE tag_id=$1`, tagID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: tag %d", apperr.ErrNotFound, tagID)
		}
		ok, err = s.h.Exists(ctx, tx, `SELECT 1 FROM post_tags WHERE post_id=$1 AND tag_id=$2`, postID, tagID)
		if err != nil {
			return err
		}
		if ok {
			return fmt.Errorf("%w: tag already attached to post", apperr.ErrConflict)
		}
		_, err = tx.ExecContext(ctx, s.h.Rebind(`INSERT INTO post_tags (post_id, tag_id) VALUES ($1,$2)`), postID, tagID)
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("%w: tag already attached to post", apperr.ErrConflict)
		}
		return db.Classify(err)
	})
}

func (s *Store) postTags(ctx context.Context, postID int64) ([]Tag, error) {
	rows, err := s.h.QueryContext(ctx, s.h.Rebind(
		`SELECT t.tag_id, t.tag_name, t.tag_description
		   FROM tags t JOIN post_tags pt ON t.tag_id = pt.tag_id
		  WHERE pt.post_id=$1 ORDER BY t.tag_name`), postID)
	if err != nil {
		return nil, db.Classify(err)
	}
	return collectTags(rows)
}

func collectTags(rows *sql.Rows) ([]Tag, error) {
	defer rows.Close()
	out := []Tag{}
	for rows.Next() {
		var t Tag
		var desc sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &desc); err != nil {
			return nil, err
		}
		t.Description = strPtr(desc)
		out = append(out, t)
	}
	return out, db.Classify(rows.Err())
}
