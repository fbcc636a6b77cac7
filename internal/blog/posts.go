package blog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dstu-guide/guide-api/internal/apperr"
	"github.com/dstu-guide/guide-api/internal/db"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type Store struct {
	h   *db.Handle
	now func() time.Time
}

func NewStore(h *db.Handle) *Store { return &Store{h: h, now: time.Now} }

// CreatePost stores a post and returns it as read back. Status defaults to
// draft.
func (s *Store) CreatePost(ctx context.Context, in NewPost) (Post, error) {
	status := in.Status
	if status == "" {
		status = StatusDraft
	}
	if !ValidStatus(status) {
		return Post{}, fmt.Errorf("%w: unknown status %q", apperr.ErrInvalid, status)
	}

	ctx, cancel := s.h.Op(ctx)
	defer cancel()

	var id int64
	err := s.h.WithTx(ctx, func(tx *sql.Tx) error {
		ok, err := s.h.Exists(ctx, tx, `SELECT 1 FROM users WHERE user_id=$1`, in.AuthorID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: author %d does not exist", apperr.ErrInvalidReference, in.AuthorID)
		}
		id, err = s.h.InsertID(ctx, tx,
			`INSERT INTO posts (title, short_description, content, image_url, author_id, status, created_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`, "post_id",
			strings.TrimSpace(in.Title), optional(in.ShortDescription), in.Content, optional(in.ImageURL),
			in.AuthorID, status, s.now().Unix())
		return err
	})
	if err != nil {
		return Post{}, err
	}
	return s.getPost(ctx, id)
}

// ListPosts pages through posts with one status, newest first. page and limit
// below 1 fall back to 1 and DefaultLimit.
func (s *Store) ListPosts(ctx context.Context, status string, page, limit int) ([]Post, Page, error) {
	if status == "" {
		status = StatusPublished
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	ctx, cancel := s.h.Op(ctx)
	defer cancel()

	pg := Page{Page: page, Limit: limit}
	if err := s.h.QueryRowContext(ctx, s.h.Rebind(`SELECT COUNT(*) FROM posts WHERE status=$1`), status).
		Scan(&pg.Total); err != nil {
		return nil, Page{}, db.Classify(err)
	}
	pg.TotalPages = (pg.Total + limit - 1) / limit

	rows, err := s.h.QueryContext(ctx, s.h.Rebind(
		postSelect+` WHERE p.status=$1 ORDER BY p.created_at DESC, p.post_id DESC LIMIT $2 OFFSET $3`),
		status, limit, (page-1)*limit)
	if err != nil {
		return nil, Page{}, db.Classify(err)
	}
	defer rows.Close()
	out := []Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, Page{}, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, Page{}, db.Classify(err)
	}
	return out, pg, nil
}

func (s *Store) GetPost(ctx context.Context, id int64) (PostDetail, error) {
	ctx, cancel := s.h.Op(ctx)
	defer cancel()

	p, err := s.getPost(ctx, id)
	if err != nil {
		return PostDetail{}, err
	}
	tags, err := s.postTags(ctx, id)
	if err != nil {
		return PostDetail{}, err
	}
	return PostDetail{Post: p, Tags: tags}, nil
}

func (s *Store) getPost(ctx context.Context, id int64) (Post, error) {
	p, err := scanPost(s.h.QueryRowContext(ctx, s.h.Rebind(postSelect+` WHERE p.post_id=$1`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return Post{}, fmt.Errorf("%w: post %d", apperr.ErrNotFound, id)
	}
	if err != nil {
		return Post{}, db.Classify(err)
	}
	return p, nil
}

const postSelect = `SELECT p.post_id, p.title, p.short_description, p.content, p.image_url, p.author_id,
       p.status, p.created_at, u.full_name
  FROM posts p
  LEFT JOIN users u ON p.author_id = u.user_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(sc scanner) (Post, error) {
	var p Post
	var short, image, author sql.NullString
	var created int64
	if err := sc.Scan(&p.ID, &p.Title, &short, &p.Content, &image, &p.AuthorID, &p.Status, &created, &author); err != nil {
		return Post{}, err
	}
	p.ShortDescription = strPtr(short)
	p.ImageURL = strPtr(image)
	p.AuthorName = strPtr(author)
	p.CreatedAt = time.Unix(created, 0).UTC()
	return p, nil
}

func optional(s string) any {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return s
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
