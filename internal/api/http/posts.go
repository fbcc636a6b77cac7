package http

import (
	"net/http"
	"strconv"

	"github.com/dstu-guide/guide-api/internal/blog"
)

type createPostRequest struct {
	Title            string `json:"title" validate:"required,max=255"`
	ShortDescription string `json:"short_description"`
	Content          string `json:"content" validate:"required"`
	ImageURL         string `json:"image_url"`
	AuthorID         int64  `json:"author_id" validate:"required,gt=0"`
	Status           string `json:"status" validate:"omitempty,oneof=draft published archived"`
}

type createTagRequest struct {
	TagName        string `json:"tag_name" validate:"required,max=64"`
	TagDescription string `json:"tag_description"`
}

type attachTagRequest struct {
	TagID int64 `json:"tag_id" validate:"required,gt=0"`
}

// POST /api/posts
func CreatePostHandler(bs *blog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPostRequest
		if !decodeBody(w, r, &req) {
			return
		}
		p, err := bs.CreatePost(r.Context(), blog.NewPost{
			Title:            req.Title,
			ShortDescription: req.ShortDescription,
			Content:          req.Content,
			ImageURL:         req.ImageURL,
			AuthorID:         req.AuthorID,
			Status:           req.Status,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"message": "post created", "post": p})
	}
}

// GET /api/posts?page=&limit=&status=
// Non-numeric page or limit fall back to the defaults.
func ListPostsHandler(bs *blog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		status := q.Get("status")
		if status != "" && !blog.ValidStatus(status) {
			writeFieldErrors(w, []FieldError{{
				Type: "field", Value: status, Msg: "status must be one of: draft, published, archived", Path: "status", Location: "query",
			}})
			return
		}
		page, _ := strconv.Atoi(q.Get("page"))
		limit, _ := strconv.Atoi(q.Get("limit"))

		posts, pg, err := bs.ListPosts(r.Context(), status, page, limit)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"posts": posts, "pagination": pg})
	}
}

// GET /api/posts/{id}
func GetPostHandler(bs *blog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		p, err := bs.GetPost(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// POST /api/tags
func CreateTagHandler(bs *blog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTagRequest
		if !decodeBody(w, r, &req) {
			return
		}
		id, err := bs.CreateTag(r.Context(), req.TagName, req.TagDescription)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"message": "tag created", "tag_id": id})
	}
}

// GET /api/tags
func ListTagsHandler(bs *blog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := bs.ListTags(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, tags)
	}
}

// POST /api/posts/{id}/tags
func AttachTagHandler(bs *blog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		var req attachTagRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := bs.AttachTag(r.Context(), postID, req.TagID); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "tag attached to post"})
	}
}
