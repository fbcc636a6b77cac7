package http

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"

	"github.com/dstu-guide/guide-api/internal/storage"
)

const maxUploadBytes = 5 << 20

// sniffLen is how much of a blob is read to detect its type.
const sniffLen = 3072

// UploadHandler stores a post image sent as multipart field "file".
// POST /api/uploads
func UploadHandler(bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1<<10)
		f, _, err := r.FormFile("file")
		if err != nil {
			var tooBig *http.MaxBytesError
			msg := "file is required"
			if errors.As(err, &tooBig) {
				msg = "file must be at most 5 MB"
			}
			writeFieldErrors(w, []FieldError{{Type: "field", Msg: msg, Path: "file", Location: "body"}})
			return
		}
		defer f.Close()

		head := make([]byte, sniffLen)
		n, err := io.ReadFull(f, head)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			writeError(w, r, err)
			return
		}
		head = head[:n]
		mt := mimetype.Detect(head)
		if !strings.HasPrefix(mt.String(), "image/") {
			writeFieldErrors(w, []FieldError{{
				Type: "field", Value: mt.String(), Msg: "file must be an image", Path: "file", Location: "body",
			}})
			return
		}

		key, err := bs.Put(storage.ImageKey(mt.Extension()), io.MultiReader(bytes.NewReader(head), f))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{
			"message": "file uploaded",
			"key":     key,
			"url":     bs.URL(key),
		})
	}
}

// ServeUploadHandler returns the blob at whatever follows /api/uploads/.
// GET /api/uploads/*
func ServeUploadHandler(bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		rc, err := bs.Get(key)
		if err != nil {
			writeError(w, r, err)
			return
		}
		defer rc.Close()

		head := make([]byte, sniffLen)
		n, err := io.ReadFull(rc, head)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			writeError(w, r, err)
			return
		}
		head = head[:n]
		w.Header().Set("Content-Type", mimetype.Detect(head).String())
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		_, _ = io.Copy(w, io.MultiReader(bytes.NewReader(head), rc))
	}
}
