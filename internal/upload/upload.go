// Package upload is the multipart upload middleware. It streams a
// single file field into a temporary directory and exposes the stored
// file to downstream handlers through the request context.
package upload

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/olebek/contacts-be/internal/api/respond"
	"github.com/rs/zerolog/log"
)

// maxUploadBytes caps in-memory multipart parsing.
const maxUploadBytes = 10 << 20

// File describes an accepted upload sitting in the temporary directory.
type File struct {
	Path         string
	OriginalName string
	Ext          string
}

type contextKey string

const fileKey = contextKey("uploadedFile")

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Middleware accepts a single uploaded file under field, writes it to
// tmpDir under a unique name and attaches it to the request context.
// Files outside the jpg/jpeg/png allow-list are rejected with 400. A
// request without the field passes through; the handler decides whether
// the file was mandatory.
func Middleware(tmpDir, field string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
				// Not multipart or no body; let the handler decide.
				next.ServeHTTP(w, r)
				return
			}

			src, header, err := r.FormFile(field)
			if err != nil {
				// No file attached; let the handler decide.
				next.ServeHTTP(w, r)
				return
			}
			defer src.Close()

			ext := strings.ToLower(filepath.Ext(header.Filename))
			if !allowedExtensions[ext] {
				respond.Error(w, http.StatusBadRequest, strings.TrimPrefix(ext, ".")+" is invalid file type")
				return
			}

			if err := os.MkdirAll(tmpDir, 0o755); err != nil {
				log.Error().Err(err).Msg("Failed to create upload temp directory")
				respond.InternalError(w)
				return
			}

			fileName := uuid.New().String() + "-" + filepath.Base(header.Filename)
			tmpPath := filepath.Join(tmpDir, fileName)
			dst, err := os.Create(tmpPath)
			if err != nil {
				log.Error().Err(err).Msg("Failed to create temp upload file")
				respond.InternalError(w)
				return
			}

			if _, err := io.Copy(dst, src); err != nil {
				dst.Close()
				os.Remove(tmpPath)
				log.Error().Err(err).Msg("Failed to store uploaded file")
				respond.InternalError(w)
				return
			}
			dst.Close()

			file := File{Path: tmpPath, OriginalName: header.Filename, Ext: ext}
			ctx := context.WithValue(r.Context(), fileKey, file)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the uploaded file attached by Middleware.
func FromContext(ctx context.Context) (File, bool) {
	file, ok := ctx.Value(fileKey).(File)
	return file, ok
}
