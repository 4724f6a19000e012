package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"

	"github.com/vbonduro/ecoleta/internal/domain"
	"github.com/vbonduro/ecoleta/internal/service"
	"github.com/vbonduro/ecoleta/internal/validate"
)

// allowedImageTypes is the set of MIME types accepted for point images.
var allowedImageTypes = []string{"image/png", "image/jpeg"}

// allowedImageMIME sniffs data and returns its MIME type and true if it is an
// accepted image format, or ("", false) otherwise. The client-declared
// Content-Type is never trusted.
func allowedImageMIME(data []byte) (string, bool) {
	mt := mimetype.Detect(data)
	for _, allowed := range allowedImageTypes {
		if mt.Is(allowed) {
			return allowed, true
		}
	}
	return "", false
}

// readPointUpload parses a point registration multipart request. The returned
// image is nil when no "image" part was sent; an image of the wrong type
// yields domain.ErrUploadRejected.
func (s *Server) readPointUpload(w http.ResponseWriter, r *http.Request) (validate.PointForm, *service.Image, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		ve := &domain.ValidationError{}
		ve.Add("body", "must be a multipart form within the upload size limit")
		return validate.PointForm{}, nil, ve
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			s.logger.Error("failed to remove multipart temp files", "error", err)
		}
	}()

	form := validate.PointForm{
		Name:      r.FormValue("name"),
		Email:     r.FormValue("email"),
		WhatsApp:  r.FormValue("whatsapp"),
		Latitude:  r.FormValue("latitude"),
		Longitude: r.FormValue("longitude"),
		City:      r.FormValue("city"),
		UF:        r.FormValue("uf"),
		Items:     r.FormValue("items"),
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return form, nil, nil
	}
	if err != nil {
		return form, nil, err
	}
	defer closeWithLog(file, "upload file", s.logger)

	data, err := io.ReadAll(file)
	if err != nil {
		return form, nil, err
	}

	mimeType, ok := allowedImageMIME(data)
	if !ok {
		return form, nil, domain.ErrUploadRejected
	}

	return form, &service.Image{Filename: header.Filename, MimeType: mimeType, Data: data}, nil
}

func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	reader, mimeType, err := s.photoStore.Get(r.Context(), key)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer closeWithLog(reader, "photo reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	// Images are embedded by clients served from other origins.
	w.Header().Set("Cross-Origin-Resource-Policy", "cross-origin")
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write photo failed", "image", key, "error", err)
	}
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
