package web

import (
	"encoding/json"
	"net/http"

	"github.com/vbonduro/ecoleta/internal/domain"
	"github.com/vbonduro/ecoleta/internal/validate"
)

const maxJSONBody = 1 << 20 // 1 MB

func (s *Server) handleListPoints(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	itemIDs, err := validate.ParseItemIDs(q.Get("items"))
	if err != nil {
		ve := &domain.ValidationError{}
		ve.Add("items", err.Error())
		s.writeServiceError(w, r, ve, "")
		return
	}

	points, err := s.points.ListPoints(r.Context(), domain.PointFilter{
		City:    q.Get("city"),
		UF:      q.Get("uf"),
		ItemIDs: itemIDs,
	})
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (s *Server) handleViewPoint(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeServiceError(w, r, err, "Point not found")
		return
	}

	detail, err := s.points.ViewPoint(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "Point not found")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleCreatePoint(w http.ResponseWriter, r *http.Request) {
	form, img, err := s.readPointUpload(w, r)
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}

	point, itemIDs, err := s.validator.Point(form)
	if img == nil {
		err = withFieldError(err, "image", "is required")
	}
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}

	created, err := s.points.CreatePoint(r.Context(), point, itemIDs, *img)
	s.metrics.PointWrite("create", err)
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// withFieldError adds a field error to err when err is nil or a validation
// error. Other errors are returned unchanged.
func withFieldError(err error, field, message string) error {
	if err == nil {
		ve := &domain.ValidationError{}
		ve.Add(field, message)
		return ve
	}
	if ve, ok := err.(*domain.ValidationError); ok {
		ve.Add(field, message)
	}
	return err
}

func (s *Server) handleUpdatePoint(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeServiceError(w, r, err, "Point not updated")
		return
	}

	var body validate.PointUpdate
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	point, err := s.validator.Update(body)
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}

	updated, err := s.points.UpdatePoint(r.Context(), id, point)
	s.metrics.PointWrite("update", err)
	if err != nil {
		s.writeServiceError(w, r, err, "Point not updated")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePoint(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err == nil {
		err = s.points.DeletePoint(r.Context(), id)
		s.metrics.PointWrite("delete", err)
	}
	if err != nil {
		s.writeServiceError(w, r, err, "Point not found")
		return
	}
	writeMessage(w, http.StatusOK, "Point successful deleted")
}
