package web

import "net/http"

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.items.ListItems(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err == nil {
		err = s.items.DeleteItem(r.Context(), id)
	}
	if err != nil {
		s.writeServiceError(w, r, err, "Item not found")
		return
	}
	writeMessage(w, http.StatusOK, "Item successful deleted")
}
