package adapthttp

import "net/http"

func (s *Server) handleCreateWorkplace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title   string `json:"title"`
		Address string `json:"address"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}

	wp, err := s.employees.CreateWorkplace(r.Context(), req.Title, req.Address)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      wp.ID,
		"title":   wp.Title,
		"address": wp.Address,
	})
}

func (s *Server) handleListWorkplaces(w http.ResponseWriter, r *http.Request) {
	list, err := s.employees.ListWorkplaces(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	rows := make([]map[string]any, 0, len(list))
	for _, wp := range list {
		rows = append(rows, map[string]any{
			"id":      wp.ID,
			"title":   wp.Title,
			"address": wp.Address,
		})
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleDeleteWorkplace(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.employees.DeleteWorkplace(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
