package adapthttp

import "net/http"

func (s *Server) handleStartWork(w http.ResponseWriter, r *http.Request) {
	token, err := employerToken(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := s.work.StartWork(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"session_id": id})
}

func (s *Server) handleEndWork(w http.ResponseWriter, r *http.Request) {
	token, err := employerToken(r)
	if err != nil {
		writeError(w, err)
		return
	}
	worked, err := s.work.EndWork(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"worked": worked})
}
