package adapthttp

import (
	"net/http"
	"time"

	"timeclock/internal/app"
	"timeclock/internal/domain"
)

func (s *Server) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName    string `json:"full_name"`
		Email       string `json:"email"`
		PhoneNumber string `json:"phone_number"`
		WorkPlaceID int64  `json:"workplace_id"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}

	owner := ownerFrom(r.Context())
	emp, token, err := s.employees.Create(r.Context(), owner.ID, app.EmployeeInput{
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		WorkPlaceID: req.WorkPlaceID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	// The plaintext personal token is returned here and never again.
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":             emp.ID,
		"personal_token": token,
	})
}

func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r.Context())
	stats, err := s.reports.AllEmployeesWithStats(r.Context(), owner.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	rows := make([]map[string]any, 0, len(stats))
	for _, st := range stats {
		rows = append(rows, map[string]any{
			"id":           st.Employee.ID,
			"full_name":    st.Employee.FullName,
			"email":        st.Employee.Email,
			"phone_number": st.Employee.PhoneNumber,
			"is_active":    st.Employee.IsActive,
			"workplace_id": st.Employee.WorkPlaceID,
			"worked_today": st.Today,
			"worked_week":  st.Week,
			"worked_month": st.Month,
		})
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleEmployeeDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	sel, err := parseSelector(r)
	if err != nil {
		writeError(w, err)
		return
	}

	owner := ownerFrom(r.Context())
	detail, err := s.reports.EmployeeDetail(r.Context(), owner.ID, id, sel)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":           detail.Employee.ID,
		"full_name":    detail.Employee.FullName,
		"email":        detail.Employee.Email,
		"phone_number": detail.Employee.PhoneNumber,
		"is_active":    detail.Employee.IsActive,
		"workplace_id": detail.Employee.WorkPlaceID,
		"days":         detail.Rows,
		"total_hours":  detail.TotalHours,
	})
}

// parseSelector reads the ?week=YYYY-MM-DD or ?month=YYYY-MM query
// parameters; absent both, the report covers the current day.
func parseSelector(r *http.Request) (app.Selector, error) {
	var sel app.Selector
	q := r.URL.Query()
	if v := q.Get("week"); v != "" {
		t, err := time.ParseInLocation(domain.DayFormat, v, time.Local)
		if err != nil {
			return sel, &domain.ValidationError{Field: "week", Reason: "must be formatted YYYY-MM-DD"}
		}
		sel.Week = &t
		return sel, nil
	}
	if v := q.Get("month"); v != "" {
		t, err := time.ParseInLocation("2006-01", v, time.Local)
		if err != nil {
			return sel, &domain.ValidationError{Field: "month", Reason: "must be formatted YYYY-MM"}
		}
		sel.Month = &t
	}
	return sel, nil
}

func (s *Server) handleRegenerateToken(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	owner := ownerFrom(r.Context())
	token, err := s.employees.RegenerateToken(r.Context(), owner.ID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"personal_token": token})
}

func (s *Server) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	owner := ownerFrom(r.Context())
	if err := s.employees.Delete(r.Context(), owner.ID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
