package adapthttp_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	adapthttp "timeclock/internal/adapter/http"
	"timeclock/internal/adapter/memory"
	"timeclock/internal/app"

	"github.com/rs/zerolog"
)

// testEnv wires the full HTTP surface over the in-memory adapter. The
// client carries a cookie jar so the owner token cookies flow like a
// browser session.
type testEnv struct {
	ts     *httptest.Server
	client *http.Client
	clock  *app.TestClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := memory.New()
	clock := &app.TestClock{CurrentTime: time.Date(2026, 3, 11, 9, 0, 0, 0, time.Local)}
	tokens := app.NewTokenAuth(app.TokenConfig{Secret: "test-secret"}, clock)
	auth := app.NewAuthService(db, tokens)
	employees := app.NewEmployeeService(db.NewEmployeeRepo(), db.NewWorkPlaceRepo())
	work := app.NewWorkService(employees, db.NewWorkDayRepo(), db.NewWorkSessionRepo(), clock)
	reports := app.NewReportService(employees, db.NewWorkDayRepo(), clock)

	srv := adapthttp.New(auth, employees, work, reports, tokens, adapthttp.OIDCConfig{}, zerolog.Nop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &testEnv{ts: ts, client: &http.Client{Jar: jar}, clock: clock}
}

func (e *testEnv) postJSON(t *testing.T, path string, payload any) *http.Response {
	t.Helper()
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := e.client.Post(e.ts.URL+path, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func (e *testEnv) do(t *testing.T, method, path string, header http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, e.ts.URL+path, nil)
	if err != nil {
		t.Fatal(err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := e.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck
	var m map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return m
}

func decodeList(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck
	var list []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return list
}

// login registers an owner and signs in through the HTTP surface.
func (e *testEnv) login(t *testing.T, email string) {
	t.Helper()

	resp := e.postJSON(t, "/api/users/register", map[string]any{
		"first_name": "Jane",
		"last_name":  "Doe",
		"email":      email,
		"password1":  "password1",
		"password2":  "password1",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %v", resp.StatusCode, decodeBody(t, resp))
	}
	resp.Body.Close() //nolint:errcheck

	resp = e.postJSON(t, "/api/users/login", map[string]any{
		"email":    email,
		"password": "password1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close() //nolint:errcheck
}

// seedEmployee provisions a workplace and an employee, returning the
// employee id and its plaintext personal token.
func (e *testEnv) seedEmployee(t *testing.T) (int64, string) {
	t.Helper()

	resp := e.postJSON(t, "/api/workplaces", map[string]any{
		"title":   "Office",
		"address": "Khreshchatyk 1",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create workplace: expected 201, got %d: %v", resp.StatusCode, decodeBody(t, resp))
	}
	wp := decodeBody(t, resp)

	resp = e.postJSON(t, "/api/employees", map[string]any{
		"full_name":    "Taras Shevchenko",
		"email":        "taras@example.com",
		"phone_number": "+380501234567",
		"workplace_id": wp["id"],
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create employee: expected 201, got %d: %v", resp.StatusCode, decodeBody(t, resp))
	}
	body := decodeBody(t, resp)
	token, _ := body["personal_token"].(string)
	if token == "" {
		t.Fatal("expected a personal token in the create response")
	}
	return int64(body["id"].(float64)), token
}

func employerHeader(token string) http.Header {
	return http.Header{"Authorization": []string{"token " + token}}
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestEnv(t)

	resp, err := http.Get(e.ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["ok"] != true {
		t.Fatalf("expected ok=true, got %v", body["ok"])
	}
}

func TestOwnerEndpointsRequireAuth(t *testing.T) {
	e := newTestEnv(t)

	paths := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/users/me"},
		{http.MethodGet, "/api/workplaces"},
		{http.MethodGet, "/api/employees"},
		{http.MethodGet, "/api/employees/1"},
		{http.MethodDelete, "/api/employees/1"},
	}
	for _, tc := range paths {
		resp := e.do(t, tc.method, tc.path, nil)
		resp.Body.Close() //nolint:errcheck
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", tc.method, tc.path, resp.StatusCode)
		}
	}
}

func TestRegisterLoginMe(t *testing.T) {
	e := newTestEnv(t)
	e.login(t, "jane@example.com")

	resp := e.do(t, http.MethodGet, "/api/users/me", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["email"] != "jane@example.com" || body["first_name"] != "Jane" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestRegisterValidation(t *testing.T) {
	e := newTestEnv(t)

	resp := e.postJSON(t, "/api/users/register", map[string]any{
		"first_name": "Jane",
		"last_name":  "Doe",
		"email":      "jane@example.com",
		"password1":  "password1",
		"password2":  "different1",
	})
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestDuplicateRegisterConflicts(t *testing.T) {
	e := newTestEnv(t)
	e.login(t, "jane@example.com")

	resp := e.postJSON(t, "/api/users/register", map[string]any{
		"first_name": "Jane",
		"last_name":  "Doe",
		"email":      "jane@example.com",
		"password1":  "password1",
		"password2":  "password1",
	})
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	e := newTestEnv(t)
	e.login(t, "jane@example.com")

	resp := e.postJSON(t, "/api/users/login", map[string]any{
		"email":    "jane@example.com",
		"password": "wrong-password",
	})
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestTokenRefresh(t *testing.T) {
	e := newTestEnv(t)
	e.login(t, "jane@example.com")

	// Past the access lifetime the refresh token is still good.
	e.clock.CurrentTime = e.clock.CurrentTime.Add(10 * time.Minute)

	resp := e.do(t, http.MethodGet, "/api/users/me", nil)
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with expired access token, got %d", resp.StatusCode)
	}

	resp = e.postJSON(t, "/api/users/token-refresh", nil)
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d", resp.StatusCode)
	}

	resp = e.do(t, http.MethodGet, "/api/users/me", nil)
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 after refresh, got %d", resp.StatusCode)
	}
}

func TestWorkplaceLifecycle(t *testing.T) {
	e := newTestEnv(t)
	e.login(t, "jane@example.com")

	resp := e.postJSON(t, "/api/workplaces", map[string]any{"title": "Office", "address": "Khreshchatyk 1"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	wp := decodeBody(t, resp)
	if wp["title"] != "Office" {
		t.Fatalf("unexpected workplace: %v", wp)
	}

	resp = e.do(t, http.MethodGet, "/api/workplaces", nil)
	if got := decodeList(t, resp); len(got) != 1 || got[0]["title"] != "Office" {
		t.Fatalf("unexpected list: %v", got)
	}

	// Duplicate title is a conflict.
	resp = e.postJSON(t, "/api/workplaces", map[string]any{"title": "Office", "address": "Other 2"})
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}

	resp = e.do(t, http.MethodDelete, "/api/workplaces/1", nil)
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
}

func TestWorkplaceDeleteWhileReferenced(t *testing.T) {
	e := newTestEnv(t)
	e.login(t, "jane@example.com")
	e.seedEmployee(t)

	resp := e.do(t, http.MethodDelete, "/api/workplaces/1", nil)
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 while employees reference the workplace, got %d", resp.StatusCode)
	}
}

func TestWorkRoundTrip(t *testing.T) {
	e := newTestEnv(t)
	e.login(t, "jane@example.com")
	_, token := e.seedEmployee(t)

	resp := e.do(t, http.MethodPost, "/api/work/start", employerHeader(token))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start: expected 200, got %d: %v", resp.StatusCode, decodeBody(t, resp))
	}
	if body := decodeBody(t, resp); body["session_id"] == nil {
		t.Fatalf("expected session_id, got %v", body)
	}

	// A second start on the same day conflicts.
	resp = e.do(t, http.MethodPost, "/api/work/start", employerHeader(token))
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("double start: expected 409, got %d", resp.StatusCode)
	}

	e.clock.CurrentTime = e.clock.CurrentTime.Add(7*time.Hour + 36*time.Minute)

	resp = e.do(t, http.MethodPost, "/api/work/end", employerHeader(token))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("end: expected 200, got %d", resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["worked"] != "07:36" {
		t.Fatalf("expected worked 07:36, got %v", body["worked"])
	}

	// Ending again without an open session is a state error.
	resp = e.do(t, http.MethodPost, "/api/work/end", employerHeader(token))
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("double end: expected 422, got %d", resp.StatusCode)
	}

	// The list view reflects the worked time.
	resp = e.do(t, http.MethodGet, "/api/employees", nil)
	list := decodeList(t, resp)
	if len(list) != 1 {
		t.Fatalf("expected 1 employee, got %d", len(list))
	}
	if list[0]["worked_today"] != "07:36" {
		t.Fatalf("expected worked_today 07:36, got %v", list[0]["worked_today"])
	}

	// So does the detail view for the current day.
	resp = e.do(t, http.MethodGet, "/api/employees/1", nil)
	detail := decodeBody(t, resp)
	if detail["total_hours"] != 7.6 {
		t.Fatalf("expected total_hours 7.6, got %v", detail["total_hours"])
	}
}

func TestWorkRequiresPersonalToken(t *testing.T) {
	e := newTestEnv(t)

	for _, header := range []http.Header{
		nil,
		{"Authorization": []string{"Bearer abc"}},
		{"Authorization": []string{"token "}},
		employerHeader("unknown-token"),
	} {
		resp := e.do(t, http.MethodPost, "/api/work/start", header)
		resp.Body.Close() //nolint:errcheck
		if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusNotFound {
			t.Fatalf("header %v: expected 401 or 404, got %d", header, resp.StatusCode)
		}
	}
}

func TestEmployeeDetailWeek(t *testing.T) {
	e := newTestEnv(t)
	e.login(t, "jane@example.com")
	_, token := e.seedEmployee(t)

	// Work 2h on Wednesday 2026-03-11.
	e.do(t, http.MethodPost, "/api/work/start", employerHeader(token)).Body.Close() //nolint:errcheck
	e.clock.CurrentTime = e.clock.CurrentTime.Add(2 * time.Hour)
	e.do(t, http.MethodPost, "/api/work/end", employerHeader(token)).Body.Close() //nolint:errcheck

	resp := e.do(t, http.MethodGet, "/api/employees/1?week=2026-03-11", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	days, ok := body["days"].([]any)
	if !ok || len(days) != 7 {
		t.Fatalf("expected 7 days, got %v", body["days"])
	}
	var worked int
	for _, d := range days {
		row := d.(map[string]any)
		if row["worked"] != nil {
			worked++
			if row["date"] != "2026-03-11" || row["worked"] != "02:00" {
				t.Fatalf("unexpected row: %v", row)
			}
		}
	}
	if worked != 1 {
		t.Fatalf("expected exactly one worked day, got %d", worked)
	}
	if body["total_hours"] != 2.0 {
		t.Fatalf("expected total_hours 2.0, got %v", body["total_hours"])
	}
}

func TestEmployeeDetailBadSelector(t *testing.T) {
	e := newTestEnv(t)
	e.login(t, "jane@example.com")
	e.seedEmployee(t)

	for _, q := range []string{"?week=March-11", "?month=2026-3-1"} {
		resp := e.do(t, http.MethodGet, "/api/employees/1"+q, nil)
		resp.Body.Close() //nolint:errcheck
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", q, resp.StatusCode)
		}
	}
}

func TestEmployeeOwnershipIsolation(t *testing.T) {
	e := newTestEnv(t)
	e.login(t, "jane@example.com")
	e.seedEmployee(t)

	// A different owner must not see the employee.
	e2 := &testEnv{ts: e.ts, clock: e.clock}
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	e2.client = &http.Client{Jar: jar}
	e2.login(t, "rival@example.com")

	resp := e2.do(t, http.MethodGet, "/api/employees/1", nil)
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign employee, got %d", resp.StatusCode)
	}

	resp = e2.do(t, http.MethodGet, "/api/employees", nil)
	if list := decodeList(t, resp); len(list) != 0 {
		t.Fatalf("expected empty list for other owner, got %v", list)
	}
}

func TestRegenerateTokenRevokesOld(t *testing.T) {
	e := newTestEnv(t)
	e.login(t, "jane@example.com")
	_, oldToken := e.seedEmployee(t)

	resp := e.do(t, http.MethodPost, "/api/employees/1/token", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	newToken, _ := decodeBody(t, resp)["personal_token"].(string)
	if newToken == "" || newToken == oldToken {
		t.Fatal("expected a fresh personal token")
	}

	resp = e.do(t, http.MethodPost, "/api/work/start", employerHeader(oldToken))
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("old token: expected 404, got %d", resp.StatusCode)
	}

	resp = e.do(t, http.MethodPost, "/api/work/start", employerHeader(newToken))
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("new token: expected 200, got %d", resp.StatusCode)
	}
}

func TestDeleteEmployee(t *testing.T) {
	e := newTestEnv(t)
	e.login(t, "jane@example.com")
	_, token := e.seedEmployee(t)

	resp := e.do(t, http.MethodDelete, "/api/employees/1", nil)
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	// The personal token dies with the employee.
	resp = e.do(t, http.MethodPost, "/api/work/start", employerHeader(token))
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}

	resp = e.do(t, http.MethodDelete, "/api/employees/1", nil)
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", resp.StatusCode)
	}
}

func TestSSODisabled(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodGet, "/api/auth/sso/login", nil)
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 with sso disabled, got %d", resp.StatusCode)
	}
}
