package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sumpro/internal/api"
	"sumpro/internal/blobstore"
	"sumpro/internal/store"
)

type testEnv struct {
	server *Server
	http   *httptest.Server
	store  *store.Store
	sender *fakeSender
	dir    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv(adminTokenEnvKey, "test-admin-token")

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	dir := t.TempDir()
	resumes, err := blobstore.NewLocalDir(dir)
	if err != nil {
		t.Fatalf("NewLocalDir: %v", err)
	}

	sender := &fakeSender{}
	srv := New("127.0.0.1:0", Options{
		Applications: st,
		Auth:         st,
		Resumes:      resumes,
		Mailer:       sender,
		UploadsDir:   dir,
		Logger:       slog.New(slog.DiscardHandler),
	})

	ts := httptest.NewServer(srv.routes())
	t.Cleanup(ts.Close)

	return &testEnv{server: srv, http: ts, store: st, sender: sender, dir: dir}
}

func (e *testEnv) submit(t *testing.T, fields map[string]string, filename, contentType, content string) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if filename != "" {
		hdr := make(map[string][]string)
		hdr["Content-Disposition"] = []string{`form-data; name="resume"; filename="` + filename + `"`}
		hdr["Content-Type"] = []string{contentType}
		part, err := mw.CreatePart(hdr)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := io.WriteString(part, content); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	resp, err := http.Post(e.http.URL+"/v1/applications", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("POST /v1/applications: %v", err)
	}
	return resp
}

func (e *testEnv) adminDo(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, e.http.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer test-admin-token")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func newCookieClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func validFields() map[string]string {
	return map[string]string{
		"full_name": "Ada Lovelace",
		"email":     "ada@example.com",
		"position":  "Engineer",
	}
}

func TestSubmitReviewDeleteFlow(t *testing.T) {
	env := newTestEnv(t)

	resp := env.submit(t, validFields(), "cv.pdf", "application/pdf", "%PDF-1.4 body")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit status = %d", resp.StatusCode)
	}
	created := decodeBody[api.Application](t, resp)
	if created.Status != "New" {
		t.Errorf("status = %q, want New", created.Status)
	}
	if !strings.HasPrefix(created.ResumeLocation, "/uploads/") {
		t.Errorf("resume_location = %q", created.ResumeLocation)
	}

	// The stored file is served back in local mode.
	fileResp, err := http.Get(env.http.URL + created.ResumeLocation)
	if err != nil {
		t.Fatalf("GET %s: %v", created.ResumeLocation, err)
	}
	data, _ := io.ReadAll(fileResp.Body)
	fileResp.Body.Close()
	if fileResp.StatusCode != http.StatusOK || string(data) != "%PDF-1.4 body" {
		t.Errorf("serve upload: status %d body %q", fileResp.StatusCode, data)
	}

	// Admin list shows the record.
	listResp := env.adminDo(t, http.MethodGet, "/v1/applications", nil)
	apps := decodeBody[[]api.Application](t, listResp)
	if len(apps) != 1 || apps[0].ID != created.ID {
		t.Fatalf("list = %+v", apps)
	}

	// Status update.
	updResp := env.adminDo(t, http.MethodPut, "/v1/applications/"+created.ID,
		api.ApplicationStatusUpdateRequest{Status: "Interview"})
	updated := decodeBody[api.Application](t, updResp)
	if updated.Status != "Interview" {
		t.Errorf("updated status = %q", updated.Status)
	}

	// Delete removes the record and the stored file.
	delResp := env.adminDo(t, http.MethodDelete, "/v1/applications/"+created.ID, nil)
	deleted := decodeBody[api.ApplicationDeleteResponse](t, delResp)
	if !deleted.Deleted || deleted.ID != created.ID {
		t.Errorf("delete response = %+v", deleted)
	}

	getResp := env.adminDo(t, http.MethodGet, "/v1/applications/"+created.ID, nil)
	if getResp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d", getResp.StatusCode)
	}
	getResp.Body.Close()

	name := strings.TrimPrefix(created.ResumeLocation, "/uploads/")
	if _, err := os.Stat(filepath.Join(env.dir, name)); !os.IsNotExist(err) {
		t.Errorf("stored file still present after delete, stat err = %v", err)
	}
}

func TestSubmitRejectsExecutable(t *testing.T) {
	env := newTestEnv(t)

	resp := env.submit(t, validFields(), "cv.exe", "application/octet-stream", "MZ...")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	errResp := decodeBody[api.ErrorResponse](t, resp)
	if errResp.ErrorCode != ErrCodeInvalidFileType {
		t.Errorf("error_code = %d, want %d", errResp.ErrorCode, ErrCodeInvalidFileType)
	}

	// Nothing was stored.
	entries, err := os.ReadDir(env.dir)
	if err != nil {
		t.Fatalf("read uploads dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("uploads dir has %d entries after rejection", len(entries))
	}
}

func TestSubmitRequiresResume(t *testing.T) {
	env := newTestEnv(t)

	resp := env.submit(t, validFields(), "", "", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	errResp := decodeBody[api.ErrorResponse](t, resp)
	if errResp.ErrorCode != ErrCodeMissingResume {
		t.Errorf("error_code = %d, want %d", errResp.ErrorCode, ErrCodeMissingResume)
	}
}

func TestAdminEndpointsRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/v1/applications"},
		{http.MethodGet, "/v1/applications/ap-0a1b2c3d"},
		{http.MethodDelete, "/v1/applications/ap-0a1b2c3d"},
		{http.MethodGet, "/v1/admin/users"},
	} {
		req, _ := http.NewRequest(tc.method, env.http.URL+tc.path, nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", tc.method, tc.path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s %s status = %d, want 401", tc.method, tc.path, resp.StatusCode)
		}
	}
}

func TestContactEndpoint(t *testing.T) {
	env := newTestEnv(t)

	body, _ := json.Marshal(api.ContactRequest{
		FirstName: "Ada",
		Email:     "ada@example.com",
		Subject:   "Hello",
		Message:   "Hi there",
	})
	resp, err := http.Post(env.http.URL+"/v1/contact", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /v1/contact: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	ack := decodeBody[api.ContactResponse](t, resp)
	if !ack.Sent {
		t.Error("response not acknowledged")
	}
	if len(env.sender.sent) != 1 {
		t.Fatalf("sent %d messages", len(env.sender.sent))
	}

	// Missing email is rejected before any mail goes out.
	body, _ = json.Marshal(api.ContactRequest{FirstName: "Ada", Subject: "x", Message: "y"})
	resp, err = http.Post(env.http.URL+"/v1/contact", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /v1/contact: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if len(env.sender.sent) != 1 {
		t.Errorf("invalid contact sent mail")
	}
}

func TestSessionLoginFlow(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now().UTC()

	if _, err := env.server.authService.CreateAdminUser(t.Context(), "admin@example.com", "s3cret-pass", now); err != nil {
		t.Fatalf("CreateAdminUser: %v", err)
	}

	jar := newCookieClient(t)

	body, _ := json.Marshal(api.AuthLoginRequest{Email: "admin@example.com", Password: "s3cret-pass"})
	resp, err := jar.Post(env.http.URL+"/v1/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	me := decodeBody[api.AuthMeResponse](t, resp)
	if !me.Authenticated || me.Email != "admin@example.com" {
		t.Fatalf("login response = %+v", me)
	}

	// The session cookie admits admin requests.
	listResp, err := jar.Get(env.http.URL + "/v1/applications")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	listResp.Body.Close()
	if listResp.StatusCode != http.StatusOK {
		t.Errorf("list with session status = %d", listResp.StatusCode)
	}

	// Logout revokes it.
	logoutResp, err := jar.Post(env.http.URL+"/v1/auth/logout", "application/json", nil)
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	logoutResp.Body.Close()
	if logoutResp.StatusCode != http.StatusNoContent {
		t.Errorf("logout status = %d", logoutResp.StatusCode)
	}

	meResp, err := jar.Get(env.http.URL + "/v1/auth/me")
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	after := decodeBody[api.AuthMeResponse](t, meResp)
	if after.Authenticated {
		t.Error("still authenticated after logout")
	}
}

func TestLoginRateLimiting(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now().UTC()

	if _, err := env.server.authService.CreateAdminUser(t.Context(), "admin@example.com", "s3cret-pass", now); err != nil {
		t.Fatalf("CreateAdminUser: %v", err)
	}

	body, _ := json.Marshal(api.AuthLoginRequest{Email: "admin@example.com", Password: "wrong"})
	var last int
	for i := 0; i < loginMaxFailures+1; i++ {
		resp, err := http.Post(env.http.URL+"/v1/auth/login", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("login attempt %d: %v", i, err)
		}
		last = resp.StatusCode
		resp.Body.Close()
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("final login status = %d, want 429", last)
	}
}

func TestAdminUserProvisioning(t *testing.T) {
	env := newTestEnv(t)

	createResp := env.adminDo(t, http.MethodPost, "/v1/admin/users",
		api.AdminUserCreateRequest{Email: "ops@example.com", Password: "s3cret-pass"})
	if createResp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", createResp.StatusCode)
	}
	created := decodeBody[api.AdminUser](t, createResp)
	if created.Email != "ops@example.com" || created.Role != "admin" {
		t.Errorf("created = %+v", created)
	}

	// Duplicates conflict.
	dupResp := env.adminDo(t, http.MethodPost, "/v1/admin/users",
		api.AdminUserCreateRequest{Email: "ops@example.com", Password: "s3cret-pass"})
	if dupResp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", dupResp.StatusCode)
	}
	dupResp.Body.Close()

	listResp := env.adminDo(t, http.MethodGet, "/v1/admin/users", nil)
	users := decodeBody[[]api.AdminUser](t, listResp)
	if len(users) != 1 {
		t.Fatalf("listed %d users", len(users))
	}

	disableResp := env.adminDo(t, http.MethodPatch, "/v1/admin/users/ops@example.com",
		api.AdminUserSetDisabledRequest{Disabled: true})
	disabled := decodeBody[api.AdminUser](t, disableResp)
	if !disabled.Disabled {
		t.Error("user not disabled")
	}

	missingResp := env.adminDo(t, http.MethodPatch, "/v1/admin/users/nobody@example.com",
		api.AdminUserSetDisabledRequest{Disabled: true})
	if missingResp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown user status = %d, want 404", missingResp.StatusCode)
	}
	missingResp.Body.Close()
}

func TestSessionAdminCannotDisableSelf(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now().UTC()

	if _, err := env.server.authService.CreateAdminUser(t.Context(), "admin@example.com", "s3cret-pass", now); err != nil {
		t.Fatalf("CreateAdminUser: %v", err)
	}

	jar := newCookieClient(t)
	body, _ := json.Marshal(api.AuthLoginRequest{Email: "admin@example.com", Password: "s3cret-pass"})
	resp, err := jar.Post(env.http.URL+"/v1/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}

	body, _ = json.Marshal(api.AdminUserSetDisabledRequest{Disabled: true})
	req, _ := http.NewRequest(http.MethodPatch, env.http.URL+"/v1/admin/users/admin@example.com", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	selfResp, err := jar.Do(req)
	if err != nil {
		t.Fatalf("disable self: %v", err)
	}
	selfResp.Body.Close()
	if selfResp.StatusCode != http.StatusBadRequest {
		t.Errorf("disable self status = %d, want 400", selfResp.StatusCode)
	}

	// The bearer token is not tied to an account and may disable anyone.
	disableResp := env.adminDo(t, http.MethodPatch, "/v1/admin/users/admin@example.com",
		api.AdminUserSetDisabledRequest{Disabled: true})
	disabled := decodeBody[api.AdminUser](t, disableResp)
	if !disabled.Disabled {
		t.Error("bearer disable did not take effect")
	}
}

func TestInvalidApplicationID(t *testing.T) {
	env := newTestEnv(t)

	resp := env.adminDo(t, http.MethodGet, "/v1/applications/not-an-id", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	errResp := decodeBody[api.ErrorResponse](t, resp)
	if errResp.ErrorCode != ErrCodeInvalidID {
		t.Errorf("error_code = %d, want %d", errResp.ErrorCode, ErrCodeInvalidID)
	}
}

func TestServeUploadRejectsDotfiles(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.http.URL + "/uploads/.hidden")
	if err != nil {
		t.Fatalf("GET /uploads/.hidden: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
