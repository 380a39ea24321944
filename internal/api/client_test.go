package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientSubmitApplication(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/applications" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("full_name"); got != "Ada Lovelace" {
			t.Errorf("full_name = %q", got)
		}
		f, hdr, err := r.FormFile("resume")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		if hdr.Filename != "cv.pdf" {
			t.Errorf("filename = %q", hdr.Filename)
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":"ap-0a1b2c3d","full_name":"Ada Lovelace","status":"New"}`)
	}))
	defer srv.Close()

	app, err := NewClient(srv.URL).SubmitApplication(context.Background(),
		"Ada Lovelace", "ada@example.com", "Engineer", "cv.pdf", strings.NewReader("%PDF"))
	if err != nil {
		t.Fatalf("SubmitApplication: %v", err)
	}
	if app.ID != "ap-0a1b2c3d" || app.Status != "New" {
		t.Errorf("unexpected response: %+v", app)
	}
}

func TestClientDecodesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"application not found","code":"not_found","error_code":2001}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).GetApplication(context.Background(), "ap-00000000")
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("err = %v (%T), want *APIError", err, err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Code != "not_found" || apiErr.ErrorCode != 2001 {
		t.Errorf("unexpected APIError: %+v", apiErr)
	}
}

func TestClientSendsAdminToken(t *testing.T) {
	t.Setenv("SUMPRO_ADMIN_TOKEN", "sekrit")
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).ListAdminUsers(context.Background()); err != nil {
		t.Fatalf("ListAdminUsers: %v", err)
	}
	if gotAuth != "Bearer sekrit" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}
