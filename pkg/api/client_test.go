package api

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "episode.mp3")
	if err := os.WriteFile(path, []byte("fake-mp3-bytes"), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestUploadAndStart_SendsMultipartForm(t *testing.T) {
	var gotAuth, gotPreset, gotTitle, gotAction, gotFilename string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("failed to parse multipart form: %v", err)
		}
		gotPreset = r.FormValue("preset")
		gotTitle = r.FormValue("title")
		gotAction = r.FormValue("action")
		if f, header, err := r.FormFile("input_file"); err == nil {
			gotFilename = header.Filename
			f.Close()
		} else {
			t.Errorf("missing input_file part: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status_code":200,"error_code":null,"data":{"uuid":"prod-1","status":0,"status_string":"File Upload"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	prod, err := client.UploadAndStart(writeTempAudio(t), "preset-9", "My Episode")
	if err != nil {
		t.Fatalf("UploadAndStart returned error: %v", err)
	}

	if prod.UUID != "prod-1" {
		t.Errorf("production uuid = %q, want %q", prod.UUID, "prod-1")
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotPreset != "preset-9" || gotTitle != "My Episode" || gotAction != "start" {
		t.Errorf("form fields = (%q, %q, %q), want (preset-9, My Episode, start)", gotPreset, gotTitle, gotAction)
	}
	if gotFilename != "episode.mp3" {
		t.Errorf("uploaded filename = %q, want episode.mp3", gotFilename)
	}
}

func TestUploadAndStart_ApplicationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status_code":200,"error_code":"invalid_preset","error_message":"Preset not found","data":null}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	_, err := client.UploadAndStart(writeTempAudio(t), "bogus", "t")
	if err == nil {
		t.Fatal("expected error for application-level failure, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if !strings.Contains(apiErr.Message, "Preset not found") {
		t.Errorf("error message = %q, want service message", apiErr.Message)
	}
}

func TestUploadAndStart_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("invalid token"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-key")
	_, err := client.UploadAndStart(writeTempAudio(t), "p", "t")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", apiErr.StatusCode)
	}
}

func TestGetProduction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/production/prod-1.json" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status_code":200,"error_code":null,"data":{"uuid":"prod-1","status":3,"status_string":"Done"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	prod, err := client.GetProduction("prod-1")
	if err != nil {
		t.Fatalf("GetProduction returned error: %v", err)
	}
	if prod.Status != 3 || prod.StatusString != "Done" {
		t.Errorf("unexpected production: %+v", prod)
	}
}

func TestListPresets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/presets.json" || r.URL.Query().Get("minimal_data") != "1" {
			t.Errorf("unexpected request %q", r.URL.String())
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status_code":200,"error_code":null,"data":[
			{"uuid":"p1","preset_name":"Podcast Stereo","creation_time":"2025-04-01T10:00:00","is_multitrack":false},
			{"uuid":"p2","preset_name":"","creation_time":"","is_multitrack":true}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	presets, err := client.ListPresets()
	if err != nil {
		t.Fatalf("ListPresets returned error: %v", err)
	}
	if len(presets) != 2 {
		t.Fatalf("got %d presets, want 2", len(presets))
	}
	if presets[0].Name != "Podcast Stereo" || presets[0].Created != "2025-04-01" {
		t.Errorf("unexpected preset: %+v", presets[0])
	}
	if presets[1].Name != "Untitled" || !presets[1].IsMultitrack {
		t.Errorf("unexpected preset: %+v", presets[1])
	}
}

func TestDownloadFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token on download")
		}
		w.Write([]byte("audio-bytes"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	var buf bytes.Buffer
	if err := client.DownloadFile(server.URL+"/download/out.mp3", &buf); err != nil {
		t.Fatalf("DownloadFile returned error: %v", err)
	}
	if buf.String() != "audio-bytes" {
		t.Errorf("downloaded %q, want %q", buf.String(), "audio-bytes")
	}
}

func TestDownloadFile_Non200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	var buf bytes.Buffer
	err := client.DownloadFile(server.URL+"/gone", &buf)

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 APIError, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no bytes written on failure, got %d", buf.Len())
	}
}
