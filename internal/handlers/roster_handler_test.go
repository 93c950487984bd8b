package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseRosterRequestJSON(t *testing.T) {
	body := `{"event_id": 3, "csv": "first_name,last_name\nAnna,Lee\n", "replace": true, "preserve_rsvp": true}`
	r := httptest.NewRequest("POST", "/api/admin/roster/upload", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	req, err := parseRosterRequest(r)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if req.EventID != 3 || !req.Replace || !req.PreserveRSVP {
		t.Fatalf("unexpected request: %+v", req)
	}
	if !strings.Contains(req.CSV, "Anna,Lee") {
		t.Fatalf("csv content lost: %q", req.CSV)
	}
}

func TestParseRosterRequestMultipart(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "roster.csv")
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("first_name,last_name\nSue,Park\n"))
	w.WriteField("event_id", "7")
	w.WriteField("replace", "true")
	w.Close()

	r := httptest.NewRequest("POST", "/api/admin/roster/upload", &buf)
	r.Header.Set("Content-Type", w.FormDataContentType())

	req, err := parseRosterRequest(r)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if req.EventID != 7 || !req.Replace || req.PreserveRSVP {
		t.Fatalf("unexpected request: %+v", req)
	}
	if !strings.Contains(req.CSV, "Sue,Park") {
		t.Fatalf("csv content lost: %q", req.CSV)
	}
}

func TestParseRosterRequestMultipartMissingEventID(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, _ := w.CreateFormFile("file", "roster.csv")
	part.Write([]byte("first_name,last_name\n"))
	w.Close()

	r := httptest.NewRequest("POST", "/api/admin/roster/upload", &buf)
	r.Header.Set("Content-Type", w.FormDataContentType())

	if _, err := parseRosterRequest(r); err == nil {
		t.Fatal("expected error for missing event_id")
	}
}
