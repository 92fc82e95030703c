package selfupdate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestUpdateSwapsBinaryWhenNewer(t *testing.T) {
	payload := []byte("#!/bin/sh\necho v2\n")
	sum := sha256.Sum256(payload)

	mux := http.NewServeMux()
	mux.HandleFunc("/binary", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(payload)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	mux.HandleFunc("/manifest.json", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(Manifest{
			Version:  "2.0.0",
			URL:      srv.URL + "/binary",
			Checksum: "sha256:" + hex.EncodeToString(sum[:]),
		})
	})

	target := filepath.Join(t.TempDir(), "skillget")
	if err := os.WriteFile(target, []byte("old"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SKILLGET_UPDATE_MANIFEST_URL", srv.URL+"/manifest.json")
	t.Setenv("SKILLGET_SELF_UPDATE_TARGET", target)

	res, err := New(srv.Client(), "1.0.0").Update(context.Background())
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !res.Updated || res.Version != "2.0.0" {
		t.Fatalf("unexpected result: %+v", res)
	}
	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(payload) {
		t.Fatalf("binary not swapped")
	}
}

func TestUpdateSkipsWhenCurrentIsLatest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(Manifest{Version: "1.0.0", URL: "http://x/bin", Checksum: "sha256:aa"})
	}))
	defer srv.Close()
	t.Setenv("SKILLGET_UPDATE_MANIFEST_URL", srv.URL)

	res, err := New(srv.Client(), "1.0.0").Update(context.Background())
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if res.Updated {
		t.Fatalf("expected no-op when already current, got %+v", res)
	}
}

func TestUpdateRejectsChecksumMismatch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/binary", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("tampered"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	mux.HandleFunc("/manifest.json", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(Manifest{
			Version:  "9.9.9",
			URL:      srv.URL + "/binary",
			Checksum: "sha256:" + strings.Repeat("ab", 32),
		})
	})
	t.Setenv("SKILLGET_UPDATE_MANIFEST_URL", srv.URL+"/manifest.json")
	t.Setenv("SKILLGET_SELF_UPDATE_TARGET", filepath.Join(t.TempDir(), "skillget"))

	if _, err := New(srv.Client(), "1.0.0").Update(context.Background()); err == nil || !strings.Contains(err.Error(), "UPD_CHECKSUM") {
		t.Fatalf("expected UPD_CHECKSUM error, got %v", err)
	}
}

func TestIsNewer(t *testing.T) {
	cases := []struct {
		published, current string
		want               bool
	}{
		{"2.0.0", "1.0.0", true},
		{"1.0.0", "1.0.0", false},
		{"1.0.0", "2.0.0", false},
		{"v1.2.0", "1.1.9", true},
		{"garbage", "1.0.0", true},
	}
	for _, tc := range cases {
		if got := isNewer(tc.published, tc.current); got != tc.want {
			t.Fatalf("isNewer(%q, %q) = %v, want %v", tc.published, tc.current, got, tc.want)
		}
	}
}
