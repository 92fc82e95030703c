// Package selfupdate replaces the running binary with the latest
// released build.
package selfupdate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

type Manifest struct {
	Version  string `json:"version"`
	URL      string `json:"url"`
	Checksum string `json:"checksum"`
}

type Result struct {
	Version    string `json:"version"`
	Executable string `json:"executable"`
	Updated    bool   `json:"updated"`
}

type Service struct {
	client  *http.Client
	current string
}

func New(client *http.Client, currentVersion string) *Service {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Service{client: client, current: currentVersion}
}

// Update fetches the release manifest and swaps the binary when the
// published version is newer than the running one.
func (s *Service) Update(ctx context.Context) (Result, error) {
	manifest, err := s.fetchManifest(ctx, manifestURL())
	if err != nil {
		return Result{}, err
	}
	if manifest.URL == "" || manifest.Checksum == "" {
		return Result{}, fmt.Errorf("UPD_MANIFEST: incomplete manifest")
	}
	if !isNewer(manifest.Version, s.current) {
		return Result{Version: s.current, Updated: false}, nil
	}
	binary, err := s.fetch(ctx, manifest.URL)
	if err != nil {
		return Result{}, err
	}
	if err := verifyChecksum(binary, manifest.Checksum); err != nil {
		return Result{}, err
	}
	exe := os.Getenv("SKILLGET_SELF_UPDATE_TARGET")
	if exe == "" {
		exe, err = os.Executable()
		if err != nil {
			return Result{}, fmt.Errorf("UPD_EXEC: %w", err)
		}
	}
	if err := swapBinary(exe, binary); err != nil {
		return Result{}, err
	}
	return Result{Version: manifest.Version, Executable: exe, Updated: true}, nil
}

// isNewer compares release versions, tolerating a missing v prefix.
// Unparseable versions force the update through rather than blocking it.
func isNewer(published, current string) bool {
	p, c := canonical(published), canonical(current)
	if !semver.IsValid(p) || !semver.IsValid(c) {
		return true
	}
	return semver.Compare(p, c) > 0
}

func canonical(v string) string {
	if v == "" {
		return v
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

func manifestURL() string {
	if explicit := os.Getenv("SKILLGET_UPDATE_MANIFEST_URL"); explicit != "" {
		return explicit
	}
	base := os.Getenv("SKILLGET_UPDATE_MANIFEST_BASE")
	if base == "" {
		base = "https://github.com/skillget/skillget/releases/latest/download/"
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + fmt.Sprintf("manifest-%s-%s.json", runtime.GOOS, runtime.GOARCH)
}

func (s *Service) fetchManifest(ctx context.Context, url string) (Manifest, error) {
	body, err := s.fetch(ctx, url)
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := json.Unmarshal(body, &m); err != nil {
		return Manifest{}, fmt.Errorf("UPD_MANIFEST: %w", err)
	}
	return m, nil
}

func (s *Service) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("UPD_FETCH: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("UPD_FETCH: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("UPD_FETCH: status %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 256<<20))
}

func verifyChecksum(binary []byte, expected string) error {
	expected = strings.TrimPrefix(expected, "sha256:")
	sum := sha256.Sum256(binary)
	if hex.EncodeToString(sum[:]) != strings.ToLower(expected) {
		return fmt.Errorf("UPD_CHECKSUM: downloaded binary does not match manifest")
	}
	return nil
}

func swapBinary(exe string, binary []byte) error {
	tmp := exe + ".new"
	if err := os.WriteFile(tmp, binary, 0o755); err != nil {
		return fmt.Errorf("UPD_SWAP: %w", err)
	}
	if err := os.Rename(tmp, exe); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("UPD_SWAP: %w", err)
	}
	return nil
}
