// Package search talks to the remote skill catalog. Used only by the
// interactive search flow; local discovery never touches the network.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// Result is one catalog entry from the remote index.
type Result struct {
	ID          string `json:"id"`
	Repo        string `json:"repo"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Installs    int    `json:"installs,omitempty"`
}

// Page is a single page of search results. NextPage is 0 on the last
// page.
type Page struct {
	Items    []Result `json:"items"`
	NextPage int      `json:"nextPage,omitempty"`
}

type searchResponse struct {
	Items         []Result `json:"items"`
	NextPage      int      `json:"nextPage"`
	MinCLIVersion string   `json:"minCliVersion,omitempty"`
}

// Client queries the catalog with bearer-token auth.
type Client struct {
	HTTP       *http.Client
	Endpoint   string
	Token      string
	CLIVersion string
}

func New(endpoint, token, cliVersion string) *Client {
	return &Client{
		HTTP:       &http.Client{Timeout: 30 * time.Second},
		Endpoint:   strings.TrimRight(endpoint, "/"),
		Token:      token,
		CLIVersion: cliVersion,
	}
}

// Search fetches one page of results for query. Pages start at 1.
func (c *Client) Search(ctx context.Context, query string, page int) (Page, error) {
	if strings.TrimSpace(query) == "" {
		return Page{}, fmt.Errorf("SRCH_QUERY: query is required")
	}
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("page", strconv.Itoa(page))
	endpoint := c.Endpoint + "/api/v1/skills?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Page{}, fmt.Errorf("SRCH_REQUEST: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	client := c.HTTP
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("SRCH_FETCH: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return Page{}, fmt.Errorf("SRCH_FETCH: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return Page{}, fmt.Errorf("SRCH_AUTH: catalog rejected credentials")
	}
	if resp.StatusCode != http.StatusOK {
		return Page{}, fmt.Errorf("SRCH_STATUS: catalog returned status %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return Page{}, fmt.Errorf("SRCH_DECODE: %w", err)
	}
	if err := c.checkMinVersion(payload.MinCLIVersion); err != nil {
		return Page{}, err
	}
	return Page{Items: payload.Items, NextPage: payload.NextPage}, nil
}

// checkMinVersion enforces a server-advertised minimum CLI version.
func (c *Client) checkMinVersion(min string) error {
	if min == "" || c.CLIVersion == "" {
		return nil
	}
	current := canonical(c.CLIVersion)
	required := canonical(min)
	if !semver.IsValid(current) || !semver.IsValid(required) {
		return nil
	}
	if semver.Compare(current, required) < 0 {
		return fmt.Errorf("SRCH_CLI_VERSION: catalog requires cli >= %s, have %s", min, c.CLIVersion)
	}
	return nil
}

func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
