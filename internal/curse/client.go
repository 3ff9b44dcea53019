package curse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://api.curseforge.com/v1"

// userAgent identifies this client to the CurseForge API, which requires a
// descriptive User-Agent on every request.
const userAgent = "cfsync/1.0 (+https://github.com/kestrelmods/cfsync)"

// Client is a read-only CurseForge v1 API client. All operations are
// single-shot queries: no retries, failures surface immediately as *APIError.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Logger
}

// Options configures a Client.
type Options struct {
	APIKey  string
	BaseURL string        // defaults to the public v1 API
	Timeout time.Duration // defaults to 30s
	Logger  *logrus.Logger
}

// NewClient creates a CurseForge API client that sends the API key and
// User-Agent headers on every request.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
		opts.Logger.SetLevel(logrus.WarnLevel)
	}

	return &Client{
		baseURL: opts.BaseURL,
		http: &http.Client{
			Timeout: opts.Timeout,
			Transport: &headerTransport{
				apiKey: opts.APIKey,
				base:   http.DefaultTransport,
			},
		},
		log: opts.Logger,
	}
}

// headerTransport is an http.RoundTripper that adds the CurseForge
// authentication and identification headers.
type headerTransport struct {
	apiKey string
	base   http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid mutating the original
	r := req.Clone(req.Context())
	r.Header.Set("x-api-key", t.apiKey)
	r.Header.Set("Accept", "application/json")
	r.Header.Set("User-Agent", userAgent)
	return t.base.RoundTrip(r)
}

// getJSON issues a GET against path (with optional query parameters) and
// decodes the body into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	c.log.WithField("url", u).Debug("catalog request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &APIError{Kind: KindTransport, URL: u, Message: "building request", Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Kind: KindTransport, URL: u, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Read a little of the body for the message; it is best-effort.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{
			Kind:    kindForStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			URL:     u,
			Message: string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Kind: KindProtocol, Status: resp.StatusCode, URL: u, Message: "decoding response body", Err: err}
	}

	return nil
}

// Mod fetches basic information about a mod.
func (c *Client) Mod(ctx context.Context, modID int) (*Mod, error) {
	var resp modResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/mods/%d", modID), nil, &resp); err != nil {
		return nil, err
	}
	c.log.WithFields(logrus.Fields{
		"mod":    resp.Data.Name,
		"author": resp.Data.AuthorName(),
	}).Debug("fetched mod info")
	return &resp.Data, nil
}

// FileFilters narrows a file listing. Zero values mean "no filter".
type FileFilters struct {
	GameVersion string
	ModLoader   string
}

// ModFiles lists the files published for a mod. A mod with zero files
// yields an empty slice, not an error.
func (c *Client) ModFiles(ctx context.Context, modID int, filters FileFilters) ([]File, error) {
	query := url.Values{}
	if filters.GameVersion != "" {
		query.Set("gameVersion", filters.GameVersion)
	}
	if filters.ModLoader != "" {
		query.Set("modLoaderType", filters.ModLoader)
	}

	var resp filesResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/mods/%d/files", modID), query, &resp); err != nil {
		return nil, err
	}

	if resp.Pagination.TotalCount > resp.Pagination.ResultCount {
		c.log.WithFields(logrus.Fields{
			"results": resp.Pagination.ResultCount,
			"total":   resp.Pagination.TotalCount,
		}).Debug("file listing is paginated; later pages not fetched")
	}

	return resp.Data, nil
}

// ModFile fetches a single file record, typically to resolve a
// serverPackFileId reference into its full record.
func (c *Client) ModFile(ctx context.Context, modID, fileID int) (*File, error) {
	var resp fileResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/mods/%d/files/%d", modID, fileID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// ValidateKey checks the configured API key by fetching game info.
// It returns nil when the key is accepted.
func (c *Client) ValidateKey(ctx context.Context, gameID int) error {
	var resp struct {
		Data struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	return c.getJSON(ctx, fmt.Sprintf("/games/%d", gameID), nil, &resp)
}

// Download opens a streaming reader for a file's download URL. The caller
// must close the returned body. Download URLs point at the CurseForge CDN,
// so the request goes through the same header-injecting client.
func (c *Client) Download(ctx context.Context, downloadURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, &APIError{Kind: KindTransport, URL: downloadURL, Message: "building request", Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Kind: KindTransport, URL: downloadURL, Message: err.Error(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &APIError{
			Kind:    kindForStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			URL:     downloadURL,
			Message: "download request rejected",
		}
	}

	return resp.Body, nil
}
