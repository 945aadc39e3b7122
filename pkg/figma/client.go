package figma

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Version is the current version of the figma-prototype module.
const Version = "0.2.0"

const (
	figmaAPIBase = "https://api.figma.com/v1"
	maxRetries   = 3
)

// Client represents a Figma API client with configured HTTP settings for reliable communication
// with the Figma API. It includes retry logic and optimized transport settings for handling large files.
type Client struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
	backoff     time.Duration
}

// NewClient creates a new Figma API client with the provided personal access token.
// The client is configured with connection pooling, disabled HTTP/2 (for large file stability),
// and a 10-minute timeout for very large files.
func NewClient(accessToken string) *Client {
	transport := &http.Transport{
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 10,
		// Disable HTTP/2 to avoid stream errors with large files
		ForceAttemptHTTP2: false,
	}

	return &Client{
		accessToken: accessToken,
		baseURL:     figmaAPIBase,
		httpClient: &http.Client{
			Timeout:   10 * time.Minute,
			Transport: transport,
		},
		backoff: 2 * time.Second,
	}
}

// SetBaseURL points the client to a different API root, e.g. a test server.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
}

// ExtractFileKey extracts the unique file identifier from a Figma URL.
// Supports both /file/ and /design/ URL patterns (e.g., figma.com/file/ABC123/Design-Name).
func ExtractFileKey(figmaURL string) (string, error) {
	// Anchored to ensure the entire URL matches the expected pattern and prevent bypass attacks.
	re := regexp.MustCompile(`^https?://(?:www\.)?figma\.com/(?:file|design|proto)/([A-Za-z0-9]+)(?:/|$|\?)`)
	matches := re.FindStringSubmatch(figmaURL)

	if len(matches) < 2 {
		return "", fmt.Errorf("invalid Figma URL format: must be a valid figma.com URL with /file/, /design/ or /proto/ path")
	}

	return matches[1], nil
}

var (
	hashNodesRe = regexp.MustCompile(`#([0-9]+[:-][0-9]+(?:,\s*[0-9]+[:-][0-9]+)*)$`)
	pathNodesRe = regexp.MustCompile(`/nodes/([0-9:,\-\s]+)$`)
)

// ExtractNodeIDs returns the node IDs referenced by a Figma URL, read from the
// node-id query parameter, a trailing #id fragment or a /nodes/ path segment.
// IDs are normalized with NormalizeNodeID and duplicates are removed.
func ExtractNodeIDs(figmaURL string) ([]string, error) {
	var raw string

	if u, err := url.Parse(figmaURL); err == nil {
		raw = u.Query().Get("node-id")
	}
	if raw == "" {
		if m := hashNodesRe.FindStringSubmatch(figmaURL); len(m) == 2 {
			raw = m[1]
		} else if m := pathNodesRe.FindStringSubmatch(figmaURL); len(m) == 2 {
			raw = m[1]
		}
	}

	ids := []string{}
	for _, part := range strings.Split(raw, ",") {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		ids = append(ids, NormalizeNodeID(id))
	}

	return deduplicateNodeIDs(ids), nil
}

// NormalizeNodeID converts the dashed form used in URLs ("12-34") to the
// colon form of the API ("12:34"). Only the first dash is replaced.
func NormalizeNodeID(id string) string {
	return strings.Replace(id, "-", ":", 1)
}

func deduplicateNodeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

// GetFile retrieves complete file data from the Figma API including the document tree with prototype reactions.
// Requests are retried up to 3 times on 429 (rate limit) and 5xx (server error) responses.
func (c *Client) GetFile(ctx context.Context, fileKey string) (*FileResponse, error) {
	endpoint := fmt.Sprintf("%s/files/%s", c.baseURL, url.PathEscape(fileKey))

	var fileResp FileResponse
	if err := c.getJSON(ctx, endpoint, &fileResp); err != nil {
		return nil, err
	}

	return &fileResp, nil
}

// GetImages asks Figma to render the given nodes and returns the temporary image URLs.
// Format is one of png, jpg, svg or pdf.
func (c *Client) GetImages(ctx context.Context, fileKey string, nodeIDs []string, format string, scale float64, contentsOnly bool) (*ImagesResponse, error) {
	q := url.Values{}
	q.Set("ids", strings.Join(nodeIDs, ","))
	q.Set("format", strings.ToLower(format))
	q.Set("scale", strconv.FormatFloat(scale, 'g', -1, 64))
	q.Set("contents_only", strconv.FormatBool(contentsOnly))

	endpoint := fmt.Sprintf("%s/images/%s?%s", c.baseURL, url.PathEscape(fileKey), q.Encode())

	var imgResp ImagesResponse
	if err := c.getJSON(ctx, endpoint, &imgResp); err != nil {
		return nil, err
	}
	if imgResp.Err != "" {
		return nil, fmt.Errorf("render failed: %s", imgResp.Err)
	}

	return &imgResp, nil
}

// Download fetches the bytes behind an image URL returned by GetImages.
// Image URLs are pre-signed, so no token is sent.
func (c *Client) Download(ctx context.Context, imageURL string) ([]byte, error) {
	return c.get(ctx, imageURL, false)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	body, err := c.get(ctx, endpoint, true)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// get performs a GET request with retry and backoff on transport errors, 429 and 5xx responses.
func (c *Client) get(ctx context.Context, endpoint string, authenticated bool) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		if authenticated {
			req.Header.Set("X-Figma-Token", c.accessToken)
		}

		body, retry, err := c.do(req)
		if err == nil {
			return body, nil
		}

		lastErr = fmt.Errorf("attempt %d: %w", attempt, err)
		if !retry || attempt == maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * c.backoff):
		}
	}

	return nil, lastErr
}

func (c *Client) do(req *http.Request) (body []byte, retry bool, err error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, req.Context().Err() == nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		retry = resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retry, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(msg))
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, false, nil
}
