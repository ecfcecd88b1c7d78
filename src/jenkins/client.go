// Package jenkins provides a client for the Jenkins JSON API.
package jenkins

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"buildbeacon-agent/src/provider"
)

// ErrNotFound is returned for 404 responses; callers decide what a missing resource means.
var ErrNotFound = errors.New("resource not found")

const (
	executableFields = "displayName,url,timestamp,building"
	computerTree     = "displayName,offline,executors[currentExecutable[" + executableFields + "]],oneOffExecutors[currentExecutable[" + executableFields + "]]"
	viewTree         = "jobs[name,lastCompletedBuild[number,displayName,result,url,timestamp,duration]]"
)

// Client is a Jenkins API client.
type Client struct {
	baseURL    string
	basePath   string
	user       string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new Jenkins API client. address may be host[:port] or a
// full URL. requestsPerSecond <= 0 disables client-side throttling.
func NewClient(address, user, token string, requestsPerSecond float64) *Client {
	base := strings.TrimRight(strings.TrimSpace(address), "/")
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}

	basePath := ""
	if u, err := url.Parse(base); err == nil {
		basePath = strings.TrimRight(u.Path, "/")
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if requestsPerSecond > 0 {
		burst := int(requestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}

	return &Client{
		baseURL:  base,
		basePath: basePath,
		user:     user,
		token:    token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: limiter,
	}
}

// BaseURL returns the normalised server URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetComputer fetches a node's online state and executors.
func (c *Client) GetComputer(ctx context.Context, name string) (*Computer, error) {
	endpoint := fmt.Sprintf("%s/computer/%s/api/json?%s", c.baseURL, url.PathEscape(name), treeQuery(computerTree))

	var computer Computer
	if err := c.getJSON(ctx, endpoint, &computer); err != nil {
		return nil, err
	}
	return &computer, nil
}

// GetWorkflowRun fetches the stage description of a pipeline build. The build URL
// as handed out by the server may carry a different host than the one this client
// talks to, so only its path is used.
func (c *Client) GetWorkflowRun(ctx context.Context, buildURL string) (*WorkflowRun, error) {
	path, err := c.buildPath(buildURL)
	if err != nil {
		return nil, err
	}

	var run WorkflowRun
	if err := c.getJSON(ctx, c.baseURL+path+"wfapi/describe", &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// GetViewJobs fetches every job of a view with its last completed build in one
// request. An empty view name queries the server's root listing.
func (c *Client) GetViewJobs(ctx context.Context, view string) ([]Job, error) {
	endpoint := c.baseURL
	if view != "" {
		endpoint += "/view/" + url.PathEscape(view)
	}
	endpoint += "/api/json?" + treeQuery(viewTree)

	var v View
	if err := c.getJSON(ctx, endpoint, &v); err != nil {
		return nil, err
	}
	return v.Jobs, nil
}

// buildPath turns an absolute or relative build URL into a path below the
// client's base URL, ending in "/".
func (c *Client) buildPath(buildURL string) (string, error) {
	u, err := url.Parse(buildURL)
	if err != nil {
		return "", fmt.Errorf("invalid build URL %q: %w", buildURL, err)
	}

	path := u.Path
	if c.basePath != "" {
		path = strings.TrimPrefix(path, c.basePath)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return path, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if c.user != "" || c.token != "" {
		req.SetBasicAuth(c.user, c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return fmt.Errorf("%w: %w", provider.ErrNetworkTimeout, err)
		}
		return fmt.Errorf("%w: %w", provider.ErrServerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return statusError(resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func statusError(code int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", provider.ErrAuthFailed, code)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: status %d", ErrNotFound, code)
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", provider.ErrRateLimited, code)
	case code >= 500:
		return fmt.Errorf("%w: status %d: %s", provider.ErrServerUnavailable, code, msg)
	}
	return fmt.Errorf("API request failed with status %d: %s", code, msg)
}

func treeQuery(tree string) string {
	return url.Values{"tree": {tree}}.Encode()
}
