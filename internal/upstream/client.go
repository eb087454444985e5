// Package upstream talks to the AquaScope platform API: the inventory and
// alarm endpoints this service consumes. The API is treated as opaque; this
// client performs single request/response calls with no retry and no paging.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"aquascope/overview-go/internal/overview"
	"aquascope/overview-go/internal/session"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
}

// APIError is returned for any non-2xx upstream response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream: status %d: %s", e.Status, e.Body)
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

type deviceListResponse struct {
	Count   int               `json:"count"`
	Devices []overview.Device `json:"devices"`
}

type alarmSummaryResponse struct {
	ActiveCount int `json:"active_count"`
}

// ListNodeDevices fetches the devices under one organizational node.
func (c *Client) ListNodeDevices(ctx context.Context, sess session.Session, nodeID int64) ([]overview.Device, error) {
	path := "/api/v1/nodes/" + strconv.FormatInt(nodeID, 10) + "/devices"
	var resp deviceListResponse
	if err := c.getJSON(ctx, sess, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Devices, nil
}

// ListOrgDevices fetches every device visible to the session's organization.
func (c *Client) ListOrgDevices(ctx context.Context, sess session.Session) ([]overview.Device, error) {
	var resp deviceListResponse
	if err := c.getJSON(ctx, sess, "/api/v1/devices", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Devices, nil
}

// AlarmSummary fetches the active-alarm count, scoped to a node when nodeID is
// non-nil and to the whole organization otherwise.
func (c *Client) AlarmSummary(ctx context.Context, sess session.Session, nodeID *int64) (overview.AlarmSummary, error) {
	var query url.Values
	if nodeID != nil {
		query = url.Values{"node": []string{strconv.FormatInt(*nodeID, 10)}}
	}
	var resp alarmSummaryResponse
	if err := c.getJSON(ctx, sess, "/api/v1/alarms/summary", query, &resp); err != nil {
		return overview.AlarmSummary{}, err
	}
	return overview.AlarmSummary{ActiveCount: resp.ActiveCount}, nil
}

// Ping verifies the upstream API is reachable and the session is accepted.
func (c *Client) Ping(ctx context.Context, sess session.Session) error {
	var resp alarmSummaryResponse
	return c.getJSON(ctx, sess, "/api/v1/alarms/summary", nil, &resp)
}

func (c *Client) getJSON(ctx context.Context, sess session.Session, path string, query url.Values, dst any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Authorization", sess.Authorization())
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return &APIError{Status: res.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
