// Package spotify exposes Spotify playback, search and playlist control as
// assistant capabilities over the Spotify Web API.
package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Client is a thin wrapper over the Spotify Web API. Authentication is
// external: the caller supplies a ready access token.
type Client struct {
	log             *slog.Logger
	baseURL         string
	accessToken     string
	defaultDeviceID string
	httpClient      *http.Client
}

type Options struct {
	Log             *slog.Logger
	BaseURL         string
	AccessToken     string
	DefaultDeviceID string
	HTTPClient      *http.Client
}

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.AccessToken) == "" {
		return nil, errors.New("missing spotify access token")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.spotify.com/v1"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		log:             opts.Log,
		baseURL:         baseURL,
		accessToken:     strings.TrimSpace(opts.AccessToken),
		defaultDeviceID: strings.TrimSpace(opts.DefaultDeviceID),
		httpClient:      httpClient,
	}, nil
}

// call performs one API request and returns the parsed response body.
// Spotify player commands answer 204 with no body; that parses as an empty
// result.
func (c *Client) call(ctx context.Context, method string, path string, query url.Values, body any) (gjson.Result, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return gjson.Result{}, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return gjson.Result{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return gjson.Result{}, err
	}

	if resp.StatusCode >= 400 {
		msg := gjson.GetBytes(raw, "error.message").String()
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		if msg == "" {
			msg = resp.Status
		}
		return gjson.Result{}, fmt.Errorf("spotify api %s %s: %s", method, path, msg)
	}

	if c.log != nil {
		c.log.Debug("spotify api call", "method", method, "path", path, "status", resp.StatusCode)
	}
	return gjson.ParseBytes(raw), nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (gjson.Result, error) {
	return c.call(ctx, http.MethodGet, path, query, nil)
}

// deviceID resolves an explicit argument against the configured default.
func (c *Client) deviceID(args map[string]any) string {
	if id := stringArg(args, "device_id"); id != "" {
		return id
	}
	return c.defaultDeviceID
}

func stringArg(args map[string]any, key string) string {
	if args == nil {
		return ""
	}
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}

func intArg(args map[string]any, key string, fallback int) int {
	if args == nil {
		return fallback
	}
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}

func stringSliceArg(args map[string]any, key string) []string {
	if args == nil {
		return nil
	}
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, it := range raw {
		if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func formatDuration(ms int64) string {
	return fmt.Sprintf("%d:%02d", ms/60000, (ms/1000)%60)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func onOff(b bool) string {
	if b {
		return "On"
	}
	return "Off"
}
