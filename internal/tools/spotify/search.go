package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// SearchTrack searches the catalog for tracks matching a free-text query.
func (c *Client) SearchTrack(ctx context.Context, args map[string]any) (any, error) {
	query := stringArg(args, "query")
	if query == "" {
		return nil, errors.New("query is required")
	}
	limit := intArg(args, "limit", 5)
	if limit < 1 || limit > 50 {
		limit = 5
	}

	res, err := c.get(ctx, "/search", url.Values{
		"q":     {query},
		"type":  {"track"},
		"limit": {strconv.Itoa(limit)},
	})
	if err != nil {
		return nil, err
	}

	items := res.Get("tracks.items").Array()
	if len(items) == 0 {
		return "No tracks found for " + strconv.Quote(query) + ".", nil
	}
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s by %s (album: %s)\n   uri: %s\n",
			i+1,
			item.Get("name").String(),
			joinNames(item.Get("artists")),
			item.Get("album.name").String(),
			item.Get("uri").String())
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// GetTrack fetches one track by its Spotify ID.
func (c *Client) GetTrack(ctx context.Context, args map[string]any) (any, error) {
	trackID := stringArg(args, "track_id")
	if trackID == "" {
		return nil, errors.New("track_id is required")
	}
	res, err := c.get(ctx, "/tracks/"+url.PathEscape(trackID), nil)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"name":        res.Get("name").String(),
		"artists":     joinNames(res.Get("artists")),
		"album":       res.Get("album.name").String(),
		"duration":    formatDuration(res.Get("duration_ms").Int()),
		"uri":         res.Get("uri").String(),
		"popularity":  res.Get("popularity").Int(),
		"explicit":    res.Get("explicit").Bool(),
		"preview_url": res.Get("preview_url").String(),
	}, nil
}
