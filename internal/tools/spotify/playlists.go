package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// GetCurrentUserPlaylists lists the playlists owned or followed by the user.
func (c *Client) GetCurrentUserPlaylists(ctx context.Context, args map[string]any) (any, error) {
	limit := intArg(args, "limit", 20)
	if limit < 1 || limit > 50 {
		limit = 20
	}
	res, err := c.get(ctx, "/me/playlists", url.Values{"limit": {strconv.Itoa(limit)}})
	if err != nil {
		return nil, err
	}
	items := res.Get("items").Array()
	if len(items) == 0 {
		return "No playlists found.", nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, map[string]any{
			"id":     item.Get("id").String(),
			"name":   item.Get("name").String(),
			"owner":  item.Get("owner.display_name").String(),
			"tracks": item.Get("tracks.total").Int(),
			"public": item.Get("public").Bool(),
		})
	}
	return out, nil
}

// CreatePlaylist creates a playlist for the current user.
func (c *Client) CreatePlaylist(ctx context.Context, args map[string]any) (any, error) {
	name := stringArg(args, "name")
	if name == "" {
		return nil, errors.New("name is required")
	}

	me, err := c.get(ctx, "/me", nil)
	if err != nil {
		return nil, err
	}
	userID := me.Get("id").String()
	if userID == "" {
		return nil, errors.New("could not resolve current user id")
	}

	public := false
	if v, ok := args["public"].(bool); ok {
		public = v
	}
	body := map[string]any{
		"name":   name,
		"public": public,
	}
	if description := stringArg(args, "description"); description != "" {
		body["description"] = description
	}

	res, err := c.call(ctx, http.MethodPost, "/users/"+url.PathEscape(userID)+"/playlists", nil, body)
	if err != nil {
		return nil, err
	}
	return fmt.Sprintf("Created playlist %q (id %s).", res.Get("name").String(), res.Get("id").String()), nil
}

// AddItemToPlaylist appends track URIs to an existing playlist.
func (c *Client) AddItemToPlaylist(ctx context.Context, args map[string]any) (any, error) {
	playlistID := stringArg(args, "playlist_id")
	if playlistID == "" {
		return nil, errors.New("playlist_id is required")
	}
	uris := stringSliceArg(args, "uris")
	if uri := stringArg(args, "uri"); uri != "" {
		uris = append(uris, uri)
	}
	if len(uris) == 0 {
		return nil, errors.New("at least one track uri is required")
	}

	path := "/playlists/" + url.PathEscape(playlistID) + "/tracks"
	if _, err := c.call(ctx, http.MethodPost, path, nil, map[string]any{"uris": uris}); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Added %d item(s) to playlist.", len(uris)), nil
}

// GetPlaylist fetches one playlist's details.
func (c *Client) GetPlaylist(ctx context.Context, args map[string]any) (any, error) {
	playlistID := stringArg(args, "playlist_id")
	if playlistID == "" {
		return nil, errors.New("playlist_id is required")
	}
	res, err := c.get(ctx, "/playlists/"+url.PathEscape(playlistID), nil)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Playlist: %s\n", res.Get("name").String())
	if description := res.Get("description").String(); description != "" {
		fmt.Fprintf(&b, "Description: %s\n", description)
	}
	fmt.Fprintf(&b, "Owner: %s\n", res.Get("owner.display_name").String())
	fmt.Fprintf(&b, "Followers: %d\n", res.Get("followers.total").Int())
	fmt.Fprintf(&b, "Tracks: %d\n", res.Get("tracks.total").Int())
	fmt.Fprintf(&b, "Public: %s\n", yesNo(res.Get("public").Bool()))
	fmt.Fprintf(&b, "Collaborative: %s", yesNo(res.Get("collaborative").Bool()))
	return b.String(), nil
}

// ChangePlaylistDetails updates a playlist's name, description or visibility.
func (c *Client) ChangePlaylistDetails(ctx context.Context, args map[string]any) (any, error) {
	playlistID := stringArg(args, "playlist_id")
	if playlistID == "" {
		return nil, errors.New("playlist_id is required")
	}
	body := map[string]any{}
	if name := stringArg(args, "name"); name != "" {
		body["name"] = name
	}
	if description := stringArg(args, "description"); description != "" {
		body["description"] = description
	}
	if v, ok := args["public"].(bool); ok {
		body["public"] = v
	}
	if v, ok := args["collaborative"].(bool); ok {
		body["collaborative"] = v
	}
	if len(body) == 0 {
		return nil, errors.New("nothing to change: pass name, description, public or collaborative")
	}
	if _, err := c.call(ctx, http.MethodPut, "/playlists/"+url.PathEscape(playlistID), nil, body); err != nil {
		return nil, err
	}
	return "Playlist details updated.", nil
}

// RemovePlaylistItems removes every occurrence of the given tracks from a
// playlist.
func (c *Client) RemovePlaylistItems(ctx context.Context, args map[string]any) (any, error) {
	playlistID := stringArg(args, "playlist_id")
	if playlistID == "" {
		return nil, errors.New("playlist_id is required")
	}
	uris := stringSliceArg(args, "uris")
	if uri := stringArg(args, "uri"); uri != "" {
		uris = append(uris, uri)
	}
	if len(uris) == 0 {
		return nil, errors.New("at least one track uri is required")
	}

	tracks := make([]map[string]any, 0, len(uris))
	for _, uri := range uris {
		tracks = append(tracks, map[string]any{"uri": uri})
	}
	path := "/playlists/" + url.PathEscape(playlistID) + "/tracks"
	if _, err := c.call(ctx, http.MethodDelete, path, nil, map[string]any{"tracks": tracks}); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Removed %d item(s) from playlist.", len(uris)), nil
}

// GetUserPlaylists lists another user's public playlists.
func (c *Client) GetUserPlaylists(ctx context.Context, args map[string]any) (any, error) {
	userID := stringArg(args, "user_id")
	if userID == "" {
		return nil, errors.New("user_id is required")
	}
	limit := intArg(args, "limit", 20)
	if limit < 1 || limit > 50 {
		limit = 20
	}
	path := "/users/" + url.PathEscape(userID) + "/playlists"
	res, err := c.get(ctx, path, url.Values{"limit": {strconv.Itoa(limit)}})
	if err != nil {
		return nil, err
	}
	items := res.Get("items").Array()
	if len(items) == 0 {
		return "No playlists found.", nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, map[string]any{
			"id":     item.Get("id").String(),
			"name":   item.Get("name").String(),
			"owner":  item.Get("owner.display_name").String(),
			"tracks": item.Get("tracks.total").Int(),
			"public": item.Get("public").Bool(),
		})
	}
	return out, nil
}

// GetFeaturedPlaylists lists Spotify's featured playlists.
func (c *Client) GetFeaturedPlaylists(ctx context.Context, args map[string]any) (any, error) {
	limit := intArg(args, "limit", 10)
	if limit < 1 || limit > 50 {
		limit = 10
	}
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	if country := stringArg(args, "country"); country != "" {
		query.Set("country", country)
	}
	if locale := stringArg(args, "locale"); locale != "" {
		query.Set("locale", locale)
	}
	res, err := c.get(ctx, "/browse/featured-playlists", query)
	if err != nil {
		return nil, err
	}
	items := res.Get("playlists.items").Array()
	if len(items) == 0 {
		return "No featured playlists found.", nil
	}
	var b strings.Builder
	if message := res.Get("message").String(); message != "" {
		b.WriteString(message + "\n")
	}
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s by %s (id %s)\n",
			i+1,
			item.Get("name").String(),
			item.Get("owner.display_name").String(),
			item.Get("id").String())
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// GetPlaylistItems lists the tracks in a playlist.
func (c *Client) GetPlaylistItems(ctx context.Context, args map[string]any) (any, error) {
	playlistID := stringArg(args, "playlist_id")
	if playlistID == "" {
		return nil, errors.New("playlist_id is required")
	}
	limit := intArg(args, "limit", 50)
	if limit < 1 || limit > 100 {
		limit = 50
	}

	path := "/playlists/" + url.PathEscape(playlistID) + "/tracks"
	res, err := c.get(ctx, path, url.Values{"limit": {strconv.Itoa(limit)}})
	if err != nil {
		return nil, err
	}
	items := res.Get("items").Array()
	if len(items) == 0 {
		return "Playlist is empty.", nil
	}
	var b strings.Builder
	for i, item := range items {
		track := item.Get("track")
		fmt.Fprintf(&b, "%d. %s by %s\n   uri: %s\n",
			i+1,
			track.Get("name").String(),
			joinNames(track.Get("artists")),
			track.Get("uri").String())
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
