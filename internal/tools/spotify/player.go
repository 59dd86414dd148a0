package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
	"github.com/tidwall/gjson"
)

// FetchPlaybackState reports the current playback as a readable summary.
func (c *Client) FetchPlaybackState(ctx context.Context, args map[string]any) (any, error) {
	state, err := c.get(ctx, "/me/player", nil)
	if err != nil {
		return nil, err
	}
	if !state.Exists() || state.Raw == "" {
		return "No active playback.", nil
	}

	var b strings.Builder
	item := state.Get("item")
	if item.Exists() {
		artists := joinNames(item.Get("artists"))
		fmt.Fprintf(&b, "Now playing: %s by %s\n", item.Get("name").String(), artists)
		fmt.Fprintf(&b, "Album: %s\n", item.Get("album.name").String())
		fmt.Fprintf(&b, "Progress: %s / %s\n",
			formatDuration(state.Get("progress_ms").Int()),
			formatDuration(item.Get("duration_ms").Int()))
	}
	fmt.Fprintf(&b, "Playing: %s\n", yesNo(state.Get("is_playing").Bool()))
	fmt.Fprintf(&b, "Shuffle: %s\n", onOff(state.Get("shuffle_state").Bool()))
	fmt.Fprintf(&b, "Repeat: %s\n", state.Get("repeat_state").String())
	device := state.Get("device")
	if device.Exists() {
		fmt.Fprintf(&b, "Device: %s (%s), volume %d%%",
			device.Get("name").String(),
			device.Get("type").String(),
			device.Get("volume_percent").Int())
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// FetchAvailableDevices lists the devices registered with Spotify Connect.
func (c *Client) FetchAvailableDevices(ctx context.Context, args map[string]any) (any, error) {
	res, err := c.get(ctx, "/me/player/devices", nil)
	if err != nil {
		return nil, err
	}
	devices := res.Get("devices").Array()
	if len(devices) == 0 {
		return "No devices available.", nil
	}
	out := make([]map[string]any, 0, len(devices))
	for _, d := range devices {
		out = append(out, map[string]any{
			"id":             d.Get("id").String(),
			"name":           d.Get("name").String(),
			"type":           d.Get("type").String(),
			"is_active":      d.Get("is_active").Bool(),
			"volume_percent": d.Get("volume_percent").Int(),
		})
	}
	return out, nil
}

// TransferPlayback moves playback to another device.
func (c *Client) TransferPlayback(ctx context.Context, args map[string]any) (any, error) {
	deviceID := c.deviceID(args)
	if deviceID == "" {
		return nil, errors.New("device_id is required and no default device is configured")
	}
	body := map[string]any{
		"device_ids": []string{deviceID},
		"play":       true,
	}
	if _, err := c.call(ctx, http.MethodPut, "/me/player", nil, body); err != nil {
		return nil, err
	}
	return "Playback transferred to device " + deviceID + ".", nil
}

// StartPlayback resumes playback, optionally with explicit track URIs or a
// context URI (album, playlist, artist).
func (c *Client) StartPlayback(ctx context.Context, args map[string]any) (any, error) {
	query := url.Values{}
	if deviceID := c.deviceID(args); deviceID != "" {
		query.Set("device_id", deviceID)
	}
	body := map[string]any{}
	if uris := stringSliceArg(args, "uris"); len(uris) > 0 {
		body["uris"] = uris
	}
	if contextURI := stringArg(args, "context_uri"); contextURI != "" {
		body["context_uri"] = contextURI
	}
	var payload any
	if len(body) > 0 {
		payload = body
	}
	if _, err := c.call(ctx, http.MethodPut, "/me/player/play", query, payload); err != nil {
		return nil, err
	}
	return "Playback started.", nil
}

// PausePlayback pauses the active device.
func (c *Client) PausePlayback(ctx context.Context, args map[string]any) (any, error) {
	if _, err := c.call(ctx, http.MethodPut, "/me/player/pause", nil, nil); err != nil {
		return nil, err
	}
	return "Playback paused.", nil
}

// SkipToNext advances to the next item in the queue.
func (c *Client) SkipToNext(ctx context.Context, args map[string]any) (any, error) {
	if _, err := c.call(ctx, http.MethodPost, "/me/player/next", nil, nil); err != nil {
		return nil, err
	}
	return "Skipped to next track.", nil
}

// SkipToPrevious returns to the previous item.
func (c *Client) SkipToPrevious(ctx context.Context, args map[string]any) (any, error) {
	if _, err := c.call(ctx, http.MethodPost, "/me/player/previous", nil, nil); err != nil {
		return nil, err
	}
	return "Skipped to previous track.", nil
}

// SetPlaybackVolume sets the device volume, clamped to 0..100.
func (c *Client) SetPlaybackVolume(ctx context.Context, args map[string]any) (any, error) {
	volume := intArg(args, "volume_percent", -1)
	if volume < 0 || volume > 100 {
		return nil, fmt.Errorf("volume_percent must be between 0 and 100, got %d", volume)
	}
	query := url.Values{"volume_percent": {strconv.Itoa(volume)}}
	if deviceID := c.deviceID(args); deviceID != "" {
		query.Set("device_id", deviceID)
	}
	if _, err := c.call(ctx, http.MethodPut, "/me/player/volume", query, nil); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Volume set to %d%%.", volume), nil
}

// AddItemToPlaybackQueue queues a track or episode by URI.
func (c *Client) AddItemToPlaybackQueue(ctx context.Context, args map[string]any) (any, error) {
	uri := stringArg(args, "uri")
	if uri == "" {
		return nil, errors.New("uri is required")
	}
	query := url.Values{"uri": {uri}}
	if deviceID := c.deviceID(args); deviceID != "" {
		query.Set("device_id", deviceID)
	}
	if _, err := c.call(ctx, http.MethodPost, "/me/player/queue", query, nil); err != nil {
		return nil, err
	}
	return "Added to queue.", nil
}

// GetUserQueue returns the currently playing item and the upcoming queue.
func (c *Client) GetUserQueue(ctx context.Context, args map[string]any) (any, error) {
	res, err := c.get(ctx, "/me/player/queue", nil)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	current := res.Get("currently_playing")
	if current.Exists() && current.Get("name").String() != "" {
		fmt.Fprintf(&b, "Currently playing: %s by %s\n", current.Get("name").String(), joinNames(current.Get("artists")))
	}
	queue := res.Get("queue").Array()
	if len(queue) == 0 {
		b.WriteString("Queue is empty.")
		return strings.TrimRight(b.String(), "\n"), nil
	}
	b.WriteString("Up next:\n")
	for i, item := range queue {
		fmt.Fprintf(&b, "%d. %s by %s\n", i+1, item.Get("name").String(), joinNames(item.Get("artists")))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// SeekToPosition seeks within the currently playing track.
func (c *Client) SeekToPosition(ctx context.Context, args map[string]any) (any, error) {
	position := intArg(args, "position_ms", -1)
	if position < 0 {
		return nil, errors.New("position_ms is required and must not be negative")
	}
	query := url.Values{"position_ms": {strconv.Itoa(position)}}
	if deviceID := c.deviceID(args); deviceID != "" {
		query.Set("device_id", deviceID)
	}
	if _, err := c.call(ctx, http.MethodPut, "/me/player/seek", query, nil); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Seeked to %s in the current track.", formatDuration(int64(position))), nil
}

// SetRepeatMode sets repeat to track, context or off.
func (c *Client) SetRepeatMode(ctx context.Context, args map[string]any) (any, error) {
	state := stringArg(args, "state")
	switch state {
	case "track", "context", "off":
	default:
		return nil, fmt.Errorf("state must be track, context or off, got %q", state)
	}
	query := url.Values{"state": {state}}
	if deviceID := c.deviceID(args); deviceID != "" {
		query.Set("device_id", deviceID)
	}
	if _, err := c.call(ctx, http.MethodPut, "/me/player/repeat", query, nil); err != nil {
		return nil, err
	}
	return "Repeat mode set to " + state + ".", nil
}

// TogglePlaylistShuffle turns shuffle on or off.
func (c *Client) TogglePlaylistShuffle(ctx context.Context, args map[string]any) (any, error) {
	state, ok := args["state"].(bool)
	if !ok {
		return nil, errors.New("state is required and must be a boolean")
	}
	query := url.Values{"state": {strconv.FormatBool(state)}}
	if deviceID := c.deviceID(args); deviceID != "" {
		query.Set("device_id", deviceID)
	}
	if _, err := c.call(ctx, http.MethodPut, "/me/player/shuffle", query, nil); err != nil {
		return nil, err
	}
	return "Shuffle turned " + strings.ToLower(onOff(state)) + ".", nil
}

// GetRecentlyPlayedTracks lists the user's listening history, newest first.
func (c *Client) GetRecentlyPlayedTracks(ctx context.Context, args map[string]any) (any, error) {
	limit := intArg(args, "limit", 20)
	if limit < 1 || limit > 50 {
		limit = 20
	}
	res, err := c.get(ctx, "/me/player/recently-played", url.Values{"limit": {strconv.Itoa(limit)}})
	if err != nil {
		return nil, err
	}
	items := res.Get("items").Array()
	if len(items) == 0 {
		return "No recently played tracks.", nil
	}
	var b strings.Builder
	for i, item := range items {
		track := item.Get("track")
		fmt.Fprintf(&b, "%d. %s by %s (album: %s, played at %s)\n",
			i+1,
			track.Get("name").String(),
			joinNames(track.Get("artists")),
			track.Get("album.name").String(),
			item.Get("played_at").String())
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// LaunchSpotifyApp starts the desktop client if it is not already running.
func (c *Client) LaunchSpotifyApp(ctx context.Context, args map[string]any) (any, error) {
	running, err := spotifyProcessRunning(ctx)
	if err == nil && running {
		return "Spotify is already running.", nil
	}

	cmd := spotifyLaunchCommand(ctx)
	if cmd == nil {
		return nil, fmt.Errorf("launching spotify is not supported on %s", runtime.GOOS)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("launch spotify: %w", err)
	}
	return "Spotify launched.", nil
}

func spotifyProcessRunning(ctx context.Context) (bool, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return false, err
	}
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(name), "spotify") {
			return true, nil
		}
	}
	return false, nil
}

func spotifyLaunchCommand(ctx context.Context) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.CommandContext(ctx, "open", "-a", "Spotify")
	case "windows":
		return exec.CommandContext(ctx, "cmd", "/c", "start", "spotify:")
	case "linux":
		return exec.CommandContext(ctx, "spotify")
	default:
		return nil
	}
}

func joinNames(arr gjson.Result) string {
	items := arr.Array()
	names := make([]string, 0, len(items))
	for _, it := range items {
		if n := it.Get("name").String(); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return "unknown"
	}
	return strings.Join(names, ", ")
}
