package spotify

import "github.com/gina-ai/gina/internal/ai/tools"

const (
	categoryPlayer    = "player"
	categorySearch    = "search"
	categoryPlaylists = "playlists"
)

// Source exposes the client's operations as assistant capabilities.
func (c *Client) Source() tools.Source {
	return tools.SourceFunc{ID: "spotify", Load: func() ([]tools.Capability, error) {
		return []tools.Capability{
			{
				Schema: tools.Schema{
					Name:        "fetch_playback_state",
					Description: "Get the current Spotify playback state: track, album, progress, shuffle, repeat and active device.",
					Category:    categoryPlayer,
					Parameters:  objectSchema(nil, nil),
				},
				Invoke: c.FetchPlaybackState,
			},
			{
				Schema: tools.Schema{
					Name:        "fetch_available_devices",
					Description: "List the Spotify Connect devices available to the user.",
					Category:    categoryPlayer,
					Parameters:  objectSchema(nil, nil),
				},
				Invoke: c.FetchAvailableDevices,
			},
			{
				Schema: tools.Schema{
					Name:        "transfer_playback",
					Description: "Transfer playback to another device by its device id.",
					Category:    categoryPlayer,
					Parameters: objectSchema(map[string]any{
						"device_id": map[string]any{"type": "string", "description": "Target device id. Falls back to the configured default device."},
					}, nil),
				},
				Invoke: c.TransferPlayback,
			},
			{
				Schema: tools.Schema{
					Name:        "start_playback",
					Description: "Start or resume playback, optionally with explicit track URIs or a context URI (album, playlist, artist).",
					Category:    categoryPlayer,
					Parameters: objectSchema(map[string]any{
						"uris":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Track URIs to play."},
						"context_uri": map[string]any{"type": "string", "description": "Album, playlist or artist URI to play from."},
						"device_id":   map[string]any{"type": "string", "description": "Device to play on."},
					}, nil),
				},
				Invoke: c.StartPlayback,
			},
			{
				Schema: tools.Schema{
					Name:        "pause_playback",
					Description: "Pause playback on the active device.",
					Category:    categoryPlayer,
					Parameters:  objectSchema(nil, nil),
				},
				Invoke: c.PausePlayback,
			},
			{
				Schema: tools.Schema{
					Name:        "skip_to_next",
					Description: "Skip to the next track in the queue.",
					Category:    categoryPlayer,
					Parameters:  objectSchema(nil, nil),
				},
				Invoke: c.SkipToNext,
			},
			{
				Schema: tools.Schema{
					Name:        "skip_to_previous",
					Description: "Skip back to the previous track.",
					Category:    categoryPlayer,
					Parameters:  objectSchema(nil, nil),
				},
				Invoke: c.SkipToPrevious,
			},
			{
				Schema: tools.Schema{
					Name:        "set_playback_volume",
					Description: "Set the playback volume as a percentage from 0 to 100.",
					Category:    categoryPlayer,
					Parameters: objectSchema(map[string]any{
						"volume_percent": map[string]any{"type": "integer", "description": "Volume from 0 to 100."},
					}, []string{"volume_percent"}),
				},
				Invoke: c.SetPlaybackVolume,
			},
			{
				Schema: tools.Schema{
					Name:        "seek_to_position",
					Description: "Seek to a position in the currently playing track.",
					Category:    categoryPlayer,
					Parameters: objectSchema(map[string]any{
						"position_ms": map[string]any{"type": "integer", "description": "Position in milliseconds from the start of the track."},
					}, []string{"position_ms"}),
				},
				Invoke: c.SeekToPosition,
			},
			{
				Schema: tools.Schema{
					Name:        "set_repeat_mode",
					Description: "Set the repeat mode: track repeats the current track, context repeats the current album or playlist, off disables repeat.",
					Category:    categoryPlayer,
					Parameters: objectSchema(map[string]any{
						"state": map[string]any{"type": "string", "enum": []string{"track", "context", "off"}, "description": "The repeat mode."},
					}, []string{"state"}),
				},
				Invoke: c.SetRepeatMode,
			},
			{
				Schema: tools.Schema{
					Name:        "toggle_playlist_shuffle",
					Description: "Turn shuffle on or off for the current playback.",
					Category:    categoryPlayer,
					Parameters: objectSchema(map[string]any{
						"state": map[string]any{"type": "boolean", "description": "True to shuffle, false to play in order."},
					}, []string{"state"}),
				},
				Invoke: c.TogglePlaylistShuffle,
			},
			{
				Schema: tools.Schema{
					Name:        "get_recently_played_tracks",
					Description: "List the user's recently played tracks, newest first.",
					Category:    categoryPlayer,
					Parameters: objectSchema(map[string]any{
						"limit": map[string]any{"type": "integer", "description": "Maximum tracks, 1-50. Defaults to 20."},
					}, nil),
				},
				Invoke: c.GetRecentlyPlayedTracks,
			},
			{
				Schema: tools.Schema{
					Name:        "add_item_to_playback_queue",
					Description: "Add a track or episode to the end of the playback queue.",
					Category:    categoryPlayer,
					Parameters: objectSchema(map[string]any{
						"uri": map[string]any{"type": "string", "description": "Spotify URI of the item to queue."},
					}, []string{"uri"}),
				},
				Invoke: c.AddItemToPlaybackQueue,
			},
			{
				Schema: tools.Schema{
					Name:        "get_user_queue",
					Description: "Get the currently playing item and the upcoming playback queue.",
					Category:    categoryPlayer,
					Parameters:  objectSchema(nil, nil),
				},
				Invoke: c.GetUserQueue,
			},
			{
				Schema: tools.Schema{
					Name:        "launch_spotify_app",
					Description: "Launch the Spotify desktop application on this machine if it is not already running.",
					Category:    categoryPlayer,
					Parameters:  objectSchema(nil, nil),
				},
				Invoke: c.LaunchSpotifyApp,
			},
			{
				Schema: tools.Schema{
					Name:        "search_track",
					Description: "Search the Spotify catalog for tracks matching a free-text query.",
					Category:    categorySearch,
					Parameters: objectSchema(map[string]any{
						"query": map[string]any{"type": "string", "description": "Search text, e.g. a song title and artist."},
						"limit": map[string]any{"type": "integer", "description": "Maximum results, 1-50. Defaults to 5."},
					}, []string{"query"}),
				},
				Invoke: c.SearchTrack,
			},
			{
				Schema: tools.Schema{
					Name:        "get_track",
					Description: "Get details for one track by its Spotify ID.",
					Category:    categorySearch,
					Parameters: objectSchema(map[string]any{
						"track_id": map[string]any{"type": "string", "description": "The Spotify track ID."},
					}, []string{"track_id"}),
				},
				Invoke: c.GetTrack,
			},
			{
				Schema: tools.Schema{
					Name:        "get_current_user_playlists",
					Description: "List the playlists owned or followed by the current user.",
					Category:    categoryPlaylists,
					Parameters: objectSchema(map[string]any{
						"limit": map[string]any{"type": "integer", "description": "Maximum playlists to return, 1-50. Defaults to 20."},
					}, nil),
				},
				Invoke: c.GetCurrentUserPlaylists,
			},
			{
				Schema: tools.Schema{
					Name:        "create_playlist",
					Description: "Create a new playlist for the current user.",
					Category:    categoryPlaylists,
					Parameters: objectSchema(map[string]any{
						"name":        map[string]any{"type": "string", "description": "Playlist name."},
						"description": map[string]any{"type": "string", "description": "Optional playlist description."},
						"public":      map[string]any{"type": "boolean", "description": "Whether the playlist is public. Defaults to false."},
					}, []string{"name"}),
				},
				Invoke: c.CreatePlaylist,
			},
			{
				Schema: tools.Schema{
					Name:        "add_item_to_playlist",
					Description: "Add one or more tracks to an existing playlist.",
					Category:    categoryPlaylists,
					Parameters: objectSchema(map[string]any{
						"playlist_id": map[string]any{"type": "string", "description": "The playlist to add to."},
						"uris":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Track URIs to add."},
						"uri":         map[string]any{"type": "string", "description": "A single track URI to add."},
					}, []string{"playlist_id"}),
				},
				Invoke: c.AddItemToPlaylist,
			},
			{
				Schema: tools.Schema{
					Name:        "get_playlist",
					Description: "Get a playlist's details: name, description, owner, followers and visibility.",
					Category:    categoryPlaylists,
					Parameters: objectSchema(map[string]any{
						"playlist_id": map[string]any{"type": "string", "description": "The playlist to read."},
					}, []string{"playlist_id"}),
				},
				Invoke: c.GetPlaylist,
			},
			{
				Schema: tools.Schema{
					Name:        "change_playlist_details",
					Description: "Change a playlist's name, description or visibility.",
					Category:    categoryPlaylists,
					Parameters: objectSchema(map[string]any{
						"playlist_id":   map[string]any{"type": "string", "description": "The playlist to modify."},
						"name":          map[string]any{"type": "string", "description": "New playlist name."},
						"description":   map[string]any{"type": "string", "description": "New playlist description."},
						"public":        map[string]any{"type": "boolean", "description": "Whether the playlist is public."},
						"collaborative": map[string]any{"type": "boolean", "description": "Whether the playlist is collaborative."},
					}, []string{"playlist_id"}),
				},
				Invoke: c.ChangePlaylistDetails,
			},
			{
				Schema: tools.Schema{
					Name:        "remove_playlist_items",
					Description: "Remove every occurrence of the given tracks from a playlist.",
					Category:    categoryPlaylists,
					Parameters: objectSchema(map[string]any{
						"playlist_id": map[string]any{"type": "string", "description": "The playlist to remove from."},
						"uris":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Track URIs to remove."},
						"uri":         map[string]any{"type": "string", "description": "A single track URI to remove."},
					}, []string{"playlist_id"}),
				},
				Invoke: c.RemovePlaylistItems,
			},
			{
				Schema: tools.Schema{
					Name:        "get_user_playlists",
					Description: "List another user's public playlists by their user id.",
					Category:    categoryPlaylists,
					Parameters: objectSchema(map[string]any{
						"user_id": map[string]any{"type": "string", "description": "The Spotify user id."},
						"limit":   map[string]any{"type": "integer", "description": "Maximum playlists, 1-50. Defaults to 20."},
					}, []string{"user_id"}),
				},
				Invoke: c.GetUserPlaylists,
			},
			{
				Schema: tools.Schema{
					Name:        "get_featured_playlists",
					Description: "List Spotify's featured playlists, optionally for a country and locale.",
					Category:    categoryPlaylists,
					Parameters: objectSchema(map[string]any{
						"limit":   map[string]any{"type": "integer", "description": "Maximum playlists, 1-50. Defaults to 10."},
						"country": map[string]any{"type": "string", "description": "ISO 3166-1 alpha-2 country code."},
						"locale":  map[string]any{"type": "string", "description": "Locale such as en_US."},
					}, nil),
				},
				Invoke: c.GetFeaturedPlaylists,
			},
			{
				Schema: tools.Schema{
					Name:        "get_playlist_items",
					Description: "List the tracks in a playlist.",
					Category:    categoryPlaylists,
					Parameters: objectSchema(map[string]any{
						"playlist_id": map[string]any{"type": "string", "description": "The playlist to read."},
						"limit":       map[string]any{"type": "integer", "description": "Maximum items, 1-100. Defaults to 50."},
					}, []string{"playlist_id"}),
				},
				Invoke: c.GetPlaylistItems,
			},
		}, nil
	}}
}

func objectSchema(properties map[string]any, required []string) map[string]any {
	if properties == nil {
		properties = map[string]any{}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
