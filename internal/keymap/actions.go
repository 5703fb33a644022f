// Package keymap defines key bindings and action dispatch for the player.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit       Action = "quit"
	ActionOpenPrompt Action = "open_prompt"

	// Playback actions
	ActionPlayPause   Action = "play_pause"
	ActionNextTrack   Action = "next_track"
	ActionPrevTrack   Action = "prev_track"
	ActionSeekForward Action = "seek_forward"
	ActionSeekBack    Action = "seek_back"
	// ActionSeekTo seeks to the key's digit times ten percent.
	ActionSeekTo     Action = "seek_to"
	ActionVolumeUp   Action = "volume_up"
	ActionVolumeDown Action = "volume_down"
	ActionShuffle    Action = "toggle_shuffle"
	ActionRepeat     Action = "toggle_repeat"

	// Playlist actions
	ActionMoveUp    Action = "move_up"
	ActionMoveDown  Action = "move_down"
	ActionLoadTrack Action = "load_track"

	// Prompt actions
	ActionConfirm Action = "confirm"
	ActionCancel  Action = "cancel"
)
