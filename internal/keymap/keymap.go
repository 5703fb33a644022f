package keymap

import (
	"strings"
)

// Binding maps keys to an action, with a description for the help line.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "playlist", "prompt"
}

// Bindings contains every key binding of the player. Key names are the
// strings bubbletea reports; the space bar is " ".
var Bindings = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionOpenPrompt, []string{"o"}, "Open file", "global"},

	// Playback
	{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
	{ActionNextTrack, []string{"n", "pgdown"}, "Next track", "playback"},
	{ActionPrevTrack, []string{"p", "pgup"}, "Previous track", "playback"},
	{ActionSeekForward, []string{"right", "l"}, "Seek +5%", "playback"},
	{ActionSeekBack, []string{"left", "h"}, "Seek -5%", "playback"},
	{ActionSeekTo, []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}, "Seek to 0-90%", "playback"},
	{ActionVolumeUp, []string{"+", "="}, "Volume up", "playback"},
	{ActionVolumeDown, []string{"-"}, "Volume down", "playback"},
	{ActionShuffle, []string{"S"}, "Toggle shuffle", "playback"},
	{ActionRepeat, []string{"R"}, "Toggle repeat", "playback"},

	// Playlist
	{ActionMoveDown, []string{"j", "down"}, "Move down", "playlist"},
	{ActionMoveUp, []string{"k", "up"}, "Move up", "playlist"},
	{ActionLoadTrack, []string{"enter"}, "Load track", "playlist"},

	// Prompt
	{ActionConfirm, []string{"enter"}, "Add path", "prompt"},
	{ActionCancel, []string{"esc", "ctrl+c"}, "Cancel", "prompt"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range Bindings {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// DisplayKey returns a key name as shown to the user.
func DisplayKey(key string) string {
	if key == " " {
		return "space"
	}
	return key
}

// Help renders a one-line summary of the given actions: the first key of
// each followed by its description.
func Help(bindings []Binding, actions ...Action) string {
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		for _, b := range bindings {
			if b.Action == a && len(b.Keys) > 0 {
				parts = append(parts, DisplayKey(b.Keys[0])+" "+strings.ToLower(b.Description))
				break
			}
		}
	}
	return strings.Join(parts, " · ")
}
