package icons

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the glyphs for one style.
type Icons struct {
	Play       string
	Pause      string
	Audio      string
	Loading    string
	Volume     string
	VolumeMute string
	Active     string
	Shuffle    string
	Repeat     string
}

var (
	nerdIcons = Icons{
		Play:       "\uf04b",     // nf-fa-play
		Pause:      "\uf04c",     // nf-fa-pause
		Audio:      "\uf001 ",    // nf-fa-music
		Loading:    "\U000f051f", // nf-md-timer_sand
		Volume:     "\U000f057e", // nf-md-volume_high
		VolumeMute: "\U000f075f", // nf-md-volume_mute
		Active:     "\uf0da",     // nf-fa-caret_right
		Shuffle:    "\U000f049f", // nf-md-shuffle
		Repeat:     "\U000f0456", // nf-md-repeat
	}

	unicodeIcons = Icons{
		Play:       "▶",
		Pause:      "⏸",
		Audio:      "🎵 ",
		Loading:    "⏳",
		Volume:     "🔊",
		VolumeMute: "🔇",
		Active:     "▸",
		Shuffle:    "🔀",
		Repeat:     "🔁",
	}

	noneIcons = Icons{
		Play:       ">",
		Pause:      "||",
		Audio:      "",
		Loading:    "...",
		Volume:     "vol",
		VolumeMute: "mute",
		Active:     ">",
		Shuffle:    "[S]",
		Repeat:     "[R]",
	}

	// current holds the active icon set
	current = noneIcons
)

// Init initializes the icons based on the style.
// Call this once at startup with the config value.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleUnicode:
		current = unicodeIcons
	default:
		current = noneIcons
	}
}

// PlayPause returns the icon of the action a toggle would perform: pause
// while playing, play otherwise.
func PlayPause(playing bool) string {
	if playing {
		return current.Pause
	}
	return current.Play
}

// FormatAudio formats a track title with the audio icon.
func FormatAudio(name string) string {
	return current.Audio + name
}

// Loading returns the loading indicator.
func Loading() string {
	return current.Loading
}

// Volume returns the speaker icon, muted at level zero.
func Volume(level float64) string {
	if level <= 0 {
		return current.VolumeMute
	}
	return current.Volume
}

// Active returns the marker of the loaded playlist entry.
func Active() string {
	return current.Active
}

// Shuffle returns the shuffle icon.
func Shuffle() string {
	return current.Shuffle
}

// Repeat returns the repeat icon.
func Repeat() string {
	return current.Repeat
}
