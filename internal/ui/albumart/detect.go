package albumart

import (
	"os"
	"strings"
)

// overrideEnv forces image support on ("kitty") or off ("none").
const overrideEnv = "DECK_IMAGES"

// Supported reports whether the terminal understands the Kitty graphics
// protocol.
func Supported() bool {
	switch os.Getenv(overrideEnv) {
	case "kitty":
		return true
	case "none":
		return false
	}

	// Contour advertises itself but cannot draw Kitty images, and can
	// inherit a capable parent's environment.
	if os.Getenv("CONTOUR_PROFILE") != "" {
		return false
	}
	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	if os.Getenv("TERM_PROGRAM") == "WezTerm" {
		return true
	}
	if os.Getenv("GHOSTTY_RESOURCES_DIR") != "" {
		return true
	}
	// KONSOLE_VERSION looks like "220401"; images work from 22.04.
	if v := os.Getenv("KONSOLE_VERSION"); len(v) >= 4 && v[:4] >= "2204" {
		return true
	}
	return strings.Contains(os.Getenv("TERM"), "kitty")
}
