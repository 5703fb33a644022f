package player

import "math"

// silentVolume is the beep volume used for a level of zero.
const silentVolume = -10

// clampLevel limits a linear volume level to [0, 1].
func clampLevel(level float64) float64 {
	if math.IsNaN(level) || level < 0 {
		return 0
	}
	if level > 1 {
		return 1
	}
	return level
}

// levelToVolume converts a 0.0-1.0 level to beep's Volume value.
// beep uses a logarithmic scale with base 2: 0 leaves the signal unchanged,
// -1 halves it, -2 quarters it.
// We map: 1.0 -> 0, 0.5 -> -1, 0.25 -> -2, 0 -> -10 (and Silent)
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return silentVolume
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}

// SetVolume sets the volume level (0.0 to 1.0), clamping out-of-range values.
func (p *Player) SetVolume(level float64) {
	level = clampLevel(level)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.volumeLevel = level
	if ld := p.load; ld != nil && ld.volume != nil {
		p.out.Lock()
		ld.volume.Volume = levelToVolume(level)
		ld.volume.Silent = level <= 0
		p.out.Unlock()
	}
}

// Volume returns the current volume level (0.0 to 1.0).
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volumeLevel
}
