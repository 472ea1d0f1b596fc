package services

import (
	"io"
	"strings"
	"sync"

	"github.com/desertthunder/morningcharge/internal/models"
)

// bellPatterns is the number of bells per cue for each pack.
var bellPatterns = map[models.SoundPack]map[models.Sound]int{
	models.SoundPackDefault: {
		models.SoundClick:       0,
		models.SoundSuccess:     1,
		models.SoundError:       2,
		models.SoundCountdown:   1,
		models.SoundCelebration: 3,
	},
	models.SoundPackVideo1: {
		models.SoundSuccess:     2,
		models.SoundError:       1,
		models.SoundCountdown:   1,
		models.SoundCelebration: 4,
	},
	models.SoundPackVideo2: {
		models.SoundSuccess:     1,
		models.SoundError:       3,
		models.SoundCountdown:   2,
		models.SoundCelebration: 5,
	},
}

// Bells returns how many times cue rings in pack, falling back to the default pack.
func Bells(pack models.SoundPack, sound models.Sound) int {
	if n, ok := bellPatterns[pack][sound]; ok {
		return n
	}
	return bellPatterns[models.SoundPackDefault][sound]
}

// TerminalSound rings the terminal bell.
type TerminalSound struct {
	mu      sync.Mutex
	w       io.Writer
	enabled bool
}

// NewTerminalSound creates a player writing bells to w.
func NewTerminalSound(w io.Writer, enabled bool) *TerminalSound {
	return &TerminalSound{w: w, enabled: enabled}
}

// SetEnabled toggles sound at runtime.
func (s *TerminalSound) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
}

func (s *TerminalSound) Play(pack models.SoundPack, sound models.Sound) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled || s.w == nil {
		return
	}
	if n := Bells(pack, sound); n > 0 {
		_, _ = io.WriteString(s.w, strings.Repeat("\a", n))
	}
}
