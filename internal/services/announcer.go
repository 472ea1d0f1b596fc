package services

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/morningcharge/internal/shared"
)

// LogAnnouncer stands in for a speech engine by logging each line.
type LogAnnouncer struct {
	mu       sync.Mutex
	logger   *log.Logger
	out      io.Writer
	settings shared.RoutineConfig
}

// NewLogAnnouncer creates an announcer. out, when non-nil, also receives each line.
func NewLogAnnouncer(logger *log.Logger, out io.Writer, settings shared.RoutineConfig) *LogAnnouncer {
	return &LogAnnouncer{logger: logger, out: out, settings: settings}
}

// Configure swaps in new voice settings.
func (a *LogAnnouncer) Configure(settings shared.RoutineConfig) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settings = settings
}

func (a *LogAnnouncer) Announce(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.settings.VoiceEnabled || text == "" {
		return
	}

	if a.logger != nil {
		a.logger.Info("announce", "text", text,
			"lang", a.settings.VoiceLang,
			"rate", a.settings.VoiceRate,
			"pitch", a.settings.VoicePitch,
			"volume", a.settings.VoiceVolume,
		)
	}
	if a.out != nil {
		_, _ = fmt.Fprintln(a.out, "🔊 "+text)
	}
}
