package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/morningcharge/internal/models"
	"github.com/desertthunder/morningcharge/internal/shared"
)

func TestTerminalSound(t *testing.T) {
	t.Run("Rings Pattern", func(t *testing.T) {
		var buf bytes.Buffer
		player := NewTerminalSound(&buf, true)

		player.Play(models.SoundPackDefault, models.SoundCelebration)
		if buf.String() != "\a\a\a" {
			t.Errorf("expected three bells, got %q", buf.String())
		}
	})

	t.Run("Click Is Silent", func(t *testing.T) {
		var buf bytes.Buffer
		NewTerminalSound(&buf, true).Play(models.SoundPackDefault, models.SoundClick)
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		var buf bytes.Buffer
		player := NewTerminalSound(&buf, false)
		player.Play(models.SoundPackVideo1, models.SoundSuccess)
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}

		player.SetEnabled(true)
		player.Play(models.SoundPackVideo1, models.SoundSuccess)
		if buf.String() != "\a\a" {
			t.Errorf("expected two bells, got %q", buf.String())
		}
	})

	t.Run("Unknown Pack Falls Back", func(t *testing.T) {
		if got := Bells(models.SoundPack("missing"), models.SoundError); got != 2 {
			t.Errorf("expected default pattern of 2, got %d", got)
		}
	})
}

func TestLogAnnouncer(t *testing.T) {
	settings := shared.DefaultConfig().Routine

	t.Run("Writes Line", func(t *testing.T) {
		var logs, out bytes.Buffer
		a := NewLogAnnouncer(log.New(&logs), &out, settings)

		a.Announce("Great job!")
		if !strings.Contains(out.String(), "Great job!") {
			t.Errorf("expected announcement in output, got %q", out.String())
		}
		if !strings.Contains(logs.String(), "en-US") {
			t.Errorf("expected voice language in log, got %q", logs.String())
		}
	})

	t.Run("Voice Disabled", func(t *testing.T) {
		var out bytes.Buffer
		disabled := settings
		disabled.VoiceEnabled = false
		a := NewLogAnnouncer(nil, &out, disabled)

		a.Announce("Hello")
		if out.Len() != 0 {
			t.Errorf("expected silence, got %q", out.String())
		}

		a.Configure(settings)
		a.Announce("Hello")
		if out.Len() == 0 {
			t.Error("expected output after enabling voice")
		}
	})
}
