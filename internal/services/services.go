// package services defines the sound, voice and remote collaborators of the game
package services

import (
	"github.com/desertthunder/morningcharge/internal/models"
)

// SoundPlayer plays a cue from a sound pack.
type SoundPlayer interface {
	Play(pack models.SoundPack, sound models.Sound)
}

// Announcer speaks a line of encouragement.
type Announcer interface {
	Announce(text string)
}

// NopSound discards every cue.
type NopSound struct{}

func (NopSound) Play(models.SoundPack, models.Sound) {}

// NopAnnouncer discards every line.
type NopAnnouncer struct{}

func (NopAnnouncer) Announce(string) {}
