package routine

import (
	"fmt"

	"github.com/desertthunder/morningcharge/internal/models"
)

// Panel colors per completion tier.
const (
	ColorEarly    = "#06D6A0"
	ColorOnTime   = "#4ECDC4"
	ColorLate     = "#FFD166"
	ColorVeryLate = "#FF6B6B"
)

// CompletionFeedback builds the panel shown after record, hinting at next when present.
func CompletionFeedback(record models.CompletionRecord, next *models.Task) models.Feedback {
	var fb models.Feedback

	switch record.Status {
	case models.CompletionEarly:
		fb = models.Feedback{
			Title:   "Awesome! ⚡",
			Message: fmt.Sprintf("You finished %s %d minutes early. A real morning superhero!", record.TaskName, record.MinutesEarly()),
			Color:   ColorEarly,
			Icon:    "🎉",
		}
	case models.CompletionOnTime:
		fb = models.Feedback{
			Title:   "Right on time! ✅",
			Message: fmt.Sprintf("Nice work! You finished %s right on time.", record.TaskName),
			Color:   ColorOnTime,
			Icon:    "👍",
		}
	case models.CompletionLate:
		fb = models.Feedback{
			Title:   "Keep going! 💪",
			Message: fmt.Sprintf("%s took a little longer today. No worries, next time will be even better!", record.TaskName),
			Color:   ColorLate,
			Icon:    "⏰",
		}
	default:
		fb = models.Feedback{
			Title:   "Don't give up! 💖",
			Message: fmt.Sprintf("%s ran over today, but that's okay. Let's start the next task now!", record.TaskName),
			Color:   ColorVeryLate,
			Icon:    "🌟",
		}
	}

	if next != nil {
		fb.NextTaskMessage = fmt.Sprintf("Now start %s, and remember to finish before %s!", next.Name, next.StartTime)
	}

	return fb
}

// VoiceFeedback is the spoken line after record. The last task gets the celebration instead.
func VoiceFeedback(record models.CompletionRecord, next *models.Task) string {
	if next == nil {
		return fmt.Sprintf("%s is done, keep it up!", record.TaskName)
	}

	switch record.Status {
	case models.CompletionEarly:
		return fmt.Sprintf("Amazing! You finished %s %d minutes early, a real morning superhero! Now start %s before %s!",
			record.TaskName, record.MinutesEarly(), next.Name, next.StartTime)
	case models.CompletionOnTime:
		return fmt.Sprintf("Right on time! Great job! Next up is %s, remember to start before %s!", next.Name, next.StartTime)
	case models.CompletionLate:
		return fmt.Sprintf("%s was a little slow today, that's okay, you'll do better next time! Now go do %s, let's keep charging!",
			record.TaskName, next.Name)
	case models.CompletionVeryLate:
		return fmt.Sprintf("Oops, %s ran past its time, but it's not too late to start now! Hurry!", record.TaskName)
	default:
		return fmt.Sprintf("%s is done, keep it up!", record.TaskName)
	}
}

// CelebrationMessage is shown and spoken when every task is complete.
func CelebrationMessage(earlyToday, streakDays int) string {
	msg := "Morning charge complete! You're amazing! Time to head out for school!"
	if earlyToday > 0 {
		msg += fmt.Sprintf(" Today you finished %d tasks early, fantastic!", earlyToday)
	}
	if streakDays >= 3 {
		msg += fmt.Sprintf(" That's %d days in a row, keep it going!", streakDays)
	}
	return msg
}

// Medals returns the medals earned on the celebration screen.
func Medals(streakDays, earlyToday, totalTasks int) []models.Medal {
	var medals []models.Medal

	switch {
	case streakDays >= 7:
		medals = append(medals, models.Medal{Title: "Morning Superhero", Description: "Seven days in a row of finishing everything. A true superhero!"})
	case streakDays >= 3:
		medals = append(medals, models.Medal{Title: "Morning Hero", Description: "Three days in a row of finishing everything. Impressive!"})
	}

	if totalTasks > 0 && earlyToday >= totalTasks {
		medals = append(medals, models.Medal{Title: "Lightning", Description: "Every task finished early today. The king of speed!"})
	}

	return medals
}
