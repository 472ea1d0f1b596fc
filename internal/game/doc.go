// Package game runs a morning routine session.
//
// A [Session] owns the [routine.Tracker] for today and applies each completion
// to the persisted counters: flash and total completions, the day streak,
// perfect days, week stats and achievements. It plays sounds and speaks
// feedback through the injected collaborators, and reports what happened on
// a non-blocking [Event] channel for the UI and server layers.
//
// Completion flow:
//
//  1. click sound, tracker advances and produces a [models.CompletionRecord]
//  2. counters and day record persisted, achievements evaluated
//  3. success sound and feedback; on the last task the streak, all-task and
//     perfect-day counters update and the celebration plays instead
package game
