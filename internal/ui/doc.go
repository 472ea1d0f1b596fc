// Package ui implements the interactive morning routine using bubbletea's Elm architecture.
//
// The TUI moves between a handful of views:
//  1. [IntroView] : First-run explanation of the rules
//  2. [CountdownView] : Current task, countdown and progress bar
//  3. [FeedbackView] : Result panel shown briefly after each completion
//  4. [CelebrationView] : Medals and stats once every task is done
//  5. [RestDayView] and [EmptyView] : Nothing to do today
//  6. [TaskListView] : Browse today's tasks with their statuses
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Session events arrive over a channel from the game session and are turned into achievement toasts without blocking.
// When a config path is given, edits to the file are picked up by a watcher and applied to the running session.
package ui
