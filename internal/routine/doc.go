// Package routine classifies task progress against the clock and tracks a
// session's walk through the ordered task list.
//
// Timing functions are pure: they take a task, the task after it (if any)
// and the current time, and compare at minute resolution. The [Tracker]
// keeps the cursor and completion records for one session and always starts
// at the first task.
package routine
