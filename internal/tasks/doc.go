// Package tasks owns the ordered list of routine task definitions.
//
// # Sources
//
// The list is loaded by priority:
//
//  1. A user override saved in the store ([Store.Save])
//  2. The `tasks` query parameter of a URL, holding a JSON array
//  3. The built-in [DefaultTasks]
//
// A source that is missing, empty or fails to parse is logged and skipped.
//
// # Shape
//
// Raw input may carry derived hints such as `nextTaskStartTime`; [Normalize]
// strips them and yields canonical [models.Task] values. JSON input is checked
// against an embedded JSON schema before decoding and every task is then
// validated with go-playground/validator.
//
// # Editing
//
// [Store.Save] trims fields, defaults the icon, renumbers ids from 1 and
// rejects the list when any name is empty. [Store.Delete] keeps at least one
// task and asks the [Remote] first; a remote failure leaves the list as is.
package tasks
