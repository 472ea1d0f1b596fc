// Package services implements the collaborators the game talks to outside its own state.
//
// # Sound and voice
//
// [SoundPlayer] and [Announcer] are fire-and-forget: they never report errors
// back to the game. [TerminalSound] rings the terminal bell in a per-pack
// pattern and [LogAnnouncer] writes the spoken line to the logger (and an
// optional writer) in place of a speech engine.
//
// # Remote tasks
//
// [RemoteTasks] deletes a task on a server with `DELETE {base}/tasks/{id}`.
// With no base URL configured every call succeeds so deletion stays local.
// Requests go through [APIService] and are rate limited, retried with
// exponential backoff and bounded by a timeout. When a client id and token
// URL are configured the HTTP client is wrapped with OAuth2 client
// credentials.
package services
