// Package server exposes a morning routine session over HTTP.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering, so
// path wildcards such as /tasks/{id} are available through [http.Request.PathValue].
//
// # Middleware
//
//   - [Recover] turns handler panics into 500 responses
//   - [Logging] logs method, path, status and duration
//   - [RateLimit] answers 429 once a token bucket is empty
//
// # Routine API
//
// [RoutineHandler] serves the session as JSON. The session is guarded by a
// mutex because net/http runs handlers concurrently.
//
//	GET    /health
//	GET    /api/tasks
//	GET    /api/status
//	GET    /api/stats
//	GET    /api/achievements
//	POST   /api/complete
//	DELETE /tasks/{id}
//
// DELETE /tasks/{id} is the same endpoint the remote task client calls, so one
// instance can act as another's remote.
package server
