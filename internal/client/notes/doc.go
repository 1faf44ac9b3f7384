// Package notes is the client's note state container.
//
// # Overview
//
// Store owns the three note collections (active, archived, trashed) and
// exposes one method per user action. Every action runs a pure reducer
// (reducers.go) that returns the next state plus the remote operations it
// implies, commits both to SQLite in a single transaction and, when a remote
// identity is signed in and the server is reachable, replays the outbox.
//
// The local change is committed before any remote call is made, so remote
// failures never fail an action. They are classified instead:
//
//   - permission (client.ErrPermissionDenied, client.ErrUnauthorized):
//     remote writes are disabled for the session;
//   - quota (client.ErrQuotaExceeded): remote writes are disabled and the
//     identity provider starts its cooldown;
//   - anything else: recorded as the last error, retried on the next action
//     or when connectivity returns.
//
// Background helpers bound to a context: the trash janitor (janitor.go), the
// connectivity watcher and the local database watcher (watch.go).
package notes
