// Package client contains the client-side remote adapter for GophNotes.
//
// # Overview
//
// The package provides:
//  1. The Client interface consumed by the note store and the identity
//     wrapper: account calls (Register, GetSalt, Login, CheckAccess), Ping and
//     the note collection calls (PutNote, DeleteNote, ClearCollection,
//     ReorderNotes, ListNotes, ExportNotes).
//  2. A gRPC implementation (GRPCClient) that attaches the bearer access token
//     through an interceptor, refreshes an expired token once and retries, and
//     maps gRPC status codes to sentinel errors.
//  3. Local database bootstrap (InitDatabase, RunMigrations) applying the
//     embedded goose migrations to SQLite.
//
// # Error Handling
//
// Callers match with errors.Is: ErrUnavailable, ErrUnauthorized,
// ErrPermissionDenied, ErrQuotaExceeded, ErrInvalidRequest.
package client
