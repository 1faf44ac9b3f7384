// Package cli provides the GophNotes command-line client.
//
// The cobra root command (NewRootCmd) starts an interactive REPL; the list,
// add, export and version subcommands run once against the local database
// and exit. The REPL signs in first (remote, cached credentials, or the
// local identity), then starts the connectivity watcher, the trash janitor
// and the local database watcher next to the prompt.
//
// Notes are addressed by id; any unique prefix of an id is accepted.
package cli
