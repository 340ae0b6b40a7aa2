// Package cli is the gatherly command-line client.
//
// NewApp wires configuration, the two local SQLite databases, the keyring
// session and the sync services; NewRootCommand exposes them as cobra
// sub-commands. All data commands work offline against the local database.
// 'sync' and 'watch' talk to the backend.
package cli
