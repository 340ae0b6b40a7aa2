package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand assembles the gatherly command tree around a.
//
// The persistent flags are parsed earlier by the config package; they are
// declared here so cobra accepts them and lists them in help.
func NewRootCommand(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "gatherly",
		Short: "Plan events, guests and wishlists offline, sync when online",
		Long: `gatherly keeps events, guest lists, photos and wishlists in a local
database and mirrors them to the backend whenever a connection is available.

Every change is made locally first. Run 'gatherly sync' for a one-off sync or
'gatherly watch' to keep syncing in the background.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "config file (.json, .yaml or .toml)")
	pf.StringP("backend", "a", "", "backend base URL")
	pf.StringP("health", "g", "", "gRPC health address host:port")
	pf.StringP("db", "d", "", "entity database path")
	pf.StringP("state", "s", "", "sync-state database path")
	pf.IntP("online-interval", "i", 0, "online check interval in seconds")
	pf.StringP("log-level", "l", "", "log level")

	root.AddGroup(
		&cobra.Group{ID: "data", Title: "Local data:"},
		&cobra.Group{ID: "sync", Title: "Sync:"},
		&cobra.Group{ID: "account", Title: "Account:"},
	)

	root.AddCommand(
		a.eventCommand(),
		a.guestCommand(),
		a.photoCommand(),
		a.wishCommand(),
		a.exportCommand(),
		a.syncCommand(),
		a.watchCommand(),
		a.statusCommand(),
		a.loginCommand(),
		a.registerCommand(),
		a.logoutCommand(),
	)
	return root
}
