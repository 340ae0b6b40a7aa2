package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gatherly/internal/client/client"
	"github.com/dmitrijs2005/gatherly/internal/client/daemon"
	"github.com/dmitrijs2005/gatherly/internal/client/models"
	"github.com/spf13/cobra"
)

func (a *App) syncCommand() *cobra.Command {
	var quick bool
	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: "sync",
		Short:   "Sync local data with the backend once",
		Long: `Pull remote events, then push local changes, wishlist and profile.

With --quick only local event changes are pushed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.Sync(cmd.Context(), quick)
		},
	}
	cmd.Flags().BoolVarP(&quick, "quick", "q", false, "push local event changes only")
	return cmd
}

// Sync runs one sync pass and prints a line per path.
func (a *App) Sync(ctx context.Context, quick bool) error {
	if !a.session.IsAuthenticated() {
		a.printf("%s\n", warnStyle.Render("Not signed in, run 'gatherly login' first"))
		return client.ErrUnauthenticated
	}

	if quick {
		r, err := a.sync.QuickSync(ctx)
		a.printf("%s %s\n", headerStyle.Render("events:"), reportLine(r))
		return err
	}

	r, err := a.sync.FullSync(ctx)
	a.printf("%s %s\n", headerStyle.Render("events:"), reportLine(r))
	if err != nil {
		return err
	}

	var errs []error
	if r, err := a.wishlist.Sync(ctx); err != nil {
		errs = append(errs, err)
	} else {
		a.printf("%s %s\n", headerStyle.Render("wishlist:"), reportLine(r))
	}
	if r, err := a.profile.Sync(ctx); err != nil {
		errs = append(errs, err)
	} else {
		a.printf("%s %s\n", headerStyle.Render("profile:"), reportLine(r))
	}
	return errors.Join(errs...)
}

func (a *App) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		GroupID: "sync",
		Short:   "Keep syncing in the foreground until interrupted",
		Long: `Watch probes the backend, runs a full sync whenever it comes online and on
a timer, and pushes local changes shortly after the local database changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.Watch(ctx)
		},
	}
}

// Watch blocks until ctx is cancelled.
func (a *App) Watch(ctx context.Context) error {
	d := daemon.New(daemon.Config{
		DBPath:              a.config.DatabasePath,
		OnlineCheckInterval: a.config.OnlineCheckInterval,
		QuickSyncInterval:   a.config.QuickSyncInterval,
		FullSyncInterval:    a.config.FullSyncInterval,
	}, a.sync, a.health, a.log, a.wishlist, a.profile)

	a.printf("%s %s\n", headerStyle.Render("Watching"), mutedStyle.Render(a.config.DatabasePath+" (Ctrl+C to stop)"))
	err := d.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *App) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		GroupID: "sync",
		Short:   "Show account, connectivity and pending changes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.Status(cmd.Context())
		},
	}
}

// Status renders a summary box.
func (a *App) Status(ctx context.Context) error {
	account, err := a.auth.CurrentAccount(ctx)
	if err != nil {
		return err
	}
	accountLine := mutedStyle.Render("signed out")
	if a.session.IsAuthenticated() {
		accountLine = okStyle.Render(account)
	} else if account != "" {
		accountLine = warnStyle.Render(account + " (session expired)")
	}

	backend := errStyle.Render("offline")
	if a.online(ctx) {
		backend = okStyle.Render("online")
	}

	last, err := a.state.LastSyncTime(ctx)
	if err != nil {
		return err
	}
	lastLine := mutedStyle.Render("never")
	if last != nil {
		lastLine = last.In(a.loc).Format("2006-01-02 15:04") + mutedStyle.Render(" ("+ago(a.now().Sub(*last))+")")
	}

	pending, err := a.state.ListPendingDeletes(ctx)
	if err != nil {
		return err
	}
	events, err := a.events.ListEvents(ctx)
	if err != nil {
		return err
	}

	phase := a.sync.Status()
	rows := [][2]string{
		{"Account", accountLine},
		{"Backend", backend + mutedStyle.Render(" "+a.config.BackendURL)},
		{"Last sync", lastLine},
		{"Sync phase", phaseLine(phase)},
		{"Events", itoa(len(events))},
		{"Pending deletes", itoa(len(pending))},
	}
	a.printf("%s\n", boxStyle.Render(headerStyle.Render("gatherly")+"\n"+kv(rows)))
	return nil
}

func phaseLine(s models.SyncStatus) string {
	switch s.Phase {
	case models.SyncError:
		return errStyle.Render(string(s.Phase) + ": " + s.Message)
	case models.SyncCompleted:
		return okStyle.Render(string(s.Phase))
	default:
		return string(s.Phase)
	}
}

func ago(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return itoa(int(d.Minutes())) + "m ago"
	case d < 48*time.Hour:
		return itoa(int(d.Hours())) + "h ago"
	default:
		return itoa(int(d.Hours()/24)) + "d ago"
	}
}
