package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gatherly/internal/client/contacts"
	"github.com/dmitrijs2005/gatherly/internal/client/models"
	"github.com/spf13/cobra"
)

func (a *App) guestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "guest",
		Aliases: []string{"guests", "invite"},
		GroupID: "data",
		Short:   "Manage the guest list of an event",
	}
	cmd.AddCommand(
		a.guestListCommand(),
		a.guestAddCommand(),
		a.guestImportCommand(),
		a.guestRespondCommand(),
		a.guestRemoveCommand(),
	)
	return cmd
}

func (a *App) guestListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list EVENT",
		Aliases: []string{"ls"},
		Short:   "List invitations of an event",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.findEvent(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			guests, err := a.events.ListInvitations(cmd.Context(), e.ID)
			if err != nil {
				return err
			}
			a.printf("%s  %s\n", headerStyle.Render(e.Title), mutedStyle.Render(guestSummary(guests)))
			for _, g := range guests {
				extra := ""
				if g.PlusOnes > 0 {
					extra = fmt.Sprintf(" +%d", g.PlusOnes)
				}
				a.printf("%s  %-16s %s%s  %s\n", mutedStyle.Render(shortID(g.ID)), statusLabel(g.Status), g.GuestName, extra, mutedStyle.Render(orDash(g.GuestEmail)))
			}
			return nil
		},
	}
}

func statusLabel(s models.InvitationStatus) string {
	switch s {
	case models.InvitationAccepted:
		return okStyle.Render(string(s))
	case models.InvitationDeclined:
		return errStyle.Render(string(s))
	case models.InvitationWaitingApproval:
		return warnStyle.Render(string(s))
	default:
		return string(s)
	}
}

func (a *App) guestAddCommand() *cobra.Command {
	var email, phone, message string
	cmd := &cobra.Command{
		Use:   "add EVENT NAME",
		Short: "Invite a guest",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.findEvent(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			inv := models.NewInvitation(e.ID, args[1], a.now())
			inv.GuestEmail = optional(email)
			inv.GuestPhone = optional(phone)
			inv.Message = optional(message)
			if err := a.events.AddInvitation(cmd.Context(), inv); err != nil {
				return err
			}
			a.printf("%s %s to %s\n", okStyle.Render("Invited"), inv.GuestName, headerStyle.Render(e.Title))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "guest e-mail")
	cmd.Flags().StringVar(&phone, "phone", "", "guest phone")
	cmd.Flags().StringVarP(&message, "message", "m", "", "personal message")
	return cmd
}

func (a *App) guestImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import EVENT FILE.vcf",
		Short: "Invite every contact in a vCard file, skipping ones already invited",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.findEvent(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			n, skipped, err := a.ImportGuests(cmd.Context(), e.ID, f)
			if err != nil {
				return err
			}
			a.printf("%s %d guests to %s", okStyle.Render("Invited"), n, headerStyle.Render(e.Title))
			if skipped > 0 {
				a.printf("%s", mutedStyle.Render(fmt.Sprintf(" (%d cards skipped)", skipped)))
			}
			a.printf("\n")
			return nil
		},
	}
}

// ImportGuests decodes vCards from r and invites the contacts not yet on
// the guest list of eventID.
func (a *App) ImportGuests(ctx context.Context, eventID string, r io.Reader) (added, skipped int, err error) {
	cs, skipped, err := contacts.Decode(r)
	if err != nil {
		return 0, skipped, err
	}
	existing, err := a.events.ListInvitations(ctx, eventID)
	if err != nil {
		return 0, skipped, err
	}
	for _, inv := range contacts.Invitations(eventID, cs, existing, a.now()) {
		if err := a.events.AddInvitation(ctx, inv); err != nil {
			return added, skipped, fmt.Errorf("invite %s: %w", inv.GuestName, err)
		}
		added++
	}
	return added, skipped, nil
}

func (a *App) guestRespondCommand() *cobra.Command {
	var plusOnes int
	cmd := &cobra.Command{
		Use:   "respond EVENT GUEST STATUS",
		Short: "Record a guest's answer: accepted, declined or waiting-approval",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := a.findGuest(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			status, err := choose("response", args[2], responses)
			if err != nil {
				return err
			}
			if err := a.events.RespondInvitation(cmd.Context(), inv.ID, status, plusOnes); err != nil {
				return err
			}
			a.printf("%s %s\n", inv.GuestName, statusLabel(status))
			return nil
		},
	}
	cmd.Flags().IntVarP(&plusOnes, "plus", "p", 0, "number of additional guests")
	return cmd
}

func (a *App) guestRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm EVENT GUEST",
		Aliases: []string{"remove"},
		Short:   "Withdraw an invitation",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := a.findGuest(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if err := a.events.RemoveInvitation(cmd.Context(), inv.ID); err != nil {
				return err
			}
			a.printf("%s %s\n", okStyle.Render("Removed"), inv.GuestName)
			return nil
		},
	}
}

func (a *App) findGuest(ctx context.Context, eventPrefix, guestPrefix string) (*models.Invitation, error) {
	e, err := a.findEvent(ctx, eventPrefix)
	if err != nil {
		return nil, err
	}
	guests, err := a.events.ListInvitations(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	return matchID("guest", guests, func(i *models.Invitation) string { return i.ID }, guestPrefix)
}
