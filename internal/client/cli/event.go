package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gatherly/internal/client/models"
	"github.com/spf13/cobra"
)

type eventFlags struct {
	title       string
	kind        string
	when        string
	description string
	location    string
	address     string
	maxGuests   int
	rsvp        string
	cover       string
}

func (f *eventFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.title, "title", "t", "", "event title")
	fl.StringVar(&f.kind, "type", string(models.EventTypeParty), "birthday, wedding, baby-shower, graduation, anniversary, party, holiday or other")
	fl.StringVarP(&f.when, "when", "w", "", `date and optional time: "2025-08-01 18:30" or "next friday 7pm"`)
	fl.StringVar(&f.description, "desc", "", "description")
	fl.StringVar(&f.location, "location", "", "location name")
	fl.StringVar(&f.address, "address", "", "location address")
	fl.IntVar(&f.maxGuests, "max-guests", 0, "guest capacity, 0 for none")
	fl.StringVar(&f.rsvp, "rsvp", "", "RSVP deadline date")
	fl.StringVar(&f.cover, "cover", "", "local cover image, uploaded on the next sync")
}

// apply copies the flags that were set on cmd into e.
func (f *eventFlags) apply(cmd *cobra.Command, a *App, e *models.Event) error {
	changed := cmd.Flags().Changed
	if changed("title") {
		e.Title = f.title
	}
	if changed("type") || e.Type == "" {
		t, err := choose("event type", f.kind, eventTypes)
		if err != nil {
			return err
		}
		e.Type = t
	}
	if changed("when") {
		d, t, err := parseWhen(f.when, a.now().In(a.loc))
		if err != nil {
			return err
		}
		e.Date, e.Time = d, t
	}
	if changed("desc") {
		e.Description = optional(f.description)
	}
	if changed("location") {
		e.LocationName = optional(f.location)
	}
	if changed("address") {
		e.LocationAddress = optional(f.address)
	}
	if changed("max-guests") {
		e.MaxGuests = nil
		if f.maxGuests > 0 {
			n := f.maxGuests
			e.MaxGuests = &n
		}
	}
	if changed("rsvp") {
		e.RSVPDeadline = nil
		if f.rsvp != "" {
			d, _, err := parseWhen(f.rsvp, a.now().In(a.loc))
			if err != nil {
				return err
			}
			e.RSVPDeadline = &d
		}
	}
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (a *App) eventCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "event",
		Aliases: []string{"events"},
		GroupID: "data",
		Short:   "Create, edit and remove events",
	}
	cmd.AddCommand(
		a.eventListCommand(),
		a.eventAddCommand(),
		a.eventShowCommand(),
		a.eventEditCommand(),
		a.eventCoverCommand(),
		a.eventRemoveCommand(),
	)
	return cmd
}

func (a *App) eventListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List events",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			events, err := a.events.ListEvents(cmd.Context())
			if err != nil {
				return err
			}
			if len(events) == 0 {
				a.printf("%s\n", mutedStyle.Render("No events yet, add one with 'gatherly event add'"))
				return nil
			}
			for _, e := range events {
				a.printf("%s  %s  %s  %s\n", mutedStyle.Render(shortID(e.ID)), eventWhen(e), headerStyle.Render(e.Title), mutedStyle.Render(string(e.Type)))
			}
			return nil
		},
	}
}

func eventWhen(e *models.Event) string {
	if e.Time == nil {
		return e.Date.String() + "      "
	}
	return fmt.Sprintf("%s %02d:%02d", e.Date, e.Time.Hour, e.Time.Minute)
}

func (a *App) eventAddCommand() *cobra.Command {
	var f eventFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an event locally",
		Example: `  gatherly event add -t "Anna turns 30" --type birthday -w "next saturday 7pm"
  gatherly event add -t "Summer BBQ" -w 2025-08-01 --location "Backyard" --max-guests 25`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("when") {
				return fmt.Errorf("--when is required")
			}
			e := models.NewEvent(a.session.AccountID(), "", f.title, models.Date{}, a.now())
			if err := f.apply(cmd, a, e); err != nil {
				return err
			}
			if err := a.events.CreateEvent(cmd.Context(), e); err != nil {
				return err
			}
			if f.cover != "" {
				if err := a.events.SetCoverImage(cmd.Context(), e.ID, f.cover); err != nil {
					return err
				}
			}
			a.printf("%s %s %s\n", okStyle.Render("Created"), headerStyle.Render(e.Title), mutedStyle.Render(e.ID))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func (a *App) eventEditCommand() *cobra.Command {
	var f eventFlags
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change fields of an event; only the given flags are touched",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.findEvent(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := f.apply(cmd, a, e); err != nil {
				return err
			}
			if err := a.events.UpdateEvent(cmd.Context(), e); err != nil {
				return err
			}
			if f.cover != "" {
				if err := a.events.SetCoverImage(cmd.Context(), e.ID, f.cover); err != nil {
					return err
				}
			}
			a.printf("%s %s\n", okStyle.Render("Updated"), headerStyle.Render(e.Title))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func (a *App) eventCoverCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cover ID PATH",
		Short: "Set the cover image; it is uploaded on the next sync",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.findEvent(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.events.SetCoverImage(cmd.Context(), e.ID, args[1]); err != nil {
				return err
			}
			a.printf("%s %s\n", okStyle.Render("Cover staged for"), headerStyle.Render(e.Title))
			return nil
		},
	}
}

func (a *App) eventShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show an event with its guests and photos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := a.findEvent(ctx, args[0])
			if err != nil {
				return err
			}
			guests, err := a.events.ListInvitations(ctx, e.ID)
			if err != nil {
				return err
			}
			photos, err := a.events.ListPhotos(ctx, e.ID)
			if err != nil {
				return err
			}

			capacity := "-"
			if e.MaxGuests != nil {
				capacity = itoa(*e.MaxGuests)
			}
			rsvp := "-"
			if e.RSVPDeadline != nil {
				rsvp = e.RSVPDeadline.String()
			}
			cover := orDash(e.CoverImageURL)
			if e.CoverImagePath != nil {
				cover = *e.CoverImagePath + mutedStyle.Render(" (not uploaded)")
			}

			rows := [][2]string{
				{"ID", e.ID},
				{"Type", string(e.Type)},
				{"When", strings.TrimSpace(eventWhen(e))},
				{"Location", orDash(e.LocationName)},
				{"Address", orDash(e.LocationAddress)},
				{"Capacity", capacity},
				{"RSVP by", rsvp},
				{"Cover", cover},
				{"Guests", guestSummary(guests)},
				{"Photos", itoa(len(photos))},
			}
			body := headerStyle.Render(e.Title) + "\n"
			if e.Description != nil {
				body += mutedStyle.Render(*e.Description) + "\n"
			}
			a.printf("%s\n", boxStyle.Render(body+kv(rows)))
			return nil
		},
	}
}

func guestSummary(guests []*models.Invitation) string {
	counts := map[models.InvitationStatus]int{}
	plus := 0
	for _, g := range guests {
		counts[g.Status]++
		if g.Status == models.InvitationAccepted {
			plus += g.PlusOnes
		}
	}
	s := fmt.Sprintf("%d invited, %d accepted", len(guests), counts[models.InvitationAccepted])
	if plus > 0 {
		s += fmt.Sprintf(" (+%d)", plus)
	}
	return s + fmt.Sprintf(", %d declined", counts[models.InvitationDeclined])
}

func (a *App) eventRemoveCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove an event with its guests, photos and wishlist",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.findEvent(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !yes {
				ok, err := confirm(a.in, a.out, fmt.Sprintf("Remove %q and everything attached to it?", e.Title))
				if err != nil || !ok {
					return err
				}
			}
			if err := a.events.RemoveEvent(cmd.Context(), e.ID); err != nil {
				return err
			}
			a.printf("%s %s\n", okStyle.Render("Removed"), e.Title)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (a *App) findEvent(ctx context.Context, prefix string) (*models.Event, error) {
	events, err := a.events.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	return matchID("event", events, func(e *models.Event) string { return e.ID }, prefix)
}
