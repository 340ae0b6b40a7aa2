package cli

import (
	"github.com/dmitrijs2005/gatherly/internal/client/models"
	"github.com/spf13/cobra"
)

func (a *App) photoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "photo",
		Aliases: []string{"photos"},
		GroupID: "data",
		Short:   "Attach photos to an event",
	}
	cmd.AddCommand(a.photoListCommand(), a.photoAddCommand(), a.photoRemoveCommand())
	return cmd
}

func (a *App) photoListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list EVENT",
		Aliases: []string{"ls"},
		Short:   "List photos in display order",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.findEvent(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			photos, err := a.events.ListPhotos(cmd.Context(), e.ID)
			if err != nil {
				return err
			}
			for _, p := range photos {
				where := orDash(p.ImageURL)
				if p.ImageURL == nil && p.LocalPath != nil {
					where = *p.LocalPath + mutedStyle.Render(" (not uploaded)")
				}
				a.printf("%s  %2d  %s  %s\n", mutedStyle.Render(shortID(p.ID)), p.DisplayOrder, where, mutedStyle.Render(orDash(p.Caption)))
			}
			return nil
		},
	}
}

func (a *App) photoAddCommand() *cobra.Command {
	var caption string
	cmd := &cobra.Command{
		Use:   "add EVENT PATH...",
		Short: "Add photos; files are uploaded on the next sync",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.findEvent(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, path := range args[1:] {
				p, err := a.events.AddPhoto(cmd.Context(), e.ID, path, optional(caption))
				if err != nil {
					return err
				}
				a.printf("%s %s %s\n", okStyle.Render("Added"), path, mutedStyle.Render("#"+itoa(p.DisplayOrder)))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&caption, "caption", "m", "", "caption for the photos")
	return cmd
}

func (a *App) photoRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm EVENT PHOTO",
		Aliases: []string{"remove"},
		Short:   "Remove a photo; an uploaded image is deleted on the next sync",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.findEvent(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			photos, err := a.events.ListPhotos(cmd.Context(), e.ID)
			if err != nil {
				return err
			}
			p, err := matchID("photo", photos, func(p *models.EventPhoto) string { return p.ID }, args[1])
			if err != nil {
				return err
			}
			if err := a.events.RemovePhoto(cmd.Context(), p.ID); err != nil {
				return err
			}
			a.printf("%s %s\n", okStyle.Render("Removed photo"), shortID(p.ID))
			return nil
		},
	}
}
