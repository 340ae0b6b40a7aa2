package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gatherly/internal/client/models"
	"github.com/spf13/cobra"
)

func (a *App) wishCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "wish",
		Aliases: []string{"wishlist"},
		GroupID: "data",
		Short:   "Keep a wishlist",
	}
	cmd.AddCommand(a.wishListCommand(), a.wishAddCommand(), a.wishRemoveCommand())
	return cmd
}

func (a *App) wishListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List wishlist items",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := a.events.ListWishlist(cmd.Context())
			if err != nil {
				return err
			}
			for _, it := range items {
				price := ""
				if it.Price != nil {
					price = fmt.Sprintf(" %.2f", *it.Price)
				}
				scope := ""
				if it.EventID != nil {
					scope = mutedStyle.Render(" [event " + shortID(*it.EventID) + "]")
				}
				a.printf("%s  %s  %s%s%s  %s\n", mutedStyle.Render(shortID(it.ID)), stars(it.Priority), headerStyle.Render(it.Title), price, scope, mutedStyle.Render(string(it.Status)))
			}
			return nil
		},
	}
}

func stars(priority int) string {
	if priority < 0 {
		priority = 0
	}
	return warnStyle.Render(strings.Repeat("*", priority)) + strings.Repeat(" ", max(0, models.MaxPriority-priority))
}

type wishFlags struct {
	url         string
	description string
	price       float64
	priority    int
	category    string
	event       string
	noFetch     bool
}

func (a *App) wishAddCommand() *cobra.Command {
	var f wishFlags
	cmd := &cobra.Command{
		Use:   "add [TITLE]",
		Short: "Add a wish; with --url the title, description and price are looked up",
		Example: `  gatherly wish add "Espresso machine" --price 299 --priority 3
  gatherly wish add --url https://shop.example/kettle`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := ""
			if len(args) == 1 {
				title = args[0]
			}
			it, err := a.AddWish(cmd.Context(), title, f, cmd.Flags().Changed("price"))
			if err != nil {
				return err
			}
			a.printf("%s %s %s\n", okStyle.Render("Added"), headerStyle.Render(it.Title), mutedStyle.Render(it.ID))
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.url, "url", "u", "", "product page")
	fl.StringVar(&f.description, "desc", "", "description")
	fl.Float64Var(&f.price, "price", 0, "price")
	fl.IntVarP(&f.priority, "priority", "p", 2, "priority from 1 (nice to have) to 3 (most wanted)")
	fl.StringVar(&f.category, "category", string(models.CategoryOther), "electronics, fashion, home, books, sports, beauty, toys, experiences or other")
	fl.StringVarP(&f.event, "event", "e", "", "attach to an event instead of the personal list")
	fl.BoolVar(&f.noFetch, "no-fetch", false, "do not look up the product page")
	return cmd
}

// AddWish builds and stores a wishlist item, filling blanks from the
// product page when a URL is given. Lookup failures are not fatal.
func (a *App) AddWish(ctx context.Context, title string, f wishFlags, priceSet bool) (*models.WishlistItem, error) {
	it := models.NewWishlistItem(a.session.AccountID(), strings.TrimSpace(title), a.now())
	it.URL = optional(f.url)
	it.Description = optional(f.description)
	it.Priority = f.priority
	if priceSet {
		p := f.price
		it.Price = &p
	}
	cat, err := choose("category", f.category, categories)
	if err != nil {
		return nil, err
	}
	it.Category = cat

	if f.event != "" {
		e, err := a.findEvent(ctx, f.event)
		if err != nil {
			return nil, err
		}
		it.EventID = &e.ID
	}

	if it.URL != nil && !f.noFetch && a.products != nil {
		meta, err := a.products.Fetch(ctx, *it.URL)
		if err != nil {
			a.log.Warn(ctx, "product lookup failed", "url", *it.URL, "error", err)
		}
		if meta != nil {
			if it.Title == "" {
				it.Title = meta.Title
			}
			if it.Description == nil {
				it.Description = optional(meta.Description)
			}
			if it.Price == nil && meta.Price != nil {
				p := *meta.Price
				it.Price = &p
			}
		}
	}

	if err := a.events.AddWishlistItem(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (a *App) wishRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Remove a wish",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.events.ListWishlist(cmd.Context())
			if err != nil {
				return err
			}
			it, err := matchID("wish", items, func(w *models.WishlistItem) string { return w.ID }, args[0])
			if err != nil {
				return err
			}
			if err := a.events.RemoveWishlistItem(cmd.Context(), it.ID); err != nil {
				return err
			}
			a.printf("%s %s\n", okStyle.Render("Removed"), it.Title)
			return nil
		},
	}
}
