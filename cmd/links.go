package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/wishctl/internal/models"
	"github.com/desertthunder/wishctl/internal/page"
	"github.com/desertthunder/wishctl/internal/shared"
	"github.com/urfave/cli/v3"
)

// linkView is the JSON shape of a saved link.
type linkView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	WishlistID string    `json:"wishlist_id"`
	URL        string    `json:"url"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

// LinksAdd saves a page URL under a name.
func (r *Runner) LinksAdd(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.StringArg("name"))
	if name == "" {
		return fmt.Errorf("%w: link name", shared.ErrMissingArgument)
	}

	pageURL := cmd.String("page")
	loc, err := page.ParseLocation(pageURL)
	if err != nil {
		return err
	}
	if loc.WishlistID() == "" {
		return fmt.Errorf("%w: %s is not a wishlist page", shared.ErrMissingWishlistID, pageURL)
	}

	role := models.LinkRole(cmd.String("role"))
	if role != models.RoleOwner && role != models.RoleShare {
		return fmt.Errorf("%w: --role must be %q or %q", shared.ErrInvalidFlag, models.RoleOwner, models.RoleShare)
	}

	store, err := r.linkStore()
	if err != nil {
		return err
	}

	link := models.NewLink(name, loc.WishlistID(), loc.String(), role)
	if err := store.Create(link); err != nil {
		return fmt.Errorf("failed to save link: %w", err)
	}

	r.logger.Info("saved link", "name", link.Name(), "wishlist", link.WishlistID())
	return r.writePlain("✓ Saved %s link %q\n", link.Role(), link.Name())
}

// LinksList prints saved links.
func (r *Runner) LinksList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.linkStore()
	if err != nil {
		return err
	}

	links, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list links: %w", err)
	}

	if cmd.Bool("json") {
		views := make([]linkView, len(links))
		for i, l := range links {
			views[i] = linkView{ID: l.ID(), Name: l.Name(), WishlistID: l.WishlistID(), URL: l.URL(), Role: string(l.Role()), CreatedAt: l.CreatedAt()}
		}
		return r.writeJSON(views, cmd.Bool("pretty"))
	}

	if len(links) == 0 {
		return r.writePlain("No saved links\n")
	}
	for _, l := range links {
		r.writePlain("%-20s %-6s %s\n", l.Name(), l.Role(), l.WishlistID())
	}
	return nil
}

// LinksRemove deletes a saved link by name or id.
func (r *Runner) LinksRemove(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.StringArg("name"))
	if name == "" {
		return fmt.Errorf("%w: link name", shared.ErrMissingArgument)
	}

	store, err := r.linkStore()
	if err != nil {
		return err
	}
	if err := store.Delete(name); err != nil {
		return err
	}
	return r.writePlain("✓ Removed link %q\n", name)
}
