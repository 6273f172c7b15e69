package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/wishctl/internal/formatter"
	"github.com/desertthunder/wishctl/internal/models"
	"github.com/desertthunder/wishctl/internal/page"
	"github.com/desertthunder/wishctl/internal/services"
	"github.com/desertthunder/wishctl/internal/shared"
	"github.com/urfave/cli/v3"
)

// itemView is the JSON shape of an item row.
type itemView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	Gotten      bool   `json:"gotten"`
	Locked      bool   `json:"locked"`
}

// resolveLocation finds the page a command acts on from --page or --link.
//
// Commands that do not need a wishlist fall back to the configured service root.
func (r *Runner) resolveLocation(cmd *cli.Command, required bool) (*page.Location, bool, error) {
	pageURL := cmd.String("page")
	linkName := cmd.String("link")

	switch {
	case pageURL != "" && linkName != "":
		return nil, false, fmt.Errorf("%w: cannot specify both --page and --link", shared.ErrInvalidArgument)
	case pageURL != "":
		loc, err := page.ParseLocation(pageURL)
		return loc, true, err
	case linkName != "":
		store, err := r.linkStore()
		if err != nil {
			return nil, false, err
		}
		link, err := store.GetByName(linkName)
		if err != nil {
			return nil, false, err
		}
		r.logger.Debug("using saved link", "name", link.Name(), "role", link.Role())
		loc, err := page.ParseLocation(link.URL())
		return loc, true, err
	case required:
		return nil, false, fmt.Errorf("%w: --page or --link is required", shared.ErrMissingArgument)
	}

	loc, err := page.ParseLocation(r.config.Server.BaseURL)
	return loc, false, err
}

// newClient builds a page client for the command's page.
//
// The service root is --base-url when given, else the page's own host, else the configured base_url.
func (r *Runner) newClient(cmd *cli.Command, required bool) (*page.Client, error) {
	loc, fromPage, err := r.resolveLocation(cmd, required)
	if err != nil {
		return nil, err
	}

	policyName := cmd.String("policy")
	if policyName == "" {
		policyName = r.config.Client.FailurePolicy
	}
	policy, err := page.ParsePolicy(policyName)
	if err != nil {
		return nil, fmt.Errorf("%w: --policy: %v", shared.ErrInvalidFlag, err)
	}

	service := r.service
	if service == nil {
		base := cmd.String("base-url")
		if base == "" && fromPage {
			base = loc.ServiceRoot()
		}
		if base == "" {
			base = r.config.Server.BaseURL
		}
		cfg := *r.config
		cfg.Server.BaseURL = base
		service = services.NewWishlistServiceFromConfig(&cfg)
	}

	return page.NewClient(page.ClientOpts{
		Service:   service,
		Location:  loc,
		Clipboard: r.clipboard,
		Open:      r.open,
		Policy:    policy,
		Logger:    r.logger,
	})
}

// report prints the first visible banner among targets. An error banner becomes the command's error.
func (r *Runner) report(doc *page.Document, targets ...page.Selector) error {
	if len(targets) == 0 {
		targets = []page.Selector{page.DefaultBanner}
	}

	for _, sel := range targets {
		b := doc.Banner(sel)
		if !b.Visible {
			continue
		}
		if b.Kind == page.Error {
			r.writePlain("✗ %s\n", b.Message)
			return fmt.Errorf("%w: %s", shared.ErrApplication, b.Message)
		}
		return r.writePlain("✓ %s\n", b.Message)
	}
	return nil
}

// outcome reports the banner, then turns a request that never completed into the command's error.
//
// Under the best-effort policy the banner stays hidden for those, so the error is the only trace.
func (r *Runner) outcome(doc *page.Document, op string, err error) error {
	if rerr := r.report(doc); rerr != nil {
		return rerr
	}
	if err == nil {
		return nil
	}
	if page.IsTransport(err) {
		r.writePlain("✗ %s did not reach the wishlist service\n", op)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// findItem resolves an item reference by id or case-insensitive name against the loaded list.
func findItem(doc *page.Document, ref string) (models.Item, bool) {
	ref = strings.TrimSpace(ref)
	for _, it := range doc.Items() {
		if it.ID == ref || shared.NormalizeID(it.ID) == shared.NormalizeID(ref) {
			return it, true
		}
	}
	for _, it := range doc.Items() {
		if strings.EqualFold(it.Name, ref) {
			return it, true
		}
	}
	return models.Item{}, false
}

// Create creates a wishlist; the management link is sent by email.
func (r *Runner) Create(ctx context.Context, cmd *cli.Command) error {
	client, err := r.newClient(cmd, false)
	if err != nil {
		return err
	}

	doc := client.Document()
	doc.SetInput(page.InputName, cmd.String("name"))
	doc.SetInput(page.InputUsername, cmd.String("username"))
	doc.SetInput(page.InputEmail, cmd.String("email"))

	r.logger.Info("creating wishlist", "name", cmd.String("name"))
	_, err = client.CreateWishlist(ctx)
	return r.outcome(doc, "create wishlist", err)
}

// Recover asks the service to re-send management links.
func (r *Runner) Recover(ctx context.Context, cmd *cli.Command) error {
	client, err := r.newClient(cmd, false)
	if err != nil {
		return err
	}

	doc := client.Document()
	doc.SetInput(page.InputEmail, cmd.String("email"))
	_, err = client.Recover(ctx)
	return r.outcome(doc, "recover wishlists", err)
}

// Items prints the wishlist's items.
func (r *Runner) Items(ctx context.Context, cmd *cli.Command) error {
	client, err := r.newClient(cmd, true)
	if err != nil {
		return err
	}

	doc := client.Document()
	loadErr := client.ShowItems(ctx, "")
	if err := r.report(doc); err != nil {
		return err
	}
	if loadErr != nil {
		return fmt.Errorf("failed to load items: %w", loadErr)
	}

	if cmd.Bool("html") {
		return r.writePlain("%s\n", doc.ItemsHTML())
	}

	items := doc.Items()
	if cmd.Bool("json") {
		views := make([]itemView, len(items))
		for i, it := range items {
			views[i] = itemView{ID: it.ID, Name: it.Name, Description: it.Description, URL: it.URL, Gotten: it.Gotten, Locked: it.Disabled}
		}
		return r.writeJSON(views, cmd.Bool("pretty"))
	}

	title := cmd.String("link")
	if title == "" {
		title = "Wishlist " + client.WishlistID()
	}

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteExport(cmd.String("format"), title, items, path); err != nil {
			return err
		}
		return r.writePlain("✓ Wrote %d items to %s\n", len(items), path)
	}

	data, err := formatter.Export(cmd.String("format"), title, items)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// Add adds an item to the wishlist.
func (r *Runner) Add(ctx context.Context, cmd *cli.Command) error {
	client, err := r.newClient(cmd, true)
	if err != nil {
		return err
	}

	doc := client.Document()
	doc.SetInput(page.InputName, cmd.String("name"))
	doc.SetInput(page.InputDescription, cmd.String("description"))
	doc.SetInput(page.InputURL, cmd.String("url"))

	_, err = client.AddItem(ctx)
	return r.outcome(doc, "add item", err)
}

// Mark marks an item gotten, or not gotten with --undo.
func (r *Runner) Mark(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.StringArg("item")
	if ref == "" {
		return fmt.Errorf("%w: item id or name", shared.ErrMissingArgument)
	}

	client, err := r.newClient(cmd, true)
	if err != nil {
		return err
	}

	doc := client.Document()
	if err := client.ShowItems(ctx, ""); err != nil {
		r.report(doc)
		return fmt.Errorf("failed to load items: %w", err)
	}

	item, ok := findItem(doc, ref)
	if !ok {
		return fmt.Errorf("%w: no item %q on this wishlist", shared.ErrInvalidArgument, ref)
	}

	gotten := !cmd.Bool("undo")
	doc.SetChecked(item.ID, gotten)
	if err := r.outcome(doc, "mark item", client.MarkItem(ctx, item.ID)); err != nil {
		return err
	}

	cb, _ := doc.Checkbox(item.ID)
	state := "not gotten"
	if cb.Checked {
		state = "gotten"
	}
	return r.writePlain("%s is %s\n", item.Name, state)
}

// Delete removes an item from the wishlist.
func (r *Runner) Delete(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.StringArg("item")
	if ref == "" {
		return fmt.Errorf("%w: item id or name", shared.ErrMissingArgument)
	}

	client, err := r.newClient(cmd, true)
	if err != nil {
		return err
	}

	doc := client.Document()
	id := ref
	if err := client.ShowItems(ctx, ""); err == nil {
		if item, ok := findItem(doc, ref); ok {
			id = item.ID
		}
	}

	client.DeleteItem(ctx, id)
	return r.report(doc)
}

// Share emails the share link to a friend.
func (r *Runner) Share(ctx context.Context, cmd *cli.Command) error {
	client, err := r.newClient(cmd, true)
	if err != nil {
		return err
	}

	doc := client.Document()
	doc.ShowModal(page.ShareModal)
	doc.SetInput(page.InputShareEmail, cmd.String("email"))

	client.ShareEmail(ctx)
	return r.report(doc, page.ModalBanner, page.DefaultBanner)
}

// Copy copies the page link, or --url, to the clipboard.
func (r *Runner) Copy(ctx context.Context, cmd *cli.Command) error {
	client, err := r.newClient(cmd, true)
	if err != nil {
		return err
	}

	link := cmd.String("url")
	if link == "" {
		link = client.Location().String()
	}

	copyErr := client.CopyLink(link)
	if err := r.report(client.Document()); err != nil {
		return err
	}
	return copyErr
}

// Open opens the page in the system browser.
func (r *Runner) Open(ctx context.Context, cmd *cli.Command) error {
	client, err := r.newClient(cmd, true)
	if err != nil {
		return err
	}
	return client.Open()
}
