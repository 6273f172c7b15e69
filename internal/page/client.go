package page

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/wishctl/internal/models"
	"github.com/desertthunder/wishctl/internal/services"
	"github.com/desertthunder/wishctl/internal/shared"
)

// Policy decides whether historically silent failures reach the banner.
type Policy int

const (
	PolicyBestEffort Policy = iota
	PolicyReport
)

// ParsePolicy maps a config value onto a [Policy].
func ParsePolicy(s string) (Policy, error) {
	switch strings.TrimSpace(s) {
	case "", shared.PolicyBestEffort:
		return PolicyBestEffort, nil
	case shared.PolicyReport:
		return PolicyReport, nil
	}
	return PolicyBestEffort, fmt.Errorf("%w: unknown failure policy %q", shared.ErrInvalidConfig, s)
}

// Messages shown when a request fails without a server-authored message.
const (
	MsgDeleteFailed  = "Unable to delete item. Please try again."
	MsgShareFailed   = "Unable to share link. Please try again."
	MsgMarkFailed    = "Unable to update item. Please try again."
	MsgAddFailed     = "Unable to add item. Please try again."
	MsgCreateFailed  = "Unable to create wishlist. Please try again."
	MsgRecoverFailed = "Unable to send recovery email. Please try again."
	MsgListFailed    = "Unable to refresh the item list."
	MsgCopyFailed    = "Unable to copy the link."
	MsgCopied        = "Copied link to clipboard"
)

// Copier writes text to a clipboard.
type Copier interface {
	Copy(text string) error
}

// Client is the wishlist page controller. Every handler issues one request and patches the [Document].
type Client struct {
	service    services.Service
	doc        *Document
	location   *Location
	wishlistID string
	clipboard  Copier
	open       func(string) error
	policy     Policy
	logger     *log.Logger
}

// ClientOpts contains the dependencies of a [Client].
type ClientOpts struct {
	Service    services.Service
	Document   *Document
	Location   *Location
	WishlistID string // defaults to the id in Location's path
	Clipboard  Copier
	Open       func(string) error
	Policy     Policy
	Logger     *log.Logger
}

// NewClient creates a page controller.
//
// The wishlist id is fixed at construction; pages without one (the creation page) may
// only use [Client.CreateWishlist] and [Client.Recover].
func NewClient(opts ClientOpts) (*Client, error) {
	if opts.Service == nil {
		return nil, fmt.Errorf("%w: wishlist service not initialized", shared.ErrServiceUnavailable)
	}
	if opts.Location == nil {
		return nil, fmt.Errorf("%w: page location", shared.ErrMissingArgument)
	}
	if opts.Document == nil {
		opts.Document = NewDocument()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = shared.NewClipboard(nil)
	}
	if opts.Open == nil {
		opts.Open = shared.OpenBrowser
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	id := shared.NormalizeID(opts.WishlistID)
	if id == "" {
		id = opts.Location.WishlistID()
	}

	return &Client{
		service:    opts.Service,
		doc:        opts.Document,
		location:   opts.Location,
		wishlistID: id,
		clipboard:  opts.Clipboard,
		open:       opts.Open,
		policy:     opts.Policy,
		logger:     shared.WithLogger(opts.Logger, "wishlist", id),
	}, nil
}

func (c *Client) Document() *Document { return c.doc }
func (c *Client) Location() *Location { return c.location }
func (c *Client) WishlistID() string  { return c.wishlistID }
func (c *Client) Policy() Policy      { return c.policy }

// Notify renders feedback in target, or the default banner when no target is given.
func (c *Client) Notify(kind Kind, message string, target ...Selector) {
	sel := DefaultBanner
	if len(target) > 0 {
		sel = target[0]
	}
	c.doc.Notify(kind, message, sel)
}

// CurrentToken re-reads the token from the page URL on every call.
func (c *Client) CurrentToken() string {
	return c.location.Token()
}

// MarkItem sends the checkbox's current state as the item's gotten flag.
//
// On success a checked control is locked and an unchecked one re-enabled. On rejection the
// click is undone. A transport failure leaves the click in place unless the policy reports;
// either way it is returned.
func (c *Client) MarkItem(ctx context.Context, itemID string) error {
	cb, ok := c.doc.Checkbox(itemID)
	if !ok {
		c.logger.Warn("mark on unknown item", "item", itemID)
		return nil
	}
	if !c.requireWishlist("mark") {
		return nil
	}

	result, err := c.service.MarkItem(ctx, c.wishlistID, itemID, models.MarkRequest{
		Gotten: cb.Checked,
		Token:  c.CurrentToken(),
	})
	if err != nil {
		c.logger.Warn("mark request failed", "item", itemID, "err", err)
		if c.policy == PolicyReport {
			c.doc.SetChecked(itemID, !cb.Checked)
			c.Notify(Error, MsgMarkFailed)
		}
		return err
	}

	if !result.OK() {
		c.Notify(Error, result.Message)
		c.doc.SetChecked(itemID, !cb.Checked)
		return nil
	}

	c.doc.SetDisabled(itemID, cb.Checked)
	return nil
}

// DeleteItem deletes an item and removes its row.
func (c *Client) DeleteItem(ctx context.Context, itemID string) {
	if !c.requireWishlist("delete") {
		return
	}

	result, err := c.service.DeleteItem(ctx, c.wishlistID, itemID, c.CurrentToken())
	if err != nil {
		c.logger.Warn("delete request failed", "item", itemID, "err", err)
		c.Notify(Error, MsgDeleteFailed)
		return
	}
	if !result.OK() {
		c.Notify(Error, result.Message)
		return
	}

	if !c.doc.RemoveItem(itemID) {
		c.logger.Debug("deleted item had no row", "item", itemID)
	}
	c.Notify(Success, result.Message)
}

// ShowItems replaces the item list with a fresh rendering of wishlistID.
//
// The error is returned whatever the policy; under [PolicyBestEffort] the previous list
// and banner are left untouched.
func (c *Client) ShowItems(ctx context.Context, wishlistID string) error {
	wishlistID = shared.NormalizeID(wishlistID)
	if wishlistID == "" {
		wishlistID = c.wishlistID
	}
	if wishlistID == "" {
		return c.listFailed(shared.ErrMissingWishlistID)
	}

	fragment, err := c.service.Items(ctx, wishlistID, c.CurrentToken())
	if err != nil {
		return c.listFailed(err)
	}

	items, err := ParseItems(fragment)
	if err != nil {
		return c.listFailed(err)
	}

	c.doc.ReplaceItems(fragment, items)
	return nil
}

func (c *Client) listFailed(err error) error {
	c.logger.Warn("item list refresh failed", "err", err)
	if c.policy == PolicyReport {
		c.Notify(Error, MsgListFailed)
	}
	return err
}

// AddItem submits the add item form. The bool is always false: the form never submits natively.
// The error is the transport failure, if any.
func (c *Client) AddItem(ctx context.Context) (bool, error) {
	if !c.requireWishlist("add") {
		return false, nil
	}

	form := models.ItemForm{
		Name:        c.doc.Input(InputName),
		Description: c.doc.Input(InputDescription),
		URL:         c.doc.Input(InputURL),
	}

	result, err := c.service.AddItem(ctx, c.wishlistID, c.CurrentToken(), form)
	if err != nil {
		return false, c.transportFailed("add item", err, MsgAddFailed)
	}
	if !result.OK() {
		c.Notify(Error, result.Message)
		return false, nil
	}

	c.Notify(Success, result.Message)
	_ = c.ShowItems(ctx, result.ID)
	c.doc.ClearInputs()
	return false, nil
}

// CreateWishlist submits the creation form. No token is sent.
func (c *Client) CreateWishlist(ctx context.Context) (bool, error) {
	form := models.WishlistForm{
		Name:     c.doc.Input(InputName),
		Username: c.doc.Input(InputUsername),
		Email:    c.doc.Input(InputEmail),
	}

	result, err := c.service.CreateWishlist(ctx, form)
	if err != nil {
		return false, c.transportFailed("create wishlist", err, MsgCreateFailed)
	}
	if !result.OK() {
		c.Notify(Error, result.Message)
		return false, nil
	}

	c.Notify(Success, result.Message)
	c.doc.ClearInputs()
	return false, nil
}

// ShareEmail submits the share modal. Failures are shown inside the modal, never in the default banner.
func (c *Client) ShareEmail(ctx context.Context) bool {
	if c.wishlistID == "" {
		c.Notify(Error, MsgShareFailed, ModalBanner)
		return false
	}

	form := models.ShareForm{Email: c.doc.Input(InputShareEmail)}

	result, err := c.service.Share(ctx, c.wishlistID, c.CurrentToken(), form)
	if err != nil {
		c.logger.Warn("share request failed", "err", err)
		c.Notify(Error, MsgShareFailed, ModalBanner)
		return false
	}
	if !result.OK() {
		c.Notify(Error, result.Message, ModalBanner)
		return false
	}

	c.doc.HideModal(ShareModal)
	c.doc.ClearInputs()
	c.Notify(Success, result.Message)
	return false
}

// Recover asks the service to re-send management links to #email.
func (c *Client) Recover(ctx context.Context) (bool, error) {
	result, err := c.service.Recover(ctx, models.RecoverForm{Email: c.doc.Input(InputEmail)})
	if err != nil {
		return false, c.transportFailed("recover", err, MsgRecoverFailed)
	}
	if !result.OK() {
		c.Notify(Error, result.Message)
		return false, nil
	}

	c.Notify(Success, result.Message)
	return false, nil
}

// CopyLink copies url to the clipboard. The outcome reaches the banner only under [PolicyReport].
func (c *Client) CopyLink(url string) error {
	err := c.clipboard.Copy(url)
	if err != nil {
		c.logger.Warn("copy link failed", "err", err)
	}

	if c.policy == PolicyReport {
		if err != nil {
			c.Notify(Error, MsgCopyFailed)
		} else {
			c.Notify(Success, MsgCopied)
		}
	}
	return err
}

// Open shows the current page in the system browser.
func (c *Client) Open() error {
	if err := c.open(c.location.String()); err != nil {
		return fmt.Errorf("failed to open page: %w", err)
	}
	return nil
}

// transportFailed applies the policy to the banner and hands err back to the caller.
func (c *Client) transportFailed(op string, err error, message string) error {
	c.logger.Warn(op+" request failed", "err", err)
	if c.policy == PolicyReport {
		c.Notify(Error, message)
	}
	return err
}

func (c *Client) requireWishlist(op string) bool {
	if c.wishlistID != "" {
		return true
	}
	err := fmt.Errorf("%s: %w", op, shared.ErrMissingWishlistID)
	c.logger.Error("handler needs a wishlist page", "err", err)
	c.Notify(Error, err.Error())
	return false
}

// IsTransport reports whether err means the service never produced an envelope.
func IsTransport(err error) bool {
	return errors.Is(err, shared.ErrTransport) || errors.Is(err, shared.ErrUnexpectedResponse)
}
