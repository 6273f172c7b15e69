package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/wishctl/internal/models"
	"github.com/desertthunder/wishctl/internal/shared"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "http://localhost:5000"
	defaultUserAgent = "wishctl/0.1"
	defaultTimeout   = 10 * time.Second

	// maxBody caps response reads; item fragments are small HTML documents.
	maxBody = 4 << 20
)

// Service is the request contract of the wishlist service.
//
// Mutating calls return the decoded [models.Result] whenever the service answered with an envelope,
// regardless of its status; errors are reserved for transport failures (no response, or a body that is
// not an envelope).
type Service interface {
	CreateWishlist(ctx context.Context, form models.WishlistForm) (*models.Result, error)
	Items(ctx context.Context, wishlistID, token string) (string, error)
	AddItem(ctx context.Context, wishlistID, token string, form models.ItemForm) (*models.Result, error)
	MarkItem(ctx context.Context, wishlistID, itemID string, req models.MarkRequest) (*models.Result, error)
	DeleteItem(ctx context.Context, wishlistID, itemID, token string) (*models.Result, error)
	Share(ctx context.Context, wishlistID, token string, form models.ShareForm) (*models.Result, error)
	Recover(ctx context.Context, form models.RecoverForm) (*models.Result, error)
}

var _ Service = (*WishlistService)(nil)

// WishlistService talks to the wishlist HTTP API.
type WishlistService struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
}

// WishlistOpts configures a [WishlistService].
type WishlistOpts struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
	Timeout    time.Duration
	RateLimit  float64 // requests per second, 0 disables
}

// NewWishlistService creates a new wishlist API client.
func NewWishlistService(opts WishlistOpts) *WishlistService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.HTTPClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		opts.HTTPClient = &http.Client{Timeout: timeout, Jar: newJar()}
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &WishlistService{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		userAgent:  opts.UserAgent,
		limiter:    limiter,
	}
}

// NewWishlistServiceFromConfig builds the client from the [shared.Config] server and client sections.
func NewWishlistServiceFromConfig(cfg *shared.Config) *WishlistService {
	return NewWishlistService(WishlistOpts{
		BaseURL:   cfg.Server.BaseURL,
		UserAgent: cfg.Server.UserAgent,
		Timeout:   time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		RateLimit: cfg.Client.RateLimit,
	})
}

// newJar keeps the service's session cookie across requests the way a browser tab does.
func newJar() http.CookieJar {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil
	}
	return jar
}

// BaseURL returns the service root all endpoint paths are appended to.
func (s *WishlistService) BaseURL() string { return s.baseURL }

// CreateWishlist posts to /wishlist/add. No token: creation precedes token issuance.
func (s *WishlistService) CreateWishlist(ctx context.Context, form models.WishlistForm) (*models.Result, error) {
	return s.envelope(ctx, http.MethodPost, endpoint(nil, "wishlist", "add"), form)
}

// Items fetches the pre-rendered HTML fragment listing every item of the wishlist.
func (s *WishlistService) Items(ctx context.Context, wishlistID, token string) (string, error) {
	resp, err := s.do(ctx, http.MethodGet, endpoint(tokenQuery(token), "wishlist", wishlistID, "items"), nil)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: list items returned %d", shared.ErrAPIRequest, resp.StatusCode)
	}
	return string(resp.Body), nil
}

// AddItem posts a new item. The token travels in the query string.
func (s *WishlistService) AddItem(ctx context.Context, wishlistID, token string, form models.ItemForm) (*models.Result, error) {
	return s.envelope(ctx, http.MethodPost, endpoint(tokenQuery(token), "wishlist", wishlistID, "item", "add"), form)
}

// MarkItem sets an item's gotten flag. The token travels in the body.
func (s *WishlistService) MarkItem(ctx context.Context, wishlistID, itemID string, req models.MarkRequest) (*models.Result, error) {
	return s.envelope(ctx, http.MethodPost, endpoint(nil, "wishlist", wishlistID, "item", itemID, "mark"), req)
}

// DeleteItem removes an item. The token travels in the query string.
func (s *WishlistService) DeleteItem(ctx context.Context, wishlistID, itemID, token string) (*models.Result, error) {
	return s.envelope(ctx, http.MethodDelete, endpoint(tokenQuery(token), "wishlist", wishlistID, "item", itemID), nil)
}

// Share asks the service to mail the share link to an address.
func (s *WishlistService) Share(ctx context.Context, wishlistID, token string, form models.ShareForm) (*models.Result, error) {
	return s.envelope(ctx, http.MethodPost, endpoint(tokenQuery(token), "wishlist", wishlistID, "share"), form)
}

// Recover asks the service to re-send management links for an address.
//
// The endpoint answers plain text; a 2xx plain body is a success whose message is the body.
func (s *WishlistService) Recover(ctx context.Context, form models.RecoverForm) (*models.Result, error) {
	resp, err := s.send(ctx, http.MethodPost, endpoint(nil, "wishlist", "recover"), form)
	if err != nil {
		return nil, err
	}

	if result, ok := decodeEnvelope(resp.Body); ok {
		return result, nil
	}
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return &models.Result{Status: models.StatusOK, Message: strings.TrimSpace(string(resp.Body))}, nil
	}
	return nil, fmt.Errorf("%w: recover returned %d", shared.ErrUnexpectedResponse, resp.StatusCode)
}

// rawResponse is a fully read HTTP response.
type rawResponse struct {
	StatusCode int
	Body       []byte
}

func (s *WishlistService) envelope(ctx context.Context, method, path string, body any) (*models.Result, error) {
	resp, err := s.send(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	result, ok := decodeEnvelope(resp.Body)
	if !ok {
		return nil, fmt.Errorf("%w: %s %s returned %d without an envelope", shared.ErrUnexpectedResponse, method, path, resp.StatusCode)
	}
	return result, nil
}

func (s *WishlistService) send(ctx context.Context, method, path string, body any) (*rawResponse, error) {
	if body == nil {
		return s.do(ctx, method, path, nil)
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return s.do(ctx, method, path, data)
}

func (s *WishlistService) do(ctx context.Context, method, path string, data []byte) (*rawResponse, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrTransport, err)
		}
	}

	var reader io.Reader
	if data != nil {
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json, text/html")
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrTransport, err)
	}

	return &rawResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

// decodeEnvelope reports whether body is a JSON object carrying the envelope.
func decodeEnvelope(body []byte) (*models.Result, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}

	var result models.Result
	if err := json.Unmarshal(trimmed, &result); err != nil {
		return nil, false
	}
	return &result, true
}

// endpoint joins escaped path segments and an optional query.
func endpoint(query url.Values, segments ...string) string {
	escaped := make([]string, len(segments))
	for i, seg := range segments {
		escaped[i] = url.PathEscape(seg)
	}

	path := "/" + strings.Join(escaped, "/")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return path
}

// tokenQuery always carries the token parameter, even when empty, so the
// service sees exactly what the page URL held.
func tokenQuery(token string) url.Values {
	return url.Values{"token": []string{token}}
}
