package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/wishctl/internal/models"
	"github.com/desertthunder/wishctl/internal/shared"
	tu "github.com/desertthunder/wishctl/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistService(t *testing.T) {
	ctx := context.Background()

	t.Run("New", func(t *testing.T) {
		t.Run("defaults", func(t *testing.T) {
			srv := NewWishlistService(WishlistOpts{})

			assert.Equal(t, "http://localhost:5000", srv.BaseURL())
			assert.Equal(t, defaultUserAgent, srv.userAgent)
			assert.Equal(t, defaultTimeout, srv.httpClient.Timeout)
			assert.Nil(t, srv.limiter)
		})

		t.Run("trims trailing slash and keeps custom client", func(t *testing.T) {
			client := &http.Client{}
			srv := NewWishlistService(WishlistOpts{BaseURL: "https://wish.example.com/", HTTPClient: client, RateLimit: 2})

			assert.Equal(t, "https://wish.example.com", srv.BaseURL())
			assert.Same(t, client, srv.httpClient)
			assert.NotNil(t, srv.limiter)
		})

		t.Run("default client keeps the session cookie", func(t *testing.T) {
			fake := tu.NewFakeWishlist(t)
			srv := NewWishlistService(WishlistOpts{BaseURL: fake.URL()})
			require.NotNil(t, srv.httpClient.Jar)

			_, err := srv.Items(ctx, tu.WishlistID, "tok")
			require.NoError(t, err)
			_, err = srv.MarkItem(ctx, tu.WishlistID, tu.ItemBook, models.MarkRequest{Gotten: true, Token: "tok"})
			require.NoError(t, err)

			reqs := fake.Requests()
			require.Len(t, reqs, 2)
			assert.Empty(t, reqs[0].Session)
			assert.Equal(t, "session-1", reqs[1].Session, "second request reuses the first session")
		})

		t.Run("from config", func(t *testing.T) {
			cfg := shared.DefaultConfig()
			cfg.Server.TimeoutSeconds = 3
			srv := NewWishlistServiceFromConfig(cfg)

			assert.Equal(t, cfg.Server.BaseURL, srv.BaseURL())
			assert.Equal(t, 3*time.Second, srv.httpClient.Timeout)
		})
	})

	t.Run("CreateWishlist", func(t *testing.T) {
		fake := tu.NewFakeWishlist(t)
		fake.RespondEnvelope(tu.RouteCreate, http.StatusOK, 1, "Created")
		srv := NewWishlistService(WishlistOpts{BaseURL: fake.URL()})

		result, err := srv.CreateWishlist(ctx, models.WishlistForm{Name: "Birthday", Username: "al", Email: "a@b.com"})
		require.NoError(t, err)
		assert.True(t, result.OK())
		assert.Equal(t, "Created", result.Message)

		req, ok := fake.Last()
		require.True(t, ok)
		assert.Equal(t, "/wishlist/add", req.Path)
		assert.False(t, req.HasTok, "creation must not carry a token")
		assert.Equal(t, map[string]any{"name": "Birthday", "username": "al", "email": "a@b.com"}, req.Body)
	})

	t.Run("Items", func(t *testing.T) {
		fake := tu.NewFakeWishlist(t)
		srv := NewWishlistService(WishlistOpts{BaseURL: fake.URL()})

		fragment, err := srv.Items(ctx, tu.WishlistID, "share-tok")
		require.NoError(t, err)
		assert.Equal(t, tu.ItemsFragment, fragment)

		req, _ := fake.Last()
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, tu.WishlistID, req.Vars["id"])
		assert.Equal(t, "share-tok", req.Token)
	})

	t.Run("Items Error Status", func(t *testing.T) {
		fake := tu.NewFakeWishlist(t)
		fake.Respond(tu.RouteItems, tu.FakeResponse{Code: http.StatusUnauthorized, Body: "<h1>Invalid token</h1>"})
		srv := NewWishlistService(WishlistOpts{BaseURL: fake.URL()})

		_, err := srv.Items(ctx, tu.WishlistID, "bad")
		assert.ErrorIs(t, err, shared.ErrAPIRequest)
	})

	t.Run("AddItem", func(t *testing.T) {
		fake := tu.NewFakeWishlist(t)
		srv := NewWishlistService(WishlistOpts{BaseURL: fake.URL()})

		result, err := srv.AddItem(ctx, tu.WishlistID, "owner-tok", models.ItemForm{Name: "Lego", Description: "big", URL: "https://example.com"})
		require.NoError(t, err)
		assert.True(t, result.OK())
		assert.Equal(t, tu.WishlistID, result.ID)

		req, _ := fake.Last()
		assert.Equal(t, tu.RouteAdd, req.Route)
		assert.Equal(t, "owner-tok", req.Token)
		assert.Equal(t, map[string]any{"name": "Lego", "description": "big", "url": "https://example.com"}, req.Body)
	})

	t.Run("MarkItem Sends Token In Body", func(t *testing.T) {
		fake := tu.NewFakeWishlist(t)
		srv := NewWishlistService(WishlistOpts{BaseURL: fake.URL()})

		result, err := srv.MarkItem(ctx, tu.WishlistID, tu.ItemBook, models.MarkRequest{Gotten: true, Token: "share-tok"})
		require.NoError(t, err)
		assert.True(t, result.OK())

		req, _ := fake.Last()
		assert.Equal(t, tu.RouteMark, req.Route)
		assert.Equal(t, tu.ItemBook, req.Vars["itemID"])
		assert.False(t, req.HasTok, "mark carries its token in the body")
		assert.Equal(t, map[string]any{"gotten": true, "token": "share-tok"}, req.Body)
	})

	t.Run("DeleteItem Application Failure Is Not An Error", func(t *testing.T) {
		fake := tu.NewFakeWishlist(t)
		fake.RespondEnvelope(tu.RouteDelete, http.StatusInternalServerError, 0, "Not found")
		srv := NewWishlistService(WishlistOpts{BaseURL: fake.URL()})

		result, err := srv.DeleteItem(ctx, tu.WishlistID, "7", "owner-tok")
		require.NoError(t, err)
		assert.False(t, result.OK())
		assert.Equal(t, "Not found", result.Message)

		req, _ := fake.Last()
		assert.Equal(t, http.MethodDelete, req.Method)
		assert.Equal(t, "7", req.Vars["itemID"])
		assert.Equal(t, "owner-tok", req.Token)
	})

	t.Run("Share", func(t *testing.T) {
		fake := tu.NewFakeWishlist(t)
		srv := NewWishlistService(WishlistOpts{BaseURL: fake.URL()})

		result, err := srv.Share(ctx, tu.WishlistID, "owner-tok", models.ShareForm{Email: "friend@example.com"})
		require.NoError(t, err)
		assert.True(t, result.OK())

		req, _ := fake.Last()
		assert.Equal(t, "owner-tok", req.Token)
		assert.Equal(t, map[string]any{"email": "friend@example.com"}, req.Body)
	})

	t.Run("Recover", func(t *testing.T) {
		t.Run("plain text success", func(t *testing.T) {
			fake := tu.NewFakeWishlist(t)
			srv := NewWishlistService(WishlistOpts{BaseURL: fake.URL()})

			result, err := srv.Recover(ctx, models.RecoverForm{Email: "a@b.com"})
			require.NoError(t, err)
			assert.True(t, result.OK())
			assert.True(t, strings.HasPrefix(result.Message, "Thanks!"))
		})

		t.Run("envelope failure", func(t *testing.T) {
			fake := tu.NewFakeWishlist(t)
			fake.RespondEnvelope(tu.RouteRecover, http.StatusBadRequest, 0, "Please enter your email address!")
			srv := NewWishlistService(WishlistOpts{BaseURL: fake.URL()})

			result, err := srv.Recover(ctx, models.RecoverForm{})
			require.NoError(t, err)
			assert.False(t, result.OK())
		})

		t.Run("plain text error", func(t *testing.T) {
			fake := tu.NewFakeWishlist(t)
			fake.Respond(tu.RouteRecover, tu.FakeResponse{Code: http.StatusInternalServerError, Body: "oops"})
			srv := NewWishlistService(WishlistOpts{BaseURL: fake.URL()})

			_, err := srv.Recover(ctx, models.RecoverForm{Email: "a@b.com"})
			assert.ErrorIs(t, err, shared.ErrUnexpectedResponse)
		})
	})

	t.Run("Transport Failures", func(t *testing.T) {
		t.Run("connection dropped", func(t *testing.T) {
			fake := tu.NewFakeWishlist(t)
			fake.Hangup(tu.RouteShare)
			srv := NewWishlistService(WishlistOpts{BaseURL: fake.URL()})

			_, err := srv.Share(ctx, tu.WishlistID, "tok", models.ShareForm{Email: "x@y.z"})
			assert.ErrorIs(t, err, shared.ErrTransport)
		})

		t.Run("round trip error", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
			srv := NewWishlistService(WishlistOpts{BaseURL: "http://example.com", HTTPClient: client})

			_, err := srv.MarkItem(ctx, "1", "2", models.MarkRequest{})
			assert.ErrorIs(t, err, shared.ErrTransport)
		})

		t.Run("body read failure", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(&http.Response{
				StatusCode: http.StatusOK,
				Body:       &tu.FCloser{},
				Header:     http.Header{},
			}, nil)}
			srv := NewWishlistService(WishlistOpts{BaseURL: "http://example.com", HTTPClient: client})

			_, err := srv.Items(ctx, "1", "tok")
			assert.ErrorIs(t, err, shared.ErrTransport)
		})

		t.Run("non-envelope body", func(t *testing.T) {
			fake := tu.NewFakeWishlist(t)
			fake.Respond(tu.RouteAdd, tu.FakeResponse{Code: http.StatusBadGateway, Body: "<html>bad gateway</html>"})
			srv := NewWishlistService(WishlistOpts{BaseURL: fake.URL()})

			_, err := srv.AddItem(ctx, tu.WishlistID, "tok", models.ItemForm{})
			assert.ErrorIs(t, err, shared.ErrUnexpectedResponse)
		})

		t.Run("invalid request", func(t *testing.T) {
			srv := NewWishlistService(WishlistOpts{BaseURL: "http://example.com\x00"})

			_, err := srv.Items(ctx, "1", "tok")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to create request")
		})

		t.Run("cancelled while rate limited", func(t *testing.T) {
			fake := tu.NewFakeWishlist(t)
			srv := NewWishlistService(WishlistOpts{BaseURL: fake.URL(), RateLimit: 0.001})

			_, err := srv.Items(ctx, tu.WishlistID, "tok")
			require.NoError(t, err)

			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err = srv.Items(cctx, tu.WishlistID, "tok")
			assert.ErrorIs(t, err, shared.ErrTransport)
			assert.Len(t, fake.Calls(tu.RouteItems), 1)
		})
	})
}

func TestEndpoint(t *testing.T) {
	tc := []struct {
		name     string
		segments []string
		token    *string
		want     string
	}{
		{name: "plain", segments: []string{"wishlist", "add"}, want: "/wishlist/add"},
		{name: "escaped id", segments: []string{"wishlist", "a/b", "items"}, want: "/wishlist/a%2Fb/items"},
		{name: "empty token kept", segments: []string{"wishlist", "1", "share"}, token: new(string), want: "/wishlist/1/share?token="},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			if tt.token != nil {
				got = endpoint(tokenQuery(*tt.token), tt.segments...)
			} else {
				got = endpoint(nil, tt.segments...)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
