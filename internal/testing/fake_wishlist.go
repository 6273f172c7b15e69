package testing

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"
)

// Route names understood by [FakeWishlist.Respond].
const (
	RouteCreate  = "create"
	RouteItems   = "items"
	RouteAdd     = "add"
	RouteMark    = "mark"
	RouteDelete  = "delete"
	RouteShare   = "share"
	RouteRecover = "recover"
)

// Sample ids used by [ItemsFragment].
const (
	WishlistID = "3f2b8c1e-8a9d-4f51-9b57-0d1e2f3a4b5c"
	ItemLego   = "9a1c6a62-5b0e-4d8e-a1f3-2a7c5d9e8f01"
	ItemBook   = "c4d2e7f8-1a3b-4c5d-8e9f-0a1b2c3d4e5f"
)

// ItemsFragment is a rendered item list as the service returns it.
const ItemsFragment = `<ul class="wishlist-items">
  <li class="item" data-item-id="` + ItemLego + `">
    <div class="card"><div class="card-body">
      <input type="checkbox" class="mark" id="` + ItemLego + `" checked disabled>
      <a class="item-name" href="https://example.com/lego">Lego set</a>
      <p class="item-description">The big one</p>
      <button class="delete" data-item-id="` + ItemLego + `">Delete</button>
    </div></div>
  </li>
  <li class="item" data-item-id="` + ItemBook + `">
    <div class="card"><div class="card-body">
      <input type="checkbox" class="mark" id="` + ItemBook + `">
      <span class="item-name">A &amp; B</span>
      <p class="item-description"></p>
      <button class="delete" data-item-id="` + ItemBook + `">Delete</button>
    </div></div>
  </li>
</ul>`

// SessionCookie is the cookie the fake issues on a request that carries none.
const SessionCookie = "session"

// FakeResponse is a canned answer for one route.
type FakeResponse struct {
	Code        int
	Body        string
	ContentType string
	Hangup      bool // close the connection without answering
}

// RecordedRequest is a request the fake received.
type RecordedRequest struct {
	Route  string
	Method string
	Path   string
	Vars   map[string]string
	Token  string
	HasTok bool
	Body   map[string]any

	// Session is the session cookie the request carried, empty on a first visit.
	Session string
}

// FakeWishlist is an in-process wishlist service that records every request.
type FakeWishlist struct {
	Server *httptest.Server

	mu        sync.Mutex
	responses map[string]FakeResponse
	requests  []RecordedRequest
	sessions  int
}

// NewFakeWishlist starts a fake service that answers success envelopes by default.
func NewFakeWishlist(t *testing.T) *FakeWishlist {
	t.Helper()

	f := &FakeWishlist{
		responses: map[string]FakeResponse{
			RouteCreate:  jsonResponse(http.StatusOK, `{"status":1,"message":"We have sent the link to manage your wishlist to your email."}`),
			RouteItems:   {Code: http.StatusOK, Body: ItemsFragment, ContentType: "text/html"},
			RouteAdd:     jsonResponse(http.StatusOK, fmt.Sprintf(`{"status":1,"message":"Added item","id":%q}`, WishlistID)),
			RouteMark:    jsonResponse(http.StatusOK, `{"status":1,"message":"Updated"}`),
			RouteDelete:  jsonResponse(http.StatusOK, `{"status":1,"message":"Deleted item: Lego set"}`),
			RouteShare:   jsonResponse(http.StatusOK, `{"status":1,"message":"Sent share link to friend@example.com"}`),
			RouteRecover: {Code: http.StatusOK, Body: "Thanks!  We will do something with this, eventually", ContentType: "text/plain"},
		},
	}

	r := mux.NewRouter()
	r.HandleFunc("/wishlist/add", f.handle(RouteCreate)).Methods(http.MethodPost)
	r.HandleFunc("/wishlist/recover", f.handle(RouteRecover)).Methods(http.MethodPost)
	r.HandleFunc("/wishlist/{id}/items", f.handle(RouteItems)).Methods(http.MethodGet)
	r.HandleFunc("/wishlist/{id}/item/add", f.handle(RouteAdd)).Methods(http.MethodPost)
	r.HandleFunc("/wishlist/{id}/item/{itemID}/mark", f.handle(RouteMark)).Methods(http.MethodPost)
	r.HandleFunc("/wishlist/{id}/item/{itemID}", f.handle(RouteDelete)).Methods(http.MethodDelete)
	r.HandleFunc("/wishlist/{id}/share", f.handle(RouteShare)).Methods(http.MethodPost)

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the fake's base URL.
func (f *FakeWishlist) URL() string { return f.Server.URL }

// Respond replaces the canned answer for route.
func (f *FakeWishlist) Respond(route string, resp FakeResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[route] = resp
}

// RespondEnvelope answers route with a JSON envelope.
func (f *FakeWishlist) RespondEnvelope(route string, code, status int, message string) {
	f.Respond(route, jsonResponse(code, fmt.Sprintf(`{"status":%d,"message":%q}`, status, message)))
}

// Hangup makes route drop the connection without answering.
func (f *FakeWishlist) Hangup(route string) {
	f.Respond(route, FakeResponse{Hangup: true})
}

// Requests returns a copy of everything received so far.
func (f *FakeWishlist) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// Calls returns the requests received on route.
func (f *FakeWishlist) Calls(route string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range f.Requests() {
		if r.Route == route {
			out = append(out, r)
		}
	}
	return out
}

// Last returns the most recent request; ok is false when none arrived.
func (f *FakeWishlist) Last() (RecordedRequest, bool) {
	reqs := f.Requests()
	if len(reqs) == 0 {
		return RecordedRequest{}, false
	}
	return reqs[len(reqs)-1], true
}

func (f *FakeWishlist) handle(route string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := RecordedRequest{
			Route:  route,
			Method: r.Method,
			Path:   r.URL.Path,
			Vars:   mux.Vars(r),
		}
		if vals, ok := r.URL.Query()["token"]; ok {
			rec.HasTok = true
			rec.Token = vals[0]
		}
		if data, err := io.ReadAll(r.Body); err == nil && len(data) > 0 {
			_ = json.Unmarshal(data, &rec.Body)
		}
		if c, err := r.Cookie(SessionCookie); err == nil {
			rec.Session = c.Value
		}

		f.mu.Lock()
		f.requests = append(f.requests, rec)
		resp := f.responses[route]
		if rec.Session == "" {
			f.sessions++
			http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: fmt.Sprintf("session-%d", f.sessions), Path: "/"})
		}
		f.mu.Unlock()

		if resp.Hangup {
			if hj, ok := w.(http.Hijacker); ok {
				if conn, _, err := hj.Hijack(); err == nil {
					conn.Close()
					return
				}
			}
			panic(http.ErrAbortHandler)
		}

		if resp.ContentType != "" {
			w.Header().Set("Content-Type", resp.ContentType)
		}
		if resp.Code == 0 {
			resp.Code = http.StatusOK
		}
		w.WriteHeader(resp.Code)
		io.WriteString(w, resp.Body)
	}
}

func jsonResponse(code int, body string) FakeResponse {
	return FakeResponse{Code: code, Body: body, ContentType: "application/json"}
}
