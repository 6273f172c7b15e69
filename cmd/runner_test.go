package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/wishctl/internal/repositories"
	"github.com/desertthunder/wishctl/internal/shared"
	tu "github.com/desertthunder/wishctl/internal/testing"
	"github.com/urfave/cli/v3"
)

type stubClipboard struct {
	copied []string
	err    error
}

func (s *stubClipboard) Copy(text string) error {
	s.copied = append(s.copied, text)
	return s.err
}

type harness struct {
	runner *Runner
	output *bytes.Buffer
	fake   *tu.FakeWishlist
	clip   *stubClipboard
	opened []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	shared.ConfigureDatabase(db, 1, 1)
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h := &harness{
		output: &bytes.Buffer{},
		fake:   tu.NewFakeWishlist(t),
		clip:   &stubClipboard{},
	}
	h.runner = NewRunner(RunnerOpts{
		Links:     repositories.NewLinkRepository(db),
		Clipboard: h.clip,
		Open:      func(u string) error { h.opened = append(h.opened, u); return nil },
		Logger:    shared.NewLogger(&bytes.Buffer{}),
		Output:    h.output,
	})
	return h
}

func (h *harness) pageURL() string {
	return h.fake.URL() + "/wishlist/" + tu.WishlistID + "?token=tok"
}

func (h *harness) run(args ...string) error {
	app := &cli.Command{Name: "wishctl", Commands: h.runner.register()}
	return app.Run(context.Background(), append([]string{"wishctl"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			clip := &stubClipboard{}

			runner := NewRunner(RunnerOpts{
				Config:    config,
				Logger:    logger,
				Output:    output,
				Clipboard: clip,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.clipboard != clip {
				t.Error("expected clipboard to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("hello %s", "world"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "hello world" {
			t.Errorf("expected 'hello world', got %q", output.String())
		}

		failing := NewRunner(RunnerOpts{Output: &tu.FWriter{}})
		if err := failing.writePlain("test"); err == nil {
			t.Fatal("expected error from failing writer")
		}
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"create", "items", "add", "mark", "delete", "share", "recover", "copy", "open", "links", "tui", "setup"} {
			if !names[want] {
				t.Errorf("command %q not registered", want)
			}
		}
	})
}

func TestPageCommands(t *testing.T) {
	t.Run("items lists rows", func(t *testing.T) {
		h := newHarness(t)
		if err := h.run("items", "--page", h.pageURL()); err != nil {
			t.Fatalf("items failed: %v", err)
		}

		out := h.output.String()
		if !strings.Contains(out, "[x] Lego set ("+tu.ItemLego+")") {
			t.Errorf("missing gotten row in %q", out)
		}
		if !strings.Contains(out, "[ ] A & B") {
			t.Errorf("missing open row in %q", out)
		}
		if req, _ := h.fake.Last(); req.Token != "tok" {
			t.Errorf("expected page token, got %q", req.Token)
		}
	})

	t.Run("items json", func(t *testing.T) {
		h := newHarness(t)
		if err := h.run("items", "--json", "--page", h.pageURL()); err != nil {
			t.Fatalf("items failed: %v", err)
		}

		var views []itemView
		if err := json.Unmarshal(h.output.Bytes(), &views); err != nil {
			t.Fatalf("invalid JSON %q: %v", h.output.String(), err)
		}
		if len(views) != 2 || !views[0].Locked || views[1].Gotten {
			t.Errorf("unexpected items %+v", views)
		}
	})

	t.Run("items export", func(t *testing.T) {
		h := newHarness(t)
		if err := h.run("items", "--format", "markdown", "--page", h.pageURL()); err != nil {
			t.Fatalf("items failed: %v", err)
		}
		if !strings.Contains(h.output.String(), "- [x] [Lego set](https://example.com/lego): The big one") {
			t.Errorf("unexpected markdown %q", h.output.String())
		}

		path := filepath.Join(t.TempDir(), "items.csv")
		if err := h.run("items", "--format", "csv", "--output", path, "--page", h.pageURL()); err != nil {
			t.Fatalf("items export failed: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil || !strings.Contains(string(data), tu.ItemBook) {
			t.Errorf("unexpected export %q (%v)", data, err)
		}
	})

	t.Run("items service failure", func(t *testing.T) {
		h := newHarness(t)
		h.fake.Respond(tu.RouteItems, tu.FakeResponse{Code: http.StatusInternalServerError, Body: "boom"})

		err := h.run("items", "--page", h.pageURL())
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("add", func(t *testing.T) {
		h := newHarness(t)
		if err := h.run("add", "--page", h.pageURL(), "--name", "Kite", "--url", "https://k"); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if !strings.Contains(h.output.String(), "✓ Added item") {
			t.Errorf("unexpected output %q", h.output.String())
		}
		calls := h.fake.Calls(tu.RouteAdd)
		if len(calls) != 1 || calls[0].Body["name"] != "Kite" || calls[0].Body["url"] != "https://k" {
			t.Errorf("unexpected add calls %+v", calls)
		}
	})

	t.Run("mark by name", func(t *testing.T) {
		h := newHarness(t)
		if err := h.run("mark", "--page", h.pageURL(), "a & b"); err != nil {
			t.Fatalf("mark failed: %v", err)
		}

		calls := h.fake.Calls(tu.RouteMark)
		if len(calls) != 1 {
			t.Fatalf("expected one mark call, got %d", len(calls))
		}
		if calls[0].Vars["itemID"] != tu.ItemBook || calls[0].Body["gotten"] != true || calls[0].Body["token"] != "tok" {
			t.Errorf("unexpected mark request %+v", calls[0])
		}
		if !strings.Contains(h.output.String(), "A & B is gotten") {
			t.Errorf("unexpected output %q", h.output.String())
		}
	})

	t.Run("mark undo", func(t *testing.T) {
		h := newHarness(t)
		if err := h.run("mark", "--undo", "--page", h.pageURL(), tu.ItemLego); err != nil {
			t.Fatalf("mark failed: %v", err)
		}
		calls := h.fake.Calls(tu.RouteMark)
		if len(calls) != 1 || calls[0].Body["gotten"] != false {
			t.Errorf("unexpected mark calls %+v", calls)
		}
	})

	t.Run("mark unknown item", func(t *testing.T) {
		h := newHarness(t)
		err := h.run("mark", "--page", h.pageURL(), "Pony")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("mark that never reaches the service fails", func(t *testing.T) {
		h := newHarness(t)
		h.fake.Hangup(tu.RouteMark)

		err := h.run("mark", "--page", h.pageURL(), "a & b")
		if !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
		out := h.output.String()
		if strings.Contains(out, "is gotten") {
			t.Errorf("confirmation printed for a failed mark: %q", out)
		}
		if !strings.Contains(out, "✗ mark item did not reach the wishlist service") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("add that never reaches the service fails", func(t *testing.T) {
		h := newHarness(t)
		h.fake.Hangup(tu.RouteAdd)

		err := h.run("add", "--page", h.pageURL(), "--name", "Kite")
		if !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
		if len(h.fake.Calls(tu.RouteItems)) != 0 {
			t.Errorf("list refreshed after a failed add")
		}
	})

	t.Run("add transport failure under report policy", func(t *testing.T) {
		h := newHarness(t)
		h.fake.Hangup(tu.RouteAdd)

		err := h.run("add", "--page", h.pageURL(), "--policy", "report", "--name", "Kite")
		if !errors.Is(err, shared.ErrApplication) {
			t.Errorf("expected ErrApplication, got %v", err)
		}
		if !strings.Contains(h.output.String(), "✗ Unable to add item") {
			t.Errorf("unexpected output %q", h.output.String())
		}
	})

	t.Run("create and recover transport failures", func(t *testing.T) {
		h := newHarness(t)
		h.fake.Hangup(tu.RouteCreate)
		h.fake.Hangup(tu.RouteRecover)

		err := h.run("create", "--base-url", h.fake.URL(), "--name", "Birthday", "--username", "al", "--email", "a@b.com")
		if !errors.Is(err, shared.ErrTransport) {
			t.Errorf("create: expected ErrTransport, got %v", err)
		}
		err = h.run("recover", "--base-url", h.fake.URL(), "--email", "a@b.com")
		if !errors.Is(err, shared.ErrTransport) {
			t.Errorf("recover: expected ErrTransport, got %v", err)
		}
	})

	t.Run("delete by name", func(t *testing.T) {
		h := newHarness(t)
		if err := h.run("delete", "--page", h.pageURL(), "Lego set"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		calls := h.fake.Calls(tu.RouteDelete)
		if len(calls) != 1 || calls[0].Vars["itemID"] != tu.ItemLego {
			t.Errorf("unexpected delete calls %+v", calls)
		}
		if !strings.Contains(h.output.String(), "✓ Deleted item: Lego set") {
			t.Errorf("unexpected output %q", h.output.String())
		}
	})

	t.Run("delete rejected", func(t *testing.T) {
		h := newHarness(t)
		h.fake.RespondEnvelope(tu.RouteDelete, http.StatusOK, 0, "Not found")

		err := h.run("delete", "--page", h.pageURL(), "7")
		if !errors.Is(err, shared.ErrApplication) {
			t.Errorf("expected ErrApplication, got %v", err)
		}
		if !strings.Contains(h.output.String(), "✗ Not found") {
			t.Errorf("unexpected output %q", h.output.String())
		}
	})

	t.Run("share failure uses modal banner", func(t *testing.T) {
		h := newHarness(t)
		h.fake.Hangup(tu.RouteShare)

		err := h.run("share", "--page", h.pageURL(), "--email", "friend@example.com")
		if !errors.Is(err, shared.ErrApplication) {
			t.Errorf("expected ErrApplication, got %v", err)
		}
		if !strings.Contains(h.output.String(), "Unable to share link") {
			t.Errorf("unexpected output %q", h.output.String())
		}
	})

	t.Run("create needs no page", func(t *testing.T) {
		h := newHarness(t)
		err := h.run("create", "--base-url", h.fake.URL(), "--name", "Birthday", "--username", "al", "--email", "a@b.com")
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		req, _ := h.fake.Last()
		if req.Route != tu.RouteCreate || req.HasTok || req.Body["username"] != "al" {
			t.Errorf("unexpected create request %+v", req)
		}
	})

	t.Run("recover", func(t *testing.T) {
		h := newHarness(t)
		if err := h.run("recover", "--base-url", h.fake.URL(), "--email", "a@b.com"); err != nil {
			t.Fatalf("recover failed: %v", err)
		}
		if !strings.Contains(h.output.String(), "✓ Thanks!") {
			t.Errorf("unexpected output %q", h.output.String())
		}
	})

	t.Run("copy and open", func(t *testing.T) {
		h := newHarness(t)
		if err := h.run("copy", "--page", h.pageURL()); err != nil {
			t.Fatalf("copy failed: %v", err)
		}
		if err := h.run("open", "--page", h.pageURL()); err != nil {
			t.Fatalf("open failed: %v", err)
		}
		if len(h.clip.copied) != 1 || h.clip.copied[0] != h.pageURL() {
			t.Errorf("unexpected copies %v", h.clip.copied)
		}
		if len(h.opened) != 1 || h.opened[0] != h.pageURL() {
			t.Errorf("unexpected opens %v", h.opened)
		}
		if n := len(h.fake.Requests()); n != 0 {
			t.Errorf("expected no requests, got %d", n)
		}
	})

	t.Run("copy failure reported", func(t *testing.T) {
		h := newHarness(t)
		h.clip.err = shared.ErrClipboardUnavailable

		err := h.run("copy", "--policy", "report", "--page", h.pageURL())
		if !errors.Is(err, shared.ErrApplication) {
			t.Errorf("expected ErrApplication, got %v", err)
		}
	})

	t.Run("argument errors", func(t *testing.T) {
		h := newHarness(t)
		if err := h.run("items"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if err := h.run("items", "--page", h.pageURL(), "--link", "x"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if err := h.run("items", "--policy", "loud", "--page", h.pageURL()); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
		if err := h.run("items", "--page", "/wishlist/1"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestLinkCommands(t *testing.T) {
	h := newHarness(t)

	if err := h.run("links", "add", "--page", h.pageURL(), "birthday"); err != nil {
		t.Fatalf("links add failed: %v", err)
	}
	if err := h.run("links", "add", "--page", h.pageURL(), "birthday"); !errors.Is(err, shared.ErrLinkExists) {
		t.Errorf("expected ErrLinkExists, got %v", err)
	}
	if err := h.run("links", "add", "--role", "admin", "--page", h.pageURL(), "other"); !errors.Is(err, shared.ErrInvalidFlag) {
		t.Errorf("expected ErrInvalidFlag, got %v", err)
	}

	h.output.Reset()
	if err := h.run("links", "list", "--json"); err != nil {
		t.Fatalf("links list failed: %v", err)
	}
	var views []linkView
	if err := json.Unmarshal(h.output.Bytes(), &views); err != nil {
		t.Fatalf("invalid JSON %q: %v", h.output.String(), err)
	}
	if len(views) != 1 || views[0].Name != "birthday" || views[0].WishlistID != tu.WishlistID || views[0].Role != "owner" {
		t.Errorf("unexpected links %+v", views)
	}

	if err := h.run("items", "--link", "birthday"); err != nil {
		t.Fatalf("items via link failed: %v", err)
	}
	if req, _ := h.fake.Last(); req.Token != "tok" || req.Vars["id"] != tu.WishlistID {
		t.Errorf("unexpected request %+v", req)
	}

	if err := h.run("links", "rm", "birthday"); err != nil {
		t.Fatalf("links rm failed: %v", err)
	}
	if err := h.run("items", "--link", "birthday"); !errors.Is(err, shared.ErrLinkNotFound) {
		t.Errorf("expected ErrLinkNotFound, got %v", err)
	}
}
