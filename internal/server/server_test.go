package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/songle/internal/bot"
	"github.com/desertthunder/songle/internal/formatter"
	"github.com/desertthunder/songle/internal/game"
	"github.com/desertthunder/songle/internal/models"
	"github.com/desertthunder/songle/internal/shared"
	tu "github.com/desertthunder/songle/internal/testing"
)

func newTestServer(t *testing.T, token string) *httptest.Server {
	t.Helper()
	logger := shared.NewLogger(io.Discard)
	engine := game.NewEngine(game.EngineOpts{
		Fetcher: &tu.MockFetcher{Tracks: []models.Track{{Title: "Imagine", Artist: "John Lennon"}}},
		Logger:  logger,
	})
	srv := httptest.NewServer(New(Opts{
		Bot:    bot.New(bot.Opts{Engine: engine, Logger: logger}),
		Token:  token,
		Logger: logger,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/interactions", strings.NewReader(body))
	tu.MustNoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}
	resp, err := http.DefaultClient.Do(req)
	tu.MustNoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeEmbed(t *testing.T, resp *http.Response) formatter.Embed {
	t.Helper()
	var e formatter.Embed
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		t.Fatalf("failed to decode embed: %v", err)
	}
	return e
}

func TestInteractions(t *testing.T) {
	t.Run("start and guess", func(t *testing.T) {
		srv := newTestServer(t, "")

		resp := post(t, srv, "", `{"name":"start","user_id":"u1","kind":"playlist","input":"37i9dQZF1DXcBWIGoYBM5M"}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if e := decodeEmbed(t, resp); e.Title != "New game" {
			t.Errorf("expected New game, got %q", e.Title)
		}

		resp = post(t, srv, "", `{"name":"guess","user_id":"u1","guess":"IMAGINE"}`)
		e := decodeEmbed(t, resp)
		if e.Title != "Correct!" || e.Color != formatter.ColorSuccess {
			t.Errorf("expected Correct!, got %+v", e)
		}
	})

	t.Run("invalid payload", func(t *testing.T) {
		srv := newTestServer(t, "")
		for _, body := range []string{"not json", `{"name":"guess","bogus":1}`} {
			if resp := post(t, srv, "", body); resp.StatusCode != http.StatusBadRequest {
				t.Errorf("%q: expected 400, got %d", body, resp.StatusCode)
			}
		}
	})

	t.Run("token", func(t *testing.T) {
		srv := newTestServer(t, "s3cret")
		body := `{"name":"help","user_id":"u1"}`

		if resp := post(t, srv, "", body); resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401 without token, got %d", resp.StatusCode)
		}
		if resp := post(t, srv, "wrong", body); resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401 with wrong token, got %d", resp.StatusCode)
		}
		if resp := post(t, srv, "s3cret", body); resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200 with token, got %d", resp.StatusCode)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		srv := newTestServer(t, "")
		resp, err := http.Get(srv.URL + "/interactions")
		tu.MustNoError(t, err)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", resp.StatusCode)
		}
		if resp.Header.Get("Allow") != http.MethodPost {
			t.Errorf("expected Allow: POST, got %q", resp.Header.Get("Allow"))
		}
	})
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, "")
	post(t, srv, "", `{"name":"start","user_id":"u1","kind":"playlist","input":"37i9dQZF1DXcBWIGoYBM5M"}`)

	resp, err := http.Get(srv.URL + "/health")
	tu.MustNoError(t, err)
	defer resp.Body.Close()

	var h health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		t.Fatalf("failed to decode health: %v", err)
	}
	if h.Status != "ok" || h.ActiveSessions != 1 {
		t.Errorf("unexpected health %+v", h)
	}
}

func TestRecover(t *testing.T) {
	r := NewBasicRouter()
	r.Use(Recover(shared.NewLogger(io.Discard)))
	r.Handle(http.MethodGet, "/boom", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestRouterMiddlewareOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := NewBasicRouter()
	r.Use(mark("first"), mark("second"))
	r.Handle(http.MethodGet, "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if strings.Join(order, ",") != "first,second,handler" {
		t.Errorf("unexpected order %v", order)
	}
}
