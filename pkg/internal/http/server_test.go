package http

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/auth"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/sessions"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/syncer"
	"github.com/gofiber/fiber/v2"
)

func newTestServer(t *testing.T) *HTTPApp {
	t.Helper()
	registry := sessions.NewRegistry(syncer.Options{}, nil, 0, time.Minute)
	t.Cleanup(registry.Close)
	return NewServer(registry, "")
}

func TestSessionHeaderIsEchoed(t *testing.T) {
	server := newTestServer(t)

	resp, err := server.app.Test(httptest.NewRequest(fiber.MethodGet, "/api/theme", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	id := resp.Header.Get(exts.SessionHeader)
	if len(id) == 0 {
		t.Fatal("expected a session id header")
	}

	req := httptest.NewRequest(fiber.MethodPut, "/api/theme", strings.NewReader(`{"mode":"dark"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(exts.SessionHeader, id)
	resp, err = server.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK || resp.Header.Get(exts.SessionHeader) != id {
		t.Fatalf("status %d, session %q", resp.StatusCode, resp.Header.Get(exts.SessionHeader))
	}

	req = httptest.NewRequest(fiber.MethodGet, "/api/theme", nil)
	req.Header.Set(exts.SessionHeader, id)
	resp, err = server.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"dark"`) {
		t.Errorf("theme was not kept by the session: %s", body)
	}
}

func TestGuardedRoutes(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{fiber.MethodGet, "/api/notifications", "", fiber.StatusUnauthorized},
		{fiber.MethodPost, "/api/posts/1/like", "", fiber.StatusUnauthorized},
		{fiber.MethodGet, "/api/admin/users", "", fiber.StatusUnauthorized},
		{fiber.MethodPut, "/api/theme", `{"mode":"sepia"}`, fiber.StatusBadRequest},
		{fiber.MethodGet, "/api/auth/session", "", fiber.StatusOK},
		{fiber.MethodGet, "/api/toasts", "", fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			resp, err := server.app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

type stubRemote struct {
	syncer.Remote
}

func (stubRemote) ListNotifications(context.Context, uint, int) ([]models.Notification, error) {
	return []models.Notification{}, nil
}

type stubAuth struct {
	syncer.Authenticator

	mu      sync.Mutex
	revoked bool
}

func (v *stubAuth) GetSession(_ context.Context, token string) (auth.Session, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if token != "good" || v.revoked {
		return auth.Session{}, auth.ErrInvalidToken
	}
	return auth.Session{Token: token, Profile: models.Profile{ID: 7, Username: "reader", Role: models.ProfileRoleUser}}, nil
}

func TestBearerTokenIsCheckedOnEveryRequest(t *testing.T) {
	authn := &stubAuth{}
	registry := sessions.NewRegistry(syncer.Options{Remote: stubRemote{}, Auth: authn}, nil, 0, time.Minute)
	t.Cleanup(registry.Close)
	server := NewServer(registry, "")

	var session string
	call := func(token string) int {
		t.Helper()
		req := httptest.NewRequest(fiber.MethodGet, "/api/notifications", nil)
		if len(session) > 0 {
			req.Header.Set(exts.SessionHeader, session)
		}
		if len(token) > 0 {
			req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		}
		resp, err := server.app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		session = resp.Header.Get(exts.SessionHeader)
		return resp.StatusCode
	}

	if status := call("good"); status != fiber.StatusOK {
		t.Fatalf("signed in status = %d", status)
	}
	if status := call(""); status != fiber.StatusUnauthorized {
		t.Errorf("the session id alone was accepted, status %d", status)
	}
	if status := call("good"); status != fiber.StatusOK {
		t.Fatalf("signed in again status = %d", status)
	}

	authn.mu.Lock()
	authn.revoked = true
	authn.mu.Unlock()
	if status := call("good"); status != fiber.StatusUnauthorized {
		t.Errorf("a revoked token was accepted, status %d", status)
	}
}
