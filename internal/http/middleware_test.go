package http_test

import (
	"net/http"
	"regexp"
	"testing"
	"time"

	api "github.com/Hy0g0/Cadavre-exquis/internal/http"
)

var hexToken = regexp.MustCompile(`^[0-9a-f]{32}$`)

func Test_ClientIdentity_MintedOnce(t *testing.T) {
	env := newTestEnv(t)

	// No cookie: a fresh identity is minted and set.
	w := env.do("GET", "/api/sentence", "", "")
	var minted *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "story_client_id" {
			minted = c
		}
	}
	if minted == nil {
		t.Fatal("no story_client_id cookie on first contact")
	}
	if !hexToken.MatchString(minted.Value) {
		t.Errorf("client id %q is not 128-bit hex", minted.Value)
	}
	if minted.Path != "/" || minted.MaxAge != 31536000 {
		t.Errorf("cookie attrs: path=%q maxage=%d", minted.Path, minted.MaxAge)
	}
	if minted.SameSite != http.SameSiteLaxMode {
		t.Errorf("cookie samesite = %v, want Lax", minted.SameSite)
	}

	// Returning client: identity is kept, no new Set-Cookie.
	w = env.do("GET", "/api/sentence", "", minted.Value)
	for _, c := range w.Result().Cookies() {
		if c.Name == "story_client_id" {
			t.Errorf("returning client received a new cookie: %v", c)
		}
	}
}

func Test_CORSHeaders_OnEveryResponse(t *testing.T) {
	env := newTestEnv(t)

	paths := []struct{ method, path, cookie string }{
		{"GET", "/api/sentence", ""},
		{"POST", "/api/other", clientA},
		{"GET", "/", ""},
	}
	for _, p := range paths {
		w := env.do(p.method, p.path, "", p.cookie)
		h := w.Header()
		if h.Get("Access-Control-Allow-Origin") != "*" {
			t.Errorf("%s %s: missing allow-origin", p.method, p.path)
		}
		if h.Get("Access-Control-Allow-Methods") != "GET, POST, OPTIONS" {
			t.Errorf("%s %s: allow-methods = %q", p.method, p.path, h.Get("Access-Control-Allow-Methods"))
		}
		if h.Get("Access-Control-Allow-Headers") != "Content-Type" {
			t.Errorf("%s %s: allow-headers = %q", p.method, p.path, h.Get("Access-Control-Allow-Headers"))
		}
	}
}

func Test_Preflight(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("OPTIONS", "/api/sentence", "", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight code=%d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("preflight body = %q, want empty", w.Body.String())
	}
	// Identity cookie logic still applies to preflights.
	found := false
	for _, c := range w.Result().Cookies() {
		if c.Name == "story_client_id" {
			found = true
		}
	}
	if !found {
		t.Error("preflight without cookie did not mint an identity")
	}

	// Unknown paths preflight the same way.
	w = env.do("OPTIONS", "/anything/else", "", clientA)
	if w.Code != http.StatusNoContent {
		t.Errorf("wildcard preflight code=%d", w.Code)
	}
}

func Test_RequestIDHeader(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("GET", "/api/sentence", "", "")
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("no X-Request-ID on response")
	}
}

func Test_RateLimiter_Allow(t *testing.T) {
	rl := api.NewRateLimiter(2, time.Minute)

	if !rl.Allow("1.2.3.4") {
		t.Fatal("first request denied")
	}
	if !rl.Allow("1.2.3.4") {
		t.Fatal("second request denied")
	}
	if rl.Allow("1.2.3.4") {
		t.Error("third request within window allowed")
	}
	// Other IPs have their own bucket.
	if !rl.Allow("5.6.7.8") {
		t.Error("fresh ip denied")
	}
}
