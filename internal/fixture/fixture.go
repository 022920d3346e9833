// Package fixture serves a minimal login-protected demo site from httptest.
// It lets the suite run hermetically (SITECHECK_FIXTURE=1) with the same
// homepage and login flow shape as a live target: a titled homepage, a
// username/password form at /login, and a /dashboard behind a session cookie.
package fixture

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/webdrift/sitecheck/internal/obs"
)

const sessionCookieName = "fixture_session"

// DefaultUsername is the account the fixture site accepts.
const DefaultUsername = "fixture-user"

var homeTmpl = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html>
<head><title>Fixture Site - Home</title></head>
<body>
<h1>Fixture Site</h1>
<nav><a href="/login" id="login-link">Sign in</a></nav>
<script>console.log("fixture: homepage ready");</script>
</body>
</html>
`))

var loginTmpl = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html>
<head><title>Fixture Site - Sign in</title></head>
<body>
<h1>Sign in</h1>
{{if .Error}}<div class="flash-error" role="alert">{{.Error}}</div>{{end}}
<form method="POST" action="/login">
  <input type="text" name="username" id="username" autocomplete="username">
  <input type="password" name="password" id="password" autocomplete="current-password">
  <button type="submit">Sign in</button>
</form>
</body>
</html>
`))

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head><title>Fixture Site - Dashboard</title></head>
<body>
<h1 id="welcome">Welcome back, {{.Username}}</h1>
<a href="/logout">Sign out</a>
</body>
</html>
`))

// Site is a running fixture site. Close it when done.
type Site struct {
	Username string
	Password string

	server       *httptest.Server
	passwordHash []byte
	limiter      *rate.Limiter

	mu       sync.Mutex
	sessions map[string]string // session ID -> username
}

// NewSite starts the fixture site with a freshly generated password.
// Login attempts are throttled so a runaway loop in the suite shows up as
// HTTP 429 instead of hammering the handler.
func NewSite() (*Site, error) {
	password := "pw-" + uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	s := &Site{
		Username:     DefaultUsername,
		Password:     password,
		passwordHash: hash,
		limiter:      rate.NewLimiter(rate.Every(50*time.Millisecond), 20),
		sessions:     make(map[string]string),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /login", s.handleLoginForm)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("GET /dashboard", s.handleDashboard)
	mux.HandleFunc("GET /logout", s.handleLogout)

	s.server = httptest.NewServer(mux)
	obs.Pkg("fixture").Info("fixture site started", "url", s.server.URL)
	return s, nil
}

// URL returns the fixture site's base URL.
func (s *Site) URL() string {
	return s.server.URL
}

// Close shuts down the fixture site.
func (s *Site) Close() {
	s.server.Close()
}

func (s *Site) handleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = homeTmpl.Execute(w, nil)
}

func (s *Site) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = loginTmpl.Execute(w, map[string]string{})
}

func (s *Site) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		http.Error(w, "too many login attempts", http.StatusTooManyRequests)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	if username != s.Username || bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) != nil {
		obs.Pkg("fixture").Info("login rejected", "username", username)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		// Real sites re-render the form with a banner, not an error status.
		_ = loginTmpl.Execute(w, map[string]string{"Error": "Invalid username or password"})
		return
	}

	sessionID := uuid.NewString()
	s.mu.Lock()
	s.sessions[sessionID] = username
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Site) handleDashboard(w http.ResponseWriter, r *http.Request) {
	username, ok := s.sessionUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = dashboardTmpl.Execute(w, map[string]string{"Username": username})
}

func (s *Site) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		s.mu.Lock()
		delete(s.sessions, cookie.Value)
		s.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Site) sessionUser(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	username, ok := s.sessions[cookie.Value]
	return username, ok
}
