package web

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"watchlist/internal/adapters/http/middleware"
	"watchlist/internal/adapters/http/perf"
	"watchlist/internal/adapters/storage"
	accountStore "watchlist/internal/adapters/storage/account"
	movieStore "watchlist/internal/adapters/storage/movie"
	"watchlist/internal/application/orchestrators"
	domainMovie "watchlist/internal/domain/movie"
)

const (
	testUsername = "greyli"
	testPassword = "helloflask"
)

var csrfFieldRe = regexp.MustCompile(`name="` + middleware.CSRFFieldName + `" value="([^"]+)"`)

// testEnv runs the full middleware chain over a real SQLite file.
type testEnv struct {
	t         *testing.T
	srv       *httptest.Server
	client    *http.Client
	stores    *Stores
	collector *perf.Collector
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "watchlist.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	collector := perf.NewCollector()
	timed := storage.NewTimedDB(db, collector, 0)
	stores := &Stores{
		AccountStore: accountStore.NewSQLiteStore(timed),
		MovieStore:   movieStore.NewSQLiteStore(timed),
	}
	app, err := NewApp(stores, Options{
		SecretKey: bytes.Repeat([]byte{3}, 32),
		Collector: collector,
	})
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}

	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testEnv{t: t, srv: srv, client: client, stores: stores, collector: collector}
}

// get fetches path and returns the response with its body read.
func (e *testEnv) get(path string) (*http.Response, string) {
	e.t.Helper()
	resp, err := e.client.Get(e.srv.URL + path)
	if err != nil {
		e.t.Fatalf("GET %s: %v", path, err)
	}
	return resp, readBody(e.t, resp)
}

// post submits form to path with a fresh CSRF token.
func (e *testEnv) post(path string, form url.Values) (*http.Response, string) {
	e.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set(middleware.CSRFFieldName, e.csrfToken())
	resp, err := e.client.PostForm(e.srv.URL+path, form)
	if err != nil {
		e.t.Fatalf("POST %s: %v", path, err)
	}
	return resp, readBody(e.t, resp)
}

// csrfToken scrapes a token from the demo form page, which every client can see.
func (e *testEnv) csrfToken() string {
	e.t.Helper()
	_, body := e.get("/form")
	m := csrfFieldRe.FindStringSubmatch(body)
	if m == nil {
		e.t.Fatalf("no CSRF field on /form:\n%s", body)
	}
	return html.UnescapeString(m[1])
}

// follow fetches the redirect target of resp.
func (e *testEnv) follow(resp *http.Response) (*http.Response, string) {
	e.t.Helper()
	loc := resp.Header.Get("Location")
	if loc == "" {
		e.t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}
	return e.get(loc)
}

func (e *testEnv) provisionAdmin() {
	e.t.Helper()
	_, err := orchestrators.ExecuteUpsertAdmin(context.Background(),
		orchestrators.UpsertAdminInput{Username: testUsername, Password: testPassword, Name: "Grey Li"},
		orchestrators.UpsertAdminDeps{AccountStore: e.stores.AccountStore})
	if err != nil {
		e.t.Fatalf("provision admin: %v", err)
	}
}

func (e *testEnv) seed() {
	e.t.Helper()
	_, err := orchestrators.ExecuteSeedMovies(context.Background(),
		orchestrators.SeedMoviesDeps{AccountStore: e.stores.AccountStore, MovieStore: e.stores.MovieStore})
	if err != nil {
		e.t.Fatalf("seed: %v", err)
	}
}

func (e *testEnv) login() {
	e.t.Helper()
	resp, _ := e.post("/login", url.Values{"username": {testUsername}, "password": {testPassword}})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
		e.t.Fatalf("login: got %d -> %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func (e *testEnv) movieCount() int {
	e.t.Helper()
	list, err := e.stores.MovieStore.List(context.Background())
	if err != nil {
		e.t.Fatalf("list: %v", err)
	}
	return len(list)
}

func (e *testEnv) findMovie(title string) domainMovie.Movie {
	e.t.Helper()
	list, err := e.stores.MovieStore.List(context.Background())
	if err != nil {
		e.t.Fatalf("list: %v", err)
	}
	for _, m := range list {
		if m.Title == title {
			return m
		}
	}
	e.t.Fatalf("movie %q not found", title)
	return domainMovie.Movie{}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func expectRedirect(t *testing.T, resp *http.Response, want string) {
	t.Helper()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != want {
		t.Fatalf("Location = %q, want %q", got, want)
	}
}

// --- list page ---

// TestIndex_SeededList verifies the seeded page shows 10 titles including WALL-E.
func TestIndex_SeededList(t *testing.T) {
	env := newTestEnv(t)
	env.seed()

	resp, body := env.get("/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	for _, want := range []string{"10 Titles", "WALL-E - 2008", "cailuo&#39;s Watchlist", "https://www.imdb.com/find?q=WALL-E"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	if strings.Contains(body, `name="title"`) {
		t.Error("anonymous page shows the create form")
	}
	if !strings.Contains(body, `href="/login"`) {
		t.Error("anonymous nav missing Login link")
	}
}

// TestIndex_EmptyDatabase verifies the page renders before any account exists.
func TestIndex_EmptyDatabase(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.get("/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, "0 Titles") || !strings.Contains(body, "Watchlist") {
		t.Errorf("unexpected body:\n%s", body)
	}
}

// --- create ---

// TestCreate_ValidThenInvalid walks the seeded list through a valid and an invalid create.
func TestCreate_ValidThenInvalid(t *testing.T) {
	env := newTestEnv(t)
	env.seed()
	env.provisionAdmin()
	env.login()

	resp, _ := env.post("/", url.Values{"title": {"Up"}, "year": {"2009"}})
	expectRedirect(t, resp, "/")
	_, body := env.follow(resp)
	if !strings.Contains(body, "Item created.") {
		t.Error("missing 'Item created.' flash")
	}
	if !strings.Contains(body, "11 Titles") || !strings.Contains(body, "Up - 2009") {
		t.Error("new movie not listed")
	}

	resp, _ = env.post("/", url.Values{"title": {""}, "year": {"2009"}})
	expectRedirect(t, resp, "/")
	_, body = env.follow(resp)
	if !strings.Contains(body, "Invalid input.") {
		t.Error("missing 'Invalid input.' flash")
	}
	if !strings.Contains(body, "11 Titles") {
		t.Error("invalid create changed the list")
	}

	// flash is shown exactly once
	_, body = env.get("/")
	if strings.Contains(body, "Invalid input.") {
		t.Error("flash shown twice")
	}
}

// TestCreate_ValidationRules covers the boundary lengths.
func TestCreate_ValidationRules(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		year    string
		created bool
	}{
		{"max lengths", strings.Repeat("t", 60), "1999", true},
		{"multibyte title", strings.Repeat("龍", 60), "2001", true},
		{"non-numeric year", "Up", "abcd", true},
		{"title too long", strings.Repeat("t", 61), "1999", false},
		{"year too long", "Up", "19999", false},
		{"empty year", "Up", "", false},
	}
	env := newTestEnv(t)
	env.provisionAdmin()
	env.login()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := env.movieCount()
			resp, _ := env.post("/", url.Values{"title": {tt.title}, "year": {tt.year}})
			expectRedirect(t, resp, "/")
			if got := env.movieCount() - before; (got == 1) != tt.created {
				t.Errorf("rows added = %d, created want %v", got, tt.created)
			}
		})
	}
}

// TestCreate_AnonymousSilentRedirect verifies anonymous POST / changes nothing.
func TestCreate_AnonymousSilentRedirect(t *testing.T) {
	env := newTestEnv(t)
	env.seed()

	resp, _ := env.post("/", url.Values{"title": {"Up"}, "year": {"2009"}})
	expectRedirect(t, resp, "/")
	if n := env.movieCount(); n != 10 {
		t.Errorf("movies = %d, want 10", n)
	}
	_, body := env.follow(resp)
	if strings.Contains(body, "alert") {
		t.Error("anonymous create produced a flash")
	}
}

// TestCreate_MissingCSRFToken verifies a logged-in post without a token is rejected.
func TestCreate_MissingCSRFToken(t *testing.T) {
	env := newTestEnv(t)
	env.provisionAdmin()
	env.login()

	resp, err := env.client.PostForm(env.srv.URL+"/", url.Values{"title": {"Up"}, "year": {"2009"}})
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
	if n := env.movieCount(); n != 0 {
		t.Errorf("movies = %d, want 0", n)
	}
}

// TestAnonymousWithoutCSRFToken verifies anonymous mutations with no token,
// such as a form left open across a restart, redirect instead of failing.
func TestAnonymousWithoutCSRFToken(t *testing.T) {
	tests := []struct {
		path     string
		location string
		flash    string
	}{
		{"/", "/", ""},
		{"/movie/delete/1", "/login", middleware.LoginRequiredMessage},
		{"/movie/edit/1", "/login", middleware.LoginRequiredMessage},
		{"/settings", "/login", middleware.LoginRequiredMessage},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			env := newTestEnv(t)
			env.seed()

			resp, err := env.client.PostForm(env.srv.URL+tt.path, url.Values{"title": {"Hacked"}, "year": {"1"}, "name": {"x"}})
			if err != nil {
				t.Fatalf("POST: %v", err)
			}
			readBody(t, resp)
			expectRedirect(t, resp, tt.location)

			_, body := env.follow(resp)
			if tt.flash != "" && !strings.Contains(body, tt.flash) {
				t.Errorf("missing flash %q", tt.flash)
			}
			if tt.flash == "" && strings.Contains(body, "alert") {
				t.Error("silent redirect produced a flash")
			}
			if n := env.movieCount(); n != 10 {
				t.Errorf("movies = %d, want 10", n)
			}
			if got := env.findMovie("My Neighbor Totoro"); got.Year != "1988" {
				t.Errorf("row changed: %+v", got)
			}
		})
	}
}

// --- edit ---

// TestEdit_Flow covers form, valid, invalid and missing edits.
func TestEdit_Flow(t *testing.T) {
	env := newTestEnv(t)
	env.seed()
	env.provisionAdmin()
	env.login()
	leon := env.findMovie("Leon")
	path := "/movie/edit/" + itoa(leon.ID)

	resp, body := env.get(path)
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `value="Leon"`) {
		t.Fatalf("edit form: %d\n%s", resp.StatusCode, body)
	}

	resp, _ = env.post(path, url.Values{"title": {"Leon: The Professional"}, "year": {"1994"}})
	expectRedirect(t, resp, "/")
	_, body = env.follow(resp)
	if !strings.Contains(body, "Item updated.") || !strings.Contains(body, "Leon: The Professional - 1994") {
		t.Error("update not reflected")
	}
	if !strings.Contains(body, "Mahjong - 1996") {
		t.Error("other rows changed")
	}

	resp, _ = env.post(path, url.Values{"title": {"Leon"}, "year": {""}})
	expectRedirect(t, resp, path)
	_, body = env.follow(resp)
	if !strings.Contains(body, "Invalid input.") {
		t.Error("missing 'Invalid input.' flash on edit page")
	}
	if got := env.findMovie("Leon: The Professional"); got.Year != "1994" {
		t.Errorf("invalid edit changed row: %+v", got)
	}
}

// TestEdit_NotFound verifies missing and malformed ids render the 404 page.
func TestEdit_NotFound(t *testing.T) {
	env := newTestEnv(t)
	env.provisionAdmin()
	env.login()

	for _, path := range []string{"/movie/edit/999", "/movie/edit/abc", "/movie/edit/0"} {
		resp, body := env.get(path)
		if resp.StatusCode != http.StatusNotFound || !strings.Contains(body, "Page Not Found - 404") {
			t.Errorf("GET %s: status %d", path, resp.StatusCode)
		}
	}
	resp, _ := env.post("/movie/edit/999", url.Values{"title": {"x"}, "year": {"1"}})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("POST missing id: status %d, want 404", resp.StatusCode)
	}
}

// TestEdit_RequiresLogin verifies anonymous edits go to /login with a flash.
func TestEdit_RequiresLogin(t *testing.T) {
	env := newTestEnv(t)
	env.seed()
	leon := env.findMovie("Leon")

	resp, _ := env.post("/movie/edit/"+itoa(leon.ID), url.Values{"title": {"Hacked"}, "year": {"1"}})
	expectRedirect(t, resp, "/login")
	_, body := env.follow(resp)
	if !strings.Contains(body, middleware.LoginRequiredMessage) {
		t.Error("missing login-required flash")
	}
	if got := env.findMovie("Leon"); got.Year != "1994" {
		t.Errorf("anonymous edit changed row: %+v", got)
	}
}

// --- delete ---

// TestDelete_Flow covers delete and repeat delete.
func TestDelete_Flow(t *testing.T) {
	env := newTestEnv(t)
	env.seed()
	env.provisionAdmin()
	env.login()
	walle := env.findMovie("WALL-E")
	path := "/movie/delete/" + itoa(walle.ID)

	resp, _ := env.post(path, nil)
	expectRedirect(t, resp, "/")
	_, body := env.follow(resp)
	if !strings.Contains(body, "Item deleted.") || !strings.Contains(body, "9 Titles") {
		t.Error("delete not reflected")
	}
	if strings.Contains(body, "WALL-E") {
		t.Error("deleted movie still listed")
	}

	resp, _ = env.post(path, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("repeat delete: status %d, want 404", resp.StatusCode)
	}
}

// TestDelete_RequiresLogin verifies anonymous deletes change nothing.
func TestDelete_RequiresLogin(t *testing.T) {
	env := newTestEnv(t)
	env.seed()

	resp, _ := env.post("/movie/delete/1", nil)
	expectRedirect(t, resp, "/login")
	if n := env.movieCount(); n != 10 {
		t.Errorf("movies = %d, want 10", n)
	}
}

// --- auth ---

// TestLogin covers the credential outcomes.
func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		location string
		flash    string
	}{
		{"success", testUsername, testPassword, "/", "Login success."},
		{"wrong password", testUsername, "nope", "/login", "Invalid username or password."},
		{"wrong username", "admin", testPassword, "/login", "Invalid username or password."},
		{"empty password", testUsername, "", "/login", "Invalid input."},
		{"empty username", "", testPassword, "/login", "Invalid input."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.provisionAdmin()

			resp, _ := env.post("/login", url.Values{"username": {tt.username}, "password": {tt.password}})
			expectRedirect(t, resp, tt.location)
			_, body := env.follow(resp)
			if !strings.Contains(body, tt.flash) {
				t.Errorf("missing flash %q", tt.flash)
			}
			loggedIn := strings.Contains(body, `href="/logout"`)
			if loggedIn != (tt.location == "/") {
				t.Errorf("logged in = %v", loggedIn)
			}
		})
	}
}

// TestLogin_PlaceholderAccount verifies the forge placeholder cannot log in.
func TestLogin_PlaceholderAccount(t *testing.T) {
	env := newTestEnv(t)
	env.seed()

	resp, _ := env.post("/login", url.Values{"username": {"cailuo"}, "password": {"x"}})
	expectRedirect(t, resp, "/login")
}

// TestLogout verifies the session ends and guarded routes close again.
func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	env.provisionAdmin()
	env.login()

	resp, _ := env.get("/logout")
	expectRedirect(t, resp, "/")
	_, body := env.follow(resp)
	if !strings.Contains(body, "Goodbye.") || !strings.Contains(body, `href="/login"`) {
		t.Error("logout not reflected")
	}

	resp, _ = env.get("/settings")
	expectRedirect(t, resp, "/login")
}

// TestLogout_Anonymous verifies anonymous logout asks for login.
func TestLogout_Anonymous(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.get("/logout")
	expectRedirect(t, resp, "/login")
}

// --- settings ---

// TestSettings covers name updates and validation.
func TestSettings(t *testing.T) {
	env := newTestEnv(t)
	env.provisionAdmin()
	env.login()

	resp, body := env.get("/settings")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `value="Grey Li"`) {
		t.Fatalf("settings form: %d", resp.StatusCode)
	}

	resp, _ = env.post("/settings", url.Values{"name": {strings.Repeat("x", 21)}})
	expectRedirect(t, resp, "/settings")
	_, body = env.follow(resp)
	if !strings.Contains(body, "Invalid input.") {
		t.Error("missing 'Invalid input.' flash")
	}

	resp, _ = env.post("/settings", url.Values{"name": {"Cailuo"}})
	expectRedirect(t, resp, "/")
	_, body = env.follow(resp)
	if !strings.Contains(body, "Settings updated.") || !strings.Contains(body, "Cailuo&#39;s Watchlist") {
		t.Error("settings update not reflected")
	}
}

// --- static and demo pages ---

// TestPages covers routes that never touch the store.
func TestPages(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		path   string
		status int
		want   string
	}{
		{"/cailuo", http.StatusOK, "<h1>Hello Cailuo!</h1>"},
		{"/base", http.StatusOK, "<h1>About Watchlist</h1>"},
		{"/form", http.StatusOK, `name="name"`},
		{"/static/style.css", http.StatusOK, ".movie-list"},
		{"/static/images/totoro.svg", http.StatusOK, "<svg"},
		{"/nope", http.StatusNotFound, "Page Not Found - 404"},
		{"/static/missing.css", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := env.get(tt.path)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if !strings.Contains(body, tt.want) {
				t.Errorf("body missing %q", tt.want)
			}
		})
	}
}

// TestFormDemo verifies the demo form echoes the submitted name.
func TestFormDemo(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.post("/form", url.Values{"name": {"<Totoro>"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, "Hello, &lt;Totoro&gt;!") {
		t.Errorf("echo missing or unescaped:\n%s", body)
	}
}

// TestSecurityAndRequestHeaders verifies every response carries the hardening headers.
func TestSecurityAndRequestHeaders(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.get("/")

	if resp.Header.Get("X-Frame-Options") != "DENY" {
		t.Error("missing X-Frame-Options")
	}
	if resp.Header.Get(middleware.RequestIDHeader) == "" {
		t.Error("missing request id")
	}
}

// TestMetrics verifies requests and queries show up in the exposition.
func TestMetrics(t *testing.T) {
	env := newTestEnv(t)
	env.seed()
	env.get("/")

	resp, body := env.get("/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	for _, want := range []string{
		`watchlist_http_request_duration_seconds_count{method="GET",route="GET /{$}",status="200"}`,
		`watchlist_db_query_duration_seconds_count{op="QueryContext"}`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

// TestNewApp_Validation verifies required options.
func TestNewApp_Validation(t *testing.T) {
	if _, err := NewApp(nil, Options{SecretKey: make([]byte, 32)}); err == nil {
		t.Error("nil stores accepted")
	}
	env := newTestEnv(t)
	if _, err := NewApp(env.stores, Options{SecretKey: []byte("short")}); err == nil {
		t.Error("short secret accepted")
	}
}
