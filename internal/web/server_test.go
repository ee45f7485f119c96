package web

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pathakanu/pillpal/internal/auth"
	"github.com/pathakanu/pillpal/internal/community"
	"github.com/pathakanu/pillpal/internal/reminder"
	"github.com/pathakanu/pillpal/internal/testutil"
	"github.com/pathakanu/pillpal/internal/voice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testApp struct {
	srv   *httptest.Server
	clock atomic.Pointer[time.Time]
}

func (a *testApp) setClock(now time.Time) {
	a.clock.Store(&now)
}

func newTestApp(t *testing.T, maxUpload int64) *testApp {
	t.Helper()
	stores := testutil.NewStores(t)
	storage, err := voice.NewLocalStorage(filepath.Join(t.TempDir(), "uploads"), nil)
	require.NoError(t, err)

	app := &testApp{}
	app.setClock(testutil.At(8, 55))
	s, err := New(Deps{
		Auth:      auth.NewService(stores.Users).WithCost(bcrypt.MinCost),
		Sessions:  auth.NewSessions([]byte("test-secret"), time.Hour, false),
		Reminders: reminder.NewService(stores.Reminders, stores.VoiceFiles),
		Voice:     voice.NewService(stores.VoiceFiles, storage, maxUpload),
		Community: community.NewService(stores.Feed),
		Logger:    log.New(io.Discard, "", 0),
		Now:       func() time.Time { return *app.clock.Load() },
	})
	require.NoError(t, err)

	app.srv = httptest.NewServer(s.Routes())
	t.Cleanup(app.srv.Close)
	return app
}

type browser struct {
	t      *testing.T
	app    *testApp
	client *http.Client
}

func (a *testApp) browser(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:   t,
		app: a,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) do(req *http.Request) (*http.Response, string) {
	b.t.Helper()
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp, string(body)
}

func (b *browser) get(path string) (*http.Response, string) {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.app.srv.URL+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

func (b *browser) post(path string, form url.Values) (*http.Response, string) {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodPost, b.app.srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) upload(name, filename string, content []byte) (*http.Response, string) {
	b.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(b.t, mw.WriteField("name", name))
	part, err := mw.CreateFormFile("voice_file", filename)
	require.NoError(b.t, err)
	_, err = part.Write(content)
	require.NoError(b.t, err)
	require.NoError(b.t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, b.app.srv.URL+pathUploadVoice, &buf)
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return b.do(req)
}

func (b *browser) register(name, email string) {
	b.t.Helper()
	resp, _ := b.post(pathRegister, url.Values{
		"name":             {name},
		"email":            {email},
		"password":         {"secret1"},
		"confirm_password": {"secret1"},
	})
	require.Equal(b.t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(b.t, pathDashboard, resp.Header.Get("Location"))
}

// page fetches path and returns the rendered body, consuming any flash.
func (b *browser) page(path string) string {
	b.t.Helper()
	resp, body := b.get(path)
	require.Equal(b.t, http.StatusOK, resp.StatusCode, body)
	return body
}

func requireRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, location, resp.Header.Get("Location"))
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	app := newTestApp(t, 0)
	b := app.browser(t)

	for _, path := range []string{
		pathDashboard, pathAddReminder, pathUploadVoice, pathCommunity, pathDueSoon,
		"/mark_taken/abc", "/delete_reminder/abc", "/play_voice/abc",
	} {
		resp, _ := b.get(path)
		requireRedirect(t, resp, pathLogin)
	}

	resp, _ := b.post(pathCommunity, url.Values{"message": {"hi"}})
	requireRedirect(t, resp, pathLogin)

	resp, _ = b.get(pathIndex)
	requireRedirect(t, resp, pathLogin)
}

func TestRegisterLoginLogout(t *testing.T) {
	app := newTestApp(t, 0)
	b := app.browser(t)

	b.register("Ada", "a@x.com")
	body := b.page(pathDashboard)
	assert.Contains(t, body, "Hello, Ada")
	assert.Contains(t, body, "Account created successfully! Welcome to PillPal.")

	resp, _ := b.get(pathIndex)
	requireRedirect(t, resp, pathDashboard)

	resp, _ = b.get(pathLogout)
	requireRedirect(t, resp, pathLogin)
	resp, _ = b.get(pathDashboard)
	requireRedirect(t, resp, pathLogin)
	resp, _ = b.get(pathLogout)
	requireRedirect(t, resp, pathLogin)

	other := app.browser(t)
	resp, _ = other.post(pathRegister, url.Values{
		"name": {"Imposter"}, "email": {"A@X.com"}, "password": {"secret1"}, "confirm_password": {"secret1"},
	})
	requireRedirect(t, resp, pathRegister)
	assert.Contains(t, other.page(pathRegister), "Email already registered.")

	resp, _ = b.post(pathLogin, url.Values{"email": {"a@x.com"}, "password": {"wrong12"}})
	requireRedirect(t, resp, pathLogin)
	assert.Contains(t, b.page(pathLogin), "Invalid email or password.")

	resp, _ = b.post(pathLogin, url.Values{"email": {"a@x.com"}, "password": {"secret1"}})
	requireRedirect(t, resp, pathDashboard)
	body = b.page(pathDashboard)
	assert.Contains(t, body, "Welcome back!")
	assert.Contains(t, body, "Hello, Ada")
}

func TestReminderFlow(t *testing.T) {
	app := newTestApp(t, 0)
	alice := app.browser(t)
	alice.register("Alice", "alice@x.com")

	resp, _ := alice.post(pathAddReminder, url.Values{"medication_name": {"Aspirin"}, "dosage": {""}, "time": {"09:00"}})
	requireRedirect(t, resp, pathAddReminder)
	assert.Contains(t, alice.page(pathAddReminder), "Please fill in all required fields.")

	resp, _ = alice.post(pathAddReminder, url.Values{"medication_name": {"Aspirin"}, "dosage": {"1 tab"}, "time": {"09:00"}})
	requireRedirect(t, resp, pathDashboard)

	body := alice.page(pathDashboard)
	assert.Contains(t, body, "Aspirin")
	assert.Contains(t, body, "09:00 AM")
	assert.Contains(t, body, `id="due-soon"`)
	assert.NotContains(t, body, "Due now")

	resp, body = alice.get(pathDueSoon)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var due dueSoonResponse
	require.NoError(t, json.Unmarshal([]byte(body), &due))
	assert.True(t, due.DueSoon)
	assert.Equal(t, 1, due.Count)

	app.setClock(testutil.At(9, 5))
	body = alice.page(pathDashboard)
	assert.Contains(t, body, "Due now")

	id := extractID(t, body, "/mark_taken/")

	bob := app.browser(t)
	bob.register("Bob", "bob@x.com")
	resp, _ = bob.get("/mark_taken/" + id)
	requireRedirect(t, resp, pathDashboard)
	assert.Contains(t, bob.page(pathDashboard), "Reminder not found.")
	assert.Contains(t, alice.page(pathDashboard), "Due now")

	resp, _ = alice.get("/mark_taken/" + id)
	requireRedirect(t, resp, pathDashboard)
	body = alice.page(pathDashboard)
	assert.Contains(t, body, "Medication marked as taken!")
	assert.NotContains(t, body, "Due now")
	assert.Contains(t, body, "Taken")

	resp, _ = alice.get("/delete_reminder/nope")
	requireRedirect(t, resp, pathDashboard)
	assert.Contains(t, alice.page(pathDashboard), "Aspirin")

	resp, _ = alice.get("/delete_reminder/" + id)
	requireRedirect(t, resp, pathDashboard)
	assert.NotContains(t, alice.page(pathDashboard), "Aspirin")
}

func TestVoiceUploadAndPlayback(t *testing.T) {
	app := newTestApp(t, 1<<20)
	alice := app.browser(t)
	alice.register("Alice", "alice@x.com")

	resp, _ := alice.upload("Evil", "voice.exe", []byte("MZ"))
	requireRedirect(t, resp, pathUploadVoice)
	assert.Contains(t, alice.page(pathUploadVoice), "Invalid file type.")

	resp, _ = alice.upload("Bigger", "bigger.mp3", bytes.Repeat([]byte{1}, (1<<20)+10))
	requireRedirect(t, resp, pathUploadVoice)
	assert.Contains(t, alice.page(pathUploadVoice), "File is too large.")

	audio := append([]byte("ID3\x03\x00\x00\x00\x00\x00\x00"), bytes.Repeat([]byte{0}, 128)...)
	resp, _ = alice.upload("Morning", "voice.mp3", audio)
	requireRedirect(t, resp, pathDashboard)

	body := alice.page(pathDashboard)
	assert.Contains(t, body, "Voice recording uploaded successfully!")
	voiceID := extractID(t, body, "/play_voice/")

	resp, played := alice.get("/play_voice/" + voiceID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "audio/mpeg", resp.Header.Get("Content-Type"))
	assert.Equal(t, string(audio), played)

	resp, _ = alice.post(pathAddReminder, url.Values{
		"medication_name": {"Aspirin"}, "dosage": {"1 tab"}, "time": {"09:00"}, "voice_file": {voiceID},
	})
	requireRedirect(t, resp, pathDashboard)
	assert.Contains(t, alice.page(pathDashboard), "Morning")

	bob := app.browser(t)
	bob.register("Bob", "bob@x.com")
	resp, _ = bob.get("/play_voice/" + voiceID)
	requireRedirect(t, resp, pathDashboard)
	assert.Contains(t, bob.page(pathDashboard), "Voice file not found.")
}

func TestCommunityFeed(t *testing.T) {
	app := newTestApp(t, 0)
	ada := app.browser(t)
	ada.register("Ada", "ada@x.com")
	bob := app.browser(t)
	bob.register("Bob", "bob@x.com")

	resp, _ := ada.post(pathCommunity, url.Values{"message": {"   "}})
	requireRedirect(t, resp, pathCommunity)
	assert.Contains(t, ada.page(pathCommunity), "No messages yet.")

	resp, _ = ada.post(pathCommunity, url.Values{"message": {"hello"}})
	requireRedirect(t, resp, pathCommunity)

	body := bob.page(pathCommunity)
	assert.Contains(t, body, "<strong>Ada</strong>: hello")
	assert.Equal(t, 1, strings.Count(body, "<li><strong>"))

	resp, _ = bob.post(pathCommunity, url.Values{"message": {"<with food>"}})
	requireRedirect(t, resp, pathCommunity)
	body = ada.page(pathCommunity)
	assert.Contains(t, body, "<strong>Bob</strong>: &lt;with food&gt;")
	assert.Equal(t, 2, strings.Count(body, "<li><strong>"))
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(t, 0)
	resp, body := app.browser(t).get(pathHealth)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)
}

func extractID(t *testing.T, body, prefix string) string {
	t.Helper()
	idx := strings.Index(body, prefix)
	require.GreaterOrEqual(t, idx, 0, "no %s link in page", prefix)
	rest := body[idx+len(prefix):]
	end := strings.IndexByte(rest, '"')
	require.Greater(t, end, 0)
	return rest[:end]
}
