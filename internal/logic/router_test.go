package logic

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innerbloom-backend/internal/ai"
	"innerbloom-backend/internal/common"
	"innerbloom-backend/internal/logger"
	"innerbloom-backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRegistry struct {
	users []string
}

func (f *fakeRegistry) Register(username string) error {
	for _, u := range f.users {
		if u == username {
			return nil
		}
	}
	f.users = append(f.users, username)
	return nil
}

func (f *fakeRegistry) Usernames() ([]string, error) {
	return f.users, nil
}

func newTestApp(t *testing.T, provider AIProvider) (*App, *gin.Engine) {
	t.Helper()
	s := store.NewScoped(store.NewMemoryBackend(), logger.NewNop())
	if provider == nil {
		provider = &fakeProvider{chat: &fakeChat{}}
	}
	app := NewApp(s, &fakeRegistry{}, provider, logger.NewNop())
	app.tick = time.Millisecond
	return app, SetupRouter(app)
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func login(t *testing.T, r *gin.Engine, username string) {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/login", gin.H{"username": username})
	require.Equal(t, 200, w.Code)
}

func validCheckin() gin.H {
	return gin.H{
		"mood":      4,
		"energy":    70,
		"sleep":     3,
		"stress":    2,
		"gratitude": []string{"coffee", "sunshine", "friends"},
	}
}

func TestPing(t *testing.T) {
	_, r := newTestApp(t, nil)
	w := doJSON(r, http.MethodGet, "/ping", nil)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "pong", decode(t, w)["message"])
}

func TestBootstrapScreenPriority(t *testing.T) {
	_, r := newTestApp(t, nil)

	// Nothing configured yet: language selection comes first.
	w := doJSON(r, http.MethodGet, "/api/bootstrap", nil)
	require.Equal(t, 200, w.Code)
	assert.Equal(t, "language", decode(t, w)["screen"])

	w = doJSON(r, http.MethodPost, "/api/language", gin.H{"language": "en"})
	require.Equal(t, 200, w.Code)

	// Language chosen but nobody logged in: onboarding.
	w = doJSON(r, http.MethodGet, "/api/bootstrap", nil)
	assert.Equal(t, "onboarding", decode(t, w)["screen"])

	login(t, r, "ava")
	w = doJSON(r, http.MethodGet, "/api/bootstrap", nil)
	body := decode(t, w)
	assert.Equal(t, "dashboard", body["screen"])
	assert.Equal(t, "ava", body["username"])
}

func TestLanguageRejectsUnknown(t *testing.T) {
	_, r := newTestApp(t, nil)
	w := doJSON(r, http.MethodPost, "/api/language", gin.H{"language": "fr"})
	assert.Equal(t, 400, w.Code)
}

func TestCheckinFlow(t *testing.T) {
	_, r := newTestApp(t, nil)
	login(t, r, "ava")

	w := doJSON(r, http.MethodGet, "/api/checkin/status", nil)
	require.Equal(t, 200, w.Code)
	assert.Equal(t, false, decode(t, w)["completed_today"])

	w = doJSON(r, http.MethodPost, "/api/checkin", validCheckin())
	require.Equal(t, 200, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(PointsPerCheckin), body["points_earned"])
	progress := body["progress"].(map[string]any)
	assert.Equal(t, float64(1), progress["streak"])
	assert.Equal(t, float64(10), progress["wellness_points"])

	w = doJSON(r, http.MethodGet, "/api/checkin/status", nil)
	assert.Equal(t, true, decode(t, w)["completed_today"])

	// Same calendar day: rejected without touching the ledger.
	w = doJSON(r, http.MethodPost, "/api/checkin", validCheckin())
	assert.Equal(t, 400, w.Code)

	w = doJSON(r, http.MethodGet, "/api/progress", nil)
	require.Equal(t, 200, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["streak"])
}

func TestCheckinValidation(t *testing.T) {
	_, r := newTestApp(t, nil)
	login(t, r, "ava")

	entry := validCheckin()
	entry["gratitude"] = []string{"only", "two"}
	w := doJSON(r, http.MethodPost, "/api/checkin", entry)
	assert.Equal(t, 400, w.Code)
}

func TestCheckinRequiresLogin(t *testing.T) {
	_, r := newTestApp(t, nil)
	w := doJSON(r, http.MethodPost, "/api/checkin", validCheckin())
	assert.Equal(t, 401, w.Code)
}

func TestLogoutErasesUserData(t *testing.T) {
	_, r := newTestApp(t, nil)
	login(t, r, "ava")
	w := doJSON(r, http.MethodPost, "/api/checkin", validCheckin())
	require.Equal(t, 200, w.Code)

	w = doJSON(r, http.MethodPost, "/api/logout", nil)
	require.Equal(t, 200, w.Code)

	// Logged out: protected routes refuse.
	w = doJSON(r, http.MethodGet, "/api/progress", nil)
	assert.Equal(t, 401, w.Code)

	// Logging back in sees a clean slate, not yesterday's ledger.
	login(t, r, "ava")
	w = doJSON(r, http.MethodGet, "/api/progress", nil)
	require.Equal(t, 200, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["streak"])
}

func TestSettingsRoundTrip(t *testing.T) {
	_, r := newTestApp(t, nil)
	login(t, r, "ava")

	w := doJSON(r, http.MethodGet, "/api/settings", nil)
	require.Equal(t, 200, w.Code)
	body := decode(t, w)
	assert.Equal(t, "system", body["theme"])
	assert.Equal(t, true, body["notificationsEnabled"])

	w = doJSON(r, http.MethodPut, "/api/settings", gin.H{"theme": "dark", "notificationsEnabled": false})
	require.Equal(t, 200, w.Code)

	w = doJSON(r, http.MethodGet, "/api/settings", nil)
	body = decode(t, w)
	assert.Equal(t, "dark", body["theme"])
	assert.Equal(t, false, body["notificationsEnabled"])

	w = doJSON(r, http.MethodPut, "/api/settings", gin.H{"theme": "neon"})
	assert.Equal(t, 400, w.Code)
}

func TestJournalBlankEntryUsesPlaceholder(t *testing.T) {
	_, r := newTestApp(t, nil)
	login(t, r, "ava")
	w := doJSON(r, http.MethodPost, "/api/language", gin.H{"language": "es"})
	require.Equal(t, 200, w.Code)

	w = doJSON(r, http.MethodPost, "/api/journal/reflect", gin.H{"entry": "   "})
	require.Equal(t, 200, w.Code)
	assert.Equal(t, common.JournalPlaceholder["es"], decode(t, w)["reflection"])
}

func TestJournalReflection(t *testing.T) {
	_, r := newTestApp(t, nil)
	login(t, r, "ava")

	w := doJSON(r, http.MethodPost, "/api/journal/reflect", gin.H{"entry": "Today was hard."})
	require.Equal(t, 200, w.Code)
	assert.Equal(t, "reflection", decode(t, w)["reflection"])
}

func TestBreathingTechniquesCatalog(t *testing.T) {
	_, r := newTestApp(t, nil)
	w := doJSON(r, http.MethodGet, "/api/breathing/techniques", nil)
	require.Equal(t, 200, w.Code)
	techniques := decode(t, w)["techniques"].([]any)
	assert.Len(t, techniques, 7)
}

func TestSessionStartNotConfigured(t *testing.T) {
	_, r := newTestApp(t, &fakeProvider{chatErr: ai.ErrNotConfigured})
	login(t, r, "ava")

	w := doJSON(r, http.MethodPost, "/api/session/start", nil)
	assert.Equal(t, 503, w.Code)
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	provider := &fakeProvider{
		chat: &fakeChat{replies: []fakeReply{
			{chunks: []string{"Welcome."}},
			{chunks: []string{"Go on."}},
		}},
		summary: ai.TitleSummary{Title: "t", Summary: "s"},
	}
	app, r := newTestApp(t, provider)
	login(t, r, "ava")

	w := doJSON(r, http.MethodPost, "/api/session/start", nil)
	require.Equal(t, 200, w.Code)
	body := decode(t, w)
	msgs := body["messages"].([]any)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Welcome.", msgs[0].(map[string]any)["text"])

	// A second start while one is live is refused.
	w = doJSON(r, http.MethodPost, "/api/session/start", nil)
	assert.Equal(t, 400, w.Code)

	w = doJSON(r, http.MethodPost, "/api/session/message", gin.H{"content": "hi"})
	require.Equal(t, 200, w.Code)
	assert.Equal(t, "Go on.", decode(t, w)["reply"])

	w = doJSON(r, http.MethodPost, "/api/session/dialog", gin.H{"dialog": "exit"})
	require.Equal(t, 200, w.Code)
	assert.Equal(t, "exit", decode(t, w)["dialog"])

	w = doJSON(r, http.MethodPost, "/api/session/end", gin.H{"reason": "user"})
	require.Equal(t, 200, w.Code)
	assert.Equal(t, "dashboard", decode(t, w)["screen"])
	assert.Nil(t, app.session("ava"))

	require.Eventually(t, func() bool {
		w := doJSON(r, http.MethodGet, "/api/session/summaries", nil)
		if w.Code != 200 {
			return false
		}
		summaries := decode(t, w)["summaries"].([]any)
		return len(summaries) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestSessionMessageWithoutSession(t *testing.T) {
	_, r := newTestApp(t, nil)
	login(t, r, "ava")
	w := doJSON(r, http.MethodPost, "/api/session/message", gin.H{"content": "hi"})
	assert.Equal(t, 400, w.Code)
}

func TestRitualStatus(t *testing.T) {
	_, r := newTestApp(t, nil)
	w := doJSON(r, http.MethodGet, "/api/ritual", nil)
	require.Equal(t, 200, w.Code)
	body := decode(t, w)
	assert.GreaterOrEqual(t, body["participants"].(float64), float64(participantFloor))
}
