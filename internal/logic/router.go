package logic

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"innerbloom-backend/internal/ai"
	"innerbloom-backend/internal/common"
	"innerbloom-backend/internal/store"
	"innerbloom-backend/internal/view"
)

// SetupRouter wires the HTTP surface.
func SetupRouter(app *App) *gin.Engine {
	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.POST("/api/login", app.LoginHandler)
	r.POST("/api/logout", app.LogoutHandler)
	r.GET("/api/bootstrap", app.BootstrapHandler)
	r.POST("/api/disclaimer/accept", app.DisclaimerHandler)
	r.POST("/api/language", app.LanguageHandler)

	r.POST("/api/checkin", app.CheckinHandler)
	r.GET("/api/checkin/status", app.CheckinStatusHandler)
	r.GET("/api/progress", app.ProgressHandler)

	r.GET("/api/settings", app.GetSettingsHandler)
	r.PUT("/api/settings", app.PutSettingsHandler)

	r.POST("/api/journal/reflect", app.JournalReflectHandler)

	r.GET("/api/breathing/techniques", app.BreathingTechniquesHandler)
	r.GET("/api/breathing/ws", app.BreathingLiveHandler)

	r.POST("/api/session/start", app.SessionStartHandler)
	r.GET("/api/session", app.SessionStateHandler)
	r.POST("/api/session/message", app.SessionMessageHandler)
	r.GET("/api/session/ws", app.SessionLiveHandler)
	r.POST("/api/session/dialog", app.SessionDialogHandler)
	r.POST("/api/session/end", app.SessionEndHandler)
	r.GET("/api/session/summaries", app.SessionSummariesHandler)

	r.GET("/api/ritual", app.RitualHandler)

	return r
}

// aiErrorStatus maps a failed AI call to the right user-visible status:
// a missing credential is a configuration problem, everything else a
// transport one.
func aiErrorStatus(c *gin.Context, err error) {
	if errors.Is(err, ai.ErrNotConfigured) {
		c.JSON(503, gin.H{"error": "api key not configured"})
		return
	}
	c.JSON(502, gin.H{"error": "AI error"})
}

func (app *App) LoginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Username) == "" {
		c.JSON(400, gin.H{"error": "username required"})
		return
	}
	username := strings.TrimSpace(req.Username)
	if !store.ValidUser(username) {
		c.JSON(400, gin.H{"error": "invalid username"})
		return
	}
	if err := app.Users.Register(username); err != nil {
		c.JSON(500, gin.H{"error": "user error"})
		return
	}
	if err := app.Store.WriteApp(keyCurrentUser, username); err != nil {
		c.JSON(507, gin.H{"error": "storage full"})
		return
	}
	c.JSON(200, gin.H{"username": username, "screen": view.ScreenDashboard})
}

// LogoutHandler erases the user's whole partition before clearing the
// active user, so logging back in sees defaults, not stale data.
func (app *App) LogoutHandler(c *gin.Context) {
	user := app.CurrentUser()
	if user == "" {
		c.JSON(400, gin.H{"error": "not logged in"})
		return
	}
	if err := app.Store.EraseUser(user); err != nil {
		c.JSON(500, gin.H{"error": "erase failed"})
		return
	}
	if err := app.Store.DeleteApp(keyCurrentUser); err != nil {
		c.JSON(500, gin.H{"error": "erase failed"})
		return
	}
	if s := app.session(user); s != nil {
		s.End("logout")
		app.setSession(user, nil)
	}
	c.JSON(200, gin.H{"message": "logged out"})
}

func (app *App) BootstrapHandler(c *gin.Context) {
	user := app.CurrentUser()
	lang := app.Language()
	accepted, _ := store.ReadApp(app.Store, keyDisclaimer, false)

	screen := view.Initial(lang != "", user)
	c.JSON(200, gin.H{
		"screen":              screen,
		"immersive":           view.Immersive(screen),
		"language":            lang,
		"username":            user,
		"disclaimer_accepted": accepted,
	})
}

func (app *App) DisclaimerHandler(c *gin.Context) {
	if err := app.Store.WriteApp(keyDisclaimer, true); err != nil {
		c.JSON(507, gin.H{"error": "storage full"})
		return
	}
	c.JSON(200, gin.H{"message": "accepted"})
}

func (app *App) LanguageHandler(c *gin.Context) {
	var req struct {
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || (req.Language != "en" && req.Language != "es") {
		c.JSON(400, gin.H{"error": "language must be en or es"})
		return
	}
	if err := app.Store.WriteApp(keyLanguage, req.Language); err != nil {
		c.JSON(507, gin.H{"error": "storage full"})
		return
	}
	c.JSON(200, gin.H{"language": req.Language})
}

// CheckinHandler validates and applies the daily check-in. The ledger
// itself has no duplicate guard, so the repeat check lives here.
func (app *App) CheckinHandler(c *gin.Context) {
	user := app.CurrentUser()
	if user == "" {
		c.JSON(401, gin.H{"error": "login required"})
		return
	}
	var entry MoodEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(400, gin.H{"error": "invalid check-in"})
		return
	}
	if err := entry.Validate(); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if app.Ledger.CompletedToday(user) {
		c.JSON(400, gin.H{"error": "already checked in today"})
		return
	}
	progress, err := app.Ledger.CompleteCheckin(user, entry)
	if err != nil {
		if errors.Is(err, store.ErrCapacity) {
			c.JSON(507, gin.H{"error": "storage full"})
			return
		}
		c.JSON(500, gin.H{"error": "store error"})
		return
	}
	c.JSON(200, gin.H{
		"progress":      progress,
		"points_earned": PointsPerCheckin,
		"screen":        view.ScreenCelebration,
	})
}

func (app *App) CheckinStatusHandler(c *gin.Context) {
	user := app.CurrentUser()
	if user == "" {
		c.JSON(401, gin.H{"error": "login required"})
		return
	}
	c.JSON(200, gin.H{"completed_today": app.Ledger.CompletedToday(user)})
}

func (app *App) ProgressHandler(c *gin.Context) {
	user := app.CurrentUser()
	if user == "" {
		c.JSON(401, gin.H{"error": "login required"})
		return
	}
	c.JSON(200, app.Ledger.Progress(user))
}

func (app *App) GetSettingsHandler(c *gin.Context) {
	user := app.CurrentUser()
	if user == "" {
		c.JSON(401, gin.H{"error": "login required"})
		return
	}
	settings, err := store.Read(app.Store, user, keyUserSettings, defaultSettings())
	if err != nil {
		app.Log.Warn("read settings", "user", user, "err", err)
	}
	c.JSON(200, settings)
}

func (app *App) PutSettingsHandler(c *gin.Context) {
	user := app.CurrentUser()
	if user == "" {
		c.JSON(401, gin.H{"error": "login required"})
		return
	}
	var settings UserSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(400, gin.H{"error": "invalid settings"})
		return
	}
	if err := settings.Validate(); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := app.Store.Write(user, keyUserSettings, settings); err != nil {
		c.JSON(507, gin.H{"error": "storage full"})
		return
	}
	c.JSON(200, settings)
}

// JournalReflectHandler returns an AI reflection for a journal entry. A
// blank entry short-circuits to the placeholder without a network call.
func (app *App) JournalReflectHandler(c *gin.Context) {
	user := app.CurrentUser()
	if user == "" {
		c.JSON(401, gin.H{"error": "login required"})
		return
	}
	var req struct {
		Entry string `json:"entry"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "entry required"})
		return
	}
	if strings.TrimSpace(req.Entry) == "" {
		lang := app.Language()
		placeholder, ok := common.JournalPlaceholder[lang]
		if !ok {
			placeholder = common.JournalPlaceholder["en"]
		}
		c.JSON(200, gin.H{"reflection": placeholder})
		return
	}
	reflection, err := app.AI.Complete(c.Request.Context(), common.JournalSystemInstruction, req.Entry)
	if err != nil {
		app.Log.Error("journal reflection", "err", err)
		aiErrorStatus(c, err)
		return
	}
	c.JSON(200, gin.H{"reflection": reflection})
}

func (app *App) BreathingTechniquesHandler(c *gin.Context) {
	c.JSON(200, gin.H{"techniques": BreathingTechniques()})
}

// SessionStartHandler opens the guided session for the active user. A
// failed start leaves no session behind and reports whether the problem
// was configuration or transport.
func (app *App) SessionStartHandler(c *gin.Context) {
	user := app.CurrentUser()
	if user == "" {
		c.JSON(401, gin.H{"error": "login required"})
		return
	}
	if s := app.session(user); s != nil && s.State() != StateEnded {
		c.JSON(400, gin.H{"error": "session already active"})
		return
	}

	s := NewSession(user, app.AI, app.Store, app.Log, app.tick)
	if err := s.Start(c.Request.Context()); err != nil {
		app.Log.Error("start session", "user", user, "err", err)
		aiErrorStatus(c, err)
		return
	}
	app.setSession(user, s)
	c.JSON(200, gin.H{
		"id":        s.ID,
		"remaining": s.Remaining(),
		"messages":  s.Messages(),
	})
}

func (app *App) SessionStateHandler(c *gin.Context) {
	s, ok := app.activeSession(c)
	if !ok {
		return
	}
	c.JSON(200, gin.H{
		"id":        s.ID,
		"remaining": s.Remaining(),
		"messages":  s.Messages(),
		"dialog":    s.DialogState().String(),
		"ended":     s.State() == StateEnded,
	})
}

// SessionMessageHandler is the non-streaming turn: it waits for the full
// reply. Clients that want chunks use the websocket feed instead.
func (app *App) SessionMessageHandler(c *gin.Context) {
	s, ok := app.activeSession(c)
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		c.JSON(400, gin.H{"error": "content required"})
		return
	}
	reply, err := s.Send(c.Request.Context(), req.Content, nil)
	if err != nil {
		app.Log.Error("session message", "err", err)
		aiErrorStatus(c, err)
		return
	}
	c.JSON(200, gin.H{"reply": reply})
}

func (app *App) SessionDialogHandler(c *gin.Context) {
	s, ok := app.activeSession(c)
	if !ok {
		return
	}
	var req struct {
		Dialog string `json:"dialog"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "dialog required"})
		return
	}
	switch req.Dialog {
	case "exit":
		s.SetDialog(DialogExit)
	case "none":
		s.SetDialog(DialogNone)
	default:
		c.JSON(400, gin.H{"error": "dialog must be exit or none"})
		return
	}
	c.JSON(200, gin.H{"dialog": s.DialogState().String()})
}

func (app *App) SessionEndHandler(c *gin.Context) {
	user := app.CurrentUser()
	if user == "" {
		c.JSON(401, gin.H{"error": "login required"})
		return
	}
	s := app.session(user)
	if s == nil {
		c.JSON(400, gin.H{"error": "no session"})
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.Reason == "" {
		req.Reason = "user"
	}
	s.End(req.Reason)
	app.setSession(user, nil)
	c.JSON(200, gin.H{"message": "session ended", "screen": view.ScreenDashboard})
}

func (app *App) SessionSummariesHandler(c *gin.Context) {
	user := app.CurrentUser()
	if user == "" {
		c.JSON(401, gin.H{"error": "login required"})
		return
	}
	summaries, err := store.Read(app.Store, user, keySummaries, []SessionSummary{})
	if err != nil {
		app.Log.Warn("read summaries", "user", user, "err", err)
	}
	c.JSON(200, gin.H{"summaries": summaries})
}

func (app *App) RitualHandler(c *gin.Context) {
	c.JSON(200, app.Ritual.Status())
}

// activeSession resolves the logged-in user's live session or writes the
// error response itself.
func (app *App) activeSession(c *gin.Context) (*Session, bool) {
	user := app.CurrentUser()
	if user == "" {
		c.JSON(401, gin.H{"error": "login required"})
		return nil, false
	}
	s := app.session(user)
	if s == nil || s.State() != StateActive {
		c.JSON(400, gin.H{"error": "no active session"})
		return nil, false
	}
	return s, true
}
