package logic

import (
	"context"
	"sync"
	"time"

	"innerbloom-backend/internal/ai"
	"innerbloom-backend/internal/db"
	"innerbloom-backend/internal/logger"
	"innerbloom-backend/internal/store"
)

// Logical keys inside a user's partition, plus the app-level ones.
const (
	keyStreak          = "streak"
	keyWellnessPoints  = "wellnessPoints"
	keyLastCheckinDate = "lastCheckinDate"
	keyUserSettings    = "userSettings"
	keySummaries       = "psychoanalysisSummaries"

	keyCurrentUser = "currentUser"
	keyLanguage    = "language"
	keyDisclaimer  = "disclaimerAccepted"
)

// ChatStream is one live conversation; SendStream yields ordered chunks.
type ChatStream interface {
	SendStream(ctx context.Context, text string, onDelta func(string)) (string, error)
}

// AIProvider is everything the handlers need from the generative backend.
type AIProvider interface {
	NewChat(system string) (ChatStream, error)
	Complete(ctx context.Context, system, text string) (string, error)
	CompleteJSON(ctx context.Context, system, text string) (ai.TitleSummary, error)
}

type aiProvider struct {
	c *ai.Client
}

// NewAIProvider adapts the concrete client to the provider interface.
func NewAIProvider(c *ai.Client) AIProvider {
	return aiProvider{c: c}
}

func (p aiProvider) NewChat(system string) (ChatStream, error) {
	s, err := p.c.NewChat(system)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (p aiProvider) Complete(ctx context.Context, system, text string) (string, error) {
	return p.c.Complete(ctx, system, text)
}

func (p aiProvider) CompleteJSON(ctx context.Context, system, text string) (ai.TitleSummary, error) {
	return p.c.CompleteJSON(ctx, system, text)
}

// UserRegistry records which users exist, for login and the reminder sweep.
type UserRegistry interface {
	Register(username string) error
	Usernames() ([]string, error)
}

type dbRegistry struct {
	r *db.Registry
}

func NewDBRegistry(r *db.Registry) UserRegistry {
	return dbRegistry{r: r}
}

func (d dbRegistry) Register(username string) error {
	_, err := d.r.GetOrCreate(username)
	return err
}

func (d dbRegistry) Usernames() ([]string, error) {
	return d.r.Usernames()
}

// App holds the application state the handlers work against. It replaces
// ambient globals: everything is wired once in main and passed down.
type App struct {
	Store      *store.Scoped
	Users      UserRegistry
	Ledger     *Ledger
	AI         AIProvider
	Ritual     *Ritual
	Log        *logger.Logger
	WebhookURL string

	// tick is the wall-clock granularity of session countdowns and
	// breathing feeds; tests shrink it.
	tick time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewApp(s *store.Scoped, users UserRegistry, provider AIProvider, log *logger.Logger) *App {
	app := &App{
		Store:    s,
		Users:    users,
		Ledger:   NewLedger(s),
		AI:       provider,
		Ritual:   NewRitual(),
		Log:      log,
		tick:     time.Second,
		sessions: make(map[string]*Session),
	}
	return app
}

// CurrentUser resolves the active user; empty when nobody is logged in.
func (app *App) CurrentUser() string {
	user, err := store.ReadApp(app.Store, keyCurrentUser, "")
	if err != nil {
		app.Log.Warn("read current user", "err", err)
	}
	return user
}

// Language returns the selected UI language, empty until one is chosen.
func (app *App) Language() string {
	lang, err := store.ReadApp(app.Store, keyLanguage, "")
	if err != nil {
		app.Log.Warn("read language", "err", err)
	}
	return lang
}

// session returns the user's live session, if any.
func (app *App) session(user string) *Session {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.sessions[user]
}

func (app *App) setSession(user string, s *Session) {
	app.mu.Lock()
	defer app.mu.Unlock()
	if s == nil {
		delete(app.sessions, user)
		return
	}
	app.sessions[user] = s
}
