package logic

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"innerbloom-backend/internal/common"
	"innerbloom-backend/internal/logger"
	"innerbloom-backend/internal/store"
	"innerbloom-backend/internal/timer"
)

// SessionDuration is the guided session's wall-clock budget in seconds.
const SessionDuration = 40 * 60

const (
	SenderUser = "user"
	SenderAI   = "ai"
)

type SessionState int

const (
	StateIdle SessionState = iota
	StateStarting
	StateActive
	StateEnded
)

// Dialog is the modal covering the session, if any. While a dialog is
// open the countdown freezes, so the terminal transition cannot fire
// behind a confirmation prompt.
type Dialog int

const (
	DialogNone Dialog = iota
	DialogExit
	DialogTimesUp
)

func (d Dialog) String() string {
	switch d {
	case DialogExit:
		return "exit"
	case DialogTimesUp:
		return "timesUp"
	default:
		return "none"
	}
}

// ChatMessage is one transcript entry. The AI entry of an in-flight turn
// grows in place as chunks arrive.
type ChatMessage struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// SessionSummary is the stored record of a finished guided session.
type SessionSummary struct {
	ID      int64  `json:"id"` // creation timestamp, unix milliseconds
	Date    string `json:"date"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// Session drives one guided conversation: idle -> starting -> active
// (responding per turn) -> ended, with a 40-minute countdown that raises
// the time's-up dialog exactly once.
type Session struct {
	ID   string
	user string

	mu         sync.Mutex
	state      SessionState
	responding bool
	dialog     Dialog
	messages   []ChatMessage
	chat       ChatStream
	countdown  *timer.Countdown

	provider AIProvider
	store    *store.Scoped
	log      *logger.Logger
	now      func() time.Time
	tick     time.Duration
}

func NewSession(user string, provider AIProvider, s *store.Scoped, log *logger.Logger, tick time.Duration) *Session {
	return &Session{
		ID:       uuid.NewString(),
		user:     user,
		state:    StateIdle,
		provider: provider,
		store:    s,
		log:      log.With("session", user),
		now:      time.Now,
		tick:     tick,
	}
}

// Start opens the conversation and streams the opening AI message. The
// session becomes active only after the stream completes; any failure
// leaves no partial session behind.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return fmt.Errorf("session already started")
	}
	s.state = StateStarting
	s.messages = []ChatMessage{{Sender: SenderAI}}
	s.mu.Unlock()

	chat, err := s.provider.NewChat(common.PsychoanalystSystemInstruction)
	if err != nil {
		s.reset()
		return err
	}

	_, err = chat.SendStream(ctx, common.PsychoanalystStartPrompt, func(delta string) {
		s.mu.Lock()
		if s.state == StateStarting {
			s.messages[0].Text += delta
		}
		s.mu.Unlock()
	})
	if err != nil {
		s.reset()
		return fmt.Errorf("start session: %w", err)
	}

	s.mu.Lock()
	s.chat = chat
	s.state = StateActive
	s.countdown = timer.NewCountdown(SessionDuration, s.tick, nil, s.timesUp)
	s.countdown.Start()
	s.mu.Unlock()
	return nil
}

func (s *Session) reset() {
	s.mu.Lock()
	s.state = StateIdle
	s.messages = nil
	s.mu.Unlock()
}

func (s *Session) timesUp() {
	s.mu.Lock()
	if s.state == StateActive && s.dialog == DialogNone {
		s.dialog = DialogTimesUp
	}
	s.mu.Unlock()
}

// Send submits one user turn and streams the reply through onDelta. Blank
// input, an in-flight response, or an inactive session make it a no-op.
// A mid-stream failure rolls the transcript back to before this turn and
// leaves the session active and retryable.
func (s *Session) Send(ctx context.Context, text string, onDelta func(string)) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	s.mu.Lock()
	if s.state != StateActive || s.responding {
		s.mu.Unlock()
		return "", nil
	}
	s.responding = true
	rollbackTo := len(s.messages)
	s.messages = append(s.messages,
		ChatMessage{Sender: SenderUser, Text: text},
		ChatMessage{Sender: SenderAI})
	idx := len(s.messages) - 1
	chat := s.chat
	s.mu.Unlock()

	full, err := chat.SendStream(ctx, text, func(delta string) {
		s.mu.Lock()
		// A reply landing after the session ended is discarded.
		if s.state == StateActive && idx < len(s.messages) {
			s.messages[idx].Text += delta
		}
		s.mu.Unlock()
		if onDelta != nil {
			onDelta(delta)
		}
	})

	s.mu.Lock()
	s.responding = false
	if err != nil && s.state == StateActive {
		s.messages = s.messages[:rollbackTo]
	}
	s.mu.Unlock()

	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	return full, nil
}

// SetDialog opens the exit confirmation or closes whatever dialog is
// open. The countdown freezes while any dialog is showing.
func (s *Session) SetDialog(d Dialog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialog = d
	if s.countdown == nil {
		return
	}
	if d == DialogNone {
		s.countdown.Resume()
	} else {
		s.countdown.Pause()
	}
}

// End closes the session for any reason (user exit or timer expiry) and
// kicks off summary generation in the background. The summary path can
// never block or delay the caller.
func (s *Session) End(reason string) {
	s.mu.Lock()
	if s.state == StateEnded {
		s.mu.Unlock()
		return
	}
	s.state = StateEnded
	if s.countdown != nil {
		s.countdown.Stop()
	}
	final := make([]ChatMessage, len(s.messages))
	copy(final, s.messages)
	s.mu.Unlock()

	s.log.Info("session ended", "reason", reason, "messages", len(final))
	go s.generateSummary(final)
}

// generateSummary is fire-and-forget: failures are logged and dropped,
// never surfaced to the user. Sessions with fewer than 2 messages are not
// summarized.
func (s *Session) generateSummary(messages []ChatMessage) {
	if len(messages) < 2 {
		return
	}

	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		if m.Sender == SenderUser {
			lines = append(lines, "User: "+m.Text)
		} else {
			lines = append(lines, "AI: "+m.Text)
		}
	}
	transcript := strings.Join(lines, "\n")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := s.provider.CompleteJSON(ctx, common.SummaryInstruction, transcript)
	if err != nil {
		s.log.Error("generate session summary", "err", err)
		return
	}

	now := s.now()
	summary := SessionSummary{
		ID:      now.UnixMilli(),
		Date:    now.UTC().Format(time.RFC3339),
		Title:   result.Title,
		Summary: result.Summary,
	}

	existing, err := store.Read(s.store, s.user, keySummaries, []SessionSummary{})
	if err != nil {
		s.log.Warn("read stored summaries", "err", err)
	}
	updated := append([]SessionSummary{summary}, existing...)
	if err := s.store.Write(s.user, keySummaries, updated); err != nil {
		s.log.Error("store session summary", "err", err)
	}
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) DialogState() Dialog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dialog
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Remaining reports the countdown's seconds left.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countdown == nil {
		return SessionDuration
	}
	return s.countdown.Remaining()
}
