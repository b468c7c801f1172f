package view

// Screen is one of the app's named views.
type Screen string

const (
	ScreenDashboard      Screen = "dashboard"
	ScreenCheckin        Screen = "checkin"
	ScreenBreathing      Screen = "breathing"
	ScreenJournal        Screen = "journal"
	ScreenProgress       Screen = "progress"
	ScreenSupport        Screen = "support"
	ScreenChallenges     Screen = "challenges"
	ScreenOnboarding     Screen = "onboarding"
	ScreenCelebration    Screen = "celebration"
	ScreenPsychoanalysis Screen = "psychoanalysis"
	ScreenLanguage       Screen = "language"
	ScreenProfile        Screen = "profile"
	ScreenSettings       Screen = "settings"
	ScreenSessionHistory Screen = "sessionHistory"
)

var screens = map[Screen]bool{
	ScreenDashboard: true, ScreenCheckin: true, ScreenBreathing: true,
	ScreenJournal: true, ScreenProgress: true, ScreenSupport: true,
	ScreenChallenges: true, ScreenOnboarding: true, ScreenCelebration: true,
	ScreenPsychoanalysis: true, ScreenLanguage: true, ScreenProfile: true,
	ScreenSettings: true, ScreenSessionHistory: true,
}

// Immersive screens take the full-bleed layout; everything else renders in
// the padded container.
var immersive = map[Screen]bool{
	ScreenBreathing: true, ScreenJournal: true, ScreenSupport: true,
	ScreenCheckin: true, ScreenOnboarding: true, ScreenCelebration: true,
	ScreenPsychoanalysis: true, ScreenLanguage: true,
}

func Valid(s Screen) bool {
	return screens[s]
}

func Immersive(s Screen) bool {
	return immersive[s]
}

// Initial picks the first screen once auth and language state have settled:
// no language yet, the language picker; a language but no user, onboarding;
// otherwise the dashboard.
func Initial(languageSet bool, user string) Screen {
	if !languageSet {
		return ScreenLanguage
	}
	if user == "" {
		return ScreenOnboarding
	}
	return ScreenDashboard
}

// Router holds the single current-screen pointer. There is no history
// stack; Back targets are hardcoded per screen.
type Router struct {
	current Screen
}

func NewRouter() *Router {
	return &Router{current: ScreenDashboard}
}

func (r *Router) Current() Screen {
	return r.current
}

// Navigate replaces the current screen unconditionally.
func (r *Router) Navigate(s Screen) {
	r.current = s
}

// Back moves to the screen's fixed back target. Session history returns to
// progress; every other screen returns to the dashboard.
func (r *Router) Back() {
	switch r.current {
	case ScreenSessionHistory:
		r.current = ScreenProgress
	default:
		r.current = ScreenDashboard
	}
}
