package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialScreenPriority(t *testing.T) {
	assert.Equal(t, ScreenLanguage, Initial(false, ""))
	assert.Equal(t, ScreenLanguage, Initial(false, "ava"), "language wins over user state")
	assert.Equal(t, ScreenOnboarding, Initial(true, ""))
	assert.Equal(t, ScreenDashboard, Initial(true, "ava"))
}

func TestImmersiveScreens(t *testing.T) {
	for _, s := range []Screen{
		ScreenBreathing, ScreenJournal, ScreenSupport, ScreenCheckin,
		ScreenOnboarding, ScreenCelebration, ScreenPsychoanalysis, ScreenLanguage,
	} {
		assert.True(t, Immersive(s), "%s should be immersive", s)
	}
	for _, s := range []Screen{
		ScreenDashboard, ScreenProgress, ScreenChallenges, ScreenProfile,
		ScreenSettings, ScreenSessionHistory,
	} {
		assert.False(t, Immersive(s), "%s should use the padded layout", s)
	}
}

func TestRouterBackTargets(t *testing.T) {
	r := NewRouter()
	assert.Equal(t, ScreenDashboard, r.Current())

	r.Navigate(ScreenSessionHistory)
	r.Back()
	assert.Equal(t, ScreenProgress, r.Current())

	r.Navigate(ScreenBreathing)
	r.Back()
	assert.Equal(t, ScreenDashboard, r.Current())
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(ScreenCheckin))
	assert.False(t, Valid(Screen("nope")))
}
