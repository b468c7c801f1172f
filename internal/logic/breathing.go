package logic

import (
	"time"

	"innerbloom-backend/internal/timer"
)

// BreathingPattern holds per-phase durations in seconds. Hold and
// HoldAfter are optional; a zero duration drops the phase from the cycle.
type BreathingPattern struct {
	Inhale    float64 `json:"inhale"`
	Hold      float64 `json:"hold,omitempty"`
	Exhale    float64 `json:"exhale"`
	HoldAfter float64 `json:"holdAfter,omitempty"`
}

// BreathingTechnique is a static catalog entry; immutable, not user data.
type BreathingTechnique struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Icon        string           `json:"icon"`
	Pattern     BreathingPattern `json:"pattern"`
	Practice    []string         `json:"practice"`
	Note        string           `json:"note,omitempty"`
}

// Sequence expands the pattern into the phase cycle the sequencer runs,
// skipping optional phases configured to zero.
func (t BreathingTechnique) Sequence() []timer.Phase {
	secs := func(s float64) time.Duration {
		return time.Duration(s * float64(time.Second))
	}
	return []timer.Phase{
		{Name: "inhale", Duration: secs(t.Pattern.Inhale)},
		{Name: "hold", Duration: secs(t.Pattern.Hold)},
		{Name: "exhale", Duration: secs(t.Pattern.Exhale)},
		{Name: "holdAfter", Duration: secs(t.Pattern.HoldAfter)},
	}
}

var breathingTechniques = []BreathingTechnique{
	{
		ID:          "diaphragmatic",
		Name:        "Diaphragmatic Breathing",
		Description: "Stress reduction and improved mind-body connection.",
		Icon:        "lungs",
		Pattern:     BreathingPattern{Inhale: 4, Exhale: 6},
		Practice: []string{
			"Lie down or sit in a comfortable position.",
			"Place one hand on your chest and the other on your abdomen.",
			"Inhale slowly through your nose, feeling your abdomen expand while your chest remains relatively still.",
			"Exhale slowly through your mouth or nose, feeling your abdomen contract.",
			"Continue for 5-10 minutes, focusing on the rising and falling of your abdomen.",
		},
	},
	{
		ID:          "4-7-8",
		Name:        "4-7-8 Technique",
		Description: "Rapidly calms the nervous system.",
		Icon:        "timer",
		Pattern:     BreathingPattern{Inhale: 4, Hold: 7, Exhale: 8},
		Practice: []string{
			"Sit with your back straight.",
			"Exhale completely through your mouth, making a whoosh sound.",
			"Close your mouth and inhale quietly through your nose to a mental count of 4.",
			"Hold your breath for a count of 7.",
			"Exhale completely through your mouth, making a whoosh sound to a count of 8.",
			"This completes one breath. Repeat the cycle 3 more times.",
		},
	},
	{
		ID:          "box",
		Name:        "Box Breathing",
		Description: "Increases mental clarity and concentration.",
		Icon:        "square",
		Pattern:     BreathingPattern{Inhale: 4, Hold: 4, Exhale: 4, HoldAfter: 4},
		Practice: []string{
			"Sit with your back straight.",
			"Inhale through your nose to a count of 4.",
			"Hold your breath for a count of 4.",
			"Exhale through your nose for a count of 4.",
			"Hold the exhale for a count of 4.",
			"Repeat the cycle for several minutes.",
		},
	},
	{
		ID:          "alternateNostril",
		Name:        "Alternate Nostril Breathing",
		Description: "Harmonizes brain hemispheres and balances emotions.",
		Icon:        "yin-yang",
		Pattern:     BreathingPattern{Inhale: 4, Exhale: 6},
		Practice: []string{
			"Sit in a comfortable position.",
			"Use your right thumb to close your right nostril.",
			"Inhale slowly through your left nostril.",
			"Close the left nostril with your right ring finger and release the thumb from the right.",
			"Exhale slowly through your right nostril.",
			"Inhale through the right nostril.",
			"Close the right nostril and exhale through the left.",
			"This completes one cycle. Continue for 5-10 minutes.",
		},
	},
	{
		ID:          "lion",
		Name:        "Lion's Breath",
		Description: "Releases facial, jaw, and emotional tension.",
		Icon:        "mouth",
		Pattern:     BreathingPattern{Inhale: 3, Exhale: 5},
		Practice: []string{
			"Sit on your knees or in a chair.",
			"Inhale deeply through your nose.",
			"As you exhale, open your mouth wide, stick out your tongue, and stretch it towards your chin.",
			"Make a loud, sustained 'ha' sound from deep in your abdomen.",
			"Direct your gaze to the space between your eyebrows or the tip of your nose.",
			"Repeat 3 to 5 times.",
		},
	},
	{
		ID:          "bee",
		Name:        "Bumblebee Breath",
		Description: "Calms the mind and reduces insomnia.",
		Icon:        "ear",
		Pattern:     BreathingPattern{Inhale: 4, Exhale: 8},
		Practice: []string{
			"Sit in a comfortable position and close your eyes.",
			"Gently cover your ears with your thumbs.",
			"Inhale deeply through your nose.",
			"As you exhale, keep your mouth closed and make a humming sound like a bee.",
			"Feel the vibration in your head.",
			"Continue for several cycles.",
		},
	},
	{
		ID:          "bellows",
		Name:        "Bellows Breath",
		Description: "Increases energy and vitality.",
		Icon:        "fire",
		Pattern:     BreathingPattern{Inhale: 0.5, Exhale: 0.5},
		Practice: []string{
			"Sit with a straight back.",
			"Perform forceful and rapid inhalations and exhalations through the nose.",
			"The duration of inhalation and exhalation should be equal.",
			"Start with a round of 10 breaths and then breathe normally.",
			"Increase gradually with practice.",
		},
		Note: "Avoid if pregnant or with uncontrolled high blood pressure.",
	},
}

// BreathingTechniques returns the static catalog.
func BreathingTechniques() []BreathingTechnique {
	return breathingTechniques
}

// TechniqueByID looks up a catalog entry.
func TechniqueByID(id string) (BreathingTechnique, bool) {
	for _, t := range breathingTechniques {
		if t.ID == id {
			return t, true
		}
	}
	return BreathingTechnique{}, false
}
