package common

import (
	"os"

	"github.com/joho/godotenv"
)

// System instructions for the generative endpoints. The psychoanalyst
// instruction drives the guided session, the journal instruction the
// one-shot reflection, and the summary instruction the structured
// end-of-session summary.
const (
	PsychoanalystSystemInstruction = "You are a Universal Integral Psychologist with Therapeutic Memory. " +
		"You accompany the user through a guided, time-boxed session. Listen closely, reflect what you hear, " +
		"and ask one open-ended question at a time. Track themes the user returns to and gently connect them " +
		"across the session. Never give medical advice, never diagnose, and keep each reply short and warm."

	PsychoanalystStartPrompt = "Start the session by introducing yourself and asking an open-ended question to begin."

	JournalSystemInstruction = "You are a compassionate and supportive wellness companion named 'Inner Bloom'. " +
		"Your role is to read a user's short journal entry and provide a brief, positive, and encouraging reflection. " +
		"Do not give medical advice. Focus on acknowledging their feelings, highlighting strengths, or offering a " +
		"gentle, positive perspective. Keep your response to 2-3 sentences. Format your response as a single paragraph."

	SummaryInstruction = "You are an expert psychotherapist. Summarize the following session transcript. " +
		"Identify the main themes and provide a concise, neutral title. The user wants to track their progress, " +
		"so focus on key insights and emotional shifts. The output must be a JSON object with 'title' and 'summary' keys."
)

// JournalPlaceholder is returned for an empty journal entry, no network call involved.
var JournalPlaceholder = map[string]string{
	"en": "Write something in your journal to get a reflection.",
	"es": "Escribe algo en tu diario para obtener una reflexión.",
}

var (
	HunyuanToken   string
	HunyuanModel   = "hunyuan-turbos-latest"
	HunyuanBaseUrl = "https://api.hunyuan.cloud.tencent.com/v1"

	TencentSecretID  string
	TencentSecretKey string
)

// Load reads .env (if present) and resolves environment configuration.
// A missing AI credential is not fatal here: the ai client reports it as
// a configuration error on the operation that needed it.
func Load() {
	_ = godotenv.Load()

	HunyuanToken = os.Getenv("HUNYUAN_TOKEN")
	if v := os.Getenv("HUNYUAN_MODEL"); v != "" {
		HunyuanModel = v
	}
	if v := os.Getenv("HUNYUAN_BASE_URL"); v != "" {
		HunyuanBaseUrl = v
	}
	TencentSecretID = os.Getenv("TENCENTCLOUD_SECRETID")
	TencentSecretKey = os.Getenv("TENCENTCLOUD_SECRETKEY")
}

// Addr returns the listen address for the HTTP server.
func Addr() string {
	if v := os.Getenv("ADDR"); v != "" {
		return v
	}
	return ":8080"
}

// ReminderWebhookURL is the optional delivery target for check-in reminders.
func ReminderWebhookURL() string {
	return os.Getenv("REMINDER_WEBHOOK_URL")
}
