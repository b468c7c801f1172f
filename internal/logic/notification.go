package logic

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ReminderPayload is the JSON body posted to the reminder webhook.
type ReminderPayload struct {
	Username string `json:"username"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	SentAt   string `json:"sent_at"`
}

// WebhookResponse is the delivery target's acknowledgement; a non-zero
// code means the reminder was not accepted.
type WebhookResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SendCheckinReminder posts a check-in reminder for one user to the
// configured webhook.
func SendCheckinReminder(webhookURL, username string) error {
	payload := ReminderPayload{
		Username: username,
		Title:    "Check-in reminder",
		Body:     "You haven't completed today's check-in yet.",
		SentAt:   time.Now().Format("2006-01-02 15:04:05"),
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("serialize reminder: %v", err)
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("send reminder: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read reminder response: %v", err)
	}

	var ack WebhookResponse
	if err := json.Unmarshal(body, &ack); err != nil {
		return fmt.Errorf("parse reminder response: %v", err)
	}
	if ack.Code != 0 {
		return fmt.Errorf("reminder rejected: %d - %s", ack.Code, ack.Message)
	}
	return nil
}
