package logic

import "fmt"

// UserSettings is the per-user preference blob, defaults applied when
// nothing is stored yet.
type UserSettings struct {
	Theme                string `json:"theme"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
}

func defaultSettings() UserSettings {
	return UserSettings{Theme: "system", NotificationsEnabled: true}
}

func (s UserSettings) Validate() error {
	switch s.Theme {
	case "light", "dark", "system":
		return nil
	default:
		return fmt.Errorf("theme must be light, dark or system")
	}
}
