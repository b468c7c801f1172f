package db

import (
	"time"
)

// User is the registry of everyone who ever logged in. It exists for the
// reminder sweep and for login bookkeeping; all per-user wellness state
// lives in the scoped key-value entries, not in dedicated tables.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:64;uniqueIndex" json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// KVEntry backs the scoped key-value store. K is the full composite key
// (app prefix, user partition, logical key); V is an opaque JSON value.
type KVEntry struct {
	ID uint   `gorm:"primaryKey" json:"id"`
	K  string `gorm:"size:255;uniqueIndex;column:k" json:"k"`
	V  string `gorm:"type:text;column:v" json:"v"`
}
