package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"innerbloom-backend/internal/logger"
)

const (
	appPrefix = "innerbloom"
	separator = ":"
)

// ErrCapacity marks a rejected write on a full or denied store.
var ErrCapacity = errors.New("storage write rejected")

// DecodeError reports a stored value that could not be deserialized. The
// read still succeeds with the caller's default.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode stored value %q: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Scoped partitions a flat Backend per user. Every value is JSON under a
// composite key "innerbloom:<user>:<logical>", so distinct users never
// collide and one user's data can be enumerated and erased by prefix.
type Scoped struct {
	backend Backend
	log     *logger.Logger
}

func NewScoped(backend Backend, log *logger.Logger) *Scoped {
	return &Scoped{backend: backend, log: log}
}

// ValidUser rejects names that would break the composite-key partitioning.
func ValidUser(user string) bool {
	return user != "" && !strings.Contains(user, separator)
}

func userKey(user, key string) string {
	return appPrefix + separator + user + separator + key
}

func appKey(key string) string {
	return appPrefix + separator + key
}

// Read decodes the value stored for (user, key) into a fresh T. With no
// active user, or no stored value, it returns def without touching
// storage. A malformed stored value also yields def, with a *DecodeError
// the caller may log; it is never fatal.
func Read[T any](s *Scoped, user, key string, def T) (T, error) {
	if user == "" {
		return def, nil
	}
	return readKey(s, userKey(user, key), def)
}

// Write serializes v for (user, key). With no active user it is a no-op
// beyond a warning. Backend failures surface as ErrCapacity.
func (s *Scoped) Write(user, key string, v any) error {
	if user == "" {
		s.log.Warn("store write without a logged-in user", "key", key)
		return nil
	}
	return s.writeKey(userKey(user, key), v)
}

// ReadApp and WriteApp cover app-level entries that are not tied to a
// user partition (current user, language, disclaimer acceptance).
func ReadApp[T any](s *Scoped, key string, def T) (T, error) {
	return readKey(s, appKey(key), def)
}

func (s *Scoped) WriteApp(key string, v any) error {
	return s.writeKey(appKey(key), v)
}

func (s *Scoped) DeleteApp(key string) error {
	return s.backend.Delete(appKey(key))
}

// EraseUser removes every entry in the user's partition. Login after an
// erase sees defaults, not stale data.
func (s *Scoped) EraseUser(user string) error {
	keys, err := s.backend.Keys(appPrefix + separator + user + separator)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := s.backend.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

func readKey[T any](s *Scoped, key string, def T) (T, error) {
	raw, ok, err := s.backend.Get(key)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return def, &DecodeError{Key: key, Err: err}
	}
	return v, nil
}

func (s *Scoped) writeKey(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := s.backend.Set(key, string(raw)); err != nil {
		return fmt.Errorf("%w: %v", ErrCapacity, err)
	}
	return nil
}
