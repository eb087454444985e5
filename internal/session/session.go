package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Session is the caller identity handed to every upstream call. It is loaded
// once from a token file and passed around explicitly; nothing in this service
// reads credentials from global state.
type Session struct {
	User  string `json:"user"`
	Token string `json:"token"`
}

var ErrNoToken = errors.New("session: no bearer token")

// Load reads a session token file: a small JSON document {"user": ..., "token": ...}.
func Load(path string) (Session, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Session{}, fmt.Errorf("read token file: %w", err)
	}

	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return Session{}, fmt.Errorf("parse token file %q: %w", path, err)
	}
	s.Token = strings.TrimSpace(s.Token)
	if s.Token == "" {
		return Session{}, ErrNoToken
	}
	return s, nil
}

// Authorization returns the value for the Authorization request header.
func (s Session) Authorization() string {
	return "Bearer " + s.Token
}
