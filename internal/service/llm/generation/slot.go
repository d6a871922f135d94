package generation

import (
	"context"
	"fmt"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// RequestSlot owns at most one outstanding request handle. Replace and
// Cancel are its only mutators; IsCurrent lets a finishing request check
// whether it has been superseded.
type RequestSlot struct {
	mu     sync.Mutex
	token  string
	cancel context.CancelFunc
}

// newToken returns a fresh request identity
func newToken() string {
	id, err := gonanoid.New()
	if err != nil {
		panic(fmt.Sprintf("failed to generate request id: %v", err))
	}
	return "gen-" + id
}

// Replace cancels the held request, if any, and takes ownership of cancel.
// It returns the token identifying the new request.
func (s *RequestSlot) Replace(cancel context.CancelFunc) string {
	token := newToken()

	s.mu.Lock()
	previous := s.cancel
	s.token = token
	s.cancel = cancel
	s.mu.Unlock()

	if previous != nil {
		previous()
	}
	return token
}

// Cancel aborts the held request and empties the slot. It reports whether
// a request was held. Calling it on an empty slot is a no-op.
func (s *RequestSlot) Cancel() bool {
	s.mu.Lock()
	cancel := s.cancel
	held := s.token != ""
	s.token = ""
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	return held
}

// IsCurrent reports whether token identifies the held request
func (s *RequestSlot) IsCurrent(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return token != "" && token == s.token
}
