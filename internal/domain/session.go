package domain

import "context"

// SessionState is the ephemeral cursor over an attempt's question sequence.
// It is keyed by an opaque token, owned by the transport layer, and
// disposable: losing it leaves the durable Attempt intact.
type SessionState struct {
	AttemptID   string   `json:"attempt_id"`
	QuestionIDs []string `json:"question_ids"`
	Cursor      int      `json:"cursor"`
}

// Current returns the question id at the cursor. ok is false once the
// sequence is exhausted, which signals the engine to finalize the attempt.
func (s *SessionState) Current() (questionID string, index int, ok bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.QuestionIDs) {
		return "", s.Cursor, false
	}
	return s.QuestionIDs[s.Cursor], s.Cursor, true
}

// Advance moves the cursor one question forward and returns the new index.
// Callers advance only after the corresponding response write is durable;
// duplicate submissions are de-duplicated by the response uniqueness key,
// not by session mutation order.
func (s *SessionState) Advance() int {
	s.Cursor++
	return s.Cursor
}

// Exhausted reports whether every question in the sequence has been passed.
func (s *SessionState) Exhausted() bool {
	return s.Cursor >= len(s.QuestionIDs)
}

// SessionError represents an error originating from the session store.
type SessionError string

func (e SessionError) Error() string {
	return string(e)
}

// ErrSessionNotFound is returned when a token has no stored session.
const ErrSessionNotFound = SessionError("session: token not found")

// SessionStore is the port for session persistence. Implementations are the
// adapters (Redis in production, an in-memory map in tests).
type SessionStore interface {
	// Save stores the state under token, overwriting any previous state.
	Save(ctx context.Context, token string, state *SessionState) error

	// Get retrieves the state for token.
	// It returns ErrSessionNotFound if the token is unknown or expired.
	Get(ctx context.Context, token string) (*SessionState, error)

	// Delete discards the state for token. Unknown tokens are not an error.
	Delete(ctx context.Context, token string) error
}
