// Package session keeps the partially-completed answer sets of active
// assessment sessions. Everything lives in process memory for the
// lifetime of the service; nothing is persisted.
package session

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/vcmtools/vcm-maturity/internal/util"
)

// ErrNotFound is returned when a session id is unknown,
// typically because the session was never created or already removed.
var ErrNotFound = errors.New("session not found")

// Session is one user's in-progress assessment: the answers captured so
// far (question id to option label, overwritten on re-answer) and any
// optional per-pillar value-at-stake estimates.
type Session struct {
	ID           string             `json:"sessionId"`
	Name         string             `json:"sessionName"`
	Answers      map[string]string  `json:"answers"`
	ValueAtStake map[string]float64 `json:"valueAtStake,omitempty"`
}

// Store is a mutex-guarded in-memory session registry.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: map[string]*Session{}}
}

// Create registers a new empty session with generated id and name.
func (s *Store) Create() Session {

	sess := &Session{
		ID:           util.GenerateID(),
		Name:         util.GenerateName(),
		Answers:      map[string]string{},
		ValueAtStake: map[string]float64{},
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess.snapshot()
}

// Get returns a copy of the session so callers can hand it to the
// scoring functions without racing concurrent answer updates.
func (s *Store) Get(id string) (Session, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, errors.Wrapf(ErrNotFound, "session %q", id)
	}
	return sess.snapshot(), nil
}

// RecordAnswers merges answers and value-at-stake entries into the
// session. Existing entries for the same question or pillar are
// overwritten; other entries are untouched.
func (s *Store) RecordAnswers(id string, answers map[string]string, valueAtStake map[string]float64) (Session, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, errors.Wrapf(ErrNotFound, "session %q", id)
	}

	for qid, label := range answers {
		sess.Answers[qid] = label
	}
	for pillarID, v := range valueAtStake {
		sess.ValueAtStake[pillarID] = v
	}

	return sess.snapshot(), nil
}

// Remove deletes the session. Removing an unknown id is a no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Count reports the number of live sessions.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (sess *Session) snapshot() Session {

	answers := make(map[string]string, len(sess.Answers))
	for k, v := range sess.Answers {
		answers[k] = v
	}
	valueAtStake := make(map[string]float64, len(sess.ValueAtStake))
	for k, v := range sess.ValueAtStake {
		valueAtStake[k] = v
	}

	return Session{
		ID:           sess.ID,
		Name:         sess.Name,
		Answers:      answers,
		ValueAtStake: valueAtStake,
	}
}
