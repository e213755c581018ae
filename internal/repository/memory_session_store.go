package repository

import (
	"context"
	"fmt"
	"sync"

	"fallacyfinder/internal/models"
)

// MemorySessionStore keeps sessions in process memory. Sessions are lost on restart.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*models.GameSession
	nextID   int64
}

// NewMemorySessionStore creates an empty in-memory store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*models.GameSession)}
}

func (s *MemorySessionStore) Create(ctx context.Context, session *models.GameSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return fmt.Errorf("session %s already exists", session.ID)
	}
	if session.Passage != nil && session.Passage.ID == 0 {
		s.nextID++
		session.Passage.ID = s.nextID
	}
	s.sessions[session.ID] = cloneSession(session)
	return nil
}

func (s *MemorySessionStore) Get(ctx context.Context, id string) (*models.GameSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	return cloneSession(session), nil
}

func (s *MemorySessionStore) Complete(ctx context.Context, id string, c models.Completion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return models.ErrSessionNotFound
	}
	if session.IsCompleted() {
		return models.ErrSessionAlreadyCompleted
	}
	c.Results = append([]models.AnswerResult(nil), c.Results...)
	c.Apply(session)
	return nil
}

// cloneSession copies everything callers could mutate
func cloneSession(s *models.GameSession) *models.GameSession {
	c := *s
	if s.Passage != nil {
		p := *s.Passage
		p.FallacyOffsets = append([]models.FallacyOffset(nil), s.Passage.FallacyOffsets...)
		c.Passage = &p
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		c.CompletedAt = &t
	}
	if s.TimeTakenSeconds != nil {
		v := *s.TimeTakenSeconds
		c.TimeTakenSeconds = &v
	}
	if s.Score != nil {
		v := *s.Score
		c.Score = &v
	}
	c.Results = append([]models.AnswerResult(nil), s.Results...)
	return &c
}
