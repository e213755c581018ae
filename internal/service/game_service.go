package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"go.uber.org/zap"

	"fallacyfinder/internal/game"
	"fallacyfinder/internal/metrics"
	"fallacyfinder/internal/models"
	"fallacyfinder/internal/security"
	"fallacyfinder/internal/validation"
)

// ContentSource provides the reference data passages are built from
type ContentSource interface {
	ListFallacies(ctx context.Context, maxDifficulty models.Difficulty) ([]models.Fallacy, error)
	ListTopics(ctx context.Context, maxDifficulty models.Difficulty) ([]models.Topic, error)
	ListFragments(ctx context.Context, topicID int64) ([]models.TextBlock, error)
	ListPhrases(ctx context.Context) ([]models.NarrativePhrase, error)
}

// SessionStore persists game sessions. Complete must succeed at most once per session.
type SessionStore interface {
	Create(ctx context.Context, session *models.GameSession) error
	Get(ctx context.Context, id string) (*models.GameSession, error)
	Complete(ctx context.Context, id string, c models.Completion) error
}

// NameFilter rejects offensive player names
type NameFilter interface {
	ContainsBadWord(ctx context.Context, text string) (bool, error)
}

// StartRequest is the payload for starting a game
type StartRequest struct {
	PlayerName string `json:"playerName" validate:"required,max=100,playername"`
	Difficulty string `json:"difficulty" validate:"required,difficulty"`
}

// StartResponse is returned once a passage has been generated for the player
type StartResponse struct {
	SessionID          string                 `json:"sessionId"`
	Title              string                 `json:"title"`
	Text               string                 `json:"text"`
	Difficulty         models.Difficulty      `json:"difficulty"`
	AvailableFallacies []models.FallacyOption `json:"availableFallacies"`
	StartedAt          time.Time              `json:"startedAt"`
}

// SubmitRequest carries the player's identified fallacies
type SubmitRequest struct {
	SessionID          string    `json:"sessionId" validate:"required,uuid"`
	SelectedFallacyIDs []int64   `json:"selectedFallacyIds"`
	CompletedAt        time.Time `json:"completedAt"`
}

// SubmitResponse is the scored outcome of a game
type SubmitResponse struct {
	Score            int                   `json:"score"`
	TimeTakenSeconds int                   `json:"timeTakenSeconds"`
	Results          []models.AnswerResult `json:"results"`
	Stats            models.ScoreStats     `json:"stats"`
}

// GameService runs game rounds from start to submission
type GameService struct {
	content  ContentSource
	sessions SessionStore
	names    NameFilter
	validate *validation.Validator
	metrics  *metrics.Metrics
	logger   *zap.Logger

	now     func() time.Time
	newRand func() *rand.Rand
	newID   func() string
}

// Option customises a GameService
type Option func(*GameService)

// WithNameFilter rejects player names the filter flags
func WithNameFilter(f NameFilter) Option {
	return func(s *GameService) { s.names = f }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *GameService) { s.now = now }
}

// WithRandSource replaces the per-game random source factory
func WithRandSource(newRand func() *rand.Rand) Option {
	return func(s *GameService) { s.newRand = newRand }
}

// NewGameService creates a new game service
func NewGameService(content ContentSource, sessions SessionStore, m *metrics.Metrics, logger *zap.Logger, opts ...Option) *GameService {
	s := &GameService{
		content:  content,
		sessions: sessions,
		validate: validation.New(),
		metrics:  m,
		logger:   logger.Named("GameService"),
		now:      time.Now,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
		newID: security.GenerateSessionID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartGame generates a passage for the requested difficulty and opens a session for it
func (s *GameService) StartGame(ctx context.Context, req StartRequest) (*StartResponse, error) {
	req.PlayerName = strings.TrimSpace(req.PlayerName)
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	difficulty, err := models.ParseDifficulty(req.Difficulty)
	if err != nil {
		return nil, models.ValidationError{Field: "difficulty", Message: err.Error()}
	}

	if s.names != nil {
		bad, err := s.names.ContainsBadWord(ctx, req.PlayerName)
		if err != nil {
			return nil, fmt.Errorf("failed to check player name: %w", err)
		}
		if bad {
			return nil, models.ValidationError{Field: "playerName", Message: "contains inappropriate language"}
		}
	}

	pool, err := s.loadPool(ctx, difficulty)
	if err != nil {
		return nil, err
	}

	passage, err := game.Assemble(difficulty, pool, s.newRand())
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	passage.CreatedAt = now
	session := &models.GameSession{
		ID:         s.newID(),
		PlayerName: req.PlayerName,
		Difficulty: difficulty,
		Passage:    passage,
		StartedAt:  now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	available := game.FilterFallacies(pool.Fallacies, difficulty)
	options := make([]models.FallacyOption, len(available))
	for i, f := range available {
		options[i] = f.Option()
	}

	s.metrics.GamesStarted.WithLabelValues(difficulty.String()).Inc()
	s.metrics.PassageSize.WithLabelValues(difficulty.String()).Observe(float64(len(passage.FallacyOffsets)))
	s.logger.Info("game started",
		zap.String("session_id", session.ID),
		zap.Stringer("difficulty", difficulty),
		zap.Int64("topic_id", passage.TopicID),
		zap.Int("fallacies", len(passage.FallacyOffsets)),
	)

	return &StartResponse{
		SessionID:          session.ID,
		Title:              passage.Title,
		Text:               passage.FullText,
		Difficulty:         difficulty,
		AvailableFallacies: options,
		StartedAt:          now,
	}, nil
}

// SubmitGame scores the player's selections and completes the session.
// A session can only be submitted once.
func (s *GameService) SubmitGame(ctx context.Context, req SubmitRequest) (*SubmitResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	if req.CompletedAt.IsZero() {
		return nil, models.ValidationError{Field: "completedAt", Message: "is required"}
	}

	session, err := s.sessions.Get(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		s.metrics.SubmitConflicts.Inc()
		return nil, models.ErrSessionAlreadyCompleted
	}

	fallacies, err := s.content.ListFallacies(ctx, models.Hard)
	if err != nil {
		return nil, fmt.Errorf("failed to load fallacies: %w", err)
	}
	catalog := make(map[int64]models.Fallacy, len(fallacies))
	for _, f := range fallacies {
		catalog[f.ID] = f
	}

	groundTruth := make([]models.Fallacy, 0, len(session.Passage.FallacyOffsets))
	for _, id := range session.Passage.FallacyIDs() {
		f, ok := catalog[id]
		if !ok {
			s.logger.Warn("embedded fallacy missing from catalog",
				zap.String("session_id", session.ID),
				zap.Int64("fallacy_id", id),
			)
			continue
		}
		groundTruth = append(groundTruth, f)
	}

	results := game.Reconcile(req.SelectedFallacyIDs, groundTruth, catalog, session.Passage.FullText)
	stats := game.Stats(results, len(groundTruth))

	timeTaken := max(0, int(req.CompletedAt.Sub(session.StartedAt).Seconds()))
	score := game.Score(stats.CorrectCount, stats.WrongCount, stats.MissedCount, timeTaken, session.Difficulty)

	completion := models.Completion{
		CompletedAt:      req.CompletedAt.UTC(),
		TimeTakenSeconds: timeTaken,
		Score:            score,
		Results:          results,
	}
	if err := s.sessions.Complete(ctx, session.ID, completion); err != nil {
		if errors.Is(err, models.ErrSessionAlreadyCompleted) {
			s.metrics.SubmitConflicts.Inc()
		}
		return nil, err
	}

	s.metrics.GamesSubmitted.WithLabelValues(session.Difficulty.String()).Inc()
	s.metrics.Scores.WithLabelValues(session.Difficulty.String()).Observe(float64(score))
	s.logger.Info("game submitted",
		zap.String("session_id", session.ID),
		zap.Stringer("difficulty", session.Difficulty),
		zap.Int("score", score),
		zap.Int("time_taken_seconds", timeTaken),
		zap.Int("correct", stats.CorrectCount),
		zap.Int("wrong", stats.WrongCount),
		zap.Int("missed", stats.MissedCount),
	)

	return &SubmitResponse{
		Score:            score,
		TimeTakenSeconds: timeTaken,
		Results:          results,
		Stats:            stats,
	}, nil
}

// ListFallacies returns the fallacies a player may pick from at the given difficulty
func (s *GameService) ListFallacies(ctx context.Context, difficulty string) ([]models.FallacyOption, error) {
	d, err := models.ParseDifficulty(difficulty)
	if err != nil {
		return nil, models.ValidationError{Field: "difficulty", Message: err.Error()}
	}

	fallacies, err := s.content.ListFallacies(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("failed to load fallacies: %w", err)
	}

	options := make([]models.FallacyOption, 0, len(fallacies))
	for _, f := range game.FilterFallacies(fallacies, d) {
		options = append(options, f.Option())
	}
	return options, nil
}

func (s *GameService) loadPool(ctx context.Context, d models.Difficulty) (game.Pool, error) {
	var pool game.Pool
	var err error

	if pool.Fallacies, err = s.content.ListFallacies(ctx, d); err != nil {
		return pool, fmt.Errorf("failed to load fallacies: %w", err)
	}
	if pool.Topics, err = s.content.ListTopics(ctx, d); err != nil {
		return pool, fmt.Errorf("failed to load topics: %w", err)
	}
	if pool.Fragments, err = s.content.ListFragments(ctx, 0); err != nil {
		return pool, fmt.Errorf("failed to load fragments: %w", err)
	}
	if pool.Phrases, err = s.content.ListPhrases(ctx); err != nil {
		return pool, fmt.Errorf("failed to load phrases: %w", err)
	}
	return pool, nil
}
