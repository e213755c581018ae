package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fallacyfinder/internal/database"
	"fallacyfinder/internal/models"
)

// SessionRepository persists game sessions with their passages and answer logs
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create stores the session's passage, its fallacy offsets and the session row.
// The passage ID is filled in from the database.
func (r *SessionRepository) Create(ctx context.Context, session *models.GameSession) error {
	if session.Passage == nil {
		return errors.New("session has no passage")
	}
	p := session.Passage

	return r.db.InTx(ctx, func(tx *database.Tx) error {
		var topicID sql.NullInt64
		if p.TopicID != 0 {
			topicID = sql.NullInt64{Int64: p.TopicID, Valid: true}
		}

		passageID, err := tx.ExecReturningID(ctx, `
			INSERT INTO game_texts (topic_id, title, full_text, difficulty, target_fallacy_count, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, topicID, p.Title, p.FullText, p.Difficulty, p.TargetFallacyCount, p.CreatedAt.UTC())
		if err != nil {
			return fmt.Errorf("failed to insert passage: %w", err)
		}

		for i, o := range p.FallacyOffsets {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO game_text_fallacies (game_text_id, fallacy_id, start_index, end_index, ordinal)
				VALUES (?, ?, ?, ?, ?)
			`, passageID, o.FallacyID, o.StartIndex, o.EndIndex, i)
			if err != nil {
				return fmt.Errorf("failed to insert fallacy offset: %w", err)
			}
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO game_sessions (id, player_name, difficulty, game_text_id, started_at)
			VALUES (?, ?, ?, ?, ?)
		`, session.ID, session.PlayerName, session.Difficulty, passageID, session.StartedAt.UTC())
		if err != nil {
			return fmt.Errorf("failed to insert session: %w", err)
		}

		p.ID = passageID
		return nil
	})
}

// Get loads a session with its passage and, once completed, its answer log
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.GameSession, error) {
	query := `
		SELECT s.id, s.player_name, s.difficulty, s.started_at, s.completed_at,
		       s.time_taken_seconds, s.score,
		       t.id, t.topic_id, t.title, t.full_text, t.difficulty, t.target_fallacy_count, t.created_at
		FROM game_sessions s
		JOIN game_texts t ON t.id = s.game_text_id
		WHERE s.id = ?
	`

	session := &models.GameSession{Passage: &models.GeneratedPassage{}}
	p := session.Passage
	var completedAt sql.NullTime
	var timeTaken, score sql.NullInt64
	var topicID sql.NullInt64

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&session.PlayerName,
		&session.Difficulty,
		&session.StartedAt,
		&completedAt,
		&timeTaken,
		&score,
		&p.ID,
		&topicID,
		&p.Title,
		&p.FullText,
		&p.Difficulty,
		&p.TargetFallacyCount,
		&p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	p.TopicID = topicID.Int64

	if p.FallacyOffsets, err = loadOffsets(ctx, r.db, p.ID); err != nil {
		return nil, err
	}

	if completedAt.Valid {
		session.CompletedAt = &completedAt.Time
		if timeTaken.Valid {
			v := int(timeTaken.Int64)
			session.TimeTakenSeconds = &v
		}
		if score.Valid {
			v := int(score.Int64)
			session.Score = &v
		}
		if session.Results, err = loadAnswers(ctx, r.db, session.ID); err != nil {
			return nil, err
		}
	}

	return session, nil
}

func loadOffsets(ctx context.Context, q database.DBTX, passageID int64) ([]models.FallacyOffset, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT fallacy_id, start_index, end_index
		FROM game_text_fallacies
		WHERE game_text_id = ?
		ORDER BY ordinal
	`, passageID)
	if err != nil {
		return nil, fmt.Errorf("failed to load fallacy offsets: %w", err)
	}
	defer rows.Close()

	offsets := []models.FallacyOffset{}
	for rows.Next() {
		var o models.FallacyOffset
		if err := rows.Scan(&o.FallacyID, &o.StartIndex, &o.EndIndex); err != nil {
			return nil, err
		}
		offsets = append(offsets, o)
	}
	return offsets, rows.Err()
}

func loadAnswers(ctx context.Context, q database.DBTX, sessionID string) ([]models.AnswerResult, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT fallacy_id, fallacy_name, fallacy_key, result_type, text_reference, position_index
		FROM game_answers
		WHERE session_id = ?
		ORDER BY ordinal
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}
	defer rows.Close()

	var results []models.AnswerResult
	for rows.Next() {
		var a models.AnswerResult
		var resultType string
		var reference sql.NullString
		var position sql.NullInt64
		if err := rows.Scan(&a.FallacyID, &a.FallacyName, &a.FallacyKey, &resultType, &reference, &position); err != nil {
			return nil, err
		}
		a.ResultType = models.ResultType(resultType)
		if reference.Valid {
			a.TextReference = &reference.String
		}
		if position.Valid {
			v := int(position.Int64)
			a.Position = &v
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

// Complete marks the session completed and stores its answers. Only the first call for a
// session succeeds; later calls get ErrSessionAlreadyCompleted.
func (r *SessionRepository) Complete(ctx context.Context, id string, c models.Completion) error {
	return r.db.InTx(ctx, func(tx *database.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE game_sessions
			SET completed_at = ?, time_taken_seconds = ?, score = ?
			WHERE id = ? AND completed_at IS NULL
		`, c.CompletedAt.UTC(), c.TimeTakenSeconds, c.Score, id)
		if err != nil {
			return fmt.Errorf("failed to complete session: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return completionConflict(ctx, tx, id)
		}

		for i, a := range c.Results {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO game_answers (session_id, fallacy_id, fallacy_name, fallacy_key, result_type, text_reference, position_index, ordinal)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, id, a.FallacyID, a.FallacyName, a.FallacyKey, string(a.ResultType), a.TextReference, a.Position, i)
			if err != nil {
				return fmt.Errorf("failed to insert answer: %w", err)
			}
		}
		return nil
	})
}

// completionConflict tells a missing session apart from one completed earlier
func completionConflict(ctx context.Context, q database.DBTX, id string) error {
	var count int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM game_sessions WHERE id = ?", id).Scan(&count); err != nil {
		return fmt.Errorf("failed to check session: %w", err)
	}
	if count == 0 {
		return models.ErrSessionNotFound
	}
	return models.ErrSessionAlreadyCompleted
}
