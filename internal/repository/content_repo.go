package repository

import (
	"context"
	"database/sql"
	"fmt"

	"fallacyfinder/internal/content"
	"fallacyfinder/internal/database"
	"fallacyfinder/internal/models"
)

// ContentRepository reads and imports the reference content used to build passages
type ContentRepository struct {
	db *database.DB
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *database.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// ListFallacies returns the fallacies playable at maxDifficulty ordered by difficulty then id
func (r *ContentRepository) ListFallacies(ctx context.Context, maxDifficulty models.Difficulty) ([]models.Fallacy, error) {
	query := `
		SELECT id, name, fallacy_key, description, difficulty, example
		FROM fallacies
		WHERE difficulty <= ?
		ORDER BY difficulty, id
	`

	rows, err := r.db.QueryContext(ctx, query, maxDifficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to list fallacies: %w", err)
	}
	defer rows.Close()

	var fallacies []models.Fallacy
	for rows.Next() {
		var f models.Fallacy
		if err := rows.Scan(&f.ID, &f.Name, &f.Key, &f.Description, &f.Difficulty, &f.Example); err != nil {
			return nil, err
		}
		fallacies = append(fallacies, f)
	}
	return fallacies, rows.Err()
}

// ListTopics returns topics available at maxDifficulty
func (r *ContentRepository) ListTopics(ctx context.Context, maxDifficulty models.Difficulty) ([]models.Topic, error) {
	query := `
		SELECT id, name, description, difficulty
		FROM topics
		WHERE difficulty <= ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, maxDifficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	defer rows.Close()

	var topics []models.Topic
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Difficulty); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// ListFragments returns the fragments of one topic, or of every topic when topicID is zero
func (r *ContentRepository) ListFragments(ctx context.Context, topicID int64) ([]models.TextBlock, error) {
	query := `
		SELECT id, fallacy_id, topic_id, content, position_hint, context
		FROM text_blocks
	`
	var args []any
	if topicID != 0 {
		query += " WHERE topic_id = ?"
		args = append(args, topicID)
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list fragments: %w", err)
	}
	defer rows.Close()

	var blocks []models.TextBlock
	for rows.Next() {
		var b models.TextBlock
		var hint string
		var blockContext sql.NullString
		if err := rows.Scan(&b.ID, &b.FallacyID, &b.TopicID, &b.Content, &hint, &blockContext); err != nil {
			return nil, err
		}
		b.PositionHint = models.NormalizePositionHint(hint)
		b.Context = blockContext.String
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

// ListPhrases returns every narrative phrase; generic phrases have TopicID zero
func (r *ContentRepository) ListPhrases(ctx context.Context) ([]models.NarrativePhrase, error) {
	query := `
		SELECT id, kind, topic_id, phrase
		FROM narrative_phrases
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list phrases: %w", err)
	}
	defer rows.Close()

	var phrases []models.NarrativePhrase
	for rows.Next() {
		var p models.NarrativePhrase
		var kind string
		var topicID sql.NullInt64
		if err := rows.Scan(&p.ID, &kind, &topicID, &p.Text); err != nil {
			return nil, err
		}
		p.Kind = models.PhraseKind(kind)
		p.TopicID = topicID.Int64
		phrases = append(phrases, p)
	}
	return phrases, rows.Err()
}

// CountFallacies reports how many fallacies are stored
func (r *ContentRepository) CountFallacies(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM fallacies").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count fallacies: %w", err)
	}
	return count, nil
}

// ImportBank upserts fallacies by key and topics by name, then replaces all fragments and
// phrases with those of the bank. Everything happens in one transaction.
func (r *ContentRepository) ImportBank(ctx context.Context, bank *content.Bank) error {
	dialect := r.db.GetDialect()
	upsertFallacy := dialect.Upsert("fallacies",
		[]string{"name", "fallacy_key", "description", "difficulty", "example"},
		[]string{"fallacy_key"},
		[]string{"name", "description", "difficulty", "example"})
	upsertTopic := dialect.Upsert("topics",
		[]string{"name", "description", "difficulty"},
		[]string{"name"},
		[]string{"description", "difficulty"})

	return r.db.InTx(ctx, func(tx *database.Tx) error {
		fallacyIDs := make(map[string]int64, len(bank.Fallacies))
		for _, f := range bank.Fallacies {
			if _, err := tx.ExecContext(ctx, upsertFallacy, f.Name, f.Key, f.Description, f.Difficulty, f.Example); err != nil {
				return fmt.Errorf("failed to upsert fallacy %q: %w", f.Key, err)
			}
			var id int64
			if err := tx.QueryRowContext(ctx, "SELECT id FROM fallacies WHERE fallacy_key = ?", f.Key).Scan(&id); err != nil {
				return fmt.Errorf("failed to resolve fallacy %q: %w", f.Key, err)
			}
			fallacyIDs[f.Key] = id
		}

		for _, stmt := range []string{"DELETE FROM text_blocks", "DELETE FROM narrative_phrases"} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to clear content: %w", err)
			}
		}

		if err := insertPhrases(ctx, tx, nil, bank.Phrases); err != nil {
			return err
		}

		for _, t := range bank.Topics {
			if _, err := tx.ExecContext(ctx, upsertTopic, t.Name, t.Description, t.Difficulty); err != nil {
				return fmt.Errorf("failed to upsert topic %q: %w", t.Name, err)
			}
			var topicID int64
			if err := tx.QueryRowContext(ctx, "SELECT id FROM topics WHERE name = ?", t.Name).Scan(&topicID); err != nil {
				return fmt.Errorf("failed to resolve topic %q: %w", t.Name, err)
			}

			if err := insertPhrases(ctx, tx, &topicID, t.Phrases); err != nil {
				return err
			}

			for _, f := range t.Fragments {
				fallacyID, ok := fallacyIDs[f.Fallacy]
				if !ok {
					return fmt.Errorf("topic %q references unknown fallacy %q", t.Name, f.Fallacy)
				}
				var blockContext sql.NullString
				if f.Context != "" {
					blockContext = sql.NullString{String: f.Context, Valid: true}
				}
				_, err := tx.ExecContext(ctx, `
					INSERT INTO text_blocks (fallacy_id, topic_id, content, position_hint, context)
					VALUES (?, ?, ?, ?, ?)
				`, fallacyID, topicID, f.Content, string(f.Position), blockContext)
				if err != nil {
					return fmt.Errorf("failed to insert fragment for %q: %w", f.Fallacy, err)
				}
			}
		}
		return nil
	})
}

func insertPhrases(ctx context.Context, q database.DBTX, topicID *int64, phrases content.Phrases) error {
	for _, kind := range []models.PhraseKind{models.PhraseIntro, models.PhraseConnective, models.PhraseClosing, models.PhraseTitle} {
		for _, text := range phrases.ByKind()[kind] {
			_, err := q.ExecContext(ctx, "INSERT INTO narrative_phrases (kind, topic_id, phrase) VALUES (?, ?, ?)",
				string(kind), topicID, text)
			if err != nil {
				return fmt.Errorf("failed to insert %s phrase: %w", kind, err)
			}
		}
	}
	return nil
}

// ExportBank reads the stored content back into its portable form
func (r *ContentRepository) ExportBank(ctx context.Context) (*content.Bank, error) {
	fallacies, err := r.ListFallacies(ctx, models.Hard)
	if err != nil {
		return nil, err
	}
	topics, err := r.ListTopics(ctx, models.Hard)
	if err != nil {
		return nil, err
	}
	fragments, err := r.ListFragments(ctx, 0)
	if err != nil {
		return nil, err
	}
	phrases, err := r.ListPhrases(ctx)
	if err != nil {
		return nil, err
	}

	bank := &content.Bank{}
	keys := make(map[int64]string, len(fallacies))
	for _, f := range fallacies {
		keys[f.ID] = f.Key
		bank.Fallacies = append(bank.Fallacies, content.Fallacy{
			Key:         f.Key,
			Name:        f.Name,
			Difficulty:  f.Difficulty,
			Description: f.Description,
			Example:     f.Example,
		})
	}

	topicIndex := make(map[int64]int, len(topics))
	for i, t := range topics {
		topicIndex[t.ID] = i
		bank.Topics = append(bank.Topics, content.Topic{
			Name:        t.Name,
			Difficulty:  t.Difficulty,
			Description: t.Description,
		})
	}

	for _, p := range phrases {
		if p.TopicID == 0 {
			bank.Phrases.Add(p.Kind, p.Text)
			continue
		}
		if i, ok := topicIndex[p.TopicID]; ok {
			bank.Topics[i].Phrases.Add(p.Kind, p.Text)
		}
	}

	for _, b := range fragments {
		i, ok := topicIndex[b.TopicID]
		if !ok {
			continue
		}
		bank.Topics[i].Fragments = append(bank.Topics[i].Fragments, content.Fragment{
			Fallacy:  keys[b.FallacyID],
			Position: b.PositionHint,
			Content:  b.Content,
			Context:  b.Context,
		})
	}

	return bank, nil
}
