package database

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
)

// SeedBadWords downloads a newline separated word list into bad_words.
// It does nothing when the table is already populated.
func (db *DB) SeedBadWords(ctx context.Context, url string) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bad_words").Scan(&count); err != nil {
		return fmt.Errorf("failed to check bad words count: %w", err)
	}

	if count > 0 {
		db.log.Info("Bad words filter already populated", zap.Int("count", count))
		return nil
	}

	db.log.Info("Downloading bad words list", zap.String("url", url))

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build bad words request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download bad words list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status code from bad words URL: %d", resp.StatusCode)
	}

	seen := make(map[string]bool)
	var words []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		word := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if word == "" || seen[word] {
			continue
		}
		seen[word] = true
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading bad words: %w", err)
	}

	err = db.InTx(ctx, func(tx *Tx) error {
		stmt, err := tx.PrepareContext(ctx, db.Dialect.RewriteQuery("INSERT INTO bad_words (word) VALUES (?)"))
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, word := range words {
			if _, err := stmt.ExecContext(ctx, word); err != nil {
				return fmt.Errorf("failed to insert %q: %w", word, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	db.log.Info("Bad words filter populated", zap.Int("count", len(words)))
	return nil
}

// IsBadWord checks if a word is in the bad words list
func (db *DB) IsBadWord(ctx context.Context, word string) (bool, error) {
	cleanWord := strings.TrimSpace(strings.ToLower(word))

	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bad_words WHERE word = ?", cleanWord).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check bad word: %w", err)
	}
	return count > 0, nil
}

// ContainsBadWord reports whether any word of text, split on non-letters, is a bad word
func (db *DB) ContainsBadWord(ctx context.Context, text string) (bool, error) {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	for _, word := range words {
		bad, err := db.IsBadWord(ctx, word)
		if err != nil {
			return false, err
		}
		if bad {
			db.log.Debug("Bad word detected", zap.String("word", word))
			return true, nil
		}
	}
	return false, nil
}
