// Package content loads, validates and encodes the YAML content bank of fallacies,
// topics, narrative phrases and fragments.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"fallacyfinder/internal/models"
)

//go:embed bank.yaml
var embeddedBank []byte

// Bank is the portable form of the content. Fragments refer to fallacies by key.
type Bank struct {
	Fallacies []Fallacy `yaml:"fallacies"`
	Phrases   Phrases   `yaml:"phrases,omitempty"`
	Topics    []Topic   `yaml:"topics"`
}

type Fallacy struct {
	Key         string            `yaml:"key"`
	Name        string            `yaml:"name"`
	Difficulty  models.Difficulty `yaml:"difficulty"`
	Description string            `yaml:"description"`
	Example     string            `yaml:"example,omitempty"`
}

// Phrases are narrative lines, generic at bank level or specific to a topic
type Phrases struct {
	Intros      []string `yaml:"intros,omitempty"`
	Connectives []string `yaml:"connectives,omitempty"`
	Closings    []string `yaml:"closings,omitempty"`
	Titles      []string `yaml:"titles,omitempty"`
}

type Topic struct {
	Name        string            `yaml:"name"`
	Difficulty  models.Difficulty `yaml:"difficulty"`
	Description string            `yaml:"description,omitempty"`
	Phrases     Phrases           `yaml:"phrases,omitempty"`
	Fragments   []Fragment        `yaml:"fragments"`
}

type Fragment struct {
	Fallacy  string              `yaml:"fallacy"`
	Position models.PositionHint `yaml:"position,omitempty"`
	Content  string              `yaml:"content"`
	Context  string              `yaml:"context,omitempty"`
}

// Embedded returns the bank compiled into the binary
func Embedded() (*Bank, error) {
	return Parse(embeddedBank)
}

// Parse decodes and validates a YAML bank
func Parse(data []byte) (*Bank, error) {
	var bank Bank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("failed to parse content bank: %w", err)
	}
	bank.normalize()
	if err := bank.Validate(); err != nil {
		return nil, err
	}
	return &bank, nil
}

// Load reads a bank from path, or the embedded bank when path is empty
func Load(path string) (*Bank, error) {
	if path == "" {
		return Embedded()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content bank %s: %w", path, err)
	}
	return Parse(data)
}

// Write encodes the bank as YAML
func (b *Bank) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("failed to encode content bank: %w", err)
	}
	return enc.Close()
}

func (b *Bank) normalize() {
	for i := range b.Topics {
		for j := range b.Topics[i].Fragments {
			f := &b.Topics[i].Fragments[j]
			f.Position = models.NormalizePositionHint(string(f.Position))
			f.Content = strings.TrimSpace(f.Content)
		}
	}
}

// Validate reports every structural problem of the bank at once
func (b *Bank) Validate() error {
	var errs []error

	keys := make(map[string]bool, len(b.Fallacies))
	for i, f := range b.Fallacies {
		switch {
		case f.Key == "":
			errs = append(errs, fmt.Errorf("fallacy #%d: key is required", i+1))
		case keys[f.Key]:
			errs = append(errs, fmt.Errorf("fallacy %q: duplicate key", f.Key))
		}
		if f.Name == "" {
			errs = append(errs, fmt.Errorf("fallacy %q: name is required", f.Key))
		}
		if !f.Difficulty.Valid() {
			errs = append(errs, fmt.Errorf("fallacy %q: invalid difficulty", f.Key))
		}
		keys[f.Key] = true
	}

	names := make(map[string]bool, len(b.Topics))
	for _, t := range b.Topics {
		if t.Name == "" {
			errs = append(errs, errors.New("topic: name is required"))
		} else if names[t.Name] {
			errs = append(errs, fmt.Errorf("topic %q: duplicate name", t.Name))
		}
		names[t.Name] = true

		if len(t.Fragments) == 0 {
			errs = append(errs, fmt.Errorf("topic %q: has no fragments", t.Name))
		}
		for i, f := range t.Fragments {
			if !keys[f.Fallacy] {
				errs = append(errs, fmt.Errorf("topic %q fragment #%d: unknown fallacy %q", t.Name, i+1, f.Fallacy))
			}
			if f.Content == "" {
				errs = append(errs, fmt.Errorf("topic %q fragment #%d: content is required", t.Name, i+1))
			}
		}
	}

	return errors.Join(errs...)
}

// Stats summarises the size of a bank
type Stats struct {
	Fallacies int
	Topics    int
	Fragments int
	Phrases   int
}

func (b *Bank) Stats() Stats {
	s := Stats{
		Fallacies: len(b.Fallacies),
		Topics:    len(b.Topics),
		Phrases:   b.Phrases.count(),
	}
	for _, t := range b.Topics {
		s.Fragments += len(t.Fragments)
		s.Phrases += t.Phrases.count()
	}
	return s
}

func (p Phrases) count() int {
	return len(p.Intros) + len(p.Connectives) + len(p.Closings) + len(p.Titles)
}

// ByKind lists the phrases keyed by kind
func (p Phrases) ByKind() map[models.PhraseKind][]string {
	return map[models.PhraseKind][]string{
		models.PhraseIntro:      p.Intros,
		models.PhraseConnective: p.Connectives,
		models.PhraseClosing:    p.Closings,
		models.PhraseTitle:      p.Titles,
	}
}

// Add appends text to the list for kind
func (p *Phrases) Add(kind models.PhraseKind, text string) {
	switch kind {
	case models.PhraseIntro:
		p.Intros = append(p.Intros, text)
	case models.PhraseConnective:
		p.Connectives = append(p.Connectives, text)
	case models.PhraseClosing:
		p.Closings = append(p.Closings, text)
	case models.PhraseTitle:
		p.Titles = append(p.Titles, text)
	}
}
