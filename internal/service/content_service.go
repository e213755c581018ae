package service

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"fallacyfinder/internal/content"
	"fallacyfinder/internal/repository"
)

// ContentService imports and exports the content bank
type ContentService struct {
	repo   *repository.ContentRepository
	logger *zap.Logger
}

// NewContentService creates a new content service
func NewContentService(repo *repository.ContentRepository, logger *zap.Logger) *ContentService {
	return &ContentService{repo: repo, logger: logger.Named("ContentService")}
}

// SeedIfEmpty imports the bank at path (or the embedded bank) when no fallacies are stored yet
func (s *ContentService) SeedIfEmpty(ctx context.Context, path string) error {
	count, err := s.repo.CountFallacies(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		s.logger.Debug("content already present, skipping seed", zap.Int("fallacies", count))
		return nil
	}

	bank, err := content.Load(path)
	if err != nil {
		return err
	}
	return s.importBank(ctx, bank, "seed")
}

// Import replaces the stored content with the bank read from inputPath
func (s *ContentService) Import(ctx context.Context, inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file, inputPath)
}

// ImportFromReader replaces the stored content with the bank read from r
func (s *ContentService) ImportFromReader(ctx context.Context, r io.Reader, source string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read content bank: %w", err)
	}
	bank, err := content.Parse(data)
	if err != nil {
		return err
	}
	return s.importBank(ctx, bank, source)
}

// Export writes the stored content to outputPath
func (s *ContentService) Export(ctx context.Context, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(ctx, file); err != nil {
		return err
	}
	return file.Close()
}

// ExportToWriter writes the stored content to w as YAML
func (s *ContentService) ExportToWriter(ctx context.Context, w io.Writer) error {
	bank, err := s.repo.ExportBank(ctx)
	if err != nil {
		return fmt.Errorf("failed to export content: %w", err)
	}
	if err := bank.Write(w); err != nil {
		return err
	}

	stats := bank.Stats()
	s.logger.Info("content exported",
		zap.Int("fallacies", stats.Fallacies),
		zap.Int("topics", stats.Topics),
		zap.Int("fragments", stats.Fragments),
		zap.Int("phrases", stats.Phrases),
	)
	return nil
}

func (s *ContentService) importBank(ctx context.Context, bank *content.Bank, source string) error {
	if err := s.repo.ImportBank(ctx, bank); err != nil {
		return fmt.Errorf("failed to import content: %w", err)
	}

	stats := bank.Stats()
	s.logger.Info("content imported",
		zap.String("source", source),
		zap.Int("fallacies", stats.Fallacies),
		zap.Int("topics", stats.Topics),
		zap.Int("fragments", stats.Fragments),
		zap.Int("phrases", stats.Phrases),
	)
	return nil
}
