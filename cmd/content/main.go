package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fallacyfinder/internal/config"
	"fallacyfinder/internal/content"
	"fallacyfinder/internal/database"
	"fallacyfinder/internal/logger"
	"fallacyfinder/internal/repository"
	"fallacyfinder/internal/service"
)

var rootCmd = &cobra.Command{
	Use:           "content",
	Short:         "Manage the fallacyfinder content bank",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a content bank file, or the embedded bank when no file is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		bank, err := content.Load(path)
		if err != nil {
			return err
		}
		stats := bank.Stats()
		fmt.Fprintf(cmd.OutOrStdout(), "OK: %d fallacies, %d topics, %d fragments, %d phrases\n",
			stats.Fallacies, stats.Topics, stats.Fragments, stats.Phrases)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the stored content to a YAML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		outputPath, _ := cmd.Flags().GetString("output")
		if outputPath == "" {
			outputPath = fmt.Sprintf("content_%s.yaml", time.Now().Format("20060102_150405"))
		}
		if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		return withContentService(cmd.Context(), func(svc *service.ContentService) error {
			if err := svc.Export(cmd.Context(), outputPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Content exported to %s\n", outputPath)
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace the stored content with a YAML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		inputPath, _ := cmd.Flags().GetString("input")
		return withContentService(cmd.Context(), func(svc *service.ContentService) error {
			if err := svc.Import(cmd.Context(), inputPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Content imported from %s\n", inputPath)
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "Output file path (default: content_YYYYMMDD_HHMMSS.yaml)")
	importCmd.Flags().StringP("input", "i", "", "Input file path")
	_ = importCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(validateCmd, exportCmd, importCmd)
}

// withContentService opens the configured database, migrates it and runs fn
func withContentService(ctx context.Context, fn func(*service.ContentService) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Encoding: "console"})
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := database.InitializeWithConfig(cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(ctx, cfg.MigrationsPath); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Debug("database ready", zap.String("type", cfg.Database.Type))
	return fn(service.NewContentService(repository.NewContentRepository(db), log))
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
