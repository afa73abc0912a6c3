// Command analyze runs the full tampering analysis against the database
// corpus and writes the layered report to disk: report.json, report.md and
// changes_summary.csv.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sspedowski/justice-document-pip-sub000/internal/config"
	"github.com/sspedowski/justice-document-pip-sub000/internal/repository/postgres"
	"github.com/sspedowski/justice-document-pip-sub000/internal/service/analysis"
	"github.com/sspedowski/justice-document-pip-sub000/internal/service/report"
)

func main() {
	outDir := flag.String("out", ".", "directory for report files")
	configPath := flag.String("config", "", "analysis config YAML (defaults built in)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *configPath == "" {
		*configPath = cfg.AnalysisConfigPath
	}
	analysisCfg, err := analysis.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load analysis config: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	docRepo := postgres.NewDocumentRepository(repoConfig)
	versionRepo := postgres.NewVersionRepository(repoConfig)

	svc := analysis.NewService(docRepo, versionRepo, analysisCfg, logger)
	result, err := svc.Run(ctx)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	rep := report.Compile(result)

	jsonOut, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode report: %v", err)
	}
	if err := os.WriteFile(filepath.Join(*outDir, "report.json"), jsonOut, 0644); err != nil {
		log.Fatalf("Failed to write report.json: %v", err)
	}

	if err := os.WriteFile(filepath.Join(*outDir, "report.md"), []byte(report.RenderMarkdown(rep)), 0644); err != nil {
		log.Fatalf("Failed to write report.md: %v", err)
	}

	csvOut, err := report.RenderCSV(rep)
	if err != nil {
		log.Fatalf("Failed to render CSV: %v", err)
	}
	if err := os.WriteFile(filepath.Join(*outDir, "changes_summary.csv"), []byte(csvOut), 0644); err != nil {
		log.Fatalf("Failed to write changes_summary.csv: %v", err)
	}

	logger.Info("analysis complete",
		"documents", result.DocumentCount,
		"date_groups", len(result.DateGroups),
		"patterns", len(result.Systematic.Patterns),
		"risk", result.Risk.OverallRisk,
		"out_dir", *outDir,
	)
}
