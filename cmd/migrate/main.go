package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/francisco-sereno/synapsis-bolt-sub001/adapters/postgres"
	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/core"
	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/stats"
	"github.com/francisco-sereno/synapsis-bolt-sub001/internal/migration"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate <database_url> [analysis_export_dir]")
	}

	databaseURL := os.Args[1]
	ctx := context.Background()

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	runner := migration.NewRunner()
	if err := runner.Run(ctx, db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Schema %s applied", runner.Version())

	if len(os.Args) < 3 {
		return
	}
	exportDir := os.Args[2]

	files, err := findAnalysisFiles(exportDir)
	if err != nil {
		log.Fatalf("Failed to find analysis files: %v", err)
	}
	log.Printf("Found %d analysis files to import from %s", len(files), exportDir)

	repo := postgres.NewAnalysisRepository(db)
	imported := 0
	skipped := 0

	for _, file := range files {
		analysis, err := loadAnalysisFromFile(file, time.Now().UTC())
		if err != nil {
			log.Printf("Skipping %s: %v", filepath.Base(file), err)
			skipped++
			continue
		}

		if _, err := repo.GetByID(ctx, analysis.ID); err == nil {
			log.Printf("Analysis %s already present, skipping", analysis.ID)
			skipped++
			continue
		} else if !core.IsNotFoundError(err) {
			log.Printf("Failed to look up analysis %s: %v", analysis.ID, err)
			skipped++
			continue
		}

		if err := repo.Create(ctx, analysis); err != nil {
			log.Printf("Failed to save analysis %s: %v", analysis.ID, err)
			skipped++
			continue
		}
		imported++
		log.Printf("Imported analysis %s from %s", analysis.ID, filepath.Base(file))
	}

	log.Printf("Import complete: %d imported, %d skipped", imported, skipped)
}

func findAnalysisFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, ".json") {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

// loadAnalysisFromFile reads one exported analysis and fills the fields an
// older export may lack. Files without an id get one derived from the path
// so re-running the import does not duplicate them.
func loadAnalysisFromFile(filePath string, now time.Time) (*stats.Analysis, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var analysis stats.Analysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, err
	}

	if !analysis.Type.Valid() {
		return nil, fmt.Errorf("unknown analysis type %q", analysis.Type)
	}
	if analysis.ID.IsEmpty() {
		analysis.ID = core.ID(uuid.NewSHA1(uuid.NameSpaceURL, []byte(filePath)).String())
	} else if analysis.ID, err = core.ParseID(analysis.ID.String()); err != nil {
		return nil, err
	}
	if strings.TrimSpace(analysis.ProjectID) == "" {
		analysis.ProjectID = "default"
	}
	if strings.TrimSpace(analysis.Name) == "" {
		analysis.Name = strings.TrimSuffix(filepath.Base(filePath), ".json")
	}
	if analysis.Status == "" {
		analysis.Status = stats.AnalysisCompleted
		if analysis.ErrorMessage != "" {
			analysis.Status = stats.AnalysisFailed
		}
	}
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = now
	}
	if analysis.UpdatedAt.IsZero() {
		analysis.UpdatedAt = analysis.CreatedAt
	}
	return &analysis, nil
}
