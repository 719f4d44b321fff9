package main

import (
	"context"
	"log"

	"moodflix-be/internal/config"
	"moodflix-be/internal/model"
	"moodflix-be/internal/repository/contract"
	"moodflix-be/internal/repository/implementation"
	"moodflix-be/pkg/database"
)

func main() {
	// 1. Load Environment Variables
	cfg := config.Load()
	if cfg.Store.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect and AutoMigrate the selection log table
	db, err := database.NewGormDBFromDSN(cfg.Store.Connection, false, &model.SelectionLog{})
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}
	log.Println("Step 1: selection_logs table is up to date")

	// 3. Import the CSV log when the table is still empty
	src := implementation.NewSelectionCSVRepository(cfg.Store.CSVPath)
	dst := implementation.NewSelectionRepository(db)

	n, err := importLog(context.Background(), src, dst)
	if err != nil {
		log.Fatal("Error: Import failed:", err)
	}
	log.Printf("Step 2: imported %d selections from %s", n, cfg.Store.CSVPath)
}

// importLog copies every selection from src into dst unless dst already holds rows.
func importLog(ctx context.Context, src, dst contract.SelectionRepository) (int, error) {
	existing, err := dst.Count(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		log.Printf("Skip: target already holds %d selections", existing)
		return 0, nil
	}

	rows, err := src.FindRecent(ctx, 0)
	if err != nil {
		return 0, err
	}
	for i, s := range rows {
		if err := dst.Append(ctx, s); err != nil {
			return i, err
		}
	}
	return len(rows), nil
}
