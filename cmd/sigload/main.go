package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/jcastellr/netwarden/internal/adapters/signatures"
)

func main() {
	seedFile := flag.String("seed-file", "./configs/signature_seed.json", "Path to signature seed JSON file")
	dbPath := flag.String("db-path", "./data/signatures.db", "Path to signature database")
	flag.Parse()

	log.Println("=== Signature Seed Loader ===")
	log.Printf("Seed file: %s", *seedFile)
	log.Printf("Database: %s", *dbPath)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// Create repository
	repo, err := signatures.NewSQLiteRepository(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create repository: %v", err)
	}
	defer repo.Close()

	// Load seed data
	loader := signatures.NewSeedLoader(repo)
	ctx := context.Background()

	if err := loader.LoadFromFile(ctx, *seedFile); err != nil {
		log.Fatalf("Failed to load seed data: %v", err)
	}

	// Show stats
	count, _ := repo.Count(ctx)
	log.Printf("Database now contains %d enabled signatures", count)
}
