package signatures

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jcastellr/netwarden/internal/core/domain"
)

func TestSQLiteRepository(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "signatures.db")

	repo, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()

	t.Run("Seed populates an empty store", func(t *testing.T) {
		if err := repo.Seed(ctx, domain.DefaultSignatures()); err != nil {
			t.Fatalf("Seed failed: %v", err)
		}

		count, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if count != 13 {
			t.Errorf("Count = %d, want 13 (7 ports + 6 banners)", count)
		}
	})

	t.Run("Seed is a no-op on a populated store", func(t *testing.T) {
		err := repo.Seed(ctx, domain.SignatureSet{
			Ports: []domain.PortSignature{{Port: 1, Note: "tcpmux"}},
		})
		if err != nil {
			t.Fatalf("Seed failed: %v", err)
		}

		set, err := repo.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		for _, p := range set.Ports {
			if p.Port == 1 {
				t.Error("Second seed must not insert into a populated store")
			}
		}
	})

	t.Run("Load skips disabled entries", func(t *testing.T) {
		if _, err := repo.db.ExecContext(ctx, "UPDATE suspicious_ports SET enabled = 0 WHERE port = 23"); err != nil {
			t.Fatalf("Disable failed: %v", err)
		}

		set, err := repo.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(set.Ports) != 6 {
			t.Errorf("Ports = %d, want 6 after disabling one", len(set.Ports))
		}
		for _, p := range set.Ports {
			if p.Port == 23 {
				t.Error("Disabled port 23 must not be loaded")
			}
		}
		if len(set.Banners) != 6 {
			t.Errorf("Banners = %d, want 6", len(set.Banners))
		}
	})

	t.Run("Import upserts and re-enables", func(t *testing.T) {
		err := repo.Import(ctx, domain.SignatureSet{
			Ports: []domain.PortSignature{
				{Port: 23, Note: "telnet, re-imported"},
				{Port: 6667, Note: "IRC"},
			},
		})
		if err != nil {
			t.Fatalf("Import failed: %v", err)
		}

		set, err := repo.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		found23, found6667 := false, false
		for _, p := range set.Ports {
			switch p.Port {
			case 23:
				found23 = true
				if p.Note != "telnet, re-imported" {
					t.Errorf("Note = %q, want the imported note", p.Note)
				}
			case 6667:
				found6667 = true
			}
		}
		if !found23 {
			t.Error("Import must re-enable a disabled port")
		}
		if !found6667 {
			t.Error("Import must insert new ports")
		}
	})
}

func TestSeedLoader(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "signatures.db")
	repo, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	loader := NewSeedLoader(repo)

	t.Run("Valid file imports", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sigs.json")
		payload := `{"ports":[{"port":2323,"note":"alt telnet"}],"banners":[{"pattern":"Dropbear 0.52","note":"old"}]}`
		if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}

		if err := loader.LoadFromFile(ctx, path); err != nil {
			t.Fatalf("LoadFromFile failed: %v", err)
		}

		count, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if count != 2 {
			t.Errorf("Count = %d, want 2", count)
		}
	})

	t.Run("Missing file surfaces an error", func(t *testing.T) {
		if err := loader.LoadFromFile(ctx, "/nonexistent/sigs.json"); err == nil {
			t.Error("LoadFromFile should fail for a missing file")
		}
	})

	t.Run("Empty set is rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.json")
		if err := os.WriteFile(path, []byte(`{"ports":[],"banners":[]}`), 0o644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		if err := loader.LoadFromFile(ctx, path); err == nil {
			t.Error("LoadFromFile should reject an empty set")
		}
	})
}
