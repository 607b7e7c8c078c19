package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/discograph/pkg/config"
	"github.com/matzehuels/discograph/pkg/server"
)

func TestOpenCatalogMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "discoveries.json")
	body := `[{"id": 1, "name": "Calculus", "year": 1687, "topic_label": "Analysis", "topic_hierarchy": ["Mathematics"]}]`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Catalog.Path = path
	cfg.Catalog.Watch = true

	c := testCLI("")
	store, stop, err := c.openCatalog(context.Background(), cfg, server.NewMetrics())
	if err != nil {
		t.Fatalf("openCatalog: %v", err)
	}
	defer stop()
	defer store.Close()

	topics, err := store.Topics(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(topics) != 1 || topics[0].Name != "Analysis" || topics[0].Branch != "Mathematics" {
		t.Errorf("topics = %+v", topics)
	}
}

func TestOpenCatalogMissingFile(t *testing.T) {
	cfg := config.Default()
	cfg.Catalog.Path = filepath.Join(t.TempDir(), "missing.json")

	if _, _, err := testCLI("").openCatalog(context.Background(), cfg, server.NewMetrics()); err == nil {
		t.Error("expected error for missing dataset")
	}
}
