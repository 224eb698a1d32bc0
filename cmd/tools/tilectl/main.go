package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/annel0/tileworld/internal/auth"
	"github.com/annel0/tileworld/internal/storage"
	"github.com/annel0/tileworld/internal/tags"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world"
)

func main() {
	var (
		command  = flag.String("cmd", "tags", "Command: hash-password, export, import, generate, sphere, tags")
		dataPath = flag.String("data", "data/tiles", "BadgerDB directory with tiles")
		file     = flag.String("file", "tiles.jsonl.zst", "Snapshot file for export/import")
		password = flag.String("password", "", "Password to hash")
		center   = flag.String("center", "0,0,0", "Sphere center x,y,z")
		radius   = flag.Int("radius", 1, "Sphere radius")
		metric   = flag.String("metric", "chebyshev", "Metric: chebyshev, manhattan, euclidean")
		seed     = flag.Int64("seed", 1, "Terrain seed")
	)
	flag.Parse()

	ctx := context.Background()

	switch *command {
	case "hash-password":
		if *password == "" {
			log.Fatalf("❌ -password is required")
		}
		hash, err := auth.HashPassword(*password)
		if err != nil {
			log.Fatalf("❌ Hash failed: %v", err)
		}
		fmt.Println(hash)

	case "export":
		if err := exportSnapshot(ctx, *dataPath, *file); err != nil {
			log.Fatalf("❌ Export failed: %v", err)
		}

	case "import":
		if err := importSnapshot(ctx, *dataPath, *file); err != nil {
			log.Fatalf("❌ Import failed: %v", err)
		}

	case "generate":
		s, err := parseSphere(*center, *radius)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		if err := generateTerrain(ctx, *dataPath, s, *seed); err != nil {
			log.Fatalf("❌ Generate failed: %v", err)
		}

	case "sphere":
		s, err := parseSphere(*center, *radius)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		m, err := world.ParseMetric(*metric)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		printJSON(world.SphereTiles(s, m))

	case "tags":
		printJSON(tags.Catalogue())

	default:
		fmt.Printf("❌ Unknown command: %s\n", *command)
		fmt.Println("Available commands: hash-password, export, import, generate, sphere, tags")
		os.Exit(1)
	}
}

func parseSphere(center string, radius int) (vec.Sphere, error) {
	c, err := vec.ParseTripoint(center)
	if err != nil {
		return vec.Sphere{}, fmt.Errorf("bad center: %w", err)
	}
	return vec.NewSphereRadius(c, radius), nil
}

// exportSnapshot выгружает все тайлы BadgerDB в сжатый файл
func exportSnapshot(ctx context.Context, dataPath, file string) error {
	store, err := storage.NewBadgerTileStore(dataPath)
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := storage.ExportTiles(ctx, store, f)
	if err != nil {
		return err
	}
	fmt.Printf("📦 Exported %d tiles to %s\n", n, file)
	return f.Sync()
}

// importSnapshot загружает тайлы из файла; при ошибке печатает, сколько строк успело примениться
func importSnapshot(ctx context.Context, dataPath, file string) error {
	store, err := storage.NewBadgerTileStore(dataPath)
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := storage.ImportTiles(ctx, store, f)
	fmt.Printf("📥 Imported %d tiles from %s\n", n, file)
	return err
}

func generateTerrain(ctx context.Context, dataPath string, s vec.Sphere, seed int64) error {
	store, err := storage.NewBadgerTileStore(dataPath)
	if err != nil {
		return err
	}
	defer store.Close()

	generated := world.NewTerrainGenerator(seed).Generate(s)
	for _, t := range generated {
		record := storage.TileRecord{Visibility: t.Visibility, Object: t.Object, Phase: t.Phase}
		if err := store.Put(ctx, t.Pos, record); err != nil {
			return err
		}
	}
	fmt.Printf("🗺️ Generated %d tiles around %s (seed %d)\n", len(generated), s.Center, seed)
	return nil
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("❌ Encode failed: %v", err)
	}
}
