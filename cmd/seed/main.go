package main

import (
	"context"
	"log"
	"os"
	"time"

	"notealog/internal/model"
	"notealog/pkg/database"
	"notealog/pkg/domain"
	"notealog/pkg/embedding"

	"github.com/joho/godotenv"
)

type sampleNote struct {
	id, title, content, folderId string
}

var sampleFolders = []model.Folder{
	{Id: "seed-work", Name: "Work"},
	{Id: "seed-home", Name: "Home"},
	{Id: "seed-recipes", Name: "Recipes"},
}

var sampleNotes = []sampleNote{
	{"seed-n1", "Sprint planning", "Agenda: review backlog, estimate stories, assign owners for the payment refactor.", "seed-work"},
	{"seed-n2", "1:1 with Dana", "Career goals, feedback on the design review, follow up on the on-call rotation.", "seed-work"},
	{"seed-n3", "Fix the leaking tap", "Buy a washer and a 13mm spanner. Water main is under the stairs.", "seed-home"},
	{"seed-n4", "Garden", "Plant tomatoes after the last frost, repair the fence near the shed.", "seed-home"},
	{"seed-n5", "Banana bread", "3 ripe bananas, 250g flour, 100g butter, 2 eggs. Bake 60 minutes at 175C.", "seed-recipes"},
	{"seed-n6", "Retro notes", "What went well: release on time. To improve: flaky integration tests.", domain.UnassignedFolderID},
	{"seed-n7", "Pancakes", "Flour, milk, eggs, pinch of salt. Rest the batter for 20 minutes.", domain.UnassignedFolderID},
	{"seed-n8", "Boiler service", "Annual service due in March, call the plumber to book.", domain.UnassignedFolderID},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Error: Migration failed:", err)
	}

	// Embeddings are optional: without the service the notes are stored
	// unembedded and categorization runs without similarity context.
	var embeddings *embedding.Client
	if url := os.Getenv("EMBEDDING_SERVICE_URL"); url != "" {
		embeddings = embedding.NewClient(url)
	}

	log.Println("Seeding folders...")
	for _, f := range sampleFolders {
		var existing model.Folder
		if err := db.Where("id = ? OR name = ?", f.Id, f.Name).First(&existing).Error; err == nil {
			log.Printf("Folder '%s' already exists, skipping...", f.Name)
			continue
		}
		if err := db.Create(&f).Error; err != nil {
			log.Printf("Error creating folder '%s': %v", f.Name, err)
		} else {
			log.Printf("Created folder: %s", f.Name)
		}
	}

	log.Println("Seeding notes...")
	for _, n := range sampleNotes {
		var existing model.Note
		if err := db.Where("id = ?", n.id).First(&existing).Error; err == nil {
			log.Printf("Note '%s' already exists, skipping...", n.title)
			continue
		}

		note := model.Note{Id: n.id, Title: n.title, Content: n.content, FolderId: n.folderId}
		if embeddings != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			id, err := embeddings.CreateInitial(ctx, n.content)
			cancel()
			if err != nil {
				log.Printf("Warn: embedding for '%s' failed: %v", n.title, err)
			} else {
				note.EmbeddingsId = &id
			}
		}

		if err := db.Create(&note).Error; err != nil {
			log.Printf("Error creating note '%s': %v", n.title, err)
		} else {
			log.Printf("Created note: %s", n.title)
		}
	}

	log.Println("Seeding complete")
}
