// Package main provides a tool to seed the database with a sample library.
//
// This creates a handful of books with notes, progress, and canvas scribbles
// to exercise the browse, spreads, and search features during development.
//
// Usage:
//
//	DATA_PATH=~/ShelfNote/data go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/id"
	"github.com/shelfnote/shelfnote-server/internal/search"
	"github.com/shelfnote/shelfnote-server/internal/service"
	"github.com/shelfnote/shelfnote-server/internal/store"
)

type seedBook struct {
	title  string
	author string
	genres []string
	status domain.Status
	rating int
	pages  int
	notes  []string
	saved  bool
}

var library = []seedBook{
	{
		title: "Circe", author: "Madeline Miller",
		genres: []string{"Mythology", "Historical Fiction"},
		status: domain.StatusRead, rating: 5, pages: 393,
		notes: []string{
			"The loom as a metaphor for control over one's own story.",
			"Transformation is never just punishment here.",
		},
		saved: true,
	},
	{
		title: "The Left Hand of Darkness", author: "Ursula K. Le Guin",
		genres: []string{"Science Fiction"},
		status: domain.StatusInProgress, rating: 0, pages: 304,
		notes: []string{"Gethen's weather is practically a character."},
	},
	{
		title: "Dune", author: "Frank Herbert",
		genres: []string{"Science Fiction", "Epic"},
		status: domain.StatusToRead, pages: 412,
	},
	{
		title: "The Song of Achilles", author: "Madeline Miller",
		genres: []string{"Mythology"},
		status: domain.StatusRead, rating: 4, pages: 352,
		saved: true,
	},
	{
		title: "Piranesi", author: "Susanna Clarke",
		genres: []string{"Fantasy"},
		status: domain.StatusAbandoned, rating: 2, pages: 245,
		notes: []string{"The House gives; the House takes."},
	},
}

func main() {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/ShelfNote/data")
	}

	fmt.Printf("Seeding library at: %s\n", dataPath)

	s, err := store.New(filepath.Join(dataPath, "db"), nil, store.NewNoopEmitter())
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, sb := range library {
		book := domain.NewBook(id.MustGenerate("book"), sb.title, sb.author, "", sb.genres)
		book.Status = sb.status
		book.Rating = sb.rating
		book.TotalPages = sb.pages
		book.Saved = sb.saved

		switch sb.status {
		case domain.StatusRead:
			book.CurrentPage = sb.pages
		case domain.StatusInProgress, domain.StatusAbandoned:
			book.CurrentPage = 1 + rng.Intn(sb.pages-1)
		}

		if err := s.CreateBook(ctx, book); err != nil {
			log.Fatalf("Failed to create %q: %v", sb.title, err)
		}

		for _, content := range sb.notes {
			page := 1 + rng.Intn(max(book.CurrentPage, 1))
			note := domain.NewNote(id.MustGenerate("note"), page, content)
			if _, err := s.AddNote(ctx, book.ID, note); err != nil {
				log.Fatalf("Failed to add note to %q: %v", sb.title, err)
			}
		}

		fmt.Printf("  + %s (%s, %d notes)\n", book.Title, book.Status, len(sb.notes))
	}

	// Rebuild the search index so the seeded books are searchable immediately.
	index, err := search.NewSearchIndex(search.Options{DataPath: dataPath})
	if err != nil {
		log.Fatalf("Failed to open search index: %v", err)
	}
	defer index.Close()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	searchService := service.NewSearchService(index, s, logger)
	if err := searchService.ReindexAll(ctx); err != nil {
		log.Fatalf("Failed to reindex: %v", err)
	}

	fmt.Println("Done.")
}
