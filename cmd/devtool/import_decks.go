package main

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/rcsinavim/arena/internal/utils"
	"github.com/rcsinavim/arena/internal/validation"
)

const deckSchemaPath = "schemas/deck.schema.json"

// deckImport mirrors one entry of a deck import file
type deckImport struct {
	DeckID    string `json:"deck_id"`
	CreatorID string `json:"creator_id"`
	Title     string `json:"title"`
	Subject   string `json:"subject"`
	IsPublic  *bool  `json:"is_public"`
	Cards     []struct {
		Front   string `json:"front"`
		Back    string `json:"back"`
		Subject string `json:"subject"`
	} `json:"cards"`
}

// runImportDecks validates a deck JSON file against the deck schema and
// inserts the decks into the database. Existing deck IDs are skipped.
func runImportDecks(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("file argument required")
	}
	file := args[0]

	PrintHeader(fmt.Sprintf("Importing decks from %s", file))

	schemaValidator := validation.NewSchemaValidator()
	if err := schemaValidator.ValidateFile(file, deckSchemaPath); err != nil {
		return fmt.Errorf("deck file failed validation: %w", err)
	}
	PrintInfo("Schema validation passed")

	var decks []deckImport
	if err := utils.LoadJSON(file, &decks); err != nil {
		return err
	}

	db, err := sql.Open("pgx", dbURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	for _, d := range decks {
		deckID := d.DeckID
		if deckID == "" {
			deckID = uuid.NewString()
		}
		isPublic := true
		if d.IsPublic != nil {
			isPublic = *d.IsPublic
		}
		cards, err := json.Marshal(d.Cards)
		if err != nil {
			return fmt.Errorf("failed to marshal cards for %q: %w", d.Title, err)
		}

		_, err = db.Exec(
			`INSERT INTO decks (deck_id, creator_id, title, subject, cards, is_public)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (deck_id) DO NOTHING`,
			deckID, d.CreatorID, d.Title, d.Subject, cards, isPublic,
		)
		if err != nil {
			return fmt.Errorf("failed to insert deck %q: %w", d.Title, err)
		}
		PrintInfo("Imported %q (%d cards)", d.Title, len(d.Cards))
	}

	PrintSuccess("Imported %d decks", len(decks))
	return nil
}
