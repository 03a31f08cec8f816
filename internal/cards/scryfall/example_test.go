package scryfall_test

import (
	"context"
	"fmt"
	"log"

	"github.com/ramonehamilton/mtg-inventory/internal/cards/scryfall"
)

// ExampleClient_GetSet demonstrates retrieving set information.
func ExampleClient_GetSet() {
	client := scryfall.NewClient(scryfall.DefaultOptions())
	ctx := context.Background()

	set, err := client.GetSet(ctx, "dom")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Set: %s\n", set.Name)
	if set.CardCount != nil {
		fmt.Printf("Cards: %d\n", *set.CardCount)
	}
}

// ExampleClient_GetCardByCollectorNumber demonstrates fetching one printing of a set.
func ExampleClient_GetCardByCollectorNumber() {
	client := scryfall.NewClient(scryfall.DefaultOptions())
	ctx := context.Background()

	card, err := client.GetCardByCollectorNumber(ctx, "dom", 1)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Card: %s\n", card.Name)
	fmt.Printf("Type: %s\n", card.TypeLine)
}

// ExampleIsNotFound demonstrates error handling for not found errors.
func ExampleIsNotFound() {
	err := &scryfall.NotFoundError{URL: "https://api.scryfall.com/cards/dom/999"}

	if scryfall.IsNotFound(err) {
		fmt.Println("Card not found")
	}

	// Output: Card not found
}
