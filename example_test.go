package patter_test

import (
	"context"
	"fmt"
	"log"

	"github.com/patterflow/patter"
	"github.com/patterflow/patter/pkg/adapters/memory"
	"github.com/patterflow/patter/pkg/domain"
)

// ExampleNew_memory drives a small scripted conversation entirely in memory.
// This is useful for tests, embedded scenarios, or when you don't want to
// rely on the file system.
func ExampleNew_memory() {
	// 1. Define the sequence with Go structs.
	source, err := memory.NewFromSequences(domain.Sequence{
		ID:   "hello",
		Name: "Hello",
		Messages: []domain.Message{
			{
				ID:            "greet",
				Type:          domain.MessageBot,
				Text:          "Hi! Ready to start?",
				NextMessageID: "confirm",
			},
			{
				ID:   "confirm",
				Type: domain.MessageChoice,
				Text: "Pick one:",
				Choices: []domain.Choice{
					{Text: "Let's go", NextMessageID: "go"},
					{Text: "Not now", NextMessageID: "later"},
				},
			},
			{ID: "go", Type: domain.MessageBot, Text: "Great, off we go."},
			{ID: "later", Type: domain.MessageBot, Text: "Okay, see you later."},
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	// 2. Build the engine. Instant delivery disables typing pacing so the
	// transcript is available as soon as Settle returns.
	engine, err := patter.New(source, patter.WithInstantDelivery(true))
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Dispose()

	// 3. Start a session and wait for the queue to settle.
	ctx := context.Background()
	if err := engine.StartSession(ctx, "hello"); err != nil {
		log.Fatal(err)
	}
	engine.Settle()

	// 4. The flow is suspended on the choice; answer it.
	if err := engine.ResolveChoice(ctx, 0); err != nil {
		log.Fatal(err)
	}
	engine.Settle()

	for _, msg := range engine.Log() {
		fmt.Println(msg.Text)
	}
	// Output:
	// Hi! Ready to start?
	// Pick one:
	// Great, off we go.
}
