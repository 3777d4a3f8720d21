/*
Package patter is an engine for scripted, branching conversational
experiences. It delivers authored message sequences with human-like pacing,
suspends on interactive messages, and routes between sequences based on
conditions over a key/value conversation state.

# Concept

Patter treats a conversation as a set of sequences, each an ordered script of
typed messages: bot text, user echoes, choice prompts, free-text prompts,
silent autoroutes and data actions, images. The engine manages delivery
timing, placeholder resolution, branching and state mutation, while your
application ("Host") manages the I/O. This hexagonal layout lets Patter run
behind any interface: CLI, HTTP server, or an embedded widget backend.

# Key Features

  - Deterministic branching: routes are OR-of-AND condition lists evaluated
    against a snapshot of the conversation store.
  - Adaptive pacing: visible messages are delayed proportionally to their
    resolved length, clamped to a comfortable band, unless an author delay or
    instant mode overrides it.
  - Graceful degradation: unresolved placeholders fall back to authored text;
    a dead-end route ends the flow instead of crashing it.
  - Hexagonal architecture: stores, content libraries, event sinks and clocks
    are ports with in-memory, file and Redis adapters.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/patterflow/patter"
		"github.com/patterflow/patter/pkg/adapters/file"
	)

	func main() {
		source, err := file.New("./sequences")
		if err != nil {
			log.Fatal(err)
		}

		eng, err := patter.New(source, patter.WithInstantDelivery(true))
		if err != nil {
			log.Fatal(err)
		}
		defer eng.Dispose()

		ctx := context.Background()
		if err := eng.StartSession(ctx, "onboarding"); err != nil {
			log.Fatal(err)
		}

		// Main loop: read the transcript, answer pending prompts.
		for {
			for _, msg := range eng.Log() {
				log.Println(msg.Type, msg.Text)
			}

			pending, ok := eng.Pending()
			if !ok {
				break
			}

			// In a real app this input comes from the user.
			if err := eng.ResolveChoice(ctx, 0); err != nil {
				log.Fatal(err)
			}
			_ = pending
		}
	}
*/
package patter
