package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/wezza-dev/prembot/internal/config"
	"github.com/wezza-dev/prembot/internal/dialogue"
	"github.com/wezza-dev/prembot/internal/handlers"
	"github.com/wezza-dev/prembot/internal/llm"
	"github.com/wezza-dev/prembot/internal/memory"
	"github.com/wezza-dev/prembot/internal/models"
	"github.com/wezza-dev/prembot/internal/sportsdata"
	"github.com/wezza-dev/prembot/internal/teams"
)

// Console front-end for the dialogue manager. Uses an in-memory store so it
// runs without Redis or NATS.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if cfg.AnthropicAPIKey == "" {
		log.Fatal("❌ ANTHROPIC_API_KEY environment variable is required")
	}

	classifier, err := llm.NewAnthropicClassifier(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicTimeout)
	if err != nil {
		log.Fatalf("❌ Failed to initialize classifier: %v", err)
	}

	store := memory.NewMemStore()
	fixtures := sportsdata.NewClient(cfg.SportsDBBaseURL, cfg.SportsDBAPIKey, cfg.SportsDBTimeout)
	manager := dialogue.NewManager(teams.Default(), classifier, fixtures, store)
	turnHandler := handlers.NewTurnHandler(manager, store, nil)

	fmt.Println("Welcome to the Premier League Interactive AI! I can help you with the following:")
	fmt.Println("  - Find match results for your favourite teams. Try 'Wolves vs Crystal Palace in 2021'")
	fmt.Println("  - Check upcoming fixtures. Try 'Chelsea vs Arsenal'")
	fmt.Println("  - Book tickets for matches. Try 'I want to book tickets for Brighton vs Aston Villa'")
	fmt.Println("You can start by introducing yourself or asking about a match. How can I assist you today?")

	sessionID := uuid.NewString()
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		lowered := strings.ToLower(input)
		if lowered == "exit" || lowered == "quit" {
			fmt.Println("ChatBot: Goodbye!")
			break
		}

		response, err := turnHandler.ProcessTurn(context.Background(), &models.TurnRequest{
			SessionID:   sessionID,
			UserID:      "console",
			UserMessage: input,
		})
		if err != nil {
			fmt.Println("ChatBot: Something went wrong. Please try again.")
			continue
		}
		for _, line := range strings.Split(response.Reply, "\n") {
			fmt.Println("ChatBot: " + line)
		}
	}
}
