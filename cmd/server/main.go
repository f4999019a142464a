package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/wezza-dev/prembot/internal/config"
	"github.com/wezza-dev/prembot/internal/dialogue"
	"github.com/wezza-dev/prembot/internal/handlers"
	"github.com/wezza-dev/prembot/internal/llm"
	"github.com/wezza-dev/prembot/internal/memory"
	"github.com/wezza-dev/prembot/internal/sportsdata"
	"github.com/wezza-dev/prembot/internal/teams"
	"github.com/wezza-dev/prembot/internal/transport"
)

func main() {
	// Load .env file if it exists (for development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	log.Println("🚀 Starting Prembot Dialogue Service...")

	cfg := config.Load()
	log.Printf("📋 Service: %s", cfg.ServiceName)
	log.Printf("📡 NATS URL: %s", cfg.NatsURL)
	log.Printf("🤖 Anthropic Model: %s", cfg.AnthropicModel)
	log.Printf("💾 Redis URL: %s", cfg.RedisURL)

	// Validate required configuration
	if cfg.AnthropicAPIKey == "" {
		log.Fatal("❌ ANTHROPIC_API_KEY environment variable is required")
	}

	// Initialize Redis store
	log.Println("🔌 Connecting to Redis...")
	redisStore, err := memory.NewRedisStore(cfg.RedisURL, cfg.SessionTTL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	defer redisStore.Close()
	log.Println("✅ Redis connected")

	// Initialize transcript manager
	transcripts := memory.NewManager(redisStore)
	defer transcripts.Close()
	log.Println("✅ Transcript manager initialized")

	// Initialize intent classifier
	classifier, err := llm.NewAnthropicClassifier(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicTimeout)
	if err != nil {
		log.Fatalf("❌ Failed to initialize classifier: %v", err)
	}
	log.Println("✅ Anthropic classifier initialized")

	// Initialize fixture data client and dialogue manager
	fixtures := sportsdata.NewClient(cfg.SportsDBBaseURL, cfg.SportsDBAPIKey, cfg.SportsDBTimeout)
	registry := teams.Default()
	manager := dialogue.NewManager(registry, classifier, fixtures, redisStore)
	log.Println("✅ Dialogue manager initialized")

	// Initialize turn handler
	turnHandler := handlers.NewTurnHandler(manager, redisStore, transcripts)
	log.Println("✅ Turn handler initialized")

	// Initialize NATS transport
	log.Println("📡 Connecting to NATS...")
	natsTransport, err := transport.NewNATSTransport(cfg, turnHandler)
	if err != nil {
		log.Fatalf("❌ Failed to initialize NATS transport: %v", err)
	}
	defer natsTransport.Close()

	// Start listening for requests
	if err := natsTransport.Start(); err != nil {
		log.Fatalf("❌ Failed to start NATS transport: %v", err)
	}

	log.Println("✅ Prembot Dialogue Service is running!")
	log.Printf("👂 Listening on subject: %s", cfg.NatsRequestSubject)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Printf("🛑 Received signal: %v", sig)
	log.Println("🔄 Shutting down gracefully...")

	log.Printf("📊 Final session count: %d", transcripts.GetActiveSessionCount())
	log.Println("👋 Prembot Dialogue Service stopped")
}
