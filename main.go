package main

import (
	"context"
	"flag"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"vidforge/api"
	"vidforge/config"
	"vidforge/download"
	"vidforge/generator"
	"vidforge/media"
	"vidforge/queue"
	"vidforge/registry"
	"vidforge/storage"
	"vidforge/tts"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	kafkaMode := flag.Bool("kafka", false, "Consume generation requests from Kafka instead of serving HTTP")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	speech, err := tts.NewService(ctx, cfg.TTSCredentialsFile, cfg.TTSSpeakingRate, cfg.TTSPitch)
	if err != nil {
		log.Fatalf("failed to initialize text-to-speech: %v", err)
	}

	publisher, err := storage.NewPublisher(ctx, storage.PublisherConfig{
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		Prefix:        cfg.S3Prefix,
		PublicBaseURL: cfg.S3PublicBaseURL,
		UsePathStyle:  cfg.S3UsePathStyle,
	})
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}

	gen := generator.New(
		download.NewClient(cfg.FetchTimeout),
		speech,
		publisher,
		media.NewEngine(cfg.BackgroundGain, cfg.VoiceGain),
		generator.Options{
			MaxConcurrentRenders: cfg.MaxConcurrentRenders,
			SilenceDuration:      cfg.SilenceDuration,
		},
	)
	store := registry.NewStore()

	if *kafkaMode {
		log.Println("Running in Kafka consumer mode")
		if err := queue.StartRequestConsumer(queue.Brokers(), queue.Topic(), queue.GroupID(), store, gen); err != nil {
			log.Fatalf("Kafka consumer failed: %v", err)
		}
		return
	}

	addr := ":" + config.GetEnvOrDefault("PORT", "8080")

	r := api.NewRouter(store, gen)
	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  POST   /generate")
	log.Println("  GET    /status/:id")
	log.Println("  GET    /results/:id")
	log.Println("  DELETE /task/:id")
	log.Println("  GET    /health")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
