package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"vidforge/generator"
	"vidforge/registry"
	"vidforge/types"
)

// Runner is the pipeline entry point the consumer drives.
type Runner interface {
	GenerateAll(ctx context.Context, taskID string, data map[string]any, progress generator.ProgressFunc) (types.Result, error)
}

// requestHandler runs each consumed generation request through the pipeline.
// Validation failures are marked (skipped); transient processing errors are
// left unmarked for redelivery.
type requestHandler struct {
	store  *registry.Store
	runner Runner
}

func (h *requestHandler) HandleMessage(ctx context.Context, message []byte) (bool, error) {
	var req map[string]any
	if err := json.Unmarshal(message, &req); err != nil {
		log.Printf("skipping malformed request message: %v", err)
		return true, nil
	}

	taskName, ok := req["task_name"].(string)
	if !ok || taskName == "" {
		log.Printf("skipping request message without task_name")
		return true, nil
	}

	taskID := uuid.New().String()
	h.store.Create(taskID, taskName)
	h.store.SetProcessing(taskID)

	log.Printf("processing generation request %q as task %s", taskName, taskID)

	result, err := h.runner.GenerateAll(ctx, taskID, req, func(completed, total int) {
		h.store.SetProgress(taskID, completed, total)
	})
	if err != nil {
		h.store.SetFailed(taskID, err.Error())
		if errors.Is(err, generator.ErrValidation) {
			// Retrying the same payload cannot succeed.
			log.Printf("task %s rejected: %v", taskID, err)
			return true, nil
		}
		log.Printf("task %s failed, leaving message for redelivery: %v", taskID, err)
		return false, err
	}

	h.store.SetCompleted(taskID, result)
	return true, nil
}

// StartRequestConsumer consumes generation requests until SIGINT/SIGTERM.
func StartRequestConsumer(brokers []string, topic, groupID string, store *registry.Store, runner Runner) error {
	consumer, err := NewConsumer(ConsumerConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
		Handler: &requestHandler{store: store, runner: runner},
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		return err
	}

	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigterm, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigterm:
		log.Println("Received termination signal")
	case <-ctx.Done():
		log.Println("Context canceled")
	}

	cancel()

	// Give in-flight processing a moment to finish.
	time.Sleep(2 * time.Second)

	return consumer.Close()
}

// Brokers parses the Kafka broker list from the environment.
func Brokers() []string {
	brokers := os.Getenv("KAFKA_BOOTSTRAP_SERVERS")
	if brokers == "" {
		brokers = "localhost:9093"
	}
	return strings.Split(brokers, ",")
}

// Topic returns the generation request topic name.
func Topic() string {
	topic := os.Getenv("KAFKA_TOPIC_GENERATION_REQUESTS")
	if topic == "" {
		topic = "generation-requests"
	}
	return topic
}

// GroupID returns the consumer group id.
func GroupID() string {
	groupID := os.Getenv("KAFKA_CONSUMER_GROUP_ID")
	if groupID == "" {
		groupID = "vidforge-consumer-group"
	}
	return groupID
}
