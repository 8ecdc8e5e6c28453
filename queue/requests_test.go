package queue

import (
	"context"
	"errors"
	"testing"

	"vidforge/generator"
	"vidforge/registry"
	"vidforge/types"
)

type fakeRunner struct {
	result types.Result
	err    error
	calls  int
}

func (f *fakeRunner) GenerateAll(ctx context.Context, taskID string, data map[string]any, progress generator.ProgressFunc) (types.Result, error) {
	f.calls++
	return f.result, f.err
}

func TestHandleMessageSkipsMalformedJSON(t *testing.T) {
	store := registry.NewStore()
	runner := &fakeRunner{}
	h := &requestHandler{store: store, runner: runner}

	mark, err := h.HandleMessage(context.Background(), []byte("not json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mark {
		t.Error("malformed messages must be marked so they are not redelivered")
	}
	if runner.calls != 0 {
		t.Error("pipeline must not run for malformed messages")
	}
}

func TestHandleMessageSkipsMissingTaskName(t *testing.T) {
	store := registry.NewStore()
	runner := &fakeRunner{}
	h := &requestHandler{store: store, runner: runner}

	mark, err := h.HandleMessage(context.Background(), []byte(`{"block1": []}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mark {
		t.Error("messages without task_name must be marked")
	}
	if runner.calls != 0 {
		t.Error("pipeline must not run without a task_name")
	}
}

func TestHandleMessageRunsPipeline(t *testing.T) {
	store := registry.NewStore()
	runner := &fakeRunner{
		result: types.Result{
			Successful: []types.VariantURL{{VariantID: "v1", URL: "https://cdn/v1.mp4"}},
			Total:      1,
		},
	}
	h := &requestHandler{store: store, runner: runner}

	mark, err := h.HandleMessage(context.Background(), []byte(`{"task_name": "demo"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mark {
		t.Error("processed messages must be marked")
	}
	if runner.calls != 1 {
		t.Fatalf("expected 1 pipeline run, got %d", runner.calls)
	}
}

func TestHandleMessageMarksFailedValidation(t *testing.T) {
	store := registry.NewStore()
	runner := &fakeRunner{err: generator.ErrNoBlocks}
	h := &requestHandler{store: store, runner: runner}

	mark, err := h.HandleMessage(context.Background(), []byte(`{"task_name": "demo"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mark {
		t.Error("validation failures must be marked, retrying cannot succeed")
	}
}

func TestHandleMessageLeavesTransientFailureUnmarked(t *testing.T) {
	store := registry.NewStore()
	runner := &fakeRunner{err: errors.New("block1: failed to download http://cdn/a.mp4: connection reset")}
	h := &requestHandler{store: store, runner: runner}

	mark, err := h.HandleMessage(context.Background(), []byte(`{"task_name": "demo"}`))
	if err == nil {
		t.Error("transient failures should surface an error")
	}
	if mark {
		t.Error("transient failures must stay unmarked for redelivery")
	}
}
