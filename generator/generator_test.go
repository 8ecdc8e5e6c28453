package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeFetcher struct {
	mu       sync.Mutex
	fetched  []string
	failURLs map[string]bool
}

func (f *fakeFetcher) Fetch(ctx context.Context, url, dest string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failURLs[url] {
		return fmt.Errorf("download failed: %s", url)
	}
	f.fetched = append(f.fetched, url)
	return os.WriteFile(dest, []byte(url), 0644)
}

type fakeSpeech struct {
	mu        sync.Mutex
	failTexts map[string]bool
	calls     int
}

func (f *fakeSpeech) Synthesize(ctx context.Context, text, voiceName, dest string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failTexts[text] {
		return errors.New("synthesis unavailable")
	}
	return os.WriteFile(dest, []byte(text+"/"+voiceName), 0644)
}

type fakePublisher struct {
	mu       sync.Mutex
	keys     []string
	failKeys map[string]bool
}

func (f *fakePublisher) PublishFile(ctx context.Context, localPath, key, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failKeys[key] {
		return "", errors.New("upload rejected")
	}
	f.keys = append(f.keys, key)
	return "https://cdn.example.com/" + key, nil
}

type fakeEngine struct {
	mu          sync.Mutex
	silences    int
	failMixFor  string // fail Mix when the voice path contains this
	failAttach  string // fail AttachAudio when the output path contains this
	concatCalls int
}

func (f *fakeEngine) Concatenate(inputs []string, output string) error {
	f.mu.Lock()
	f.concatCalls++
	f.mu.Unlock()
	return os.WriteFile(output, []byte(strings.Join(inputs, "\n")), 0644)
}

func (f *fakeEngine) Mix(background, voice, output string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMixFor != "" && strings.Contains(voice, f.failMixFor) {
		return errors.New("amix failed")
	}
	return os.WriteFile(output, []byte(background+"+"+voice), 0644)
}

func (f *fakeEngine) AttachAudio(video, audio, output string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAttach != "" && strings.Contains(output, f.failAttach) {
		return errors.New("render failed")
	}
	return os.WriteFile(output, []byte(video+"+"+audio), 0644)
}

func (f *fakeEngine) WriteSilence(output string, d time.Duration) error {
	f.mu.Lock()
	f.silences++
	f.mu.Unlock()
	return os.WriteFile(output, []byte("silence"), 0644)
}

func newTestGenerator(fetcher *fakeFetcher, speech *fakeSpeech, publisher *fakePublisher, engine *fakeEngine) *Generator {
	return New(fetcher, speech, publisher, engine, Options{MaxConcurrentRenders: 2, SilenceDuration: time.Second})
}

func minimalRequest() map[string]any {
	return map[string]any{
		"task_name": "test",
		"block1":    []any{"http://cdn/clip1.mp4", "http://cdn/clip2.mp4"},
		"audio1":    []any{"http://cdn/bg.mp3"},
		"voice1": []any{
			map[string]any{"text": "hello", "voice": "en-US-Wavenet-D"},
		},
	}
}

func TestGenerateAllSingleVariant(t *testing.T) {
	fetcher := &fakeFetcher{}
	speech := &fakeSpeech{}
	publisher := &fakePublisher{}
	engine := &fakeEngine{}
	g := newTestGenerator(fetcher, speech, publisher, engine)

	result, err := g.GenerateAll(context.Background(), "task42", minimalRequest(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Total != 1 {
		t.Errorf("expected total 1, got %d", result.Total)
	}
	if len(result.Successful) != 1 || len(result.Failed) != 0 {
		t.Fatalf("expected 1 success and 0 failures, got %d/%d", len(result.Successful), len(result.Failed))
	}

	variant := result.Successful[0]
	if variant.VariantID != "task42_block1_v1" {
		t.Errorf("unexpected variant id: %s", variant.VariantID)
	}
	if variant.URL != "https://cdn.example.com/task42/task42_block1_v1.mp4" {
		t.Errorf("unexpected url: %s", variant.URL)
	}
	if len(publisher.keys) != 1 || publisher.keys[0] != "task42/task42_block1_v1.mp4" {
		t.Errorf("unexpected publish keys: %v", publisher.keys)
	}
}

func TestGenerateAllMissingAudioIsFatal(t *testing.T) {
	req := minimalRequest()
	delete(req, "audio1")

	g := newTestGenerator(&fakeFetcher{}, &fakeSpeech{}, &fakePublisher{}, &fakeEngine{})
	_, err := g.GenerateAll(context.Background(), "task1", req, nil)
	if !errors.Is(err, ErrNoAudio) {
		t.Fatalf("expected ErrNoAudio, got %v", err)
	}
}

func TestGenerateAllAudioFetchFailureIsFatal(t *testing.T) {
	fetcher := &fakeFetcher{failURLs: map[string]bool{"http://cdn/bg.mp3": true}}
	g := newTestGenerator(fetcher, &fakeSpeech{}, &fakePublisher{}, &fakeEngine{})

	_, err := g.GenerateAll(context.Background(), "task1", minimalRequest(), nil)
	if err == nil {
		t.Fatal("expected fatal error for failed audio download")
	}
	if !strings.Contains(err.Error(), "audio1") {
		t.Errorf("error should name the failed input, got: %v", err)
	}
}

func TestGenerateAllSynthesisFailureSubstitutesSilence(t *testing.T) {
	req := map[string]any{
		"task_name": "test",
		"block1":    []any{"http://cdn/a.mp4"},
		"block2":    []any{"http://cdn/b.mp4"},
		"audio1":    []any{"http://cdn/bg1.mp3", "http://cdn/bg2.mp3"},
		"voice1": []any{
			map[string]any{"text": "one", "voice": "en-US-Wavenet-D"},
			map[string]any{"text": "two", "voice": "en-US-Wavenet-D"},
			map[string]any{"text": "three", "voice": "en-US-Wavenet-D"},
		},
	}

	speech := &fakeSpeech{failTexts: map[string]bool{"two": true}}
	engine := &fakeEngine{}
	g := newTestGenerator(&fakeFetcher{}, speech, &fakePublisher{}, engine)

	result, err := g.GenerateAll(context.Background(), "task1", req, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if engine.silences != 1 {
		t.Errorf("expected 1 silent substitute, got %d", engine.silences)
	}
	// 2 blocks x (2 audio x 3 voices) mixes; the failed line still yields a
	// mix input thanks to the silent clip.
	if result.Total != 12 {
		t.Errorf("expected total 12, got %d", result.Total)
	}
	if len(result.Successful) != 12 {
		t.Errorf("expected 12 successes, got %d", len(result.Successful))
	}
}

func TestGenerateAllMixFailureShrinksTotal(t *testing.T) {
	req := map[string]any{
		"task_name": "test",
		"block1":    []any{"http://cdn/a.mp4"},
		"audio1":    []any{"http://cdn/bg1.mp3", "http://cdn/bg2.mp3"},
		"voice1": []any{
			map[string]any{"text": "one", "voice": "en-US-Wavenet-D"},
			map[string]any{"text": "two", "voice": "en-US-Wavenet-D"},
		},
	}

	// Every mix that uses the first voice file fails, removing 2 of the 4
	// pairings before the total is fixed.
	engine := &fakeEngine{failMixFor: "tts_0"}
	g := newTestGenerator(&fakeFetcher{}, &fakeSpeech{}, &fakePublisher{}, engine)

	result, err := g.GenerateAll(context.Background(), "task1", req, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Total != 2 {
		t.Errorf("expected total 2 after mix failures, got %d", result.Total)
	}
	if len(result.Successful) != 2 || len(result.Failed) != 0 {
		t.Errorf("expected 2/0 outcome, got %d/%d", len(result.Successful), len(result.Failed))
	}
}

func TestGenerateAllRenderFailurePartitionsOutcome(t *testing.T) {
	req := map[string]any{
		"task_name": "test",
		"block1":    []any{"http://cdn/a.mp4"},
		"block2":    []any{"http://cdn/b.mp4"},
		"audio1":    []any{"http://cdn/bg.mp3"},
		"voice1": []any{
			map[string]any{"text": "one", "voice": "en-US-Wavenet-D"},
			map[string]any{"text": "two", "voice": "en-US-Wavenet-D"},
		},
	}

	engine := &fakeEngine{failAttach: "_v3.mp4"}
	g := newTestGenerator(&fakeFetcher{}, &fakeSpeech{}, &fakePublisher{}, engine)

	result, err := g.GenerateAll(context.Background(), "task1", req, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Total != 4 {
		t.Fatalf("expected total 4, got %d", result.Total)
	}
	if len(result.Successful)+len(result.Failed) != result.Total {
		t.Errorf("successful (%d) + failed (%d) must cover total %d",
			len(result.Successful), len(result.Failed), result.Total)
	}
	if len(result.Failed) != 1 || result.Failed[0] != "task1_block2_v3" {
		t.Errorf("unexpected failed list: %v", result.Failed)
	}
	for _, v := range result.Successful {
		if v.VariantID == "task1_block2_v3" {
			t.Errorf("variant %s reported both successful and failed", v.VariantID)
		}
	}
}

func TestGenerateAllPublishFailureIsRecovered(t *testing.T) {
	publisher := &fakePublisher{failKeys: map[string]bool{"task1/task1_block1_v1.mp4": true}}
	g := newTestGenerator(&fakeFetcher{}, &fakeSpeech{}, publisher, &fakeEngine{})

	result, err := g.GenerateAll(context.Background(), "task1", minimalRequest(), nil)
	if err != nil {
		t.Fatalf("publish failure must not fail the task: %v", err)
	}
	if len(result.Failed) != 1 || result.Failed[0] != "task1_block1_v1" {
		t.Errorf("unexpected failed list: %v", result.Failed)
	}
}

func TestGenerateAllProgressIsMonotonic(t *testing.T) {
	req := map[string]any{
		"task_name": "test",
		"block1":    []any{"http://cdn/a.mp4"},
		"block2":    []any{"http://cdn/b.mp4"},
		"audio1":    []any{"http://cdn/bg1.mp3", "http://cdn/bg2.mp3"},
		"voice1": []any{
			map[string]any{"text": "one", "voice": "en-US-Wavenet-D"},
			map[string]any{"text": "two", "voice": "en-US-Wavenet-D"},
		},
	}

	var mu sync.Mutex
	var completedSeq []int
	var totals []int
	progress := func(completed, total int) {
		mu.Lock()
		completedSeq = append(completedSeq, completed)
		totals = append(totals, total)
		mu.Unlock()
	}

	g := newTestGenerator(&fakeFetcher{}, &fakeSpeech{}, &fakePublisher{}, &fakeEngine{})
	result, err := g.GenerateAll(context.Background(), "task1", req, progress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !sort.IntsAreSorted(completedSeq) {
		t.Errorf("completed counts must be non-decreasing: %v", completedSeq)
	}
	if completedSeq[len(completedSeq)-1] != result.Total {
		t.Errorf("final progress %d should equal total %d", completedSeq[len(completedSeq)-1], result.Total)
	}
	for _, total := range totals {
		if total != result.Total {
			t.Errorf("total must stay fixed at %d once reported, saw %d", result.Total, total)
		}
	}
}

func TestGenerateAllCleansUpWorkDirectory(t *testing.T) {
	var capturedDir string
	fetcher := &fakeFetcher{}
	g := newTestGenerator(fetcher, &fakeSpeech{}, &fakePublisher{}, &fakeEngine{})

	if _, err := g.GenerateAll(context.Background(), "task1", minimalRequest(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The fetcher saw the work directory through its destinations.
	fetcher.mu.Lock()
	if len(fetcher.fetched) == 0 {
		fetcher.mu.Unlock()
		t.Fatal("fetcher never called")
	}
	fetcher.mu.Unlock()

	entries, err := filepath.Glob(filepath.Join(os.TempDir(), "task_task1_*"))
	if err != nil {
		t.Fatalf("glob failed: %v", err)
	}
	capturedDir = strings.Join(entries, ",")
	if capturedDir != "" {
		t.Errorf("work directories left behind: %s", capturedDir)
	}
}
