package generator

import (
	"strings"
	"testing"

	"vidforge/types"
)

func TestParseBlockSpecOrdersFamilies(t *testing.T) {
	data := map[string]any{
		"task_name": "demo",
		"block2":    []any{"http://cdn/b2a.mp4"},
		"block1":    []any{"http://cdn/b1a.mp4", "http://cdn/b1b.mp4"},
		"audio1":    []any{"http://cdn/bg1.mp3", "http://cdn/bg2.mp3"},
		"voice1": []any{
			map[string]any{"text": "hello", "voice": "en-US-Wavenet-D"},
		},
		"voice2": []any{
			map[string]any{"text": "world", "voice": "en-GB-Wavenet-A"},
		},
	}

	blocks, audioURLs, voices, err := ParseBlockSpec(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0][0] != "http://cdn/b1a.mp4" || blocks[0][1] != "http://cdn/b1b.mp4" {
		t.Errorf("block1 urls out of order: %v", blocks[0])
	}
	if blocks[1][0] != "http://cdn/b2a.mp4" {
		t.Errorf("block2 urls wrong: %v", blocks[1])
	}

	if len(audioURLs) != 2 {
		t.Fatalf("expected 2 audio urls, got %d", len(audioURLs))
	}

	want := []types.VoiceLine{
		{Text: "hello", Voice: "en-US-Wavenet-D"},
		{Text: "world", Voice: "en-GB-Wavenet-A"},
	}
	if len(voices) != len(want) {
		t.Fatalf("expected %d voices, got %d", len(want), len(voices))
	}
	for i := range want {
		if voices[i] != want[i] {
			t.Errorf("voice %d: got %+v, want %+v", i, voices[i], want[i])
		}
	}
}

func TestParseBlockSpecRejectsIndexGap(t *testing.T) {
	data := map[string]any{
		"block1": []any{"http://cdn/a.mp4"},
		"block3": []any{"http://cdn/c.mp4"},
	}

	_, _, _, err := ParseBlockSpec(data)
	if err == nil {
		t.Fatal("expected error for missing block2")
	}
	if !strings.Contains(err.Error(), "block2") {
		t.Errorf("error should name the missing index, got: %v", err)
	}
}

func TestParseBlockSpecRejectsMalformedIndex(t *testing.T) {
	for _, key := range []string{"block0", "block01"} {
		data := map[string]any{
			key: []any{"http://cdn/a.mp4"},
		}
		_, _, _, err := ParseBlockSpec(data)
		if err == nil {
			t.Errorf("expected error for key %q", key)
		}
	}
}

func TestParseBlockSpecRejectsEmptyBlock(t *testing.T) {
	data := map[string]any{
		"block1": []any{},
	}

	_, _, _, err := ParseBlockSpec(data)
	if err == nil {
		t.Fatal("expected error for empty block")
	}
	if !strings.Contains(err.Error(), "block1") {
		t.Errorf("error should name the empty block, got: %v", err)
	}
}

func TestParseBlockSpecRejectsBadVoiceEntry(t *testing.T) {
	data := map[string]any{
		"voice1": []any{
			map[string]any{"text": "hello"},
		},
	}

	_, _, _, err := ParseBlockSpec(data)
	if err == nil {
		t.Fatal("expected error for voice entry without voice name")
	}
}

func TestParseBlockSpecIgnoresUnrelatedKeys(t *testing.T) {
	data := map[string]any{
		"task_name":  "demo",
		"blockchain": "not a block",
		"block1":     []any{"http://cdn/a.mp4"},
	}

	blocks, _, _, err := ParseBlockSpec(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
}
