// Package generator drives the variant generation pipeline: it expands a
// request into the Cartesian product of concatenated video blocks and mixed
// audio tracks, renders every variant under a concurrency budget, and
// publishes the results.
package generator

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"vidforge/config"
	"vidforge/types"
)

// Fetcher downloads a remote resource to a local file.
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) error
}

// Speech synthesizes a voice line to a local audio file.
type Speech interface {
	Synthesize(ctx context.Context, text, voiceName, dest string) error
}

// Publisher moves a local file to durable storage and returns its public URL.
type Publisher interface {
	PublishFile(ctx context.Context, localPath, key, contentType string) (string, error)
}

// MediaEngine is the external media-processing capability.
type MediaEngine interface {
	Concatenate(inputs []string, output string) error
	Mix(background, voice, output string) error
	AttachAudio(video, audio, output string) error
	WriteSilence(output string, d time.Duration) error
}

// ProgressFunc receives render progress: completed units out of total.
type ProgressFunc func(completed, total int)

// Options tune the pipeline.
type Options struct {
	// MaxConcurrentRenders bounds concurrent render+publish units.
	MaxConcurrentRenders int
	// SilenceDuration is the length of the substitute clip on synthesis failure.
	SilenceDuration time.Duration
}

// Generator runs generation tasks.
type Generator struct {
	fetcher   Fetcher
	speech    Speech
	publisher Publisher
	media     MediaEngine
	opts      Options
}

func New(fetcher Fetcher, speech Speech, publisher Publisher, media MediaEngine, opts Options) *Generator {
	if opts.MaxConcurrentRenders <= 0 {
		opts.MaxConcurrentRenders = 3
	}
	if opts.SilenceDuration <= 0 {
		opts.SilenceDuration = time.Second
	}
	return &Generator{
		fetcher:   fetcher,
		speech:    speech,
		publisher: publisher,
		media:     media,
		opts:      opts,
	}
}

type baseVideo struct {
	name string // block identity: block1, block2, ...
	path string
}

// GenerateAll runs the whole pipeline for one task. It returns an error only
// for validation failures and fatal ingestion/assembly problems; per-variant
// render or publish failures are recorded in the result instead.
func (g *Generator) GenerateAll(ctx context.Context, taskID string, data map[string]any, progress ProgressFunc) (result types.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected failure: %v", r)
		}
	}()

	result.Successful = []types.VariantURL{}
	result.Failed = []string{}

	blocks, audioURLs, voices, err := ParseBlockSpec(data)
	if err != nil {
		return result, err
	}
	if len(blocks) == 0 {
		return result, ErrNoBlocks
	}
	if len(audioURLs) == 0 {
		return result, ErrNoAudio
	}
	if len(voices) == 0 {
		return result, ErrNoVoices
	}

	log.Printf("[%s] blocks: %d, audio: %d, voices: %d", taskID, len(blocks), len(audioURLs), len(voices))

	tempDir, err := os.MkdirTemp("", "task_"+taskID+"_")
	if err != nil {
		return result, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(tempDir); rmErr != nil {
			log.Printf("[%s] failed to clean up %s: %v", taskID, tempDir, rmErr)
		}
	}()

	log.Printf("[%s] step 1: concatenating video blocks", taskID)
	baseVideos, err := g.assembleBlocks(ctx, taskID, blocks, tempDir)
	if err != nil {
		return result, err
	}

	log.Printf("[%s] step 2: downloading audio and synthesizing voices", taskID)
	audioFiles, voiceFiles, err := g.prepareAudio(ctx, taskID, audioURLs, voices, tempDir)
	if err != nil {
		return result, err
	}

	log.Printf("[%s] step 3: creating audio mixes", taskID)
	mixes := g.buildMixMatrix(taskID, audioFiles, voiceFiles, tempDir)

	total := len(baseVideos) * len(mixes)
	result.Total = total
	log.Printf("[%s] step 4: rendering %d variants", taskID, total)

	if progress != nil {
		progress(0, total)
	}

	successful, failed := g.renderAll(ctx, taskID, baseVideos, mixes, tempDir, total, progress)
	result.Successful = successful
	result.Failed = failed

	log.Printf("[%s] completed: %d/%d published, %d failed", taskID, len(successful), total, len(failed))
	return result, nil
}

// assembleBlocks downloads and concatenates every block in parallel. Any
// fetch or concatenation failure is fatal to the task.
func (g *Generator) assembleBlocks(ctx context.Context, taskID string, blocks [][]string, tempDir string) ([]baseVideo, error) {
	out := make([]baseVideo, len(blocks))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, urls := range blocks {
		eg.Go(func() error {
			name := fmt.Sprintf("block%d", i+1)
			path, err := g.assembleBlock(egCtx, urls, name, tempDir)
			if err != nil {
				return err
			}
			out[i] = baseVideo{name: name, path: path}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Generator) assembleBlock(ctx context.Context, urls []string, blockName, tempDir string) (string, error) {
	downloaded := make([]string, 0, len(urls))
	for idx, url := range urls {
		dest := filepath.Join(tempDir, fmt.Sprintf("%s_video_%d.mp4", blockName, idx))
		if err := g.fetcher.Fetch(ctx, url, dest); err != nil {
			return "", fmt.Errorf("%s: %w", blockName, err)
		}
		downloaded = append(downloaded, dest)
	}

	output := filepath.Join(tempDir, blockName+"_concatenated.mp4")
	if err := g.media.Concatenate(downloaded, output); err != nil {
		return "", fmt.Errorf("%s: concatenation failed: %w", blockName, err)
	}

	for _, path := range downloaded {
		os.Remove(path)
	}
	return output, nil
}

// prepareAudio downloads background tracks and synthesizes voice lines
// concurrently. A download failure is fatal; a synthesis failure is absorbed
// by substituting a silent clip so the mix matrix keeps its input.
func (g *Generator) prepareAudio(ctx context.Context, taskID string, audioURLs []string, voices []types.VoiceLine, tempDir string) ([]string, []string, error) {
	audioFiles := make([]string, len(audioURLs))
	voiceFiles := make([]string, len(voices))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, url := range audioURLs {
		eg.Go(func() error {
			dest := filepath.Join(tempDir, fmt.Sprintf("audio_%d.mp3", i))
			if err := g.fetcher.Fetch(egCtx, url, dest); err != nil {
				return fmt.Errorf("audio%d: %w", i+1, err)
			}
			audioFiles[i] = dest
			return nil
		})
	}
	for i, line := range voices {
		eg.Go(func() error {
			dest := filepath.Join(tempDir, fmt.Sprintf("tts_%d.mp3", i))
			if err := g.speech.Synthesize(egCtx, line.Text, line.Voice, dest); err != nil {
				log.Printf("[%s] synthesis failed for voice %d, substituting silence: %v", taskID, i, err)
				if silErr := g.media.WriteSilence(dest, g.opts.SilenceDuration); silErr != nil {
					log.Printf("[%s] silent substitute for voice %d failed: %v", taskID, i, silErr)
				}
			}
			voiceFiles[i] = dest
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	return audioFiles, voiceFiles, nil
}

// buildMixMatrix mixes every background track with every voice file in
// parallel. A failed pairing is omitted; the remaining mixes define the
// variant total.
func (g *Generator) buildMixMatrix(taskID string, audioFiles, voiceFiles []string, tempDir string) []string {
	n := len(voiceFiles)
	paths := make([]string, len(audioFiles)*n)

	var wg sync.WaitGroup
	for ai, audio := range audioFiles {
		for vi, voice := range voiceFiles {
			wg.Add(1)
			go func() {
				defer wg.Done()
				idx := ai*n + vi
				output := filepath.Join(tempDir, fmt.Sprintf("mixed_%d.mp3", idx))
				if err := g.media.Mix(audio, voice, output); err != nil {
					log.Printf("[%s] mix %d (audio %d x voice %d) failed: %v", taskID, idx, ai, vi, err)
					return
				}
				paths[idx] = output
			}()
		}
	}
	wg.Wait()

	mixes := make([]string, 0, len(paths))
	for _, p := range paths {
		if p != "" {
			mixes = append(mixes, p)
		}
	}
	return mixes
}

// renderAll renders and publishes every (block x mix) combination. At most
// MaxConcurrentRenders units run at once; each finished unit bumps the
// completed counter exactly once.
func (g *Generator) renderAll(ctx context.Context, taskID string, baseVideos []baseVideo, mixes []string, tempDir string, total int, progress ProgressFunc) ([]types.VariantURL, []string) {
	successful := []types.VariantURL{}
	failed := []string{}

	sem := make(chan struct{}, g.opts.MaxConcurrentRenders)
	var mu sync.Mutex
	var wg sync.WaitGroup
	completed := 0

	sequence := 0
	for _, bv := range baseVideos {
		for _, mix := range mixes {
			sequence++
			wg.Add(1)
			go func(bv baseVideo, mix string, seq int) {
				defer wg.Done()

				sem <- struct{}{}
				defer func() { <-sem }()

				variantID := fmt.Sprintf("%s_%s_v%d", taskID, bv.name, seq)
				url, err := g.renderVariant(ctx, taskID, variantID, bv.path, mix, tempDir)

				mu.Lock()
				if err != nil {
					log.Printf("[%s] variant %s failed: %v", taskID, variantID, err)
					failed = append(failed, variantID)
				} else {
					successful = append(successful, types.VariantURL{VariantID: variantID, URL: url})
				}
				completed++
				if progress != nil {
					progress(completed, total)
				}
				mu.Unlock()
			}(bv, mix, sequence)
		}
	}
	wg.Wait()

	return successful, failed
}

// renderVariant attaches the mixed audio to the block video and publishes
// the artifact. The local file is removed after the publish attempt
// regardless of outcome.
func (g *Generator) renderVariant(ctx context.Context, taskID, variantID, videoPath, mixPath, tempDir string) (string, error) {
	output := filepath.Join(tempDir, variantID+".mp4")
	if err := g.media.AttachAudio(videoPath, mixPath, output); err != nil {
		return "", err
	}
	defer os.Remove(output)

	key := fmt.Sprintf("%s/%s.mp4", taskID, variantID)
	url, err := g.publisher.PublishFile(ctx, output, key, config.VariantContentType)
	if err != nil {
		return "", fmt.Errorf("publish failed: %w", err)
	}
	return url, nil
}
