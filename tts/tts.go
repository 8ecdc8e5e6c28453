// Package tts adapts the Google Cloud Text-to-Speech API. Voice names are
// resolved through a catalog loaded once per service lifetime; an unknown
// name falls back to an available voice instead of failing.
package tts

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	texttospeech "google.golang.org/api/texttospeech/v1"
)

// Service synthesizes speech and caches the provider voice catalog.
type Service struct {
	svc          *texttospeech.Service
	speakingRate float64
	pitch        float64

	mu     sync.Mutex
	voices []catalogVoice // nil until first load
}

// catalogVoice is one entry of the provider's voice catalog.
type catalogVoice struct {
	Name     string
	Language string
}

// NewService builds a TTS service. With a credentials file the service
// authenticates via a service account; otherwise the default Google
// credential chain applies.
func NewService(ctx context.Context, credentialsFile string, speakingRate, pitch float64) (*Service, error) {
	var svc *texttospeech.Service
	var err error

	if credentialsFile != "" {
		data, readErr := os.ReadFile(credentialsFile)
		if readErr != nil {
			return nil, fmt.Errorf("unable to read service account file: %w", readErr)
		}
		conf, confErr := google.JWTConfigFromJSON(data, texttospeech.CloudPlatformScope)
		if confErr != nil {
			return nil, fmt.Errorf("unable to parse service account: %w", confErr)
		}
		svc, err = texttospeech.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	} else {
		svc, err = texttospeech.NewService(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to create text-to-speech service: %w", err)
	}

	return &Service{svc: svc, speakingRate: speakingRate, pitch: pitch}, nil
}

// Synthesize converts text to speech with the named voice and writes the
// MP3 bytes to dest.
func (s *Service) Synthesize(ctx context.Context, text, voiceName, dest string) error {
	voice, err := s.resolveVoice(ctx, voiceName)
	if err != nil {
		return err
	}

	req := &texttospeech.SynthesizeSpeechRequest{
		Input: &texttospeech.SynthesisInput{Text: text},
		Voice: &texttospeech.VoiceSelectionParams{
			Name:         voice.Name,
			LanguageCode: voice.Language,
		},
		AudioConfig: &texttospeech.AudioConfig{
			AudioEncoding: "MP3",
			SpeakingRate:  s.speakingRate,
			Pitch:         s.pitch,
		},
	}

	resp, err := s.svc.Text.Synthesize(req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("synthesis failed: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return fmt.Errorf("failed to decode audio content: %w", err)
	}
	if err := os.WriteFile(dest, audio, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}

// resolveVoice maps a catalog name to a concrete voice, falling back to the
// first available voice on a miss.
func (s *Service) resolveVoice(ctx context.Context, name string) (catalogVoice, error) {
	voices, err := s.catalog(ctx)
	if err != nil {
		return catalogVoice{}, err
	}
	if len(voices) == 0 {
		return catalogVoice{}, fmt.Errorf("no voices available")
	}

	voice, exact := chooseVoice(name, voices)
	if !exact {
		log.Printf("voice %q not found, falling back to %q", name, voice.Name)
	}
	return voice, nil
}

// catalog loads the name-sorted voice list once and reuses it afterwards.
func (s *Service) catalog(ctx context.Context) ([]catalogVoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.voices != nil {
		return s.voices, nil
	}

	resp, err := s.svc.Voices.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list voices: %w", err)
	}

	voices := make([]catalogVoice, 0, len(resp.Voices))
	for _, v := range resp.Voices {
		lang := ""
		if len(v.LanguageCodes) > 0 {
			lang = v.LanguageCodes[0]
		} else {
			lang = languageFromName(v.Name)
		}
		voices = append(voices, catalogVoice{Name: v.Name, Language: lang})
	}
	sort.Slice(voices, func(i, j int) bool { return voices[i].Name < voices[j].Name })

	s.voices = voices
	log.Printf("loaded %d voices from catalog", len(voices))
	return s.voices, nil
}

// chooseVoice picks the exact match when present, otherwise the first voice
// in the catalog. The second result reports whether the match was exact.
func chooseVoice(name string, voices []catalogVoice) (catalogVoice, bool) {
	for _, v := range voices {
		if v.Name == name {
			return v, true
		}
	}
	return voices[0], false
}

// languageFromName extracts the language code prefix of names like
// "en-US-Wavenet-D".
func languageFromName(name string) string {
	parts := strings.SplitN(name, "-", 3)
	if len(parts) >= 2 {
		return parts[0] + "-" + parts[1]
	}
	return name
}
