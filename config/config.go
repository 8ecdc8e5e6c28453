package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all environment-driven settings. Values come from the process
// environment (optionally seeded from a .env file by the caller) and fall
// back to the listed defaults.
type Config struct {
	// MaxConcurrentRenders bounds how many render+publish units run at once
	// within a single task.
	MaxConcurrentRenders int
	// FetchTimeout applies to each individual media download.
	FetchTimeout time.Duration

	// Gains applied when mixing background audio with a synthesized voice.
	BackgroundGain float64
	VoiceGain      float64

	// SilenceDuration is the length of the silent clip substituted when
	// voice synthesis fails.
	SilenceDuration time.Duration

	// Text-to-speech settings. CredentialsFile may be empty, in which case
	// the default Google credential chain applies.
	TTSCredentialsFile string
	TTSSpeakingRate    float64
	TTSPitch           float64

	// Object storage settings for publishing rendered variants.
	S3Bucket        string
	S3Region        string
	S3Prefix        string
	S3PublicBaseURL string
	S3UsePathStyle  bool
}

// Load reads configuration from the environment.
func Load() Config {
	return Config{
		MaxConcurrentRenders: getEnvInt("MAX_CONCURRENT_RENDERS", 3),
		FetchTimeout:         time.Duration(getEnvInt("DOWNLOAD_TIMEOUT_SECONDS", 300)) * time.Second,
		BackgroundGain:       getEnvFloat("BACKGROUND_AUDIO_VOLUME", 0.2),
		VoiceGain:            getEnvFloat("VOICE_AUDIO_VOLUME", 0.8),
		SilenceDuration:      time.Duration(getEnvInt("SILENCE_DURATION_SECONDS", 1)) * time.Second,
		TTSCredentialsFile:   os.Getenv("GOOGLE_TTS_CREDENTIALS"),
		TTSSpeakingRate:      getEnvFloat("TTS_SPEAKING_RATE", 1.0),
		TTSPitch:             getEnvFloat("TTS_PITCH", 0.0),
		S3Bucket:             os.Getenv("S3_BUCKET"),
		S3Region:             os.Getenv("S3_REGION"),
		S3Prefix:             GetEnvOrDefault("S3_OUTPUT_PREFIX", "videos"),
		S3PublicBaseURL:      os.Getenv("S3_PUBLIC_BASE_URL"),
		S3UsePathStyle:       getEnvBool("S3_USE_PATH_STYLE", false),
	}
}

// GetEnvOrDefault returns the value of an environment variable or a default value.
func GetEnvOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}
