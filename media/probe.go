package media

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"vidforge/config"
)

// ClipInfo holds the stream properties relevant to concatenation decisions.
type ClipInfo struct {
	Codec     string
	Width     int
	Height    int
	FrameRate float64
	Duration  float64
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
}

// Probe extracts the video stream properties of a local media file.
func (e *Engine) Probe(path string) (ClipInfo, error) {
	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return ClipInfo{}, fmt.Errorf("failed to probe %s: %w", path, err)
	}
	return parseProbe(raw)
}

func parseProbe(raw string) (ClipInfo, error) {
	var out probeOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return ClipInfo{}, fmt.Errorf("failed to decode probe output: %w", err)
	}

	info := ClipInfo{}
	if out.Format.Duration != "" {
		info.Duration, _ = strconv.ParseFloat(out.Format.Duration, 64)
	}
	for _, s := range out.Streams {
		if s.CodecType != "video" {
			continue
		}
		info.Codec = s.CodecName
		info.Width = s.Width
		info.Height = s.Height
		info.FrameRate = parseFrameRate(s.RFrameRate)
		return info, nil
	}
	return info, fmt.Errorf("no video stream found")
}

// parseFrameRate converts an ffprobe rational like "30000/1001" to a float.
func parseFrameRate(r string) float64 {
	if r == "" {
		return 0
	}
	num, den, found := strings.Cut(r, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

// Compatible reports whether all clips can be joined by stream copy: same
// codec, identical resolution, and frame rates equal within tolerance of the
// first clip.
func Compatible(clips []ClipInfo) bool {
	if len(clips) < 2 {
		return true
	}
	first := clips[0]
	for _, c := range clips[1:] {
		if c.Codec != first.Codec {
			return false
		}
		if c.Width != first.Width || c.Height != first.Height {
			return false
		}
		diff := c.FrameRate - first.FrameRate
		if diff < 0 {
			diff = -diff
		}
		if diff > config.FrameRateTolerance {
			return false
		}
	}
	return true
}

// ConcatPath is the tagged outcome of the concatenation decision procedure.
type ConcatPath int

const (
	// FastPath joins compatible inputs by stream copy, no re-encode.
	FastPath ConcatPath = iota
	// SafePath re-encodes every input with geometry normalization.
	SafePath
)

// ChooseConcatPath decides which concatenation strategy to attempt first.
func ChooseConcatPath(clips []ClipInfo) ConcatPath {
	if Compatible(clips) {
		return FastPath
	}
	return SafePath
}
