package media

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"vidforge/config"
)

// Concatenate joins an ordered list of local video files into one output.
// A single input is copied verbatim. Compatible inputs are joined by stream
// copy; on incompatibility or a fast-path failure the inputs are re-encoded
// with geometry normalization.
func (e *Engine) Concatenate(inputs []string, output string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("no input files provided")
	}
	for _, in := range inputs {
		if _, err := os.Stat(in); err != nil {
			return fmt.Errorf("input not found: %s", in)
		}
	}

	if len(inputs) == 1 {
		if err := copyFile(inputs[0], output); err != nil {
			return fmt.Errorf("failed to copy single input: %w", err)
		}
		return outputReady(output)
	}

	clips := make([]ClipInfo, 0, len(inputs))
	probed := true
	for _, in := range inputs {
		info, err := e.probeClip(in)
		if err != nil {
			log.Printf("probe failed for %s, forcing re-encode: %v", in, err)
			probed = false
			break
		}
		clips = append(clips, info)
	}

	if probed && ChooseConcatPath(clips) == FastPath {
		if err := e.copyPath(inputs, output); err == nil {
			return nil
		} else {
			log.Printf("stream-copy concat failed, re-encoding: %v", err)
		}
	}

	width, height := config.DefaultWidth, config.DefaultHeight
	if len(clips) > 0 && clips[0].Width > 0 && clips[0].Height > 0 {
		width, height = clips[0].Width, clips[0].Height
	}
	return e.reencodePath(inputs, output, width, height)
}

// concatCopy is the fast path: the concat demuxer with stream copy.
func (e *Engine) concatCopy(inputs []string, output string) error {
	listPath := output + ".list.txt"
	if err := writeConcatList(inputs, listPath); err != nil {
		return err
	}
	defer os.Remove(listPath)

	err := ffmpeg.Input(listPath, ffmpeg.KwArgs{"f": "concat", "safe": "0"}).
		Output(output, ffmpeg.KwArgs{"c": "copy"}).
		OverWriteOutput().Run()
	if err != nil {
		return fmt.Errorf("concat demuxer failed: %w", err)
	}
	return outputReady(output)
}

// writeConcatList writes the ordered file-list directive consumed by the
// concat demuxer. Paths are absolute with single quotes escaped.
func writeConcatList(inputs []string, listPath string) error {
	var b strings.Builder
	for _, in := range inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			return err
		}
		escaped := strings.ReplaceAll(filepath.ToSlash(abs), "'", `'\''`)
		fmt.Fprintf(&b, "file '%s'\n", escaped)
	}
	return os.WriteFile(listPath, []byte(b.String()), 0o644)
}

// concatReencode is the safe path: every input is scaled to the target
// geometry preserving aspect ratio, padded and centered, its audio
// normalized, then all segments are concatenated into a fresh encode.
func (e *Engine) concatReencode(inputs []string, output string, width, height int) error {
	segments := make([]*ffmpeg.Stream, 0, 2*len(inputs))
	for _, in := range inputs {
		input := ffmpeg.Input(in)
		v := input.Get("v").
			Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d", width, height)},
				ffmpeg.KwArgs{"force_original_aspect_ratio": "decrease"}).
			Filter("pad", ffmpeg.Args{fmt.Sprintf("%d:%d:(ow-iw)/2:(oh-ih)/2", width, height)}).
			Filter("setsar", ffmpeg.Args{"1"})
		a := input.Get("a").
			Filter("aformat", ffmpeg.Args{}, ffmpeg.KwArgs{
				"sample_rates":    config.AudioSampleRate,
				"channel_layouts": config.AudioChannelLayout,
			})
		segments = append(segments, v, a)
	}

	err := ffmpeg.Concat(segments, ffmpeg.KwArgs{"v": 1, "a": 1}).
		Output(output, ffmpeg.KwArgs{
			"c:v":      config.VideoCodec,
			"preset":   config.VideoPreset,
			"crf":      config.VideoCRF,
			"c:a":      config.AudioCodec,
			"b:a":      config.AudioBitrate,
			"movflags": "+faststart",
		}).
		OverWriteOutput().Run()
	if err != nil {
		return fmt.Errorf("re-encoding concat failed: %w", err)
	}
	return outputReady(output)
}
