package media

import (
	"fmt"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"vidforge/config"
)

// WriteSilence generates a short silent audio clip, used as the substitute
// input when voice synthesis fails.
func (e *Engine) WriteSilence(output string, d time.Duration) error {
	src := fmt.Sprintf("anullsrc=r=%d:cl=%s", config.SilenceSampleRate, config.AudioChannelLayout)
	err := ffmpeg.Input(src, ffmpeg.KwArgs{"f": "lavfi"}).
		Output(output, ffmpeg.KwArgs{"t": fmt.Sprintf("%.1f", d.Seconds())}).
		OverWriteOutput().Run()
	if err != nil {
		return fmt.Errorf("failed to generate silence: %w", err)
	}
	return outputReady(output)
}
