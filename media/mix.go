package media

import (
	"fmt"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Mix combines one background track with one voice track into a single
// weighted audio file. Duration follows the longer of the two inputs.
func (e *Engine) Mix(background, voice, output string) error {
	bg := ffmpeg.Input(background).
		Filter("volume", ffmpeg.Args{fmt.Sprintf("%g", e.BackgroundGain)})
	vc := ffmpeg.Input(voice).
		Filter("volume", ffmpeg.Args{fmt.Sprintf("%g", e.VoiceGain)})

	err := ffmpeg.Filter([]*ffmpeg.Stream{bg, vc}, "amix", ffmpeg.Args{}, ffmpeg.KwArgs{
		"inputs":             2,
		"duration":           "longest",
		"dropout_transition": 2,
	}).
		Output(output).
		OverWriteOutput().Run()
	if err != nil {
		return fmt.Errorf("audio mix failed: %w", err)
	}
	return outputReady(output)
}
