package media

import (
	"fmt"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"vidforge/config"
)

// AttachAudio replaces the video's audio with the given track. The audio is
// looped if shorter than the video and the result stops at the shortest
// stream. The video stream is copied without re-encoding.
func (e *Engine) AttachAudio(video, audio, output string) error {
	v := ffmpeg.Input(video)
	a := ffmpeg.Input(audio, ffmpeg.KwArgs{"stream_loop": -1})

	err := ffmpeg.Output([]*ffmpeg.Stream{v.Get("v"), a.Get("a")}, output, ffmpeg.KwArgs{
		"c:v":      "copy",
		"c:a":      config.AudioCodec,
		"b:a":      config.AudioBitrate,
		"shortest": "",
	}).OverWriteOutput().Run()
	if err != nil {
		return fmt.Errorf("failed to attach audio: %w", err)
	}
	return outputReady(output)
}
