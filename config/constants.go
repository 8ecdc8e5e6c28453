package config

// Media processing constants shared by the concatenation, mixing and render
// steps. The video stream is copied whenever possible; these settings only
// apply when a re-encode is unavoidable.
const (
	VideoCodec   = "libx264"
	VideoPreset  = "medium"
	VideoCRF     = 23
	AudioCodec   = "aac"
	AudioBitrate = "192k"

	// Normalization targets for the re-encoding concatenation path.
	AudioSampleRate    = 48000
	AudioChannelLayout = "stereo"

	// Fallback geometry when the first input cannot be probed.
	DefaultWidth  = 1080
	DefaultHeight = 1920

	// Frame rates within this tolerance are considered equal when deciding
	// whether inputs can be concatenated without re-encoding.
	FrameRateTolerance = 0.01

	// Sample rate of the silent clip substituted for failed synthesis.
	SilenceSampleRate = 44100

	VariantContentType = "video/mp4"
)
