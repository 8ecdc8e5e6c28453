// Package media wraps the external media-processing tool behind declarative
// operations: probing, concatenation, audio mixing, audio attachment and
// silent-clip generation. Every operation treats "output file exists after a
// clean exit" as the success signal.
package media

import (
	"fmt"
	"io"
	"os"
)

// Engine executes media operations with the configured mix gains.
type Engine struct {
	// BackgroundGain attenuates the background track in a mix.
	BackgroundGain float64
	// VoiceGain attenuates the voice track in a mix.
	VoiceGain float64

	// Indirections over the external tool so the concatenation decision
	// logic can run without it.
	probeClip    func(path string) (ClipInfo, error)
	copyPath     func(inputs []string, output string) error
	reencodePath func(inputs []string, output string, width, height int) error
}

func NewEngine(backgroundGain, voiceGain float64) *Engine {
	e := &Engine{BackgroundGain: backgroundGain, VoiceGain: voiceGain}
	e.probeClip = e.Probe
	e.copyPath = e.concatCopy
	e.reencodePath = e.concatReencode
	return e
}

// outputReady reports whether the operation produced a usable output file.
func outputReady(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("output %s not created: %w", path, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("output %s is empty", path)
	}
	return nil
}

// copyFile duplicates src to dst byte for byte.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
