package generator

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"vidforge/types"
)

// ErrValidation marks request errors no retry can fix. Every parse failure
// wraps it so intake layers can tell rejected requests from transient ones.
var ErrValidation = errors.New("invalid generation request")

// Validation errors for the three input families.
var (
	ErrNoBlocks = fmt.Errorf("%w: no video blocks found", ErrValidation)
	ErrNoAudio  = fmt.Errorf("%w: no audio URLs found", ErrValidation)
	ErrNoVoices = fmt.Errorf("%w: no voice configs found", ErrValidation)
)

// specKeyPattern matches the indexed request keys: block1, audio2, voice3...
// Indices start at 1 with no leading zeros.
var specKeyPattern = regexp.MustCompile(`^(block|audio|voice)([1-9][0-9]*)$`)

// looseKeyPattern catches family-looking keys with malformed indices so they
// are rejected instead of silently ignored.
var looseKeyPattern = regexp.MustCompile(`^(block|audio|voice)[0-9]+$`)

// ParseBlockSpec converts the raw request mapping into three ordered lists:
// video blocks (each an ordered list of source URLs), background audio URLs,
// and voice lines. Indices within a family must be contiguous starting at 1;
// gaps and malformed entries are explicit errors.
func ParseBlockSpec(data map[string]any) (blocks [][]string, audioURLs []string, voices []types.VoiceLine, err error) {
	family := map[string]map[int]any{
		"block": {},
		"audio": {},
		"voice": {},
	}

	for key, value := range data {
		m := specKeyPattern.FindStringSubmatch(key)
		if m == nil {
			if looseKeyPattern.MatchString(key) {
				return nil, nil, nil, fmt.Errorf("%w: malformed key %q: indices start at 1 with no leading zeros", ErrValidation, key)
			}
			continue
		}
		idx, _ := strconv.Atoi(m[2])
		family[m[1]][idx] = value
	}

	for name, entries := range family {
		if err := checkContiguous(name, entries); err != nil {
			return nil, nil, nil, err
		}
	}

	for i := 1; i <= len(family["block"]); i++ {
		key := fmt.Sprintf("block%d", i)
		urls, convErr := toStringList(key, family["block"][i])
		if convErr != nil {
			return nil, nil, nil, convErr
		}
		if len(urls) == 0 {
			return nil, nil, nil, fmt.Errorf("%w: %s is empty", ErrValidation, key)
		}
		blocks = append(blocks, urls)
	}

	for i := 1; i <= len(family["audio"]); i++ {
		key := fmt.Sprintf("audio%d", i)
		urls, convErr := toStringList(key, family["audio"][i])
		if convErr != nil {
			return nil, nil, nil, convErr
		}
		audioURLs = append(audioURLs, urls...)
	}

	for i := 1; i <= len(family["voice"]); i++ {
		key := fmt.Sprintf("voice%d", i)
		lines, convErr := toVoiceList(key, family["voice"][i])
		if convErr != nil {
			return nil, nil, nil, convErr
		}
		voices = append(voices, lines...)
	}

	return blocks, audioURLs, voices, nil
}

// checkContiguous verifies that the present indices form 1..N.
func checkContiguous(name string, entries map[int]any) error {
	if len(entries) == 0 {
		return nil
	}
	indices := make([]int, 0, len(entries))
	for i := range entries {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	for pos, idx := range indices {
		if idx != pos+1 {
			return fmt.Errorf("%w: non-contiguous %s indices: missing %s%d", ErrValidation, name, name, pos+1)
		}
	}
	return nil
}

func toStringList(key string, value any) ([]string, error) {
	list, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a list of URLs", ErrValidation, key)
	}
	out := make([]string, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] must be a URL string", ErrValidation, key, i)
		}
		out = append(out, s)
	}
	return out, nil
}

func toVoiceList(key string, value any) ([]types.VoiceLine, error) {
	list, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a list of voice configs", ErrValidation, key)
	}
	out := make([]types.VoiceLine, 0, len(list))
	for i, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] must be an object with text and voice", ErrValidation, key, i)
		}
		text, ok := entry["text"].(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] is missing text", ErrValidation, key, i)
		}
		voice, ok := entry["voice"].(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] is missing voice", ErrValidation, key, i)
		}
		out = append(out, types.VoiceLine{Text: text, Voice: voice})
	}
	return out, nil
}
