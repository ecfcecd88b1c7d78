// Package transmit streams status snapshots to the display in bounded-size fragments.
package transmit

import (
	"fmt"

	"buildbeacon-agent/src/contracts"
	"buildbeacon-agent/src/sanitize"
)

// DefaultFragmentBytes is the largest write the display accepts at once.
const DefaultFragmentBytes = 256

// Terminator ends every transmission. The display parses the buffered fragments
// only once it arrives.
const Terminator = "\n"

// Chunk splits text into consecutive pieces of at most max bytes. The split is
// purely length-based, so text must be single-byte-safe (see Encode).
// Empty text yields no fragments; max <= 0 falls back to DefaultFragmentBytes.
func Chunk(text string, max int) []string {
	if max <= 0 {
		max = DefaultFragmentBytes
	}
	if len(text) == 0 {
		return nil
	}

	fragments := make([]string, 0, (len(text)+max-1)/max)
	for start := 0; start < len(text); start += max {
		end := start + max
		if end > len(text) {
			end = len(text)
		}
		fragments = append(fragments, text[start:end])
	}
	return fragments
}

// Encode renders a snapshot as compact JSON with every non-ASCII rune escaped.
func Encode(snapshot *contracts.StateSnapshot) (string, error) {
	data, err := sanitize.ASCIIJSON(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return string(data), nil
}
