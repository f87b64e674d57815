// Package transcript extracts assistant turns from the CLI's append-only
// JSONL session log.
package transcript

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
)

// Transcript lines routinely exceed bufio's default token size.
const maxLineBytes = 4 * 1024 * 1024

type entry struct {
	Type    string `json:"type"`
	Message struct {
		Content json.RawMessage `json:"content"`
	} `json:"message"`
}

type segment struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// LatestAssistantText returns the text of the most recent assistant turn
// that carries any text segments, concatenated in order. A missing file
// or a transcript with no assistant text yields "". Malformed lines are
// skipped individually.
func LatestAssistantText(path string) string {
	if path == "" {
		return ""
	}
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	latest := ""

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var e entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		if e.Type != "assistant" || len(e.Message.Content) == 0 {
			continue
		}

		if text := extractText(e.Message.Content); text != "" {
			latest = text
		}
	}

	return latest
}

// extractText handles both content shapes: a bare string, or an ordered
// list of typed segments of which only "text" ones count.
func extractText(content json.RawMessage) string {
	var plain string
	if err := json.Unmarshal(content, &plain); err == nil {
		return plain
	}

	var segments []segment
	if err := json.Unmarshal(content, &segments); err != nil {
		return ""
	}

	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.Type == "text" && seg.Text != "" {
			parts = append(parts, seg.Text)
		}
	}
	return strings.Join(parts, "\n")
}
