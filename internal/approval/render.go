package approval

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

const (
	// maxDetailLen bounds rendered detail text so the prompt stays under
	// the transport's message-size limit with headroom for the header.
	maxDetailLen = 3500
	maxDiffLen   = 3000
	contextLines = 3
)

// toolKind is the closed set of tools with dedicated renderers. Anything
// else falls through to the generic key/value renderer.
type toolKind int

const (
	kindBash toolKind = iota
	kindWrite
	kindEdit
	kindRead
	kindWebFetch
	kindGlob
	kindGrep
	kindOther
)

func kindOf(toolName string) toolKind {
	switch toolName {
	case "Bash":
		return kindBash
	case "Write":
		return kindWrite
	case "Edit":
		return kindEdit
	case "Read":
		return kindRead
	case "WebFetch":
		return kindWebFetch
	case "Glob":
		return kindGlob
	case "Grep":
		return kindGrep
	default:
		return kindOther
	}
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// escapeSeqCleaner turns literal escape sequences embedded in argument
// strings into real line breaks for readable display.
var escapeSeqCleaner = strings.NewReplacer(`\r\n`, "\n", `\n`, "\n", `\r`, "\n", `\t`, "  ")

// FormatToolDetails renders a human-readable HTML description of one tool
// invocation. Every tool kind produces some detail text.
func FormatToolDetails(toolName string, toolInput map[string]any) string {
	switch kindOf(toolName) {
	case kindBash:
		command := capText(escapeHTML(strArg(toolInput, "command")), maxDetailLen)
		return fmt.Sprintf("<b>Command:</b>\n<code>%s</code>", command)

	case kindWrite:
		filePath := escapeHTML(strArg(toolInput, "file_path"))
		content := capText(escapeHTML(strArg(toolInput, "content")), maxDetailLen)
		return fmt.Sprintf("<b>File:</b>\n<code>%s</code>\n\n<b>Content:</b>\n<code>%s</code>", filePath, content)

	case kindEdit:
		filePath := strArg(toolInput, "file_path")
		diff := renderEditDiff(filePath, strArg(toolInput, "old_string"), strArg(toolInput, "new_string"))
		return fmt.Sprintf("<b>File:</b>\n<code>%s</code>\n\n<b>Changes:</b>\n<pre>%s</pre>", escapeHTML(filePath), diff)

	case kindRead:
		return fmt.Sprintf("<b>File:</b>\n<code>%s</code>", escapeHTML(strArg(toolInput, "file_path")))

	case kindWebFetch:
		url := escapeHTML(strArg(toolInput, "url"))
		prompt := escapeHTML(strArg(toolInput, "prompt"))
		return fmt.Sprintf("<b>URL:</b>\n<code>%s</code>\n\n<b>Prompt:</b>\n%s", url, prompt)

	case kindGlob:
		pattern := escapeHTML(strArg(toolInput, "pattern"))
		return fmt.Sprintf("<b>Pattern:</b>\n<code>%s</code>\n\n<b>Path:</b>\n<code>%s</code>", pattern, pathOrCwd(toolInput))

	case kindGrep:
		pattern := escapeHTML(strArg(toolInput, "pattern"))
		return fmt.Sprintf("<b>Search:</b>\n<code>%s</code>\n\n<b>Path:</b>\n<code>%s</code>", pattern, pathOrCwd(toolInput))

	default:
		return renderGeneric(toolInput)
	}
}

// renderGeneric lists every argument, sorted by key for stable output.
func renderGeneric(toolInput map[string]any) string {
	keys := make([]string, 0, len(toolInput))
	for key := range toolInput {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		var rendered string
		if str, ok := toolInput[key].(string); ok {
			rendered = escapeHTML(escapeSeqCleaner.Replace(str))
		} else {
			rendered = escapeHTML(fmt.Sprintf("%v", toolInput[key]))
		}
		lines = append(lines, fmt.Sprintf("<b>%s:</b>\n%s", escapeHTML(key), rendered))
	}
	return capText(strings.Join(lines, "\n\n"), maxDetailLen)
}

// renderEditDiff shows the replaced lines with a few lines of surrounding
// file context when the target file is readable and contains old exactly
// once at some position; otherwise it degrades to a bare old/new listing.
func renderEditDiff(filePath, oldText, newText string) string {
	var lines []string

	if data, err := os.ReadFile(filePath); err == nil && oldText != "" {
		content := string(data)
		if pos := strings.Index(content, oldText); pos != -1 {
			before := content[:pos]
			after := content[pos+len(oldText):]

			for _, line := range tailLines(before, contextLines) {
				lines = append(lines, "   "+escapeHTML(line))
			}
			lines = append(lines, markLines(oldText, "🔴 ")...)
			lines = append(lines, markLines(newText, "🟢 ")...)
			for _, line := range headLines(after, contextLines) {
				lines = append(lines, "   "+escapeHTML(line))
			}
		}
	}

	if lines == nil {
		lines = append(markLines(oldText, "🔴 "), markLines(newText, "🟢 ")...)
	}

	return capText(strings.Join(lines, "\n"), maxDiffLen)
}

func markLines(block, marker string) []string {
	if block == "" {
		return nil
	}
	split := strings.Split(strings.TrimSuffix(block, "\n"), "\n")
	marked := make([]string, 0, len(split))
	for _, line := range split {
		marked = append(marked, marker+escapeHTML(line))
	}
	return marked
}

func tailLines(block string, n int) []string {
	if block == "" {
		return nil
	}
	split := strings.Split(strings.TrimSuffix(block, "\n"), "\n")
	if len(split) > n {
		split = split[len(split)-n:]
	}
	return split
}

func headLines(block string, n int) []string {
	if block == "" {
		return nil
	}
	split := strings.Split(strings.TrimPrefix(block, "\n"), "\n")
	if len(split) > n {
		split = split[:n]
	}
	return split
}

func pathOrCwd(toolInput map[string]any) string {
	path := strArg(toolInput, "path")
	if path == "" {
		path = "current directory"
	}
	return escapeHTML(path)
}

func strArg(toolInput map[string]any, key string) string {
	if value, ok := toolInput[key].(string); ok {
		return value
	}
	return ""
}

func escapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

// capText truncates to limit runes with a visible marker.
func capText(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "\n\n... (truncated)"
}
