package approval

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatToolDetails_Bash(t *testing.T) {
	out := FormatToolDetails("Bash", map[string]any{"command": "rm -rf <dir> && echo done"})
	if !strings.Contains(out, "<b>Command:</b>") {
		t.Fatalf("expected command header, got: %s", out)
	}
	if !strings.Contains(out, "rm -rf &lt;dir&gt; &amp;&amp; echo done") {
		t.Fatalf("expected escaped command, got: %s", out)
	}
}

func TestFormatToolDetails_BashTruncatesLongCommand(t *testing.T) {
	out := FormatToolDetails("Bash", map[string]any{"command": strings.Repeat("x", 5000)})
	if !strings.Contains(out, "... (truncated)") {
		t.Fatalf("expected truncation marker, got tail: %s", out[len(out)-40:])
	}
}

func TestFormatToolDetails_Write(t *testing.T) {
	out := FormatToolDetails("Write", map[string]any{
		"file_path": "/tmp/a.txt",
		"content":   "hello",
	})
	if !strings.Contains(out, "<code>/tmp/a.txt</code>") {
		t.Fatalf("expected file path, got: %s", out)
	}
	if !strings.Contains(out, "<b>Content:</b>") || !strings.Contains(out, "<code>hello</code>") {
		t.Fatalf("expected content block, got: %s", out)
	}
}

func TestFormatToolDetails_Read(t *testing.T) {
	out := FormatToolDetails("Read", map[string]any{"file_path": "/etc/hosts"})
	if out != "<b>File:</b>\n<code>/etc/hosts</code>" {
		t.Fatalf("unexpected read details: %s", out)
	}
}

func TestFormatToolDetails_GlobDefaultsPath(t *testing.T) {
	out := FormatToolDetails("Glob", map[string]any{"pattern": "**/*.go"})
	if !strings.Contains(out, "<code>current directory</code>") {
		t.Fatalf("expected default path, got: %s", out)
	}
}

func TestFormatToolDetails_GenericSortsKeys(t *testing.T) {
	out := FormatToolDetails("MysteryTool", map[string]any{
		"zeta":  "last",
		"alpha": "first",
		"count": 3,
	})

	alphaIdx := strings.Index(out, "<b>alpha:</b>")
	countIdx := strings.Index(out, "<b>count:</b>")
	zetaIdx := strings.Index(out, "<b>zeta:</b>")
	if alphaIdx == -1 || countIdx == -1 || zetaIdx == -1 {
		t.Fatalf("expected all keys rendered, got: %s", out)
	}
	if !(alphaIdx < countIdx && countIdx < zetaIdx) {
		t.Fatalf("expected sorted keys, got: %s", out)
	}
	if !strings.Contains(out, "3") {
		t.Fatalf("expected non-string value rendered, got: %s", out)
	}
}

func TestFormatToolDetails_GenericCleansEscapeSequences(t *testing.T) {
	out := FormatToolDetails("MysteryTool", map[string]any{"body": `line1\nline2`})
	if !strings.Contains(out, "line1\nline2") {
		t.Fatalf("expected literal escape converted to newline, got: %s", out)
	}
}

func TestRenderEditDiff_FallbackWithoutFile(t *testing.T) {
	out := renderEditDiff(filepath.Join(t.TempDir(), "absent.go"), "old line", "new line")
	if !strings.Contains(out, "🔴 old line") {
		t.Fatalf("expected removed line, got: %s", out)
	}
	if !strings.Contains(out, "🟢 new line") {
		t.Fatalf("expected added line, got: %s", out)
	}
}

func TestRenderEditDiff_IncludesFileContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	content := "ctx1\nctx2\nctx3\ntarget\nafter1\nafter2\nafter3\nafter4\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	out := renderEditDiff(path, "target", "replacement")
	if !strings.Contains(out, "   ctx3") {
		t.Fatalf("expected leading context, got: %s", out)
	}
	if !strings.Contains(out, "🔴 target") || !strings.Contains(out, "🟢 replacement") {
		t.Fatalf("expected diff markers, got: %s", out)
	}
	if !strings.Contains(out, "   after1") {
		t.Fatalf("expected trailing context, got: %s", out)
	}
	if strings.Contains(out, "after4") {
		t.Fatalf("expected context capped at 3 lines, got: %s", out)
	}
}

func TestFormatToolDetails_EditUsesDiff(t *testing.T) {
	out := FormatToolDetails("Edit", map[string]any{
		"file_path":  "/nope/missing.go",
		"old_string": "a < b",
		"new_string": "a > b",
	})
	if !strings.Contains(out, "<pre>") {
		t.Fatalf("expected preformatted diff, got: %s", out)
	}
	if !strings.Contains(out, "a &lt; b") || !strings.Contains(out, "a &gt; b") {
		t.Fatalf("expected escaped diff lines, got: %s", out)
	}
}

func TestKindOf_DefaultsToOther(t *testing.T) {
	if kindOf("SomethingNew") != kindOther {
		t.Fatal("expected unknown tool to map to generic kind")
	}
	if kindOf("Bash") != kindBash {
		t.Fatal("expected Bash to map to its own kind")
	}
}
