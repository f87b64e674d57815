// Package bridgestate is the shared durable state store that the bridge
// and the hook processes rendezvous through. Each file has one logical
// writer at a time; a missing file always means "has not happened yet",
// never an error.
package bridgestate

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	runningFile  = "bridge_running.txt"
	lastSentFile = "last_sent_text.txt"
	thinkingFile = "thinking_msg_id.txt"
	planModeFile = "plan_mode_state.txt"
	callbacksDir = "callbacks"

	stateFileMode = 0644
	stateDirMode  = 0755

	// responseKeyLen is the dedup fingerprint length. Prefix-based on
	// purpose: two long responses sharing the first 200 characters are
	// treated as the same response.
	responseKeyLen = 200
)

// Store persists cross-process signals under a single data directory.
type Store struct {
	dir string
}

// New creates a store rooted at dir. The directory is created lazily on
// first write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the root of the data directory.
func (s *Store) Dir() string { return s.dir }

// ResponseKey computes the dedup fingerprint for an assistant response.
func ResponseKey(text string) string {
	runes := []rune(text)
	if len(runes) > responseKeyLen {
		runes = runes[:responseKeyLen]
	}
	return strings.TrimSpace(string(runes))
}

// MarkRunning creates the bridge liveness marker.
func (s *Store) MarkRunning() error {
	return s.write(runningFile, "1")
}

// ClearRunning removes the liveness marker. Best effort: an already
// missing marker is fine.
func (s *Store) ClearRunning() {
	_ = os.Remove(filepath.Join(s.dir, runningFile))
}

// Running reports whether the bridge liveness marker is present.
func (s *Store) Running() bool {
	_, err := os.Stat(filepath.Join(s.dir, runningFile))
	return err == nil
}

// LastSentKey returns the fingerprint of the most recently published
// assistant response, or "" when nothing was published yet.
func (s *Store) LastSentKey() string {
	return strings.TrimSpace(s.read(lastSentFile))
}

// SetLastSentKey records the fingerprint of a just-published response.
func (s *Store) SetLastSentKey(key string) error {
	return s.write(lastSentFile, key)
}

// SetThinking records the chat message id of the pending thinking notice.
func (s *Store) SetThinking(messageID int) error {
	return s.write(thinkingFile, strconv.Itoa(messageID))
}

// TakeThinking consumes the pending thinking notice, returning its
// message id. The second return is false when no notice is pending.
func (s *Store) TakeThinking() (int, bool) {
	path := filepath.Join(s.dir, thinkingFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	_ = os.Remove(path)
	id, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// PlanMode returns the persisted plan-mode flag, defaulting to false.
func (s *Store) PlanMode() bool {
	return strings.TrimSpace(s.read(planModeFile)) == "1"
}

// SetPlanMode persists the plan-mode flag.
func (s *Store) SetPlanMode(on bool) error {
	value := "0"
	if on {
		value = "1"
	}
	return s.write(planModeFile, value)
}

// WriteDecision records the user's decision for a request. A duplicate
// button press before consumption overwrites the previous value. The
// write goes through a temp file + rename so a concurrent poller never
// observes a torn value.
func (s *Store) WriteDecision(requestID, decision string) error {
	dir := filepath.Join(s.dir, callbacksDir)
	if err := os.MkdirAll(dir, stateDirMode); err != nil {
		return fmt.Errorf("create callbacks dir: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "decision-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp decision file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.WriteString(decision); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write decision: %w", err)
	}
	if err := tmpFile.Chmod(stateFileMode); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("chmod decision: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close decision: %w", err)
	}

	return os.Rename(tmpPath, s.decisionPath(requestID))
}

// TakeDecision consumes the decision for a request: the first reader to
// observe the record deletes it, so a second poll reports absent.
func (s *Store) TakeDecision(requestID string) (string, bool) {
	path := s.decisionPath(requestID)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	_ = os.Remove(path)
	return strings.TrimSpace(string(data)), true
}

// PendingDecisions counts outstanding decision records.
func (s *Store) PendingDecisions() int {
	entries, err := os.ReadDir(filepath.Join(s.dir, callbacksDir))
	if err != nil {
		return 0
	}
	count := 0
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".response") {
			count++
		}
	}
	return count
}

func (s *Store) decisionPath(requestID string) string {
	return filepath.Join(s.dir, callbacksDir, requestID+".response")
}

func (s *Store) read(name string) string {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return ""
	}
	return string(data)
}

func (s *Store) write(name, value string) error {
	if err := os.MkdirAll(s.dir, stateDirMode); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return os.WriteFile(filepath.Join(s.dir, name), []byte(value), stateFileMode)
}
