package approval

// Decision behaviors understood by the invoking CLI.
const (
	BehaviorAllow = "allow"
	BehaviorDeny  = "deny"
)

// HookInput is the PermissionRequest payload the CLI pipes to the hook.
type HookInput struct {
	ToolName       string         `json:"tool_name"`
	ToolInput      map[string]any `json:"tool_input"`
	TranscriptPath string         `json:"transcript_path"`
}

// Decision is the outcome of one approval request.
type Decision struct {
	Behavior string `json:"behavior"`
	Message  string `json:"message,omitempty"`
}

// HookOutput is the decision object emitted on stdout.
type HookOutput struct {
	HookSpecificOutput hookSpecificOutput `json:"hookSpecificOutput"`
}

type hookSpecificOutput struct {
	HookEventName string   `json:"hookEventName"`
	Decision      Decision `json:"decision"`
}

// NewHookOutput wraps a decision in the hook output envelope.
func NewHookOutput(decision Decision) HookOutput {
	return HookOutput{
		HookSpecificOutput: hookSpecificOutput{
			HookEventName: "PermissionRequest",
			Decision:      decision,
		},
	}
}
