package models

// ToolResult is the uniform envelope every tool returns. Tools report
// failure through it instead of a Go error so the pipeline downstream can
// always render something for the user.
type ToolResult struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func SuccessResult(data map[string]any) ToolResult {
	return ToolResult{Success: true, Data: data}
}

func FailureResult(msg string) ToolResult {
	return ToolResult{Success: false, Error: msg}
}
