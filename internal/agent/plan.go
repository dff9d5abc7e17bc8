package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoPlan reports that a reasoning response carried no extractable plan.
// The orchestrator answers it with the direct-execution fallback.
var ErrNoPlan = errors.New("no structured plan found in response")

// Step is one planned invocation of a named tool.
type Step struct {
	Action string            `json:"action"`
	Params map[string]string `json:"params"`
	Reason string            `json:"reason"`
}

// Plan is the structured multi-step intent produced by the model for one
// task. Thinking and FinalAnswer are advisory and may be absent; a plan
// without steps is valid and simply executes nothing.
type Plan struct {
	Thinking    string `json:"thinking"`
	Steps       []Step `json:"steps"`
	FinalAnswer string `json:"final_answer"`
}

// ParsePlan extracts a plan object from raw model output. Models tend to
// wrap the JSON in prose, so this takes the substring between the first '{'
// and the last '}' and decodes that. Malformed interior JSON is a parse
// failure, never a partial plan.
func ParsePlan(raw string) (*Plan, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, ErrNoPlan
	}

	var plan Plan
	if err := json.Unmarshal([]byte(raw[start:end+1]), &plan); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoPlan, err)
	}
	return &plan, nil
}
