package audit

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Priority ranks an observation.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority is assigned to new form sessions.
const DefaultPriority = PriorityLow

// Priorities lists the allowed values in ascending order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of the enumerated priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// String returns the wire form of p.
func (p Priority) String() string {
	return string(p)
}

// ParsePriority converts user input to a Priority.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q: must be one of %v", s, Priorities)
	}
	return p, nil
}

// UnmarshalJSON rejects values outside the enumeration.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("priority: %w", err)
	}
	// An empty priority never leaves a session, but older payloads may omit it.
	if s == "" {
		*p = DefaultPriority
		return nil
	}
	parsed, err := ParsePriority(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
