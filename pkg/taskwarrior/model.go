package taskwarrior

import (
	"fmt"
	"strings"
	"time"
)

const (
	PENDING   = "pending"
	COMPLETED = "completed"
	WAITING   = "waiting"
	DELETED   = "deleted"
)

type CustomTime struct {
	time.Time
}

const taskwarriorTimeLayout = "20060102T150405Z" // YYYYMMDDTHHMMSSZ, always UTC

// UnmarshalJSON implements the json.Unmarshaler interface for CustomTime.
func (ct *CustomTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "0" {
		ct.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(taskwarriorTimeLayout, s)
	if err != nil {
		return fmt.Errorf("failed to parse Taskwarrior time string '%s': %w", s, err)
	}
	ct.Time = t
	return nil
}

type Annotation struct {
	Description string      `json:"description"`
	Entry       *CustomTime `json:"entry"`
}

// Task is one record of `task export`.
type Task struct {
	UUID        string       `json:"uuid"`
	Description string       `json:"description"`
	Due         *CustomTime  `json:"due,omitempty"`
	Scheduled   *CustomTime  `json:"scheduled,omitempty"`
	Status      string       `json:"status"`
	Project     string       `json:"project,omitempty"`
	Priority    string       `json:"priority,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	// Estimate UDA, configured as uda.estimate.label=est (ISO 8601, e.g. PT1H).
	Est string `json:"est,omitempty"`
}
