package task

import "time"

// RefreshTask asks the pricer to rebuild the whole catalog for a league
type RefreshTask struct {
	League      string    `json:"league"`
	RequestedAt time.Time `json:"requested_at"`
}

func (t *RefreshTask) TaskType() string {
	return TypeRefresh
}

func (t *RefreshTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
