package task

import "time"

type ClearCacheTask struct {
	RequestedAt time.Time `json:"requested_at"`
}

func (t *ClearCacheTask) TaskType() string {
	return TypeClearCache
}

func (t *ClearCacheTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
