package gateway

import (
	"time"

	"github.com/mikestefanello/backlite"
)

type TaskType uint8

const (
	// Fetch dereferences To and stores the actor or note found there.
	Fetch TaskType = iota
	// Deliver posts Payload to the inbox at To, signed by the local person From, or by the server when From is zero.
	Deliver
	// Discover resolves the userid in To through webfinger and stores the person.
	Discover
)

func (t TaskType) String() string {
	switch t {
	case Fetch:
		return "fetch"
	case Deliver:
		return "deliver"
	case Discover:
		return "discover"
	default:
		return "unknown"
	}
}

type Task struct {
	Type    TaskType
	To      string
	From    int64
	Payload []byte
	// Next is enqueued once the task succeeds.
	Next *Task
}

func (t Task) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "federation",
		MaxAttempts: 5,
		Backoff:     5 * time.Second,
		Timeout:     30 * time.Second,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data: &backlite.RetainData{
				OnlyFailed: true,
			},
		},
	}
}
