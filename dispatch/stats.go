package dispatch

import "time"

// Stats summarises pool behaviour for instrumentation.
type Stats struct {
	Workers   int
	Submitted uint64
	Completed uint64
	Failed    uint64
	Discarded uint64
	InFlight  int64
	AvgTask   time.Duration
}
