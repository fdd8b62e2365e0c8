package domain

import "time"

// Source tells the transport layer whether a payload came from the response
// cache or was computed for this request.
type Source string

const (
	SourceCached   Source = "cached"
	SourceComputed Source = "computed"
)

// QueryResult is a completed query: a fully serialized payload plus where it
// came from. ContentType is set for export downloads and defaults to JSON.
type QueryResult struct {
	Payload     []byte
	Source      Source
	ContentType string
}

// RateLimited reports a rejected request and the advisory delay after which
// the client may retry. The core never enforces the delay.
type RateLimited struct {
	RetryAfter time.Duration
}

func (r RateLimited) Error() string {
	return "rate limit exceeded"
}
