package resilience

import (
	"context"
	"time"
)

// TimeoutConfig defines timeout values for the gateway's timeout hierarchy
//
// Timeout Hierarchy (from outermost to innermost):
//
//	HTTP Handler (100s)
//	  ↓
//	Transaction Attempt (95s, up to three sequential remote calls)
//	  ↓
//	Remote Call (30s - Sage Pay API)
//
// Audit writes run detached from the attempt with their own bound, so a
// timed out attempt is still recorded.
type TimeoutConfig struct {
	HTTPHandler time.Duration // Overall inbound request timeout (default: 100s)
	Attempt     time.Duration // One charge or refund attempt (default: 95s)
	RemoteCall  time.Duration // Single POST to the gateway (default: 30s)
	AuditWrite  time.Duration // One audit sink write (default: 5s)
}

// DefaultTimeoutConfig returns production timeout values
func DefaultTimeoutConfig() *TimeoutConfig {
	return &TimeoutConfig{
		HTTPHandler: 100 * time.Second,
		Attempt:     95 * time.Second,
		RemoteCall:  30 * time.Second,
		AuditWrite:  5 * time.Second,
	}
}

// TestTimeoutConfig returns shorter timeouts for testing
func TestTimeoutConfig() *TimeoutConfig {
	return &TimeoutConfig{
		HTTPHandler: 5 * time.Second,
		Attempt:     4 * time.Second,
		RemoteCall:  1 * time.Second,
		AuditWrite:  1 * time.Second,
	}
}

// WithRemoteCall returns a copy of the config using the given per-call timeout.
// The attempt and handler bounds grow to keep three calls inside them.
func (tc *TimeoutConfig) WithRemoteCall(d time.Duration) *TimeoutConfig {
	out := *tc
	out.RemoteCall = d
	if floor := 3*d + 5*time.Second; out.Attempt < floor {
		out.Attempt = floor
	}
	if out.HTTPHandler <= out.Attempt {
		out.HTTPHandler = out.Attempt + 5*time.Second
	}
	return &out
}

// HandlerContext creates a context with timeout for HTTP handlers
func (tc *TimeoutConfig) HandlerContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, tc.HTTPHandler)
}

// AttemptContext creates a context bounding a whole charge or refund attempt
func (tc *TimeoutConfig) AttemptContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, tc.Attempt)
}

// RemoteCallContext creates a context for one gateway call
func (tc *TimeoutConfig) RemoteCallContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, tc.RemoteCall)
}

// AuditContext creates a context for an audit write that outlives a cancelled parent
func (tc *TimeoutConfig) AuditContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(parent), tc.AuditWrite)
}
