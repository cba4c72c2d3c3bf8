package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chino-io/chino-go/internal/output"
)

func fastPolicy(attempts uint64) Policy {
	return Policy{
		MaxAttempts:     attempts,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		Multiplier:      1.5,
	}
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	calls := 0
	declared := output.ErrAPI(409, "already exists")
	err := fastPolicy(4).Do(context.Background(), func(context.Context) error {
		calls++
		return declared
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	var typed *output.Error
	if !errors.As(err, &typed) || typed.Code != output.CodeAPI {
		t.Errorf("err = %v, want the declared error unchanged", err)
	}
}

func TestDoRetriesTransientFaultUntilSuccess(t *testing.T) {
	calls := 0
	err := fastPolicy(4).Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return output.ErrTransport(errors.New("connection reset"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	err := fastPolicy(3).Do(context.Background(), func(context.Context) error {
		calls++
		return output.ErrTransport(errors.New("timeout"))
	})
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if !Retryable(err) {
		t.Errorf("err = %v, want the transport fault", err)
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := fastPolicy(10).Do(ctx, func(context.Context) error {
		calls++
		cancel()
		return output.ErrTransport(errors.New("timeout"))
	})
	if err == nil {
		t.Fatal("Do succeeded after cancellation")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) {
		t.Error("nil is not retryable")
	}
	if Retryable(errors.New("plain")) {
		t.Error("untyped errors are not retryable")
	}
	if Retryable(output.ErrPrecondition("no file")) {
		t.Error("precondition failures are not retryable")
	}
	if !Retryable(output.ErrTransport(errors.New("reset"))) {
		t.Error("transport faults are retryable")
	}
}
