package repository

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestExecuteDbOperation(t *testing.T) {
	t.Run("first success returns immediately", func(t *testing.T) {
		calls := 0
		result, err := ExecuteDbOperation(func() (interface{}, error) {
			calls++
			return "ok", nil
		}, 3)
		if err != nil || result != "ok" {
			t.Fatalf("got (%v, %v), want (ok, nil)", result, err)
		}
		if calls != 1 {
			t.Errorf("operation ran %d times, want once", calls)
		}
	})

	t.Run("non-retryable error stops after one attempt", func(t *testing.T) {
		calls := 0
		opErr := errors.New("duplicate key")
		_, err := ExecuteDbOperation(func() (interface{}, error) {
			calls++
			return nil, opErr
		}, 3)
		if err != opErr {
			t.Errorf("err = %v, want the operation error", err)
		}
		if calls != 1 {
			t.Errorf("operation ran %d times, want once", calls)
		}
	})

	t.Run("transient failure recovers on retry", func(t *testing.T) {
		calls := 0
		_, err := ExecuteDbOperation(func() (interface{}, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("connection refused")
			}
			return "ok", nil
		}, 2)
		if err != nil {
			t.Fatalf("err = %v after recovery", err)
		}
		if calls != 2 {
			t.Errorf("operation ran %d times, want two", calls)
		}
	})
}

func TestIsRetryableError(t *testing.T) {
	if !isRetryableError(mongo.CommandError{Code: 189}) {
		t.Error("PrimarySteppedDown should be retryable")
	}
	if isRetryableError(mongo.CommandError{Code: 11000}) {
		t.Error("duplicate key should not be retryable")
	}
	if !isRetryableError(errors.New("server selection error: context deadline exceeded")) {
		t.Error("network failure should be retryable")
	}
	if isRetryableError(errors.New("document validation failed")) {
		t.Error("validation failure should not be retryable")
	}
}
