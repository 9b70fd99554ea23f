package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestCommonErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"ErrAlreadyPrepared", ErrAlreadyPrepared, "pool is already prepared"},
		{"ErrClosed", ErrClosed, "resource is closed"},
		{"ErrInvalidConfiguration", ErrInvalidConfiguration, "invalid configuration"},
		{"ErrNilJob", ErrNilJob, "job cannot be nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Fatal("error should not be nil")
			}
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsContractError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"already prepared", ErrAlreadyPrepared, true},
		{"nil job", ErrNilJob, true},
		{"invalid configuration", ErrInvalidConfiguration, true},
		{"wrapped contract error", fmt.Errorf("prepare: %w", ErrAlreadyPrepared), true},
		{"closed", ErrClosed, false},
		{"unrelated", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsContractError(tt.err); got != tt.want {
				t.Errorf("IsContractError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsTemporary(t *testing.T) {
	if !IsTemporary(ErrClosed) {
		t.Error("ErrClosed should be temporary")
	}
	if !IsTemporary(fmt.Errorf("push: %w", ErrClosed)) {
		t.Error("wrapped ErrClosed should be temporary")
	}
	if IsTemporary(ErrNilJob) {
		t.Error("ErrNilJob should not be temporary")
	}
}
