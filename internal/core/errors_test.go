package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestConnectionError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp 127.0.0.1:5432: connection refused")
	err := fmt.Errorf("connecting: %w", &ConnectionError{Err: cause})

	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatal("errors.As failed to find *ConnectionError through wrapping")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is failed to find the root cause")
	}
}

func TestSchemaError_Message(t *testing.T) {
	err := &SchemaError{Object: "table user_data", Err: errors.New("permission denied")}

	if !strings.Contains(err.Error(), "table user_data") {
		t.Errorf("Error() = %q, want it to name the object", err.Error())
	}
	if !errors.Is(err, err.Err) {
		t.Error("SchemaError should unwrap to its cause")
	}
}

func TestValidationError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "with field",
			err:  &ValidationError{Field: "age", Value: "abc", Message: "not a number"},
			want: "age: not a number",
		},
		{
			name: "without field",
			err:  &ValidationError{Message: "row is empty"},
			want: "row is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDuplicateError_Message(t *testing.T) {
	id := uuid.New()
	err := &DuplicateError{UserID: id}
	if !strings.Contains(err.Error(), id.String()) {
		t.Errorf("Error() = %q, want it to contain the user id", err.Error())
	}
}
