package apierr

import (
	"errors"
	"fmt"
	"testing"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", Validation("bad_input", errors.New("nope")), 422, "bad_input"},
		{"not found", NotFound("chat_not_found", errors.New("gone")), 404, "chat_not_found"},
		{"unsupported", Unsupported("unsupported_message_type", errors.New("weird")), 500, "unsupported_message_type"},
		{"internal", Internal("agent_run_failed", errors.New("boom")), 500, "agent_run_failed"},
		{"wrapped", fmt.Errorf("context: %w", NotFound("chat_not_found", errors.New("gone"))), 404, "chat_not_found"},
		{"plain error", errors.New("boom"), 500, "internal_error"},
		{"empty api error", &Error{}, 500, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := StatusOf(tc.err)
			if status != tc.wantStatus || code != tc.wantCode {
				t.Fatalf("want %d %q, got %d %q", tc.wantStatus, tc.wantCode, status, code)
			}
		})
	}
}

func TestErrorMessagePassthrough(t *testing.T) {
	err := Validation("bad_input", errors.New("field missing"))
	if err.Error() != "field missing" {
		t.Fatalf("message: want=%q got=%q", "field missing", err.Error())
	}
	if !errors.Is(err, err.Err) {
		t.Fatalf("wrapped error must unwrap")
	}
}
