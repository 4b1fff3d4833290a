package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/catonzio/plum-backend/internal/agent"
	"github.com/catonzio/plum-backend/internal/platform/apierr"
	"github.com/catonzio/plum-backend/internal/platform/dbctx"
)

func TestSubmitFeedbackUnknownMessage(t *testing.T) {
	env := newTestEnv(t)
	dbc := dbctx.Context{Ctx: context.Background()}

	_, err := env.feedback.Submit(dbc, uuid.New(), true, "")
	if err == nil {
		t.Fatalf("Submit: expected error for unknown message")
	}
	status, code := apierr.StatusOf(err)
	if status != 404 || code != "message_not_found" {
		t.Fatalf("status/code: got %d %q", status, code)
	}
}

func TestSubmitFeedbackReplacesPrior(t *testing.T) {
	env := newTestEnv(t)
	dbc := dbctx.Context{Ctx: context.Background()}

	row, err := env.chat.RecordTurn(dbc, uuid.New(), uuid.New(), "q", &agent.ChatMessage{Type: "ai", Content: "a"})
	if err != nil {
		t.Fatalf("RecordTurn: %v", err)
	}

	first, err := env.feedback.Submit(dbc, row.ID, true, "helpful")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if first.ID == uuid.Nil {
		t.Fatalf("feedback id not assigned")
	}

	second, err := env.feedback.Submit(dbc, row.ID, false, "actually wrong")
	if err != nil {
		t.Fatalf("Submit again: %v", err)
	}
	if second.ID == first.ID {
		t.Fatalf("replacement must be a new row")
	}

	rows, err := env.feedbacks.ListByMessage(context.Background(), nil, row.ID)
	if err != nil {
		t.Fatalf("ListByMessage: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("active feedback rows: want 1, got %d", len(rows))
	}
	if rows[0].IsPositive {
		t.Fatalf("surviving row must be the latest submission")
	}
	if rows[0].Description != "actually wrong" {
		t.Fatalf("description: want=%q got=%q", "actually wrong", rows[0].Description)
	}
}
