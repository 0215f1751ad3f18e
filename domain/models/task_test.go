package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestStatusCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"pending to submitted", StatusPending, StatusSubmitted, true},
		{"pending to in_progress", StatusPending, StatusInProgress, true},
		{"pending to completed", StatusPending, StatusCompleted, true},
		{"in_progress to submitted", StatusInProgress, StatusSubmitted, true},
		{"overdue to submitted", StatusOverdue, StatusSubmitted, true},
		{"overdue back to in_progress", StatusOverdue, StatusInProgress, true},
		{"submitted to approved", StatusSubmitted, StatusApproved, true},
		{"submitted to rejected", StatusSubmitted, StatusRejected, true},
		{"submitted back to in_progress", StatusSubmitted, StatusInProgress, true},
		{"rejected back to in_progress", StatusRejected, StatusInProgress, true},
		{"approved to completed", StatusApproved, StatusCompleted, true},
		{"same status is a no-op", StatusSubmitted, StatusSubmitted, true},

		{"completed is terminal", StatusCompleted, StatusInProgress, false},
		{"cancelled is terminal", StatusCancelled, StatusPending, false},
		{"pending cannot jump to approved", StatusPending, StatusApproved, false},
		{"in_progress cannot jump to rejected", StatusInProgress, StatusRejected, false},
		{"approved cannot reopen", StatusApproved, StatusInProgress, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.allowed {
				t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.allowed)
			}
		})
	}
}

func TestTaskTransition(t *testing.T) {
	task := &Task{Status: StatusPending}

	if err := task.Transition(StatusSubmitted); err != nil {
		t.Fatalf("pending -> submitted: %v", err)
	}
	if task.Status != StatusSubmitted {
		t.Fatalf("status = %s, want submitted", task.Status)
	}

	if err := task.Transition(StatusOverdue); err != ErrIllegalTransition {
		t.Fatalf("submitted -> overdue: got %v, want ErrIllegalTransition", err)
	}
	if task.Status != StatusSubmitted {
		t.Fatalf("failed transition mutated status to %s", task.Status)
	}

	if err := task.Transition(Status("weird")); err != ErrInvalidStatus {
		t.Fatalf("invalid target: got %v, want ErrInvalidStatus", err)
	}
}

func TestStatusActionableAndTerminal(t *testing.T) {
	actionable := []Status{StatusPending, StatusInProgress, StatusOverdue, StatusRejected}
	for _, s := range actionable {
		if !s.Actionable() {
			t.Errorf("%s should be actionable", s)
		}
	}
	notActionable := []Status{StatusSubmitted, StatusApproved, StatusCompleted, StatusCancelled}
	for _, s := range notActionable {
		if s.Actionable() {
			t.Errorf("%s should not be actionable", s)
		}
	}

	if !StatusCompleted.Terminal() || !StatusCancelled.Terminal() {
		t.Error("completed and cancelled must be terminal")
	}
	if StatusSubmitted.Terminal() || StatusOverdue.Terminal() {
		t.Error("submitted and overdue must not be terminal")
	}
}

func TestTaskIsOverdue(t *testing.T) {
	due := time.Date(2026, 9, 4, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		status  Status
		now     time.Time
		overdue bool
	}{
		{"before due", StatusInProgress, due.Add(-time.Hour), false},
		{"past due while in_progress", StatusInProgress, due.Add(time.Hour), true},
		{"past due while pending", StatusPending, due.Add(time.Minute), true},
		{"past due but already submitted", StatusSubmitted, due.Add(time.Hour), false},
		{"past due but completed", StatusCompleted, due.Add(time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &Task{Status: tt.status, DueTime: due}
			if got := task.IsOverdue(tt.now); got != tt.overdue {
				t.Errorf("IsOverdue = %v, want %v", got, tt.overdue)
			}
		})
	}
}

func TestExtendDueKeepsOriginal(t *testing.T) {
	due := time.Date(2026, 9, 4, 18, 0, 0, 0, time.UTC)
	task := &Task{Status: StatusInProgress, DueTime: due, Workflow: NewWorkflow()}

	first := due.AddDate(0, 0, 2)
	task.ExtendDue(first)
	if task.DueTime != first {
		t.Fatalf("due = %v, want %v", task.DueTime, first)
	}
	if task.Workflow.OriginalDueTime == nil || !task.Workflow.OriginalDueTime.Equal(due) {
		t.Fatalf("original due = %v, want %v", task.Workflow.OriginalDueTime, due)
	}

	// extend อีกครั้ง original ต้องไม่ขยับ
	second := due.AddDate(0, 0, 5)
	task.ExtendDue(second)
	if !task.Workflow.OriginalDueTime.Equal(due) {
		t.Fatalf("second extend moved original due to %v", task.Workflow.OriginalDueTime)
	}
	if !task.Workflow.DueExtended() {
		t.Fatal("DueExtended should report true after extend")
	}
}

func TestTaskIsAssignee(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	task := &Task{Assignees: []User{{ID: a}}}

	if !task.IsAssignee(a) {
		t.Error("a should be an assignee")
	}
	if task.IsAssignee(b) {
		t.Error("b should not be an assignee")
	}
}
