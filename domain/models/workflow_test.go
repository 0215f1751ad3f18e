package models

import (
	"testing"
	"time"
)

func TestDeriveStatus(t *testing.T) {
	withSubmission := NewWorkflow()
	withSubmission.Submissions = append(withSubmission.Submissions, Submission{
		Submitter:   IdentifiedSubmitter("U1"),
		SubmittedAt: time.Now(),
	})

	pendingReview := NewWorkflow()
	pendingReview.Review.Status = ReviewPending

	empty := NewWorkflow()

	// reject แล้วยังไม่ส่งใหม่: submission เก่าต้องไม่ดันงานกลับเป็น submitted
	reviewedAt := withSubmission.Submissions[0].SubmittedAt.Add(time.Hour)
	rejectedAwaitingRedo := NewWorkflow()
	rejectedAwaitingRedo.Submissions = append([]Submission(nil), withSubmission.Submissions...)
	rejectedAwaitingRedo.Review = Review{Status: ReviewRejected, ReviewedAt: &reviewedAt}

	// ส่งใหม่หลังโดน reject (review ยังค้างเป็น rejected จาก write ที่ขาดตอน)
	resubmitted := NewWorkflow()
	resubmitted.Submissions = append([]Submission(nil), rejectedAwaitingRedo.Submissions...)
	resubmitted.Submissions = append(resubmitted.Submissions, Submission{
		Submitter:   IdentifiedSubmitter("U1"),
		SubmittedAt: reviewedAt.Add(time.Hour),
	})
	resubmitted.Review = rejectedAwaitingRedo.Review

	tests := []struct {
		name     string
		workflow Workflow
		current  Status
		want     Status
	}{
		{"submission funnels pending", withSubmission, StatusPending, StatusSubmitted},
		{"submission funnels in_progress", withSubmission, StatusInProgress, StatusSubmitted},
		{"submission funnels overdue", withSubmission, StatusOverdue, StatusSubmitted},
		{"pending review alone funnels too", pendingReview, StatusInProgress, StatusSubmitted},

		{"submission does not touch completed", withSubmission, StatusCompleted, StatusCompleted},
		{"submission does not touch cancelled", withSubmission, StatusCancelled, StatusCancelled},
		{"submission does not touch rejected", withSubmission, StatusRejected, StatusRejected},
		{"no evidence leaves pending alone", empty, StatusPending, StatusPending},
		{"no evidence leaves overdue alone", empty, StatusOverdue, StatusOverdue},

		{"rejected awaiting redo stays in_progress", rejectedAwaitingRedo, StatusInProgress, StatusInProgress},
		{"rejected awaiting redo stays overdue", rejectedAwaitingRedo, StatusOverdue, StatusOverdue},
		{"resubmission after rejection funnels again", resubmitted, StatusInProgress, StatusSubmitted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.workflow.DeriveStatus(tt.current); got != tt.want {
				t.Errorf("DeriveStatus(%s) = %s, want %s", tt.current, got, tt.want)
			}
		})
	}
}

func TestSubmitterKey(t *testing.T) {
	id := IdentifiedSubmitter("U12345")
	if !id.Identified() || id.Key() != "U12345" {
		t.Errorf("identified submitter key = %q", id.Key())
	}

	guest := GuestSubmitter("a1b2c3d4")
	if guest.Identified() {
		t.Error("guest submitter must not be identified")
	}
	if guest.Key() != "guest:a1b2c3d4" {
		t.Errorf("guest key = %q, want guest:a1b2c3d4", guest.Key())
	}
}

func TestFirstSubmissionAt(t *testing.T) {
	w := NewWorkflow()
	if !w.FirstSubmissionAt().IsZero() {
		t.Error("empty workflow should have zero first submission time")
	}

	first := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(2 * time.Hour)
	w.Submissions = []Submission{
		{SubmittedAt: first},
		{SubmittedAt: second},
	}
	if !w.FirstSubmissionAt().Equal(first) {
		t.Errorf("first submission = %v, want %v", w.FirstSubmissionAt(), first)
	}
}
