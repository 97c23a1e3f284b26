package service

import (
	"testing"

	"github.com/google/uuid"

	"github.com/hectorisrael87/fundacion-sys/internal/workflow"
)

func TestBucketForStatus(t *testing.T) {
	cases := []struct {
		name       string
		estado     workflow.Status
		isReviewer bool
		isApprover bool
		want       string
	}{
		{"draft always draft", workflow.StatusDraft, true, true, "draft"},
		{"approved always approved", workflow.StatusApproved, false, false, "approved"},
		{"in review pending for reviewer", workflow.StatusPendingReview, true, false, "pending"},
		{"in review not approver's task", workflow.StatusPendingReview, false, true, "other"},
		{"reviewed pending for approver", workflow.StatusReviewed, false, true, "pending"},
		{"reviewed not reviewer's task", workflow.StatusReviewed, true, false, "other"},
		{"dual role sees both as pending", workflow.StatusReviewed, true, true, "pending"},
		{"rejected is other", workflow.StatusRejected, true, true, "other"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := bucketForStatus(tc.estado, tc.isReviewer, tc.isApprover); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLabelForStatus(t *testing.T) {
	t.Run("reviewer sees their queue stage as Pendiente", func(t *testing.T) {
		label, badge := labelForStatus(workflow.StatusPendingReview, true, false)
		if label != "Pendiente" || badge != "badge-pending" {
			t.Fatalf("got %q/%q", label, badge)
		}
	})
	t.Run("creator sees the stage name", func(t *testing.T) {
		label, _ := labelForStatus(workflow.StatusPendingReview, false, false)
		if label != "En revisión" {
			t.Fatalf("got %q", label)
		}
	})
	t.Run("approver sees reviewed as Pendiente", func(t *testing.T) {
		label, _ := labelForStatus(workflow.StatusReviewed, false, true)
		if label != "Pendiente" {
			t.Fatalf("got %q", label)
		}
	})
	t.Run("dual role sees stage names", func(t *testing.T) {
		label, badge := labelForStatus(workflow.StatusReviewed, true, true)
		if label != "Revisado" || badge != "badge-reviewed" {
			t.Fatalf("got %q/%q", label, badge)
		}
	})
	t.Run("rejected", func(t *testing.T) {
		label, badge := labelForStatus(workflow.StatusRejected, false, false)
		if label != "Rechazado" || badge != "badge-rejected" {
			t.Fatalf("got %q/%q", label, badge)
		}
	})
}

func TestReviewQueueExclusion(t *testing.T) {
	t.Run("reviewer's own submissions leave the queue", func(t *testing.T) {
		reviewer := workflow.Actor{ID: uuid.New(), Creator: true, Reviewer: true}
		got := reviewQueueExclusion(reviewer)
		if got == nil || *got != reviewer.ID {
			t.Fatalf("expected exclusion of %s, got %v", reviewer.ID, got)
		}
	})
	t.Run("superuser keeps the full queue", func(t *testing.T) {
		if got := reviewQueueExclusion(workflow.Actor{ID: uuid.New(), Superuser: true}); got != nil {
			t.Fatalf("expected nil, got %v", got)
		}
	})
}

func TestPendingStages(t *testing.T) {
	reviewer := workflow.Actor{Reviewer: true}
	approver := workflow.Actor{Approver: true}
	both := workflow.Actor{Reviewer: true, Approver: true}
	super := workflow.Actor{Superuser: true}
	creator := workflow.Actor{Creator: true}

	if got := pendingStages(reviewer); len(got) != 1 || got[0] != workflow.StatusPendingReview {
		t.Fatalf("reviewer stages %v", got)
	}
	if got := pendingStages(approver); len(got) != 1 || got[0] != workflow.StatusReviewed {
		t.Fatalf("approver stages %v", got)
	}
	if got := pendingStages(both); len(got) != 2 {
		t.Fatalf("dual-role stages %v", got)
	}
	if got := pendingStages(super); len(got) != 2 {
		t.Fatalf("superuser stages %v", got)
	}
	if got := pendingStages(creator); got != nil {
		t.Fatalf("creator stages %v", got)
	}
}
