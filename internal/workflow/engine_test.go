package workflow

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

var (
	creatorID  = uuid.New()
	reviewerID = uuid.New()
	approverID = uuid.New()
)

func creator() Actor {
	return Actor{ID: creatorID, Username: "creador1", Creator: true}
}

func reviewer() Actor {
	return Actor{ID: reviewerID, Username: "revisor1", Reviewer: true}
}

func approver() Actor {
	return Actor{ID: approverID, Username: "aprobador1", Approver: true}
}

func superuser() Actor {
	return Actor{ID: uuid.New(), Username: "admin", Superuser: true}
}

func doc(status Status) DocState {
	return DocState{Status: status, CreatedBy: creatorID}
}

func TestApply_Submit(t *testing.T) {
	t.Run("from draft by owner", func(t *testing.T) {
		effect, err := Apply(doc(StatusDraft), TransitionSubmit, creator())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if effect.NewStatus != StatusPendingReview {
			t.Fatalf("expected %s, got %s", StatusPendingReview, effect.NewStatus)
		}
		if !effect.ClearReviewer || !effect.ClearApprover || !effect.ClearRejecter {
			t.Fatal("submit must clear all audit fields")
		}
	})

	t.Run("from rejected by owner", func(t *testing.T) {
		effect, err := Apply(doc(StatusRejected), TransitionSubmit, creator())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if effect.NewStatus != StatusPendingReview {
			t.Fatalf("expected %s, got %s", StatusPendingReview, effect.NewStatus)
		}
	})

	t.Run("not the owner", func(t *testing.T) {
		other := Actor{ID: uuid.New(), Creator: true}
		_, err := Apply(doc(StatusDraft), TransitionSubmit, other)
		if !errors.Is(err, ErrPermissionDenied) {
			t.Fatalf("expected ErrPermissionDenied, got %v", err)
		}
	})

	t.Run("no creator capability", func(t *testing.T) {
		_, err := Apply(doc(StatusDraft), TransitionSubmit, reviewer())
		if !errors.Is(err, ErrPermissionDenied) {
			t.Fatalf("expected ErrPermissionDenied, got %v", err)
		}
	})

	t.Run("from pending review fails", func(t *testing.T) {
		_, err := Apply(doc(StatusPendingReview), TransitionSubmit, creator())
		if !errors.Is(err, ErrIllegalTransition) {
			t.Fatalf("expected ErrIllegalTransition, got %v", err)
		}
	})
}

func TestApply_MarkReviewed(t *testing.T) {
	t.Run("by reviewer", func(t *testing.T) {
		effect, err := Apply(doc(StatusPendingReview), TransitionMarkReviewed, reviewer())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if effect.NewStatus != StatusReviewed || !effect.StampReviewer {
			t.Fatalf("expected reviewed status with reviewer stamp, got %+v", effect)
		}
	})

	t.Run("reviewer cannot review own document", func(t *testing.T) {
		self := Actor{ID: creatorID, Creator: true, Reviewer: true}
		_, err := Apply(doc(StatusPendingReview), TransitionMarkReviewed, self)
		if !errors.Is(err, ErrPermissionDenied) {
			t.Fatalf("expected ErrPermissionDenied, got %v", err)
		}
	})

	t.Run("superuser may review own document", func(t *testing.T) {
		su := superuser()
		state := DocState{Status: StatusPendingReview, CreatedBy: su.ID}
		if _, err := Apply(state, TransitionMarkReviewed, su); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("idempotent replay fails", func(t *testing.T) {
		_, err := Apply(doc(StatusReviewed), TransitionMarkReviewed, reviewer())
		if !errors.Is(err, ErrIllegalTransition) {
			t.Fatalf("expected ErrIllegalTransition, got %v", err)
		}
	})
}

func TestApply_FinalDecisions(t *testing.T) {
	t.Run("approve stamps approver", func(t *testing.T) {
		effect, err := Apply(doc(StatusReviewed), TransitionApprove, approver())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if effect.NewStatus != StatusApproved || !effect.StampApprover {
			t.Fatalf("expected approved with approver stamp, got %+v", effect)
		}
	})

	t.Run("reject stamps rejecter and clears approver", func(t *testing.T) {
		effect, err := Apply(doc(StatusReviewed), TransitionReject, approver())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if effect.NewStatus != StatusRejected || !effect.StampRejecter || !effect.ClearApprover {
			t.Fatalf("unexpected effect %+v", effect)
		}
	})

	t.Run("return to review clears approver", func(t *testing.T) {
		effect, err := Apply(doc(StatusReviewed), TransitionReturnToReview, approver())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if effect.NewStatus != StatusPendingReview || !effect.ClearApprover {
			t.Fatalf("unexpected effect %+v", effect)
		}
	})

	t.Run("reviewer cannot approve", func(t *testing.T) {
		_, err := Apply(doc(StatusReviewed), TransitionApprove, reviewer())
		if !errors.Is(err, ErrPermissionDenied) {
			t.Fatalf("expected ErrPermissionDenied, got %v", err)
		}
	})

	t.Run("approved document is terminal", func(t *testing.T) {
		for _, tr := range []Transition{
			TransitionSubmit, TransitionMarkReviewed, TransitionReturnToReview,
			TransitionApprove, TransitionReject, TransitionReturnToDraft,
		} {
			actor := superuser()
			_, err := Apply(doc(StatusApproved), tr, actor)
			if !errors.Is(err, ErrIllegalTransition) {
				t.Fatalf("%s from approved: expected ErrIllegalTransition, got %v", tr, err)
			}
		}
	})
}

func TestApply_ReturnToDraft(t *testing.T) {
	t.Run("reviewer returns to draft", func(t *testing.T) {
		effect, err := Apply(doc(StatusPendingReview), TransitionReturnToDraft, reviewer())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if effect.NewStatus != StatusDraft || !effect.ClearReviewer || !effect.ClearApprover {
			t.Fatalf("unexpected effect %+v", effect)
		}
	})

	t.Run("allowed on own document", func(t *testing.T) {
		self := Actor{ID: creatorID, Creator: true, Reviewer: true}
		if _, err := Apply(doc(StatusPendingReview), TransitionReturnToDraft, self); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestApply_UnknownTransition(t *testing.T) {
	_, err := Apply(doc(StatusDraft), Transition("ARCHIVE"), superuser())
	if !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
}

func TestApply_PermissionCheckedBeforeState(t *testing.T) {
	// A reviewer poking an approved document should learn about the missing
	// capability, not about the document's state.
	_, err := Apply(doc(StatusApproved), TransitionApprove, reviewer())
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestCanView(t *testing.T) {
	otherCreator := Actor{ID: uuid.New(), Creator: true}

	t.Run("creator sees own draft", func(t *testing.T) {
		if !CanView(creator(), doc(StatusDraft)) {
			t.Fatal("creator must see own draft")
		}
	})

	t.Run("creator does not see another's document", func(t *testing.T) {
		if CanView(otherCreator, doc(StatusPendingReview)) {
			t.Fatal("plain creator must not see another user's document")
		}
	})

	t.Run("reviewer does not see another's draft", func(t *testing.T) {
		if CanView(reviewer(), doc(StatusDraft)) {
			t.Fatal("reviewer must not see another user's draft")
		}
	})

	t.Run("reviewer sees submitted documents", func(t *testing.T) {
		for _, s := range []Status{StatusPendingReview, StatusReviewed, StatusApproved, StatusRejected} {
			if !CanView(reviewer(), doc(s)) {
				t.Fatalf("reviewer must see %s documents", s)
			}
		}
	})

	t.Run("approver sees submitted documents", func(t *testing.T) {
		if !CanView(approver(), doc(StatusReviewed)) {
			t.Fatal("approver must see reviewed documents")
		}
	})

	t.Run("superuser sees everything", func(t *testing.T) {
		if !CanView(superuser(), doc(StatusDraft)) {
			t.Fatal("superuser must see drafts of others")
		}
	})
}

func TestActorCapabilities(t *testing.T) {
	su := superuser()
	if !su.CanCreate() || !su.CanReview() || !su.CanApprove() {
		t.Fatal("superuser implies every capability")
	}

	caps := Actor{Creator: true, Approver: true}.Capabilities()
	if len(caps) != 2 || caps[0] != CapCreator || caps[1] != CapApprover {
		t.Fatalf("unexpected capabilities %v", caps)
	}
}

func TestStatusEditable(t *testing.T) {
	editable := map[Status]bool{
		StatusDraft:         true,
		StatusPendingReview: true,
		StatusReviewed:      true,
		StatusApproved:      false,
		StatusRejected:      false,
	}
	for s, want := range editable {
		if got := s.Editable(); got != want {
			t.Fatalf("%s: Editable() = %v, want %v", s, got, want)
		}
	}
}
