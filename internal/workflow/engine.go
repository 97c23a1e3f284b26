package workflow

import "github.com/google/uuid"

// Transition names the actions of the review pipeline.
type Transition string

const (
	TransitionSubmit         Transition = "SUBMIT"
	TransitionMarkReviewed   Transition = "MARK_REVIEWED"
	TransitionReturnToReview Transition = "RETURN_TO_REVIEW"
	TransitionApprove        Transition = "APPROVE"
	TransitionReject         Transition = "REJECT"
	TransitionReturnToDraft  Transition = "RETURN_TO_DRAFT"
)

// DocState is the slice of a document the engine needs to decide a
// transition: its current status and who created it.
type DocState struct {
	Status    Status
	CreatedBy uuid.UUID
}

// Effect describes the state change the caller must persist after a legal
// transition: the new status plus which audit fields to stamp with the actor
// and which to clear.
type Effect struct {
	NewStatus Status

	StampReviewer bool
	StampApprover bool
	StampRejecter bool

	ClearReviewer bool
	ClearApprover bool
	ClearRejecter bool
}

// rule is one row of the transition table: legal source states, required
// capability, self-action policy, and the resulting effect.
type rule struct {
	from []Status
	// allowed checks the actor's capability for this transition.
	allowed func(a Actor) bool
	// reason shown when the capability check fails.
	reason string
	// ownerOnly restricts the transition to the document's creator
	// (superusers always pass).
	ownerOnly bool
	// forbidSelf rejects non-superuser actors acting on their own document.
	forbidSelf bool
	effect     Effect
}

// transitionTable is the single source of truth for transition legality and
// role gating. Every workflow mutation in the system goes through Apply.
var transitionTable = map[Transition]rule{
	TransitionSubmit: {
		from:      []Status{StatusDraft, StatusRejected},
		allowed:   func(a Actor) bool { return a.CanCreate() },
		reason:    "only the creator may submit for review",
		ownerOnly: true,
		effect: Effect{
			NewStatus:     StatusPendingReview,
			ClearReviewer: true,
			ClearApprover: true,
			ClearRejecter: true,
		},
	},
	TransitionMarkReviewed: {
		from:       []Status{StatusPendingReview},
		allowed:    func(a Actor) bool { return a.CanReview() },
		reason:     "reviewer capability required",
		forbidSelf: true,
		effect: Effect{
			NewStatus:     StatusReviewed,
			StampReviewer: true,
		},
	},
	TransitionReturnToReview: {
		from:       []Status{StatusReviewed},
		allowed:    func(a Actor) bool { return a.CanApprove() },
		reason:     "approver capability required",
		forbidSelf: true,
		effect: Effect{
			NewStatus:     StatusPendingReview,
			ClearApprover: true,
		},
	},
	TransitionApprove: {
		from:       []Status{StatusReviewed},
		allowed:    func(a Actor) bool { return a.CanApprove() },
		reason:     "approver capability required",
		forbidSelf: true,
		effect: Effect{
			NewStatus:     StatusApproved,
			StampApprover: true,
		},
	},
	TransitionReject: {
		from:       []Status{StatusReviewed},
		allowed:    func(a Actor) bool { return a.CanApprove() },
		reason:     "approver capability required",
		forbidSelf: true,
		effect: Effect{
			NewStatus:     StatusRejected,
			StampRejecter: true,
			ClearApprover: true,
		},
	},
	TransitionReturnToDraft: {
		from:       []Status{StatusPendingReview},
		allowed:    func(a Actor) bool { return a.CanReview() },
		reason:     "reviewer capability required",
		effect: Effect{
			NewStatus:     StatusDraft,
			ClearReviewer: true,
			ClearApprover: true,
		},
	},
}

// Apply decides one transition against the table. It returns the effect to
// persist, or a PermissionError / TransitionError; the document is never
// mutated here. An approved document fails every transition loudly rather
// than no-opping.
func Apply(doc DocState, t Transition, actor Actor) (Effect, error) {
	r, ok := transitionTable[t]
	if !ok {
		return Effect{}, &TransitionError{Transition: t, From: doc.Status}
	}

	if !r.allowed(actor) {
		return Effect{}, &PermissionError{Action: string(t), Reason: r.reason}
	}

	if r.ownerOnly && !actor.Superuser && !actor.IsOwner(doc.CreatedBy) {
		return Effect{}, &PermissionError{Action: string(t), Reason: "not the document's creator"}
	}

	if r.forbidSelf && !actor.Superuser && actor.IsOwner(doc.CreatedBy) {
		return Effect{}, &PermissionError{Action: string(t), Reason: "cannot act on your own document"}
	}

	for _, s := range r.from {
		if doc.Status == s {
			return r.effect, nil
		}
	}
	return Effect{}, &TransitionError{Transition: t, From: doc.Status}
}

// CanView implements the document read gate: creators without review
// capabilities see only their own documents; reviewers and approvers see
// everything except other users' drafts; superusers see everything.
func CanView(a Actor, doc DocState) bool {
	if a.Superuser {
		return true
	}
	if a.Reviewer || a.Approver {
		return doc.Status != StatusDraft || a.IsOwner(doc.CreatedBy)
	}
	return a.IsOwner(doc.CreatedBy)
}
