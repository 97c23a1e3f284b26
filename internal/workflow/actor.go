package workflow

import "github.com/google/uuid"

// Capability name constants as persisted on users and carried in JWT claims.
const (
	CapCreator  = "creador"
	CapReviewer = "revisor"
	CapApprover = "aprobador"
)

// Actor is the resolved current user as the workflow core sees it: an
// identity plus boolean capabilities. Superuser implies every capability.
type Actor struct {
	ID        uuid.UUID
	Username  string
	Creator   bool
	Reviewer  bool
	Approver  bool
	Superuser bool
}

func (a Actor) CanCreate() bool {
	return a.Superuser || a.Creator
}

func (a Actor) CanReview() bool {
	return a.Superuser || a.Reviewer
}

func (a Actor) CanApprove() bool {
	return a.Superuser || a.Approver
}

// Capabilities returns the capability names held by the actor, used when
// issuing tokens.
func (a Actor) Capabilities() []string {
	var caps []string
	if a.Creator {
		caps = append(caps, CapCreator)
	}
	if a.Reviewer {
		caps = append(caps, CapReviewer)
	}
	if a.Approver {
		caps = append(caps, CapApprover)
	}
	return caps
}

// IsOwner reports whether the actor created the document.
func (a Actor) IsOwner(createdBy uuid.UUID) bool {
	return a.ID == createdBy
}
