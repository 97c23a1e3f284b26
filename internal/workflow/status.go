package workflow

// Status is the shared lifecycle state for comparative quotes and payment
// orders. Both document kinds move through the same machine, so the tokens
// and the transition table live here once instead of per aggregate.
type Status string

const (
	StatusDraft         Status = "BORRADOR"
	StatusPendingReview Status = "EN_REVISION"
	StatusReviewed      Status = "REVISADO"
	StatusApproved      Status = "APROBADO"
	StatusRejected      Status = "RECHAZADO"
)

// Valid reports whether s is one of the five known status tokens.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPendingReview, StatusReviewed, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Editable reports whether a document in this state may still be mutated by
// normal actors. Approved and rejected documents are frozen records.
func (s Status) Editable() bool {
	return s != StatusApproved && s != StatusRejected
}

// Label returns the Spanish display label used by the frontend badges.
func (s Status) Label() string {
	switch s {
	case StatusDraft:
		return "Borrador"
	case StatusPendingReview:
		return "En revisión"
	case StatusReviewed:
		return "Revisado"
	case StatusApproved:
		return "Aprobado"
	case StatusRejected:
		return "Rechazado"
	}
	return "—"
}
