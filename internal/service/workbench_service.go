package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hectorisrael87/fundacion-sys/internal/workflow"
)

// DocumentSummary is one row of a workbench bucket, light enough to render
// a list from without loading the full aggregate.
type DocumentSummary struct {
	ID        uuid.UUID       `json:"id"`
	Kind      string          `json:"kind"` // "cc" or "op"
	Number    string          `json:"number"`
	Title     string          `json:"title"`
	Estado    workflow.Status `json:"estado"`
	CreatedBy string          `json:"created_by"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// WorkbenchResponse is the home screen: per-capability buckets, badge counts,
// and for each pending quote a pointer to the order the caller should open
// next. A user holding several capabilities sees the union of the buckets
// those capabilities grant.
type WorkbenchResponse struct {
	MyDrafts      []DocumentSummary `json:"my_drafts,omitempty"`
	MyRejected    []DocumentSummary `json:"my_rejected,omitempty"`
	PendingReview []DocumentSummary `json:"pending_review,omitempty"`
	PendingFinal  []DocumentSummary `json:"pending_final,omitempty"`

	// Quote ID -> order ID the reviewer/approver should continue with.
	NextOrderReview  map[uuid.UUID]uuid.UUID `json:"cc_next_op_review,omitempty"`
	NextOrderApprove map[uuid.UUID]uuid.UUID `json:"cc_next_op_approve,omitempty"`

	PendingReviewCount int64 `json:"pending_review_count"`
	PendingFinalCount  int64 `json:"pending_final_count"`
}

// PendingCountsResponse carries the per-kind badge counts, cheap enough to
// poll. What counts as "pending" depends on the caller's capabilities.
type PendingCountsResponse struct {
	CCPending int64 `json:"cc_pending"`
	OPPending int64 `json:"op_pending"`
}

// LiveStatusItem is the current badge state of one document, for clients
// refreshing an open list without reloading it.
type LiveStatusItem struct {
	ID         uuid.UUID       `json:"id"`
	Estado     workflow.Status `json:"estado"`
	Bucket     string          `json:"bucket"`
	Label      string          `json:"label"`
	BadgeClass string          `json:"badge_class"`
}

type LiveStatusResponse struct {
	Items []LiveStatusItem `json:"items"`
}

type WorkbenchService interface {
	Workbench(ctx context.Context, actor workflow.Actor) (*WorkbenchResponse, error)
	PendingCounts(ctx context.Context, actor workflow.Actor) (*PendingCountsResponse, error)
	LiveStatus(ctx context.Context, actor workflow.Actor, kind string, ids []uuid.UUID) (*LiveStatusResponse, error)
}

type workbenchService struct {
	db *gorm.DB
}

func NewWorkbenchService(db *gorm.DB) WorkbenchService {
	return &workbenchService{db: db}
}

const workbenchBucketLimit = 50

// bucketForStatus maps a document status onto the list tabs: draft /
// pending / approved / other. Reviewers and approvers each treat only
// their own queue stage as "pending"; for dual-role users both stages are.
func bucketForStatus(estado workflow.Status, isReviewer, isApprover bool) string {
	switch estado {
	case workflow.StatusDraft:
		return "draft"
	case workflow.StatusApproved:
		return "approved"
	case workflow.StatusPendingReview:
		if isApprover && !isReviewer {
			return "other"
		}
		return "pending"
	case workflow.StatusReviewed:
		if isReviewer && !isApprover {
			return "other"
		}
		return "pending"
	default:
		return "other"
	}
}

// labelForStatus returns the badge text and CSS class for a status as the
// caller experiences it: the stage a reviewer or approver must act on reads
// "Pendiente" rather than the neutral stage name.
func labelForStatus(estado workflow.Status, isReviewer, isApprover bool) (string, string) {
	switch estado {
	case workflow.StatusDraft:
		return "Borrador", "badge-draft"
	case workflow.StatusApproved:
		return "Aprobado", "badge-approved"
	case workflow.StatusPendingReview:
		if isReviewer && !isApprover {
			return "Pendiente", "badge-pending"
		}
		return "En revisión", "badge-pending"
	case workflow.StatusReviewed:
		if isApprover && !isReviewer {
			return "Pendiente", "badge-pending"
		}
		return "Revisado", "badge-reviewed"
	case workflow.StatusRejected:
		return "Rechazado", "badge-rejected"
	default:
		return "Desconocido", "badge-neutral"
	}
}

// reviewQueueExclusion returns the creator ID to filter out of the review
// queue: a reviewer cannot mark their own submission reviewed, so listing it
// as pending work would be noise. Superusers keep the full queue.
func reviewQueueExclusion(actor workflow.Actor) *uuid.UUID {
	if actor.Superuser {
		return nil
	}
	return &actor.ID
}

// summaries builds the union of quote and order rows matching the given
// status set, newest first.
func (s *workbenchService) summaries(ctx context.Context, statuses []workflow.Status, onlyCreatedBy, excludeCreatedBy *uuid.UUID) ([]DocumentSummary, error) {
	var rows []DocumentSummary

	quoteQ := s.db.WithContext(ctx).Table("comparative_quotes").
		Select(`comparative_quotes.id, 'cc' as kind, comparative_quotes.number,
			comparative_quotes.item_cotizado as title, comparative_quotes.estado,
			users.username as created_by, comparative_quotes.updated_at`).
		Joins("LEFT JOIN users ON users.id = comparative_quotes.created_by_id").
		Where("comparative_quotes.estado IN ?", statuses)
	orderQ := s.db.WithContext(ctx).Table("payment_orders").
		Select(`payment_orders.id, 'op' as kind, payment_orders.number,
			payment_orders.descripcion as title, payment_orders.estado,
			users.username as created_by, payment_orders.updated_at`).
		Joins("LEFT JOIN users ON users.id = payment_orders.created_by_id").
		Where("payment_orders.estado IN ?", statuses)
	if onlyCreatedBy != nil {
		quoteQ = quoteQ.Where("comparative_quotes.created_by_id = ?", *onlyCreatedBy)
		orderQ = orderQ.Where("payment_orders.created_by_id = ?", *onlyCreatedBy)
	}
	if excludeCreatedBy != nil {
		quoteQ = quoteQ.Where("comparative_quotes.created_by_id <> ?", *excludeCreatedBy)
		orderQ = orderQ.Where("payment_orders.created_by_id <> ?", *excludeCreatedBy)
	}

	var quotes, orders []DocumentSummary
	if err := quoteQ.Order("updated_at DESC").Limit(workbenchBucketLimit).Scan(&quotes).Error; err != nil {
		return nil, err
	}
	if err := orderQ.Order("updated_at DESC").Limit(workbenchBucketLimit).Scan(&orders).Error; err != nil {
		return nil, err
	}

	rows = append(rows, quotes...)
	rows = append(rows, orders...)
	return rows, nil
}

func (s *workbenchService) countByStatus(ctx context.Context, table string, statuses []workflow.Status) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Table(table).
		Where("estado IN ?", statuses).Count(&n).Error
	return n, err
}

// nextOrders picks, for each of the given quotes, the order a caller working
// the given stage should open next: the oldest order still in that stage, or
// failing that the quote's oldest order.
func (s *workbenchService) nextOrders(ctx context.Context, quoteIDs []uuid.UUID, stage workflow.Status) (map[uuid.UUID]uuid.UUID, error) {
	if len(quoteIDs) == 0 {
		return nil, nil
	}

	var rows []struct {
		ID      uuid.UUID
		QuoteID uuid.UUID
		Estado  workflow.Status
	}
	if err := s.db.WithContext(ctx).Table("payment_orders").
		Select("id, quote_id, estado").
		Where("quote_id IN ?", quoteIDs).
		Order("created_at ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	// An order still in the stage beats the merely oldest one.
	next := make(map[uuid.UUID]uuid.UUID)
	for _, r := range rows {
		if r.Estado == stage {
			if _, ok := next[r.QuoteID]; !ok {
				next[r.QuoteID] = r.ID
			}
		}
	}
	for _, r := range rows {
		if _, ok := next[r.QuoteID]; !ok {
			next[r.QuoteID] = r.ID
		}
	}
	return next, nil
}

func (s *workbenchService) Workbench(ctx context.Context, actor workflow.Actor) (*WorkbenchResponse, error) {
	resp := &WorkbenchResponse{}

	if actor.CanCreate() {
		drafts, err := s.summaries(ctx, []workflow.Status{workflow.StatusDraft}, &actor.ID, nil)
		if err != nil {
			return nil, err
		}
		resp.MyDrafts = drafts

		rejected, err := s.summaries(ctx, []workflow.Status{workflow.StatusRejected}, &actor.ID, nil)
		if err != nil {
			return nil, err
		}
		resp.MyRejected = rejected
	}

	if actor.CanReview() {
		pending, err := s.summaries(ctx, []workflow.Status{workflow.StatusPendingReview}, nil, reviewQueueExclusion(actor))
		if err != nil {
			return nil, err
		}
		resp.PendingReview = pending

		next, err := s.nextOrders(ctx, quoteIDsOf(pending), workflow.StatusPendingReview)
		if err != nil {
			return nil, err
		}
		resp.NextOrderReview = next
	}

	if actor.CanApprove() {
		pending, err := s.summaries(ctx, []workflow.Status{workflow.StatusReviewed}, nil, nil)
		if err != nil {
			return nil, err
		}
		resp.PendingFinal = pending

		next, err := s.nextOrders(ctx, quoteIDsOf(pending), workflow.StatusReviewed)
		if err != nil {
			return nil, err
		}
		resp.NextOrderApprove = next
	}

	if actor.CanReview() {
		cc, err := s.countByStatus(ctx, "comparative_quotes", []workflow.Status{workflow.StatusPendingReview})
		if err != nil {
			return nil, err
		}
		op, err := s.countByStatus(ctx, "payment_orders", []workflow.Status{workflow.StatusPendingReview})
		if err != nil {
			return nil, err
		}
		resp.PendingReviewCount = cc + op
	}
	if actor.CanApprove() {
		cc, err := s.countByStatus(ctx, "comparative_quotes", []workflow.Status{workflow.StatusReviewed})
		if err != nil {
			return nil, err
		}
		op, err := s.countByStatus(ctx, "payment_orders", []workflow.Status{workflow.StatusReviewed})
		if err != nil {
			return nil, err
		}
		resp.PendingFinalCount = cc + op
	}
	return resp, nil
}

func quoteIDsOf(rows []DocumentSummary) []uuid.UUID {
	var ids []uuid.UUID
	for _, r := range rows {
		if r.Kind == "cc" {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// pendingStages returns which workflow stages count as "pending" for this
// actor. Dual-role and superuser callers see both queues combined.
func pendingStages(actor workflow.Actor) []workflow.Status {
	switch {
	case actor.Superuser, actor.CanReview() && actor.CanApprove():
		return []workflow.Status{workflow.StatusPendingReview, workflow.StatusReviewed}
	case actor.CanReview():
		return []workflow.Status{workflow.StatusPendingReview}
	case actor.CanApprove():
		return []workflow.Status{workflow.StatusReviewed}
	default:
		return nil
	}
}

func (s *workbenchService) PendingCounts(ctx context.Context, actor workflow.Actor) (*PendingCountsResponse, error) {
	resp := &PendingCountsResponse{}

	stages := pendingStages(actor)
	if len(stages) == 0 {
		return resp, nil
	}

	cc, err := s.countByStatus(ctx, "comparative_quotes", stages)
	if err != nil {
		return nil, err
	}
	op, err := s.countByStatus(ctx, "payment_orders", stages)
	if err != nil {
		return nil, err
	}
	resp.CCPending = cc
	resp.OPPending = op
	return resp, nil
}

func (s *workbenchService) LiveStatus(ctx context.Context, actor workflow.Actor, kind string, ids []uuid.UUID) (*LiveStatusResponse, error) {
	resp := &LiveStatusResponse{Items: []LiveStatusItem{}}
	if len(ids) == 0 || (kind != "cc" && kind != "op") {
		return resp, nil
	}

	table := "comparative_quotes"
	if kind == "op" {
		table = "payment_orders"
	}

	q := s.db.WithContext(ctx).Table(table).
		Select("id, estado, created_by_id").
		Where("id IN ?", ids)
	// Same visibility rule as the listings: reviewers and approvers never
	// see another user's drafts; plain creators see only their own rows.
	if !actor.Superuser {
		if actor.CanReview() || actor.CanApprove() {
			q = q.Where("estado <> ? OR created_by_id = ?", workflow.StatusDraft, actor.ID)
		} else {
			q = q.Where("created_by_id = ?", actor.ID)
		}
	}

	var rows []struct {
		ID     uuid.UUID
		Estado workflow.Status
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	isRev, isApp := actor.CanReview(), actor.CanApprove()
	for _, r := range rows {
		label, badge := labelForStatus(r.Estado, isRev, isApp)
		resp.Items = append(resp.Items, LiveStatusItem{
			ID:         r.ID,
			Estado:     r.Estado,
			Bucket:     bucketForStatus(r.Estado, isRev, isApp),
			Label:      label,
			BadgeClass: badge,
		})
	}
	return resp, nil
}
