package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateQuote     = "CREATE_QUOTE"
	ActionDeleteQuote     = "DELETE_QUOTE"
	ActionSubmitQuote     = "SUBMIT_QUOTE"
	ActionGenerateOrders  = "GENERATE_ORDERS"
	ActionCreateOrder     = "CREATE_ORDER"
	ActionDeleteOrder     = "DELETE_ORDER"
	ActionCreateComplement = "CREATE_COMPLEMENT"

	// Workflow transition actions; Details carries the transition name.
	ActionQuoteTransition = "QUOTE_TRANSITION"
	ActionOrderTransition = "ORDER_TRANSITION"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/number)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name (document number)
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
