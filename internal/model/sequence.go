package model

// Document type prefixes for sequence allocation.
const (
	DocTypeQuote        = "CC"
	DocTypePaymentOrder = "OP"
)

// DocumentSequence is the per-(doc_type, year) counter behind document
// numbers. The row is locked for the duration of the allocating transaction,
// which is the only concurrency-control point in the system.
type DocumentSequence struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	DocType    string `gorm:"type:varchar(10);not null;uniqueIndex:idx_doc_sequences_type_year" json:"doc_type"`
	Year       int    `gorm:"not null;uniqueIndex:idx_doc_sequences_type_year" json:"year"`
	LastNumber int    `gorm:"not null;default:0" json:"last_number"`
}
