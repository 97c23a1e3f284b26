package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/hectorisrael87/fundacion-sys/internal/model"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Supplier{},
		&model.Product{},
		&model.DocumentSequence{},
		&model.ComparativeQuote{},
		&model.QuoteItem{},
		&model.QuoteSupplier{},
		&model.QuotePrice{},
		&model.QuoteAttachment{},
		&model.PaymentOrder{},
		&model.PaymentOrderItem{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
