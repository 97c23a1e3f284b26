package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hectorisrael87/fundacion-sys/internal/model"
)

// SequenceRepository allocates year-scoped sequential document numbers.
// NextDocumentNumber must be called inside the same transaction as the
// document's first insert, so a rolled-back creation also rolls back the
// counter increment: gaps are tolerated, duplicates are not.
type SequenceRepository interface {
	NextDocumentNumber(ctx context.Context, docType string) (string, error)
}

type sequenceRepository struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

func (r *sequenceRepository) NextDocumentNumber(ctx context.Context, docType string) (string, error) {
	db := GetDB(ctx, r.db)
	year := time.Now().Year()

	// Advisory xact lock serializes first-row creation for a (type, year)
	// pair; after the row exists the row lock below is what matters.
	db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", fmt.Sprintf("%s-%d", docType, year))

	var seq model.DocumentSequence
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("doc_type = ? AND year = ?", docType, year).
		First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq = model.DocumentSequence{DocType: docType, Year: year, LastNumber: 0}
		if createErr := db.Create(&seq).Error; createErr != nil {
			return "", fmt.Errorf("failed to create sequence row: %w", createErr)
		}
	} else if err != nil {
		return "", fmt.Errorf("failed to lock sequence row: %w", err)
	}

	seq.LastNumber++
	if err := db.Save(&seq).Error; err != nil {
		return "", fmt.Errorf("failed to advance sequence: %w", err)
	}

	return FormatDocumentNumber(docType, year, seq.LastNumber), nil
}

// FormatDocumentNumber renders "<TYPE>-<year>-<seq06d>", e.g. "CC-2025-000001".
func FormatDocumentNumber(docType string, year, n int) string {
	return fmt.Sprintf("%s-%d-%06d", docType, year, n)
}
