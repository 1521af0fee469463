package persistence

import (
	"context"

	"github.com/bizledger/backend/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// documentSequence is the storage row backing the document number allocator.
// One row per (tenant, document type, day); the value is the last sequence
// handed out.
type documentSequence struct {
	TenantID uuid.UUID `gorm:"type:uuid;primary_key"`
	DocType  string    `gorm:"type:varchar(30);primary_key"`
	Day      string    `gorm:"type:varchar(6);primary_key"`
	Value    int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (documentSequence) TableName() string {
	return "document_sequences"
}

// GormSequenceRepository implements SequenceRepository using GORM
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// NextValue atomically increments and returns the counter for the given
// (tenant, document type, day). The single upsert statement is the whole
// allocation: under concurrency the database serializes the increments, so
// two callers can never see the same value.
func (r *GormSequenceRepository) NextValue(ctx context.Context, tenantID uuid.UUID, docType trade.DocumentType, day string) (int64, error) {
	var result struct {
		Value int64
	}

	err := r.db.WithContext(ctx).Raw(
		`INSERT INTO document_sequences (tenant_id, doc_type, day, value)
		 VALUES (?, ?, ?, 1)
		 ON CONFLICT (tenant_id, doc_type, day)
		 DO UPDATE SET value = document_sequences.value + 1
		 RETURNING value`,
		tenantID, docType.String(), day,
	).Scan(&result).Error
	if err != nil {
		return 0, err
	}

	return result.Value, nil
}

// Ensure GormSequenceRepository implements SequenceRepository
var _ trade.SequenceRepository = (*GormSequenceRepository)(nil)
