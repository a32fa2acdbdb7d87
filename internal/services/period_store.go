package services

import (
	"context"
	"time"

	"github.com/terraincognita07/cyclemark/internal/models"
)

// PeriodRecordStore persists one PeriodRecord per calendar day. Inserts
// replace any record already stored for the same day.
type PeriodRecordStore interface {
	InsertOne(ctx context.Context, record models.PeriodRecord) error
	InsertBatch(ctx context.Context, records []models.PeriodRecord) error
	DeleteByDate(ctx context.Context, day time.Time) error
	DeleteByGroupID(ctx context.Context, groupID int64) error
	DeleteAll(ctx context.Context) error
	GetByDate(ctx context.Context, day time.Time) (models.PeriodRecord, bool, error)
	// GetByDateRange is inclusive on both ends and ordered oldest first.
	GetByDateRange(ctx context.Context, from time.Time, to time.Time) ([]models.PeriodRecord, error)
	// AllStarts and AllRecords are ordered newest first.
	AllStarts(ctx context.Context) ([]models.PeriodRecord, error)
	AllRecords(ctx context.Context) ([]models.PeriodRecord, error)
	MaxGroupID(ctx context.Context) (int64, error)
}
