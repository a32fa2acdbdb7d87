package db

import (
	"context"
	"time"

	"github.com/terraincognita07/cyclemark/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PeriodRecordRepository struct {
	database *gorm.DB
}

func NewPeriodRecordRepository(database *gorm.DB) *PeriodRecordRepository {
	return &PeriodRecordRepository{database: database}
}

// upsertByDate replaces every column of an existing row with the same date.
var upsertByDate = clause.OnConflict{
	Columns:   []clause.Column{{Name: "date"}},
	UpdateAll: true,
}

func (repo *PeriodRecordRepository) InsertOne(ctx context.Context, record models.PeriodRecord) error {
	record = normalizeRecord(record)
	return repo.database.WithContext(ctx).Clauses(upsertByDate).Create(&record).Error
}

func (repo *PeriodRecordRepository) InsertBatch(ctx context.Context, records []models.PeriodRecord) error {
	if len(records) == 0 {
		return nil
	}
	normalized := make([]models.PeriodRecord, 0, len(records))
	for _, record := range records {
		normalized = append(normalized, normalizeRecord(record))
	}
	return repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(upsertByDate).Create(&normalized).Error
	})
}

func (repo *PeriodRecordRepository) DeleteByDate(ctx context.Context, day time.Time) error {
	return repo.database.WithContext(ctx).
		Where("date = ?", models.CalendarDay(day)).
		Delete(&models.PeriodRecord{}).Error
}

func (repo *PeriodRecordRepository) DeleteByGroupID(ctx context.Context, groupID int64) error {
	return repo.database.WithContext(ctx).
		Where("period_group_id = ?", groupID).
		Delete(&models.PeriodRecord{}).Error
}

func (repo *PeriodRecordRepository) DeleteAll(ctx context.Context) error {
	return repo.database.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.PeriodRecord{}).Error
}

func (repo *PeriodRecordRepository) GetByDate(ctx context.Context, day time.Time) (models.PeriodRecord, bool, error) {
	record := models.PeriodRecord{}
	result := repo.database.WithContext(ctx).
		Where("date = ?", models.CalendarDay(day)).
		Limit(1).
		Find(&record)
	if result.Error != nil {
		return models.PeriodRecord{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.PeriodRecord{}, false, nil
	}
	return normalizeRecord(record), true, nil
}

func (repo *PeriodRecordRepository) GetByDateRange(ctx context.Context, from time.Time, to time.Time) ([]models.PeriodRecord, error) {
	records := make([]models.PeriodRecord, 0)
	if err := repo.database.WithContext(ctx).
		Where("date >= ? AND date <= ?", models.CalendarDay(from), models.CalendarDay(to)).
		Order("date ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return normalizeRecords(records), nil
}

func (repo *PeriodRecordRepository) AllStarts(ctx context.Context) ([]models.PeriodRecord, error) {
	records := make([]models.PeriodRecord, 0)
	if err := repo.database.WithContext(ctx).
		Where("record_type = ?", models.RecordTypeStart).
		Order("date DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return normalizeRecords(records), nil
}

func (repo *PeriodRecordRepository) AllRecords(ctx context.Context) ([]models.PeriodRecord, error) {
	records := make([]models.PeriodRecord, 0)
	if err := repo.database.WithContext(ctx).Order("date DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return normalizeRecords(records), nil
}

func (repo *PeriodRecordRepository) MaxGroupID(ctx context.Context) (int64, error) {
	var maxID int64
	if err := repo.database.WithContext(ctx).
		Model(&models.PeriodRecord{}).
		Select("COALESCE(MAX(period_group_id), 0)").
		Scan(&maxID).Error; err != nil {
		return 0, err
	}
	return maxID, nil
}

func normalizeRecord(record models.PeriodRecord) models.PeriodRecord {
	record.Date = models.CalendarDay(record.Date)
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	return record
}

func normalizeRecords(records []models.PeriodRecord) []models.PeriodRecord {
	for index := range records {
		records[index] = normalizeRecord(records[index])
	}
	return records
}
