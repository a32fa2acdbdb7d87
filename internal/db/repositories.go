package db

import "gorm.io/gorm"

type Repositories struct {
	PeriodRecords *PeriodRecordRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		PeriodRecords: NewPeriodRecordRepository(database),
	}
}
