package models

import "time"

type RecordType int

const (
	RecordTypeNone  RecordType = 0
	RecordTypeStart RecordType = 1
	RecordTypeMid   RecordType = 2
	RecordTypeEnd   RecordType = 3
)

const (
	DefaultLutealDays         = 14
	DefaultPeriodDurationDays = 4
	MinLutealDays             = 7
	MaxLutealDays             = 20
	MaxPeriodDurationDays     = 14
	DateLayout                = "2006-01-02"
)

func (recordType RecordType) String() string {
	switch recordType {
	case RecordTypeStart:
		return "start"
	case RecordTypeMid:
		return "mid"
	case RecordTypeEnd:
		return "end"
	default:
		return "none"
	}
}

func (recordType RecordType) IsPeriod() bool {
	return recordType >= RecordTypeStart && recordType <= RecordTypeEnd
}

// PeriodRecord marks one calendar day as part of a period. Records that share
// PeriodGroupID form a single contiguous run: one START on the earliest day,
// MID days in between and an END on the latest day when the run spans more
// than one day.
type PeriodRecord struct {
	Date          time.Time  `gorm:"primaryKey;type:date"`
	RecordType    RecordType `gorm:"not null;default:0;index"`
	PeriodGroupID int64      `gorm:"not null;index"`
	CreatedAt     time.Time  `gorm:"not null"`
}

func NewPeriodRecord(day time.Time, recordType RecordType, groupID int64, createdAt time.Time) PeriodRecord {
	return PeriodRecord{
		Date:          CalendarDay(day),
		RecordType:    recordType,
		PeriodGroupID: groupID,
		CreatedAt:     createdAt,
	}
}

func (record PeriodRecord) DayKey() string {
	return record.Date.Format(DateLayout)
}

// CalendarDay keeps the wall-clock date of value at midnight UTC so that day
// arithmetic never crosses a DST boundary.
func CalendarDay(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func ParseCalendarDay(raw string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, raw, time.UTC)
}
