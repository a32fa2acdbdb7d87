package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/terraincognita07/cyclemark/internal/models"
)

type periodRecordStoreStub struct {
	records        map[string]models.PeriodRecord
	getErr         error
	rangeErr       error
	maxErr         error
	insertErr      error
	deleteGroupErr error
	deleteAllErr   error
	insertCalls    int
	batchCalls     int
}

func newPeriodRecordStoreStub() *periodRecordStoreStub {
	return &periodRecordStoreStub{records: make(map[string]models.PeriodRecord)}
}

func (stub *periodRecordStoreStub) dayKey(value time.Time) string {
	return value.Format("2006-01-02")
}

func (stub *periodRecordStoreStub) InsertOne(_ context.Context, record models.PeriodRecord) error {
	stub.insertCalls++
	if stub.insertErr != nil {
		return stub.insertErr
	}
	stub.records[stub.dayKey(record.Date)] = record
	return nil
}

func (stub *periodRecordStoreStub) InsertBatch(_ context.Context, records []models.PeriodRecord) error {
	stub.batchCalls++
	if stub.insertErr != nil {
		return stub.insertErr
	}
	for _, record := range records {
		stub.records[stub.dayKey(record.Date)] = record
	}
	return nil
}

func (stub *periodRecordStoreStub) DeleteByDate(_ context.Context, day time.Time) error {
	delete(stub.records, stub.dayKey(day))
	return nil
}

func (stub *periodRecordStoreStub) DeleteByGroupID(_ context.Context, groupID int64) error {
	if stub.deleteGroupErr != nil {
		return stub.deleteGroupErr
	}
	for key, record := range stub.records {
		if record.PeriodGroupID == groupID {
			delete(stub.records, key)
		}
	}
	return nil
}

func (stub *periodRecordStoreStub) DeleteAll(context.Context) error {
	if stub.deleteAllErr != nil {
		return stub.deleteAllErr
	}
	stub.records = make(map[string]models.PeriodRecord)
	return nil
}

func (stub *periodRecordStoreStub) GetByDate(_ context.Context, day time.Time) (models.PeriodRecord, bool, error) {
	if stub.getErr != nil {
		return models.PeriodRecord{}, false, stub.getErr
	}
	record, ok := stub.records[stub.dayKey(day)]
	return record, ok, nil
}

func (stub *periodRecordStoreStub) GetByDateRange(_ context.Context, from time.Time, to time.Time) ([]models.PeriodRecord, error) {
	if stub.rangeErr != nil {
		return nil, stub.rangeErr
	}
	records := make([]models.PeriodRecord, 0)
	for _, record := range stub.records {
		if record.Date.Before(from) || record.Date.After(to) {
			continue
		}
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return records, nil
}

func (stub *periodRecordStoreStub) AllStarts(ctx context.Context) ([]models.PeriodRecord, error) {
	all, _ := stub.AllRecords(ctx)
	starts := make([]models.PeriodRecord, 0)
	for _, record := range all {
		if record.RecordType == models.RecordTypeStart {
			starts = append(starts, record)
		}
	}
	return starts, nil
}

func (stub *periodRecordStoreStub) AllRecords(context.Context) ([]models.PeriodRecord, error) {
	records := make([]models.PeriodRecord, 0, len(stub.records))
	for _, record := range stub.records {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
	return records, nil
}

func (stub *periodRecordStoreStub) MaxGroupID(context.Context) (int64, error) {
	if stub.maxErr != nil {
		return 0, stub.maxErr
	}
	var maxID int64
	for _, record := range stub.records {
		if record.PeriodGroupID > maxID {
			maxID = record.PeriodGroupID
		}
	}
	return maxID, nil
}

func (stub *periodRecordStoreStub) seedRun(t *testing.T, start string, end string, groupID int64) {
	t.Helper()
	for _, record := range BuildPeriodRun(mustParseDay(t, start), mustParseDay(t, end), groupID, time.Time{}) {
		stub.records[stub.dayKey(record.Date)] = record
	}
}

func mustParseDay(t *testing.T, raw string) time.Time {
	t.Helper()
	value, err := models.ParseCalendarDay(raw)
	if err != nil {
		t.Fatalf("parse day %q: %v", raw, err)
	}
	return value
}

func formatDay(value time.Time) string {
	return value.Format("2006-01-02")
}
