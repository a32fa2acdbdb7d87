package db

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/peterbourgon/diskv/v3"
	"github.com/terraincognita07/cyclemark/internal/models"
)

// DiskPeriodStore keeps one JSON document per calendar day on disk. Keys are
// ISO dates laid out as <year>/<month>/<date> so a directory never grows past
// a month of files.
type DiskPeriodStore struct {
	mu sync.RWMutex
	d  *diskv.Diskv
}

const secondsPerDay = 24 * 60 * 60

type diskRecord struct {
	Date          string            `json:"date"`
	RecordType    models.RecordType `json:"record_type"`
	PeriodGroupID int64             `json:"period_group_id"`
	CreatedAt     time.Time         `json:"created_at"`
}

func NewDiskPeriodStore(basePath string) *DiskPeriodStore {
	return &DiskPeriodStore{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: dayKeyToPath,
		InverseTransform:  pathToDayKey,
		CacheSizeMax:      1024 * 1024,
	})}
}

func dayKeyToPath(key string) *diskv.PathKey {
	parts := strings.Split(key, "-")
	if len(parts) != 3 {
		return &diskv.PathKey{FileName: key}
	}
	return &diskv.PathKey{
		Path:     parts[:2],
		FileName: key,
	}
}

func pathToDayKey(pathKey *diskv.PathKey) string {
	return pathKey.FileName
}

func (store *DiskPeriodStore) InsertOne(ctx context.Context, record models.PeriodRecord) error {
	return store.InsertBatch(ctx, []models.PeriodRecord{record})
}

func (store *DiskPeriodStore) InsertBatch(ctx context.Context, records []models.PeriodRecord) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		record = normalizeRecord(record)
		payload, err := json.Marshal(diskRecord{
			Date:          record.DayKey(),
			RecordType:    record.RecordType,
			PeriodGroupID: record.PeriodGroupID,
			CreatedAt:     record.CreatedAt,
		})
		if err != nil {
			return fmt.Errorf("encode record %s: %w", record.DayKey(), err)
		}
		if err := store.d.Write(record.DayKey(), payload); err != nil {
			return fmt.Errorf("write record %s: %w", record.DayKey(), err)
		}
	}
	return nil
}

func (store *DiskPeriodStore) DeleteByDate(_ context.Context, day time.Time) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	key := models.CalendarDay(day).Format(models.DateLayout)
	if !store.d.Has(key) {
		return nil
	}
	return store.d.Erase(key)
}

func (store *DiskPeriodStore) DeleteByGroupID(ctx context.Context, groupID int64) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	records, err := store.scanLocked(ctx)
	if err != nil {
		return err
	}
	for _, record := range records {
		if record.PeriodGroupID != groupID {
			continue
		}
		if err := store.d.Erase(record.DayKey()); err != nil {
			return fmt.Errorf("erase record %s: %w", record.DayKey(), err)
		}
	}
	return nil
}

func (store *DiskPeriodStore) DeleteAll(_ context.Context) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.d.EraseAll()
}

func (store *DiskPeriodStore) GetByDate(_ context.Context, day time.Time) (models.PeriodRecord, bool, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	key := models.CalendarDay(day).Format(models.DateLayout)
	if !store.d.Has(key) {
		return models.PeriodRecord{}, false, nil
	}
	record, err := store.readLocked(key)
	if err != nil {
		return models.PeriodRecord{}, false, err
	}
	return record, true, nil
}

// maxProbedRangeDays is the widest range read with per-day lookups. Wider
// ranges walk the stored keys instead.
const maxProbedRangeDays = 366

func (store *DiskPeriodStore) GetByDateRange(ctx context.Context, from time.Time, to time.Time) ([]models.PeriodRecord, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	from = models.CalendarDay(from)
	to = models.CalendarDay(to)
	if to.Before(from) {
		return []models.PeriodRecord{}, nil
	}
	if (to.Unix()-from.Unix())/secondsPerDay >= maxProbedRangeDays {
		return store.scanRangeLocked(ctx, from, to)
	}

	records := make([]models.PeriodRecord, 0)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		key := day.Format(models.DateLayout)
		if !store.d.Has(key) {
			continue
		}
		record, err := store.readLocked(key)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// scanRangeLocked filters stored keys by their ISO date, which sorts the same
// way as the dates themselves.
func (store *DiskPeriodStore) scanRangeLocked(ctx context.Context, from time.Time, to time.Time) ([]models.PeriodRecord, error) {
	cancel := make(chan struct{})
	defer close(cancel)

	fromKey := from.Format(models.DateLayout)
	toKey := to.Format(models.DateLayout)
	records := make([]models.PeriodRecord, 0)
	for key := range store.d.Keys(cancel) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if key < fromKey || key > toKey {
			continue
		}
		record, err := store.readLocked(key)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return records, nil
}

func (store *DiskPeriodStore) AllStarts(ctx context.Context) ([]models.PeriodRecord, error) {
	all, err := store.AllRecords(ctx)
	if err != nil {
		return nil, err
	}
	starts := make([]models.PeriodRecord, 0, len(all))
	for _, record := range all {
		if record.RecordType == models.RecordTypeStart {
			starts = append(starts, record)
		}
	}
	return starts, nil
}

func (store *DiskPeriodStore) AllRecords(ctx context.Context) ([]models.PeriodRecord, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	records, err := store.scanLocked(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
	return records, nil
}

func (store *DiskPeriodStore) MaxGroupID(ctx context.Context) (int64, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	records, err := store.scanLocked(ctx)
	if err != nil {
		return 0, err
	}
	var maxID int64
	for _, record := range records {
		if record.PeriodGroupID > maxID {
			maxID = record.PeriodGroupID
		}
	}
	return maxID, nil
}

func (store *DiskPeriodStore) scanLocked(ctx context.Context) ([]models.PeriodRecord, error) {
	cancel := make(chan struct{})
	defer close(cancel)

	records := make([]models.PeriodRecord, 0)
	for key := range store.d.Keys(cancel) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := store.readLocked(key)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (store *DiskPeriodStore) readLocked(key string) (models.PeriodRecord, error) {
	payload, err := store.d.Read(key)
	if err != nil {
		return models.PeriodRecord{}, fmt.Errorf("read record %s: %w", key, err)
	}

	decoded := diskRecord{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return models.PeriodRecord{}, fmt.Errorf("decode record %s: %w", key, err)
	}
	day, err := models.ParseCalendarDay(decoded.Date)
	if err != nil {
		return models.PeriodRecord{}, fmt.Errorf("parse record date %q: %w", decoded.Date, err)
	}
	return models.PeriodRecord{
		Date:          day,
		RecordType:    decoded.RecordType,
		PeriodGroupID: decoded.PeriodGroupID,
		CreatedAt:     decoded.CreatedAt,
	}, nil
}
