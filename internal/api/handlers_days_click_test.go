package api

import (
	"net/http"
	"testing"

	"github.com/terraincognita07/cyclemark/internal/services"
)

func TestClickDayStartsAndCompletesPeriod(t *testing.T) {
	t.Parallel()

	env := newTestApp(t)
	token := env.token(t)

	started := env.click(t, token, "2024-01-01")
	if started.Action != services.ClickActionStart {
		t.Fatalf("expected start action, got %q", started.Action)
	}
	if started.PendingStart == nil || *started.PendingStart != "2024-01-01" {
		t.Fatalf("expected pending start 2024-01-01, got %v", started.PendingStart)
	}
	if len(started.Records) != 1 || started.Records[0].RecordType != "start" {
		t.Fatalf("expected one start record, got %+v", started.Records)
	}

	completed := env.click(t, token, "2024-01-05")
	if completed.Action != services.ClickActionComplete || completed.PendingStart != nil {
		t.Fatalf("expected completed period with no pending start, got %+v", completed)
	}

	response := env.request(t, http.MethodGet, "/api/records?from=2024-01-01&to=2024-01-31", token, nil)
	assertStatus(t, response, http.StatusOK)
	records := decodeJSON[[]RecordView](t, response.Body)

	want := []RecordView{
		{Date: "2024-01-01", RecordType: "start", GroupID: completed.GroupID},
		{Date: "2024-01-02", RecordType: "mid", GroupID: completed.GroupID},
		{Date: "2024-01-03", RecordType: "mid", GroupID: completed.GroupID},
		{Date: "2024-01-04", RecordType: "mid", GroupID: completed.GroupID},
		{Date: "2024-01-05", RecordType: "end", GroupID: completed.GroupID},
	}
	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %+v", len(want), records)
	}
	for index := range want {
		if records[index] != want[index] {
			t.Fatalf("record %d: expected %+v, got %+v", index, want[index], records[index])
		}
	}
}

func TestClickDayOnRecordedDayDeletesPeriod(t *testing.T) {
	t.Parallel()

	env := newTestApp(t)
	token := env.token(t)
	env.click(t, token, "2024-01-01")
	env.click(t, token, "2024-01-05")

	deleted := env.click(t, token, "2024-01-03")
	if deleted.Action != services.ClickActionDelete {
		t.Fatalf("expected delete action, got %q", deleted.Action)
	}

	response := env.request(t, http.MethodGet, "/api/records?from=2024-01-01&to=2024-01-31", token, nil)
	assertStatus(t, response, http.StatusOK)
	if records := decodeJSON[[]RecordView](t, response.Body); len(records) != 0 {
		t.Fatalf("expected the whole period to be removed, got %+v", records)
	}
}

func TestClickDayBeforePendingStartIsRejected(t *testing.T) {
	t.Parallel()

	env := newTestApp(t)
	token := env.token(t)
	env.click(t, token, "2024-02-10")

	response := env.request(t, http.MethodPost, "/api/days/2024-02-05/click", token, nil)
	assertStatus(t, response, http.StatusUnprocessableEntity)
	payload := decodeJSON[map[string]any](t, response.Body)
	if payload["action"] != string(services.ClickActionIgnore) {
		t.Fatalf("expected ignore action, got %v", payload["action"])
	}
	if payload["pending_start"] != nil {
		t.Fatalf("expected pending start to be cleared, got %v", payload["pending_start"])
	}

	records := env.request(t, http.MethodGet, "/api/records?from=2024-02-01&to=2024-02-29", token, nil)
	assertStatus(t, records, http.StatusOK)
	if got := decodeJSON[[]RecordView](t, records.Body); len(got) != 1 || got[0].Date != "2024-02-10" {
		t.Fatalf("expected only the original start to remain, got %+v", got)
	}
}

func TestClickStateCanBeReadAndReset(t *testing.T) {
	t.Parallel()

	env := newTestApp(t)
	token := env.token(t)
	env.click(t, token, "2024-03-01")

	response := env.request(t, http.MethodGet, "/api/click-state", token, nil)
	assertStatus(t, response, http.StatusOK)
	state := decodeJSON[ClickView](t, response.Body)
	if state.PendingStart == nil || *state.PendingStart != "2024-03-01" {
		t.Fatalf("expected pending start 2024-03-01, got %v", state.PendingStart)
	}

	reset := env.request(t, http.MethodDelete, "/api/click-state", token, nil)
	assertStatus(t, reset, http.StatusNoContent)

	after := env.request(t, http.MethodGet, "/api/click-state", token, nil)
	assertStatus(t, after, http.StatusOK)
	if state := decodeJSON[ClickView](t, after.Body); state.PendingStart != nil {
		t.Fatalf("expected pending start to be cleared, got %v", *state.PendingStart)
	}
}

func TestClickDayStoreFailureKeepsState(t *testing.T) {
	t.Parallel()

	base := newTestApp(t)
	env := newTestAppWithStore(t, failingStore{PeriodRecordStore: base.store})
	token := env.token(t)

	response := env.request(t, http.MethodPost, "/api/days/2024-01-01/click", token, nil)
	assertStatus(t, response, http.StatusInternalServerError)
	if message := readAPIError(t, response.Body); message != "failed to load period records" {
		t.Fatalf("expected load failure message, got %q", message)
	}

	if state := env.handler.session.State(); state.AwaitingEnd() {
		t.Fatalf("expected state to stay idle after a failed click, got %v", state.PendingStart)
	}
}

func TestClickDayRejectsInvalidDate(t *testing.T) {
	t.Parallel()

	env := newTestApp(t)
	response := env.request(t, http.MethodPost, "/api/days/2024-13-40/click", env.token(t), nil)
	assertStatus(t, response, http.StatusBadRequest)
}
