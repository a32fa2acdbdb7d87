package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestConfigureProductionUsesJSON(t *testing.T) {
	var out bytes.Buffer
	log := logrus.New()
	Configure(log, &out, "debug", "Production")

	log.WithField("date", "2024-01-01").Info("period click applied")

	entries := decodeJSONEntries(t, &out)
	if len(entries) != 2 {
		t.Fatalf("expected the level notice and the click entry, got %d entries", len(entries))
	}
	last := entries[len(entries)-1]
	if last["msg"] != "period click applied" || last["date"] != "2024-01-01" {
		t.Fatalf("expected date field in JSON entry, got %v", last)
	}
	if log.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %s", log.GetLevel())
	}
}

func TestConfigureProductionWarnsAboutInvalidLevelInJSON(t *testing.T) {
	var out bytes.Buffer
	log := logrus.New()
	Configure(log, &out, "loud", "staging")

	entries := decodeJSONEntries(t, &out)
	if len(entries) != 1 {
		t.Fatalf("expected a single warning entry, got %d", len(entries))
	}
	if entries[0]["level"] != "warning" || !strings.Contains(fmt.Sprint(entries[0]["msg"]), "invalid log level") {
		t.Fatalf("expected JSON warning about the invalid level, got %v", entries[0])
	}
}

func decodeJSONEntries(t *testing.T, out *bytes.Buffer) []map[string]any {
	t.Helper()
	raw := out.String()
	decoder := json.NewDecoder(out)
	entries := make([]map[string]any, 0)
	for {
		entry := map[string]any{}
		err := decoder.Decode(&entry)
		if errors.Is(err, io.EOF) {
			return entries
		}
		if err != nil {
			t.Fatalf("expected JSON output, got %q: %v", raw, err)
		}
		entries = append(entries, entry)
	}
}

func TestConfigureDevelopmentUsesText(t *testing.T) {
	var out bytes.Buffer
	log := logrus.New()
	Configure(log, &out, "info", "development")

	log.Info("ready")

	if !strings.Contains(out.String(), `msg=ready`) {
		t.Fatalf("expected text formatter output, got %q", out.String())
	}
}

func TestConfigureInvalidLevelFallsBackToInfo(t *testing.T) {
	var out bytes.Buffer
	log := logrus.New()
	Configure(log, &out, "loud", "")

	if log.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info level fallback, got %s", log.GetLevel())
	}
	if !strings.Contains(out.String(), "invalid log level") {
		t.Fatalf("expected warning about the invalid level, got %q", out.String())
	}
}

func TestIsStructuredEnvironment(t *testing.T) {
	cases := map[string]bool{
		"production":  true,
		" STAGING ":   true,
		"development": false,
		"":            false,
		"test":        false,
	}
	for environment, want := range cases {
		if got := IsStructuredEnvironment(environment); got != want {
			t.Fatalf("IsStructuredEnvironment(%q) = %v, want %v", environment, got, want)
		}
	}
}
