package inspection

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"pending", StatusPending, false},
		{" Synced ", StatusSynced, false},
		{"done", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownStatus) {
				t.Fatalf("ParseStatus(%q) err=%v want ErrUnknownStatus", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseStatus(%q) = %q, %v want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestNewPendingHasNoSyncedAt(t *testing.T) {
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.FixedZone("x", 3600))
	rec := NewPending("a1", "Site A", "J. Doe", "No issues found", created)
	if rec.Status() != StatusPending {
		t.Fatalf("status=%s want pending", rec.Status())
	}
	if rec.SyncedAt().IsSet() {
		t.Fatalf("pending record has synced_at")
	}
	if rec.CreatedAt().Location() != time.UTC {
		t.Fatalf("created_at not normalized to UTC")
	}
	if !rec.CreatedAt().Equal(created) {
		t.Fatalf("created_at=%s want %s", rec.CreatedAt(), created)
	}
}

func TestMarkSynced(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := created.Add(time.Hour)
	rec := NewPending("a1", "Site A", "J. Doe", "No issues found", created).MarkSynced(now)
	if rec.Status() != StatusSynced {
		t.Fatalf("status=%s want synced", rec.Status())
	}
	at, ok := rec.SyncedAt().Get()
	if !ok || !at.Equal(now) {
		t.Fatalf("synced_at=%v,%v want %s", at, ok, now)
	}
	if !rec.CreatedAt().Equal(created) {
		t.Fatalf("created_at changed")
	}

	again := rec.MarkSynced(now.Add(time.Hour))
	at2, _ := again.SyncedAt().Get()
	if !at2.Equal(now) {
		t.Fatalf("second MarkSynced overwrote synced_at: %s", at2)
	}
}

func TestRestoreRejectsBrokenInvariant(t *testing.T) {
	now := time.Now()
	_, err := Restore(Fields{ID: "a1", Status: StatusSynced, CreatedAt: now})
	if !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("synced without synced_at: err=%v", err)
	}
	_, err = Restore(Fields{ID: "a1", Status: StatusPending, CreatedAt: now, SyncedAt: SomeTime(now)})
	if !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("pending with synced_at: err=%v", err)
	}
	_, err = Restore(Fields{ID: "a1", Status: "archived", CreatedAt: now})
	if !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("unknown status: err=%v", err)
	}
	rec, err := Restore(Fields{ID: "a1", Location: "Site A", Status: StatusSynced, CreatedAt: now, SyncedAt: SomeTime(now)})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if rec.Location() != "Site A" || rec.Status() != StatusSynced {
		t.Fatalf("restored=%+v", rec.Fields())
	}
}

func TestJSONOmitsAbsentSyncedAt(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	raw, err := json.Marshal(NewPending("a1", "Site A", "J. Doe", "No issues found", created))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(raw)
	if strings.Contains(s, "syncedAt") {
		t.Fatalf("pending json contains syncedAt: %s", s)
	}
	if !strings.Contains(s, `"createdAt":"2024-01-01T00:00:00Z"`) {
		t.Fatalf("createdAt not RFC3339: %s", s)
	}

	raw, _ = json.Marshal(NewSynced("a1", "Site A", "J. Doe", "No issues found", created, created.Add(time.Minute)))
	if !strings.Contains(string(raw), `"syncedAt":"2024-01-01T00:01:00Z"`) {
		t.Fatalf("synced json=%s", raw)
	}
}
