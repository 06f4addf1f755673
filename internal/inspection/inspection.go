package inspection

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnknownStatus = errors.New("unknown inspection status")
	ErrInvalidRecord = errors.New("invalid inspection record")
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSynced  Status = "synced"
)

func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, nil
	case StatusSynced:
		return StatusSynced, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
}

// OptionalTime is a timestamp that is either present or absent.
type OptionalTime struct {
	at  time.Time
	set bool
}

func SomeTime(t time.Time) OptionalTime {
	return OptionalTime{at: t.UTC(), set: true}
}

func NoTime() OptionalTime {
	return OptionalTime{}
}

// OptionalTimeFromPtr maps nil to absent.
func OptionalTimeFromPtr(t *time.Time) OptionalTime {
	if t == nil {
		return NoTime()
	}
	return SomeTime(*t)
}

func (o OptionalTime) Get() (time.Time, bool) {
	return o.at, o.set
}

func (o OptionalTime) IsSet() bool {
	return o.set
}

// Ptr returns a fresh pointer, or nil when absent.
func (o OptionalTime) Ptr() *time.Time {
	if !o.set {
		return nil
	}
	t := o.at
	return &t
}

// Inspection is one field inspection report. Values are immutable; the
// mutating helpers return modified copies.
type Inspection struct {
	id         string
	location   string
	technician string
	findings   string
	status     Status
	createdAt  time.Time
	syncedAt   OptionalTime
}

// Fields is the flat form used to rebuild an Inspection from storage.
type Fields struct {
	ID         string
	Location   string
	Technician string
	Findings   string
	Status     Status
	CreatedAt  time.Time
	SyncedAt   OptionalTime
}

func NewPending(id, location, technician, findings string, createdAt time.Time) Inspection {
	return Inspection{
		id:         id,
		location:   location,
		technician: technician,
		findings:   findings,
		status:     StatusPending,
		createdAt:  createdAt.UTC(),
	}
}

func NewSynced(id, location, technician, findings string, createdAt, syncedAt time.Time) Inspection {
	return Inspection{
		id:         id,
		location:   location,
		technician: technician,
		findings:   findings,
		status:     StatusSynced,
		createdAt:  createdAt.UTC(),
		syncedAt:   SomeTime(syncedAt),
	}
}

// Restore validates f and builds the Inspection it describes.
func Restore(f Fields) (Inspection, error) {
	if strings.TrimSpace(f.ID) == "" {
		return Inspection{}, fmt.Errorf("%w: empty id", ErrInvalidRecord)
	}
	switch f.Status {
	case StatusPending:
		if f.SyncedAt.IsSet() {
			return Inspection{}, fmt.Errorf("%w: pending record %s has synced_at", ErrInvalidRecord, f.ID)
		}
		return NewPending(f.ID, f.Location, f.Technician, f.Findings, f.CreatedAt), nil
	case StatusSynced:
		at, ok := f.SyncedAt.Get()
		if !ok {
			return Inspection{}, fmt.Errorf("%w: synced record %s without synced_at", ErrInvalidRecord, f.ID)
		}
		return NewSynced(f.ID, f.Location, f.Technician, f.Findings, f.CreatedAt, at), nil
	default:
		return Inspection{}, fmt.Errorf("%w: %q", ErrUnknownStatus, f.Status)
	}
}

func (i Inspection) ID() string             { return i.id }
func (i Inspection) Location() string       { return i.location }
func (i Inspection) Technician() string     { return i.technician }
func (i Inspection) Findings() string       { return i.findings }
func (i Inspection) Status() Status         { return i.status }
func (i Inspection) CreatedAt() time.Time   { return i.createdAt }
func (i Inspection) SyncedAt() OptionalTime { return i.syncedAt }

func (i Inspection) Fields() Fields {
	return Fields{
		ID:         i.id,
		Location:   i.location,
		Technician: i.technician,
		Findings:   i.findings,
		Status:     i.status,
		CreatedAt:  i.createdAt,
		SyncedAt:   i.syncedAt,
	}
}

// MarkSynced moves a pending record to synced. An already synced record is
// returned unchanged so its original synced_at survives.
func (i Inspection) MarkSynced(now time.Time) Inspection {
	if i.status == StatusSynced {
		return i
	}
	return NewSynced(i.id, i.location, i.technician, i.findings, i.createdAt, now)
}

// View is the wire representation shared by the HTTP API and the push stream.
type View struct {
	ID         string     `json:"id"`
	Location   string     `json:"location"`
	Technician string     `json:"technician"`
	Findings   string     `json:"findings"`
	Status     Status     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	SyncedAt   *time.Time `json:"syncedAt,omitempty"`
}

func (i Inspection) View() View {
	return View{
		ID:         i.id,
		Location:   i.location,
		Technician: i.technician,
		Findings:   i.findings,
		Status:     i.status,
		CreatedAt:  i.createdAt,
		SyncedAt:   i.syncedAt.Ptr(),
	}
}

func (i Inspection) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.View())
}

func Views(items []Inspection) []View {
	out := make([]View, 0, len(items))
	for _, it := range items {
		out = append(out, it.View())
	}
	return out
}
