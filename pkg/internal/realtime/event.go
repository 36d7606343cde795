package realtime

import (
	"fmt"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/mdobak/go-xerrors"
)

type EventType string

const (
	EventInsert = EventType("INSERT")
	EventUpdate = EventType("UPDATE")
	EventDelete = EventType("DELETE")
)

// Event is one row change emitted by the backend.
type Event struct {
	Table           string         `json:"table"`
	Type            EventType      `json:"type"`
	Record          map[string]any `json:"record"`
	OldRecord       map[string]any `json:"old_record"`
	Truncated       bool           `json:"truncated"`
	CommitTimestamp time.Time      `json:"commit_timestamp"`
}

func ParseEvent(payload string) (Event, error) {
	var evt Event
	if err := jsoniter.UnmarshalFromString(payload, &evt); err != nil {
		return evt, xerrors.New(fmt.Errorf("unable to decode change event: %w", err))
	}
	switch evt.Type {
	case EventInsert, EventUpdate, EventDelete:
	default:
		return evt, xerrors.New(fmt.Errorf("unknown change event type %q", evt.Type))
	}
	return evt, nil
}

// Row is the state the event leaves behind, or the removed row for deletions.
func (v Event) Row() map[string]any {
	if v.Type == EventDelete || v.Record == nil {
		return v.OldRecord
	}
	return v.Record
}

func (v Event) ID() uint {
	return ToUint(v.Row()["id"])
}

// Decode maps the row onto a model through its json tags.
func (v Event) Decode(out any) error {
	raw, err := jsoniter.Marshal(v.Row())
	if err != nil {
		return xerrors.New(err)
	}
	if err := jsoniter.Unmarshal(raw, out); err != nil {
		return xerrors.New(fmt.Errorf("unable to decode %s row: %w", v.Table, err))
	}
	return nil
}

func ToUint(value any) uint {
	switch val := value.(type) {
	case float64:
		return uint(val)
	case int:
		return uint(val)
	case int64:
		return uint(val)
	case uint:
		return val
	case string:
		out, _ := strconv.ParseUint(val, 10, 64)
		return uint(out)
	case jsoniter.Number:
		out, _ := strconv.ParseUint(val.String(), 10, 64)
		return uint(out)
	default:
		return 0
	}
}

// Filter scopes a subscription to rows whose column equals the value.
// A zero filter matches every row.
type Filter struct {
	Column string
	Value  any
}

func (v Filter) Match(row map[string]any) bool {
	if len(v.Column) == 0 {
		return true
	}
	val, ok := row[v.Column]
	if !ok || val == nil {
		return false
	}
	return stringify(val) == stringify(v.Value)
}

func stringify(value any) string {
	switch val := value.(type) {
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	default:
		return fmt.Sprint(val)
	}
}

func (v Filter) String() string {
	if len(v.Column) == 0 {
		return "*"
	}
	return fmt.Sprintf("%s=eq.%v", v.Column, v.Value)
}
