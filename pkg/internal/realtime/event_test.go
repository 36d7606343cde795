package realtime

import (
	"testing"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
)

func TestParseEvent(t *testing.T) {
	payload := `{
		"table": "comments",
		"type": "INSERT",
		"record": {"id": 12, "post_id": 4, "author_id": 9, "content": "Nice post", "is_edited": false},
		"old_record": null,
		"commit_timestamp": "2024-05-01T12:00:00.123456+00:00"
	}`

	evt, err := ParseEvent(payload)
	if err != nil {
		t.Fatalf("ParseEvent: %v", err)
	}
	if evt.Table != "comments" || evt.Type != EventInsert || evt.ID() != 12 {
		t.Fatalf("unexpected event %+v", evt)
	}

	var comment models.Comment
	if err := evt.Decode(&comment); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if comment.ID != 12 || comment.PostID != 4 || comment.Content != "Nice post" {
		t.Errorf("unexpected comment %+v", comment)
	}
}

func TestParseEventRejectsUnknownType(t *testing.T) {
	if _, err := ParseEvent(`{"table":"posts","type":"TRUNCATE"}`); err == nil {
		t.Fatal("expected an error for an unknown event type")
	}
	if _, err := ParseEvent(`not json`); err == nil {
		t.Fatal("expected an error for a malformed payload")
	}
}

func TestDeleteRowComesFromOldRecord(t *testing.T) {
	evt := Event{Table: "posts", Type: EventDelete, OldRecord: map[string]any{"id": float64(3)}}
	if evt.ID() != 3 {
		t.Errorf("expected id 3, got %d", evt.ID())
	}
}

func TestFilterMatch(t *testing.T) {
	row := map[string]any{"post_id": float64(7), "user_id": nil}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"zero filter", Filter{}, true},
		{"numeric match", Filter{Column: "post_id", Value: uint(7)}, true},
		{"numeric mismatch", Filter{Column: "post_id", Value: 8}, false},
		{"null column", Filter{Column: "user_id", Value: 1}, false},
		{"missing column", Filter{Column: "author_id", Value: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Match(row); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterMatchLargeIdentifiers(t *testing.T) {
	row := map[string]any{"user_id": float64(1_000_000)}
	if !(Filter{Column: "user_id", Value: uint(1_000_000)}).Match(row) {
		t.Error("large identifiers must compare by value")
	}
}
