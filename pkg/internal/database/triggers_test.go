package database

import (
	"strings"
	"testing"
)

func TestTriggerStatements(t *testing.T) {
	statements, err := triggerStatements("scribe_changes")
	if err != nil {
		t.Fatalf("triggerStatements: %v", err)
	}

	joined := strings.Join(statements, "\n")
	if !strings.Contains(joined, "pg_notify('scribe_changes', body)") {
		t.Error("broadcast function does not notify the configured channel")
	}
	for _, table := range RealtimeTables {
		if !strings.Contains(joined, "ON "+table+" FOR EACH ROW EXECUTE FUNCTION scribe_realtime_broadcast()") {
			t.Errorf("table %s is not broadcast", table)
		}
	}
}

func TestTriggerStatementsRejectsBadChannel(t *testing.T) {
	for _, channel := range []string{"", "Scribe", "x'); DROP TABLE posts; --", "1abc"} {
		if _, err := triggerStatements(channel); err == nil {
			t.Errorf("channel %q was accepted", channel)
		}
	}
}
