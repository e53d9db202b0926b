package models

import "testing"

func TestTableNames(t *testing.T) {
	if got := (Vouch{}).TableName(); got != "vouches" {
		t.Fatalf("unexpected Vouch table name: %s", got)
	}
}
