package model

import (
	"encoding/json"
	"testing"
)

func TestIDAcceptsStringsAndNumbers(t *testing.T) {
	var grade Grade
	if err := json.Unmarshal([]byte(`{"id":"grade-1700000000","assignment":"Quiz"}`), &grade); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if grade.ID != "grade-1700000000" {
		t.Fatalf("unexpected id %q", grade.ID)
	}

	// Older clients write Date.now() numbers as ids.
	if err := json.Unmarshal([]byte(`{"id":1700000000123,"assignment":"Quiz"}`), &grade); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if grade.ID != "1700000000123" {
		t.Fatalf("unexpected id %q", grade.ID)
	}
}

func TestIDNumericRoundTrip(t *testing.T) {
	data, err := json.Marshal(ID("1700000000123"))
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if string(data) != "1700000000123" {
		t.Fatalf("expected numeric id to stay a number, got %s", data)
	}

	data, err = json.Marshal(ID("grade-7"))
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if string(data) != `"grade-7"` {
		t.Fatalf("expected string id to stay a string, got %s", data)
	}
}
