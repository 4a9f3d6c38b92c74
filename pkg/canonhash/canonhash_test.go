package canonhash

import (
	"bytes"
	"testing"
)

func TestSumObjectDeterministic(t *testing.T) {
	type payload struct {
		Name    string   `json:"name"`
		Answers []string `json:"answers"`
	}
	p := payload{Name: "t1", Answers: []string{"a", "b"}}
	d1, c1, err := SumObject(p)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	d2, c2, err := SumObject(p)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !bytes.Equal(d1, d2) || !bytes.Equal(c1, c2) {
		t.Fatalf("expected identical digests and canonical bytes")
	}
	if len(d1) != 64 {
		t.Fatalf("expected a 64-byte digest, got %d", len(d1))
	}
}

func TestSumObjectDeterministicForMapOrder(t *testing.T) {
	a := map[string]any{"b": 2, "a": 1}
	b := map[string]any{"a": 1, "b": 2}
	da, _, err := SumObject(a)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	db, _, err := SumObject(b)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !bytes.Equal(da, db) {
		t.Fatalf("expected same digest regardless of map order")
	}
}

func TestSumObjectChangesWhenContentChanges(t *testing.T) {
	da, _, _ := SumObject(map[string]any{"a": 1})
	db, _, _ := SumObject(map[string]any{"a": 2})
	if bytes.Equal(da, db) {
		t.Fatalf("expected different digests")
	}
}

func TestHexSHA256Length(t *testing.T) {
	id := HexSHA256([]byte("token"))
	if len(id) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(id))
	}
	if id == HexSHA256([]byte("other")) {
		t.Fatalf("expected different ids for different inputs")
	}
}
