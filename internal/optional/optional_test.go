package optional

import (
	"encoding/json"
	"testing"
)

type payload struct {
	Name  Field[string] `json:"name"`
	Count Field[int64]  `json:"count"`
}

func TestUnmarshalDistinguishesAbsentNullAndValue(t *testing.T) {
	var p payload
	if err := json.Unmarshal([]byte(`{"name":null}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !p.Name.Set || !p.Name.Null {
		t.Fatalf("name should be set and null: %+v", p.Name)
	}
	if p.Name.Present() {
		t.Fatalf("null field must not be present")
	}
	if p.Count.Set {
		t.Fatalf("count was absent: %+v", p.Count)
	}
}

func TestUnmarshalValue(t *testing.T) {
	var p payload
	if err := json.Unmarshal([]byte(`{"name":"Drew","count":3}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !p.Name.Present() || p.Name.Value != "Drew" {
		t.Fatalf("name = %+v", p.Name)
	}
	if got := p.Count.Ptr(); got == nil || *got != 3 {
		t.Fatalf("count ptr = %v", got)
	}
}

func TestUnmarshalTypeMismatch(t *testing.T) {
	var p payload
	err := json.Unmarshal([]byte(`{"count":"three"}`), &p)
	if err == nil {
		t.Fatalf("expected type error")
	}
}

func TestConstructors(t *testing.T) {
	if f := Of("x"); !f.Present() || f.Value != "x" {
		t.Fatalf("Of = %+v", f)
	}
	if f := Null[string](); !f.Set || !f.Null || f.Ptr() != nil {
		t.Fatalf("Null = %+v", f)
	}
	var absent Field[bool]
	if absent.Ptr() != nil {
		t.Fatalf("absent ptr should be nil")
	}
}
