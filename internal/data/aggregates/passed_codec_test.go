package aggregates

import (
	"testing"

	"gorm.io/datatypes"
)

func TestDecodePassed_EmptyColumn(t *testing.T) {
	for _, raw := range []datatypes.JSON{nil, datatypes.JSON([]byte("")), datatypes.JSON([]byte("{}")), datatypes.JSON([]byte("null"))} {
		m, err := decodePassed(raw)
		if err != nil {
			t.Fatalf("decode %q: %v", raw, err)
		}
		if m == nil || len(m) != 0 {
			t.Fatalf("expected empty map for %q, got %v", raw, m)
		}
	}
}

func TestDecodePassed_RoundTripKeepsBuckets(t *testing.T) {
	in := map[string][]string{
		"level_1":   {"sales.l1.arrival.0", "sales.l1.discovery.1"},
		"2:primary": {"bdc.l2.primary.0"},
	}
	raw, err := encodePassed(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := decodePassed(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 buckets, got %v", out)
	}
	if len(out["level_1"]) != 2 || out["2:primary"][0] != "bdc.l2.primary.0" {
		t.Fatalf("round trip lost entries: %v", out)
	}
}

func TestDecodePassed_MalformedColumn(t *testing.T) {
	if _, err := decodePassed(datatypes.JSON([]byte("not json"))); err == nil {
		t.Fatalf("expected error for malformed column")
	}
}
