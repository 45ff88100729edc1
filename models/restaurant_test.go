package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDetailResultFieldsDegradedVariant(t *testing.T) {
	r := DetailResult{URL: "https://guide.example.com/r/x", Err: "boom"}

	if !r.Failed() {
		t.Fatal("a result without a detail is failed")
	}

	fields := r.Fields()
	if len(fields) != 2 {
		t.Errorf("degraded record must carry exactly url and error, got %v", fields)
	}
	if fields["url"] != r.URL || fields["error"] != "boom" {
		t.Errorf("degraded record mismatch: %v", fields)
	}
}

func TestDetailResultFieldsAlwaysKeyed(t *testing.T) {
	r := DetailResult{
		URL:    "https://guide.example.com/r/x",
		Detail: &Detail{URL: "https://guide.example.com/r/x"},
	}

	fields := r.Fields()
	for _, key := range []string{
		"url", "address", "phone", "description", "opening_hours",
		"price_range", "cuisine_type", "website", "facilities",
		"nearby_restaurants", "name", "location", "stars", "distinction",
	} {
		if _, ok := fields[key]; !ok {
			t.Errorf("missing schema key %q", key)
		}
	}

	if fields["opening_hours"] != Unavailable {
		t.Errorf("nil hours must export as the sentinel, got %v", fields["opening_hours"])
	}
}

func TestDetailResultMarshalsThroughFields(t *testing.T) {
	r := DetailResult{URL: "https://guide.example.com/r/x", Err: "boom"}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"error":"boom"`) {
		t.Errorf("degraded JSON should carry the error field: %s", data)
	}
	if strings.Contains(string(data), "address") {
		t.Errorf("degraded JSON must not carry schema fields: %s", data)
	}
}
