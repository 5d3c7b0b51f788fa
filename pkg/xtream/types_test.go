package xtream

import (
	"encoding/json"
	"testing"
)

func TestFlexInt_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{name: "number", input: `42`, want: 42},
		{name: "string number", input: `"42"`, want: 42},
		{name: "empty string", input: `""`, want: 0},
		{name: "garbage string", input: `"abc"`, want: 0},
		{name: "null", input: `null`, want: 0},
		{name: "negative", input: `-7`, want: -7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexInt
			if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.Int() != tt.want {
				t.Errorf("expected %d, got %d", tt.want, f.Int())
			}
		})
	}
}

func TestFlexString_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "string", input: `"news"`, want: "news"},
		{name: "number", input: `12`, want: "12"},
		{name: "float", input: `1.5`, want: "1.5"},
		{name: "null", input: `null`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexString
			if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, f.String())
			}
		})
	}
}

func TestCategory_MixedIDTypes(t *testing.T) {
	// Providers disagree on whether category_id is a string or a number.
	payload := `[{"category_id":"1","category_name":"News"},{"category_id":2,"category_name":"Sports"}]`

	var categories []Category
	if err := json.Unmarshal([]byte(payload), &categories); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if categories[0].CategoryID.String() != "1" {
		t.Errorf("expected category id '1', got %q", categories[0].CategoryID.String())
	}
	if categories[1].CategoryID.String() != "2" {
		t.Errorf("expected category id '2', got %q", categories[1].CategoryID.String())
	}
}
