package domain

import "testing"

func TestKey(t *testing.T) {
	tests := []struct {
		name  string
		movie Movie
		want  string
	}{
		{"id wins over title", Movie{ID: "42", Title: "Alpha"}, "id:42"},
		{"title fallback is lower-cased", Movie{Title: "ALPHA"}, "title:alpha"},
		{"empty movie", Movie{}, "title:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.movie.Key(); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDedupe(t *testing.T) {
	in := []Movie{
		{ID: "1", Title: "Alpha"},
		{Title: "Beta"},
		{ID: "1", Title: "Alpha Remastered"}, // same id
		{Title: "BETA"},                      // same title, different case
		{Title: "Gamma"},
	}
	out := Dedupe(in)
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	// First occurrence wins and order is preserved.
	if out[0].Title != "Alpha" || out[1].Title != "Beta" || out[2].Title != "Gamma" {
		t.Errorf("order changed: %+v", out)
	}
}

func TestDedupeEmpty(t *testing.T) {
	if out := Dedupe(nil); len(out) != 0 {
		t.Errorf("Dedupe(nil) = %v, want empty", out)
	}
}
