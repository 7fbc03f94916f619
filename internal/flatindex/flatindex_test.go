package flatindex

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"
)

func entry(label string, vector ...float32) Entry {
	return Entry{Label: label, Vector: vector}
}

func TestBuild_Validation(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		wantErr error
	}{
		{
			name:    "empty",
			entries: nil,
			wantErr: ErrEmptyIndex,
		},
		{
			name:    "zero dimension",
			entries: []Entry{{Label: "ham"}},
			wantErr: ErrDimensionMismatch,
		},
		{
			name: "mixed dimensions",
			entries: []Entry{
				entry("ham", 1, 0),
				entry("spam", 1, 0, 0),
			},
			wantErr: ErrDimensionMismatch,
		},
		{
			name: "valid",
			entries: []Entry{
				entry("ham", 1, 0),
				entry("spam", 0, 1),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix, err := Build(tt.entries)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Build error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if ix.Size() != len(tt.entries) {
				t.Errorf("Size = %d, want %d", ix.Size(), len(tt.entries))
			}
			if ix.Dim() != 2 {
				t.Errorf("Dim = %d, want 2", ix.Dim())
			}
		})
	}
}

func TestSearch_Ordering(t *testing.T) {
	ix, err := Build([]Entry{
		entry("ham", 0, 1),
		entry("spam", 1, 0),
		entry("spam", 0.6, 0.8),
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	matches, err := ix.Search([]float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	wantPos := []int{1, 2, 0} // similarities 1.0, 0.6, 0.0
	for i, m := range matches {
		if m.Pos != wantPos[i] {
			t.Errorf("match %d: pos = %d, want %d", i, m.Pos, wantPos[i])
		}
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Errorf("scores not descending: %v then %v", matches[i-1].Score, matches[i].Score)
		}
	}
}

func TestSearch_StableTies(t *testing.T) {
	// Three identical vectors: ties must keep insertion order.
	ix, err := Build([]Entry{
		entry("a", 1, 0),
		entry("b", 1, 0),
		entry("c", 1, 0),
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	matches, err := ix.Search([]float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	for i, m := range matches {
		if m.Pos != i {
			t.Errorf("tie order broken: match %d has pos %d", i, m.Pos)
		}
	}
}

func TestSearch_InvalidK(t *testing.T) {
	ix, err := Build([]Entry{entry("ham", 1, 0), entry("spam", 0, 1)})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for _, k := range []int{0, -1, 3} {
		if _, err := ix.Search([]float32{1, 0}, k); !errors.Is(err, ErrInvalidK) {
			t.Errorf("Search(k=%d) error = %v, want ErrInvalidK", k, err)
		}
	}
}

func TestSearch_QueryDimensionMismatch(t *testing.T) {
	ix, err := Build([]Entry{entry("ham", 1, 0)})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if _, err := ix.Search([]float32{1, 0, 0}, 1); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Search error = %v, want ErrDimensionMismatch", err)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	original, err := Build([]Entry{
		{ID: "a", Label: "spam", Text: "free money now", Vector: []float32{0.8012345, 0.5983512}},
		{ID: "b", Label: "ham", Text: "let's meet for lunch", Vector: []float32{-0.1234567, 0.99235}},
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	restored := &Index{}
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if restored.Dim() != original.Dim() || restored.Size() != original.Size() {
		t.Fatalf("restored shape %d/%d, want %d/%d",
			restored.Dim(), restored.Size(), original.Dim(), original.Size())
	}
	if !reflect.DeepEqual(restored.Entries(), original.Entries()) {
		t.Errorf("entries changed across round trip:\n got %+v\nwant %+v",
			restored.Entries(), original.Entries())
	}
}

func TestUnmarshal_Corrupt(t *testing.T) {
	restored := &Index{}
	if err := json.Unmarshal([]byte(`{"dim": 3, "entries": []}`), restored); err == nil {
		t.Error("expected error for empty entries")
	}
	if err := json.Unmarshal([]byte(`{not json`), restored); err == nil {
		t.Error("expected error for malformed JSON")
	}
	// Declared dimension disagreeing with the entries is corruption too.
	if err := json.Unmarshal([]byte(`{"dim": 3, "entries": [{"label":"ham","vector":[1,0]}]}`), restored); err == nil {
		t.Error("expected error for dimension disagreement")
	}
}

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if math.Abs(norm-1) > 1e-6 {
		t.Errorf("normalized vector has squared norm %v, want 1", norm)
	}

	zero := Normalize([]float32{0, 0})
	if zero[0] != 0 || zero[1] != 0 {
		t.Errorf("zero vector changed: %v", zero)
	}
}

func TestDot(t *testing.T) {
	if got := Dot([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Errorf("Dot orthogonal = %v, want 0", got)
	}
	if got := Dot([]float32{1, 0}, []float32{1, 0}); got != 1 {
		t.Errorf("Dot identical = %v, want 1", got)
	}
}

func BenchmarkSearch(b *testing.B) {
	entries := make([]Entry, 10000)
	for i := range entries {
		v := Normalize([]float32{float32(i%97) + 1, float32(i%31) + 1, float32(i%13) + 1})
		entries[i] = Entry{Label: "ham", Vector: v, ID: fmt.Sprint(i)}
	}
	ix, err := Build(entries)
	if err != nil {
		b.Fatalf("Build failed: %v", err)
	}
	query := Normalize([]float32{1, 2, 3})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ix.Search(query, 10); err != nil {
			b.Fatal(err)
		}
	}
}
