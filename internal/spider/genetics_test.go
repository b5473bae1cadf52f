package spider

import "testing"

func TestNormalizeGenetics(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Genetics
		wantErr bool
	}{
		{"single symbol", "S", "S", false},
		{"already canonical", "SA", "SA", false},
		{"reversed pair", "AS", "SA", false},
		{"reversed triple", "JAS", "SAJ", false},
		{"duplicates collapse", "SSAA", "SA", false},
		{"all symbols", "SAJ", "SAJ", false},
		{"j before a", "JA", "AJ", false},
		{"empty", "", "", true},
		{"unknown symbol", "SX", "", true},
		{"lowercase rejected", "s", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeGenetics(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeGenetics(%q) expected error, got %q", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeGenetics(%q) failed: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeGenetics(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestMergeGenetics(t *testing.T) {
	tests := []struct {
		a, b Genetics
		want Genetics
	}{
		{"S", "A", "SA"},
		{"S", "J", "SJ"},
		{"A", "J", "AJ"},
		{"S", "S", "S"},
		{"SA", "J", "SAJ"},
		{"SA", "AJ", "SAJ"},
		{"SAJ", "S", "SAJ"},
	}

	for _, tt := range tests {
		if got := MergeGenetics(tt.a, tt.b); got != tt.want {
			t.Errorf("MergeGenetics(%q, %q) = %q, want %q", tt.a, tt.b, got, tt.want)
		}
		// Argument order never matters.
		if got := MergeGenetics(tt.b, tt.a); got != tt.want {
			t.Errorf("MergeGenetics(%q, %q) = %q, want %q", tt.b, tt.a, got, tt.want)
		}
	}
}

func TestGenetics_Symbols(t *testing.T) {
	g := Genetics("SAJ")
	symbols := g.Symbols()
	if len(symbols) != 3 {
		t.Fatalf("Expected 3 symbols, got %d", len(symbols))
	}
	want := []string{"S", "A", "J"}
	for i, s := range symbols {
		if s != want[i] {
			t.Errorf("Symbol %d = %q, want %q", i, s, want[i])
		}
	}
}
