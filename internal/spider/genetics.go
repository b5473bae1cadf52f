package spider

import (
	"fmt"
	"sort"
	"strings"
)

// Genetics is a trait code built from the base symbols S, A and J.
// Symbols are kept in canonical order (S before A before J) and
// deduplicated, so the seven valid codes are S, A, J, SA, SJ, AJ and SAJ.
// Offspring carry the union of both parents' symbols.
type Genetics string

// geneticSymbols defines both the valid alphabet and the canonical order.
const geneticSymbols = "SAJ"

// NormalizeGenetics orders and deduplicates a raw trait code.
// Returns an error if the code is empty or contains a symbol outside
// {S, A, J}.
func NormalizeGenetics(raw string) (Genetics, error) {
	if raw == "" {
		return "", fmt.Errorf("empty genetics code")
	}
	seen := make(map[rune]bool)
	for _, c := range raw {
		if !strings.ContainsRune(geneticSymbols, c) {
			return "", fmt.Errorf("invalid genetic symbol %q in %q", c, raw)
		}
		seen[c] = true
	}
	symbols := make([]rune, 0, len(seen))
	for c := range seen {
		symbols = append(symbols, c)
	}
	sort.Slice(symbols, func(i, j int) bool {
		return strings.IndexRune(geneticSymbols, symbols[i]) < strings.IndexRune(geneticSymbols, symbols[j])
	})
	return Genetics(symbols), nil
}

// MergeGenetics combines two parent codes into the ordered unique union of
// their symbols. The result does not depend on argument order.
func MergeGenetics(a, b Genetics) Genetics {
	merged, err := NormalizeGenetics(string(a) + string(b))
	if err != nil {
		// Parents hold normalized codes; a merge of two valid codes is
		// always valid.
		panic(fmt.Sprintf("merge of invalid genetics %q + %q: %v", a, b, err))
	}
	return merged
}

// Symbols returns the individual trait symbols of the code.
func (g Genetics) Symbols() []string {
	out := make([]string, 0, len(g))
	for _, c := range g {
		out = append(out, string(c))
	}
	return out
}

// baseGenetics are the single-symbol codes a summoned creature starts with.
var baseGenetics = []Genetics{"S", "A", "J"}
