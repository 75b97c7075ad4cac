// apps/go-server/internal/symbols/symbols.go
//
// Symbol set management for the pairs game.
//
// Responsibilities:
//   - Load the picture-symbol list from SYMBOLS_FILE or fall back to the
//     embedded default in assets/symbols.txt.
//   - Pick n distinct symbols for a new board.
//
// Constraints:
//   • Symbols are lowercase, trimmed, de-duplicated.
//   • Initialization is run once (sync.Once).

package symbols

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"

	"github.com/robalobadob/memorylane/apps/go-server/assets"
)

var (
	initOnce   sync.Once
	list       []string
	initialErr error
)

// Init loads the symbol list exactly once.
// Returns an error if the list ends up empty.
func Init() error {
	initOnce.Do(func() {
		var raw []string
		var err error
		if path := os.Getenv("SYMBOLS_FILE"); path != "" {
			raw, err = readFile(path)
		} else {
			raw, err = assets.SymbolList()
		}
		if err != nil {
			initialErr = err
			return
		}
		list = dedupe(raw)
		if len(list) == 0 {
			initialErr = errors.New("symbols: list is empty")
		}
	})
	return initialErr
}

// All returns the loaded symbols. Init is called on first use.
func All() []string {
	_ = Init()
	return list
}

// Pick returns n distinct symbols in random order.
func Pick(rng *rand.Rand, n int) ([]string, error) {
	return PickFrom(rng, All(), n)
}

// PickFrom is Pick over an explicit list.
func PickFrom(rng *rand.Rand, from []string, n int) ([]string, error) {
	if n <= 0 {
		return nil, fmt.Errorf("symbols: need a positive count, got %d", n)
	}
	if n > len(from) {
		return nil, fmt.Errorf("symbols: need %d symbols, only %d available", n, len(from))
	}
	idx := rng.Perm(len(from))[:n]
	out := make([]string, n)
	for i, j := range idx {
		out[i] = from[j]
	}
	return out, nil
}

func readFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
