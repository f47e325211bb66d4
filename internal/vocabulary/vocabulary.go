// Package vocabulary holds the controlled set of ticker symbols that articles can be linked to.
package vocabulary

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
)

var (
	// ErrUnknownSymbol is returned when an alias points at a symbol outside the vocabulary.
	ErrUnknownSymbol = errors.New("alias references unknown symbol")

	// ErrInvalidEntry is returned for empty or duplicate symbols.
	ErrInvalidEntry = errors.New("invalid vocabulary entry")
)

// Vocabulary is an immutable registry of symbol, canonical name and alias phrases.
// Build it once at startup and share it; no method mutates it.
type Vocabulary struct {
	entries map[string]domain.TickerEntry // keyed by symbol
	symbols []string                      // sorted
	names   map[string]string             // lowercase canonical name -> symbol
	aliases map[string]string             // lowercase alias phrase -> symbol
}

// New builds a vocabulary from entries plus a free-standing alias table.
// Symbols are uppercased; names and aliases are lowercased. Aliases declared on an
// entry and in the alias table are merged.
func New(entries []domain.TickerEntry, aliases map[string]string) (*Vocabulary, error) {
	v := &Vocabulary{
		entries: make(map[string]domain.TickerEntry, len(entries)),
		names:   make(map[string]string, len(entries)),
		aliases: make(map[string]string, len(aliases)),
	}

	for _, e := range entries {
		symbol := strings.ToUpper(strings.TrimSpace(e.Symbol))
		if symbol == "" {
			return nil, fmt.Errorf("%w: empty symbol (name %q)", ErrInvalidEntry, e.Name)
		}
		if _, exists := v.entries[symbol]; exists {
			return nil, fmt.Errorf("%w: duplicate symbol %s", ErrInvalidEntry, symbol)
		}

		entry := domain.TickerEntry{Symbol: symbol, Name: strings.TrimSpace(e.Name)}
		for _, a := range e.Aliases {
			if phrase := normalizePhrase(a); phrase != "" {
				entry.Aliases = append(entry.Aliases, phrase)
				v.aliases[phrase] = symbol
			}
		}
		v.entries[symbol] = entry
		v.symbols = append(v.symbols, symbol)

		if name := normalizePhrase(entry.Name); name != "" {
			v.names[name] = symbol
		}
	}
	sort.Strings(v.symbols)

	for phrase, target := range aliases {
		phrase = normalizePhrase(phrase)
		symbol := strings.ToUpper(strings.TrimSpace(target))
		if phrase == "" {
			continue
		}
		entry, ok := v.entries[symbol]
		if !ok {
			return nil, fmt.Errorf("%w: %q -> %s", ErrUnknownSymbol, phrase, target)
		}
		if _, dup := v.aliases[phrase]; !dup {
			entry.Aliases = append(entry.Aliases, phrase)
			v.entries[symbol] = entry
		}
		v.aliases[phrase] = symbol
	}

	for symbol, entry := range v.entries {
		sort.Strings(entry.Aliases)
		v.entries[symbol] = entry
	}

	return v, nil
}

// MustNew is New that panics on error. Intended for static tables.
func MustNew(entries []domain.TickerEntry, aliases map[string]string) *Vocabulary {
	v, err := New(entries, aliases)
	if err != nil {
		panic(err)
	}
	return v
}

// Len returns the number of symbols.
func (v *Vocabulary) Len() int {
	return len(v.symbols)
}

// Symbols returns all symbols in ascending order.
func (v *Vocabulary) Symbols() []string {
	return append([]string(nil), v.symbols...)
}

// Contains reports whether symbol (any case) is in the vocabulary.
func (v *Vocabulary) Contains(symbol string) bool {
	_, ok := v.entries[strings.ToUpper(symbol)]
	return ok
}

// Entry returns the entry for symbol (any case).
func (v *Vocabulary) Entry(symbol string) (domain.TickerEntry, bool) {
	e, ok := v.entries[strings.ToUpper(symbol)]
	if !ok {
		return domain.TickerEntry{}, false
	}
	e.Aliases = append([]string(nil), e.Aliases...)
	return e, true
}

// Names returns a copy of the lowercase canonical name -> symbol table.
func (v *Vocabulary) Names() map[string]string {
	return copyTable(v.names)
}

// Aliases returns a copy of the lowercase alias phrase -> symbol table.
func (v *Vocabulary) Aliases() map[string]string {
	return copyTable(v.aliases)
}

func normalizePhrase(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func copyTable(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, val := range m {
		out[k] = val
	}
	return out
}
