// Package linking resolves free text to the ticker symbols it mentions.
package linking

import (
	"regexp"
	"sort"
	"strings"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/vocabulary"
)

type symbolPattern struct {
	symbol string
	re     *regexp.Regexp
}

type phrase struct {
	text   string // lowercase
	symbol string
}

// Linker matches text against a vocabulary in three passes:
// symbol on word boundaries, canonical name substring, alias substring.
// It is immutable after construction and safe for concurrent use.
type Linker struct {
	symbols []symbolPattern
	names   []phrase
	aliases []phrase
}

// NewLinker compiles the symbol patterns of v once.
// Word boundaries are Unicode-aware: a symbol next to any letter or digit is part of a longer token.
func NewLinker(v *vocabulary.Vocabulary) *Linker {
	l := &Linker{}
	for _, sym := range v.Symbols() {
		l.symbols = append(l.symbols, symbolPattern{
			symbol: sym,
			re:     regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])` + regexp.QuoteMeta(sym) + `(?:$|[^\p{L}\p{N}_])`),
		})
	}
	l.names = sortedPhrases(v.Names())
	l.aliases = sortedPhrases(v.Aliases())
	return l
}

// Link returns the sorted set of symbols mentioned in text.
// Blank text yields an empty, non-nil slice.
func (l *Linker) Link(text string) []string {
	found := make(map[string]struct{})
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	for _, p := range l.symbols {
		if p.re.MatchString(text) {
			found[p.symbol] = struct{}{}
		}
	}

	lower := strings.ToLower(text)
	for _, p := range l.names {
		if strings.Contains(lower, p.text) {
			found[p.symbol] = struct{}{}
		}
	}
	for _, p := range l.aliases {
		if strings.Contains(lower, p.text) {
			found[p.symbol] = struct{}{}
		}
	}

	out := make([]string, 0, len(found))
	for sym := range found {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// LinkStats summarizes a LinkBatch call.
type LinkStats struct {
	Articles int
	Linked   int // articles with at least one ticker
	Unlinked int
	Mentions int // total (article, ticker) pairs
}

// LinkBatch sets Tickers on every article from its FullText.
// Articles without FullText are linked on the text built from title and summary.
func (l *Linker) LinkBatch(articles []*domain.Article) LinkStats {
	var stats LinkStats
	for _, a := range articles {
		if a == nil {
			continue
		}
		text := a.FullText
		if text == "" {
			text = domain.BuildFullText(a.Title, a.Summary)
		}
		a.Tickers = l.Link(text)

		stats.Articles++
		stats.Mentions += len(a.Tickers)
		if len(a.Tickers) > 0 {
			stats.Linked++
		} else {
			stats.Unlinked++
		}
	}
	return stats
}

func sortedPhrases(table map[string]string) []phrase {
	out := make([]phrase, 0, len(table))
	for text, sym := range table {
		out = append(out, phrase{text: text, symbol: sym})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].text < out[j].text })
	return out
}
