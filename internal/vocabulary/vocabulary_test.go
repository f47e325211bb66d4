package vocabulary

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
)

func TestNew_NormalizesCase(t *testing.T) {
	v, err := New([]domain.TickerEntry{
		{Symbol: " lly ", Name: "Eli Lilly", Aliases: []string{" Lilly "}},
	}, map[string]string{"Mounjaro Maker": "lly"})
	require.NoError(t, err)

	assert.Equal(t, []string{"LLY"}, v.Symbols())
	assert.True(t, v.Contains("lly"))
	assert.Equal(t, map[string]string{"eli lilly": "LLY"}, v.Names())
	assert.Equal(t, map[string]string{"lilly": "LLY", "mounjaro maker": "LLY"}, v.Aliases())

	entry, ok := v.Entry("LLY")
	require.True(t, ok)
	assert.Equal(t, []string{"lilly", "mounjaro maker"}, entry.Aliases)
}

func TestNew_RejectsUnknownAliasTarget(t *testing.T) {
	_, err := New([]domain.TickerEntry{{Symbol: "PFE", Name: "Pfizer"}}, map[string]string{"j&j": "JNJ"})
	if !errors.Is(err, ErrUnknownSymbol) {
		t.Fatalf("expected ErrUnknownSymbol, got %v", err)
	}
}

func TestNew_RejectsDuplicateAndEmptySymbols(t *testing.T) {
	_, err := New([]domain.TickerEntry{{Symbol: "PFE"}, {Symbol: "pfe"}}, nil)
	assert.ErrorIs(t, err, ErrInvalidEntry)

	_, err = New([]domain.TickerEntry{{Symbol: "  ", Name: "Nobody"}}, nil)
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

func TestReturnedTablesAreCopies(t *testing.T) {
	v := MustNew([]domain.TickerEntry{{Symbol: "PFE", Name: "Pfizer"}}, nil)

	names := v.Names()
	names["moderna"] = "MRNA"
	symbols := v.Symbols()
	symbols[0] = "XXX"

	assert.NotContains(t, v.Names(), "moderna")
	assert.Equal(t, []string{"PFE"}, v.Symbols())
}

func TestDefault(t *testing.T) {
	v := Default()

	assert.GreaterOrEqual(t, v.Len(), 80)
	for _, sym := range []string{"PFE", "MRK", "LLY", "JNJ", "NVO", "BNTX"} {
		assert.True(t, v.Contains(sym), sym)
	}
	aliases := v.Aliases()
	assert.Equal(t, "JNJ", aliases["j&j"])
	assert.Equal(t, "BNTX", aliases["bio n tech"])
	assert.Equal(t, "LLY", v.Names()["eli lilly"])
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickers.yaml")
	doc := `
tickers:
  - symbol: mrna
    name: Moderna
    aliases: [moderna inc]
  - symbol: PFE
    name: Pfizer
aliases:
  spikevax: MRNA
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	v, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"MRNA", "PFE"}, v.Symbols())
	assert.Equal(t, "MRNA", v.Aliases()["spikevax"])
	assert.Equal(t, "MRNA", v.Aliases()["moderna inc"])
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("tickers: []"))
	assert.ErrorIs(t, err, ErrInvalidEntry)

	_, err = Parse([]byte("tickers: [\n"))
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
