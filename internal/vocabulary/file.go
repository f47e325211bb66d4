package vocabulary

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
)

// fileFormat is the on-disk YAML layout:
//
//	tickers:
//	  - symbol: LLY
//	    name: Eli Lilly
//	    aliases: [lilly]
//	aliases:
//	  j&j: JNJ
type fileFormat struct {
	Tickers []domain.TickerEntry `yaml:"tickers"`
	Aliases map[string]string    `yaml:"aliases"`
}

// LoadFile reads a vocabulary from a YAML file.
func LoadFile(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary file: %w", err)
	}
	return Parse(data)
}

// Parse builds a vocabulary from YAML bytes.
func Parse(data []byte) (*Vocabulary, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse vocabulary yaml: %w", err)
	}
	if len(f.Tickers) == 0 {
		return nil, fmt.Errorf("%w: vocabulary has no tickers", ErrInvalidEntry)
	}
	return New(f.Tickers, f.Aliases)
}
