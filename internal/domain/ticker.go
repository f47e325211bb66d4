package domain

// TickerEntry is one row of the ticker vocabulary.
type TickerEntry struct {
	Symbol  string   `yaml:"symbol" json:"symbol"`                       // canonical, uppercase
	Name    string   `yaml:"name" json:"name"`                           // canonical company name
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"` // lowercase phrases
}
