package ingestion

// FeedSource is one RSS feed to pull.
type FeedSource struct {
	Name string `mapstructure:"name" yaml:"name"`
	URL  string `mapstructure:"url" yaml:"url"`
}

// DefaultFeeds are the biotech and pharma news feeds pulled by default.
var DefaultFeeds = []FeedSource{
	{Name: "endpoints", URL: "https://endpts.com/feed/"},
	{Name: "fiercebiotech", URL: "https://www.fiercebiotech.com/rss.xml"},
	{Name: "pharmatimes", URL: "https://www.pharmatimes.com/rss/"},
	{Name: "medicalxpress", URL: "https://medicalxpress.com/rss-feed/"},
	{Name: "statnews", URL: "https://www.statnews.com/feed/"},
	{Name: "drugdiscovery", URL: "https://www.drugdiscoverytrends.com/feed/"},
}
