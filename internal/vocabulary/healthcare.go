package vocabulary

import "github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"

// healthcareTickers is the default universe: large-cap pharma, biotech and medtech.
var healthcareTickers = []domain.TickerEntry{
	{Symbol: "PFE", Name: "Pfizer"},
	{Symbol: "MRK", Name: "Merck"},
	{Symbol: "BMY", Name: "Bristol Myers Squibb"},
	{Symbol: "GILD", Name: "Gilead Sciences"},
	{Symbol: "AMGN", Name: "Amgen"},
	{Symbol: "LLY", Name: "Eli Lilly"},
	{Symbol: "REGN", Name: "Regeneron"},
	{Symbol: "VRTX", Name: "Vertex"},
	{Symbol: "AZN", Name: "AstraZeneca"},
	{Symbol: "NVS", Name: "Novartis"},
	{Symbol: "SNY", Name: "Sanofi"},
	{Symbol: "GSK", Name: "GSK plc"},
	{Symbol: "BIIB", Name: "Biogen"},
	{Symbol: "ABBV", Name: "AbbVie"},
	{Symbol: "INCY", Name: "Incyte"},
	{Symbol: "NBIX", Name: "Neurocrine Biosciences"},
	{Symbol: "ALNY", Name: "Alnylam Pharmaceuticals"},
	{Symbol: "BLUE", Name: "Bluebird Bio"},
	{Symbol: "SGEN", Name: "Seagen"},
	{Symbol: "FOLD", Name: "Amicus Therapeutics"},
	{Symbol: "IONS", Name: "Ionis Pharmaceuticals"},
	{Symbol: "SRPT", Name: "Sarepta Therapeutics"},
	{Symbol: "EXEL", Name: "Exelixis"},
	{Symbol: "CLDX", Name: "Celldex Therapeutics"},
	{Symbol: "NVAX", Name: "Novavax"},
	{Symbol: "MCRB", Name: "Seres Therapeutics"},
	{Symbol: "CRSP", Name: "CRISPR Therapeutics"},
	{Symbol: "NTLA", Name: "Intellia Therapeutics"},
	{Symbol: "EDIT", Name: "Editas Medicine"},
	{Symbol: "BEAM", Name: "Beam Therapeutics"},
	{Symbol: "VERV", Name: "Verve Therapeutics"},
	{Symbol: "QURE", Name: "UniQure"},
	{Symbol: "ARWR", Name: "Arrowhead Pharmaceuticals"},
	{Symbol: "HALO", Name: "Halozyme"},
	{Symbol: "KYMR", Name: "Kymera Therapeutics"},
	{Symbol: "ABUS", Name: "Arbutus Biopharma"},
	{Symbol: "SURF", Name: "Surface Oncology"},
	{Symbol: "HOOK", Name: "HOOKIPA Pharma"},
	{Symbol: "IMCR", Name: "Immunocore"},
	{Symbol: "HCM", Name: "HUTCHMED"},
	{Symbol: "KNSA", Name: "Kiniksa Pharmaceuticals"},
	{Symbol: "NBSE", Name: "NeuBase Therapeutics"},
	{Symbol: "DNA", Name: "Ginkgo Bioworks"},
	{Symbol: "COYA", Name: "Coya Therapeutics"},
	{Symbol: "BCRX", Name: "BioCryst Pharmaceuticals"},
	{Symbol: "XLRN", Name: "Acceleron Pharma"},
	{Symbol: "ROIV", Name: "Roivant Sciences"},
	{Symbol: "VKTX", Name: "Viking Therapeutics"},
	{Symbol: "MDGL", Name: "Madrigal Pharmaceuticals"},
	{Symbol: "AKRO", Name: "Akero Therapeutics"},
	{Symbol: "ALT", Name: "Altimmune"},
	{Symbol: "ARDX", Name: "Ardelyx"},
	{Symbol: "COLL", Name: "Collegium Pharma"},
	{Symbol: "CYTK", Name: "Cytokinetics"},
	{Symbol: "RGLS", Name: "Regulus Therapeutics"},
	{Symbol: "ALKS", Name: "Alkermes"},
	{Symbol: "ZYME", Name: "Zymeworks"},
	{Symbol: "ARRY", Name: "Array Biopharma"},
	{Symbol: "TGTX", Name: "TG Therapeutics"},
	{Symbol: "BPMC", Name: "Blueprint Medicines"},
	{Symbol: "AMRN", Name: "Amarin"},
	{Symbol: "ACAD", Name: "ACADIA Pharmaceuticals"},
	{Symbol: "XENE", Name: "Xenon Pharmaceuticals"},
	{Symbol: "CRNX", Name: "Crinetics Pharmaceuticals"},
	{Symbol: "SAGE", Name: "Sage Therapeutics"},
	{Symbol: "RCKT", Name: "Rocket Pharmaceuticals"},
	{Symbol: "MEIP", Name: "MEI Pharma"},
	{Symbol: "PRTA", Name: "Prothena"},
	{Symbol: "RPRX", Name: "Royalty Pharma"},
	{Symbol: "DXCM", Name: "Dexcom"},
	{Symbol: "TMO", Name: "Thermo Fisher"},
	{Symbol: "ILMN", Name: "Illumina"},
	{Symbol: "PACB", Name: "Pacific Biosciences"},
	{Symbol: "TECH", Name: "Bio-Techne"},
	{Symbol: "WAT", Name: "Waters Corp."},
	{Symbol: "BAX", Name: "Baxter"},
	{Symbol: "BDX", Name: "Becton Dickinson"},
	{Symbol: "ABT", Name: "Abbott"},
	{Symbol: "ISRG", Name: "Intuitive Surgical"},
	{Symbol: "ZBH", Name: "Zimmer Biomet"},
	{Symbol: "STE", Name: "STERIS"},
	{Symbol: "EW", Name: "Edwards Lifesciences"},
	{Symbol: "HOLX", Name: "Hologic"},
	{Symbol: "JNJ", Name: "Johnson & Johnson"},
	{Symbol: "NVO", Name: "Novo Nordisk"},
	{Symbol: "BNTX", Name: "BioNTech"},
}

// healthcareAliases maps colloquial names and abbreviations to symbols.
var healthcareAliases = map[string]string{
	"j&j":                 "JNJ",
	"johnson & johnson":   "JNJ",
	"johnson and johnson": "JNJ",
	"lilly":               "LLY",
	"eli lilly":           "LLY",
	"sanofi":              "SNY",
	"novartis":            "NVS",
	"novo":                "NVO",
	"novo nordisk":        "NVO",
	"biontech":            "BNTX",
	"bio n tech":          "BNTX",
}

var defaultVocabulary = MustNew(healthcareTickers, healthcareAliases)

// Default returns the built-in healthcare vocabulary.
func Default() *Vocabulary {
	return defaultVocabulary
}
