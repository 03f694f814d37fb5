package classifier

// DefaultTrivialWords are Spanish articles, conjunctions and common
// prepositions. Swapping one of these for another is not worth a suggestion.
var DefaultTrivialWords = []string{
	"el", "la", "los", "las", "un", "una", "unos", "unas",
	"y", "e", "o", "u", "a", "ante", "bajo", "con", "de",
	"desde", "en", "entre", "hacia", "hasta", "para", "por",
	"según", "sin", "sobre", "tras",
}

// DefaultStopwords are ignored when comparing sentence keywords.
var DefaultStopwords = []string{
	"para", "como", "este", "esta", "estos", "estas", "aquel", "aquella",
}

// Config holds the tunable thresholds of the classifier. It is decoded from
// the [classifier] table of the configuration file.
type Config struct {
	// SimilarityCutoff: at or below this ratio an edit is a rewrite and always significant.
	SimilarityCutoff float64 `toml:"similarity_cutoff"`
	// MaxTrivialDiffs is the largest number of differing tokens that may still be dismissed as trivial.
	MaxTrivialDiffs int `toml:"max_trivial_diffs"`
	// SelectionMinSimilarity: a selection rewrite must stay above this ratio to be offered.
	SelectionMinSimilarity float64 `toml:"selection_min_similarity"`
	// RelatedThreshold is the keyword overlap needed for two sentences to count as the same sentence.
	RelatedThreshold float64 `toml:"related_threshold"`
	// MinKeywordLen: words must be longer than this to count as keywords.
	MinKeywordLen int `toml:"min_keyword_length"`

	TrivialWords      []string `toml:"trivial_words"`
	ExtraTrivialWords []string `toml:"extra_trivial_words"`
	Stopwords         []string `toml:"stopwords"`
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		SimilarityCutoff:       0.98,
		MaxTrivialDiffs:        2,
		SelectionMinSimilarity: 0.7,
		RelatedThreshold:       0.3,
		MinKeywordLen:          3,
		TrivialWords:           append([]string(nil), DefaultTrivialWords...),
		Stopwords:              append([]string(nil), DefaultStopwords...),
	}
}

// Options mutate a Config before the classifier is built.
type Options interface {
	Apply(cfg *Config)
}

type FuncConfig struct {
	ops func(cfg *Config)
}

func (w FuncConfig) Apply(cfg *Config) {
	w.ops(cfg)
}

func NewFuncOption(f func(cfg *Config)) *FuncConfig {
	return &FuncConfig{ops: f}
}

func WithSimilarityCutoff(cutoff float64) Options {
	return NewFuncOption(func(cfg *Config) {
		cfg.SimilarityCutoff = cutoff
	})
}

func WithMaxTrivialDiffs(n int) Options {
	return NewFuncOption(func(cfg *Config) {
		cfg.MaxTrivialDiffs = n
	})
}

func WithSelectionMinSimilarity(ratio float64) Options {
	return NewFuncOption(func(cfg *Config) {
		cfg.SelectionMinSimilarity = ratio
	})
}

func WithRelatedThreshold(ratio float64) Options {
	return NewFuncOption(func(cfg *Config) {
		cfg.RelatedThreshold = ratio
	})
}

// WithTrivialWords replaces the trivial-word set.
func WithTrivialWords(words ...string) Options {
	return NewFuncOption(func(cfg *Config) {
		cfg.TrivialWords = append([]string(nil), words...)
	})
}

// WithExtraTrivialWords extends the trivial-word set.
func WithExtraTrivialWords(words ...string) Options {
	return NewFuncOption(func(cfg *Config) {
		cfg.ExtraTrivialWords = append(cfg.ExtraTrivialWords, words...)
	})
}

// Validate resets out-of-range values to their defaults and reports which
// fields were reset.
func (c *Config) Validate() []string {
	def := DefaultConfig()
	var reset []string
	// Below 0.5 a heavy rewrite could be dismissed as a trivial edit.
	if c.SimilarityCutoff < 0.5 || c.SimilarityCutoff > 1 {
		c.SimilarityCutoff = def.SimilarityCutoff
		reset = append(reset, "similarity_cutoff")
	}
	if c.MaxTrivialDiffs < 0 {
		c.MaxTrivialDiffs = def.MaxTrivialDiffs
		reset = append(reset, "max_trivial_diffs")
	}
	if c.SelectionMinSimilarity < 0 || c.SelectionMinSimilarity >= 1 {
		c.SelectionMinSimilarity = def.SelectionMinSimilarity
		reset = append(reset, "selection_min_similarity")
	}
	if c.RelatedThreshold < 0 || c.RelatedThreshold > 1 {
		c.RelatedThreshold = def.RelatedThreshold
		reset = append(reset, "related_threshold")
	}
	if c.MinKeywordLen < 0 {
		c.MinKeywordLen = def.MinKeywordLen
		reset = append(reset, "min_keyword_length")
	}
	if len(c.TrivialWords) == 0 {
		c.TrivialWords = def.TrivialWords
	}
	if len(c.Stopwords) == 0 {
		c.Stopwords = def.Stopwords
	}
	return reset
}
