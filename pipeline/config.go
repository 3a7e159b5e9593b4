package pipeline

import "regexp"

// Config holds every tunable named in the external configuration surface.
// It is a plain value type — the core never reads configuration files or
// environment variables itself; the top-level config package is
// responsible for populating one of these from YAML/env via viper.
type Config struct {
	Processing          ProcessingConfig
	HeaderDetection      HeaderDetectionConfig
	ListDetection        ListDetectionConfig
	HeaderFooterDetection HeaderFooterDetectionConfig
	SameLineMerging      SameLineMergingConfig
	MarkdownGeneration   MarkdownGenerationConfig
}

// ProcessingConfig controls cross-cutting pipeline behavior.
type ProcessingConfig struct {
	OverlapThreshold           float64
	EnableElementMerging       bool
	HeaderRegion               [2]float64 // normalized Y range [top, bottom)
	FooterRegion               [2]float64
	EnableHeaderFooterDetection bool
}

// HeaderDetectionConfig controls the header-pattern classifier and merger.
type HeaderDetectionConfig struct {
	Enabled               bool
	Patterns              HeaderPatterns
	AutoCalculateLevel    bool
	MaxLevel              int
	CustomLevels          map[string]int // named-header keyword -> level
	MarkdownLevelOffset   int
	EnableHeaderMerging   bool
	SameLineTolerance     float64
}

// HeaderPatterns is the four regex pattern sets consulted in order by the
// classifier: numbered, lettered, roman, named.
type HeaderPatterns struct {
	Numbered []*regexp.Regexp
	Lettered []*regexp.Regexp
	Roman    []*regexp.Regexp
	Named    []*regexp.Regexp
}

// ListDetectionConfig controls the list-pattern classifier and merger.
type ListDetectionConfig struct {
	Enabled                bool
	Patterns               ListPatterns
	EnableListItemMerging  bool
	EnableLevelCalculation bool
	SameLineTolerance      float64
}

// ListPatterns is the five regex pattern sets consulted in order by the
// classifier: numbered, lettered, bullet, roman, custom.
type ListPatterns struct {
	Numbered []*regexp.Regexp
	Lettered []*regexp.Regexp
	Bullet   []*regexp.Regexp
	Roman    []*regexp.Regexp
	Custom   []*regexp.Regexp
}

// HeaderFooterDetectionConfig controls the content-based header/footer
// region fallbacks used by the content-based header classifier.
type HeaderFooterDetectionConfig struct {
	SmartDetectionEnabled            bool
	EnableContentBasedDetection      bool
	MaxHeaderFooterLength            int
	ExcludeCommonHeaders             []string
}

// SameLineMergingConfig controls the same-line fuser.
type SameLineMergingConfig struct {
	Enabled             bool
	VerticalTolerance   float64
	SeparatorForChinese string
	SeparatorForEnglish string
	EnableLogging       bool
}

// MarkdownGenerationConfig controls the emitter.
type MarkdownGenerationConfig struct {
	AddTableOfContents bool
}

// DefaultConfig returns the configuration this package's scenario tests
// are written against: conservative thresholds, all detectors enabled, TOC
// generation on.
func DefaultConfig() Config {
	return Config{
		Processing: ProcessingConfig{
			OverlapThreshold:            0.5,
			EnableElementMerging:        true,
			HeaderRegion:                [2]float64{0.0, 0.08},
			FooterRegion:                [2]float64{0.92, 1.0},
			EnableHeaderFooterDetection: true,
		},
		HeaderDetection: HeaderDetectionConfig{
			Enabled:             true,
			Patterns:            DefaultHeaderPatterns(),
			AutoCalculateLevel:  true,
			MaxLevel:            6,
			CustomLevels:        DefaultNamedHeaderLevels(),
			MarkdownLevelOffset: 0,
			EnableHeaderMerging: true,
			SameLineTolerance:   0.01,
		},
		ListDetection: ListDetectionConfig{
			Enabled:                true,
			Patterns:               DefaultListPatterns(),
			EnableListItemMerging:  true,
			EnableLevelCalculation: true,
			SameLineTolerance:      0.01,
		},
		HeaderFooterDetection: HeaderFooterDetectionConfig{
			SmartDetectionEnabled:       true,
			EnableContentBasedDetection: true,
			MaxHeaderFooterLength:       80,
			ExcludeCommonHeaders:        nil,
		},
		SameLineMerging: SameLineMergingConfig{
			Enabled:             true,
			VerticalTolerance:   0.01,
			SeparatorForChinese: "",
			SeparatorForEnglish: " ",
			EnableLogging:       false,
		},
		MarkdownGeneration: MarkdownGenerationConfig{
			AddTableOfContents: true,
		},
	}
}

// HeaderMergeTolerance returns the loose tolerance for the second merge
// pass over headers (0.03 by default).
func (c Config) HeaderMergeTolerance() float64 {
	return 0.03
}

// ListMergeTolerance returns the loose tolerance for the second merge pass
// over list items (0.02 by default).
func (c Config) ListMergeTolerance() float64 {
	return 0.02
}
