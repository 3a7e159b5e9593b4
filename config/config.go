// Package config loads a pipeline.Config from a YAML file and environment
// variables via viper, and validates it before use.
package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/layoutmd/pipeline"
)

// FileConfig is the YAML-shaped configuration surface: simple scalar and
// list fields that get translated into a pipeline.Config by Resolve,
// since pipeline.Config carries compiled *regexp.Regexp fields viper
// cannot unmarshal into directly.
type FileConfig struct {
	OverlapThreshold     float64 `mapstructure:"overlap_threshold" yaml:"overlap_threshold"`
	EnableElementMerging bool    `mapstructure:"enable_element_merging" yaml:"enable_element_merging"`
	HeaderRegionTop      float64 `mapstructure:"header_region_top" yaml:"header_region_top"`
	HeaderRegionBottom   float64 `mapstructure:"header_region_bottom" yaml:"header_region_bottom"`
	FooterRegionTop      float64 `mapstructure:"footer_region_top" yaml:"footer_region_top"`
	FooterRegionBottom   float64 `mapstructure:"footer_region_bottom" yaml:"footer_region_bottom"`
	EnableHeaderFooter   bool    `mapstructure:"enable_header_footer_detection" yaml:"enable_header_footer_detection"`

	HeaderDetectionEnabled     bool           `mapstructure:"header_detection_enabled" yaml:"header_detection_enabled"`
	MaxHeaderLevel             int            `mapstructure:"max_header_level" yaml:"max_header_level"`
	MarkdownLevelOffset        int            `mapstructure:"markdown_level_offset" yaml:"markdown_level_offset"`
	SameLineTolerance          float64        `mapstructure:"same_line_tolerance" yaml:"same_line_tolerance"`
	EnableHeaderMerging        bool           `mapstructure:"enable_header_merging" yaml:"enable_header_merging"`
	AutoCalculateHeaderLevel   bool           `mapstructure:"auto_calculate_level" yaml:"auto_calculate_level"`
	CustomHeaderLevels         map[string]int `mapstructure:"custom_levels" yaml:"custom_levels"`
	ExtraHeaderNumberedPatterns []string      `mapstructure:"extra_header_numbered_patterns" yaml:"extra_header_numbered_patterns"`
	ExtraHeaderLetteredPatterns []string      `mapstructure:"extra_header_lettered_patterns" yaml:"extra_header_lettered_patterns"`
	ExtraHeaderRomanPatterns    []string      `mapstructure:"extra_header_roman_patterns" yaml:"extra_header_roman_patterns"`
	ExtraHeaderNamedPatterns    []string      `mapstructure:"extra_header_named_patterns" yaml:"extra_header_named_patterns"`

	ListDetectionEnabled        bool     `mapstructure:"list_detection_enabled" yaml:"list_detection_enabled"`
	EnableListItemMerging       bool     `mapstructure:"enable_list_item_merging" yaml:"enable_list_item_merging"`
	EnableListLevelCalculation  bool     `mapstructure:"enable_list_level_calculation" yaml:"enable_list_level_calculation"`
	ListSameLineTolerance       float64  `mapstructure:"list_same_line_tolerance" yaml:"list_same_line_tolerance"`
	ExtraListNumberedPatterns   []string `mapstructure:"extra_list_numbered_patterns" yaml:"extra_list_numbered_patterns"`
	ExtraListLetteredPatterns   []string `mapstructure:"extra_list_lettered_patterns" yaml:"extra_list_lettered_patterns"`
	ExtraListBulletPatterns     []string `mapstructure:"extra_list_bullet_patterns" yaml:"extra_list_bullet_patterns"`
	ExtraListRomanPatterns      []string `mapstructure:"extra_list_roman_patterns" yaml:"extra_list_roman_patterns"`
	ExtraListCustomPatterns     []string `mapstructure:"extra_list_custom_patterns" yaml:"extra_list_custom_patterns"`

	SmartHeaderFooterDetectionEnabled   bool     `mapstructure:"smart_header_footer_detection_enabled" yaml:"smart_header_footer_detection_enabled"`
	EnableContentBasedHeaderFooter      bool     `mapstructure:"enable_content_based_header_footer_detection" yaml:"enable_content_based_header_footer_detection"`
	MaxHeaderFooterLength               int      `mapstructure:"max_header_footer_length" yaml:"max_header_footer_length"`
	ExcludeCommonHeaders                []string `mapstructure:"exclude_common_headers" yaml:"exclude_common_headers"`

	SameLineMergingEnabled         bool   `mapstructure:"same_line_merging_enabled" yaml:"same_line_merging_enabled"`
	SameLineMergingVerticalTolerance float64 `mapstructure:"same_line_merging_vertical_tolerance" yaml:"same_line_merging_vertical_tolerance"`
	SeparatorForChinese            string `mapstructure:"separator_for_chinese" yaml:"separator_for_chinese"`
	SeparatorForEnglish            string `mapstructure:"separator_for_english" yaml:"separator_for_english"`
	SameLineMergingEnableLogging   bool   `mapstructure:"same_line_merging_enable_logging" yaml:"same_line_merging_enable_logging"`

	AddTableOfContents bool `mapstructure:"add_table_of_contents" yaml:"add_table_of_contents"`
}

// Manager loads configuration once and re-resolves it whenever the
// underlying file changes, notifying registered callbacks.
type Manager struct {
	mu        sync.RWMutex
	v         *viper.Viper
	config    pipeline.Config
	callbacks []func(pipeline.Config)
}

// NewManager builds a Manager from cfgFile (empty string searches the
// default locations) and the compiled-in defaults.
func NewManager(cfgFile string) (*Manager, error) {
	m := &Manager{v: viper.New()}
	if err := m.initViper(cfgFile); err != nil {
		return nil, err
	}
	cfg, err := m.load()
	if err != nil {
		return nil, err
	}
	m.config = cfg
	return m, nil
}

func (m *Manager) initViper(cfgFile string) error {
	defaults := DefaultFileConfig()
	m.v.SetDefault("overlap_threshold", defaults.OverlapThreshold)
	m.v.SetDefault("enable_element_merging", defaults.EnableElementMerging)
	m.v.SetDefault("header_region_top", defaults.HeaderRegionTop)
	m.v.SetDefault("header_region_bottom", defaults.HeaderRegionBottom)
	m.v.SetDefault("footer_region_top", defaults.FooterRegionTop)
	m.v.SetDefault("footer_region_bottom", defaults.FooterRegionBottom)
	m.v.SetDefault("enable_header_footer_detection", defaults.EnableHeaderFooter)

	m.v.SetDefault("header_detection_enabled", defaults.HeaderDetectionEnabled)
	m.v.SetDefault("max_header_level", defaults.MaxHeaderLevel)
	m.v.SetDefault("markdown_level_offset", defaults.MarkdownLevelOffset)
	m.v.SetDefault("same_line_tolerance", defaults.SameLineTolerance)
	m.v.SetDefault("enable_header_merging", defaults.EnableHeaderMerging)
	m.v.SetDefault("auto_calculate_level", defaults.AutoCalculateHeaderLevel)
	m.v.SetDefault("custom_levels", defaults.CustomHeaderLevels)

	m.v.SetDefault("list_detection_enabled", defaults.ListDetectionEnabled)
	m.v.SetDefault("enable_list_item_merging", defaults.EnableListItemMerging)
	m.v.SetDefault("enable_list_level_calculation", defaults.EnableListLevelCalculation)
	m.v.SetDefault("list_same_line_tolerance", defaults.ListSameLineTolerance)

	m.v.SetDefault("smart_header_footer_detection_enabled", defaults.SmartHeaderFooterDetectionEnabled)
	m.v.SetDefault("enable_content_based_header_footer_detection", defaults.EnableContentBasedHeaderFooter)
	m.v.SetDefault("max_header_footer_length", defaults.MaxHeaderFooterLength)
	m.v.SetDefault("exclude_common_headers", defaults.ExcludeCommonHeaders)

	m.v.SetDefault("same_line_merging_enabled", defaults.SameLineMergingEnabled)
	m.v.SetDefault("same_line_merging_vertical_tolerance", defaults.SameLineMergingVerticalTolerance)
	m.v.SetDefault("separator_for_chinese", defaults.SeparatorForChinese)
	m.v.SetDefault("separator_for_english", defaults.SeparatorForEnglish)
	m.v.SetDefault("same_line_merging_enable_logging", defaults.SameLineMergingEnableLogging)

	m.v.SetDefault("add_table_of_contents", defaults.AddTableOfContents)

	m.v.SetEnvPrefix("OCRMD")
	m.v.AutomaticEnv()

	if cfgFile != "" {
		m.v.SetConfigFile(cfgFile)
	} else {
		m.v.SetConfigName("ocrmd")
		m.v.SetConfigType("yaml")
		m.v.AddConfigPath(".")
		m.v.AddConfigPath("$HOME/.ocrmd")
	}

	if err := m.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	return nil
}

func (m *Manager) load() (pipeline.Config, error) {
	var fc FileConfig
	if err := m.v.Unmarshal(&fc); err != nil {
		return pipeline.Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg, err := Resolve(fc)
	if err != nil {
		return pipeline.Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return pipeline.Config{}, err
	}
	return cfg, nil
}

// Get returns the current resolved configuration.
func (m *Manager) Get() pipeline.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// OnChange registers a callback invoked with the newly resolved
// configuration whenever the watched file changes.
func (m *Manager) OnChange(fn func(pipeline.Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, fn)
}

// WatchConfig enables hot-reloading: on every file-system change to the
// loaded config file, it is re-parsed, re-validated, and (if valid)
// swapped in and broadcast to OnChange callbacks. An invalid edit is
// ignored without being reported, and the previous configuration is kept.
func (m *Manager) WatchConfig() {
	m.v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := m.load()
		if err != nil {
			return
		}
		m.mu.Lock()
		m.config = cfg
		callbacks := make([]func(pipeline.Config), len(m.callbacks))
		copy(callbacks, m.callbacks)
		m.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	m.v.WatchConfig()
}

// WriteDefault writes DefaultFileConfig's values to path as YAML, using
// yaml.v3 directly rather than viper (which has no "dump current config
// to a file" operation) — the starting point for a user running
// `ocrmd init-config`.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(DefaultFileConfig())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// DefaultFileConfig mirrors pipeline.DefaultConfig's literal values in the
// YAML-unmarshalable shape.
func DefaultFileConfig() FileConfig {
	d := pipeline.DefaultConfig()
	return FileConfig{
		OverlapThreshold:     d.Processing.OverlapThreshold,
		EnableElementMerging: d.Processing.EnableElementMerging,
		HeaderRegionTop:      d.Processing.HeaderRegion[0],
		HeaderRegionBottom:   d.Processing.HeaderRegion[1],
		FooterRegionTop:      d.Processing.FooterRegion[0],
		FooterRegionBottom:   d.Processing.FooterRegion[1],
		EnableHeaderFooter:   d.Processing.EnableHeaderFooterDetection,

		HeaderDetectionEnabled:   d.HeaderDetection.Enabled,
		MaxHeaderLevel:           d.HeaderDetection.MaxLevel,
		MarkdownLevelOffset:      d.HeaderDetection.MarkdownLevelOffset,
		SameLineTolerance:        d.HeaderDetection.SameLineTolerance,
		EnableHeaderMerging:      d.HeaderDetection.EnableHeaderMerging,
		AutoCalculateHeaderLevel: d.HeaderDetection.AutoCalculateLevel,
		CustomHeaderLevels:       d.HeaderDetection.CustomLevels,

		ListDetectionEnabled:       d.ListDetection.Enabled,
		EnableListItemMerging:      d.ListDetection.EnableListItemMerging,
		EnableListLevelCalculation: d.ListDetection.EnableLevelCalculation,
		ListSameLineTolerance:      d.ListDetection.SameLineTolerance,

		SmartHeaderFooterDetectionEnabled: d.HeaderFooterDetection.SmartDetectionEnabled,
		EnableContentBasedHeaderFooter:    d.HeaderFooterDetection.EnableContentBasedDetection,
		MaxHeaderFooterLength:             d.HeaderFooterDetection.MaxHeaderFooterLength,
		ExcludeCommonHeaders:              d.HeaderFooterDetection.ExcludeCommonHeaders,

		SameLineMergingEnabled:           d.SameLineMerging.Enabled,
		SameLineMergingVerticalTolerance: d.SameLineMerging.VerticalTolerance,
		SeparatorForChinese:              d.SameLineMerging.SeparatorForChinese,
		SeparatorForEnglish:              d.SameLineMerging.SeparatorForEnglish,
		SameLineMergingEnableLogging:     d.SameLineMerging.EnableLogging,

		AddTableOfContents: d.MarkdownGeneration.AddTableOfContents,
	}
}
