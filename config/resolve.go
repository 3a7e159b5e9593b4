package config

import (
	"regexp"

	"github.com/tsawler/layoutmd/pipeline"
)

// Resolve builds a pipeline.Config from fc, layering any extra user
// patterns on top of the compiled-in defaults. Pattern compilation
// failures are surfaced as pipeline.InvalidPatternError, never a panic.
func Resolve(fc FileConfig) (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()

	cfg.Processing.OverlapThreshold = fc.OverlapThreshold
	cfg.Processing.EnableElementMerging = fc.EnableElementMerging
	cfg.Processing.HeaderRegion = [2]float64{fc.HeaderRegionTop, fc.HeaderRegionBottom}
	cfg.Processing.FooterRegion = [2]float64{fc.FooterRegionTop, fc.FooterRegionBottom}
	cfg.Processing.EnableHeaderFooterDetection = fc.EnableHeaderFooter

	cfg.HeaderDetection.Enabled = fc.HeaderDetectionEnabled
	cfg.HeaderDetection.MaxLevel = fc.MaxHeaderLevel
	cfg.HeaderDetection.MarkdownLevelOffset = fc.MarkdownLevelOffset
	cfg.HeaderDetection.SameLineTolerance = fc.SameLineTolerance
	cfg.HeaderDetection.EnableHeaderMerging = fc.EnableHeaderMerging
	cfg.HeaderDetection.AutoCalculateLevel = fc.AutoCalculateHeaderLevel
	for keyword, level := range fc.CustomHeaderLevels {
		if cfg.HeaderDetection.CustomLevels == nil {
			cfg.HeaderDetection.CustomLevels = map[string]int{}
		}
		cfg.HeaderDetection.CustomLevels[keyword] = level
	}

	cfg.ListDetection.Enabled = fc.ListDetectionEnabled
	cfg.ListDetection.EnableListItemMerging = fc.EnableListItemMerging
	cfg.ListDetection.EnableLevelCalculation = fc.EnableListLevelCalculation
	cfg.ListDetection.SameLineTolerance = fc.ListSameLineTolerance

	cfg.HeaderFooterDetection.SmartDetectionEnabled = fc.SmartHeaderFooterDetectionEnabled
	cfg.HeaderFooterDetection.EnableContentBasedDetection = fc.EnableContentBasedHeaderFooter
	cfg.HeaderFooterDetection.MaxHeaderFooterLength = fc.MaxHeaderFooterLength
	cfg.HeaderFooterDetection.ExcludeCommonHeaders = fc.ExcludeCommonHeaders

	cfg.SameLineMerging.Enabled = fc.SameLineMergingEnabled
	cfg.SameLineMerging.VerticalTolerance = fc.SameLineMergingVerticalTolerance
	cfg.SameLineMerging.SeparatorForChinese = fc.SeparatorForChinese
	cfg.SameLineMerging.SeparatorForEnglish = fc.SeparatorForEnglish
	cfg.SameLineMerging.EnableLogging = fc.SameLineMergingEnableLogging

	cfg.MarkdownGeneration.AddTableOfContents = fc.AddTableOfContents

	if err := appendExtra(&cfg.HeaderDetection.Patterns.Numbered, fc.ExtraHeaderNumberedPatterns); err != nil {
		return pipeline.Config{}, err
	}
	if err := appendExtra(&cfg.HeaderDetection.Patterns.Lettered, fc.ExtraHeaderLetteredPatterns); err != nil {
		return pipeline.Config{}, err
	}
	if err := appendExtra(&cfg.HeaderDetection.Patterns.Roman, fc.ExtraHeaderRomanPatterns); err != nil {
		return pipeline.Config{}, err
	}
	if err := appendExtra(&cfg.HeaderDetection.Patterns.Named, fc.ExtraHeaderNamedPatterns); err != nil {
		return pipeline.Config{}, err
	}

	if err := appendExtra(&cfg.ListDetection.Patterns.Numbered, fc.ExtraListNumberedPatterns); err != nil {
		return pipeline.Config{}, err
	}
	if err := appendExtra(&cfg.ListDetection.Patterns.Lettered, fc.ExtraListLetteredPatterns); err != nil {
		return pipeline.Config{}, err
	}
	if err := appendExtra(&cfg.ListDetection.Patterns.Bullet, fc.ExtraListBulletPatterns); err != nil {
		return pipeline.Config{}, err
	}
	if err := appendExtra(&cfg.ListDetection.Patterns.Roman, fc.ExtraListRomanPatterns); err != nil {
		return pipeline.Config{}, err
	}
	if err := appendExtra(&cfg.ListDetection.Patterns.Custom, fc.ExtraListCustomPatterns); err != nil {
		return pipeline.Config{}, err
	}

	return cfg, nil
}

// appendExtra compiles patterns and appends them onto *dst in place.
func appendExtra(dst *[]*regexp.Regexp, patterns []string) error {
	extra, err := compileExtra(patterns)
	if err != nil {
		return err
	}
	*dst = append(*dst, extra...)
	return nil
}

func compileExtra(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, &pipeline.InvalidPatternError{Pattern: p, Err: err}
		}
		out = append(out, re)
	}
	return out, nil
}
