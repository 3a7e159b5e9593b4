package config

import (
	"fmt"

	"github.com/tsawler/layoutmd/pipeline"
)

// Validate checks numeric ranges and region geometry that Resolve itself
// cannot enforce (it only fails on pattern compilation).
func Validate(cfg pipeline.Config) error {
	if cfg.Processing.OverlapThreshold <= 0 || cfg.Processing.OverlapThreshold > 1 {
		return fmt.Errorf("overlap_threshold must be in (0, 1], got %v", cfg.Processing.OverlapThreshold)
	}
	if cfg.HeaderDetection.MaxLevel < 1 || cfg.HeaderDetection.MaxLevel > 6 {
		return fmt.Errorf("max_header_level must be in [1, 6], got %d", cfg.HeaderDetection.MaxLevel)
	}
	if cfg.HeaderDetection.SameLineTolerance < 0 || cfg.HeaderDetection.SameLineTolerance > 0.5 {
		return fmt.Errorf("same_line_tolerance must be in [0, 0.5], got %v", cfg.HeaderDetection.SameLineTolerance)
	}
	if cfg.ListDetection.SameLineTolerance < 0 || cfg.ListDetection.SameLineTolerance > 0.5 {
		return fmt.Errorf("list_same_line_tolerance must be in [0, 0.5], got %v", cfg.ListDetection.SameLineTolerance)
	}
	if cfg.SameLineMerging.VerticalTolerance < 0 || cfg.SameLineMerging.VerticalTolerance > 0.5 {
		return fmt.Errorf("same_line_merging_vertical_tolerance must be in [0, 0.5], got %v", cfg.SameLineMerging.VerticalTolerance)
	}
	if cfg.HeaderFooterDetection.MaxHeaderFooterLength < 1 {
		return fmt.Errorf("max_header_footer_length must be >= 1, got %d", cfg.HeaderFooterDetection.MaxHeaderFooterLength)
	}

	hr := cfg.Processing.HeaderRegion
	fr := cfg.Processing.FooterRegion
	if hr[0] < 0 || hr[1] > 1 || hr[0] >= hr[1] {
		return fmt.Errorf("header_region must be an increasing range within [0, 1], got %v", hr)
	}
	if fr[0] < 0 || fr[1] > 1 || fr[0] >= fr[1] {
		return fmt.Errorf("footer_region must be an increasing range within [0, 1], got %v", fr)
	}
	if hr[1] > fr[0] {
		return fmt.Errorf("header_region and footer_region must not overlap: header ends at %v, footer starts at %v", hr[1], fr[0])
	}

	return nil
}
