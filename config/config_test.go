package config

import (
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/layoutmd/pipeline"
)

func TestResolveAppliesFileConfigOverrides(t *testing.T) {
	fc := DefaultFileConfig()
	fc.OverlapThreshold = 0.75
	fc.MaxHeaderLevel = 4

	cfg, err := Resolve(fc)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Processing.OverlapThreshold != 0.75 {
		t.Errorf("OverlapThreshold = %v, want 0.75", cfg.Processing.OverlapThreshold)
	}
	if cfg.HeaderDetection.MaxLevel != 4 {
		t.Errorf("MaxLevel = %d, want 4", cfg.HeaderDetection.MaxLevel)
	}
}

func TestResolveRejectsInvalidExtraPattern(t *testing.T) {
	fc := DefaultFileConfig()
	fc.ExtraHeaderNamedPatterns = []string{"(unterminated"}

	_, err := Resolve(fc)
	if err == nil {
		t.Fatal("expected an error for an unterminated regex")
	}
	var patternErr *pipeline.InvalidPatternError
	if !asInvalidPatternError(err, &patternErr) {
		t.Errorf("expected *pipeline.InvalidPatternError, got %T: %v", err, err)
	}
}

func TestResolveWiresFullConfigurationTree(t *testing.T) {
	fc := DefaultFileConfig()
	fc.HeaderDetectionEnabled = false
	fc.EnableHeaderMerging = false
	fc.AutoCalculateHeaderLevel = false
	fc.CustomHeaderLevels = map[string]int{"自定义": 3}
	fc.ListDetectionEnabled = false
	fc.EnableListItemMerging = false
	fc.EnableListLevelCalculation = false
	fc.ListSameLineTolerance = 0.02
	fc.SmartHeaderFooterDetectionEnabled = false
	fc.EnableContentBasedHeaderFooter = false
	fc.MaxHeaderFooterLength = 40
	fc.ExcludeCommonHeaders = []string{"Confidential"}
	fc.SameLineMergingEnabled = false
	fc.SameLineMergingVerticalTolerance = 0.03
	fc.SameLineMergingEnableLogging = true

	cfg, err := Resolve(fc)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if cfg.HeaderDetection.Enabled {
		t.Error("HeaderDetection.Enabled not wired")
	}
	if cfg.HeaderDetection.EnableHeaderMerging {
		t.Error("HeaderDetection.EnableHeaderMerging not wired")
	}
	if cfg.HeaderDetection.AutoCalculateLevel {
		t.Error("HeaderDetection.AutoCalculateLevel not wired")
	}
	if cfg.HeaderDetection.CustomLevels["自定义"] != 3 {
		t.Error("HeaderDetection.CustomLevels not wired")
	}
	if cfg.ListDetection.Enabled {
		t.Error("ListDetection.Enabled not wired")
	}
	if cfg.ListDetection.EnableListItemMerging {
		t.Error("ListDetection.EnableListItemMerging not wired")
	}
	if cfg.ListDetection.EnableLevelCalculation {
		t.Error("ListDetection.EnableLevelCalculation not wired")
	}
	if cfg.ListDetection.SameLineTolerance != 0.02 {
		t.Error("ListDetection.SameLineTolerance not wired")
	}
	if cfg.HeaderFooterDetection.SmartDetectionEnabled {
		t.Error("HeaderFooterDetection.SmartDetectionEnabled not wired")
	}
	if cfg.HeaderFooterDetection.EnableContentBasedDetection {
		t.Error("HeaderFooterDetection.EnableContentBasedDetection not wired")
	}
	if cfg.HeaderFooterDetection.MaxHeaderFooterLength != 40 {
		t.Error("HeaderFooterDetection.MaxHeaderFooterLength not wired")
	}
	if len(cfg.HeaderFooterDetection.ExcludeCommonHeaders) != 1 || cfg.HeaderFooterDetection.ExcludeCommonHeaders[0] != "Confidential" {
		t.Error("HeaderFooterDetection.ExcludeCommonHeaders not wired")
	}
	if cfg.SameLineMerging.Enabled {
		t.Error("SameLineMerging.Enabled not wired")
	}
	if cfg.SameLineMerging.VerticalTolerance != 0.03 {
		t.Error("SameLineMerging.VerticalTolerance not wired")
	}
	if !cfg.SameLineMerging.EnableLogging {
		t.Error("SameLineMerging.EnableLogging not wired")
	}
}

func TestResolveAppendsExtraPatternsAcrossAllGrammars(t *testing.T) {
	fc := DefaultFileConfig()
	fc.ExtraHeaderNumberedPatterns = []string{`^第(\d+)条\s+`}
	fc.ExtraListBulletPatterns = []string{`^([➤])\s+`}

	cfg, err := Resolve(fc)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(cfg.HeaderDetection.Patterns.Numbered) != 2 {
		t.Errorf("expected extra numbered header pattern appended, got %d patterns", len(cfg.HeaderDetection.Patterns.Numbered))
	}
	if len(cfg.ListDetection.Patterns.Bullet) != 2 {
		t.Errorf("expected extra bullet list pattern appended, got %d patterns", len(cfg.ListDetection.Patterns.Bullet))
	}
}

func asInvalidPatternError(err error, target **pipeline.InvalidPatternError) bool {
	if e, ok := err.(*pipeline.InvalidPatternError); ok {
		*target = e
		return true
	}
	return false
}

func TestValidateDefaultConfigPasses(t *testing.T) {
	if err := Validate(pipeline.DefaultConfig()); err != nil {
		t.Fatalf("DefaultConfig should validate cleanly: %v", err)
	}
}

func TestValidateRejectsOverlappingRegions(t *testing.T) {
	cfg := pipeline.DefaultConfig()
	cfg.Processing.HeaderRegion = [2]float64{0.0, 0.95}
	cfg.Processing.FooterRegion = [2]float64{0.9, 1.0}

	if err := Validate(cfg); err == nil {
		t.Fatal("expected an error for overlapping header/footer regions")
	}
}

func TestValidateRejectsOutOfRangeOverlapThreshold(t *testing.T) {
	cfg := pipeline.DefaultConfig()
	cfg.Processing.OverlapThreshold = 1.5

	if err := Validate(cfg); err == nil {
		t.Fatal("expected an error for an out-of-range overlap threshold")
	}
}

func TestWriteDefaultProducesLoadableYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ocrmd.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager loading written default config: %v", err)
	}

	cfg := mgr.Get()
	want := DefaultFileConfig()
	if cfg.Processing.OverlapThreshold != want.OverlapThreshold {
		t.Errorf("OverlapThreshold = %v, want %v", cfg.Processing.OverlapThreshold, want.OverlapThreshold)
	}
	if cfg.HeaderDetection.MaxLevel != want.MaxHeaderLevel {
		t.Errorf("MaxLevel = %d, want %d", cfg.HeaderDetection.MaxLevel, want.MaxHeaderLevel)
	}
}

func TestFileConfigRoundTripsThroughYAML(t *testing.T) {
	fc := DefaultFileConfig()
	fc.OverlapThreshold = 0.42

	data, err := yaml.Marshal(fc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded FileConfig
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.OverlapThreshold != 0.42 {
		t.Errorf("OverlapThreshold = %v, want 0.42", decoded.OverlapThreshold)
	}
}
