package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Without the "ocr" build tag, ocr.NewTesseractAdapter returns the stub
// adapter, whose SetLanguage always fails — process should surface that
// as a clear error rather than panicking or silently producing empty
// output.
func TestRunProcessFailsCleanlyWithoutOCRBuildTag(t *testing.T) {
	mgr, err := newTestManager(t)
	require.NoError(t, err)
	cfgManager = mgr
	defer func() { cfgManager = nil }()

	tmp := t.TempDir() + "/page1.png"
	require.NoError(t, writeTinyPNG(tmp))

	processCmd.SetArgs([]string{tmp})
	err = processCmd.RunE(processCmd, []string{tmp})
	assert.Error(t, err)
}
