// Command ocrmd turns scanned or photographed document pages into
// structured Markdown: it drives OCR, reconstructs reading order and
// document structure, and renders the result.
package main

import (
	"github.com/tsawler/layoutmd/cmd/ocrmd/cmd"
)

func main() {
	cmd.Execute()
}
