// Package pageenum counts pages in a source PDF. No other package in this
// module imports it, neither the core pipeline packages nor the CLI.
package pageenum

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// CountPages returns the number of pages in the PDF at path.
func CountPages(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("pageenum: counting pages in %q: %w", path, err)
	}
	return n, nil
}
