package pipeline

import "fmt"

// InvalidPatternError is returned when a configured regex pattern fails to
// compile. It is the only error the classifier's pattern sets can raise,
// and only at configuration-load time — see config.Resolve.
type InvalidPatternError struct {
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error { return e.Err }

// OcrAdapterError wraps a failure returned by the OCR adapter boundary
// the document driver treats this as a hard, page-skipping failure.
type OcrAdapterError struct {
	Inner error
}

func (e *OcrAdapterError) Error() string {
	return fmt.Sprintf("ocr adapter error: %v", e.Inner)
}

func (e *OcrAdapterError) Unwrap() error { return e.Inner }
