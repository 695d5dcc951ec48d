package record

import (
	"fmt"
	"strings"
)

// Validate reports whether r is usable for extraction: it must contain at
// least one fragment and every known tag must appear in some fragment.
func Validate(r Result) bool {
	return ValidateErr(r) == nil
}

// ValidateErr is Validate returning a *Error of KindLayout that explains the
// rejection.
//
// Tags are matched as substrings so that a label carrying stray OCR
// characters still counts. A value that happens to contain a label also marks
// it as seen; that can only produce false positives.
func ValidateErr(r Result) error {
	if len(r) < 1 {
		return NewLayoutError("result length less than 1")
	}

	seen := make(map[Tag]bool, len(Tags))
	for _, frag := range r {
		for _, spec := range Tags {
			if strings.Contains(frag.Text, string(spec.Tag)) {
				seen[spec.Tag] = true
			}
		}
	}

	var missing []string
	for _, spec := range Tags {
		if !seen[spec.Tag] {
			missing = append(missing, string(spec.Tag))
		}
	}
	if len(missing) > 0 {
		return NewLayoutError(fmt.Sprintf("not all necessary tag found (missing %s)", strings.Join(missing, ", ")))
	}
	return nil
}
