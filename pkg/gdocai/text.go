package gdocai

import (
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
)

// textFromLayout extracts text from a layout's text anchor segments.
// Segment indices count runes of the document text.
func textFromLayout(layout *documentaipb.Document_Page_Layout, fullText []rune) string {
	if layout == nil || layout.TextAnchor == nil {
		return ""
	}
	var b strings.Builder
	total := int64(len(fullText))
	for _, seg := range layout.TextAnchor.TextSegments {
		start, end := seg.StartIndex, seg.EndIndex
		if start < 0 {
			start = 0
		}
		if end > total {
			end = total
		}
		if end < 0 {
			end = 0
		}
		if start > end {
			start = end
		}
		b.WriteString(string(fullText[start:end]))
	}
	return b.String()
}
