package domain

import "strings"

// DuplicateLineIndices detects duplicate products in a candidate quote line
// set: two lines referencing the same catalog product, or two custom lines
// (nil product reference) sharing the same case-insensitive trimmed name.
//
// Every later occurrence is reported, not just the first, so callers can
// highlight all offending lines. Client-side validation runs the same check,
// but it is re-applied here because the client is not a trust boundary.
func DuplicateLineIndices(lines []QuoteLine) []int {
	seenProducts := make(map[string]bool)
	seenNames := make(map[string]bool)

	var dups []int
	for i, line := range lines {
		if line.ProductID != nil {
			key := line.ProductID.String()
			if seenProducts[key] {
				dups = append(dups, i)
				continue
			}
			seenProducts[key] = true
			continue
		}

		name := strings.ToLower(strings.TrimSpace(line.Name))
		if name == "" {
			continue
		}
		if seenNames[name] {
			dups = append(dups, i)
			continue
		}
		seenNames[name] = true
	}
	return dups
}
