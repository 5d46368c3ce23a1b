package paging

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseReferences parses a reference string such as "7, 0, 1 2 0".
// Commas, semicolons and whitespace all separate entries. Every entry must
// be a non-negative integer.
func ParseReferences(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	refs := make([]int, 0, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, NewPagingError(ErrCodeInvalidReference, "ParseReferences",
				fmt.Sprintf("entry %d (%q) is not an integer", i, f), err)
		}
		if n < 0 {
			return nil, errInvalidReference("ParseReferences", i, n)
		}
		refs = append(refs, n)
	}
	return refs, nil
}

// FormatReferences renders refs in the form ParseReferences accepts
func FormatReferences(refs []int) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, ",")
}
