package fileloader

import (
	"strconv"
	"strings"
)

// excelColumnName converts a 0-based index to Excel-style column name.
// Examples: 0 -> A, 25 -> Z, 26 -> AA, 701 -> ZZ, 702 -> AAA
func excelColumnName(index int) string {
	var b []byte
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}

// NormalizeHeaders trims header names, replaces blank ones with Unnamed_A,
// Unnamed_B, ... and suffixes repeated names with _2, _3, ... so that every
// column stays addressable by name.
//
//	Input:  ["name", "", "age", "  ", "name"]
//	Output: ["name", "Unnamed_A", "age", "Unnamed_B", "name_2"]
func NormalizeHeaders(header []string) []string {
	normalized := make([]string, len(header))
	seen := make(map[string]int, len(header))
	unnamed := 0
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "Unnamed_" + excelColumnName(unnamed)
			unnamed++
		}
		key := strings.ToLower(name)
		seen[key]++
		if n := seen[key]; n > 1 {
			name += "_" + strconv.Itoa(n)
		}
		normalized[i] = name
	}
	return normalized
}

// syntheticHeaders returns n Unnamed_X headers for header-less sources.
func syntheticHeaders(n int) []string {
	return NormalizeHeaders(make([]string, n))
}
