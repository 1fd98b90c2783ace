package errors

import (
	"fmt"
	"strings"
)

// SuggestName suggests the closest known name for an unknown one, using
// Levenshtein distance. It returns "" when nothing is close enough.
func SuggestName(unknown string, known []string) string {
	if len(known) == 0 {
		return ""
	}

	minDistance := 1000
	var bestMatch string

	for _, name := range known {
		dist := levenshteinDistance(unknown, name)
		if dist < minDistance {
			minDistance = dist
			bestMatch = name
		}
	}

	// Only suggest if the distance is small relative to the name
	limit := max(len(unknown)/3, 2)
	if minDistance <= limit {
		return fmt.Sprintf("Did you mean '%s'?", bestMatch)
	}
	return ""
}

// SuggestDefineProfile suggests adding a missing include profile.
func SuggestDefineProfile(name string) string {
	return fmt.Sprintf("Define '%s' under global._includes or load it with _include_files", name)
}

// SuggestKeyPattern describes the accepted key syntax.
func SuggestKeyPattern(pattern string) string {
	return fmt.Sprintf("Use a key matching %s", strings.TrimSpace(pattern))
}

// levenshteinDistance computes the Levenshtein distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	len1 := len(s1)
	len2 := len(s2)

	matrix := make([][]int, len1+1)
	for i := range matrix {
		matrix[i] = make([]int, len2+1)
	}

	for i := 0; i <= len1; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len1; i++ {
		for j := 1; j <= len2; j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // Deletion
				matrix[i][j-1]+1,      // Insertion
				matrix[i-1][j-1]+cost, // Substitution
			)
		}
	}

	return matrix[len1][len2]
}
