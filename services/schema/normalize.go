package schema

// maxCorrectionDistance bounds fuzzy command-name correction. Distance 3 or
// more is never corrected.
const maxCorrectionDistance = 2

// normalizeCommandName maps a misspelled command name onto the unique
// closest allow-listed name within maxCorrectionDistance. Exact matches pass
// through unchanged. Ambiguous ties are never corrected - the caller falls
// back to the unknown-command diagnostic, which is deterministic and safe.
func normalizeCommandName(name string, candidates []string) (string, bool) {
	bestDistance := maxCorrectionDistance + 1
	bestMatch := ""
	tied := false

	for _, candidate := range candidates {
		if candidate == name {
			return name, true
		}
		distance := levenshteinDistance(name, candidate)
		switch {
		case distance < bestDistance:
			bestDistance = distance
			bestMatch = candidate
			tied = false
		case distance == bestDistance:
			tied = true
		}
	}

	if bestMatch == "" || tied {
		return name, false
	}
	return bestMatch, true
}

func levenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	previousRow := make([]int, len(b)+1)
	for j := range previousRow {
		previousRow[j] = j
	}

	for i := 1; i <= len(a); i++ {
		currentRow := make([]int, len(b)+1)
		currentRow[0] = i
		for j := 1; j <= len(b); j++ {
			insertions := previousRow[j] + 1
			deletions := currentRow[j-1] + 1
			substitutions := previousRow[j-1]
			if a[i-1] != b[j-1] {
				substitutions++
			}
			currentRow[j] = min(insertions, deletions, substitutions)
		}
		previousRow = currentRow
	}

	return previousRow[len(b)]
}
