package search

import "strings"

// Phrases that mark a result as safe to download. Matched case-insensitively
// against title, description and channel name combined.
var copyrightFreeKeywords = []string{
	"no copyright",
	"royalty free",
	"copyright free",
	"free to use",
	"public domain",
}

func isCopyrightFree(title, description, channel string) bool {
	text := strings.ToLower(title + " " + description + " " + channel)
	for _, k := range copyrightFreeKeywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
