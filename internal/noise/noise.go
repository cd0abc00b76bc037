package noise

import "strings"

// Tokens is the shared boilerplate blocklist applied to extracted paragraphs
// and to normalizer input lines. The page-level and article-level filters
// historically drifted apart; keeping a single set here prevents that.
var Tokens = []string{
	"komentar",
	"admin",
	"redaksi",
	"copyright",
	"subscribe",
	"baca juga",
	"lihat juga",
	"iklan",
	"advertisement",
	"follow us",
	"join us",
	"follow",
	"share this",
	"share",
	"like",
	"tweet",
	"facebook",
	"instagram",
	"whatsapp",
	"telegram",
	"related articles",
	"po-content",
	"loading",
	"error",
	"not found",
}

// Contains reports whether s includes any blocklisted token,
// case-insensitively.
func Contains(s string) bool {
	lower := strings.ToLower(s)
	for _, tok := range Tokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}
