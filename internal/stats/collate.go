package stats

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NewCollator returns a pt-BR collator that ignores case, accents and width.
// A Collator is not safe for concurrent use; create one per sort.
func NewCollator() *collate.Collator {
	return collate.New(language.BrazilianPortuguese, collate.Loose)
}
