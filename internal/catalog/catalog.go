// Package catalog validates and canonicalizes the identifying attributes of a
// recording: ship name (against the embedded reference list), echosounder
// model, and data source. All lookups are pure and touch no network.
package catalog

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"

	"github.com/seabeam/echofetch/internal/errs"
)

// NormalizeShipName canonicalizes a ship name to the spelling used in every
// storage key: lower-cased, punctuation stripped, title-cased, with
// underscores for spaces. `HENRY B. BIGELOW` becomes `Henry_B_Bigelow`.
func NormalizeShipName(name string) string {
	name = strings.ToLower(name)
	// Users sometimes pass the already-underscored form.
	name = strings.ReplaceAll(name, "_", " ")

	var b strings.Builder
	for _, r := range name {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}

	words := strings.Fields(b.String())
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, "_")
}

// LookupShip normalizes name and resolves it against the reference list.
// An unknown name fails with an unknown_ship error carrying up to three
// closest-match suggestions, computed before any network call could happen.
func LookupShip(name string) (Ship, error) {
	if strings.TrimSpace(name) == "" {
		return Ship{}, errs.New(errs.ErrKindUnknownShip, "ship name is empty")
	}
	normalized := NormalizeShipName(name)
	if ship, ok := shipIndex[normalized]; ok {
		return ship, nil
	}

	if suggestions := closeMatches(normalized, 3); len(suggestions) > 0 {
		return Ship{}, errs.Newf(errs.ErrKindUnknownShip,
			"ship %q is not in the reference list, did you mean one of %v",
			normalized, suggestions)
	}
	return Ship{}, errs.Newf(errs.ErrKindUnknownShip,
		"ship %q is not in the reference list", normalized)
}

// closeMatches returns up to n reference names whose similarity to name is at
// least 0.6, best first. Similarity is 1 - dist/maxLen over the normalized
// spellings.
func closeMatches(name string, n int) []string {
	type scored struct {
		name  string
		score float64
	}
	var candidates []scored
	for _, s := range referenceShips {
		d := levenshtein.ComputeDistance(name, s.Name)
		longest := max(len(name), len(s.Name))
		if longest == 0 {
			continue
		}
		score := 1 - float64(d)/float64(longest)
		if score >= 0.6 {
			candidates = append(candidates, scored{s.Name, score})
		}
	}
	// Insertion sort; the candidate list is tiny.
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].score > candidates[j-1].score; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}
	return out
}

// validEchosounders is the closed set of supported instrument models,
// matching the directory names used by the archive.
var validEchosounders = map[string]struct{}{
	"EK500": {}, "EK60": {}, "EK80": {},
	"ES60": {}, "ES80": {},
	"EM122": {}, "EM124": {}, "EM302": {}, "EM304": {},
	"EM710": {}, "EM712": {},
	"EM2040": {}, "EM2040C": {}, "EM2040P": {}, "EM2045": {}, "EM3002": {},
	"ME70": {}, "MS70": {}, "M3": {},
	"RESON7125": {},
}

// ValidateEchosounder checks membership in the supported instrument enum.
func ValidateEchosounder(v string) error {
	if v == "" {
		return errs.New(errs.ErrKindInvalidEchosounder, "echosounder is empty")
	}
	if _, ok := validEchosounders[v]; !ok {
		return errs.Newf(errs.ErrKindInvalidEchosounder,
			"echosounder %q is not supported", v)
	}
	return nil
}

// Echosounders returns the supported instrument models, unordered.
func Echosounders() []string {
	out := make([]string, 0, len(validEchosounders))
	for k := range validEchosounders {
		out = append(out, k)
	}
	return out
}

// DataSource identifies which upstream system a recording originates from.
type DataSource string

const (
	SourceNCEI DataSource = "NCEI" // public long-term archive
	SourceOMAO DataSource = "OMAO" // on-premises fleet container
	SourceHDD  DataSource = "HDD"  // local disk ingest
	SourceTest DataSource = "TEST" // test fixtures
)

// ParseDataSource validates and converts a data source string.
func ParseDataSource(v string) (DataSource, error) {
	switch DataSource(v) {
	case SourceNCEI, SourceOMAO, SourceHDD, SourceTest:
		return DataSource(v), nil
	default:
		return "", errs.Newf(errs.ErrKindInvalidIdentity,
			"data source %q is not one of NCEI, OMAO, HDD, TEST", v)
	}
}
