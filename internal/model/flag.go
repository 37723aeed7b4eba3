package model

import (
	"strings"
	"unicode"
)

// knownFlags maps country codes that are not plain ISO 3166 codes, or
// whose ISO code differs from the one used in the dataset.
var knownFlags = map[string]string{
	"UK":            "🇬🇧",
	"EU":            "🇪🇺",
	"UE":            "🇪🇺",
	"International": "🌍",
}

// regionalIndicatorA is the code point of REGIONAL INDICATOR SYMBOL LETTER A.
const regionalIndicatorA = 0x1F1E6

// FlagEmoji returns the flags of the given country codes separated by
// spaces. Codes without a known flag are skipped.
func FlagEmoji(countries []string) string {
	flags := make([]string, 0, len(countries))
	for _, code := range countries {
		if flag := flagFor(strings.TrimSpace(code)); flag != "" {
			flags = append(flags, flag)
		}
	}
	return strings.Join(flags, " ")
}

// flagFor returns the flag of one code, or "" when there is none.
// Any two-letter code is turned into its pair of regional indicators.
func flagFor(code string) string {
	if flag, ok := knownFlags[code]; ok {
		return flag
	}
	runes := []rune(code)
	if len(runes) != 2 {
		return ""
	}
	var sb strings.Builder
	for _, r := range runes {
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			return ""
		}
		sb.WriteRune(regionalIndicatorA + unicode.ToUpper(r) - 'A')
	}
	return sb.String()
}
