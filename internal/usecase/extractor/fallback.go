package extractor

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"analytics-eval/internal/domain/entity"
)

var (
	percentRe     = regexp.MustCompile(`([+-]?\d+(?:\.\d+)?)\s*%`)
	percentWordRe = regexp.MustCompile(`(?i)([+-]?\d+(?:\.\d+)?)\s*(?:percentage|percent|pct)\b`)
	numberRe      = regexp.MustCompile(`[+-]?\d+(?:\.\d+)?`)
	thousandsRe   = regexp.MustCompile(`(\d),(\d{3})\b`)
	currencyRe    = regexp.MustCompile(`[$€£]`)
	wordRe        = regexp.MustCompile(`[A-Za-z]+`)

	negativeCueRe = regexp.MustCompile(`(?i)\b(decreased?|drop(?:ped|s)?|down|fell|fall|loss|lost|declined?)\b`)
	positiveCueRe = regexp.MustCompile(`(?i)\b(increased?|gain(?:ed)?|up|rose|rise|grew|growth)\b`)
	deltaCueRe    = regexp.MustCompile(`(?i)\b(change|changed|delta|difference|moved|net)\b`)

	months = "January|February|March|April|May|June|July|August|September|October|November|December"

	isoDateRe      = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	monthFirstRe   = regexp.MustCompile(`(?i)\b(` + months + `)\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)
	dayFirstRe     = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(` + months + `)\s+(\d{4})\b`)
	slashDateRe    = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
)

// Fallback applies the deterministic per-type pattern rules. It returns
// nil when the text carries no extractable value of the requested kind.
func Fallback(kind entity.ValueKind, question, raw string) *entity.Value {
	text := StripMarkup(raw)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	switch kind {
	case entity.KindPercentage:
		return fallbackPercentage(question, text)
	case entity.KindNumber:
		return fallbackNumber(question, text)
	case entity.KindDate:
		return fallbackDate(text)
	case entity.KindToken:
		return fallbackToken(text)
	case entity.KindRanking:
		return fallbackRanking(text)
	default:
		return nil
	}
}

// fallbackPercentage locates a numeric token next to a percent sign or a
// percent word. Answers routinely restate the question's threshold
// ("moved more than 5% on 9.68% of days"), so candidates whose figure the
// question itself mentions are skipped in favor of the answer's own
// number. When the match carries no explicit sign, the sign is inferred
// from directional wording around it.
func fallbackPercentage(question, text string) *entity.Value {
	candidates := percentRe.FindAllStringSubmatch(text, -1)
	if candidates == nil {
		candidates = percentWordRe.FindAllStringSubmatch(text, -1)
	}
	if candidates == nil {
		return nil
	}

	asked := questionPercents(question)
	pick := candidates[0][1]
	for _, m := range candidates {
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if asked[math.Abs(f)] {
			continue
		}
		pick = m[1]
		break
	}

	f, err := strconv.ParseFloat(pick, 64)
	if err != nil {
		return nil
	}
	if !hasExplicitSign(pick) {
		f = inferSign(text, f)
	}

	v := entity.NewPercentage(f)
	return &v
}

// questionPercents collects the percentage figures the question mentions,
// keyed by magnitude.
func questionPercents(question string) map[float64]bool {
	out := make(map[float64]bool)
	for _, re := range []*regexp.Regexp{percentRe, percentWordRe} {
		for _, m := range re.FindAllStringSubmatch(question, -1) {
			if f, err := strconv.ParseFloat(m[1], 64); err == nil {
				out[math.Abs(f)] = true
			}
		}
	}
	return out
}

// fallbackNumber strips currency symbols and thousands separators, then
// takes the first plausible decimal token. Sign inference applies only
// when the question concerns a change or delta.
func fallbackNumber(question, text string) *entity.Value {
	t := currencyRe.ReplaceAllString(text, "")
	for {
		stripped := thousandsRe.ReplaceAllString(t, "$1$2")
		if stripped == t {
			break
		}
		t = stripped
	}

	m := numberRe.FindString(t)
	if m == "" {
		return nil
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	if !hasExplicitSign(m) && deltaCueRe.MatchString(question) {
		f = inferSign(text, f)
	}

	v := entity.NewNumber(f)
	return &v
}

// fallbackDate tries the common written date forms and keeps the first
// candidate that survives calendar validation.
func fallbackDate(text string) *entity.Value {
	for _, m := range isoDateRe.FindAllString(text, -1) {
		if d, err := time.Parse(entity.DateLayout, m); err == nil {
			v := entity.NewDate(d)
			return &v
		}
	}

	for _, m := range monthFirstRe.FindAllStringSubmatch(text, -1) {
		if d, ok := parseWrittenDate(m[1], m[2], m[3]); ok {
			v := entity.NewDate(d)
			return &v
		}
	}

	for _, m := range dayFirstRe.FindAllStringSubmatch(text, -1) {
		if d, ok := parseWrittenDate(m[2], m[1], m[3]); ok {
			v := entity.NewDate(d)
			return &v
		}
	}

	// Slash dates are read month-first.
	for _, m := range slashDateRe.FindAllStringSubmatch(text, -1) {
		if d, err := time.Parse("1/2/2006", m[1]+"/"+m[2]+"/"+m[3]); err == nil {
			v := entity.NewDate(d)
			return &v
		}
	}

	return nil
}

func parseWrittenDate(month, day, year string) (time.Time, bool) {
	month = strings.ToUpper(month[:1]) + strings.ToLower(month[1:])
	d, err := time.Parse("January 2 2006", month+" "+day+" "+year)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// fallbackToken matches the closed symbol set, by symbol or full asset
// name. More than one distinct symbol in the text is ambiguous and is
// rejected rather than guessed at.
func fallbackToken(text string) *entity.Value {
	found := tokensInOrder(text)
	if len(found) != 1 {
		return nil
	}
	v := entity.NewToken(found[0])
	return &v
}

// fallbackRanking reads the token mentions in order of appearance,
// deduplicated first-seen. Only a complete permutation of the token set
// is accepted; partial or repeated sequences are failed extractions.
func fallbackRanking(text string) *entity.Value {
	found := tokensInOrder(text)
	if len(found) != len(entity.Tokens) {
		return nil
	}
	v := entity.NewRanking(found)
	return &v
}

// tokensInOrder walks the words of the text and maps each onto a symbol
// from the closed set, directly or via a full-name alias. List separators
// (commas, arrows, "then", ">") all reduce to word boundaries here.
func tokensInOrder(text string) []string {
	var found []string
	seen := make(map[string]bool, len(entity.Tokens))

	for _, word := range wordRe.FindAllString(text, -1) {
		word = strings.ToUpper(word)
		sym := ""
		if entity.IsValidToken(word) {
			sym = word
		} else if alias, ok := entity.TokenAliases[word]; ok {
			sym = alias
		}
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		found = append(found, sym)
	}
	return found
}

func hasExplicitSign(s string) bool {
	return strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-")
}

// inferSign flips a positive magnitude when the surrounding wording
// points down and nothing points up.
func inferSign(text string, f float64) float64 {
	if f > 0 && negativeCueRe.MatchString(text) && !positiveCueRe.MatchString(text) {
		return -f
	}
	return f
}
