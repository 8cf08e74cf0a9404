package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValueKind tags the variant carried by a Value.
type ValueKind string

const (
	KindNumber     ValueKind = "number"
	KindPercentage ValueKind = "percentage"
	KindDate       ValueKind = "date"
	KindToken      ValueKind = "token"
	KindRanking    ValueKind = "ranking"
)

// DateLayout is the canonical calendar form used everywhere in the engine.
const DateLayout = "2006-01-02"

// Tokens is the closed symbol universe queries are asked about.
// Rankings are permutations over exactly this set.
var Tokens = []string{"SOL", "ETH", "TAO"}

// TokenAliases maps full asset names (upper-cased) to their symbol.
var TokenAliases = map[string]string{
	"SOLANA":    "SOL",
	"ETHEREUM":  "ETH",
	"ETHER":     "ETH",
	"BITTENSOR": "TAO",
}

// IsValidToken reports whether sym belongs to the closed token set.
func IsValidToken(sym string) bool {
	sym = strings.ToUpper(sym)
	for _, t := range Tokens {
		if t == sym {
			return true
		}
	}
	return false
}

// Value is the tagged variant an answer is extracted into. Exactly one
// payload field is meaningful, selected by Kind.
type Value struct {
	Kind    ValueKind `json:"kind"`
	Number  float64   `json:"number,omitempty"`
	Date    time.Time `json:"date,omitempty"`
	Token   string    `json:"token,omitempty"`
	Ranking []string  `json:"ranking,omitempty"`
}

func NewNumber(v float64) Value     { return Value{Kind: KindNumber, Number: v} }
func NewPercentage(v float64) Value { return Value{Kind: KindPercentage, Number: v} }
func NewDate(d time.Time) Value     { return Value{Kind: KindDate, Date: d} }
func NewToken(sym string) Value     { return Value{Kind: KindToken, Token: sym} }
func NewRanking(order []string) Value {
	return Value{Kind: KindRanking, Ranking: order}
}

// Normalize canonicalizes a value: token symbols upper-cased, dates
// truncated to the calendar day in UTC, ranking members upper-cased.
// Idempotent: normalizing twice equals normalizing once.
func (v Value) Normalize() Value {
	switch v.Kind {
	case KindDate:
		y, m, d := v.Date.Date()
		v.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	case KindToken:
		v.Token = strings.ToUpper(strings.TrimSpace(v.Token))
	case KindRanking:
		order := make([]string, len(v.Ranking))
		for i, sym := range v.Ranking {
			order[i] = strings.ToUpper(strings.TrimSpace(sym))
		}
		v.Ranking = order
	}
	return v
}

// Validate checks structural invariants that must hold before matching:
// a non-zero date, a non-empty token, and a ranking that is duplicate-free
// and has one slot per token in the universe.
func (v Value) Validate() error {
	switch v.Kind {
	case KindNumber, KindPercentage:
		return nil
	case KindDate:
		if v.Date.IsZero() {
			return fmt.Errorf("date value is zero")
		}
		return nil
	case KindToken:
		if v.Token == "" {
			return fmt.Errorf("token value is empty")
		}
		return nil
	case KindRanking:
		if len(v.Ranking) != len(Tokens) {
			return fmt.Errorf("ranking has %d entries, want %d", len(v.Ranking), len(Tokens))
		}
		seen := make(map[string]bool, len(v.Ranking))
		for _, sym := range v.Ranking {
			if seen[sym] {
				return fmt.Errorf("ranking repeats %q", sym)
			}
			seen[sym] = true
		}
		return nil
	default:
		return fmt.Errorf("unknown value kind %q", v.Kind)
	}
}

// String renders the value in the same fixed textual shape the extraction
// service is asked to reply in.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindPercentage:
		return strconv.FormatFloat(v.Number, 'f', -1, 64) + "%"
	case KindDate:
		return v.Date.Format(DateLayout)
	case KindToken:
		return v.Token
	case KindRanking:
		return strings.Join(v.Ranking, ", ")
	default:
		return ""
	}
}
