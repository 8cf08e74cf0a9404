package extractor

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"analytics-eval/internal/application/port/output"
	"analytics-eval/internal/domain/entity"
)

// symbolShape matches a plausible ticker symbol. Deliberately wider than
// the valid token set: a fabricated symbol must parse here so the
// hallucination classifier can see it.
var symbolShape = regexp.MustCompile(`^[A-Z]{2,6}$`)

func (c *Chain) delegated(ctx context.Context, q entity.Query, raw string) (*entity.Value, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []entity.Message{
		{Role: entity.RoleSystem, Content: buildExtractionPrompt(q.Type)},
		{Role: entity.RoleUser, Content: fmt.Sprintf("Question: %s\n\nAgent answer:\n%s", q.Question, raw)},
	}

	resp, err := c.llm.Chat(ctx, output.ChatRequest{
		Messages:    messages,
		Temperature: 0.0,
	})
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}

	value, err := parseReply(q.Type, resp.Message.Content)
	if err != nil {
		return nil, fmt.Errorf("reply not in expected shape: %w", err)
	}
	return value, nil
}

func buildExtractionPrompt(kind entity.ValueKind) string {
	base := `You are an answer extraction service. You receive a benchmark question and the free-form answer an AI agent gave to it. Extract the value the agent committed to.

Reply with ONLY the value, no explanation, no punctuation around it.
`

	switch kind {
	case entity.KindNumber:
		base += "Expected value type: number. Reply with a plain decimal number, e.g. -13.57"
	case entity.KindPercentage:
		base += "Expected value type: percentage. Reply with the signed magnitude as a plain decimal number, e.g. 9.68 or -2.3"
	case entity.KindDate:
		base += "Expected value type: date. Reply in YYYY-MM-DD form, e.g. 2025-06-11"
	case entity.KindToken:
		base += "Expected value type: token symbol. Reply with the single ticker symbol the answer names, e.g. ETH"
	case entity.KindRanking:
		base += fmt.Sprintf("Expected value type: ranking of all %d token symbols. Reply with a comma-separated ordered list, e.g. %s",
			len(entity.Tokens), strings.Join(entity.Tokens, ", "))
	}

	base += "\n\nIf the answer does not state a value of that type, reply with the single word NONE."
	return base
}

// parseReply applies the strict per-type parser to the service's reply.
// Anything outside the fixed shape is a failed attempt, not a crash.
func parseReply(kind entity.ValueKind, reply string) (*entity.Value, error) {
	// Decoration can nest ("`ETH`."), so trim to a fixed point.
	s := strings.TrimSpace(reply)
	for {
		t := strings.Trim(s, "`\"'")
		t = strings.TrimSuffix(t, ".")
		t = strings.TrimSpace(t)
		if t == s {
			break
		}
		s = t
	}

	if s == "" {
		return nil, fmt.Errorf("empty reply")
	}
	if strings.EqualFold(s, "NONE") {
		return nil, fmt.Errorf("service reported no extractable value")
	}

	switch kind {
	case entity.KindNumber:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("parse number %q: %w", s, err)
		}
		v := entity.NewNumber(f)
		return &v, nil

	case entity.KindPercentage:
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("parse percentage %q: %w", s, err)
		}
		v := entity.NewPercentage(f)
		return &v, nil

	case entity.KindDate:
		d, err := time.Parse(entity.DateLayout, s)
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", s, err)
		}
		v := entity.NewDate(d)
		return &v, nil

	case entity.KindToken:
		sym := strings.ToUpper(s)
		if !symbolShape.MatchString(sym) {
			return nil, fmt.Errorf("%q is not a token symbol", s)
		}
		v := entity.NewToken(sym)
		return &v, nil

	case entity.KindRanking:
		parts := strings.Split(s, ",")
		if len(parts) != len(entity.Tokens) {
			return nil, fmt.Errorf("ranking has %d entries, want %d", len(parts), len(entity.Tokens))
		}
		order := make([]string, 0, len(parts))
		seen := make(map[string]bool, len(parts))
		for _, part := range parts {
			sym := strings.ToUpper(strings.TrimSpace(part))
			if !symbolShape.MatchString(sym) {
				return nil, fmt.Errorf("%q is not a token symbol", part)
			}
			if seen[sym] {
				return nil, fmt.Errorf("ranking repeats %q", sym)
			}
			seen[sym] = true
			order = append(order, sym)
		}
		v := entity.NewRanking(order)
		return &v, nil

	default:
		return nil, fmt.Errorf("unknown value kind %q", kind)
	}
}
