package intent

import (
	"regexp"
	"strings"

	"spark/internal/logging"
)

// Parser evaluates the rule table against normalized utterances. It holds
// only compiled, read-only state and is safe for concurrent use.
type Parser struct {
	rules []compiledRule
}

type compiledRule struct {
	rule      Rule
	order     int
	phraseRes []*regexp.Regexp // word-boundary anchored literals, paired with rule.Phrases
	patterns  []*regexp.Regexp
}

// NewParser compiles a parser over the given rules, or over DefaultRules
// when none are supplied. Invalid patterns are skipped rather than
// panicking; a rule with no usable trigger never fires.
func NewParser(rules ...Rule) *Parser {
	if len(rules) == 0 {
		rules = DefaultRules()
	}

	p := &Parser{rules: make([]compiledRule, 0, len(rules))}
	for i, r := range rules {
		cr := compiledRule{rule: r, order: i}
		for _, phrase := range r.Phrases {
			re, err := regexp.Compile(`\b` + regexp.QuoteMeta(phrase) + `\b`)
			if err != nil {
				logging.ParserDebug("skipping phrase %q for %s: %v", phrase, r.Intent, err)
				continue
			}
			cr.phraseRes = append(cr.phraseRes, re)
		}
		for _, pat := range r.Patterns {
			re, err := regexp.Compile(pat)
			if err != nil {
				logging.ParserDebug("skipping pattern %q for %s: %v", pat, r.Intent, err)
				continue
			}
			cr.patterns = append(cr.patterns, re)
		}
		p.rules = append(p.rules, cr)
	}
	return p
}

// Rules returns the declared rule table, in evaluation order.
func (p *Parser) Rules() []Rule {
	out := make([]Rule, len(p.rules))
	for i, cr := range p.rules {
		out[i] = cr.rule
	}
	return out
}

type candidate struct {
	intent     Intent
	entities   Entities
	confidence float64
	literalLen int
	order      int
}

// Parse classifies one utterance. It always returns exactly one result;
// empty or whitespace-only input short-circuits to IntentUnknown without
// evaluating any rule.
func (p *Parser) Parse(text string) ParseResult {
	norm := Normalize(text)
	if norm == "" {
		return unknownResult(text)
	}

	var best *candidate
	for _, cr := range p.rules {
		cand, fired := p.evaluate(cr, norm)
		if !fired {
			continue
		}
		if best == nil || betterCandidate(cand, *best) {
			c := cand
			best = &c
		}
	}

	if best == nil {
		logging.ParserDebug("no rule fired for %q", norm)
		return unknownResult(text)
	}

	logging.ParserDebug("parsed %q -> %s (confidence=%.2f, slots=%v)",
		norm, best.intent, best.confidence, best.entities.Keys())

	return ParseResult{
		Intent:     best.intent,
		Entities:   best.entities,
		Confidence: best.confidence,
		RawText:    text,
	}
}

// evaluate runs one rule against the utterance and scores the match.
func (p *Parser) evaluate(cr compiledRule, norm string) (candidate, bool) {
	r := cr.rule

	// Longest literal trigger phrase contained in the utterance.
	literal := ""
	for i, re := range cr.phraseRes {
		if re.MatchString(norm) && len(r.Phrases[i]) > len(literal) {
			literal = r.Phrases[i]
		}
	}

	// First pattern whose extraction recipe is satisfied wins; a pattern
	// hit with failed extraction still counts as the rule firing.
	var (
		entities   Entities
		extracted  bool
		patternHit bool
		wholeByPat bool
	)
	for _, re := range cr.patterns {
		m := re.FindStringSubmatch(norm)
		if m == nil {
			continue
		}
		patternHit = true
		ents, ok := extract(r.Extract, m)
		if ok {
			entities = ents
			extracted = true
			wholeByPat = m[0] == norm
			break
		}
	}
	if r.Extract == ExtractNone {
		extracted = true
	}

	fired := literal != "" || patternHit
	if !fired {
		return candidate{}, false
	}

	var conf float64
	switch {
	case r.Required && !extracted:
		// Matched trigger but the load-bearing slot is missing; the
		// dispatcher decides whether to reject, not the parser.
		conf = ConfidencePartial
	case literal == norm || wholeByPat:
		conf = ConfidenceExact
	case patternHit && extracted:
		conf = ConfidencePattern
	default:
		conf = ConfidenceKeyword
	}

	litLen := len(literal)
	if wholeByPat && litLen < len(norm) {
		litLen = len(norm)
	}

	return candidate{
		intent:     r.Intent,
		entities:   entities,
		confidence: conf,
		literalLen: litLen,
		order:      cr.order,
	}, true
}

// betterCandidate implements the deterministic tie-break: higher
// confidence, then longer matched literal, then earlier declaration.
func betterCandidate(c, best candidate) bool {
	if c.confidence != best.confidence {
		return c.confidence > best.confidence
	}
	if c.literalLen != best.literalLen {
		return c.literalLen > best.literalLen
	}
	return c.order < best.order
}

// Normalize lower-cases, trims, collapses whitespace, and strips trailing
// sentence punctuation. Interior punctuation (apostrophes, arithmetic
// operators) is preserved.
func Normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimRight(s, "?!.,;: ")
	return s
}
