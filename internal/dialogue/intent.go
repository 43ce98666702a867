// Package dialogue turns a free-text shopper message into a storefront
// reply: it classifies the message, derives catalog filters from it, runs
// the catalog lookups the intent needs and composes the answer.
package dialogue

import (
	"regexp"
	"strings"
)

// Intent is the closed set of things a shopper can ask for.
type Intent string

const (
	IntentGreeting       Intent = "greeting"
	IntentProductSearch  Intent = "product_search"
	IntentCategoryBrowse Intent = "category_browse"
	IntentPriceInquiry   Intent = "price_inquiry"
	IntentHelp           Intent = "help"
	IntentGoodbye        Intent = "goodbye"
	IntentDefault        Intent = "default"
)

// intentRule binds an intent to the patterns that select it.
type intentRule struct {
	intent   Intent
	patterns []*regexp.Regexp
}

func rule(intent Intent, patterns ...string) intentRule {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(`(?i)`+p))
	}
	return intentRule{intent: intent, patterns: compiled}
}

// intentRules is evaluated top to bottom; the first intent with a matching
// pattern wins. The rule sets overlap, so the order is significant.
var intentRules = []intentRule{
	rule(IntentGreeting,
		`\b(hi|hello|hey|good morning|good afternoon|good evening)\b`,
		`\bhow are you\b`,
		`\bwhat's up\b`,
	),
	rule(IntentProductSearch,
		`\b(find|search|look for|show me|i want|i need)\b.*\b(product|item|thing)\b`,
		`\b(laptop|phone|shirt|book|electronics|clothing)\b`,
		`\bprice\b.*\b(under|below|less than|cheaper)\b`,
		// Any message made only of letters and spaces reads as a product name.
		`^\s*[a-zA-Z\s]+\s*$`,
	),
	rule(IntentCategoryBrowse,
		`\b(browse|show|list|what)\b.*\b(categories|types|kinds)\b`,
		`\bcategory\b`,
		`\bwhat do you have\b`,
	),
	rule(IntentPriceInquiry,
		`\b(price|cost|how much|expensive|cheap)\b`,
		`\$\d+`,
		`\bbudget\b`,
	),
	rule(IntentHelp,
		`\b(help|assist|support|guide)\b`,
		`\bwhat can you do\b`,
		`\bhow does this work\b`,
	),
	rule(IntentGoodbye,
		`\b(bye|goodbye|see you|later|exit|quit)\b`,
		`\bthank you\b.*\bbye\b`,
	),
}

// Intents lists every intent in classification priority order, ending with
// IntentDefault.
func Intents() []Intent {
	out := make([]Intent, 0, len(intentRules)+1)
	for _, r := range intentRules {
		out = append(out, r.intent)
	}
	return append(out, IntentDefault)
}

// Normalize lower-cases and trims a message before classification.
func Normalize(message string) string {
	return strings.ToLower(strings.TrimSpace(message))
}

// Classify maps a normalized message to exactly one intent. It never fails;
// messages that match no rule are IntentDefault.
func Classify(normalized string) Intent {
	for _, r := range intentRules {
		for _, p := range r.patterns {
			if p.MatchString(normalized) {
				return r.intent
			}
		}
	}
	return IntentDefault
}
