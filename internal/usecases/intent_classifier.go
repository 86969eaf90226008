package usecases

import (
	"regexp"
	"strings"
)

// Intents known to the bot, in priority order. Classification is
// first-match-wins over this order, never best-score.
const (
	IntentCreateAppeal = "create_appeal"
	IntentCheckStatus  = "check_status"
	IntentProvideInfo  = "provide_info"
	IntentEscalate     = "escalate"
	IntentCloseAppeal  = "close_appeal"
	IntentGetHelp      = "get_help"
	IntentCancel       = "cancel"
	IntentUnknown      = "unknown"
)

// IntentRule maps one intent to its trigger patterns. Score for a text is
// the fraction of distinct triggers that match, case-insensitive.
type IntentRule struct {
	Intent   string
	Triggers []*regexp.Regexp
}

// Classification is the transient result of classifying one message.
type Classification struct {
	Intent     string
	Confidence float64
	Parameters map[string]string
}

// IntentClassifier scores free text against an ordered rule table. It is a
// pure function of its input and the static tables; no state, no side effects.
type IntentClassifier struct {
	rules     []IntentRule
	threshold float64
}

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`(?:\+62|0)[0-9]{9,}\b`)

	categoryVocab = []string{"account", "billing", "technical", "service", "other"}
	urgencyWords  = []string{"urgent", "critical", "high"}
	softnessWords = []string{"low", "whenever"}
)

// DefaultIntentRules is the stock trigger vocabulary. The lists are short
// on purpose: a single keyword match must clear the 0.3 threshold.
func DefaultIntentRules() []IntentRule {
	compile := func(pats ...string) []*regexp.Regexp {
		out := make([]*regexp.Regexp, 0, len(pats))
		for _, p := range pats {
			out = append(out, regexp.MustCompile(p))
		}
		return out
	}
	return []IntentRule{
		{Intent: IntentCreateAppeal, Triggers: compile(`appeal`, `complain`, `report`)},
		{Intent: IntentCheckStatus, Triggers: compile(`status`, `check`, `progress`)},
		{Intent: IntentProvideInfo, Triggers: compile(`provide`, `attached`, `additional`)},
		{Intent: IntentEscalate, Triggers: compile(`escalate`, `urgent`, `manager`)},
		{Intent: IntentCloseAppeal, Triggers: compile(`close`, `resolve`, `finish`)},
		{Intent: IntentGetHelp, Triggers: compile(`help`, `guide`, `assist`)},
		{Intent: IntentCancel, Triggers: compile(`cancel`, `never mind`, `discard`)},
	}
}

// NewIntentClassifier builds a classifier over the given rule table. Pass
// DefaultIntentRules() for the stock vocabulary.
func NewIntentClassifier(rules []IntentRule) *IntentClassifier {
	return &IntentClassifier{rules: rules, threshold: 0.3}
}

// Classify maps text to an intent plus extracted parameters. The first rule
// (in table order) whose score exceeds the threshold wins; if none does, the
// result is IntentUnknown with confidence 0. Parameter extraction always
// runs, regardless of the detected intent.
func (c *IntentClassifier) Classify(text string) Classification {
	lowered := strings.ToLower(strings.TrimSpace(text))

	result := Classification{
		Intent:     IntentUnknown,
		Confidence: 0,
		Parameters: extractParameters(text),
	}

	for _, rule := range c.rules {
		matched := 0
		for _, trigger := range rule.Triggers {
			if trigger.MatchString(lowered) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		confidence := float64(matched) / float64(len(rule.Triggers))
		if confidence > c.threshold {
			result.Intent = rule.Intent
			result.Confidence = confidence
			break
		}
	}

	return result
}

// extractParameters pulls structured fields out of free text: an email-like
// token, a phone-like token, a category word from the fixed vocabulary, and
// a priority level. Urgency beats softness when both appear; normal is the
// default.
func extractParameters(text string) map[string]string {
	params := make(map[string]string)
	lowered := strings.ToLower(text)

	if email := emailPattern.FindString(text); email != "" {
		params["email"] = email
	}
	if phone := phonePattern.FindString(text); phone != "" {
		params["phone"] = phone
	}

	for _, category := range categoryVocab {
		if strings.Contains(lowered, category) {
			params["category"] = category
			break
		}
	}

	priority := "normal"
	for _, word := range softnessWords {
		if strings.Contains(lowered, word) {
			priority = "low"
			break
		}
	}
	for _, word := range urgencyWords {
		if strings.Contains(lowered, word) {
			priority = "high"
			break
		}
	}
	params["priority"] = priority

	return params
}
