package usecases

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify_Deterministic(t *testing.T) {
	c := NewIntentClassifier(DefaultIntentRules())

	first := c.Classify("I want to report a technical issue")
	second := c.Classify("I want to report a technical issue")
	require.Equal(t, first, second)
	require.Equal(t, IntentCreateAppeal, first.Intent)
}

func TestClassify_FirstMatchWinsOverScore(t *testing.T) {
	c := NewIntentClassifier(DefaultIntentRules())

	// escalate matches two triggers (urgent, manager), create_appeal only
	// one (appeal) — priority order still picks create_appeal.
	result := c.Classify("urgent appeal for the manager")
	require.Equal(t, IntentCreateAppeal, result.Intent)
}

func TestClassify_NoMatchIsUnknown(t *testing.T) {
	c := NewIntentClassifier(DefaultIntentRules())

	result := c.Classify("good morning")
	require.Equal(t, IntentUnknown, result.Intent)
	require.Zero(t, result.Confidence)
}

func TestClassify_ExtractsEmailAndPhone(t *testing.T) {
	c := NewIntentClassifier(DefaultIntentRules())

	result := c.Classify("reach me at john.doe@example.com or +628123456789")
	require.Equal(t, "john.doe@example.com", result.Parameters["email"])
	require.Equal(t, "+628123456789", result.Parameters["phone"])
}

func TestClassify_ExtractsCategory(t *testing.T) {
	c := NewIntentClassifier(DefaultIntentRules())

	result := c.Classify("there is a billing mistake on my invoice")
	require.Equal(t, "billing", result.Parameters["category"])
}

func TestClassify_PriorityExtraction(t *testing.T) {
	c := NewIntentClassifier(DefaultIntentRules())

	cases := []struct {
		text string
		want string
	}{
		{"this is urgent", "high"},
		{"fix it whenever you can", "low"},
		{"urgent, but handle it whenever", "high"}, // urgency beats softness
		{"my invoice looks wrong", "normal"},
	}
	for _, tc := range cases {
		result := c.Classify(tc.text)
		require.Equal(t, tc.want, result.Parameters["priority"], "text: %s", tc.text)
	}
}

func TestClassify_ParametersExtractedForUnknownIntent(t *testing.T) {
	c := NewIntentClassifier(DefaultIntentRules())

	result := c.Classify("something about my account, no keywords here")
	require.Equal(t, IntentUnknown, result.Intent)
	require.Equal(t, "account", result.Parameters["category"])
}
