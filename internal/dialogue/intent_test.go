package dialogue

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		message string
		want    Intent
	}{
		{message: "", want: IntentDefault},
		{message: "hello", want: IntentGreeting},
		{message: "hey there", want: IntentGreeting},
		{message: "what's up?", want: IntentGreeting},
		{message: "good evening, how are you?", want: IntentGreeting},
		// Greeting outranks every other rule set.
		{message: "hi, show me laptops under $500", want: IntentGreeting},
		{message: "laptop", want: IntentProductSearch},
		{message: "show me a product!", want: IntentProductSearch},
		{message: "show me some products!", want: IntentDefault},
		{message: "find electronics under $100", want: IntentProductSearch},
		{message: "any price under $40?", want: IntentProductSearch},
		// Letters and spaces alone always read as a product name.
		{message: "wireless earbuds", want: IntentProductSearch},
		{message: "what categories do you have", want: IntentProductSearch},
		{message: "help", want: IntentProductSearch},
		{message: "what categories do you have?", want: IntentCategoryBrowse},
		{message: "category?", want: IntentCategoryBrowse},
		{message: "what do you have in stock?", want: IntentCategoryBrowse},
		{message: "how much is the blue one?", want: IntentPriceInquiry},
		{message: "anything for $50?", want: IntentPriceInquiry},
		{message: "my budget is tight.", want: IntentPriceInquiry},
		{message: "can you help me?", want: IntentHelp},
		{message: "what can you do?", want: IntentHelp},
		{message: "ok, bye!", want: IntentGoodbye},
		{message: "thank you! see you later.", want: IntentGoodbye},
		{message: "1234", want: IntentDefault},
		{message: "order #42 status?", want: IntentDefault},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(Normalize(tt.message)))
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	valid := make(map[Intent]bool)
	for _, i := range Intents() {
		valid[i] = true
	}

	inputs := []string{
		"", " ", "\n\t", "?!", "💸💸💸", strings.Repeat("a", 10_000),
		"$", "$$$100", "под 100", "\x00\xff", "under $", "hi\nbye",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			assert.True(t, valid[Classify(Normalize(in))], "input %q", in)
		})
	}
}

func TestIntentsPriorityOrder(t *testing.T) {
	assert.Equal(t, []Intent{
		IntentGreeting,
		IntentProductSearch,
		IntentCategoryBrowse,
		IntentPriceInquiry,
		IntentHelp,
		IntentGoodbye,
		IntentDefault,
	}, Intents())
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "show me laptops", Normalize("  Show Me LAPTOPS \n"))
	assert.Equal(t, "", Normalize("   "))
}
