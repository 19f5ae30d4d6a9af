package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_DelayRules(t *testing.T) {
	tests := []struct {
		name string
		text string
		want StatusCategory
	}{
		{"plain delay", "2 hour delay", StatusDelay},
		{"delayed", "Opening delayed until 10am", StatusDelay},
		{"delays", "Weather delays possible", StatusDelay},
		{"late start", "Late start for all students", StatusDelay},
		{"late opening", "LATE OPENING today", StatusDelay},
		{"uppercase", "TWO HOUR DELAY", StatusDelay},
		{"hyphenated negation", "Non-delay day", StatusInformational},
		{"embedded word", "delaware schools update", StatusInformational},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text, SchemeStrict))
		})
	}
}

func TestClassify_DelayBeatsClosed(t *testing.T) {
	// Precedence: a row mentioning both keywords is a delay, not a closing.
	got := Classify("Delayed opening, after-school activities closed", SchemeStrict)
	assert.Equal(t, StatusDelay, got)

	got = Classify("Delayed opening, after-school activities closed", SchemeLenient)
	assert.Equal(t, StatusDelay, got)
}

func TestClassify_EarlyDismissal(t *testing.T) {
	t.Run("lenient matches early alone", func(t *testing.T) {
		assert.Equal(t, StatusEarlyDismissal, Classify("Early release at noon", SchemeLenient))
		assert.Equal(t, StatusEarlyDismissal, Classify("Dismissing at 11:30", SchemeLenient))
	})

	t.Run("strict requires the phrase", func(t *testing.T) {
		assert.Equal(t, StatusEarlyDismissal, Classify("Early dismissal at 1pm", SchemeStrict))
		assert.Equal(t, StatusInformational, Classify("Early release at noon", SchemeStrict))
	})
}

func TestClassify_Defaults(t *testing.T) {
	t.Run("lenient defaults to closed", func(t *testing.T) {
		assert.Equal(t, StatusClosed, Classify("No details provided", SchemeLenient))
		assert.Equal(t, StatusClosed, Classify("", SchemeLenient))
	})

	t.Run("strict defaults to informational", func(t *testing.T) {
		assert.Equal(t, StatusInformational, Classify("Evening activities cancelled", SchemeStrict))
		assert.Equal(t, StatusInformational, Classify("", SchemeStrict))
	})

	t.Run("strict matches explicit closed keywords", func(t *testing.T) {
		assert.Equal(t, StatusClosed, Classify("Schools closed today due to weather", SchemeStrict))
		assert.Equal(t, StatusClosed, Classify("Closing at normal time tomorrow", SchemeStrict))
		assert.Equal(t, StatusClosed, Classify("All closures remain in effect", SchemeStrict))
	})

	t.Run("deterministic", func(t *testing.T) {
		first := Classify("snow day", SchemeStrict)
		for range 5 {
			assert.Equal(t, first, Classify("snow day", SchemeStrict))
		}
	})
}

func TestParseScheme(t *testing.T) {
	s, err := ParseScheme("strict")
	require.NoError(t, err)
	assert.Equal(t, SchemeStrict, s)

	s, err = ParseScheme("LENIENT")
	require.NoError(t, err)
	assert.Equal(t, SchemeLenient, s)

	_, err = ParseScheme("fuzzy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown status scheme")
}
