package telemetry

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestLog_HistoryCap verifies the history is truncated to the newest 100
// records: after 150 sequential records the stored sequence equals the
// last 100 in arrival order.
func TestLog_HistoryCap(t *testing.T) {
	log := NewLog(clockwork.NewFakeClock())

	for i := 0; i < 150; i++ {
		log.Record("resolve-library-id", fmt.Sprintf("query-%d", i), "", "10.0.0.1", true)
	}

	history := log.History()
	require.Len(t, history, HistoryCap)
	for i, rec := range history {
		assert.Equal(t, fmt.Sprintf("query-%d", i+50), rec.Query,
			"history must hold the newest records in arrival order")
	}
}

// TestLog_HistoryCap_PropertyBased verifies the cap holds for any record
// count.
func TestLog_HistoryCap_PropertyBased(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 400).Draw(t, "records")
		log := NewLog(clockwork.NewFakeClock())

		for i := 0; i < n; i++ {
			log.Record("get-library-docs", "", "/org/project", "10.0.0.1", true)
		}

		assert.LessOrEqual(t, len(log.History()), HistoryCap)
		_, total := log.Counts()
		assert.Equal(t, n, total, "counters are never truncated")
	})
}

// TestLog_Counts verifies per-tool and total counters.
func TestLog_Counts(t *testing.T) {
	log := NewLog(clockwork.NewFakeClock())

	log.Record("resolve-library-id", "react", "", "10.0.0.1", true)
	log.Record("resolve-library-id", "vue", "", "10.0.0.2", false)
	log.Record("get-library-docs", "", "/vercel/next.js", "10.0.0.1", true)

	byTool, total := log.Counts()
	assert.Equal(t, 3, total)
	assert.Equal(t, 2, byTool["resolve-library-id"])
	assert.Equal(t, 1, byTool["get-library-docs"])
}

// TestLog_Record_MasksClientKey verifies stored records never carry the
// full client key.
func TestLog_Record_MasksClientKey(t *testing.T) {
	log := NewLog(clockwork.NewFakeClock())

	log.Record("resolve-library-id", "react", "", "203.0.113.42", true)

	history := log.History()
	require.Len(t, history, 1)
	assert.Equal(t, "203.0.***", history[0].ClientKey)
	assert.NotContains(t, history[0].ClientKey, "113.42")
}

// TestMaskClientKey covers the masking rules directly.
func TestMaskClientKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{name: "LongKey_HalfKept", key: "203.0.113.42", expected: "203.0.***"},
		{name: "VeryLongKey_PrefixCapped", key: "2001:db8:85a3::8a2e:370", expected: "2001:db8***"},
		{name: "ShortKey_HalfKept", key: "10.0.0.1", expected: "10.0***"},
		{name: "TinyKey_FullyMasked", key: "a", expected: "***"},
		{name: "Empty_StaysEmpty", key: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskClientKey(tt.key))
		})
	}
}

// TestMaskClientKey_PropertyBased verifies masking is stable and
// prefix-preserving for arbitrary keys: the same key always masks the
// same way, so records remain correlatable.
func TestMaskClientKey_PropertyBased(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		key := rapid.StringN(1, 64, -1).Draw(t, "key")

		first := MaskClientKey(key)
		second := MaskClientKey(key)

		assert.Equal(t, first, second, "masking must be deterministic")
		assert.True(t, strings.HasSuffix(first, "***"), "masked form always ends in the redaction marker")
		assert.LessOrEqual(t, len([]rune(first)), maskedPrefixLen+3)
		assert.LessOrEqual(t, len([]rune(first))-3, len([]rune(key))/2,
			"at least half of the key must be dropped")
	})
}
