package infra

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "Rice 5kg", truncateName("Rice 5kg", 22))
	assert.Equal(t, "exactly-twenty-two-ch!", truncateName("exactly-twenty-two-ch!", 22))

	long := truncateName("Cafetera Espresso Automática 1200W", 22)
	assert.Equal(t, 22, len([]rune(long)))
	assert.True(t, utf8.ValidString(long))

	// Multi-byte runes at the cut point must not be split.
	accented := truncateName("ááááááááááááááááááááááááá", 22)
	assert.True(t, utf8.ValidString(accented))
	assert.Equal(t, 22, len([]rune(accented)))
}
