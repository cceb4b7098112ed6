package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"flour", "salt", "olive oil"}, SplitList(" flour, salt ,, olive oil ,"))
	assert.Equal(t, []string{}, SplitList(""))
	assert.NotNil(t, SplitList("   "))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Matcha Glazed Donuts", "glazed"))
	assert.False(t, ContainsFold("Matcha Glazed Donuts", "burger"))
	assert.True(t, AnyContainsFold([]string{"vegan", "Matcha"}, "MATCH"))
	assert.False(t, AnyContainsFold(nil, "x"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "smo…", Truncate("smoky burger", 4))
	assert.Equal(t, "anything", Truncate("anything", 0))
}
