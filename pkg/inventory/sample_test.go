package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleParts(t *testing.T) {
	a := SampleParts(200, 42)
	b := SampleParts(200, 42)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, SampleParts(200, 43))
	assert.Empty(t, SampleParts(-1, 1))

	var unknown, noSupplier int
	ids := map[string]bool{}
	for _, p := range a {
		assert.NoError(t, p.Validate())
		assert.Contains(t, Categories, p.Category)
		assert.False(t, ids[p.ID])
		ids[p.ID] = true
		if p.Stock == nil {
			unknown++
		}
		if p.Supplier == nil {
			noSupplier++
		}
	}
	assert.Positive(t, unknown)
	assert.Positive(t, noSupplier)
}
