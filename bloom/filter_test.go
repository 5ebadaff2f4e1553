package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/docsync/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFrontier_VisitIsTestAndSet(t *testing.T) {
	t.Parallel()

	fr := bloom.NewFrontier(1000, 0.01)

	// First visit is new
	assert.True(t, fr.Visit("https://support.example.com/hc/articles/100"))

	// Second visit is a duplicate
	assert.False(t, fr.Visit("https://support.example.com/hc/articles/100"))

	// Different URL is still new
	assert.True(t, fr.Visit("https://support.example.com/hc/articles/200"))
}

func TestFrontier_Visited(t *testing.T) {
	t.Parallel()

	fr := bloom.NewFrontier(1000, 0.01)

	assert.False(t, fr.Visited("https://support.example.com/hc/articles/100"))

	fr.Visit("https://support.example.com/hc/articles/100")

	assert.True(t, fr.Visited("https://support.example.com/hc/articles/100"))
}

func TestFrontier_EstimatedCount(t *testing.T) {
	t.Parallel()

	fr := bloom.NewFrontier(1000, 0.01)

	assert.Equal(t, uint(0), fr.EstimatedCount())

	fr.Visit("https://support.example.com/hc/articles/100")
	fr.Visit("https://support.example.com/hc/articles/200")
	fr.Visit("https://support.example.com/hc/articles/300")

	count := fr.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestFrontier_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numItems   = 10000
		fpRate     = 0.01
		testProbes = 10000
	)

	fr := bloom.NewFrontier(numItems, fpRate)

	for i := range numItems {
		fr.Visit(fmt.Sprintf("https://support.example.com/added/%d", i))
	}

	falsePositives := 0
	for i := range testProbes {
		if fr.Visited(fmt.Sprintf("https://support.example.com/notadded/%d", i)) {
			falsePositives++
		}
	}

	// Allow up to 2% to absorb statistical variance around the
	// configured 1% rate.
	actualRate := float64(falsePositives) / float64(testProbes)
	assert.Less(t, actualRate, 0.02, "false positive rate %f exceeds 2%%", actualRate)
}
