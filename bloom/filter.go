// Package bloom provides the crawl frontier for fallback article
// discovery, deduplicating visited URLs with a Bloom filter.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Frontier tracks URLs visited by the fallback crawl. False positives
// are possible, so a URL may occasionally be skipped as already
// visited; false negatives are not, so no URL is fetched twice.
type Frontier struct {
	f *bloom.BloomFilter
}

// NewFrontier creates a frontier sized for n expected URLs with the
// given false positive rate.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Visit marks the URL as visited. Returns true if the URL was new,
// false if it was probably visited before.
func (fr *Frontier) Visit(url string) bool {
	if fr.f.TestString(url) {
		return false
	}
	fr.f.AddString(url)
	return true
}

// Visited returns true if the URL might have been visited.
func (fr *Frontier) Visited(url string) bool {
	return fr.f.TestString(url)
}

// EstimatedCount returns the approximate number of visited URLs.
func (fr *Frontier) EstimatedCount() uint {
	return uint(fr.f.ApproximatedSize())
}
