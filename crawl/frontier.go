package crawl

import (
	"container/heap"
	"strings"
	"sync"

	"github.com/fwdslsh/toolkit"
	"github.com/fwdslsh/toolkit/bloom"
)

var _ toolkit.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory URL frontier combining a priority queue with
// Bloom filter deduplication. Higher priority links pop first.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue *linkHeap
}

// NewFrontier creates a Frontier sized for n expected URLs with the given
// false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	h := &linkHeap{}
	heap.Init(h)
	return &Frontier{
		seen:  bloom.NewFilter(n, fpRate),
		queue: h,
	}
}

// Push adds a link to the frontier. Returns false if the URL has already
// been seen. Fragments are stripped before deduplication, so URLs differing
// only by fragment count as duplicates.
func (f *Frontier) Push(link toolkit.DiscoveredLink) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	u := stripFragment(link.URL)
	if f.seen.Test(u) {
		return false
	}
	f.seen.Add(u)

	link.URL = u
	heap.Push(f.queue, link)
	return true
}

// Pop returns the highest priority link. The bool result is false when the
// frontier is empty.
func (f *Frontier) Pop() (toolkit.DiscoveredLink, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return toolkit.DiscoveredLink{}, false
	}
	link, _ := heap.Pop(f.queue).(toolkit.DiscoveredLink)
	return link, true
}

// Len returns the number of queued links.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen reports whether the URL has been queued or processed.
// Fragments are stripped before checking.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Test(stripFragment(rawURL))
}

func stripFragment(rawURL string) string {
	if idx := strings.Index(rawURL, "#"); idx != -1 {
		return rawURL[:idx]
	}
	return rawURL
}

// linkHeap is a max-heap of DiscoveredLink ordered by Priority.
type linkHeap []toolkit.DiscoveredLink

func (h linkHeap) Len() int           { return len(h) }
func (h linkHeap) Less(i, j int) bool { return h[i].Priority > h[j].Priority }
func (h linkHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *linkHeap) Push(x any) {
	link, _ := x.(toolkit.DiscoveredLink)
	*h = append(*h, link)
}

func (h *linkHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
