package knn

// candidate pairs a cell index with its squared distance to the query.
type candidate struct {
	id   int32
	dist float32
}

// worse reports whether a ranks after b in nearest-first order.
// Distance ties resolve to the lower cell index.
func (a candidate) worse(b candidate) bool {
	if a.dist != b.dist {
		return a.dist > b.dist
	}
	return a.id > b.id
}

// maxHeap is a bounded max-heap of candidates: the root is the worst entry,
// so a full heap can cheaply test whether a new candidate displaces it.
type maxHeap []candidate

func (h maxHeap) Len() int { return len(h) }

func (h maxHeap) Less(i, j int) bool {
	// Max-heap: worse candidates rise to the root
	return h[i].worse(h[j])
}

func (h maxHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *maxHeap) Push(x any) {
	*h = append(*h, x.(candidate))
}

func (h *maxHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// minHeap orders candidates nearest-first; used as the expansion frontier
// during graph search.
type minHeap []candidate

func (h minHeap) Len() int { return len(h) }

func (h minHeap) Less(i, j int) bool {
	return h[j].worse(h[i])
}

func (h minHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *minHeap) Push(x any) {
	*h = append(*h, x.(candidate))
}

func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
