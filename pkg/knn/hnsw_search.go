package knn

import "container/heap"

// searcher holds per-goroutine scratch state for graph traversal. The
// visited array uses generation stamps so resets are O(1) instead of a
// fresh allocation per query.
type searcher struct {
	visited []int32
	epoch   int32
}

func (s *searcher) reset() {
	s.epoch++
}

func (s *searcher) seen(id int32) bool {
	return s.visited[id] == s.epoch
}

func (s *searcher) mark(id int32) {
	s.visited[id] = s.epoch
}

// greedyClosest walks one layer greedily from ep toward vec and returns the
// closest cell reached. Used to descend the upper layers.
func (h *hnswIndex) greedyClosest(vec []float32, ep int32, layer int, s *searcher) int32 {
	cur := ep
	curDist := h.dist(cur, vec)

	for {
		improved := false
		if layer < len(h.friends[cur]) {
			for _, f := range h.friends[cur][layer] {
				d := h.dist(f, vec)
				if d < curDist || (d == curDist && f < cur) {
					cur = f
					curDist = d
					improved = true
				}
			}
		}
		if !improved {
			return cur
		}
	}
}

// searchLayer performs beam search at one layer with a candidate list of
// size ef, returning the ef nearest cells found.
func (h *hnswIndex) searchLayer(vec []float32, ep int32, ef, layer int, s *searcher) []candidate {
	s.reset()

	start := candidate{id: ep, dist: h.dist(ep, vec)}
	frontier := minHeap{start}
	result := maxHeap{start}
	s.mark(ep)

	for frontier.Len() > 0 {
		c := heap.Pop(&frontier).(candidate)

		// Frontier is nearest-first: once its best entry ranks after the
		// worst kept result, nothing left can improve the result
		if result.Len() >= ef && c.worse(result[0]) {
			break
		}

		if layer >= len(h.friends[c.id]) {
			continue
		}
		for _, f := range h.friends[c.id][layer] {
			if s.seen(f) {
				continue
			}
			s.mark(f)

			d := candidate{id: f, dist: h.dist(f, vec)}
			if result.Len() < ef || result[0].worse(d) {
				heap.Push(&frontier, d)
				heap.Push(&result, d)
				if result.Len() > ef {
					heap.Pop(&result)
				}
			}
		}
	}

	out := make([]candidate, len(result))
	copy(out, result)
	return out
}
