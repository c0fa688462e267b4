package knn

import "sort"

// insert adds cell id to the index. Must be called in strictly increasing
// id order with the shared build searcher; the method is not safe for
// concurrent use.
func (h *hnswIndex) insert(id int32, s *searcher) {
	level := h.selectLevel()
	h.levels[id] = level
	h.friends[id] = make([][]int32, level+1)

	if h.entry < 0 {
		h.entry = id
		h.maxLayer = level
		return
	}

	vec := h.data.Row(int(id))
	ep := h.entry

	for layer := h.maxLayer; layer > level; layer-- {
		ep = h.greedyClosest(vec, ep, layer, s)
	}

	top := level
	if top > h.maxLayer {
		top = h.maxLayer
	}

	for layer := top; layer >= 0; layer-- {
		maxConn := h.mMax
		if layer == 0 {
			maxConn = h.mMax0
		}

		candidates := h.searchLayer(vec, ep, h.efConstruction, layer, s)
		neighbors := nearestOf(candidates, h.m)

		for _, nb := range neighbors {
			h.friends[id][layer] = append(h.friends[id][layer], nb.id)
			h.friends[nb.id][layer] = append(h.friends[nb.id][layer], id)

			if len(h.friends[nb.id][layer]) > maxConn {
				h.pruneConnections(nb.id, layer, maxConn)
			}
		}

		if len(neighbors) > 0 {
			ep = neighbors[0].id
		}
	}

	if level > h.maxLayer {
		h.maxLayer = level
		h.entry = id
	}
}

// nearestOf returns up to m candidates in nearest-first order.
func nearestOf(candidates []candidate, m int) []candidate {
	sort.Slice(candidates, func(a, b int) bool { return candidates[b].worse(candidates[a]) })
	if len(candidates) > m {
		candidates = candidates[:m]
	}
	return candidates
}

// pruneConnections trims a cell's friend list at one layer back down to
// maxConn, keeping the nearest links.
func (h *hnswIndex) pruneConnections(id int32, layer, maxConn int) {
	vec := h.data.Row(int(id))
	friends := h.friends[id][layer]

	ranked := make([]candidate, len(friends))
	for i, f := range friends {
		ranked[i] = candidate{id: f, dist: h.dist(f, vec)}
	}
	sort.Slice(ranked, func(a, b int) bool { return ranked[b].worse(ranked[a]) })

	kept := make([]int32, maxConn)
	for i := 0; i < maxConn; i++ {
		kept[i] = ranked[i].id
	}
	h.friends[id][layer] = kept
}
