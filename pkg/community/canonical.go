package community

import "sort"

// canonicalize relabels a flattened assignment so community ids are
// contiguous from 0, ordered by descending size with ties broken by the
// lowest original node id in the community. Returns the new labels and the
// per-community sizes in label order.
func canonicalize(flat []int32) ([]int32, []int32) {
	nComm := int32(0)
	for _, c := range flat {
		if c+1 > nComm {
			nComm = c + 1
		}
	}

	type commInfo struct {
		id      int32
		size    int32
		minNode int32
	}

	infos := make([]commInfo, nComm)
	for c := int32(0); c < nComm; c++ {
		infos[c] = commInfo{id: c, minNode: int32(len(flat))}
	}
	for node, c := range flat {
		infos[c].size++
		if int32(node) < infos[c].minNode {
			infos[c].minNode = int32(node)
		}
	}

	sort.Slice(infos, func(a, b int) bool {
		if infos[a].size != infos[b].size {
			return infos[a].size > infos[b].size
		}
		return infos[a].minNode < infos[b].minNode
	})

	remap := make([]int32, nComm)
	sizes := make([]int32, nComm)
	for rank, info := range infos {
		remap[info.id] = int32(rank)
		sizes[rank] = info.size
	}

	labels := make([]int32, len(flat))
	for node, c := range flat {
		labels[node] = remap[c]
	}
	return labels, sizes
}
