package community

import (
	"math/rand"

	"github.com/dd0wney/cluso-snn/pkg/snngraph"
)

// optimize runs the level loop: local moves on the current graph, then
// aggregation into super-nodes, until no level improves or a cap is hit.
func optimize(g *snngraph.Graph, opts Options) *Result {
	rng := rand.New(rand.NewSource(opts.Seed))

	// flat[i] tracks which current-graph node original node i belongs to
	flat := make([]int32, g.N)
	for i := range flat {
		flat[i] = int32(i)
	}

	cur := g
	converged := true
	var levels []LevelStats

	for level := 0; ; level++ {
		if level >= opts.MaxLevels {
			converged = false
			break
		}

		labels, moves, sweepsConverged := localMove(cur, opts.Resolution, rng, opts.MaxSweeps)
		if !sweepsConverged {
			converged = false
		}

		nComm := compactLabels(labels)

		levels = append(levels, LevelStats{
			Level:       level,
			Nodes:       cur.N,
			Moves:       moves,
			Communities: nComm,
			Modularity:  Modularity(cur, labels, opts.Resolution),
		})

		if moves == 0 || nComm == cur.N {
			// Nothing merged at this level; the hierarchy is final
			break
		}

		for i := range flat {
			flat[i] = labels[flat[i]]
		}
		cur = cur.Aggregate(labels, nComm)
	}

	labels, sizes := canonicalize(flat)

	return &Result{
		Labels:         labels,
		NumCommunities: int32(len(sizes)),
		Sizes:          sizes,
		Modularity:     Modularity(g, labels, opts.Resolution),
		Converged:      converged,
		Levels:         levels,
	}
}

// localMove runs shuffled sweeps over the nodes of cur, greedily moving
// each node to the neighboring community with the best modularity gain.
// Returns the per-node labels, total accepted moves, and whether sweeps
// settled before the cap.
func localMove(cur *snngraph.Graph, gamma float64, rng *rand.Rand, maxSweeps int) ([]int32, int, bool) {
	n := int(cur.N)
	labels := make([]int32, n)
	tot := make([]float64, n)
	for i := 0; i < n; i++ {
		labels[i] = int32(i)
		tot[i] = cur.Degree[i]
	}

	twoM := cur.TotalWeight
	if twoM == 0 {
		// Edgeless graph: every node is its own community
		return labels, 0, true
	}

	order := make([]int32, n)
	for i := range order {
		order[i] = int32(i)
	}

	// Scratch for neighbor-community weights, reset between nodes
	commWeight := make([]float64, n)
	touched := make([]int32, 0, 64)

	totalMoves := 0
	for sweep := 0; sweep < maxSweeps; sweep++ {
		rng.Shuffle(n, func(a, b int) { order[a], order[b] = order[b], order[a] })

		moves := 0
		for _, i := range order {
			currComm := labels[i]
			ki := cur.Degree[i]

			// Detach i so its own mass does not bias the gain terms
			tot[currComm] -= ki

			// k_i,in per neighboring community, in deterministic CSR order
			touched = touched[:0]
			ids, wts := cur.Neighbors(i)
			for t, j := range ids {
				if j == i {
					continue
				}
				c := labels[j]
				if commWeight[c] == 0 {
					touched = append(touched, c)
				}
				commWeight[c] += float64(wts[t])
			}

			// Staying put is the baseline; a move needs a strictly better
			// gain, with equal gains resolving to the lower community id
			bestC := currComm
			bestGain := commWeight[currComm] - gamma*ki*tot[currComm]/twoM

			for _, c := range touched {
				if c == currComm {
					continue
				}
				gain := commWeight[c] - gamma*ki*tot[c]/twoM
				if gain > bestGain || (gain == bestGain && c < bestC) {
					bestGain = gain
					bestC = c
				}
			}

			for _, c := range touched {
				commWeight[c] = 0
			}

			labels[i] = bestC
			tot[bestC] += ki
			if bestC != currComm {
				moves++
			}
		}

		totalMoves += moves
		if moves == 0 {
			return labels, totalMoves, true
		}
	}

	return labels, totalMoves, false
}

// compactLabels renumbers labels to 0..C-1 by ascending old label and
// returns C.
func compactLabels(labels []int32) int32 {
	maxLabel := int32(-1)
	for _, c := range labels {
		if c > maxLabel {
			maxLabel = c
		}
	}

	used := make([]bool, maxLabel+1)
	for _, c := range labels {
		used[c] = true
	}

	remap := make([]int32, maxLabel+1)
	next := int32(0)
	for c := int32(0); c <= maxLabel; c++ {
		if used[c] {
			remap[c] = next
			next++
		}
	}

	for i, c := range labels {
		labels[i] = remap[c]
	}
	return next
}
