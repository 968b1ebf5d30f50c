package speechgraph

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/mat"
)

// metrics fills features for one graph variant. Names carry the variant
// suffix, matching the published measure names: ave_degree (ATD), lcc,
// lsc, l1/l2/l3 loop counts, d (density), di (diameter), asp.
func (w *wordGraph) metrics(variant string, features map[string]float64) {
	numNodes := w.numNodes()
	features[`num_nodes_`+variant] = float64(numNodes)
	features[`num_edges_`+variant] = float64(w.numEdges)
	if numNodes > 0 {
		features[`ave_degree_`+variant] = 2 * float64(w.numEdges) / float64(numNodes)
	} else {
		features[`ave_degree_`+variant] = math.NaN()
	}
	features[`lcc_`+variant] = float64(w.largestComponent())
	features[`lsc_`+variant] = float64(w.largestStrongComponent())
	parallel, parallelLoops := w.parallelEdges()
	features[`num_p_edges_`+variant] = float64(parallel)
	features[`l1_`+variant] = float64(w.selfLoops)
	w.loopCounts(variant, features)
	// density is a simple graph measure, so repeated edges and self
	// loops only count once
	simpleEdges := w.numEdges - (w.selfLoops + parallel - parallelLoops)
	if simpleEdges < 0 || numNodes == 0 {
		features[`d_`+variant] = math.NaN()
	} else {
		features[`d_`+variant] = float64(simpleEdges) / float64(numNodes*numNodes)
	}
	w.shortestPathMetrics(variant, features)
}

func (w *wordGraph) largestComponent() int {
	largest := 0
	for _, component := range topo.ConnectedComponents(w.undirected) {
		if len(component) > largest {
			largest = len(component)
		}
	}
	return largest
}

func (w *wordGraph) largestStrongComponent() int {
	largest := 0
	for _, component := range topo.TarjanSCC(w.directed) {
		if len(component) > largest {
			largest = len(component)
		}
	}
	return largest
}

// loopCounts computes the number of two node loops as trace(A^2)/2 and
// three node loops as trace(A^3)/3, with the diagonal zeroed so that
// repeating a self loop is not mistaken for a longer loop.
func (w *wordGraph) loopCounts(variant string, features map[string]float64) {
	size := w.numNodes()
	if size == 0 {
		features[`l2_`+variant] = 0
		features[`l3_`+variant] = 0
		return
	}
	adj := w.adjacency()
	squared := mat.NewDense(size, size, nil)
	squared.Mul(adj, adj)
	features[`l2_`+variant] = mat.Trace(squared) / 2
	cubed := mat.NewDense(size, size, nil)
	cubed.Mul(adj, squared)
	features[`l3_`+variant] = mat.Trace(cubed) / 3
}

// shortestPathMetrics computes the diameter and the average shortest
// path over the undirected graph, averaged across connected pairs only.
func (w *wordGraph) shortestPathMetrics(variant string, features map[string]float64) {
	var ids []int64
	for _, id := range w.nodeIds {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	longest := 0.0
	total := 0.0
	pairs := 0
	if len(ids) > 1 {
		shortest := path.DijkstraAllPaths(w.undirected)
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				length := shortest.Weight(ids[i], ids[j])
				if math.IsInf(length, 1) {
					continue
				}
				pairs++
				total += length
				if length > longest {
					longest = length
				}
			}
		}
	}
	features[`di_`+variant] = longest
	if pairs > 0 {
		features[`asp_`+variant] = total / float64(pairs)
	} else {
		features[`asp_`+variant] = 0
	}
}
