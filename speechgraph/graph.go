// Package speechgraph builds word graphs from transcript segments and
// computes the connectedness measures of Mota et al. Each distinct word
// is a node and consecutive words within a segment are joined by a
// directed edge; parallel edges and self loops are kept.
package speechgraph

import (
	"gonum.org/v1/gonum/graph/multi"
	"gonum.org/v1/gonum/mat"
)

// wordGraph is a directed multigraph over word labels. Self loops are
// counted here rather than stored as lines, because they never change
// component membership or shortest paths.
type wordGraph struct {
	directed   *multi.DirectedGraph
	undirected *multi.UndirectedGraph
	nodeIds    map[string]int64
	edgeCounts map[[2]int64]int
	numEdges   int
	selfLoops  int
	selfPairs  map[int64]int
}

func newWordGraph() *wordGraph {
	return &wordGraph{
		directed:   multi.NewDirectedGraph(),
		undirected: multi.NewUndirectedGraph(),
		nodeIds:    make(map[string]int64),
		edgeCounts: make(map[[2]int64]int),
		selfPairs:  make(map[int64]int),
	}
}

func (w *wordGraph) node(label string) int64 {
	id, ok := w.nodeIds[label]
	if !ok {
		node := w.directed.NewNode()
		id = node.ID()
		w.directed.AddNode(node)
		w.undirected.AddNode(multi.Node(id))
		w.nodeIds[label] = id
	}
	return id
}

func (w *wordGraph) addEdge(from, to string) {
	fromId := w.node(from)
	toId := w.node(to)
	w.numEdges++
	w.edgeCounts[[2]int64{fromId, toId}]++
	if fromId == toId {
		w.selfLoops++
		w.selfPairs[fromId]++
		return
	}
	w.directed.SetLine(w.directed.NewLine(multi.Node(fromId), multi.Node(toId)))
	w.undirected.SetLine(w.undirected.NewLine(multi.Node(fromId), multi.Node(toId)))
}

// buildGraph links consecutive words within each segment. A one word
// segment still contributes its node.
func buildGraph(segments [][]string) *wordGraph {
	w := newWordGraph()
	for _, words := range segments {
		if len(words) == 1 {
			w.node(words[0])
		}
		for i := 0; i+1 < len(words); i++ {
			w.addEdge(words[i], words[i+1])
		}
	}
	return w
}

func (w *wordGraph) numNodes() int {
	return len(w.nodeIds)
}

// parallelEdges counts repeated edges in the same direction, and how
// many of those repeats are also self loops.
func (w *wordGraph) parallelEdges() (int, int) {
	parallel := 0
	parallelLoops := 0
	for pair, count := range w.edgeCounts {
		if count > 1 {
			parallel += count - 1
			if pair[0] == pair[1] {
				parallelLoops += count - 1
			}
		}
	}
	return parallel, parallelLoops
}

// adjacency returns the directed adjacency matrix with multiplicities
// and a zeroed diagonal, used for the two and three node loop counts.
func (w *wordGraph) adjacency() *mat.Dense {
	size := len(w.nodeIds)
	index := make(map[int64]int, size)
	position := 0
	for _, id := range w.nodeIds {
		index[id] = position
		position++
	}
	adj := mat.NewDense(size, size, nil)
	for pair, count := range w.edgeCounts {
		if pair[0] == pair[1] {
			continue
		}
		adj.Set(index[pair[0]], index[pair[1]], float64(count))
	}
	return adj
}
