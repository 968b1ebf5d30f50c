package speechgraph

import (
	"context"
	"math"
	"testing"

	"github.com/kmatton/speech-feature-io/transcript"
)

func graphFeatures(t *testing.T, segments [][]string) map[string]float64 {
	t.Helper()
	features := make(map[string]float64)
	buildGraph(segments).metrics(`naive`, features)
	return features
}

func TestSimpleChain(t *testing.T) {
	// a -> b -> c
	features := graphFeatures(t, [][]string{{`a`, `b`, `c`}})
	if features[`num_nodes_naive`] != 3 || features[`num_edges_naive`] != 2 {
		t.Fatal(`nodes/edges wrong`, features)
	}
	if features[`ave_degree_naive`] != 4.0/3.0 {
		t.Fatal(`ave_degree expected 4/3, got`, features[`ave_degree_naive`])
	}
	if features[`lcc_naive`] != 3 {
		t.Fatal(`lcc expected 3, got`, features[`lcc_naive`])
	}
	if features[`lsc_naive`] != 1 {
		t.Fatal(`lsc expected 1, got`, features[`lsc_naive`])
	}
	if features[`di_naive`] != 2 {
		t.Fatal(`diameter expected 2, got`, features[`di_naive`])
	}
	// pairs: a-b 1, a-c 2, b-c 1 -> mean 4/3
	if math.Abs(features[`asp_naive`]-4.0/3.0) > 1e-12 {
		t.Fatal(`asp expected 4/3, got`, features[`asp_naive`])
	}
	if features[`d_naive`] != 2.0/9.0 {
		t.Fatal(`density expected 2/9, got`, features[`d_naive`])
	}
}

func TestSelfLoopsAndParallel(t *testing.T) {
	// a -> a -> a -> b -> a -> b
	features := graphFeatures(t, [][]string{{`a`, `a`, `a`, `b`, `a`, `b`}})
	if features[`num_nodes_naive`] != 2 || features[`num_edges_naive`] != 5 {
		t.Fatal(`nodes/edges wrong`, features)
	}
	if features[`l1_naive`] != 2 {
		t.Fatal(`l1 expected 2, got`, features[`l1_naive`])
	}
	// a->b repeats once, a->a repeats once
	if features[`num_p_edges_naive`] != 2 {
		t.Fatal(`parallel edges expected 2, got`, features[`num_p_edges_naive`])
	}
	// two node loop a->b->a
	if features[`l2_naive`] != 2 {
		t.Fatal(`l2 expected 2, got`, features[`l2_naive`])
	}
	// E' = 5 - (2 + 2 - 1) = 2, density 2/4
	if features[`d_naive`] != 0.5 {
		t.Fatal(`density expected 0.5, got`, features[`d_naive`])
	}
	if features[`lsc_naive`] != 2 {
		t.Fatal(`lsc expected 2, got`, features[`lsc_naive`])
	}
}

func TestThreeNodeLoop(t *testing.T) {
	features := graphFeatures(t, [][]string{{`a`, `b`, `c`, `a`}})
	if features[`l3_naive`] != 1 {
		t.Fatal(`l3 expected 1, got`, features[`l3_naive`])
	}
	if features[`lsc_naive`] != 3 {
		t.Fatal(`lsc expected 3, got`, features[`lsc_naive`])
	}
}

func TestDisconnectedSegments(t *testing.T) {
	features := graphFeatures(t, [][]string{{`a`, `b`}, {`c`, `d`, `e`}})
	if features[`num_nodes_naive`] != 5 {
		t.Fatal(`nodes expected 5, got`, features[`num_nodes_naive`])
	}
	if features[`lcc_naive`] != 3 {
		t.Fatal(`lcc expected 3, got`, features[`lcc_naive`])
	}
	// connected pairs only: a-b 1, c-d 1, c-e 2, d-e 1 -> mean 5/4
	if features[`asp_naive`] != 1.25 {
		t.Fatal(`asp expected 1.25, got`, features[`asp_naive`])
	}
}

func TestSingleWordSegment(t *testing.T) {
	features := graphFeatures(t, [][]string{{`hello`}})
	if features[`num_nodes_naive`] != 1 || features[`num_edges_naive`] != 0 {
		t.Fatal(`expected isolated node`, features)
	}
	if features[`lcc_naive`] != 1 || features[`lsc_naive`] != 1 {
		t.Fatal(`component sizes wrong`, features)
	}
}

func TestEmptyGraph(t *testing.T) {
	features := graphFeatures(t, nil)
	if features[`num_nodes_naive`] != 0 {
		t.Fatal(`expected empty graph`)
	}
	if !math.IsNaN(features[`ave_degree_naive`]) {
		t.Fatal(`expected NaN ave_degree`)
	}
	if features[`di_naive`] != 0 || features[`asp_naive`] != 0 {
		t.Fatal(`expected zero path metrics`, features)
	}
}

func TestExtractVariants(t *testing.T) {
	ctx := context.Background()
	segments := []transcript.Segment{
		{Id: `s1_0_1000`, Words: []string{`the`, `dogs`, `ran`}},
		{Id: `s1_1000_2000`, Words: []string{`the`, `dog`, `ran`}},
	}
	features, status := Extract(ctx, segments, false, nil)
	if status != nil {
		t.Fatal(status)
	}
	if features[`num_nodes_naive`] != 4 {
		t.Fatal(`naive nodes expected 4, got`, features[`num_nodes_naive`])
	}
	// dogs and dog collapse to one lemma
	if features[`num_nodes_lemma`] != 3 {
		t.Fatal(`lemma nodes expected 3, got`, features[`num_nodes_lemma`])
	}
	if features[`num_nodes_pos`] <= 0 {
		t.Fatal(`pos graph empty`)
	}
	norm := features[`num_edges_naive_norm`]
	if norm != features[`num_edges_naive`]/6.0 {
		t.Fatal(`norm feature wrong`, norm)
	}
}

func TestExtractRemoveStops(t *testing.T) {
	ctx := context.Background()
	segments := []transcript.Segment{
		{Id: `s1_0_1000`, Words: []string{`the`, `dog`, `ran`}},
	}
	stops := map[string]bool{`the`: true}
	features, status := Extract(ctx, segments, true, stops)
	if status != nil {
		t.Fatal(status)
	}
	if features[`num_nodes_naive`] != 2 {
		t.Fatal(`expected stopword removed, got`, features[`num_nodes_naive`])
	}
}
