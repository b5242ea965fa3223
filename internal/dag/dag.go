package dag

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vk/mdrun/internal/value"
)

// AnchorNode is the source node for the navigation focus.
const AnchorNode = "anchor"

// VarNode returns the source node for a top-level state variable. Paths
// are tracked by root, so a write to $player.hp dirties every reader of
// $player.
func VarNode(root string) string {
	return "var:" + root
}

// Graph links sources (variables and the anchor) to the items that read
// them. Items can themselves be sources, as an if item is for its else.
// All operations are concurrency-safe.
type Graph struct {
	mu    sync.RWMutex
	nodes map[string]*node
}

type node struct {
	id      string
	sources map[string]*node
	readers map[string]*node
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*node)}
}

// AddNode adds id if it is not present yet.
func (g *Graph) AddNode(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ensure(id)
}

func (g *Graph) ensure(id string) *node {
	n, ok := g.nodes[id]
	if !ok {
		n = &node{id: id, sources: make(map[string]*node), readers: make(map[string]*node)}
		g.nodes[id] = n
	}
	return n
}

// Link records that reader depends on source, adding either node when
// missing. A node cannot read itself.
func (g *Graph) Link(source, reader string) error {
	if source == reader {
		return fmt.Errorf("node %q cannot depend on itself", source)
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	s, r := g.ensure(source), g.ensure(reader)
	s.readers[reader] = r
	r.sources[source] = s
	return nil
}

// Sources returns the nodes id depends on, sorted.
func (g *Graph) Sources(id string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node %q not found", id)
	}
	return sortedKeys(n.sources), nil
}

// Readers returns the nodes that depend on id directly, sorted.
func (g *Graph) Readers(id string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node %q not found", id)
	}
	return sortedKeys(n.readers), nil
}

// Has reports whether id is in the graph.
func (g *Graph) Has(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// Affected returns the given nodes and everything that transitively reads
// them. Unknown ids are ignored.
func (g *Graph) Affected(ids ...string) map[string]bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	seen := make(map[string]bool)
	var queue []*node
	for _, id := range ids {
		if n, ok := g.nodes[id]; ok && !seen[id] {
			seen[id] = true
			queue = append(queue, n)
		}
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for id, r := range n.readers {
			if !seen[id] {
				seen[id] = true
				queue = append(queue, r)
			}
		}
	}
	return seen
}

// Dirty returns the nodes affected by writes to the given paths and, when
// anchor is set, by a change of navigation focus.
func (g *Graph) Dirty(changed []value.Path, anchor bool) map[string]bool {
	ids := make([]string, 0, len(changed)+1)
	for _, p := range changed {
		ids = append(ids, VarNode(p.Root))
	}
	if anchor {
		ids = append(ids, AnchorNode)
	}
	return g.Affected(ids...)
}

// DetectCycles returns an error naming the nodes on a cycle, if any. It
// peels off nodes with no remaining sources until none are left; whatever
// cannot be peeled lies on or behind a cycle.
func (g *Graph) DetectCycles() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	pending := make(map[string]int, len(g.nodes))
	var ready []*node
	for id, n := range g.nodes {
		pending[id] = len(n.sources)
		if len(n.sources) == 0 {
			ready = append(ready, n)
		}
	}
	for len(ready) > 0 {
		n := ready[len(ready)-1]
		ready = ready[:len(ready)-1]
		delete(pending, n.id)
		for id, r := range n.readers {
			pending[id]--
			if pending[id] == 0 {
				ready = append(ready, r)
			}
		}
	}
	if len(pending) == 0 {
		return nil
	}
	stuck := make([]string, 0, len(pending))
	for id := range pending {
		stuck = append(stuck, id)
	}
	sort.Strings(stuck)
	return fmt.Errorf("dependency cycle among %s", strings.Join(stuck, ", "))
}

func sortedKeys(m map[string]*node) []string {
	out := make([]string, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
