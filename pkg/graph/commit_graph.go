package graph

import "fmt"

// CommitRef is one commit as delivered by a log reader.
type CommitRef struct {
	// Hash identifies the commit
	Hash string

	// Parents are the parent hashes, first parent first
	Parents []string

	// Subject is the first line of the commit message
	Subject string
}

// PermanentGraph is the loaded segment of history with stable ids.
//
// Rows follow log order (newest first). Ids are handed out the first time a
// hash is seen, as a commit or as somebody's parent, so a parent outside the
// loaded segment already owns an id that its not-loaded edge points at.
// A PermanentGraph never changes; loading more history yields a new one.
type PermanentGraph struct {
	// rowIDs maps row to permanent id
	rowIDs []int

	// rows maps permanent id to row for loaded commits
	rows map[int]int

	// hashes and subjects are indexed by permanent id
	hashes   []string
	subjects []string

	// parents holds the parent ids of each row, children the child rows
	parents  [][]int
	children [][]int
}

var _ LinearGraph = (*PermanentGraph)(nil)

// NodeCount returns the number of loaded commits.
func (g *PermanentGraph) NodeCount() int {
	return len(g.rowIDs)
}

// IndexOf returns the row of a loaded commit.
func (g *PermanentGraph) IndexOf(id int) (int, bool) {
	row, ok := g.rows[id]
	return row, ok
}

// IDOf returns the permanent id at row.
func (g *PermanentGraph) IDOf(row int) int {
	return g.rowIDs[row]
}

// Node returns the node at row. Every loaded commit is a usual node.
func (g *PermanentGraph) Node(row int) Node {
	g.checkRow(row)
	return Node{Row: row, Kind: NodeUsual}
}

// Edges returns the child links (up) and parent links (down) of row.
// Parents outside the loaded segment yield not-loaded edges.
func (g *PermanentGraph) Edges(row int, filter EdgeFilter) []Edge {
	g.checkRow(row)

	var edges []Edge
	if filter.Up() {
		for _, child := range g.children[row] {
			edges = append(edges, NewEdge(child, row))
		}
	}
	if filter.Down() {
		for _, parent := range g.parents[row] {
			if prow, ok := g.rows[parent]; ok {
				edges = append(edges, NewEdge(row, prow))
			} else {
				edges = append(edges, NewTailEdge(row, EdgeNotLoaded, parent))
			}
		}
	}
	return edges
}

// Len returns the size of the id space, loaded or merely referenced.
func (g *PermanentGraph) Len() int {
	return len(g.hashes)
}

// Hash returns the commit hash of a permanent id.
func (g *PermanentGraph) Hash(id int) string {
	return g.hashes[id]
}

// Subject returns the commit subject of a permanent id, empty when the commit
// is not loaded.
func (g *PermanentGraph) Subject(id int) string {
	return g.subjects[id]
}

// Lookup returns the permanent id of a hash. Unique prefixes of at least four
// characters are accepted.
func (g *PermanentGraph) Lookup(hash string) (int, bool) {
	found, ok := -1, false
	for id, h := range g.hashes {
		if h == hash {
			return id, true
		}
		if len(hash) >= 4 && len(h) > len(hash) && h[:len(hash)] == hash {
			if ok {
				return 0, false
			}
			found, ok = id, true
		}
	}
	return found, ok
}

func (g *PermanentGraph) checkRow(row int) {
	if row < 0 || row >= len(g.rowIDs) {
		panic(fmt.Sprintf("graph: row %d out of range [0, %d)", row, len(g.rowIDs)))
	}
}
