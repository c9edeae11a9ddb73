package graph

// Passing is a lane that carries an edge past a row.
type Passing struct {
	Lane int
	Skip bool
}

// RowLayout is the lane assignment of one row.
type RowLayout struct {
	// Lane is the column of the row's marker
	Lane int

	// Through lists lanes whose edges pass this row without touching it
	Through []Passing

	// Joins lists other lanes whose edges end at this row
	Joins []int

	// Forks lists lanes opened at this row for second and later parents
	Forks []int
}

// Layout assigns lanes to every row of a LinearGraph.
type Layout struct {
	Rows  []RowLayout
	Width int
}

// laneSlot tracks what a lane is waiting for
type laneSlot struct {
	row  int
	busy bool
	skip bool
}

// NewLayout lays out g with a lane allocation that:
//  1. keeps a row in the lane reserved by its first child when possible
//  2. continues the first parent in the same lane
//  3. opens a lane for every further parent, reusing reserved lanes
//  4. reuses freed lanes before widening the graph
func NewLayout(g LinearGraph) *Layout {
	var (
		lanes  []laneSlot
		layout = &Layout{Rows: make([]RowLayout, g.NodeCount())}
	)

	reserved := func(row int) (int, bool) {
		for i, s := range lanes {
			if s.busy && s.row == row {
				return i, true
			}
		}
		return 0, false
	}
	freeLane := func(skip int) int {
		for i := range lanes {
			if !lanes[i].busy && i != skip {
				return i
			}
		}
		lanes = append(lanes, laneSlot{})
		return len(lanes) - 1
	}

	for row := range layout.Rows {
		rl := &layout.Rows[row]

		lane, ok := reserved(row)
		if !ok {
			lane = freeLane(-1)
		}
		rl.Lane = lane

		for i, s := range lanes {
			switch {
			case !s.busy || i == lane:
			case s.row == row:
				rl.Joins = append(rl.Joins, i)
				lanes[i] = laneSlot{}
			default:
				rl.Through = append(rl.Through, Passing{Lane: i, Skip: s.skip})
			}
		}
		lanes[lane] = laneSlot{row: row, busy: true}

		continued := false
		for i, e := range g.Edges(row, FilterDown) {
			target, present := e.Down.Row()
			if !present {
				continue
			}
			if i == 0 {
				lanes[lane] = laneSlot{row: target, busy: true, skip: e.IsSkip()}
				continued = true
				continue
			}
			if _, ok := reserved(target); ok {
				continue
			}
			fork := freeLane(lane)
			lanes[fork] = laneSlot{row: target, busy: true, skip: e.IsSkip()}
			rl.Forks = append(rl.Forks, fork)
		}
		if !continued {
			lanes[lane] = laneSlot{}
		}

		if len(lanes) > layout.Width {
			layout.Width = len(lanes)
		}
	}

	return layout
}
