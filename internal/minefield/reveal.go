package minefield

// RevealResult is the outcome of one Reveal call.
type RevealResult struct {
	// MinesTriggered is true when the revealed target was a mine.
	MinesTriggered bool
	// Cells holds a snapshot of every cell this call moved to Revealed, in
	// discovery order.
	Cells []Cell
}

type floodFrame struct {
	position Position
	next     int
}

// Reveal uncovers the cell and floods outward from zero-adjacency cells.
//
// Discovery order is the depth-first pre-order over neighbourDeltas: the target
// first, then each neighbour fully explored before the next one. Flood-fill never
// enters mines and stops at cells with a non-zero count. A flag does not protect
// a cell from being revealed; its flag returns to the budget. Revealing a mine
// discloses the whole grid.
func (g *Grid) Reveal(id CellID) (RevealResult, error) {
	if !g.dims.Valid(id) {
		return RevealResult{}, notFound(id)
	}

	visited := make([]bool, len(g.cells))
	result := RevealResult{}
	stack := make([]floodFrame, 0, 8)

	visit := func(cid CellID) {
		visited[cid] = true
		cell := &g.cells[cid]
		if cell.State != Revealed {
			if cell.State == Flagged {
				g.flagsLeft++
			}
			cell.Reveal()
			result.Cells = append(result.Cells, *cell)
		}
		if !cell.Kind.IsMine() && cell.Kind.Adjacent() == 0 {
			stack = append(stack, floodFrame{position: cell.Position})
		}
	}

	visit(id)
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(neighbourDeltas) {
			stack = stack[:len(stack)-1]
			continue
		}
		delta := neighbourDeltas[top.next]
		top.next++

		p := top.position.Add(delta[0], delta[1])
		if !g.dims.Contains(p) {
			continue
		}
		nid := g.dims.ID(p)
		neighbour := g.cells[nid]
		if visited[nid] || neighbour.Kind.IsMine() || neighbour.State == Revealed {
			continue
		}
		visit(nid)
	}

	if g.cells[id].Kind.IsMine() {
		result.MinesTriggered = true
		g.disclose(&result)
	}
	return result, nil
}

// disclose reveals every remaining cell in id order.
func (g *Grid) disclose(result *RevealResult) {
	for i := range g.cells {
		cell := &g.cells[i]
		if cell.State == Revealed {
			continue
		}
		if cell.State == Flagged {
			g.flagsLeft++
		}
		cell.Reveal()
		result.Cells = append(result.Cells, *cell)
	}
}
