package minefield

// Position addresses a cell by column (X) and row (Y). Coordinates are signed so
// neighbour arithmetic may step off the grid before Dimensions.Contains rejects it.
type Position struct {
	X int
	Y int
}

// Add returns the position shifted by the given delta.
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// CellID identifies one cell. Ids are unique across a grid and form the range [0, rows*cols).
type CellID int

// Dimensions owns the grid's axis convention. Ids are column-major: columns are
// iterated outer and rows inner, so id = x*Rows + y. Every component converts
// between ids and positions through these methods and never locally.
type Dimensions struct {
	Rows int
	Cols int
}

// Size returns the number of cells.
func (d Dimensions) Size() int {
	return d.Rows * d.Cols
}

// Contains reports whether p lies inside [0,Cols)×[0,Rows).
func (d Dimensions) Contains(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < d.Cols && p.Y < d.Rows
}

// Valid reports whether id addresses a cell.
func (d Dimensions) Valid(id CellID) bool {
	return id >= 0 && int(id) < d.Size()
}

// ID returns the id of the cell at p. The caller must check Contains first.
func (d Dimensions) ID(p Position) CellID {
	return CellID(p.X*d.Rows + p.Y)
}

// Position returns the position of id. The caller must check Valid first.
func (d Dimensions) Position(id CellID) Position {
	return Position{X: int(id) / d.Rows, Y: int(id) % d.Rows}
}

// neighbourDeltas is the fixed traversal order for the 8-neighbourhood:
// column delta outer, row delta inner, from (-1,-1) to (1,1).
var neighbourDeltas = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Neighbours returns the in-bounds neighbours of p in traversal order.
func (d Dimensions) Neighbours(p Position) []Position {
	out := make([]Position, 0, len(neighbourDeltas))
	for _, delta := range neighbourDeltas {
		next := p.Add(delta[0], delta[1])
		if d.Contains(next) {
			out = append(out, next)
		}
	}
	return out
}
