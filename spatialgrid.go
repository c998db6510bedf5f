package shatter

import (
	"math"
	"sort"
	"sync"

	"github.com/akmonengine/shatter/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// MaxCellsPerAxis is the largest span a body may cover in the grid.
// Planes and bodies spanning more cells are kept aside and tested against
// every other body instead.
const MaxCellsPerAxis = 16

// CellKey is the integer coordinate of a grid cell
type CellKey struct {
	X, Y, Z int
}

type Cell struct {
	bodyIndices []int
}

// Pair is a pair of bodies whose bounds may overlap. IndexA < IndexB, both
// index World.Bodies.
type Pair struct {
	BodyA, BodyB   *actor.RigidBody
	IndexA, IndexB int
}

// SpatialGrid is a uniform hashed grid used by the broad phase
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int

	large []int
}

// NewSpatialGrid rounds numCells up to a power of two
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].bodyIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert adds the body to every cell its AABB covers
func (sg *SpatialGrid) Insert(bodyIndex int, body *actor.RigidBody) {
	if sg.isLarge(body) {
		sg.large = append(sg.large, bodyIndex)
		return
	}

	sg.forEachCell(body, func(cellIdx int) {
		sg.cells[cellIdx].bodyIndices = append(sg.cells[cellIdx].bodyIndices, bodyIndex)
	})
}

func (sg *SpatialGrid) isLarge(body *actor.RigidBody) bool {
	if body.Shape.Type() == actor.ShapeTypePlane {
		return true
	}

	span := body.Shape.GetAABB().Size()
	for axis := 0; axis < 3; axis++ {
		if span[axis] > MaxCellsPerAxis*sg.cellSize || math.IsInf(span[axis], 0) || math.IsNaN(span[axis]) {
			return true
		}
	}

	return false
}

func (sg *SpatialGrid) forEachCell(body *actor.RigidBody, fn func(cellIdx int)) {
	aabb := body.Shape.GetAABB()
	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				fn(sg.hashCell(CellKey{x, y, z}))
			}
		}
	}
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].bodyIndices = sg.cells[i].bodyIndices[:0]
	}
	sg.large = sg.large[:0]
}

func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].bodyIndices) > 1 {
			sort.Ints(sg.cells[i].bodyIndices)
		}
	}
	sort.Ints(sg.large)
}

// FindPairs returns the candidate pairs, sorted by (IndexA, IndexB)
func (sg *SpatialGrid) FindPairs(bodies []*actor.RigidBody, numWorkers int) []Pair {
	pairs := make([]Pair, 0, len(bodies))
	for p := range sg.FindPairsParallel(bodies, numWorkers) {
		pairs = append(pairs, p)
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].IndexA != pairs[j].IndexA {
			return pairs[i].IndexA < pairs[j].IndexA
		}
		return pairs[i].IndexB < pairs[j].IndexB
	})

	return pairs
}

// FindPairsParallel streams the candidate pairs, in no particular order
func (sg *SpatialGrid) FindPairsParallel(bodies []*actor.RigidBody, numWorkers int) <-chan Pair {
	numWorkers = max(1, numWorkers)

	var wg sync.WaitGroup
	pairsChan := make(chan Pair, numWorkers*10)

	isLarge := make([]bool, len(bodies))
	for _, idx := range sg.large {
		isLarge[idx] = true
	}

	bodiesPerWorker := max(1, len(bodies)/numWorkers)
	for start := 0; start < len(bodies); start += bodiesPerWorker {
		end := min(start+bodiesPerWorker, len(bodies))
		if len(bodies)-end < bodiesPerWorker {
			end = len(bodies)
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()

			seen := make([]bool, len(bodies))
			for bodyIdx := start; bodyIdx < end; bodyIdx++ {
				if isLarge[bodyIdx] {
					continue
				}
				clear(seen)

				sg.forEachCell(bodies[bodyIdx], func(cellIdx int) {
					for _, otherIdx := range sg.cells[cellIdx].bodyIndices {
						if otherIdx <= bodyIdx || seen[otherIdx] {
							continue
						}
						seen[otherIdx] = true

						if p, ok := candidate(bodies, bodyIdx, otherIdx); ok {
							pairsChan <- p
						}
					}
				})
			}
		}(start, end)

		if end == len(bodies) {
			break
		}
	}

	// large bodies against everything else
	wg.Add(1)
	go func() {
		defer wg.Done()

		for _, largeIdx := range sg.large {
			for otherIdx := range bodies {
				if otherIdx == largeIdx || (isLarge[otherIdx] && otherIdx < largeIdx) {
					continue
				}

				a, b := largeIdx, otherIdx
				if b < a {
					a, b = b, a
				}
				if p, ok := candidate(bodies, a, b); ok {
					pairsChan <- p
				}
			}
		}
	}()

	go func() {
		wg.Wait()
		close(pairsChan)
	}()

	return pairsChan
}

// candidate filters static/static and sleeping/sleeping pairs, then tests the bounds.
// Planes skip the bounds test.
func candidate(bodies []*actor.RigidBody, a, b int) (Pair, bool) {
	bodyA, bodyB := bodies[a], bodies[b]

	if bodyA.BodyType == actor.BodyTypeStatic && bodyB.BodyType == actor.BodyTypeStatic {
		return Pair{}, false
	}
	if bodyA.IsSleeping && bodyB.IsSleeping {
		return Pair{}, false
	}

	pair := Pair{BodyA: bodyA, BodyB: bodyB, IndexA: a, IndexB: b}
	if bodyA.Shape.Type() == actor.ShapeTypePlane || bodyB.Shape.Type() == actor.ShapeTypePlane {
		return pair, true
	}

	return pair, bodyA.Shape.GetAABB().Overlaps(bodyB.Shape.GetAABB())
}

func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}
