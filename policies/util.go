package policies

import (
	"math"

	"github.com/zeu5/pole-balancing/core"
)

// numActions is the number of pushes available in every region
const numActions = 2

// QTable stores one value per (region, action) pair.
type QTable struct {
	table [][numActions]float64
}

func NewQTable(regions int) *QTable {
	return &QTable{
		table: make([][numActions]float64, regions),
	}
}

func (q *QTable) Get(region int, action core.Action) float64 {
	return q.table[region][action]
}

func (q *QTable) Set(region int, action core.Action, val float64) {
	q.table[region][action] = val
}

// Max returns the best action of region and its value. Ties go to
// core.PushNegative.
func (q *QTable) Max(region int) (core.Action, float64) {
	maxAction := core.PushNegative
	maxVal := math.Inf(-1)
	for a, val := range q.table[region] {
		if val > maxVal {
			maxAction = core.Action(a)
			maxVal = val
		}
	}
	return maxAction, maxVal
}

func (q *QTable) Size() int {
	return len(q.table)
}

func (q *QTable) Reset() {
	clear(q.table)
}
