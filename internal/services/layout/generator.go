package layout

import (
	"fmt"
	"math"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
)

const (
	// CellSize is the grid spacing between table centres, in pixels
	CellSize = 220
	// Padding is added around the grid on both axes
	Padding = 120
	// MinBoardWidth and MinBoardHeight floor the generated board size
	MinBoardWidth  = 1200
	MinBoardHeight = 800
)

// Policy decides how many tables to create and of what size
type Policy interface {
	tables(guestCount int) ([]tableSize, error)
}

type tableSize struct {
	capacity int
	shape    model.Shape
}

// Fixed creates identical tables of one capacity
type Fixed struct {
	Capacity int
	Shape    model.Shape
}

func (p Fixed) tables(guestCount int) ([]tableSize, error) {
	if p.Capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive", model.ErrInvalidLayoutPolicy)
	}
	shape := p.Shape
	if shape == "" {
		shape = model.ShapeRound
	}
	if !shape.Valid() {
		return nil, fmt.Errorf("%w: unknown shape %q", model.ErrInvalidLayoutPolicy, shape)
	}

	count := ceilDiv(guestCount, p.Capacity)
	result := make([]tableSize, count)
	for i := range result {
		result[i] = tableSize{capacity: p.Capacity, shape: shape}
	}
	return result, nil
}

// Mixed creates a number of large rectangular tables followed by enough
// standard round tables for the remaining guests
type Mixed struct {
	LargeCount       int
	LargeCapacity    int
	StandardCapacity int
}

func (p Mixed) tables(guestCount int) ([]tableSize, error) {
	if p.LargeCount < 0 {
		return nil, fmt.Errorf("%w: large table count must not be negative", model.ErrInvalidLayoutPolicy)
	}
	if p.StandardCapacity <= 0 {
		return nil, fmt.Errorf("%w: standard capacity must be positive", model.ErrInvalidLayoutPolicy)
	}
	if p.LargeCount > 0 && p.LargeCapacity <= 0 {
		return nil, fmt.Errorf("%w: large capacity must be positive", model.ErrInvalidLayoutPolicy)
	}

	remaining := guestCount - p.LargeCount*p.LargeCapacity
	if remaining < 0 {
		remaining = 0
	}

	var result []tableSize
	for i := 0; i < p.LargeCount; i++ {
		result = append(result, tableSize{capacity: p.LargeCapacity, shape: model.ShapeRectangular})
	}
	for i := 0; i < ceilDiv(remaining, p.StandardCapacity); i++ {
		result = append(result, tableSize{capacity: p.StandardCapacity, shape: model.ShapeRound})
	}
	return result, nil
}

// Layout is a generated set of empty tables and the board that holds them
type Layout struct {
	Tables     []model.Table    `json:"tables"`
	Dimensions model.Dimensions `json:"dimensions"`
}

// Generate produces empty tables for a guest count, laid out on a square-ish grid
func Generate(guestCount int, policy Policy) (*Layout, error) {
	if guestCount < 0 {
		return nil, fmt.Errorf("%w: guest count must not be negative", model.ErrInvalidLayoutPolicy)
	}
	if policy == nil {
		return nil, fmt.Errorf("%w: no policy", model.ErrInvalidLayoutPolicy)
	}

	sizes, err := policy.tables(guestCount)
	if err != nil {
		return nil, err
	}

	n := len(sizes)
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	if cols < 1 {
		cols = 1
	}
	rows := ceilDiv(n, cols)

	tables := make([]model.Table, n)
	for i, s := range sizes {
		row, col := i/cols, i%cols
		tables[i] = model.Table{
			ID:       model.TableID(fmt.Sprintf("table-%d", i+1)),
			Name:     fmt.Sprintf("Table %d", i+1),
			Capacity: s.capacity,
			Shape:    s.shape,
			Position: model.Position{
				X: float64(Padding/2 + col*CellSize),
				Y: float64(Padding/2 + row*CellSize),
			},
			Occupants: []model.Occupant{},
		}
	}

	return &Layout{
		Tables: tables,
		Dimensions: model.Dimensions{
			Width:  math.Max(MinBoardWidth, float64(cols*CellSize+Padding)),
			Height: math.Max(MinBoardHeight, float64(rows*CellSize+Padding)),
		},
	}, nil
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
