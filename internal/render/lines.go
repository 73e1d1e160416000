package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// LineStorage is CPU-side vertex storage for a line list drawn with
// DrawLine3D. Its capacity is set by Allocate and never changes on upload.
type LineStorage struct {
	positions []float32
	colors    []float32
	drawCount int
}

func NewLineStorage() *LineStorage {
	return &LineStorage{}
}

func (s *LineStorage) Allocate(vertexCount int) {
	s.positions = make([]float32, vertexCount*3)
	s.colors = make([]float32, vertexCount*4)
	if s.drawCount > vertexCount {
		s.drawCount = vertexCount
	}
}

// Upload copies the payload to the start of storage. Data past capacity is
// dropped.
func (s *LineStorage) Upload(positions, colors []float32) {
	copy(s.positions, positions)
	copy(s.colors, colors)
}

func (s *LineStorage) SetDrawCount(n int) {
	if limit := s.Capacity(); n > limit {
		n = limit
	}
	s.drawCount = n
}

func (s *LineStorage) Capacity() int {
	return len(s.positions) / 3
}

func (s *LineStorage) DrawCount() int {
	return s.drawCount
}

// Segment returns the endpoints and start color of line i.
func (s *LineStorage) Segment(i int) (a, b rl.Vector3, color rl.Color) {
	va, vb := 2*i, 2*i+1
	a = rl.Vector3{X: s.positions[va*3], Y: s.positions[va*3+1], Z: s.positions[va*3+2]}
	b = rl.Vector3{X: s.positions[vb*3], Y: s.positions[vb*3+1], Z: s.positions[vb*3+2]}
	c := s.colors[va*4 : va*4+4]
	color = rl.NewColor(unit(c[0]), unit(c[1]), unit(c[2]), unit(c[3]))
	return a, b, color
}

func (s *LineStorage) DrawLines() {
	for i := 0; i < s.drawCount/2; i++ {
		a, b, color := s.Segment(i)
		rl.DrawLine3D(a, b, color)
	}
}

func unit(f float32) uint8 {
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 255
	}
	return uint8(f*255 + 0.5)
}
