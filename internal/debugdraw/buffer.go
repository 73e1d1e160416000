// Package debugdraw keeps a collider wireframe overlay in render storage.
package debugdraw

import (
	"log"

	"sandbox3d/internal/physics"
	"sandbox3d/internal/scene"
)

// Storage is the render-side vertex storage for the overlay.
type Storage interface {
	// Allocate replaces the storage with room for vertexCount vertices
	Allocate(vertexCount int)
	// Upload writes the full payload from the start of storage
	Upload(positions, colors []float32)
	// SetDrawCount limits drawing to the first n vertices
	SetDrawCount(n int)
	scene.LineDrawer
}

// Source produces the wireframe snapshot.
type Source interface {
	DebugRender() physics.DebugLines
}

// Buffer mirrors world wireframes into Storage. Storage capacity only
// grows; a smaller snapshot just shortens the draw range.
type Buffer struct {
	source  Source
	storage Storage
	root    *scene.Node
	node    *scene.Node

	lines     physics.DebugLines
	capacity  int
	drawCount int
	enabled   bool
}

// New creates a disabled overlay whose node attaches under root.
func New(source Source, storage Storage, root *scene.Node) *Buffer {
	node := scene.NewNode("debug")
	node.Visual = &scene.LineVisual{Lines: storage}
	return &Buffer{
		source:  source,
		storage: storage,
		root:    root,
		node:    node,
	}
}

// Snapshot takes the current wireframe from the source.
func (b *Buffer) Snapshot() {
	b.lines = b.source.DebugRender()
}

// Update uploads the last snapshot, growing storage when it no longer fits.
func (b *Buffer) Update() {
	count := b.lines.VertexCount()
	if count > b.capacity {
		b.storage.Allocate(count)
		b.capacity = count
		log.Printf("Debug: grew line storage to %d vertices", count)
	}
	b.storage.Upload(b.lines.Positions, b.lines.Colors)
	b.storage.SetDrawCount(count)
	b.drawCount = count
}

// Toggle flips the overlay and returns the new state. Storage survives a
// disable so re-enabling does not reallocate.
func (b *Buffer) Toggle() bool {
	b.SetEnabled(!b.enabled)
	return b.enabled
}

func (b *Buffer) SetEnabled(enabled bool) {
	if enabled == b.enabled {
		return
	}
	b.enabled = enabled
	if enabled {
		b.root.AddChild(b.node)
	} else {
		b.root.RemoveChild(b.node)
	}
}

func (b *Buffer) Enabled() bool {
	return b.enabled
}

// Capacity is the vertex count of the last allocation.
func (b *Buffer) Capacity() int {
	return b.capacity
}

func (b *Buffer) DrawCount() int {
	return b.drawCount
}

func (b *Buffer) Node() *scene.Node {
	return b.node
}
