package scene

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Node is a transform in the scene graph. Position, Rotation and Scale are
// local to the parent.
type Node struct {
	Name     string
	Position rl.Vector3
	Rotation rl.Quaternion
	Scale    rl.Vector3
	Visual   Visual // nil for pure transform nodes
	Visible  bool
	Parent   *Node
	Children []*Node
}

func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: rl.QuaternionIdentity(),
		Scale:    rl.Vector3{X: 1, Y: 1, Z: 1},
		Visible:  true,
		Children: make([]*Node, 0),
	}
}

// AddChild reparents child under n.
func (n *Node) AddChild(child *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// HasChild reports whether child is a direct child of n.
func (n *Node) HasChild(child *Node) bool {
	for _, c := range n.Children {
		if c == child {
			return true
		}
	}
	return false
}

// SetPose writes a world-space pose into the local transform. Nodes driven
// by physics are expected to hang directly off the scene root.
func (n *Node) SetPose(position rl.Vector3, rotation rl.Quaternion) {
	n.Position = position
	n.Rotation = rotation
}

// LocalMatrix composes scale, then rotation, then translation.
func (n *Node) LocalMatrix() rl.Matrix {
	s := rl.MatrixScale(n.Scale.X, n.Scale.Y, n.Scale.Z)
	r := rl.QuaternionToMatrix(n.Rotation)
	t := rl.MatrixTranslate(n.Position.X, n.Position.Y, n.Position.Z)
	return rl.MatrixMultiply(rl.MatrixMultiply(s, r), t)
}

// WorldMatrix returns the local matrix composed with every ancestor.
func (n *Node) WorldMatrix() rl.Matrix {
	m := n.LocalMatrix()
	for p := n.Parent; p != nil; p = p.Parent {
		m = rl.MatrixMultiply(m, p.LocalMatrix())
	}
	return m
}

// WorldPosition returns the translation part of WorldMatrix.
func (n *Node) WorldPosition() rl.Vector3 {
	m := n.WorldMatrix()
	return rl.Vector3{X: m.M12, Y: m.M13, Z: m.M14}
}

// Walk visits n and its descendants depth first.
func (n *Node) Walk(visit func(*Node)) {
	visit(n)
	for _, c := range n.Children {
		c.Walk(visit)
	}
}
