package scene

// Scene owns the node tree under Root.
type Scene struct {
	Name string
	Root *Node
}

func NewScene(name string) *Scene {
	return &Scene{
		Name: name,
		Root: NewNode("root"),
	}
}

// Add attaches a node directly under the root.
func (s *Scene) Add(n *Node) {
	s.Root.AddChild(n)
}

func (s *Scene) Remove(n *Node) {
	s.Root.RemoveChild(n)
}

// FindByName returns the first node with the given name, depth first.
func (s *Scene) FindByName(name string) *Node {
	var found *Node
	s.Root.Walk(func(n *Node) {
		if found == nil && n.Name == name {
			found = n
		}
	})
	return found
}

// NodeCount returns the number of nodes below the root.
func (s *Scene) NodeCount() int {
	count := -1
	s.Root.Walk(func(*Node) { count++ })
	return count
}
