// Package binding maps physics bodies onto the scene nodes that draw them.
package binding

import (
	"errors"
	"fmt"
	"log"

	"sandbox3d/internal/physics"
	"sandbox3d/internal/scene"
)

// ErrMissingBinding is reported when the world returns an active body that
// has no registered node.
var ErrMissingBinding = errors.New("binding: active body has no node")

// MissingBindingError lists every body skipped during one Sync.
type MissingBindingError struct {
	Bodies []physics.BodyHandle
}

func (e *MissingBindingError) Error() string {
	return fmt.Sprintf("binding: %d active bodies without a node: %v", len(e.Bodies), e.Bodies)
}

func (e *MissingBindingError) Unwrap() error {
	return ErrMissingBinding
}

// ActiveBodySource is the part of the physics world Sync reads.
type ActiveBodySource interface {
	ForEachActiveBody(visit func(h physics.BodyHandle, pose physics.Pose))
}

// Registry holds non-owning body to node associations. It is only touched
// from the loop goroutine.
type Registry struct {
	nodes map[physics.BodyHandle]*scene.Node
}

func NewRegistry() *Registry {
	return &Registry{nodes: make(map[physics.BodyHandle]*scene.Node)}
}

// Bind associates h with node, replacing any previous node.
func (r *Registry) Bind(h physics.BodyHandle, node *scene.Node) {
	r.nodes[h] = node
}

func (r *Registry) Unbind(h physics.BodyHandle) {
	delete(r.nodes, h)
}

func (r *Registry) Lookup(h physics.BodyHandle) (*scene.Node, bool) {
	n, ok := r.nodes[h]
	return n, ok
}

func (r *Registry) Len() int {
	return len(r.nodes)
}

// Sync copies the pose of every active body into its node. Bodies without
// a node are skipped and reported through a *MissingBindingError.
func (r *Registry) Sync(source ActiveBodySource) error {
	var missing []physics.BodyHandle

	source.ForEachActiveBody(func(h physics.BodyHandle, pose physics.Pose) {
		node, ok := r.nodes[h]
		if !ok {
			missing = append(missing, h)
			return
		}
		node.SetPose(pose.Position, pose.Rotation)
	})

	if len(missing) > 0 {
		log.Printf("Binding: skipped %d active bodies with no node", len(missing))
		return &MissingBindingError{Bodies: missing}
	}
	return nil
}
