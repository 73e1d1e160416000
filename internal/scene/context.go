package scene

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// DirectionalLight is a sun-style light shining along Direction.
type DirectionalLight struct {
	Direction    rl.Vector3
	Color        rl.Color
	Intensity    float32
	AmbientColor rl.Color
}

func NewDirectionalLight() DirectionalLight {
	return DirectionalLight{
		Direction:    rl.Vector3Normalize(rl.Vector3{X: 0.35, Y: -1.0, Z: -0.35}),
		Color:        rl.White,
		Intensity:    1.0,
		AmbientColor: rl.NewColor(25, 25, 25, 255),
	}
}

// Context is everything a renderer needs for one frame.
type Context struct {
	Scene  *Scene
	Camera rl.Camera3D
	Sun    DirectionalLight
}
