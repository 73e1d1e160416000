package assets

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"sandbox3d/internal/scene"
	"sandbox3d/internal/skeleton"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"
)

// ErrInvalidTemplate is returned for template files that parse but cannot
// be turned into a visual.
var ErrInvalidTemplate = errors.New("assets: invalid template")

// Template is a loaded visual asset. Skeleton is nil unless Visual is a
// *scene.SkinnedVisual.
type Template struct {
	Name     string
	Visual   scene.Visual
	Skeleton *skeleton.Skeleton
}

// Skinned reports whether the template carries a skeleton.
func (t *Template) Skinned() bool {
	return t.Skeleton != nil
}

// jointDef is the YAML form of one joint. Parent names an earlier joint;
// empty means a root joint.
type jointDef struct {
	Name        string      `yaml:"name"`
	Parent      string      `yaml:"parent"`
	Translation [3]float32  `yaml:"translation"`
	Rotation    *[4]float32 `yaml:"rotation"` // x, y, z, w
	Scale       *[3]float32 `yaml:"scale"`
}

// templateDef is the YAML format for template files
type templateDef struct {
	Name   string     `yaml:"name"`
	Color  string     `yaml:"color"`
	Mesh   string     `yaml:"mesh"`
	Size   [3]float32 `yaml:"size"`
	Radius float32    `yaml:"radius"`
	Joints []jointDef `yaml:"joints"`
	// InverseBindMatrices are column-major 4x4 matrices, one per joint.
	// When omitted they are derived from the bind pose.
	InverseBindMatrices [][16]float32 `yaml:"inverse_bind_matrices"`
}

// LoadTemplate reads a template file. Files with joints become skinned
// visuals; files without become static ones.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return ParseTemplate(data)
}

func ParseTemplate(data []byte) (*Template, error) {
	var def templateDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	if len(def.Joints) == 0 {
		return staticTemplate(def)
	}
	return skinnedTemplate(def)
}

func staticTemplate(def templateDef) (*Template, error) {
	var mesh scene.MeshKind
	switch def.Mesh {
	case "sphere", "":
		mesh = scene.MeshSphere
	case "cuboid":
		mesh = scene.MeshCuboid
	case "capsule":
		mesh = scene.MeshCapsule
	default:
		return nil, fmt.Errorf("%w: unknown mesh %q", ErrInvalidTemplate, def.Mesh)
	}

	return &Template{
		Name: def.Name,
		Visual: &scene.StaticVisual{
			Mesh:  mesh,
			Size:  rl.Vector3{X: def.Size[0], Y: def.Size[1], Z: def.Size[2]},
			Color: LookupColor(def.Color),
		},
	}, nil
}

func skinnedTemplate(def templateDef) (*Template, error) {
	if def.InverseBindMatrices != nil && len(def.InverseBindMatrices) != len(def.Joints) {
		return nil, fmt.Errorf("%w: %d inverse bind matrices for %d joints",
			ErrInvalidTemplate, len(def.InverseBindMatrices), len(def.Joints))
	}

	byName := make(map[string]*scene.Node, len(def.Joints))
	joints := make([]*scene.Node, 0, len(def.Joints))
	for _, jd := range def.Joints {
		if _, dup := byName[jd.Name]; dup || jd.Name == "" {
			return nil, fmt.Errorf("%w: duplicate or empty joint name %q", ErrInvalidTemplate, jd.Name)
		}

		n := scene.NewNode(jd.Name)
		n.Position = rl.Vector3{X: jd.Translation[0], Y: jd.Translation[1], Z: jd.Translation[2]}
		if jd.Rotation != nil {
			r := jd.Rotation
			n.Rotation = rl.QuaternionNormalize(rl.Quaternion{X: r[0], Y: r[1], Z: r[2], W: r[3]})
		}
		if jd.Scale != nil {
			n.Scale = rl.Vector3{X: jd.Scale[0], Y: jd.Scale[1], Z: jd.Scale[2]}
		}

		if jd.Parent != "" {
			parent, ok := byName[jd.Parent]
			if !ok {
				return nil, fmt.Errorf("%w: joint %q has unknown parent %q", ErrInvalidTemplate, jd.Name, jd.Parent)
			}
			parent.AddChild(n)
		}

		byName[jd.Name] = n
		joints = append(joints, n)
	}

	ibms := make([]rl.Matrix, len(joints))
	for i, j := range joints {
		if def.InverseBindMatrices != nil {
			ibms[i] = matrixFromColumns(def.InverseBindMatrices[i])
		} else {
			ibms[i] = rl.MatrixInvert(j.WorldMatrix())
		}
	}

	skel := &skeleton.Skeleton{Joints: joints, InverseBindMatrices: ibms}
	radius := def.Radius
	if radius <= 0 {
		radius = 0.1
	}

	return &Template{
		Name:     def.Name,
		Skeleton: skel,
		Visual: &scene.SkinnedVisual{
			Joints:              joints,
			InverseBindMatrices: ibms,
			Radius:              radius,
			Color:               LookupColor(def.Color),
		},
	}, nil
}

// matrixFromColumns reads a column-major array into raylib's layout
func matrixFromColumns(v [16]float32) rl.Matrix {
	return rl.Matrix{
		M0: v[0], M1: v[1], M2: v[2], M3: v[3],
		M4: v[4], M5: v[5], M6: v[6], M7: v[7],
		M8: v[8], M9: v[9], M10: v[10], M11: v[11],
		M12: v[12], M13: v[13], M14: v[14], M15: v[15],
	}
}

// TemplateResult is delivered by LoadTemplateAsync.
type TemplateResult struct {
	Template *Template
	Err      error
}

// LoadTemplateAsync loads a template on a background goroutine. The
// channel receives exactly one result and is then closed; if ctx ends
// first the result carries ctx.Err().
func LoadTemplateAsync(ctx context.Context, path string) <-chan TemplateResult {
	out := make(chan TemplateResult, 1)
	go func() {
		defer close(out)

		done := make(chan TemplateResult, 1)
		go func() {
			t, err := LoadTemplate(path)
			done <- TemplateResult{Template: t, Err: err}
		}()

		select {
		case res := <-done:
			if res.Err != nil {
				log.Printf("Assets: failed to load %s: %v", path, res.Err)
			} else {
				log.Printf("Assets: loaded template %q from %s", res.Template.Name, path)
			}
			out <- res
		case <-ctx.Done():
			out <- TemplateResult{Err: ctx.Err()}
		}
	}()
	return out
}
