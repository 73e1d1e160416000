package main

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"sandbox3d/internal/config"
	"sandbox3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/spf13/cobra"
)

var defaultBenchCounts = []int{50, 100, 250, 500, 1000}

func runBench(cmd *cobra.Command, args []string) error {
	counts := defaultBenchCounts
	if len(args) > 0 {
		counts = counts[:0:0]
		for _, a := range args {
			n, err := strconv.Atoi(a)
			if err != nil || n <= 0 {
				return fmt.Errorf("bad count %q", a)
			}
			counts = append(counts, n)
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	for _, count := range counts {
		benchStep(cfg, count)
	}
	return nil
}

// benchStep drops count balls over the ground and times world steps
func benchStep(cfg *config.Config, count int) {
	world := physics.NewWorld(cfg.PhysicsConfig())
	rng := rand.New(rand.NewSource(benchSeed))

	// Spawn in a column above the ground, taller as count grows
	half := cfg.Physics.GroundHalfSize
	height := float32(5.0) + float32(count)/50.0

	for i := 0; i < count; i++ {
		pos := rl.Vector3{
			X: (rng.Float32()*2 - 1) * half[0] * 0.8,
			Y: 1 + rng.Float32()*height,
			Z: (rng.Float32()*2 - 1) * half[2] * 0.8,
		}
		h := world.CreateBody(physics.Dynamic, physics.NewPose(pos))
		world.CreateCollider(physics.Sphere{Radius: 0.2 + rng.Float32()*0.3}, h)
	}

	// Warm up
	world.Step()

	start := time.Now()
	for i := 0; i < benchSteps; i++ {
		world.Step()
	}
	perStep := time.Since(start) / time.Duration(benchSteps)
	if perStep <= 0 {
		perStep = time.Nanosecond
	}

	awake := 0
	world.ForEachActiveBody(func(physics.BodyHandle, physics.Pose) { awake++ })

	fmt.Printf("%5d balls: %10v/step | %8.0f steps/s | %4d awake\n",
		count, perStep.Round(time.Microsecond), float64(time.Second)/float64(perStep), awake)
}
