package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"sandbox3d/internal/config"
	"sandbox3d/internal/game"
	"sandbox3d/internal/spawn"

	"github.com/spf13/cobra"
)

var (
	configFile string
	watch      bool

	ticks      int
	spawnEvery int
	spawnCount int
	modes      string
	timeout    time.Duration
	realtime   bool

	benchSteps int
	benchSeed  int64
)

func main() {
	// Change working directory to executable location for deployed builds.
	// Skip this for "go run" which puts the binary in a temp directory.
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		if !strings.Contains(execDir, "go-build") {
			os.Chdir(execDir)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "sandbox",
		Short: "3D physics sandbox: click to drop balls and chains",
		RunE:  runWindow,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file")
	rootCmd.Flags().BoolVar(&watch, "watch", true, "reload spawn tuning when the config file changes")

	headlessCmd := &cobra.Command{
		Use:   "headless",
		Short: "run the sandbox without a window and print a summary",
		RunE:  runHeadless,
	}
	headlessCmd.Flags().IntVar(&ticks, "ticks", 600, "frames to run")
	headlessCmd.Flags().IntVar(&spawnEvery, "every", 30, "ticks between scripted presses (0 disables)")
	headlessCmd.Flags().IntVar(&spawnCount, "points", 4, "distinct screen points to press")
	headlessCmd.Flags().StringVar(&modes, "modes", "ball,chain", "comma separated spawn modes to cycle")
	headlessCmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "give up after this long")
	headlessCmd.Flags().BoolVar(&realtime, "realtime", false, "pace frames at the physics timestep")

	benchCmd := &cobra.Command{
		Use:   "bench [counts...]",
		Short: "time world steps with increasing ball counts",
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&benchSteps, "steps", 120, "steps timed per count")
	benchCmd.Flags().Int64Var(&benchSeed, "seed", 42, "random seed for ball placement")

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the default config to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(headlessCmd, benchCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads --config, or the defaults when it is unset
func loadConfig() (*config.Config, error) {
	if configFile == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(configFile)
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	watched := ""
	if watch {
		watched = configFile
	}
	return game.New(cfg, game.Options{}).Run(ctx, watched)
}

func parseModes(s string) ([]spawn.Mode, error) {
	var out []spawn.Mode
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m, err := spawn.ParseMode(part)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ms, err := parseModes(modes)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	script := game.Script{
		Ticks:      ticks,
		SpawnEvery: spawnEvery,
		Points:     game.GridPoints(spawnCount, float32(cfg.Window.Width), float32(cfg.Window.Height)),
		Modes:      ms,
	}
	if realtime {
		script.Interval = time.Duration(float64(cfg.Physics.Timestep) * float64(time.Second))
	}

	g := game.New(cfg, game.Options{Headless: true})
	start := time.Now()
	sum, err := g.RunScript(ctx, script)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ticks\t%d\n", sum.Ticks)
	fmt.Fprintf(w, "elapsed\t%v\n", elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "balls\t%d\n", sum.Balls)
	fmt.Fprintf(w, "chains\t%d\n", sum.Chains)
	fmt.Fprintf(w, "bodies\t%d (%d awake)\n", sum.Bodies, sum.Active)
	fmt.Fprintf(w, "joints\t%d\n", sum.Joints)
	fmt.Fprintf(w, "bindings\t%d\n", sum.Bindings)
	if sum.Err != nil {
		fmt.Fprintf(w, "loop error\t%v\n", sum.Err)
	}
	w.Flush()
	return err
}
