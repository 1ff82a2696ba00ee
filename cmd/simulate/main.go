package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"curvesandbox/internal/editing"
	"curvesandbox/internal/shared/logger"
	"curvesandbox/internal/shared/types"
	"curvesandbox/internal/simulation"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		logger.NewTo(os.Stderr, "simulate").Fatalf("%v", err)
	}
}

type options struct {
	scene    string
	dt       float64
	maxTicks int
	trace    bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.scene, "scene", "", "JSON scene file to run")
	fs.Float64Var(&o.dt, "dt", 1.0/simulation.DefaultFPS, "fixed frame time in seconds")
	fs.IntVar(&o.maxTicks, "max-ticks", 10000, "abort after this many frames; must be positive")
	fs.BoolVar(&o.trace, "trace", false, "print every frame as a JSON line before the result")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.scene == "" {
		return o, errors.New("-scene is required")
	}
	if o.maxTicks <= 0 {
		return o, fmt.Errorf("-max-ticks must be positive, got %d", o.maxTicks)
	}
	if o.dt <= 0 {
		return o, fmt.Errorf("-dt must be positive, got %v", o.dt)
	}
	return o, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	log := logger.NewTo(stderr, "simulate")

	scene, err := editing.LoadScene(o.scene)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	sess := editing.SessionFromScene("cli", scene)
	r, err := sess.StartRun()
	if err != nil {
		return err
	}
	sum := sess.Summary()
	log.Printf("loaded scene=%s strokes=%d curves=%d", o.scene, sum.Strokes, sum.Curves)

	enc := json.NewEncoder(stdout)
	var observe func(types.FrameState)
	if o.trace {
		observe = func(f types.FrameState) {
			_ = enc.Encode(f)
		}
	}
	res := simulation.Simulate(r, o.dt, o.maxTicks, observe)
	log.Printf("run ended reason=%s ticks=%d simulated_s=%.3f", res.Reason, res.Ticks, res.SimulatedS)
	return enc.Encode(res)
}
