// Profiling:
// go build ./cmd/simprofile
// go tool pprof -http=":8000" -nodefraction=0.001 ./simprofile cpu.pprof

package main

import (
	"flag"

	"github.com/pkg/profile"

	"github.com/framestep/framestep/internal/config"
	"github.com/framestep/framestep/internal/core/loop"
	"github.com/framestep/framestep/internal/runtime"
)

func main() {
	frames := flag.Int("frames", 100_000, "frames to simulate")
	mem := flag.Bool("mem", false, "profile allocations instead of CPU")
	flag.Parse()

	mode := profile.CPUProfile
	if *mem {
		mode = profile.MemProfileAllocs
	}
	p := profile.Start(mode, profile.ProfilePath("."), profile.NoShutdownHook)
	run(*frames)
	p.Stop()
}

func run(frames int) {
	cfg := config.Default()
	cfg.Engine.Seed = 42
	cfg.Pools = []config.PoolConfig{{Name: "units", Capacity: 4096}}
	cfg.Spawns = []config.SpawnConfig{{
		ID:       "churn",
		Pool:     "units",
		Interval: 0.25,
		Amount:   config.AmountConfig{Min: 16, Max: 64},
		Bounds:   config.BoundsConfig{MaxX: 1000, MaxY: 1000},
		Lifetime: 5,
		Speed:    20,
	}}

	sim, err := runtime.NewSimulation(cfg, nil)
	if err != nil {
		panic(err)
	}
	defer sim.Close()

	const dt = 1.0 / 60.0
	input := loop.NewInputSnapshot(nil, nil)
	for i := 0; i < frames; i++ {
		sim.Loop.Update(dt, input)
	}
}
