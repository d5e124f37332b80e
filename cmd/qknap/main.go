package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/annealworks/qknap/knapsack"
	"github.com/annealworks/qknap/solver"
)

func main() {
	var (
		dataPath = flag.String("data", "", "CSV file with cost,weight rows")
		capacity = flag.Int("capacity", 0, "Knapsack capacity")
		reads    = flag.Int("reads", 10, "Number of ranked samples to request")
		lagrange = flag.Float64("lagrange", 0, "Penalty weight override (default: max cost)")
		sampler  = flag.String("sampler", "exact", "Sampler: exact, or a registry endpoint name")
		feasible = flag.Bool("feasible", false, "Scan the ranked set for a feasible selection")
		timeout  = flag.Duration("timeout", 2*time.Minute, "Solve timeout")
		asJSON   = flag.Bool("json", false, "Print the selection as JSON")
		verbose  = flag.Bool("verbose", false, "Verbose output")
	)
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *dataPath == "" {
		log.Fatal("missing -data: path to a CSV file with cost,weight rows")
	}

	problem, err := knapsack.LoadCSV(*dataPath, *capacity)
	if err != nil {
		log.Fatalf("failed to load problem: %v", err)
	}

	cfg := solver.LoadConfig()
	cfg.SamplerMode = *sampler
	cfg.NumReads = *reads
	cfg.Lagrange = *lagrange
	cfg.RequireFeasible = *feasible

	s, err := solver.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("failed to build solver: %v", err)
	}
	defer s.Cache.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sel, err := s.Solve(ctx, problem)
	if err != nil {
		log.Fatalf("solve failed: %v", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sel); err != nil {
			log.Fatalf("failed to encode selection: %v", err)
		}
		return
	}

	fmt.Printf("selected items: %v\n", sel.Items)
	fmt.Printf("total cost:     %g\n", sel.TotalCost)
	fmt.Printf("total weight:   %d / %d\n", sel.TotalWeight, problem.Capacity)
	fmt.Printf("energy:         %g\n", sel.Energy)
	if !sel.Feasible(problem) {
		fmt.Println("warning: selection exceeds capacity")
	}
}
