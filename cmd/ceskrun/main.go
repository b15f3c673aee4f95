// Copyright 2026 The CESK Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command ceskrun drives the cesk package's Step/Reachable contract over
// the seed programs of spec.md §8: a concrete single-outcome "run" mode
// and a bounded abstract "explore" mode, side by side, so the properties
// the core's test suite checks can also be watched interactively.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"code.hybscloud.com/cesk"
)

var (
	configPath string
	verbose    bool
	allocFlag  string
	kcfaWidth  int
	bound      int

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ceskrun",
	Short: "Run and explore programs on the CESK* machine",
	Long: `ceskrun drives the cesk package's abstract CESK*-style machine over
built-in seed programs (see the "seed" subcommand), either to a single
concrete outcome ("run") or through bounded abstract reachability
("explore").`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("verbose") {
			cfg.Verbose = verbose
		}
		if cmd.Flags().Changed("allocator") {
			cfg.Allocator = AllocatorPolicy(allocFlag)
		}
		if cmd.Flags().Changed("kcfa-width") {
			cfg.KCFAWidth = kcfaWidth
		}
		if cmd.Flags().Changed("bound") {
			cfg.Bound = bound
		}
		allocFlag = string(cfg.Allocator)
		kcfaWidth = cfg.KCFAWidth
		bound = cfg.Bound

		logger, err = newLogger(cfg.Verbose)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "List the built-in seed programs from spec.md §8",
	RunE: func(*cobra.Command, []string) error {
		for _, s := range Seeds() {
			fmt.Printf("%s\n  %s\n\n", s.Name, s.Description)
		}
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run <seed-name>",
	Short: "Run a seed program on the concrete machine to its single outcome",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		seed, ok := Find(args[0])
		if !ok {
			return fmt.Errorf("ceskrun: unknown seed %q", args[0])
		}
		logger.Info("running seed", zap.String("seed", seed.Name))
		outcome := cesk.Run(seed.Program)
		printOutcome(outcome)
		return nil
	},
}

var exploreCmd = &cobra.Command{
	Use:   "explore <seed-name>",
	Short: "Explore a seed program's reachable configuration set abstractly",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return doExplore(args[0])
	},
}

func doExplore(name string) error {
	seed, ok := Find(name)
	if !ok {
		return fmt.Errorf("ceskrun: unknown seed %q", name)
	}
	runID := uuid.New()
	log := logger.With(zap.String("run_id", runID.String()), zap.String("seed", seed.Name))

	alloc, err := resolveAllocator(allocFlag, kcfaWidth)
	if err != nil {
		return err
	}

	driver := cesk.Driver{Allocator: alloc, Bound: bound, Log: log}
	result := driver.Reachable(cesk.Inject(seed.Program))

	log.Info("exploration complete",
		zap.Int("visited", result.Visited),
		zap.Int("terminals", len(result.Terminals)),
		zap.Bool("truncated", result.Truncated),
	)
	fmt.Printf("seed %q: visited=%d terminals=%d truncated=%v\n",
		seed.Name, result.Visited, len(result.Terminals), result.Truncated)
	for _, o := range result.Terminals {
		printOutcome(o)
	}
	return nil
}

func resolveAllocator(policy string, width int) (cesk.Allocator, error) {
	switch AllocatorPolicy(policy) {
	case PolicyConcrete:
		return cesk.ConcreteAllocator(), nil
	case PolicyConstant:
		return cesk.ConstantAllocator(), nil
	case PolicyKCFA:
		return cesk.KCFAAllocator(width), nil
	default:
		return cesk.Allocator{}, fmt.Errorf("ceskrun: unsupported allocator policy %q", policy)
	}
}

func printOutcome(o cesk.Outcome) {
	switch v := o.(type) {
	case cesk.Done:
		fmt.Printf("Done: %#v\n", v.State.Expr)
	case cesk.Abort:
		fmt.Printf("Abort: %s\n", v.Reason)
	case cesk.Next:
		fmt.Printf("Next: %#v\n", v.State.Expr)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")

	exploreCmd.Flags().StringVar(&allocFlag, "allocator", string(PolicyConstant), "allocator policy: concrete, constant, or kcfa")
	exploreCmd.Flags().IntVar(&kcfaWidth, "kcfa-width", 1, "address-domain width when --allocator=kcfa")
	exploreCmd.Flags().IntVar(&bound, "bound", 0, "max configurations to pop from the worklist (0 = unbounded)")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(exploreCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
