package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/crillab/xornado/logger"
	"github.com/crillab/xornado/solver"
)

type cliOptions struct {
	heuristic    string
	fls          string
	flsSchedule  int
	preprocess   string
	score        bool
	simple       bool
	timeout      int
	guessingPath string
	jobs         int
	verbose      bool
	stats        bool
}

func (c *cliOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.heuristic, "decision-heuristic", "mp", "decision heuristic: mp (MaxPath), mr (MaxReach), mbn (MaxBottleNeck), fv (FirstVert), lex")
	fs.StringVar(&c.fls, "fls", "no", "failed lineral search: no, trivial, trivial_cc, full")
	fs.IntVar(&c.flsSchedule, "fls-schedule", 1, "run failed lineral search on every n-th crGCP")
	fs.StringVar(&c.preprocess, "preprocess", "no", "preprocessing: no, scc, fls_scc, fls_scc_ee")
	fs.BoolVar(&c.score, "score", false, "activate activity-based weighting of variables")
	fs.BoolVar(&c.simple, "simple", false, "construct the simple implication graph instead of the extended one")
	fs.IntVar(&c.timeout, "timeout", -1, "timeout in seconds (negative to deactivate)")
	fs.StringVar(&c.guessingPath, "guessing-path", "", "path to a guessing path file; implies the lex heuristic")
	fs.IntVar(&c.jobs, "jobs", runtime.NumCPU(), "goroutines used for parallel label reduction")
	fs.BoolVar(&c.verbose, "verbose", false, "sets verbose mode on")
	fs.BoolVar(&c.stats, "stats", false, "print solving statistics")
}

// parse reads the instance (and optional guessing path) and builds the
// solver options.
func (c *cliOptions) parse(path string) (*solver.Problem, solver.Options, error) {
	var P solver.Reordering
	if c.guessingPath != "" {
		gp, err := os.Open(c.guessingPath)
		if err != nil {
			return nil, solver.Options{}, fmt.Errorf("could not open %q: %w", c.guessingPath, err)
		}
		defer gp.Close()
		if P, err = solver.ParseGuessingPath(gp); err != nil {
			return nil, solver.Options{}, err
		}
		c.heuristic = "lex"
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, solver.Options{}, fmt.Errorf("could not open %q: %w", path, err)
	}
	defer f.Close()
	pb, err := solver.ParseXNFWithPath(f, &P)
	if err != nil {
		return nil, solver.Options{}, fmt.Errorf("could not parse problem %q: %w", path, err)
	}

	opts := solver.DefaultOptions(pb.NbVars, pb.NbClauses)
	if opts.Heuristic, err = solver.ParseDecisionHeuristic(c.heuristic); err != nil {
		return nil, solver.Options{}, err
	}
	if opts.FLS, err = solver.ParseFLSMode(c.fls); err != nil {
		return nil, solver.Options{}, err
	}
	if opts.Preprocess, err = solver.ParsePreprocessMode(c.preprocess); err != nil {
		return nil, solver.Options{}, err
	}
	if c.flsSchedule < 1 {
		return nil, solver.Options{}, fmt.Errorf("invalid fls schedule %d", c.flsSchedule)
	}
	opts.FLSSchedule = c.flsSchedule
	opts.ScoreActive = c.score
	if c.simple {
		opts.Form = solver.Simple
	}
	opts.Jobs = c.jobs
	opts.Path = P
	return pb, opts, nil
}

// guard installs the interrupt handler and the timeout observer for ig.
func (c *cliOptions) guard(ig *solver.ImplGraph) func() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		if _, ok := <-sig; ok {
			fmt.Println("c interrupted!")
			ig.Interrupt()
		}
	}()
	var timer *time.Timer
	if c.timeout > 0 {
		timer = time.AfterFunc(time.Duration(c.timeout)*time.Second, func() {
			fmt.Println("c timeout reached!")
			ig.Interrupt()
		})
	}
	return func() {
		signal.Stop(sig)
		close(sig)
		if timer != nil {
			timer.Stop()
		}
	}
}

func solveCmd(c *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve <file>",
		Short: "Decide satisfiability of a 2-XNF instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pb, opts, err := c.parse(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("c solving %s\n", args[0])
			ig, err := solver.New(pb.Clauses, opts)
			if err != nil {
				return err
			}
			stop := c.guard(ig)
			defer stop()

			ig.Stats.Start = time.Now()
			status := ig.Solve()
			ig.Stats.End = time.Now()

			if c.stats || c.verbose {
				ig.Stats.Output()
			}
			ig.OutputModel()

			switch status {
			case solver.Sat:
				if !pb.CheckSol(ig.Model()) {
					fmt.Println("c solution INCORRECT!")
					os.Exit(255)
				}
				fmt.Println("c solution verified")
				os.Exit(0)
			default:
				os.Exit(1)
			}
			return nil
		},
	}
	c.addFlags(cmd.Flags())
	return cmd
}

func preprocessCmd(c *cliOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "preprocess <file>",
		Short: "Preprocess a 2-XNF instance and emit an equivalent one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.preprocess == "no" {
				c.preprocess = "fls_scc"
			}
			pb, opts, err := c.parse(args[0])
			if err != nil {
				return err
			}
			ig, err := solver.New(pb.Clauses, opts)
			if err != nil {
				return err
			}
			stop := c.guard(ig)
			defer stop()

			xnf := ig.ToXNF()
			if out == "" {
				fmt.Print(xnf)
				return nil
			}
			if err := os.WriteFile(out, []byte(xnf), 0o644); err != nil {
				return fmt.Errorf("could not write %q: %w", out, err)
			}
			return nil
		},
	}
	c.addFlags(cmd.Flags())
	cmd.Flags().StringVar(&out, "out", "", "path for the preprocessed instance; stdout when empty")
	return cmd
}

func main() {
	debug.SetGCPercent(300)
	c := &cliOptions{}
	root := &cobra.Command{
		Use:           "xornado",
		Short:         "A DPLL solver for 2-XNF formulas based on implication graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.verbose {
				logger.SetLevel(zerolog.DebugLevel)
			}
		},
	}
	root.AddCommand(solveCmd(c), preprocessCmd(c))
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		fmt.Println("s INDEFINITE")
		os.Exit(1)
	}
}
