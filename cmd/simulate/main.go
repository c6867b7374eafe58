/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/policydebate/swisstab/sim"
	"github.com/policydebate/swisstab/tab"
)

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, args []string) error

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":     handleHelp,
	"topn":     handleTopN,
	"windist":  handleWinDist,
	"rankdist": handleRankDist,
	"rankhist": handleRankHist,
	"h2h":      handleHeadToHead,
}

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	handler, ok := commands[cmd]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}

	if err := handler(ctx, os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cmd, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Printf(`simulate - Monte-Carlo analysis of Swiss tournaments

Usage: simulate <command> [options]

Commands:
  topn     --top N          Probability of each true rank finishing top N
  windist  --rank R         Win-count distribution for true rank R
  rankdist --wins W         True-rank distribution of teams with W wins
  rankhist --history H      True-rank distribution for a W/L history prefix
  h2h      --a H1 --b H2    Head-to-head split between two history cohorts
           [--min-matchups N]

Common options:
  --teams N      Number of teams (default 128)
  --rounds N     Number of rounds (default 7)
  --sims N       Tournaments to simulate (default 10000)
  --model M      Win model: elo, linear, or deterministic (default elo)
  --seed S       Generator seed (default 12345)
  --workers N    Parallel workers (default NumCPU)
  --nobuchholz   Pair without the Buchholz sort key
  --scenario F   YAML file overriding the options above
`)
}

func handleHelp(ctx context.Context, args []string) error {
	usage()
	return nil
}

// scenario mirrors the common options as a YAML document, so a fixed
// analysis can be versioned alongside the tournament data.
type scenario struct {
	Teams   int    `yaml:"teams"`
	Rounds  int    `yaml:"rounds"`
	Sims    int    `yaml:"sims"`
	Model   string `yaml:"model"`
	Seed    int64  `yaml:"seed"`
	Workers int    `yaml:"workers"`
}

type commonOpts struct {
	teams, rounds, sims, workers *int
	model, scenarioPath          *string
	seed                         *int64
	noBuchholz                   *bool
}

func addCommonFlags(fs *flag.FlagSet) *commonOpts {
	return &commonOpts{
		teams:        fs.Int("teams", 128, "Number of teams"),
		rounds:       fs.Int("rounds", 7, "Number of rounds"),
		sims:         fs.Int("sims", 10000, "Number of tournaments to simulate"),
		workers:      fs.Int("workers", runtime.NumCPU(), "Number of parallel workers"),
		model:        fs.String("model", "elo", "Win model: elo, linear, or deterministic"),
		seed:         fs.Int64("seed", 12345, "Generator seed"),
		noBuchholz:   fs.Bool("nobuchholz", false, "Pair without the Buchholz sort key"),
		scenarioPath: fs.String("scenario", "", "YAML scenario file"),
	}
}

// runner builds the shared runner from flags, applying any scenario file on
// top of the flag defaults.
func (o *commonOpts) runner() (*sim.Runner, error) {
	if *o.scenarioPath != "" {
		data, err := os.ReadFile(*o.scenarioPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read %s: %w", *o.scenarioPath, err)
		}
		var sc scenario
		if err := yaml.Unmarshal(data, &sc); err != nil {
			return nil, fmt.Errorf("unable to parse %s: %w", *o.scenarioPath, err)
		}
		if sc.Teams != 0 {
			*o.teams = sc.Teams
		}
		if sc.Rounds != 0 {
			*o.rounds = sc.Rounds
		}
		if sc.Sims != 0 {
			*o.sims = sc.Sims
		}
		if sc.Model != "" {
			*o.model = sc.Model
		}
		if sc.Seed != 0 {
			*o.seed = sc.Seed
		}
		if sc.Workers != 0 {
			*o.workers = sc.Workers
		}
	}

	model, err := tab.ParseWinModel(*o.model)
	if err != nil {
		return nil, err
	}
	r := &sim.Runner{
		Cfg: sim.Config{
			NumTeams:    *o.teams,
			NumRounds:   *o.rounds,
			UseBuchholz: !*o.noBuchholz,
			Model:       model,
		},
		Sims:    *o.sims,
		Workers: *o.workers,
		Seed:    *o.seed,
		Progress: func(completed int) bool {
			fmt.Fprintf(os.Stderr, "Completed %d simulations...\r", completed)
			return false
		},
	}
	return r, nil
}

func (o *commonOpts) printHeader(extra string) {
	fmt.Printf("Simulating %d tournaments with %d teams, %d rounds...\n",
		*o.sims, *o.teams, *o.rounds)
	if extra != "" {
		fmt.Println(extra)
	}
	buchholz := "Enabled"
	if *o.noBuchholz {
		buchholz = "Disabled"
	}
	fmt.Printf("Buchholz Pairing: %s\n", buchholz)
	fmt.Printf("Win Model: %s\n\n", *o.model)
}

func sortedKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func handleTopN(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("topn", flag.ExitOnError)
	top := fs.Int("top", 16, "Top N positions to track")
	opts := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	r, err := opts.runner()
	if err != nil {
		return err
	}
	opts.printHeader(fmt.Sprintf("Tracking top-%d finishes", *top))

	start := time.Now()
	res, err := r.TopN(ctx, *top)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "\n")

	fmt.Printf("Probability of finishing in Top %d (%d tournaments, %.1fs)\n",
		*top, res.Sims, time.Since(start).Seconds())
	fmt.Println("Rank | Probability")
	fmt.Println("-----|------------")
	for _, rank := range sortedKeys(res.Counts) {
		p := float64(res.Counts[rank]) / float64(res.Sims)
		if p > 0.0001 {
			fmt.Printf("%4d | %6.2f%%\n", rank, p*100)
		}
	}
	return nil
}

func handleWinDist(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("windist", flag.ExitOnError)
	rank := fs.Int("rank", 1, "True rank to analyze (1 = best team)")
	opts := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	r, err := opts.runner()
	if err != nil {
		return err
	}
	opts.printHeader(fmt.Sprintf("Analyzing true rank %d", *rank))

	res, err := r.WinDistribution(ctx, *rank)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "\n")

	fmt.Printf("Win Distribution for True Rank %d (%d tournaments)\n", *rank, res.Sims)
	fmt.Println("Wins | Probability | Count")
	fmt.Println("-----|-------------|------")
	for _, wins := range sortedKeys(res.Counts) {
		p := float64(res.Counts[wins]) / float64(res.Sims)
		fmt.Printf("%4d | %10.2f%% | %5d\n", wins, p*100, res.Counts[wins])
	}
	return nil
}

func handleRankDist(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rankdist", flag.ExitOnError)
	wins := fs.Int("wins", 0, "Win count to analyze")
	opts := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	r, err := opts.runner()
	if err != nil {
		return err
	}
	opts.printHeader(fmt.Sprintf("Analyzing teams with %d wins", *wins))

	res, err := r.RankDistributionFromWins(ctx, *wins)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "\n")

	printRankDistribution(res, fmt.Sprintf("Teams with %d Wins", *wins))
	return nil
}

func handleRankHist(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rankhist", flag.ExitOnError)
	history := fs.String("history", "", "Win/Loss sequence, e.g. 'WWL'")
	opts := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	r, err := opts.runner()
	if err != nil {
		return err
	}
	opts.printHeader(fmt.Sprintf("Analyzing history %q", *history))

	res, err := r.RankDistributionFromHistory(ctx, *history)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "\n")

	printRankDistribution(res, fmt.Sprintf("Teams with History %q", *history))
	return nil
}

func printRankDistribution(res *sim.HistogramResult, what string) {
	total := 0
	for _, c := range res.Counts {
		total += c
	}
	if total == 0 {
		fmt.Printf("No teams matched (%d tournaments)\n", res.Sims)
		return
	}

	fmt.Printf("True Rank Distribution for %s\n", what)
	fmt.Printf("(Based on %d teams across %d tournaments)\n\n", total, res.Sims)
	fmt.Println("True Rank | Probability | Count")
	fmt.Println("----------|-------------|-------")

	rankSum := 0
	for _, rank := range sortedKeys(res.Counts) {
		p := float64(res.Counts[rank]) / float64(total)
		if p >= 0.0001 {
			fmt.Printf("%9d | %10.2f%% | %6d\n", rank, p*100, res.Counts[rank])
		}
		rankSum += rank * res.Counts[rank]
	}
	fmt.Printf("\nAverage true rank: %.1f\n", float64(rankSum)/float64(total))
	fmt.Printf("Average matching teams per tournament: %.2f\n",
		float64(total)/float64(res.Sims))
}

func handleHeadToHead(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("h2h", flag.ExitOnError)
	histA := fs.String("a", "", "Win/Loss sequence for cohort A, e.g. 'WW'")
	histB := fs.String("b", "", "Win/Loss sequence for cohort B, e.g. 'WL'")
	minMatchups := fs.Int("min-matchups", 100, "Matchups to observe before stopping")
	batch := fs.Int("batch", 100, "Tournaments per adaptive batch")
	maxSims := fs.Int("max-sims", 50000, "Hard cap on tournaments")
	opts := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	r, err := opts.runner()
	if err != nil {
		return err
	}
	r.Progress = nil // no per-batch progress line; the total is printed at the end
	opts.printHeader(fmt.Sprintf("Analyzing matchups between %q and %q", *histA, *histB))
	fmt.Printf("Running adaptive simulation (target: %d matchups, max: %d sims)...\n",
		*minMatchups, *maxSims)

	res, err := r.HeadToHead(ctx, *histA, *histB, *minMatchups, *batch, *maxSims)
	if err != nil {
		return err
	}

	fmt.Printf("Completed %d simulations...\n\n", res.Sims)
	if res.Matchups == 0 {
		fmt.Printf("No matchups found between teams with histories %q and %q.\n",
			*histA, *histB)
		fmt.Println("Try running more simulations or using different histories.")
		return nil
	}

	fmt.Println("Results:")
	fmt.Println("--------")
	fmt.Printf("Total matchups found: %d\n", res.Matchups)
	fmt.Printf("Team A (%s) wins: %d (%.2f%%)\n", *histA, res.WinsA,
		float64(res.WinsA)/float64(res.Matchups)*100)
	fmt.Printf("Team B (%s) wins: %d (%.2f%%)\n", *histB, res.WinsB,
		float64(res.WinsB)/float64(res.Matchups)*100)
	fmt.Println()
	fmt.Printf("Average true rank of Team A: %.1f\n", res.MeanRankA)
	fmt.Printf("Average true rank of Team B: %.1f\n", res.MeanRankB)
	fmt.Printf("Matchups per simulation: %.2f\n",
		float64(res.Matchups)/float64(res.Sims))
	return nil
}
