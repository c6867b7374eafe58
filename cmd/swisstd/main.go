/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"bufio"
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/policydebate/swisstab/internal"
	"github.com/policydebate/swisstab/tab"
)

//go:embed help.txt
var helpText string

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, args []string) error

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":         handleHelp,
	"init":         handleInit,
	"pair":         handlePair,
	"report":       handleReport,
	"update":       handleUpdate,
	"standings":    handleStandings,
	"prelim":       handlePrelim,
	"participants": handleParticipants,
	"show":         handleShow,
	"judge":        handleJudge,
	"export":       handleExport,
	"reinit":       handleReinit,
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
		os.Exit(exitCode(err))
	}
}

// exitCode classifies failures: caller mistakes exit 1, damaged state and
// I/O problems exit 2.
func exitCode(err error) int {
	if errors.Is(err, tab.ErrValidation) || errors.Is(err, tab.ErrConfig) {
		return 1
	}
	return 2
}

func usage() {
	fmt.Printf("%v", helpText)
}

func handleHelp(ctx context.Context, args []string) error {
	usage()
	return nil
}

// addStoreFlags registers the snapshot location flags shared by every
// command.
func addStoreFlags(fs *flag.FlagSet) (file, bucket *string) {
	file = fs.String("state", "tournament.json", "Path of the tournament snapshot")
	bucket = fs.String("s3-bucket", os.Getenv("SWISSTD_S3_BUCKET"),
		"Keep the snapshot in this S3 bucket instead of a local file")
	return file, bucket
}

func handleInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	teams := fs.Int("teams", 0, "Number of teams")
	prelims := fs.Int("prelims", 0, "Number of preliminary rounds")
	elims := fs.Int("elims", 0, "Number of single-elimination rounds")
	names := fs.String("names", "", "File with one team name per line")
	roster := fs.String("roster", "", "Registration page URL to import the roster from")
	date := fs.String("date", "", "Tournament date")
	force := fs.Bool("force", false, "Overwrite an existing tournament")
	file, bucket := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	store, err := openStore(ctx, *file, *bucket)
	if err != nil {
		return err
	}
	if store.Exists() && !*force {
		return fmt.Errorf("%w: %s already exists; use --force to overwrite",
			tab.ErrValidation, store.Where())
	}

	cfg := tab.Config{
		NumTeams:        *teams,
		NumPrelimRounds: *prelims,
		NumElimRounds:   *elims,
	}
	if *date != "" {
		when, err := internal.ParseDateOrZero(*date)
		if err != nil {
			return fmt.Errorf("%w: unparseable date %q", tab.ErrValidation, *date)
		}
		cfg.Date = when
	}

	var details []tab.TeamDetail
	if *roster != "" {
		details, err = tab.FetchRoster(ctx, *roster)
		if err != nil {
			return err
		}
		if *teams == 0 {
			cfg.NumTeams = len(details)
		}
	} else if *names != "" {
		details, err = readNamesFile(*names)
		if err != nil {
			return err
		}
	}
	if len(details) > 0 && len(details) != cfg.NumTeams {
		fmt.Fprintf(os.Stderr,
			"Warning: %d teams configured but %d names provided\n",
			cfg.NumTeams, len(details))
	}

	t, err := tab.New(cfg, details, nil)
	if err != nil {
		return err
	}
	if err := saveTournament(store, t); err != nil {
		return err
	}

	fmt.Printf("Initialized tournament with %d teams, %d preliminary and %d elimination rounds at %s\n",
		cfg.NumTeams, cfg.NumPrelimRounds, cfg.NumElimRounds, store.Where())
	return nil
}

func readNamesFile(path string) ([]tab.TeamDetail, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}
	defer f.Close()

	var details []tab.TeamDetail
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		details = append(details, tab.TeamDetail{Name: name})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}
	return details, nil
}

func handlePair(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("pair", flag.ExitOnError)
	round := fs.Int("round", 0, "Round number to pair")
	file, bucket := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *round <= 0 {
		return fmt.Errorf("%w: provide a valid --round", tab.ErrValidation)
	}

	store, err := openStore(ctx, *file, *bucket)
	if err != nil {
		return err
	}
	t, err := loadTournament(store)
	if err != nil {
		return err
	}

	if _, err := t.PairRound(*round); err != nil {
		return err
	}
	if err := saveTournament(store, t); err != nil {
		return err
	}

	fmt.Print(tab.BuildPairingsOutput(t, *round))
	fmt.Printf("Pairings saved. Use 'report --round %d' to enter results.\n", *round)
	return nil
}

func handleReport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	round := fs.Int("round", 0, "Round number the results belong to")
	match := fs.Int("match", 0, "Match id")
	outcome := fs.String("outcome", "", "Winning side: A or N")
	points := fs.String("points", "", "Speaker points: \"a1 a2 n1 n2\" (null for missing)")
	resFile := fs.String("file", "", "Result log file to import")
	file, bucket := addStoreFlags(fs)
	// "report all --file F" is the same as "report --file F".
	if len(args) > 0 && args[0] == "all" {
		args = args[1:]
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	store, err := openStore(ctx, *file, *bucket)
	if err != nil {
		return err
	}
	t, err := loadTournament(store)
	if err != nil {
		return err
	}

	if *resFile != "" {
		text, err := os.ReadFile(*resFile)
		if err != nil {
			return fmt.Errorf("unable to read %s: %w", *resFile, err)
		}
		applied, err := t.ImportResults(string(text))
		if err != nil {
			return err
		}
		if err := saveTournament(store, t); err != nil {
			return err
		}
		fmt.Printf("Processed %d valid results\n", applied)
		return nil
	}

	if *match <= 0 {
		return fmt.Errorf("%w: provide --match or --file", tab.ErrValidation)
	}
	side, ok := tab.SideFromToken(*outcome)
	if !ok {
		return fmt.Errorf("%w: outcome must be A or N", tab.ErrValidation)
	}
	m := t.MatchByID(*match)
	if m == nil {
		return fmt.Errorf("%w: unknown match id %d", tab.ErrValidation, *match)
	}
	if *round != 0 && m.RoundNum != *round {
		return fmt.Errorf("%w: match %d belongs to round %d, not %d",
			tab.ErrValidation, *match, m.RoundNum, *round)
	}

	pts, err := parsePoints(*points)
	if err != nil {
		return err
	}
	if err := t.ReportResult(*match, side, pts); err != nil {
		return err
	}
	if err := saveTournament(store, t); err != nil {
		return err
	}

	fmt.Printf("Recorded %s win for match %d\n", side, *match)
	if t.CurrentRound == m.RoundNum {
		fmt.Printf("Round %d completed.\n", m.RoundNum)
	}
	return nil
}

func handleUpdate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	match := fs.Int("match", 0, "Match id")
	outcome := fs.String("outcome", "", "New winning side: A, N, or none to clear")
	points := fs.String("points", "", "Speaker points: \"a1 a2 n1 n2\" (null for missing)")
	file, bucket := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *match <= 0 {
		return fmt.Errorf("%w: provide a valid --match", tab.ErrValidation)
	}

	side := tab.SideNone
	if *outcome != "" && !strings.EqualFold(*outcome, "none") {
		var ok bool
		side, ok = tab.SideFromToken(*outcome)
		if !ok {
			return fmt.Errorf("%w: outcome must be A, N, or none", tab.ErrValidation)
		}
	}
	pts, err := parsePoints(*points)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, *file, *bucket)
	if err != nil {
		return err
	}
	t, err := loadTournament(store)
	if err != nil {
		return err
	}

	if err := t.UpdateResult(*match, side, pts); err != nil {
		return err
	}
	if err := saveTournament(store, t); err != nil {
		return err
	}

	if side == tab.SideNone {
		fmt.Printf("Cleared result for match %d\n", *match)
	} else {
		fmt.Printf("Corrected match %d to %s win\n", *match, side)
	}
	return nil
}

// parsePoints parses a 4-token speaker point string; "null" marks a missing
// value. Empty input yields nil.
func parsePoints(s string) (*tab.SpeakerPoints, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	fields := strings.Fields(s)
	if len(fields) != 4 {
		return nil, fmt.Errorf("%w: speaker points need 4 values, got %d",
			tab.ErrValidation, len(fields))
	}
	var pts tab.SpeakerPoints
	for i, f := range fields {
		if f == "null" {
			continue
		}
		var v float64
		if _, err := fmt.Sscanf(f, "%g", &v); err != nil {
			return nil, fmt.Errorf("%w: bad speaker point %q", tab.ErrValidation, f)
		}
		pts[i] = &v
	}
	if err := pts.Validate(); err != nil {
		return nil, err
	}
	return &pts, nil
}

func handleStandings(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("standings", flag.ExitOnError)
	round := fs.Int("round", 0, "Show standings as of this round (default: current)")
	file, bucket := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	store, err := openStore(ctx, *file, *bucket)
	if err != nil {
		return err
	}
	t, err := loadTournament(store)
	if err != nil {
		return err
	}

	if *round > 0 {
		// historical view: replay only the results known after that round,
		// on a throwaway copy
		data, err := t.Export()
		if err != nil {
			return err
		}
		t, err = tab.Import(data)
		if err != nil {
			return err
		}
		for _, m := range t.Matches {
			if m.RoundNum > *round {
				m.Result = tab.SideNone
				m.Points = nil
			}
		}
		t.RecomputeStats()
	}

	fmt.Print(tab.BuildStandingsOutput(t))
	return nil
}

func handlePrelim(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("prelim", flag.ExitOnError)
	file, bucket := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	store, err := openStore(ctx, *file, *bucket)
	if err != nil {
		return err
	}
	t, err := loadTournament(store)
	if err != nil {
		return err
	}

	fmt.Printf("Preliminary standings (break order):\n\n")
	for i, ps := range t.PreliminaryStandings() {
		fmt.Printf("%3d. %-24s %.1f pts  buchholz %.1f  wins %d\n",
			i+1, ps.Team.Name, ps.Score, ps.Buchholz, ps.Wins)
	}
	return nil
}

func handleParticipants(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("participants", flag.ExitOnError)
	method := fs.String("method", "total", "Aggregation: total, drop-1, or drop-2")
	file, bucket := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	m, err := tab.ParseParticipantMethod(*method)
	if err != nil {
		return err
	}
	store, err := openStore(ctx, *file, *bucket)
	if err != nil {
		return err
	}
	t, err := loadTournament(store)
	if err != nil {
		return err
	}

	fmt.Print(tab.BuildParticipantsOutput(t, m))
	return nil
}

func handleShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	round := fs.Int("round", 0, "Round number to show")
	file, bucket := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *round <= 0 {
		return fmt.Errorf("%w: provide a valid --round", tab.ErrValidation)
	}

	store, err := openStore(ctx, *file, *bucket)
	if err != nil {
		return err
	}
	t, err := loadTournament(store)
	if err != nil {
		return err
	}

	fmt.Print(tab.BuildPairingsOutput(t, *round))
	return nil
}

func handleJudge(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: judge needs a subcommand (add, remove, assign, unassign, list)",
			tab.ErrValidation)
	}
	sub := args[0]

	fs := flag.NewFlagSet("judge "+sub, flag.ExitOnError)
	name := fs.String("name", "", "Judge name")
	institution := fs.String("institution", "", "Judge institution")
	id := fs.Int("id", 0, "Judge id")
	match := fs.Int("match", 0, "Match id")
	file, bucket := addStoreFlags(fs)
	if err := fs.Parse(args[1:]); err != nil {
		os.Exit(1)
	}

	store, err := openStore(ctx, *file, *bucket)
	if err != nil {
		return err
	}
	t, err := loadTournament(store)
	if err != nil {
		return err
	}

	switch sub {
	case "add":
		j, err := t.AddJudge(*name, *institution)
		if err != nil {
			return err
		}
		if err := saveTournament(store, t); err != nil {
			return err
		}
		fmt.Printf("Registered judge %s (id %d, %s)\n", j.Name, j.ID, j.Institution)
	case "remove":
		if err := t.RemoveJudge(*id); err != nil {
			return err
		}
		if err := saveTournament(store, t); err != nil {
			return err
		}
		fmt.Printf("Removed judge %d\n", *id)
	case "assign":
		judgeID := *id
		if judgeID == 0 && *name != "" {
			j, err := resolveJudge(t, *name)
			if err != nil {
				return err
			}
			judgeID = j.ID
		}
		if err := t.AssignJudge(*match, judgeID); err != nil {
			return err
		}
		if err := saveTournament(store, t); err != nil {
			return err
		}
		fmt.Printf("Assigned judge %d to match %d\n", judgeID, *match)
	case "unassign":
		if err := t.UnassignJudge(*match); err != nil {
			return err
		}
		if err := saveTournament(store, t); err != nil {
			return err
		}
		fmt.Printf("Unassigned judge from match %d\n", *match)
	case "list":
		if len(t.Judges) == 0 {
			fmt.Println("No judges registered")
			return nil
		}
		for _, j := range t.Judges {
			fmt.Printf("%3d. %-24s %-20s %d match(es)\n",
				j.ID, j.Name, j.Institution, len(j.MatchesJudged))
		}
	default:
		return fmt.Errorf("%w: unknown judge subcommand %q", tab.ErrValidation, sub)
	}
	return nil
}

// resolveJudge finds a judge by name, tolerating partial and fuzzy input.
func resolveJudge(t *tab.Tournament, name string) (*tab.Judge, error) {
	if j := t.JudgeByName(name); j != nil {
		return j, nil
	}

	var names []string
	for _, j := range t.Judges {
		names = append(names, j.Name)
	}
	ranks := fuzzy.RankFindNormalizedFold(name, names)
	if len(ranks) == 0 {
		return nil, fmt.Errorf("%w: no judge matching %q", tab.ErrValidation, name)
	}
	sort.Sort(ranks)
	best := t.JudgeByName(ranks[0].Target)
	if best == nil {
		return nil, fmt.Errorf("%w: no judge matching %q", tab.ErrValidation, name)
	}
	return best, nil
}

func handleExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("o", "results.txt", "Output path for the result log")
	file, bucket := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	store, err := openStore(ctx, *file, *bucket)
	if err != nil {
		return err
	}
	t, err := loadTournament(store)
	if err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}

	if err := os.WriteFile(*out, []byte(t.ExportResultLog()), 0644); err != nil {
		return fmt.Errorf("unable to write %s: %w", *out, err)
	}
	pairingsPath := strings.TrimSuffix(*out, ".txt") + "_pairings.txt"
	if err := os.WriteFile(pairingsPath,
		[]byte(t.ExportPairingLog()), 0644); err != nil {
		return fmt.Errorf("unable to write %s: %w", pairingsPath, err)
	}

	fmt.Printf("Exported results to %s and pairings to %s\n", *out, pairingsPath)
	return nil
}

func handleReinit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reinit", flag.ExitOnError)
	teams := fs.Int("teams", 0, "Number of teams")
	prelims := fs.Int("prelims", 0, "Number of preliminary rounds")
	elims := fs.Int("elims", 0, "Number of single-elimination rounds")
	pairings := fs.String("pairings", "", "Pairing log file (required)")
	results := fs.String("results", "", "Result log file (optional)")
	names := fs.String("names", "", "File with one team name per line")
	force := fs.Bool("force", false, "Overwrite an existing tournament")
	file, bucket := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *pairings == "" {
		return fmt.Errorf("%w: provide --pairings", tab.ErrValidation)
	}

	store, err := openStore(ctx, *file, *bucket)
	if err != nil {
		return err
	}
	if store.Exists() && !*force {
		return fmt.Errorf("%w: %s already exists; use --force to overwrite",
			tab.ErrValidation, store.Where())
	}

	var details []tab.TeamDetail
	if *names != "" {
		details, err = readNamesFile(*names)
		if err != nil {
			return err
		}
	}
	t, err := tab.New(tab.Config{
		NumTeams:        *teams,
		NumPrelimRounds: *prelims,
		NumElimRounds:   *elims,
	}, details, nil)
	if err != nil {
		return err
	}

	pairText, err := os.ReadFile(*pairings)
	if err != nil {
		return fmt.Errorf("unable to read %s: %w", *pairings, err)
	}
	if err := t.ImportPairings(string(pairText)); err != nil {
		return err
	}

	if *results != "" {
		resText, err := os.ReadFile(*results)
		if err != nil {
			return fmt.Errorf("unable to read %s: %w", *results, err)
		}
		applied, err := t.ImportResults(string(resText))
		if err != nil {
			return err
		}
		fmt.Printf("Processed %d valid results\n", applied)
	}

	if err := saveTournament(store, t); err != nil {
		return err
	}
	fmt.Printf("Rebuilt tournament at %s: %d matches, current round %d\n",
		store.Where(), len(t.Matches), t.CurrentRound)
	return nil
}
