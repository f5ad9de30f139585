package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/samber/lo"
	"github.com/urfave/cli"
)

const version = "0.1.0"

var DebugMode bool

var (
	colorValid   = color.New(color.FgGreen, color.Bold)
	colorInvalid = color.New(color.FgRed, color.Bold)
	colorNoProof = color.New(color.FgBlue, color.Bold)
)

type options struct {
	problem string
	assign  string
	verbose bool
}

func GetFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "assign, a",
			Usage: "Assign file generated by a SAT solver (default: ans_<cnf-file name>)",
		},
		cli.BoolFlag{
			Name:  "no-color, C",
			Usage: "Disable colorized output",
		},
		cli.BoolFlag{
			Name:  "debug, d",
			Usage: "Debug mode",
		},
		cli.BoolFlag{
			Name:  "verbosity, verb",
			Usage: "Verbosity mode",
		},
	}
}

func ValidateArgs(c *cli.Context) (err error) {
	if c.NArg() != 1 {
		return fmt.Errorf("a cnf problem file is required.")
	}
	return nil
}

//defaultAssignPath derives the conventional answer file name for a problem,
//ans_<file name> in the current directory.
func defaultAssignPath(problem string) string {
	return "ans_" + filepath.Base(problem)
}

func printProblemStatistics(w io.Writer, chk *Checker) {
	fmt.Fprintf(w, "c ============================[ Problem Statistics ]=============================\n")
	fmt.Fprintf(w, "c |                                                                             |\n")
	fmt.Fprintf(w, "c |  Number of variables:  %12d                                         |\n", chk.NumVars())
	fmt.Fprintf(w, "c |  Number of clauses:    %12d                                         |\n", chk.NumClauses())
	fmt.Fprintf(w, "c ================================================================================\n")
}

func printAssignmentStatistics(w io.Writer, lits []int) {
	positives := lo.CountBy(lits, func(lit int) bool { return lit > 0 })
	fmt.Fprintf(w, "c ==========================[ Assignment Statistics ]============================\n")
	fmt.Fprintf(w, "c |                                                                             |\n")
	fmt.Fprintf(w, "c |  Number of literals:   %12d                                         |\n", len(lits))
	fmt.Fprintf(w, "c |  Positive literals:    %12d                                         |\n", positives)
	fmt.Fprintf(w, "c |  Negative literals:    %12d                                         |\n", len(lits)-positives)
	fmt.Fprintf(w, "c ================================================================================\n")
}

func validVerdict(problem, path string) string {
	if path == "" {
		return colorValid.Sprintf("A valid assignment set for %s.", problem)
	}
	return colorValid.Sprintf("A valid assignment set for %s", problem) + " is found in " + path
}

func invalidVerdict(problem string, clause []int) string {
	return colorInvalid.Sprintf("An invalid assignment set for %s", problem) + fmt.Sprintf(" due to %v.", clause)
}

func noProofVerdict(problem string) string {
	return colorNoProof.Sprintf("%s seems an unsat problem but no proof.", problem)
}

func unsatClaimVerdict(problem string) string {
	return fmt.Sprintf("%s seems an unsatisfiable problem. I can't handle it.", problem)
}

//readAssignmentSource reads the candidate assignment from path if it opens,
//falling back to stdin otherwise. fromFile tells which one fed the result.
func readAssignmentSource(path string, stdin io.Reader) (lits []int, fromFile bool, err error) {
	if f, ferr := os.Open(path); ferr == nil {
		defer f.Close()
		lits, err = readAssignment(f, path)
		return lits, true, err
	}
	lits, err = readAssignment(stdin, "stdin")
	return lits, false, err
}

//runCheck drives one checking run: load the problem, read the candidate
//assignment, bind it and validate every clause. Verdicts go to stdout; only
//hard failures (unreadable problem, garbled assignment) are returned.
func runCheck(opts options, stdin io.Reader, stdout io.Writer) error {
	chk, err := NewChecker(opts.problem)
	if err != nil {
		return err
	}
	if opts.verbose {
		printProblemStatistics(stdout, chk)
	}
	assignPath := opts.assign
	if assignPath == "" {
		assignPath = defaultAssignPath(opts.problem)
	}
	lits, fromFile, err := readAssignmentSource(assignPath, stdin)
	if errors.Is(err, ErrUnsatClaimed) {
		fmt.Fprintln(stdout, unsatClaimVerdict(opts.problem))
		return nil
	}
	if err != nil {
		return err
	}
	if !fromFile && len(lits) == 0 {
		fmt.Fprintln(stdout, "There's no assign file.")
		return nil
	}
	if DebugMode {
		pp.Fprintln(stdout, lits)
	}
	if opts.verbose {
		printAssignmentStatistics(stdout, lits)
	}
	if err := chk.InjectAssignment(lits); err != nil {
		fmt.Fprintln(stdout, noProofVerdict(opts.problem))
		return nil
	}
	if clause := chk.Validate(); clause != nil {
		if DebugMode {
			pp.Fprintln(stdout, clause)
		}
		fmt.Fprintln(stdout, invalidVerdict(opts.problem, clause))
		return nil
	}
	if fromFile {
		fmt.Fprintln(stdout, validVerdict(opts.problem, assignPath))
	} else {
		fmt.Fprintln(stdout, validVerdict(opts.problem, ""))
	}
	return nil
}

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version, V",
		Usage: "Print version information",
	}

	app := cli.NewApp()
	app.Name = "dmcr"
	app.Usage = "A DIMACS-format model checker written in Go"
	app.Version = version
	app.ArgsUsage = "<cnf-file>"
	app.Flags = GetFlags()

	app.Before = func(c *cli.Context) error {
		DebugMode = c.Bool("debug")
		if c.Bool("no-color") {
			color.NoColor = true
		}
		return nil
	}

	app.Action = func(c *cli.Context) error {
		//validate args
		if err := ValidateArgs(c); err != nil {
			fmt.Println(err)
			cli.ShowAppHelpAndExit(c, 2)
		}
		opts := options{
			problem: c.Args().First(),
			assign:  c.String("assign"),
			verbose: c.Bool("verbosity"),
		}
		return runCheck(opts, os.Stdin, os.Stdout)
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
