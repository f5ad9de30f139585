package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/crillab/gophersat/explain"
)

//ErrConflict is reported by InjectAssignment when the candidate assignment
//cannot be bound: a literal contradicts an earlier binding or a value forced
//by the problem's own unit clauses.
var ErrConflict = errors.New("conflicting assignment")

//A Checker holds a CNF problem together with the candidate variable bindings.
//Parsing and storage of the problem are delegated to gophersat's explain
//package, which keeps clauses in file order; the checker only owns the
//binding state.
type Checker struct {
	Problem *explain.Problem
	Assigns []LitBool //bindings indexed by var-1

	rootConflict bool //unit propagation on the problem alone hit a falsified clause
}

//NewChecker loads the DIMACS CNF file at path.
func NewChecker(path string) (*Checker, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open problem: %w", err)
	}
	defer f.Close()
	chk, err := LoadProblem(f)
	if err != nil {
		return nil, fmt.Errorf("could not load %s: %v", path, err)
	}
	return chk, nil
}

//LoadProblem parses a DIMACS CNF problem and prepares it for checking:
//all variables start unbound, then every value forced by the problem's
//unit clauses is bound up front.
func LoadProblem(r io.Reader) (*Checker, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := checkProblem(data); err != nil {
		return nil, err
	}
	pb, err := explain.ParseCNF(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	chk := &Checker{
		Problem: pb,
		Assigns: make([]LitBool, pb.NbVars),
	}
	for i := range chk.Assigns {
		chk.Assigns[i] = LitBoolUndef
	}
	chk.propagateUnits()
	return chk, nil
}

//checkProblem screens the raw problem before parsing: a "p cnf" header must
//precede the first clause, and every clause literal must name a declared
//variable. The parser checks the range only for unit clauses. Literals are
//compared unnegated; negating the most negative integer leaves it negative.
func checkProblem(data []byte) error {
	in := bufio.NewScanner(bytes.NewReader(data))
	in.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	nbVars := -1
	for in.Scan() {
		line := strings.TrimSpace(in.Text())
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}
		if nbVars < 0 {
			if !strings.HasPrefix(line, "p cnf") {
				return fmt.Errorf("expected a \"p cnf\" header, got %q", line)
			}
			fields := strings.Fields(line)
			if len(fields) != 4 {
				return fmt.Errorf("malformed header %q", line)
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil || n < 0 {
				return fmt.Errorf("malformed header %q", line)
			}
			nbVars = n
			continue
		}
		for _, field := range strings.Fields(line) {
			lit, err := strconv.Atoi(field)
			if err != nil {
				//not a literal; the parser reports these with context
				break
			}
			if lit != 0 && (lit < -nbVars || lit > nbVars) {
				return fmt.Errorf("literal %d out of range 1..%d", lit, nbVars)
			}
		}
	}
	if nbVars < 0 {
		return errors.New("no \"p cnf\" header")
	}
	return nil
}

//propagateUnits binds every value the problem forces through its unit
//clauses, to fixpoint. If propagation falsifies a clause the problem is
//unsatisfiable on its own and rootConflict is set.
func (c *Checker) propagateUnits() {
	done := make([]bool, len(c.Problem.Clauses)) //clauses already satisfied by the bindings
	modified := true
	for modified {
		modified = false
		for i, clause := range c.Problem.Clauses {
			if done[i] {
				continue
			}
			unbound := 0
			var unit int //an unbound literal, if any
			sat := false
			for _, lit := range clause {
				switch c.ValueLit(lit) {
				case LitBoolTrue:
					sat = true
				case LitBoolUndef:
					unbound++
					if unbound == 1 {
						unit = lit
					}
				}
				if sat || unbound > 1 {
					break
				}
			}
			if sat {
				done[i] = true
				continue
			}
			if unbound == 0 {
				//all literals false: the problem has no model at all
				c.rootConflict = true
				return
			}
			if unbound == 1 {
				c.Assigns[litVar(unit)-1] = litBool(unit)
				done[i] = true
				modified = true
			}
		}
	}
}

//InjectAssignment binds the candidate literals one by one. A zero literal is
//ignored. The first literal that contradicts an existing binding, or names an
//undeclared variable, reports ErrConflict; bindings made so far are kept.
func (c *Checker) InjectAssignment(lits []int) error {
	if c.rootConflict {
		return fmt.Errorf("%w: the problem's unit clauses are contradictory", ErrConflict)
	}
	for _, lit := range lits {
		if lit == 0 {
			continue
		}
		v := litVar(lit)
		if v < 1 || v > len(c.Assigns) {
			return fmt.Errorf("%w: literal %d out of range 1..%d", ErrConflict, lit, len(c.Assigns))
		}
		switch c.Assigns[v-1] {
		case LitBoolUndef:
			c.Assigns[v-1] = litBool(lit)
		case litBool(lit):
			//already bound this way
		default:
			return fmt.Errorf("%w: literal %d contradicts an earlier binding", ErrConflict, lit)
		}
	}
	return nil
}

//Validate evaluates every clause under the current bindings and returns the
//first clause no literal of which is bound true, or nil if all clauses hold.
//An unbound variable never satisfies a clause, so a partial assignment only
//validates when the unbound variables do not matter.
func (c *Checker) Validate() []int {
	for _, clause := range c.Problem.Clauses {
		if !c.satisfied(clause) {
			return clause
		}
	}
	return nil
}

func (c *Checker) satisfied(clause []int) bool {
	return slices.ContainsFunc(clause, func(lit int) bool {
		return c.ValueLit(lit) == LitBoolTrue
	})
}

func (c *Checker) NumVars() int {
	return c.Problem.NbVars
}

func (c *Checker) NumClauses() int {
	return len(c.Problem.Clauses)
}
