package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

//ErrUnsatClaimed is reported when the stream carries an "s UNSATISFIABLE"
//status line: the solver claims unsatisfiability, so there is no witness to check.
var ErrUnsatClaimed = errors.New("unsatisfiable claim")

//readAssignment reads a solver output stream in the DIMACS solution format
//and returns the candidate assignment as signed literals.
//Comment lines and an "s SATISFIABLE" status line are skipped. Literals are
//collected from "v" lines, across several of them if need be, until the
//terminating 0. source names the stream in diagnostics.
func readAssignment(r io.Reader, source string) (lits []int, err error) {
	in := bufio.NewScanner(r)
	in.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for in.Scan() {
		line := strings.TrimSpace(in.Text())
		//skip comments and blank lines
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}
		if strings.HasPrefix(line, "s ") {
			if strings.HasPrefix(line, "s SATISFIABLE") {
				continue
			}
			if strings.HasPrefix(line, "s UNSATISFIABLE") {
				return nil, ErrUnsatClaimed
			}
			return nil, fmt.Errorf("%s seems an illegal format file", source)
		}
		if line == "v" || strings.HasPrefix(line, "v ") {
			for _, value := range strings.Fields(line)[1:] {
				parsedValue, err := strconv.Atoi(value)
				if err != nil {
					return nil, fmt.Errorf("PARSE ERROR! Not a literal %q in %s", value, source)
				}
				if parsedValue == 0 {
					return lits, nil
				}
				lits = append(lits, parsedValue)
			}
			continue
		}
		return nil, fmt.Errorf("PARSE ERROR! Failed to parse %s here: %s", source, line)
	}
	if err := in.Err(); err != nil {
		return nil, fmt.Errorf("could not read %s: %w", source, err)
	}
	return lits, nil
}
