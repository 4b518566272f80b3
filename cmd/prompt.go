package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/KaramelBytes/countrytech/internal/analysis"
	"github.com/KaramelBytes/countrytech/internal/dataset"
)

var warn = color.New(color.FgYellow)

// prompter reads answers line by line and re-asks until one validates.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// ask prints question and returns the next input line. End of input is an
// error: there is nothing left to re-prompt with.
func (p *prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", errors.New("input closed before a valid answer was given")
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *prompter) subRegion(t *dataset.Table) (string, error) {
	for {
		s, err := p.ask("Please enter a sub-region: ")
		if err != nil {
			return "", err
		}
		if analysis.ValidateSubRegion(t, s) == nil {
			return s, nil
		}
		warn.Fprintln(p.out, "You must enter a valid UN sub-region name.")
	}
}

func (p *prompter) metric() (dataset.Metric, error) {
	q := fmt.Sprintf("\nPlease enter '%s' or '%s' to see the data that corresponds to it: ", dataset.Cellphones, dataset.Internet)
	for {
		s, err := p.ask(q)
		if err != nil {
			return "", err
		}
		if m, err := analysis.ParseMetric(s); err == nil {
			return m, nil
		}
		warn.Fprintf(p.out, "You must enter '%s' or '%s'.\n", dataset.Cellphones, dataset.Internet)
	}
}
