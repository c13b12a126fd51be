package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"tokenpulse/internal/domain"

	"github.com/charmbracelet/lipgloss"
)

var ErrNoInput = errors.New("input closed before all targets were read")

var (
	questionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	problemStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// Prompter reads target addresses from an operator. Invalid answers are
// reported and asked again; they never surface as errors.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Targets asks for a count and then that many distinct, valid addresses.
func (p *Prompter) Targets() ([]string, error) {
	n, err := p.count()
	if err != nil {
		return nil, err
	}
	targets := make([]string, 0, n)
	seen := make(map[string]struct{}, n)
	for len(targets) < n {
		line, err := p.ask(fmt.Sprintf("Token address %d of %d: ", len(targets)+1, n))
		if err != nil {
			return nil, err
		}
		target, err := domain.ParseTarget(line)
		switch _, dup := seen[target.String()]; {
		case errors.Is(err, domain.ErrEmptyTarget):
			p.problem("Address cannot be empty.")
		case err != nil:
			p.problem("Invalid address: " + err.Error())
		case dup:
			p.problem("Address already entered.")
		default:
			seen[target.String()] = struct{}{}
			targets = append(targets, target.String())
		}
	}
	return targets, nil
}

func (p *Prompter) count() (int, error) {
	for {
		line, err := p.ask(fmt.Sprintf("How many tokens to track (%d-%d)? ", domain.MinTargets, domain.MaxTargets))
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		switch {
		case err != nil:
			p.problem(fmt.Sprintf("Enter a number between %d and %d.", domain.MinTargets, domain.MaxTargets))
		case n < domain.MinTargets || n > domain.MaxTargets:
			p.problem(fmt.Sprintf("Number must be between %d and %d.", domain.MinTargets, domain.MaxTargets))
		default:
			return n, nil
		}
	}
}

func (p *Prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, questionStyle.Render(question))
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", ErrNoInput
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *Prompter) problem(msg string) {
	fmt.Fprintln(p.out, problemStyle.Render(msg))
}
