// Package review drives the interactive confirmation step between matching
// and commit.
//
// The operator sees one table row per decoded blob with its suggested name,
// then confirms the whole assignment, edits individual rows, or cancels the
// run. Nothing touches the filesystem until the operator confirms.
package review

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"reclaim/internal/services"
	"reclaim/internal/textutil"
)

// Row is one blob awaiting a final name. Final starts as the suggestion and
// tracks operator edits; an empty Final leaves the blob uncommitted.
type Row struct {
	Hash     string
	BlobSize int64
	Final    string
	// RelError is the suggestion's relative size error, meaningful only
	// when Suggested is set.
	Suggested string
	RelError  float64
}

// Outcome reports how the session ended.
type Outcome int

const (
	// OutcomeConfirmed means the operator accepted the current names.
	OutcomeConfirmed Outcome = iota
	// OutcomeCancelled means the operator backed out; nothing commits.
	OutcomeCancelled
)

// Prompter asks the operator one question and returns the trimmed answer.
// io.EOF signals that input ended.
type Prompter interface {
	Prompt(question string) (string, error)
}

// LinePrompter reads answers line by line, echoing questions to Out.
type LinePrompter struct {
	In  *bufio.Reader
	Out io.Writer
}

// Prompt implements Prompter.
func (p *LinePrompter) Prompt(question string) (string, error) {
	fmt.Fprint(p.Out, question)
	line, err := p.In.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Session owns one review round.
type Session struct {
	rows     []Row
	prompter Prompter
	out      io.Writer
}

// NewSession builds a session over rows. The table renders to out.
func NewSession(rows []Row, prompter Prompter, out io.Writer) *Session {
	copied := make([]Row, len(rows))
	copy(copied, rows)
	return &Session{rows: copied, prompter: prompter, out: out}
}

// Run loops until the operator confirms or cancels. The returned rows carry
// the final names. End of input counts as cancellation, so a run driven by a
// closed stdin can never commit.
func (s *Session) Run() (Outcome, []Row, error) {
	for {
		fmt.Fprintln(s.out, RenderTable(s.rows))

		answer, err := s.prompter.Prompt("[c]onfirm, [e]dit, or [q]uit? ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return OutcomeCancelled, s.rows, nil
			}
			return OutcomeCancelled, nil, services.Wrap(services.ErrInteractive, "review", "prompt", "read answer", err)
		}

		switch strings.ToLower(answer) {
		case "c", "confirm", "y", "yes":
			return OutcomeConfirmed, s.rows, nil
		case "q", "quit", "n", "no":
			return OutcomeCancelled, s.rows, nil
		case "e", "edit":
			done, err := s.editLoop()
			if err != nil {
				return OutcomeCancelled, nil, err
			}
			if done {
				return OutcomeCancelled, s.rows, nil
			}
		default:
			fmt.Fprintf(s.out, "unrecognized answer %q\n", answer)
		}
	}
}

// editLoop lets the operator adjust rows one at a time. It returns true when
// input ended, which cancels the session.
func (s *Session) editLoop() (bool, error) {
	for {
		answer, err := s.prompter.Prompt("row number to edit (blank to finish): ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return true, nil
			}
			return false, services.Wrap(services.ErrInteractive, "review", "edit", "read row number", err)
		}
		if answer == "" {
			return false, nil
		}

		index, err := strconv.Atoi(answer)
		if err != nil || index < 1 || index > len(s.rows) {
			fmt.Fprintf(s.out, "enter a row number between 1 and %d\n", len(s.rows))
			continue
		}
		row := &s.rows[index-1]

		name, err := s.prompter.Prompt(fmt.Sprintf("new name for %s (blank clears): ", row.Hash))
		if err != nil {
			if errors.Is(err, io.EOF) {
				return true, nil
			}
			return false, services.Wrap(services.ErrInteractive, "review", "edit", "read new name", err)
		}
		if name == "" {
			row.Final = ""
			continue
		}
		if err := textutil.ValidateFilename(name); err != nil {
			fmt.Fprintf(s.out, "rejected: %v\n", err)
			continue
		}
		row.Final = name
	}
}
