package dialog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/feedbridge/feedbridge/pkg/domain"
)

// collectTerminal is the headless-display fallback: render the prompt as
// markdown on the controlling terminal and read one free-form answer.
// An empty submission or EOF counts as cancellation.
func collectTerminal(title, prompt string) (domain.Record, error) {
	p := termenv.ColorProfile()
	header := termenv.String(" " + title + " ").
		Foreground(p.Color("#0b0b0b")).
		Background(p.Color("#a78bfa")).
		Bold()
	fmt.Println()
	fmt.Println(header)

	rendered := prompt
	if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle()); err == nil {
		if out, rerr := r.Render(prompt); rerr == nil {
			rendered = out
		}
	}
	fmt.Println(strings.TrimRight(rendered, "\n"))
	fmt.Println(termenv.String("Type your answer, finish with an empty line (empty answer cancels):").Faint())

	answer, err := readAnswer(os.Stdin)
	if err != nil {
		return domain.Record{}, err
	}
	if answer == "" {
		return domain.NewRecord("", true, nil), nil
	}
	return domain.NewRecord(answer, false, nil), nil
}

// readAnswer accumulates lines until a blank line or EOF.
func readAnswer(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
