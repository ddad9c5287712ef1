// Package cli provides the interactive menu for searching, ranking and
// filtering vacancies from a terminal.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/maauso/vacancy-assistant/internal/assistant"
	"github.com/maauso/vacancy-assistant/internal/storage"
	"github.com/maauso/vacancy-assistant/internal/vacancy"
)

const menu = `
What do you want to do?
1. Search for vacancies
2. Get top N vacancies by salary
3. Get vacancies with a keyword in the description
4. Exit
`

// App runs the menu loop against an assistant.Service.
type App struct {
	svc    *assistant.Service
	logger *slog.Logger
}

// NewApp creates a new App.
func NewApp(svc *assistant.Service, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{svc: svc, logger: logger}
}

// Run reads commands from in and writes results to out until the user
// exits, in is exhausted or ctx is cancelled. Command failures are shown to
// the user and the loop continues.
func (a *App) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	s := &session{scanner: bufio.NewScanner(in), out: out}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.print(menu)
		choice, ok := s.prompt("> ")
		if !ok {
			return s.scanner.Err()
		}

		var err error
		switch choice {
		case "1":
			err = a.search(ctx, s)
		case "2":
			err = a.top(ctx, s)
		case "3":
			err = a.keyword(ctx, s)
		case "4":
			return nil
		default:
			s.print("Invalid choice\n")
			continue
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			a.logger.Debug("command failed",
				slog.String("choice", choice),
				slog.String("error", err.Error()),
			)
			s.printf("Error: %s\n", describe(err))
		}
	}
}

func (a *App) search(ctx context.Context, s *session) error {
	query, ok := s.prompt("Enter search query: ")
	if !ok {
		return io.EOF
	}
	res, err := a.svc.Search(ctx, query, 0)
	if err != nil {
		return err
	}
	s.printf("Found %d vacancies\n", res.Found)
	return nil
}

func (a *App) top(ctx context.Context, s *session) error {
	raw, ok := s.prompt("Enter N: ")
	if !ok {
		return io.EOF
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		s.print("N must be a positive integer\n")
		return nil
	}

	vs, err := a.svc.TopBySalary(ctx, n)
	if err != nil {
		return err
	}
	for i, v := range vs {
		s.printf("%d. %s - %s\n", i+1, v.Title, formatSalary(v.Salary))
	}
	return nil
}

func (a *App) keyword(ctx context.Context, s *session) error {
	kw, ok := s.prompt("Enter keyword: ")
	if !ok {
		return io.EOF
	}
	vs, err := a.svc.ByKeyword(ctx, kw)
	if err != nil {
		return err
	}
	s.printf("Found %d vacancies with the keyword '%s'\n", len(vs), kw)
	for _, v := range vs {
		s.printf("%s - %s\n", v.Title, v.URL)
	}
	return nil
}

// describe turns core errors into short user-facing messages.
func describe(err error) string {
	var apiErr *vacancy.RemoteAPIError
	switch {
	case errors.As(err, &apiErr):
		return fmt.Sprintf("job board returned status %d", apiErr.StatusCode)
	case storage.IsNotFound(err):
		return "no saved vacancies yet, run a search first"
	case errors.Is(err, vacancy.ErrStorageUnavailable):
		return "saved vacancies are unavailable"
	default:
		return err.Error()
	}
}

func formatSalary(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// session wraps the terminal streams of one Run.
type session struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (s *session) prompt(label string) (string, bool) {
	s.print(label)
	if !s.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.scanner.Text()), true
}

func (s *session) print(msg string) {
	_, _ = io.WriteString(s.out, msg)
}

func (s *session) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}
