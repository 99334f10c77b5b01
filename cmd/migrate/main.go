package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"

	"expensedesk/internal/config"
	"expensedesk/internal/repository/sqlrepo"
)

const usage = "Usage: migrate up | down [N] | version | force V"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		slog.Error("migrate failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(stdout, usage)
		return errors.New("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	m, err := sqlrepo.NewMigrator(&cfg.DB)
	if err != nil {
		return err
	}
	defer m.Close()

	switch args[0] {
	case "up":
		if err := ignoreNoChange(m.Up()); err != nil {
			return fmt.Errorf("up: %w", err)
		}
	case "down":
		// A bare "down" reverts one step. Reverting everything drops the
		// users table and must be asked for explicitly.
		n := 1
		if len(args) > 1 {
			if args[1] == "all" {
				if err := ignoreNoChange(m.Down()); err != nil {
					return fmt.Errorf("down: %w", err)
				}
				break
			}
			if n, err = positive(args[1]); err != nil {
				return err
			}
		}
		if err := ignoreNoChange(m.Steps(-n)); err != nil {
			return fmt.Errorf("down %d: %w", n, err)
		}
	case "force":
		if len(args) < 2 {
			return errors.New("force requires a version")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		if err := m.Force(v); err != nil {
			return fmt.Errorf("force: %w", err)
		}
	case "version":
	default:
		fmt.Fprintln(stdout, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Fprintf(stdout, "%s: no migrations applied\n", cfg.DB.Driver)
		return nil
	}
	if err != nil {
		return fmt.Errorf("version: %w", err)
	}
	fmt.Fprintf(stdout, "%s: version %d dirty=%t\n", cfg.DB.Driver, version, dirty)
	return nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func positive(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid step count %q", s)
	}
	return n, nil
}
