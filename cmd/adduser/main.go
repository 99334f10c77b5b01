package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/term"

	"expensedesk/internal/config"
	"expensedesk/internal/domain"
	"expensedesk/internal/form"
	"expensedesk/internal/notify"
	"expensedesk/internal/port"
	"expensedesk/internal/repository/sqlrepo"
	"expensedesk/internal/service"
	"expensedesk/internal/sessionstore"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	email := fs.String("email", "", "Email address used to sign in")
	name := fs.String("name", "", "Full name")
	role := fs.String("role", string(domain.RoleFaculty), "Role: admin or faculty")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" || *name == "" {
		fmt.Fprintln(stdout, "Usage: adduser -email <email> -name <full name> [-role admin|faculty] [-password <password>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: email, name")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}
	if len(strings.TrimSpace(password)) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := sqlrepo.MigrateUp(&cfg.DB); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	db, err := sqlrepo.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	records := sqlrepo.NewSessionRecordRepo(db)
	notifier := notify.NewLogNotifier()
	seed, err := service.SeedProfileDraft(form.NewRegistry(), func(id uuid.UUID) port.SessionStore {
		return sessionstore.ForUser(records, id, notifier)
	})
	if err != nil {
		return err
	}
	users := service.NewUserService(sqlrepo.NewUserRepo(db), seed)
	user, err := users.Create(context.Background(), service.CreateUserInput{
		Email:    *email,
		Password: password,
		FullName: *name,
		Role:     domain.UserRole(*role),
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return fmt.Errorf("user %s already exists", *email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %s (%s)\n", user.Email, user.ID, user.Role)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Non-terminal input such as pipes and tests.
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
