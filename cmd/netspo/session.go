package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"netspo/errors"
	"netspo/logger"
	"netspo/site"
	"netspo/site/netspo"
	"netspo/store"
)

// withAccount opens an account (resumed or freshly logged in) and runs fn
// with it.
func withAccount(cmd *cobra.Command, fn func(context.Context, *netspo.Account) error) error {
	return withClient(cmd, func(ctx context.Context, client *netspo.Client) error {
		account, err := open(ctx, client, cmd)
		if err != nil {
			return err
		}
		return fn(ctx, account)
	})
}

// withClient builds a client from the loaded config, with the Redis session
// store when one is configured, and runs fn with it.
func withClient(cmd *cobra.Command, fn func(context.Context, *netspo.Client) error) error {
	if login == "" {
		return errNoLogin
	}
	cfg := config

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []netspo.Option
	if cfg.RedisURL != "" {
		sessions, err := store.NewRedis(ctx, cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			return err
		}
		defer sessions.Close()
		opts = append(opts, netspo.WithSessionStore(sessions))
	}

	client, err := netspo.New(cfg, opts...)
	if err != nil {
		return err
	}
	defer client.Close()

	return fn(ctx, client)
}

func open(ctx context.Context, client *netspo.Client, cmd *cobra.Command) (*netspo.Account, error) {
	if resume {
		account, err := client.Resume(ctx, login)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, errors.ErrNoSession) {
			return nil, err
		}
		logger.Debug("no saved session for %s, logging in", login)
	}
	password, err := readPassword(cmd)
	if err != nil {
		return nil, err
	}
	return client.Login(ctx, login, password)
}

func readPassword(cmd *cobra.Command) (string, error) {
	if pwd := os.Getenv("NETSPO_PASSWORD"); pwd != "" {
		return pwd, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", errors.Wrap(err, "cannot read password")
	}
	return string(pwd), nil
}

// withStudent adapts fn into a command that runs against the student client
// of the account.
func withStudent(fn func(context.Context, *netspo.Student, io.Writer) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return withAccount(cmd, func(ctx context.Context, a *netspo.Account) error {
			s, err := a.Student()
			if err != nil {
				return err
			}
			return fn(ctx, s, cmd.OutOrStdout())
		})
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// period parses the --from and --to flags. Unset flags give zero times.
func period(from, to string, loc *time.Location) (begin, end time.Time, err error) {
	if from != "" {
		if begin, err = site.ParseDay(from, loc); err != nil {
			return begin, end, &errors.ValidationError{Field: "from", Reason: err.Error()}
		}
	}
	if to != "" {
		if end, err = site.ParseDay(to, loc); err != nil {
			return begin, end, &errors.ValidationError{Field: "to", Reason: err.Error()}
		}
	}
	return begin, end, nil
}

// week returns Monday and Sunday of the week containing now.
func week(now time.Time) (monday, sunday time.Time) {
	offset := (int(now.Weekday()) + 6) % 7
	monday = time.Date(now.Year(), now.Month(), now.Day()-offset, 0, 0, 0, 0, now.Location())
	return monday, monday.AddDate(0, 0, 6)
}

// attestationOptions turns the --course and --semester flags into filters.
// A flag given explicitly is passed on even when it is 0.
func attestationOptions(course, semester int, hasCourse, hasSemester bool) []netspo.AttestationOption {
	var opts []netspo.AttestationOption
	if hasCourse {
		opts = append(opts, netspo.ForCourse(course))
	}
	if hasSemester {
		opts = append(opts, netspo.ForSemester(semester))
	}
	return opts
}
