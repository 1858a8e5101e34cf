// Command netspo logs in to the portal and prints one report as JSON.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"netspo/errors"
	"netspo/logger"
	"netspo/site"
	"netspo/site/netspo"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errNoLogin = errors.New("a login is required (--login or NETSPO_LOGIN)")
)

var (
	config   site.Config
	cfgPath  string
	login    string
	verbose  bool
	resume   bool
	fromDate string
	toDate   string
	course   int
	semester int
)

var rootCmd = &cobra.Command{
	Use:   "netspo",
	Short: "Query the network city SPO gradebook portal",
	Long: `netspo logs in to the SPO portal and prints a report as JSON.

The password is read from NETSPO_PASSWORD or prompted for. Settings come from
NETSPO_* environment variables, a .env file or the file given with --config.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		config, err = site.LoadConfig(cfgPath)
		if err != nil {
			return err
		}
		lvl := config.LogLevel
		if verbose {
			lvl = "debug"
		}
		return logger.Configure(lvl)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Average mark per subject",
	RunE: withStudent(func(ctx context.Context, s *netspo.Student, out io.Writer) error {
		marks, err := s.Dashboard(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, marks)
	}),
}

var performanceCmd = &cobra.Command{
	Use:   "performance",
	Short: "Dated marks of the current report period",
	RunE: withStudent(func(ctx context.Context, s *netspo.Student, out io.Writer) error {
		marks, err := s.Performance(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, marks)
	}),
}

var debtsCmd = &cobra.Command{
	Use:   "debts",
	Short: "Required tasks without a satisfactory mark",
	RunE: withStudent(func(ctx context.Context, s *netspo.Student, out io.Writer) error {
		begin, end, err := period(fromDate, toDate, config.Location())
		if err != nil {
			return err
		}
		debts, err := s.Debts(ctx, begin, end)
		if err != nil {
			return err
		}
		return printJSON(out, debts)
	}),
}

var timetableCmd = &cobra.Command{
	Use:   "timetable",
	Short: "Lessons between --from and --to (default: this week)",
	RunE: withStudent(func(ctx context.Context, s *netspo.Student, out io.Writer) error {
		begin, end, err := period(fromDate, toDate, config.Location())
		if err != nil {
			return err
		}
		if begin.IsZero() || end.IsZero() {
			begin, end = week(time.Now().In(config.Location()))
		}
		days, err := s.Timetable(ctx, begin, end)
		if err != nil {
			return err
		}
		return printJSON(out, days)
	}),
}

var attestationCmd = &cobra.Command{
	Use:   "attestation",
	Short: "Attestation marks, optionally for one course or semester",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := attestationOptions(course, semester,
			cmd.Flags().Changed("course"), cmd.Flags().Changed("semester"))
		return withStudent(func(ctx context.Context, s *netspo.Student, out io.Writer) error {
			rows, err := s.Attestation(ctx, opts...)
			if err != nil {
				return err
			}
			return printJSON(out, rows)
		})(cmd, args)
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Roles and identities of the account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAccount(cmd, func(ctx context.Context, a *netspo.Account) error {
			res := map[string]site.Identity{}
			if s, err := a.Student(); err == nil {
				res[string(site.RoleStudent)] = s.Identity()
			}
			if t, err := a.Teacher(); err == nil {
				res[string(site.RoleTeacher)] = t.Identity()
			}
			return printJSON(cmd.OutOrStdout(), res)
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, client *netspo.Client) error {
			a, err := client.Resume(ctx, login)
			if err != nil {
				return err
			}
			return a.Forget(ctx)
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVarP(&login, "login", "l", os.Getenv("NETSPO_LOGIN"), "Portal login")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log portal requests")
	rootCmd.PersistentFlags().BoolVar(&resume, "resume", false, "Reuse the session saved in Redis instead of logging in")

	for _, cmd := range []*cobra.Command{debtsCmd, timetableCmd} {
		cmd.Flags().StringVar(&fromDate, "from", "", "First day, YYYY-MM-DD")
		cmd.Flags().StringVar(&toDate, "to", "", "Last day, YYYY-MM-DD")
	}
	attestationCmd.Flags().IntVar(&course, "course", 0, "Course number, from 1")
	attestationCmd.Flags().IntVar(&semester, "semester", 0, "Semester number within the course, from 1")

	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(performanceCmd)
	rootCmd.AddCommand(debtsCmd)
	rootCmd.AddCommand(timetableCmd)
	rootCmd.AddCommand(attestationCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(logoutCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
