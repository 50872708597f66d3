package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bojo500/the-reporter/internal/client"
	"github.com/bojo500/the-reporter/internal/models"
)

// readPassword prompts without echo when stdin is a terminal.
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	if term.IsTerminal(int(syscall.Stdin)) {
		defer fmt.Fprintln(os.Stderr)
		data, err := term.ReadPassword(int(syscall.Stdin))
		return string(data), err
	}

	var password string
	_, err := fmt.Scanln(&password)
	return password, err
}

func newRegisterCmd() *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and trigger the verification mail",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}

			c, _, err := newClient()
			if err != nil {
				return err
			}

			if err := c.Register(cmd.Context(), models.RegisterRequest{
				Name:     name,
				Email:    email,
				Password: password,
			}); err != nil {
				return err
			}

			fmt.Println("Registered. Check your inbox for the verification link.")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")

	return cmd
}

func newVerifyEmailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify-email <token>",
		Short: "Consume a verification token from the mailed link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := newClient()
			if err != nil {
				return err
			}
			if err := c.VerifyEmail(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Email verified. You can log in now.")
			return nil
		},
	}
}

func newLoginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}

			c, _, err := newClient()
			if err != nil {
				return err
			}

			sess, err := c.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			fmt.Printf("Logged in as %s (%s)\n", sess.User.Name, sess.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.MarkFlagRequired("email")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := newClient()
			if err != nil {
				return err
			}
			if err := c.Logout(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the identity behind the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := newClient()
			if err != nil {
				return err
			}

			user, err := c.CheckAuth(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("%s <%s>", user.Name, user.Email)
			if user.Section != nil {
				fmt.Printf(" section=%s", *user.Section)
			}
			if !user.IsVerified {
				fmt.Print(" (unverified)")
			}
			fmt.Println()
			return nil
		},
	}
}

func newShiftsCmd() *cobra.Command {
	var userID int

	cmd := &cobra.Command{
		Use:   "shifts",
		Short: "List shifts",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := newClient()
			if err != nil {
				return err
			}

			var shifts []models.Shift
			if userID > 0 {
				shifts, err = c.ShiftsByUser(cmd.Context(), userID)
			} else {
				shifts, err = c.Shifts(cmd.Context())
			}
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSHIFT\tSECTION\tUSER\tCREATED")
			for _, s := range shifts {
				owner := strconv.Itoa(s.UserID)
				if s.User != nil {
					owner = s.User.Name
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					s.ID, s.Shift, s.Section, owner,
					s.CreatedAt.Format(time.DateTime))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&userID, "user", 0, "only shifts for this user id")

	return cmd
}

// setMetric assigns one named metric by its JSON field name.
func setMetric(m *models.CCSMetrics, name string, value int) error {
	switch name {
	case "baf_in":
		m.BafIn = value
	case "baf_out":
		m.BafOut = value
	case "crm_in":
		m.CrmIn = value
	case "crm_out":
		m.CrmOut = value
	case "shipped_out":
		m.ShippedOut = value
	case "tugger_in":
		m.TuggerIn = value
	case "tugger_off":
		m.TuggerOff = value
	case "totalTrucksIn":
		m.TotalTrucksIn = value
	case "totalTrucksOut":
		m.TotalTrucksOut = value
	case "totalMovements":
		m.TotalMovements = value
	case "totalTrucks":
		m.TotalTrucks = value
	case "hook":
		m.Hook = value
	case "downTime":
		m.DownTime = value
	case "movedOfShipping":
		m.MovedOfShipping = value
	case "slitter_on":
		m.SlitterOn = value
	case "slitter_off":
		m.SlitterOff = value
	case "coils_hatted":
		m.CoilsHatted = value
	default:
		return fmt.Errorf("unknown metric %q (known: %s)", name, strings.Join(models.MetricFieldNames, ", "))
	}
	return nil
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Submit and list shift reports",
	}
	cmd.AddCommand(newReportSubmitCmd(), newReportListCmd())
	return cmd
}

func newReportSubmitCmd() *cobra.Command {
	var (
		shift   string
		section string
		userID  int
		sets    []string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Open a shift and submit its report",
		Long: `Submit opens a shift for the given period and section, then submits the
report with the provided metric values. Metrics default to zero; set them
with repeated --set flags, e.g. --set baf_in=5 --set downTime=30.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var metrics models.CCSMetrics
			for _, kv := range sets {
				name, raw, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("invalid --set %q, want name=value", kv)
				}
				value, err := strconv.Atoi(raw)
				if err != nil {
					return fmt.Errorf("invalid value in --set %q: %w", kv, err)
				}
				if err := setMetric(&metrics, name, value); err != nil {
					return err
				}
			}

			c, store, err := newClient()
			if err != nil {
				return err
			}

			if userID == 0 {
				sess, err := store.Load()
				if err != nil {
					return err
				}
				userID = sess.User.ID
			}

			report, err := c.SubmitReport(cmd.Context(), &client.ReportState{
				UserID:  userID,
				Section: models.Section(section),
				Shift:   models.ShiftPeriod(shift),
				Metrics: metrics,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Report %d submitted for shift %d.\n", report.ID, report.ShiftID)
			return nil
		},
	}

	cmd.Flags().StringVar(&shift, "shift", "", `shift period ("1st", "2nd", or "3rd")`)
	cmd.Flags().StringVar(&section, "section", string(models.SectionCCS), "section the report belongs to")
	cmd.Flags().IntVar(&userID, "user", 0, "user id (default: the logged-in user)")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "metric assignment name=value, repeatable")
	cmd.MarkFlagRequired("shift")

	return cmd
}

func newReportListCmd() *cobra.Command {
	var userID int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := newClient()
			if err != nil {
				return err
			}

			var reports []models.CCSReport
			if userID > 0 {
				reports, err = c.ReportsByUser(cmd.Context(), userID)
			} else {
				reports, err = c.Reports(cmd.Context())
			}
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSHIFT\tSECTION\tUSER\tMOVEMENTS\tDOWNTIME\tCREATED")
			for _, r := range reports {
				fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%d\t%d\t%s\n",
					r.ID, r.ShiftID, r.Section, r.UserID,
					r.TotalMovements, r.DownTime,
					r.CreatedAt.Format(time.DateTime))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&userID, "user", 0, "only reports for this user id")

	return cmd
}

func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the report table as an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := newClient()
			if err != nil {
				return err
			}

			data, err := c.Export(cmd.Context())
			if err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("reports-%s.xlsx", time.Now().Format("2006-01-02"))
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}

			fmt.Printf("Wrote %s (%d bytes)\n", output, len(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: reports-<date>.xlsx)")

	return cmd
}
