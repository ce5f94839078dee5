package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/mhartkopf/einsatzplan/internal/config"
	"github.com/mhartkopf/einsatzplan/pkg/clients/gmailclient"
	"github.com/mhartkopf/einsatzplan/pkg/core/model"
	"github.com/mhartkopf/einsatzplan/pkg/core/scheduling"
	"github.com/mhartkopf/einsatzplan/pkg/core/services"
	"github.com/mhartkopf/einsatzplan/pkg/db"
	"github.com/mhartkopf/einsatzplan/pkg/notify"
	"github.com/mhartkopf/einsatzplan/pkg/postgres"
	"github.com/mhartkopf/einsatzplan/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg      *config.Config
	store    *db.Store
	pg       *postgres.DB
	notifier notify.Notifier
	logger   *zap.Logger
	ctx      context.Context
}

var (
	env     string
	verbose bool
	app     *App
)

const timeLayout = "2006-01-02 15:04"

func main() {
	rootCmd := &cobra.Command{
		Use:   "einsatzplan",
		Short: "Einsatzplan CLI - Manage community center staff shifts",
		Long:  `A CLI tool for managing staff shifts, qualification coverage, and change requests.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.pg != nil {
					app.pg.Close()
				}
				if app.logger != nil {
					app.logger.Sync()
				}
			}
		},
	}

	// Add persistent flags
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (test, prod, etc.)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug output on the console")

	// Add all commands
	rootCmd.AddCommand(addShiftCmd())
	rootCmd.AddCommand(addRecurringCmd())
	rootCmd.AddCommand(editShiftCmd())
	rootCmd.AddCommand(deleteShiftCmd())
	rootCmd.AddCommand(editUserCmd())
	rootCmd.AddCommand(assignCmd())
	rootCmd.AddCommand(unassignCmd())
	rootCmd.AddCommand(listShiftsCmd())
	rootCmd.AddCommand(coverageCmd())
	rootCmd.AddCommand(candidatesCmd())
	rootCmd.AddCommand(requestCmd())
	rootCmd.AddCommand(listRequestsCmd())
	rootCmd.AddCommand(approveCmd())
	rootCmd.AddCommand(declineCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(interactiveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, persistence, and the notifier
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	// Initialize logger
	app.logger, err = logging.InitLogger(env, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting application", zap.String("environment", env))

	// Load configuration
	app.logger.Info("Loading configuration")
	app.cfg, err = config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded successfully")

	// Initialize persistence: PostgreSQL when configured, JSON file otherwise
	var persister db.Persister
	var snapshot db.Snapshot

	if app.cfg.DatabaseURL != "" {
		app.logger.Info("Connecting to database")
		app.pg, err = postgres.NewDB(app.ctx, app.cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		if err := app.pg.RunMigrations(app.ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		snapshot, err = app.pg.Load(app.ctx)
		if err != nil {
			return fmt.Errorf("failed to load schedule from database: %w", err)
		}
		persister = app.pg
	} else {
		filePersister := db.NewFilePersister(app.cfg.DataFile)
		snapshot, err = filePersister.Load(app.ctx)
		if err != nil {
			return fmt.Errorf("failed to load schedule from %s: %w", app.cfg.DataFile, err)
		}
		persister = filePersister
	}

	app.store = db.NewStore(persister)
	app.store.LoadSnapshot(snapshot)
	app.logger.Info("Schedule loaded", zap.Int("shifts", len(snapshot.Shifts)))

	// Initialize notifier
	if app.cfg.NotifyByEmail {
		app.logger.Info("Loading OAuth client configuration")
		oauthCfg, err := config.LoadOAuthClientWithEnv(env)
		if err != nil {
			return fmt.Errorf("failed to load OAuth client config: %w", err)
		}

		app.logger.Info("Initializing gmail client")
		gmailClient, err := gmailclient.NewClient(app.ctx, oauthCfg)
		if err != nil {
			return fmt.Errorf("failed to create gmail client: %w", err)
		}

		app.notifier = &notify.EmailNotifier{
			Sender:  gmailClient,
			Users:   app.store,
			Logger:  app.logger,
			Subject: app.cfg.EmailSubject,
		}
	} else {
		app.notifier = &notify.LogNotifier{Logger: app.logger}
	}

	return nil
}

// parseTime accepts "2006-01-02 15:04" and RFC3339
func parseTime(value string) (time.Time, error) {
	if t, err := time.ParseInLocation(timeLayout, value, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (expected %q or RFC3339)", value, timeLayout)
	}
	return t, nil
}

// parseRequirements parses --require values of the form qualificationID:count
func parseRequirements(values []string) ([]model.ShiftRequirement, error) {
	required := make([]model.ShiftRequirement, 0, len(values))
	for _, value := range values {
		qualID, countStr, found := strings.Cut(value, ":")
		count := 1
		if found {
			if _, err := fmt.Sscanf(countStr, "%d", &count); err != nil || count < 1 {
				return nil, fmt.Errorf("invalid requirement %q (expected qualificationID:count)", value)
			}
		}
		if qualID == "" {
			return nil, fmt.Errorf("invalid requirement %q (expected qualificationID:count)", value)
		}
		required = append(required, model.ShiftRequirement{QualificationID: qualID, Count: count})
	}
	return required, nil
}

func printConflict(conflict *scheduling.Conflict) {
	fmt.Printf("\n✗ Rejected: %s\n\n", conflict.Describe())
}

func printNotifications(notifications []model.Notification) {
	if len(notifications) == 0 {
		return
	}
	app.notifier.Notify(app.ctx, notifications)
	fmt.Printf("Notified %d user(s):\n", len(notifications))
	for _, note := range notifications {
		fmt.Printf("  → %s: %s\n", note.UserID, note.Message)
	}
	fmt.Println()
}

func printShift(shift *model.Shift) {
	detail, err := services.DescribeShift(app.ctx, app.store, shift.ID)
	if err != nil {
		// Shift no longer stored (e.g. just deleted); print the raw ids
		detail = &services.ShiftDetail{
			Shift:         *shift,
			TeamName:      shift.TeamID,
			LocationName:  shift.LocationID,
			EventTitle:    shift.EventID,
			AssigneeNames: shift.AssignedUserIDs(),
		}
	}

	fmt.Printf("Shift ID:  %s\n", shift.ID)
	fmt.Printf("Type:      %s\n", shift.Type)
	fmt.Printf("When:      %s → %s\n", shift.StartsAt.Format(timeLayout), shift.EndsAt.Format(timeLayout))
	fmt.Printf("Team:      %s\n", detail.TeamName)
	if detail.Room != "" {
		fmt.Printf("Location:  %s (%s)\n", detail.LocationName, detail.Room)
	} else {
		fmt.Printf("Location:  %s\n", detail.LocationName)
	}
	if detail.EventTitle != "" {
		fmt.Printf("Event:     %s\n", detail.EventTitle)
	}
	fmt.Printf("Status:    %s\n", shift.Status)
	if len(detail.AssigneeNames) > 0 {
		fmt.Printf("Assigned:  %s\n", strings.Join(detail.AssigneeNames, ", "))
	}
	fmt.Println()
}

// Command definitions

func addShiftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addShift <type> <team_id> <location_id> <start> <end>",
		Short: "Create a new shift",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			startsAt, err := parseTime(args[3])
			if err != nil {
				return err
			}
			endsAt, err := parseTime(args[4])
			if err != nil {
				return err
			}

			requireValues, _ := cmd.Flags().GetStringArray("require")
			required, err := parseRequirements(requireValues)
			if err != nil {
				return err
			}
			notes, _ := cmd.Flags().GetString("notes")
			eventID, _ := cmd.Flags().GetString("event")

			result, err := services.AddShift(app.ctx, app.store, app.logger, services.ShiftData{
				Type:       args[0],
				TeamID:     args[1],
				LocationID: args[2],
				StartsAt:   startsAt,
				EndsAt:     endsAt,
				Required:   required,
				EventID:    eventID,
				Notes:      notes,
			})
			if err != nil {
				return err
			}

			if result.Conflict != nil {
				printConflict(result.Conflict)
				return nil
			}

			fmt.Printf("\n✓ Shift created!\n\n")
			printShift(result.Shift)
			return nil
		},
	}

	cmd.Flags().StringArray("require", nil, "Required qualification as qualificationID:count (repeatable)")
	cmd.Flags().String("notes", "", "Free-text notes")
	cmd.Flags().String("event", "", "Event ID the shift belongs to")

	return cmd
}

func addRecurringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addRecurring <template_name> <start>",
		Short: "Expand a configured shift template into a recurring series",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			templateName := args[0]

			var template *config.ShiftTemplate
			for i := range app.cfg.ShiftTemplates {
				if app.cfg.ShiftTemplates[i].Name == templateName {
					template = &app.cfg.ShiftTemplates[i]
					break
				}
			}
			if template == nil {
				return fmt.Errorf("no shift template named %q in config", templateName)
			}

			startsAt, err := parseTime(args[1])
			if err != nil {
				return err
			}

			result, err := services.AddRecurringShifts(app.ctx, app.store, app.logger, services.ShiftData{
				Type:       template.Type,
				TeamID:     template.TeamID,
				LocationID: template.LocationID,
				StartsAt:   startsAt,
				EndsAt:     startsAt.Add(time.Duration(template.Hours) * time.Hour),
			}, template.RRule)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Created %d shift(s) from template %q\n", len(result.Created), templateName)
			for _, shift := range result.Created {
				fmt.Printf("  %s  %s → %s\n", shift.ID, shift.StartsAt.Format(timeLayout), shift.EndsAt.Format(timeLayout))
			}
			if len(result.Skipped) > 0 {
				fmt.Printf("\n⚠️  Skipped %d occurrence(s) for conflicts:\n", len(result.Skipped))
				for _, skipped := range result.Skipped {
					fmt.Printf("  %s: %s\n", skipped.Shift.StartsAt.Format(timeLayout), skipped.Conflict.Describe())
				}
			}
			fmt.Println()
			return nil
		},
	}

	return cmd
}

func editShiftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "editShift <shift_id>",
		Short: "Edit a shift's time window, status, or notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shift, err := app.store.ShiftByID(app.ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to fetch shift: %w", err)
			}

			if value, _ := cmd.Flags().GetString("start"); value != "" {
				startsAt, err := parseTime(value)
				if err != nil {
					return err
				}
				shift.StartsAt = startsAt
			}
			if value, _ := cmd.Flags().GetString("end"); value != "" {
				endsAt, err := parseTime(value)
				if err != nil {
					return err
				}
				shift.EndsAt = endsAt
			}
			if value, _ := cmd.Flags().GetString("status"); value != "" {
				status := model.ShiftStatus(value)
				if !status.IsValid() {
					return fmt.Errorf("invalid status %q", value)
				}
				shift.Status = status
			}
			if cmd.Flags().Changed("notes") {
				shift.Notes, _ = cmd.Flags().GetString("notes")
			}
			if value, _ := cmd.Flags().GetString("location"); value != "" {
				shift.LocationID = value
			}

			result, err := services.UpdateShift(app.ctx, app.store, app.logger, *shift)
			if err != nil {
				return err
			}

			if result.Conflict != nil {
				printConflict(result.Conflict)
				return nil
			}

			fmt.Printf("\n✓ Shift updated!\n\n")
			printShift(result.Shift)
			printNotifications(result.Notifications)
			return nil
		},
	}

	cmd.Flags().String("start", "", "New start time")
	cmd.Flags().String("end", "", "New end time")
	cmd.Flags().String("status", "", "New status (planned, open, confirmed, done, cancelled)")
	cmd.Flags().String("notes", "", "New notes")
	cmd.Flags().String("location", "", "New location ID")

	return cmd
}

func deleteShiftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deleteShift <shift_id>",
		Short: "Delete a shift and notify its assignees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			notifications, err := services.DeleteShift(app.ctx, app.store, app.logger, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Shift %s deleted\n\n", args[0])
			printNotifications(notifications)
			return nil
		},
	}
}

func editUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "editUser <user_id>",
		Short: "Edit a user's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := app.store.UserByID(app.ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to fetch user: %w", err)
			}

			if value, _ := cmd.Flags().GetString("first"); value != "" {
				user.FirstName = value
			}
			if value, _ := cmd.Flags().GetString("last"); value != "" {
				user.LastName = value
			}
			if cmd.Flags().Changed("email") {
				user.Email, _ = cmd.Flags().GetString("email")
			}
			if cmd.Flags().Changed("phone") {
				user.Phone, _ = cmd.Flags().GetString("phone")
			}
			if cmd.Flags().Changed("address") {
				user.Address, _ = cmd.Flags().GetString("address")
			}
			if value, _ := cmd.Flags().GetString("birthdate"); value != "" {
				if _, err := time.Parse("2006-01-02", value); err != nil {
					return fmt.Errorf("invalid birthdate %q (expected YYYY-MM-DD)", value)
				}
				user.Birthdate = value
			}
			if cmd.Flags().Changed("qualifications") {
				user.QualificationIDs, _ = cmd.Flags().GetStringSlice("qualifications")
			}

			updated, err := services.EditUser(app.ctx, app.store, app.logger, *user)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Profile updated for %s\n\n", updated.FullName())
			fmt.Printf("Email:          %s\n", updated.Email)
			fmt.Printf("Phone:          %s\n", updated.Phone)
			fmt.Printf("Qualifications: %s\n\n", strings.Join(updated.QualificationIDs, ", "))
			return nil
		},
	}

	cmd.Flags().String("first", "", "New first name")
	cmd.Flags().String("last", "", "New last name")
	cmd.Flags().String("email", "", "New email address")
	cmd.Flags().String("phone", "", "New phone number")
	cmd.Flags().String("address", "", "New postal address")
	cmd.Flags().String("birthdate", "", "New birthdate (YYYY-MM-DD)")
	cmd.Flags().StringSlice("qualifications", nil, "Replacement qualification IDs (comma-separated)")

	return cmd
}

func assignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign <shift_id> <user_id>",
		Short: "Assign a user to a shift",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")

			result, err := services.AssignUser(app.ctx, app.store, app.logger, args[0], args[1], force)
			if err != nil {
				return err
			}

			if result.NeedsConfirmation {
				fmt.Printf("\n⚠️  %s holds none of the shift's required qualifications.\n", args[1])
				fmt.Println("Re-run with --force to assign anyway.")
				fmt.Println()
				return nil
			}

			if result.Conflict != nil {
				printConflict(result.Conflict)
				return nil
			}

			fmt.Printf("\n✓ %s assigned to shift %s\n\n", args[1], args[0])
			printNotifications(result.Notifications)
			return nil
		},
	}

	cmd.Flags().Bool("force", false, "Assign even without the required qualifications")

	return cmd
}

func unassignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <shift_id> <user_id>",
		Short: "Remove a user from a shift",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.UnassignUser(app.ctx, app.store, app.logger, args[0], args[1])
			if err != nil {
				return err
			}

			if result.Conflict != nil {
				printConflict(result.Conflict)
				return nil
			}

			fmt.Printf("\n✓ %s removed from shift %s\n\n", args[1], args[0])
			printNotifications(result.Notifications)
			return nil
		},
	}
}

func listShiftsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listShifts",
		Short: "List shifts, optionally filtered by team or location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			teamID, _ := cmd.Flags().GetString("team")
			locationID, _ := cmd.Flags().GetString("location")

			shifts, err := app.store.Shifts(app.ctx)
			if err != nil {
				return fmt.Errorf("failed to list shifts: %w", err)
			}

			filtered := make([]model.Shift, 0, len(shifts))
			for _, shift := range shifts {
				if teamID != "" && shift.TeamID != teamID {
					continue
				}
				if locationID != "" && shift.LocationID != locationID {
					continue
				}
				filtered = append(filtered, shift)
			}

			sort.Slice(filtered, func(i, j int) bool {
				return filtered[i].StartsAt.Before(filtered[j].StartsAt)
			})

			locations, err := app.store.Locations(app.ctx)
			if err != nil {
				return fmt.Errorf("failed to list locations: %w", err)
			}
			locationName := make(map[string]string, len(locations))
			for _, location := range locations {
				locationName[location.ID] = location.Name
			}

			fmt.Printf("\nFound %d shift(s):\n\n", len(filtered))
			for _, shift := range filtered {
				assignees := strings.Join(shift.AssignedUserIDs(), ", ")
				if assignees == "" {
					assignees = "unassigned"
				}
				name, ok := locationName[shift.LocationID]
				if !ok {
					name = shift.LocationID
				}
				fmt.Printf("- %s  %s → %s  %s @ %s [%s] (%s)\n",
					shift.ID,
					shift.StartsAt.Format(timeLayout),
					shift.EndsAt.Format("15:04"),
					shift.Type,
					name,
					shift.Status,
					assignees,
				)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("team", "", "Only shifts for this team ID")
	cmd.Flags().String("location", "", "Only shifts at this location ID")

	return cmd
}

func coverageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coverage <shift_id>",
		Short: "Show qualification coverage for a shift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := services.DescribeShift(app.ctx, app.store, args[0])
			if err != nil {
				return err
			}

			if len(detail.Coverage) == 0 {
				fmt.Println("\nShift has no qualification requirements.")
				return nil
			}

			fmt.Printf("\nCoverage for shift %s:\n\n", args[0])
			for _, row := range detail.Coverage {
				marker := "✓"
				if !row.Met() {
					marker = "✗"
				}
				fmt.Printf("  %s %-20s %d/%d\n", marker, row.QualificationName, row.Satisfied, row.Required)
			}
			fmt.Println()
			return nil
		},
	}
}

func candidatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "candidates <shift_id>",
		Short: "List team members who could take a shift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := services.AssignableUsers(app.ctx, app.store, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d candidate(s):\n\n", len(users))
			for _, user := range users {
				quals := strings.Join(user.QualificationIDs, ", ")
				if quals == "" {
					quals = "none"
				}
				fmt.Printf("- %s (%s) - qualifications: %s\n", user.FullName(), user.ID, quals)
			}
			fmt.Println()
			return nil
		},
	}
}

func requestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request <type> <requester_id>",
		Short: "File a change request (substitution, change, vacation)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := services.RequestData{
				Type:        model.RequestType(args[0]),
				RequesterID: args[1],
			}

			data.ShiftID, _ = cmd.Flags().GetString("shift")
			data.SubstituteUserID, _ = cmd.Flags().GetString("substitute")
			data.Comment, _ = cmd.Flags().GetString("comment")

			if value, _ := cmd.Flags().GetString("from"); value != "" {
				from, err := parseTime(value)
				if err != nil {
					return err
				}
				data.StartsAt = &from
			}
			if value, _ := cmd.Flags().GetString("to"); value != "" {
				to, err := parseTime(value)
				if err != nil {
					return err
				}
				data.EndsAt = &to
			}

			request, err := services.CreateRequest(app.ctx, app.store, app.logger, data)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Request filed!\n\n")
			fmt.Printf("Request ID: %s\n", request.ID)
			fmt.Printf("Type:       %s\n", request.Type)
			fmt.Printf("Status:     %s\n\n", request.Status)
			return nil
		},
	}

	cmd.Flags().String("shift", "", "Shift ID the request concerns")
	cmd.Flags().String("substitute", "", "Substitute user ID (substitution requests)")
	cmd.Flags().String("comment", "", "Free-text comment")
	cmd.Flags().String("from", "", "Vacation start (vacation requests)")
	cmd.Flags().String("to", "", "Vacation end (vacation requests)")

	return cmd
}

func listRequestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listRequests",
		Short: "List change requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pendingOnly, _ := cmd.Flags().GetBool("pending")

			requests, err := app.store.Requests(app.ctx)
			if err != nil {
				return fmt.Errorf("failed to list requests: %w", err)
			}

			filtered := make([]model.ChangeRequest, 0, len(requests))
			for _, request := range requests {
				if pendingOnly && request.Status != model.RequestPending {
					continue
				}
				filtered = append(filtered, request)
			}

			sort.Slice(filtered, func(i, j int) bool {
				return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
			})

			fmt.Printf("\nFound %d request(s):\n\n", len(filtered))
			for _, request := range filtered {
				detail := ""
				switch request.Type {
				case model.RequestSubstitution:
					detail = fmt.Sprintf("shift %s, substitute %s", request.ShiftID, request.SubstituteUserID)
				case model.RequestVacation:
					if request.StartsAt != nil && request.EndsAt != nil {
						detail = fmt.Sprintf("%s → %s",
							request.StartsAt.Format("2006-01-02"),
							request.EndsAt.Format("2006-01-02"))
					}
				case model.RequestChange:
					detail = fmt.Sprintf("shift %s", request.ShiftID)
				}
				fmt.Printf("- %s  [%s] %s by %s  %s\n",
					request.ID, request.Status, request.Type, request.RequesterID, detail)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().Bool("pending", false, "Only pending requests")

	return cmd
}

// requirePending guards resolution commands; the engine itself applies
// the transition unconditionally.
func requirePending(request *model.ChangeRequest) error {
	if request.Status != model.RequestPending {
		return fmt.Errorf("request %s is already %s", request.ID, request.Status)
	}
	return nil
}

func approveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <request_id>",
		Short: "Approve a pending change request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := app.store.RequestByID(app.ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to fetch request: %w", err)
			}
			if err := requirePending(request); err != nil {
				return err
			}

			resolution, err := services.ApproveRequest(app.ctx, app.store, app.logger, args[0], app.cfg.ResolverUserID)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Request %s approved\n\n", args[0])
			if resolution.UpdatedShift != nil {
				fmt.Println("Updated shift:")
				printShift(resolution.UpdatedShift)
			}
			if resolution.CreatedAbsence != nil {
				fmt.Printf("Absence recorded: %s → %s\n\n",
					resolution.CreatedAbsence.StartsAt.Format("2006-01-02"),
					resolution.CreatedAbsence.EndsAt.Format("2006-01-02"))
			}
			printNotifications(resolution.Notifications)
			return nil
		},
	}
}

func declineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decline <request_id>",
		Short: "Decline a pending change request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := app.store.RequestByID(app.ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to fetch request: %w", err)
			}
			if err := requirePending(request); err != nil {
				return err
			}

			resolution, err := services.DeclineRequest(app.ctx, app.store, app.logger, args[0], app.cfg.ResolverUserID)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Request %s declined\n\n", args[0])
			printNotifications(resolution.Notifications)
			return nil
		},
	}
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <team_id>",
		Short: "Export a team's shifts as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outPath, _ := cmd.Flags().GetString("out")

			out := os.Stdout
			if outPath != "" {
				file, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("failed to create report file: %w", err)
				}
				defer file.Close()
				out = file
			}

			count, err := services.ExportTeamReport(app.ctx, app.store, app.logger, args[0], out)
			if err != nil {
				return err
			}

			if outPath != "" {
				fmt.Printf("\n✓ Wrote %d shift(s) to %s\n\n", count, outPath)
			}
			return nil
		},
	}

	cmd.Flags().String("out", "", "Write the CSV to this file instead of stdout")

	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace the schedule with demo data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot := db.SeedSnapshot(time.Now())
			app.store.LoadSnapshot(snapshot)
			if err := app.store.Flush(app.ctx); err != nil {
				return fmt.Errorf("failed to persist seed data: %w", err)
			}

			fmt.Printf("\n✓ Seeded %d users, %d shifts, %d requests\n\n",
				len(snapshot.Users), len(snapshot.Shifts), len(snapshot.ChangeRequests))
			return nil
		},
	}
}

func interactiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (authenticate once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands without re-authenticating.
The session will keep running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("\n🚀 Starting interactive session...")
			fmt.Println("Type 'help' for available commands, 'exit' or 'quit' to leave")

			// Get all sibling commands (excluding interactive itself)
			rootCmd := cmd.Parent()
			commands := make(map[string]*cobra.Command)
			for _, subCmd := range rootCmd.Commands() {
				if subCmd.Name() != "interactive" && subCmd.Name() != "completion" && subCmd.Name() != "help" {
					commands[subCmd.Name()] = subCmd
				}
			}

			scanner := bufio.NewScanner(os.Stdin)

			for {
				fmt.Print("> ")

				if !scanner.Scan() {
					break
				}

				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				// Parse command
				parts := strings.Fields(line)
				cmdName := parts[0]
				cmdArgs := parts[1:]

				// Handle exit
				if cmdName == "exit" || cmdName == "quit" {
					fmt.Println("👋 Goodbye!")
					return nil
				}

				// Handle help
				if cmdName == "help" {
					printInteractiveHelp(commands)
					continue
				}

				// Execute command via Cobra
				targetCmd, exists := commands[cmdName]
				if !exists {
					fmt.Printf("❌ Unknown command: %s (type 'help' for available commands)\n\n", cmdName)
					continue
				}

				// Reset command flags and args
				targetCmd.Flags().VisitAll(func(flag *pflag.Flag) {
					flag.Changed = false
					flag.Value.Set(flag.DefValue)
				})

				// Execute the command's RunE directly, bypassing the full Execute() flow
				// This avoids re-running PersistentPreRunE which would call initApp() again
				if err := targetCmd.ParseFlags(cmdArgs); err != nil {
					fmt.Printf("❌ Error parsing flags: %v\n\n", err)
					continue
				}

				// Get non-flag args after parsing flags
				cmdArgs = targetCmd.Flags().Args()

				// Validate args
				if err := targetCmd.Args(targetCmd, cmdArgs); err != nil {
					fmt.Printf("❌ Error: %v\n\n", err)
					continue
				}

				// Execute the RunE function directly
				if targetCmd.RunE != nil {
					if err := targetCmd.RunE(targetCmd, cmdArgs); err != nil {
						fmt.Printf("❌ Error: %v\n\n", err)
					}
				} else if targetCmd.Run != nil {
					targetCmd.Run(targetCmd, cmdArgs)
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}

			return nil
		},
	}

	return cmd
}

func printInteractiveHelp(commands map[string]*cobra.Command) {
	fmt.Println("\nAvailable commands:")

	// Get command names and sort them
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	// Print each command with its short description
	for _, name := range names {
		cmd := commands[name]
		fmt.Printf("  %-45s %s\n", cmd.Use, cmd.Short)
	}

	fmt.Println("\n  help                                          Show this help message")
	fmt.Println("  exit, quit                                    Exit the interactive session")
}
