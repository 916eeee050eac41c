package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/carepoint/portal-client/internal/core/domain"
	"github.com/carepoint/portal-client/internal/core/ports"
)

var (
	employeeRole   string
	employeeSearch string

	feedbackService int64

	bookService int64
	bookAt      string
	bookNotes   string

	dashboardYear int
)

var employeesCmd = &cobra.Command{
	Use:   "employees",
	Short: "List clinic staff",
	RunE:  runEmployees,
}

var qualificationCmd = &cobra.Command{
	Use:   "qualification <userId>",
	Short: "Show a consultant's qualifications",
	Args:  cobra.ExactArgs(1),
	RunE:  runQualification,
}

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "List the service catalog",
	RunE:  runServices,
}

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "List service feedback",
	RunE:  runFeedback,
}

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Book an appointment",
	RunE:  runBook,
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the manager overview",
	RunE:  runDashboard,
}

func init() {
	employeesCmd.Flags().StringVar(&employeeRole, "role", "", "Only employees holding this role")
	employeesCmd.Flags().StringVar(&employeeSearch, "search", "", "Match name or email")

	feedbackCmd.Flags().Int64Var(&feedbackService, "service", 0, "Only feedback for this service id")

	bookCmd.Flags().Int64Var(&bookService, "service", 0, "Service id")
	bookCmd.Flags().StringVar(&bookAt, "at", "", "Appointment time, e.g. 2024-06-01T09:00:00")
	bookCmd.Flags().StringVar(&bookNotes, "notes", "", "Notes for the consultant")
	_ = bookCmd.MarkFlagRequired("service")
	_ = bookCmd.MarkFlagRequired("at")

	dashboardCmd.Flags().IntVar(&dashboardYear, "year", time.Now().Year(), "Year for the monthly revenue chart")
}

func runEmployees(cmd *cobra.Command, _ []string) error {
	list, err := portal.Employees.List(cmd.Context(), ports.EmployeeFilter{Role: employeeRole, Search: employeeSearch})
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd, list)
	}
	rows := make([][]any, 0, len(list))
	for _, e := range list {
		rows = append(rows, []any{e.UserID, e.FullName(), e.Email, strings.Join(e.Roles, ",")})
	}
	return printTable(cmd, []string{"ID", "NAME", "EMAIL", "ROLES"}, rows)
}

func runQualification(cmd *cobra.Command, args []string) error {
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q", args[0])
	}
	q, err := portal.Qualifications.ForConsultant(cmd.Context(), userID)
	if err != nil {
		return err
	}
	if q == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "no qualifications recorded for user %d\n", userID)
		return nil
	}
	if jsonOutput {
		return printJSON(cmd, q)
	}
	return printTable(cmd, []string{"QUALIFICATIONS", "EXPERIENCE", "SPECIALIZATION"}, [][]any{
		{q.Qualifications, q.Experience, q.Specialization},
	})
}

func runServices(cmd *cobra.Command, _ []string) error {
	list, err := portal.Catalog.List(cmd.Context())
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd, list)
	}
	rows := make([][]any, 0, len(list))
	for _, s := range list {
		rows = append(rows, []any{s.ServiceID, s.ServiceName, s.Category, fmt.Sprintf("%.2f", s.Price), s.EstimatedDuration, s.IsActive})
	}
	return printTable(cmd, []string{"ID", "NAME", "CATEGORY", "PRICE", "MINUTES", "ACTIVE"}, rows)
}

func runFeedback(cmd *cobra.Command, _ []string) error {
	var (
		list []domain.FeedbackEntry
		err  error
	)
	if feedbackService > 0 {
		list, err = portal.Feedback.ForService(cmd.Context(), feedbackService)
	} else {
		list, err = portal.Feedback.List(cmd.Context())
	}
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd, list)
	}
	rows := make([][]any, 0, len(list))
	for _, f := range list {
		rows = append(rows, []any{f.FeedbackID, f.ServiceID, f.UserID, f.Rating, f.Comment})
	}
	return printTable(cmd, []string{"ID", "SERVICE", "USER", "RATING", "COMMENT"}, rows)
}

func runBook(cmd *cobra.Command, _ []string) error {
	b, err := portal.Bookings.Create(cmd.Context(), domain.BookingInput{
		ServiceID:       bookService,
		AppointmentTime: bookAt,
		Notes:           bookNotes,
	})
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd, b)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "booking %d confirmed for %s (%s)\n", b.BookingID, b.AppointmentTime, b.Status)
	return nil
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	ov, err := portal.Dashboard.Overview(cmd.Context(), dashboardYear)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd, ov)
	}

	out := cmd.OutOrStdout()
	if ov.Stats.Demo || ov.Monthly.Demo || ov.Popular.Demo {
		fmt.Fprintln(out, "warning: the API was unreachable, showing demo data")
	}
	s := ov.Stats.Data
	if err := printTable(cmd, []string{"USERS", "BOOKINGS", "PENDING", "COMPLETED", "SERVICES", "REVENUE"}, [][]any{
		{s.TotalUsers, s.TotalBookings, s.PendingBookings, s.CompletedBookings, s.TotalServices, fmt.Sprintf("%.2f", s.TotalRevenue)},
	}); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nrevenue %d\n", dashboardYear)
	rows := make([][]any, 0, len(ov.Monthly.Data))
	for _, m := range ov.Monthly.Data {
		rows = append(rows, []any{time.Month(m.Month).String()[:3], m.Bookings, fmt.Sprintf("%.2f", m.Revenue)})
	}
	if err := printTable(cmd, []string{"MONTH", "BOOKINGS", "REVENUE"}, rows); err != nil {
		return err
	}

	fmt.Fprintln(out, "\npopular services")
	rows = rows[:0]
	for _, p := range ov.Popular.Data {
		rows = append(rows, []any{p.ServiceID, p.ServiceName, p.BookingCount})
	}
	return printTable(cmd, []string{"ID", "NAME", "BOOKINGS"}, rows)
}
