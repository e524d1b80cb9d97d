package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hrms-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hrms-backend-go/internal/service/attendance"
	employeeService "github.com/cmlabs-hris/hrms-backend-go/internal/service/employee"
	"github.com/spf13/cobra"
)

const seedPassword = "password123"

var seedEmployees = []employee.CreateEmployeeRequest{
	{
		Name:        "Admin User",
		Email:       "admin@hrms.com",
		Phone:       "+1234567890",
		Designation: "HR Administrator",
		Department:  "Human Resources",
		Role:        employee.RoleAdmin,
	},
	{
		Name:        "Manager User",
		Email:       "manager@hrms.com",
		Phone:       "+1234567891",
		Designation: "Team Lead",
		Department:  "Engineering",
		Role:        employee.RoleManager,
	},
	{
		Name:        "Employee User",
		Email:       "employee@hrms.com",
		Phone:       "+1234567892",
		Designation: "Software Developer",
		Department:  "Engineering",
		Role:        employee.RoleEmployee,
	},
}

func newSeedCmd(load Loader) *cobra.Command {
	var initSchema bool
	var attendanceDays int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the demo admin, manager and employee accounts",
		Long: `Create admin@hrms.com, manager@hrms.com and employee@hrms.com with the
password "password123". Accounts that already exist are left untouched.`,
		RunE: withRuntime(load, func(cmd *cobra.Command, rt *Runtime) error {
			ctx := commandContext(cmd)

			if initSchema {
				if rt.Stores.DB == nil {
					return errors.New("--init-schema needs the postgres storage driver")
				}
				if err := rt.Stores.DB.ApplySchema(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Schema applied")
			}

			seed := func(ctx context.Context) error {
				return seedRoster(ctx, cmd, rt, attendanceDays)
			}
			if rt.Stores.DB != nil {
				return postgresql.WithTransaction(ctx, rt.Stores.DB, seed)
			}
			return seed(ctx)
		}),
	}

	cmd.Flags().BoolVar(&initSchema, "init-schema", false, "create the tables first when they are missing")
	cmd.Flags().IntVar(&attendanceDays, "attendance-days", 0, "also record 09:00-17:00 sessions for the demo employee over the last N days")
	return cmd
}

func seedRoster(ctx context.Context, cmd *cobra.Command, rt *Runtime, attendanceDays int) error {
	out := cmd.OutOrStdout()
	svc := employeeService.NewEmployeeService(rt.Stores.Employees, rt.Clock, rt.Config.Security.BcryptCost, nil)

	var demoEmployeeID string
	for _, req := range seedEmployees {
		req.Password = seedPassword

		existing, err := rt.Stores.Employees.GetByEmail(ctx, req.Email)
		if err == nil {
			fmt.Fprintf(out, "Exists  %-20s %s\n", existing.Email, existing.Role)
			if existing.Role == employee.RoleEmployee {
				demoEmployeeID = existing.ID
			}
			continue
		}
		if !errors.Is(err, employee.ErrEmployeeNotFound) {
			return fmt.Errorf("failed to look up %s: %w", req.Email, err)
		}

		created, err := svc.CreateEmployee(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", req.Email, err)
		}
		fmt.Fprintf(out, "Created %-20s %s\n", created.Email, created.Role)
		if created.Role == employee.RoleEmployee {
			demoEmployeeID = created.ID
		}
	}

	if attendanceDays > 0 && demoEmployeeID != "" {
		recorded, err := seedAttendance(ctx, rt, demoEmployeeID, attendanceDays)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Recorded %d attendance sessions\n", recorded)
	}

	fmt.Fprintf(out, "\nDemo password for every account: %s\n", seedPassword)
	return nil
}

// seedAttendance records closed 09:00-17:00 sessions for the days before today.
// Days that already have a record are skipped.
func seedAttendance(ctx context.Context, rt *Runtime, employeeID string, days int) (int, error) {
	today := rt.Clock.Today()
	recorded := 0
	for i := 1; i <= days; i++ {
		day := clock.StartOfDay(today.AddDate(0, 0, -i))
		checkIn := day.Add(9 * time.Hour)
		checkOut := day.Add(17 * time.Hour)

		rec, err := rt.Stores.Attendance.UpsertCheckIn(ctx, employeeID, day, checkIn)
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			continue
		}
		if err != nil {
			return recorded, fmt.Errorf("failed to seed check-in for %s: %w", day.Format(attendance.DateLayout), err)
		}

		if _, err := rt.Stores.Attendance.RecordCheckOut(ctx, rec.ID, checkOut, attendanceService.WorkHours(checkIn, checkOut)); err != nil {
			return recorded, fmt.Errorf("failed to seed check-out for %s: %w", day.Format(attendance.DateLayout), err)
		}
		recorded++
	}
	return recorded, nil
}
