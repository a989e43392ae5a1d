package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/obeidat/hrdesk/internal/config"
	"github.com/obeidat/hrdesk/internal/domain"
	"github.com/obeidat/hrdesk/internal/store"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the HR database",
	}

	cmd.AddCommand(newDBAddDepartmentCmd())
	cmd.AddCommand(newDBAddEmployeeCmd())
	cmd.AddCommand(newDBLeaveStatusCmd())
	return cmd
}

func openHR() (*store.DB, *store.HR, error) {
	cfg, err := config.Load(paths.Config)
	if err != nil {
		cfg = config.Defaults()
	}
	if err := paths.EnsureDirs(); err != nil {
		return nil, nil, err
	}
	dbPath := cfg.Storage.Path
	if dbPath == "" {
		dbPath = filepath.Join(paths.Data, "hrdesk.db")
	}
	db, err := store.Open(dbPath, log)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return db, store.NewHR(db), nil
}

func newDBAddDepartmentCmd() *cobra.Command {
	var managerID int

	cmd := &cobra.Command{
		Use:   "add-department <name>",
		Short: "Create a department",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, hr, err := openHR()
			if err != nil {
				return err
			}
			defer db.Close()

			id, err := hr.CreateDepartment(cmd.Context(), args[0], managerID)
			if err != nil {
				return err
			}
			fmt.Printf("Created department %q (id %d)\n", args[0], id)
			return nil
		},
	}

	cmd.Flags().IntVar(&managerID, "manager", 0, "employee id of the department manager")
	return cmd
}

func newDBLeaveStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave-status <leave id>",
		Short: "Show the status of a leave request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			leaveID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid leave id %q", args[0])
			}

			db, hr, err := openHR()
			if err != nil {
				return err
			}
			defer db.Close()

			status, err := hr.LeaveStatus(cmd.Context(), leaveID)
			if err != nil {
				return err
			}
			fmt.Printf("Leave %d: %s\n", leaveID, status)
			return nil
		},
	}
}

func newDBAddEmployeeCmd() *cobra.Command {
	var (
		email      string
		role       string
		jobTitle   string
		salary     float64
		deptID     int
		externalID string
	)

	cmd := &cobra.Command{
		Use:   "add-employee <full name>",
		Short: "Register an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := domain.Role(role)
			if !r.Valid() {
				return fmt.Errorf("invalid role %q (employee, manager, hr)", role)
			}

			db, hr, err := openHR()
			if err != nil {
				return err
			}
			defer db.Close()

			id, err := hr.CreateEmployee(cmd.Context(), domain.NewEmployee{
				FullName:     args[0],
				Email:        email,
				Role:         r,
				JobTitle:     jobTitle,
				SalaryBasic:  salary,
				DepartmentID: deptID,
				ExternalID:   externalID,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created employee %q (id %d)\n", args[0], id)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "work email (required)")
	cmd.Flags().StringVar(&role, "role", "employee", "role (employee, manager, hr)")
	cmd.Flags().StringVar(&jobTitle, "title", "", "job title")
	cmd.Flags().Float64Var(&salary, "salary", 0, "basic salary in JOD")
	cmd.Flags().IntVar(&deptID, "department", 0, "department id")
	cmd.Flags().StringVar(&externalID, "external-id", "", "chat account id to link")
	cmd.MarkFlagRequired("email")

	return cmd
}
