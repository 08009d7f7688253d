package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/gartstein/personnel/internal/personnel/controller"
	e "github.com/gartstein/personnel/internal/personnel/errors"
	"github.com/gartstein/personnel/internal/personnel/events"
	"github.com/gartstein/personnel/internal/personnel/models"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// printJSON writes v as one JSON line.
func printJSON(w io.Writer, v interface{}) error {
	return json.NewEncoder(w).Encode(v)
}

func printAll[T any](w io.Writer, items []T) error {
	for _, item := range items {
		if err := printJSON(w, item); err != nil {
			return err
		}
	}
	return nil
}

func parseID(s string) (models.ID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: id %q: %v", e.ErrInvalidInput, s, err)
	}
	return models.ID(id), nil
}

func (a *app) departmentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "department",
		Aliases: []string{"dept"},
		Short:   "Read and write departments",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all departments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			departments, err := a.service.ListDepartments(cmd.Context())
			if err != nil {
				return err
			}
			return printAll(cmd.OutOrStdout(), departments)
		},
	}

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show one department",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			department, found, err := a.service.GetDepartment(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !found {
				a.logger.Info("department not found", zap.Int64("department_id", int64(id)))
				return nil
			}
			return printJSON(cmd.OutOrStdout(), department)
		},
	}

	var department models.Department
	var departmentID int64
	save := &cobra.Command{
		Use:   "save",
		Short: "Insert a department or update the one with the same id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			department.ID = models.ID(departmentID)
			saved, err := a.service.SaveDepartment(cmd.Context(), department)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), saved)
		},
	}
	save.Flags().Int64Var(&departmentID, "id", 0, "department id")
	save.Flags().StringVar(&department.Name, "name", "", "department name")
	save.Flags().StringVar(&department.Location, "location", "", "department location")
	_ = save.MarkFlagRequired("id")
	_ = save.MarkFlagRequired("name")
	_ = save.MarkFlagRequired("location")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a department; absent ids are ignored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.service.DeleteDepartment(cmd.Context(), id)
		},
	}

	cmd.AddCommand(list, get, save, del)
	return cmd
}

// employeeFlags collects the fields of an employee given on the command line.
type employeeFlags struct {
	id         int64
	first      string
	last       string
	middle     string
	position   string
	hired      string
	salary     string
	manager    int64
	department int64
}

func (f *employeeFlags) employee(cmd *cobra.Command) (models.Employee, error) {
	hired, err := models.ParseDate(f.hired)
	if err != nil {
		return models.Employee{}, fmt.Errorf("%w: %v", e.ErrInvalidInput, err)
	}
	salary, err := decimal.NewFromString(f.salary)
	if err != nil {
		return models.Employee{}, fmt.Errorf("%w: salary %q: %v", e.ErrInvalidInput, f.salary, err)
	}

	employee := models.Employee{
		ID:       models.ID(f.id),
		FullName: models.FullName{First: f.first, Last: f.last, Middle: f.middle},
		Position: models.Position(f.position),
		Hired:    hired,
		Salary:   salary,
	}
	if cmd.Flags().Changed("manager") {
		employee.ManagerID = models.Ref(models.ID(f.manager))
	}
	if cmd.Flags().Changed("department") {
		employee.DepartmentID = models.Ref(models.ID(f.department))
	}
	return employee, nil
}

func (a *app) employeeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "employee",
		Aliases: []string{"emp"},
		Short:   "Read and write employees",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			employees, err := a.service.ListEmployees(cmd.Context())
			if err != nil {
				return err
			}
			return printAll(cmd.OutOrStdout(), employees)
		},
	}

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show one employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			employee, found, err := a.service.GetEmployee(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !found {
				a.logger.Info("employee not found", zap.Int64("employee_id", int64(id)))
				return nil
			}
			return printJSON(cmd.OutOrStdout(), employee)
		},
	}

	byDepartment := a.employeeFilterCommand("by-department DEPARTMENT_ID", "List the employees of a department", (*controller.Service).EmployeesByDepartment)
	byManager := a.employeeFilterCommand("by-manager EMPLOYEE_ID", "List the direct reports of an employee", (*controller.Service).EmployeesByManager)

	var flags employeeFlags
	save := &cobra.Command{
		Use:   "save",
		Short: "Insert a new employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			employee, err := flags.employee(cmd)
			if err != nil {
				return err
			}
			saved, err := a.service.SaveEmployee(cmd.Context(), employee)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), saved)
		},
	}
	save.Flags().Int64Var(&flags.id, "id", 0, "employee id")
	save.Flags().StringVar(&flags.first, "first", "", "first name")
	save.Flags().StringVar(&flags.last, "last", "", "last name")
	save.Flags().StringVar(&flags.middle, "middle", "", "middle name")
	save.Flags().StringVar(&flags.position, "position", "", "position, e.g. DEVELOPER")
	save.Flags().StringVar(&flags.hired, "hired", "", "hire date as YYYY-MM-DD")
	save.Flags().StringVar(&flags.salary, "salary", "", "salary, e.g. 1000.00")
	save.Flags().Int64Var(&flags.manager, "manager", 0, "manager's employee id")
	save.Flags().Int64Var(&flags.department, "department", 0, "department id")
	for _, name := range []string{"id", "first", "last", "position", "hired", "salary"} {
		_ = save.MarkFlagRequired(name)
	}

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an employee; absent ids are ignored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.service.DeleteEmployee(cmd.Context(), id)
		},
	}

	cmd.AddCommand(list, get, byDepartment, byManager, save, del)
	return cmd
}

// employeeFilterCommand builds a list command whose single argument is
// handed to filter. a.service only exists once setup ran, so filter is a
// method expression bound at run time.
func (a *app) employeeFilterCommand(use, short string, filter func(*controller.Service, context.Context, models.ID) ([]models.Employee, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			employees, err := filter(a.service, cmd.Context(), id)
			if err != nil {
				return err
			}
			return printAll(cmd.OutOrStdout(), employees)
		},
	}
}

func (a *app) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print change events as they are published",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.initBase()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(a.cfg.KafkaBrokers) == 0 {
				return fmt.Errorf("%w: KAFKA_BROKERS is not configured", e.ErrInvalidInput)
			}
			consumer := events.NewConsumer(a.cfg.KafkaBrokers, a.cfg.GroupID, a.cfg.Topic, a.logger)
			defer consumer.Close()

			out := cmd.OutOrStdout()
			consumer.RegisterHandler(func(_ context.Context, event events.Event) error {
				return printJSON(out, event)
			})
			a.logger.Info("watching change events", zap.String("topic", a.cfg.Topic))
			consumer.Run(cmd.Context())
			return nil
		},
	}
}
