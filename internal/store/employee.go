package store

import (
	"construtora/internal/utils"
	"construtora/pkg/types"
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const employeeTableName = "employees"

var employeeColumns = utils.StructTagValues(types.Employee{})

var employeeDependents = append(ownedBy(types.EmployeeDocuments),
	dependent{table: "tool_loans", column: "employee_id", nullify: true},
)

type EmployeeRepository struct {
	pool *pgxpool.Pool
}

func NewEmployeeRepository(pool *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

func (r *EmployeeRepository) Employee(ctx context.Context, employeeID string) (*types.Employee, error) {
	query, args, err := psql().Select(employeeColumns...).From(employeeTableName).
		Where(sq.Eq{"id": employeeID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate employee query: %w", err)
	}

	var employee = new(types.Employee)
	err = pgxscan.Get(ctx, r.pool, employee, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to fetch employee: %w", err)
	}

	return employee, nil
}

// Employees lists employees, optionally only those allocated to a project.
func (r *EmployeeRepository) Employees(ctx context.Context, projectID string) ([]*types.Employee, error) {
	builder := psql().Select(employeeColumns...).From(employeeTableName).OrderBy("name ASC")
	if projectID != "" {
		builder = builder.Where(sq.Eq{"project_id": projectID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate employees query: %w", err)
	}

	employees := make([]*types.Employee, 0)
	err = pgxscan.Select(ctx, r.pool, &employees, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}

	return employees, nil
}

func (r *EmployeeRepository) CreateEmployee(ctx context.Context, employee *types.Employee) error {
	now := time.Now()
	employee.ID = utils.NanoID()
	employee.Active = true
	employee.CreatedAt = now
	employee.UpdatedAt = now

	query, args, err := psql().Insert(employeeTableName).SetMap(utils.StructToMap(employee)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert employee query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create employee")
}

func (r *EmployeeRepository) UpdateEmployee(ctx context.Context, employeeID string, employee *types.Employee) error {
	employee.ID = employeeID
	employee.UpdatedAt = time.Now()

	employeeMap := utils.StructToMap(employee)
	delete(employeeMap, "created_at")

	query, args, err := psql().Update(employeeTableName).SetMap(employeeMap).Where(sq.Eq{"id": employeeID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update employee query for employee %s: %w", employeeID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrEmployeeNotFound
	}

	return nil
}

func (r *EmployeeRepository) DeleteEmployee(ctx context.Context, employeeID string) error {
	return deleteCascade(ctx, r.pool, employeeTableName, employeeID, employeeDependents, types.ErrEmployeeNotFound)
}
