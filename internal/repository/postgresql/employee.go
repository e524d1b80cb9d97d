package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	id, name, email, phone, designation, department, role, status,
	date_of_joining, password_hash, created_at, updated_at
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		emp    employee.Employee
		role   string
		status string
	)
	err := row.Scan(
		&emp.ID, &emp.Name, &emp.Email, &emp.Phone, &emp.Designation, &emp.Department,
		&role, &status, &emp.DateOfJoining, &emp.PasswordHash, &emp.CreatedAt, &emp.UpdatedAt,
	)
	emp.Role = employee.Role(role)
	emp.Status = employee.Status(status)
	return emp, err
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO employees (
			name, email, phone, designation, department, role, status, date_of_joining, password_hash
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newEmployee.Name,
		strings.ToLower(newEmployee.Email),
		newEmployee.Phone,
		newEmployee.Designation,
		newEmployee.Department,
		string(newEmployee.Role),
		string(newEmployee.Status),
		newEmployee.DateOfJoining.Format("2006-01-02"),
		newEmployee.PasswordHash,
	).Scan(&newEmployee.ID, &newEmployee.CreatedAt, &newEmployee.UpdatedAt)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, storageError("create employee", err)
	}

	newEmployee.Email = strings.ToLower(newEmployee.Email)
	return newEmployee, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || pgErrorCode(err) == pgInvalidText {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, storageError("get employee by id", err)
	}
	return emp, nil
}

// GetByEmail implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE email = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, storageError("get employee by email", err)
	}
	return emp, nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, e.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&total); err != nil {
		return nil, 0, storageError("count employees", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := `SELECT ` + employeeColumns + `
		FROM employees
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`

	rows, err := q.Query(ctx, query, filter.Limit, offset)
	if err != nil {
		return nil, 0, storageError("list employees", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0, filter.Limit)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, storageError("scan employee", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storageError("iterate employees", err)
	}

	return employees, total, nil
}

// Update implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Designation != nil {
		updates["designation"] = *req.Designation
	}
	if req.Department != nil {
		updates["department"] = *req.Department
	}
	if req.Role != nil {
		updates["role"] = string(*req.Role)
	}

	if len(updates) == 0 {
		return e.GetByID(ctx, id)
	}

	setClauses := make([]string, 0, len(updates)+1)
	args := make([]interface{}, 0, len(updates)+1)
	argIdx := 1
	// Fixed column order keeps the generated SQL stable.
	for _, col := range []string{"name", "phone", "designation", "department", "role"} {
		val, ok := updates[col]
		if !ok {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, argIdx))
		args = append(args, val)
		argIdx++
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE employees
		SET %s
		WHERE id = $%d
		RETURNING `+employeeColumns,
		strings.Join(setClauses, ", "), argIdx,
	)

	emp, err := scanEmployee(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || pgErrorCode(err) == pgInvalidText {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, storageError("update employee", err)
	}
	return emp, nil
}

// SetStatus implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) SetStatus(ctx context.Context, id string, status employee.Status) error {
	q := GetQuerier(ctx, e.db)

	cmdTag, err := q.Exec(ctx, `
		UPDATE employees SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, string(status), id)
	if err != nil {
		if pgErrorCode(err) == pgInvalidText {
			return employee.ErrEmployeeNotFound
		}
		return storageError("set employee status", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// CountActive implements employee.EmployeeRepository and attendance.RosterReader.
func (e *employeeRepositoryImpl) CountActive(ctx context.Context) (int, error) {
	q := GetQuerier(ctx, e.db)

	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE status = $1`, string(employee.StatusActive)).Scan(&count)
	if err != nil {
		return 0, storageError("count active employees", err)
	}
	return count, nil
}
