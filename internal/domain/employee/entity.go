package employee

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the directory view of an employee: identity, placement and
// the compensation fields payroll reads.
type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	DepartmentID     *string
	PositionID       *string
	EmploymentStatus EmploymentStatus
	BaseSalary       decimal.Decimal
	Bonus            decimal.Decimal
	Deduction        decimal.Decimal
	HireDate         time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined fields
	DepartmentName *string
	PositionName   *string
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

type Department struct {
	ID            string
	Name          string
	EmployeeCount int
}

type Position struct {
	ID           string
	Name         string
	DepartmentID *string
}

// Profile carries the extension data kept beside the employee record.
type Profile struct {
	EmployeeID        string
	Dependents        []Dependent
	BankName          string
	BankAccountNumber string
	UpdatedAt         time.Time
}

// Dependent is one entry of the profile's dependents array. Entries are
// free-form: only string fields of object entries are picked up, anything
// else still counts as a dependent.
type Dependent struct {
	Name         string `json:"name,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	DateOfBirth  string `json:"date_of_birth,omitempty"`
}

// UnmarshalJSON never fails on a well-formed value.
func (d *Dependent) UnmarshalJSON(data []byte) error {
	*d = Dependent{}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	d.Name = stringField(fields, "name")
	d.Relationship = stringField(fields, "relationship")
	d.DateOfBirth = stringField(fields, "date_of_birth")
	return nil
}

func stringField(fields map[string]json.RawMessage, key string) string {
	var s string
	if raw, ok := fields[key]; ok && json.Unmarshal(raw, &s) == nil {
		return s
	}
	return ""
}

// DecodeDependents decodes a stored dependents array. Null or empty input
// means no dependents; any other non-array value is an error.
func DecodeDependents(data []byte) ([]Dependent, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var dependents []Dependent
	if err := json.Unmarshal(trimmed, &dependents); err != nil {
		return nil, err
	}
	return dependents, nil
}

// DependentCount is the number of declared tax dependents.
func (p Profile) DependentCount() int {
	return len(p.Dependents)
}
