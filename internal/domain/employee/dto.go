package employee

type DepartmentResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	EmployeeCount int    `json:"employee_count"`
}

type PositionResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	DepartmentID *string `json:"department_id,omitempty"`
}
