package employee

type CreateEmployeeRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	EmployeeType string `json:"employee_type" binding:"required,oneof=PERMANENT FREELANCER FLEX_WORKER"`
}

type UpdateEmployeeRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	EmployeeType string `json:"employee_type" binding:"required,oneof=PERMANENT FREELANCER FLEX_WORKER"`
	Active       *bool  `json:"active"`
}

type EmployeeResponse struct {
	ID           string `json:"id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	EmployeeType string `json:"employee_type"`
	Active       bool   `json:"active"`
}
