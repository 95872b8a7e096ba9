package models

// Employee is a roster entry as the backend returns it. The client never
// mutates one in place; records are created and deleted whole.
type Employee struct {
	ID         int64  `json:"id" db:"id"`
	FullName   string `json:"full_name" db:"full_name"`
	Email      string `json:"email" db:"email"`
	Department string `json:"department" db:"department"`
}

type CreateEmployeeRequest struct {
	FullName   string `json:"full_name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department" validate:"required"`
}
