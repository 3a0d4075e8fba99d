package employee

// Employee is the directory record this service reads but does not own.
type Employee struct {
	ID           string
	FullName     string
	DepartmentID string
	Department   string
	IsActive     bool
}
