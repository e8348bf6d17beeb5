package model

type EmployeeRole string

const (
	RoleAdmin    EmployeeRole = "admin"
	RoleEmployee EmployeeRole = "employee"
)

func (r EmployeeRole) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// swagger:model Employee
type Employee struct {
	ID       int          `json:"id"`
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Position string       `json:"position"`
	Username string       `json:"username"`
	Password string       `json:"password"`
	Role     EmployeeRole `json:"role"`
}

// EmployeeView 对外返回的员工信息，不包含密码哈希
type EmployeeView struct {
	ID       int          `json:"id"`
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Position string       `json:"position"`
	Username string       `json:"username"`
	Role     EmployeeRole `json:"role"`
}

func (e Employee) View() EmployeeView {
	return EmployeeView{
		ID:       e.ID,
		Name:     e.Name,
		Email:    e.Email,
		Position: e.Position,
		Username: e.Username,
		Role:     e.Role,
	}
}
