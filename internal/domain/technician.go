package domain

type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleTechnician Role = "Technician"
)

type Technician struct {
	ID            int64  `json:"technicianId"`
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	Specialty     string `json:"specialty,omitempty"`
	AssignedTasks []Task `json:"assignedTasks,omitempty"`
}

// TechnicianOption 只用于下拉选择，以及按 ID 查找显示名
type TechnicianOption struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}
