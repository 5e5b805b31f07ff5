package model

// Role 员工角色
type Role string

const (
	RoleGeneral Role = "GENERAL"
	RoleAdmin   Role = "ADMIN"
)

// Valid 判断角色取值是否合法
func (r Role) Valid() bool {
	return r == RoleGeneral || r == RoleAdmin
}

// Employee 员工表，对应 employees（员工目录，本服务只读）
type Employee struct {
	Code         string `gorm:"type:varchar(10);primaryKey"                 json:"code"`
	Name         string `gorm:"type:varchar(20);not null"                   json:"name"`
	Role         Role   `gorm:"type:varchar(10);not null;default:'GENERAL'" json:"role"`
	PasswordHash string `gorm:"type:varchar(255);not null"                  json:"-"`
	FlagDeleteModel
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }
