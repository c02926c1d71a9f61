package domain

// Role determines which workflow operations a user may invoke
type Role string

const (
	RoleManager   Role = "manager"
	RoleDeveloper Role = "developer"
	RoleQA        Role = "qa"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleManager || r == RoleDeveloper || r == RoleQA
}

// UserStatus represents whether a user can be assigned work
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// User represents an account in the tracker
type User struct {
	BaseModel
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	Email     string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email" json:"email"`
	Password  string     `gorm:"type:varchar(255);not null" json:"-"`
	Role      Role       `gorm:"type:varchar(20);not null;index:idx_users_role" json:"role"`
	Status    UserStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Image     *string    `gorm:"type:varchar(255)" json:"image,omitempty"`
	CreatedBy *uint      `json:"created_by,omitempty"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
