package models

import (
	"time"

	"github.com/lib/pq"
)

// User represents the identity entity consumed by catalog and order records.
type User struct {
	ID           uint           `gorm:"column:id;primaryKey;autoIncrement"`
	Username     string         `gorm:"column:username;size:150;not null;uniqueIndex"`
	FirstName    string         `gorm:"column:first_name;size:150;not null;default:''"`
	LastName     string         `gorm:"column:last_name;size:150;not null;default:''"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	IsStaff      bool           `gorm:"column:is_staff;not null;default:false"`
	IsSuperuser  bool           `gorm:"column:is_superuser;not null;default:false"`
	Permissions  pq.StringArray `gorm:"column:permissions;type:text[]"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
}

// HasPerm reports whether the user holds the named permission. Superusers
// implicitly hold every permission.
func (u *User) HasPerm(perm string) bool {
	if u == nil {
		return false
	}
	if u.IsSuperuser {
		return true
	}
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

func (u *User) String() string {
	if u == nil {
		return "None"
	}
	return u.Username
}
