package profile

import (
	"strings"
	"time"

	"github.com/ogurasousui/attendance-payroll/internal/core/access"
)

// Profile は認証主体ごとのプロフィールです。
type Profile struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	Role         access.Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName は表示用の氏名を返します。
func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Identity はプロフィールに対応する主体を返します。
func (p *Profile) Identity() access.Identity {
	return access.Identity{ProfileID: p.ID, Role: p.Role}
}
