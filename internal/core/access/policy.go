// Package access はロールに基づく閲覧・更新ルールを一箇所にまとめます。
package access

import (
	"fmt"
	"strings"

	"github.com/ogurasousui/attendance-payroll/internal/core/apperr"
)

// Role は利用者のロールです。
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Identity は呼び出し元の認証済み主体です。サービスの入力として明示的に渡されます。
type Identity struct {
	ProfileID string
	Role      Role
}

// IsAdmin は管理者かどうかを返します。
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Action はポリシーで判定する操作です。
type Action string

const (
	ActionPunch            Action = "attendance.punch"
	ActionViewAttendance   Action = "attendance.view"
	ActionToggleFieldVisit Action = "attendance.toggle_field_visit"
	ActionViewEmployee     Action = "employee.view"
	ActionManageEmployee   Action = "employee.manage"
	ActionViewPayroll      Action = "payroll.view"
	ActionManagePayroll    Action = "payroll.manage"
	ActionManageRole       Action = "profile.manage_role"
)

// Scope は操作が及ぶ範囲です。
type Scope int

const (
	ScopeNone Scope = iota
	ScopeSelf
	ScopeAny
)

var (
	// ErrPermissionDenied はロールが操作を許可しない場合に返却されます。
	ErrPermissionDenied = fmt.Errorf("access: %w", apperr.ErrPermission)
	// ErrInvalidIdentity は呼び出し元の主体が不正な場合に返却されます。
	ErrInvalidIdentity = fmt.Errorf("access: invalid identity: %w", apperr.ErrPermission)
	// ErrInvalidRole はロール文字列が不正な場合に返却されます。
	ErrInvalidRole = fmt.Errorf("access: invalid role: %w", apperr.ErrInvalidArgument)
)

// admin であっても他人の打刻は行わない。
var rules = map[Action]map[Role]Scope{
	ActionPunch:            {RoleEmployee: ScopeSelf, RoleAdmin: ScopeSelf},
	ActionViewAttendance:   {RoleEmployee: ScopeSelf, RoleAdmin: ScopeAny},
	ActionToggleFieldVisit: {RoleEmployee: ScopeNone, RoleAdmin: ScopeAny},
	ActionViewEmployee:     {RoleEmployee: ScopeSelf, RoleAdmin: ScopeAny},
	ActionManageEmployee:   {RoleEmployee: ScopeNone, RoleAdmin: ScopeAny},
	ActionViewPayroll:      {RoleEmployee: ScopeSelf, RoleAdmin: ScopeAny},
	ActionManagePayroll:    {RoleEmployee: ScopeNone, RoleAdmin: ScopeAny},
	ActionManageRole:       {RoleEmployee: ScopeNone, RoleAdmin: ScopeAny},
}

// ParseRole は文字列をロールに変換します。
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !role.Valid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// Valid は定義済みのロールかどうかを返します。
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployee:
		return true
	default:
		return false
	}
}

// ScopeOf は主体が操作を行える範囲を返します。
func ScopeOf(id Identity, action Action) Scope {
	byRole, ok := rules[action]
	if !ok {
		return ScopeNone
	}
	return byRole[id.Role]
}

// Validate は主体が判定可能な状態か検証します。
func Validate(id Identity) error {
	if strings.TrimSpace(id.ProfileID) == "" || !id.Role.Valid() {
		return ErrInvalidIdentity
	}
	return nil
}

// Authorize は ownerID が所有するリソースに対する更新系操作を判定します。
// 許可されない場合は絞り込みではなく ErrPermissionDenied を返します。
func Authorize(id Identity, action Action, ownerID string) error {
	if err := Validate(id); err != nil {
		return err
	}
	switch ScopeOf(id, action) {
	case ScopeAny:
		return nil
	case ScopeSelf:
		if ownerID == id.ProfileID {
			return nil
		}
	}
	return ErrPermissionDenied
}

// Require は所有者を持たない管理操作を判定します。
func Require(id Identity, action Action) error {
	if err := Validate(id); err != nil {
		return err
	}
	if ScopeOf(id, action) != ScopeAny {
		return ErrPermissionDenied
	}
	return nil
}

// Narrow は参照系操作の対象社員 ID を決定します。
// 自分の範囲しか見られない主体は要求に関わらず自分の ID に絞り込まれます。
// 空文字列の戻り値は全社員を意味します。
func Narrow(id Identity, action Action, requested string) (string, error) {
	if err := Validate(id); err != nil {
		return "", err
	}
	switch ScopeOf(id, action) {
	case ScopeAny:
		return strings.TrimSpace(requested), nil
	case ScopeSelf:
		return id.ProfileID, nil
	default:
		return "", ErrPermissionDenied
	}
}

// CanView は ownerID のリソースを参照できるかどうかを返します。
func CanView(id Identity, action Action, ownerID string) bool {
	if Validate(id) != nil {
		return false
	}
	switch ScopeOf(id, action) {
	case ScopeAny:
		return true
	case ScopeSelf:
		return ownerID == id.ProfileID
	default:
		return false
	}
}
