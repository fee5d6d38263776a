package employee

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/attendance-payroll/internal/core/access"
	"github.com/ogurasousui/attendance-payroll/internal/core/apperr"
	"github.com/ogurasousui/attendance-payroll/internal/core/money"
	"github.com/ogurasousui/attendance-payroll/internal/core/profile"
	"github.com/shopspring/decimal"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeProfileRepo struct {
	profiles map[string]*profile.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*profile.Profile)}
}

func (r *fakeProfileRepo) Create(_ context.Context, p *profile.Profile) (*profile.Profile, error) {
	for _, existing := range r.profiles {
		if existing.Email == p.Email {
			return nil, profile.ErrEmailAlreadyExists
		}
	}
	copy := *p
	copy.ID = uuid.NewString()
	r.profiles[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *fakeProfileRepo) Update(_ context.Context, p *profile.Profile) (*profile.Profile, error) {
	if _, ok := r.profiles[p.ID]; !ok {
		return nil, profile.ErrProfileNotFound
	}
	copy := *p
	r.profiles[p.ID] = &copy
	out := copy
	return &out, nil
}

func (r *fakeProfileRepo) FindByID(_ context.Context, id string) (*profile.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	copy := *p
	return &copy, nil
}

type fakeEmployeeRepo struct {
	employees map[string]*Employee
	order     []string
	profiles  *fakeProfileRepo
}

func newFakeEmployeeRepo(profiles *fakeProfileRepo) *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[string]*Employee), profiles: profiles}
}

func (r *fakeEmployeeRepo) withProfile(e *Employee) *Employee {
	clone := cloneEmployee(e)
	if p, ok := r.profiles.profiles[e.ID]; ok {
		clone.Profile = snapshotOf(p)
	}
	return clone
}

func (r *fakeEmployeeRepo) Create(_ context.Context, e *Employee) (*Employee, error) {
	for _, existing := range r.employees {
		if existing.EmployeeCode == e.EmployeeCode {
			return nil, ErrEmployeeCodeAlreadyExists
		}
	}
	r.employees[e.ID] = cloneEmployee(e)
	r.order = append(r.order, e.ID)
	return r.withProfile(e), nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, e *Employee) (*Employee, error) {
	if _, ok := r.employees[e.ID]; !ok {
		return nil, ErrEmployeeNotFound
	}
	r.employees[e.ID] = cloneEmployee(e)
	return r.withProfile(e), nil
}

func (r *fakeEmployeeRepo) FindByID(_ context.Context, id string) (*Employee, error) {
	emp, ok := r.employees[id]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	return r.withProfile(emp), nil
}

func (r *fakeEmployeeRepo) FindByCode(_ context.Context, code string) (*Employee, error) {
	for _, emp := range r.employees {
		if emp.EmployeeCode == code {
			return r.withProfile(emp), nil
		}
	}
	return nil, ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) List(_ context.Context, filter ListEmployeesFilter) ([]*Employee, string, error) {
	var filtered []*Employee
	query := strings.ToLower(filter.Query)
	for _, id := range r.order {
		emp := r.withProfile(r.employees[id])
		if filter.ID != "" && emp.ID != filter.ID {
			continue
		}
		if query != "" {
			haystack := strings.ToLower(strings.Join([]string{
				emp.Profile.FirstName, emp.Profile.LastName, emp.Profile.Email, emp.Department, emp.EmployeeCode,
			}, " "))
			if !strings.Contains(haystack, query) {
				continue
			}
		}
		filtered = append(filtered, emp)
	}

	if filter.Offset > len(filtered) {
		return []*Employee{}, "", nil
	}

	end := filter.Offset + filter.Limit
	if end > len(filtered) {
		end = len(filtered)
	}

	nextToken := ""
	if end < len(filtered) {
		nextToken = strconv.Itoa(end)
	}

	return filtered[filter.Offset:end], nextToken, nil
}

func (r *fakeEmployeeRepo) ListIDs(_ context.Context) ([]string, error) {
	return append([]string(nil), r.order...), nil
}

func cloneEmployee(emp *Employee) *Employee {
	if emp == nil {
		return nil
	}
	copy := *emp
	if emp.JoinDate != nil {
		joined := *emp.JoinDate
		copy.JoinDate = &joined
	}
	if emp.Profile != nil {
		snapshot := *emp.Profile
		copy.Profile = &snapshot
	}
	return &copy
}

var adminActor = access.Identity{ProfileID: "6f1c2d4e-0000-4000-8000-000000000001", Role: access.RoleAdmin}

func newTestService(now time.Time) (*Service, *fakeEmployeeRepo, *fakeProfileRepo) {
	profiles := newFakeProfileRepo()
	repo := newFakeEmployeeRepo(profiles)
	return NewService(repo, profiles, fakeHasher{}, &stubClock{now: now}, nil), repo, profiles
}

func validCreateInput(code, email string) CreateEmployeeInput {
	joined := time.Date(2024, 4, 1, 15, 30, 0, 0, time.UTC)
	return CreateEmployeeInput{
		Actor:        adminActor,
		Email:        email,
		FirstName:    " Priya ",
		LastName:     " Nair ",
		Password:     "initial-pass",
		EmployeeCode: code,
		Department:   " Sales ",
		Position:     "Field Executive",
		JoinDate:     &joined,
		Salary: SalaryComponents{
			Basic:           decimal.RequireFromString("30000.00"),
			DA:              decimal.RequireFromString("4500.50"),
			HRA:             decimal.RequireFromString("12000"),
			OtherAllowances: decimal.RequireFromString("1500.25"),
		},
	}
}

func TestService_CreateEmployee_Success(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc, _, profiles := newTestService(now)

	created, err := svc.CreateEmployee(context.Background(), validCreateInput(" emp-001 ", "Priya@Example.com"))
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	if created.EmployeeCode != "EMP-001" {
		t.Fatalf("expected normalized employee code, got %s", created.EmployeeCode)
	}
	if created.Department != "Sales" {
		t.Fatalf("expected trimmed department, got %q", created.Department)
	}
	if created.JoinDate == nil || !created.JoinDate.Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected join date: %+v", created.JoinDate)
	}
	if money.String(created.Salary.Gross()) != "48000.75" {
		t.Fatalf("unexpected gross: %s", created.Salary.Gross())
	}
	if !created.CreatedAt.Equal(now) {
		t.Fatalf("expected timestamps to use clock now")
	}

	p, ok := profiles.profiles[created.ID]
	if !ok {
		t.Fatalf("expected profile with employee id to be provisioned")
	}
	if p.Role != access.RoleEmployee || p.Email != "priya@example.com" || p.PasswordHash != "hashed:initial-pass" {
		t.Fatalf("unexpected provisioned profile: %+v", p)
	}
	if created.Profile == nil || created.Profile.FirstName != "Priya" {
		t.Fatalf("expected profile snapshot, got %+v", created.Profile)
	}
}

func TestService_CreateEmployee_RequiresAdmin(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(time.Now().UTC())
	in := validCreateInput("EMP-1", "a@example.com")
	in.Actor = access.Identity{ProfileID: uuid.NewString(), Role: access.RoleEmployee}

	_, err := svc.CreateEmployee(context.Background(), in)
	if !errors.Is(err, apperr.ErrPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
}

func TestService_CreateEmployee_DuplicateCode(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(time.Now().UTC())

	if _, err := svc.CreateEmployee(context.Background(), validCreateInput("EMP-1", "one@example.com")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.CreateEmployee(context.Background(), validCreateInput("emp-1", "two@example.com"))
	if !errors.Is(err, ErrEmployeeCodeAlreadyExists) {
		t.Fatalf("expected ErrEmployeeCodeAlreadyExists, got %v", err)
	}
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict kind, got %v", err)
	}
}

func TestService_CreateEmployee_Validation(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(time.Now().UTC())

	negative := validCreateInput("EMP-2", "neg@example.com")
	negative.Salary.HRA = decimal.RequireFromString("-1")
	if _, err := svc.CreateEmployee(context.Background(), negative); !errors.Is(err, ErrInvalidSalary) {
		t.Fatalf("expected ErrInvalidSalary, got %v", err)
	}

	badCode := validCreateInput("EMP 2", "code@example.com")
	if _, err := svc.CreateEmployee(context.Background(), badCode); !errors.Is(err, ErrInvalidEmployeeCode) {
		t.Fatalf("expected ErrInvalidEmployeeCode, got %v", err)
	}

	weak := validCreateInput("EMP-3", "weak@example.com")
	weak.Password = "123"
	if _, err := svc.CreateEmployee(context.Background(), weak); !errors.Is(err, profile.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestService_UpdateEmployee_Success(t *testing.T) {
	t.Parallel()

	clk := &stubClock{now: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)}
	profiles := newFakeProfileRepo()
	repo := newFakeEmployeeRepo(profiles)
	svc := NewService(repo, profiles, fakeHasher{}, clk, nil)

	created, err := svc.CreateEmployee(context.Background(), validCreateInput("EMP-5", "five@example.com"))
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	clk.now = clk.now.Add(time.Hour)

	newCode := "emp-500"
	newDept := " Operations "
	newLast := " Menon "
	basic := decimal.RequireFromString("32000")
	updated, err := svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{
		Actor:        adminActor,
		ID:           created.ID,
		EmployeeCode: &newCode,
		Department:   &newDept,
		LastName:     &newLast,
		BasicSalary:  &basic,
		JoinDateSet:  true,
	})
	if err != nil {
		t.Fatalf("UpdateEmployee returned error: %v", err)
	}

	if updated.EmployeeCode != "EMP-500" || updated.Department != "Operations" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if !updated.Salary.Basic.Equal(basic) || !updated.Salary.DA.Equal(created.Salary.DA) {
		t.Fatalf("expected only basic salary to change, got %+v", updated.Salary)
	}
	if updated.JoinDate != nil {
		t.Fatalf("expected join date to be cleared")
	}
	if updated.Profile == nil || updated.Profile.LastName != "Menon" {
		t.Fatalf("expected last name update, got %+v", updated.Profile)
	}
	if !updated.UpdatedAt.Equal(clk.now) {
		t.Fatalf("expected updated timestamp to use clock")
	}
}

func TestService_UpdateEmployee_NegativeSalary(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(time.Now().UTC())
	created, err := svc.CreateEmployee(context.Background(), validCreateInput("EMP-6", "six@example.com"))
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	negative := decimal.RequireFromString("-0.01")
	_, err = svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{Actor: adminActor, ID: created.ID, DA: &negative})
	if !errors.Is(err, ErrInvalidSalary) {
		t.Fatalf("expected ErrInvalidSalary, got %v", err)
	}
}

func TestService_GetAndList_NarrowForEmployee(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(time.Now().UTC())

	first, err := svc.CreateEmployee(context.Background(), validCreateInput("EMP-7", "seven@example.com"))
	if err != nil {
		t.Fatalf("seed error: %v", err)
	}
	second, err := svc.CreateEmployee(context.Background(), validCreateInput("EMP-8", "eight@example.com"))
	if err != nil {
		t.Fatalf("seed error: %v", err)
	}

	self := access.Identity{ProfileID: first.ID, Role: access.RoleEmployee}

	if _, err := svc.GetEmployee(context.Background(), GetEmployeeInput{Actor: self, ID: second.ID}); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected other employee to read as not found, got %v", err)
	}

	own, err := svc.GetEmployee(context.Background(), GetEmployeeInput{Actor: self, ID: first.ID})
	if err != nil || own.ID != first.ID {
		t.Fatalf("expected own record, got %+v (%v)", own, err)
	}

	result, err := svc.ListEmployees(context.Background(), ListEmployeesInput{Actor: self})
	if err != nil {
		t.Fatalf("ListEmployees returned error: %v", err)
	}
	if len(result.Employees) != 1 || result.Employees[0].ID != first.ID {
		t.Fatalf("expected only own record, got %d records", len(result.Employees))
	}

	all, err := svc.ListEmployees(context.Background(), ListEmployeesInput{Actor: adminActor, PageSize: 1})
	if err != nil {
		t.Fatalf("ListEmployees returned error: %v", err)
	}
	if len(all.Employees) != 1 || all.NextPageToken != "1" {
		t.Fatalf("expected paginated admin listing, got %d records token %q", len(all.Employees), all.NextPageToken)
	}

	searched, err := svc.ListEmployees(context.Background(), ListEmployeesInput{Actor: adminActor, Query: "EIGHT@"})
	if err != nil {
		t.Fatalf("ListEmployees returned error: %v", err)
	}
	if len(searched.Employees) != 1 || searched.Employees[0].ID != second.ID {
		t.Fatalf("expected search to match by email, got %d records", len(searched.Employees))
	}
}

func TestService_ListEmployees_InvalidPageToken(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(time.Now().UTC())

	_, err := svc.ListEmployees(context.Background(), ListEmployeesInput{Actor: adminActor, PageToken: "abc"})
	if !errors.Is(err, ErrInvalidPageToken) {
		t.Fatalf("expected ErrInvalidPageToken, got %v", err)
	}
}
