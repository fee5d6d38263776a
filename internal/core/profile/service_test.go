package profile

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/attendance-payroll/internal/core/access"
	"github.com/ogurasousui/attendance-payroll/internal/core/apperr"
)

type stubClock struct {
	now time.Time
}

func (s stubClock) Now() time.Time {
	return s.now
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeCache struct {
	entries     map[string]access.Identity
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]access.Identity)}
}

func (c *fakeCache) Get(_ context.Context, id string) (access.Identity, bool) {
	v, ok := c.entries[id]
	return v, ok
}

func (c *fakeCache) Set(_ context.Context, id access.Identity) {
	c.entries[id.ProfileID] = id
}

func (c *fakeCache) Invalidate(_ context.Context, id string) {
	delete(c.entries, id)
	c.invalidated = append(c.invalidated, id)
}

type fakeRepo struct {
	profiles  map[string]*Profile
	employees map[string]bool
	finds     int
}

func newFakeRepo(seed ...*Profile) *fakeRepo {
	r := &fakeRepo{profiles: make(map[string]*Profile), employees: make(map[string]bool)}
	for _, p := range seed {
		copy := *p
		r.profiles[p.ID] = &copy
	}
	return r
}

func (r *fakeRepo) Create(_ context.Context, p *Profile) (*Profile, error) {
	for _, existing := range r.profiles {
		if existing.Email == p.Email {
			return nil, ErrEmailAlreadyExists
		}
	}
	copy := *p
	if copy.ID == "" {
		copy.ID = uuid.NewString()
	}
	r.profiles[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *fakeRepo) Update(_ context.Context, p *Profile) (*Profile, error) {
	if _, ok := r.profiles[p.ID]; !ok {
		return nil, ErrProfileNotFound
	}
	copy := *p
	r.profiles[p.ID] = &copy
	out := copy
	return &out, nil
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*Profile, error) {
	r.finds++
	p, ok := r.profiles[id]
	if !ok {
		return nil, ErrProfileNotFound
	}
	copy := *p
	return &copy, nil
}

func (r *fakeRepo) FindByEmail(_ context.Context, email string) (*Profile, error) {
	for _, p := range r.profiles {
		if p.Email == email {
			copy := *p
			return &copy, nil
		}
	}
	return nil, ErrProfileNotFound
}

func (r *fakeRepo) HasEmployee(_ context.Context, id string) (bool, error) {
	return r.employees[id], nil
}

func seedProfile(role access.Role, email string) *Profile {
	return &Profile{
		ID:           uuid.NewString(),
		Email:        email,
		FirstName:    "Asha",
		LastName:     "Rao",
		Role:         role,
		PasswordHash: "hashed:secret-pass",
	}
}

func TestService_Authenticate(t *testing.T) {
	t.Parallel()

	p := seedProfile(access.RoleEmployee, "asha@example.com")
	cache := newFakeCache()
	svc := NewService(newFakeRepo(p), fakeHasher{}, cache, nil)

	got, err := svc.Authenticate(context.Background(), AuthenticateInput{Email: " ASHA@example.com ", Password: "secret-pass"})
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if got.ID != p.ID {
		t.Fatalf("expected profile %s, got %s", p.ID, got.ID)
	}
	if _, ok := cache.entries[p.ID]; !ok {
		t.Fatalf("expected identity to be cached after login")
	}

	if _, err := svc.Authenticate(context.Background(), AuthenticateInput{Email: "asha@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), AuthenticateInput{Email: "nobody@example.com", Password: "secret-pass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestService_ResolveIdentity_UsesCache(t *testing.T) {
	t.Parallel()

	p := seedProfile(access.RoleAdmin, "admin@example.com")
	repo := newFakeRepo(p)
	svc := NewService(repo, fakeHasher{}, newFakeCache(), nil)

	for i := 0; i < 3; i++ {
		id, err := svc.ResolveIdentity(context.Background(), strings.ToUpper(p.ID))
		if err != nil {
			t.Fatalf("ResolveIdentity returned error: %v", err)
		}
		if id.Role != access.RoleAdmin || id.ProfileID != p.ID {
			t.Fatalf("unexpected identity: %+v", id)
		}
	}
	if repo.finds != 1 {
		t.Fatalf("expected a single store lookup, got %d", repo.finds)
	}

	if _, err := svc.ResolveIdentity(context.Background(), "not-a-uuid"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestService_GetProfile_NarrowsForEmployee(t *testing.T) {
	t.Parallel()

	self := seedProfile(access.RoleEmployee, "self@example.com")
	other := seedProfile(access.RoleEmployee, "other@example.com")
	admin := seedProfile(access.RoleAdmin, "admin@example.com")
	svc := NewService(newFakeRepo(self, other, admin), fakeHasher{}, nil, nil)

	got, err := svc.GetProfile(context.Background(), GetProfileInput{Actor: self.Identity()})
	if err != nil || got.ID != self.ID {
		t.Fatalf("expected own profile, got %+v (%v)", got, err)
	}

	if _, err := svc.GetProfile(context.Background(), GetProfileInput{Actor: self.Identity(), ID: other.ID}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for other profile, got %v", err)
	}

	got, err = svc.GetProfile(context.Background(), GetProfileInput{Actor: admin.Identity(), ID: other.ID})
	if err != nil || got.ID != other.ID {
		t.Fatalf("expected admin to read other profile, got %+v (%v)", got, err)
	}
}

func TestService_ChangePassword(t *testing.T) {
	t.Parallel()

	p := seedProfile(access.RoleEmployee, "asha@example.com")
	repo := newFakeRepo(p)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := NewService(repo, fakeHasher{}, nil, stubClock{now: now})

	if err := svc.ChangePassword(context.Background(), ChangePasswordInput{Actor: p.Identity(), CurrentPassword: "secret-pass", NewPassword: "short"}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), ChangePasswordInput{Actor: p.Identity(), CurrentPassword: "wrong-pass", NewPassword: "new-secret-pass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), ChangePasswordInput{Actor: p.Identity(), CurrentPassword: "secret-pass", NewPassword: "new-secret-pass"}); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}

	stored := repo.profiles[p.ID]
	if stored.PasswordHash != "hashed:new-secret-pass" {
		t.Fatalf("password hash not updated: %s", stored.PasswordHash)
	}
	if !stored.UpdatedAt.Equal(now) {
		t.Fatalf("expected updated_at to use clock")
	}
}

func TestService_UpdateRole(t *testing.T) {
	t.Parallel()

	emp := seedProfile(access.RoleEmployee, "emp@example.com")
	admin := seedProfile(access.RoleAdmin, "admin@example.com")
	cache := newFakeCache()
	svc := NewService(newFakeRepo(emp, admin), fakeHasher{}, cache, nil)

	if _, err := svc.UpdateRole(context.Background(), UpdateRoleInput{Actor: emp.Identity(), ID: emp.ID, Role: access.RoleAdmin}); !errors.Is(err, access.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}

	updated, err := svc.UpdateRole(context.Background(), UpdateRoleInput{Actor: admin.Identity(), ID: emp.ID, Role: access.RoleAdmin})
	if err != nil {
		t.Fatalf("UpdateRole returned error: %v", err)
	}
	if updated.Role != access.RoleAdmin {
		t.Fatalf("expected role admin, got %s", updated.Role)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != emp.ID {
		t.Fatalf("expected cache invalidation for %s, got %v", emp.ID, cache.invalidated)
	}

	if _, err := svc.UpdateRole(context.Background(), UpdateRoleInput{Actor: admin.Identity(), ID: emp.ID, Role: "owner"}); !errors.Is(err, access.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestService_UpdateRole_GuardsInvariants(t *testing.T) {
	t.Parallel()

	staff := seedProfile(access.RoleEmployee, "staff@example.com")
	admin := seedProfile(access.RoleAdmin, "admin@example.com")
	repo := newFakeRepo(staff, admin)
	repo.employees[staff.ID] = true
	cache := newFakeCache()
	svc := NewService(repo, fakeHasher{}, cache, nil)

	if _, err := svc.UpdateRole(context.Background(), UpdateRoleInput{Actor: admin.Identity(), ID: staff.ID, Role: access.RoleAdmin}); !errors.Is(err, ErrEmployeePromotion) || !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("expected ErrEmployeePromotion, got %v", err)
	}
	if repo.profiles[staff.ID].Role != access.RoleEmployee {
		t.Fatalf("role must stay employee, got %s", repo.profiles[staff.ID].Role)
	}

	if _, err := svc.UpdateRole(context.Background(), UpdateRoleInput{Actor: admin.Identity(), ID: admin.ID, Role: access.RoleEmployee}); !errors.Is(err, ErrOwnRoleChange) {
		t.Fatalf("expected ErrOwnRoleChange, got %v", err)
	}
	if repo.profiles[admin.ID].Role != access.RoleAdmin {
		t.Fatalf("admin must keep admin role, got %s", repo.profiles[admin.ID].Role)
	}

	if len(cache.invalidated) != 0 {
		t.Fatalf("rejected changes must not touch the cache, got %v", cache.invalidated)
	}
}

func TestService_CreateAdmin(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	existing := seedProfile(access.RoleEmployee, "asha@example.com")
	repo := newFakeRepo(existing)
	svc := NewService(repo, fakeHasher{}, nil, stubClock{now: now})

	created, err := svc.CreateAdmin(context.Background(), CreateAdminInput{
		Email:     " Root@Example.com ",
		FirstName: "Meera",
		LastName:  "Iyer",
		Password:  "bootstrap-pass",
	})
	if err != nil {
		t.Fatalf("CreateAdmin returned error: %v", err)
	}
	if created.Role != access.RoleAdmin || created.Email != "root@example.com" {
		t.Fatalf("unexpected profile: %+v", created)
	}
	if created.PasswordHash != "hashed:bootstrap-pass" || !created.CreatedAt.Equal(now) {
		t.Fatalf("expected hashed password and clock timestamps, got %+v", created)
	}

	if _, err := svc.CreateAdmin(context.Background(), CreateAdminInput{Email: "asha@example.com", FirstName: "A", LastName: "R", Password: "bootstrap-pass"}); !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
	if _, err := svc.CreateAdmin(context.Background(), CreateAdminInput{Email: "new@example.com", FirstName: "A", LastName: "R", Password: "short"}); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for weak password, got %v", err)
	}
}
