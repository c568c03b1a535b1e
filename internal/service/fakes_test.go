package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"usermanager/internal/credential"
	"usermanager/internal/model"
	"usermanager/pkg/pagination"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- users ---

type fakeUserRepo struct {
	mu       sync.Mutex
	users    map[uint]*model.User
	nextID   uint
	failWith error // returned by every write when set
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*model.User), nextID: 1}
}

func cloneUser(u *model.User) *model.User {
	c := *u
	c.Roles = append([]model.Role(nil), u.Roles...)
	if u.Username != nil {
		name := *u.Username
		c.Username = &name
	}
	return &c
}

func (r *fakeUserRepo) conflicts(candidate *model.User) bool {
	for _, u := range r.users {
		if u.ID == candidate.ID {
			continue
		}
		if u.Identification == candidate.Identification || u.Email == candidate.Email || u.PhoneNumber == candidate.PhoneNumber {
			return true
		}
		if u.Username != nil && candidate.Username != nil && *u.Username == *candidate.Username {
			return true
		}
	}
	return false
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if r.conflicts(user) {
		return gorm.ErrDuplicatedKey
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *fakeUserRepo) find(match func(*model.User) bool) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) FindByIdentification(_ context.Context, identification string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Identification == identification })
}

func (r *fakeUserRepo) FindByLogin(_ context.Context, login string) (*model.User, error) {
	return r.find(func(u *model.User) bool {
		return u.Email == login || (u.Username != nil && *u.Username == login)
	})
}

func (r *fakeUserRepo) ListWithRoles(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	stored, ok := r.users[user.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	candidate := cloneUser(stored)
	for col, v := range fields {
		s := v.(string)
		switch col {
		case "identification":
			candidate.Identification = s
		case "first_name":
			candidate.FirstName = s
		case "last_name":
			candidate.LastName = s
		case "phone_number":
			candidate.PhoneNumber = s
		case "email":
			candidate.Email = s
		case "username":
			candidate.Username = &s
		}
	}
	if r.conflicts(candidate) {
		return gorm.ErrDuplicatedKey
	}
	candidate.UpdatedAt = time.Now()
	r.users[user.ID] = candidate
	return nil
}

func (r *fakeUserRepo) ReplaceRoles(_ context.Context, user *model.User, roles []model.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	stored, ok := r.users[user.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Roles = append([]model.Role(nil), roles...)
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	delete(r.users, user.ID)
	return nil
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// --- roles ---

type fakeRoleRepo struct {
	mu      sync.Mutex
	roles   map[string]*model.Role
	perms   map[model.PermissionCode]*model.Permission
	nextID  uint
	creates int
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{
		roles:  make(map[string]*model.Role),
		perms:  make(map[model.PermissionCode]*model.Permission),
		nextID: 1,
	}
}

// seeded returns a role repo holding the default roles and permissions.
func seededRoleRepo(t *testing.T) *fakeRoleRepo {
	t.Helper()
	repo := newFakeRoleRepo()
	require.NoError(t, NewRoleService(repo, fakeTx{}).SeedDefaultRolesAndPermissions(context.Background()))
	return repo
}

func (r *fakeRoleRepo) FindByName(_ context.Context, name string) (*model.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if role, ok := r.roles[name]; ok {
		c := *role
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRoleRepo) FindByNames(_ context.Context, names []string) ([]model.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool)
	var out []model.Role
	for _, n := range names {
		if role, ok := r.roles[n]; ok && !seen[n] {
			seen[n] = true
			out = append(out, *role)
		}
	}
	return out, nil
}

func (r *fakeRoleRepo) FindByIDWithPermissions(_ context.Context, id uint) (*model.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, role := range r.roles {
		if role.ID == id {
			c := *role
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRoleRepo) ListAll(_ context.Context) ([]model.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Role, 0, len(r.roles))
	for _, role := range r.roles {
		out = append(out, *role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoleName < out[j].RoleName })
	return out, nil
}

func (r *fakeRoleRepo) FindOrCreateRole(_ context.Context, role *model.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.roles[role.RoleName]; ok {
		*role = *existing
		return nil
	}
	role.ID = r.nextID
	r.nextID++
	r.creates++
	c := *role
	r.roles[role.RoleName] = &c
	return nil
}

func (r *fakeRoleRepo) FindOrCreatePermission(_ context.Context, perm *model.Permission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.perms[perm.Code]; ok {
		*perm = *existing
		return nil
	}
	perm.ID = r.nextID
	r.nextID++
	r.creates++
	c := *perm
	r.perms[perm.Code] = &c
	return nil
}

func (r *fakeRoleRepo) ReplacePermissions(_ context.Context, role *model.Role, perms []model.Permission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.roles[role.RoleName]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Permissions = append([]model.Permission(nil), perms...)
	return nil
}

// --- transactions, audit, events ---

type fakeTx struct{}

func (fakeTx) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type auditEntry struct {
	actorID  *uint
	action   string
	entityID string
	details  interface{}
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (a *fakeAudit) Record(_ context.Context, actorID *uint, action, entityID string, details interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, auditEntry{actorID: actorID, action: action, entityID: entityID, details: details})
}

func (a *fakeAudit) GetAuditLogs(context.Context, pagination.Params) ([]AuditLogResponse, int64, error) {
	return nil, 0, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []UserEvent
}

func (p *fakePublisher) Publish(e UserEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

// --- fixture ---

type fixture struct {
	svc    UserService
	users  *fakeUserRepo
	roles  *fakeRoleRepo
	creds  *credential.Service
	audit  *fakeAudit
	events *fakePublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	creds, err := credential.NewService([]byte("test-secret"), 24*time.Hour,
		credential.WithArgon2Params(credential.Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}))
	require.NoError(t, err)

	f := &fixture{
		users:  newFakeUserRepo(),
		roles:  seededRoleRepo(t),
		creds:  creds,
		audit:  &fakeAudit{},
		events: &fakePublisher{},
	}
	f.svc = NewUserService(f.users, f.roles, fakeTx{}, creds, f.audit, f.events)
	return f
}

func anaRequest() CreateUserRequest {
	return CreateUserRequest{
		Identification: "1234567890",
		FirstName:      "Ana",
		LastName:       "Diaz",
		PhoneNumber:    "3000000000",
		Email:          "ana@x.com",
		Password:       "secret123",
	}
}

func strPtr(s string) *string { return &s }
