package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"usermanager/internal/credential"
	"usermanager/internal/model"
	"usermanager/internal/repository"

	"gorm.io/gorm"
)

// DTOs for Request validation
type CreateUserRequest struct {
	Identification string  `json:"identification" binding:"required,min=5,max=10"`
	FirstName      string  `json:"first_name" binding:"required,min=3,max=15"`
	LastName       string  `json:"last_name" binding:"required,min=3,max=15"`
	PhoneNumber    string  `json:"phone_number" binding:"required,len=10"`
	Email          string  `json:"email" binding:"required,email"`
	Username       *string `json:"username" binding:"omitempty,min=3,max=50,excludes=@"`
	Password       string  `json:"password" binding:"required,min=6"`
}

// UpdateUserRequest has PATCH semantics: nil fields are left untouched.
type UpdateUserRequest struct {
	Identification *string  `json:"identification" binding:"omitempty,min=5,max=10"`
	FirstName      *string  `json:"first_name" binding:"omitempty,min=3"`
	LastName       *string  `json:"last_name" binding:"omitempty,min=3"`
	PhoneNumber    *string  `json:"phone_number" binding:"omitempty,len=10"`
	Email          *string  `json:"email" binding:"omitempty,email"`
	Username       *string  `json:"username" binding:"omitempty,min=3,max=50,excludes=@"`
	Roles          []string `json:"roles" binding:"omitempty,dive,required"`
}

// LoginRequest is the OAuth2 password-flow form; username may also be the email.
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type RoleSummary struct {
	ID       uint   `json:"id"`
	RoleName string `json:"role_name"`
}

// DTO for returning User without exposing the password hash
type UserResponse struct {
	ID             uint          `json:"id"`
	Identification string        `json:"identification"`
	FirstName      string        `json:"first_name"`
	LastName       string        `json:"last_name"`
	PhoneNumber    string        `json:"phone_number"`
	Email          string        `json:"email"`
	Username       *string       `json:"username"`
	Roles          []RoleSummary `json:"roles"`
	Permissions    []string      `json:"permissions"`
	CreatedAt      string        `json:"created_at"`
	UpdatedAt      string        `json:"updated_at"`
}

// UserService defines the business logic for accounts and authentication
type UserService interface {
	Register(ctx context.Context, req CreateUserRequest, roleName string, actor *model.User) (*UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	Authenticate(ctx context.Context, token string) (*model.User, error)
	GetByIdentification(ctx context.Context, identification string) (*UserResponse, error)
	ListUsers(ctx context.Context) ([]UserResponse, error)
	UpdateUser(ctx context.Context, identification string, req UpdateUserRequest, actor *model.User) (*UserResponse, error)
	DeleteUser(ctx context.Context, identification string, actor *model.User) error
}

type userService struct {
	users  repository.UserRepository
	roles  repository.RoleRepository
	tx     repository.TransactionManager
	creds  *credential.Service
	audit  AuditService
	events EventPublisher
}

// NewUserService wires the user service. events may be nil.
func NewUserService(
	users repository.UserRepository,
	roles repository.RoleRepository,
	tx repository.TransactionManager,
	creds *credential.Service,
	audit AuditService,
	events EventPublisher,
) UserService {
	if events == nil {
		events = noopPublisher{}
	}
	return &userService{users: users, roles: roles, tx: tx, creds: creds, audit: audit, events: events}
}

// ToUserResponse parses a model into the standard API representation
func ToUserResponse(user *model.User) *UserResponse {
	roles := make([]RoleSummary, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, RoleSummary{ID: r.ID, RoleName: r.RoleName})
	}
	codes := user.PermissionCodes()
	perms := make([]string, 0, len(codes))
	for _, c := range codes {
		perms = append(perms, string(c))
	}
	return &UserResponse{
		ID:             user.ID,
		Identification: user.Identification,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		PhoneNumber:    user.PhoneNumber,
		Email:          user.Email,
		Username:       user.Username,
		Roles:          roles,
		Permissions:    perms,
		CreatedAt:      user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      user.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *userService) Register(ctx context.Context, req CreateUserRequest, roleName string, actor *model.User) (*UserResponse, error) {
	if err := checkLoginFields(&req.Identification, req.Username); err != nil {
		return nil, err
	}

	role, err := s.roles.FindByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to fetch role: %w", err)
	}

	hashed, err := s.creds.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Identification: req.Identification,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		PhoneNumber:    req.PhoneNumber,
		Email:          req.Email,
		Username:       req.Username,
		HashedPassword: hashed,
		Roles:          []model.Role{*role},
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.users.Create(txCtx, user)
	})
	if err != nil {
		return nil, translateWriteError("failed to create user", err)
	}

	action := model.ActionCreateUser
	if actor == nil {
		action = model.ActionRegisterUser
	}
	req.Password = ""
	s.audit.Record(ctx, actorID(actor), action, user.Identification, req)
	s.publish(EventUserCreated, user, actor)

	return ToUserResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.users.FindByLogin(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if !s.creds.Verify(req.Password, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.creds.IssueToken(user.LoginName(), user.ID)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// Authenticate verifies the token and loads its user with roles and permissions.
// A token whose user was deleted, or whose login name changed since issuance, is rejected.
func (s *userService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.creds.VerifyToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown user", ErrInvalidToken)
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if user.LoginName() != claims.Subject {
		return nil, fmt.Errorf("%w: subject mismatch", ErrInvalidToken)
	}
	return user, nil
}

func (s *userService) GetByIdentification(ctx context.Context, identification string) (*UserResponse, error) {
	user, err := s.findByIdentification(ctx, identification)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context) ([]UserResponse, error) {
	users, err := s.users.ListWithRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *ToUserResponse(&users[i]))
	}
	return responses, nil
}

func (s *userService) UpdateUser(ctx context.Context, identification string, req UpdateUserRequest, actor *model.User) (*UserResponse, error) {
	if err := checkLoginFields(req.Identification, req.Username); err != nil {
		return nil, err
	}

	user, err := s.findByIdentification(ctx, identification)
	if err != nil {
		return nil, err
	}

	fields := updateFields(req)
	if len(fields) == 0 && req.Roles == nil {
		return ToUserResponse(user), nil
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if len(fields) > 0 {
			if err := s.users.Update(txCtx, user, fields); err != nil {
				return err
			}
		}
		if req.Roles != nil {
			roles, err := s.resolveRoles(txCtx, req.Roles)
			if err != nil {
				return err
			}
			if err := s.users.ReplaceRoles(txCtx, user, roles); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, translateWriteError("failed to update user", err)
	}

	updated, err := s.users.FindByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}

	s.audit.Record(ctx, actorID(actor), model.ActionUpdateUser, identification, req)
	s.publish(EventUserUpdated, updated, actor)

	return ToUserResponse(updated), nil
}

func (s *userService) DeleteUser(ctx context.Context, identification string, actor *model.User) error {
	user, err := s.findByIdentification(ctx, identification)
	if err != nil {
		return err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.users.Delete(txCtx, user)
	})
	if err != nil {
		return translateWriteError("failed to delete user", err)
	}

	// The actor row is gone after a self-delete, so the entry is recorded without one.
	if actor != nil && actor.ID == user.ID {
		actor = nil
	}
	s.audit.Record(ctx, actorID(actor), model.ActionDeleteUser, identification, nil)
	s.publish(EventUserDeleted, user, actor)

	return nil
}

func (s *userService) findByIdentification(ctx context.Context, identification string) (*model.User, error) {
	user, err := s.users.FindByIdentification(ctx, identification)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return user, nil
}

func (s *userService) resolveRoles(ctx context.Context, names []string) ([]model.Role, error) {
	unique := make(map[string]bool, len(names))
	for _, n := range names {
		unique[n] = true
	}

	roles, err := s.roles.FindByNames(ctx, names)
	if err != nil {
		return nil, err
	}
	if len(roles) != len(unique) {
		return nil, ErrRoleNotFound
	}
	return roles, nil
}

func (s *userService) publish(eventType string, user *model.User, actor *model.User) {
	s.events.Publish(UserEvent{
		Type:           eventType,
		UserID:         user.ID,
		Identification: user.Identification,
		ActorID:        actorID(actor),
		At:             time.Now().UTC(),
	})
}

// updateFields maps the present request fields to column names.
func updateFields(req UpdateUserRequest) map[string]interface{} {
	fields := make(map[string]interface{})
	if req.Identification != nil {
		fields["identification"] = *req.Identification
	}
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.PhoneNumber != nil {
		fields["phone_number"] = *req.PhoneNumber
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Username != nil {
		fields["username"] = *req.Username
	}
	return fields
}

// reservedIdentifications are static path segments under /admin that would
// shadow GET /admin/{identification}.
var reservedIdentifications = map[string]bool{
	"roles":      true,
	"events":     true,
	"audit-logs": true,
}

// checkLoginFields keeps usernames and emails in disjoint namespaces, so a login
// string resolves to at most one user, and keeps identifications routable.
func checkLoginFields(identification, username *string) error {
	if identification != nil && reservedIdentifications[*identification] {
		return &FieldError{Field: "identification", Message: "is reserved"}
	}
	if username != nil {
		if strings.TrimSpace(*username) == "" {
			return &FieldError{Field: "username", Message: "must not be blank"}
		}
		if strings.Contains(*username, "@") {
			return &FieldError{Field: "username", Message: "must not contain '@'"}
		}
	}
	return nil
}

// translateWriteError keeps the sentinel errors the handlers map to 4xx and wraps the rest.
func translateWriteError(msg string, err error) error {
	switch {
	case errors.Is(err, ErrRoleNotFound):
		return ErrRoleNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrUserExists
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}

func actorID(actor *model.User) *uint {
	if actor == nil {
		return nil
	}
	id := actor.ID
	return &id
}
