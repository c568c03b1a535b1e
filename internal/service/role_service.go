package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"usermanager/internal/model"
	"usermanager/internal/repository"

	"gorm.io/gorm"
)

// --- DTOs ---

type RoleResponse struct {
	ID          uint                 `json:"id"`
	RoleName    string               `json:"role_name"`
	Description string               `json:"description"`
	Permissions []PermissionResponse `json:"permissions"`
	CreatedAt   string               `json:"created_at"`
}

type PermissionResponse struct {
	ID    uint   `json:"id"`
	Code  string `json:"code"`
	Name  string `json:"name"`
	Group string `json:"group"`
}

// --- Interface ---

// RoleService exposes the seeded, read-only role catalogue.
type RoleService interface {
	ListRoles(ctx context.Context) ([]RoleResponse, error)
	GetRole(ctx context.Context, id uint) (*RoleResponse, error)
	SeedDefaultRolesAndPermissions(ctx context.Context) error
}

type roleService struct {
	repo repository.RoleRepository
	tx   repository.TransactionManager
}

func NewRoleService(repo repository.RoleRepository, tx repository.TransactionManager) RoleService {
	return &roleService{repo: repo, tx: tx}
}

// --- Implementation ---

func (s *roleService) ListRoles(ctx context.Context) ([]RoleResponse, error) {
	roles, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles: %w", err)
	}

	res := make([]RoleResponse, 0, len(roles))
	for _, r := range roles {
		res = append(res, toRoleResponse(r))
	}
	return res, nil
}

func (s *roleService) GetRole(ctx context.Context, id uint) (*RoleResponse, error) {
	role, err := s.repo.FindByIDWithPermissions(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to fetch role: %w", err)
	}

	resp := toRoleResponse(*role)
	return &resp, nil
}

// SeedDefaultRolesAndPermissions creates the built-in permissions and roles if not already
// present and resets each built-in role's grants to the default matrix. Safe to run on every boot.
func (s *roleService) SeedDefaultRolesAndPermissions(ctx context.Context) error {
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		permByCode := make(map[model.PermissionCode]model.Permission, len(model.DefaultPermissions))
		for _, def := range model.DefaultPermissions {
			p := def
			if err := s.repo.FindOrCreatePermission(txCtx, &p); err != nil {
				return fmt.Errorf("failed to seed permission '%s': %w", p.Code, err)
			}
			permByCode[p.Code] = p
		}

		for _, def := range model.DefaultRoles {
			role := model.Role{RoleName: def.Name, Description: def.Description}
			if err := s.repo.FindOrCreateRole(txCtx, &role); err != nil {
				return fmt.Errorf("failed to seed role '%s': %w", def.Name, err)
			}

			perms := make([]model.Permission, 0, len(def.Permissions))
			for _, code := range def.Permissions {
				if p, ok := permByCode[code]; ok {
					perms = append(perms, p)
				}
			}
			if err := s.repo.ReplacePermissions(txCtx, &role, perms); err != nil {
				return fmt.Errorf("failed to assign permissions to role '%s': %w", def.Name, err)
			}
		}
		return nil
	})
}

// --- Helpers ---

func toRoleResponse(r model.Role) RoleResponse {
	perms := make([]PermissionResponse, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		perms = append(perms, PermissionResponse{
			ID:    p.ID,
			Code:  string(p.Code),
			Name:  p.Name,
			Group: p.Group,
		})
	}

	return RoleResponse{
		ID:          r.ID,
		RoleName:    r.RoleName,
		Description: r.Description,
		Permissions: perms,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}
}
