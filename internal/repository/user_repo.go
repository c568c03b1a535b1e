package repository

import (
	"context"

	"usermanager/internal/model"

	"gorm.io/gorm"
)

// UserRepository defines the data access contract for User entities.
// Every Find* method returns the user with roles and their permissions attached,
// and gorm.ErrRecordNotFound when no row matches.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByIdentification(ctx context.Context, identification string) (*model.User, error)
	FindByLogin(ctx context.Context, login string) (*model.User, error)
	ListWithRoles(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, user *model.User, fields map[string]interface{}) error
	ReplaceRoles(ctx context.Context, user *model.User, roles []model.Role) error
	Delete(ctx context.Context, user *model.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) withRoles(ctx context.Context) *gorm.DB {
	return GetDB(ctx, r.db).Preload("Roles.Permissions")
}

// Create inserts the user and its users_roles rows; the roles themselves must already exist.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Omit("Roles.*").Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.withRoles(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByIdentification(ctx context.Context, identification string) (*model.User, error) {
	var user model.User
	if err := r.withRoles(ctx).First(&user, "identification = ?", identification).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByLogin matches either the username or the email.
func (r *userRepository) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	var user model.User
	if err := r.withRoles(ctx).Where("username = ? OR email = ?", login, login).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListWithRoles(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.withRoles(ctx).Order("id asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update writes only the given columns.
func (r *userRepository) Update(ctx context.Context, user *model.User, fields map[string]interface{}) error {
	return GetDB(ctx, r.db).Model(user).Updates(fields).Error
}

func (r *userRepository) ReplaceRoles(ctx context.Context, user *model.User, roles []model.Role) error {
	return GetDB(ctx, r.db).Model(user).Association("Roles").Replace(roles)
}

// Delete removes the user's users_roles rows and then the user itself.
func (r *userRepository) Delete(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Select("Roles").Delete(user).Error
}
