package repository

import (
	"context"
	"testing"

	"usermanager/internal/database"
	"usermanager/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with the application schema.
// One connection keeps every query on the same in-memory instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// seedRoles inserts the default roles and permissions through the role repository.
func seedRoles(t *testing.T, db *gorm.DB) map[string]model.Role {
	t.Helper()
	ctx := context.Background()
	repo := NewRoleRepository(db)

	perms := make(map[model.PermissionCode]model.Permission)
	for _, def := range model.DefaultPermissions {
		p := def
		require.NoError(t, repo.FindOrCreatePermission(ctx, &p))
		perms[p.Code] = p
	}

	roles := make(map[string]model.Role)
	for _, def := range model.DefaultRoles {
		role := model.Role{RoleName: def.Name, Description: def.Description}
		require.NoError(t, repo.FindOrCreateRole(ctx, &role))
		granted := make([]model.Permission, 0, len(def.Permissions))
		for _, code := range def.Permissions {
			granted = append(granted, perms[code])
		}
		require.NoError(t, repo.ReplacePermissions(ctx, &role, granted))
		roles[role.RoleName] = role
	}
	return roles
}

func strPtr(s string) *string { return &s }

func newUser(identification, phone, email string, roles ...model.Role) *model.User {
	return &model.User{
		Identification: identification,
		FirstName:      "Ana",
		LastName:       "Diaz",
		PhoneNumber:    phone,
		Email:          email,
		HashedPassword: "$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		Roles:          roles,
	}
}

func countRows(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table(table).Count(&n).Error)
	return n
}
