package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionRegisterUser = "REGISTER_USER"
	ActionCreateUser   = "CREATE_USER"
	ActionUpdateUser   = "UPDATE_USER"
	ActionDeleteUser   = "DELETE_USER"
)

// AuditLog tracks Who, What, and When for user lifecycle changes
type AuditLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID   *uint     `gorm:"index" json:"actor_id"` // nil for self-registration
	Actor     *User     `gorm:"foreignKey:ActorID;constraint:OnDelete:SET NULL;" json:"actor,omitempty"`
	Action    string    `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID  string    `gorm:"type:varchar(50);index" json:"entity_id"` // user identification
	Details   string    `gorm:"type:jsonb" json:"details"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
