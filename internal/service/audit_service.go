package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"usermanager/internal/model"
	"usermanager/internal/repository"
	"usermanager/pkg/pagination"
)

type AuditLogResponse struct {
	ID        string `json:"id"`
	ActorID   *uint  `json:"actor_id"`
	Actor     string `json:"actor"`
	Action    string `json:"action"`
	EntityID  string `json:"entity_id"`
	Details   string `json:"details"`
	CreatedAt string `json:"created_at"`
}

type AuditService interface {
	// Record is best-effort: failures are logged, never returned.
	Record(ctx context.Context, actorID *uint, action, entityID string, details interface{})
	GetAuditLogs(ctx context.Context, params pagination.Params) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) Record(ctx context.Context, actorID *uint, action, entityID string, details interface{}) {
	entry := &model.AuditLog{
		ActorID:  actorID,
		Action:   action,
		EntityID: entityID,
		Details:  "{}",
	}
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			entry.Details = string(raw)
		}
	}

	if err := s.repo.Log(ctx, entry); err != nil {
		log.Printf("audit: failed to record %s on %s: %v", action, entityID, err)
	}
}

// GetAuditLogs returns one page of entries, newest first, with actors pre-loaded
func (s *auditService) GetAuditLogs(ctx context.Context, params pagination.Params) ([]AuditLogResponse, int64, error) {
	logs, total, err := s.repo.List(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		actor := "System"
		if l.Actor != nil {
			actor = l.Actor.LoginName()
		}

		res = append(res, AuditLogResponse{
			ID:        l.ID.String(),
			ActorID:   l.ActorID,
			Actor:     actor,
			Action:    l.Action,
			EntityID:  l.EntityID,
			Details:   l.Details,
			CreatedAt: l.CreatedAt.Format(time.RFC3339),
		})
	}

	return res, total, nil
}
