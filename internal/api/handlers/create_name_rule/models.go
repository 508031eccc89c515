package create_name_rule

import (
	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/reconciliation"
)

// CreateRuleRequest HTTP request model
type CreateRuleRequest struct {
	Name   string `json:"name"`
	Action string `json:"action"` // ignore | track | alias
	UserID *int64 `json:"userId,omitempty"`
}

// RuleResponse HTTP response model
type RuleResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Action    string `json:"action"`
	UserID    *int64 `json:"userId,omitempty"`
	CreatedAt string `json:"createdAt"`
}

func (r *CreateRuleRequest) ToServiceRequest(role domain.Role) *reconciliation.CreateRuleRequest {
	return &reconciliation.CreateRuleRequest{
		RawName: r.Name,
		Action:  domain.NameRuleAction(r.Action),
		UserID:  r.UserID,
		Role:    role,
	}
}

func FromDomain(rule *domain.AccessNameRule) *RuleResponse {
	return &RuleResponse{
		ID:        rule.ID,
		Name:      rule.RawName,
		Action:    string(rule.Action),
		UserID:    rule.UserID,
		CreatedAt: rule.CreatedAt.Format(domain.DateTimeFormat),
	}
}
