package reconcile_access_log

import (
	"github.com/m04kA/SMC-ConsultorioService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/reconciliation"
)

// AccessLogRowRequest строка журнала доступа
type AccessLogRowRequest struct {
	Name       string `json:"name"`
	AccessedAt string `json:"accessedAt"`
	Door       string `json:"door,omitempty"`
}

// ReconcileRequest HTTP request model
type ReconcileRequest struct {
	Apply bool                  `json:"apply"`
	Rows  []AccessLogRowRequest `json:"rows"`
}

// MatchResultResponse результат по строке журнала
type MatchResultResponse struct {
	Name          string `json:"name"`
	AccessedAt    string `json:"accessedAt"`
	Door          string `json:"door,omitempty"`
	Status        string `json:"status"`
	Tracked       bool   `json:"tracked"`
	UserID        *int64 `json:"userId,omitempty"`
	Method        string `json:"method,omitempty"`
	ReservationID *int64 `json:"reservationId,omitempty"`
}

// StatsResponse сводка сверки
type StatsResponse struct {
	Total         int `json:"total"`
	Ignored       int `json:"ignored"`
	Tracked       int `json:"tracked"`
	Valid         int `json:"valid"`
	NoReservation int `json:"noReservation"`
	Unmatched     int `json:"unmatched"`
}

// ReconcileResponse HTTP response model
type ReconcileResponse struct {
	Results        []MatchResultResponse `json:"results"`
	Stats          StatsResponse         `json:"stats"`
	UnmatchedNames []string              `json:"unmatchedNames"`
	MarkedUsed     int64                 `json:"markedUsed"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *ReconcileRequest) ToServiceRequest(role domain.Role) (*reconciliation.RunRequest, error) {
	rows := make([]domain.AccessLogRow, 0, len(r.Rows))
	for _, row := range r.Rows {
		at, err := handlers.ParseTime("accessedAt", row.AccessedAt)
		if err != nil {
			return nil, err
		}
		rows = append(rows, domain.AccessLogRow{
			RawName:    row.Name,
			AccessedAt: at,
			Door:       row.Door,
		})
	}
	return &reconciliation.RunRequest{
		Rows:  rows,
		Apply: r.Apply,
		Role:  role,
	}, nil
}

// FromServiceResult конвертирует результат сверки в HTTP response
func FromServiceResult(res *reconciliation.RunResult) *ReconcileResponse {
	report := res.Report
	results := make([]MatchResultResponse, 0, len(report.Results))
	for _, m := range report.Results {
		results = append(results, MatchResultResponse{
			Name:          m.Row.RawName,
			AccessedAt:    m.Row.AccessedAt.Format(domain.DateTimeFormat),
			Door:          m.Row.Door,
			Status:        string(m.Status),
			Tracked:       m.Tracked,
			UserID:        m.UserID,
			Method:        string(m.Method),
			ReservationID: m.ReservationID,
		})
	}

	unmatched := report.UnmatchedNames
	if unmatched == nil {
		unmatched = []string{}
	}

	return &ReconcileResponse{
		Results: results,
		Stats: StatsResponse{
			Total:         report.Stats.Total,
			Ignored:       report.Stats.Ignored,
			Tracked:       report.Stats.Tracked,
			Valid:         report.Stats.Valid,
			NoReservation: report.Stats.NoReservation,
			Unmatched:     report.Stats.Unmatched,
		},
		UnmatchedNames: unmatched,
		MarkedUsed:     res.MarkedUsed,
	}
}
