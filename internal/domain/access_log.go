package domain

import (
	"fmt"
	"time"
)

// AccessLogRow строка журнала физического доступа
type AccessLogRow struct {
	RawName    string
	AccessedAt time.Time
	Door       string
}

// NameRuleAction действие правила для имени из журнала
type NameRuleAction string

const (
	RuleIgnore NameRuleAction = "ignore" // строка отбрасывается
	RuleTrack  NameRuleAction = "track"  // строка остаётся, не сопоставляется и не оплачивается
	RuleAlias  NameRuleAction = "alias"  // имя - постоянный псевдоним пользователя
)

// Validate проверяет действие
func (a NameRuleAction) Validate() error {
	switch a {
	case RuleIgnore, RuleTrack, RuleAlias:
		return nil
	default:
		return fmt.Errorf("%w: unknown name rule action %q", ErrInvalidState, string(a))
	}
}

// AccessNameRule постоянное правило для имени из журнала
type AccessNameRule struct {
	ID        int64
	RawName   string // нормализованное имя
	Action    NameRuleAction
	UserID    *int64 // только для alias
	CreatedAt time.Time
}

// Validate проверяет правило
func (r *AccessNameRule) Validate() error {
	if r.RawName == "" {
		return fmt.Errorf("%w: rule name is required", ErrInvalidState)
	}
	if err := r.Action.Validate(); err != nil {
		return err
	}
	if r.Action == RuleAlias && r.UserID == nil {
		return fmt.Errorf("%w: alias rule requires user id", ErrInvalidState)
	}
	if r.Action != RuleAlias && r.UserID != nil {
		return fmt.Errorf("%w: only alias rules reference a user", ErrInvalidState)
	}
	return nil
}

// MatchStatus классификация строки журнала
type MatchStatus string

const (
	MatchValid         MatchStatus = "valid"
	MatchNoReservation MatchStatus = "no_reservation"
	MatchUnmatched     MatchStatus = "unmatched"
)

// MatchMethod каким способом найден пользователь
type MatchMethod string

const (
	MatchByAlias           MatchMethod = "alias"
	MatchByFullName        MatchMethod = "full_name"
	MatchByInvertedName    MatchMethod = "inverted_name"
	MatchByPartialName     MatchMethod = "partial_name"
	MatchMethodUnspecified MatchMethod = ""
)

// MatchResult результат сверки одной строки журнала
type MatchResult struct {
	Row           AccessLogRow
	Status        MatchStatus
	Tracked       bool // строка оставлена правилом track
	UserID        *int64
	Method        MatchMethod
	ReservationID *int64
}

// ReconciliationStats сводка сверки
type ReconciliationStats struct {
	Total         int
	Ignored       int
	Tracked       int
	Valid         int
	NoReservation int
	Unmatched     int
}

// ReconciliationReport результаты сверки
type ReconciliationReport struct {
	Results        []MatchResult
	Stats          ReconciliationStats
	UnmatchedNames []string // различные сырые имена без сопоставления
}
