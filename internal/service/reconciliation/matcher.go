package reconciliation

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

// Input данные для сверки журнала доступа
type Input struct {
	Rows         []domain.AccessLogRow
	Users        []domain.User
	Reservations []*domain.Reservation
	Rules        []domain.AccessNameRule
	// Насколько раньше начала бронирования допускается проход
	Tolerance time.Duration
}

type directoryEntry struct {
	userID   int64
	first    string
	last     string
	forward  string
	inverted string
}

// Reconcile сопоставляет строки журнала с пользователями и их бронированиями
// Без нечёткого поиска: способы проверяются по порядку, побеждает первое совпадение
func Reconcile(in Input) domain.ReconciliationReport {
	rules := make(map[string]domain.AccessNameRule, len(in.Rules))
	for _, rule := range in.Rules {
		rules[NormalizeName(rule.RawName)] = rule
	}

	directory := make([]directoryEntry, 0, len(in.Users))
	for _, u := range in.Users {
		first, last := NormalizeName(u.FirstName), NormalizeName(u.LastName)
		directory = append(directory, directoryEntry{
			userID:   u.ID,
			first:    first,
			last:     last,
			forward:  NormalizeName(first + " " + last),
			inverted: NormalizeName(last + " " + first),
		})
	}

	byOwner := make(map[int64][]*domain.Reservation)
	for _, r := range in.Reservations {
		if r.Status.IsBlocking() {
			byOwner[r.OwnerID] = append(byOwner[r.OwnerID], r)
		}
	}
	for _, list := range byOwner {
		sort.Slice(list, func(i, j int) bool { return list[i].StartTime.Before(list[j].StartTime) })
	}

	report := domain.ReconciliationReport{
		Results:        make([]domain.MatchResult, 0, len(in.Rows)),
		UnmatchedNames: make([]string, 0),
	}
	seenUnmatched := make(map[string]struct{})

	for _, row := range in.Rows {
		report.Stats.Total++
		name := NormalizeName(row.RawName)
		result := domain.MatchResult{Row: row, Status: domain.MatchUnmatched}

		// 1. Постоянные правила
		var userID *int64
		if rule, ok := rules[name]; ok {
			switch rule.Action {
			case domain.RuleIgnore:
				report.Stats.Ignored++
				continue
			case domain.RuleTrack:
				result.Tracked = true
				report.Stats.Tracked++
				report.Results = append(report.Results, result)
				continue
			case domain.RuleAlias:
				userID = rule.UserID
				result.Method = domain.MatchByAlias
			}
		}

		// 2. Имя из справочника
		if userID == nil {
			if id, method, ok := matchUser(name, directory); ok {
				userID = &id
				result.Method = method
			}
		}

		if userID == nil {
			report.Stats.Unmatched++
			if _, seen := seenUnmatched[row.RawName]; !seen {
				seenUnmatched[row.RawName] = struct{}{}
				report.UnmatchedNames = append(report.UnmatchedNames, row.RawName)
			}
			report.Results = append(report.Results, result)
			continue
		}

		// 3. Бронирование, в которое попадает проход (с допуском на ранний приход)
		result.UserID = userID
		if reservationID, ok := findReservation(byOwner[*userID], row.AccessedAt, in.Tolerance); ok {
			result.Status = domain.MatchValid
			result.ReservationID = &reservationID
			report.Stats.Valid++
		} else {
			result.Status = domain.MatchNoReservation
			report.Stats.NoReservation++
		}
		report.Results = append(report.Results, result)
	}

	return report
}

func matchUser(name string, directory []directoryEntry) (int64, domain.MatchMethod, bool) {
	if name == "" {
		return 0, domain.MatchMethodUnspecified, false
	}
	for _, e := range directory {
		if e.forward != "" && e.forward == name {
			return e.userID, domain.MatchByFullName, true
		}
	}
	for _, e := range directory {
		if e.inverted != "" && e.inverted == name {
			return e.userID, domain.MatchByInvertedName, true
		}
	}
	for _, e := range directory {
		if containsWords(name, e.first) || containsWords(name, e.last) {
			return e.userID, domain.MatchByPartialName, true
		}
	}
	return 0, domain.MatchMethodUnspecified, false
}

// findReservation ищет бронирование с start - tolerance <= at < end
func findReservation(list []*domain.Reservation, at time.Time, tolerance time.Duration) (int64, bool) {
	for _, r := range list {
		if !at.Before(r.StartTime.Add(-tolerance)) && at.Before(r.EndTime) {
			return r.ID, true
		}
	}
	return 0, false
}
