package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/internal/service/reservations/models"
)

const (
	msgInternalError = "error interno del servidor"
	msgInvalidBody   = "cuerpo de la solicitud inválido"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    int    `json:"code"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`

	// Пересечения (409)
	ResourceConflicts  []models.ReservationResponse `json:"resourceConflicts,omitempty"`
	AccessoryConflicts []models.ReservationResponse `json:"accessoryConflicts,omitempty"`
	// Экземпляры продления, попавшие на занятое время
	ConflictingInstances []models.ReservationResponse `json:"conflictingInstances,omitempty"`
}

// RespondJSON пишет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// RespondError пишет ответ с ошибкой
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Code: status, Message: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// DecodeJSON декодирует тело запроса; пустое тело - ошибка
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New(msgInvalidBody)
	}
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// ParseTime разбирает время в формате RFC 3339
func ParseTime(field, value string) (time.Time, error) {
	t, err := time.Parse(domain.DateTimeFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", field, err)
	}
	return t, nil
}

// StatusOf HTTP статус для доменной ошибки
func StatusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrRescheduleWindowExpired):
		return http.StatusGone
	case errors.Is(err, domain.ErrAlreadyRescheduled),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrRenewalConflict),
		errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidDate), errors.Is(err, domain.ErrInvalidInterval):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondDomainError пишет ответ для ошибки сервиса или use case
func RespondDomainError(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		RespondInternalError(w)
		return
	}

	text := errorTextOf(err)
	resp := ErrorResponse{
		Code:    status,
		Title:   text.Title,
		Message: text.Message,
	}

	var conflictErr *domain.ConflictError
	var renewalErr *domain.RenewalConflictError
	switch {
	case errors.As(err, &renewalErr):
		resp.ConflictingInstances = reservationList(renewalErr.Instances)
		resp.ResourceConflicts = reservationList(renewalErr.ResourceConflicts)
		resp.AccessoryConflicts = reservationList(renewalErr.AccessoryConflicts)
	case errors.As(err, &conflictErr):
		resp.ResourceConflicts = reservationList(conflictErr.ResourceConflicts)
		resp.AccessoryConflicts = reservationList(conflictErr.AccessoryConflicts)
	}

	RespondJSON(w, status, resp)
}

func reservationList(list []*domain.Reservation) []models.ReservationResponse {
	return models.FromDomainReservationList(list).Reservations
}
