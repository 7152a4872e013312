package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"engagement-service/internal/core/domain"
)

// WriteJSONError отправляет JSON-ответ с полем "error" и заданным статусом
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// WriteDomainError переводит таксономию ошибок ядра в HTTP-статусы.
// Ничто здесь не фатально: худший случай для пользователя -
// пустое или устаревшее представление.
func WriteDomainError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	var preconditionErr *domain.PreconditionError
	var networkErr *domain.NetworkError
	var applicationErr *domain.ApplicationError

	switch {
	case errors.As(err, &validationErr):
		WriteJSONError(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &preconditionErr):
		WriteJSONError(w, http.StatusConflict, preconditionErr.Error())
	case errors.As(err, &networkErr):
		WriteJSONError(w, http.StatusBadGateway, "marketplace API is unreachable, please retry")
	case errors.As(err, &applicationErr):
		WriteJSONError(w, http.StatusBadGateway, applicationErr.Error())
	default:
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

// GetLimitOrDefault читает query-параметр limit с дефолтом
func GetLimitOrDefault(r *http.Request, defaultLimit int) (int, error) {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return defaultLimit, nil
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return 0, err
	}
	return limit, nil
}
