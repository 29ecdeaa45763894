package router

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"

	"dambo/analyzer"
	"dambo/model"
	"dambo/service"
)

type Route struct {
	Path    string
	Methods []string
	Handler func(w http.ResponseWriter, r *http.Request) error
}

// HTTPError lets a handler pick the response status explicitly. Errors not
// wrapped in one fall back to type-based mapping in WithErrorHandle.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string { return e.Message }

func BadRequest(message string) *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Message: message}
}

func WithErrorHandle(hndl func(w http.ResponseWriter, r *http.Request) error,
) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		err := hndl(w, r)
		if err != nil {
			writeError(w, err)
		}
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var httpErr *HTTPError
	var colErr *analyzer.ColumnNotFoundError
	var numErr *analyzer.NotNumericError
	var nfErr *service.NotFoundError
	switch {
	case errors.As(err, &httpErr):
		status = httpErr.Status
	case errors.As(err, &colErr), errors.As(err, &numErr):
		status = http.StatusBadRequest
	case errors.As(err, &nfErr):
		status = http.StatusNotFound
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body, _ := jsoniter.Marshal(map[string]string{"detail": err.Error()})
	w.Write(body)
}

var handlerRegistry []*Route = nil

func RegisterRoute(r *Route) {
	handlerRegistry = append(handlerRegistry, r)
}

func NewRouter(flagInformation *model.CommandLineFlags) *mux.Router {
	router := mux.NewRouter()
	for _, r := range handlerRegistry {
		router.HandleFunc(r.Path, WithErrorHandle(r.Handler)).Methods(r.Methods...)
	}
	return router
}
