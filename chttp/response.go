package chttp

import (
	"encoding/json"
	"net/http"
)

// Response is the interface for all HTTP responses served by `chttp` handlers
type Response interface {
	WriteTo(w http.ResponseWriter) error
}

// Handler is an HTTP request handler that returns a `chttp.Response`
type Handler func(r *http.Request) Response

// HandlerFunc converts a `chttp.Handler` into a `http.HandlerFunc`
func (h Handler) HandlerFunc() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := h(r)
		if response == nil {
			w.WriteHeader(http.StatusOK)
			return
		}
		err := response.WriteTo(w)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

type simpleResponse struct {
	code int
	body []byte
}

// WriteTo writes the response body with its status code
func (sr simpleResponse) WriteTo(w http.ResponseWriter) error {
	w.WriteHeader(sr.code)
	_, err := w.Write(sr.body)
	return err
}

// SimpleResponse returns a chttp.Response with the given code and body
func SimpleResponse(code int, body []byte) Response {
	return simpleResponse{code: code, body: body}
}

type simpleErrorResponse struct {
	code int
	err  error
}

// WriteTo writes the error as a JSON envelope with its status code
func (ser simpleErrorResponse) WriteTo(w http.ResponseWriter) error {
	w.WriteHeader(ser.code)
	body := map[string]interface{}{
		"status": ser.code,
		"error":  ser.err.Error(),
	}
	return json.NewEncoder(w).Encode(body)
}

// SimpleErrorResponse returns a chttp.Response wrapping the given error
func SimpleErrorResponse(code int, err error) Response {
	return simpleErrorResponse{code: code, err: err}
}

// JSONResponseMiddleware sets the Content-Type header for JSON APIs
func JSONResponseMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
