// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"log/slog"
	"net/http"
)

type httpError struct {
	cause  error
	status int
	body   interface{}
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

// HTTPError create an error with http status code.
func HTTPError(cause error, status int) error {
	return &httpError{
		cause:  cause,
		status: status,
	}
}

// BadRequest convenience method to create http bad request error.
func BadRequest(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusBadRequest,
	}
}

// Forbidden convenience method to create http forbidden error.
func Forbidden(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusForbidden,
	}
}

// ErrorBody is the JSON body of a rejected contract call.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Conflict reports a call rejected by a contract precondition.
func Conflict(kind string, cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusConflict,
		body:   &ErrorBody{Kind: kind, Message: cause.Error()},
	}
}

// HandlerFunc like http.HandlerFunc, but it returns an error.
// If the returned error is httpError type, httpError.status will be responded,
// otherwise http.StatusInternalServerError responded.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc convert HandlerFunc to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := f(w, req)
		if err == nil {
			return
		}
		if he, ok := err.(*httpError); ok {
			switch {
			case he.body != nil:
				if err := WriteJSONStatus(w, he.status, he.body); err != nil {
					slog.Debug("write error body", "err", err)
				}
			case he.cause != nil:
				http.Error(w, he.cause.Error(), he.status)
			default:
				w.WriteHeader(he.status)
			}
			return
		}
		slog.Error("api handler failed", "path", req.URL.Path, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
