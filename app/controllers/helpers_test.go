package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func jsonRequest(t *testing.T, method, path, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postJSON(t *testing.T, h http.Handler, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := jsonRequest(t, http.MethodPost, path, body)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return serve(h, req)
}
