// Package controllers holds the HTTP handlers. Controllers stay thin:
// decode and validate the request, call a service or repository, write the
// uniform JSON envelope.
package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ephremw/gebeya/pkg/router"
)

// paramUint reads a numeric URL parameter. Returns 0 and false on garbage.
func paramUint(r *http.Request, key string) (uint, bool) {
	n, err := strconv.ParseUint(router.Param(r, key), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

// queryInt reads an integer query parameter with a fallback.
func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// queryFloat reads a float query parameter, zero when absent or invalid.
func queryFloat(r *http.Request, key string) float64 {
	f, err := strconv.ParseFloat(r.URL.Query().Get(key), 64)
	if err != nil {
		return 0
	}
	return f
}

// queryList reads a repeatable query parameter, also splitting each value
// on commas: ?size=M&size=L and ?size=M,L read the same.
func queryList(r *http.Request, key string) []string {
	var out []string
	for _, raw := range r.URL.Query()[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
