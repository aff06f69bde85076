package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

type CORSConfig struct {
	AllowedOrigins   []string // "*" allows any origin
	AllowedMethods   []string // "*" echoes the preflight's requested method
	AllowedHeaders   []string // "*" echoes the preflight's requested headers
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int // seconds
}

// OpenCORSConfig allows any origin, method and header, with credentials.
// Only suitable for local or otherwise trusted deployments.
func OpenCORSConfig() *CORSConfig {
	return &CORSConfig{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"*"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           600,
	}
}

// CORS adds cross-origin headers and answers preflight requests.
// Browsers reject a literal "*" origin when credentials are allowed, so the
// request's Origin is echoed back instead.
func CORS(config *CORSConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || !matches(config.AllowedOrigins, origin) {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Origin", origin)
			if config.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			if len(config.ExposedHeaders) > 0 {
				h.Set("Access-Control-Expose-Headers", strings.Join(config.ExposedHeaders, ", "))
			}

			if r.Method != http.MethodOptions || r.Header.Get("Access-Control-Request-Method") == "" {
				next.ServeHTTP(w, r)
				return
			}

			// Preflight
			if methods := allowList(config.AllowedMethods, r.Header.Get("Access-Control-Request-Method")); methods != "" {
				h.Set("Access-Control-Allow-Methods", methods)
			}
			if headers := allowList(config.AllowedHeaders, r.Header.Get("Access-Control-Request-Headers")); headers != "" {
				h.Set("Access-Control-Allow-Headers", headers)
			}
			if config.MaxAge > 0 {
				h.Set("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))
			}
			w.WriteHeader(http.StatusNoContent)
		})
	}
}

func matches(allowed []string, value string) bool {
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, value) {
			return true
		}
	}
	return false
}

// allowList echoes requested when the list is a wildcard, else joins the list.
func allowList(allowed []string, requested string) string {
	for _, a := range allowed {
		if a == "*" {
			return requested
		}
	}
	return strings.Join(allowed, ", ")
}
