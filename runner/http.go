package runner

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/probeops/healthprobe/probe"
)

// EndpointConfig configures the HTTP boundary around a runner.
type EndpointConfig struct {
	// Options is applied to every run triggered through the endpoint.
	Options Options

	// FailOnDegraded makes the readiness handler answer 503 for a
	// degraded report instead of 200.
	FailOnDegraded bool
}

// LivenessHandler returns an HTTP handler for liveness probes.
// This is a simple check that the service is running.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// ReadinessHandler returns an HTTP handler that runs the probe set and
// maps the overall status to a transport outcome. Caller cancellation
// (client gone) produces no response body at all.
func ReadinessHandler(runner *Runner, cfg EndpointConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := runner.Run(r.Context(), cfg.Options)
		if err != nil {
			// Only cancellation crosses the Run boundary.
			if r.Context().Err() != nil {
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/plain")

		switch report.Status {
		case probe.StatusHealthy:
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
		case probe.StatusDegraded:
			if cfg.FailOnDegraded {
				w.WriteHeader(http.StatusServiceUnavailable)
			} else {
				w.WriteHeader(http.StatusOK)
			}
			_, _ = w.Write([]byte("DEGRADED"))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("UNHEALTHY"))
		}
	}
}

// ReportHandler returns an HTTP handler that serializes the full report
// as JSON. The transport code still reflects the overall status so plain
// monitors need not parse the body.
func ReportHandler(runner *Runner, cfg EndpointConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := runner.Run(r.Context(), cfg.Options)
		if err != nil {
			if r.Context().Err() != nil {
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		code := http.StatusOK
		if report.Status == probe.StatusUnhealthy || (report.Status == probe.StatusDegraded && cfg.FailOnDegraded) {
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(report)
	}
}

// BearerConfig configures the bearer-token guard for the HTTP handlers.
type BearerConfig struct {
	// Secret is the HMAC signing key tokens must verify against.
	Secret []byte

	// Issuer, when set, is required as the token's iss claim.
	Issuer string

	// Audience, when set, is required in the token's aud claim.
	Audience string
}

// RequireBearer wraps next so only requests carrying a valid signed
// bearer token reach it. Health endpoints exposed beyond localhost are
// routinely authenticated; this guard covers the common HMAC case.
func RequireBearer(next http.Handler, cfg BearerConfig) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		if err := verifyBearer(r.Context(), token, cfg); err != nil {
			http.Error(w, "invalid bearer token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}

// verifyBearer parses and validates the token's signature and claims.
func verifyBearer(_ context.Context, token string, cfg BearerConfig) error {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	_, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return cfg.Secret, nil
	}, opts...)
	return err
}
