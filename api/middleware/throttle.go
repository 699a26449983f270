package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/geolex-tech/storefront-backend/api/responses"
	pkgerrors "github.com/geolex-tech/storefront-backend/pkg/errors"
	"github.com/geolex-tech/storefront-backend/pkg/logger"
)

type attemptCounter interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// ThrottlePolicy caps attempts against one auth surface (sign-in, sign-up,
// or password reset). PerIP counts every request from an address; PerEmail
// counts requests naming the same account, so rotating addresses does not
// dodge the cap. A zero limit turns that counter off, a zero window turns
// the whole policy off.
type ThrottlePolicy struct {
	Surface  string
	Window   time.Duration
	PerIP    int
	PerEmail int
}

func (p ThrottlePolicy) active() bool {
	return p.Window > 0 && (p.PerIP > 0 || p.PerEmail > 0)
}

func (p ThrottlePolicy) surface() string {
	s := strings.ToLower(strings.TrimSpace(p.Surface))
	if s == "" {
		return "auth"
	}
	return s
}

// Throttle rejects requests over the policy's caps with 429. Counters live
// in Redis under throttle:<surface>:..., so the caps hold across replicas.
func Throttle(policy ThrottlePolicy, counter attemptCounter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.active() || counter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if policy.PerIP > 0 {
				if ip := originIP(r); ip != "" {
					key := fmt.Sprintf("throttle:%s:ip:%s", policy.surface(), ip)
					over, attempts, err := bump(ctx, counter, key, policy.Window, policy.PerIP)
					if err != nil {
						responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					}
					if over {
						deny(ctx, logg, w, policy, "ip", attempts)
						return
					}
				}
			}

			if policy.PerEmail > 0 {
				email, err := peekEmail(r)
				if err != nil {
					responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
					return
				}
				if email != "" {
					key := fmt.Sprintf("throttle:%s:email:%s", policy.surface(), digest(email))
					over, attempts, err := bump(ctx, counter, key, policy.Window, policy.PerEmail)
					if err != nil {
						responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					}
					if over {
						deny(ctx, logg, w, policy, "email", attempts)
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bump(ctx context.Context, counter attemptCounter, key string, window time.Duration, limit int) (bool, int64, error) {
	attempts, err := counter.IncrWithTTL(ctx, key, window)
	if err != nil {
		return false, 0, err
	}
	return attempts > int64(limit), attempts, nil
}

// peekEmail pulls the email field out of the JSON body and puts the bytes
// back so the controller can decode the request again. A body that is not
// JSON or carries no email is not an error here; the controller rejects it.
func peekEmail(r *http.Request) (string, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return "", err
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))

	var payload struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", nil
	}
	return strings.ToLower(strings.TrimSpace(payload.Email)), nil
}

func deny(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy ThrottlePolicy, counter string, attempts int64) {
	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"surface":        policy.surface(),
			"counter":        counter,
			"attempts":       attempts,
			"window_seconds": int(policy.Window.Seconds()),
		})
		logg.Warn(logCtx, "auth attempt throttled")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, please try again later"))
}

// originIP prefers the proxy headers the storefront sits behind, then the
// socket address.
func originIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// digest keeps raw emails out of Redis keys.
func digest(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
