package http

import (
	"crypto/rsa"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sopatech/wavedesk/internal/auth"
	"github.com/sopatech/wavedesk/internal/submissions"
	"github.com/sopatech/wavedesk/internal/users"
)

func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func NewRouter(
	logger *slog.Logger,
	userH *users.Handler,
	authH *auth.Handler,
	subH *submissions.Handler,
	metricsH http.Handler,
	jwtPublicKey *rsa.PublicKey,
) http.Handler {
	mux := http.NewServeMux()

	wrap := func(h http.Handler) http.Handler {
		return chain(h,
			Recoverer(logger),
			RealIP,
			RequestLogger(logger),
		)
	}

	authn := auth.Authenticate(jwtPublicKey)
	protected := func(h http.HandlerFunc) http.Handler {
		return wrap(authn(h))
	}

	// Public
	mux.Handle("POST /auth/signup", wrap(http.HandlerFunc(userH.Signup)))
	mux.Handle("POST /auth/login", wrap(http.HandlerFunc(userH.Login)))
	mux.Handle("POST /auth/refresh", wrap(http.HandlerFunc(authH.Refresh)))

	// Account
	mux.Handle("POST /auth/logout", protected(authH.Logout))
	mux.Handle("GET /me", protected(userH.Me))
	mux.Handle("GET /me/activity", protected(subH.MyActivity))
	mux.Handle("DELETE /account", protected(userH.DeleteAccount))

	// Submissions. The literal routes (stats, search) are registered alongside
	// the {id} routes; ServeMux prefers the more specific pattern.
	mux.Handle("POST /submissions", protected(subH.Create))
	mux.Handle("GET /submissions", protected(subH.List))
	mux.Handle("GET /submissions/stats", protected(subH.Stats))
	mux.Handle("GET /submissions/search", protected(subH.Search))
	mux.Handle("GET /submissions/{id}", protected(subH.Get))
	mux.Handle("PATCH /submissions/{id}", protected(subH.Update))
	mux.Handle("DELETE /submissions/{id}", protected(subH.Delete))
	mux.Handle("POST /submissions/{id}/approve", protected(subH.Approve))
	mux.Handle("POST /submissions/{id}/reject", protected(subH.Reject))
	mux.Handle("POST /submissions/{id}/resubmit", protected(subH.Resubmit))
	mux.Handle("POST /submissions/{id}/publish", protected(subH.Publish))
	mux.Handle("POST /submissions/{id}/cancel", protected(subH.Cancel))
	mux.Handle("GET /submissions/{id}/activity", protected(subH.Activity))

	// Label manager tools
	mux.Handle("GET /settings", protected(subH.Settings))
	mux.Handle("GET /debug/permissions", protected(subH.DebugPermissions))

	// Ops
	mux.Handle("GET /metrics", wrap(metricsH))
	mux.Handle("GET /healthz", wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	return otelhttp.NewHandler(mux, "http.server")
}
