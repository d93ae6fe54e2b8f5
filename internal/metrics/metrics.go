// Package metrics exposes the service's prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "afisha_registrations_total",
		Help: "Successful user registrations.",
	})

	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "afisha_logins_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	LogoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "afisha_logouts_total",
		Help: "Tokens revoked via logout.",
	})

	AuthRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "afisha_auth_rejected_total",
		Help: "Requests rejected by the authentication middleware.",
	})

	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "afisha_rate_limited_total",
		Help: "Requests rejected by the auth endpoint rate limiter.",
	})

	RevokedTokensPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "afisha_revoked_tokens_purged_total",
		Help: "Expired revocation records removed by the background purge.",
	})
)
