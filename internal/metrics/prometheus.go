package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

var (
	LoginSuccessTotal   prometheus.Counter
	LoginFailureTotal   prometheus.Counter
	UserRegisteredTotal prometheus.Counter
	TokensIssuedTotal   prometheus.Counter
	TokensRevokedTotal  prometheus.Counter
	UploadsTotal        prometheus.Counter
	ActiveSessionsGauge prometheus.Gauge
)

// InitCustomMetrics initializes and registers custom Prometheus metrics.
// It should be called once at application startup.
func InitCustomMetrics(reg prometheus.Registerer) {
	LoginSuccessTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "farmcare_logins_success_total",
		Help: "Total number of successful logins.",
	})
	LoginFailureTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "farmcare_logins_failure_total",
		Help: "Total number of failed logins.",
	})
	UserRegisteredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "farmcare_users_registered_total",
		Help: "Total number of users registered.",
	})
	TokensIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "farmcare_tokens_issued_total",
		Help: "Total number of access tokens issued.",
	})
	TokensRevokedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "farmcare_tokens_revoked_total",
		Help: "Total number of access tokens revoked on logout.",
	})
	UploadsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "farmcare_image_uploads_total",
		Help: "Total number of plant images uploaded for analysis.",
	})
	ActiveSessionsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "farmcare_active_sessions_gauge",
		Help: "Current number of active user sessions.",
	})

	if reg == nil {
		log.Error().Msg("Prometheus registry is nil, cannot register custom metrics.")
		return
	}
	for _, c := range []prometheus.Collector{
		LoginSuccessTotal, LoginFailureTotal, UserRegisteredTotal,
		TokensIssuedTotal, TokensRevokedTotal, UploadsTotal, ActiveSessionsGauge,
	} {
		if err := reg.Register(c); err != nil {
			log.Warn().Err(err).Msg("Failed to register Prometheus metric")
		}
	}
	log.Info().Msg("Custom Prometheus metrics registered.")
}
