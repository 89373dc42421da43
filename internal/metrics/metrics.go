package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	Registrations = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "angelito_registrations_total", Help: "Total first-time registrations"},
	)
	Reveals = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "angelito_reveals_total", Help: "Total first-time assignment reveals"},
	)
	BadPINAttempts = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "angelito_bad_pin_total", Help: "Total failed PIN checks"},
	)
)

func Register() {
	prometheus.MustRegister(Registrations, Reveals, BadPINAttempts)
}
