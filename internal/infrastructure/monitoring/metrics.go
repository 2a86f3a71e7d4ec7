package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	SchedulesGeneratedTotal *prometheus.CounterVec
	ScheduleDuration        prometheus.Histogram
	PaymentsRecordedTotal   *prometheus.CounterVec
	PIKElectionsTotal       *prometheus.CounterVec
	MissingRatesGauge       prometheus.Gauge
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loan_engine_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		SchedulesGeneratedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_engine_schedules_generated_total",
				Help: "Total number of interest schedules generated, by outcome.",
			},
			[]string{"status"},
		),
		ScheduleDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "loan_engine_schedule_generation_duration_seconds",
				Help:    "Histogram of schedule generation latencies.",
				Buckets: prometheus.DefBuckets,
			},
		),
		PaymentsRecordedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_engine_payments_recorded_total",
				Help: "Total number of payments recorded, by kind and outcome.",
			},
			[]string{"kind", "status"},
		),
		PIKElectionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_engine_pik_elections_total",
				Help: "Total number of PIK election updates, by outcome.",
			},
			[]string{"status"},
		),
		MissingRatesGauge: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "loan_engine_missing_reset_rates",
				Help: "Reset dates required by active loans with no rate observation.",
			},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordScheduleGenerated(status string, duration time.Duration) {
	Business.SchedulesGeneratedTotal.WithLabelValues(status).Inc()
	Business.ScheduleDuration.Observe(duration.Seconds())
}

func RecordPayment(kind, status string) {
	Business.PaymentsRecordedTotal.WithLabelValues(kind, status).Inc()
}

func RecordPIKElection(status string) {
	Business.PIKElectionsTotal.WithLabelValues(status).Inc()
}

func SetMissingResetRates(n int) {
	Business.MissingRatesGauge.Set(float64(n))
}
