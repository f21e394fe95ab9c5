package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "klasly_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "klasly_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "klasly_bookings_total",
			Help: "Total number of bookings by resulting status",
		},
		[]string{"status"},
	)

	BookingCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "klasly_booking_cancellations_total",
			Help: "Total number of booking cancellations",
		},
	)

	CreditDeductionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "klasly_credit_deductions_total",
			Help: "Total number of credit deductions by source kind",
		},
		[]string{"source"},
	)

	CreditRefundsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "klasly_credit_refunds_total",
			Help: "Total number of credit refunds",
		},
	)

	DropInsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "klasly_drop_ins_total",
			Help: "Total number of drop-in attendances recorded",
		},
	)

	GraceExpirationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "klasly_grace_expirations_total",
			Help: "Total number of studios cancelled by the grace sweep",
		},
	)

	PlanTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "klasly_plan_transitions_total",
			Help: "Total number of studio plan status transitions",
		},
		[]string{"from", "to"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "klasly_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "klasly_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(status string) {
	BookingsTotal.WithLabelValues(status).Inc()
}

func RecordBookingCancellation() {
	BookingCancellationsTotal.Inc()
}

func RecordCreditDeduction(source string) {
	CreditDeductionsTotal.WithLabelValues(source).Inc()
}

func RecordCreditRefund() {
	CreditRefundsTotal.Inc()
}

func RecordDropIn() {
	DropInsTotal.Inc()
}

func RecordGraceExpiration() {
	GraceExpirationsTotal.Inc()
}

func RecordPlanTransition(from, to string) {
	PlanTransitionsTotal.WithLabelValues(from, to).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
