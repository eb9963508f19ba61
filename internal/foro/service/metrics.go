package service

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts forum activity. A nil *Metrics records nothing.
type Metrics struct {
	registrations prometheus.Counter
	logins        *prometheus.CounterVec
	threads       prometheus.Counter
	comments      prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foro_registrations_total",
			Help: "Total users registered.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foro_logins_total",
			Help: "Total login attempts by result.",
		}, []string{"result"}), // success|failure
		threads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foro_threads_created_total",
			Help: "Total threads created.",
		}),
		comments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foro_comments_created_total",
			Help: "Total comments created.",
		}),
	}
	reg.MustRegister(m.registrations, m.logins, m.threads, m.comments)
	return m
}

func (m *Metrics) registered() {
	if m != nil {
		m.registrations.Inc()
	}
}

func (m *Metrics) login(ok bool) {
	if m == nil {
		return
	}
	result := "failure"
	if ok {
		result = "success"
	}
	m.logins.WithLabelValues(result).Inc()
}

func (m *Metrics) threadCreated() {
	if m != nil {
		m.threads.Inc()
	}
}

func (m *Metrics) commentCreated() {
	if m != nil {
		m.comments.Inc()
	}
}
