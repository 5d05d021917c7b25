package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// Metrics provides observability for the company registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	StateTransitions *prometheus.CounterVec
	LedgerDeliveries *prometheus.CounterVec
	CompaniesCreated prometheus.Counter
}

// New creates the registry metrics and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StateTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_company_state_transitions_total",
			Help: "Company suspend/activate attempts by result",
		}, []string{"action", "result"}),
		LedgerDeliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_ledger_deliveries_total",
			Help: "Programme ledger event deliveries by event type and result",
		}, []string{"type", "result"}),
		CompaniesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "registry_companies_created_total",
			Help: "Total number of companies created",
		}),
	}
}

// ObserveTransition records a suspend or activate attempt
func (m *Metrics) ObserveTransition(action string, err error) {
	if m == nil {
		return
	}
	m.StateTransitions.WithLabelValues(action, result(err)).Inc()
}

// ObserveLedgerDelivery records a ledger delivery attempt
func (m *Metrics) ObserveLedgerDelivery(eventType string, err error) {
	if m == nil {
		return
	}
	m.LedgerDeliveries.WithLabelValues(eventType, result(err)).Inc()
}

// IncrementCompaniesCreated records a successful company creation
func (m *Metrics) IncrementCompaniesCreated() {
	if m == nil {
		return
	}
	m.CompaniesCreated.Inc()
}

func result(err error) string {
	if err != nil {
		return resultFailure
	}
	return resultSuccess
}
