package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CartMutationsTotal counts cart operations by kind and result.
	CartMutationsTotal *prometheus.CounterVec
	// CheckoutRejectedTotal counts checkout validation failures by reason.
	CheckoutRejectedTotal *prometheus.CounterVec
	// OrdersConfirmedTotal counts finalized orders.
	OrdersConfirmedTotal prometheus.Counter
	// ItemsRatedTotal counts menu rating submissions.
	ItemsRatedTotal prometheus.Counter
	// OrderValueThousandths records the grand total of confirmed orders.
	OrderValueThousandths prometheus.Histogram
)

// MustRegisterDomainMetrics initialises and registers engine-specific
// Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CartMutationsTotal = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Count of cart mutations by operation and result.",
		}, []string{"op", "result"}))
		CheckoutRejectedTotal = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_rejected_total",
			Help:      "Count of checkout validation failures by reason.",
		}, []string{"reason"}))
		OrdersConfirmedTotal = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_confirmed_total",
			Help:      "Number of orders confirmed and finalized.",
		}))
		ItemsRatedTotal = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_rated_total",
			Help:      "Number of menu rating submissions.",
		}))
		OrderValueThousandths = registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_value_thousandths",
			Help:      "Grand total of confirmed orders in currency thousandths.",
			Buckets:   []float64{5000, 10000, 20000, 40000, 80000, 160000},
		}))
	})
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram) prometheus.Histogram {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing
			}
		}
		panic(err)
	}
	return h
}
