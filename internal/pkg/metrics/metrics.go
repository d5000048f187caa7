package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Payment requests created, by requested plan
	PaymentRequestsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pharmalink_payment_requests_created_total",
		Help: "Total number of payment requests created",
	}, []string{"plan"})

	// Admin decisions on payment requests, by action
	PaymentRequestsProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pharmalink_payment_requests_processed_total",
		Help: "Total number of payment requests confirmed or rejected",
	}, []string{"action"})

	// Plan changes applied to profiles, by resulting plan
	PlanChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pharmalink_plan_changes_total",
		Help: "Total number of subscription plan changes applied",
	}, []string{"plan"})

	WalletActivations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pharmalink_wallet_activations_total",
		Help: "Total number of wallet activations",
	})

	// Features denied by the subscription gate
	FeatureDenied = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pharmalink_feature_denied_total",
		Help: "Total number of requests refused by the feature gate",
	}, []string{"feature"})

	TokensCleaned = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pharmalink_refresh_tokens_cleaned_total",
		Help: "Total number of expired or revoked refresh tokens removed",
	})
)

var once sync.Once

func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			PaymentRequestsCreated,
			PaymentRequestsProcessed,
			PlanChanges,
			WalletActivations,
			FeatureDenied,
			TokensCleaned,
		)
	})
}
