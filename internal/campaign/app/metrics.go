package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	campaignsDispatchedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sms_dispatch",
			Name:      "campaigns_dispatched_total",
			Help:      "Total campaign dispatch attempts.",
		},
		[]string{"outcome"}, // "sent", "failed", "blocked"
	)

	recipientSendsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sms_dispatch",
			Name:      "recipient_sends_total",
			Help:      "Total per-recipient send attempts.",
		},
		[]string{"provider", "status"}, // status: "success", "failure"
	)

	providerSendDurationHist = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sms_dispatch",
			Name:      "provider_send_duration_seconds",
			Help:      "Duration of gateway send calls per provider.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	recipientsPerCampaignHist = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "sms_dispatch",
			Name:      "recipients_per_campaign",
			Help:      "Resolved recipient set size per dispatched campaign.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
)
