// Package services – Prometheus instrumentation for the conversation loop.
//
// Counters are labeled by outcome and action name only; user identifiers are
// never used as labels to keep cardinality bounded.
package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// msgOutcomes counts processed inbound messages by terminal outcome:
	// replied, action, confirmed, off_topic, rate_limited, apology, error.
	msgOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_messages_total",
			Help: "Total inbound messages processed, by outcome.",
		},
		[]string{"outcome"},
	)

	// actionCalls counts dispatched structured actions by catalog name.
	actionCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_actions_total",
			Help: "Total structured actions dispatched, by action name.",
		},
		[]string{"action"},
	)

	// sessionResets counts idle-timeout context resets.
	sessionResets = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_session_resets_total",
			Help: "Total conversations reset after the idle timeout.",
		},
	)

	// modelLat records model completion latency in seconds.
	modelLat = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assistant_model_latency_seconds",
			Help:    "Latency of model backend completions in seconds.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 30},
		},
	)
)

func init() {
	prometheus.MustRegister(msgOutcomes, actionCalls, sessionResets, modelLat)
}

func observeOutcome(outcome string) { msgOutcomes.WithLabelValues(outcome).Inc() }

func observeAction(name string) { actionCalls.WithLabelValues(name).Inc() }

func observeModelLatency(start time.Time) { modelLat.Observe(time.Since(start).Seconds()) }
