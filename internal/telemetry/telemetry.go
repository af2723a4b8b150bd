// Package telemetry tracks planning throughput, tool usage and LLM
// token consumption, exported through the /metrics endpoint.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Telemetry struct {
	planRequests *prometheus.CounterVec
	planDuration prometheus.Histogram
	toolCalls    *prometheus.CounterVec
	llmRequests  prometheus.Counter
	llmTokens    *prometheus.CounterVec
}

// New registers the service metrics on reg. Pass
// prometheus.DefaultRegisterer in production; tests use a fresh
// registry to avoid duplicate registration.
func New(reg prometheus.Registerer) *Telemetry {
	factory := promauto.With(reg)
	return &Telemetry{
		planRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "confplanner_plan_requests_total",
			Help: "Planning requests by outcome.",
		}, []string{"outcome"}),
		planDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "confplanner_plan_duration_seconds",
			Help:    "End-to-end planning latency.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
		toolCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "confplanner_tool_calls_total",
			Help: "Tool invocations by tool name and outcome.",
		}, []string{"tool", "outcome"}),
		llmRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "confplanner_llm_requests_total",
			Help: "Completion requests sent to the LLM API.",
		}),
		llmTokens: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "confplanner_llm_tokens_total",
			Help: "Tokens consumed, split by direction.",
		}, []string{"direction"}),
	}
}

func (t *Telemetry) ObservePlan(outcome string, d time.Duration) {
	if t == nil {
		return
	}
	t.planRequests.WithLabelValues(outcome).Inc()
	t.planDuration.Observe(d.Seconds())
}

func (t *Telemetry) ObserveToolCall(tool string, err error) {
	if t == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	t.toolCalls.WithLabelValues(tool, outcome).Inc()
}

func (t *Telemetry) ObserveLLM(promptTokens, completionTokens int64) {
	if t == nil {
		return
	}
	t.llmRequests.Inc()
	t.llmTokens.WithLabelValues("prompt").Add(float64(promptTokens))
	t.llmTokens.WithLabelValues("completion").Add(float64(completionTokens))
}
