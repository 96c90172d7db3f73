// Package metrics exposes Prometheus instruments for the bot.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Proton-105/juniorsaver-bot/internal/state"
)

const defaultCollectInterval = 10 * time.Second

var (
	botUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Total number of handled updates labeled by action and status",
		},
		[]string{"action", "status"},
	)
	updateDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "update_duration_seconds",
			Help:    "Duration of update handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)
	stateTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "state_transitions_total",
			Help: "Total number of conversation state transitions",
		},
		[]string{"from", "to"},
	)
	invitationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "junior_invitations_total",
			Help: "Total number of junior invitation links sent",
		},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors split by code and severity",
		},
		[]string{"code", "severity"},
	)
	rateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limited_updates_total",
			Help: "Total number of updates rejected by the rate limiter",
		},
	)
	activeConversations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_conversations",
			Help: "Current number of chats with an active conversation",
		},
	)
	conversationsByState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "conversations_by_state",
			Help: "Number of chats per conversation state",
		},
		[]string{"state"},
	)
)

var trackedStates = []state.State{
	state.StateChoosingAction,
	state.StateAwaitingName,
}

func init() {
	state.RegisterTransitionRecorder(RecordStateTransition)
}

// RecordUpdate increments update counters and records duration.
// Only known commands and callback tokens should be passed as action to keep
// label cardinality bounded.
func RecordUpdate(action, status string, duration time.Duration) {
	if action == "" {
		action = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	botUpdatesTotal.WithLabelValues(action, status).Inc()
	updateDurationSeconds.WithLabelValues(action).Observe(duration.Seconds())
}

// RecordStateTransition tracks FSM transitions.
func RecordStateTransition(from, to string) {
	if from == "" {
		from = "unknown"
	}
	if to == "" {
		to = "unknown"
	}

	stateTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordInvitation counts a sent invitation link.
func RecordInvitation() {
	invitationsTotal.Inc()
}

// RecordRateLimited counts an update dropped by the rate limiter.
func RecordRateLimited() {
	rateLimitedTotal.Inc()
}

// RecordError increments error counters with metadata.
func RecordError(code, severity string) {
	if code == "" {
		code = "unknown"
	}
	if severity == "" {
		severity = "unknown"
	}

	errorsTotal.WithLabelValues(code, severity).Inc()
}

// StateSource lists the active conversations.
type StateSource interface {
	GetAllStates(ctx context.Context) ([]*state.UserState, error)
}

// StateCollector periodically gathers conversation counts and emits gauge metrics.
type StateCollector struct {
	source   StateSource
	interval time.Duration
}

// NewStateCollector builds a collector bound to the provided source.
func NewStateCollector(source StateSource) *StateCollector {
	return &StateCollector{source: source, interval: defaultCollectInterval}
}

// Run polls the source until ctx is cancelled.
func (c *StateCollector) Run(ctx context.Context) {
	if c == nil || c.source == nil {
		return
	}

	for {
		_ = c.Collect(ctx)

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.interval):
		}
	}
}

// Collect refreshes the conversation gauges once.
func (c *StateCollector) Collect(ctx context.Context) error {
	states, err := c.source.GetAllStates(ctx)
	if err != nil {
		return err
	}

	activeConversations.Set(float64(len(states)))

	counts := make(map[string]int, len(states))
	for _, st := range states {
		label := "unknown"
		if st != nil && st.CurrentState != state.StateNone {
			label = st.CurrentState.Label()
		}
		counts[label]++
	}

	conversationsByState.Reset()

	for _, tracked := range trackedStates {
		label := tracked.Label()
		conversationsByState.WithLabelValues(label).Set(float64(counts[label]))
		delete(counts, label)
	}

	for label, count := range counts {
		conversationsByState.WithLabelValues(label).Set(float64(count))
	}

	return nil
}
