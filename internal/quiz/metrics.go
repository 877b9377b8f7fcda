package quiz

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	attemptsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_quiz_attempts_started_total",
		Help: "Number of quiz attempts started.",
	})
	attemptsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_quiz_attempts_completed_total",
		Help: "Number of quiz attempts graded and persisted.",
	})
)
