package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	FilesParsed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trespass_files_parsed_total",
		Help: "Total number of source files parsed, by language.",
	}, []string{"language"})

	ParseErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trespass_parse_errors_total",
		Help: "Total number of source files skipped due to parse failures.",
	})

	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trespass_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	ChecksEvaluated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trespass_checks_total",
		Help: "Total number of access attempts evaluated.",
	})

	Denials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trespass_denials_total",
		Help: "Total number of denied access attempts, by member visibility.",
	}, []string{"visibility"})

	UnknownMembers = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trespass_unknown_members_total",
		Help: "Total number of access attempts naming a member no class declares.",
	})

	LintDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "trespass_lint_seconds",
		Help:    "End-to-end duration of a lint run.",
		Buckets: prometheus.DefBuckets,
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trespass_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RelintsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trespass_relints_total",
		Help: "Total number of lint runs triggered by file changes.",
	})
)
