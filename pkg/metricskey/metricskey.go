package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	StatsToolCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_succeeded",
		Help:         "stats_tool_calls_succeeded provides total tool calls that returned formatted records",
		RequiredTags: []string{"tool"},
	}

	// StatsToolCallsAbsent counts calls answered with the tool's fixed failure message
	StatsToolCallsAbsent = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_absent",
		Help:         "stats_tool_calls_absent provides total tool calls that found no data",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_failed",
		Help:         "stats_tool_calls_failed provides total tool calls failed on invalid input",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsNotFound = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_not_found",
		Help:         "stats_tool_calls_not_found provides total calls of unknown tools",
		RequiredTags: []string{"tool"},
	}

	StatsFetchFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_fetch_failed",
		Help:         "stats_fetch_failed provides total upstream requests that produced no data",
		RequiredTags: []string{"outcome"},
	}
)

// Perf
var (
	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of tool call",
		RequiredTags: []string{"tool"},
	}

	PerfFetch = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_fetch",
		Help:         "perf_fetch provides duration of upstream API request",
		RequiredTags: []string{"outcome"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfFetch,
	&PerfToolCall,
	&StatsFetchFailed,
	&StatsToolCallsAbsent,
	&StatsToolCallsFailed,
	&StatsToolCallsNotFound,
	&StatsToolCallsSucceeded,
}
