package promptui

import (
	"regexp"
	"sort"
	"strings"
)

// systemPrompt primes the model to answer with a bare PromQL query. The
// known-metrics sample keeps a small model from inventing series names.
const systemPrompt = `You are a PromQL expert.
Answer with ONLY one PromQL query, no extra text and no code fences.
Prometheus scrapes metrics from an OpenTelemetry Collector.
Prefer rate() for counters, histogram_quantile for histograms, and group by service when relevant.
Pick metrics that match the user's request; when there is no clear match, prefer app metrics (demo_*) and HTTP metrics over runtime metrics (go_* or process_*).
If the metric the user names does not exist, return a simple query that makes that obvious (e.g. sum(nonexistent_metric)).
Known metrics (sample):
- demo_requests_total (counter)
- demo_request_latency_ms_bucket / _sum / _count (histogram)
- demo_pending_orders (gauge)
- http_server_duration_milliseconds_sum / _count
- process_cpu_seconds_total
- process_resident_memory_bytes
- up
`

var (
	wordRe  = regexp.MustCompile(`[a-zA-Z0-9_]+`)
	fenceRe = regexp.MustCompile("^`+|`+$")
)

// extractQuery trims whitespace and stray backtick fences from the model's
// reply, leaving just the query text.
func extractQuery(raw string) string {
	return fenceRe.ReplaceAllString(strings.TrimSpace(raw), "")
}

// filterMetricsByPrompt keeps metric names sharing a keyword (longer than
// three characters) with the prompt, falling back to the head of the list
// when nothing matches.
func filterMetricsByPrompt(metricNames []string, prompt string, limit int) []string {
	keywords := map[string]bool{}
	for _, w := range wordRe.FindAllString(prompt, -1) {
		if len(w) > 3 {
			keywords[strings.ToLower(w)] = true
		}
	}
	if len(keywords) == 0 {
		return head(metricNames, limit)
	}
	var filtered []string
	for _, m := range metricNames {
		lower := strings.ToLower(m)
		for k := range keywords {
			if strings.Contains(lower, k) {
				filtered = append(filtered, m)
				break
			}
		}
	}
	if len(filtered) == 0 {
		return head(metricNames, limit)
	}
	return head(filtered, limit)
}

// prioritizeMetrics orders app/HTTP/OTel metrics ahead of runtime metrics.
func prioritizeMetrics(metricNames []string) []string {
	preferred := []string{"demo_", "http_", "otelcol_", "scrape_", "up"}
	score := func(name string) int {
		for _, p := range preferred {
			if strings.HasPrefix(name, p) {
				return 0
			}
		}
		return 1
	}
	out := append([]string(nil), metricNames...)
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := score(out[i]), score(out[j])
		if si != sj {
			return si < sj
		}
		return out[i] < out[j]
	})
	return out
}

// buildTranslationPrompt assembles the full prompt: system priming, an
// optional related-metrics hint, then the user's request.
func buildTranslationPrompt(userPrompt string, metricNames []string) string {
	var hint string
	if filtered := filterMetricsByPrompt(metricNames, userPrompt, 10); len(filtered) > 0 {
		hint = "\nMetrics related to the request (sample): " + strings.Join(filtered, ", ") + "\n"
	} else if len(metricNames) > 0 {
		hint = "\nAvailable metrics (sample): " + strings.Join(head(metricNames, 10), ", ") + "\n"
	}
	return systemPrompt + hint + "\nUser request: " + userPrompt + "\n\nPromQL:"
}

// buildExplainPrompt asks the model for a one-line reading of the result.
func buildExplainPrompt(userPrompt, promql, rawResult string) string {
	if len(rawResult) > 2000 {
		rawResult = rawResult[:2000]
	}
	return `You are an observability assistant.
In one short sentence, explain what the result below says, given the user's request and the generated PromQL.
- Be direct, no code fences.
- If there is no data, say so clearly.

User request: ` + userPrompt + `
PromQL: ` + promql + `
Raw result: ` + rawResult
}

func head(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
