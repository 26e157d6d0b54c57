package domain

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

const (
	UsageLogoRequests = "logoRequests"
	UsageChatHistory  = "chatHistory"
	UsageBizWebAI     = "bizWebAI"

	NoUsageLabel = "No usage yet"
)

// UsageStats maps a metric name to its counter. The set of metrics is open.
type UsageStats map[string]int64

type knownMetric struct {
	key      string
	label    string
	colorKey string
}

var knownMetrics = []knownMetric{
	{key: UsageLogoRequests, label: "Logo Requests", colorKey: "logo"},
	{key: UsageChatHistory, label: "Chat History", colorKey: "chat"},
	{key: UsageBizWebAI, label: "BizWeb AI", colorKey: "bizweb"},
}

var extraColorKeys = []string{"extra1", "extra2", "extra3", "extra4"}

func KnownUsageMetrics() []string {
	keys := make([]string, 0, len(knownMetrics))
	for _, m := range knownMetrics {
		keys = append(keys, m.key)
	}
	return keys
}

type UsageSlice struct {
	Key         string
	Label       string
	Value       int64
	ColorKey    string
	Placeholder bool
}

// UsagePieDataset returns one slice per metric: known metrics first in a fixed
// order, then the remaining keys sorted by name. When every value is zero the
// dataset is a single placeholder slice so the chart still draws a full ring.
func UsagePieDataset(stats UsageStats) []UsageSlice {
	slices := make([]UsageSlice, 0, len(stats))
	seen := make(map[string]struct{}, len(knownMetrics))

	for _, m := range knownMetrics {
		seen[m.key] = struct{}{}
		value, ok := stats[m.key]
		if !ok {
			continue
		}
		slices = append(slices, UsageSlice{Key: m.key, Label: m.label, Value: nonNegative(value), ColorKey: m.colorKey})
	}

	extra := make([]string, 0, len(stats))
	for key := range stats {
		if _, ok := seen[key]; !ok {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for i, key := range extra {
		slices = append(slices, UsageSlice{
			Key:      key,
			Label:    humanizeMetric(key),
			Value:    nonNegative(stats[key]),
			ColorKey: extraColorKeys[i%len(extraColorKeys)],
		})
	}

	if UsageTotal(slices) == 0 {
		return []UsageSlice{{Label: NoUsageLabel, Value: 1, ColorKey: "empty", Placeholder: true}}
	}

	return slices
}

// UsageTotal sums the real slices; placeholders never count.
func UsageTotal(slices []UsageSlice) int64 {
	var total int64
	for _, s := range slices {
		if s.Placeholder {
			continue
		}
		total += s.Value
	}
	return total
}

func (s UsageStats) Total() int64 {
	var total int64
	for _, v := range s {
		total += nonNegative(v)
	}
	return total
}

func (s UsageStats) TotalCompact() string {
	return CompactCount(s.Total())
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

// humanizeMetric turns "imageEdits" or "image_edits" into "Image Edits".
func humanizeMetric(key string) string {
	var b strings.Builder
	upperNext := true
	var prev rune
	for i, r := range key {
		if r == '_' || r == '-' || r == ' ' {
			if b.Len() > 0 {
				b.WriteRune(' ')
			}
			upperNext = true
			prev = r
			continue
		}
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(prev) {
			b.WriteRune(' ')
		}
		if upperNext {
			r = unicode.ToUpper(r)
			upperNext = false
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

// CompactCount formats a counter as 950, 2.0k or 1.3M.
func CompactCount(v int64) string {
	if v < 1_000 {
		return fmt.Sprintf("%d", v)
	}

	if v < 1_000_000 {
		return fmt.Sprintf("%.1fk", float64(v)/1_000)
	}

	return fmt.Sprintf("%.1fM", float64(v)/1_000_000)
}
