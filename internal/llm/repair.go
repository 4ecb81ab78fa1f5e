package llm

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"
)

// RepairStats tracks what it took to turn a model response into valid JSON.
type RepairStats struct {
	OriginalBytes int           `json:"original_bytes"`
	RepairedBytes int           `json:"repaired_bytes"`
	RepairTime    time.Duration `json:"repair_time"`
	WasRepaired   bool          `json:"was_repaired"`
}

// DecodeStructuredResponse extracts the JSON payload from a raw model
// response (models wrap JSON in prose or markdown fences), repairs it if
// malformed, and decodes it into target.
func DecodeStructuredResponse(raw string, target interface{}) (RepairStats, error) {
	start := time.Now()
	stats := RepairStats{OriginalBytes: len(raw)}

	jsonStr := extractJSON(raw)
	if jsonStr == "" {
		return stats, fmt.Errorf("no JSON found in response")
	}

	if err := json.Unmarshal([]byte(jsonStr), target); err == nil {
		stats.RepairedBytes = len(jsonStr)
		stats.RepairTime = time.Since(start)
		return stats, nil
	}

	repaired, err := jsonrepair.JSONRepair(jsonStr)
	if err != nil {
		return stats, fmt.Errorf("failed to repair JSON: %w", err)
	}
	stats.WasRepaired = true
	stats.RepairedBytes = len(repaired)
	stats.RepairTime = time.Since(start)

	if err := json.Unmarshal([]byte(repaired), target); err != nil {
		return stats, fmt.Errorf("repaired JSON still invalid: %w", err)
	}
	return stats, nil
}

// extractJSON pulls the first JSON object or array out of surrounding
// text. Markdown code fences are stripped first.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[idx+3:]
		s = strings.TrimPrefix(s, "json")
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
		s = strings.TrimSpace(s)
	}

	objStart := strings.IndexAny(s, "{[")
	if objStart < 0 {
		return ""
	}
	open := s[objStart]
	var close byte = '}'
	if open == '[' {
		close = ']'
	}
	if objEnd := strings.LastIndexByte(s, close); objEnd > objStart {
		return s[objStart : objEnd+1]
	}
	// Unterminated payload, hand the rest to the repairer
	return s[objStart:]
}
