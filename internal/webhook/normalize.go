package webhook

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Thidomsilva/testcheckout/internal/domain"
)

// Event is the canonical form of one gateway notification. Raw keeps the
// original body for logging; it is never persisted.
type Event struct {
	TransactionID string
	Status        string
	EventType     string
	Raw           json.RawMessage
}

// The gateway's payload shape is not contractually fixed. Each concern is
// probed through an ordered list of key paths, first hit wins; new shapes are
// handled by appending a path, not by nesting conditionals.
var (
	eventTypePaths = [][]string{
		{"data", "eventType"},
		{"eventType"},
		{"type"},
		{"event"},
	}
	transactionIDKeys = []string{"transactionId", "transaction_id", "id"}
)

// Normalize maps one of the observed wire shapes to a canonical Event.
// A non-JSON body yields ErrMalformedBody; a parseable body with no
// recognizable transaction id yields ErrMissingTransactionID. A missing
// status is tolerated: the event is returned with Status empty.
func Normalize(rawBody []byte) (*Event, error) {
	var top map[string]any
	if err := json.Unmarshal(rawBody, &top); err != nil {
		return nil, fmt.Errorf("Normalize: %w", domain.ErrMalformedBody)
	}

	ev := &Event{Raw: rawBody}
	ev.EventType = probePaths(top, eventTypePaths)

	// Fields live either inside a nested data object or at top level.
	container := top
	if data, ok := top["data"].(map[string]any); ok {
		container = data
	}

	ev.TransactionID = probeKeys(container, transactionIDKeys)
	if ev.TransactionID == "" {
		ev.TransactionID = probeKeys(top, transactionIDKeys)
	}
	if ev.TransactionID == "" {
		return nil, fmt.Errorf("Normalize: %w", domain.ErrMissingTransactionID)
	}

	ev.Status = stringValue(container["status"])
	if ev.Status == "" {
		ev.Status = stringValue(top["status"])
	}

	return ev, nil
}

func probePaths(obj map[string]any, paths [][]string) string {
	for _, path := range paths {
		if v := lookupPath(obj, path); v != "" {
			return v
		}
	}
	return ""
}

func probeKeys(obj map[string]any, keys []string) string {
	for _, key := range keys {
		if v := stringValue(obj[key]); v != "" {
			return v
		}
	}
	return ""
}

func lookupPath(obj map[string]any, path []string) string {
	current := any(obj)
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return ""
		}
		current = m[key]
	}
	return stringValue(current)
}

// stringValue tolerates numeric transaction ids from older gateway versions.
func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
