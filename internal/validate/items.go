// Package validate filters raw API list payloads into well-formed
// entity slices. Malformed payloads are downgraded to diagnostics and
// an empty result; nothing in this package ever panics or returns nil.
package validate

import (
	"encoding/json"
	"log"

	"github.com/Web-Oliver/pokemon-collection/internal/metrics"
	"github.com/Web-Oliver/pokemon-collection/internal/models"
)

// Logf receives diagnostic messages for rejected payloads. Defaults to
// the standard logger; tests inject a capturing implementation.
type Logf func(format string, args ...any)

// rejection is the per-element failure record produced while parsing.
type rejection struct {
	index  int
	reason string
	value  string
}

// Items parses raw as a JSON array of label entities. A payload that is
// not an array (null, object, scalar, malformed JSON) yields one
// diagnostic and an empty slice. Elements that are null, not objects,
// or missing an id are dropped individually with a diagnostic each.
// Relative order of surviving elements is preserved.
func Items[T models.Entity](raw json.RawMessage, label string, logf Logf) []T {
	if logf == nil {
		logf = log.Printf
	}

	valid, rejections, ok := parse[T](raw)
	if !ok {
		logf("validator: expected array for %s, got: %s", label, truncate(string(raw), 200))
		metrics.ValidatorRejectsTotal.WithLabelValues(label).Inc()
		return []T{}
	}
	for _, r := range rejections {
		logf("validator: dropping invalid %s at index %d (%s): %s", label, r.index, r.reason, truncate(r.value, 200))
		metrics.ValidatorRejectsTotal.WithLabelValues(label).Inc()
	}
	return valid
}

// parse splits raw into surviving entities and per-element rejections.
// ok is false when raw is not an array at all.
func parse[T models.Entity](raw json.RawMessage) ([]T, []rejection, bool) {
	if len(raw) == 0 {
		return nil, nil, false
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, nil, false
	}
	if elems == nil {
		// "null" decodes into a nil slice without error; treat it as
		// not-an-array like any other malformed payload.
		return nil, nil, false
	}

	valid := make([]T, 0, len(elems))
	var rejections []rejection

	for i, elem := range elems {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(elem, &probe); err != nil {
			rejections = append(rejections, rejection{index: i, reason: "not an object", value: string(elem)})
			continue
		}
		if probe == nil {
			rejections = append(rejections, rejection{index: i, reason: "null element", value: string(elem)})
			continue
		}

		var entity T
		if err := json.Unmarshal(elem, &entity); err != nil {
			rejections = append(rejections, rejection{index: i, reason: "malformed entity", value: string(elem)})
			continue
		}
		if entity.GetID() == "" {
			rejections = append(rejections, rejection{index: i, reason: "missing id", value: string(elem)})
			continue
		}
		valid = append(valid, entity)
	}

	return valid, rejections, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
