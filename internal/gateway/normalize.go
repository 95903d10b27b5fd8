package gateway

import (
	"encoding/json"
)

// Older deployments of the collection API spelled the identifier "_id"
// (a Mongo artifact). Normalization happens here, at the API boundary,
// so every downstream component sees exactly one canonical "id" field.

// normalizeObject rewrites a single entity payload, copying "_id" into
// "id" when "id" is absent. Payloads that are not objects, or that
// need no rewrite, are returned untouched.
func normalizeObject(raw json.RawMessage) json.RawMessage {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return raw
	}
	legacy, hasLegacy := obj["_id"]
	if !hasLegacy {
		return raw
	}
	if id, hasID := obj["id"]; !hasID || string(id) == `""` || string(id) == "null" {
		obj["id"] = legacy
	}
	delete(obj, "_id")
	rewritten, err := json.Marshal(obj)
	if err != nil {
		return raw
	}
	return rewritten
}

// normalizeList applies normalizeObject element-wise. Non-array
// payloads and junk elements pass through unchanged so the response
// validator still gets to see (and log) them.
func normalizeList(raw json.RawMessage) json.RawMessage {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return raw
	}
	for i, elem := range elems {
		elems[i] = normalizeObject(elem)
	}
	rewritten, err := json.Marshal(elems)
	if err != nil {
		return raw
	}
	return rewritten
}
