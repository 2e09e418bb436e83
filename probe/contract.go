package probe

import "encoding/json"

// contract is the minimal JSON shape externally-probed systems emit to be
// understood without falling back to coarser heuristics.
type contract struct {
	Status      string         `json:"status"`
	Description string         `json:"description"`
	Data        map[string]any `json:"data"`
}

// parseContract attempts to decode body as the JSON contract. It reports
// false when the body is not JSON or carries no status field, in which case
// the caller falls back to its domain heuristic (HTTP status code, process
// exit code).
func parseContract(body []byte) (Result, bool) {
	var c contract
	if err := json.Unmarshal(body, &c); err != nil {
		return Result{}, false
	}
	if c.Status == "" {
		return Result{}, false
	}

	r := Result{
		Status:      ParseStatus(c.Status),
		Description: c.Description,
	}
	if len(c.Data) > 0 {
		r.Data = c.Data
	}
	return r, true
}
