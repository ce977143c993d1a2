package types

import "encoding/json"

// Order is the payload accepted by POST /orders on the demo API.
type Order struct {
	// Item being ordered.
	// example: 7
	ItemID int `json:"item_id" example:"7"`
	// Quantity ordered.
	// example: 2
	Quantity int `json:"quantity" example:"2"`
}

// OrderResponse reports the outcome of an order mutation.
type OrderResponse struct {
	// Outcome of the mutation, "created" or "deleted".
	// example: created
	Status string `json:"status" example:"created"`
	// The accepted order; present on create only.
	Order *Order `json:"order,omitempty"`
	// Number of orders removed; present on delete only.
	// example: 1
	Removed int `json:"removed,omitempty" example:"1"`
	// Orders still held in memory after the mutation.
	// example: 3
	PendingOrders int `json:"pending_orders" example:"3"`
}

// ItemResponse is returned by GET /items/{item_id}.
type ItemResponse struct {
	// example: 7
	ItemID int `json:"item_id" example:"7"`
	// example: Sample item
	Detail string `json:"detail" example:"Sample item"`
	// Whether the artificial slow path was taken.
	// example: false
	SlowPath bool `json:"slow_path" example:"false"`
}

// HealthResponse is the demo API's health payload.
type HealthResponse struct {
	// example: ok
	Status string `json:"status" example:"ok"`
}

// UIHealthResponse is the prompt UI's health payload. The URL fields are
// always present, empty when the backend is not configured.
type UIHealthResponse struct {
	// example: ok
	Status string `json:"status" example:"ok"`
	// Prometheus base URL the UI queries.
	// example: http://prometheus:9090
	Prometheus string `json:"prometheus" example:"http://prometheus:9090"`
	// MCP server URL advertised to the UI.
	MCPServer string `json:"mcp_server"`
}

// PromptResult carries everything the prompt UI renders for one request:
// the generated query, the raw Prometheus payload and the LLM's one-line
// reading of it. Error is set instead when any stage failed.
type PromptResult struct {
	// The user's natural-language request.
	// example: average request latency per service
	Prompt string `json:"prompt" example:"average request latency per service"`
	// Generated PromQL, when translation succeeded.
	// example: rate(demo_requests_total[5m])
	Query string `json:"query,omitempty" example:"rate(demo_requests_total[5m])"`
	// Raw query result as returned by Prometheus.
	Result json.RawMessage `json:"result,omitempty"`
	// Natural-language summary of the result.
	NaturalAnswer string `json:"natural_answer,omitempty"`
	// Human-readable error when any stage failed.
	Error string `json:"error,omitempty"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: item_id must be positive
	Error string `json:"error" example:"item_id must be positive"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
