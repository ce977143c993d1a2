package demoapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"promstack/pkg/types"
)

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	h := NewMux(NewOrderStore(), nil)
	rr := doRequest(t, h, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("health: %d", rr.Code)
	}
	var out types.HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Status != "ok" {
		t.Fatalf("unexpected health: %+v", out)
	}
}

func TestGetItem(t *testing.T) {
	h := NewMux(NewOrderStore(), nil)

	rr := doRequest(t, h, http.MethodGet, "/items/7", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("items: %d body=%s", rr.Code, rr.Body.String())
	}
	var item types.ItemResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &item); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if item.ItemID != 7 || item.SlowPath {
		t.Fatalf("unexpected item: %+v", item)
	}

	// slow=1 takes the delayed path like slow=true does
	rr = doRequest(t, h, http.MethodGet, "/items/7?slow=1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("items slow: %d", rr.Code)
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &item); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !item.SlowPath {
		t.Fatalf("slow=1 should take the slow path: %+v", item)
	}

	// negative ids are rejected
	rr = doRequest(t, h, http.MethodGet, "/items/-1", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("negative id: got %d", rr.Code)
	}
	var er types.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &er); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if er.Code != http.StatusBadRequest {
		t.Fatalf("unexpected error payload: %+v", er)
	}

	// non-numeric id
	rr = doRequest(t, h, http.MethodGet, "/items/abc", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric id: got %d", rr.Code)
	}
}

func TestOrderLifecycle(t *testing.T) {
	store := NewOrderStore()
	h := NewMux(store, nil)

	rr := doRequest(t, h, http.MethodPost, "/orders", `{"item_id":1,"quantity":2}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("create: %d body=%s", rr.Code, rr.Body.String())
	}
	var created types.OrderResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Status != "created" || created.PendingOrders != 1 || created.Order == nil || created.Order.ItemID != 1 {
		t.Fatalf("unexpected create response: %+v", created)
	}

	doRequest(t, h, http.MethodPost, "/orders", `{"item_id":1,"quantity":1}`)
	doRequest(t, h, http.MethodPost, "/orders", `{"item_id":9,"quantity":1}`)
	if store.Pending() != 3 {
		t.Fatalf("pending: got %d want 3", store.Pending())
	}

	rr = doRequest(t, h, http.MethodDelete, "/orders/1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("delete: %d", rr.Code)
	}
	var deleted types.OrderResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &deleted); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if deleted.Status != "deleted" || deleted.Removed != 2 || deleted.PendingOrders != 1 {
		t.Fatalf("unexpected delete response: %+v", deleted)
	}

	// bad body
	rr = doRequest(t, h, http.MethodPost, "/orders", `{`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad body: got %d", rr.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := NewMux(NewOrderStore(), nil)
	// drive one request through the middleware first
	doRequest(t, h, http.MethodGet, "/items/1", "")

	rr := doRequest(t, h, http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics: %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "demoapi_http_requests_total") {
		t.Fatalf("expected request counter in exposition, got: %.200s", rr.Body.String())
	}
}

func TestTruthyParam(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want bool
	}{
		{"true", true},
		{"1", true},
		{"yes", true},
		{"on", true},
		{"TRUE", true},
		{"false", false},
		{"0", false},
		{"", false},
		{"maybe", false},
	} {
		if got := truthyParam(tc.in); got != tc.want {
			t.Errorf("truthyParam(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
