package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/query-desk/internal/api/http"
	"github.com/spec-kit/query-desk/internal/api/http/handlers"
	"github.com/spec-kit/query-desk/internal/auth"
	"github.com/spec-kit/query-desk/internal/domain"
	"github.com/spec-kit/query-desk/internal/service"
	"github.com/spec-kit/query-desk/pkg/util/errorutil"
)

// ---- fakes ----

type fakeQueryOps struct {
	createFn       func(callerID int64, input service.QueryCreateInput) (int64, error)
	listMineFn     func(callerID int64) ([]domain.Query, error)
	listByStatusFn func(callerID int64, status string) ([]domain.Query, error)
}

func (f *fakeQueryOps) CreateQuery(_ context.Context, callerID int64, input service.QueryCreateInput) (int64, error) {
	if f.createFn != nil {
		return f.createFn(callerID, input)
	}
	return 0, errorutil.NewInternalError(nil)
}

func (f *fakeQueryOps) ListMine(_ context.Context, callerID int64) ([]domain.Query, error) {
	if f.listMineFn != nil {
		return f.listMineFn(callerID)
	}
	return nil, errorutil.NewInternalError(nil)
}

func (f *fakeQueryOps) ListMineByStatus(_ context.Context, callerID int64, status string) ([]domain.Query, error) {
	if f.listByStatusFn != nil {
		return f.listByStatusFn(callerID, status)
	}
	return nil, errorutil.NewInternalError(nil)
}

// ---- helpers ----

func newQueriesApp(ops handlers.QueryOperations, principal *auth.Principal) *fiber.App {
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), nil, 0)
	app.Use(func(c *fiber.Ctx) error {
		if principal != nil {
			auth.SetPrincipal(c, principal)
		}
		return c.Next()
	})
	h := handlers.NewQueriesHandler(ops)
	app.Post("/api/queries", h.CreateQuery)
	app.Get("/api/queries", h.ListQueries)
	app.Get("/api/queries/status/:status", h.ListQueriesByStatus)
	return app
}

func userPrincipal(id int64) *auth.Principal {
	return &auth.Principal{Role: domain.RoleUser, User: &domain.User{ID: id, Name: "Dana", Email: "dana@example.com"}}
}

func doJSON(t *testing.T, app *fiber.App, method, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	payload := map[string]interface{}{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &payload)
	}
	return resp, payload
}

func errorCode(payload map[string]interface{}) string {
	errObj, _ := payload["error"].(map[string]interface{})
	code, _ := errObj["code"].(string)
	return code
}

// ---- tests ----

func TestCreateQuery_Created(t *testing.T) {
	var gotCaller int64
	ops := &fakeQueryOps{
		createFn: func(callerID int64, input service.QueryCreateInput) (int64, error) {
			gotCaller = callerID
			if input.Title != "Refund" || input.QueryType != "billing" {
				t.Errorf("unexpected input: %+v", input)
			}
			return 1, nil
		},
	}
	app := newQueriesApp(ops, userPrincipal(7))

	resp, payload := doJSON(t, app, http.MethodPost, "/api/queries", map[string]string{
		"title": "Refund", "query_type": "billing", "description": "need refund",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if gotCaller != 7 {
		t.Fatalf("caller id = %d", gotCaller)
	}
	if payload["query_id"].(float64) != 1 {
		t.Fatalf("payload = %v", payload)
	}
}

func TestCreateQuery_ValidationFailurePropagates(t *testing.T) {
	ops := &fakeQueryOps{
		createFn: func(int64, service.QueryCreateInput) (int64, error) {
			return 0, errorutil.NewValidationError("title, query_type and description are required",
				map[string]any{"missing": []string{"title"}})
		},
	}
	app := newQueriesApp(ops, userPrincipal(7))

	resp, payload := doJSON(t, app, http.MethodPost, "/api/queries", map[string]string{"description": "x"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if errorCode(payload) != "VALIDATION_FAILED" {
		t.Fatalf("payload = %v", payload)
	}
}

func TestCreateQuery_WithoutPrincipalIsUnauthorized(t *testing.T) {
	app := newQueriesApp(&fakeQueryOps{}, nil)

	resp, payload := doJSON(t, app, http.MethodPost, "/api/queries", map[string]string{"title": "x"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if errorCode(payload) != "UNAUTHORIZED" {
		t.Fatalf("payload = %v", payload)
	}
}

func TestListQueriesByStatus_InvalidStatus(t *testing.T) {
	ops := &fakeQueryOps{
		listByStatusFn: func(_ int64, status string) ([]domain.Query, error) {
			return nil, errorutil.NewInvalidStatus(status)
		},
	}
	app := newQueriesApp(ops, userPrincipal(7))

	resp, payload := doJSON(t, app, http.MethodGet, "/api/queries/status/closed", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if errorCode(payload) != "INVALID_STATUS" {
		t.Fatalf("payload = %v", payload)
	}
}

func TestListQueries_ReturnsProjectedRows(t *testing.T) {
	amount := 49.99
	link := "https://pay/xyz"
	ops := &fakeQueryOps{
		listMineFn: func(callerID int64) ([]domain.Query, error) {
			return []domain.Query{
				{ID: 2, OwnerID: callerID, Title: "B", Status: domain.QueryStatusInProgress, Amount: &amount, PaymentLink: &link},
				{ID: 1, OwnerID: callerID, Title: "A", Status: domain.QueryStatusNew},
			}, nil
		},
	}
	app := newQueriesApp(ops, userPrincipal(7))

	resp, payload := doJSON(t, app, http.MethodGet, "/api/queries", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	data, _ := payload["data"].([]interface{})
	if len(data) != 2 {
		t.Fatalf("data = %v", payload)
	}
	first, _ := data[0].(map[string]interface{})
	if first["payment_link"] != link {
		t.Fatalf("in_progress row must expose payment link: %v", first)
	}
	second, _ := data[1].(map[string]interface{})
	if _, present := second["payment_link"]; present {
		t.Fatalf("new row must omit payment link: %v", second)
	}
}
