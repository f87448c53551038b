package server_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fakeorders/db"
	"fakeorders/fakefactory"
	"fakeorders/metrics"
	"fakeorders/model"
	"fakeorders/seed"
	"fakeorders/server"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	sqlDB, err := db.Open(context.Background(), fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(sqlDB, zap.NewNop()))

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	cfg := fakefactory.DefaultConfig()
	cfg.Observer = m
	factory, err := fakefactory.New(cfg, nil)
	require.NoError(t, err)

	seeder := seed.New(sqlDB, factory, seed.WithMetrics(m))
	srv := httptest.NewServer(server.New(factory, seeder, sqlDB, reg, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url string, out any) int {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestFakeOrder(t *testing.T) {
	srv := newServer(t)

	var order model.Order
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/fake/orders", &order))

	assert.Equal(t, uuid.Nil, order.ID)
	assert.Equal(t, uuid.Nil, order.CustomerID)
	assert.Nil(t, order.Payment)
	require.NotNil(t, order.Customer)
	assert.NotEmpty(t, order.Customer.Name)
}

func TestFakeCustomer_WithOrders(t *testing.T) {
	srv := newServer(t)

	var customer model.Customer
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/fake/customers?orders=2", &customer))

	require.Len(t, customer.Orders, 2)
	for _, o := range customer.Orders {
		require.NotNil(t, o.Customer)
		assert.NotEqual(t, customer.Email, o.Customer.Email)
	}
}

func TestFakePayment(t *testing.T) {
	srv := newServer(t)

	var payment model.OrderPayment
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/fake/payments", &payment))

	require.NotNil(t, payment.Order)
	assert.NotNil(t, payment.Order.Customer)
}

func TestCreateAndGetCustomer(t *testing.T) {
	srv := newServer(t)

	var created model.Customer
	require.Equal(t, http.StatusCreated, do(t, http.MethodPost, srv.URL+"/customers?orders=3", &created))
	require.NotEqual(t, uuid.Nil, created.ID)
	require.Len(t, created.Orders, 3)

	var fetched model.Customer
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/customers/"+created.ID.String(), &fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Email, fetched.Email)
	assert.Len(t, fetched.Orders, 3)
}

func TestGetCustomer_Errors(t *testing.T) {
	srv := newServer(t)

	var body map[string]string
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, srv.URL+"/customers/"+uuid.NewString(), &body))
	assert.NotEmpty(t, body["error"])

	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodGet, srv.URL+"/customers/not-a-uuid", &body))
	assert.Equal(t, "invalid id", body["error"])
}

func TestCreateOrderAndPayment(t *testing.T) {
	srv := newServer(t)

	var order model.Order
	require.Equal(t, http.StatusCreated, do(t, http.MethodPost, srv.URL+"/orders", &order))
	require.NotNil(t, order.Customer)
	assert.Equal(t, order.CustomerID, order.Customer.ID)

	var payment model.OrderPayment
	require.Equal(t, http.StatusCreated, do(t, http.MethodPost, srv.URL+"/payments", &payment))
	require.NotNil(t, payment.Order)
	assert.Equal(t, payment.OrderID, payment.Order.ID)
}

func TestCountValidation(t *testing.T) {
	srv := newServer(t)

	for _, path := range []string{
		"/fake/customers?orders=-1",
		"/fake/customers?orders=abc",
		fmt.Sprintf("/fake/customers?orders=%d", server.MaxBatch+1),
	} {
		var body map[string]string
		assert.Equal(t, http.StatusBadRequest, do(t, http.MethodGet, srv.URL+path, &body), path)
		assert.Equal(t, "invalid orders", body["error"], path)
	}
}

func TestConcurrent(t *testing.T) {
	srv := newServer(t)

	var report seed.Report
	require.Equal(t, http.StatusOK, do(t, http.MethodPost, srv.URL+"/concurrent?n=5&orders=1", &report))
	assert.Equal(t, seed.Report{Requested: 5, OK: 5}, report)
}

func TestMetrics(t *testing.T) {
	srv := newServer(t)

	require.Equal(t, http.StatusCreated, do(t, http.MethodPost, srv.URL+"/orders", &model.Order{}))

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(raw)
	assert.True(t, strings.Contains(text, `fakeorders_seeded_total{entity="Order"} 1`), text)
	assert.True(t, strings.Contains(text, `fakeorders_generated_total{entity="Customer"} 1`), text)
}
