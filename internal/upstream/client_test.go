package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aquascope/overview-go/internal/session"
)

func testSession() session.Session {
	return session.Session{User: "ops", Token: "tok-1"}
}

func TestListNodeDevices_scopesPathAndSendsBearer(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":1,"devices":[{"id":5,"name":"FM-05","type":"flow_meter","status":"Online","latitude":24.1,"longitude":46.2}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	devices, err := c.ListNodeDevices(context.Background(), testSession(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/api/v1/nodes/42/devices" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("unexpected authorization header %q", gotAuth)
	}
	if len(devices) != 1 || devices[0].Name != "FM-05" {
		t.Fatalf("unexpected devices %+v", devices)
	}
	if devices[0].Latitude == nil || *devices[0].Latitude != 24.1 {
		t.Fatalf("latitude not decoded: %+v", devices[0])
	}
}

func TestListOrgDevices_usesOrgEndpoint(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"count":0,"devices":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	devices, err := c.ListOrgDevices(context.Background(), testSession())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/api/v1/devices" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if len(devices) != 0 {
		t.Fatalf("expected empty list, got %+v", devices)
	}
}

func TestAlarmSummary_scoping(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"active_count":3}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)

	sum, err := c.AlarmSummary(context.Background(), testSession(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "" {
		t.Fatalf("org-wide summary must be unscoped, got query %q", gotQuery)
	}
	if sum.ActiveCount != 3 {
		t.Fatalf("unexpected summary %+v", sum)
	}

	nodeID := int64(7)
	if _, err := c.AlarmSummary(context.Background(), testSession(), &nodeID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "node=7" {
		t.Fatalf("expected node scoping, got query %q", gotQuery)
	}
}

func TestGetJSON_non2xxBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.ListOrgDevices(context.Background(), testSession())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusForbidden {
		t.Fatalf("unexpected status %d", apiErr.Status)
	}
}

func TestGetJSON_contextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := NewClient(srv.URL, time.Second)
	if _, err := c.ListOrgDevices(ctx, testSession()); err == nil {
		t.Fatal("expected error when context deadline passes")
	}
}
