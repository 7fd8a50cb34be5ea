package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIActivitiesPreservesOrder(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/activities" || r.Method != http.MethodGet {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("activities request must not carry authorization")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Zeta":{"description":"z","schedule":"s","max_participants":5,"participants":[]},` +
			`"Alpha":{"description":"a","schedule":"s","max_participants":3,"participants":["p@x.com"]}}`))
	}))
	defer ts.Close()

	api, err := NewAPI(ts.URL)
	if err != nil {
		t.Fatalf("NewAPI: %v", err)
	}

	roster, err := api.Activities(context.Background())
	if err != nil {
		t.Fatalf("Activities: %v", err)
	}
	names := roster.Names()
	if len(names) != 2 || names[0] != "Zeta" || names[1] != "Alpha" {
		t.Fatalf("Names() = %v, want [Zeta Alpha]", names)
	}
}

func TestAPISignUpEncodesPathAndEmail(t *testing.T) {
	var gotPath, gotEmail, gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotEmail = r.URL.Query().Get("email")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Signed up b@x.com for Chess Club"}`))
	}))
	defer ts.Close()

	api, err := NewAPI(ts.URL)
	if err != nil {
		t.Fatalf("NewAPI: %v", err)
	}

	msg, err := api.SignUp(context.Background(), "tok-1", "Chess Club", "b+c@x.com")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if msg != "Signed up b@x.com for Chess Club" {
		t.Errorf("message = %q", msg)
	}
	if gotPath != "/activities/Chess%20Club/signup" {
		t.Errorf("path = %q, want /activities/Chess%%20Club/signup", gotPath)
	}
	if gotEmail != "b+c@x.com" {
		t.Errorf("email = %q, want b+c@x.com", gotEmail)
	}
	if gotAuth != "Bearer tok-1" {
		t.Errorf("authorization = %q, want Bearer tok-1", gotAuth)
	}
}

func TestAPIServerErrorCarriesDetail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Invalid username or password"}`))
	}))
	defer ts.Close()

	api, err := NewAPI(ts.URL)
	if err != nil {
		t.Fatalf("NewAPI: %v", err)
	}

	_, err = api.Login(context.Background(), "teacher1", "wrong")
	var se *ServerError
	if !errors.As(err, &se) {
		t.Fatalf("Login error = %v, want *ServerError", err)
	}
	if se.Status != http.StatusUnauthorized || se.Detail != "Invalid username or password" {
		t.Errorf("ServerError = %+v", se)
	}
}

func TestAPIServerErrorWithoutDetail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	api, err := NewAPI(ts.URL)
	if err != nil {
		t.Fatalf("NewAPI: %v", err)
	}

	_, err = api.Me(context.Background(), "tok")
	var se *ServerError
	if !errors.As(err, &se) {
		t.Fatalf("Me error = %v, want *ServerError", err)
	}
	if se.Detail != "" {
		t.Errorf("Detail = %q, want empty", se.Detail)
	}
	if se.Error() == "" {
		t.Errorf("Error() must still describe the failure")
	}
}

func TestNewAPIRejectsBadURL(t *testing.T) {
	if _, err := NewAPI("not a url at all ://"); err == nil {
		t.Errorf("NewAPI accepted malformed url")
	}
	if _, err := NewAPI("ftp://example.com"); err == nil {
		t.Errorf("NewAPI accepted non-http scheme")
	}
}
