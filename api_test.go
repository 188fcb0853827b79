package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPlanTodayQueryAndDecode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/v1/plan/today" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("minutes_available"); got != "120" {
			t.Errorf("minutes_available = %q, want 120", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"task_id":5,"goal_id":1,"title":"Write intro","status":"pending","impact":4,"effort_min":30,"due":"2026-09-01","score":7.5,"coach_line":"Just one paragraph."}]`))
	}))
	defer srv.Close()

	c := newAPIClient(srv.URL)
	items, err := c.planToday(120)
	if err != nil {
		t.Fatalf("planToday: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	it := items[0]
	if it.TaskID != 5 || it.TaskTitle != "Write intro" || it.Status != statusPending {
		t.Errorf("decoded item = %+v", it)
	}
	if it.Due == nil || *it.Due != "2026-09-01" {
		t.Errorf("due = %v, want 2026-09-01", it.Due)
	}
	if it.Score != 7.5 || it.EffortMin != 30 {
		t.Errorf("score/effort = %v/%v", it.Score, it.EffortMin)
	}
}

func TestUpdateTaskStatusPatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		if r.URL.Path != "/v1/tasks/42" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["status"] != statusDoing {
			t.Errorf("body status = %q, want doing", body["status"])
		}
		w.Write([]byte(`{"id":42,"status":"doing"}`))
	}))
	defer srv.Close()

	c := newAPIClient(srv.URL)
	out, err := c.updateTaskStatus(42, statusDoing)
	if err != nil {
		t.Fatalf("updateTaskStatus: %v", err)
	}
	if out.ID != 42 || out.Status != statusDoing {
		t.Errorf("out = %+v", out)
	}
}

func TestNon2xxReturnsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newAPIClient(srv.URL)
	_, err := c.planToday(90)
	if err == nil {
		t.Fatal("expected an error for 500")
	}
	var apiErr *apiError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *apiError", err)
	}
	if apiErr.status != http.StatusInternalServerError || apiErr.op != "plan today" {
		t.Errorf("apiError = %+v", apiErr)
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("message = %q, want status in text", err.Error())
	}
}

func TestFetchIntegrationAbsentIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := newAPIClient(srv.URL)
	integ, err := c.fetchIntegration()
	if err != nil {
		t.Fatalf("404 should not be an error, got %v", err)
	}
	if integ != nil {
		t.Errorf("integ = %+v, want nil", integ)
	}
}

func TestFetchIntegrationPresent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"kind":"gcal_ics","value":"https://cal.example/a.ics"}`))
	}))
	defer srv.Close()

	c := newAPIClient(srv.URL)
	integ, err := c.fetchIntegration()
	if err != nil {
		t.Fatalf("fetchIntegration: %v", err)
	}
	if integ == nil || integ.Kind != icsKind || integ.Value != "https://cal.example/a.ics" {
		t.Errorf("integ = %+v", integ)
	}
}

func TestSaveIntegrationBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/integration" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["kind"] != icsKind || body["value"] != "https://cal.example/b.ics" {
			t.Errorf("body = %v", body)
		}
		w.Write([]byte(`{"kind":"gcal_ics","value":"https://cal.example/b.ics"}`))
	}))
	defer srv.Close()

	c := newAPIClient(srv.URL)
	if _, err := c.saveIntegration("https://cal.example/b.ics"); err != nil {
		t.Fatalf("saveIntegration: %v", err)
	}
}

func TestRunWeeklyReviewImpliesPresence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/review/weekly/run" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		// The run response carries no exists field.
		w.Write([]byte(`{"summary":"Solid week.","improvements":["Sleep earlier"],"date":"2026-08-30","count":4}`))
	}))
	defer srv.Close()

	c := newAPIClient(srv.URL)
	review, err := c.runWeeklyReview()
	if err != nil {
		t.Fatalf("runWeeklyReview: %v", err)
	}
	if !review.Exists {
		t.Error("a successful run should be treated as present")
	}
	if review.Summary == nil || *review.Summary != "Solid week." {
		t.Errorf("summary = %v", review.Summary)
	}
}

func TestRunPlanGenerationFixedConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/goals/9/plan" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["minutes_per_day"] != float64(90) || body["max_tasks"] != float64(8) || body["dry_run"] != false {
			t.Errorf("body = %v", body)
		}
		w.Write([]byte(`{"goal_id":9,"created_count":6,"saved":true}`))
	}))
	defer srv.Close()

	c := newAPIClient(srv.URL)
	res, err := c.runPlanGeneration(9)
	if err != nil {
		t.Fatalf("runPlanGeneration: %v", err)
	}
	if res.CreatedCount != 6 || !res.Saved {
		t.Errorf("res = %+v", res)
	}
}

func TestSubmitReflectionBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["date"] != "2026-08-31" || body["mood"] != float64(4) || body["text"] != "Shipped it." {
			t.Errorf("body = %v", body)
		}
		w.Write([]byte(`{"id":12}`))
	}))
	defer srv.Close()

	c := newAPIClient(srv.URL)
	if err := c.submitReflection("2026-08-31", 4, "Shipped it."); err != nil {
		t.Fatalf("submitReflection: %v", err)
	}
}

func TestAvailableMinutesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("date_str") != "2026-08-31" || q.Get("work_start") != "07:00" || q.Get("work_end") != "23:00" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(`{"date":"2026-08-31","work_start":"07:00","work_end":"23:00","available_minutes":185}`))
	}))
	defer srv.Close()

	c := newAPIClient(srv.URL)
	res, err := c.availableMinutes("2026-08-31", "07:00", "23:00")
	if err != nil {
		t.Fatalf("availableMinutes: %v", err)
	}
	if res.AvailableMinutes != 185 {
		t.Errorf("minutes = %d, want 185", res.AvailableMinutes)
	}
}

func TestDecodeFailureIsSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := newAPIClient(srv.URL)
	_, err := c.weeklyReview()
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Errorf("err = %v, want a decode error", err)
	}
}

func TestTaskURL(t *testing.T) {
	c := newAPIClient("http://localhost:8000/")
	if got := c.taskURL(17); got != "http://localhost:8000/v1/tasks/17" {
		t.Errorf("taskURL = %q", got)
	}
}
