package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ─── API Types ───────────────────────────────────────────────────────────────

// planItem is one recommended task in today's plan, as scored by the server.
type planItem struct {
	TaskID    int     `json:"task_id"`
	GoalID    int     `json:"goal_id"`
	TaskTitle string  `json:"title"`
	Status    string  `json:"status"`
	Impact    int     `json:"impact"`
	EffortMin int     `json:"effort_min"`
	Due       *string `json:"due"`
	Score     float64 `json:"score"`
	CoachLine string  `json:"coach_line"`
}

type goal struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// taskDetail is the subset of the task resource the client consumes after
// a patch; the server returns the full record.
type taskDetail struct {
	ID     int    `json:"id"`
	Status string `json:"status"`
}

// reflectionSummary aggregates the trailing reflection window. Nullable
// fields stay pointers so "no data yet" renders as a placeholder rather
// than a zero.
type reflectionSummary struct {
	Days       int      `json:"days"`
	Count      int      `json:"count"`
	AvgMood    *float64 `json:"avg_mood"`
	LatestText *string  `json:"latest_text"`
	LatestDate *string  `json:"latest_date"`
}

type analysisResult struct {
	Days         int      `json:"days"`
	Count        int      `json:"count"`
	Summary      string   `json:"summary"`
	Improvements []string `json:"improvements"`
}

type weekRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type weeklyReview struct {
	Exists       bool       `json:"exists"`
	Summary      *string    `json:"summary"`
	Improvements []string   `json:"improvements"`
	Date         *string    `json:"date"`
	Range        *weekRange `json:"range"`
	Count        int        `json:"count"`
}

type integration struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type planRunResult struct {
	GoalID       int  `json:"goal_id"`
	CreatedCount int  `json:"created_count"`
	Saved        bool `json:"saved"`
}

type minutesResult struct {
	Date             string `json:"date"`
	WorkStart        string `json:"work_start"`
	WorkEnd          string `json:"work_end"`
	AvailableMinutes int    `json:"available_minutes"`
}

// icsKind is the only integration kind the service supports.
const icsKind = "gcal_ics"

// Fixed plan-generation configuration, matching the service defaults.
const (
	genMinutesPerDay = 90
	genMaxTasks      = 8
)

// ─── Errors ──────────────────────────────────────────────────────────────────

// apiError is returned for any non-2xx response. It carries the operation
// name and status so the UI can say which refresh failed; error bodies are
// never parsed.
type apiError struct {
	op     string
	status int
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s: server returned %d", e.op, e.status)
}

// ─── Client ──────────────────────────────────────────────────────────────────

// apiClient is a typed client for the productivity service. Every method
// issues exactly one request. No timeout or deadline is set: a request runs
// to transport completion or failure, and because reads are idempotent a
// stale response is simply overwritten by whichever reload resolves last.
type apiClient struct {
	baseURL string
	httpc   *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   http.DefaultClient,
	}
}

// taskURL returns the browsable detail URL for a task (the card's old
// raw-JSON link, kept as a copyable address).
func (c *apiClient) taskURL(taskID int) string {
	return fmt.Sprintf("%s/v1/tasks/%d", c.baseURL, taskID)
}

// do issues one request and decodes the response into out (nil to discard).
// Non-2xx returns *apiError; a body that does not match out is an error too.
func (c *apiClient) do(op, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		payload = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, u, payload)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apiError{op: op, status: resp.StatusCode}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// planToday fetches the recommended tasks for today given a minutes budget.
func (c *apiClient) planToday(minutes int) ([]planItem, error) {
	q := url.Values{"minutes_available": {strconv.Itoa(minutes)}}
	var items []planItem
	if err := c.do("plan today", http.MethodGet, "/v1/plan/today", q, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// updateTaskStatus patches a single task's status field.
func (c *apiClient) updateTaskStatus(taskID int, status string) (taskDetail, error) {
	var out taskDetail
	path := fmt.Sprintf("/v1/tasks/%d", taskID)
	err := c.do("task update", http.MethodPatch, path, nil, map[string]string{"status": status}, &out)
	return out, err
}

func (c *apiClient) submitReflection(date string, mood int, text string) error {
	body := map[string]any{"date": date, "mood": mood, "text": text}
	var out struct {
		ID int `json:"id"`
	}
	return c.do("reflection save", http.MethodPost, "/v1/reflect", nil, body, &out)
}

func (c *apiClient) reflectionSummary(days int) (reflectionSummary, error) {
	q := url.Values{"days": {strconv.Itoa(days)}}
	var out reflectionSummary
	err := c.do("reflection summary", http.MethodGet, "/v1/reflect/recent", q, nil, &out)
	return out, err
}

func (c *apiClient) analyzeReflections(days int) (analysisResult, error) {
	q := url.Values{"days": {strconv.Itoa(days)}}
	var out analysisResult
	err := c.do("reflection analysis", http.MethodGet, "/v1/reflect/analyze", q, nil, &out)
	return out, err
}

func (c *apiClient) weeklyReview() (weeklyReview, error) {
	var out weeklyReview
	err := c.do("weekly review", http.MethodGet, "/v1/review/weekly", nil, nil, &out)
	return out, err
}

// runWeeklyReview forces generation now. The run response carries no exists
// flag; a successful run is by definition present.
func (c *apiClient) runWeeklyReview() (weeklyReview, error) {
	var out weeklyReview
	err := c.do("weekly review run", http.MethodPost, "/v1/review/weekly/run", nil, nil, &out)
	if err == nil {
		out.Exists = true
	}
	return out, err
}

// goals lists the user's goals. The server orders by descending id, so the
// first element is the most recently created goal — plan generation relies
// on this contract.
func (c *apiClient) goals() ([]goal, error) {
	var out []goal
	if err := c.do("goal list", http.MethodGet, "/v1/goals", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// runPlanGeneration asks the server to break a goal down into tasks using
// the fixed configuration. This is the only operation that creates tasks.
func (c *apiClient) runPlanGeneration(goalID int) (planRunResult, error) {
	body := map[string]any{
		"minutes_per_day": genMinutesPerDay,
		"max_tasks":       genMaxTasks,
		"dry_run":         false,
	}
	var out planRunResult
	path := fmt.Sprintf("/v1/goals/%d/plan", goalID)
	err := c.do("plan generation", http.MethodPost, path, nil, body, &out)
	return out, err
}

// fetchIntegration returns the stored calendar credential, or nil when none
// is configured. A 404 here is the expected "not set up yet" state, not a
// failure.
func (c *apiClient) fetchIntegration() (*integration, error) {
	const op = "integration fetch"
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/v1/integration", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apiError{op: op, status: resp.StatusCode}
	}
	var out integration
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}
	return &out, nil
}

func (c *apiClient) saveIntegration(icsURL string) (integration, error) {
	body := map[string]string{"kind": icsKind, "value": icsURL}
	var out integration
	err := c.do("integration save", http.MethodPost, "/v1/integration", nil, body, &out)
	return out, err
}

// availableMinutes asks the calendar service how much free time the given
// date has inside the working-hours window.
func (c *apiClient) availableMinutes(dateStr, workStart, workEnd string) (minutesResult, error) {
	q := url.Values{
		"date_str":   {dateStr},
		"work_start": {workStart},
		"work_end":   {workEnd},
	}
	var out minutesResult
	err := c.do("available minutes", http.MethodGet, "/v1/plan/available_minutes", q, nil, &out)
	return out, err
}
