// Command apitest runs a smoke suite against a running lunar calendar API.
//
// Usage:
//
//	go run ./cmd/apitest -url http://localhost:8080
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// =============================================================================
// Response Types - Match the API response structure
// =============================================================================

type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type Date struct {
	Year   int  `json:"year"`
	Month  int  `json:"month"`
	Day    int  `json:"day"`
	IsLeap bool `json:"is_leap"`
}

func (d Date) String() string {
	if d.IsLeap {
		return fmt.Sprintf("%04d-L%02d-%02d", d.Year, d.Month, d.Day)
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

type DayResponse struct {
	Solar Date `json:"solar"`
	Lunar Date `json:"lunar"`
	Names struct {
		LunarDate string `json:"lunar_date"`
		Year      string `json:"year"`
		Term      string `json:"term"`
		Domestic  string `json:"domestic_festival"`
	} `json:"names"`
}

type RangeResponse struct {
	Count int           `json:"count"`
	Days  []DayResponse `json:"days"`
}

type LunarResponse struct {
	Kind string        `json:"kind"`
	Days []DayResponse `json:"days"`
}

type YearResponse struct {
	Year      int  `json:"year"`
	LeapMonth int  `json:"leap_month"`
	Length    int  `json:"length"`
	NewYear   Date `json:"new_year"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Lunar Calendar API Smoke Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)

	tr.testHealth()
	tr.testToday()
	tr.testKnownDates()
	tr.testRange()
	tr.testLunarLookup()
	tr.testYear()
	tr.testFeed()
	tr.testEdgeCases()

	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	var health HealthResponse
	if err := tr.getData("/health", &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}
	if health.Status != "healthy" {
		tr.recordError("Health", fmt.Sprintf("unexpected status: %s", health.Status))
		return
	}
	tr.recordSuccess("Health check passed")
}

func (tr *TestRunner) testToday() {
	tr.printSection("Today")

	var day DayResponse
	if err := tr.getData("/api/v1/days/today", &day); err != nil {
		tr.recordError("Today", err.Error())
		return
	}
	tr.recordSuccess(fmt.Sprintf("Today %s is lunar %s", day.Solar, day.Lunar))
	tr.printDay(&day)
}

func (tr *TestRunner) testKnownDates() {
	tr.printSection("Known Dates")

	tests := []struct {
		solar    string
		lunar    string
		festival string
	}{
		{"1899-02-10", "1899-01-01", "Spring Festival"},
		{"1949-10-01", "1949-08-10", ""},
		{"2020-05-23", "2020-L04-01", ""},
		{"2024-02-10", "2024-01-01", "Spring Festival"},
		{"2024-06-10", "2024-05-05", "Dragon Boat Festival"},
		{"2024-09-17", "2024-08-15", "Mid-Autumn Festival"},
		{"2100-12-31", "2100-12-01", ""},
	}

	for _, tt := range tests {
		var day DayResponse
		if err := tr.getData("/api/v1/days/"+tt.solar+"?lang=en", &day); err != nil {
			tr.recordError(tt.solar, err.Error())
			continue
		}
		if got := day.Lunar.String(); got != tt.lunar {
			tr.recordError(tt.solar, fmt.Sprintf("lunar %s, want %s", got, tt.lunar))
			continue
		}
		if tt.festival != "" && day.Names.Domestic != tt.festival {
			tr.recordError(tt.solar, fmt.Sprintf("festival %q, want %q", day.Names.Domestic, tt.festival))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s -> %s", tt.solar, tt.lunar))
		if tr.verbose {
			tr.printDay(&day)
		}
	}
}

func (tr *TestRunner) testRange() {
	tr.printSection("Date Range")

	var r RangeResponse
	if err := tr.getData("/api/v1/days?start=2020-05-21&end=2020-05-24", &r); err != nil {
		tr.recordError("Range", err.Error())
		return
	}
	if r.Count != 4 || len(r.Days) != 4 {
		tr.recordError("Range", fmt.Sprintf("expected 4 days, got %d", r.Count))
		return
	}
	if !r.Days[2].Lunar.IsLeap {
		tr.recordError("Range", "2020-05-23 should open the leap fourth month")
		return
	}
	tr.recordSuccess("Range across the 2020 leap month")
}

func (tr *TestRunner) testLunarLookup() {
	tr.printSection("Lunar Lookup")

	var r LunarResponse
	if err := tr.getData("/api/v1/lunar/2020/4/1", &r); err != nil {
		tr.recordError("Lunar", err.Error())
		return
	}
	if len(r.Days) != 2 {
		tr.recordError("Lunar", fmt.Sprintf("expected 2 dates for a repeated month, got %d", len(r.Days)))
		return
	}
	tr.recordSuccess(fmt.Sprintf("2020 month 4 day 1 -> %s, %s", r.Days[0].Solar, r.Days[1].Solar))
}

func (tr *TestRunner) testYear() {
	tr.printSection("Year Summary")

	var y YearResponse
	if err := tr.getData("/api/v1/years/2020", &y); err != nil {
		tr.recordError("Year", err.Error())
		return
	}
	if y.LeapMonth != 4 || y.Length != 384 {
		tr.recordError("Year", fmt.Sprintf("leap %d length %d, want 4 and 384", y.LeapMonth, y.Length))
		return
	}
	tr.recordSuccess(fmt.Sprintf("2020 starts %s with leap month %d", y.NewYear, y.LeapMonth))
}

func (tr *TestRunner) testFeed() {
	tr.printSection("Calendar Feed")

	resp, err := tr.client.Get(tr.baseURL + "/api/v1/years/2024/calendar.ics")
	if err != nil {
		tr.recordError("Feed", err.Error())
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		tr.recordError("Feed", err.Error())
		return
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/calendar") {
		tr.recordError("Feed", "unexpected content type "+resp.Header.Get("Content-Type"))
		return
	}
	events := strings.Count(string(body), "BEGIN:VEVENT")
	tr.recordSuccess(fmt.Sprintf("2024 feed has %d events", events))
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"Before table", "/api/v1/days/1899-02-09", http.StatusBadRequest},
		{"After table", "/api/v1/days/2101-01-01", http.StatusBadRequest},
		{"Invalid day", "/api/v1/days/2023-02-29", http.StatusBadRequest},
		{"Missing leap month", "/api/v1/lunar/2024/1/1?leap=true", http.StatusBadRequest},
		{"Unknown route", "/api/v1/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		resp, err := tr.client.Get(tr.baseURL + tt.path)
		if err != nil {
			tr.recordError(tt.name, err.Error())
			continue
		}
		resp.Body.Close()
		if resp.StatusCode != tt.status {
			tr.recordError(tt.name, fmt.Sprintf("status %d, want %d", resp.StatusCode, tt.status))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s -> %d", tt.name, tt.status))
	}
}

// =============================================================================
// Helpers
// =============================================================================

func (tr *TestRunner) getData(path string, target any) error {
	resp, err := tr.client.Get(tr.baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if !apiResp.Success {
		msg := "unknown error"
		if apiResp.Error != nil {
			msg = apiResp.Error.Message
		}
		return fmt.Errorf("API error: %s", msg)
	}
	return json.Unmarshal(apiResp.Data, target)
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) printDay(d *DayResponse) {
	fmt.Printf("    %s %s\n", d.Names.Year, d.Names.LunarDate)
	if d.Names.Term != "" {
		fmt.Printf("    Term: %s\n", d.Names.Term)
	}
	if d.Names.Domestic != "" {
		fmt.Printf("    Festival: %s\n", d.Names.Domestic)
	}
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Printf("  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Printf("  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Println()
	fmt.Println("==============================================")
	fmt.Println("Summary")
	fmt.Println("==============================================")
	fmt.Printf("  Passed: %d\n", tr.successCount)
	fmt.Printf("  Failed: %d\n", tr.errorCount)
	fmt.Println()

	if tr.errorCount > 0 {
		fmt.Println("Failures:")
		for _, err := range tr.errors {
			fmt.Printf("  • %s\n", err)
		}
		fmt.Println()
		fmt.Printf("Suite completed with %d failure(s)\n", tr.errorCount)
		return
	}
	fmt.Println("All checks passed! ✓")
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	verbose := flag.Bool("v", false, "Verbose output (show day details)")
	flag.Parse()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, *verbose)
	runner.Run()

	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
