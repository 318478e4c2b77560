package domain

import "time"

// Report is a manual report written by an agent.
type Report struct {
	ReportID  string    `json:"id" dynamodbav:"report_id"`
	AgentID   string    `json:"agent_id" dynamodbav:"agent_id"`
	Title     string    `json:"title" dynamodbav:"title"`
	Content   string    `json:"content" dynamodbav:"content"`
	Category  string    `json:"category" dynamodbav:"category"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
}

type CreateReportRequest struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Category string `json:"category"`
}

// ReportStats aggregates an agent's portfolio for the reports page.
type ReportStats struct {
	Properties struct {
		Total     int        `json:"total"`
		Available int        `json:"available"`
		Sold      int        `json:"sold"`
		List      []Property `json:"list"`
	} `json:"props"`
	Clients struct {
		Total int `json:"total"`
		Cold  int `json:"cold"`
		Warm  int `json:"warm"`
		Hot   int `json:"hot"`
	} `json:"clients"`
	Reports []Report `json:"reports"`
}

// Activity is one dashboard feed entry.
type Activity struct {
	ID   string    `json:"id"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// DashboardData backs the dashboard page.
type DashboardData struct {
	Stats struct {
		ActiveCount int `json:"activeCount"`
		SoldCount   int `json:"soldCount"`
		ClientCount int `json:"clientCount"`
	} `json:"stats"`
	Activities []Activity `json:"activities"`
}
