// Package demo holds the simulated business tools used by the example
// commands. Results are canned and deterministic so runs can be compared
// across providers.
package demo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spetersoncode/openresponses/tool"
)

// Task is the default multi-step task. Completing it takes at least four
// tool calls.
const Task = `I need you to complete the following multi-step task:

1. Search for Q3 2024 sales data in the sales department
2. Analyze the revenue and growth metrics from the sales data
3. Create a summary report with the key findings
4. Email the report to the team at team@company.com

Please complete all steps and provide a final summary.`

// Instructions is the system prompt paired with Task.
const Instructions = "You are a helpful assistant that completes tasks step by step."

// SearchArgs are the arguments for search_documents.
type SearchArgs struct {
	Query      string `json:"query" jsonschema:"description=The search query to find relevant documents"`
	Department string `json:"department,omitempty" jsonschema:"description=Optional department filter,enum=sales,enum=engineering,enum=hr"`
}

// AnalyzeArgs are the arguments for analyze_data.
type AnalyzeArgs struct {
	DataSource string `json:"data_source" jsonschema:"description=The data source to analyze (e.g. 'q3_sales' or 'user_metrics')"`
	Metric     string `json:"metric" jsonschema:"description=The specific metric to analyze (e.g. 'revenue' or 'churn')"`
}

// EmailArgs are the arguments for send_email.
type EmailArgs struct {
	To      string `json:"to" jsonschema:"description=Email recipient address"`
	Subject string `json:"subject" jsonschema:"description=Email subject line"`
	Body    string `json:"body" jsonschema:"description=Email body content"`
}

// ReportArgs are the arguments for create_report.
type ReportArgs struct {
	Title    string `json:"title" jsonschema:"description=Report title"`
	Sections string `json:"sections" jsonschema:"description=JSON array of section objects with title and content"`
	Format   string `json:"format,omitempty" jsonschema:"description=Output format,enum=markdown,enum=html,enum=pdf"`
}

type document struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Department string `json:"department"`
	Snippet    string `json:"snippet"`
}

var corpus = []document{
	{"doc-101", "Q3 2024 Sales Summary", "sales", "Q3 2024 revenue reached $4.2M, up 18% quarter over quarter."},
	{"doc-102", "Q3 2024 Regional Breakdown", "sales", "EMEA grew 24%, NA grew 15%, APAC flat."},
	{"doc-201", "Platform Reliability Review", "engineering", "Uptime 99.95% across Q3 2024."},
	{"doc-301", "Hiring Plan H2 2024", "hr", "12 open roles, 8 in engineering."},
}

var metrics = map[string]map[string]string{
	"q3_sales": {
		"revenue": "Revenue $4.2M (Q2: $3.56M), up 18% QoQ",
		"growth":  "Growth 18% QoQ, 31% YoY; EMEA leads at 24%",
		"churn":   "Customer churn 2.1%, down from 2.6%",
	},
	"user_metrics": {
		"growth": "Monthly active users 84k, up 9%",
		"churn":  "User churn 3.4%",
	},
}

// SearchDocuments returns the documents matching args.
func SearchDocuments(_ context.Context, args SearchArgs) (string, error) {
	if strings.TrimSpace(args.Query) == "" {
		return "", fmt.Errorf("query is required")
	}

	terms := strings.Fields(strings.ToLower(args.Query))
	var hits []document
	for _, doc := range corpus {
		if args.Department != "" && !strings.EqualFold(doc.Department, args.Department) {
			continue
		}
		text := strings.ToLower(doc.Title + " " + doc.Snippet)
		for _, term := range terms {
			if strings.Contains(text, term) {
				hits = append(hits, doc)
				break
			}
		}
	}

	data, err := json.Marshal(map[string]any{"query": args.Query, "results": hits, "count": len(hits)})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// AnalyzeData returns a canned insight for a data source and metric.
func AnalyzeData(_ context.Context, args AnalyzeArgs) (string, error) {
	source, ok := metrics[strings.ToLower(args.DataSource)]
	if !ok {
		return "", fmt.Errorf("unknown data source %q", args.DataSource)
	}
	insight, ok := source[strings.ToLower(args.Metric)]
	if !ok {
		return "", fmt.Errorf("metric %q not available for %s", args.Metric, args.DataSource)
	}
	return insight, nil
}

// SendEmail pretends to send an email.
func SendEmail(_ context.Context, args EmailArgs) (string, error) {
	if !strings.Contains(args.To, "@") {
		return "", fmt.Errorf("invalid recipient %q", args.To)
	}
	return fmt.Sprintf("Email sent to %s with subject %q (%d characters)", args.To, args.Subject, len(args.Body)), nil
}

// CreateReport validates the sections and reports where the document would
// be written.
func CreateReport(_ context.Context, args ReportArgs) (string, error) {
	format := args.Format
	if format == "" {
		format = "markdown"
	}

	var sections []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(args.Sections), &sections); err != nil {
		return "", fmt.Errorf("sections must be a JSON array: %w", err)
	}

	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(args.Title)), " ", "_")
	return fmt.Sprintf("Report %q created with %d sections: reports/%s.%s", args.Title, len(sections), slug, extension(format)), nil
}

func extension(format string) string {
	switch format {
	case "html":
		return "html"
	case "pdf":
		return "pdf"
	default:
		return "md"
	}
}

// Tools returns the demo tool registrations.
func Tools() []tool.Registration {
	return []tool.Registration{
		tool.Func("search_documents", "Search company documents and knowledge base for information", SearchDocuments),
		tool.Func("analyze_data", "Analyze numerical data and return insights", AnalyzeData),
		tool.Func("send_email", "Send an email to specified recipients", SendEmail),
		tool.Func("create_report", "Create a formatted report document", CreateReport),
	}
}

// Registry returns a registry holding Tools.
func Registry() *tool.Registry {
	return tool.NewRegistry().Add(Tools()...)
}
