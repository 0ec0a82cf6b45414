package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// pageSize mirrors the server's fixed page size, used to number ranks
const pageSize = 20

// Output handles formatting output based on the configured format
type Output struct {
	w      io.Writer
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(w io.Writer, format string) *Output {
	return &Output{w: w, format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

func (o *Output) printJSON(data any) {
	if lb, ok := data.(Leaderboard); ok {
		data = lb.Records
	}
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case MessageResult:
		_, _ = fmt.Fprintln(o.w, v.Message)
	case LoginResult:
		_, _ = fmt.Fprintln(o.w, "Logged in; token saved")
	case Leaderboard:
		o.printLeaderboard(v)
	case HealthResult:
		_, _ = fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printLeaderboard(lb Leaderboard) {
	if len(lb.Records) == 0 {
		_, _ = fmt.Fprintln(o.w, "No scores on this page")
		return
	}

	page := max(lb.Page, 1)
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "RANK\tPLAYER\tSCORE\tLEVEL\tTIMESTAMP")
	for i, r := range lb.Records {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", (page-1)*pageSize+i+1, r.UserHandle, r.Score, r.Level, r.Timestamp)
	}
	_ = tw.Flush()
}

// MessageResult is a plain acknowledgement
type MessageResult struct {
	Message string `json:"message"`
}

// LoginResult carries the issued token
type LoginResult struct {
	JSONWebToken string `json:"jsonWebToken"`
}

// ScoreRecord response type (matches API)
type ScoreRecord struct {
	Level      string `json:"level"`
	UserHandle string `json:"userHandle"`
	Score      string `json:"score"`
	Timestamp  string `json:"timestamp"`
}

// Leaderboard is one page of scores
type Leaderboard struct {
	Page    int
	Records []ScoreRecord
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}
