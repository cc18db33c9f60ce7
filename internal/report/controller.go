// Package report resolves report documents from the backend.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/vannoppenjarno/automatic-reporting/internal/api"
)

// Type is a report aggregation window.
type Type string

const (
	TypeDaily      Type = "daily"
	TypeWeekly     Type = "weekly"
	TypeMonthly    Type = "monthly"
	TypeAggregated Type = "aggregated"
)

// Types lists the selectable report types in display order.
var Types = []Type{TypeDaily, TypeWeekly, TypeMonthly, TypeAggregated}

// Query selects a report. Date is YYYY-MM-DD and only used by FetchByDate.
type Query struct {
	ProductID string
	Type      Type
	Date      string
}

// params builds the query string. talking_product_id is sent exactly when
// the type is product-scoped; aggregated reports are company-level.
func (q Query) params(withDate bool) url.Values {
	v := url.Values{}
	v.Set("report_type", string(q.Type))
	if withDate {
		v.Set("report_date", q.Date)
	}
	if q.Type != TypeAggregated {
		v.Set("talking_product_id", q.ProductID)
	}
	return v
}

// Caller is the slice of the API client the controller needs.
type Caller interface {
	Call(ctx context.Context, method, path string, body any, extra http.Header) (json.RawMessage, error)
}

// Controller fetches reports through the API client.
type Controller struct {
	api Caller
}

// NewController wraps an API caller.
func NewController(c Caller) *Controller { return &Controller{api: c} }

// Latest is the outcome of a latest-report lookup. Empty means the backend
// has no report for the selection at all, which is not an error: the date
// control should be cleared and a placeholder shown.
type Latest struct {
	Date   string
	Report *api.ReportDocument
	Empty  bool
}

type reportEnvelope struct {
	Report *api.ReportDocument `json:"report"`
}

type latestEnvelope struct {
	Date   string              `json:"date"`
	Report *api.ReportDocument `json:"report"`
}

// FetchByDate resolves the report for a specific date. Errors propagate
// unchanged for the caller to branch on.
func (c *Controller) FetchByDate(ctx context.Context, q Query) (*api.ReportDocument, error) {
	path := "/reports?" + q.params(true).Encode()
	raw, err := c.api.Call(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	var env reportEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return env.Report, nil
}

// FetchLatest resolves the most recent report for the selection. A 404 is
// the recognized no-report case, returned as Latest{Empty: true} with a nil
// error; any other failure propagates.
func (c *Controller) FetchLatest(ctx context.Context, q Query) (Latest, error) {
	path := "/reports/latest?" + q.params(false).Encode()
	raw, err := c.api.Call(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		if api.IsStatus(err, http.StatusNotFound) {
			return Latest{Empty: true}, nil
		}
		return Latest{}, err
	}
	var env latestEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Latest{}, fmt.Errorf("decode latest report: %w", err)
	}
	return Latest{Date: env.Date, Report: env.Report}, nil
}
