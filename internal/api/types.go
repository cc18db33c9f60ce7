package api

import "fmt"

// Product is a selectable talking product. The active list is replaced
// wholesale on every successful products call.
type Product struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ReportDocument is one periodic analytical report. Any field may be absent
// or empty; rendering degrades per section, never per document.
type ReportDocument struct {
	Topics           []Topic                `json:"topics"`
	ExecutiveSummary []ExecutiveSummaryItem `json:"executive_summary"`
	OverallTakeaway  string                 `json:"overall_takeaway"`
}

// Topic is one analyzed theme inside a report.
type Topic struct {
	Topic              string             `json:"topic"`
	Observation        string             `json:"observation"`
	Implication        string             `json:"implication"`
	StrategicAlignment StrategicAlignment `json:"strategic_alignment"`
	Recommendation     Recommendation     `json:"recommendation"`
	DecisionRequired   string             `json:"decision_required"`
}

// StrategicAlignment ties a topic to a company objective.
type StrategicAlignment struct {
	Objective string `json:"objective"`
	Status    string `json:"status"`
}

// Recommendation is the suggested action for a topic.
type Recommendation struct {
	Action string `json:"action"`
}

// ExecutiveSummaryItem is one row of the report's executive summary.
type ExecutiveSummaryItem struct {
	Objective         string `json:"objective"`
	Status            string `json:"status"`
	KeyDecisionNeeded string `json:"key_decision_needed"`
}

// Citation points an assistant answer at supporting material. Only the
// display index is interpreted; the rest of the payload is opaque.
type Citation struct {
	Index any `json:"i"`
}

// Label renders the citation index for display.
func (c Citation) Label() string {
	return fmt.Sprintf("%v", c.Index)
}

// AskRequest is the body of POST /ask. A missing product scope is sent as
// an explicit null.
type AskRequest struct {
	Question         string  `json:"question"`
	TalkingProductID *string `json:"talking_product_id"`
}

// AskResponse is the assistant's answer to one question.
type AskResponse struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations,omitempty"`
}
