package app

import (
	"github.com/vannoppenjarno/automatic-reporting/internal/api"
	"github.com/vannoppenjarno/automatic-reporting/internal/store"
)

// CredentialReceivedMsg delivers a bearer credential into the state machine,
// whether it came from a flag, the environment, or the login prompt.
type CredentialReceivedMsg struct {
	Token string
}

// ProductsLoadedMsg carries the caller's product list after sign-in.
type ProductsLoadedMsg struct {
	Products []api.Product
}

// ProductsErrorMsg is sent when the product list call fails.
type ProductsErrorMsg struct {
	Err error
}

// ReportLoadedMsg carries a resolved report. Seq ties it to the fetch that
// produced it so superseded results can be discarded.
type ReportLoadedMsg struct {
	Seq  int
	Date string
	Doc  *api.ReportDocument
}

// ReportEmptyMsg is the recognized no-report outcome of a latest lookup.
type ReportEmptyMsg struct {
	Seq int
}

// ReportErrorMsg is sent when a report fetch fails.
type ReportErrorMsg struct {
	Seq int
	Err error
}

// AnswerMsg carries the assistant's answer to the outstanding question.
type AnswerMsg struct {
	Answer    string
	Citations []api.Citation
}

// AnswerErrorMsg is sent when the assistant call fails.
type AnswerErrorMsg struct {
	Err error
}

// TranscriptSavedMsg reports a successful transcript export.
type TranscriptSavedMsg struct {
	Path string
}

// TranscriptSaveErrorMsg is sent when the transcript export fails.
type TranscriptSaveErrorMsg struct {
	Err error
}

type historyOpenedMsg struct {
	store *store.Store
}
