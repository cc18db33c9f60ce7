package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vannoppenjarno/automatic-reporting/internal/api"
	"github.com/vannoppenjarno/automatic-reporting/internal/chat"
	"github.com/vannoppenjarno/automatic-reporting/internal/config"
	"github.com/vannoppenjarno/automatic-reporting/internal/report"
	"github.com/vannoppenjarno/automatic-reporting/internal/store"
)

func testConfig() config.Config {
	return config.Config{APIBase: "http://127.0.0.1:9"}
}

func newTestModel() Model {
	m := New(testConfig(), nil)
	m.width = 80
	m.height = 24
	return m
}

func keyRunes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func notLinkedErr() error {
	return &api.APIError{
		Status: http.StatusForbidden,
		Data:   json.RawMessage(`{"detail":"User not linked to a company yet"}`),
	}
}

func TestNewModel(t *testing.T) {
	m := newTestModel()
	if m.view != ViewLogin {
		t.Error("new model should start logged out")
	}
	if m.reportType != report.TypeDaily {
		t.Errorf("reportType = %q, want daily", m.reportType)
	}
	if m.chatLog.Len() != 0 {
		t.Error("new model should have an empty chat log")
	}
	if tok, ok := m.creds.Get(); ok {
		t.Errorf("new model should have no credential, got %q", tok)
	}
}

func TestCredentialReceivedRequestsProducts(t *testing.T) {
	m := newTestModel()

	updated, cmd := m.Update(CredentialReceivedMsg{Token: "tok-1"})
	model := updated.(Model)

	if tok, ok := model.creds.Get(); !ok || tok != "tok-1" {
		t.Errorf("credential = %q, %v", tok, ok)
	}
	if !model.loggingIn {
		t.Error("model should be signing in")
	}
	if cmd == nil {
		t.Error("credential arrival should trigger the products call")
	}
}

func TestNotLinkedTransitionsToNoAccess(t *testing.T) {
	m := newTestModel()
	m.creds.Set("tok-1")
	m.loggingIn = true

	updated, cmd := m.Update(ProductsErrorMsg{Err: notLinkedErr()})
	model := updated.(Model)

	if model.view != ViewNoAccess {
		t.Errorf("view = %v, want ViewNoAccess", model.view)
	}
	if cmd != nil {
		t.Error("no further fetch may be attempted for a not-linked account")
	}
}

func TestGenericLoginFailureReturnsToLogin(t *testing.T) {
	m := newTestModel()
	m.creds.Set("tok-1")
	m.loggingIn = true

	updated, _ := m.Update(ProductsErrorMsg{Err: fmt.Errorf("connection refused")})
	model := updated.(Model)

	if model.view != ViewLogin {
		t.Errorf("view = %v, want ViewLogin", model.view)
	}
	if model.loginNotice != noticeLoginFailed {
		t.Errorf("loginNotice = %q", model.loginNotice)
	}
	if _, ok := model.creds.Get(); ok {
		t.Error("rejected credential should be cleared")
	}
}

func TestProductsLoadedEntersHome(t *testing.T) {
	m := newTestModel()
	m.loggingIn = true
	m.reportType = report.TypeMonthly // selector must reset to daily

	updated, cmd := m.Update(ProductsLoadedMsg{Products: []api.Product{{ID: "p1", Name: "Acme"}}})
	model := updated.(Model)

	if model.view != ViewHome {
		t.Errorf("view = %v, want ViewHome", model.view)
	}
	if model.reportType != report.TypeDaily {
		t.Errorf("reportType = %q, want daily", model.reportType)
	}
	if cmd == nil {
		t.Error("a latest-report fetch should be attempted when products exist")
	}
	if model.reportSeq != 1 {
		t.Errorf("reportSeq = %d, want 1", model.reportSeq)
	}
}

func TestProductsLoadedEmptySkipsFetch(t *testing.T) {
	m := newTestModel()
	m.loggingIn = true

	updated, cmd := m.Update(ProductsLoadedMsg{Products: nil})
	model := updated.(Model)

	if model.view != ViewHome {
		t.Errorf("view = %v, want ViewHome", model.view)
	}
	if cmd != nil {
		t.Error("no report fetch may be attempted with an empty product list")
	}
}

func TestProductListReplacedWholesale(t *testing.T) {
	m := newTestModel()
	m.products = []api.Product{{ID: "old", Name: "Old"}}
	m.productIndex = 0

	updated, _ := m.Update(ProductsLoadedMsg{Products: []api.Product{{ID: "p1", Name: "A"}, {ID: "p2", Name: "B"}}})
	model := updated.(Model)

	if len(model.products) != 2 || model.products[0].ID != "p1" {
		t.Errorf("products = %+v", model.products)
	}
	if model.productIndex != 0 {
		t.Errorf("productIndex = %d, want reset to 0", model.productIndex)
	}
}

func TestReportLoadedSetsDateAndDocument(t *testing.T) {
	m := newTestModel()
	m.reportSeq = 1
	m.reportBusy = true

	doc := &api.ReportDocument{OverallTakeaway: "fine"}
	updated, _ := m.Update(ReportLoadedMsg{Seq: 1, Date: "2026-08-30", Doc: doc})
	model := updated.(Model)

	if model.reportDoc != doc {
		t.Error("report document not stored")
	}
	if model.reportDate != "2026-08-30" || model.dateInput.Value() != "2026-08-30" {
		t.Errorf("date = %q, input = %q", model.reportDate, model.dateInput.Value())
	}
	if model.reportBusy {
		t.Error("busy flag should clear")
	}
}

func TestStaleReportResponsesDropped(t *testing.T) {
	current := &api.ReportDocument{OverallTakeaway: "current"}
	stale := &api.ReportDocument{OverallTakeaway: "stale"}

	m := newTestModel()
	m.reportSeq = 2
	m.reportDoc = current
	m.reportDate = "2026-08-30"

	updated, _ := m.Update(ReportLoadedMsg{Seq: 1, Date: "2026-08-01", Doc: stale})
	model := updated.(Model)
	if model.reportDoc != current || model.reportDate != "2026-08-30" {
		t.Error("a superseded load must not touch the panel")
	}

	updated, _ = model.Update(ReportEmptyMsg{Seq: 1})
	model = updated.(Model)
	if model.reportDoc != current {
		t.Error("a superseded empty result must not clear the panel")
	}

	updated, _ = model.Update(ReportErrorMsg{Seq: 1, Err: fmt.Errorf("late failure")})
	model = updated.(Model)
	if model.reportDoc != current || model.reportNotice != "" {
		t.Error("a superseded error must not touch the panel")
	}
}

func TestReportEmptyClearsDate(t *testing.T) {
	m := newTestModel()
	m.reportSeq = 1
	m.reportBusy = true
	m.reportDate = "2026-08-30"
	m.dateInput.SetValue("2026-08-30")
	m.reportDoc = &api.ReportDocument{}

	updated, _ := m.Update(ReportEmptyMsg{Seq: 1})
	model := updated.(Model)

	if model.reportDate != "" || model.dateInput.Value() != "" {
		t.Error("date must be cleared when no report exists")
	}
	if model.reportDoc != nil {
		t.Error("stale document must be dropped")
	}
	if model.reportNotice != noticeNoReports {
		t.Errorf("notice = %q", model.reportNotice)
	}
}

func TestReportErrorShowsInlineNotice(t *testing.T) {
	m := newTestModel()
	m.view = ViewHome
	m.reportSeq = 1
	m.reportBusy = true

	updated, _ := m.Update(ReportErrorMsg{Seq: 1, Err: fmt.Errorf("backend exploded")})
	model := updated.(Model)

	if model.view != ViewHome {
		t.Error("a report failure must not change the view")
	}
	if model.reportNotice != noticeLoadFailed {
		t.Errorf("notice = %q, raw errors must never be shown", model.reportNotice)
	}
}

func TestChatSendBlankIsNoOp(t *testing.T) {
	for _, input := range []string{"", "   "} {
		m := newTestModel()
		m.view = ViewChat
		m.chatInput.SetValue(input)

		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		model := updated.(Model)

		if model.chatLog.Len() != 0 {
			t.Errorf("send(%q) changed the log", input)
		}
		if cmd != nil {
			t.Errorf("send(%q) issued a command", input)
		}
		if model.asking {
			t.Errorf("send(%q) marked a question outstanding", input)
		}
	}
}

func TestChatSendAppendsUserImmediately(t *testing.T) {
	m := newTestModel()
	m.view = ViewChat
	m.products = []api.Product{{ID: "p1", Name: "Acme"}}
	m.chatInput.SetValue("What changed?")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model := updated.(Model)

	if model.chatLog.Len() != 1 {
		t.Fatalf("log len = %d, want 1 before the answer arrives", model.chatLog.Len())
	}
	msg := model.chatLog.Messages()[0]
	if msg.Role != chat.RoleUser || msg.Content != "What changed?" {
		t.Errorf("message = %+v", msg)
	}
	if !model.asking {
		t.Error("a question should be outstanding")
	}
	if cmd == nil {
		t.Error("the ask command should be issued")
	}
	if model.chatInput.Value() != "" {
		t.Error("input should be cleared")
	}
}

func TestChatSendWhileAskingIsIgnored(t *testing.T) {
	m := newTestModel()
	m.view = ViewChat
	m.asking = true
	m.chatInput.SetValue("another question")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model := updated.(Model)

	if model.chatLog.Len() != 0 || cmd != nil {
		t.Error("sends must be serialized; the second must wait")
	}
}

func TestAnswerAppendsAssistantTurn(t *testing.T) {
	m := newTestModel()
	m.view = ViewChat
	m.chatLog.AppendUser("What changed?")
	m.asking = true

	updated, _ := m.Update(AnswerMsg{Answer: "X", Citations: []api.Citation{{Index: 1}, {Index: 2}}})
	model := updated.(Model)

	if model.chatLog.Len() != 2 {
		t.Fatalf("log len = %d, want 2", model.chatLog.Len())
	}
	answer := model.chatLog.Messages()[1]
	if answer.Role != chat.RoleAssistant || answer.Content != "X" {
		t.Errorf("answer = %+v", answer)
	}
	if len(answer.Citations) != 2 {
		t.Errorf("citations = %+v", answer.Citations)
	}
	if model.asking {
		t.Error("the question should no longer be outstanding")
	}
}

func TestAnswerErrorAppendsFallback(t *testing.T) {
	m := newTestModel()
	m.view = ViewChat
	m.chatLog.AppendUser("hi")
	m.asking = true

	updated, _ := m.Update(AnswerErrorMsg{Err: fmt.Errorf("dial tcp: connection refused")})
	model := updated.(Model)

	if model.chatLog.Len() != 2 {
		t.Fatalf("log len = %d, want 2", model.chatLog.Len())
	}
	answer := model.chatLog.Messages()[1]
	if answer.Content != chat.FallbackAnswer {
		t.Errorf("content = %q, want the fixed fallback copy", answer.Content)
	}
}

func TestOpenAndCloseChat(t *testing.T) {
	m := newTestModel()
	m.view = ViewHome
	m.chatLog.AppendUser("kept across views")

	updated, _ := m.Update(keyRunes('c'))
	model := updated.(Model)
	if model.view != ViewChat {
		t.Errorf("view = %v, want ViewChat", model.view)
	}

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	model = updated.(Model)
	if model.view != ViewHome {
		t.Errorf("view = %v, want ViewHome", model.view)
	}
	if model.chatLog.Len() != 1 {
		t.Error("opening and closing chat must not touch the log")
	}
}

func TestTabCyclesReportType(t *testing.T) {
	m := newTestModel()
	m.view = ViewHome
	m.products = []api.Product{{ID: "p1", Name: "Acme"}}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	model := updated.(Model)

	if model.reportType != report.TypeWeekly {
		t.Errorf("reportType = %q, want weekly", model.reportType)
	}
	if cmd == nil || model.reportSeq != 1 {
		t.Error("changing the type must dispatch a fresh fetch")
	}
}

func TestDirectTypeSelection(t *testing.T) {
	m := newTestModel()
	m.view = ViewHome

	updated, cmd := m.Update(keyRunes('4'))
	model := updated.(Model)

	if model.reportType != report.TypeAggregated {
		t.Errorf("reportType = %q, want aggregated", model.reportType)
	}
	if cmd == nil {
		t.Error("selecting a type must dispatch a fetch")
	}
}

func TestProductCyclingDispatchesFetch(t *testing.T) {
	m := newTestModel()
	m.view = ViewHome
	m.products = []api.Product{{ID: "p1", Name: "A"}, {ID: "p2", Name: "B"}}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	model := updated.(Model)
	if model.productIndex != 1 {
		t.Errorf("productIndex = %d, want 1", model.productIndex)
	}
	if cmd == nil {
		t.Error("changing the product must dispatch a fetch")
	}

	updated, cmd = model.Update(tea.KeyMsg{Type: tea.KeyLeft})
	model = updated.(Model)
	if model.productIndex != 0 {
		t.Errorf("productIndex = %d, want 0", model.productIndex)
	}
	if cmd == nil {
		t.Error("cycling back must also dispatch a fetch")
	}
}

func TestSingleProductCyclingIsNoOp(t *testing.T) {
	m := newTestModel()
	m.view = ViewHome
	m.products = []api.Product{{ID: "p1", Name: "A"}}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if cmd != nil {
		t.Error("cycling a single product must not refetch")
	}
}

func TestDateEntryValidation(t *testing.T) {
	m := newTestModel()
	m.view = ViewHome
	m.products = []api.Product{{ID: "p1", Name: "A"}}

	updated, _ := m.Update(keyRunes('d'))
	model := updated.(Model)
	if !model.editingDate {
		t.Fatal("d should start date editing")
	}

	model.dateInput.SetValue("yesterday")
	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(Model)
	if model.reportNotice != noticeBadDate {
		t.Errorf("notice = %q", model.reportNotice)
	}
	if cmd != nil || !model.editingDate {
		t.Error("an invalid date must not dispatch a fetch")
	}

	model.dateInput.SetValue("2026-08-30")
	updated, cmd = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(Model)
	if model.editingDate {
		t.Error("editing should end on a valid date")
	}
	if model.reportDate != "2026-08-30" {
		t.Errorf("reportDate = %q", model.reportDate)
	}
	if cmd == nil {
		t.Error("a valid date must dispatch a by-date fetch")
	}
}

func TestLoginSubmitsTrimmedToken(t *testing.T) {
	m := newTestModel()
	m.tokenInput.SetValue("  tok-1  ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter with a token should produce a command")
	}
	msg, ok := cmd().(CredentialReceivedMsg)
	if !ok {
		t.Fatalf("command produced %T, want CredentialReceivedMsg", cmd())
	}
	if msg.Token != "tok-1" {
		t.Errorf("token = %q, want trimmed", msg.Token)
	}
}

func TestLoginBlankTokenIgnored(t *testing.T) {
	m := newTestModel()
	m.tokenInput.SetValue("   ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("blank token must not sign in")
	}
}

func TestHistoryWriteFailureIsLogged(t *testing.T) {
	st, err := store.Open(store.MemoryDSN)
	if err != nil {
		t.Fatal(err)
	}
	st.Close() // force every insert to fail

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	cmd := recordMessageCmd(logger, st, chat.Message{Role: chat.RoleUser, Content: "hi"})
	if cmd == nil {
		t.Fatal("an open history should produce a command")
	}
	cmd()
	if !strings.Contains(buf.String(), "session history write failed") {
		t.Errorf("message insert failure not logged: %q", buf.String())
	}

	buf.Reset()
	cmd = recordReportViewCmd(logger, st, "p1", "Acme", report.TypeDaily, "2026-08-30")
	if cmd == nil {
		t.Fatal("an open history should produce a command")
	}
	cmd()
	if !strings.Contains(buf.String(), "session history write failed") {
		t.Errorf("report view insert failure not logged: %q", buf.String())
	}
}

func TestCtrlCQuitsFromAnyView(t *testing.T) {
	for _, view := range []ViewState{ViewLogin, ViewNoAccess, ViewHome, ViewChat} {
		m := newTestModel()
		m.view = view

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		if cmd == nil {
			t.Fatalf("view %v: ctrl+c produced no command", view)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("view %v: ctrl+c did not quit", view)
		}
	}
}
