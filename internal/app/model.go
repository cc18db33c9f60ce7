// Package app is the bubbletea program driving the reporting client: the
// view state machine, report fetch sequencing and the chat conversation.
package app

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vannoppenjarno/automatic-reporting/internal/api"
	"github.com/vannoppenjarno/automatic-reporting/internal/chat"
	"github.com/vannoppenjarno/automatic-reporting/internal/config"
	"github.com/vannoppenjarno/automatic-reporting/internal/report"
	"github.com/vannoppenjarno/automatic-reporting/internal/session"
	"github.com/vannoppenjarno/automatic-reporting/internal/store"
	"github.com/vannoppenjarno/automatic-reporting/internal/ui"
)

// ViewState is the top-level navigation state. Exactly one view is active
// at any time.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewNoAccess
	ViewHome
	ViewChat
)

// Fixed user-facing copy. Raw error detail goes to the log, never the
// screen.
const (
	noticeNoReports    = "No reports found for this selection."
	noticeLoadFailed   = "Could not load the report. Please pick another date or type."
	noticeBadDate      = "Dates are YYYY-MM-DD."
	noticeLoginFailed  = "Unexpected sign-in error. Please try again."
	noticeSaveFailed   = "Could not save the transcript."
	placeholderNoDoc   = "No report content available."
	placeholderThemes  = "No themes available."
	placeholderSummary = "No executive summary available."
	placeholderOverall = "No overall takeaway available."
)

// Model is the root bubbletea model.
type Model struct {
	logger *slog.Logger

	// Collaborators
	creds   *session.Store
	api     *api.Client
	reports *report.Controller
	history *store.Store

	// Navigation
	view ViewState

	// Login
	tokenInput  textinput.Model
	startToken  string
	loggingIn   bool
	loginNotice string

	// Report controls. Exactly one query is bound to these at a time.
	products     []api.Product
	productIndex int
	reportType   report.Type
	dateInput    textinput.Model
	editingDate  bool
	reportDate   string

	// Report panel
	reportDoc    *api.ReportDocument
	reportNotice string
	reportSeq    int
	reportBusy   bool

	// Chat
	chatLog   *chat.Log
	chatInput textinput.Model
	asking    bool

	// UI
	spin       spinner.Model
	statusText string
	width      int
	height     int
}

// New creates the initial model.
func New(cfg config.Config, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	creds := session.NewStore()
	client := api.NewClient(cfg.APIBase, cfg.HTTPTimeout, creds)

	tokenInput := textinput.New()
	tokenInput.Placeholder = "paste your sign-in token"
	tokenInput.EchoMode = textinput.EchoPassword
	tokenInput.CharLimit = 4096
	tokenInput.Focus()

	dateInput := textinput.New()
	dateInput.Placeholder = "YYYY-MM-DD"
	dateInput.CharLimit = 10
	dateInput.Width = 12

	chatInput := textinput.New()
	chatInput.Placeholder = "ask about your reports"
	chatInput.CharLimit = 2000

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(ui.SpinnerStyle))

	return Model{
		logger:     logger,
		creds:      creds,
		api:        client,
		reports:    report.NewController(client),
		view:       ViewLogin,
		startToken: cfg.Token,
		reportType: report.TypeDaily,
		tokenInput: tokenInput,
		dateInput:  dateInput,
		chatInput:  chatInput,
		chatLog:    chat.NewLog(),
		spin:       sp,
	}
}

// Init opens the session history and, when a token was configured, signs in
// immediately.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, openHistoryCmd(m.logger)}
	if m.startToken != "" {
		token := m.startToken
		cmds = append(cmds, func() tea.Msg { return CredentialReceivedMsg{Token: token} })
	}
	return tea.Batch(cmds...)
}

// Commands. Each command does exactly one backend call and reports the
// outcome as a message; all state mutation happens in Update.

func openHistoryCmd(logger *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		st, err := store.Open(store.MemoryDSN)
		if err != nil {
			logger.Warn("session history unavailable", "error", err)
			return nil
		}
		return historyOpenedMsg{store: st}
	}
}

func credentialCmd(token string) tea.Cmd {
	return func() tea.Msg { return CredentialReceivedMsg{Token: token} }
}

func loadProductsCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		products, err := client.TalkingProducts(context.Background())
		if err != nil {
			return ProductsErrorMsg{Err: err}
		}
		return ProductsLoadedMsg{Products: products}
	}
}

func fetchLatestCmd(rc *report.Controller, seq int, q report.Query) tea.Cmd {
	return func() tea.Msg {
		latest, err := rc.FetchLatest(context.Background(), q)
		if err != nil {
			return ReportErrorMsg{Seq: seq, Err: err}
		}
		if latest.Empty {
			return ReportEmptyMsg{Seq: seq}
		}
		return ReportLoadedMsg{Seq: seq, Date: latest.Date, Doc: latest.Report}
	}
}

func fetchByDateCmd(rc *report.Controller, seq int, q report.Query) tea.Cmd {
	return func() tea.Msg {
		doc, err := rc.FetchByDate(context.Background(), q)
		if err != nil {
			return ReportErrorMsg{Seq: seq, Err: err}
		}
		return ReportLoadedMsg{Seq: seq, Date: q.Date, Doc: doc}
	}
}

func askCmd(client *api.Client, question, productID string) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Ask(context.Background(), question, productID)
		if err != nil {
			return AnswerErrorMsg{Err: err}
		}
		return AnswerMsg{Answer: resp.Answer, Citations: resp.Citations}
	}
}

func recordMessageCmd(logger *slog.Logger, history *store.Store, msg chat.Message) tea.Cmd {
	if history == nil {
		return nil
	}
	return func() tea.Msg {
		sources := ""
		if len(msg.Citations) > 0 {
			sources = sourcesLine(msg.Citations)
		}
		if err := history.RecordMessage(string(msg.Role), msg.Content, sources); err != nil {
			logger.Warn("session history write failed", "error", err)
		}
		return nil
	}
}

func recordReportViewCmd(logger *slog.Logger, history *store.Store, productID, productName string, typ report.Type, date string) tea.Cmd {
	if history == nil {
		return nil
	}
	return func() tea.Msg {
		if err := history.RecordReportView(productID, productName, string(typ), date); err != nil {
			logger.Warn("session history write failed", "error", err)
		}
		return nil
	}
}

// dispatchFetch issues a new report fetch under a fresh sequence number.
// Older in-flight fetches are not cancelled; their results arrive with a
// stale sequence and are dropped in Update.
func (m *Model) dispatchFetch(latest bool) tea.Cmd {
	m.reportSeq++
	m.reportBusy = true
	m.reportNotice = ""
	seq := m.reportSeq
	q := report.Query{
		ProductID: m.activeProductID(),
		Type:      m.reportType,
		Date:      m.reportDate,
	}
	if latest {
		return tea.Batch(fetchLatestCmd(m.reports, seq, q), m.spin.Tick)
	}
	return tea.Batch(fetchByDateCmd(m.reports, seq, q), m.spin.Tick)
}

func (m Model) activeProductID() string {
	if len(m.products) == 0 {
		return ""
	}
	return m.products[m.productIndex].ID
}

func (m Model) activeProductName() string {
	if len(m.products) == 0 {
		return ""
	}
	return m.products[m.productIndex].Name
}

func (m Model) busy() bool {
	return m.loggingIn || m.reportBusy || m.asking
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case historyOpenedMsg:
		m.history = msg.store
		return m, nil

	case CredentialReceivedMsg:
		m.creds.Set(msg.Token)
		m.loggingIn = true
		m.loginNotice = ""
		return m, tea.Batch(loadProductsCmd(m.api), m.spin.Tick)

	case ProductsLoadedMsg:
		m.loggingIn = false
		m.products = msg.Products
		m.productIndex = 0
		m.view = ViewHome
		m.reportType = report.TypeDaily
		m.reportDoc = nil
		m.reportNotice = ""
		m.reportDate = ""
		m.dateInput.SetValue("")
		m.logger.Info("signed in", "products", len(m.products))
		if len(m.products) > 0 {
			return m, m.dispatchFetch(true)
		}
		return m, nil

	case ProductsErrorMsg:
		m.loggingIn = false
		if api.IsNotLinked(msg.Err) {
			m.logger.Info("account not linked to any product")
			m.view = ViewNoAccess
			return m, nil
		}
		// The backend rejected this credential for some other reason;
		// keeping it around would only let a retry reuse it.
		m.creds.Clear()
		m.view = ViewLogin
		m.loginNotice = noticeLoginFailed
		m.logger.Error("sign-in failed", "error", msg.Err)
		return m, nil

	case ReportLoadedMsg:
		if msg.Seq != m.reportSeq {
			return m, nil // superseded fetch, drop
		}
		m.reportBusy = false
		m.reportDoc = msg.Doc
		m.reportNotice = ""
		if msg.Date != "" {
			m.reportDate = msg.Date
			m.dateInput.SetValue(msg.Date)
		}
		return m, recordReportViewCmd(m.logger, m.history, m.activeProductID(), m.activeProductName(), m.reportType, m.reportDate)

	case ReportEmptyMsg:
		if msg.Seq != m.reportSeq {
			return m, nil
		}
		m.reportBusy = false
		m.reportDoc = nil
		m.reportDate = ""
		m.dateInput.SetValue("")
		m.reportNotice = noticeNoReports
		return m, nil

	case ReportErrorMsg:
		if msg.Seq != m.reportSeq {
			return m, nil
		}
		m.reportBusy = false
		m.reportDoc = nil
		m.reportNotice = noticeLoadFailed
		m.logger.Warn("report fetch failed", "error", msg.Err)
		return m, nil

	case AnswerMsg:
		m.asking = false
		appended := m.chatLog.AppendAssistant(msg.Answer, msg.Citations)
		return m, recordMessageCmd(m.logger, m.history, appended)

	case AnswerErrorMsg:
		m.asking = false
		m.logger.Warn("assistant call failed", "error", msg.Err)
		appended := m.chatLog.AppendAssistant(chat.FallbackAnswer, nil)
		return m, recordMessageCmd(m.logger, m.history, appended)

	case TranscriptSavedMsg:
		m.statusText = "Transcript saved to " + msg.Path
		return m, nil

	case TranscriptSaveErrorMsg:
		m.statusText = noticeSaveFailed
		m.logger.Warn("transcript save failed", "error", msg.Err)
		return m, nil
	}

	return m.updateFocusedInput(msg)
}

// updateFocusedInput forwards unhandled messages (cursor blinks and the
// like) to whichever text input currently has focus.
func (m Model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.view == ViewLogin:
		m.tokenInput, cmd = m.tokenInput.Update(msg)
	case m.view == ViewChat:
		m.chatInput, cmd = m.chatInput.Update(msg)
	case m.editingDate:
		m.dateInput, cmd = m.dateInput.Update(msg)
	}
	return m, cmd
}

// handleKey dispatches key presses to the active view's handler.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == KeyCtrlC {
		return m, tea.Quit
	}
	switch m.view {
	case ViewLogin:
		return m.handleLoginKey(msg)
	case ViewNoAccess:
		return m.handleNoAccessKey(msg)
	case ViewHome:
		return m.handleHomeKey(msg)
	case ViewChat:
		return m.handleChatKey(msg)
	}
	return m, nil
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loggingIn {
		return m, nil
	}
	if msg.String() == KeyEnter {
		token := strings.TrimSpace(m.tokenInput.Value())
		if token == "" {
			return m, nil
		}
		m.tokenInput.SetValue("")
		return m, credentialCmd(token)
	}
	var cmd tea.Cmd
	m.tokenInput, cmd = m.tokenInput.Update(msg)
	return m, cmd
}

func (m Model) handleNoAccessKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == KeyQuit {
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editingDate {
		switch msg.String() {
		case KeyEnter:
			date := strings.TrimSpace(m.dateInput.Value())
			if _, err := time.Parse("2006-01-02", date); err != nil {
				m.reportNotice = noticeBadDate
				return m, nil
			}
			m.editingDate = false
			m.dateInput.Blur()
			m.reportDate = date
			return m, m.dispatchFetch(false)
		case KeyEsc:
			m.editingDate = false
			m.dateInput.Blur()
			m.dateInput.SetValue(m.reportDate)
			return m, nil
		default:
			var cmd tea.Cmd
			m.dateInput, cmd = m.dateInput.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case KeyQuit:
		return m, tea.Quit

	case KeyOpenChat:
		m.view = ViewChat
		m.statusText = ""
		m.chatInput.Focus()
		return m, textinput.Blink

	case KeyCycleType:
		m.reportType = nextType(m.reportType)
		return m, m.dispatchFetch(true)

	case "1", "2", "3", "4":
		m.reportType = report.Types[msg.String()[0]-'1']
		return m, m.dispatchFetch(true)

	case KeyPrevProduct, KeyPrevProductAlt:
		if len(m.products) > 1 {
			m.productIndex = (m.productIndex - 1 + len(m.products)) % len(m.products)
			return m, m.dispatchFetch(true)
		}
		return m, nil

	case KeyNextProduct, KeyNextProductAlt:
		if len(m.products) > 1 {
			m.productIndex = (m.productIndex + 1) % len(m.products)
			return m, m.dispatchFetch(true)
		}
		return m, nil

	case KeyEditDate:
		m.editingDate = true
		m.dateInput.Focus()
		return m, textinput.Blink

	case KeyRefresh:
		return m, m.dispatchFetch(true)
	}

	return m, nil
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyEsc:
		m.view = ViewHome
		m.chatInput.Blur()
		return m, nil

	case KeySaveTranscript:
		if m.history == nil || m.chatLog.Len() == 0 {
			return m, nil
		}
		return m, saveTranscriptCmd(m.history)

	case KeyEnter:
		if m.asking {
			return m, nil
		}
		appended, ok := m.chatLog.AppendUser(m.chatInput.Value())
		if !ok {
			return m, nil
		}
		// The user's turn is in the log before the network call resolves;
		// bubbletea re-renders as soon as Update returns.
		m.chatInput.SetValue("")
		m.asking = true
		return m, tea.Batch(
			askCmd(m.api, appended.Content, m.activeProductID()),
			recordMessageCmd(m.logger, m.history, appended),
			m.spin.Tick,
		)

	default:
		var cmd tea.Cmd
		m.chatInput, cmd = m.chatInput.Update(msg)
		return m, cmd
	}
}

func nextType(t report.Type) report.Type {
	for i, rt := range report.Types {
		if rt == t {
			return report.Types[(i+1)%len(report.Types)]
		}
	}
	return report.TypeDaily
}
