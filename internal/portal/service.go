package portal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"time"

	"CollectPortal/internal/caseexport"
	"CollectPortal/internal/caseimport"
	"CollectPortal/internal/models"
	"CollectPortal/internal/notification"
	"CollectPortal/internal/reports"
	"CollectPortal/internal/store"

	"github.com/google/uuid"
)

var (
	ErrCaseNotFound      = errors.New("case not found")
	ErrAmbiguousCase     = errors.New("case id is used by more than one client")
	ErrEmptyMessage      = errors.New("message body is empty")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// Notifier receives portal activity such as imports and new messages.
type Notifier interface {
	Publish(ev notification.Event)
}

// Service implements the portal use cases on top of a record store. Every
// method takes the caller's client id; an empty id is the administrator scope.
type Service struct {
	store    store.Store
	importer *caseimport.Importer
	notifier Notifier
	now      func() time.Time
}

func NewService(st store.Store, aliases caseimport.AliasTable) *Service {
	return &Service{
		store:    st,
		importer: caseimport.NewImporter(st, aliases),
		now:      time.Now,
	}
}

func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *Service) publish(ev notification.Event) {
	if s.notifier != nil {
		s.notifier.Publish(ev)
	}
}

func (s *Service) ImportFile(ctx context.Context, clientID, filename string, data []byte) (caseimport.Summary, error) {
	summary, err := s.importer.ImportFile(ctx, clientID, filename, data)
	if err == nil {
		s.publishImport(clientID, summary)
	}
	return summary, err
}

func (s *Service) ImportRows(ctx context.Context, clientID string, rows []caseimport.Row) (caseimport.Summary, error) {
	summary, err := s.importer.ImportRows(ctx, clientID, rows)
	if err == nil {
		s.publishImport(clientID, summary)
	}
	return summary, err
}

func (s *Service) publishImport(clientID string, summary caseimport.Summary) {
	msg := fmt.Sprintf("%d cases imported (%d new, %d updated, %d rows skipped)", summary.Imported, summary.Inserted, summary.Updated, summary.Skipped)
	if summary.FileName != "" {
		msg += " from " + summary.FileName
	}
	s.publish(notification.Event{Type: notification.EventCasesImported, ClientID: clientID, Message: msg})
}

// CaseQuery filters the case table. Search matches case id, debtor name or
// client name, ignoring case. Status "" or "all" disables the status filter.
type CaseQuery struct {
	Search string
	Status string
	Offset int
	Limit  int
}

type CasePage struct {
	Cases []models.CaseRecord `json:"cases"`
	Total int                 `json:"total"`
}

func (q CaseQuery) matches(c models.CaseRecord) bool {
	if st := strings.TrimSpace(q.Status); st != "" && !strings.EqualFold(st, "all") {
		if !strings.EqualFold(string(c.Status), st) {
			return false
		}
	}
	term := strings.ToLower(strings.TrimSpace(q.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.CaseID), term) ||
		strings.Contains(strings.ToLower(c.DebtorName), term) ||
		strings.Contains(strings.ToLower(c.ClientName), term)
}

// ListCases returns one page of matching cases and the total match count.
func (s *Service) ListCases(ctx context.Context, clientID string, q CaseQuery) CasePage {
	all := s.store.Load(ctx, clientID).Cases
	matched := make([]models.CaseRecord, 0, len(all))
	for _, c := range all {
		if q.matches(c) {
			matched = append(matched, c)
		}
	}
	page := CasePage{Total: len(matched), Cases: []models.CaseRecord{}}
	if q.Offset >= len(matched) {
		return page
	}
	end := len(matched)
	if q.Limit > 0 && q.Offset+q.Limit < end {
		end = q.Offset + q.Limit
	}
	page.Cases = matched[q.Offset:end]
	return page
}

type CaseDetail struct {
	Case     models.CaseRecord    `json:"case"`
	Messages []models.CaseMessage `json:"messages"`
}

// GetCase returns a case and its messages in chronological order. In the
// administrator scope a case id shared by several clients is ambiguous; pass
// the owning client id instead.
func (s *Service) GetCase(ctx context.Context, clientID, caseID string) (CaseDetail, error) {
	st := s.store.Load(ctx, clientID)
	c, err := findCase(st.Cases, caseID)
	if err != nil {
		return CaseDetail{}, err
	}
	msgs := []models.CaseMessage{}
	for _, m := range st.Messages {
		if m.CaseID == c.CaseID && (m.ClientID == "" || m.ClientID == c.ClientID) {
			msgs = append(msgs, m)
		}
	}
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].CreatedAt < msgs[j].CreatedAt })
	return CaseDetail{Case: c, Messages: msgs}, nil
}

// SendMessage appends a message to a case the caller can see. The message is
// stored under the case owner's scope.
func (s *Service) SendMessage(ctx context.Context, clientID, caseID string, author models.Author, body string) (models.CaseMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return models.CaseMessage{}, ErrEmptyMessage
	}
	c, err := findCase(s.store.Load(ctx, clientID).Cases, caseID)
	if err != nil {
		return models.CaseMessage{}, err
	}
	owner := c.ClientID
	msg := models.CaseMessage{
		ID:        uuid.NewString(),
		CaseID:    c.CaseID,
		ClientID:  owner,
		Author:    author,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
		Body:      body,
	}
	msgs := append(s.store.Load(ctx, owner).Messages, msg)
	if err := s.store.SaveMessages(ctx, owner, msgs); err != nil {
		return models.CaseMessage{}, fmt.Errorf("save message: %w", err)
	}
	log.Printf("[INFO] portal: %s message %s added to case %s", author, msg.ID, c.CaseID)
	s.publish(notification.Event{Type: notification.EventMessagePosted, ClientID: owner, CaseID: c.CaseID, Message: string(author) + " posted a message"})
	return msg, nil
}

type Thread struct {
	ClientID   string               `json:"clientId"`
	CaseID     string               `json:"caseId"`
	DebtorName string               `json:"debtorName"`
	Latest     string               `json:"latest"`
	Messages   []models.CaseMessage `json:"messages"`
}

type MessageBoard struct {
	Threads        []Thread `json:"threads"`
	Total          int      `json:"total"`
	ClientCount    int      `json:"clientCount"`
	CollectorCount int      `json:"collectorCount"`
}

type caseKey struct {
	clientID string
	caseID   string
}

// ListMessages groups messages by case, newest thread first, newest message
// first within a thread. Threads are keyed by owning client and case id. A
// non-empty author keeps only that author's messages.
func (s *Service) ListMessages(ctx context.Context, clientID string, author string) MessageBoard {
	st := s.store.Load(ctx, clientID)
	debtors := make(map[caseKey]string, len(st.Cases))
	owners := make(map[string][]string, len(st.Cases))
	for _, c := range st.Cases {
		debtors[caseKey{c.ClientID, c.CaseID}] = c.DebtorName
		owners[c.CaseID] = append(owners[c.CaseID], c.ClientID)
	}

	board := MessageBoard{Threads: []Thread{}}
	idx := map[caseKey]int{}
	for _, m := range st.Messages {
		switch m.Author {
		case models.AuthorClient:
			board.ClientCount++
		case models.AuthorCollector:
			board.CollectorCount++
		}
		if author != "" && !strings.EqualFold(author, "all") && !strings.EqualFold(string(m.Author), author) {
			continue
		}
		owner := m.ClientID
		if owner == "" && len(owners[m.CaseID]) == 1 {
			owner = owners[m.CaseID][0]
		}
		key := caseKey{owner, m.CaseID}
		i, ok := idx[key]
		if !ok {
			i = len(board.Threads)
			idx[key] = i
			board.Threads = append(board.Threads, Thread{ClientID: owner, CaseID: m.CaseID, DebtorName: debtors[key]})
		}
		board.Threads[i].Messages = append(board.Threads[i].Messages, m)
		board.Total++
	}
	for i := range board.Threads {
		t := &board.Threads[i]
		sort.SliceStable(t.Messages, func(a, b int) bool { return t.Messages[a].CreatedAt > t.Messages[b].CreatedAt })
		t.Latest = t.Messages[0].CreatedAt
	}
	sort.SliceStable(board.Threads, func(a, b int) bool { return board.Threads[a].Latest > board.Threads[b].Latest })
	return board
}

func (s *Service) Overview(ctx context.Context, clientID string) reports.Overview {
	st := s.store.Load(ctx, clientID)
	return reports.BuildOverview(st.Cases, st.Messages)
}

func (s *Service) Reports(ctx context.Context, clientID string) reports.Reports {
	st := s.store.Load(ctx, clientID)
	return reports.Build(st.Cases, st.Messages)
}

// ExportCases writes the client's cases as "csv" or "xlsx".
func (s *Service) ExportCases(ctx context.Context, clientID, format string, w io.Writer) error {
	cases := s.store.Load(ctx, clientID).Cases
	switch strings.ToLower(format) {
	case "", "csv":
		return caseexport.WriteCasesCSV(w, cases)
	case "xlsx":
		return caseexport.WriteCasesXLSX(w, cases)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

func (s *Service) ExportMessages(ctx context.Context, clientID string, w io.Writer) error {
	return caseexport.WriteMessagesCSV(w, s.store.Load(ctx, clientID).Messages)
}

// ClientIDs lists every client that owns at least one case.
func (s *Service) ClientIDs(ctx context.Context) []string {
	seen := map[string]bool{}
	ids := []string{}
	for _, c := range s.store.Load(ctx, "").Cases {
		if c.ClientID != "" && !seen[c.ClientID] {
			seen[c.ClientID] = true
			ids = append(ids, c.ClientID)
		}
	}
	sort.Strings(ids)
	return ids
}

func findCase(cases []models.CaseRecord, caseID string) (models.CaseRecord, error) {
	caseID = strings.TrimSpace(caseID)
	var (
		found models.CaseRecord
		n     int
	)
	for _, c := range cases {
		if c.CaseID == caseID {
			found = c
			n++
		}
	}
	switch n {
	case 0:
		return models.CaseRecord{}, ErrCaseNotFound
	case 1:
		return found, nil
	}
	return models.CaseRecord{}, ErrAmbiguousCase
}
