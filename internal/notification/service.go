package notification

import (
	"sort"
	"sync"
	"time"
)

const (
	EventCasesImported = "cases_imported"
	EventMessagePosted = "message_posted"
)

type Event struct {
	Type     string `json:"type"`
	ClientID string `json:"clientId,omitempty"`
	CaseID   string `json:"caseId,omitempty"`
	Message  string `json:"message,omitempty"`
	Time     string `json:"time"`
}

// NotificationService keeps the latest portal activity per client so the
// portal can show an activity feed.
type NotificationService struct {
	mu     sync.Mutex
	recent map[string][]Event
	keep   int
	now    func() time.Time
}

func NewNotificationService(keep int) *NotificationService {
	if keep <= 0 {
		keep = 50
	}
	return &NotificationService{
		recent: make(map[string][]Event),
		keep:   keep,
		now:    time.Now,
	}
}

// Publish records the event, dropping the client's oldest beyond the limit.
func (ns *NotificationService) Publish(ev Event) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	if ev.Time == "" {
		ev.Time = ns.now().UTC().Format(time.RFC3339)
	}
	list := append(ns.recent[ev.ClientID], ev)
	if len(list) > ns.keep {
		list = list[len(list)-ns.keep:]
	}
	ns.recent[ev.ClientID] = list
}

// Recent returns the stored events for a client, newest first. The empty
// client id returns every client's events.
func (ns *NotificationService) Recent(clientID string) []Event {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	out := []Event{}
	for id, list := range ns.recent {
		if clientID != "" && id != clientID {
			continue
		}
		out = append(out, list...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time > out[j].Time })
	return out
}

func (ns *NotificationService) Clear(clientID string) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	if clientID == "" {
		ns.recent = make(map[string][]Event)
		return
	}
	delete(ns.recent, clientID)
}
