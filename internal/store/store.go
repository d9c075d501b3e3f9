package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"CollectPortal/internal/config"
	"CollectPortal/internal/models"
)

// State is the slice of persisted data visible to one client.
type State struct {
	Cases    []models.CaseRecord  `json:"cases"`
	Messages []models.CaseMessage `json:"messages"`
}

// Store persists cases and messages scoped by client id. An empty client id
// is the administrator scope and covers every client.
type Store interface {
	Load(ctx context.Context, clientID string) State
	SaveCases(ctx context.Context, clientID string, cases []models.CaseRecord) error
	SaveMessages(ctx context.Context, clientID string, messages []models.CaseMessage) error
}

// RecordStore keeps both collections as JSON arrays under fixed keys of a KV
// backend. Each save is a read-modify-write of the whole collection.
type RecordStore struct {
	kv          KV
	casesKey    string
	messagesKey string
	mu          sync.Mutex
}

func NewRecordStore(kv KV) *RecordStore {
	return &RecordStore{
		kv:          kv,
		casesKey:    config.CasesStorageKey,
		messagesKey: config.MessagesStorageKey,
	}
}

// Load returns the cases and messages of one client. A collection that
// cannot be read or decoded loads as empty.
func (s *RecordStore) Load(ctx context.Context, clientID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	cases, err := s.readCases(ctx)
	if err != nil {
		log.Printf("[WARN] store: %v, treating as empty", err)
		cases = []models.CaseRecord{}
	}
	messages, err := s.readMessages(ctx)
	if err != nil {
		log.Printf("[WARN] store: %v, treating as empty", err)
		messages = []models.CaseMessage{}
	}
	if clientID == "" {
		return State{Cases: cases, Messages: messages}
	}

	st := State{Cases: []models.CaseRecord{}, Messages: []models.CaseMessage{}}
	owned := make(map[string]bool)
	for _, c := range cases {
		if c.ClientID == clientID {
			st.Cases = append(st.Cases, c)
			owned[c.CaseID] = true
		}
	}
	for _, m := range messages {
		if messageInScope(m, clientID, owned) {
			st.Messages = append(st.Messages, m)
		}
	}
	return st
}

// SaveCases replaces the cases of one client and leaves every other client's
// cases untouched. If the stored collection cannot be read the save is
// refused, since writing back only this client's cases would drop the rest.
// The admin scope replaces the whole collection without reading it.
func (s *RecordStore) SaveCases(ctx context.Context, clientID string, cases []models.CaseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.CaseRecord, 0, len(cases))
	if clientID != "" {
		existing, err := s.readCases(ctx)
		if err != nil {
			return fmt.Errorf("save cases for %s: %w", clientID, err)
		}
		for _, c := range existing {
			if c.ClientID != clientID {
				out = append(out, c)
			}
		}
	}
	for _, c := range cases {
		if clientID != "" {
			c.ClientID = clientID
		}
		out = append(out, c)
	}
	return s.write(ctx, s.casesKey, out)
}

// SaveMessages replaces the messages of one client. Messages without an
// owner are attributed through the client's case ids. Read failures abort
// the save the same way as SaveCases.
func (s *RecordStore) SaveMessages(ctx context.Context, clientID string, messages []models.CaseMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.CaseMessage, 0, len(messages))
	if clientID != "" {
		cases, err := s.readCases(ctx)
		if err != nil {
			return fmt.Errorf("save messages for %s: %w", clientID, err)
		}
		existing, err := s.readMessages(ctx)
		if err != nil {
			return fmt.Errorf("save messages for %s: %w", clientID, err)
		}
		owned := make(map[string]bool)
		for _, c := range cases {
			if c.ClientID == clientID {
				owned[c.CaseID] = true
			}
		}
		for _, m := range existing {
			if !messageInScope(m, clientID, owned) {
				out = append(out, m)
			}
		}
	}
	for _, m := range messages {
		if clientID != "" {
			m.ClientID = clientID
		}
		out = append(out, m)
	}
	return s.write(ctx, s.messagesKey, out)
}

func messageInScope(m models.CaseMessage, clientID string, owned map[string]bool) bool {
	if m.ClientID != "" {
		return m.ClientID == clientID
	}
	return owned[m.CaseID]
}

func (s *RecordStore) readCases(ctx context.Context) ([]models.CaseRecord, error) {
	var cases []models.CaseRecord
	if err := s.read(ctx, s.casesKey, &cases); err != nil {
		return nil, err
	}
	if cases == nil {
		cases = []models.CaseRecord{}
	}
	return cases, nil
}

func (s *RecordStore) readMessages(ctx context.Context) ([]models.CaseMessage, error) {
	var messages []models.CaseMessage
	if err := s.read(ctx, s.messagesKey, &messages); err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []models.CaseMessage{}
	}
	return messages, nil
}

// read decodes one collection into dst. A missing key leaves dst untouched.
func (s *RecordStore) read(ctx context.Context, key string, dst interface{}) error {
	data, err := s.kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *RecordStore) write(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
