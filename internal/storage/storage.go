// /internal/storage/storage.go
package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/keshon/datastore"
)

const (
	commandHistoryLimit int = 20
	tracksHistoryLimit  int = 12
)

type Storage struct {
	mu     sync.Mutex
	ds     *datastore.DataStore
	cancel context.CancelFunc
}

type CommandHistoryRecord struct {
	ChannelID string    `json:"channel_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Command   string    `json:"command"`
	Param     string    `json:"param"`
	Failed    bool      `json:"failed,omitempty"`
	Datetime  time.Time `json:"datetime"`
}

type TrackHistoryRecord struct {
	Title    string    `json:"title"`
	URL      string    `json:"url"`
	Source   string    `json:"source"`
	Datetime time.Time `json:"datetime"`
}

type Record struct {
	CommandsHistoryList []CommandHistoryRecord `json:"cmd_history"`
	TracksHistoryList   []TrackHistoryRecord   `json:"tracks_history"`
}

// New opens the datastore at filePath. The store flushes to disk periodically
// until ctx is cancelled or Close is called.
func New(ctx context.Context, filePath string) (*Storage, error) {
	ctx, cancel := context.WithCancel(ctx)
	ds, err := datastore.New(ctx, filePath)
	if err != nil {
		cancel()
		return nil, err
	}
	return &Storage{ds: ds, cancel: cancel}, nil
}

// Close stops the background flush and writes the store to disk.
func (s *Storage) Close() error {
	s.cancel()
	return s.ds.Close()
}

// Helper function to get or create a Record for a guild. Callers hold s.mu.
func (s *Storage) getOrCreateGuildRecord(guildID string) (*Record, error) {
	var record Record
	found, err := s.ds.Get(guildID, &record)
	if err != nil {
		return nil, fmt.Errorf("error reading record for guild %s: %w", guildID, err)
	}
	if !found || record.CommandsHistoryList == nil {
		record.CommandsHistoryList = []CommandHistoryRecord{}
	}
	if !found || record.TracksHistoryList == nil {
		record.TracksHistoryList = []TrackHistoryRecord{}
	}
	return &record, nil
}

// AppendCommandToHistory appends a command history record for a guild,
// keeping the newest entries only.
func (s *Storage) AppendCommandToHistory(guildID string, command CommandHistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}

	record.CommandsHistoryList = keepLast(append(record.CommandsHistoryList, command), commandHistoryLimit)
	return s.ds.Set(guildID, record)
}

func (s *Storage) FetchCommandHistory(guildID string) ([]CommandHistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.CommandsHistoryList, nil
}
