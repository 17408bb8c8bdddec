package storage

import (
	"time"

	"dinkbot/internal/music/sources"
)

// RecordTrack stores a started track in the guild's play history.
func (s *Storage) RecordTrack(guildID string, t sources.Track) error {
	return s.AppendTrackToHistory(guildID, TrackHistoryRecord{
		Title:    t.Display(),
		URL:      t.URL,
		Source:   t.Source,
		Datetime: time.Now(),
	})
}

func (s *Storage) AppendTrackToHistory(guildID string, track TrackHistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}

	record.TracksHistoryList = keepLast(append(record.TracksHistoryList, track), tracksHistoryLimit)
	return s.ds.Set(guildID, record)
}

func (s *Storage) FetchTrackHistory(guildID string) ([]TrackHistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.TracksHistoryList, nil
}

func keepLast[T any](list []T, limit int) []T {
	if len(list) > limit {
		return list[len(list)-limit:]
	}
	return list
}
