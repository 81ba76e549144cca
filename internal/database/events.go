package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	EventPostCreated    = "post_created"
	EventUserRegistered = "user_registered"
)

type Event struct {
	ID        int64           `json:"id"`
	EventType string          `json:"event_type"`
	EventTime time.Time       `json:"event_time"`
	Payload   json.RawMessage `json:"payload"`
}

func marshalEvent(eventType string, payload interface{}) ([]byte, error) {
	eventMsg := map[string]interface{}{
		"event_type": eventType,
		"payload":    payload,
	}
	eventBytes, err := json.Marshal(eventMsg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return eventBytes, nil
}

func (q *Queries) LogEvent(ctx context.Context, userID int64, eventType string, payload interface{}) error {
	_, err := q.logEvent(ctx, userID, eventType, payload)
	return err
}

func (q *Queries) logEvent(ctx context.Context, userID int64, eventType string, payload interface{}) ([]byte, error) {
	eventBytes, err := marshalEvent(eventType, payload)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO event_journal (user_id, event_type, payload) VALUES ($1, $2, $3)`
	if _, err := q.db.Exec(ctx, query, userID, eventType, eventBytes); err != nil {
		return nil, err
	}

	return eventBytes, nil
}

// LogEvent journals the event and pushes it to the user's live connections.
func (s *Store) LogEvent(ctx context.Context, userID int64, eventType string, payload interface{}) error {
	eventBytes, err := s.Queries.logEvent(ctx, userID, eventType, payload)
	if err != nil {
		return err
	}

	if s.publisher != nil {
		s.publisher.PublishEvent(userID, eventBytes)
	}

	return nil
}

func (q *Queries) GetEventsSince(ctx context.Context, userID int64, sinceID int64) ([]Event, error) {
	query := `
		SELECT id, event_type, event_time, payload
		FROM event_journal
		WHERE user_id = $1 AND id > $2
		ORDER BY id ASC
		LIMIT 100
	`
	rows, err := q.db.Query(ctx, query, userID, sinceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var event Event
		err := rows.Scan(
			&event.ID,
			&event.EventType,
			&event.EventTime,
			&event.Payload,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
