package syncx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dstu-guide/guide-api/internal/db"
)

const TypeAttemptCompleted = "attempt.completed"

type Event struct {
	Seq       int64
	SiteID    string
	Type      string
	Key       string
	Data      any
	CreatedAt int64
}

type EventRepo struct {
	h      *db.Handle
	siteID string
}

func NewEventRepo(h *db.Handle, siteID string) *EventRepo {
	if siteID == "" {
		siteID = "local"
	}
	return &EventRepo{h: h, siteID: siteID}
}

// Append writes e through q, so callers can make it part of their transaction.
func (r *EventRepo) Append(ctx context.Context, q db.Querier, e Event) error {
	payload, err := json.Marshal(e.Data)
	if err != nil {
		return err
	}
	site := e.SiteID
	if site == "" {
		site = r.siteID
	}
	_, err = q.ExecContext(ctx, r.h.Rebind(
		`INSERT INTO event_log (site_id, event_type, event_key, payload, created_at)
		 VALUES ($1,$2,$3,$4,$5)`),
		site, e.Type, e.Key, string(payload), time.Now().Unix())
	return db.Classify(err)
}

// List returns events of one type for a key, oldest first.
func (r *EventRepo) List(ctx context.Context, typ, key string) ([]Event, error) {
	rows, err := r.h.QueryContext(ctx, r.h.Rebind(
		`SELECT seq, site_id, event_type, event_key, payload, created_at
		   FROM event_log WHERE event_type=$1 AND event_key=$2 ORDER BY seq`), typ, key)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		var payload string
		if err := rows.Scan(&e.Seq, &e.SiteID, &e.Type, &e.Key, &payload, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Data = json.RawMessage(payload)
		out = append(out, e)
	}
	return out, db.Classify(rows.Err())
}
