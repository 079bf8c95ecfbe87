package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/example/annotator/internal/session"
)

// InsertClassification writes rec to the classifications table and returns
// the new row id. It implements session.RecordStore.
func (c *Client) InsertClassification(ctx context.Context, rec session.Classification) (int64, error) {
	body, err := jsonBody(rec)
	if err != nil {
		return 0, fmt.Errorf("encode classification: %w", err)
	}
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Prefer", "return=representation")
	q := url.Values{}
	q.Set("select", "id")
	var rows []struct {
		ID int64 `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, c.endpoint("/rest/v1/classifications", q), body, h, &rows); err != nil {
		return 0, fmt.Errorf("insert classification: %w", err)
	}
	if len(rows) == 0 {
		return 0, errors.New("insert classification: no row returned")
	}
	c.logger.Info("classification inserted",
		zap.Int64("id", rows[0].ID), zap.Int64p("anomaly", rec.Anomaly), zap.String("type", rec.ClassificationType))
	return rows[0].ID, nil
}

// Anomaly is a row of the anomalies table.
type Anomaly struct {
	ID          int64  `json:"id"`
	Content     string `json:"content"`
	AnomalyType string `json:"anomalytype"`
	AnomalySet  string `json:"anomalySet"`
	AvatarURL   string `json:"avatar_url"`
}

// ImageURL is the picture to annotate for the anomaly.
func (a Anomaly) ImageURL() (string, error) {
	if strings.TrimSpace(a.AvatarURL) == "" {
		return "", fmt.Errorf("anomaly %d has no image", a.ID)
	}
	return a.AvatarURL, nil
}

const anomalyColumns = "id,content,anomalytype,anomalySet,avatar_url"

// Anomalies lists anomalies ordered by id. An empty set lists all of them and
// a non-positive limit applies no limit.
func (c *Client) Anomalies(ctx context.Context, set string, limit int) ([]Anomaly, error) {
	q := url.Values{}
	q.Set("select", anomalyColumns)
	if set != "" {
		q.Set("anomalySet", "eq."+set)
	}
	q.Set("order", "id")
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []Anomaly
	if err := c.do(ctx, http.MethodGet, c.endpoint("/rest/v1/anomalies", q), nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list anomalies: %w", err)
	}
	return out, nil
}

// Anomaly fetches a single anomaly by id.
func (c *Client) Anomaly(ctx context.Context, id int64) (Anomaly, error) {
	q := url.Values{}
	q.Set("select", anomalyColumns)
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	var out []Anomaly
	if err := c.do(ctx, http.MethodGet, c.endpoint("/rest/v1/anomalies", q), nil, nil, &out); err != nil {
		return Anomaly{}, fmt.Errorf("fetch anomaly %d: %w", id, err)
	}
	if len(out) == 0 {
		return Anomaly{}, fmt.Errorf("anomaly %d not found", id)
	}
	return out[0], nil
}
