package store

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"time"

	"github.com/Drashti7312/FinancialChatBot/internal/logx"
)

const (
	DefaultChartTTL             = 24 * time.Hour
	DefaultChartCleanupInterval = time.Hour
)

// ChartStore manages chart images written by tools, one PNG per message id.
type ChartStore struct {
	dir string
}

func NewChartStore(dir string) (*ChartStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ChartStore{dir: dir}, nil
}

// Dir returns the directory charts are written to.
func (c *ChartStore) Dir() string {
	return c.dir
}

// PathFor returns the chart path for a message id. Tools write here.
func (c *ChartStore) PathFor(messageID string) string {
	return filepath.Join(c.dir, messageID+".png")
}

// Chart is one rendered chart, contents base64 encoded for transport.
type Chart struct {
	MessageID string `json:"message_id"`
	Image     string `json:"image"`
}

// ChartsFor returns the base64-encoded charts for the given message ids,
// skipping ids with no rendered chart.
func (c *ChartStore) ChartsFor(messageIDs []string) []Chart {
	var charts []Chart
	for _, id := range messageIDs {
		data, err := os.ReadFile(c.PathFor(id))
		if err != nil {
			continue
		}
		charts = append(charts, Chart{
			MessageID: id,
			Image:     base64.StdEncoding.EncodeToString(data),
		})
	}
	return charts
}

// StartCleaner prunes charts older than ttl on the given interval until
// ctx is cancelled.
func (c *ChartStore) StartCleaner(ctx context.Context, interval, ttl time.Duration) {
	if interval <= 0 {
		interval = DefaultChartCleanupInterval
	}
	if ttl <= 0 {
		ttl = DefaultChartTTL
	}
	go c.cleanupLoop(ctx, interval, ttl)
}

func (c *ChartStore) cleanupLoop(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.cleanupExpired(ttl); err != nil {
				logx.Error().Err(err).Msg("cleanup charts")
			}
		}
	}
}

func (c *ChartStore) cleanupExpired(ttl time.Duration) error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	cutoff := time.Now().Add(-ttl)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(c.dir, entry.Name())
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				logx.Warn().Str("path", path).Err(err).Msg("remove expired chart")
			}
		}
	}
	return nil
}
