package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"pool-league-service/models"
	"pool-league-service/utils"

	"gorm.io/gorm"
)

// RemoteRating matches the JSON shape published by the league's rating
// service. The service is the single source of truth for Fargo ratings and
// ladder positions; this process never computes either.
type RemoteRating struct {
	PlayerID  string    `json:"player_id"`
	FargoRate int       `json:"fargo_rate"`
	Rank      int       `json:"rank"`
	UpdatedAt time.Time `json:"updated_at"`
}

type GetRatingsResponse struct {
	Players []RemoteRating `json:"players"`
}

type RatingSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string
	endpointPath string
	serviceToken string
	httpClient   *http.Client
}

func NewRatingSyncWorker(db *gorm.DB, ratingServiceBaseURL, endpointPath, serviceToken string) *RatingSyncWorker {
	return &RatingSyncWorker{
		db:           db,
		interval:     5 * time.Minute,
		baseURL:      ratingServiceBaseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient:   utils.HTTPClient,
	}
}

func (w *RatingSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Rating Sync Worker (rating-service → players)…")
	go w.run(ctx)
}

func (w *RatingSyncWorker) run(ctx context.Context) {
	if err := w.syncBatch(ctx); err != nil {
		log.Printf("⚠️ Initial rating sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.syncBatch(ctx); err != nil {
				log.Printf("❌ Rating sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Rating Sync Worker stopped")
			return
		}
	}
}

// syncBatch pulls the current ratings table and writes rank/rating columns
// only. Profile fields stay untouched — a claim or avatar change never
// races with a sync.
func (w *RatingSyncWorker) syncBatch(ctx context.Context) error {
	base, err := url.Parse(w.baseURL)
	if err != nil {
		return fmt.Errorf("invalid rating service URL '%s': %w", w.baseURL, err)
	}
	finalURL := base.JoinPath(w.endpointPath).String()

	req, err := http.NewRequestWithContext(ctx, "GET", finalURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request to %s: %w", finalURL, err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request to rating service failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("rating service non-200 response: %d — %s", resp.StatusCode, string(body))
	}

	var response GetRatingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode rating service response: %w", err)
	}

	if len(response.Players) == 0 {
		return nil
	}

	var updated, errored int
	for _, r := range response.Players {
		res := w.db.Model(&models.Player{}).Where("id = ?", r.PlayerID).
			Updates(map[string]interface{}{
				"fargo_rate": r.FargoRate,
				"rank":       r.Rank,
			})
		if res.Error != nil {
			errored++
			log.Printf("[SYNC] ⚠️ Failed to update rating for player %q: %v", r.PlayerID, res.Error)
			continue
		}
		if res.RowsAffected > 0 {
			updated++
		}
	}

	log.Printf("[SYNC] ✅ Ratings synced: %d received, %d updated, %d errors",
		len(response.Players), updated, errored)
	return nil
}
