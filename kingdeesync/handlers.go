package kingdeesync

import (
	"context"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"bitbucket.org/mmdatafocus/erp_sync/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service exposes the syncer over HTTP: status, trigger, history.
// One run at a time per process; a trigger while a run is in flight is
// rejected with 409.
type Service struct {
	syncer  *Syncer
	db      *gorm.DB
	logger  *logrus.Logger
	running atomic.Bool
}

func NewService(syncer *Syncer, db *gorm.DB, logger *logrus.Logger) *Service {
	return &Service{syncer: syncer, db: db, logger: logger}
}

type EntityStatus struct {
	EntityKind  string    `json:"entityKind"`
	RecordCount int       `json:"recordCount"`
	Status      string    `json:"status"`
	RanAt       time.Time `json:"ranAt"`
}

type StatusResponse struct {
	Running   bool           `json:"running"`
	LastRunAt *time.Time     `json:"lastRunAt"`
	LastRunId string         `json:"lastRunId"`
	Entities  []EntityStatus `json:"entities"`
	LoggedIn  bool           `json:"loggedIn"`
}

type TriggerSyncRequest struct {
	Modules *Modules `json:"modules"`
}

// StatusHandler reports the latest audit row per entity kind.
func (s *Service) StatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var latest []models.SyncLog
		err := s.db.Raw(`
			SELECT l.* FROM sync_logs l
			JOIN (
				SELECT entity_kind, MAX(id) AS max_id
				FROM sync_logs GROUP BY entity_kind
			) m ON m.max_id = l.id
			ORDER BY l.entity_kind`).Scan(&latest).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		resp := StatusResponse{
			Running:  s.running.Load(),
			LoggedIn: s.syncer.client.IsLoggedIn(),
			Entities: []EntityStatus{},
		}
		for _, entry := range latest {
			resp.Entities = append(resp.Entities, EntityStatus{
				EntityKind:  entry.EntityKind,
				RecordCount: entry.RecordCount,
				Status:      entry.Status,
				RanAt:       entry.RanAt,
			})
			if resp.LastRunAt == nil || entry.RanAt.After(*resp.LastRunAt) {
				t := entry.RanAt
				resp.LastRunAt = &t
				resp.LastRunId = entry.RunId
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}

// TriggerSyncHandler kicks off one run in the background. The body may
// narrow the module selection; default is everything.
func (s *Service) TriggerSyncHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TriggerSyncRequest
		if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		mod := DefaultModules()
		if req.Modules != nil {
			mod = *req.Modules
		}
		if !mod.Any() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no modules selected"})
			return
		}

		if !s.running.CompareAndSwap(false, true) {
			c.JSON(http.StatusConflict, gin.H{"error": "a sync run is already in progress"})
			return
		}

		go func() {
			defer s.running.Store(false)
			s.syncer.SetTriggeredBy(models.SyncTriggeredAPI)
			if _, err := s.syncer.Run(context.Background(), mod); err != nil {
				s.logger.Warnf("triggered sync run failed: %v", err)
			}
		}()

		c.JSON(http.StatusAccepted, gin.H{"status": "started"})
	}
}

// HistoryHandler returns recent audit rows, newest first.
func (s *Service) HistoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 50
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
				limit = n
			}
		}
		var entries []models.SyncLog
		if err := s.db.Order("id DESC").Limit(limit).Find(&entries).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": entries})
	}
}
