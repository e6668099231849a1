// Package api exposes the scrim stats store over HTTP.
package api

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/scrimstats/go-scrim-stats/internal/match"
	"github.com/scrimstats/go-scrim-stats/internal/model"
	"github.com/scrimstats/go-scrim-stats/internal/refdata"
	"github.com/scrimstats/go-scrim-stats/internal/rofl"
	"github.com/scrimstats/go-scrim-stats/internal/storage"
)

// Handler holds the request handlers and their dependencies.
type Handler struct {
	db      *storage.DB
	svc     *match.Service
	catalog *refdata.Catalog
	log     *zap.Logger
}

func NewHandler(db *storage.DB, catalog *refdata.Catalog, log *zap.Logger) *Handler {
	return &Handler{
		db:      db,
		svc:     match.NewService(db, catalog),
		catalog: catalog,
		log:     log,
	}
}

// HealthCheck reports liveness.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok", "dataVersion": h.catalog.Version()})
}

// PreviewMatch parses a replay uploaded as the request body and returns the
// normalized preview. An aborted game yields metadata with null rosters.
func (h *Handler) PreviewMatch(c *gin.Context) {
	buf, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondBadRequest(c, "could not read request body", err.Error())
		return
	}

	preview, err := h.svc.Preview(buf)
	if err != nil {
		if errors.Is(err, rofl.ErrMalformedContainer) {
			respondBadRequest(c, "malformed replay container", err.Error())
			return
		}
		h.respondInternalError(c, err, "failed to parse replay")
		return
	}
	c.JSON(200, preview)
}

// SaveMatch persists a confirmed save request and returns the new match id.
func (h *Handler) SaveMatch(c *gin.Context) {
	var req model.SaveMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid save request", err.Error())
		return
	}

	id, err := h.svc.Save(req)
	if err != nil {
		switch {
		case errors.Is(err, match.ErrInvalidMapping), errors.Is(err, match.ErrUnknownPlayer):
			respondBadRequest(c, "invalid player mapping", err.Error())
		default:
			h.respondInternalError(c, err, "failed to save match")
		}
		return
	}
	h.log.Info("match saved", zap.Int64("matchId", id))
	c.JSON(201, gin.H{"id": id})
}

// ListMatches returns all stored match headers.
func (h *Handler) ListMatches(c *gin.Context) {
	matches, err := h.svc.List()
	if err != nil {
		h.respondInternalError(c, err, "failed to list matches")
		return
	}
	c.JSON(200, gin.H{"matches": matches})
}

// GetMatch returns one match with its participant rows.
func (h *Handler) GetMatch(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid match id", c.Param("id"))
		return
	}

	m, participants, err := h.svc.Get(id)
	if err != nil {
		if errors.Is(err, match.ErrMatchNotFound) {
			respondNotFound(c, "match not found")
			return
		}
		h.respondInternalError(c, err, "failed to load match")
		return
	}
	c.JSON(200, gin.H{"match": m, "participants": participants})
}

// DeleteMatch removes a match and reverses its aggregate contributions.
func (h *Handler) DeleteMatch(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid match id", c.Param("id"))
		return
	}

	affected, err := h.svc.Delete(id)
	if err != nil {
		if errors.Is(err, match.ErrMatchNotFound) {
			respondNotFound(c, "match not found")
			return
		}
		h.respondInternalError(c, err, "failed to delete match")
		return
	}
	h.log.Info("match deleted", zap.Int64("matchId", id), zap.Int("affectedPlayers", affected))
	c.JSON(200, gin.H{"deletedMatchId": id, "affectedPlayers": affected})
}

// ListChampions returns champion rollups ordered by the requested rate
// (order=win|pick|ban, default pick).
func (h *Handler) ListChampions(c *gin.Context) {
	order := storage.ChampionOrder(c.DefaultQuery("order", string(storage.OrderByPickRate)))
	aggs, err := h.db.ListChampionAggregates(order)
	if err != nil {
		respondBadRequest(c, "invalid champion order", err.Error())
		return
	}
	c.JSON(200, gin.H{"champions": aggs})
}

// RoleLeaders returns the most-played champions per role.
func (h *Handler) RoleLeaders(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "3"))
	if err != nil || limit < 1 {
		respondBadRequest(c, "invalid limit", c.Query("limit"))
		return
	}
	leaders, err := h.db.RoleLeaders(limit)
	if err != nil {
		h.respondInternalError(c, err, "failed to load role leaders")
		return
	}
	c.JSON(200, gin.H{"leaders": leaders})
}

// GetChampion returns one champion's rollup with its role sub-records.
func (h *Handler) GetChampion(c *gin.Context) {
	agg, err := h.db.GetChampionAggregate(c.Param("id"))
	if err != nil {
		h.respondInternalError(c, err, "failed to load champion stats")
		return
	}
	c.JSON(200, agg)
}

// CreatePlayer registers a new player.
func (h *Handler) CreatePlayer(c *gin.Context) {
	var p model.Player
	if err := c.ShouldBindJSON(&p); err != nil {
		respondBadRequest(c, "invalid player", err.Error())
		return
	}

	id, err := h.db.InsertPlayer(p)
	if err != nil {
		h.respondInternalError(c, err, "failed to create player")
		return
	}
	c.JSON(201, gin.H{"id": id})
}

// ListPlayers returns all registered players.
func (h *Handler) ListPlayers(c *gin.Context) {
	players, err := h.db.ListPlayers()
	if err != nil {
		h.respondInternalError(c, err, "failed to list players")
		return
	}
	c.JSON(200, gin.H{"players": players})
}

// PlayerRanking returns player rollups ordered by win rate.
func (h *Handler) PlayerRanking(c *gin.Context) {
	aggs, err := h.db.ListPlayerRankings()
	if err != nil {
		h.respondInternalError(c, err, "failed to load ranking")
		return
	}
	c.JSON(200, gin.H{"ranking": aggs})
}

// PlayerRecentForm returns a player's stored rolling-window snapshot.
func (h *Handler) PlayerRecentForm(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid player id", c.Param("id"))
		return
	}

	form, err := h.db.GetRecentForm(id)
	if err != nil {
		h.respondInternalError(c, err, "failed to load recent form")
		return
	}
	c.JSON(200, form)
}
