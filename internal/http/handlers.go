package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Hy0g0/Cadavre-exquis/internal/domain"
	"github.com/Hy0g0/Cadavre-exquis/internal/log"
	"github.com/Hy0g0/Cadavre-exquis/internal/metrics"
	"github.com/Hy0g0/Cadavre-exquis/internal/queue"
	"github.com/Hy0g0/Cadavre-exquis/internal/repo"
)

// testAccountName bypasses the daily limit when submitted non-anonymously.
const testAccountName = "Z3US"

const firstSentencePrompt = "Add the very first sentence to start the story!"

type Handler struct {
	Store    *repo.Store
	Cache    *repo.Redis
	Events   queue.Publisher
	Exchange string
}

func NewHandler(store *repo.Store, cache *repo.Redis, pub queue.Publisher, exchange string) *Handler {
	return &Handler{Store: store, Cache: cache, Events: pub, Exchange: exchange}
}

type sentenceResp struct {
	Text      string `json:"text"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
}

func toResp(s *domain.Sentence) sentenceResp {
	return sentenceResp{
		Text:      s.Text,
		Author:    s.Author,
		CreatedAt: s.CreatedAt.Format(domain.TimeLayout),
	}
}

// GetSentence godoc
// @Summary Latest sentence of the story
// @Tags story
// @Produce json
// @Success 200 {object} sentenceResp
// @Router /api/sentence [get]
func (h *Handler) GetSentence(c *gin.Context) {
	ctx := c.Request.Context()

	if s, ok := h.Cache.Latest(ctx); ok {
		c.JSON(http.StatusOK, toResp(s))
		return
	}

	s, err := h.Store.Latest(ctx)
	if err != nil {
		log.L().Error("latest sentence", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if s == nil {
		// Empty story: a placeholder, never persisted.
		c.JSON(http.StatusOK, sentenceResp{
			Text:      firstSentencePrompt,
			Author:    "System",
			CreatedAt: time.Now().UTC().Format(domain.TimeLayout),
		})
		return
	}

	if err := h.Cache.SetLatest(ctx, s); err != nil {
		log.L().Warn("cache latest", zap.Error(err))
	}
	c.JSON(http.StatusOK, toResp(s))
}

type submitReq struct {
	Sentence  string `json:"sentence"`
	Name      string `json:"name"`
	Anonymous bool   `json:"anonymous"`
}

// PostSentence godoc
// @Summary Append today's sentence
// @Tags story
// @Accept json
// @Produce json
// @Param payload body submitReq true "sentence, name(optional), anonymous(optional)"
// @Success 201 {object} sentenceResp
// @Failure 400 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /api/sentence [post]
func (h *Handler) PostSentence(c *gin.Context) {
	clientID := c.GetString(clientIDKey)

	if c.Request.ContentLength <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty request body"})
		return
	}

	var in submitReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	sentence := strings.TrimSpace(in.Sentence)
	name := strings.TrimSpace(in.Name)
	isTestUser := !in.Anonymous && strings.EqualFold(name, testAccountName)

	if sentence == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Sentence is required"})
		return
	}

	if !isTestUser {
		submitted, err := h.Store.HasSubmittedToday(c.Request.Context(), clientID)
		if err != nil {
			log.L().Error("daily limit check", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if submitted {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "You can only contribute one sentence per day. Please come back tomorrow!",
			})
			return
		}
	}

	author := name
	if in.Anonymous || name == "" {
		author = "Anonymous"
	}

	s, err := h.Store.Append(c.Request.Context(), sentence, author, clientID)
	if err != nil {
		log.L().Error("append sentence", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	metrics.SentencesCreated.Inc()

	if err := h.Cache.SetLatest(c.Request.Context(), s); err != nil {
		log.L().Warn("cache latest", zap.Error(err))
	}

	reqID := c.GetString(requestIDKey)
	go func(ev queue.SentenceCreated) {
		if err := h.Events.Publish(context.Background(), h.Exchange, "sentence.created", ev, reqID); err != nil {
			log.L().Warn("publish sentence.created", zap.Error(err))
		}
	}(queue.SentenceCreated{Text: s.Text, Author: s.Author, CreatedAt: s.CreatedAt.Format(domain.TimeLayout)})

	c.JSON(http.StatusCreated, toResp(s))
}

func (h *Handler) Healthz(c *gin.Context) {
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	if err := h.Cache.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
