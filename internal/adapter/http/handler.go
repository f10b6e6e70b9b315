package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"shopeelife/internal/app/game"
	"shopeelife/internal/app/ports"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/adaptor"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const userIDHeader = "X-User-ID"
const authorizationHeader = "Authorization"

type Handler struct {
	Game     *game.Service
	Identity ports.IdentityProvider
	KPI      kpiSnapshotProvider
	Metrics  prometheus.Gatherer
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	api := s.Group("/api", h.authMiddleware())
	api.POST("/session", h.openSession)
	api.GET("/session/state", h.state)
	api.DELETE("/session", h.closeSession)
	api.POST("/activity/start", h.startActivity)
	api.POST("/activity/cancel", h.cancelActivity)
	api.POST("/navigate", h.navigate)
	api.POST("/event/choose", h.choose)
	api.POST("/quest/claim", h.claimQuest)
	api.POST("/shop/buy", h.buyItem)
	api.POST("/wardrobe/equip", h.equipItem)
	api.POST("/chat", h.chat)
	api.POST("/modal/dismiss", h.dismiss)

	s.GET("/ops/kpi", h.kpi)
	if h.Metrics != nil {
		s.GET("/metrics", adaptor.HertzHandler(promhttp.HandlerFor(h.Metrics, promhttp.HandlerOpts{})))
	}
}

type startActivityRequest struct {
	ActivityID string `json:"activity_id"`
}

type navigateRequest struct {
	LocationID string `json:"location_id"`
}

type chooseRequest struct {
	EventID     string `json:"event_id"`
	ChoiceIndex int    `json:"choice_index"`
}

type claimQuestRequest struct {
	QuestID string `json:"quest_id"`
}

type itemRequest struct {
	ItemID string `json:"item_id"`
}

type chatRequest struct {
	Text string `json:"text"`
}

type dismissRequest struct {
	Modal string `json:"modal,omitempty"`
}

func (h Handler) openSession(c context.Context, ctx *app.RequestContext) {
	view, err := h.Game.Open(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, view)
}

func (h Handler) state(c context.Context, ctx *app.RequestContext) {
	view, err := h.Game.State(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, view)
}

func (h Handler) closeSession(c context.Context, ctx *app.RequestContext) {
	if err := h.Game.Close(c); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, game.Result{Success: true, Message: "See you tomorrow.", Code: game.CodeOK})
}

func (h Handler) startActivity(c context.Context, ctx *app.RequestContext) {
	var body startActivityRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	writeResult(ctx, h.Game.StartActivity(c, body.ActivityID))
}

func (h Handler) cancelActivity(c context.Context, ctx *app.RequestContext) {
	writeResult(ctx, h.Game.CancelActivity(c))
}

func (h Handler) navigate(c context.Context, ctx *app.RequestContext) {
	var body navigateRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	writeResult(ctx, h.Game.NavigateTo(c, body.LocationID))
}

func (h Handler) choose(c context.Context, ctx *app.RequestContext) {
	var body chooseRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	writeResult(ctx, h.Game.Choose(c, body.EventID, body.ChoiceIndex))
}

func (h Handler) claimQuest(c context.Context, ctx *app.RequestContext) {
	var body claimQuestRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	writeResult(ctx, h.Game.ClaimQuest(c, body.QuestID))
}

func (h Handler) buyItem(c context.Context, ctx *app.RequestContext) {
	var body itemRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	writeResult(ctx, h.Game.BuyItem(c, body.ItemID))
}

func (h Handler) equipItem(c context.Context, ctx *app.RequestContext) {
	var body itemRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	writeResult(ctx, h.Game.EquipItem(c, body.ItemID))
}

func (h Handler) chat(c context.Context, ctx *app.RequestContext) {
	var body chatRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	writeResult(ctx, h.Game.SendChatMessage(c, body.Text))
}

func (h Handler) dismiss(c context.Context, ctx *app.RequestContext) {
	var body dismissRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	writeResult(ctx, h.Game.Dismiss(c, body.Modal))
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{
		"commands":        h.KPI.SnapshotAny(),
		"active_sessions": h.Game.ActiveSessions(),
	})
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// authMiddleware resolves the caller and passes the user id down the chain
// in the request context.
func (h Handler) authMiddleware() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		userID, err := h.authenticate(c, ctx)
		if err != nil {
			writeError(ctx, err)
			ctx.Abort()
			return
		}
		ctx.Next(ports.WithUserID(c, userID))
	}
}

func (h Handler) authenticate(c context.Context, ctx *app.RequestContext) (string, error) {
	creds := ports.Credentials{
		BearerToken: bearerToken(string(ctx.GetHeader(authorizationHeader))),
		UserID:      strings.TrimSpace(string(ctx.GetHeader(userIDHeader))),
	}
	if creds.BearerToken == "" && creds.UserID == "" {
		return "", ports.ErrNotAuthenticated
	}
	if h.Identity == nil {
		return "", ports.ErrNotAuthenticated
	}
	return h.Identity.Authenticate(c, creds)
}

func bearerToken(header string) string {
	const prefix = "bearer "
	header = strings.TrimSpace(header)
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func writeResult(ctx *app.RequestContext, res game.Result) {
	switch res.Code {
	case game.CodeNotAuthenticated:
		ctx.JSON(consts.StatusUnauthorized, res)
	case game.CodeInternal:
		ctx.JSON(consts.StatusInternalServerError, res)
	default:
		ctx.JSON(consts.StatusOK, res)
	}
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ports.ErrNotAuthenticated):
		writeErrorBody(ctx, consts.StatusUnauthorized, game.CodeNotAuthenticated, game.MsgLogin)
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, game.CodeInternal, "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
