package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	router "github.com/goliatone/go-router"

	assistant "github.com/balajinrrbgm/go-assistant-widget/components/assistant"
	"github.com/balajinrrbgm/go-assistant-widget/components/assistant/commands"
	"github.com/balajinrrbgm/go-assistant-widget/components/assistant/httpapi"
)

// FallbackUsername is used when no viewer identity can be resolved from the
// request. Demo deployments run against this account.
const FallbackUsername = "testuser"

// ViewerResolver converts a router.Context into an assistant.ViewerContext.
type ViewerResolver func(router.Context) assistant.ViewerContext

// Config wires go-router with assistant widgets, APIs, and hooks.
type Config[T any] struct {
	Router         router.Router[T]
	Widgets        *assistant.Manager
	API            httpapi.Executor
	Broadcast      *assistant.BroadcastHook
	ViewerResolver ViewerResolver
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the relative paths used for widget endpoints.
type RouteConfig struct {
	HTML        string
	State       string
	Chat        string
	Toggle      string
	Refresh     string
	Preferences string
	WebSocket   string
}

// Register mounts widget routes (HTML, JSON, REST, WebSocket) on a go-router
// router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Widgets == nil {
		return errors.New("gorouter: widget manager is required")
	}
	routes := cfg.routes()
	base := cfg.BasePath
	if base == "" {
		base = "/assistant"
	}
	viewerResolver := cfg.ViewerResolver
	if viewerResolver == nil {
		viewerResolver = DefaultViewerResolver
	}

	group := cfg.Router.Group(base)

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		widget := cfg.Widgets.Widget(viewerResolver(ctx))
		var buf bytes.Buffer
		if err := widget.RenderTemplate(ctx.Context(), &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	group.Get(routes.State, router.WrapHandler(func(ctx router.Context) error {
		widget := cfg.Widgets.Widget(viewerResolver(ctx))
		return ctx.JSON(http.StatusOK, widget.TemplatePayload(ctx.Context()))
	}))

	if cfg.API != nil {
		registerAPI(group, cfg.API, cfg.Widgets, viewerResolver, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, widgets *assistant.Manager, resolver ViewerResolver, routes RouteConfig) {
	r.Post(routes.Chat, router.WrapHandler(func(ctx router.Context) error {
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		viewer := resolver(ctx)
		input := commands.SendMessageInput{Viewer: viewer, Message: payload.Message}
		if err := api.SendMessage(ctx.Context(), input); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		widget := widgets.Widget(viewer)
		return ctx.JSON(http.StatusOK, map[string]any{
			"typing":   widget.Typing(),
			"messages": widget.Transcript(),
		})
	}))

	r.Post(routes.Toggle, router.WrapHandler(func(ctx router.Context) error {
		viewer := resolver(ctx)
		if err := api.ToggleChat(ctx.Context(), commands.ToggleChatInput{Viewer: viewer}); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]any{
			"expanded": widgets.Widget(viewer).Expanded(),
		})
	}))

	r.Post(routes.Refresh, router.WrapHandler(func(ctx router.Context) error {
		viewer := resolver(ctx)
		if err := api.RefreshInsights(ctx.Context(), commands.RefreshInsightsInput{Viewer: viewer}); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, widgets.Widget(viewer).Insights())
	}))

	r.Post(routes.Preferences, router.WrapHandler(func(ctx router.Context) error {
		var prefs assistant.WidgetPreferences
		if err := json.Unmarshal(ctx.Body(), &prefs); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		input := commands.SavePreferencesInput{Viewer: resolver(ctx), Preferences: prefs}
		if err := api.SavePreferences(ctx.Context(), input); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "saved"})
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *assistant.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe("")
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

// DefaultViewerResolver resolves the viewer the same way the widget page
// does: an authenticated username on the request, then the account number
// header, then the demo fallback account.
func DefaultViewerResolver(ctx router.Context) assistant.ViewerContext {
	var viewer assistant.ViewerContext

	if v, ok := ctx.Locals("username").(string); ok && strings.TrimSpace(v) != "" {
		viewer.Username = strings.TrimSpace(v)
	}
	if acct := strings.TrimSpace(ctx.Header("X-Account-Number")); acct != "" {
		viewer.AccountNum = acct
		if viewer.Username == "" {
			viewer.Username = acct
		}
	}
	if viewer.Username == "" {
		viewer.Username = FallbackUsername
	}
	viewer.Locale = inferLocale(ctx)
	return viewer
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	if header := ctx.Header("Accept-Language"); header != "" {
		if lang := parseAcceptLanguage(header); lang != "" {
			return lang
		}
	}
	return ""
}

func parseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = token[:idx]
		}
		if token != "" {
			return strings.ToLower(token)
		}
	}
	return ""
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func (cfg Config[T]) routes() RouteConfig {
	return defaultRouteConfig(cfg.Routes)
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/widget"
	}
	if routes.State == "" {
		routes.State = "/widget/_state"
	}
	if routes.Chat == "" {
		routes.Chat = "/widget/chat"
	}
	if routes.Toggle == "" {
		routes.Toggle = "/widget/chat/toggle"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/widget/insights/refresh"
	}
	if routes.Preferences == "" {
		routes.Preferences = "/widget/preferences"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/widget/ws"
	}
	return routes
}
