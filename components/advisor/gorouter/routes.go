// Package gorouter mounts the advisor service endpoints on a go-router
// router.
package gorouter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	router "github.com/goliatone/go-router"

	advisor "github.com/balajinrrbgm/go-assistant-widget/components/advisor"
)

// Config wires go-router with the advisor service.
type Config[T any] struct {
	Router  router.Router[T]
	Service *advisor.Service
}

// Register mounts the advisor endpoints. Health probes live at the root;
// the API is served under /api/ai.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Service == nil {
		return errors.New("gorouter: advisor service is required")
	}

	cfg.Router.Get("/healthy", router.WrapHandler(func(ctx router.Context) error {
		return ctx.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "ai-assistant",
		})
	}))

	cfg.Router.Get("/ready", router.WrapHandler(func(ctx router.Context) error {
		return ctx.JSON(http.StatusOK, map[string]any{
			"status":            "ready",
			"service":           "ai-assistant",
			"gemini_configured": cfg.Service.Ready(),
		})
	}))

	group := cfg.Router.Group("/api/ai")

	group.Post("/chat", router.WrapHandler(func(ctx router.Context) error {
		var payload struct {
			Message  string `json:"message"`
			Username string `json:"username"`
		}
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if payload.Message == "" || payload.Username == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("message and username required"))
		}
		response := cfg.Service.Chat(ctx.Context(), payload.Username, payload.Message)
		return ctx.JSON(http.StatusOK, response)
	}))

	group.Get("/insights/:username", router.WrapHandler(func(ctx router.Context) error {
		username := ctx.Param("username")
		if username == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("username is required"))
		}
		response := cfg.Service.GenerateInsights(ctx.Context(), username)
		return ctx.JSON(http.StatusOK, response)
	}))

	group.Get("/spending-analysis/:username", router.WrapHandler(func(ctx router.Context) error {
		username := ctx.Param("username")
		if username == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("username is required"))
		}
		token := bearerToken(ctx.Header("Authorization"))
		if token == "" {
			return respondError(ctx, http.StatusUnauthorized, errors.New("authorization token required"))
		}
		response := cfg.Service.SpendingAnalysis(ctx.Context(), username, token)
		return ctx.JSON(http.StatusOK, response)
	}))

	return nil
}

func bearerToken(header string) string {
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}
