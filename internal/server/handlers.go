package server

import (
	"errors"
	"fmt"
	"net/http"

	promptcomposer "github.com/xcud/prompt-composer"
	"github.com/xcud/prompt-composer/internal/httputil"
	"github.com/xcud/prompt-composer/internal/markdown"
	"github.com/xcud/prompt-composer/introspect"
	"github.com/xcud/prompt-composer/prompts"
)

// HealthHandler reports liveness.
func HealthHandler(c *promptcomposer.Composer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.OkJSON(w, map[string]string{
			"status":  "ok",
			"version": promptcomposer.Version,
		})
	}
}

// ComposeHandler runs a full composition.
func ComposeHandler(c *promptcomposer.Composer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req promptcomposer.Request
		if err := httputil.Parse(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		resp, err := c.Compose(&req)
		if err != nil {
			httputil.InternalError(w, err.Error())
			return
		}
		httputil.OkJSON(w, resp)
	}
}

// ComposeCachedHandler composes from cached capabilities only.
func ComposeCachedHandler(c *promptcomposer.Composer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req promptcomposer.Request
		if err := httputil.Parse(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		resp, err := c.ComposeCached(&req)
		if err != nil {
			httputil.InternalError(w, err.Error())
			return
		}
		httputil.OkJSON(w, resp)
	}
}

// StatusHandler reports composer availability and the template inventory.
func StatusHandler(c *promptcomposer.Composer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.OkJSON(w, c.Status())
	}
}

// ListModulesHandler lists the guidance templates in one category.
func ListModulesHandler(c *promptcomposer.Composer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Category string `path:"category"`
		}
		httputil.Parse(r, &params)

		var names []string
		var err error
		switch params.Category {
		case prompts.CategoryDomains:
			names, err = c.ListDomains()
		case prompts.CategoryBehaviors:
			names, err = c.ListBehaviors()
		case prompts.CategoryTools:
			names, err = c.ListTools()
		default:
			httputil.NotFound(w, fmt.Sprintf("unknown category %q", params.Category))
			return
		}
		if err != nil {
			httputil.InternalError(w, err.Error())
			return
		}
		httputil.OkJSON(w, map[string]any{
			"category": params.Category,
			"modules":  names,
		})
	}
}

// GetModuleHandler returns one guidance template, raw or rendered to HTML
// with ?format=html.
func GetModuleHandler(c *promptcomposer.Composer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Category string `path:"category"`
			Name     string `path:"name"`
			Format   string `form:"format"`
		}
		httputil.Parse(r, &params)

		content, err := c.Module(params.Category, params.Name)
		if err != nil {
			if errors.Is(err, prompts.ErrNotFound) {
				httputil.NotFound(w, err.Error())
				return
			}
			httputil.InternalError(w, err.Error())
			return
		}

		if params.Format == "html" {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(markdown.Render(content)))
			return
		}
		httputil.OkJSON(w, map[string]string{
			"category": params.Category,
			"name":     params.Name,
			"content":  content,
		})
	}
}

// RefreshServerHandler re-infers one provider's capabilities, bypassing the
// cache TTL. The provider must appear in the posted configuration.
func RefreshServerHandler(c *promptcomposer.Composer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Name   string                `path:"name"`
			Config promptcomposer.Config `json:"mcp_config"`
		}
		if err := httputil.Parse(r, &params); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		if _, ok := params.Config.Servers[params.Name]; !ok {
			httputil.NotFound(w, fmt.Sprintf("server %s not found in configuration", params.Name))
			return
		}

		tools, err := c.RefreshServer(params.Name, params.Config)
		if err != nil {
			httputil.InternalError(w, err.Error())
			return
		}
		httputil.OkJSON(w, map[string]any{
			"server": params.Name,
			"tools":  tools,
		})
	}
}

// DiscoverServerHandler launches one provider and records its real tools,
// replacing whatever inference assumed.
func DiscoverServerHandler(c *promptcomposer.Composer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Name     string                `path:"name"`
			Endpoint string                `json:"endpoint"`
			Config   promptcomposer.Config `json:"mcp_config"`
		}
		if err := httputil.Parse(r, &params); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		sc, ok := params.Config.Servers[params.Name]
		if !ok && params.Endpoint == "" {
			httputil.NotFound(w, fmt.Sprintf("server %s not found in configuration", params.Name))
			return
		}

		tools, err := introspect.Tools(r.Context(), params.Name, sc, introspect.Options{
			Endpoint: params.Endpoint,
		})
		if err != nil {
			httputil.ErrorWithCode(w, http.StatusBadGateway, err.Error())
			return
		}

		c.SetTools(params.Name, tools)
		httputil.OkJSON(w, map[string]any{
			"server": params.Name,
			"tools":  tools,
		})
	}
}
