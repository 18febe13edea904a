package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the bot service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>pingbot - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document describing the bot endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "pingbot", "version": "v0.1.0" },
  "paths": {
    "/events/comment": {
      "post": {
        "summary": "Deliver a new comment",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"subreddit":{"type":"string"},"author":{"type":"object","properties":{"id":{"type":"string"},"name":{"type":"string"}}},"comment":{"type":"object","properties":{"id":{"type":"string"},"body":{"type":"string"}}},"post":{"type":"object","properties":{"permalink":{"type":"string"}}}}}}}},
        "responses": { "202": { "description": "accepted" }, "401": { "description": "invalid token" } }
      }
    },
    "/events/install": {
      "post": { "summary": "Bot installed in a community", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"subreddit":{"type":"string"}}}}}}, "responses": { "202": { "description": "accepted" } } }
    },
    "/events/upgrade": {
      "post": { "summary": "Bot upgraded in a community", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"subreddit":{"type":"string"}}}}}}, "responses": { "202": { "description": "accepted" } } }
    },
    "/menu/blacklist": {
      "post": { "summary": "Blacklist a user (moderator)", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"subreddit":{"type":"string"},"moderator":{"type":"string"},"targetUser":{"type":"string"}}}}}}, "responses": { "200": { "description": "toast" } } }
    },
    "/api/communities/{community}/overview": {
      "get": { "summary": "Subscription post data", "parameters": [{"name":"community","in":"path","required":true,"schema":{"type":"string"}},{"name":"user","in":"query","schema":{"type":"string"}}], "responses": { "200": { "description": "overview" }, "422": { "description": "invalid settings" } } }
    },
    "/api/communities/{community}/groups/{group}/join": {
      "post": { "summary": "Join a ping group", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"user":{"type":"string"}}}}}}, "responses": { "200": { "description": "toast" } } }
    },
    "/api/communities/{community}/groups/{group}/leave": {
      "post": { "summary": "Leave a ping group", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"user":{"type":"string"}}}}}}, "responses": { "200": { "description": "toast" } } }
    },
    "/api/communities/{community}/settings": {
      "get": { "summary": "Read moderator settings", "responses": { "200": { "description": "settings" } } },
      "put": { "summary": "Save moderator settings", "responses": { "200": { "description": "saved" }, "422": { "description": "invalid slot" }, "501": { "description": "read-only settings" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
