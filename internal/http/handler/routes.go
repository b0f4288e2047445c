package handler

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sgchris/gresources/docs"
	"github.com/sgchris/gresources/internal/service"
)

// Response headers carrying resource and folder metadata.
const (
	HeaderCreatedAt = "created-at"
	HeaderUpdatedAt = "updated-at"
	HeaderFolder    = "folder"
	HeaderSize      = "size"
)

// headerTimeLayout is RFC 3339 with millisecond precision.
const headerTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// RegisterRoutes attaches the resource routes to app. Every path, including
// the root, is a resource address.
func RegisterRoutes(app *fiber.App, svc service.ResourceService) {
	for _, p := range []string{"/", "/*"} {
		app.Post(p, CreateResource(svc))
		app.Get(p, GetResource(svc))
		app.Patch(p, UpdateResource(svc))
		app.Delete(p, DeleteResource(svc))
	}
}

// RegisterAdminRoutes attaches health, metrics and API docs to the admin app.
// apiHost is the public address of the resource API advertised in the docs.
func RegisterAdminRoutes(app *fiber.App, db *sql.DB, gatherer prometheus.Gatherer, apiHost string) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	app.Get("/swagger/*", SwaggerUI(apiHost))
}

// resourcePath returns the unescaped request path, copied out of the
// request buffer so it can outlive the handler.
func resourcePath(c *fiber.Ctx) string {
	return utils.CopyString(c.Path())
}

// body returns the request body as text, or false if it is not valid UTF-8.
func body(c *fiber.Ctx) (string, bool) {
	b := c.Body()
	if !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}

// CreateResource godoc
// @Summary Create a resource
// @Tags resources
// @Accept plain
// @Param path path string true "Resource path"
// @Param content body string true "Resource content"
// @Success 201
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /{path} [post]
func CreateResource(svc service.ResourceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		content, ok := body(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_CONTENT", "Content must be valid UTF-8 text")
		}
		if _, err := svc.Create(c.UserContext(), resourcePath(c), content); err != nil {
			return writeServiceError(c, err)
		}
		// SendStatus would fill the empty body with "Created".
		c.Status(fiber.StatusCreated)
		return nil
	}
}

// GetResource godoc
// @Summary Read a resource or list a folder
// @Description A resource returns its content. A folder returns its direct children, one path per line.
// @Tags resources
// @Produce plain
// @Param path path string true "Resource or folder path"
// @Success 200 {string} string
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /{path} [get]
func GetResource(svc service.ResourceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entry, err := svc.Get(c.UserContext(), resourcePath(c))
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		if entry.IsFolder() {
			listing := strings.Join(entry.Folder.Children, "\n")
			c.Set(HeaderCreatedAt, entry.Folder.CreatedAt.UTC().Format(headerTimeLayout))
			c.Set(HeaderFolder, entry.Folder.Path)
			c.Set(HeaderSize, strconv.Itoa(len(listing)))
			return c.Status(fiber.StatusOK).SendString(listing)
		}

		res := entry.Resource
		c.Set(HeaderCreatedAt, res.CreatedAt.UTC().Format(headerTimeLayout))
		c.Set(HeaderUpdatedAt, res.UpdatedAt.UTC().Format(headerTimeLayout))
		c.Set(HeaderFolder, res.Folder())
		c.Set(HeaderSize, strconv.FormatInt(res.Size, 10))
		return c.Status(fiber.StatusOK).SendString(res.Text())
	}
}

// UpdateResource godoc
// @Summary Replace the content of a resource
// @Tags resources
// @Accept plain
// @Param path path string true "Resource path"
// @Param content body string true "New content"
// @Success 204
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /{path} [patch]
func UpdateResource(svc service.ResourceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		content, ok := body(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_CONTENT", "Content must be valid UTF-8 text")
		}
		if _, err := svc.Update(c.UserContext(), resourcePath(c), content); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DeleteResource godoc
// @Summary Delete a resource or an empty folder
// @Tags resources
// @Param path path string true "Resource or folder path"
// @Success 204
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /{path} [delete]
func DeleteResource(svc service.ResourceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), resourcePath(c)); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// HealthCheck checks DB connectivity only.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200 while the process is up.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// SwaggerUI serves the API docs advertising apiHost. The shared doc info is
// written once here, before any request is served.
func SwaggerUI(apiHost string) fiber.Handler {
	docs.SwaggerInfo.Host = apiHost
	return swagger.HandlerDefault
}
