// Package httpmw holds the fiber middleware shared by CollectorAPI and
// AlertAPI, adapted from the teacher's api/middleware package.
package httpmw

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Recovery returns recovery middleware. Stack traces are only enabled
// outside production to avoid leaking internals to clients.
func Recovery(serverMode string) fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: serverMode != "production",
	})
}

// CORS returns CORS middleware permissive enough for both the gateway
// and direct API consumers.
func CORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Requested-With",
		AllowCredentials: false,
		ExposeHeaders:    "Content-Length,Content-Type",
		MaxAge:           86400,
	})
}

// RequestLogger returns a request logging middleware in fiber's default
// combined-log-like format.
func RequestLogger() fiber.Handler {
	return logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	})
}
