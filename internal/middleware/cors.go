package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS allows a single browser origin with credentials, any method and any header.
func CORS(origin string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     origin,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,HEAD,OPTIONS",
		AllowHeaders:     "*",
		AllowCredentials: true,
	})
}
