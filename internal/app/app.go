package app

import (
	"errors"
	"strings"

	"github.com/fi-collar/pet-tracker/internal/pet"
	"github.com/fi-collar/pet-tracker/internal/tracker"
	"github.com/fxamacker/cbor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/rs/zerolog"
)

const mimeCBOR = "application/cbor"

// CreateWebServer creates the HTTP API around a controller.
func CreateWebServer(logger *zerolog.Logger, ctrl *Controller) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return ErrorHandler(c, err, logger)
		},
		DisableStartupMessage: true,
	})

	app.Use(recover.New(recover.Config{
		Next:              nil,
		EnableStackTrace:  true,
		StackTraceHandler: nil,
	}))

	app.Use(func(c *fiber.Ctx) error {
		userCtx := logger.With().Str("httpPath", strings.TrimPrefix(c.Path(), "/")).
			Str("httpMethod", c.Method()).Logger().WithContext(c.UserContext())
		c.SetUserContext(userCtx)
		return c.Next()
	})

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/", HealthCheck)

	pets := app.Group("/pets")
	pets.Get("/", ctrl.ListPets)
	pets.Get("/:petId", ctrl.GetPet)
	pets.Get("/:petId/location", ctrl.GetLocation)
	pets.Get("/:petId/stats", ctrl.GetStats)
	pets.Post("/:petId/refresh", ctrl.RefreshPet)
	pets.Put("/:petId/led/color", ctrl.SetLedColor)
	pets.Put("/:petId/led/power", ctrl.SetLedPower)
	return app
}

// HealthCheck godoc
// @Summary Show the status of server.
// @Description get the status of server.
// @Tags root
// @Accept */*
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func HealthCheck(ctx *fiber.Ctx) error {
	res := map[string]any{
		"data": "Server is up and running",
	}

	return ctx.JSON(res)
}

// ErrorHandler custom handler to log recovered errors using our logger and return json instead of string.
func ErrorHandler(ctx *fiber.Ctx, err error, logger *zerolog.Logger) error {
	code := fiber.StatusInternalServerError // Default 500 statuscode
	message := "Internal error."

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	// don't log not found errors
	if code != fiber.StatusNotFound {
		logger.Err(err).Int("httpStatusCode", code).
			Str("httpPath", strings.TrimPrefix(ctx.Path(), "/")).
			Str("httpMethod", ctx.Method()).
			Msg("caught an error from http request")
	}

	return ctx.Status(code).JSON(codeResp{Code: code, Message: message})
}

type codeResp struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// httpError maps tracker and pet errors onto a fiber error.
func httpError(err error) error {
	switch {
	case errors.Is(err, tracker.ErrPetNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Pet not found")
	case errors.Is(err, pet.ErrNoLocation):
		return fiber.NewError(fiber.StatusNotFound, "No location for pet yet")
	case errors.Is(err, pet.ErrNoStats):
		return fiber.NewError(fiber.StatusNotFound, "No activity stats for pet yet")
	}
	switch pet.Classify(err) {
	case pet.KindInvalidInput:
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case pet.KindAuth:
		return fiber.NewError(fiber.StatusBadGateway, "TryFi rejected the session")
	case pet.KindMalformedPayload:
		return fiber.NewError(fiber.StatusBadGateway, "Unexpected response from TryFi")
	default:
		return fiber.NewError(fiber.StatusBadGateway, "Failed to reach TryFi")
	}
}

// respond writes v as CBOR when the client prefers it and as JSON otherwise.
func respond(ctx *fiber.Ctx, v any) error {
	if ctx.Accepts(fiber.MIMEApplicationJSON, mimeCBOR) != mimeCBOR {
		return ctx.JSON(v)
	}
	data, err := cbor.Marshal(v)
	if err != nil {
		return err
	}
	ctx.Set(fiber.HeaderContentType, mimeCBOR)
	return ctx.Send(data)
}
