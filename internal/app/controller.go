package app

import (
	"context"
	"errors"

	"github.com/fi-collar/pet-tracker/internal/pet"
	"github.com/fi-collar/pet-tracker/internal/snapshot"
	"github.com/fi-collar/pet-tracker/internal/tracker"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// PetTracker is the part of the tracker the HTTP API needs.
type PetTracker interface {
	Views() []tracker.PetView
	View(petID string) (tracker.PetView, error)
	Refresh(ctx context.Context, petID string) (tracker.PetView, error)
	SetLedColor(ctx context.Context, petID, colorCode string) (tracker.PetView, error)
	SetLedPower(ctx context.Context, petID string, enabled bool) (tracker.PetView, error)
}

type Controller struct {
	tracker PetTracker
	builder *snapshot.Builder
	logger  *zerolog.Logger
}

func NewController(logger *zerolog.Logger, petTracker PetTracker, builder *snapshot.Builder) *Controller {
	return &Controller{
		tracker: petTracker,
		builder: builder,
		logger:  logger,
	}
}

// LedColorRequest is the body of a LED color change.
type LedColorRequest struct {
	ColorCode string `json:"colorCode"`
}

// LedPowerRequest is the body of a LED power change.
type LedPowerRequest struct {
	Enabled *bool `json:"enabled"`
}

// ListPets godoc
// @Summary List pets
// @Description List every pet of the account with its latest known state
// @Tags pets
// @Produce json
// @Produce application/cbor
// @Success 200 {array} tracker.PetView
// @Router /pets [get]
func (c *Controller) ListPets(ctx *fiber.Ctx) error {
	return respond(ctx, c.tracker.Views())
}

// GetPet godoc
// @Summary Get pet
// @Description Get the latest known state of a pet
// @Tags pets
// @Produce json
// @Produce application/cbor
// @Param petId path string true "Pet ID"
// @Success 200 {object} tracker.PetView
// @Failure 404 {object} codeResp
// @Router /pets/{petId} [get]
func (c *Controller) GetPet(ctx *fiber.Ctx) error {
	view, err := c.tracker.View(ctx.Params("petId"))
	if err != nil {
		return httpError(err)
	}
	return respond(ctx, view)
}

// GetLocation godoc
// @Summary Get pet location
// @Description Get the current location of a pet as a CloudEvent, signed when a signing key is configured
// @Tags pets
// @Produce json
// @Produce application/cbor
// @Param petId path string true "Pet ID"
// @Success 200 {object} cloudevent.CloudEvent[json.RawMessage]
// @Failure 404 {object} codeResp
// @Failure 500 {object} codeResp
// @Router /pets/{petId}/location [get]
func (c *Controller) GetLocation(ctx *fiber.Ctx) error {
	view, err := c.tracker.View(ctx.Params("petId"))
	if err != nil {
		return httpError(err)
	}
	event, err := c.builder.LocationEvent(view)
	if errors.Is(err, pet.ErrNoLocation) {
		return httpError(err)
	}
	if err != nil {
		c.logger.Error().Err(err).Str("petId", view.ID).Msg("Failed to create location event")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create location event")
	}
	return respond(ctx, event)
}

// GetStats godoc
// @Summary Get pet activity
// @Description Get the daily, weekly and monthly activity of a pet
// @Tags pets
// @Produce json
// @Produce application/cbor
// @Param petId path string true "Pet ID"
// @Success 200 {object} pet.Stats
// @Failure 404 {object} codeResp
// @Router /pets/{petId}/stats [get]
func (c *Controller) GetStats(ctx *fiber.Ctx) error {
	view, err := c.tracker.View(ctx.Params("petId"))
	if err != nil {
		return httpError(err)
	}
	if view.Stats == nil {
		return fiber.NewError(fiber.StatusNotFound, "No activity stats for pet yet")
	}
	return respond(ctx, view.Stats)
}

// RefreshPet godoc
// @Summary Refresh pet
// @Description Refresh the collar, location and activity of a pet
// @Tags pets
// @Produce json
// @Param petId path string true "Pet ID"
// @Success 200 {object} tracker.PetView
// @Failure 404 {object} codeResp
// @Failure 502 {object} codeResp
// @Router /pets/{petId}/refresh [post]
func (c *Controller) RefreshPet(ctx *fiber.Ctx) error {
	view, err := c.tracker.Refresh(ctx.UserContext(), ctx.Params("petId"))
	if err != nil {
		return httpError(err)
	}
	return respond(ctx, view)
}

// SetLedColor godoc
// @Summary Set LED color
// @Description Change the LED color of a pet's collar
// @Tags collar
// @Accept json
// @Produce json
// @Param petId path string true "Pet ID"
// @Param request body LedColorRequest true "LED color code"
// @Success 200 {object} tracker.PetView
// @Failure 400 {object} codeResp
// @Failure 404 {object} codeResp
// @Failure 502 {object} codeResp
// @Router /pets/{petId}/led/color [put]
func (c *Controller) SetLedColor(ctx *fiber.Ctx) error {
	var req LedColorRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	view, err := c.tracker.SetLedColor(ctx.UserContext(), ctx.Params("petId"), req.ColorCode)
	if err != nil {
		return httpError(err)
	}
	return respond(ctx, view)
}

// SetLedPower godoc
// @Summary Turn LED on or off
// @Description Turn the LED of a pet's collar on or off
// @Tags collar
// @Accept json
// @Produce json
// @Param petId path string true "Pet ID"
// @Param request body LedPowerRequest true "LED state"
// @Success 200 {object} tracker.PetView
// @Failure 400 {object} codeResp
// @Failure 404 {object} codeResp
// @Failure 502 {object} codeResp
// @Router /pets/{petId}/led/power [put]
func (c *Controller) SetLedPower(ctx *fiber.Ctx) error {
	var req LedPowerRequest
	if err := ctx.BodyParser(&req); err != nil || req.Enabled == nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	view, err := c.tracker.SetLedPower(ctx.UserContext(), ctx.Params("petId"), *req.Enabled)
	if err != nil {
		return httpError(err)
	}
	return respond(ctx, view)
}
