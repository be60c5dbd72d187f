package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"coolbooks_server/middleware"
	"coolbooks_server/models"
	"coolbooks_server/services"
)

// MatchFinder is implemented by services.MatchService
type MatchFinder interface {
	GetMatches(ctx context.Context, userID string) ([]models.Listing, error)
}

// ListingCreator is implemented by services.ListingService
type ListingCreator interface {
	CreateListing(ctx context.Context, userID string, in models.ListingInput) (*models.Listing, error)
}

// BookController handles the /books endpoints
type BookController struct {
	Matches  MatchFinder
	Listings ListingCreator
	Log      *zap.Logger
}

// NewBookController creates a new BookController instance
func NewBookController(matches MatchFinder, listings ListingCreator, log *zap.Logger) *BookController {
	return &BookController{Matches: matches, Listings: listings, Log: log}
}

// GetBooks returns other users' listings matching what the caller wants
func (bc *BookController) GetBooks(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteJSONResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	listings, err := bc.Matches.GetMatches(r.Context(), userID)
	if err != nil {
		bc.Log.Error("failed to get matches", zap.String("user_id", userID), zap.Error(err))
		InternalServerError(w)
		return
	}
	if listings == nil {
		listings = []models.Listing{}
	}

	WriteJSONResponse(w, http.StatusOK, listings)
}

// CreateBook stores a new listing owned by the caller
func (bc *BookController) CreateBook(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteJSONResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input models.ListingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		WriteJSONResponse(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	listing, err := bc.Listings.CreateListing(r.Context(), userID, input)
	switch {
	case errors.Is(err, services.ErrInvalidListing):
		WriteJSONResponse(w, http.StatusBadRequest, "Missing required fields")
		return
	case errors.Is(err, services.ErrInvalidPicture):
		WriteJSONResponse(w, http.StatusBadRequest, "Invalid picture")
		return
	case err != nil:
		bc.Log.Error("failed to create listing", zap.String("user_id", userID), zap.Error(err))
		InternalServerError(w)
		return
	}

	WriteJSONResponse(w, http.StatusCreated, listing)
}
