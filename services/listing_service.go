package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"coolbooks_server/models"
	"coolbooks_server/utils"
)

// ListingService creates listings on behalf of an authenticated user
type ListingService struct {
	Store       ListingStore
	Images      ImageStore
	Notifier    Notifier
	ImagePrefix string
	Log         *zap.Logger

	// Now and NewID default to time.Now and uuid v4
	Now   func() time.Time
	NewID func() string
}

func NewListingService(store ListingStore, images ImageStore, notifier Notifier, imagePrefix string, log *zap.Logger) *ListingService {
	return &ListingService{
		Store:       store,
		Images:      images,
		Notifier:    notifier,
		ImagePrefix: imagePrefix,
		Log:         log,
	}
}

// CreateListing stores a new listing owned by userID. A data URI picture is
// uploaded first and replaced by its public URL.
func (s *ListingService) CreateListing(ctx context.Context, userID string, in models.ListingInput) (*models.Listing, error) {
	if strings.TrimSpace(in.Type) == "" {
		return nil, fmt.Errorf("%w: type is required", ErrInvalidListing)
	}

	listing := models.Listing{
		ID:          s.newID(),
		UserID:      userID,
		Type:        in.Type,
		DesireType:  in.DesireType,
		Title:       in.Title,
		Author:      in.Author,
		Description: in.Description,
		Date:        s.now().Unix(),
	}

	if in.Picture != "" {
		url, err := s.uploadPicture(ctx, in.Picture)
		if err != nil {
			return nil, err
		}
		listing.Picture = url
	}

	if err := s.Store.PutListing(ctx, listing); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	listingsCreatedCounter.Inc()

	s.logger().Info("listing created",
		zap.String("listing_id", listing.ID),
		zap.String("user_id", userID),
		zap.String("type", listing.Type))

	if s.Notifier != nil {
		if err := s.Notifier.NotifyListingCreated(ctx, listing); err != nil {
			s.logger().Warn("failed to announce listing", zap.String("listing_id", listing.ID), zap.Error(err))
		}
	}

	return &listing, nil
}

func (s *ListingService) uploadPicture(ctx context.Context, picture string) (string, error) {
	uri, err := utils.ParseDataURI(picture)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPicture, err)
	}

	name := strings.ReplaceAll(uuid.NewString(), "-", "") + "." + uri.Extension()
	key := path.Join(s.ImagePrefix, name)

	url, err := s.Images.PutImage(ctx, key, uri.MimeType, uri.Data)
	if err != nil {
		s.logger().Error("picture upload failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrImageUpload, err)
	}
	return url, nil
}

func (s *ListingService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *ListingService) newID() string {
	if s.NewID == nil {
		return uuid.NewString()
	}
	return s.NewID()
}

func (s *ListingService) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
