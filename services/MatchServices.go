package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"coolbooks_server/models"
)

const defaultMaxConcurrentLookups = 16

// MatchService finds other users' listings of the types a user wants in exchange
type MatchService struct {
	Store     ListingStore
	Directory ProfileDirectory
	Log       *zap.Logger

	// MaxConcurrentLookups bounds both the per-type and the per-owner fan-out.
	MaxConcurrentLookups int
}

func NewMatchService(store ListingStore, directory ProfileDirectory, log *zap.Logger, maxConcurrentLookups int) *MatchService {
	return &MatchService{
		Store:                store,
		Directory:            directory,
		Log:                  log,
		MaxConcurrentLookups: maxConcurrentLookups,
	}
}

// GetMatches returns the listings of other users matching the desire types of
// userID, each annotated with its owner's profile when it could be resolved.
// Store failures are returned wrapped in ErrStoreUnavailable, profile failures
// never fail the call.
func (s *MatchService) GetMatches(ctx context.Context, userID string) (listings []models.Listing, err error) {
	start := time.Now()
	defer func() {
		getMatchesHistogram.WithLabelValues(outcomeLabel(err)).Observe(float64(time.Since(start).Milliseconds()))
	}()

	bookTypes, err := s.ResolveDesireTypes(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.FetchCandidates(ctx, bookTypes, userID)
	if err != nil {
		return nil, err
	}

	listings = s.Enrich(ctx, candidates)

	s.logger().Info("matches resolved",
		zap.String("user_id", userID),
		zap.Int("desire_types", len(bookTypes)),
		zap.Int("matches", len(listings)))
	return listings, nil
}

// ResolveDesireTypes returns the distinct, sorted desire types declared across
// the listings owned by userID. A user without listings has no desire types.
func (s *MatchService) ResolveDesireTypes(ctx context.Context, userID string) ([]string, error) {
	owned, err := s.Store.QueryByOwner(ctx, userID)
	if err != nil {
		s.logger().Error("failed to load own listings", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("%w: listings of %s: %w", ErrStoreUnavailable, userID, err)
	}

	seen := make(map[string]struct{})
	bookTypes := []string{}
	for _, listing := range owned {
		for _, t := range listing.DesireType {
			// an empty key condition value is rejected by the store
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			bookTypes = append(bookTypes, t)
		}
	}
	slices.Sort(bookTypes)
	return bookTypes, nil
}

// FetchCandidates issues one store query per type concurrently and
// concatenates the results. Listings owned by excludedUserID are filtered by
// each query. The first failing query fails the whole fetch.
func (s *MatchService) FetchCandidates(ctx context.Context, bookTypes []string, excludedUserID string) ([]models.Listing, error) {
	if len(bookTypes) == 0 {
		return []models.Listing{}, nil
	}

	results := make([][]models.Listing, len(bookTypes))
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(s.maxConcurrentLookups())
	for i, bookType := range bookTypes {
		grp.Go(func() error {
			listings, err := s.Store.QueryByType(ctx, bookType, excludedUserID)
			candidateQueriesCounter.WithLabelValues(outcomeLabel(err)).Inc()
			if err != nil {
				return fmt.Errorf("candidates of type %q: %w", bookType, err)
			}
			results[i] = listings
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		s.logger().Error("failed to fetch candidates",
			zap.String("user_id", excludedUserID),
			zap.Strings("types", bookTypes),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	candidates := make([]models.Listing, 0, total)
	for _, r := range results {
		candidates = append(candidates, r...)
	}
	return candidates, nil
}

type ownerProfile struct {
	ownerID string
	profile *models.Profile
}

// Enrich resolves the distinct owners of listings and sets User on every
// listing whose owner resolved. Failed lookups leave User nil and do not stop
// the sibling lookups. listings is annotated in place and returned.
func (s *MatchService) Enrich(ctx context.Context, listings []models.Listing) []models.Listing {
	owners := distinctOwners(listings)
	if len(owners) == 0 {
		return listings
	}

	p := pool.NewWithResults[ownerProfile]().
		WithErrors().
		WithMaxGoroutines(s.maxConcurrentLookups())
	for _, ownerID := range owners {
		p.Go(func() (ownerProfile, error) {
			profile, err := s.Directory.GetProfile(ctx, ownerID)
			if err == nil && profile == nil {
				err = ErrProfileNotFound
			}
			if err != nil {
				s.recordLookupFailure(ownerID, err)
				return ownerProfile{}, fmt.Errorf("%w: %s: %w", ErrProfileLookupFailed, ownerID, err)
			}
			profileLookupsCounter.WithLabelValues("found").Inc()
			return ownerProfile{ownerID: ownerID, profile: profile}, nil
		})
	}

	// errored lookups are left out of resolved
	resolved, err := p.Wait()
	if err != nil {
		s.logger().Warn("some owner profiles could not be resolved",
			zap.Int("owners", len(owners)),
			zap.Int("resolved", len(resolved)))
	}

	profiles := make(map[string]*models.Profile, len(resolved))
	for _, r := range resolved {
		profiles[r.ownerID] = r.profile
	}
	for i := range listings {
		if profile, ok := profiles[listings[i].UserID]; ok {
			listings[i].User = profile
		}
	}
	return listings
}

func (s *MatchService) recordLookupFailure(ownerID string, err error) {
	if errors.Is(err, ErrProfileNotFound) {
		profileLookupsCounter.WithLabelValues("not_found").Inc()
		s.logger().Debug("owner profile not found", zap.String("owner_id", ownerID))
		return
	}
	profileLookupsCounter.WithLabelValues("error").Inc()
	s.logger().Warn("owner profile lookup failed", zap.String("owner_id", ownerID), zap.Error(err))
}

func distinctOwners(listings []models.Listing) []string {
	seen := make(map[string]struct{}, len(listings))
	var owners []string
	for _, listing := range listings {
		if _, ok := seen[listing.UserID]; ok {
			continue
		}
		seen[listing.UserID] = struct{}{}
		owners = append(owners, listing.UserID)
	}
	return owners
}

func (s *MatchService) maxConcurrentLookups() int {
	if s.MaxConcurrentLookups < 1 {
		return defaultMaxConcurrentLookups
	}
	return s.MaxConcurrentLookups
}

func (s *MatchService) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
