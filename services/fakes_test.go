package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"coolbooks_server/models"
)

var errBoom = errors.New("boom")

// fakeListingStore applies the same owner and type filters as the Dynamo indexes
type fakeListingStore struct {
	mu       sync.Mutex
	listings []models.Listing

	ownerErr   error
	typeErrs   map[string]error
	putErr     error
	typeDelay  time.Duration
	typeCalls  []string
	ownerCalls int
	put        []models.Listing

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (f *fakeListingStore) QueryByOwner(_ context.Context, ownerID string) ([]models.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ownerCalls++
	if f.ownerErr != nil {
		return nil, f.ownerErr
	}
	var out []models.Listing
	for _, l := range f.listings {
		if l.UserID == ownerID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeListingStore) QueryByType(ctx context.Context, bookType, excludeOwnerID string) ([]models.Listing, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		current := f.maxInFlight.Load()
		if n <= current || f.maxInFlight.CompareAndSwap(current, n) {
			break
		}
	}

	if f.typeDelay > 0 {
		select {
		case <-time.After(f.typeDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.typeCalls = append(f.typeCalls, bookType)
	if err := f.typeErrs[bookType]; err != nil {
		return nil, err
	}
	var out []models.Listing
	for _, l := range f.listings {
		if l.Type == bookType && l.UserID != excludeOwnerID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeListingStore) PutListing(_ context.Context, listing models.Listing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.put = append(f.put, listing)
	return nil
}

type fakeDirectory struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile
	failures map[string]error
	calls    map[string]int
	delay    time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (f *fakeDirectory) GetProfile(_ context.Context, userID string) (*models.Profile, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		current := f.maxInFlight.Load()
		if n <= current || f.maxInFlight.CompareAndSwap(current, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[userID]++
	if err := f.failures[userID]; err != nil {
		return nil, err
	}
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

type fakeImageStore struct {
	key         string
	contentType string
	body        []byte
	err         error
}

func (f *fakeImageStore) PutImage(_ context.Context, key, contentType string, body []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.key, f.contentType, f.body = key, contentType, body
	return "https://images.test/" + key, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	notified []models.Listing
	err      error
}

func (f *fakeNotifier) NotifyListingCreated(_ context.Context, listing models.Listing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified = append(f.notified, listing)
	return f.err
}
