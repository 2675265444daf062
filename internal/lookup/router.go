package lookup

import (
	"context"
	"errors"

	"storesearch/pkg/models"
)

// Source is implemented by each store backend. Each source is
// responsible for fetching its own raw data shape and mapping it into
// the canonical field set.
type Source interface {
	Name() string
	FetchBasicInfo(ctx context.Context, id string, req Request) (models.BasicInfo, error)
}

// Router dispatches lookups to the backend and parser registered for
// each platform tag.
type Router struct {
	sources map[string]Source
}

// NewRouter wires the default sources: the iTunes lookup client for
// ios and the Play Store scraper for android.
func NewRouter(appStore *AppStoreClient, playStore *PlayStoreClient) *Router {
	return &Router{sources: map[string]Source{
		models.PlatformIOS:     appStoreSource{client: appStore},
		models.PlatformAndroid: playStoreSource{client: playStore},
	}}
}

// Register replaces the source for a platform.
func (r *Router) Register(platform string, src Source) {
	r.sources[platform] = src
}

// FetchBasicInfo validates the app, resolves the lookup request and
// populates every canonical field from the first backend result. The
// app is validated on every call and no network request is made when
// validation fails.
//
// found is false with a nil error when the backend produced a valid
// empty result; callers should treat that as a normal non-match.
func (r *Router) FetchBasicInfo(ctx context.Context, app *models.App, opts Options) (found bool, err error) {
	if errs := app.Validate(); len(errs) > 0 {
		return false, &ValidationError{Errors: errs}
	}

	src, ok := r.sources[app.Platform]
	if !ok {
		return false, &ValidationError{Errors: []string{"unknown platform_id"}}
	}

	info, err := src.FetchBasicInfo(ctx, app.ID, NewRequest(opts))
	if err != nil {
		var noResults *NoResultsError
		if errors.As(err, &noResults) {
			return false, nil
		}
		return false, err
	}

	app.BasicInfo = info
	return true, nil
}

type appStoreSource struct {
	client *AppStoreClient
}

func (s appStoreSource) Name() string { return "app_store" }

func (s appStoreSource) FetchBasicInfo(ctx context.Context, id string, req Request) (models.BasicInfo, error) {
	rec, err := s.client.Find(ctx, id, req)
	if err != nil {
		return models.BasicInfo{}, err
	}
	return ParseAppStore(rec), nil
}

type playStoreSource struct {
	client *PlayStoreClient
}

func (s playStoreSource) Name() string { return "play_store" }

func (s playStoreSource) FetchBasicInfo(ctx context.Context, id string, req Request) (models.BasicInfo, error) {
	app, err := s.client.Find(ctx, id, req.LanguageCode)
	if err != nil {
		return models.BasicInfo{}, err
	}
	return ParsePlayStore(app), nil
}
