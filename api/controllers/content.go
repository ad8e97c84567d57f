package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meridianpress/meridian-backend/api/responses"
	"github.com/meridianpress/meridian-backend/api/validators"
	"github.com/meridianpress/meridian-backend/internal/content"
	pkgerrors "github.com/meridianpress/meridian-backend/pkg/errors"
	"github.com/meridianpress/meridian-backend/pkg/logger"
)

const (
	maxPageSize   = 100
	defaultOffset = 0
)

func contentError(err error) error {
	if content.IsNotFound(err) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "document not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "content store")
}

// ArticlesList returns published articles, optionally filtered by region.
func ArticlesList(client *content.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, maxPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", defaultOffset, 0, 1<<20)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		articles, err := client.ListArticles(r.Context(), r.URL.Query().Get("region"), limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, contentError(err))
			return
		}
		responses.WriteSuccess(w, articles)
	}
}

// ArticleGet returns one article by slug.
func ArticleGet(client *content.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		article, err := client.GetArticle(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, contentError(err))
			return
		}
		responses.WriteSuccess(w, article)
	}
}

// MagazinesList returns the purchasable magazine issues.
func MagazinesList(client *content.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		magazines, err := client.ListMagazines(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, contentError(err))
			return
		}
		responses.WriteSuccess(w, magazines)
	}
}

// MagazineGet returns one magazine issue by slug.
func MagazineGet(client *content.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		magazine, err := client.GetMagazine(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, contentError(err))
			return
		}
		responses.WriteSuccess(w, magazine)
	}
}

// ExclusivesList returns member-only pieces. The membership gate runs in the
// router, not here.
func ExclusivesList(client *content.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		exclusives, err := client.ListExclusives(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, contentError(err))
			return
		}
		responses.WriteSuccess(w, exclusives)
	}
}

// ExclusiveGet returns one member-only piece by slug.
func ExclusiveGet(client *content.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		exclusive, err := client.GetExclusive(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, contentError(err))
			return
		}
		responses.WriteSuccess(w, exclusive)
	}
}

// RegionsList returns the coverage regions used for article navigation.
func RegionsList(client *content.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		regions, err := client.ListRegions(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, contentError(err))
			return
		}
		responses.WriteSuccess(w, regions)
	}
}
