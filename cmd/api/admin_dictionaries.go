package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/SameerRifat/e-commerce-sub001/internal/domain/dictionaries"
	"github.com/go-chi/chi/v5"
)

func (app *application) dictionaryKind(w http.ResponseWriter, r *http.Request) (dictionaries.Kind, bool) {
	kind, err := dictionaries.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		app.notFoundResponse(w, r, err)
		return "", false
	}
	return kind, true
}

// invalidateCatalog drops cached listings and filter counts. A failure is
// logged only; cached entries expire on their own.
func (app *application) invalidateCatalog(ctx context.Context) {
	if app.catalogCache == nil {
		return
	}
	if err := app.catalogCache.Invalidate(ctx); err != nil {
		app.logger.Warnw("catalog cache invalidation failed", "error", err)
	}
}

// adminListDictionaryHandler godoc
//
//	@Summary		List dictionary entries (admin)
//	@Description	Lists genders, brands, categories, colors or sizes.
//	@Tags			Store-Admin-Dictionaries
//	@Produce		json
//	@Param			kind	path		string	true	"Dictionary"	Enums(genders,brands,categories,colors,sizes)
//	@Success		200		{object}	envelope{data=[]dictionaries.Entry}
//	@Failure		404		{object}	error	"Not Found: unknown dictionary"
//	@Failure		500		{object}	error	"Internal Server Error"
//	@Router			/store/admin/dictionaries/{kind} [get]
//	@Security		BasicAuth
func (app *application) adminListDictionaryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	kind, ok := app.dictionaryKind(w, r)
	if !ok {
		return
	}

	entries, err := app.store.Dictionaries.List(ctx, kind)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, entries)
}

// adminCreateDictionaryHandler godoc
//
//	@Summary		Create dictionary entry (admin)
//	@Description	Slug is generated from the name when omitted.
//	@Tags			Store-Admin-Dictionaries
//	@Accept			json
//	@Produce		json
//	@Param			kind	path		string							true	"Dictionary"
//	@Param			body	body		dictionaries.CreateEntryRequest	true	"Entry"
//	@Success		201		{object}	envelope{data=dictionaries.Entry}
//	@Failure		400		{object}	error	"Bad Request"
//	@Failure		404		{object}	error	"Not Found: unknown dictionary"
//	@Failure		409		{object}	error	"Conflict: duplicate name or slug"
//	@Failure		500		{object}	error	"Internal Server Error"
//	@Router			/store/admin/dictionaries/{kind} [post]
//	@Security		BasicAuth
func (app *application) adminCreateDictionaryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	kind, ok := app.dictionaryKind(w, r)
	if !ok {
		return
	}

	var in dictionaries.CreateEntryRequest
	if err := readJSON(w, r, &in); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(in); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	entry, err := app.store.Dictionaries.Create(ctx, kind, in)
	if err != nil {
		switch {
		case errors.Is(err, dictionaries.ErrInvalidSlug):
			app.badRequestResponse(w, r, err)
		case errors.Is(err, dictionaries.ErrDuplicate):
			app.conflictResponse(w, r, err)
		case errors.Is(err, dictionaries.ErrNotFound):
			// parent_id points at no category
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.invalidateCatalog(ctx)
	app.jsonResponse(w, http.StatusCreated, entry)
}

// adminDeleteDictionaryHandler godoc
//
//	@Summary		Delete dictionary entry (admin)
//	@Tags			Store-Admin-Dictionaries
//	@Produce		json
//	@Param			kind	path		string	true	"Dictionary"
//	@Param			entryID	path		int64	true	"Entry ID"
//	@Success		200		{object}	envelope{data=map[string]string}
//	@Failure		404		{object}	error	"Not Found"
//	@Failure		409		{object}	error	"Conflict: still referenced by products"
//	@Failure		500		{object}	error	"Internal Server Error"
//	@Router			/store/admin/dictionaries/{kind}/{entryID} [delete]
//	@Security		BasicAuth
func (app *application) adminDeleteDictionaryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	kind, ok := app.dictionaryKind(w, r)
	if !ok {
		return
	}
	id, err := parseIDParam(r, "entryID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Dictionaries.Delete(ctx, kind, id); err != nil {
		switch {
		case errors.Is(err, dictionaries.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, dictionaries.ErrInUse):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.invalidateCatalog(ctx)
	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// POST /v1/store/admin/cache/invalidate
func (app *application) adminInvalidateCatalogHandler(w http.ResponseWriter, r *http.Request) {
	if app.catalogCache == nil {
		app.jsonResponse(w, http.StatusOK, map[string]string{"message": "cache disabled"})
		return
	}
	if err := app.catalogCache.Invalidate(r.Context()); err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "catalog cache cleared"})
}
