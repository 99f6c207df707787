// Package binder populates request structs from the JSON body, path
// parameters and query string.
//
// Binders are plain functions and are applied in order by handler.Wrap.
// Each binder only touches the fields carrying its own struct tag:
//
//	type UpdateCompanyRequest struct {
//		ID    int64  `path:"id" json:"-"`
//		Name  string `json:"name"`
//		Email string `json:"email"`
//	}
//
//	r.Put("/companies/{id}", handler.Wrap(h,
//		handler.WithBinders[UpdateCompanyRequest](binder.Path(chi.URLParam), binder.JSON()),
//	))
package binder
