// Package response renders JSON responses and turns request binding failures
// into structured HTTP errors.
//
// Binding errors map to statuses by cause:
//
//	binder.ErrContentTypeMismatch   415 unsupported_media_type
//	binder.ErrRequestBodyTooLarge   413 request_entity_too_large
//	other *binder.DecodeError        400 bad_request
//	*binder.SchemaError              500 internal_server_error
//
// Typical handler:
//
//	req, err := plan.BindHTTP(r, binder.Extract(r, chi.URLParam))
//	if err != nil {
//		response.Error(w, r, err)
//		return
//	}
//	response.Render(w, r, response.JSONWithStatus(result, http.StatusCreated))
//
// The error body has the shape:
//
//	{"code":"bad_request","message":"Invalid JSON body","details":{"origin":"json","cause":"..."}}
package response
