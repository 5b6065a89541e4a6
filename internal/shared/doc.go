// Package shared classifies errors for the transport layer.
//
// Library packages report failures with their own sentinels (dialect.ErrInvalidPage,
// dialect.ErrUnsupportedPagination, provider.ErrUnknownProvider, ...). KindOf folds
// them into a small set of kinds, together with the application sentinels of this
// package:
//
//	Priority | Kind                  | Matches
//	---------|-----------------------|--------------------------------------------
//	1        | KindCanceled          | context.Canceled
//	2        | KindTimeout           | context.DeadlineExceeded, net timeouts, ErrTimeout
//	3        | KindNotFound          | ErrNotFound, provider.ErrUnknownProvider
//	4        | KindValidation        | ErrValidation, dialect.ErrInvalidPage
//	5        | KindUnsupported       | ErrUnsupported, dialect.ErrUnsupportedPagination
//	6        | KindDependencyFailure | ErrDependencyFailure, provider.ErrSchemaUnavailable
//	7        | KindInternal          | ErrInternal
//
// Driver errors are returned unchanged by the library and classify as KindUnknown;
// mark them at the call site with MarkKind.
//
// Map kinds to transport codes in adapter layers, not here:
//
//	switch shared.KindOf(err) {
//	case shared.KindNotFound:
//	    return http.StatusNotFound
//	case shared.KindValidation:
//	    return http.StatusBadRequest
//	case shared.KindUnsupported:
//	    return http.StatusUnprocessableEntity
//	default:
//	    return http.StatusInternalServerError
//	}
//
// Error messages are lowercase and without punctuation so they compose when wrapped.
package shared
