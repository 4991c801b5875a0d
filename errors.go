package inertia

import "errors"

// Sentinel errors for page resolution and dialog dispatch.
var (
	ErrViewNotFound      = errors.New("inertia: root view not registered")
	ErrNoKernel          = errors.New("inertia: no kernel configured for dialog dispatch")
	ErrTooManyRedirects  = errors.New("inertia: too many base page redirects")
	ErrInvalidBasePage   = errors.New("inertia: base page response is not a page object")
	ErrNotCallable       = errors.New("inertia: value is not callable")
	ErrUnresolvableParam = errors.New("inertia: cannot resolve callable parameter")
	ErrPropDepthExceeded = errors.New("inertia: prop nesting exceeds maximum depth")
)

// IsDialogError checks if err came from dispatching a dialog's base page.
func IsDialogError(err error) bool {
	return errors.Is(err, ErrNoKernel) ||
		errors.Is(err, ErrTooManyRedirects) ||
		errors.Is(err, ErrInvalidBasePage)
}

// IsResolveError checks if err came from invoking or walking a prop value.
func IsResolveError(err error) bool {
	return errors.Is(err, ErrNotCallable) ||
		errors.Is(err, ErrUnresolvableParam) ||
		errors.Is(err, ErrPropDepthExceeded)
}
