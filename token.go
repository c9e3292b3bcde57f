package inject

import "reflect"

// ServiceToken identifies a service type. It pairs the stable runtime
// identity used for registry lookups with a display name used in
// diagnostics, and is embedded in every resolution error.
//
// Tokens are cheap values; compare them with ==.
type ServiceToken struct {
	rtype reflect.Type
	name  string
}

// TokenFor returns the token for the service type T.
func TokenFor[T any]() ServiceToken {
	return tokenOf(reflect.TypeOf((*T)(nil)).Elem())
}

func tokenOf(rtype reflect.Type) ServiceToken {
	return ServiceToken{rtype: rtype, name: formatType(rtype)}
}

// Type returns the runtime type the token identifies.
func (t ServiceToken) Type() reflect.Type {
	return t.rtype
}

// Name returns the human-readable name of the service type.
func (t ServiceToken) Name() string {
	if t.name == "" {
		return formatType(t.rtype)
	}
	return t.name
}

// IsZero reports whether the token identifies no type.
func (t ServiceToken) IsZero() bool {
	return t.rtype == nil
}

func (t ServiceToken) String() string {
	return t.Name()
}

// formatType renders a reflect.Type for diagnostics.
func formatType(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
