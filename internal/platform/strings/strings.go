// Package strings holds small string pointer helpers for optional text fields
package strings

// Ptr returns a pointer to s, or nil if s is empty
func Ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Of returns a pointer to s, empty strings included
func Of(s string) *string { return &s }

// SQLNullPtr returns nil if ps is nil, else the dereferenced string
// An empty string stays a value; query args use this where NULL means absent
func SQLNullPtr(ps *string) any {
	if ps == nil {
		return nil
	}
	return *ps
}
