package policy

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var ErrMalformedDocument = errors.New("malformed policy document")

// CheckDocument rejects documents IAM would refuse outright: text that is
// not JSON, or JSON with no Statement member.
func CheckDocument(doc string) error {
	if !gjson.Valid(doc) {
		return fmt.Errorf("%w: invalid JSON", ErrMalformedDocument)
	}
	root := gjson.Parse(doc)
	if !root.IsObject() {
		return fmt.Errorf("%w: top level must be an object", ErrMalformedDocument)
	}
	stmt := root.Get("Statement")
	if !stmt.Exists() {
		return fmt.Errorf("%w: missing Statement", ErrMalformedDocument)
	}
	if !stmt.IsArray() && !stmt.IsObject() {
		return fmt.Errorf("%w: Statement must be an object or array", ErrMalformedDocument)
	}
	return nil
}
