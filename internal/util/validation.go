package util

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// FieldMessages maps "Field.tag" (struct field name and failed validator tag)
// to the Thai message shown to the merchant.
type FieldMessages map[string]string

// ValidationMessage turns a binding error into one user-facing message. The
// first failed field wins. Errors without a mapping fall back to fallback.
func ValidationMessage(err error, messages FieldMessages, fallback string) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fallback
	}

	fe := verrs[0]
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := messages[fe.Field()]; ok {
		return msg
	}
	return fallback
}
