package album

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	//nolint:gochecknoglobals // validator caches struct metadata and is safe for concurrent use
	validate *validator.Validate
	//nolint:gochecknoglobals // initialised once
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate reports the first schema violation as ErrInvalidAlbum.
func Validate(v any) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidAlbum, err)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", ErrInvalidAlbum, fe.Field())
	case "datetime":
		return fmt.Errorf("%w: %s must be a DD-MM-YYYY date", ErrInvalidAlbum, fe.Field())
	default:
		return fmt.Errorf("%w: %s failed %s", ErrInvalidAlbum, fe.Field(), fe.Tag())
	}
}

// ParseID reads an album id from a path parameter. Anything that is not a
// positive integer counts as missing.
func ParseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, ErrMissingAlbumID
	}
	return id, nil
}
