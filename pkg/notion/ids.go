package notion

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/diwise/notion-sugar/pkg/notion/errors"
	"github.com/google/uuid"
)

var tokenPrefixes = []string{"secret_", "v2_", "ntn_"}

// ValidateToken checks that token looks like an integration token
func ValidateToken(token string) error {
	for _, prefix := range tokenPrefixes {
		if strings.HasPrefix(token, prefix) {
			return nil
		}
	}
	return errors.NewInvalidTokenError(fmt.Sprintf("auth token must start with one of %s", strings.Join(tokenPrefixes, ", ")))
}

// NormalizeID accepts a UUID, with or without dashes, or a link to a page or
// database and returns the id in its dashed form. Links may carry a
// human readable slug in front of the id and a view query.
func NormalizeID(value string) (string, error) {
	candidate := strings.TrimSpace(value)

	if strings.HasPrefix(candidate, "https://") || strings.HasPrefix(candidate, "http://") {
		u, err := url.Parse(candidate)
		if err != nil {
			return "", errors.NewInvalidIDError(fmt.Sprintf("invalid notion url %q: %s", value, err.Error()))
		}

		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		candidate = segments[len(segments)-1]

		if idx := strings.LastIndex(candidate, "-"); idx >= 0 && len(candidate)-idx-1 == 32 {
			candidate = candidate[idx+1:]
		}
	}

	id, err := uuid.Parse(strings.ReplaceAll(candidate, "-", ""))
	if err != nil {
		return "", errors.NewInvalidIDError(fmt.Sprintf("invalid notion id %q", value))
	}

	return id.String(), nil
}
