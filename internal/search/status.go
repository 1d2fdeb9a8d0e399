package search

import (
	"fmt"
	"unicode/utf8"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/rs/zerolog"
)

// Category groups failed HTTP statuses by what the user should do about them.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryUnauthorized
	CategoryForbidden
	CategoryResultWindow
	CategoryServer
)

func (c Category) String() string {
	switch c {
	case CategoryUnauthorized:
		return "unauthorized"
	case CategoryForbidden:
		return "forbidden"
	case CategoryResultWindow:
		return "result_window"
	case CategoryServer:
		return "server_error"
	default:
		return "unknown"
	}
}

// Classification is the log guidance for one status code.
type Classification struct {
	Category Category
	Level    zerolog.Level
	Message  string
}

// Classify maps a failed status code to a category. It never changes control
// flow; callers only log the result.
func Classify(status int) Classification {
	switch status {
	case fhttp.StatusUnauthorized:
		return Classification{CategoryUnauthorized, zerolog.ErrorLevel, "authorization failed, check the access token"}
	case fhttp.StatusForbidden:
		return Classification{CategoryForbidden, zerolog.ErrorLevel, "access forbidden, the token may lack the required scopes"}
	case fhttp.StatusUnprocessableEntity:
		return Classification{CategoryResultWindow, zerolog.WarnLevel, "only the first 1000 search results are available"}
	case fhttp.StatusInternalServerError:
		return Classification{CategoryServer, zerolog.ErrorLevel, "github internal server error, try again later"}
	default:
		return Classification{CategoryUnknown, zerolog.ErrorLevel, fmt.Sprintf("request failed with status %d", status)}
	}
}

const maxLoggedBody = 2048

func logStatus(logger zerolog.Logger, status int, body []byte) {
	cls := Classify(status)
	logger.WithLevel(cls.Level).
		Int("status", status).
		Str("category", cls.Category.String()).
		Msg(cls.Message)
	logger.Error().
		Int("status", status).
		Str("response", truncateBody(body)).
		Msg("failed request response")
}

func truncateBody(body []byte) string {
	if len(body) <= maxLoggedBody {
		return string(body)
	}
	cut := maxLoggedBody
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut]) + "..."
}
