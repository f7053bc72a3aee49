package suggest

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/passkeeper/internal/logging"
)

// Live asks a Completer for a suggestion and falls back to Local when the
// call fails or the answer is not 8-16 characters long.
type Live struct {
	completer Completer
	fallback  *Local
	logger    logging.Logger
}

func NewLive(c Completer, logger logging.Logger) *Live {
	return &Live{completer: c, fallback: NewLocal(), logger: logger}
}

func (l *Live) Suggest(ctx context.Context, req Request) (Result, error) {
	req = req.normalize()
	if err := req.validate(); err != nil {
		return Result{}, err
	}

	text, err := l.completer.Complete(ctx, BuildPrompt(req))
	if err != nil {
		l.logger.Warn(ctx, "suggestion request failed, using local composition", "error", err)
		return l.fallbackResult(req, "AI service unavailable, generated a password locally"), nil
	}

	text = strings.TrimSpace(text)
	if n := utf8.RuneCountInString(text); n < MinLength || n > MaxLength {
		l.logger.Warn(ctx, "suggestion has unexpected length, using local composition", "length", n)
		return l.fallbackResult(req, "AI answer did not fit the rules, generated a password locally"), nil
	}

	l.logger.Debug(ctx, "suggestion accepted")
	return Result{Succeeded: true, Password: text, Message: "password suggested by AI"}, nil
}

func (l *Live) fallbackResult(req Request, msg string) Result {
	return Result{Succeeded: false, Password: l.fallback.compose(req), Message: msg}
}

// BuildPrompt renders the instruction sent to the model.
func BuildPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create one strong but memorable password between %d and %d characters long.\n", MinLength, MaxLength)
	fmt.Fprintf(&b, "Use these personal tokens: name %q, number %q, favorite thing %q", req.Name, req.Number, req.Favorite)
	if req.Platform != "" {
		fmt.Fprintf(&b, ", for the platform %q", req.Platform)
	}
	b.WriteString(".\n")
	fmt.Fprintf(&b, "It must contain at least one uppercase letter, one lowercase letter, one digit and one symbol from %s.\n", Symbols)
	b.WriteString("Reply with the password only, no explanation.")
	return b.String()
}

// New picks the suggester by availability: Live when a completer is
// configured, Local otherwise.
func New(c Completer, logger logging.Logger) Suggester {
	if c == nil {
		return NewLocal()
	}
	return NewLive(c, logger)
}
