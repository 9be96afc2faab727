// internal/bot/parse.go
package bot

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"baniya/internal/domain"

	"golang.org/x/text/encoding/charmap"
)

// Command is a parsed "/name arg arg" message.
type Command struct {
	Name string
	Args []string
}

// Parse returns ok=false for messages that are not commands. "/cmd@botname"
// is accepted as in group chats.
func Parse(text string) (Command, bool) {
	fields := strings.Fields(SanitizeInput(FixEncoding(text)))
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return Command{}, false
	}
	name := strings.TrimPrefix(fields[0], "/")
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return Command{}, false
	}
	return Command{Name: strings.ToLower(name), Args: fields[1:]}, true
}

// ParseProfile reads "grocery=5000 dining=3000". Categories not mentioned are
// zero; unknown ones are errors so typos are not silently dropped.
func ParseProfile(args []string) (domain.SpendingProfile, error) {
	if len(args) == 0 {
		return domain.SpendingProfile{}, domain.Invalid("", "usage: /recommend grocery=5000 dining=3000")
	}

	var p domain.SpendingProfile
	seen := make(map[domain.Category]bool)
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return domain.SpendingProfile{}, domain.Invalid("", fmt.Sprintf("expected category=amount, got %q", arg))
		}
		c, ok := domain.ParseCategory(key)
		if !ok {
			return domain.SpendingProfile{}, domain.Invalid("", fmt.Sprintf("unknown category %q", key))
		}
		if seen[c] {
			return domain.SpendingProfile{}, domain.Invalid(string(c), "given more than once")
		}
		seen[c] = true

		n, err := strconv.ParseInt(strings.ReplaceAll(value, ",", ""), 10, 64)
		if err != nil {
			return domain.SpendingProfile{}, domain.Invalid(string(c), "amount must be a whole number")
		}
		p = p.With(c, n)
	}
	if err := p.Validate(); err != nil {
		return domain.SpendingProfile{}, err
	}
	return p, nil
}

// ParseAmount accepts "120.50", "₹120.50" and "1,200".
func ParseAmount(args []string) (float64, error) {
	if len(args) != 1 {
		return 0, domain.Invalid("", "usage: /add 120.50")
	}
	s := strings.TrimPrefix(args[0], "₹")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, domain.Invalid("amount", fmt.Sprintf("must be a number, got %q", args[0]))
	}
	return v, nil
}

// SanitizeInput collapses every kind of whitespace into single spaces.
func SanitizeInput(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// FixEncoding repairs text that arrived as Windows-1251 bytes.
func FixEncoding(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	fixed, err := charmap.Windows1251.NewDecoder().String(s)
	if err == nil && utf8.ValidString(fixed) {
		return fixed
	}
	return strings.ToValidUTF8(s, "")
}
