package export

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer groups thousands the Brazilian way ("22.500").
var printer = message.NewPrinter(language.BrazilianPortuguese)

// FormatNumber renders v with the given decimals in pt-BR notation.
// Example: FormatNumber(1234.567, 2) returns "1.234,57".
func FormatNumber(v float64, places int) string {
	if places < 0 {
		places = 0
	}

	formatted := strconv.FormatFloat(v, 'f', places, 64)
	negative := strings.HasPrefix(formatted, "-")
	formatted = strings.TrimPrefix(formatted, "-")

	intPart, fracPart, _ := strings.Cut(formatted, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return formatted
	}

	out := printer.Sprintf("%d", n)
	if fracPart != "" {
		out += "," + fracPart
	}
	if negative && strings.Trim(out, "0.,") != "" {
		out = "-" + out
	}
	return out
}

// FormatBRL renders an amount in reais, e.g. "R$ 22.500,00".
func FormatBRL(v float64) string {
	return "R$ " + FormatNumber(v, 2)
}
