package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent lowercases an identifier and drops word separators, so that
// "OrderID", "order_id" and "order-id" all normalize to "orderid".
func NormalizeIdent(s string) string {
	return strings.Join(TokenizeIdent(s), "")
}

// SnakeCase joins the words of an identifier with underscores, so "OrderItem"
// becomes "order_item" and "Item2Order" becomes "item2_order".
func SnakeCase(s string) string {
	return strings.Join(TokenizeIdent(s), "_")
}

// TokenizeIdent splits an identifier into lowercase words.
//   - "OrderID" -> ["order", "id"]
//   - "order_item_id" -> ["order", "item", "id"]
//   - "XMLParser" -> ["xml", "parser"]
func TokenizeIdent(s string) []string {
	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, strings.ToLower(current.String()))
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsWord(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

// startsWord reports a lower-to-upper transition ("orderID") or the last
// capital of an acronym followed by lowercase ("XMLParser").
func startsWord(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
