package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Space-grouped thousands are only read together with a decimal comma, so a
// count in front of an amount ("3 100.00") stays a separate number.
var (
	reMoneyAmount = regexp.MustCompile(`\d{1,3}(?: \d{3})+,\d{1,2}|\d{1,3}(?:[.,']\d{3})+(?:[.,]\d{1,2})?|\d+(?:[.,]\d{1,2})?`)
	reMoneyCents  = regexp.MustCompile(`[.,]\d{1,2}$`)
)

// amountIn returns the first amount in s that has a decimal part, or the
// first amount when none does.
func amountIn(s string) (string, bool) {
	all := reMoneyAmount.FindAllString(s, -1)
	if len(all) == 0 {
		return "", false
	}
	for _, v := range all {
		if reMoneyCents.MatchString(v) {
			return v, true
		}
	}
	return all[0], true
}

// ParseMoney parses an amount written with either European or American
// separators. When both separators appear the last one is the decimal point.
// A lone comma is a decimal comma; repeated dots are thousands separators
// except the last.
func ParseMoney(val string) (decimal.Decimal, bool) {
	val = strings.TrimSpace(val)
	val = strings.NewReplacer(" ", "", "\u00a0", "", "'", "").Replace(val)
	if val == "" {
		return decimal.Decimal{}, false
	}
	hasComma, hasDot := strings.Contains(val, ","), strings.Contains(val, ".")
	switch {
	case hasComma && hasDot:
		if strings.LastIndex(val, ",") > strings.LastIndex(val, ".") {
			val = strings.ReplaceAll(val, ".", "")
			val = strings.Replace(val, ",", ".", 1)
		} else {
			val = strings.ReplaceAll(val, ",", "")
		}
	case hasComma:
		if strings.Count(val, ",") > 1 {
			i := strings.LastIndex(val, ",")
			val = strings.ReplaceAll(val[:i], ",", "") + "." + val[i+1:]
		} else {
			val = strings.Replace(val, ",", ".", 1)
		}
	case strings.Count(val, ".") > 1:
		i := strings.LastIndex(val, ".")
		val = strings.ReplaceAll(val[:i], ".", "") + "." + val[i+1:]
	}
	d, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// CurrencyForSymbol maps a currency symbol to its ISO 4217 code.
func CurrencyForSymbol(sym string) (string, bool) {
	sym = strings.TrimSpace(sym)
	for _, cs := range currencySymbols {
		if sym == cs.symbol {
			return cs.code, true
		}
	}
	return "", false
}

// detectCurrency looks for an ISO code first, then a known symbol, in s.
func detectCurrency(s string) (string, bool) {
	for _, tok := range reUpperWord.FindAllString(s, -1) {
		if len(tok) == 3 && isoCurrencies.has(tok) {
			return tok, true
		}
	}
	for _, cs := range currencySymbols {
		if strings.Contains(s, cs.symbol) {
			return cs.code, true
		}
	}
	return "", false
}

var reUpperWord = regexp.MustCompile(`\b[A-Z]{3}\b`)
