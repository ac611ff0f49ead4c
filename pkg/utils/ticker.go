package utils

import (
	"sort"
	"strings"
)

// Ticker aliases for the tracked soy/agro universe. Keys are normalized
// (uppercase) symbols; values are the display names OR-ed into search queries.
var tickerAliases = map[string]string{
	"FUT SJC":             "Futuro de soja na B3",
	"CME":                 "CME Group",
	"NYSE":                "NYSE indice composto",
	"B3":                  "Bolsa B3",
	"ADM":                 "Archer Daniels Midland",
	"CARG":                "Cargill",
	"BUNGE":               "Bunge",
	"LOUIS DREYFUS":       "Louis Dreyfus",
	"AMAGGI":              "Amaggi",
	"SLC AGRÍCOLA":        "SLC Agrícola",
	"BRASILAGRO":          "BrasilAgro",
	"VITERRA":             "Viterra",
	"COFCO INTERNATIONAL": "COFCO International",
	"SYNGENTA":            "Syngenta",
	"BAYER":               "Bayer",
	"BASF":                "BASF",
	"MOSAIC":              "Mosaic",
	"NUTRIEN":             "Nutrien",
	"ILPF":                "relacao de preco soja e boi",
	"BRASIL":              "comercio de soja",
}

// NormalizeTicker normalizes a user-input ticker symbol.
// It handles uppercasing, whitespace, and the $ prefix common in chat.
func NormalizeTicker(ticker string) string {
	ticker = strings.TrimSpace(strings.ToUpper(ticker))
	ticker = strings.TrimPrefix(ticker, "$")
	return ticker
}

// ResolveAlias returns the display alias registered for a ticker symbol.
// Unregistered tickers resolve to the symbol itself.
func ResolveAlias(ticker string) string {
	if alias, ok := tickerAliases[NormalizeTicker(ticker)]; ok {
		return alias
	}
	return ticker
}

// IsMapped reports whether the ticker has a registered alias.
func IsMapped(ticker string) bool {
	_, ok := tickerAliases[NormalizeTicker(ticker)]
	return ok
}

// MappedTickers returns every registered ticker symbol in sorted order.
// Used when no explicit ticker list is configured.
func MappedTickers() []string {
	tickers := make([]string, 0, len(tickerAliases))
	for t := range tickerAliases {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}
