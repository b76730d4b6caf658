package notifications

import (
	"strings"

	cartports "github.com/Apurer/rocketshoes-cart/internal/domains/cart/ports"
)

// Catalog maps notification kinds to shopper-facing copy.
type Catalog map[cartports.NotificationKind]string

const (
	LocaleEnglish    = "en"
	LocalePortuguese = "pt-BR"
)

var catalogs = map[string]Catalog{
	LocaleEnglish: {
		cartports.NotificationStockExceeded: "requested quantity exceeds available stock",
		cartports.NotificationAddFailed:     "failed to add product",
		cartports.NotificationRemoveFailed:  "failed to remove product",
		cartports.NotificationUpdateFailed:  "failed to update product quantity",
	},
	LocalePortuguese: {
		cartports.NotificationStockExceeded: "Quantidade solicitada fora de estoque",
		cartports.NotificationAddFailed:     "Erro na adição do produto",
		cartports.NotificationRemoveFailed:  "Erro na remoção do produto",
		cartports.NotificationUpdateFailed:  "Erro na alteração de quantidade do produto",
	},
}

// CatalogFor returns the catalog for a locale, matching case-insensitively. Unknown locales get English.
func CatalogFor(locale string) Catalog {
	for name, catalog := range catalogs {
		if strings.EqualFold(name, strings.TrimSpace(locale)) {
			return catalog
		}
	}
	return catalogs[LocaleEnglish]
}

// SupportedLocale reports whether a catalog exists for the locale.
func SupportedLocale(locale string) bool {
	for name := range catalogs {
		if strings.EqualFold(name, strings.TrimSpace(locale)) {
			return true
		}
	}
	return false
}

// Message returns the copy for a kind, falling back to the raw kind name.
func (c Catalog) Message(kind cartports.NotificationKind) string {
	if msg, ok := c[kind]; ok {
		return msg
	}
	return string(kind)
}
