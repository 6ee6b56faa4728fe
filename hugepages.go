package mmap

import "github.com/arcflow/mmap/diag"

// Huge-page tiers. Requesting huge pages never fails: tier 1 is an
// explicit huge-page mapping with population, tier 2 a standard mapping
// carrying a transparent-huge-page hint, tier 3 plain pages.
const (
	hugeTierExplicit    = 1
	hugeTierTransparent = 2
	hugeTierNone        = 3
)

func logHugePageTier(log *diag.Logger, path string, tier int) {
	switch tier {
	case hugeTierExplicit:
		log.Info("huge pages mapped explicitly", diag.Path(path))
	case hugeTierTransparent:
		log.Info("huge pages advised transparently", diag.Path(path))
	default:
		log.Debug("huge pages unavailable, using normal pages", diag.Path(path))
	}
}
