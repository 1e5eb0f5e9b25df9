// AngelaMos | 2026
// packages.go

package billing

type Package struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Credits    int    `json:"credits"`
	PriceCents int64  `json:"price_cents"`
}

var DefaultPackages = []Package{
	{ID: "starter", Name: "Starter", Credits: 25, PriceCents: 500},
	{ID: "growth", Name: "Growth", Credits: 100, PriceCents: 1500},
	{ID: "studio", Name: "Studio", Credits: 300, PriceCents: 3500},
}

func PackageByID(id string) (Package, bool) {
	for _, pkg := range DefaultPackages {
		if pkg.ID == id {
			return pkg, true
		}
	}
	return Package{}, false
}
