package inventory

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"
)

var (
	manufacturers = map[string][]string{
		"CPU":         {"AMD", "Intel"},
		"GPU":         {"NVIDIA", "AMD", "Intel"},
		"Motherboard": {"ASUS", "MSI", "Gigabyte", "ASRock"},
		"RAM":         {"Corsair", "G.Skill", "Kingston", "Crucial"},
		"Storage":     {"Samsung", "WD", "Crucial", "Seagate"},
		"PSU":         {"Seasonic", "Corsair", "be quiet!"},
		"Case":        {"Fractal Design", "Lian Li", "NZXT"},
		"Cooling":     {"Noctua", "Arctic", "be quiet!"},
	}
	models = map[string][]string{
		"CPU":         {"Ryzen 5 7600", "Ryzen 7 7800X3D", "Core i5-14600K", "Core i9-14900K"},
		"GPU":         {"RTX 4070", "RTX 4090", "RX 7800 XT", "Arc A770"},
		"Motherboard": {"B650 Tomahawk", "X670E Hero", "Z790 Aorus", "B760M Pro"},
		"RAM":         {"DDR5-6000 32GB", "DDR5-5600 16GB", "DDR4-3600 32GB"},
		"Storage":     {"990 Pro 2TB", "SN850X 1TB", "BarraCuda 4TB", "P5 Plus 1TB"},
		"PSU":         {"Focus GX-750", "RM850x", "Pure Power 12 M"},
		"Case":        {"North", "O11 Dynamic", "H5 Flow"},
		"Cooling":     {"NH-D15", "Liquid Freezer III 360", "Dark Rock Pro 5"},
	}
	priceRange = map[string][2]float64{
		"CPU":         {180, 650},
		"GPU":         {280, 1800},
		"Motherboard": {120, 500},
		"RAM":         {50, 180},
		"Storage":     {45, 250},
		"PSU":         {70, 220},
		"Case":        {70, 200},
		"Cooling":     {30, 150},
	}
	suppliers = []Supplier{
		{Name: "Alternate", Country: "DE"},
		{Name: "Newegg", Country: "US"},
		{Name: "Scan", Country: "GB"},
		{Name: "LDLC", Country: "FR"},
		{Name: "Micro Center", Country: "US"},
	}
)

// sampleEpoch anchors AddedAt so samples do not depend on the clock.
var sampleEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// SampleParts generates n parts. The same seed always yields the same
// parts. Roughly one part in ten has an unknown stock count and one in
// eight has no supplier.
func SampleParts(n int, seed uint64) []Part {
	if n < 0 {
		n = 0
	}
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	parts := make([]Part, n)
	for i := range parts {
		category := Categories[r.IntN(len(Categories))]
		makers := manufacturers[category]
		names := models[category]
		bounds := priceRange[category]
		price := bounds[0] + r.Float64()*(bounds[1]-bounds[0])

		p := Part{
			ID:           fmt.Sprintf("part-%05d", i+1),
			SKU:          fmt.Sprintf("%s-%04d", skuPrefix(category), r.IntN(10000)),
			Name:         names[r.IntN(len(names))],
			Category:     category,
			Manufacturer: makers[r.IntN(len(makers))],
			Price:        math.Round(price*100) / 100,
			ReorderLevel: 2 + r.IntN(8),
			AddedAt:      sampleEpoch.Add(time.Duration(r.IntN(365*24)) * time.Hour),
		}
		if r.IntN(10) != 0 {
			p.Stock = IntPtr(r.IntN(60))
		}
		if r.IntN(8) != 0 {
			s := suppliers[r.IntN(len(suppliers))]
			p.Supplier = &s
		}
		if r.IntN(5) == 0 {
			p.Notes = "discontinued by manufacturer"
		}
		parts[i] = p
	}
	return parts
}

func skuPrefix(category string) string {
	if len(category) < 3 {
		return category
	}
	return strings.ToUpper(category[:3])
}
