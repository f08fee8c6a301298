package calculation

// ImpactMetric is one real-world equivalent of a CO2e quantity.
type ImpactMetric struct {
	Key       string  `json:"key"`
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
	Precision int     `json:"precision"`
}

// ImpactCategory groups three metrics under a display heading.
type ImpactCategory struct {
	Key      string         `json:"key"`
	Icon     string         `json:"icon"`
	Title    string         `json:"title"`
	ColorTag string         `json:"color"`
	Impacts  []ImpactMetric `json:"impacts"`
}

// equivalence converts tonnes of CO2e into a metric. Divisive factors are
// kept as divisors so values match the published per-unit figures exactly.
type equivalence struct {
	key       string
	name      string
	unit      string
	factor    float64
	divide    bool
	precision int
}

func (e equivalence) apply(tonnes float64) float64 {
	if e.divide {
		return tonnes / e.factor
	}
	return tonnes * e.factor
}

type impactCategory struct {
	key, icon, title, color string
	metrics                 [3]equivalence
}

var impactTable = [...]impactCategory{
	{
		key: "transport", icon: "bi-car-front", title: "Transport", color: "primary",
		metrics: [3]equivalence{
			{key: "cars_off_road", name: "Cars off the road for 1 year", unit: "cars", factor: 4.6, divide: true, precision: 1},
			{key: "km_not_driven", name: "Kilometers not driven", unit: "km", factor: 3863, precision: 0},
			{key: "flights_avoided", name: "Sao Paulo-Rio flights avoided", unit: "flights", factor: 0.6, divide: true, precision: 1},
		},
	},
	{
		key: "energy", icon: "bi-lightbulb", title: "Energy", color: "warning",
		metrics: [3]equivalence{
			{key: "homes_powered", name: "Homes powered for 1 year", unit: "homes", factor: 1.5, divide: true, precision: 1},
			{key: "phone_charges", name: "Smartphone charges", unit: "charges", factor: 183000, precision: 0},
			{key: "led_bulbs", name: "LED bulbs replacing incandescents", unit: "bulbs", factor: 35, precision: 0},
		},
	},
	{
		key: "nature", icon: "bi-tree", title: "Nature", color: "success",
		metrics: [3]equivalence{
			{key: "trees_10_years", name: "Trees growing for 10 years", unit: "trees", factor: 15, precision: 0},
			{key: "forest_hectares", name: "Hectares of preserved forest", unit: "hectares", factor: 6, divide: true, precision: 2},
			{key: "vegetation_area", name: "Preserved vegetation area", unit: "m²", factor: 250, precision: 0},
		},
	},
	{
		key: "consumption", icon: "bi-cart", title: "Consumption", color: "info",
		metrics: [3]equivalence{
			{key: "vegetarian_meals", name: "Vegetarian meals instead of meat", unit: "meals", factor: 600, precision: 0},
			{key: "plastic_bottles", name: "Plastic bottles avoided", unit: "bottles", factor: 8500, precision: 0},
			{key: "tshirts", name: "Cotton t-shirts not produced", unit: "t-shirts", factor: 30, precision: 0},
		},
	},
}

// TranslateImpact expresses a quantity of tCO2e as four categories of
// everyday equivalents. Values are not rounded; Precision is a display hint.
// Negative totals are treated as zero.
func TranslateImpact(totalCo2eTonnes float64) []ImpactCategory {
	total := nonNegative(totalCo2eTonnes)

	out := make([]ImpactCategory, 0, len(impactTable))
	for _, c := range impactTable {
		cat := ImpactCategory{
			Key:      c.key,
			Icon:     c.icon,
			Title:    c.title,
			ColorTag: c.color,
			Impacts:  make([]ImpactMetric, 0, len(c.metrics)),
		}
		for _, m := range c.metrics {
			cat.Impacts = append(cat.Impacts, ImpactMetric{
				Key:       m.key,
				Name:      m.name,
				Value:     m.apply(total),
				Unit:      m.unit,
				Precision: m.precision,
			})
		}
		out = append(out, cat)
	}
	return out
}
