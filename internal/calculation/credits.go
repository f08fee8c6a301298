package calculation

// MethodologyKey identifies one of the four land-use credit methodologies.
type MethodologyKey string

const (
	MethodologyPasture     MethodologyKey = "pastagem"
	MethodologyForest      MethodologyKey = "florestal"
	MethodologyCropRenewal MethodologyKey = "renovacao"
	MethodologyIntegrated  MethodologyKey = "integracao"
)

// Methodology describes a credit methodology and its sequestration factor.
type Methodology struct {
	Key      MethodologyKey `json:"key"`
	Code     string         `json:"code"`
	Label    string         `json:"label"`
	Activity string         `json:"activity"`
	Factor   float64        `json:"factor"`
}

var methodologies = [...]Methodology{
	{
		Key:      MethodologyPasture,
		Code:     "VCS VM0032",
		Label:    "VCS VM0032 - Degraded pasture recovery",
		Activity: "Pasture recovery",
		Factor:   PastureRecoveryFactor,
	},
	{
		Key:      MethodologyForest,
		Code:     "AR-ACM0003",
		Label:    "AR-ACM0003 - Afforestation and reforestation",
		Activity: "Afforestation",
		Factor:   AfforestationFactor,
	},
	{
		Key:      MethodologyCropRenewal,
		Code:     "CDM AMS-III.AU",
		Label:    "CDM AMS-III.AU - Low-carbon agricultural practices",
		Activity: "Crop renewal",
		Factor:   LowCarbonCroppingFactor,
	},
	{
		Key:      MethodologyIntegrated,
		Code:     "VCS VM0017",
		Label:    "VCS VM0017 - Integrated crop-livestock systems",
		Activity: "Crop-livestock integration",
		Factor:   IntegratedSystemFactor,
	},
}

// Methodologies returns the methodology table in its fixed order.
func Methodologies() []Methodology {
	out := make([]Methodology, len(methodologies))
	copy(out, methodologies[:])
	return out
}

// LookupMethodology finds a methodology by key.
func LookupMethodology(key MethodologyKey) (Methodology, bool) {
	for _, m := range methodologies {
		if m.Key == key {
			return m, true
		}
	}
	return Methodology{}, false
}

// CreditInput holds the area in hectares dedicated to each methodology.
type CreditInput struct {
	PastureAreaHa                 float64 `json:"pasture_area_ha"`
	ForestAreaHa                  float64 `json:"forest_area_ha"`
	CropRenewalAreaHa             float64 `json:"crop_renewal_area_ha"`
	IntegratedCropLivestockAreaHa float64 `json:"integrated_area_ha"`
}

// AreaFor returns the area assigned to a methodology.
func (in CreditInput) AreaFor(key MethodologyKey) float64 {
	switch key {
	case MethodologyPasture:
		return nonNegative(in.PastureAreaHa)
	case MethodologyForest:
		return nonNegative(in.ForestAreaHa)
	case MethodologyCropRenewal:
		return nonNegative(in.CropRenewalAreaHa)
	case MethodologyIntegrated:
		return nonNegative(in.IntegratedCropLivestockAreaHa)
	default:
		return 0
	}
}

// TotalArea sums the four areas.
func (in CreditInput) TotalArea() float64 {
	total := 0.0
	for _, m := range methodologies {
		total += in.AreaFor(m.Key)
	}
	return total
}

// HasArea reports whether at least one area is greater than zero.
func (in CreditInput) HasArea() bool {
	for _, m := range methodologies {
		if in.AreaFor(m.Key) > 0 {
			return true
		}
	}
	return false
}

// CreditMethodologyResult is the credit yield of a single active methodology.
type CreditMethodologyResult struct {
	Area    float64 `json:"area"`
	Factor  float64 `json:"factor"`
	Credits float64 `json:"credits"`
	Label   string  `json:"methodology"`
}

// CreditResult is the credit potential in tCO2e/year. Methodologies only
// lists methodologies with a positive area.
type CreditResult struct {
	Total         float64                                    `json:"total_credits"`
	Methodologies map[MethodologyKey]CreditMethodologyResult `json:"methodologies"`
}

// ActiveMethodology pairs a methodology key with its result.
type ActiveMethodology struct {
	Key MethodologyKey `json:"key"`
	CreditMethodologyResult
}

// Active returns the active methodologies in table order.
func (r CreditResult) Active() []ActiveMethodology {
	out := make([]ActiveMethodology, 0, len(r.Methodologies))
	for _, m := range methodologies {
		if res, ok := r.Methodologies[m.Key]; ok {
			out = append(out, ActiveMethodology{Key: m.Key, CreditMethodologyResult: res})
		}
	}
	return out
}

// CreditsFor returns the credits of a methodology, zero when inactive.
func (r CreditResult) CreditsFor(key MethodologyKey) float64 {
	return r.Methodologies[key].Credits
}

// ComputeCredits multiplies each area by its methodology factor. The total
// covers all four methodologies. An all-zero input yields a zero total and an
// empty map.
func ComputeCredits(in CreditInput) CreditResult {
	res := CreditResult{
		Methodologies: make(map[MethodologyKey]CreditMethodologyResult, len(methodologies)),
	}

	for _, m := range methodologies {
		area := in.AreaFor(m.Key)
		credits := area * m.Factor
		res.Total += credits

		if area > 0 {
			res.Methodologies[m.Key] = CreditMethodologyResult{
				Area:    area,
				Factor:  m.Factor,
				Credits: credits,
				Label:   m.Label,
			}
		}
	}

	return res
}

// EstimateValue prices a credit total. A non-positive price falls back to
// DefaultCreditPrice.
func EstimateValue(totalCredits, pricePerTonne float64) float64 {
	if pricePerTonne <= 0 {
		pricePerTonne = DefaultCreditPrice
	}
	return nonNegative(totalCredits) * pricePerTonne
}
