package calculation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeCredits_PastureOnly(t *testing.T) {
	res := ComputeCredits(CreditInput{PastureAreaHa: 100})

	assert.Equal(t, 50.0, res.Total)
	require.Len(t, res.Methodologies, 1)

	pasture, ok := res.Methodologies[MethodologyPasture]
	require.True(t, ok)
	assert.Equal(t, 50.0, pasture.Credits)
	assert.Equal(t, 0.5, pasture.Factor)
	assert.Equal(t, 100.0, pasture.Area)
	assert.Contains(t, pasture.Label, "VCS VM0032")
}

func TestComputeCredits_PastureAndForest(t *testing.T) {
	res := ComputeCredits(CreditInput{PastureAreaHa: 100, ForestAreaHa: 50})

	// 100 x 0.5 + 50 x 8.0
	assert.Equal(t, 450.0, res.Total)
	assert.Len(t, res.Methodologies, 2)
	assert.Equal(t, 400.0, res.CreditsFor(MethodologyForest))
	assert.Equal(t, 0.0, res.CreditsFor(MethodologyIntegrated))
}

func TestComputeCredits_AllZero(t *testing.T) {
	res := ComputeCredits(CreditInput{})

	assert.Equal(t, 0.0, res.Total)
	assert.NotNil(t, res.Methodologies)
	assert.Empty(t, res.Methodologies)
	assert.Empty(t, res.Active())
}

func TestComputeCredits_AllMethodologies(t *testing.T) {
	res := ComputeCredits(CreditInput{
		PastureAreaHa:                 10,
		ForestAreaHa:                  10,
		CropRenewalAreaHa:             10,
		IntegratedCropLivestockAreaHa: 10,
	})

	assert.InDelta(t, 127.0, res.Total, 1e-9)

	active := res.Active()
	require.Len(t, active, 4)
	assert.Equal(t, MethodologyPasture, active[0].Key)
	assert.Equal(t, MethodologyForest, active[1].Key)
	assert.Equal(t, MethodologyCropRenewal, active[2].Key)
	assert.Equal(t, MethodologyIntegrated, active[3].Key)
	assert.Contains(t, active[2].Label, "CDM AMS-III.AU")
	assert.Contains(t, active[3].Label, "VCS VM0017")
}

func TestComputeCredits_NegativeAreaIsInactive(t *testing.T) {
	res := ComputeCredits(CreditInput{PastureAreaHa: -40, CropRenewalAreaHa: 5})

	assert.InDelta(t, 6.0, res.Total, 1e-9)
	assert.Len(t, res.Methodologies, 1)
	_, ok := res.Methodologies[MethodologyPasture]
	assert.False(t, ok)
}

func TestCreditResult_JSONRoundTrip(t *testing.T) {
	original := ComputeCredits(CreditInput{
		PastureAreaHa:                 33.3,
		ForestAreaHa:                  0.1,
		CropRenewalAreaHa:             17.77,
		IntegratedCropLivestockAreaHa: 1e-7,
	})

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded CreditResult
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, original.Total, decoded.Total)
	require.Len(t, decoded.Methodologies, len(original.Methodologies))
	for key, m := range original.Methodologies {
		assert.Equal(t, m.Credits, decoded.Methodologies[key].Credits, string(key))
	}
}

func TestCreditInput_HasArea(t *testing.T) {
	assert.False(t, CreditInput{}.HasArea())
	assert.False(t, CreditInput{ForestAreaHa: -1}.HasArea())
	assert.True(t, CreditInput{IntegratedCropLivestockAreaHa: 0.01}.HasArea())
	assert.Equal(t, 30.0, CreditInput{PastureAreaHa: 10, ForestAreaHa: 20, CropRenewalAreaHa: -5}.TotalArea())
}

func TestMethodologies(t *testing.T) {
	table := Methodologies()
	require.Len(t, table, 4)

	table[0].Factor = 99
	m, ok := LookupMethodology(MethodologyPasture)
	require.True(t, ok)
	assert.Equal(t, 0.5, m.Factor, "returned table must be a copy")

	_, ok = LookupMethodology("unknown")
	assert.False(t, ok)
}

func TestEstimateValue(t *testing.T) {
	assert.Equal(t, 2500.0, EstimateValue(50, DefaultCreditPrice))
	assert.Equal(t, 2500.0, EstimateValue(50, 0))
	assert.Equal(t, 3000.0, EstimateValue(50, 60))
	assert.Equal(t, 0.0, EstimateValue(-5, 50))
}
