package analysis

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/willbrigham/escrow-calculator/internal/domain"
)

func TestAllowedCushion(t *testing.T) {
	annual := decimal.NewFromInt(1200)

	cases := []struct {
		name   string
		policy domain.PolicyConfig
		state  string
		want   string
	}{
		{
			name:   "legal fraction binds over a generous cap",
			policy: domain.PolicyConfig{CushionCap: decimal.NewFromInt(500), LegalCushionDivisor: 6},
			want:   "200",
		},
		{
			name:   "servicer cap binds when tighter",
			policy: domain.PolicyConfig{CushionCap: decimal.NewFromInt(150), LegalCushionDivisor: 6},
			want:   "150",
		},
		{
			name:   "zero cap takes the full legal cushion",
			policy: domain.PolicyConfig{LegalCushionDivisor: 6},
			want:   "200",
		},
		{
			name: "state maximum binds below both",
			policy: domain.PolicyConfig{
				CushionCap:          decimal.NewFromInt(500),
				LegalCushionDivisor: 6,
				States: map[string]domain.StatePolicy{
					"CA": {CushionMax: decimal.NewFromInt(100)},
				},
			},
			state: "CA",
			want:  "100",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := AllowedCushion(&tc.policy, tc.state, annual)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestAllowedCushionNeverExceedsLegalFraction(t *testing.T) {
	// Property from the cushion cap rule: C <= A/6 no matter the policy.
	policy := domain.PolicyConfig{CushionCap: decimal.NewFromInt(1000000), LegalCushionDivisor: 6}
	for _, annual := range []int64{0, 120, 1200, 987654} {
		a := decimal.NewFromInt(annual)
		c := AllowedCushion(&policy, "", a)
		assert.True(t, c.LessThanOrEqual(a.Div(decimal.NewFromInt(6)).Round(2)),
			"cushion %s exceeds A/6 for A=%s", c, a)
	}
}

func TestClassify(t *testing.T) {
	policy := domain.DefaultPolicy() // deficiency tolerance 100
	cushion := decimal.NewFromInt(200)

	cases := []struct {
		name           string
		minBalance     string
		wantClass      domain.Classification
		wantMagnitude  string
		wantDeficiency bool
	}{
		{"deep breach is a deficiency", "-301", domain.ClassificationShortage, "501", true},
		{"breach inside tolerance", "-250", domain.ClassificationShortage, "450", false},
		{"just below the floor", "-200.01", domain.ClassificationShortage, "400.01", false},
		{"at the floor is balanced", "-200", domain.ClassificationBalanced, "0", false},
		{"inside the cushion band", "0", domain.ClassificationBalanced, "0", false},
		{"at the cushion is balanced", "200", domain.ClassificationBalanced, "0", false},
		{"above the cushion is surplus", "450", domain.ClassificationSurplus, "250", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pos := Classify(decimal.RequireFromString(tc.minBalance), cushion, &policy)
			assert.Equal(t, tc.wantClass, pos.Classification)
			assert.Equal(t, tc.wantMagnitude, pos.Magnitude.String())
			assert.Equal(t, tc.wantDeficiency, pos.Deficiency)
		})
	}
}
