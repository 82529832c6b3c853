package forecast

import (
	"fmt"

	"github.com/nvandessel/futuresim/internal/dynamics"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// schemaName identifies the structured response format.
const schemaName = "forecast"

// Prompt renders the forecasting instructions for req. Levers missing from
// the request render as None.
func Prompt(req Request) string {
	return fmt.Sprintf(`You are a forecasting assistant. Given the policy levers below, generate annual projections for the next %d years (starting at %d) for these metrics:
- gini (0-1)
- civic_trust (0-1)
- annual_emissions (gigatons CO2e)
- resilience_score (0-1)
- ai_influence (0-1)

Policy levers:
- civic_dividend_rate = %s
- ai_charter = %s
- climate_capex_share = %s

Keep values in realistic ranges (gini 0.2-0.6, emissions 5-40 Gt, civic_trust/resilience/ai influence 0-1).
Return only valid JSON matching the schema.`,
		req.Horizon, req.StartYear,
		leverText(req.Levers, dynamics.LeverCivicDividendRate),
		leverText(req.Levers, dynamics.LeverAICharter),
		leverText(req.Levers, dynamics.LeverClimateCapexShare))
}

func leverText(levers map[string]any, name string) string {
	v, ok := levers[name]
	if !ok || v == nil {
		return "None"
	}
	return fmt.Sprint(v)
}

// Schema returns the strict response schema.
func Schema() jsonschema.Definition {
	number := jsonschema.Definition{Type: jsonschema.Number}
	entry := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"year":             {Type: jsonschema.Integer},
			"gini":             number,
			"civic_trust":      number,
			"annual_emissions": number,
			"resilience_score": number,
			"ai_influence":     number,
		},
		Required:             []string{"year", "gini", "civic_trust", "annual_emissions", "resilience_score", "ai_influence"},
		AdditionalProperties: false,
	}
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"start_year": {Type: jsonschema.Integer},
			"data":       {Type: jsonschema.Array, Items: &entry},
		},
		Required:             []string{"start_year", "data"},
		AdditionalProperties: false,
	}
}
