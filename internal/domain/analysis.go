package domain

// The analysis engine is an external collaborator. These types mirror
// its wire format; this service stores and aggregates them but never
// computes a score itself.

type AnalysisType string

const (
	AnalysisTypeProductSearch AnalysisType = "product_search"
	AnalysisTypeBarcodeScan   AnalysisType = "barcode_scan"
	AnalysisTypeURLAnalysis   AnalysisType = "url_analysis"
	AnalysisTypeComparison    AnalysisType = "comparison"
)

func (t AnalysisType) IsValid() bool {
	switch t {
	case AnalysisTypeProductSearch, AnalysisTypeBarcodeScan, AnalysisTypeURLAnalysis:
		return true
	}
	return false
}

// ImpactFactor is one weighted component of an eco score.
type ImpactFactor struct {
	Name        string  `json:"name"`
	Score       int     `json:"score"`
	Description string  `json:"description,omitempty"`
	Weight      float64 `json:"weight"`
}

type ProductInfo struct {
	Name           string   `json:"name"`
	Brand          string   `json:"brand,omitempty"`
	Category       string   `json:"category,omitempty"`
	Description    string   `json:"description,omitempty"`
	Materials      []string `json:"materials,omitempty"`
	OriginCountry  string   `json:"origin_country,omitempty"`
	Packaging      string   `json:"packaging,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
}

// ProductAnalysis is the structured result returned by the analysis
// engine. EcoScore is 1-100, ConfidenceLevel 0-1.
type ProductAnalysis struct {
	ProductInfo     ProductInfo    `json:"product_info"`
	ImpactFactors   []ImpactFactor `json:"impact_factors"`
	EcoScore        int            `json:"eco_score"`
	ConfidenceLevel float64        `json:"confidence_level"`
	AnalysisSummary string         `json:"analysis_summary,omitempty"`
	Recommendations []string       `json:"recommendations,omitempty"`
	DataSources     []string       `json:"data_sources,omitempty"`
}
