package models

// Requests for prediction HTTP endpoints. Defined in domain for consistency and reuse.

type PredictRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required,min=1,max=12"`
	Days   int    `query:"days" json:"days" default:"120" validate:"gte=60,lte=2000"`
}

type HistoricalRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required,min=1,max=12"`
	Days   int    `query:"days" json:"days" default:"365" validate:"gte=1,lte=5000"`
}

type ModelInfoRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required,min=1,max=12"`
}
