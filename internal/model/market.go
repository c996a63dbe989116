package model

// PriceQuote is the latest traded price of a symbol
type PriceQuote struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

// SymbolInfo describes a tradable pair from exchangeInfo
type SymbolInfo struct {
	Symbol       string `json:"symbol"`
	Status       string `json:"status"`
	BaseAsset    string `json:"baseAsset"`
	QuoteAsset   string `json:"quoteAsset"`
	ContractType string `json:"contractType,omitempty"` // futures only, e.g. PERPETUAL
}

// ExchangeInfoResponse represents the exchangeInfo payload (spot and futures)
type ExchangeInfoResponse struct {
	Timezone   string       `json:"timezone"`
	ServerTime int64        `json:"serverTime"`
	Symbols    []SymbolInfo `json:"symbols"`
}

// TickerPriceResponse represents the ticker/price payload
type TickerPriceResponse struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price,string"`
	Time   int64   `json:"time,omitempty"`
}
