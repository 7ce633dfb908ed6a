package marketdata

import "context"

// StockBar is one daily/weekly/monthly bar of an A-share stock or index.
// Field tags mirror the gateway's column names.
type StockBar struct {
	Date         string  `json:"日期"`
	Open         float64 `json:"开盘"`
	Close        float64 `json:"收盘"`
	High         float64 `json:"最高"`
	Low          float64 `json:"最低"`
	Volume       float64 `json:"成交量"`
	Turnover     float64 `json:"成交额"`
	Amplitude    float64 `json:"振幅"`
	ChangePct    float64 `json:"涨跌幅"`
	Change       float64 `json:"涨跌额"`
	TurnoverRate float64 `json:"换手率"`
}

// SpotQuote is one realtime quote row for a stock or ETF.
type SpotQuote struct {
	Code      string  `json:"代码"`
	Name      string  `json:"名称"`
	Latest    float64 `json:"最新价"`
	ChangePct float64 `json:"涨跌幅"`
	Change    float64 `json:"涨跌额"`
	Volume    float64 `json:"成交量"`
	Turnover  float64 `json:"成交额"`
	High      float64 `json:"最高"`
	Low       float64 `json:"最低"`
	Open      float64 `json:"今开"`
	PrevClose float64 `json:"昨收"`
}

// GDPRow is one yearly GDP reading.
type GDPRow struct {
	Date     string  `json:"日期"`
	Current  float64 `json:"今值"`
	Forecast float64 `json:"预测值"`
	Previous float64 `json:"前值"`
}

// StockHistoryQuery selects the history window for one stock.
type StockHistoryQuery struct {
	Symbol    string
	Period    string // daily, weekly, monthly
	StartDate string // YYYYMMDD
	EndDate   string // YYYYMMDD
	Adjust    string // "", qfq, hfq
}

// StockHistory fetches historical bars for one A-share stock.
func (c *Client) StockHistory(ctx context.Context, q StockHistoryQuery) ([]StockBar, error) {
	if q.Period == "" {
		q.Period = "daily"
	}

	params := map[string]string{
		"symbol": q.Symbol,
		"period": q.Period,
		"adjust": q.Adjust,
	}
	if q.StartDate != "" {
		params["start_date"] = q.StartDate
	}
	if q.EndDate != "" {
		params["end_date"] = q.EndDate
	}

	var bars []StockBar
	if err := c.fetch(ctx, "stock_zh_a_hist", params, &bars); err != nil {
		return nil, err
	}
	return bars, nil
}

// StockSpot fetches realtime quotes for all A-share stocks.
func (c *Client) StockSpot(ctx context.Context) ([]SpotQuote, error) {
	var quotes []SpotQuote
	if err := c.fetch(ctx, "stock_zh_a_spot_em", nil, &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}

// ETFSpot fetches realtime quotes for all listed ETF funds.
func (c *Client) ETFSpot(ctx context.Context) ([]SpotQuote, error) {
	var quotes []SpotQuote
	if err := c.fetch(ctx, "fund_etf_spot_em", nil, &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}

// IndexHistoryQuery selects the history window for one index.
type IndexHistoryQuery struct {
	Symbol    string
	StartDate string // YYYYMMDD
	EndDate   string // YYYYMMDD
}

// IndexHistory fetches historical bars for one A-share index.
func (c *Client) IndexHistory(ctx context.Context, q IndexHistoryQuery) ([]StockBar, error) {
	params := map[string]string{
		"symbol": q.Symbol,
	}
	if q.StartDate != "" {
		params["start_date"] = q.StartDate
	}
	if q.EndDate != "" {
		params["end_date"] = q.EndDate
	}

	var bars []StockBar
	if err := c.fetch(ctx, "index_zh_a_hist", params, &bars); err != nil {
		return nil, err
	}
	return bars, nil
}

// MacroGDP fetches yearly GDP readings for China.
func (c *Client) MacroGDP(ctx context.Context) ([]GDPRow, error) {
	var rows []GDPRow
	if err := c.fetch(ctx, "macro_china_gdp_yearly", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
