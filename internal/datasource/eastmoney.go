package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iasiv5/a-share-analyst/internal/ratelimit"
	"github.com/iasiv5/a-share-analyst/pkg/model"
)

const (
	emQuoteHost   = "https://push2.eastmoney.com"
	emHistoryHost = "https://push2his.eastmoney.com"
	emPoolHost    = "https://push2ex.eastmoney.com"

	emUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// spot table filter covering SH/SZ/BJ common stock
	emAllAShares = "m:0+t:6,m:0+t:80,m:1+t:2,m:1+t:23,m:0+t:81+s:2048"

	emSpotFields  = "f2,f3,f4,f5,f6,f7,f8,f9,f10,f12,f14,f15,f16,f17,f18,f20,f21,f23"
	emBoardFields = "f2,f3,f8,f12,f14,f62,f104,f105,f128,f136"
	emIndexFields = "f2,f3,f4,f5,f6,f12,f14"
)

// benchmark indices shown in the market overview
var emIndexSecIDs = "1.000001,0.399001,0.399006,1.000688,1.000300,1.000905"

// EastMoney implements Source against the public push2 quote API, the
// same backend the original AKShare-based tooling scraped.
type EastMoney struct {
	client  *http.Client
	limiter *ratelimit.Limiter
}

// NewEastMoney creates an EastMoney source limited to rateLimitPerMin
// requests per minute; values below 1 fall back to a conservative 120.
func NewEastMoney(rateLimitPerMin int) *EastMoney {
	if rateLimitPerMin < 1 {
		rateLimitPerMin = 120
	}
	return &EastMoney{
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: ratelimit.NewLimiter("eastmoney", rateLimitPerMin),
	}
}

// Name returns the source name
func (s *EastMoney) Name() string {
	return "eastmoney"
}

// secID maps a 6-digit code to the push2 market-prefixed id:
// 1 for Shanghai, 0 for Shenzhen and Beijing.
func secID(code string) string {
	if strings.HasPrefix(code, "6") || strings.HasPrefix(code, "9") {
		return "1." + code
	}
	return "0." + code
}

// emValue decodes push2 numeric fields, which arrive as numbers,
// quoted numbers, or "-" for suspended/absent values (decoded as NaN).
type emValue float64

func (v *emValue) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "-" || s == "" || s == "null" {
		*v = emValue(math.NaN())
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parsing %q: %w", s, err)
	}
	*v = emValue(f)
	return nil
}

func (v emValue) float() float64 { return float64(v) }

// lots converts a 手 count to shares; NaN (suspended) becomes zero.
func (v emValue) lots() int64 {
	if math.IsNaN(float64(v)) {
		return 0
	}
	return int64(float64(v)) * 100
}

func (s *EastMoney) get(ctx context.Context, rawURL string, out any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", emUserAgent)
	req.Header.Set("Referer", "https://quote.eastmoney.com/")

	resp, err := s.client.Do(req)
	if err != nil {
		return &SourceError{Source: s.Name(), Err: err, Retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		s.limiter.SignalRateLimited()
		return &SourceError{Source: s.Name(), Err: fmt.Errorf("rate limited"), Retryable: true}
	}
	if resp.StatusCode != http.StatusOK {
		return &SourceError{
			Source:    s.Name(),
			Err:       fmt.Errorf("status %d", resp.StatusCode),
			Retryable: resp.StatusCode >= 500,
		}
	}
	s.limiter.ResetBackoff()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

type emKlineResponse struct {
	Data *struct {
		Code   string   `json:"code"`
		Name   string   `json:"name"`
		Klines []string `json:"klines"`
	} `json:"data"`
}

// DailyBars fetches forward-adjusted daily klines. The calendar window
// is padded for weekends and holidays, then trimmed to days bars.
func (s *EastMoney) DailyBars(ctx context.Context, code string, days int) (model.Series, error) {
	beg := time.Now().AddDate(0, 0, -days*2).Format("20060102")
	u := fmt.Sprintf("%s/api/qt/stock/kline/get?secid=%s&klt=101&fqt=1&beg=%s&end=20500101&fields1=f1,f2,f3,f4,f5,f6&fields2=f51,f52,f53,f54,f55,f56,f57,f58,f59,f60,f61",
		emHistoryHost, secID(code), beg)

	var data emKlineResponse
	if err := s.get(ctx, u, &data); err != nil {
		return nil, err
	}
	if data.Data == nil || len(data.Data.Klines) == 0 {
		return nil, &SourceError{Source: s.Name(), Err: fmt.Errorf("%w: %s", ErrNotFound, code)}
	}

	bars, err := parseKlines(data.Data.Klines)
	if err != nil {
		return nil, fmt.Errorf("parsing klines for %s: %w", code, err)
	}
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

// parseKlines decodes the CSV kline rows:
// date,open,close,high,low,volume(手),amount,amplitude,chgPct,chg,turnover
func parseKlines(klines []string) (model.Series, error) {
	bars := make(model.Series, 0, len(klines))
	for _, line := range klines {
		parts := strings.Split(line, ",")
		if len(parts) < 6 {
			return nil, fmt.Errorf("short kline row %q", line)
		}
		day, err := time.Parse("2006-01-02", parts[0])
		if err != nil {
			return nil, fmt.Errorf("bad kline date %q: %w", parts[0], err)
		}
		open, err1 := strconv.ParseFloat(parts[1], 64)
		closePx, err2 := strconv.ParseFloat(parts[2], 64)
		high, err3 := strconv.ParseFloat(parts[3], 64)
		low, err4 := strconv.ParseFloat(parts[4], 64)
		lots, err5 := strconv.ParseFloat(parts[5], 64)
		for _, err := range []error{err1, err2, err3, err4, err5} {
			if err != nil {
				return nil, fmt.Errorf("bad kline row %q: %w", line, err)
			}
		}
		bars = append(bars, model.Bar{
			Time:   day,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePx,
			Volume: int64(lots) * 100,
		})
	}
	return bars, nil
}

type emSpotRow struct {
	Code      string  `json:"f12"`
	Name      string  `json:"f14"`
	Price     emValue `json:"f2"`
	ChangePct emValue `json:"f3"`
	Change    emValue `json:"f4"`
	Volume    emValue `json:"f5"`
	Amount    emValue `json:"f6"`
	Amplitude emValue `json:"f7"`
	Turnover  emValue `json:"f8"`
	PE        emValue `json:"f9"`
	VolRatio  emValue `json:"f10"`
	High      emValue `json:"f15"`
	Low       emValue `json:"f16"`
	Open      emValue `json:"f17"`
	PrevClose emValue `json:"f18"`
	TotalCap  emValue `json:"f20"`
	FloatCap  emValue `json:"f21"`
	PB        emValue `json:"f23"`
}

func (r emSpotRow) toQuote() model.Quote {
	return model.Quote{
		Code:         r.Code,
		Name:         r.Name,
		Price:        r.Price.float(),
		ChangePct:    r.ChangePct.float(),
		Change:       r.Change.float(),
		Volume:       r.Volume.lots(),
		Amount:       r.Amount.float(),
		Amplitude:    r.Amplitude.float(),
		High:         r.High.float(),
		Low:          r.Low.float(),
		Open:         r.Open.float(),
		PrevClose:    r.PrevClose.float(),
		VolumeRatio:  r.VolRatio.float(),
		TurnoverRate: r.Turnover.float(),
		PERatio:      r.PE.float(),
		PBRatio:      r.PB.float(),
		TotalCap:     r.TotalCap.float(),
		FloatCap:     r.FloatCap.float(),
	}
}

type emListResponse struct {
	Data *struct {
		Total int         `json:"total"`
		Diff  []emSpotRow `json:"diff"`
	} `json:"data"`
}

func (s *EastMoney) list(ctx context.Context, fs string) ([]model.Quote, error) {
	q := url.Values{}
	q.Set("pn", "1")
	q.Set("pz", "10000")
	q.Set("po", "1")
	q.Set("np", "1")
	q.Set("fltt", "2")
	q.Set("invt", "2")
	q.Set("fid", "f3")
	q.Set("fs", fs)
	q.Set("fields", emSpotFields)
	u := emQuoteHost + "/api/qt/clist/get?" + q.Encode()

	var data emListResponse
	if err := s.get(ctx, u, &data); err != nil {
		return nil, err
	}
	if data.Data == nil {
		return nil, &SourceError{Source: s.Name(), Err: fmt.Errorf("empty list response")}
	}
	quotes := make([]model.Quote, 0, len(data.Data.Diff))
	for _, row := range data.Data.Diff {
		quotes = append(quotes, row.toQuote())
	}
	return quotes, nil
}

// Snapshot returns the realtime spot table for all A-shares.
func (s *EastMoney) Snapshot(ctx context.Context) ([]model.Quote, error) {
	return s.list(ctx, emAllAShares)
}

// BoardMembers returns the spot rows of one board's constituents.
func (s *EastMoney) BoardMembers(ctx context.Context, boardCode string) ([]model.Quote, error) {
	return s.list(ctx, "b:"+boardCode)
}

// Quote returns the realtime snapshot row for one stock.
func (s *EastMoney) Quote(ctx context.Context, code string) (*model.Quote, error) {
	q := url.Values{}
	q.Set("fltt", "2")
	q.Set("invt", "2")
	q.Set("secids", secID(code))
	q.Set("fields", emSpotFields)
	u := emQuoteHost + "/api/qt/ulist.np/get?" + q.Encode()

	var data emListResponse
	if err := s.get(ctx, u, &data); err != nil {
		return nil, err
	}
	if data.Data == nil || len(data.Data.Diff) == 0 {
		return nil, &SourceError{Source: s.Name(), Err: fmt.Errorf("%w: %s", ErrNotFound, code)}
	}
	quote := data.Data.Diff[0].toQuote()
	return &quote, nil
}

type emIndexRow struct {
	Code      string  `json:"f12"`
	Name      string  `json:"f14"`
	Price     emValue `json:"f2"`
	ChangePct emValue `json:"f3"`
	Change    emValue `json:"f4"`
	Volume    emValue `json:"f5"`
	Amount    emValue `json:"f6"`
}

type emIndexResponse struct {
	Data *struct {
		Diff []emIndexRow `json:"diff"`
	} `json:"data"`
}

// IndexQuotes returns snapshots of the six benchmark indices.
func (s *EastMoney) IndexQuotes(ctx context.Context) ([]model.IndexQuote, error) {
	q := url.Values{}
	q.Set("fltt", "2")
	q.Set("invt", "2")
	q.Set("secids", emIndexSecIDs)
	q.Set("fields", emIndexFields)
	u := emQuoteHost + "/api/qt/ulist.np/get?" + q.Encode()

	var data emIndexResponse
	if err := s.get(ctx, u, &data); err != nil {
		return nil, err
	}
	if data.Data == nil || len(data.Data.Diff) == 0 {
		return nil, &SourceError{Source: s.Name(), Err: fmt.Errorf("no index data")}
	}
	out := make([]model.IndexQuote, 0, len(data.Data.Diff))
	for _, row := range data.Data.Diff {
		out = append(out, model.IndexQuote{
			Code:      row.Code,
			Name:      row.Name,
			Price:     row.Price.float(),
			Change:    row.Change.float(),
			ChangePct: row.ChangePct.float(),
			Volume:    row.Volume.lots(),
			Amount:    row.Amount.float(),
		})
	}
	return out, nil
}

type emBoardRow struct {
	Code       string  `json:"f12"`
	Name       string  `json:"f14"`
	ChangePct  emValue `json:"f3"`
	MainInflow emValue `json:"f62"`
	UpCount    emValue `json:"f104"`
	DownCount  emValue `json:"f105"`
	Leader     string  `json:"f128"`
	LeaderPct  emValue `json:"f136"`
}

type emBoardResponse struct {
	Data *struct {
		Diff []emBoardRow `json:"diff"`
	} `json:"data"`
}

func (s *EastMoney) boards(ctx context.Context, fs string) ([]model.BoardQuote, error) {
	q := url.Values{}
	q.Set("pn", "1")
	q.Set("pz", "1000")
	q.Set("po", "1")
	q.Set("np", "1")
	q.Set("fltt", "2")
	q.Set("invt", "2")
	q.Set("fid", "f3")
	q.Set("fs", fs)
	q.Set("fields", emBoardFields)
	u := emQuoteHost + "/api/qt/clist/get?" + q.Encode()

	var data emBoardResponse
	if err := s.get(ctx, u, &data); err != nil {
		return nil, err
	}
	if data.Data == nil {
		return nil, &SourceError{Source: s.Name(), Err: fmt.Errorf("empty board response")}
	}
	out := make([]model.BoardQuote, 0, len(data.Data.Diff))
	for _, row := range data.Data.Diff {
		out = append(out, model.BoardQuote{
			Code:       row.Code,
			Name:       row.Name,
			ChangePct:  row.ChangePct.float(),
			MainInflow: row.MainInflow.float(),
			Leader:     row.Leader,
			LeaderPct:  row.LeaderPct.float(),
			UpCount:    int(row.UpCount.float()),
			DownCount:  int(row.DownCount.float()),
		})
	}
	return out, nil
}

// ConceptBoards returns the concept board table sorted by change.
func (s *EastMoney) ConceptBoards(ctx context.Context) ([]model.BoardQuote, error) {
	return s.boards(ctx, "m:90+t:3")
}

// IndustryBoards returns the industry board table sorted by change.
func (s *EastMoney) IndustryBoards(ctx context.Context) ([]model.BoardQuote, error) {
	return s.boards(ctx, "m:90+t:2")
}

type emPoolStock struct {
	Code      json.Number `json:"c"`
	Name      string      `json:"n"`
	Price     emValue     `json:"p"` // yuan * 1000
	ChangePct emValue     `json:"zdp"`
	Seal      emValue     `json:"fund"`
	Streak    int         `json:"lbc"`
	FirstTime int         `json:"fbt"` // HHMMSS as an integer
	LastTime  int         `json:"lbt"`
	Industry  string      `json:"hybk"`
}

// toLimitStock converts a pool row: prices arrive multiplied by 1000,
// codes as bare integers that lose their leading zeros, and board times
// as HHMMSS integers.
func (r emPoolStock) toLimitStock() model.LimitStock {
	code := r.Code.String()
	if len(code) < 6 {
		code = strings.Repeat("0", 6-len(code)) + code
	}
	return model.LimitStock{
		Code:       code,
		Name:       r.Name,
		Price:      r.Price.float() / 1000,
		ChangePct:  r.ChangePct.float(),
		SealAmount: r.Seal.float(),
		Streak:     r.Streak,
		FirstTime:  fmt.Sprintf("%06d", r.FirstTime),
		LastTime:   fmt.Sprintf("%06d", r.LastTime),
		Industry:   r.Industry,
	}
}

type emPoolResponse struct {
	Data *struct {
		Pool []emPoolStock `json:"pool"`
	} `json:"data"`
}

func (s *EastMoney) limitPool(ctx context.Context, endpoint, date string) ([]model.LimitStock, error) {
	if date == "" {
		date = time.Now().Format("20060102")
	}
	u := fmt.Sprintf("%s/%s?ut=7eea3edcaed734bea9cbfc24409ed989&dpt=wz.ztzt&Pageindex=0&pagesize=500&sort=fbt:asc&date=%s",
		emPoolHost, endpoint, date)

	var data emPoolResponse
	if err := s.get(ctx, u, &data); err != nil {
		return nil, err
	}
	if data.Data == nil {
		return []model.LimitStock{}, nil // no pool on a non-trading day
	}
	out := make([]model.LimitStock, 0, len(data.Data.Pool))
	for _, row := range data.Data.Pool {
		out = append(out, row.toLimitStock())
	}
	return out, nil
}

// LimitUpPool returns the limit-up pool for a YYYYMMDD date.
func (s *EastMoney) LimitUpPool(ctx context.Context, date string) ([]model.LimitStock, error) {
	return s.limitPool(ctx, "getTopicZTPool", date)
}

// LimitDownPool returns the limit-down pool for a YYYYMMDD date.
func (s *EastMoney) LimitDownPool(ctx context.Context, date string) ([]model.LimitStock, error) {
	return s.limitPool(ctx, "getTopicDTPool", date)
}

type emKamtResponse struct {
	Data *struct {
		HK2SH struct {
			DayNetAmtIn emValue `json:"dayNetAmtIn"` // 万元
		} `json:"hk2sh"`
		HK2SZ struct {
			DayNetAmtIn emValue `json:"dayNetAmtIn"`
		} `json:"hk2sz"`
	} `json:"data"`
}

// NorthFlow returns today's northbound net inflows in yuan.
func (s *EastMoney) NorthFlow(ctx context.Context) (*model.NorthFlow, error) {
	u := emQuoteHost + "/api/qt/kamt/get?fields1=f1,f2,f3,f4&fields2=f51,f52,f53,f54"

	var data emKamtResponse
	if err := s.get(ctx, u, &data); err != nil {
		return nil, err
	}
	if data.Data == nil {
		return nil, &SourceError{Source: s.Name(), Err: fmt.Errorf("no northbound data")}
	}
	sh := data.Data.HK2SH.DayNetAmtIn.float() * 1e4
	sz := data.Data.HK2SZ.DayNetAmtIn.float() * 1e4
	return &model.NorthFlow{
		Total:    sh + sz,
		SHLink:   sh,
		SZLink:   sz,
		DateTime: time.Now().Format("2006-01-02 15:04"),
	}, nil
}

// FundFlow returns the latest session's order-size money flows for one
// stock. The fflow klines arrive as CSV rows:
// date,mainNet,smallNet,mediumNet,largeNet,superNet,mainPct,...
func (s *EastMoney) FundFlow(ctx context.Context, code string) (*model.FundFlow, error) {
	u := fmt.Sprintf("%s/api/qt/stock/fflow/kline/get?lmt=0&klt=101&secid=%s&fields1=f1,f2,f3,f7&fields2=f51,f52,f53,f54,f55,f56,f57,f58,f59,f60,f61",
		emQuoteHost, secID(code))

	var data emKlineResponse
	if err := s.get(ctx, u, &data); err != nil {
		return nil, err
	}
	if data.Data == nil || len(data.Data.Klines) == 0 {
		return nil, &SourceError{Source: s.Name(), Err: fmt.Errorf("%w: %s", ErrNotFound, code)}
	}

	line := data.Data.Klines[len(data.Data.Klines)-1]
	parts := strings.Split(line, ",")
	if len(parts) < 7 {
		return nil, fmt.Errorf("short fflow row %q", line)
	}
	nums := make([]float64, 6)
	for i := 1; i <= 6; i++ {
		f, err := strconv.ParseFloat(parts[i], 64)
		if err != nil {
			return nil, fmt.Errorf("bad fflow row %q: %w", line, err)
		}
		nums[i-1] = f
	}
	return &model.FundFlow{
		Code:       code,
		MainNet:    nums[0],
		SmallNet:   nums[1],
		MediumNet:  nums[2],
		LargeNet:   nums[3],
		SuperNet:   nums[4],
		MainNetPct: nums[5],
	}, nil
}
