package web

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/iasiv5/a-share-analyst/internal/analyzer"
	"github.com/iasiv5/a-share-analyst/internal/report"
	"github.com/iasiv5/a-share-analyst/internal/strategy"
	"github.com/iasiv5/a-share-analyst/pkg/model"
)

// maxSeriesLen caps indicator sequences in responses. Charts only need
// the recent window; the full history is mostly NaN padding.
const maxSeriesLen = 120

// number marshals NaN and infinities as null, which encoding/json
// rejects outright.
type number float64

func (n number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// numbers is a NaN-tolerant float sequence.
type numbers []float64

func (ns numbers) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, len(ns)*8+2)
	buf = append(buf, '[')
	for i, f := range ns {
		if i > 0 {
			buf = append(buf, ',')
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			buf = append(buf, "null"...)
		} else {
			buf = strconv.AppendFloat(buf, f, 'g', -1, 64)
		}
	}
	return append(buf, ']'), nil
}

// tail keeps the last maxSeriesLen positions of a sequence.
func tail(values []float64) numbers {
	if len(values) > maxSeriesLen {
		values = values[len(values)-maxSeriesLen:]
	}
	return numbers(values)
}

type maLineJSON struct {
	Window int     `json:"window"`
	Values numbers `json:"values"`
}

type levelsJSON struct {
	Support    number `json:"support"`
	Resistance number `json:"resistance"`
	Pivot      number `json:"pivot"`
}

type macdJSON struct {
	DIF    numbers `json:"dif"`
	DEA    numbers `json:"dea"`
	Hist   numbers `json:"hist"`
	Signal string  `json:"signal"`
}

type kdjJSON struct {
	K      numbers `json:"k"`
	D      numbers `json:"d"`
	J      numbers `json:"j"`
	Signal string  `json:"signal"`
}

type rsiJSON struct {
	Values numbers `json:"values"`
	Signal string  `json:"signal"`
}

type bollJSON struct {
	Upper  numbers `json:"upper"`
	Mid    numbers `json:"mid"`
	Lower  numbers `json:"lower"`
	Signal string  `json:"signal"`
}

// analysisResponse mirrors analyzer.Result with JSON-safe floats and
// trimmed sequences.
type analysisResponse struct {
	Code        string         `json:"code"`
	Name        string         `json:"name,omitempty"`
	Price       number         `json:"price"`
	ChangePct   number         `json:"change_pct"`
	Trend       string         `json:"trend"`
	Levels      levelsJSON     `json:"levels"`
	MA          []maLineJSON   `json:"ma"`
	VolMA       []maLineJSON   `json:"vol_ma"`
	MACD        macdJSON       `json:"macd"`
	KDJ         kdjJSON        `json:"kdj"`
	RSI         rsiJSON        `json:"rsi"`
	Boll        bollJSON       `json:"boll"`
	ATR         numbers        `json:"atr"`
	Score       analyzer.Score `json:"score"`
	GeneratedAt string         `json:"generated_at"`
}

func newAnalysisResponse(code, name string, res *analyzer.Result) analysisResponse {
	toLines := func(lines []analyzer.MALine) []maLineJSON {
		out := make([]maLineJSON, len(lines))
		for i, l := range lines {
			out[i] = maLineJSON{Window: l.Window, Values: tail(l.Values)}
		}
		return out
	}

	return analysisResponse{
		Code:      code,
		Name:      name,
		Price:     number(res.Price),
		ChangePct: number(res.ChangePct),
		Trend:     string(res.Trend),
		Levels: levelsJSON{
			Support:    number(res.Levels.Support),
			Resistance: number(res.Levels.Resistance),
			Pivot:      number(res.Levels.Pivot),
		},
		MA:    toLines(res.MA),
		VolMA: toLines(res.VolMA),
		MACD: macdJSON{
			DIF:    tail(res.MACD.DIF),
			DEA:    tail(res.MACD.DEA),
			Hist:   tail(res.MACD.Hist),
			Signal: string(res.MACD.Signal),
		},
		KDJ: kdjJSON{
			K:      tail(res.KDJ.K),
			D:      tail(res.KDJ.D),
			J:      tail(res.KDJ.J),
			Signal: string(res.KDJ.Signal),
		},
		RSI: rsiJSON{
			Values: tail(res.RSI.Values),
			Signal: res.RSI.SignalText(),
		},
		Boll: bollJSON{
			Upper:  tail(res.Boll.Upper),
			Mid:    tail(res.Boll.Mid),
			Lower:  tail(res.Boll.Lower),
			Signal: string(res.Boll.Signal),
		},
		ATR:         tail(res.ATR.Values),
		Score:       res.Score,
		GeneratedAt: time.Now().Format(time.RFC3339),
	}
}

type indexJSON struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Price     number `json:"price"`
	ChangePct number `json:"change_pct"`
	Amount    number `json:"amount"`
}

type boardJSON struct {
	Code       string `json:"code,omitempty"`
	Name       string `json:"name"`
	ChangePct  number `json:"change_pct"`
	MainInflow number `json:"main_inflow"`
	Leader     string `json:"leader,omitempty"`
}

type limitJSON struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Price      number `json:"price"`
	Streak     int    `json:"streak"`
	SealAmount number `json:"seal_amount"`
	Industry   string `json:"industry,omitempty"`
}

type northJSON struct {
	Total  number `json:"total"`
	SHLink number `json:"sh_link"`
	SZLink number `json:"sz_link"`
}

// marketResponse is the market overview payload.
type marketResponse struct {
	Indices        []indexJSON `json:"indices"`
	UpCount        int         `json:"up_count"`
	DownCount      int         `json:"down_count"`
	LimitUpCount   int         `json:"limit_up_count"`
	LimitDownCount int         `json:"limit_down_count"`
	LimitUps       []limitJSON `json:"limit_ups"`
	North          *northJSON  `json:"north,omitempty"`
	TopConcepts    []boardJSON `json:"top_concepts"`
	BottomConcepts []boardJSON `json:"bottom_concepts"`
	TopIndustries  []boardJSON `json:"top_industries"`
	GeneratedAt    string      `json:"generated_at"`
}

func toBoards(boards []model.BoardQuote) []boardJSON {
	out := make([]boardJSON, len(boards))
	for i, b := range boards {
		out[i] = boardJSON{
			Code:       b.Code,
			Name:       b.Name,
			ChangePct:  number(b.ChangePct),
			MainInflow: number(b.MainInflow),
			Leader:     b.Leader,
		}
	}
	return out
}

func newMarketResponse(in *report.MarketInput) marketResponse {
	resp := marketResponse{
		UpCount:        in.UpCount,
		DownCount:      in.DownCount,
		LimitUpCount:   len(in.LimitUps),
		LimitDownCount: len(in.LimitDowns),
		TopConcepts:    toBoards(in.TopConcept),
		BottomConcepts: toBoards(in.BottomConcept),
		TopIndustries:  toBoards(in.TopIndustry),
		GeneratedAt:    in.GeneratedAt.Format(time.RFC3339),
	}

	resp.Indices = make([]indexJSON, len(in.Indices))
	for i, idx := range in.Indices {
		resp.Indices[i] = indexJSON{
			Code:      idx.Code,
			Name:      idx.Name,
			Price:     number(idx.Price),
			ChangePct: number(idx.ChangePct),
			Amount:    number(idx.Amount),
		}
	}

	resp.LimitUps = make([]limitJSON, len(in.LimitUps))
	for i, ls := range in.LimitUps {
		resp.LimitUps[i] = limitJSON{
			Code:       ls.Code,
			Name:       ls.Name,
			Price:      number(ls.Price),
			Streak:     ls.Streak,
			SealAmount: number(ls.SealAmount),
			Industry:   ls.Industry,
		}
	}

	if in.North != nil {
		resp.North = &northJSON{
			Total:  number(in.North.Total),
			SHLink: number(in.North.SHLink),
			SZLink: number(in.North.SZLink),
		}
	}

	return resp
}

type pickJSON struct {
	Code      string            `json:"code"`
	Name      string            `json:"name"`
	Price     number            `json:"price"`
	ChangePct number            `json:"change_pct"`
	Score     number            `json:"score"`
	Reason    string            `json:"reason"`
	Details   map[string]number `json:"details,omitempty"`
}

type picksResponse struct {
	Strategy    string     `json:"strategy"`
	Description string     `json:"description"`
	Picks       []pickJSON `json:"picks"`
	GeneratedAt string     `json:"generated_at"`
}

func newPicksResponse(strat strategy.Strategy, picks []strategy.Pick) picksResponse {
	out := make([]pickJSON, len(picks))
	for i, p := range picks {
		pj := pickJSON{
			Code:      p.Code,
			Name:      p.Name,
			Price:     number(p.Price),
			ChangePct: number(p.ChangePct),
			Score:     number(p.Score),
			Reason:    p.Reason,
		}
		if len(p.Details) > 0 {
			pj.Details = make(map[string]number, len(p.Details))
			for k, v := range p.Details {
				pj.Details[k] = number(v)
			}
		}
		out[i] = pj
	}

	return picksResponse{
		Strategy:    strat.Name(),
		Description: strat.Description(),
		Picks:       out,
		GeneratedAt: time.Now().Format(time.RFC3339),
	}
}
