package report

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/iasiv5/a-share-analyst/internal/analyzer"
	"github.com/iasiv5/a-share-analyst/pkg/model"
)

func sampleResult() *analyzer.Result {
	return &analyzer.Result{
		Price:     1712.5,
		ChangePct: 0.96,
		Trend:     analyzer.TrendUp,
		Levels:    analyzer.Levels{Support: 1680, Resistance: 1730, Pivot: 1709.17},
		MA: []analyzer.MALine{
			{Window: 5, Values: []float64{1700, 1705.23}},
			{Window: 10, Values: []float64{1690, 1695.5}},
			{Window: 120, Values: []float64{math.NaN(), math.NaN()}},
		},
		MACD: analyzer.MACDResult{
			DIF: []float64{3.2514}, DEA: []float64{2.8821}, Hist: []float64{0.7386},
			Signal: analyzer.MACDGoldenCross,
		},
		KDJ: analyzer.KDJResult{
			K: []float64{75.2}, D: []float64{68.1}, J: []float64{89.4},
			Signal: analyzer.KDJHighGolden,
		},
		RSI: analyzer.RSIResult{Values: []float64{65.32}, Signal: analyzer.RSINeutral},
		Boll: analyzer.BollResult{
			Upper: []float64{1735.2}, Mid: []float64{1702.11}, Lower: []float64{1669.02},
			Signal: analyzer.BollAboveMid,
		},
		ATR:   analyzer.ATRResult{Values: []float64{28.55}},
		Score: analyzer.Score{Value: 75, Rating: analyzer.RatingBuy, Stars: 4},
	}
}

func wantContains(t *testing.T, text string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(text, want) {
			t.Errorf("Expected report to contain %q", want)
		}
	}
}

func TestStockReport(t *testing.T) {
	quote := &model.Quote{
		Code: "600519", Name: "贵州茅台", Price: 1712.5, ChangePct: 0.96,
		Volume: 3200000, Amount: 5.4816e9, TurnoverRate: 0.25, VolumeRatio: 1.12,
		PERatio: 22.5, PBRatio: 8.7, TotalCap: 2.151e12, FloatCap: 2.149e12,
	}
	in := StockInput{
		Code:        "600519",
		Name:        "贵州茅台",
		Quote:       quote,
		Result:      sampleResult(),
		RunID:       "run-123",
		GeneratedAt: time.Date(2025, 8, 22, 16, 5, 0, 0, time.Local),
	}

	text := Stock(in)
	wantContains(t, text,
		"# 贵州茅台(600519) 分析报告",
		"**生成时间**: 2025-08-22 16:05:00",
		"**运行ID**: run-123",
		"| 当前价格 | ¥1712.50 |",
		"| 涨跌幅 | +0.96% |",
		"| 成交量 | 3.20万手 |",
		"| 总市值 | 21510.00亿 |",
		"- **当前趋势**: 上升趋势",
		"- **支撑位**: ¥1680.00",
		"| MA5 | 1705.23 |",
		"| MA120 | - |",
		"| MACD | DIF=3.2514, DEA=2.8821 | 金叉买入 |",
		"| KDJ | K=75.20, D=68.10, J=89.40 | 高位金叉 |",
		"| RSI | 65.32 | 中性(65.3) |",
		"| BOLL | 上轨=1735.20, 中轨=1702.11, 下轨=1669.02 | 中轨上方-偏多 |",
		"| ATR | 28.55 | 波动参考 |",
		"- **技术评分**: 75/100",
		"- **评级**: 买入",
		"- **星级**: ⭐⭐⭐⭐",
		"✅ **建议买入**",
		"免责声明",
	)
}

func TestStockReportWithoutQuote(t *testing.T) {
	in := StockInput{
		Code:        "600519",
		Result:      sampleResult(),
		GeneratedAt: time.Now(),
	}

	text := Stock(in)
	if strings.Contains(text, "基本信息") {
		t.Error("Expected spot section skipped without a quote")
	}
	wantContains(t, text, "# 600519(600519) 分析报告", "技术面分析")
}

func TestStockReportAdviceTiers(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{85, "建议买入"},
		{70, "建议买入"},
		{69, "建议观望"},
		{50, "建议观望"},
		{49, "建议回避"},
		{10, "建议回避"},
	}

	for _, tt := range tests {
		if got := advice(tt.score); !strings.Contains(got, tt.want) {
			t.Errorf("advice(%d): expected %q block", tt.score, tt.want)
		}
	}
}

func TestMarketReport(t *testing.T) {
	in := MarketInput{
		Indices: []model.IndexQuote{
			{Code: "000001", Name: "上证指数", Price: 3245.12, ChangePct: 1.52, Amount: 4.5221e11},
			{Code: "399001", Name: "深证成指", Price: 10456.7, ChangePct: -0.34, Amount: 5.1e11},
		},
		UpCount:   3120,
		DownCount: 1890,
		LimitUps:  make([]model.LimitStock, 45),
		LimitDowns: []model.LimitStock{
			{Code: "600001", Name: "跌停股"},
		},
		North: &model.NorthFlow{Total: 3.215e9},
		TopConcept: []model.BoardQuote{
			{Code: "BK1", Name: "算力", ChangePct: 3.21, MainInflow: 1.5e9, Leader: "中科曙光", LeaderPct: 10.0},
		},
		TopIndustry: []model.BoardQuote{
			{Code: "BK2", Name: "半导体", ChangePct: 2.8, MainInflow: 9.8e8, Leader: "中芯国际", LeaderPct: 6.5},
		},
		BottomConcept: []model.BoardQuote{
			{Code: "BK3", Name: "煤炭", ChangePct: -2.1},
		},
		RunID:       "run-456",
		GeneratedAt: time.Date(2025, 8, 22, 16, 30, 0, 0, time.Local),
	}

	text := Market(in)
	wantContains(t, text,
		"# 每日市场报告",
		"**日期**: 2025-08-22",
		"| 上证指数 | 3245.12 | +1.52% | 4522.10 |",
		"| 深证成指 | 10456.70 | -0.34% | 5100.00 |",
		"- **上涨家数**: 3120",
		"- **下跌家数**: 1890",
		"- **涨停家数**: 45",
		"- **跌停家数**: 1",
		"- **北向资金**: 净流入 32.15亿",
		"热门概念板块 TOP5",
		"| 1 | 算力 | +3.21% | 15.00 | 中科曙光(+10.00%) |",
		"热门行业板块 TOP5",
		"跌幅居前概念板块 TOP5",
		"| 1 | 煤炭 | -2.10% |",
		"📈 **市场情绪**: 偏热",
		"免责声明",
	)
}

func TestMarketReportNorthOutflow(t *testing.T) {
	in := MarketInput{
		Indices:     []model.IndexQuote{{Code: "000001", Name: "上证指数", Price: 3200, ChangePct: -1.8}},
		North:       &model.NorthFlow{Total: -1.234e9},
		GeneratedAt: time.Now(),
	}

	text := Market(in)
	wantContains(t, text,
		"- **北向资金**: 净流出 12.34亿",
		"⚠️ **市场情绪**: 低迷",
	)
}

func TestSentimentTiers(t *testing.T) {
	tests := []struct {
		change float64
		want   string
	}{
		{2.0, "偏热"},
		{1.0, "平稳"},
		{0.5, "平稳"},
		{0.0, "偏冷"},
		{-0.99, "偏冷"},
		{-1.0, "低迷"},
		{-3.0, "低迷"},
		{math.NaN(), "未知"},
	}

	for _, tt := range tests {
		if _, label, _ := sentiment(tt.change); label != tt.want {
			t.Errorf("sentiment(%f): expected %s, got %s", tt.change, tt.want, label)
		}
	}
}

func TestBreadth(t *testing.T) {
	quotes := []model.Quote{
		{ChangePct: 1.0},
		{ChangePct: 0.1},
		{ChangePct: 0},
		{ChangePct: -0.5},
		{ChangePct: math.NaN()},
	}

	up, down := Breadth(quotes)
	if up != 2 {
		t.Errorf("Expected 2 advancers, got %d", up)
	}
	if down != 1 {
		t.Errorf("Expected 1 decliner, got %d", down)
	}
}
