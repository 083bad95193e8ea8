// Package report renders analysis results as markdown documents.
// Numeric values that are undefined (short series, suspended stocks)
// render as "-".
package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/iasiv5/a-share-analyst/internal/analyzer"
	"github.com/iasiv5/a-share-analyst/pkg/model"
)

const disclaimer = "⚠️ **免责声明**: 以上分析仅供参考，不构成投资建议。股市有风险，投资需谨慎。"

// StockInput carries everything the single-stock report needs.
type StockInput struct {
	Code        string
	Name        string
	Quote       *model.Quote // nil when realtime data is unavailable
	Result      *analyzer.Result
	RunID       string
	GeneratedAt time.Time
}

// Stock renders a single-stock analysis report.
func Stock(in StockInput) string {
	var b strings.Builder

	name := in.Name
	if name == "" && in.Quote != nil {
		name = in.Quote.Name
	}
	if name == "" {
		name = in.Code
	}

	fmt.Fprintf(&b, "# %s(%s) 分析报告\n\n", name, in.Code)
	fmt.Fprintf(&b, "**生成时间**: %s\n", in.GeneratedAt.Format("2006-01-02 15:04:05"))
	if in.RunID != "" {
		fmt.Fprintf(&b, "**运行ID**: %s\n", in.RunID)
	}
	b.WriteString("\n---\n\n")

	if in.Quote != nil {
		writeSpotSection(&b, in.Quote)
	}

	r := in.Result
	b.WriteString("## 技术面分析\n\n")
	b.WriteString("### 趋势判断\n\n")
	fmt.Fprintf(&b, "- **当前趋势**: %s\n", r.Trend)
	fmt.Fprintf(&b, "- **支撑位**: ¥%s\n", num2(r.Levels.Support))
	fmt.Fprintf(&b, "- **阻力位**: ¥%s\n", num2(r.Levels.Resistance))
	fmt.Fprintf(&b, "- **枢轴点**: ¥%s\n\n", num2(r.Levels.Pivot))

	b.WriteString("### 均线系统\n\n")
	b.WriteString("| 均线 | 数值 |\n|------|------|\n")
	for _, ma := range r.MA {
		fmt.Fprintf(&b, "| MA%d | %s |\n", ma.Window, num2(ma.Last()))
	}
	b.WriteString("\n")

	b.WriteString("### 技术指标\n\n")
	b.WriteString("| 指标 | 数值 | 信号 |\n|------|------|------|\n")

	dif, dea := r.MACD.Last()
	fmt.Fprintf(&b, "| MACD | DIF=%s, DEA=%s | %s |\n", num4(dif), num4(dea), r.MACD.Signal)

	k, d, j := r.KDJ.Last()
	fmt.Fprintf(&b, "| KDJ | K=%s, D=%s, J=%s | %s |\n", num2(k), num2(d), num2(j), r.KDJ.Signal)

	fmt.Fprintf(&b, "| RSI | %s | %s |\n", num2(r.RSI.Last()), r.RSI.SignalText())

	upper, mid, lower := r.Boll.Last()
	fmt.Fprintf(&b, "| BOLL | 上轨=%s, 中轨=%s, 下轨=%s | %s |\n",
		num2(upper), num2(mid), num2(lower), r.Boll.Signal)

	fmt.Fprintf(&b, "| ATR | %s | 波动参考 |\n\n", num2(r.ATR.Last()))

	b.WriteString("---\n\n")
	b.WriteString("## 综合评分\n\n")
	fmt.Fprintf(&b, "- **技术评分**: %d/100\n", r.Score.Value)
	fmt.Fprintf(&b, "- **评级**: %s\n", r.Score.Rating)
	fmt.Fprintf(&b, "- **星级**: %s\n\n", strings.Repeat("⭐", r.Score.Stars))

	b.WriteString("---\n\n")
	b.WriteString("## 操作建议\n\n")
	b.WriteString(advice(r.Score.Value))

	b.WriteString("\n---\n\n## 风险提示\n\n")
	b.WriteString(disclaimer)
	b.WriteString("\n")

	return b.String()
}

func writeSpotSection(b *strings.Builder, q *model.Quote) {
	b.WriteString("## 基本信息\n\n")
	b.WriteString("| 项目 | 数值 |\n|------|------|\n")
	fmt.Fprintf(b, "| 当前价格 | ¥%s |\n", num2(q.Price))
	fmt.Fprintf(b, "| 涨跌幅 | %s%% |\n", signed2(q.ChangePct))
	fmt.Fprintf(b, "| 成交量 | %.2f万手 |\n", float64(q.Volume)/100/10000)
	fmt.Fprintf(b, "| 成交额 | %s亿 |\n", num2(q.Amount/1e8))
	fmt.Fprintf(b, "| 换手率 | %s%% |\n", num2(q.TurnoverRate))
	fmt.Fprintf(b, "| 量比 | %s |\n", num2(q.VolumeRatio))
	fmt.Fprintf(b, "| 市盈率(动态) | %s |\n", num2(q.PERatio))
	fmt.Fprintf(b, "| 市净率 | %s |\n", num2(q.PBRatio))
	fmt.Fprintf(b, "| 总市值 | %s亿 |\n", num2(q.TotalCap/1e8))
	fmt.Fprintf(b, "| 流通市值 | %s亿 |\n\n", num2(q.FloatCap/1e8))
	b.WriteString("---\n\n")
}

// advice maps the composite score to an action block.
func advice(score int) string {
	switch {
	case score >= 70:
		return `✅ **建议买入**

当前技术面表现良好，各项指标偏多，可考虑逢低布局。

**注意事项**:
- 建议分批建仓，控制单只股票仓位不超过20%
- 设置止损位在支撑位下方3-5%
- 关注成交量变化，无量上涨需谨慎
`
	case score >= 50:
		return `⚠️ **建议观望**

当前技术面处于震荡整理阶段，方向不明确。

**注意事项**:
- 等待趋势明朗后再做决策
- 关注是否突破关键支撑/阻力位
- 可设置价格提醒，突破后再介入
`
	default:
		return `❌ **建议回避**

当前技术面偏弱，多项指标发出卖出信号。

**注意事项**:
- 如持有建议逢高减仓
- 等待企稳信号出现后再考虑
- 关注下方支撑位是否有效
`
	}
}

// num2 formats with 2 decimals, NaN as "-".
func num2(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}

// num4 formats with 4 decimals, NaN as "-".
func num4(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.4f", v)
}

// signed2 formats with an explicit sign and 2 decimals, NaN as "-".
func signed2(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%+.2f", v)
}
