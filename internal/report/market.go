package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/iasiv5/a-share-analyst/pkg/model"
)

// MarketInput carries everything the daily market report needs.
// Optional sections are skipped when their data is nil or empty.
type MarketInput struct {
	Indices       []model.IndexQuote
	UpCount       int
	DownCount     int
	LimitUps      []model.LimitStock
	LimitDowns    []model.LimitStock
	North         *model.NorthFlow
	TopConcept    []model.BoardQuote
	TopIndustry   []model.BoardQuote
	BottomConcept []model.BoardQuote
	RunID         string
	GeneratedAt   time.Time
}

// Market renders the daily market report.
func Market(in MarketInput) string {
	var b strings.Builder

	b.WriteString("# 每日市场报告\n\n")
	fmt.Fprintf(&b, "**日期**: %s\n", in.GeneratedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "**生成时间**: %s\n", in.GeneratedAt.Format("15:04:05"))
	if in.RunID != "" {
		fmt.Fprintf(&b, "**运行ID**: %s\n", in.RunID)
	}
	b.WriteString("\n---\n\n")

	b.WriteString("## 大盘指数\n\n")
	b.WriteString("| 指数 | 收盘点位 | 涨跌幅 | 成交额(亿) |\n")
	b.WriteString("|------|----------|--------|------------|\n")
	for _, idx := range in.Indices {
		fmt.Fprintf(&b, "| %s | %s | %s%% | %s |\n",
			idx.Name, num2(idx.Price), signed2(idx.ChangePct), num2(idx.Amount/1e8))
	}
	b.WriteString("\n---\n\n")

	b.WriteString("## 市场情绪\n\n")
	fmt.Fprintf(&b, "- **上涨家数**: %d\n", in.UpCount)
	fmt.Fprintf(&b, "- **下跌家数**: %d\n", in.DownCount)
	fmt.Fprintf(&b, "- **涨停家数**: %d\n", len(in.LimitUps))
	fmt.Fprintf(&b, "- **跌停家数**: %d\n", len(in.LimitDowns))
	if in.North != nil {
		direction := "净流入"
		if in.North.Total < 0 {
			direction = "净流出"
		}
		fmt.Fprintf(&b, "- **北向资金**: %s %.2f亿\n", direction, math.Abs(in.North.Total)/1e8)
	}
	b.WriteString("\n---\n\n")

	writeBoardTable(&b, "热门概念板块 TOP5", in.TopConcept, true)
	writeBoardTable(&b, "热门行业板块 TOP5", in.TopIndustry, true)
	writeBoardTable(&b, "跌幅居前概念板块 TOP5", in.BottomConcept, false)

	b.WriteString("## 市场总结\n\n")
	emoji, label, text := sentiment(shanghaiChange(in.Indices))
	fmt.Fprintf(&b, "%s **市场情绪**: %s。%s\n", emoji, label, text)

	b.WriteString("\n---\n\n## 风险提示\n\n")
	b.WriteString(disclaimer)
	b.WriteString("\n")

	return b.String()
}

func writeBoardTable(b *strings.Builder, title string, boards []model.BoardQuote, withLeader bool) {
	if len(boards) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	if withLeader {
		b.WriteString("| 排名 | 板块名称 | 涨跌幅 | 主力净流入(亿) | 领涨股 |\n")
		b.WriteString("|------|----------|--------|----------------|--------|\n")
		for i, board := range boards {
			fmt.Fprintf(b, "| %d | %s | %s%% | %s | %s(%s%%) |\n",
				i+1, board.Name, signed2(board.ChangePct),
				num2(board.MainInflow/1e8), board.Leader, signed2(board.LeaderPct))
		}
	} else {
		b.WriteString("| 排名 | 板块名称 | 涨跌幅 |\n")
		b.WriteString("|------|----------|--------|\n")
		for i, board := range boards {
			fmt.Fprintf(b, "| %d | %s | %s%% |\n", i+1, board.Name, signed2(board.ChangePct))
		}
	}
	b.WriteString("\n---\n\n")
}

// shanghaiChange finds the Shanghai Composite move, NaN when missing.
func shanghaiChange(indices []model.IndexQuote) float64 {
	for _, idx := range indices {
		if idx.Code == "000001" {
			return idx.ChangePct
		}
	}
	return math.NaN()
}

// sentiment grades the session from the Shanghai index change.
func sentiment(change float64) (emoji, label, text string) {
	switch {
	case math.IsNaN(change):
		return "❔", "未知", "指数数据缺失，无法判断市场情绪。"
	case change > 1:
		return "📈", "偏热", "今日市场表现强势，做多情绪高涨。建议关注热点板块龙头，把握短线机会。"
	case change > 0:
		return "📊", "平稳", "今日市场小幅上涨，整体偏暖。可适度参与，但需控制仓位。"
	case change > -1:
		return "📉", "偏冷", "今日市场小幅调整，情绪偏谨慎。建议观望为主，等待企稳信号。"
	default:
		return "⚠️", "低迷", "今日市场大幅下跌，恐慌情绪蔓延。建议控制仓位，防范风险。"
	}
}

// Breadth counts advancing and declining rows in a snapshot.
func Breadth(quotes []model.Quote) (up, down int) {
	for _, q := range quotes {
		switch {
		case q.ChangePct > 0:
			up++
		case q.ChangePct < 0:
			down++
		}
	}
	return up, down
}
