// Package symbols resolves stock code lists for batch commands: the
// configured watchlist, a static blue-chip universe, or every listed
// A-share from the realtime spot table.
package symbols

import (
	"fmt"

	"github.com/iasiv5/a-share-analyst/pkg/model"
)

// Universe represents a predefined stock universe
type Universe string

const (
	UniverseAll       Universe = "all"       // whole A-share spot table
	UniverseBluechip  Universe = "bluechip"  // static large-cap list
	UniverseWatchlist Universe = "watchlist" // codes from the config file
)

// ParseUniverse maps a command-line value to a Universe.
func ParseUniverse(s string) (Universe, error) {
	switch Universe(s) {
	case UniverseAll, UniverseBluechip, UniverseWatchlist:
		return Universe(s), nil
	default:
		return "", fmt.Errorf("unknown universe %q (available: all, bluechip, watchlist)", s)
	}
}

// BluechipStocks returns a static large-cap universe covering the
// major index heavyweights across sectors. Used when a scan should
// stay fast without pulling the whole spot table.
func BluechipStocks() []model.Stock {
	table := []struct {
		code string
		name string
	}{
		// 消费/白酒
		{"600519", "贵州茅台"},
		{"000858", "五粮液"},
		{"000568", "泸州老窖"},
		{"600887", "伊利股份"},
		{"603288", "海天味业"},
		{"601888", "中国中免"},

		// 金融
		{"601318", "中国平安"},
		{"600036", "招商银行"},
		{"601398", "工商银行"},
		{"601288", "农业银行"},
		{"601166", "兴业银行"},
		{"000001", "平安银行"},
		{"600030", "中信证券"},
		{"601688", "华泰证券"},
		{"300059", "东方财富"},
		{"601628", "中国人寿"},

		// 科技/半导体
		{"002415", "海康威视"},
		{"002475", "立讯精密"},
		{"002230", "科大讯飞"},
		{"688981", "中芯国际"},
		{"603501", "韦尔股份"},
		{"002371", "北方华创"},
		{"600584", "长电科技"},

		// 医药
		{"600276", "恒瑞医药"},
		{"300760", "迈瑞医疗"},
		{"603259", "药明康德"},
		{"000661", "长春高新"},
		{"300015", "爱尔眼科"},

		// 新能源/汽车
		{"300750", "宁德时代"},
		{"002594", "比亚迪"},
		{"601012", "隆基绿能"},
		{"002460", "赣锋锂业"},
		{"600406", "国电南瑞"},

		// 工业/能源/材料
		{"600309", "万华化学"},
		{"601899", "紫金矿业"},
		{"601088", "中国神华"},
		{"601857", "中国石油"},
		{"600028", "中国石化"},
		{"600585", "海螺水泥"},
		{"601668", "中国建筑"},
		{"600019", "宝钢股份"},

		// 家电
		{"000333", "美的集团"},
		{"000651", "格力电器"},
		{"600690", "海尔智家"},

		// 电信/公用
		{"600941", "中国移动"},
		{"601728", "中国电信"},
		{"600900", "长江电力"},
	}

	stocks := make([]model.Stock, len(table))
	for i, row := range table {
		stocks[i] = model.Stock{Code: row.code, Name: row.name}
	}
	return stocks
}
