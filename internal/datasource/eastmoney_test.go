package datasource

import (
	"encoding/json"
	"math"
	"testing"
)

func TestSecID(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"600519", "1.600519"},
		{"688981", "1.688981"},
		{"900901", "1.900901"},
		{"000001", "0.000001"},
		{"002594", "0.002594"},
		{"300750", "0.300750"},
		{"830799", "0.830799"},
	}

	for _, tt := range tests {
		if got := secID(tt.code); got != tt.want {
			t.Errorf("secID(%s): expected %s, got %s", tt.code, tt.want, got)
		}
	}
}

func TestParseKlines(t *testing.T) {
	rows := []string{
		"2025-08-20,1700.00,1712.50,1720.00,1695.00,32000,5481600000.00,1.47,0.96,16.30,0.25",
		"2025-08-21,1713.00,1701.00,1715.00,1698.88,28000,4795200000.00,0.94,-0.67,-11.50,0.22",
	}

	bars, err := parseKlines(rows)
	if err != nil {
		t.Fatalf("parseKlines failed: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("Expected 2 bars, got %d", len(bars))
	}

	first := bars[0]
	if got := first.Time.Format("2006-01-02"); got != "2025-08-20" {
		t.Errorf("Expected date 2025-08-20, got %s", got)
	}
	if first.Open != 1700.0 {
		t.Errorf("Expected open 1700.0, got %f", first.Open)
	}
	if first.Close != 1712.5 {
		t.Errorf("Expected close 1712.5, got %f", first.Close)
	}
	if first.High != 1720.0 {
		t.Errorf("Expected high 1720.0, got %f", first.High)
	}
	if first.Low != 1695.0 {
		t.Errorf("Expected low 1695.0, got %f", first.Low)
	}
	// volume arrives in 手 and must be converted to shares
	if first.Volume != 3200000 {
		t.Errorf("Expected volume 3200000, got %d", first.Volume)
	}
}

func TestParseKlinesRejectsBadRows(t *testing.T) {
	if _, err := parseKlines([]string{"2025-08-20,1700.00"}); err == nil {
		t.Error("Expected error for short row, got nil")
	}
	if _, err := parseKlines([]string{"not-a-date,1,2,3,4,5"}); err == nil {
		t.Error("Expected error for unparseable date, got nil")
	}
	if _, err := parseKlines([]string{"2025-08-20,x,2,3,4,5"}); err == nil {
		t.Error("Expected error for non-numeric price, got nil")
	}
}

func TestSpotRowDecode(t *testing.T) {
	payload := `{"f2":1712.5,"f3":0.96,"f4":16.3,"f5":32000,"f6":5481600000.0,
		"f7":1.47,"f8":0.25,"f9":22.5,"f10":1.12,"f12":"600519","f14":"贵州茅台",
		"f15":1720.0,"f16":1695.0,"f17":1700.0,"f18":1696.2,
		"f20":2151000000000.0,"f21":2149000000000.0,"f23":8.7}`

	var row emSpotRow
	if err := json.Unmarshal([]byte(payload), &row); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	q := row.toQuote()
	if q.Code != "600519" {
		t.Errorf("Expected code 600519, got %s", q.Code)
	}
	if q.Name != "贵州茅台" {
		t.Errorf("Expected name 贵州茅台, got %s", q.Name)
	}
	if q.Price != 1712.5 {
		t.Errorf("Expected price 1712.5, got %f", q.Price)
	}
	if q.ChangePct != 0.96 {
		t.Errorf("Expected change pct 0.96, got %f", q.ChangePct)
	}
	if q.Volume != 3200000 {
		t.Errorf("Expected volume 3200000, got %d", q.Volume)
	}
	if q.PERatio != 22.5 {
		t.Errorf("Expected PE 22.5, got %f", q.PERatio)
	}
	if q.PBRatio != 8.7 {
		t.Errorf("Expected PB 8.7, got %f", q.PBRatio)
	}
	if q.TurnoverRate != 0.25 {
		t.Errorf("Expected turnover 0.25, got %f", q.TurnoverRate)
	}
}

func TestSpotRowDecodeSuspended(t *testing.T) {
	// suspended stocks report "-" for every numeric field
	payload := `{"f2":"-","f3":"-","f4":"-","f5":"-","f6":"-","f7":"-","f8":"-",
		"f9":"-","f10":"-","f12":"000672","f14":"停牌股","f15":"-","f16":"-",
		"f17":"-","f18":"-","f20":"-","f21":"-","f23":"-"}`

	var row emSpotRow
	if err := json.Unmarshal([]byte(payload), &row); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	q := row.toQuote()
	if !math.IsNaN(q.Price) {
		t.Errorf("Expected NaN price for suspended stock, got %f", q.Price)
	}
	if !math.IsNaN(q.PERatio) {
		t.Errorf("Expected NaN PE for suspended stock, got %f", q.PERatio)
	}
	if q.Volume != 0 {
		t.Errorf("Expected zero volume for suspended stock, got %d", q.Volume)
	}
}

func TestPoolRowToLimitStock(t *testing.T) {
	// codes arrive as bare integers, prices multiplied by 1000
	payload := `{"c":2594,"n":"比亚迪","p":312500,"zdp":10.0,"fund":523000000,
		"lbc":3,"fbt":93500,"lbt":142512,"hybk":"汽车整车"}`

	var row emPoolStock
	if err := json.Unmarshal([]byte(payload), &row); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	ls := row.toLimitStock()
	if ls.Code != "002594" {
		t.Errorf("Expected zero-padded code 002594, got %s", ls.Code)
	}
	if ls.Price != 312.5 {
		t.Errorf("Expected price 312.5, got %f", ls.Price)
	}
	if ls.ChangePct != 10.0 {
		t.Errorf("Expected change pct 10.0, got %f", ls.ChangePct)
	}
	if ls.Streak != 3 {
		t.Errorf("Expected streak 3, got %d", ls.Streak)
	}
	if ls.FirstTime != "093500" {
		t.Errorf("Expected first seal time 093500, got %s", ls.FirstTime)
	}
	if ls.LastTime != "142512" {
		t.Errorf("Expected last seal time 142512, got %s", ls.LastTime)
	}
	if ls.Industry != "汽车整车" {
		t.Errorf("Expected industry 汽车整车, got %s", ls.Industry)
	}
}

func TestPoolRowSixDigitCode(t *testing.T) {
	payload := `{"c":600519,"n":"贵州茅台","p":1712500,"zdp":10.0}`

	var row emPoolStock
	if err := json.Unmarshal([]byte(payload), &row); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if ls := row.toLimitStock(); ls.Code != "600519" {
		t.Errorf("Expected code 600519, got %s", ls.Code)
	}
}

func TestEMValueQuotedNumber(t *testing.T) {
	var v emValue
	if err := json.Unmarshal([]byte(`"12.34"`), &v); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if v.float() != 12.34 {
		t.Errorf("Expected 12.34, got %f", v.float())
	}

	if err := json.Unmarshal([]byte(`null`), &v); err != nil {
		t.Fatalf("decode null failed: %v", err)
	}
	if !math.IsNaN(v.float()) {
		t.Errorf("Expected NaN for null, got %f", v.float())
	}

	if err := json.Unmarshal([]byte(`"abc"`), &v); err == nil {
		t.Error("Expected error for non-numeric string, got nil")
	}
}
