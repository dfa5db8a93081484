package importer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/teeraphan/wongshare/internal/models"
)

var refTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestParseAuctionAnnouncement(t *testing.T) {
	text := `วงแชร์บ้านสวน รอบ 2
มือละ 2,000 บาท 10 มือ รายเดือน
ประมูลดอกตาม ขั้นต่ำ 100 บิดเพิ่ม 50
ค่าดูแล 200
เริ่ม 15/07/2568`

	d := ParseAt(text, refTime)

	if d.Name != "วงแชร์บ้านสวน รอบ 2" {
		t.Errorf("name = %q", d.Name)
	}
	if !d.Principal.Equal(dec(2000)) {
		t.Errorf("principal = %s, want 2000", d.Principal)
	}
	if d.TotalSlots != 10 {
		t.Errorf("slots = %d, want 10", d.TotalSlots)
	}
	if d.Period != models.PeriodMonthly {
		t.Errorf("period = %s, want MONTHLY", d.Period)
	}
	if d.BiddingType != models.BiddingAuction {
		t.Errorf("bidding = %s, want AUCTION", d.BiddingType)
	}
	if d.Type != models.DokTam {
		t.Errorf("type = %s, want DOK_TAM", d.Type)
	}
	if !d.MinBid.Equal(dec(100)) || !d.BidStep.Equal(dec(50)) {
		t.Errorf("minBid/bidStep = %s/%s, want 100/50", d.MinBid, d.BidStep)
	}
	if !d.AdminFee.Equal(dec(200)) {
		t.Errorf("adminFee = %s, want 200", d.AdminFee)
	}

	// 2568 BE = 2025 CE
	want := time.Date(2025, 7, 15, 0, 0, 0, 0, time.Local).Unix()
	if d.StartDate != want {
		t.Errorf("startDate = %d, want %d", d.StartDate, want)
	}

	if d.Provenance["principal"] == "" || d.Provenance["type"] == "" {
		t.Errorf("provenance missing: %+v", d.Provenance)
	}
}

func TestParseLadderWithMemberList(t *testing.T) {
	text := `แชร์ขั้นบันได ดอกหัก
มือละ 5,000 รายวัน ทุก 3 วัน
1. เจ๊หมวย
2. สมชาย 5,500
3. นก 2หมื่น
4. ต้อม 5.5พัน`

	d := ParseAt(text, refTime)

	if d.BiddingType != models.BiddingFixed {
		t.Errorf("bidding = %s, want FIXED", d.BiddingType)
	}
	if d.Type != models.DokHak {
		t.Errorf("type = %s, want DOK_HAK", d.Type)
	}
	if d.Period != models.PeriodDaily || d.PeriodInterval != 3 {
		t.Errorf("period = %s/%d, want DAILY/3", d.Period, d.PeriodInterval)
	}

	if len(d.Members) != 4 {
		t.Fatalf("members = %d, want 4", len(d.Members))
	}
	tests := []struct {
		pos    int
		name   string
		amount decimal.Decimal
	}{
		{1, "เจ๊หมวย", decimal.Zero},
		{2, "สมชาย", dec(5500)},
		{3, "นก", dec(20000)},
		{4, "ต้อม", dec(5500)},
	}
	for i, tt := range tests {
		m := d.Members[i]
		if m.Position != tt.pos || m.Name != tt.name || !m.Amount.Equal(tt.amount) {
			t.Errorf("member %d = %+v, want {%d %s %s}", i, m, tt.pos, tt.name, tt.amount)
		}
	}
}

func TestParseInfersFixedFromMemberAmounts(t *testing.T) {
	text := `วงเพื่อนบ้าน
1. เอ 1,000
2. บี 1,100`

	d := ParseAt(text, refTime)
	if d.BiddingType != models.BiddingFixed {
		t.Errorf("bidding = %s, want inferred FIXED", d.BiddingType)
	}
	if d.Provenance["biddingType"] == "" {
		t.Error("inference not recorded in provenance")
	}
	if d.TotalSlots != 2 {
		t.Errorf("slots = %d, want inferred 2", d.TotalSlots)
	}
}

func TestParseExplicitAuctionNotOverridden(t *testing.T) {
	text := `วงประมูล
1. เอ 1,000`

	d := ParseAt(text, refTime)
	if d.BiddingType != models.BiddingAuction {
		t.Errorf("bidding = %s, explicit AUCTION must win over inference", d.BiddingType)
	}
}

func TestParseYearlessDateRollsForward(t *testing.T) {
	// 1 Feb has already passed at the June reference time.
	d := ParseAt("เริ่ม 1/2", refTime)
	want := time.Date(2026, 2, 1, 0, 0, 0, 0, time.Local).Unix()
	if d.StartDate != want {
		t.Errorf("startDate = %d, want next year's 1 Feb (%d)", d.StartDate, want)
	}
}

func TestParseAmountShorthand(t *testing.T) {
	tests := []struct {
		in   string
		want decimal.Decimal
	}{
		{"5,000", dec(5000)},
		{"5k", dec(5000)},
		{"2หมื่น", dec(20000)},
		{"1.5แสน", dec(150000)},
		{"3ร้อย", dec(300)},
		{"1ล้าน", dec(1000000)},
	}
	for _, tt := range tests {
		got, ok := parseAmount(tt.in)
		if !ok || !got.Equal(tt.want) {
			t.Errorf("parseAmount(%q) = %s/%v, want %s", tt.in, got, ok, tt.want)
		}
	}
}

func TestParseGarbageDegradesToEmpty(t *testing.T) {
	d := ParseAt("hello world\nnothing useful here", refTime)
	if d == nil {
		t.Fatal("Parse returned nil")
	}
	if d.Name != "" || d.TotalSlots != 0 || !d.Principal.IsZero() || len(d.Members) != 0 {
		t.Errorf("garbage produced fields: %+v", d)
	}
}
