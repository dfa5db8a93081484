// Package importer extracts circle-setup parameters from unstructured pasted
// text: chat messages, line-group announcements, and the like. Extraction is
// heuristic and best-effort; it never fails, it degrades to empty fields.
//
// The output is a pre-fill convenience only. Every draft must pass the same
// validation as manually entered data before it is committed.
package importer

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/teeraphan/wongshare/internal/models"
)

// Draft is a best-effort extraction result. Populated fields carry an entry
// in Provenance mapping the field name to the text fragment that produced
// it, so callers can show where a value came from.
type Draft struct {
	Name           string             `json:"name,omitempty"`
	Principal      decimal.Decimal    `json:"principal"`
	TotalPot       decimal.Decimal    `json:"totalPot"`
	TotalSlots     int                `json:"totalSlots"`
	Type           models.CircleType  `json:"type,omitempty"`
	BiddingType    models.BiddingType `json:"biddingType,omitempty"`
	Period         models.Period      `json:"period,omitempty"`
	PeriodInterval int                `json:"periodInterval,omitempty"`
	MinBid         decimal.Decimal    `json:"minBid"`
	BidStep        decimal.Decimal    `json:"bidStep"`
	AdminFee       decimal.Decimal    `json:"adminFee"`
	StartDate      int64              `json:"startDate,omitempty"`
	Members        []DraftMember      `json:"members,omitempty"`

	Provenance map[string]string `json:"provenance"`
}

// DraftMember is one entry from a numbered member list.
type DraftMember struct {
	Position int             `json:"position"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
}

var (
	memberLineRe = regexp.MustCompile(`^\s*(\d{1,2})[.)]\s*(.+?)\s*$`)
	dateRe       = regexp.MustCompile(`(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?`)
	slotCountRe  = regexp.MustCompile(`(\d+)\s*มือ`)
	intervalRe   = regexp.MustCompile(`ทุก\s*(\d+)\s*วัน`)
	// amount: digits with optional comma grouping and decimals, plus an
	// optional Thai magnitude word or "k" shorthand.
	amountRe = regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)\s*(ร้อย|พัน|หมื่น|แสน|ล้าน|[kK])?`)
)

// thaiMagnitudes maps currency-shorthand suffixes to multipliers.
var thaiMagnitudes = map[string]int64{
	"ร้อย": 100,
	"พัน":  1_000,
	"k":    1_000,
	"K":    1_000,
	"หมื่น": 10_000,
	"แสน":  100_000,
	"ล้าน":  1_000_000,
}

// principal / pot / fee keyword sets, checked in order within a line.
var (
	principalKeys = []string{"มือละ", "ต้นละ", "คนละ", "ส่งต่อมือ"}
	potKeys       = []string{"วงละ", "ยอดวง", "กองละ", "ยอด"}
	minBidKeys    = []string{"ขั้นต่ำ", "เปิดประมูล", "ดอกขั้นต่ำ"}
	bidStepKeys   = []string{"ครั้งละ", "สเต็ป", "บิดเพิ่ม"}
	adminFeeKeys  = []string{"ค่าดูแล", "ค่าต๋ง", "ค่าบริการ"}
)

// Parse extracts a draft from pasted text using the current time for
// year-less dates.
func Parse(text string) *Draft {
	return ParseAt(text, time.Now())
}

// ParseAt is Parse with an explicit reference time, for determinism.
func ParseAt(text string, now time.Time) *Draft {
	d := &Draft{Provenance: make(map[string]string)}

	explicitBidding := false
	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if m := memberLineRe.FindStringSubmatch(line); m != nil {
			d.addMember(m[1], m[2], line)
			continue
		}

		if d.Name == "" && (strings.Contains(line, "วง") || strings.Contains(line, "แชร์")) {
			d.Name = line
			d.Provenance["name"] = line
		}

		switch {
		case strings.Contains(line, "ดอกหัก"):
			d.Type = models.DokHak
			d.Provenance["type"] = "ดอกหัก"
		case strings.Contains(line, "ดอกตาม"):
			d.Type = models.DokTam
			d.Provenance["type"] = "ดอกตาม"
		}

		switch {
		case strings.Contains(line, "บันได") || strings.Contains(line, "ขั้นบันได"):
			d.BiddingType = models.BiddingFixed
			d.Provenance["biddingType"] = "บันได"
			explicitBidding = true
		case strings.Contains(line, "ประมูล") || strings.Contains(line, "บิด"):
			d.BiddingType = models.BiddingAuction
			d.Provenance["biddingType"] = "ประมูล"
			explicitBidding = true
		}

		switch {
		case strings.Contains(line, "รายวัน") || strings.Contains(line, "ทุกวัน"):
			d.Period = models.PeriodDaily
			d.PeriodInterval = 1
			d.Provenance["period"] = "รายวัน"
		case strings.Contains(line, "รายสัปดาห์") || strings.Contains(line, "รายอาทิตย์") || strings.Contains(line, "ทุกอาทิตย์"):
			d.Period = models.PeriodWeekly
			d.Provenance["period"] = "รายสัปดาห์"
		case strings.Contains(line, "รายเดือน") || strings.Contains(line, "ทุกเดือน"):
			d.Period = models.PeriodMonthly
			d.Provenance["period"] = "รายเดือน"
		}
		if m := intervalRe.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				d.Period = models.PeriodDaily
				d.PeriodInterval = n
				d.Provenance["periodInterval"] = m[0]
			}
		}

		if m := slotCountRe.FindStringSubmatch(line); m != nil && d.TotalSlots == 0 {
			if n, err := strconv.Atoi(m[1]); err == nil {
				d.TotalSlots = n
				d.Provenance["totalSlots"] = m[0]
			}
		}

		d.keywordAmount(line, principalKeys, &d.Principal, "principal")
		d.keywordAmount(line, minBidKeys, &d.MinBid, "minBid")
		d.keywordAmount(line, bidStepKeys, &d.BidStep, "bidStep")
		d.keywordAmount(line, adminFeeKeys, &d.AdminFee, "adminFee")
		// Pot keywords last: "ยอด" is a loose match and must not steal a
		// line already claimed by a sharper keyword.
		if d.Principal.IsZero() || !containsAny(line, principalKeys) {
			d.keywordAmount(line, potKeys, &d.TotalPot, "totalPot")
		}

		if d.StartDate == 0 && (strings.Contains(line, "เริ่ม") || strings.Contains(line, "เปิดวง") || dateRe.MatchString(line)) {
			if ts, matched, ok := parseDate(line, now); ok {
				d.StartDate = ts
				d.Provenance["startDate"] = matched
			}
		}
	}

	// A member list with explicit per-member amounts implies a ladder
	// circle unless bidding type was stated outright.
	if !explicitBidding && d.membersCarryAmounts() {
		d.BiddingType = models.BiddingFixed
		d.Provenance["biddingType"] = "inferred from member amounts"
	}
	if d.TotalSlots == 0 && len(d.Members) > 0 {
		d.TotalSlots = len(d.Members)
		d.Provenance["totalSlots"] = "inferred from member list"
	}
	return d
}

func (d *Draft) addMember(pos, rest, line string) {
	n, err := strconv.Atoi(pos)
	if err != nil {
		return
	}
	member := DraftMember{Position: n}
	rest = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rest), "บาท"))

	// A trailing amount ("3. สมชาย 5,500" / "4. นก 2หมื่น") splits off the
	// name; everything before it is the name.
	if loc := amountRe.FindStringIndex(rest); loc != nil && loc[1] == len(rest) {
		if amt, ok := parseAmount(rest[loc[0]:]); ok {
			member.Amount = amt
			rest = strings.TrimSpace(rest[:loc[0]])
		}
	}
	member.Name = strings.TrimSpace(rest)
	if member.Name == "" && member.Amount.IsZero() {
		return
	}
	d.Members = append(d.Members, member)
	d.Provenance["member:"+pos] = line
}

func (d *Draft) membersCarryAmounts() bool {
	for _, m := range d.Members {
		if m.Amount.IsPositive() {
			return true
		}
	}
	return false
}

// keywordAmount fills dst with the first amount following any of the
// keywords on the line, if dst is still empty.
func (d *Draft) keywordAmount(line string, keys []string, dst *decimal.Decimal, field string) {
	if !dst.IsZero() {
		return
	}
	for _, key := range keys {
		idx := strings.Index(line, key)
		if idx < 0 {
			continue
		}
		tail := line[idx+len(key):]
		if m := amountRe.FindString(tail); m != "" {
			if amt, ok := parseAmount(m); ok && amt.IsPositive() {
				*dst = amt
				d.Provenance[field] = strings.TrimSpace(key + " " + strings.TrimSpace(m))
				return
			}
		}
	}
}

func containsAny(line string, keys []string) bool {
	for _, key := range keys {
		if strings.Contains(line, key) {
			return true
		}
	}
	return false
}

// parseAmount reads "5,000", "5k", "2หมื่น", "1.5แสน" and the like.
func parseAmount(s string) (decimal.Decimal, bool) {
	m := amountRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return decimal.Zero, false
	}
	num := strings.ReplaceAll(m[1], ",", "")
	amt, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero, false
	}
	if mult, ok := thaiMagnitudes[m[2]]; ok {
		amt = amt.Mul(decimal.NewFromInt(mult))
	}
	return amt, true
}

// parseDate reads DD/MM or DD/MM/YYYY (Buddhist years tolerated). A
// year-less date lands in the current year, or the next if that day has
// already passed.
func parseDate(line string, now time.Time) (int64, string, bool) {
	m := dateRe.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return 0, "", false
	}

	year := now.Year()
	if m[3] != "" {
		y, _ := strconv.Atoi(m[3])
		switch {
		case y >= 2400: // Buddhist era
			y -= 543
		case y < 100:
			y += 2000
		}
		year = y
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	if m[3] == "" && date.Before(now.Truncate(24*time.Hour)) {
		date = date.AddDate(1, 0, 0)
	}
	return date.Unix(), m[0], true
}
