package rpc

import (
	"github.com/shopspring/decimal"

	"github.com/teeraphan/wongshare/internal/auction"
	"github.com/teeraphan/wongshare/internal/importer"
	"github.com/teeraphan/wongshare/internal/models"
)

// Auth messages.

type RegisterRequest struct {
	Email    string      `json:"email"`
	Name     string      `json:"name"`
	Password string      `json:"password"`
	Role     models.Role `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserInfo struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

type AuthResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// Circle messages.

type CreateCircleRequest struct {
	Circle models.Circle `json:"circle"`
}

type CircleResponse struct {
	Circle models.Circle `json:"circle"`
}

type GetCircleRequest struct {
	CircleID string `json:"circleId"`
}

type ListCirclesRequest struct{}

type ListCirclesResponse struct {
	Circles []models.Circle `json:"circles"`
}

// UpdateCircleRequest patches a subset of circle fields. Field names follow
// the JSON names on models.Circle; unknown fields are rejected.
type UpdateCircleRequest struct {
	CircleID string         `json:"circleId"`
	Fields   map[string]any `json:"fields"`
}

type UpdateSlotRequest struct {
	CircleID   string         `json:"circleId"`
	SlotNumber int            `json:"slotNumber"`
	Fields     map[string]any `json:"fields"`
}

type DeleteCircleRequest struct {
	CircleID string `json:"circleId"`
}

type DeleteCircleResponse struct{}

type StartCircleRequest struct {
	CircleID string `json:"circleId"`
}

type RecordBidRequest struct {
	CircleID    string          `json:"circleId"`
	RoundNumber int             `json:"roundNumber"`
	WinnerID    string          `json:"winnerId"`
	BidAmount   decimal.Decimal `json:"bidAmount"`
	TotalPot    decimal.Decimal `json:"totalPot"`
}

type CompleteRoundRequest struct {
	CircleID    string `json:"circleId"`
	RoundNumber int    `json:"roundNumber"`
}

type CloseCircleRequest struct {
	CircleID string `json:"circleId"`
}

type ListSlotsRequest struct {
	CircleID string `json:"circleId"`
}

// SlotView is a display-ready slot in payout order.
type SlotView struct {
	SlotNumber  int                 `json:"slotNumber"`
	Empty       bool                `json:"empty"`
	Member      models.CircleMember `json:"member,omitempty"`
	DisplayDraw string              `json:"displayDraw"`
	Due         decimal.Decimal     `json:"due"`
}

type ListSlotsResponse struct {
	Slots []SlotView `json:"slots"`
}

// RateMemberRequest sets the advisory risk and credit scores on a circle
// member's user record. Admin only.
type RateMemberRequest struct {
	CircleID    string `json:"circleId"`
	MemberID    string `json:"memberId"`
	RiskScore   int    `json:"riskScore"`
	CreditScore int    `json:"creditScore"`
}

type RateMemberResponse struct {
	User models.User `json:"user"`
}

// Payment messages.

type SubmitPaymentRequest struct {
	CircleID    string          `json:"circleId"`
	RoundNumber int             `json:"roundNumber"`
	Amount      decimal.Decimal `json:"amount"`
	SlipName    string          `json:"slipName,omitempty"`
	Slip        []byte          `json:"slip,omitempty"`
	Note        string          `json:"note,omitempty"`
}

type SubmitClosingBalanceRequest struct {
	CircleID string          `json:"circleId"`
	Amount   decimal.Decimal `json:"amount"`
	SlipName string          `json:"slipName,omitempty"`
	Slip     []byte          `json:"slip,omitempty"`
	Note     string          `json:"note,omitempty"`
}

// Verification reports what the slip verifier extracted from an uploaded slip.
type Verification struct {
	IsValid   bool            `json:"isValid"`
	Sender    string          `json:"sender,omitempty"`
	Receiver  string          `json:"receiver,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	TxID      string          `json:"txId,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
	Message   string          `json:"message,omitempty"`
}

type TransactionResponse struct {
	Transaction  models.Transaction `json:"transaction"`
	Verification *Verification      `json:"verification,omitempty"`
}

type ApproveTransactionRequest struct {
	TransactionID string `json:"transactionId"`
}

type RejectTransactionRequest struct {
	TransactionID string `json:"transactionId"`
	Reason        string `json:"reason,omitempty"`
}

type ListTransactionsRequest struct {
	CircleID    string `json:"circleId"`
	RoundNumber int    `json:"roundNumber,omitempty"`
}

type ListTransactionsResponse struct {
	Transactions []models.Transaction `json:"transactions"`
}

type RoundSummaryRequest struct {
	CircleID    string `json:"circleId"`
	RoundNumber int    `json:"roundNumber"`
}

type MemberDue struct {
	MemberID    string          `json:"memberId"`
	DisplayName string          `json:"displayName"`
	SlotNumber  int             `json:"slotNumber"`
	Amount      decimal.Decimal `json:"amount"`
	Settled     bool            `json:"settled"`
}

type OverdueEntry struct {
	MemberID    string          `json:"memberId"`
	DisplayName string          `json:"displayName"`
	Amount      decimal.Decimal `json:"amount"`
	DaysLate    int             `json:"daysLate"`
}

type RoundSummaryResponse struct {
	ExpectedTotal decimal.Decimal `json:"expectedTotal"`
	CollectedSum  decimal.Decimal `json:"collectedSum"`
	Collectible   bool            `json:"collectible"`
	Dues          []MemberDue     `json:"dues"`
	Overdue       []OverdueEntry  `json:"overdue"`
}

type AddPayoutRequest struct {
	CircleID    string          `json:"circleId"`
	RoundNumber int             `json:"roundNumber"`
	MemberID    string          `json:"memberId"`
	Amount      decimal.Decimal `json:"amount"`
	SlipName    string          `json:"slipName,omitempty"`
	Slip        []byte          `json:"slip,omitempty"`
	Note        string          `json:"note,omitempty"`
}

type PayoutResponse struct {
	Payout models.Payout `json:"payout"`
}

// Import messages.

type ParseScriptRequest struct {
	Text string `json:"text"`
}

type ParseScriptResponse struct {
	Draft importer.Draft `json:"draft"`
}

// Auction messages.

type OpenRoomRequest struct {
	CircleID    string `json:"circleId"`
	RoundNumber int    `json:"roundNumber"`
}

type SessionResponse struct {
	Session auction.Session `json:"session"`
}

type StartAuctionRequest struct {
	CircleID string `json:"circleId"`
}

type PlaceBidRequest struct {
	CircleID string          `json:"circleId"`
	Amount   decimal.Decimal `json:"amount"`
}

type PlaceBidResponse struct {
	Accepted bool            `json:"accepted"`
	Session  auction.Session `json:"session"`
}

type CloseRoomRequest struct {
	CircleID string `json:"circleId"`
}

type CloseRoomResponse struct{}

type SubscribeRequest struct {
	CircleID string `json:"circleId"`
}

// AuctionEvent is streamed to auction subscribers. Each event carries a full
// session snapshot, so delivery order does not matter to clients.
type AuctionEvent = auction.Event
