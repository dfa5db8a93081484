package rpc

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// Procedure paths. The version segment is part of the wire contract; bump it
// for breaking message changes.
const (
	AuthServicePath    = "/wongshare.v1.AuthService/"
	CircleServicePath  = "/wongshare.v1.CircleService/"
	PaymentServicePath = "/wongshare.v1.PaymentService/"
	ImportServicePath  = "/wongshare.v1.ImportService/"
	AuctionServicePath = "/wongshare.v1.AuctionService/"

	AuthServiceRegisterProcedure = AuthServicePath + "Register"
	AuthServiceLoginProcedure    = AuthServicePath + "Login"

	CircleServiceCreateCircleProcedure  = CircleServicePath + "CreateCircle"
	CircleServiceGetCircleProcedure     = CircleServicePath + "GetCircle"
	CircleServiceListCirclesProcedure   = CircleServicePath + "ListCircles"
	CircleServiceUpdateCircleProcedure  = CircleServicePath + "UpdateCircle"
	CircleServiceUpdateSlotProcedure    = CircleServicePath + "UpdateSlot"
	CircleServiceDeleteCircleProcedure  = CircleServicePath + "DeleteCircle"
	CircleServiceStartCircleProcedure   = CircleServicePath + "StartCircle"
	CircleServiceRecordBidProcedure     = CircleServicePath + "RecordBid"
	CircleServiceCompleteRoundProcedure = CircleServicePath + "CompleteRound"
	CircleServiceCloseCircleProcedure   = CircleServicePath + "CloseCircle"
	CircleServiceListSlotsProcedure     = CircleServicePath + "ListSlots"
	CircleServiceRateMemberProcedure    = CircleServicePath + "RateMember"

	PaymentServiceSubmitPaymentProcedure        = PaymentServicePath + "SubmitPayment"
	PaymentServiceSubmitClosingBalanceProcedure = PaymentServicePath + "SubmitClosingBalance"
	PaymentServiceApproveTransactionProcedure   = PaymentServicePath + "ApproveTransaction"
	PaymentServiceRejectTransactionProcedure    = PaymentServicePath + "RejectTransaction"
	PaymentServiceListTransactionsProcedure     = PaymentServicePath + "ListTransactions"
	PaymentServiceRoundSummaryProcedure         = PaymentServicePath + "RoundSummary"
	PaymentServiceAddPayoutProcedure            = PaymentServicePath + "AddPayout"

	ImportServiceParseScriptProcedure = ImportServicePath + "ParseScript"

	AuctionServiceOpenRoomProcedure     = AuctionServicePath + "OpenRoom"
	AuctionServiceStartAuctionProcedure = AuctionServicePath + "StartAuction"
	AuctionServicePlaceBidProcedure     = AuctionServicePath + "PlaceBid"
	AuctionServiceCloseRoomProcedure    = AuctionServicePath + "CloseRoom"
	AuctionServiceSubscribeProcedure    = AuctionServicePath + "Subscribe"
)

// AuthServiceHandler is implemented by the auth service.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[AuthResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[AuthResponse], error)
}

// NewAuthServiceHandler builds an http.Handler for the auth procedures and
// returns the path prefix it must be mounted on.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec())}, opts...)
	mux := http.NewServeMux()
	mux.Handle(AuthServiceRegisterProcedure, connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...))
	mux.Handle(AuthServiceLoginProcedure, connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...))
	return AuthServicePath, mux
}

// CircleServiceHandler is implemented by the circle service.
type CircleServiceHandler interface {
	CreateCircle(context.Context, *connect.Request[CreateCircleRequest]) (*connect.Response[CircleResponse], error)
	GetCircle(context.Context, *connect.Request[GetCircleRequest]) (*connect.Response[CircleResponse], error)
	ListCircles(context.Context, *connect.Request[ListCirclesRequest]) (*connect.Response[ListCirclesResponse], error)
	UpdateCircle(context.Context, *connect.Request[UpdateCircleRequest]) (*connect.Response[CircleResponse], error)
	UpdateSlot(context.Context, *connect.Request[UpdateSlotRequest]) (*connect.Response[CircleResponse], error)
	DeleteCircle(context.Context, *connect.Request[DeleteCircleRequest]) (*connect.Response[DeleteCircleResponse], error)
	StartCircle(context.Context, *connect.Request[StartCircleRequest]) (*connect.Response[CircleResponse], error)
	RecordBid(context.Context, *connect.Request[RecordBidRequest]) (*connect.Response[CircleResponse], error)
	CompleteRound(context.Context, *connect.Request[CompleteRoundRequest]) (*connect.Response[CircleResponse], error)
	CloseCircle(context.Context, *connect.Request[CloseCircleRequest]) (*connect.Response[CircleResponse], error)
	ListSlots(context.Context, *connect.Request[ListSlotsRequest]) (*connect.Response[ListSlotsResponse], error)
	RateMember(context.Context, *connect.Request[RateMemberRequest]) (*connect.Response[RateMemberResponse], error)
}

func NewCircleServiceHandler(svc CircleServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec())}, opts...)
	mux := http.NewServeMux()
	mux.Handle(CircleServiceCreateCircleProcedure, connect.NewUnaryHandler(CircleServiceCreateCircleProcedure, svc.CreateCircle, opts...))
	mux.Handle(CircleServiceGetCircleProcedure, connect.NewUnaryHandler(CircleServiceGetCircleProcedure, svc.GetCircle, opts...))
	mux.Handle(CircleServiceListCirclesProcedure, connect.NewUnaryHandler(CircleServiceListCirclesProcedure, svc.ListCircles, opts...))
	mux.Handle(CircleServiceUpdateCircleProcedure, connect.NewUnaryHandler(CircleServiceUpdateCircleProcedure, svc.UpdateCircle, opts...))
	mux.Handle(CircleServiceUpdateSlotProcedure, connect.NewUnaryHandler(CircleServiceUpdateSlotProcedure, svc.UpdateSlot, opts...))
	mux.Handle(CircleServiceDeleteCircleProcedure, connect.NewUnaryHandler(CircleServiceDeleteCircleProcedure, svc.DeleteCircle, opts...))
	mux.Handle(CircleServiceStartCircleProcedure, connect.NewUnaryHandler(CircleServiceStartCircleProcedure, svc.StartCircle, opts...))
	mux.Handle(CircleServiceRecordBidProcedure, connect.NewUnaryHandler(CircleServiceRecordBidProcedure, svc.RecordBid, opts...))
	mux.Handle(CircleServiceCompleteRoundProcedure, connect.NewUnaryHandler(CircleServiceCompleteRoundProcedure, svc.CompleteRound, opts...))
	mux.Handle(CircleServiceCloseCircleProcedure, connect.NewUnaryHandler(CircleServiceCloseCircleProcedure, svc.CloseCircle, opts...))
	mux.Handle(CircleServiceListSlotsProcedure, connect.NewUnaryHandler(CircleServiceListSlotsProcedure, svc.ListSlots, opts...))
	mux.Handle(CircleServiceRateMemberProcedure, connect.NewUnaryHandler(CircleServiceRateMemberProcedure, svc.RateMember, opts...))
	return CircleServicePath, mux
}

// PaymentServiceHandler is implemented by the payment service.
type PaymentServiceHandler interface {
	SubmitPayment(context.Context, *connect.Request[SubmitPaymentRequest]) (*connect.Response[TransactionResponse], error)
	SubmitClosingBalance(context.Context, *connect.Request[SubmitClosingBalanceRequest]) (*connect.Response[TransactionResponse], error)
	ApproveTransaction(context.Context, *connect.Request[ApproveTransactionRequest]) (*connect.Response[TransactionResponse], error)
	RejectTransaction(context.Context, *connect.Request[RejectTransactionRequest]) (*connect.Response[TransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error)
	RoundSummary(context.Context, *connect.Request[RoundSummaryRequest]) (*connect.Response[RoundSummaryResponse], error)
	AddPayout(context.Context, *connect.Request[AddPayoutRequest]) (*connect.Response[PayoutResponse], error)
}

func NewPaymentServiceHandler(svc PaymentServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec())}, opts...)
	mux := http.NewServeMux()
	mux.Handle(PaymentServiceSubmitPaymentProcedure, connect.NewUnaryHandler(PaymentServiceSubmitPaymentProcedure, svc.SubmitPayment, opts...))
	mux.Handle(PaymentServiceSubmitClosingBalanceProcedure, connect.NewUnaryHandler(PaymentServiceSubmitClosingBalanceProcedure, svc.SubmitClosingBalance, opts...))
	mux.Handle(PaymentServiceApproveTransactionProcedure, connect.NewUnaryHandler(PaymentServiceApproveTransactionProcedure, svc.ApproveTransaction, opts...))
	mux.Handle(PaymentServiceRejectTransactionProcedure, connect.NewUnaryHandler(PaymentServiceRejectTransactionProcedure, svc.RejectTransaction, opts...))
	mux.Handle(PaymentServiceListTransactionsProcedure, connect.NewUnaryHandler(PaymentServiceListTransactionsProcedure, svc.ListTransactions, opts...))
	mux.Handle(PaymentServiceRoundSummaryProcedure, connect.NewUnaryHandler(PaymentServiceRoundSummaryProcedure, svc.RoundSummary, opts...))
	mux.Handle(PaymentServiceAddPayoutProcedure, connect.NewUnaryHandler(PaymentServiceAddPayoutProcedure, svc.AddPayout, opts...))
	return PaymentServicePath, mux
}

// ImportServiceHandler is implemented by the import service.
type ImportServiceHandler interface {
	ParseScript(context.Context, *connect.Request[ParseScriptRequest]) (*connect.Response[ParseScriptResponse], error)
}

func NewImportServiceHandler(svc ImportServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec())}, opts...)
	mux := http.NewServeMux()
	mux.Handle(ImportServiceParseScriptProcedure, connect.NewUnaryHandler(ImportServiceParseScriptProcedure, svc.ParseScript, opts...))
	return ImportServicePath, mux
}

// AuctionServiceHandler is implemented by the auction service. Subscribe is
// a server stream; everything else is unary.
type AuctionServiceHandler interface {
	OpenRoom(context.Context, *connect.Request[OpenRoomRequest]) (*connect.Response[SessionResponse], error)
	StartAuction(context.Context, *connect.Request[StartAuctionRequest]) (*connect.Response[SessionResponse], error)
	PlaceBid(context.Context, *connect.Request[PlaceBidRequest]) (*connect.Response[PlaceBidResponse], error)
	CloseRoom(context.Context, *connect.Request[CloseRoomRequest]) (*connect.Response[CloseRoomResponse], error)
	Subscribe(context.Context, *connect.Request[SubscribeRequest], *connect.ServerStream[AuctionEvent]) error
}

func NewAuctionServiceHandler(svc AuctionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec())}, opts...)
	mux := http.NewServeMux()
	mux.Handle(AuctionServiceOpenRoomProcedure, connect.NewUnaryHandler(AuctionServiceOpenRoomProcedure, svc.OpenRoom, opts...))
	mux.Handle(AuctionServiceStartAuctionProcedure, connect.NewUnaryHandler(AuctionServiceStartAuctionProcedure, svc.StartAuction, opts...))
	mux.Handle(AuctionServicePlaceBidProcedure, connect.NewUnaryHandler(AuctionServicePlaceBidProcedure, svc.PlaceBid, opts...))
	mux.Handle(AuctionServiceCloseRoomProcedure, connect.NewUnaryHandler(AuctionServiceCloseRoomProcedure, svc.CloseRoom, opts...))
	mux.Handle(AuctionServiceSubscribeProcedure, connect.NewServerStreamHandler(AuctionServiceSubscribeProcedure, svc.Subscribe, opts...))
	return AuctionServicePath, mux
}
