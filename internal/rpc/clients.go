package rpc

import (
	"context"

	"connectrpc.com/connect"
)

func clientOpts(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec())}, opts...)
}

// AuthServiceClient calls the auth procedures over HTTP.
type AuthServiceClient struct {
	register *connect.Client[RegisterRequest, AuthResponse]
	login    *connect.Client[LoginRequest, AuthResponse]
}

func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthServiceClient {
	opts = clientOpts(opts)
	return &AuthServiceClient{
		register: connect.NewClient[RegisterRequest, AuthResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:    connect.NewClient[LoginRequest, AuthResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
	}
}

func (c *AuthServiceClient) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[AuthResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *AuthServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[AuthResponse], error) {
	return c.login.CallUnary(ctx, req)
}

// CircleServiceClient calls the circle procedures over HTTP.
type CircleServiceClient struct {
	createCircle  *connect.Client[CreateCircleRequest, CircleResponse]
	getCircle     *connect.Client[GetCircleRequest, CircleResponse]
	listCircles   *connect.Client[ListCirclesRequest, ListCirclesResponse]
	updateCircle  *connect.Client[UpdateCircleRequest, CircleResponse]
	updateSlot    *connect.Client[UpdateSlotRequest, CircleResponse]
	deleteCircle  *connect.Client[DeleteCircleRequest, DeleteCircleResponse]
	startCircle   *connect.Client[StartCircleRequest, CircleResponse]
	recordBid     *connect.Client[RecordBidRequest, CircleResponse]
	completeRound *connect.Client[CompleteRoundRequest, CircleResponse]
	closeCircle   *connect.Client[CloseCircleRequest, CircleResponse]
	listSlots     *connect.Client[ListSlotsRequest, ListSlotsResponse]
	rateMember    *connect.Client[RateMemberRequest, RateMemberResponse]
}

func NewCircleServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *CircleServiceClient {
	opts = clientOpts(opts)
	return &CircleServiceClient{
		createCircle:  connect.NewClient[CreateCircleRequest, CircleResponse](httpClient, baseURL+CircleServiceCreateCircleProcedure, opts...),
		getCircle:     connect.NewClient[GetCircleRequest, CircleResponse](httpClient, baseURL+CircleServiceGetCircleProcedure, opts...),
		listCircles:   connect.NewClient[ListCirclesRequest, ListCirclesResponse](httpClient, baseURL+CircleServiceListCirclesProcedure, opts...),
		updateCircle:  connect.NewClient[UpdateCircleRequest, CircleResponse](httpClient, baseURL+CircleServiceUpdateCircleProcedure, opts...),
		updateSlot:    connect.NewClient[UpdateSlotRequest, CircleResponse](httpClient, baseURL+CircleServiceUpdateSlotProcedure, opts...),
		deleteCircle:  connect.NewClient[DeleteCircleRequest, DeleteCircleResponse](httpClient, baseURL+CircleServiceDeleteCircleProcedure, opts...),
		startCircle:   connect.NewClient[StartCircleRequest, CircleResponse](httpClient, baseURL+CircleServiceStartCircleProcedure, opts...),
		recordBid:     connect.NewClient[RecordBidRequest, CircleResponse](httpClient, baseURL+CircleServiceRecordBidProcedure, opts...),
		completeRound: connect.NewClient[CompleteRoundRequest, CircleResponse](httpClient, baseURL+CircleServiceCompleteRoundProcedure, opts...),
		closeCircle:   connect.NewClient[CloseCircleRequest, CircleResponse](httpClient, baseURL+CircleServiceCloseCircleProcedure, opts...),
		listSlots:     connect.NewClient[ListSlotsRequest, ListSlotsResponse](httpClient, baseURL+CircleServiceListSlotsProcedure, opts...),
		rateMember:    connect.NewClient[RateMemberRequest, RateMemberResponse](httpClient, baseURL+CircleServiceRateMemberProcedure, opts...),
	}
}

func (c *CircleServiceClient) CreateCircle(ctx context.Context, req *connect.Request[CreateCircleRequest]) (*connect.Response[CircleResponse], error) {
	return c.createCircle.CallUnary(ctx, req)
}

func (c *CircleServiceClient) GetCircle(ctx context.Context, req *connect.Request[GetCircleRequest]) (*connect.Response[CircleResponse], error) {
	return c.getCircle.CallUnary(ctx, req)
}

func (c *CircleServiceClient) ListCircles(ctx context.Context, req *connect.Request[ListCirclesRequest]) (*connect.Response[ListCirclesResponse], error) {
	return c.listCircles.CallUnary(ctx, req)
}

func (c *CircleServiceClient) UpdateCircle(ctx context.Context, req *connect.Request[UpdateCircleRequest]) (*connect.Response[CircleResponse], error) {
	return c.updateCircle.CallUnary(ctx, req)
}

func (c *CircleServiceClient) UpdateSlot(ctx context.Context, req *connect.Request[UpdateSlotRequest]) (*connect.Response[CircleResponse], error) {
	return c.updateSlot.CallUnary(ctx, req)
}

func (c *CircleServiceClient) DeleteCircle(ctx context.Context, req *connect.Request[DeleteCircleRequest]) (*connect.Response[DeleteCircleResponse], error) {
	return c.deleteCircle.CallUnary(ctx, req)
}

func (c *CircleServiceClient) StartCircle(ctx context.Context, req *connect.Request[StartCircleRequest]) (*connect.Response[CircleResponse], error) {
	return c.startCircle.CallUnary(ctx, req)
}

func (c *CircleServiceClient) RecordBid(ctx context.Context, req *connect.Request[RecordBidRequest]) (*connect.Response[CircleResponse], error) {
	return c.recordBid.CallUnary(ctx, req)
}

func (c *CircleServiceClient) CompleteRound(ctx context.Context, req *connect.Request[CompleteRoundRequest]) (*connect.Response[CircleResponse], error) {
	return c.completeRound.CallUnary(ctx, req)
}

func (c *CircleServiceClient) CloseCircle(ctx context.Context, req *connect.Request[CloseCircleRequest]) (*connect.Response[CircleResponse], error) {
	return c.closeCircle.CallUnary(ctx, req)
}

func (c *CircleServiceClient) ListSlots(ctx context.Context, req *connect.Request[ListSlotsRequest]) (*connect.Response[ListSlotsResponse], error) {
	return c.listSlots.CallUnary(ctx, req)
}

func (c *CircleServiceClient) RateMember(ctx context.Context, req *connect.Request[RateMemberRequest]) (*connect.Response[RateMemberResponse], error) {
	return c.rateMember.CallUnary(ctx, req)
}

// PaymentServiceClient calls the payment procedures over HTTP.
type PaymentServiceClient struct {
	submitPayment        *connect.Client[SubmitPaymentRequest, TransactionResponse]
	submitClosingBalance *connect.Client[SubmitClosingBalanceRequest, TransactionResponse]
	approveTransaction   *connect.Client[ApproveTransactionRequest, TransactionResponse]
	rejectTransaction    *connect.Client[RejectTransactionRequest, TransactionResponse]
	listTransactions     *connect.Client[ListTransactionsRequest, ListTransactionsResponse]
	roundSummary         *connect.Client[RoundSummaryRequest, RoundSummaryResponse]
	addPayout            *connect.Client[AddPayoutRequest, PayoutResponse]
}

func NewPaymentServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *PaymentServiceClient {
	opts = clientOpts(opts)
	return &PaymentServiceClient{
		submitPayment:        connect.NewClient[SubmitPaymentRequest, TransactionResponse](httpClient, baseURL+PaymentServiceSubmitPaymentProcedure, opts...),
		submitClosingBalance: connect.NewClient[SubmitClosingBalanceRequest, TransactionResponse](httpClient, baseURL+PaymentServiceSubmitClosingBalanceProcedure, opts...),
		approveTransaction:   connect.NewClient[ApproveTransactionRequest, TransactionResponse](httpClient, baseURL+PaymentServiceApproveTransactionProcedure, opts...),
		rejectTransaction:    connect.NewClient[RejectTransactionRequest, TransactionResponse](httpClient, baseURL+PaymentServiceRejectTransactionProcedure, opts...),
		listTransactions:     connect.NewClient[ListTransactionsRequest, ListTransactionsResponse](httpClient, baseURL+PaymentServiceListTransactionsProcedure, opts...),
		roundSummary:         connect.NewClient[RoundSummaryRequest, RoundSummaryResponse](httpClient, baseURL+PaymentServiceRoundSummaryProcedure, opts...),
		addPayout:            connect.NewClient[AddPayoutRequest, PayoutResponse](httpClient, baseURL+PaymentServiceAddPayoutProcedure, opts...),
	}
}

func (c *PaymentServiceClient) SubmitPayment(ctx context.Context, req *connect.Request[SubmitPaymentRequest]) (*connect.Response[TransactionResponse], error) {
	return c.submitPayment.CallUnary(ctx, req)
}

func (c *PaymentServiceClient) SubmitClosingBalance(ctx context.Context, req *connect.Request[SubmitClosingBalanceRequest]) (*connect.Response[TransactionResponse], error) {
	return c.submitClosingBalance.CallUnary(ctx, req)
}

func (c *PaymentServiceClient) ApproveTransaction(ctx context.Context, req *connect.Request[ApproveTransactionRequest]) (*connect.Response[TransactionResponse], error) {
	return c.approveTransaction.CallUnary(ctx, req)
}

func (c *PaymentServiceClient) RejectTransaction(ctx context.Context, req *connect.Request[RejectTransactionRequest]) (*connect.Response[TransactionResponse], error) {
	return c.rejectTransaction.CallUnary(ctx, req)
}

func (c *PaymentServiceClient) ListTransactions(ctx context.Context, req *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

func (c *PaymentServiceClient) RoundSummary(ctx context.Context, req *connect.Request[RoundSummaryRequest]) (*connect.Response[RoundSummaryResponse], error) {
	return c.roundSummary.CallUnary(ctx, req)
}

func (c *PaymentServiceClient) AddPayout(ctx context.Context, req *connect.Request[AddPayoutRequest]) (*connect.Response[PayoutResponse], error) {
	return c.addPayout.CallUnary(ctx, req)
}

// ImportServiceClient calls the import procedures over HTTP.
type ImportServiceClient struct {
	parseScript *connect.Client[ParseScriptRequest, ParseScriptResponse]
}

func NewImportServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ImportServiceClient {
	opts = clientOpts(opts)
	return &ImportServiceClient{
		parseScript: connect.NewClient[ParseScriptRequest, ParseScriptResponse](httpClient, baseURL+ImportServiceParseScriptProcedure, opts...),
	}
}

func (c *ImportServiceClient) ParseScript(ctx context.Context, req *connect.Request[ParseScriptRequest]) (*connect.Response[ParseScriptResponse], error) {
	return c.parseScript.CallUnary(ctx, req)
}

// AuctionServiceClient calls the auction procedures over HTTP.
type AuctionServiceClient struct {
	openRoom     *connect.Client[OpenRoomRequest, SessionResponse]
	startAuction *connect.Client[StartAuctionRequest, SessionResponse]
	placeBid     *connect.Client[PlaceBidRequest, PlaceBidResponse]
	closeRoom    *connect.Client[CloseRoomRequest, CloseRoomResponse]
	subscribe    *connect.Client[SubscribeRequest, AuctionEvent]
}

func NewAuctionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuctionServiceClient {
	opts = clientOpts(opts)
	return &AuctionServiceClient{
		openRoom:     connect.NewClient[OpenRoomRequest, SessionResponse](httpClient, baseURL+AuctionServiceOpenRoomProcedure, opts...),
		startAuction: connect.NewClient[StartAuctionRequest, SessionResponse](httpClient, baseURL+AuctionServiceStartAuctionProcedure, opts...),
		placeBid:     connect.NewClient[PlaceBidRequest, PlaceBidResponse](httpClient, baseURL+AuctionServicePlaceBidProcedure, opts...),
		closeRoom:    connect.NewClient[CloseRoomRequest, CloseRoomResponse](httpClient, baseURL+AuctionServiceCloseRoomProcedure, opts...),
		subscribe:    connect.NewClient[SubscribeRequest, AuctionEvent](httpClient, baseURL+AuctionServiceSubscribeProcedure, opts...),
	}
}

func (c *AuctionServiceClient) OpenRoom(ctx context.Context, req *connect.Request[OpenRoomRequest]) (*connect.Response[SessionResponse], error) {
	return c.openRoom.CallUnary(ctx, req)
}

func (c *AuctionServiceClient) StartAuction(ctx context.Context, req *connect.Request[StartAuctionRequest]) (*connect.Response[SessionResponse], error) {
	return c.startAuction.CallUnary(ctx, req)
}

func (c *AuctionServiceClient) PlaceBid(ctx context.Context, req *connect.Request[PlaceBidRequest]) (*connect.Response[PlaceBidResponse], error) {
	return c.placeBid.CallUnary(ctx, req)
}

func (c *AuctionServiceClient) CloseRoom(ctx context.Context, req *connect.Request[CloseRoomRequest]) (*connect.Response[CloseRoomResponse], error) {
	return c.closeRoom.CallUnary(ctx, req)
}

func (c *AuctionServiceClient) Subscribe(ctx context.Context, req *connect.Request[SubscribeRequest]) (*connect.ServerStreamForClient[AuctionEvent], error) {
	return c.subscribe.CallServerStream(ctx, req)
}
