package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/teeraphan/wongshare/internal/auction"
	"github.com/teeraphan/wongshare/internal/auth"
	"github.com/teeraphan/wongshare/internal/lifecycle"
	"github.com/teeraphan/wongshare/internal/middleware"
	"github.com/teeraphan/wongshare/internal/models"
	"github.com/teeraphan/wongshare/internal/rpc"
	"github.com/teeraphan/wongshare/internal/storage"
)

// AuctionService implements the Connect AuctionService: the live bidding
// rooms. Rooms are transient hub state; the recorded outcome lands through
// CircleService.RecordBid.
type AuctionService struct {
	store      storage.Store
	hub        *auction.Hub
	jwtManager *auth.JWTManager
}

// NewAuctionService creates a new AuctionService. The JWT manager is needed
// because the Subscribe stream authenticates its own header; unary
// interceptors do not wrap streams.
func NewAuctionService(store storage.Store, hub *auction.Hub, jwtManager *auth.JWTManager) *AuctionService {
	return &AuctionService{store: store, hub: hub, jwtManager: jwtManager}
}

// hubError maps hub failures onto Connect codes.
func hubError(err error) *connect.Error {
	switch {
	case errors.Is(err, auction.ErrNoRoom):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, auction.ErrRoomExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, auction.ErrNotOwner):
		return connect.NewError(connect.CodePermissionDenied, err)
	default:
		return connect.NewError(connect.CodeFailedPrecondition, err)
	}
}

// OpenRoom opens a bidding room for one round of a running auction circle.
func (s *AuctionService) OpenRoom(ctx context.Context, req *connect.Request[rpc.OpenRoomRequest]) (*connect.Response[rpc.SessionResponse], error) {
	userID := middleware.GetUserID(ctx)
	slog.Info("OpenRoom request", "circle_id", req.Msg.CircleID, "round", req.Msg.RoundNumber, "user_id", userID)

	circle, err := s.store.GetCircle(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, storeError(err)
	}
	if !canAdminister(ctx, circle) {
		return nil, connect.NewError(connect.CodePermissionDenied, errPermission)
	}
	if circle.BiddingType != models.BiddingAuction {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errors.New("circle does not run auctions"))
	}
	if !circle.Status.Running() {
		return nil, connect.NewError(connect.CodeFailedPrecondition, lifecycle.ErrNotRunning)
	}
	round := circle.Round(req.Msg.RoundNumber)
	if round == nil {
		return nil, connect.NewError(connect.CodeNotFound, lifecycle.ErrRoundNotFound)
	}
	if round.Status == models.RoundCompleted || round.WinnerID != "" {
		return nil, connect.NewError(connect.CodeFailedPrecondition, lifecycle.ErrRoundNotOpen)
	}

	room, err := s.hub.Open(circle.ID, round.RoundNumber, userID, circle.MinBid, circle.BidStep)
	if err != nil {
		return nil, hubError(err)
	}
	slog.Info("Bidding room opened", "circle_id", circle.ID, "round", round.RoundNumber)
	return connect.NewResponse(&rpc.SessionResponse{Session: room.Snapshot()}), nil
}

// StartAuction starts the countdown. Only the room owner may start it.
func (s *AuctionService) StartAuction(ctx context.Context, req *connect.Request[rpc.StartAuctionRequest]) (*connect.Response[rpc.SessionResponse], error) {
	room, err := s.hub.Room(req.Msg.CircleID)
	if err != nil {
		return nil, hubError(err)
	}
	if err := room.Start(middleware.GetUserID(ctx)); err != nil {
		return nil, hubError(err)
	}
	slog.Info("Auction started", "circle_id", req.Msg.CircleID)
	return connect.NewResponse(&rpc.SessionResponse{Session: room.Snapshot()}), nil
}

// PlaceBid submits a bid into the live session. Rejected bids are not
// errors; the response says whether the bid took.
func (s *AuctionService) PlaceBid(ctx context.Context, req *connect.Request[rpc.PlaceBidRequest]) (*connect.Response[rpc.PlaceBidResponse], error) {
	userID := middleware.GetUserID(ctx)

	circle, err := s.store.GetCircle(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, storeError(err)
	}
	member := circle.MemberByID(userID)
	if member == nil {
		return nil, connect.NewError(connect.CodePermissionDenied, errPermission)
	}
	if member.Status == models.MemberDead {
		return nil, connect.NewError(connect.CodeFailedPrecondition, lifecycle.ErrAlreadyWon)
	}

	room, err := s.hub.Room(req.Msg.CircleID)
	if err != nil {
		return nil, hubError(err)
	}
	accepted := room.PlaceBid(userID, req.Msg.Amount)
	if accepted {
		slog.Info("Bid placed", "circle_id", req.Msg.CircleID, "user_id", userID, "amount", req.Msg.Amount)
	}
	return connect.NewResponse(&rpc.PlaceBidResponse{Accepted: accepted, Session: room.Snapshot()}), nil
}

// CloseRoom tears down a bidding room without recording an outcome.
func (s *AuctionService) CloseRoom(ctx context.Context, req *connect.Request[rpc.CloseRoomRequest]) (*connect.Response[rpc.CloseRoomResponse], error) {
	circle, err := s.store.GetCircle(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, storeError(err)
	}
	if !canAdminister(ctx, circle) {
		return nil, connect.NewError(connect.CodePermissionDenied, errPermission)
	}
	s.hub.Close(req.Msg.CircleID)
	slog.Info("Bidding room closed", "circle_id", req.Msg.CircleID)
	return connect.NewResponse(&rpc.CloseRoomResponse{}), nil
}

// Subscribe streams session events to a participant until the room closes or
// the client disconnects. Every event carries a full snapshot, so clients
// recover from any missed delivery on the next event.
func (s *AuctionService) Subscribe(ctx context.Context, req *connect.Request[rpc.SubscribeRequest], stream *connect.ServerStream[rpc.AuctionEvent]) error {
	ctx, err := middleware.AuthenticateHeader(ctx, s.jwtManager, req.Header().Get("Authorization"))
	if err != nil {
		return err
	}
	userID := middleware.GetUserID(ctx)

	circle, err := s.store.GetCircle(ctx, req.Msg.CircleID)
	if err != nil {
		return storeError(err)
	}
	if !canView(ctx, circle) {
		return connect.NewError(connect.CodePermissionDenied, errPermission)
	}

	room, err := s.hub.Room(req.Msg.CircleID)
	if err != nil {
		return hubError(err)
	}
	events, cancel := room.Subscribe()
	defer cancel()

	slog.Info("Auction subscriber joined", "circle_id", req.Msg.CircleID, "user_id", userID)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := stream.Send(&ev); err != nil {
				return err
			}
			if ev.Session.Status == auction.StatusFinished {
				return nil
			}
		}
	}
}
