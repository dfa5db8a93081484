package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/teeraphan/wongshare/internal/auction"
	"github.com/teeraphan/wongshare/internal/calculator"
	"github.com/teeraphan/wongshare/internal/lifecycle"
	"github.com/teeraphan/wongshare/internal/middleware"
	"github.com/teeraphan/wongshare/internal/models"
	"github.com/teeraphan/wongshare/internal/notify"
	"github.com/teeraphan/wongshare/internal/rpc"
	"github.com/teeraphan/wongshare/internal/storage"
)

// CircleService implements the Connect CircleService: circle CRUD plus the
// lifecycle transitions (start, record bid, complete round, close).
type CircleService struct {
	store    storage.Store
	hub      *auction.Hub
	notifier notify.Notifier
}

// NewCircleService creates a new CircleService.
func NewCircleService(store storage.Store, hub *auction.Hub, notifier notify.Notifier) *CircleService {
	return &CircleService{store: store, hub: hub, notifier: notifier}
}

// load fetches the circle and checks the caller may administer it.
func (s *CircleService) loadForAdmin(ctx context.Context, circleID string) (*models.Circle, error) {
	circle, err := s.store.GetCircle(ctx, circleID)
	if err != nil {
		return nil, storeError(err)
	}
	if !canAdminister(ctx, circle) {
		return nil, connect.NewError(connect.CodePermissionDenied, errPermission)
	}
	return circle, nil
}

// lifecycleError maps lifecycle failures onto Connect codes.
func lifecycleError(err error) *connect.Error {
	switch {
	case errors.Is(err, lifecycle.ErrRoundNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, lifecycle.ErrWinnerUnknown):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeFailedPrecondition, err)
	}
}

// CreateCircle validates and persists a new circle in INITIALIZING state.
func (s *CircleService) CreateCircle(ctx context.Context, req *connect.Request[rpc.CreateCircleRequest]) (*connect.Response[rpc.CircleResponse], error) {
	role := middleware.GetRole(ctx)
	slog.Info("CreateCircle request", "name", req.Msg.Circle.Name, "role", role)

	if role != models.RoleCircleAdmin && role != models.RoleSystemAdmin {
		return nil, connect.NewError(connect.CodePermissionDenied, errPermission)
	}

	circle := req.Msg.Circle
	if circle.OwnerID == "" {
		circle.OwnerID = middleware.GetUserID(ctx)
	}
	if err := lifecycle.New(&circle); err != nil {
		slog.Warn("CreateCircle rejected", "name", circle.Name, "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	if err := s.store.CreateCircle(ctx, &circle); err != nil {
		slog.Error("CreateCircle failed", "error", err)
		return nil, storeError(err)
	}

	slog.Info("Circle created", "circle_id", circle.ID, "name", circle.Name)
	s.notifier.Send(fmt.Sprintf("เปิดวงใหม่: %s (%d มือ)", circle.Name, circle.TotalSlots), "")
	return connect.NewResponse(&rpc.CircleResponse{Circle: circle}), nil
}

// GetCircle retrieves one circle aggregate.
func (s *CircleService) GetCircle(ctx context.Context, req *connect.Request[rpc.GetCircleRequest]) (*connect.Response[rpc.CircleResponse], error) {
	circle, err := s.store.GetCircle(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, storeError(err)
	}
	if !canView(ctx, circle) {
		return nil, connect.NewError(connect.CodePermissionDenied, errPermission)
	}
	return connect.NewResponse(&rpc.CircleResponse{Circle: *circle}), nil
}

// ListCircles returns the circles visible to the caller's role.
func (s *CircleService) ListCircles(ctx context.Context, req *connect.Request[rpc.ListCirclesRequest]) (*connect.Response[rpc.ListCirclesResponse], error) {
	circles, err := s.store.ListCircles(ctx, middleware.GetRole(ctx), middleware.GetUserID(ctx))
	if err != nil {
		slog.Error("ListCircles failed", "error", err)
		return nil, storeError(err)
	}
	out := make([]models.Circle, len(circles))
	for i, c := range circles {
		out[i] = *c
	}
	return connect.NewResponse(&rpc.ListCirclesResponse{Circles: out}), nil
}

// UpdateCircle patches the supplied circle fields and returns the fresh
// aggregate.
func (s *CircleService) UpdateCircle(ctx context.Context, req *connect.Request[rpc.UpdateCircleRequest]) (*connect.Response[rpc.CircleResponse], error) {
	if _, err := s.loadForAdmin(ctx, req.Msg.CircleID); err != nil {
		return nil, err
	}
	if err := s.store.UpdateCircle(ctx, req.Msg.CircleID, req.Msg.Fields); err != nil {
		slog.Error("UpdateCircle failed", "circle_id", req.Msg.CircleID, "error", err)
		return nil, storeError(err)
	}
	circle, err := s.store.GetCircle(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, storeError(err)
	}
	return connect.NewResponse(&rpc.CircleResponse{Circle: *circle}), nil
}

// UpdateSlot patches the supplied fields of one slot.
func (s *CircleService) UpdateSlot(ctx context.Context, req *connect.Request[rpc.UpdateSlotRequest]) (*connect.Response[rpc.CircleResponse], error) {
	if _, err := s.loadForAdmin(ctx, req.Msg.CircleID); err != nil {
		return nil, err
	}
	if err := s.store.UpdateSlot(ctx, req.Msg.CircleID, req.Msg.SlotNumber, req.Msg.Fields); err != nil {
		slog.Error("UpdateSlot failed", "circle_id", req.Msg.CircleID, "slot", req.Msg.SlotNumber, "error", err)
		return nil, storeError(err)
	}
	circle, err := s.store.GetCircle(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, storeError(err)
	}
	return connect.NewResponse(&rpc.CircleResponse{Circle: *circle}), nil
}

// DeleteCircle removes a circle and everything under it.
func (s *CircleService) DeleteCircle(ctx context.Context, req *connect.Request[rpc.DeleteCircleRequest]) (*connect.Response[rpc.DeleteCircleResponse], error) {
	if _, err := s.loadForAdmin(ctx, req.Msg.CircleID); err != nil {
		return nil, err
	}
	if err := s.store.DeleteCircle(ctx, req.Msg.CircleID); err != nil {
		slog.Error("DeleteCircle failed", "circle_id", req.Msg.CircleID, "error", err)
		return nil, storeError(err)
	}
	s.hub.Close(req.Msg.CircleID)
	slog.Info("Circle deleted", "circle_id", req.Msg.CircleID)
	return connect.NewResponse(&rpc.DeleteCircleResponse{}), nil
}

// StartCircle runs the setup transition: full roster required, founder takes
// round 1, round 2 opens.
func (s *CircleService) StartCircle(ctx context.Context, req *connect.Request[rpc.StartCircleRequest]) (*connect.Response[rpc.CircleResponse], error) {
	circle, err := s.loadForAdmin(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.Start(circle); err != nil {
		slog.Warn("StartCircle rejected", "circle_id", circle.ID, "error", err)
		return nil, lifecycleError(err)
	}
	if err := s.store.SaveCircle(ctx, circle); err != nil {
		slog.Error("StartCircle save failed", "circle_id", circle.ID, "error", err)
		return nil, storeError(err)
	}
	slog.Info("Circle started", "circle_id", circle.ID)
	s.notifier.Send(fmt.Sprintf("วง %s เริ่มแล้ว งวดแรกของเท้าแชร์", circle.Name), "")
	return connect.NewResponse(&rpc.CircleResponse{Circle: *circle}), nil
}

// RecordBid records a round's winner and settles the auction room, if one is
// still open for the circle.
func (s *CircleService) RecordBid(ctx context.Context, req *connect.Request[rpc.RecordBidRequest]) (*connect.Response[rpc.CircleResponse], error) {
	circle, err := s.loadForAdmin(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.RecordBid(circle, req.Msg.RoundNumber, req.Msg.WinnerID, req.Msg.BidAmount, req.Msg.TotalPot); err != nil {
		slog.Warn("RecordBid rejected", "circle_id", circle.ID, "round", req.Msg.RoundNumber, "error", err)
		return nil, lifecycleError(err)
	}
	if err := s.store.SaveCircle(ctx, circle); err != nil {
		slog.Error("RecordBid save failed", "circle_id", circle.ID, "error", err)
		return nil, storeError(err)
	}
	// The bidding room is transient; the recorded outcome supersedes it.
	s.hub.Close(circle.ID)

	winner := circle.MemberByID(req.Msg.WinnerID)
	name := req.Msg.WinnerID
	if winner != nil {
		name = winner.DisplayName
	}
	slog.Info("Bid recorded", "circle_id", circle.ID, "round", req.Msg.RoundNumber, "winner", req.Msg.WinnerID, "bid", req.Msg.BidAmount)
	s.notifier.Send(fmt.Sprintf("วง %s งวดที่ %d: %s เปีย %s", circle.Name, req.Msg.RoundNumber, name, req.Msg.BidAmount), "")
	return connect.NewResponse(&rpc.CircleResponse{Circle: *circle}), nil
}

// CompleteRound marks a collecting round as done.
func (s *CircleService) CompleteRound(ctx context.Context, req *connect.Request[rpc.CompleteRoundRequest]) (*connect.Response[rpc.CircleResponse], error) {
	circle, err := s.loadForAdmin(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CompleteRound(circle, req.Msg.RoundNumber); err != nil {
		return nil, lifecycleError(err)
	}
	if err := s.store.SaveCircle(ctx, circle); err != nil {
		return nil, storeError(err)
	}
	slog.Info("Round completed", "circle_id", circle.ID, "round", req.Msg.RoundNumber)
	return connect.NewResponse(&rpc.CircleResponse{Circle: *circle}), nil
}

// CloseCircle archives a circle.
func (s *CircleService) CloseCircle(ctx context.Context, req *connect.Request[rpc.CloseCircleRequest]) (*connect.Response[rpc.CircleResponse], error) {
	circle, err := s.loadForAdmin(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, err
	}
	lifecycle.Close(circle)
	if err := s.store.SaveCircle(ctx, circle); err != nil {
		return nil, storeError(err)
	}
	s.hub.Close(circle.ID)
	slog.Info("Circle closed", "circle_id", circle.ID)
	return connect.NewResponse(&rpc.CircleResponse{Circle: *circle}), nil
}

// ListSlots returns the circle's slots in payout order, each with its display
// label and the amount due in the current round.
func (s *CircleService) ListSlots(ctx context.Context, req *connect.Request[rpc.ListSlotsRequest]) (*connect.Response[rpc.ListSlotsResponse], error) {
	circle, err := s.store.GetCircle(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, storeError(err)
	}
	if !canView(ctx, circle) {
		return nil, connect.NewError(connect.CodePermissionDenied, errPermission)
	}

	round := currentRound(circle)
	slots := calculator.SortSlots(circle)
	out := make([]rpc.SlotView, len(slots))
	for i, slot := range slots {
		view := rpc.SlotView{
			SlotNumber:  slot.Member.SlotNumber,
			Empty:       slot.Empty,
			Member:      slot.Member,
			DisplayDraw: calculator.DisplayDraw(circle, slot),
		}
		if !slot.Empty && round != nil {
			view.Due = calculator.Due(circle, round, &slot.Member)
		}
		out[i] = view
	}
	return connect.NewResponse(&rpc.ListSlotsResponse{Slots: out}), nil
}

// RateMember writes the advisory risk and credit scores on a member's user
// record. The scores inform future circle admissions; nothing in the engine
// acts on them.
func (s *CircleService) RateMember(ctx context.Context, req *connect.Request[rpc.RateMemberRequest]) (*connect.Response[rpc.RateMemberResponse], error) {
	circle, err := s.loadForAdmin(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, err
	}
	if circle.MemberByID(req.Msg.MemberID) == nil {
		return nil, connect.NewError(connect.CodeNotFound, storage.ErrNotFound)
	}
	fields := map[string]any{
		"riskScore":   req.Msg.RiskScore,
		"creditScore": req.Msg.CreditScore,
	}
	if err := s.store.UpdateUser(ctx, req.Msg.MemberID, fields); err != nil {
		slog.Error("RateMember failed", "circle_id", circle.ID, "member_id", req.Msg.MemberID, "error", err)
		return nil, storeError(err)
	}
	user, err := s.store.GetUserByID(ctx, req.Msg.MemberID)
	if err != nil {
		return nil, storeError(err)
	}
	slog.Info("Member rated", "circle_id", circle.ID, "member_id", req.Msg.MemberID, "risk", req.Msg.RiskScore, "credit", req.Msg.CreditScore)
	return connect.NewResponse(&rpc.RateMemberResponse{User: *user}), nil
}
