// Package service implements the Connect RPC services on top of the domain
// packages: storage, lifecycle, calculator, auction, importer, and the
// slip/notification collaborators.
package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/teeraphan/wongshare/internal/middleware"
	"github.com/teeraphan/wongshare/internal/models"
	"github.com/teeraphan/wongshare/internal/storage"
)

var errPermission = errors.New("not allowed for this user")

// storeError maps storage failures onto Connect codes.
func storeError(err error) *connect.Error {
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

// canAdminister reports whether the calling user may run admin operations on
// the circle: its owner, or a system admin.
func canAdminister(ctx context.Context, circle *models.Circle) bool {
	if middleware.GetRole(ctx) == models.RoleSystemAdmin {
		return true
	}
	return circle.OwnerID != "" && circle.OwnerID == middleware.GetUserID(ctx)
}

// canView reports whether the calling user may read the circle: admins per
// canAdminister, plus any member.
func canView(ctx context.Context, circle *models.Circle) bool {
	if canAdminister(ctx, circle) {
		return true
	}
	return circle.MemberByID(middleware.GetUserID(ctx)) != nil
}

// currentRound returns the round being collected right now: the highest
// COLLECTING round, or nil if none is.
func currentRound(circle *models.Circle) *models.ShareRound {
	var current *models.ShareRound
	for i := range circle.Rounds {
		if circle.Rounds[i].Status == models.RoundCollecting {
			current = &circle.Rounds[i]
		}
	}
	return current
}
