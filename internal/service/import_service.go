package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/teeraphan/wongshare/internal/importer"
	"github.com/teeraphan/wongshare/internal/rpc"
)

// ImportService implements the Connect ImportService: heuristic extraction
// of circle drafts from pasted announcement text.
type ImportService struct{}

// NewImportService creates a new ImportService.
func NewImportService() *ImportService {
	return &ImportService{}
}

// ParseScript extracts a circle draft from unstructured text. Extraction
// never fails; unrecognized input yields an empty draft.
func (s *ImportService) ParseScript(ctx context.Context, req *connect.Request[rpc.ParseScriptRequest]) (*connect.Response[rpc.ParseScriptResponse], error) {
	draft := importer.Parse(req.Msg.Text)
	slog.Info("ParseScript", "chars", len(req.Msg.Text), "fields", len(draft.Provenance), "members", len(draft.Members))
	return connect.NewResponse(&rpc.ParseScriptResponse{Draft: *draft}), nil
}
