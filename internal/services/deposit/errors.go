package deposit

import (
	apperrors "github.com/tuantrunglc/ecom-backend-api/internal/errors"
)

// Client-facing messages
const (
	MsgForbidden        = "access denied"
	MsgNotFound         = "deposit request not found"
	MsgAlreadyProcessed = "deposit already processed"
)

func errForbidden() error        { return apperrors.Forbidden(MsgForbidden) }
func errNotFound() error         { return apperrors.NotFound(MsgNotFound) }
func errAlreadyProcessed() error { return apperrors.InvalidState(MsgAlreadyProcessed) }
