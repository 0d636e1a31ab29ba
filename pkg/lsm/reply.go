package lsm

import (
	"context"
	"fmt"
)

// Reply addresses the continuation of an issued ledger command.
// The host delivers the command outcome to the module named here.
type Reply struct {
	Module string `json:"module"`
	ID     uint64 `json:"id"`
}

func (r Reply) String() string {
	return fmt.Sprintf("%s/%d", r.Module, r.ID)
}

// ReplyHandler consumes the outcome of a command it issued.
type ReplyHandler interface {
	OnReply(ctx context.Context, id uint64, success bool) error
}
