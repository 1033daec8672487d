package motif

import "errors"

// Errors
var (
	ErrInvalidSize     = errors.New("invalid census size")
	ErrBadNodeID       = errors.New("bad graph node ID")
	ErrSelfLoop        = errors.New("self loops are not supported")
	ErrDupEdge         = errors.New("duplicate graph edge")
	ErrLabelConflict   = errors.New("conflicting node labels")
	ErrBadGraphExpr    = errors.New("bad graph expression")
	ErrBadCatalogParam = errors.New("bad catalog param")
	ErrNilGraph        = errors.New("nil graph")
	ErrBrokenPartition = errors.New("partition invariant violated")
	ErrBrokenMapping   = errors.New("partial mapping invariant violated")
)
