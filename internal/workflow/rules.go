package workflow

import "github.com/spec-kit/query-desk/internal/domain"

// rule describes what an admin-initiated transition to a target status needs.
type rule struct {
	adminInitiable  bool
	requiresPayment bool
}

// transitionRules is keyed by target status only: the engine validates the
// shape of the incoming request, not the record's history, so moves such as
// resolved back to in_progress remain possible. Tightening that later is a
// change to this table alone.
var transitionRules = map[domain.QueryStatus]rule{
	domain.QueryStatusNew:        {adminInitiable: false},
	domain.QueryStatusInProgress: {adminInitiable: true, requiresPayment: true},
	domain.QueryStatusResolved:   {adminInitiable: true},
}
